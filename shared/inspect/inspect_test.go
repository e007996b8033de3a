package inspect

import (
	"bytes"
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/render"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"
)

func sampleFrame(t *testing.T, seq uint64) Frame {
	t.Helper()
	tc := assets.TexCoords{Left: 0, Right: 0.5, Top: 0, Bottom: 0.5}
	b := render.NewBatch()
	b.SwapClear()
	b.Insert(7, 0,
		render.NewInstanceRecord(tc, voxel.White, util.NewCoord(1, 2, 3), voxel.FacePosX),
		render.NewInstanceRecord(tc, voxel.White, util.NewCoord(1, 2, 3), voxel.FaceNegX))
	b.Insert(3, 1, render.NewInstanceRecord(tc, voxel.RGBA8(255, 0, 0, 128), util.NewCoord(0, 0, 0), voxel.FacePosZ))
	b.Finish()

	res := render.PrepareResult{Dirty: true, Maps: 2, Skipped: 1, Instances: b.Count(), Elapsed: 1500 * time.Microsecond}
	return NewFrame(seq, "sessao-teste", 1, res, b)
}

func TestFrameRoundTrip(t *testing.T) {
	f := sampleFrame(t, 42)
	got, err := UnmarshalFrame(f.AppendTo(nil))
	if err != nil {
		t.Fatalf("UnmarshalFrame() err = %v", err)
	}

	if got.Seq != 42 || got.Session != "sessao-teste" || got.FrameIndex != 1 || !got.Dirty {
		t.Errorf("cabeçalho = %+v", got)
	}
	if got.Elapsed != 1500*time.Microsecond || got.Maps != 2 || got.Skipped != 1 {
		t.Errorf("estatísticas = (%v, %d, %d)", got.Elapsed, got.Maps, got.Skipped)
	}
	if got.Count() != 3 || !bytes.Equal(got.Instances, f.Instances) {
		t.Errorf("Count() = %d, want 3 (instâncias iguais: %v)", got.Count(), bytes.Equal(got.Instances, f.Instances))
	}
	if len(got.Groups) != 2 {
		t.Fatalf("len(Groups) = %d, want 2", len(got.Groups))
	}
	if got.Groups[0].Texture != 7 || got.Groups[1].Texture != 3 {
		t.Errorf("ordem das texturas = %v, %v", got.Groups[0].Texture, got.Groups[1].Texture)
	}
	want := render.SlotRange{Slot: 1, Start: 2, Count: 1}
	if len(got.Groups[1].Ranges) != 1 || got.Groups[1].Ranges[0] != want {
		t.Errorf("Ranges = %+v, want [%+v]", got.Groups[1].Ranges, want)
	}
}

func TestFrameIsSnapshot(t *testing.T) {
	tc := assets.TexCoords{Right: 1, Bottom: 1}
	b := render.NewBatch()
	b.SwapClear()
	b.Insert(1, 0, render.NewInstanceRecord(tc, voxel.White, util.NewCoord(0, 0, 0), voxel.FacePosY))
	b.Finish()
	f := NewFrame(1, "", 0, render.PrepareResult{}, b)

	b.SwapClear()
	b.Finish()
	if f.Count() != 1 || len(f.Groups) != 1 {
		t.Errorf("snapshot mudou após SwapClear: Count() = %d, Groups = %d", f.Count(), len(f.Groups))
	}
}

func TestUnmarshalCorrupt(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"tag truncada", []byte{0x80}},
		{"bytes truncados", []byte{0x32, 0x10, 0x01}},
		{"instância parcial", append([]byte{0x32, 0x05}, 1, 2, 3, 4, 5)},
	}
	for _, tt := range tests {
		if _, err := UnmarshalFrame(tt.data); !errors.Is(err, ErrCorruptFrame) {
			t.Errorf("%s: err = %v, want ErrCorruptFrame", tt.name, err)
		}
	}
}

func TestCodecCompression(t *testing.T) {
	c, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec() err = %v", err)
	}
	defer c.Close()

	f := sampleFrame(t, 9)
	got, err := c.Unmarshal(c.Marshal(f))
	if err != nil {
		t.Fatalf("Unmarshal() err = %v", err)
	}
	if got.Seq != 9 || got.Count() != 3 {
		t.Errorf("frame = seq %d, %d registros", got.Seq, got.Count())
	}

	if _, err := c.Unmarshal([]byte("não é zstd")); !errors.Is(err, ErrCorruptFrame) {
		t.Errorf("Unmarshal(lixo) err = %v, want ErrCorruptFrame", err)
	}
}

func TestHubBroadcast(t *testing.T) {
	codec, err := NewCodec()
	if err != nil {
		t.Fatalf("NewCodec() err = %v", err)
	}
	defer codec.Close()

	hub := NewHub(codec)
	srv := httptest.NewServer(hub)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	// Publicado antes da conexão: chega como snapshot inicial.
	hub.Publish(sampleFrame(t, 1))

	client, err := Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), codec)
	if err != nil {
		t.Fatalf("Dial() err = %v", err)
	}
	defer client.Close()
	_ = client.SetDeadline(time.Now().Add(5 * time.Second))

	first, err := client.Next()
	if err != nil {
		t.Fatalf("Next() err = %v", err)
	}
	if first.Seq != 1 {
		t.Errorf("primeiro frame seq = %d, want 1", first.Seq)
	}

	deadline := time.Now().Add(5 * time.Second)
	for hub.Clients() != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("Clients() = %d, want 1", hub.Clients())
		}
		time.Sleep(10 * time.Millisecond)
	}

	hub.Publish(sampleFrame(t, 2))
	for {
		f, err := client.Next()
		if err != nil {
			t.Fatalf("Next() err = %v", err)
		}
		if f.Seq == 2 {
			if f.Count() != 3 || len(f.Groups) != 2 {
				t.Errorf("frame 2 = %d registros, %d grupos", f.Count(), len(f.Groups))
			}
			break
		}
	}
}
