package voxel

import (
	"testing"

	"VoxelMap/shared/util"
)

func TestBoundsIterYieldsVolume(t *testing.T) {
	tests := []struct {
		min, max util.Coord
	}{
		{util.NewCoord(0, 0, 0), util.NewCoord(1, 1, 1)},
		{util.NewCoord(0, 0, 0), util.NewCoord(3, 4, 5)},
		{util.NewCoord(-2, -1, -3), util.NewCoord(2, 1, 0)},
		{util.NewCoord(5, 5, 5), util.NewCoord(5, 9, 9)}, // degenerado em x
		{util.NewCoord(1, 2, 3), util.NewCoord(4, 2, 6)}, // degenerado em y
	}

	for _, tt := range tests {
		b := NewBounds(tt.min, tt.max)
		seen := make(map[util.Coord]bool)
		count := uint64(0)
		for c := range b.All() {
			if !b.Contains(c) {
				t.Errorf("%s: coordenada %s fora da região", b, c)
			}
			if seen[c] {
				t.Errorf("%s: coordenada %s repetida", b, c)
			}
			seen[c] = true
			count++
		}
		if count != b.Volume() {
			t.Errorf("%s: iterou %d coordenadas, want %d", b, count, b.Volume())
		}
	}
}

func TestBoundsIterOrder(t *testing.T) {
	b := NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(2, 2, 2))
	want := []util.Coord{
		util.NewCoord(0, 0, 0), util.NewCoord(1, 0, 0), util.NewCoord(0, 1, 0), util.NewCoord(1, 1, 0),
		util.NewCoord(0, 0, 1), util.NewCoord(1, 0, 1), util.NewCoord(0, 1, 1), util.NewCoord(1, 1, 1),
	}

	it := b.Iter()
	for i, w := range want {
		c, ok := it.Next()
		if !ok || c != w {
			t.Fatalf("Next() #%d = (%s, %v), want (%s, true)", i, c, ok, w)
		}
	}
	if _, ok := it.Next(); ok {
		t.Errorf("Next() depois do fim retornou ok")
	}

	it.Reset()
	if c, ok := it.Next(); !ok || c != want[0] {
		t.Errorf("Next() após Reset = (%s, %v), want (%s, true)", c, ok, want[0])
	}
}

func TestEmptyBounds(t *testing.T) {
	b := EmptyBounds()
	if b.Volume() != 0 {
		t.Errorf("EmptyBounds().Volume() = %d, want 0", b.Volume())
	}
	if !b.IsEmpty() {
		t.Errorf("EmptyBounds().IsEmpty() = false")
	}
	if _, ok := b.Iter().Next(); ok {
		t.Errorf("EmptyBounds().Iter() produziu uma coordenada")
	}
	if b.Contains(util.Origin()) {
		t.Errorf("EmptyBounds().Contains(origem) = true")
	}
}

func TestNewBoundsPanicsOnInverted(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("NewBounds com min > max não entrou em pânico")
		}
	}()
	NewBounds(util.NewCoord(0, 2, 0), util.NewCoord(1, 1, 1))
}

func TestBoundsContainsIntersects(t *testing.T) {
	a := NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(4, 4, 4))

	contains := []struct {
		c    util.Coord
		want bool
	}{
		{util.NewCoord(0, 0, 0), true},
		{util.NewCoord(3, 3, 3), true},
		{util.NewCoord(4, 0, 0), false},
		{util.NewCoord(0, -1, 0), false},
	}
	for _, tt := range contains {
		if got := a.Contains(tt.c); got != tt.want {
			t.Errorf("%s.Contains(%s) = %v, want %v", a, tt.c, got, tt.want)
		}
	}

	intersects := []struct {
		other Bounds
		want  bool
	}{
		{NewBounds(util.NewCoord(2, 2, 2), util.NewCoord(6, 6, 6)), true},
		{NewBounds(util.NewCoord(4, 0, 0), util.NewCoord(6, 4, 4)), false}, // apenas encosta
		{NewBounds(util.NewCoord(-3, -3, -3), util.NewCoord(1, 1, 1)), true},
		{NewBounds(util.NewCoord(0, 0, 5), util.NewCoord(4, 4, 6)), false},
	}
	for _, tt := range intersects {
		if got := a.Intersects(tt.other); got != tt.want {
			t.Errorf("%s.Intersects(%s) = %v, want %v", a, tt.other, got, tt.want)
		}
	}
}

func TestBoundsCenter(t *testing.T) {
	tests := []struct {
		b    Bounds
		want util.Coord
	}{
		{NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(8, 8, 8)), util.NewCoord(4, 4, 4)},
		{NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(3, 5, 1)), util.NewCoord(1, 2, 0)},
		{NewBounds(util.NewCoord(2, 2, 2), util.NewCoord(6, 10, 4)), util.NewCoord(4, 6, 3)},
	}
	for _, tt := range tests {
		if got := tt.b.Center(); got != tt.want {
			t.Errorf("%s.Center() = %s, want %s", tt.b, got, tt.want)
		}
	}
}

func TestComputeRenderBounds(t *testing.T) {
	storage := NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(8, 8, 8))

	tests := []struct {
		name         string
		requested    Bounds
		hasRequested bool
		storage      Bounds
		hasStorage   bool
		want         Bounds
	}{
		{
			name:       "apenas armazenamento",
			storage:    storage,
			hasStorage: true,
			want:       storage,
		},
		{
			name:         "apenas pedido",
			requested:    NewBounds(util.NewCoord(-5, -5, -5), util.NewCoord(5, 5, 5)),
			hasRequested: true,
			want:         NewBounds(util.NewCoord(-5, -5, -5), util.NewCoord(5, 5, 5)),
		},
		{
			name:         "clamp parcial",
			requested:    NewBounds(util.NewCoord(-2, -2, -2), util.NewCoord(4, 4, 4)),
			hasRequested: true,
			storage:      storage,
			hasStorage:   true,
			want:         NewBounds(util.NewCoord(0, 0, 0), util.NewCoord(4, 4, 4)),
		},
		{
			name:         "pedido maior que o armazenamento",
			requested:    NewBounds(util.NewCoord(-10, 2, -10), util.NewCoord(20, 6, 20)),
			hasRequested: true,
			storage:      storage,
			hasStorage:   true,
			want:         NewBounds(util.NewCoord(0, 2, 0), util.NewCoord(8, 6, 8)),
		},
		{
			name:         "pedido totalmente fora",
			requested:    NewBounds(util.NewCoord(10, 10, 10), util.NewCoord(12, 12, 12)),
			hasRequested: true,
			storage:      storage,
			hasStorage:   true,
			want:         NewBounds(util.NewCoord(8, 8, 8), util.NewCoord(8, 8, 8)),
		},
		{
			name: "nenhum dos dois",
			want: EmptyBounds(),
		},
	}

	for _, tt := range tests {
		got := ComputeRenderBounds(tt.requested, tt.hasRequested, tt.storage, tt.hasStorage)
		if got != tt.want {
			t.Errorf("%s: ComputeRenderBounds() = %s, want %s", tt.name, got, tt.want)
		}
		if tt.name == "pedido totalmente fora" && got.Volume() != 0 {
			t.Errorf("%s: volume = %d, want 0", tt.name, got.Volume())
		}
	}
}
