package inspect

import (
	"errors"
	"fmt"
	"time"

	"VoxelMap/shared/render"

	"github.com/klauspost/compress/zstd"
	"google.golang.org/protobuf/encoding/protowire"
)

// ErrCorruptFrame indica um snapshot que não pôde ser decodificado.
var ErrCorruptFrame = errors.New("snapshot de frame corrompido")

// Números de campo do snapshot no formato protobuf.
const (
	fieldSeq        protowire.Number = 1
	fieldFrameIndex protowire.Number = 2
	fieldDirty      protowire.Number = 3
	fieldElapsedUs  protowire.Number = 4
	fieldGroup      protowire.Number = 5
	fieldInstances  protowire.Number = 6
	fieldSession    protowire.Number = 7
	fieldMaps       protowire.Number = 8
	fieldSkipped    protowire.Number = 9

	fieldGroupTexture protowire.Number = 1
	fieldGroupRange   protowire.Number = 2

	fieldRangeSlot  protowire.Number = 1
	fieldRangeStart protowire.Number = 2
	fieldRangeCount protowire.Number = 3
)

// Frame é um snapshot imutável de um Prepare, enviado aos inspetores.
type Frame struct {
	Seq        uint64
	Session    string
	FrameIndex int
	Dirty      bool
	Elapsed    time.Duration
	Maps       int
	Skipped    int
	Groups     []render.DrawGroup
	Instances  []byte
}

// NewFrame copia o estado atual do batch; o batch pode ser reutilizado logo depois.
func NewFrame(seq uint64, session string, index int, res render.PrepareResult, batch *render.Batch) Frame {
	f := Frame{
		Seq:        seq,
		Session:    session,
		FrameIndex: index,
		Dirty:      res.Dirty,
		Elapsed:    res.Elapsed,
		Maps:       res.Maps,
		Skipped:    res.Skipped,
		Instances:  append([]byte(nil), batch.Bytes()...),
	}
	for _, g := range batch.Groups() {
		f.Groups = append(f.Groups, render.DrawGroup{
			Texture: g.Texture,
			Ranges:  append([]render.SlotRange(nil), g.Ranges...),
		})
	}
	return f
}

// Count retorna o número de registros de instância no snapshot.
func (f Frame) Count() int { return len(f.Instances) / render.InstanceRecordSize }

// AppendTo serializa o frame no formato protobuf.
func (f Frame) AppendTo(b []byte) []byte {
	b = appendVarint(b, fieldSeq, f.Seq)
	b = appendVarint(b, fieldFrameIndex, uint64(f.FrameIndex))
	b = appendVarint(b, fieldDirty, protowire.EncodeBool(f.Dirty))
	b = appendVarint(b, fieldElapsedUs, uint64(f.Elapsed.Microseconds()))
	for _, g := range f.Groups {
		b = protowire.AppendTag(b, fieldGroup, protowire.BytesType)
		b = protowire.AppendBytes(b, appendGroup(nil, g))
	}
	if len(f.Instances) > 0 {
		b = protowire.AppendTag(b, fieldInstances, protowire.BytesType)
		b = protowire.AppendBytes(b, f.Instances)
	}
	if f.Session != "" {
		b = protowire.AppendTag(b, fieldSession, protowire.BytesType)
		b = protowire.AppendString(b, f.Session)
	}
	b = appendVarint(b, fieldMaps, uint64(f.Maps))
	b = appendVarint(b, fieldSkipped, uint64(f.Skipped))
	return b
}

func appendVarint(b []byte, num protowire.Number, v uint64) []byte {
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendGroup(b []byte, g render.DrawGroup) []byte {
	b = appendVarint(b, fieldGroupTexture, uint64(g.Texture))
	for _, r := range g.Ranges {
		var rb []byte
		rb = appendVarint(rb, fieldRangeSlot, uint64(r.Slot))
		rb = appendVarint(rb, fieldRangeStart, uint64(r.Start))
		rb = appendVarint(rb, fieldRangeCount, uint64(r.Count))
		b = protowire.AppendTag(b, fieldGroupRange, protowire.BytesType)
		b = protowire.AppendBytes(b, rb)
	}
	return b
}

// fields percorre os campos de uma mensagem; campos desconhecidos são ignorados pelo chamador.
func fields(b []byte, fn func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("%w: %v", ErrCorruptFrame, protowire.ParseError(n))
		}
		b = b[n:]

		var (
			v   uint64
			raw []byte
		)
		switch typ {
		case protowire.VarintType:
			v, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			raw, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
		}
		if n < 0 {
			return fmt.Errorf("%w: campo %d: %v", ErrCorruptFrame, num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(num, typ, v, raw); err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalFrame decodifica um frame serializado por AppendTo.
func UnmarshalFrame(b []byte) (Frame, error) {
	var f Frame
	err := fields(b, func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error {
		switch {
		case num == fieldSeq && typ == protowire.VarintType:
			f.Seq = v
		case num == fieldFrameIndex && typ == protowire.VarintType:
			f.FrameIndex = int(v)
		case num == fieldDirty && typ == protowire.VarintType:
			f.Dirty = protowire.DecodeBool(v)
		case num == fieldElapsedUs && typ == protowire.VarintType:
			f.Elapsed = time.Duration(v) * time.Microsecond
		case num == fieldMaps && typ == protowire.VarintType:
			f.Maps = int(v)
		case num == fieldSkipped && typ == protowire.VarintType:
			f.Skipped = int(v)
		case num == fieldSession && typ == protowire.BytesType:
			f.Session = string(raw)
		case num == fieldInstances && typ == protowire.BytesType:
			if len(raw)%render.InstanceRecordSize != 0 {
				return fmt.Errorf("%w: %d bytes de instância não formam registros", ErrCorruptFrame, len(raw))
			}
			f.Instances = append([]byte(nil), raw...)
		case num == fieldGroup && typ == protowire.BytesType:
			g, err := unmarshalGroup(raw)
			if err != nil {
				return err
			}
			f.Groups = append(f.Groups, g)
		}
		return nil
	})
	return f, err
}

func unmarshalGroup(b []byte) (render.DrawGroup, error) {
	var g render.DrawGroup
	err := fields(b, func(num protowire.Number, typ protowire.Type, v uint64, raw []byte) error {
		switch {
		case num == fieldGroupTexture && typ == protowire.VarintType:
			g.Texture = render.TextureID(v)
		case num == fieldGroupRange && typ == protowire.BytesType:
			var r render.SlotRange
			err := fields(raw, func(num protowire.Number, typ protowire.Type, v uint64, _ []byte) error {
				if typ != protowire.VarintType {
					return nil
				}
				switch num {
				case fieldRangeSlot:
					r.Slot = int(v)
				case fieldRangeStart:
					r.Start = uint32(v)
				case fieldRangeCount:
					r.Count = uint32(v)
				}
				return nil
			})
			if err != nil {
				return err
			}
			g.Ranges = append(g.Ranges, r)
		}
		return nil
	})
	return g, err
}

// Codec serializa e comprime frames com zstd. Seguro para uso concorrente.
type Codec struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewCodec cria o compressor e o descompressor.
func NewCodec() (*Codec, error) {
	enc, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("falha ao criar encoder zstd: %w", err)
	}
	dec, err := zstd.NewReader(nil)
	if err != nil {
		enc.Close()
		return nil, fmt.Errorf("falha ao criar decoder zstd: %w", err)
	}
	return &Codec{enc: enc, dec: dec}, nil
}

// Marshal serializa e comprime o frame.
func (c *Codec) Marshal(f Frame) []byte {
	return c.enc.EncodeAll(f.AppendTo(nil), nil)
}

// Unmarshal descomprime e decodifica um frame.
func (c *Codec) Unmarshal(data []byte) (Frame, error) {
	raw, err := c.dec.DecodeAll(data, nil)
	if err != nil {
		return Frame{}, fmt.Errorf("%w: %v", ErrCorruptFrame, err)
	}
	return UnmarshalFrame(raw)
}

// Close libera os recursos do zstd.
func (c *Codec) Close() {
	_ = c.enc.Close()
	c.dec.Close()
}
