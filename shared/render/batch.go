package render

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
	"github.com/elliotchance/orderedmap/v2"
)

// TextureID identifica uma textura residente no backend de GPU.
type TextureID uint32

// SlotRange é uma faixa contígua de registros desenhada com o mesmo slot de uniform.
type SlotRange struct {
	Slot  int
	Start uint32
	Count uint32
}

// DrawGroup reúne as faixas de uma textura, na ordem em que foram emitidas.
type DrawGroup struct {
	Texture TextureID
	Ranges  []SlotRange
}

type slotRecord struct {
	slot   int
	record InstanceRecord
}

// Batch agrupa os registros de instância por textura (ordem da primeira ocorrência)
// preservando a ordem de emissão dentro de cada textura.
// É reconstruído a cada frame: SwapClear, Insert..., Finish.
type Batch struct {
	groups *orderedmap.OrderedMap[TextureID, []slotRecord]

	data  []InstanceRecord
	draws []DrawGroup
	bytes []byte

	fingerprint uint64
	previous    uint64
	hasPrevious bool
	finished    bool
	changed     bool
}

// NewBatch cria um batch vazio.
func NewBatch() *Batch {
	return &Batch{groups: orderedmap.NewOrderedMap[TextureID, []slotRecord]()}
}

// SwapClear guarda a assinatura do frame anterior e esvazia o batch.
func (b *Batch) SwapClear() {
	if b.finished {
		b.previous = b.fingerprint
		b.hasPrevious = true
	}
	b.groups = orderedmap.NewOrderedMap[TextureID, []slotRecord]()
	b.data = b.data[:0]
	b.draws = b.draws[:0]
	b.bytes = b.bytes[:0]
	b.changed = false
}

// Insert adiciona registros à textura tex associados ao slot de uniform.
func (b *Batch) Insert(tex TextureID, slot int, records ...InstanceRecord) {
	list, _ := b.groups.Get(tex)
	for _, r := range records {
		list = append(list, slotRecord{slot: slot, record: r})
	}
	b.groups.Set(tex, list)
}

// Finish monta os dados contíguos, as faixas de desenho e a flag de mudança.
func (b *Batch) Finish() {
	h := xxhash.New()
	var scratch [8]byte

	for el := b.groups.Front(); el != nil; el = el.Next() {
		group := DrawGroup{Texture: el.Key}
		binary.LittleEndian.PutUint32(scratch[:4], uint32(el.Key))
		_, _ = h.Write(scratch[:4])

		for _, sr := range el.Value {
			n := len(group.Ranges)
			if n > 0 && group.Ranges[n-1].Slot == sr.slot {
				group.Ranges[n-1].Count++
			} else {
				group.Ranges = append(group.Ranges, SlotRange{Slot: sr.slot, Start: uint32(len(b.data)), Count: 1})
			}
			b.data = append(b.data, sr.record)

			binary.LittleEndian.PutUint64(scratch[:], uint64(sr.slot))
			_, _ = h.Write(scratch[:])
			start := len(b.bytes)
			b.bytes = sr.record.AppendTo(b.bytes)
			_, _ = h.Write(b.bytes[start:])
		}
		b.draws = append(b.draws, group)
	}
	b.finished = true
	b.fingerprint = h.Sum64()
	b.changed = !b.hasPrevious || b.fingerprint != b.previous
}

// Changed indica se texturas, faixas ou registros mudaram desde o frame anterior.
func (b *Batch) Changed() bool { return b.changed }

// Fingerprint retorna o hash do conteúdo montado por Finish.
func (b *Batch) Fingerprint() uint64 { return b.fingerprint }

// Data retorna os registros contíguos, agrupados por textura.
func (b *Batch) Data() []InstanceRecord { return b.data }

// Bytes retorna Data serializado (InstanceRecordSize bytes por registro).
func (b *Batch) Bytes() []byte { return b.bytes }

// Count retorna o número total de registros.
func (b *Batch) Count() int { return len(b.data) }

// Groups retorna os grupos de desenho na ordem das texturas.
func (b *Batch) Groups() []DrawGroup { return b.draws }

// Textures retorna as texturas presentes no batch, em ordem.
func (b *Batch) Textures() []TextureID {
	out := make([]TextureID, 0, len(b.draws))
	for _, g := range b.draws {
		out = append(out, g.Texture)
	}
	return out
}
