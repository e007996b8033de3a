package voxel

import (
	"fmt"
	"iter"

	"VoxelMap/shared/util"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

// Bounds é uma região alinhada aos eixos em coordenadas de voxel.
// O canto mínimo é inclusivo e o máximo é exclusivo.
type Bounds struct {
	min util.Coord
	max util.Coord
}

// NewBounds cria uma região com os cantos informados.
// Entra em pânico se min > max em qualquer eixo (erro de programação).
func NewBounds(min, max util.Coord) Bounds {
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		panic(fmt.Sprintf("voxel: bounds inválido, min %s > max %s", min, max))
	}
	return Bounds{min: min, max: max}
}

// EmptyBounds retorna uma região vazia na origem.
func EmptyBounds() Bounds {
	return Bounds{}
}

func (b Bounds) Min() util.Coord { return b.min }
func (b Bounds) Max() util.Coord { return b.max }

// Center retorna o ponto médio inteiro da região.
func (b Bounds) Center() util.Coord {
	return util.Coord{
		X: b.min.X + (b.max.X-b.min.X)/2,
		Y: b.min.Y + (b.max.Y-b.min.Y)/2,
		Z: b.min.Z + (b.max.Z-b.min.Z)/2,
	}
}

// Extent retorna o tamanho da região em cada eixo.
func (b Bounds) Extent() util.Dims {
	return util.Dims{
		X: uint32(int64(b.max.X) - int64(b.min.X)),
		Y: uint32(int64(b.max.Y) - int64(b.min.Y)),
		Z: uint32(int64(b.max.Z) - int64(b.min.Z)),
	}
}

// Contains verifica se a coordenada está dentro da região.
func (b Bounds) Contains(c util.Coord) bool {
	return c.X >= b.min.X && c.X < b.max.X &&
		c.Y >= b.min.Y && c.Y < b.max.Y &&
		c.Z >= b.min.Z && c.Z < b.max.Z
}

// Intersects verifica se as duas regiões se sobrepõem em todos os eixos.
func (b Bounds) Intersects(other Bounds) bool {
	return (b.min.X < other.max.X && b.max.X > other.min.X) &&
		(b.min.Y < other.max.Y && b.max.Y > other.min.Y) &&
		(b.min.Z < other.max.Z && b.max.Z > other.min.Z)
}

// Volume retorna o número de coordenadas dentro da região.
func (b Bounds) Volume() uint64 {
	return b.Extent().Volume()
}

// IsEmpty indica se a região não contém nenhuma coordenada.
func (b Bounds) IsEmpty() bool {
	return b.Volume() == 0
}

// String retorna a representação em string da região.
func (b Bounds) String() string {
	return fmt.Sprintf("[%s, %s)", b.min, b.max)
}

// Iter cria um iterador linear sobre a região.
func (b Bounds) Iter() *LinearIter {
	return NewLinearIter(b)
}

// All percorre a região na mesma ordem do LinearIter.
// Cada chamada recomeça do canto mínimo.
func (b Bounds) All() iter.Seq[util.Coord] {
	return func(yield func(util.Coord) bool) {
		it := b.Iter()
		for c, ok := it.Next(); ok; c, ok = it.Next() {
			if !yield(c) {
				return
			}
		}
	}
}

// LinearIter percorre todas as coordenadas de uma região:
// X varia mais rápido, depois Y, depois Z.
type LinearIter struct {
	track  util.Coord
	bounds Bounds
	done   bool
}

// NewLinearIter cria um novo iterador. Regiões de volume zero não produzem nada.
func NewLinearIter(b Bounds) *LinearIter {
	return &LinearIter{
		track:  b.min,
		bounds: b,
		done:   b.IsEmpty(),
	}
}

// Next retorna a próxima coordenada, ou false quando a região acabou.
func (it *LinearIter) Next() (util.Coord, bool) {
	if it.done || it.track.Z >= it.bounds.max.Z {
		it.done = true
		return util.Coord{}, false
	}

	ret := it.track

	it.track.X++
	if it.track.X >= it.bounds.max.X {
		it.track.X = it.bounds.min.X
		it.track.Y++
		if it.track.Y >= it.bounds.max.Y {
			it.track.Y = it.bounds.min.Y
			it.track.Z++
		}
	}

	return ret, true
}

// Reset volta o iterador para o início da região.
func (it *LinearIter) Reset() {
	it.track = it.bounds.min
	it.done = it.bounds.IsEmpty()
}

// ComputeRenderBounds combina a região pedida pelo chamador com os limites do armazenamento.
//   - nenhum dos dois: loga erro e retorna uma região vazia (nunca itera espaço infinito)
//   - apenas um: usa esse diretamente
//   - ambos: cada eixo da região pedida é limitado (clamp) aos limites do armazenamento
func ComputeRenderBounds(requested Bounds, hasRequested bool, storage Bounds, hasStorage bool) Bounds {
	switch {
	case !hasRequested && !hasStorage:
		logrus.Errorf("[Voxel] Limites infinitos calculados para renderização do VoxelMap")
		return EmptyBounds()
	case hasRequested && !hasStorage:
		return requested
	case !hasRequested && hasStorage:
		return storage
	}

	lo3 := storage.min
	hi3 := storage.max
	min := util.Coord{
		X: lo.Clamp(requested.min.X, lo3.X, hi3.X),
		Y: lo.Clamp(requested.min.Y, lo3.Y, hi3.Y),
		Z: lo.Clamp(requested.min.Z, lo3.Z, hi3.Z),
	}
	max := util.Coord{
		X: lo.Clamp(requested.max.X, lo3.X, hi3.X),
		Y: lo.Clamp(requested.max.Y, lo3.Y, hi3.Y),
		Z: lo.Clamp(requested.max.Z, lo3.Z, hi3.Z),
	}

	// O clamp é monotônico, então min <= max sempre vale para uma região pedida válida.
	// Mesmo assim validamos antes de construir para nunca violar o invariante.
	if min.X > max.X || min.Y > max.Y || min.Z > max.Z {
		logrus.Warnf("[Voxel] Região pedida %s invertida após clamp em %s, usando região vazia", requested, storage)
		return EmptyBounds()
	}
	return NewBounds(min, max)
}
