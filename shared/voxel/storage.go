package voxel

import (
	"VoxelMap/shared/util"
)

// Storage provê acesso aos voxels por coordenada inteira.
// VecStorage guarda os voxels em um array denso; outras implementações
// (esparsas, paginadas, em arquivo) satisfazem a mesma interface.
type Storage[V any] interface {
	Origin() util.Coord
	Dimensions() util.Dims
	// Bounds retorna false quando o armazenamento não é limitado.
	Bounds() (Bounds, bool)
	Get(c util.Coord) (V, bool)
	// GetMut é o único caminho de mutação; exige acesso exclusivo enquanto o ponteiro for usado.
	GetMut(c util.Coord) (*V, bool)
}

// VecStorage armazena voxels em um slice denso endereçado por um Encoder.
// A origem é sempre (0, 0, 0).
type VecStorage[V any] struct {
	dims    util.Dims
	voxels  []V
	encoder Encoder
}

// NewVecStorage aloca o armazenamento no tamanho exigido pelo encoder, com voxels zerados.
func NewVecStorage[V any](encoder Encoder) *VecStorage[V] {
	return &VecStorage[V]{
		dims:    encoder.Dimensions(),
		voxels:  make([]V, encoder.AllocationSize()),
		encoder: encoder,
	}
}

func (s *VecStorage[V]) Origin() util.Coord { return util.Origin() }

func (s *VecStorage[V]) Dimensions() util.Dims { return s.dims }

func (s *VecStorage[V]) Bounds() (Bounds, bool) {
	return NewBounds(s.Origin(), s.Origin().AddDims(s.dims)), true
}

// Encoder retorna o encoder usado pelo armazenamento.
func (s *VecStorage[V]) Encoder() Encoder { return s.encoder }

func (s *VecStorage[V]) index(c util.Coord) (int, bool) {
	x, y, z, ok := c.Unsigned()
	if !ok {
		return 0, false
	}
	i, ok := s.encoder.Encode(x, y, z)
	if !ok || i >= len(s.voxels) {
		return 0, false
	}
	return i, true
}

func (s *VecStorage[V]) Get(c util.Coord) (V, bool) {
	i, ok := s.index(c)
	if !ok {
		var zero V
		return zero, false
	}
	return s.voxels[i], true
}

func (s *VecStorage[V]) GetMut(c util.Coord) (*V, bool) {
	i, ok := s.index(c)
	if !ok {
		return nil, false
	}
	return &s.voxels[i], true
}

// Fill preenche todas as coordenadas lógicas com o valor retornado por fn.
func (s *VecStorage[V]) Fill(fn func(c util.Coord) V) {
	b, _ := s.Bounds()
	for c := range b.All() {
		if v, ok := s.GetMut(c); ok {
			*v = fn(c)
		}
	}
}

// SparseStorage guarda apenas os voxels definidos, sem limites.
// Bounds() retorna false, então a região renderizada precisa vir de uma BoundsStrategy.
type SparseStorage[V any] struct {
	voxels map[util.Coord]*V
}

// NewSparseStorage cria um armazenamento esparso vazio.
func NewSparseStorage[V any]() *SparseStorage[V] {
	return &SparseStorage[V]{voxels: make(map[util.Coord]*V)}
}

func (s *SparseStorage[V]) Origin() util.Coord { return util.Origin() }

func (s *SparseStorage[V]) Dimensions() util.Dims { return util.Dims{} }

func (s *SparseStorage[V]) Bounds() (Bounds, bool) { return Bounds{}, false }

func (s *SparseStorage[V]) Get(c util.Coord) (V, bool) {
	if v, ok := s.voxels[c]; ok {
		return *v, true
	}
	var zero V
	return zero, false
}

// GetMut retorna o voxel existente; coordenadas nunca definidas retornam false.
func (s *SparseStorage[V]) GetMut(c util.Coord) (*V, bool) {
	v, ok := s.voxels[c]
	return v, ok
}

// Set define o voxel em c.
func (s *SparseStorage[V]) Set(c util.Coord, v V) {
	s.voxels[c] = &v
}

// Len retorna o número de voxels definidos.
func (s *SparseStorage[V]) Len() int {
	return len(s.voxels)
}
