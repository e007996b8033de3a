package voxel

import (
	"VoxelMap/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// AtlasHandle identifica a sprite sheet (textura + retângulos UV) usada pelas faces de um mapa.
type AtlasHandle string

// Map combina um armazenamento de voxels com a transformação que centraliza
// a grade na origem local e o atlas das texturas das faces.
type Map[V Voxel] struct {
	data  Storage[V]
	atlas AtlasHandle

	// Aplicada antes do Transform da entidade.
	// Fixa durante a vida do mapa; editar voxels não altera o centro.
	placement mgl32.Mat4
}

// NewMap cria um mapa a partir de um armazenamento já preenchido.
// Armazenamentos sem limites ficam com a transformação identidade.
func NewMap[V Voxel](data Storage[V], atlas AtlasHandle) *Map[V] {
	placement := mgl32.Ident4()
	if b, ok := data.Bounds(); ok {
		c := b.Center().Vec3()
		placement = mgl32.Translate3D(-c.X(), -c.Y(), -c.Z())
	}
	return &Map[V]{
		data:      data,
		atlas:     atlas,
		placement: placement,
	}
}

// Atlas retorna o handle da sprite sheet do mapa.
func (m *Map[V]) Atlas() AtlasHandle { return m.atlas }

// PlacementTransform retorna a translação de centralização (-centro dos limites).
func (m *Map[V]) PlacementTransform() mgl32.Mat4 { return m.placement }

// Storage retorna o armazenamento subjacente.
func (m *Map[V]) Storage() Storage[V] { return m.data }

func (m *Map[V]) Origin() util.Coord             { return m.data.Origin() }
func (m *Map[V]) Dimensions() util.Dims          { return m.data.Dimensions() }
func (m *Map[V]) Bounds() (Bounds, bool)         { return m.data.Bounds() }
func (m *Map[V]) Get(c util.Coord) (V, bool)     { return m.data.Get(c) }
func (m *Map[V]) GetMut(c util.Coord) (*V, bool) { return m.data.GetMut(c) }

// Neighbors indica, para cada face, se existe um vizinho ocupado naquela direção.
// Vizinhos fora do armazenamento contam como vazios, então faces de borda nunca são descartadas.
func (m *Map[V]) Neighbors(c util.Coord, ctx any) [FaceCount]bool {
	var exists [FaceCount]bool
	for f, off := range FaceOffsets {
		n := c.Add(off)
		if v, ok := m.data.Get(n); ok {
			exists[f] = v.Occupied(n, ctx)
		}
	}
	return exists
}

// VisibleFaces aplica a regra de visibilidade a um voxel:
// a face é desenhada se não há vizinho ocupado OU se o voxel desliga o culling nela.
func (m *Map[V]) VisibleFaces(v V, c util.Coord, ctx any) [FaceCount]bool {
	neighbors := m.Neighbors(c, ctx)
	cull := NeighborCullingOf(v, c, ctx)

	var visible [FaceCount]bool
	for f := range visible {
		visible[f] = !neighbors[f] || !cull[f]
	}
	return visible
}
