package scene

import (
	"iter"

	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
)

// Transform é a matriz de mundo de uma instância de mapa.
type Transform struct {
	Matrix mgl32.Mat4
}

// Hidden marca uma instância que não deve ser desenhada.
type Hidden struct{}

// VoxelMap é o componente que carrega o mapa de voxels de uma entidade.
type VoxelMap[V voxel.Voxel] struct {
	Map *voxel.Map[V]
}

// Scene é o mundo ECS que guarda as instâncias de mapas de voxels.
// Não é thread-safe: mutações estruturais e Prepare rodam na mesma goroutine.
type Scene[V voxel.Voxel] struct {
	world *ecs.World
}

// New cria uma cena vazia.
func New[V voxel.Voxel]() *Scene[V] {
	return &Scene[V]{world: ecs.NewWorld()}
}

// World expõe o mundo ECS para sistemas do host.
func (s *Scene[V]) World() *ecs.World { return s.world }

// Spawn cria uma entidade com o mapa e, opcionalmente, um Transform.
func (s *Scene[V]) Spawn(m *voxel.Map[V], transform *mgl32.Mat4) ecs.Entity {
	e := ecs.NewMap[VoxelMap[V]](s.world).NewEntity(&VoxelMap[V]{Map: m})
	if transform != nil {
		ecs.NewMap[Transform](s.world).Add(e, &Transform{Matrix: *transform})
	}
	return e
}

// Despawn remove a entidade (e o mapa) da cena.
func (s *Scene[V]) Despawn(e ecs.Entity) {
	if s.world.Alive(e) {
		s.world.RemoveEntity(e)
	}
}

// Map retorna o mapa de uma entidade.
func (s *Scene[V]) Map(e ecs.Entity) (*voxel.Map[V], bool) {
	if !s.world.Alive(e) {
		return nil, false
	}
	maps := ecs.NewMap[VoxelMap[V]](s.world)
	if !maps.Has(e) {
		return nil, false
	}
	return maps.Get(e).Map, true
}

// SetTransform define (ou substitui) a matriz de mundo da entidade.
func (s *Scene[V]) SetTransform(e ecs.Entity, m mgl32.Mat4) {
	transforms := ecs.NewMap[Transform](s.world)
	if transforms.Has(e) {
		transforms.Get(e).Matrix = m
		return
	}
	transforms.Add(e, &Transform{Matrix: m})
}

// ClearTransform remove o Transform; a instância passa a usar a identidade.
func (s *Scene[V]) ClearTransform(e ecs.Entity) {
	transforms := ecs.NewMap[Transform](s.world)
	if transforms.Has(e) {
		transforms.Remove(e)
	}
}

// Hide oculta a instância.
func (s *Scene[V]) Hide(e ecs.Entity) {
	hidden := ecs.NewMap[Hidden](s.world)
	if !hidden.Has(e) {
		hidden.Add(e, &Hidden{})
	}
}

// Show volta a exibir a instância.
func (s *Scene[V]) Show(e ecs.Entity) {
	hidden := ecs.NewMap[Hidden](s.world)
	if hidden.Has(e) {
		hidden.Remove(e)
	}
}

// IsHidden informa se a instância está oculta.
func (s *Scene[V]) IsHidden(e ecs.Entity) bool {
	return ecs.NewMap[Hidden](s.world).Has(e)
}

// Len retorna o número de instâncias de mapa na cena.
func (s *Scene[V]) Len() int {
	n := 0
	query := ecs.NewFilter1[VoxelMap[V]](s.world).Query()
	for query.Next() {
		n++
	}
	return n
}

// VisibleMaps percorre as instâncias sem Hidden, na ordem do ECS.
// O transform é nil quando a entidade não tem Transform.
func (s *Scene[V]) VisibleMaps() iter.Seq2[*voxel.Map[V], *mgl32.Mat4] {
	return func(yield func(*voxel.Map[V], *mgl32.Mat4) bool) {
		transforms := ecs.NewMap[Transform](s.world)
		query := ecs.NewFilter1[VoxelMap[V]](s.world).Without(ecs.C[Hidden]()).Query()
		for query.Next() {
			var matrix *mgl32.Mat4
			if e := query.Entity(); transforms.Has(e) {
				m := transforms.Get(e).Matrix
				matrix = &m
			}
			if !yield(query.Get().Map, matrix) {
				query.Close()
				return
			}
		}
	}
}
