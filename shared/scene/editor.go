package scene

import (
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/mlange-42/ark/ecs"
	"github.com/sirupsen/logrus"
)

type editKey struct {
	entity ecs.Entity
	coord  util.Coord
}

// Editor serializa edições de voxels vindas de qualquer goroutine.
// As edições ficam enfileiradas (última escrita vence) até Flush, chamado
// pela goroutine de render antes do Prepare.
type Editor[V voxel.Voxel] struct {
	scene *Scene[V]
	queue *util.UniqueQueue[editKey, V]
}

// NewEditor cria um editor para a cena.
func NewEditor[V voxel.Voxel](s *Scene[V]) *Editor[V] {
	return &Editor[V]{
		scene: s,
		queue: util.NewUniqueQueue[editKey, V](),
	}
}

// Set enfileira a troca do voxel em c. Seguro para uso concorrente.
func (ed *Editor[V]) Set(e ecs.Entity, c util.Coord, v V) {
	ed.queue.Enqueue(editKey{entity: e, coord: c}, v)
}

// Pending retorna o número de edições na fila.
func (ed *Editor[V]) Pending() int {
	return ed.queue.Len()
}

// Flush aplica as edições pendentes. Edições para entidades removidas ou
// coordenadas fora do armazenamento são descartadas.
func (ed *Editor[V]) Flush() (applied, dropped int) {
	ed.queue.Drain(func(k editKey, v V) {
		m, ok := ed.scene.Map(k.entity)
		if !ok {
			dropped++
			return
		}
		p, ok := m.GetMut(k.coord)
		if !ok {
			dropped++
			return
		}
		*p = v
		applied++
	})
	if dropped > 0 {
		logrus.Debugf("[Editor] %d edições descartadas (entidade ou coordenada inválida)", dropped)
	}
	return applied, dropped
}
