package app

import (
	"math/rand/v2"

	"VoxelMap/shared/demo"
	"VoxelMap/shared/util"

	"github.com/sirupsen/logrus"
)

// scatter enfileira count edições em coordenadas aleatórias da esfera central.
// As edições são aplicadas no próximo frame, antes do Prepare.
func (a *App) scatter(kind demo.Kind, count int) {
	m, ok := a.scene.Map(a.layout.Sphere)
	if !ok {
		return
	}
	d := m.Dimensions()
	for range count {
		c := util.NewCoord(int32(rand.N(d.X)), int32(rand.N(d.Y)), int32(rand.N(d.Z)))
		a.editor.Set(a.layout.Sphere, c, demo.Block{Kind: kind})
	}
	logrus.Debugf("[App] %d edições de %s enfileiradas", count, kind)
}

// resetSphere reconstrói a esfera central voxel a voxel pela fila de edições.
func (a *App) resetSphere() {
	m, ok := a.scene.Map(a.layout.Sphere)
	if !ok {
		return
	}
	fresh, err := demo.Sphere(a.Config.MapSize, "flat")
	if err != nil {
		logrus.Errorf("[App] Falha ao recriar a esfera: %v", err)
		return
	}
	b, ok := m.Bounds()
	if !ok {
		return
	}
	for c := range b.All() {
		if v, ok := fresh.Get(c); ok {
			a.editor.Set(a.layout.Sphere, c, v)
		}
	}
	logrus.Infof("[App] Esfera restaurada (%d edições)", a.editor.Pending())
}
