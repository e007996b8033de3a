package app

import (
	"VoxelMap/cliente/internal/camera"
	"VoxelMap/shared/demo"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// updateCamera atualiza a câmera baseado no input.
func (a *App) updateCamera() {
	dt := rl.GetFrameTime()
	a.Cam.HandleInput(dt)
	a.Cam.Update(dt)

	// Alternar projeção com P
	if rl.IsKeyPressed(rl.KeyP) {
		if a.Cam.Mode == camera.ModePerspective {
			a.Cam.Mode = camera.ModeOrthographic
			logrus.Info("[Camera] Modo Ortográfico")
		} else {
			a.Cam.Mode = camera.ModePerspective
			logrus.Info("[Camera] Modo Perspectiva")
		}
	}
}

// updateInput processa entradas de teclado gerais.
func (a *App) updateInput() {
	if rl.IsKeyPressed(rl.KeyF3) {
		a.Config.ShowDebugInfo = !a.Config.ShowDebugInfo
	}
	if rl.IsKeyPressed(rl.KeyG) {
		a.Config.ShowGrid = !a.Config.ShowGrid
	}
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	// H: esconde/mostra a esfera de vidro
	if rl.IsKeyPressed(rl.KeyH) {
		if a.scene.IsHidden(a.layout.Glass) {
			a.scene.Show(a.layout.Glass)
		} else {
			a.scene.Hide(a.layout.Glass)
		}
	}

	// Edições aleatórias na esfera central
	if rl.IsKeyPressed(rl.KeyR) {
		a.scatter(demo.Air, 32)
	}
	if rl.IsKeyPressed(rl.KeyT) {
		a.scatter(demo.Glass, 32)
	}
	if rl.IsKeyPressed(rl.KeyY) {
		a.scatter(demo.Stone, 32)
	}
	if rl.IsKeyPressed(rl.KeyF5) {
		a.resetSphere()
	}
}
