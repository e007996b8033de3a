package app

import (
	"fmt"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// draw renderiza a cena.
func (a *App) draw() {
	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(26, 8, 89, 255))

	a.drawScene()
	a.drawHUD()

	rl.EndDrawing()
}

// drawScene executa os comandos do batch preparado em update.
func (a *App) drawScene() {
	rl.BeginMode3D(a.Cam.RLCamera())

	if a.Config.ShowGrid {
		rl.DrawGrid(40, 1.0)
	}

	a.submitter.Reset()
	rl.BeginBlendMode(rl.BlendAlpha)
	a.pass.Draw(a.submitter)
	rl.EndBlendMode()

	rl.EndMode3D()
}

// drawHUD desenha a interface sobreposta.
func (a *App) drawHUD() {
	if !a.Config.ShowDebugInfo {
		return
	}

	width := int32(320)
	height := int32(250)
	x := int32(rl.GetScreenWidth()) - width - 10
	y := int32(10)

	rl.DrawRectangle(x, y, width, height, rl.NewColor(0, 0, 0, 180))
	rl.DrawRectangleLines(x, y, width, height, rl.NewColor(50, 50, 50, 255))

	fps := rl.GetFPS()
	fpsColor := rl.Green
	if fps < 30 {
		fpsColor = rl.Red
	} else if fps < 55 {
		fpsColor = rl.Yellow
	}
	rl.DrawText(fmt.Sprintf("FPS: %d", fps), x+10, y+10, 20, fpsColor)

	res := a.lastResult
	rl.DrawText("PREPARAÇÃO", x+10, y+40, 12, rl.Gray)
	rl.DrawText(fmt.Sprintf("Mapas: %d (ignorados: %d)", res.Maps, res.Skipped), x+10, y+55, 14, rl.White)
	rl.DrawText(fmt.Sprintf("Faces: %d | Texturas: %d", res.Instances, res.Textures), x+10, y+72, 14, rl.White)
	rl.DrawText(fmt.Sprintf("Tempo: %v | Slots: %d", res.Elapsed.Round(time.Microsecond), a.pass.Env().Len()), x+10, y+89, 14, rl.LightGray)
	dirty := "estável"
	if res.Dirty {
		dirty = "alterado"
	}
	rl.DrawText(fmt.Sprintf("Batch: %s | Draw calls: %d", dirty, a.submitter.DrawCalls), x+10, y+106, 14, rl.LightGray)
	if a.lastEdits > 0 {
		rl.DrawText(fmt.Sprintf("Últimas edições aplicadas: %d", a.lastEdits), x+10, y+123, 14, rl.SkyBlue)
	}

	rl.DrawText("SERVIDOR", x+10, y+145, 12, rl.Gray)
	if f, ver := a.remote.Load(); ver > 0 {
		rl.DrawText(fmt.Sprintf("Frame #%d: %d faces, %d grupos", f.Seq, f.Count(), len(f.Groups)), x+10, y+160, 14, rl.Gold)
		rl.DrawText(fmt.Sprintf("Preparo: %v", f.Elapsed), x+10, y+177, 14, rl.LightGray)
	} else {
		rl.DrawText("desconectado", x+10, y+160, 14, rl.DarkGray)
	}

	rl.DrawText("CONTROLES", x+10, y+200, 12, rl.Gray)
	rl.DrawText("Botão dir.: Girar | Scroll: Zoom | WASD", x+10, y+215, 12, rl.LightGray)
	rl.DrawText("R/T/Y: Editar | F5: Restaurar | H: Vidro", x+10, y+230, 12, rl.SkyBlue)
}
