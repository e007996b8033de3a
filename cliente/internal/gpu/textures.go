package gpu

import (
	"fmt"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/render"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/sirupsen/logrus"
)

// Textures é o cache de residência das texturas de sprite sheet no raylib.
type Textures = render.TextureCache[rl.Texture2D]

// NewTextures cria o cache. Precisa de um contexto OpenGL ativo (após rl.InitWindow).
func NewTextures() *Textures {
	return render.NewTextureCache(loadTexture, unloadTexture)
}

func loadTexture(tex assets.TextureHandle) (rl.Texture2D, error) {
	t := rl.LoadTexture(string(tex))
	if t.ID == 0 {
		return t, fmt.Errorf("raylib não carregou %s", tex)
	}
	// Sprites de voxel são pixel art: sem filtragem entre texels vizinhos.
	rl.SetTextureFilter(t, rl.FilterPoint)
	rl.SetTextureWrap(t, rl.WrapClamp)
	logrus.Infof("[GPU] Textura carregada: %s (%dx%d)", tex, t.Width, t.Height)
	return t, nil
}

func unloadTexture(t rl.Texture2D) {
	rl.UnloadTexture(t)
}
