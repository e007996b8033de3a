package assets

import (
	"fmt"
)

// TextureHandle identifica a imagem de uma sprite sheet (caminho relativo ao diretório de assets).
type TextureHandle string

// TexCoords são as coordenadas normalizadas (0..1) de um sprite dentro da textura.
type TexCoords struct {
	Left   float32
	Right  float32
	Top    float32
	Bottom float32
}

// Sprite é um retângulo dentro da sprite sheet.
type Sprite struct {
	Name      string
	Width     uint32
	Height    uint32
	TexCoords TexCoords
}

// SpriteSheet associa uma textura à lista de sprites recortados dela.
// Os índices retornados por Voxel.Texture apontam para Sprites.
type SpriteSheet struct {
	Texture TextureHandle
	Sprites []Sprite
}

// Sprite retorna o sprite de índice i, ou false se estiver fora da faixa.
func (s *SpriteSheet) Sprite(i int) (Sprite, bool) {
	if i < 0 || i >= len(s.Sprites) {
		return Sprite{}, false
	}
	return s.Sprites[i], true
}

// MustSprite retorna o sprite de índice i e entra em pânico se ele não existir.
// Um índice inválido significa que os dados do voxel não batem com o atlas declarado.
func (s *SpriteSheet) MustSprite(i int) Sprite {
	sp, ok := s.Sprite(i)
	if !ok {
		panic(fmt.Sprintf("assets: sprite %d fora da faixa (sheet %s tem %d sprites)", i, s.Texture, len(s.Sprites)))
	}
	return sp
}

// Len retorna o número de sprites da sheet.
func (s *SpriteSheet) Len() int {
	return len(s.Sprites)
}

// spriteFromPixels calcula as coordenadas normalizadas de um retângulo em pixels.
func spriteFromPixels(name string, texW, texH, x, y, w, h uint32) Sprite {
	fw, fh := float32(texW), float32(texH)
	return Sprite{
		Name:   name,
		Width:  w,
		Height: h,
		TexCoords: TexCoords{
			Left:   float32(x) / fw,
			Right:  float32(x+w) / fw,
			Top:    float32(y) / fh,
			Bottom: float32(y+h) / fh,
		},
	}
}
