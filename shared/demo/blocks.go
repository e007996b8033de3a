package demo

import (
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"
)

// Atlas é o handle da sprite sheet dos blocos (assets/sheets/blocks.json).
const Atlas voxel.AtlasHandle = "blocks"

// Índices dos sprites em blocks.json.
const (
	SpriteStone = iota
	SpriteGlass
	SpriteDirt
	SpriteGrass
)

// Kind é o material de um bloco.
type Kind uint8

const (
	Air Kind = iota
	Stone
	Dirt
	Grass
	Glass
)

func (k Kind) String() string {
	switch k {
	case Air:
		return "air"
	case Stone:
		return "stone"
	case Dirt:
		return "dirt"
	case Grass:
		return "grass"
	case Glass:
		return "glass"
	default:
		return "unknown"
	}
}

// GlassTint é a cor aplicada a todas as faces de vidro.
var GlassTint = voxel.Color{R: 0.8, G: 0.9, B: 1, A: 0.45}

// Block é o voxel dos mapas de exemplo.
type Block struct {
	Kind Kind
}

// Occupied: vidro não oculta os vizinhos.
func (b Block) Occupied(util.Coord, any) bool {
	return b.Kind != Air && b.Kind != Glass
}

func (b Block) Texture(util.Coord, any) ([voxel.FaceCount]int, bool) {
	switch b.Kind {
	case Stone:
		return uniform(SpriteStone), true
	case Dirt:
		return uniform(SpriteDirt), true
	case Glass:
		return uniform(SpriteGlass), true
	case Grass:
		faces := uniform(SpriteDirt)
		faces[voxel.FacePosY] = SpriteGrass
		return faces, true
	default:
		return [voxel.FaceCount]int{}, false
	}
}

func (b Block) Tint(util.Coord, any) ([voxel.FaceCount]voxel.Color, bool) {
	if b.Kind != Glass {
		return [voxel.FaceCount]voxel.Color{}, false
	}
	var tint [voxel.FaceCount]voxel.Color
	for i := range tint {
		tint[i] = GlassTint
	}
	return tint, true
}

// NeighborCulling: faces de vidro são sempre desenhadas.
func (b Block) NeighborCulling(util.Coord, any) [voxel.FaceCount]bool {
	if b.Kind == Glass {
		return [voxel.FaceCount]bool{}
	}
	return [voxel.FaceCount]bool{true, true, true, true, true, true}
}

func uniform(sprite int) [voxel.FaceCount]int {
	var faces [voxel.FaceCount]int
	for i := range faces {
		faces[i] = sprite
	}
	return faces
}
