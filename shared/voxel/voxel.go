package voxel

import (
	"VoxelMap/shared/util"

	"github.com/go-gl/mathgl/mgl32"
)

// Face identifica uma das seis faces de um voxel.
// A ordem é fixa e indexa tanto os vizinhos quanto os arrays de textura/tint.
type Face int

const (
	FacePosZ Face = iota // +z
	FaceNegZ             // -z
	FacePosY             // +y
	FaceNegY             // -y
	FaceNegX             // -x
	FacePosX             // +x
)

// FaceCount é o número de faces de um voxel.
const FaceCount = 6

// FaceOffsets mapeia cada face para o deslocamento do vizinho naquela direção.
var FaceOffsets = [FaceCount]util.Coord{
	FacePosZ: {X: 0, Y: 0, Z: 1},
	FaceNegZ: {X: 0, Y: 0, Z: -1},
	FacePosY: {X: 0, Y: 1, Z: 0},
	FaceNegY: {X: 0, Y: -1, Z: 0},
	FaceNegX: {X: -1, Y: 0, Z: 0},
	FacePosX: {X: 1, Y: 0, Z: 0},
}

func (f Face) String() string {
	switch f {
	case FacePosZ:
		return "+z"
	case FaceNegZ:
		return "-z"
	case FacePosY:
		return "+y"
	case FaceNegY:
		return "-y"
	case FaceNegX:
		return "-x"
	case FacePosX:
		return "+x"
	}
	return "?"
}

// Color é uma cor RGBA em ponto flutuante (0..1).
type Color struct {
	R, G, B, A float32
}

// White é o tint padrão (sem alteração).
var White = Color{R: 1, G: 1, B: 1, A: 1}

// RGBA8 converte componentes de 8 bits em Color.
func RGBA8(r, g, b, a uint8) Color {
	return Color{
		R: float32(r) / 255,
		G: float32(g) / 255,
		B: float32(b) / 255,
		A: float32(a) / 255,
	}
}

// Vec4 retorna a cor no formato do registro de GPU.
func (c Color) Vec4() mgl32.Vec4 {
	return mgl32.Vec4{c.R, c.G, c.B, c.A}
}

// Voxel é o contrato que cada tipo de voxel do jogo implementa.
// ctx é um handle opaco do host (mundo, recursos) repassado sem interpretação.
type Voxel interface {
	// Occupied indica se a célula é sólida para fins de oclusão dos vizinhos.
	Occupied(c util.Coord, ctx any) bool
	// Texture retorna um índice de sprite por face na ordem das constantes Face.
	// false significa voxel vazio/invisível, sem nenhuma face.
	Texture(c util.Coord, ctx any) ([FaceCount]int, bool)
}

// Tinter é implementado por voxels que definem uma cor por face.
type Tinter interface {
	Tint(c util.Coord, ctx any) ([FaceCount]Color, bool)
}

// CullingOverrider é implementado por voxels que desligam o culling por vizinho em alguma face
// (ex: blocos translúcidos cujas faces são sempre desenhadas).
type CullingOverrider interface {
	NeighborCulling(c util.Coord, ctx any) [FaceCount]bool
}

// TintOf retorna o tint do voxel, ou false se ele não define nenhum.
func TintOf(v Voxel, c util.Coord, ctx any) ([FaceCount]Color, bool) {
	if t, ok := v.(Tinter); ok {
		return t.Tint(c, ctx)
	}
	return [FaceCount]Color{}, false
}

// NeighborCullingOf retorna as flags de culling por face; o padrão é todas verdadeiras.
func NeighborCullingOf(v Voxel, c util.Coord, ctx any) [FaceCount]bool {
	if o, ok := v.(CullingOverrider); ok {
		return o.NeighborCulling(c, ctx)
	}
	return [FaceCount]bool{true, true, true, true, true, true}
}
