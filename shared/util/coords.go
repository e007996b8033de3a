package util

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Coord representa uma coordenada inteira no espaço de voxels.
// X = leste/oeste, Y = vertical, Z = profundidade
type Coord struct {
	X, Y, Z int32
}

// NewCoord cria uma nova coordenada.
func NewCoord(x, y, z int32) Coord {
	return Coord{X: x, Y: y, Z: z}
}

// Origin retorna a coordenada (0, 0, 0).
func Origin() Coord {
	return Coord{}
}

// Add soma duas coordenadas.
func (c Coord) Add(other Coord) Coord {
	return Coord{
		X: c.X + other.X,
		Y: c.Y + other.Y,
		Z: c.Z + other.Z,
	}
}

// Sub subtrai duas coordenadas.
func (c Coord) Sub(other Coord) Coord {
	return Coord{
		X: c.X - other.X,
		Y: c.Y - other.Y,
		Z: c.Z - other.Z,
	}
}

// AddDims desloca a coordenada pelas dimensões informadas.
// Dimensões acima de MaxInt32 saturam.
func (c Coord) AddDims(d Dims) Coord {
	return Coord{
		X: saturatingAdd(c.X, d.X),
		Y: saturatingAdd(c.Y, d.Y),
		Z: saturatingAdd(c.Z, d.Z),
	}
}

func saturatingAdd(a int32, b uint32) int32 {
	sum := int64(a) + int64(b)
	if sum > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(sum)
}

// Equals verifica igualdade entre coordenadas.
func (c Coord) Equals(other Coord) bool {
	return c.X == other.X && c.Y == other.Y && c.Z == other.Z
}

// Unsigned converte a coordenada para componentes sem sinal.
// Retorna false se algum componente for negativo.
func (c Coord) Unsigned() (x, y, z uint32, ok bool) {
	if c.X < 0 || c.Y < 0 || c.Z < 0 {
		return 0, 0, 0, false
	}
	return uint32(c.X), uint32(c.Y), uint32(c.Z), true
}

// Vec3 converte a coordenada para um vetor float (canto mínimo do voxel).
func (c Coord) Vec3() mgl32.Vec3 {
	return mgl32.Vec3{float32(c.X), float32(c.Y), float32(c.Z)}
}

// Array retorna os componentes no formato usado pelos registros de GPU.
func (c Coord) Array() [3]int32 {
	return [3]int32{c.X, c.Y, c.Z}
}

// String retorna a representação em string da coordenada.
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d, %d)", c.X, c.Y, c.Z)
}

// Dims representa dimensões sem sinal de uma grade 3D.
type Dims struct {
	X, Y, Z uint32
}

// NewDims cria novas dimensões.
func NewDims(x, y, z uint32) Dims {
	return Dims{X: x, Y: y, Z: z}
}

// Cube retorna dimensões com o mesmo tamanho nos três eixos.
func Cube(n uint32) Dims {
	return Dims{X: n, Y: n, Z: n}
}

// Volume retorna o número de células cobertas pelas dimensões.
func (d Dims) Volume() uint64 {
	return uint64(d.X) * uint64(d.Y) * uint64(d.Z)
}

// Contains verifica se (x, y, z) está dentro de [0, d) em todos os eixos.
func (d Dims) Contains(x, y, z uint32) bool {
	return x < d.X && y < d.Y && z < d.Z
}

// MaxAxis retorna o maior dos três eixos.
func (d Dims) MaxAxis() uint32 {
	m := d.X
	if d.Y > m {
		m = d.Y
	}
	if d.Z > m {
		m = d.Z
	}
	return m
}

// String retorna a representação em string das dimensões.
func (d Dims) String() string {
	return fmt.Sprintf("%dx%dx%d", d.X, d.Y, d.Z)
}
