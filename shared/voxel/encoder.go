package voxel

import (
	"fmt"
	"strings"

	"VoxelMap/shared/util"
)

// Encoder converte coordenadas 3D (dentro de dimensões fixas) em índices lineares e vice-versa.
type Encoder interface {
	// Encode retorna o índice linear, ou false se a coordenada estiver fora das dimensões.
	Encode(x, y, z uint32) (int, bool)
	// Decode é o inverso de Encode para índices produzidos por ele.
	Decode(index int) (x, y, z uint32, ok bool)
	// Dimensions retorna as dimensões lógicas (sem padding).
	Dimensions() util.Dims
	// AllocationSize é o tamanho exato do array de armazenamento.
	AllocationSize() int
}

// EncoderKind identifica a estratégia de codificação (usado pela configuração).
type EncoderKind string

const (
	EncoderFlat   EncoderKind = "flat"
	EncoderMorton EncoderKind = "morton"
)

// NewEncoder cria o encoder correspondente ao tipo informado.
func NewEncoder(kind EncoderKind, d util.Dims) (Encoder, error) {
	switch EncoderKind(strings.ToLower(string(kind))) {
	case EncoderFlat, "":
		return NewFlatEncoder(d), nil
	case EncoderMorton:
		if d.MaxAxis() > mortonMaxAxis {
			return nil, fmt.Errorf("dimensões %s excedem o eixo máximo %d do encoder morton", d, mortonMaxAxis)
		}
		return NewMortonEncoder(d), nil
	default:
		return nil, fmt.Errorf("encoder desconhecido: %q", kind)
	}
}

// --- Flat ---

// FlatEncoder usa ordem linha-maior: x + y*dx + z*dx*dy.
type FlatEncoder struct {
	dims util.Dims
}

// NewFlatEncoder cria um encoder linear para as dimensões informadas.
func NewFlatEncoder(d util.Dims) FlatEncoder {
	return FlatEncoder{dims: d}
}

// FlatAllocationSize retorna o tamanho de armazenamento exigido pelo FlatEncoder.
func FlatAllocationSize(d util.Dims) int {
	return int(d.Volume())
}

func (e FlatEncoder) Encode(x, y, z uint32) (int, bool) {
	if !e.dims.Contains(x, y, z) {
		return 0, false
	}
	dx, dy := int(e.dims.X), int(e.dims.Y)
	return int(x) + int(y)*dx + int(z)*dx*dy, true
}

func (e FlatEncoder) Decode(index int) (x, y, z uint32, ok bool) {
	if index < 0 || index >= e.AllocationSize() {
		return 0, 0, 0, false
	}
	dx, dy := int(e.dims.X), int(e.dims.Y)
	x = uint32(index % dx)
	y = uint32((index / dx) % dy)
	z = uint32(index / (dx * dy))
	return x, y, z, true
}

func (e FlatEncoder) Dimensions() util.Dims { return e.dims }

func (e FlatEncoder) AllocationSize() int { return FlatAllocationSize(e.dims) }

// --- Morton ---

// mortonMaxAxis é o maior eixo suportado: o cubo de lado 2^20 tem 2^60 células e ainda cabe em int.
const mortonMaxAxis = 1 << 20

// MortonEncoder intercala os bits de x, y e z (curva Z) para localidade espacial.
// O armazenamento é um cubo cujo lado é a próxima potência de dois do maior eixo.
type MortonEncoder struct {
	dims util.Dims
	side uint32
}

// NewMortonEncoder cria um encoder Morton. Entra em pânico se algum eixo exceder 2^20.
func NewMortonEncoder(d util.Dims) MortonEncoder {
	if d.MaxAxis() > mortonMaxAxis {
		panic(fmt.Sprintf("voxel: dimensões %s excedem o eixo máximo %d do MortonEncoder", d, mortonMaxAxis))
	}
	return MortonEncoder{dims: d, side: util.NextPowerOfTwo(d.MaxAxis())}
}

// MortonAllocationSize retorna o tamanho (com padding) exigido pelo MortonEncoder.
func MortonAllocationSize(d util.Dims) int {
	if d.Volume() == 0 {
		return 0
	}
	side := uint64(util.NextPowerOfTwo(d.MaxAxis()))
	return int(side * side * side)
}

func (e MortonEncoder) Encode(x, y, z uint32) (int, bool) {
	if !e.dims.Contains(x, y, z) {
		return 0, false
	}
	return int(Morton3D(x, y, z)), true
}

func (e MortonEncoder) Decode(index int) (x, y, z uint32, ok bool) {
	if index < 0 || index >= e.AllocationSize() {
		return 0, 0, 0, false
	}
	x, y, z = MortonDecode3D(uint64(index))
	// Índices de padding não correspondem a coordenadas lógicas
	if !e.dims.Contains(x, y, z) {
		return 0, 0, 0, false
	}
	return x, y, z, true
}

func (e MortonEncoder) Dimensions() util.Dims { return e.dims }

func (e MortonEncoder) AllocationSize() int { return MortonAllocationSize(e.dims) }

// Morton3D intercala os 21 bits menos significativos de cada eixo.
func Morton3D(x, y, z uint32) uint64 {
	return part1By2(uint64(x)) |
		(part1By2(uint64(y)) << 1) |
		(part1By2(uint64(z)) << 2)
}

// MortonDecode3D é o inverso de Morton3D.
func MortonDecode3D(index uint64) (x, y, z uint32) {
	x = uint32(compact1By2(index))
	y = uint32(compact1By2(index >> 1))
	z = uint32(compact1By2(index >> 2))
	return
}

func part1By2(x uint64) uint64 {
	x &= 0x1fffff
	x = (x | (x << 32)) & 0x1f00000000ffff
	x = (x | (x << 16)) & 0x1f0000ff0000ff
	x = (x | (x << 8)) & 0x100f00f00f00f00f
	x = (x | (x << 4)) & 0x10c30c30c30c30c3
	x = (x | (x << 2)) & 0x1249249249249249
	return x
}

func compact1By2(x uint64) uint64 {
	x &= 0x1249249249249249
	x = (x ^ (x >> 2)) & 0x10c30c30c30c30c3
	x = (x ^ (x >> 4)) & 0x100f00f00f00f00f
	x = (x ^ (x >> 8)) & 0x1f0000ff0000ff
	x = (x ^ (x >> 16)) & 0x1f00000000ffff
	x = (x ^ (x >> 32)) & 0x1fffff
	return x
}
