package demo

import (
	"fmt"
	"math"

	"VoxelMap/shared/scene"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/mlange-42/ark/ecs"
	"github.com/sirupsen/logrus"
)

func newStorage(kind voxel.EncoderKind, d util.Dims) (*voxel.VecStorage[Block], error) {
	enc, err := voxel.NewEncoder(kind, d)
	if err != nil {
		return nil, fmt.Errorf("falha ao criar encoder: %w", err)
	}
	return voxel.NewVecStorage[Block](enc), nil
}

// distSq é o quadrado da distância de c ao centro de um cubo de lado n.
func distSq(c util.Coord, n uint32) int32 {
	h := int32(n / 2)
	v := c.Sub(util.NewCoord(h, h, h))
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Sphere cria um cubo n³ com uma esfera de pedra (|p - n/2|² < n²/4).
func Sphere(n uint32, kind voxel.EncoderKind) (*voxel.Map[Block], error) {
	data, err := newStorage(kind, util.Cube(n))
	if err != nil {
		return nil, err
	}
	limit := int32(n * n / 4)
	data.Fill(func(c util.Coord) Block {
		if distSq(c, n) < limit {
			return Block{Kind: Stone}
		}
		return Block{}
	})
	return voxel.NewMap[Block](data, Atlas), nil
}

// GlassSphere cria uma esfera com núcleo de pedra e uma casca de vidro de espessura 1.
func GlassSphere(n uint32, kind voxel.EncoderKind) (*voxel.Map[Block], error) {
	data, err := newStorage(kind, util.Cube(n))
	if err != nil {
		return nil, err
	}
	outer := int32(n * n / 4)
	r := int32(n/2) - 1
	inner := r * r
	data.Fill(func(c util.Coord) Block {
		switch d := distSq(c, n); {
		case d < inner:
			return Block{Kind: Stone}
		case d < outer:
			return Block{Kind: Glass}
		default:
			return Block{}
		}
	})
	return voxel.NewMap[Block](data, Atlas), nil
}

// Terrain cria um relevo suave de w×h×d: grama no topo, terra até 3 blocos abaixo e pedra no resto.
func Terrain(d util.Dims, kind voxel.EncoderKind) (*voxel.Map[Block], error) {
	data, err := newStorage(kind, d)
	if err != nil {
		return nil, err
	}
	base := float64(d.Y) / 2
	amp := float64(d.Y) / 4
	data.Fill(func(c util.Coord) Block {
		height := int32(base + amp*math.Sin(float64(c.X)*0.35)*math.Cos(float64(c.Z)*0.25))
		switch {
		case c.Y > height:
			return Block{}
		case c.Y == height:
			return Block{Kind: Grass}
		case c.Y >= height-3:
			return Block{Kind: Dirt}
		default:
			return Block{Kind: Stone}
		}
	})
	return voxel.NewMap[Block](data, Atlas), nil
}

// Layout guarda as entidades da cena de exemplo.
type Layout struct {
	Sphere ecs.Entity
	Glass  ecs.Entity
	Ground ecs.Entity
}

// Populate monta a cena de exemplo: a esfera no centro, a esfera de vidro ao lado
// e um terreno abaixo das duas.
func Populate(sc *scene.Scene[Block], n uint32, kind voxel.EncoderKind) (Layout, error) {
	sphere, err := Sphere(n, kind)
	if err != nil {
		return Layout{}, err
	}
	glass, err := GlassSphere(n, kind)
	if err != nil {
		return Layout{}, err
	}
	ground, err := Terrain(util.NewDims(4*n, n, 4*n), kind)
	if err != nil {
		return Layout{}, err
	}

	offset := float32(n) + 2
	glassAt := mgl32.Translate3D(offset, 0, 0)
	groundAt := mgl32.Translate3D(0, -offset, 0)
	l := Layout{
		Sphere: sc.Spawn(sphere, nil),
		Glass:  sc.Spawn(glass, &glassAt),
		Ground: sc.Spawn(ground, &groundAt),
	}

	logrus.Infof("[Demo] Cena montada: 3 mapas (n=%d, encoder %s)", n, kind)
	return l, nil
}
