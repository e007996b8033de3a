package render

import (
	"encoding/binary"
	"math"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// InstanceRecordSize é o tamanho em bytes de um InstanceRecord serializado.
const InstanceRecordSize = 48

// MapUniformSize é o tamanho std140 de um MapUniform (vec3 final preenchido até 16 bytes).
const MapUniformSize = 4*64 + 16

// InstanceRecord é o dado por face consumido pela chamada instanciada.
//
//	layout(location = 0) in vec2 tex_top_left;
//	layout(location = 1) in vec2 tex_bottom_right;
//	layout(location = 2) in vec4 color;
//	layout(location = 3) in ivec3 voxel_coordinate;
//	layout(location = 4) in uint face;
type InstanceRecord struct {
	UVTopLeft     mgl32.Vec2
	UVBottomRight mgl32.Vec2
	Tint          mgl32.Vec4
	VoxelCoord    [3]int32
	Face          uint32
}

// NewInstanceRecord empacota os dados de uma face visível.
func NewInstanceRecord(tc assets.TexCoords, tint voxel.Color, c util.Coord, face voxel.Face) InstanceRecord {
	return InstanceRecord{
		UVTopLeft:     mgl32.Vec2{tc.Left, tc.Top},
		UVBottomRight: mgl32.Vec2{tc.Right, tc.Bottom},
		Tint:          tint.Vec4(),
		VoxelCoord:    c.Array(),
		Face:          uint32(face),
	}
}

// Coord retorna a coordenada do voxel do registro.
func (r InstanceRecord) Coord() util.Coord {
	return util.NewCoord(r.VoxelCoord[0], r.VoxelCoord[1], r.VoxelCoord[2])
}

// AppendTo serializa o registro em little-endian, na ordem dos atributos.
func (r InstanceRecord) AppendTo(b []byte) []byte {
	b = appendFloats(b, r.UVTopLeft[:]...)
	b = appendFloats(b, r.UVBottomRight[:]...)
	b = appendFloats(b, r.Tint[:]...)
	for _, v := range r.VoxelCoord {
		b = binary.LittleEndian.AppendUint32(b, uint32(v))
	}
	return binary.LittleEndian.AppendUint32(b, r.Face)
}

// MapUniform é o registro por instância de mapa.
//
//	layout(std140, set = 0, binding = 0) uniform VoxelMapArgs {
//	    uniform mat4 proj;
//	    uniform mat4 view;
//	    uniform mat4 map_coordinate_transform;
//	    uniform mat4 map_transform;
//	    uniform vec3 voxel_dimensions;
//	};
type MapUniform struct {
	Projection             mgl32.Mat4
	View                   mgl32.Mat4
	MapCoordinateTransform mgl32.Mat4
	MapTransform           mgl32.Mat4
	VoxelDimensions        mgl32.Vec3
}

// AppendTo serializa o uniform no layout std140 (matrizes column-major).
func (u MapUniform) AppendTo(b []byte) []byte {
	b = appendFloats(b, u.Projection[:]...)
	b = appendFloats(b, u.View[:]...)
	b = appendFloats(b, u.MapCoordinateTransform[:]...)
	b = appendFloats(b, u.MapTransform[:]...)
	b = appendFloats(b, u.VoxelDimensions[:]...)
	return binary.LittleEndian.AppendUint32(b, 0)
}

func appendFloats(b []byte, fs ...float32) []byte {
	for _, f := range fs {
		b = binary.LittleEndian.AppendUint32(b, math.Float32bits(f))
	}
	return b
}
