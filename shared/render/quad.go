package render

import (
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

// faceQuad descreve uma face do cubo unitário: canto inferior esquerdo e os eixos u (direita)
// e v (cima), com u × v apontando para fora.
type faceQuad struct {
	origin, u, v mgl32.Vec3
}

var faceQuads = [voxel.FaceCount]faceQuad{
	voxel.FacePosZ: {mgl32.Vec3{0, 0, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	voxel.FaceNegZ: {mgl32.Vec3{1, 0, 0}, mgl32.Vec3{-1, 0, 0}, mgl32.Vec3{0, 1, 0}},
	voxel.FacePosY: {mgl32.Vec3{0, 1, 1}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, -1}},
	voxel.FaceNegY: {mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 0, 1}},
	voxel.FaceNegX: {mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 0, 1}, mgl32.Vec3{0, 1, 0}},
	voxel.FacePosX: {mgl32.Vec3{1, 0, 1}, mgl32.Vec3{0, 0, -1}, mgl32.Vec3{0, 1, 0}},
}

// Corners retorna os QuadVertices cantos da face do registro no espaço local do mapa,
// em ordem anti-horária vista de fora: topo-esquerdo, baixo-esquerdo, baixo-direito, topo-direito.
func (r InstanceRecord) Corners() [QuadVertices]mgl32.Vec3 {
	q := faceQuads[r.Face%voxel.FaceCount]
	base := mgl32.Vec3{float32(r.VoxelCoord[0]), float32(r.VoxelCoord[1]), float32(r.VoxelCoord[2])}.Add(q.origin)
	return [QuadVertices]mgl32.Vec3{
		base.Add(q.v),
		base,
		base.Add(q.u),
		base.Add(q.u).Add(q.v),
	}
}

// UVs retorna as coordenadas de textura na mesma ordem de Corners.
func (r InstanceRecord) UVs() [QuadVertices]mgl32.Vec2 {
	tl, br := r.UVTopLeft, r.UVBottomRight
	return [QuadVertices]mgl32.Vec2{
		tl,
		{tl.X(), br.Y()},
		br,
		{br.X(), tl.Y()},
	}
}

// Normal retorna a normal da face do registro.
func (r InstanceRecord) Normal() mgl32.Vec3 {
	q := faceQuads[r.Face%voxel.FaceCount]
	return q.u.Cross(q.v)
}

// Model retorna a matriz espaço-do-voxel -> mundo: MapTransform * MapCoordinateTransform * escala.
func (u MapUniform) Model() mgl32.Mat4 {
	d := u.VoxelDimensions
	return u.MapTransform.Mul4(u.MapCoordinateTransform).Mul4(mgl32.Scale3D(d.X(), d.Y(), d.Z()))
}
