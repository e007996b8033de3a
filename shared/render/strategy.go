package render

import (
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// ProjView são as matrizes de câmera coletadas uma vez por frame.
type ProjView struct {
	Projection mgl32.Mat4
	View       mgl32.Mat4
}

// Eye retorna a posição da câmera no mundo (translação da view invertida).
func (pv ProjView) Eye() mgl32.Vec3 {
	return pv.View.Inv().Col(3).Vec3()
}

// BoundsStrategy sugere a região a renderizar de um mapa no frame.
// false significa "sem sugestão": vale o limite do armazenamento.
type BoundsStrategy[V voxel.Voxel] interface {
	RenderBounds(m *voxel.Map[V], transform *mgl32.Mat4, pv ProjView) (voxel.Bounds, bool)
}

// DefaultBounds não sugere nenhuma região.
type DefaultBounds[V voxel.Voxel] struct{}

func (DefaultBounds[V]) RenderBounds(*voxel.Map[V], *mgl32.Mat4, ProjView) (voxel.Bounds, bool) {
	return voxel.Bounds{}, false
}

// CameraRadius limita a região a uma caixa de raio Radius (em voxels) ao redor da câmera.
// Necessária para armazenamentos sem limites.
type CameraRadius[V voxel.Voxel] struct {
	Radius float32
}

func (s CameraRadius[V]) RenderBounds(m *voxel.Map[V], transform *mgl32.Mat4, pv ProjView) (voxel.Bounds, bool) {
	if s.Radius <= 0 {
		return voxel.EmptyBounds(), true
	}

	world := mgl32.Ident4()
	if transform != nil {
		world = *transform
	}
	// mundo -> espaço local do mapa (antes da centralização)
	toLocal := world.Mul4(m.PlacementTransform()).Inv()
	eye := pv.Eye()
	local := toLocal.Mul4x1(eye.Vec4(1)).Vec3()

	r := math32.Ceil(s.Radius)
	lo, hi := local.Sub(mgl32.Vec3{r, r, r}), local.Add(mgl32.Vec3{r, r, r})
	// Olho não finito (transform singular) ou fora da faixa de int32 não gera região
	for i := range 3 {
		if !inCellRange(lo[i]) || !inCellRange(hi[i]) {
			return voxel.EmptyBounds(), true
		}
	}
	min := util.NewCoord(
		int32(math32.Floor(lo.X())),
		int32(math32.Floor(lo.Y())),
		int32(math32.Floor(lo.Z())),
	)
	max := util.NewCoord(
		int32(math32.Floor(hi.X()))+1,
		int32(math32.Floor(hi.Y()))+1,
		int32(math32.Floor(hi.Z()))+1,
	)
	return voxel.NewBounds(min, max), true
}

// maxCellCoord mantém floor(f)+1 representável em int32.
const maxCellCoord = 1 << 30

func inCellRange(f float32) bool {
	return !math32.IsNaN(f) && f >= -maxCellCoord && f <= maxCellCoord
}

// LookAtCamera é uma câmera fixa em Eye olhando para Target, sem janela.
type LookAtCamera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Fov    float32 // graus
	Aspect float32
}

// Gather monta projeção perspectiva e view com Y para cima.
func (c *LookAtCamera) Gather() ProjView {
	aspect := c.Aspect
	if aspect <= 0 {
		aspect = 1
	}
	return ProjView{
		Projection: mgl32.Perspective(mgl32.DegToRad(c.Fov), aspect, 0.1, 1000),
		View:       mgl32.LookAtV(c.Eye, c.Target, mgl32.Vec3{0, 1, 0}),
	}
}
