package render

import (
	"testing"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
)

func TestCornersFaceOutward(t *testing.T) {
	c := util.NewCoord(2, -1, 5)
	center := c.Vec3().Add(mgl32.Vec3{0.5, 0.5, 0.5})

	for f := range voxel.FaceCount {
		face := voxel.Face(f)
		r := NewInstanceRecord(assets.TexCoords{}, voxel.White, c, face)
		want := voxel.FaceOffsets[f].Vec3()

		if n := r.Normal(); !n.ApproxEqual(want) {
			t.Errorf("%s: Normal() = %v, want %v", face, n, want)
		}

		q := r.Corners()
		// Anti-horário visto de fora: (c1-c0) x (c2-c1) aponta na direção da normal.
		winding := q[1].Sub(q[0]).Cross(q[2].Sub(q[1]))
		if !winding.ApproxEqual(want) {
			t.Errorf("%s: winding = %v, want %v", face, winding, want)
		}

		mid := q[0].Add(q[1]).Add(q[2]).Add(q[3]).Mul(0.25)
		if !mid.ApproxEqual(center.Add(want.Mul(0.5))) {
			t.Errorf("%s: centro da face = %v, want %v", face, mid, center.Add(want.Mul(0.5)))
		}
	}
}

func TestUVsFollowCorners(t *testing.T) {
	tc := assets.TexCoords{Left: 0.25, Right: 0.5, Top: 0, Bottom: 1}
	uv := NewInstanceRecord(tc, voxel.White, util.Origin(), voxel.FacePosZ).UVs()
	want := [QuadVertices]mgl32.Vec2{{0.25, 0}, {0.25, 1}, {0.5, 1}, {0.5, 0}}
	if uv != want {
		t.Errorf("UVs() = %v, want %v", uv, want)
	}
}

func TestMapUniformModel(t *testing.T) {
	u := MapUniform{
		MapTransform:           mgl32.Translate3D(10, 0, 0),
		MapCoordinateTransform: mgl32.Translate3D(-4, -4, -4),
		VoxelDimensions:        mgl32.Vec3{2, 2, 2},
	}
	got := mgl32.TransformCoordinate(mgl32.Vec3{1, 1, 1}, u.Model())
	if want := (mgl32.Vec3{8, -2, -2}); !got.ApproxEqual(want) {
		t.Errorf("Model() * (1,1,1) = %v, want %v", got, want)
	}
}
