package camera

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestEyeDistance(t *testing.T) {
	c := New(60, 20)
	c.SetTarget(mgl32.Vec3{1, 2, 3})
	if d := c.Eye().Sub(c.CurrentLookAt).Len(); !mgl32.FloatEqualThreshold(d, 20, 1e-4) {
		t.Errorf("distância do olho = %v, want 20", d)
	}
	if c.Eye().Y() <= 2 {
		t.Errorf("Eye().Y = %v, want acima do alvo", c.Eye().Y())
	}
}

func TestGatherMatchesEye(t *testing.T) {
	c := New(60, 15)
	c.SetAspect(800, 600)
	pv := c.Gather()
	if !pv.Eye().ApproxEqualThreshold(c.Eye(), 1e-3) {
		t.Errorf("ProjView.Eye() = %v, want %v", pv.Eye(), c.Eye())
	}

	// O alvo fica no centro da tela.
	clip := pv.Projection.Mul4(pv.View).Mul4x1(c.CurrentLookAt.Vec4(1))
	ndc := clip.Vec3().Mul(1 / clip.W())
	if !mgl32.FloatEqualThreshold(ndc.X(), 0, 1e-4) || !mgl32.FloatEqualThreshold(ndc.Y(), 0, 1e-4) {
		t.Errorf("alvo em NDC = %v, want centro", ndc)
	}
}

func TestZoomAndOrbitClamp(t *testing.T) {
	c := New(60, 10)
	c.Zoom(1000)
	if c.TargetZoom != c.MinZoom {
		t.Errorf("TargetZoom = %v, want MinZoom %v", c.TargetZoom, c.MinZoom)
	}
	c.Zoom(-1000)
	if c.TargetZoom != c.MaxZoom {
		t.Errorf("TargetZoom = %v, want MaxZoom %v", c.TargetZoom, c.MaxZoom)
	}

	c.Orbit(0, 1e6)
	if c.AngleX != maxElevation {
		t.Errorf("AngleX = %v, want %v", c.AngleX, maxElevation)
	}
	c.Orbit(0, -1e6)
	if c.AngleX != minElevation {
		t.Errorf("AngleX = %v, want %v", c.AngleX, minElevation)
	}
}

func TestUpdateConverges(t *testing.T) {
	c := New(60, 10)
	c.TargetLookAt = mgl32.Vec3{10, 0, 0}
	c.TargetZoom = 30
	for range 200 {
		c.Update(1.0 / 60)
	}
	if !c.CurrentLookAt.ApproxEqualThreshold(c.TargetLookAt, 1e-3) {
		t.Errorf("CurrentLookAt = %v, want %v", c.CurrentLookAt, c.TargetLookAt)
	}
	if !mgl32.FloatEqualThreshold(c.CurrentZoom, 30, 1e-3) {
		t.Errorf("CurrentZoom = %v, want 30", c.CurrentZoom)
	}
}

func TestPanStaysOnGround(t *testing.T) {
	c := New(60, 20)
	c.Pan(1, 0, 1)
	if c.TargetLookAt.Y() != 0 {
		t.Errorf("Pan alterou Y: %v", c.TargetLookAt)
	}
	if c.TargetLookAt.Len() == 0 {
		t.Error("Pan não moveu o alvo")
	}
}
