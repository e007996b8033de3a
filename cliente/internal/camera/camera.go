package camera

import (
	"math"

	"VoxelMap/shared/render"
	"VoxelMap/shared/util"

	"github.com/chewxy/math32"
	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
)

// Mode define o tipo de projeção.
type Mode int

const (
	ModePerspective Mode = iota
	ModeOrthographic
)

const (
	nearPlane = 0.1
	farPlane  = 1000.0

	minElevation float32 = -89.0 * math.Pi / 180
	maxElevation float32 = 89.0 * math.Pi / 180
)

// OrbitCamera gira ao redor de um ponto alvo, com zoom e movimento suavizados.
// Implementa render.Camera.
type OrbitCamera struct {
	// Configurações
	Mode         Mode
	Fov          float32 // graus, vertical
	MinZoom      float32
	MaxZoom      float32
	MoveSpeed    float32
	RotateSpeed  float32
	ZoomSpeed    float32
	SmoothFactor float32 // 0.0 a 1.0 (quanto menor, mais suave)

	// Estado alvo
	TargetLookAt mgl32.Vec3
	TargetZoom   float32
	AngleY       float32 // azimute (radianos)
	AngleX       float32 // elevação (radianos), positivo olha de cima

	// Estado atual (interpolado)
	CurrentLookAt mgl32.Vec3
	CurrentZoom   float32

	aspect float32
}

// New cria uma câmera olhando para a origem a partir de cima, a 45 graus.
func New(fov, zoom float32) *OrbitCamera {
	c := &OrbitCamera{
		Mode:         ModePerspective,
		Fov:          fov,
		MinZoom:      2.0,
		MaxZoom:      200.0,
		MoveSpeed:    10.0,
		RotateSpeed:  0.3,
		ZoomSpeed:    2.0,
		SmoothFactor: 0.2,
		TargetZoom:   zoom,
		AngleY:       mgl32.DegToRad(45),
		AngleX:       mgl32.DegToRad(30),
		aspect:       16.0 / 9.0,
	}
	c.CurrentLookAt = c.TargetLookAt
	c.CurrentZoom = c.TargetZoom
	return c
}

// SetAspect atualiza a razão largura/altura do viewport.
func (c *OrbitCamera) SetAspect(width, height int) {
	if width > 0 && height > 0 {
		c.aspect = float32(width) / float32(height)
	}
}

// SetTarget move o alvo imediatamente, sem suavização.
func (c *OrbitCamera) SetTarget(pos mgl32.Vec3) {
	c.TargetLookAt = pos
	c.CurrentLookAt = pos
}

// Update interpola o estado atual em direção ao alvo. Deve ser chamado a cada frame.
func (c *OrbitCamera) Update(dt float32) {
	factor := c.SmoothFactor * 60.0 * dt // normaliza para 60 FPS
	if factor > 1.0 {
		factor = 1.0
	}
	c.CurrentLookAt = c.CurrentLookAt.Add(c.TargetLookAt.Sub(c.CurrentLookAt).Mul(factor))
	c.CurrentZoom = util.Lerp(c.CurrentZoom, c.TargetZoom, factor)
}

// Orbit gira a câmera; dx e dy são deltas do mouse em pixels.
func (c *OrbitCamera) Orbit(dx, dy float32) {
	c.AngleY -= dx * c.RotateSpeed * 0.01
	c.AngleX = mgl32.Clamp(c.AngleX+dy*c.RotateSpeed*0.01, minElevation, maxElevation)
}

// Zoom aproxima (wheel > 0) ou afasta a câmera.
func (c *OrbitCamera) Zoom(wheel float32) {
	c.TargetZoom = mgl32.Clamp(c.TargetZoom-wheel*c.ZoomSpeed, c.MinZoom, c.MaxZoom)
}

// Pan move o alvo no plano XZ relativo à direção da câmera.
func (c *OrbitCamera) Pan(forward, right, dt float32) {
	fwd := c.CurrentLookAt.Sub(c.Eye())
	fwd[1] = 0
	if fwd.Len() == 0 {
		return
	}
	fwd = fwd.Normalize()
	side := fwd.Cross(mgl32.Vec3{0, 1, 0}).Normalize()

	move := fwd.Mul(forward).Add(side.Mul(right))
	if move.Len() == 0 {
		return
	}
	// Mais longe, mais rápido.
	speed := c.MoveSpeed * (c.CurrentZoom / 20.0) * dt
	c.TargetLookAt = c.TargetLookAt.Add(move.Normalize().Mul(speed))
}

// HandleInput lê mouse e teclado do raylib. Retorna true se houve movimento.
func (c *OrbitCamera) HandleInput(dt float32) bool {
	moved := false
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(wheel)
		moved = true
	}
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		delta := rl.GetMouseDelta()
		if delta.X != 0 || delta.Y != 0 {
			c.Orbit(delta.X, delta.Y)
			moved = true
		}
	}

	var forward, right float32
	if rl.IsKeyDown(rl.KeyW) {
		forward++
	}
	if rl.IsKeyDown(rl.KeyS) {
		forward--
	}
	if rl.IsKeyDown(rl.KeyD) {
		right++
	}
	if rl.IsKeyDown(rl.KeyA) {
		right--
	}
	if forward != 0 || right != 0 {
		c.Pan(forward, right, dt)
		moved = true
	}
	return moved
}

// Eye retorna a posição da câmera no mundo (coordenadas esféricas ao redor do alvo).
func (c *OrbitCamera) Eye() mgl32.Vec3 {
	dist := c.CurrentZoom
	cosX, sinX := math32.Cos(c.AngleX), math32.Sin(c.AngleX)
	cosY, sinY := math32.Cos(c.AngleY), math32.Sin(c.AngleY)
	offset := mgl32.Vec3{dist * cosX * sinY, dist * sinX, dist * cosX * cosY}
	return c.CurrentLookAt.Add(offset)
}

// Gather coleta projeção e view do frame.
func (c *OrbitCamera) Gather() render.ProjView {
	view := mgl32.LookAtV(c.Eye(), c.CurrentLookAt, mgl32.Vec3{0, 1, 0})

	var proj mgl32.Mat4
	if c.Mode == ModeOrthographic {
		h := c.CurrentZoom * 0.5
		w := h * c.aspect
		proj = mgl32.Ortho(-w, w, -h, h, nearPlane, farPlane)
	} else {
		proj = mgl32.Perspective(mgl32.DegToRad(c.Fov), c.aspect, nearPlane, farPlane)
	}
	return render.ProjView{Projection: proj, View: view}
}

// RLCamera retorna a câmera equivalente do raylib, para o desenho em modo 3D.
func (c *OrbitCamera) RLCamera() rl.Camera3D {
	eye := c.Eye()
	cam := rl.Camera3D{
		Position:   rl.NewVector3(eye.X(), eye.Y(), eye.Z()),
		Target:     rl.NewVector3(c.CurrentLookAt.X(), c.CurrentLookAt.Y(), c.CurrentLookAt.Z()),
		Up:         rl.NewVector3(0, 1, 0),
		Fovy:       c.Fov,
		Projection: rl.CameraPerspective,
	}
	if c.Mode == ModeOrthographic {
		cam.Fovy = c.CurrentZoom
		cam.Projection = rl.CameraOrthographic
	}
	return cam
}
