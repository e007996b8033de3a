package gpu

import (
	"VoxelMap/shared/render"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// Submitter executa os comandos do passo de voxels no rlgl em modo imediato.
// Os quads são gerados a partir dos registros de instância e transformados na CPU,
// pois o rlgl não expõe instancing para buffers arbitrários.
// Deve ser usado entre rl.BeginMode3D e rl.EndMode3D.
type Submitter struct {
	textures *Textures

	texture rl.Texture2D
	model   mgl32.Mat4
	ready   bool

	DrawCalls int
	Quads     int
}

// NewSubmitter cria o submitter sobre o cache de texturas.
func NewSubmitter(textures *Textures) *Submitter {
	return &Submitter{textures: textures, model: mgl32.Ident4()}
}

// Reset zera as estatísticas do frame.
func (s *Submitter) Reset() {
	s.DrawCalls = 0
	s.Quads = 0
	s.ready = false
}

func (s *Submitter) BindTexture(id render.TextureID) {
	tex, ok := s.textures.Get(id)
	if !ok {
		logrus.Warnf("[GPU] Textura %d não residente", id)
		s.ready = false
		return
	}
	s.texture = tex
	s.ready = true
}

// BindUniform guarda a matriz de modelo do slot; projeção e view vêm do BeginMode3D.
func (s *Submitter) BindUniform(_ int, u render.MapUniform) {
	s.model = u.Model()
}

func (s *Submitter) DrawInstanced(vertices int, instances []render.InstanceRecord) {
	if !s.ready || vertices != render.QuadVertices || len(instances) == 0 {
		return
	}
	s.DrawCalls++

	rl.SetTexture(s.texture.ID)
	rl.Begin(rl.Quads)
	for _, r := range instances {
		// Cada quad usa 4 vértices; o rlgl descarrega o batch interno quando enche.
		rl.CheckRenderBatchLimit(render.QuadVertices)

		corners := r.Corners()
		uvs := r.UVs()
		n := mgl32.TransformNormal(r.Normal(), s.model).Normalize()
		rl.Color4f(r.Tint[0], r.Tint[1], r.Tint[2], r.Tint[3])
		rl.Normal3f(n.X(), n.Y(), n.Z())
		for i := range render.QuadVertices {
			p := mgl32.TransformCoordinate(corners[i], s.model)
			rl.TexCoord2f(uvs[i].X(), uvs[i].Y())
			rl.Vertex3f(p.X(), p.Y(), p.Z())
		}
		s.Quads++
	}
	rl.End()
	rl.SetTexture(0)
}
