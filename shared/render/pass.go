package render

import (
	"iter"
	"time"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// QuadVertices é o número de vértices desenhados por instância (uma face).
const QuadVertices = 4

// SheetSource resolve o handle do atlas de um mapa para a sprite sheet carregada.
type SheetSource interface {
	Sheet(handle voxel.AtlasHandle) (*assets.SpriteSheet, bool)
}

// Camera coleta projeção e view uma vez por frame.
type Camera interface {
	Gather() ProjView
}

// MapSource percorre as instâncias de mapa visíveis (não ocultas) na ordem do host.
// O transform é nil quando a instância não tem Transform.
type MapSource[V voxel.Voxel] interface {
	VisibleMaps() iter.Seq2[*voxel.Map[V], *mgl32.Mat4]
}

// Submitter recebe os comandos de desenho do passo.
type Submitter interface {
	BindTexture(id TextureID)
	BindUniform(slot int, u MapUniform)
	DrawInstanced(vertices int, instances []InstanceRecord)
}

// PrepareResult resume um Prepare.
type PrepareResult struct {
	// Dirty indica que texturas ou registros mudaram e o buffer precisa ser reenviado.
	Dirty bool
	// Rerecord indica que os comandos do índice de frame precisam ser regravados.
	Rerecord bool

	Maps      int
	Skipped   int
	Instances int
	Textures  int
	Elapsed   time.Duration
}

// DrawVoxels monta e desenha o batch de faces de todos os mapas visíveis.
type DrawVoxels[V voxel.Voxel] struct {
	maps     MapSource[V]
	sheets   SheetSource
	textures TextureResidency
	camera   Camera
	bounds   BoundsStrategy[V]
	ctx      any

	batch    *Batch
	env      EnvPool
	change   ChangeDetection
	uniforms []MapUniform
	scratch  []InstanceRecord
	last     PrepareResult
}

// NewDrawVoxels cria o passo com a estratégia de limites padrão (nenhuma sugestão).
func NewDrawVoxels[V voxel.Voxel](maps MapSource[V], sheets SheetSource, textures TextureResidency, camera Camera) *DrawVoxels[V] {
	return &DrawVoxels[V]{
		maps:     maps,
		sheets:   sheets,
		textures: textures,
		camera:   camera,
		bounds:   DefaultBounds[V]{},
		batch:    NewBatch(),
		scratch:  make([]InstanceRecord, 0, 1024),
	}
}

// SetBounds troca a estratégia de limites.
func (d *DrawVoxels[V]) SetBounds(s BoundsStrategy[V]) { d.bounds = s }

// SetContext define o handle opaco repassado aos voxels.
func (d *DrawVoxels[V]) SetContext(ctx any) { d.ctx = ctx }

// Batch retorna o batch do último Prepare.
func (d *DrawVoxels[V]) Batch() *Batch { return d.batch }

// Env retorna o pool de uniforms.
func (d *DrawVoxels[V]) Env() *EnvPool { return &d.env }

// Last retorna o resultado do último Prepare.
func (d *DrawVoxels[V]) Last() PrepareResult { return d.last }

// Prepare reconstrói o batch do frame em voo index.
// Entra em pânico se um voxel referenciar um sprite inexistente na sheet do mapa.
func (d *DrawVoxels[V]) Prepare(index int) PrepareResult {
	start := time.Now()
	res := PrepareResult{}
	changed := false

	d.batch.SwapClear()
	pv := d.camera.Gather()
	d.uniforms = d.uniforms[:0]

	for m, transform := range d.maps.VisibleMaps() {
		sheet, ok := d.sheets.Sheet(m.Atlas())
		if !ok {
			logrus.Errorf("[Render] Sprite sheet %q não encontrada, mapa ignorado", m.Atlas())
			res.Skipped++
			continue
		}
		tex, newly, ok := d.textures.Insert(sheet.Texture)
		if !ok {
			logrus.Warnf("[Render] Textura %s indisponível, mapa %q ignorado", sheet.Texture, m.Atlas())
			res.Skipped++
			continue
		}
		changed = changed || newly

		slot := len(d.uniforms)
		mapTransform := mgl32.Ident4()
		if transform != nil {
			mapTransform = *transform
		}
		d.uniforms = append(d.uniforms, MapUniform{
			Projection:             pv.Projection,
			View:                   pv.View,
			MapCoordinateTransform: m.PlacementTransform(),
			MapTransform:           mapTransform,
			VoxelDimensions:        mgl32.Vec3{1, 1, 1},
		})

		requested, hasRequested := d.bounds.RenderBounds(m, transform, pv)
		storage, hasStorage := m.Bounds()
		region := voxel.ComputeRenderBounds(requested, hasRequested, storage, hasStorage)

		d.scratch = d.emit(d.scratch[:0], m, region, sheet)
		if len(d.scratch) > 0 {
			d.batch.Insert(tex, slot, d.scratch...)
		}
		res.Maps++
	}

	// Texturas descarregadas também invalidam os comandos gravados
	changed = d.textures.Maintain() || changed
	d.batch.Finish()
	changed = changed || d.batch.Changed()
	d.env.Write(d.uniforms)

	res.Dirty = changed
	res.Rerecord = !d.change.CanReuse(index, changed)
	res.Instances = d.batch.Count()
	res.Textures = len(d.batch.Groups())
	res.Elapsed = time.Since(start)
	d.last = res
	return res
}

// emit percorre a região e acrescenta um registro por face visível.
func (d *DrawVoxels[V]) emit(out []InstanceRecord, m *voxel.Map[V], region voxel.Bounds, sheet *assets.SpriteSheet) []InstanceRecord {
	for c := range region.All() {
		v, ok := m.Get(c)
		if !ok {
			continue
		}
		sprites, ok := v.Texture(c, d.ctx)
		if !ok {
			continue
		}
		tint, hasTint := voxel.TintOf(v, c, d.ctx)
		visible := m.VisibleFaces(v, c, d.ctx)

		for f := range voxel.FaceCount {
			if !visible[f] {
				continue
			}
			sprite := sheet.MustSprite(sprites[f])
			color := voxel.White
			if hasTint {
				color = tint[f]
			}
			out = append(out, NewInstanceRecord(sprite.TexCoords, color, c, voxel.Face(f)))
		}
	}
	return out
}

// Draw percorre o batch: texturas não carregadas são puladas; cada faixa de slot
// vincula seu uniform e desenha QuadVertices vértices por instância.
func (d *DrawVoxels[V]) Draw(sub Submitter) {
	data := d.batch.Data()
	for _, g := range d.batch.Groups() {
		if !d.textures.Loaded(g.Texture) {
			continue
		}
		sub.BindTexture(g.Texture)
		for _, r := range g.Ranges {
			u, ok := d.env.Slot(r.Slot)
			if !ok {
				continue
			}
			sub.BindUniform(r.Slot, u)
			sub.DrawInstanced(QuadVertices, data[r.Start:r.Start+r.Count])
		}
	}
}
