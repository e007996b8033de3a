package render

import (
	"errors"
	"iter"
	"strings"
	"testing"

	"VoxelMap/shared/assets"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
)

// cell é um voxel de teste: sprite < 0 significa vazio.
type cell struct {
	sprite int
	solid  bool
	tint   *voxel.Color
}

func (c cell) Occupied(util.Coord, any) bool { return c.solid }

func (c cell) Texture(util.Coord, any) ([voxel.FaceCount]int, bool) {
	if c.sprite < 0 {
		return [voxel.FaceCount]int{}, false
	}
	var t [voxel.FaceCount]int
	for i := range t {
		t[i] = c.sprite
	}
	return t, true
}

func (c cell) Tint(util.Coord, any) ([voxel.FaceCount]voxel.Color, bool) {
	if c.tint == nil {
		return [voxel.FaceCount]voxel.Color{}, false
	}
	var t [voxel.FaceCount]voxel.Color
	for i := range t {
		t[i] = *c.tint
	}
	return t, true
}

type mapEntry struct {
	m         *voxel.Map[cell]
	transform *mgl32.Mat4
}

type mapList []mapEntry

func (l mapList) VisibleMaps() iter.Seq2[*voxel.Map[cell], *mgl32.Mat4] {
	return func(yield func(*voxel.Map[cell], *mgl32.Mat4) bool) {
		for _, e := range l {
			if !yield(e.m, e.transform) {
				return
			}
		}
	}
}

type sheetMap map[voxel.AtlasHandle]*assets.SpriteSheet

func (s sheetMap) Sheet(h voxel.AtlasHandle) (*assets.SpriteSheet, bool) {
	sheet, ok := s[h]
	return sheet, ok
}

type fixedCamera struct{}

func (fixedCamera) Gather() ProjView {
	return ProjView{Projection: mgl32.Ident4(), View: mgl32.Ident4()}
}

// recorder guarda os comandos emitidos por Draw.
type recorder struct {
	textures  []TextureID
	slots     []int
	instances int
	vertices  int
}

func (r *recorder) BindTexture(id TextureID)           { r.textures = append(r.textures, id) }
func (r *recorder) BindUniform(slot int, _ MapUniform) { r.slots = append(r.slots, slot) }
func (r *recorder) DrawInstanced(vertices int, instances []InstanceRecord) {
	r.vertices = vertices
	r.instances += len(instances)
}

var errMissing = errors.New("arquivo ausente")

func newCache(missing ...assets.TextureHandle) *TextureCache[string] {
	return NewTextureCache(func(h assets.TextureHandle) (string, error) {
		for _, m := range missing {
			if h == m {
				return "", errMissing
			}
		}
		return string(h), nil
	}, nil)
}

func grid(sheet *assets.SpriteSheet, n int) *assets.SpriteSheet {
	for range n {
		sheet.Sprites = append(sheet.Sprites, assets.Sprite{})
	}
	return sheet
}

// newCellMap cria um mapa com todas as células vazias.
func newCellMap(d util.Dims, atlas voxel.AtlasHandle) (*voxel.Map[cell], *voxel.VecStorage[cell]) {
	s := voxel.NewVecStorage[cell](voxel.NewFlatEncoder(d))
	s.Fill(func(util.Coord) cell { return cell{sprite: -1} })
	return voxel.NewMap[cell](s, atlas), s
}

func set(s *voxel.VecStorage[cell], c util.Coord, v cell) {
	p, ok := s.GetMut(c)
	if !ok {
		panic("coordenada fora do armazenamento: " + c.String())
	}
	*p = v
}

func TestPrepareSolidPairCullsSharedFace(t *testing.T) {
	m, s := newCellMap(util.NewDims(2, 1, 1), "blocks")
	set(s, util.NewCoord(0, 0, 0), cell{sprite: 0, solid: true})
	set(s, util.NewCoord(1, 0, 0), cell{sprite: 0, solid: true})

	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, newCache(), fixedCamera{})
	res := pass.Prepare(0)

	if res.Instances != 10 {
		t.Fatalf("Instances = %d, want 10", res.Instances)
	}
	for _, r := range pass.Batch().Data() {
		c := r.Coord()
		if c.X == 0 && voxel.Face(r.Face) == voxel.FacePosX {
			t.Errorf("face interna +x de %s emitida", c)
		}
		if c.X == 1 && voxel.Face(r.Face) == voxel.FaceNegX {
			t.Errorf("face interna -x de %s emitida", c)
		}
		if r.Tint != (mgl32.Vec4{1, 1, 1, 1}) {
			t.Errorf("tint padrão = %v, want branco", r.Tint)
		}
	}
}

func TestPrepareEmptyTextureEmitsNothing(t *testing.T) {
	m, s := newCellMap(util.NewDims(3, 3, 3), "blocks")
	// Ocupado mas sem textura: não emite faces, mas ainda oclui o vizinho
	set(s, util.NewCoord(1, 1, 1), cell{sprite: -1, solid: true})

	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, newCache(), fixedCamera{})
	if res := pass.Prepare(0); res.Instances != 0 {
		t.Errorf("Instances = %d, want 0", res.Instances)
	}

	set(s, util.NewCoord(0, 1, 1), cell{sprite: 0, solid: true})
	res := pass.Prepare(0)
	if res.Instances != 5 {
		t.Errorf("Instances = %d, want 5 (face +x ocluída pelo vizinho sem textura)", res.Instances)
	}
}

func TestPrepareGroupsByTexture(t *testing.T) {
	a, sa := newCellMap(util.NewDims(2, 1, 1), "stone")
	b, sb := newCellMap(util.NewDims(1, 1, 1), "grass")
	// Voxels sem vizinhos ocupados para que todas as faces sejam emitidas
	set(sa, util.NewCoord(0, 0, 0), cell{sprite: 0})
	set(sa, util.NewCoord(1, 0, 0), cell{sprite: 1})
	set(sb, util.NewCoord(0, 0, 0), cell{sprite: 0})

	sheets := sheetMap{
		"stone": grid(&assets.SpriteSheet{Texture: "stone.png"}, 2),
		"grass": grid(&assets.SpriteSheet{Texture: "grass.png"}, 1),
	}
	pass := NewDrawVoxels[cell](mapList{{m: a}, {m: b}}, sheets, newCache(), fixedCamera{})
	res := pass.Prepare(0)

	groups := pass.Batch().Groups()
	if len(groups) != 2 || res.Textures != 2 {
		t.Fatalf("grupos = %d, want 2", len(groups))
	}
	if groups[0].Ranges[0].Slot != 0 || groups[1].Ranges[0].Slot != 1 {
		t.Errorf("slots = %d, %d, want 0, 1", groups[0].Ranges[0].Slot, groups[1].Ranges[0].Slot)
	}

	// Ordem de emissão: x=0 (faces 0..5) e depois x=1 (faces 0..5)
	data := pass.Batch().Data()
	for i := 0; i < 12; i++ {
		wantX := int32(i / 6)
		wantFace := uint32(i % 6)
		if data[i].VoxelCoord[0] != wantX || data[i].Face != wantFace {
			t.Errorf("registro %d = (x=%d, face=%d), want (x=%d, face=%d)", i, data[i].VoxelCoord[0], data[i].Face, wantX, wantFace)
		}
	}
	if groups[0].Ranges[0].Count != 12 || groups[1].Ranges[0].Start != 12 {
		t.Errorf("faixas = %+v, %+v", groups[0].Ranges, groups[1].Ranges)
	}
}

func TestPrepareIdempotent(t *testing.T) {
	m, s := newCellMap(util.Cube(3), "blocks")
	s.Fill(func(c util.Coord) cell { return cell{sprite: 0, solid: true} })

	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, newCache(), fixedCamera{})

	first := pass.Prepare(0)
	before := append([]InstanceRecord(nil), pass.Batch().Data()...)
	second := pass.Prepare(0)

	if !first.Dirty {
		t.Errorf("primeiro Prepare deveria estar sujo")
	}
	if second.Dirty {
		t.Errorf("segundo Prepare sem mudanças marcou Dirty")
	}
	after := pass.Batch().Data()
	if len(after) != len(before) {
		t.Fatalf("registros = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i] != after[i] {
			t.Errorf("registro %d mudou: %+v != %+v", i, before[i], after[i])
		}
	}

	// Uma edição de tint muda o conteúdo e precisa marcar Dirty
	red := voxel.RGBA8(255, 0, 0, 255)
	set(s, util.NewCoord(0, 0, 0), cell{sprite: 0, solid: true, tint: &red})
	if res := pass.Prepare(0); !res.Dirty {
		t.Errorf("Prepare após mudança de tint não marcou Dirty")
	}
}

func TestPrepareDirtyWhenTextureUnbound(t *testing.T) {
	solid, ss := newCellMap(util.Cube(1), "a")
	set(ss, util.Origin(), cell{sprite: 0, solid: true})
	// Mapa sem faces, mas que ainda mantém b.png residente.
	empty, _ := newCellMap(util.Cube(2), "b")

	sheets := sheetMap{
		"a": grid(&assets.SpriteSheet{Texture: "a.png"}, 1),
		"b": grid(&assets.SpriteSheet{Texture: "b.png"}, 1),
	}
	cache := newCache()
	maps := mapList{{m: solid}, {m: empty}}
	pass := NewDrawVoxels[cell](&maps, sheets, cache, fixedCamera{})

	if res := pass.Prepare(0); !res.Dirty {
		t.Fatalf("primeiro Prepare deveria estar sujo")
	}
	if res := pass.Prepare(1); res.Dirty {
		t.Fatalf("segundo Prepare sem mudanças marcou Dirty")
	}
	if cache.Len() != 2 {
		t.Fatalf("texturas residentes = %d, want 2", cache.Len())
	}

	maps = maps[:1]
	res := pass.Prepare(2)
	if cache.Len() != 1 {
		t.Fatalf("texturas residentes = %d, want 1", cache.Len())
	}
	if !res.Dirty {
		t.Errorf("b.png descarregada mas Dirty = false")
	}
	if res.Instances != 6 {
		t.Errorf("Instances = %d, want 6", res.Instances)
	}
}

func TestPrepareSkipsMissingAssets(t *testing.T) {
	good, sg := newCellMap(util.Cube(1), "good")
	noSheet, sn := newCellMap(util.Cube(1), "nosheet")
	noTex, st := newCellMap(util.Cube(1), "notex")
	for _, s := range []*voxel.VecStorage[cell]{sg, sn, st} {
		set(s, util.Origin(), cell{sprite: 0, solid: true})
	}

	sheets := sheetMap{
		"good":  grid(&assets.SpriteSheet{Texture: "good.png"}, 1),
		"notex": grid(&assets.SpriteSheet{Texture: "missing.png"}, 1),
	}
	maps := mapList{{m: noSheet}, {m: good}, {m: noTex}}
	pass := NewDrawVoxels[cell](maps, sheets, newCache("missing.png"), fixedCamera{})
	res := pass.Prepare(0)

	if res.Skipped != 2 || res.Maps != 1 {
		t.Errorf("Skipped = %d, Maps = %d, want 2, 1", res.Skipped, res.Maps)
	}
	if res.Instances != 6 {
		t.Errorf("Instances = %d, want 6", res.Instances)
	}
	if pass.Env().Len() != 1 {
		t.Errorf("Env().Len() = %d, want 1", pass.Env().Len())
	}
}

func TestPrepareSpriteOutOfRangePanics(t *testing.T) {
	m, s := newCellMap(util.Cube(1), "blocks")
	set(s, util.Origin(), cell{sprite: 3, solid: true})

	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, newCache(), fixedCamera{})

	defer func() {
		if recover() == nil {
			t.Errorf("Prepare com sprite fora da faixa não entrou em pânico")
		}
	}()
	pass.Prepare(0)
}

func TestDrawWalksLoadedGroups(t *testing.T) {
	a, sa := newCellMap(util.Cube(1), "blocks")
	b, sb := newCellMap(util.Cube(1), "blocks")
	set(sa, util.Origin(), cell{sprite: 0, solid: true})
	set(sb, util.Origin(), cell{sprite: 0, solid: true})

	transform := mgl32.Translate3D(10, 0, 0)
	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: a}, {m: b, transform: &transform}}, sheets, newCache(), fixedCamera{})
	pass.Prepare(0)

	var rec recorder
	pass.Draw(&rec)

	if len(rec.textures) != 1 {
		t.Errorf("BindTexture chamado %d vezes, want 1", len(rec.textures))
	}
	if len(rec.slots) != 2 || rec.slots[0] != 0 || rec.slots[1] != 1 {
		t.Errorf("slots = %v, want [0 1]", rec.slots)
	}
	if rec.instances != 12 || rec.vertices != QuadVertices {
		t.Errorf("instâncias = %d (vértices %d), want 12 (%d)", rec.instances, rec.vertices, QuadVertices)
	}
	u, _ := pass.Env().Slot(1)
	if u.MapTransform != transform {
		t.Errorf("MapTransform do slot 1 = %v, want %v", u.MapTransform, transform)
	}
}

func TestPrepareRerecordPerFrameIndex(t *testing.T) {
	m, s := newCellMap(util.Cube(1), "blocks")
	set(s, util.Origin(), cell{sprite: 0, solid: true})
	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, newCache(), fixedCamera{})

	steps := []struct {
		index int
		want  bool
	}{
		{0, true},  // primeiro frame
		{1, true},  // índice ainda não gravado
		{0, false}, // sem mudanças
		{1, false},
	}
	for i, st := range steps {
		if got := pass.Prepare(st.index).Rerecord; got != st.want {
			t.Errorf("passo %d: Prepare(%d).Rerecord = %v, want %v", i, st.index, got, st.want)
		}
	}
}

// silentResidency recusa todas as texturas sem logar nada.
type silentResidency struct{}

func (silentResidency) Insert(assets.TextureHandle) (TextureID, bool, bool) { return 0, false, false }
func (silentResidency) Loaded(TextureID) bool                               { return false }
func (silentResidency) Maintain() bool                                      { return false }

func TestPrepareLogsSkippedTexture(t *testing.T) {
	hook := logtest.NewGlobal()
	defer hook.Reset()

	m, s := newCellMap(util.Cube(1), "blocks")
	set(s, util.Origin(), cell{sprite: 0, solid: true})
	sheets := sheetMap{"blocks": grid(&assets.SpriteSheet{Texture: "blocks.png"}, 1)}
	pass := NewDrawVoxels[cell](mapList{{m: m}}, sheets, silentResidency{}, fixedCamera{})

	if res := pass.Prepare(0); res.Skipped != 1 {
		t.Fatalf("Skipped = %d, want 1", res.Skipped)
	}
	entry := hook.LastEntry()
	if entry == nil || entry.Level != logrus.WarnLevel {
		t.Fatalf("mapa ignorado sem log de aviso: %+v", entry)
	}
	if !strings.Contains(entry.Message, "blocks.png") {
		t.Errorf("mensagem = %q, want textura blocks.png", entry.Message)
	}
}
