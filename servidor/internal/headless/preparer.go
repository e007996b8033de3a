package headless

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync/atomic"
	"time"

	"VoxelMap/shared/config"
	"VoxelMap/shared/demo"
	"VoxelMap/shared/inspect"
	"VoxelMap/shared/render"
	"VoxelMap/shared/scene"
	"VoxelMap/shared/util"
	"VoxelMap/shared/voxel"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Publisher recebe os snapshots de frame (inspect.Hub).
type Publisher interface {
	Publish(f inspect.Frame)
}

// StatsRecorder recebe o resultado de cada Prepare (profile.Recorder).
type StatsRecorder interface {
	Record(index int, res render.PrepareResult)
}

// Options controla a simulação do servidor.
type Options struct {
	EditsPerTick int     // edições aleatórias na esfera central por tick
	OrbitSpeed   float32 // radianos por tick
	PublishEvery uint64  // publica frames não alterados a cada N ticks (0 = só alterados)
	Seed         uint64
}

// Preparer roda o passo de preparação sem janela: a cena de exemplo, uma câmera
// orbitando e edições simuladas. Cada tick gera um frame para os inspetores.
type Preparer struct {
	scene    *scene.Scene[demo.Block]
	editor   *scene.Editor[demo.Block]
	layout   demo.Layout
	pass     *render.DrawVoxels[demo.Block]
	textures *render.TextureCache[int64]
	camera   *render.LookAtCamera

	pub     Publisher
	stats   StatsRecorder
	opts    Options
	rng     *rand.Rand
	session string

	framesInFlight int
	radius         float32
	angle          float32
	seq            uint64

	failure atomic.Pointer[error]
}

// New monta a cena de exemplo. pub e stats podem ser nil.
func New(cfg *config.Config, sheets render.SheetSource, opts Options, pub Publisher, stats StatsRecorder, session string) (*Preparer, error) {
	sc := scene.New[demo.Block]()
	layout, err := demo.Populate(sc, cfg.MapSize, voxel.EncoderKind(cfg.Encoder))
	if err != nil {
		return nil, err
	}
	if session == "" {
		session = uuid.NewString()
	}

	radius := float32(cfg.MapSize) * 2.5
	p := &Preparer{
		scene:    sc,
		editor:   scene.NewEditor(sc),
		layout:   layout,
		textures: render.NewTextureCache(render.StatTexture, nil),
		camera: &render.LookAtCamera{
			Fov:    cfg.FOV,
			Aspect: float32(cfg.WindowWidth) / float32(max(cfg.WindowHeight, 1)),
		},
		pub:            pub,
		stats:          stats,
		opts:           opts,
		rng:            rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		session:        session,
		framesInFlight: max(cfg.FramesInFlight, 1),
		radius:         radius,
	}
	p.pass = render.NewDrawVoxels[demo.Block](sc, sheets, p.textures, p.camera)
	if cfg.RenderRadius > 0 {
		p.pass.SetBounds(render.CameraRadius[demo.Block]{Radius: cfg.RenderRadius})
	}
	p.moveCamera()
	return p, nil
}

// Scene expõe a cena (edições externas, ocultar mapas).
func (p *Preparer) Scene() *scene.Scene[demo.Block] { return p.scene }

// Editor expõe a fila de edições; seguro para uso concorrente.
func (p *Preparer) Editor() *scene.Editor[demo.Block] { return p.editor }

// Layout retorna as entidades da cena de exemplo.
func (p *Preparer) Layout() demo.Layout { return p.layout }

// Session retorna o identificador da sessão dos frames publicados.
func (p *Preparer) Session() string { return p.session }

func (p *Preparer) moveCamera() {
	p.camera.Eye = mgl32.Vec3{
		p.radius * math32.Sin(p.angle),
		p.radius * 0.5,
		p.radius * math32.Cos(p.angle),
	}
}

func (p *Preparer) scatter() {
	m, ok := p.scene.Map(p.layout.Sphere)
	if !ok {
		return
	}
	d := m.Dimensions()
	kinds := [...]demo.Kind{demo.Air, demo.Stone, demo.Glass}
	for range p.opts.EditsPerTick {
		c := util.NewCoord(int32(p.rng.UintN(uint(d.X))), int32(p.rng.UintN(uint(d.Y))), int32(p.rng.UintN(uint(d.Z))))
		p.editor.Set(p.layout.Sphere, c, demo.Block{Kind: kinds[p.rng.IntN(len(kinds))]})
	}
}

// Tick aplica as edições pendentes, prepara um frame e o publica.
func (p *Preparer) Tick() render.PrepareResult {
	p.seq++
	p.angle += p.opts.OrbitSpeed
	p.moveCamera()

	p.scatter()
	p.editor.Flush()

	index := int(p.seq % uint64(p.framesInFlight))
	res := p.pass.Prepare(index)
	if p.stats != nil {
		p.stats.Record(index, res)
	}

	publish := res.Dirty || (p.opts.PublishEvery > 0 && p.seq%p.opts.PublishEvery == 0)
	if p.pub != nil && publish {
		p.pub.Publish(inspect.NewFrame(p.seq, p.session, index, res, p.pass.Batch()))
	}
	return res
}

// Err retorna o pânico que derrubou o loop de Run, ou nil enquanto ele estiver saudável.
func (p *Preparer) Err() error {
	if e := p.failure.Load(); e != nil {
		return *e
	}
	return nil
}

// safeTick converte um pânico de Tick (violação de contrato, ex: sprite inexistente) em erro.
func (p *Preparer) safeTick() (res render.PrepareResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame %d: %v", p.seq, r)
		}
	}()
	return p.Tick(), nil
}

// Run executa Tick a cada interval até o contexto ser cancelado.
// Um pânico em Tick encerra o loop e fica registrado em Err.
func (p *Preparer) Run(ctx context.Context, interval time.Duration) {
	logrus.Infof("[Preparer] Iniciando loop de preparação (intervalo %v, sessão %s)", interval, p.session)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logrus.Infof("[Preparer] Loop encerrado após %d frames", p.seq)
			return
		case <-ticker.C:
			res, err := p.safeTick()
			if err != nil {
				p.failure.Store(&err)
				logrus.Errorf("[Preparer] Loop interrompido: %v", err)
				return
			}
			if p.seq%300 == 0 {
				logrus.Infof("[Preparer] Frame %d: %d mapas, %d faces, %d texturas em %v",
					p.seq, res.Maps, res.Instances, res.Textures, res.Elapsed)
			}
		}
	}
}
