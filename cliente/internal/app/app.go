package app

import (
	"context"
	"time"

	"VoxelMap/cliente/internal/camera"
	"VoxelMap/cliente/internal/gpu"
	"VoxelMap/shared/assets"
	"VoxelMap/shared/config"
	"VoxelMap/shared/demo"
	"VoxelMap/shared/inspect"
	pkgutil "VoxelMap/shared/pkg/util"
	"VoxelMap/shared/profile"
	"VoxelMap/shared/render"
	"VoxelMap/shared/scene"
	"VoxelMap/shared/voxel"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// App é o visualizador: janela raylib, cena de exemplo e o passo de voxels.
type App struct {
	Config *config.Config
	Cam    *camera.OrbitCamera

	scene  *scene.Scene[demo.Block]
	editor *scene.Editor[demo.Block]
	layout demo.Layout

	sheets    *assets.Registry
	textures  *gpu.Textures
	submitter *gpu.Submitter
	pass      *render.DrawVoxels[demo.Block]

	recorder     *profile.Recorder
	recorderDone chan struct{}
	codec        *inspect.Codec
	remote       pkgutil.Latest[inspect.Frame]

	ctx    context.Context
	cancel context.CancelFunc

	frameCount int
	lastResult render.PrepareResult
	lastEdits  int
}

// New cria a aplicação. A janela só é aberta em Run.
func New(cfg *config.Config) *App {
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Config: cfg,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run inicia o loop principal da aplicação.
func (a *App) Run() error {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[PANIC] Erro fatal recuperado: %v", r)
			panic(r)
		}
	}()

	rl.SetConfigFlags(rl.FlagMsaa4xHint | rl.FlagWindowResizable)
	rl.InitWindow(a.Config.WindowWidth, a.Config.WindowHeight, a.Config.WindowTitle)
	rl.SetTraceLogLevel(rl.LogWarning)
	if a.Config.Fullscreen {
		rl.ToggleFullscreen()
	}
	rl.SetTargetFPS(a.Config.TargetFPS)
	defer rl.CloseWindow()

	logrus.Infof("[VoxelMap] Janela inicializada: %dx%d", a.Config.WindowWidth, a.Config.WindowHeight)

	if err := a.setup(); err != nil {
		return err
	}
	defer a.shutdown()

	for !rl.WindowShouldClose() {
		a.update()
		a.draw()
	}
	return nil
}

// setup monta a cena, os assets e o passo de voxels. Precisa da janela aberta.
func (a *App) setup() error {
	a.scene = scene.New[demo.Block]()
	a.editor = scene.NewEditor(a.scene)

	layout, err := demo.Populate(a.scene, a.Config.MapSize, voxel.EncoderKind(a.Config.Encoder))
	if err != nil {
		return err
	}
	a.layout = layout

	a.sheets = assets.NewRegistry()
	if _, err := a.sheets.LoadDir(a.Config.AtlasPath); err != nil {
		return err
	}

	a.Cam = camera.New(a.Config.FOV, float32(a.Config.MapSize)*2.5)
	a.Cam.RotateSpeed = a.Config.CameraSensitivity
	a.Cam.MoveSpeed = a.Config.CameraSpeed
	a.Cam.ZoomSpeed = a.Config.ZoomSpeed
	a.Cam.SetTarget(mgl32.Vec3{0, 0, 0})

	a.textures = gpu.NewTextures()
	a.submitter = gpu.NewSubmitter(a.textures)
	a.pass = render.NewDrawVoxels[demo.Block](a.scene, a.sheets, a.textures, a.Cam)
	if a.Config.RenderRadius > 0 {
		a.pass.SetBounds(render.CameraRadius[demo.Block]{Radius: a.Config.RenderRadius})
	}

	if a.Config.ProfileDB != "" {
		rec, err := profile.Open(a.Config.ProfileDB, 1024)
		if err != nil {
			logrus.Warnf("[App] Profiling desativado: %v", err)
		} else {
			a.recorder = rec
			a.recorderDone = make(chan struct{})
			go func() {
				defer close(a.recorderDone)
				rec.Run(a.ctx, time.Second)
			}()
		}
	}

	if a.Config.InspectURL != "" {
		codec, err := inspect.NewCodec()
		if err != nil {
			logrus.Warnf("[App] Inspeção remota desativada: %v", err)
		} else {
			a.codec = codec
			go a.watchServer()
		}
	}
	return nil
}

// update atualiza a lógica a cada frame: entrada, edições pendentes e preparação do batch.
func (a *App) update() {
	a.frameCount++

	a.Cam.SetAspect(rl.GetScreenWidth(), rl.GetScreenHeight())
	a.updateCamera()
	a.updateInput()

	if applied, _ := a.editor.Flush(); applied > 0 {
		a.lastEdits = applied
	}

	index := a.frameCount % max(a.Config.FramesInFlight, 1)
	a.lastResult = a.pass.Prepare(index)
	if a.lastResult.Rerecord {
		logrus.Debugf("[Render] Frame %d: comandos regravados (dirty=%v)", index, a.lastResult.Dirty)
	}
	if a.recorder != nil {
		a.recorder.Record(index, a.lastResult)
	}
}

// shutdown realiza a limpeza de recursos.
func (a *App) shutdown() {
	logrus.Info("[App] Finalizando aplicação...")
	a.cancel()

	a.textures.Close()
	if a.recorder != nil {
		<-a.recorderDone
		if err := a.recorder.Close(); err != nil {
			logrus.Errorf("[App] Erro ao fechar o banco de estatísticas: %v", err)
		}
	}
	if err := a.Config.Save(); err != nil {
		logrus.Errorf("[App] Erro ao salvar configurações: %v", err)
	}
}
