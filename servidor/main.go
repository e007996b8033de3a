package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"VoxelMap/servidor/internal/headless"
	"VoxelMap/shared/assets"
	"VoxelMap/shared/config"
	"VoxelMap/shared/inspect"
	"VoxelMap/shared/profile"

	"github.com/sirupsen/logrus"
)

func main() {
	configFile := flag.String("config", "", "Arquivo de configuração (.json, .yaml ou .yml)")
	addr := flag.String("addr", "", "Endereço HTTP/WebSocket (padrão: inspect_addr)")
	interval := flag.Duration("interval", time.Second/30, "Intervalo entre frames preparados")
	edits := flag.Int("edits", 8, "Edições aleatórias por frame na esfera central")
	orbit := flag.Float64("orbit", 0.01, "Velocidade de órbita da câmera (radianos por frame)")
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			logrus.Fatalf("[Server] %v", err)
		}
		cfg = loaded
	}
	if *addr != "" {
		cfg.InspectAddr = *addr
	}

	logFile, err := cfg.SetupLogging()
	if err != nil {
		logrus.Warnf("[Server] %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	logrus.Info("╔══════════════════════════════════════╗")
	logrus.Info("║        VoxelMap SERVER v0.1.0        ║")
	logrus.Info("╚══════════════════════════════════════╝")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	sheets := assets.NewRegistry()
	if n, err := sheets.LoadDir(cfg.AtlasPath); err != nil || n == 0 {
		logrus.Warnf("[Server] Nenhuma sprite sheet carregada de %s (%v); os mapas serão ignorados", cfg.AtlasPath, err)
	}

	codec, err := inspect.NewCodec()
	if err != nil {
		logrus.Fatalf("[Server] %v", err)
	}
	defer codec.Close()

	hub := inspect.NewHub(codec)
	hubDone := make(chan struct{})
	go func() {
		defer close(hubDone)
		hub.Run(ctx)
	}()

	var (
		recorder *profile.Recorder
		stats    headless.StatsRecorder
		session  string
	)
	profileDone := make(chan struct{})
	if cfg.ProfileDB != "" {
		recorder, err = profile.Open(cfg.ProfileDB, 4096)
		if err != nil {
			logrus.Fatalf("[Server] %v", err)
		}
		stats = recorder
		session = recorder.Session()
		go func() {
			defer close(profileDone)
			recorder.Run(ctx, time.Second)
		}()
	} else {
		close(profileDone)
	}

	preparer, err := headless.New(cfg, sheets, headless.Options{
		EditsPerTick: *edits,
		OrbitSpeed:   float32(*orbit),
		PublishEvery: 30,
		Seed:         uint64(time.Now().UnixNano()),
	}, hub, stats, session)
	if err != nil {
		logrus.Fatalf("[Server] %v", err)
	}
	prepDone := make(chan struct{})
	go func() {
		defer close(prepDone)
		preparer.Run(ctx, *interval)
	}()

	mux := http.NewServeMux()
	mux.Handle("/ws", hub)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		body := map[string]any{
			"session":    preparer.Session(),
			"inspectors": hub.Clients(),
			"dropped":    hub.Dropped(),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := preparer.Err(); err != nil {
			body["error"] = err.Error()
			w.WriteHeader(http.StatusServiceUnavailable)
		}
		_ = json.NewEncoder(w).Encode(body)
	})
	mux.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		if recorder == nil {
			http.Error(w, "profiling desativado (profile_db vazio)", http.StatusNotFound)
			return
		}
		sum, err := recorder.Summarize()
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(sum)
	})

	ln, err := net.Listen("tcp", cfg.InspectAddr)
	if err != nil {
		logrus.Errorf("[Server] Não foi possível abrir %s. Provavelmente há outra instância do servidor rodando.", cfg.InspectAddr)
		logrus.Fatalf("[Server] Erro ao iniciar servidor: %v", err)
	}
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logrus.Infof("[Server] Servidor VoxelMap iniciado em %s (ws em /ws)", ln.Addr())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logrus.Errorf("[Server] Erro fatal no servidor HTTP: %v", err)
		stop()
	}

	<-prepDone
	<-hubDone
	<-profileDone
	if recorder != nil {
		if err := recorder.Close(); err != nil {
			logrus.Errorf("[Server] Erro ao fechar o banco de estatísticas: %v", err)
		}
	}
	logrus.Info("[Server] Encerrado")
}
