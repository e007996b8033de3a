package main

import (
	"flag"
	"runtime"

	"VoxelMap/cliente/internal/app"
	"VoxelMap/shared/config"

	"github.com/sirupsen/logrus"
)

func main() {
	// Raylib/OpenGL exige rodar na thread principal do SO
	runtime.LockOSThread()

	configFile := flag.String("config", "", "Arquivo de configuração (.json, .yaml ou .yml)")
	serverURL := flag.String("server", "", "URL de inspeção do servidor (ex: ws://127.0.0.1:8080/ws); \"off\" desativa")
	fullscreen := flag.Bool("fullscreen", false, "Iniciar em tela cheia")
	debug := flag.Bool("debug", false, "Log detalhado")
	width := flag.Int("width", 0, "Largura da janela")
	height := flag.Int("height", 0, "Altura da janela")
	flag.Parse()

	cfg := config.Load()
	if *configFile != "" {
		loaded, err := config.LoadFile(*configFile)
		if err != nil {
			logrus.Fatalf("[VoxelMap] %v", err)
		}
		cfg = loaded
	}

	// Flags sobrescrevem o arquivo
	switch *serverURL {
	case "":
	case "off":
		cfg.InspectURL = ""
	default:
		cfg.InspectURL = *serverURL
	}
	if *fullscreen {
		cfg.Fullscreen = true
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if *width > 0 {
		cfg.WindowWidth = int32(*width)
	}
	if *height > 0 {
		cfg.WindowHeight = int32(*height)
	}

	logFile, err := cfg.SetupLogging()
	if err != nil {
		logrus.Warnf("[VoxelMap] %v", err)
	}
	if logFile != nil {
		defer logFile.Close()
	}

	logrus.Info("╔══════════════════════════════════════╗")
	logrus.Info("║            VoxelMap v0.1.0           ║")
	logrus.Info("║   Renderizador de mapas de voxels    ║")
	logrus.Info("╚══════════════════════════════════════╝")

	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("[VoxelMap] Configuração inválida: %v", err)
	}

	application := app.New(cfg)
	if err := application.Run(); err != nil {
		logrus.Fatalf("[VoxelMap] %v", err)
	}
}
