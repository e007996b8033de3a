package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

func binary(dir, name string) string {
	if runtime.GOOS == "windows" {
		name += ".exe"
	}
	return filepath.Join(dir, name)
}

// waitHealthy consulta /healthz até o servidor responder ou o prazo acabar.
func waitHealthy(ctx context.Context, url string) error {
	client := &http.Client{Timeout: time.Second}
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()
	for {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		if resp, err := client.Do(req); err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("servidor não respondeu em %s: %w", url, ctx.Err())
		case <-ticker.C:
		}
	}
}

func main() {
	addr := flag.String("addr", "127.0.0.1:8080", "Endereço do servidor de inspeção")
	config := flag.String("config", "", "Arquivo de configuração repassado aos dois processos")
	flag.Parse()

	fmt.Println("╔══════════════════════════════════════╗")
	fmt.Println("║          VoxelMap Launcher           ║")
	fmt.Println("╚══════════════════════════════════════╝")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	common := []string{}
	if *config != "" {
		abs, err := filepath.Abs(*config)
		if err != nil {
			logrus.Fatalf("[Launcher] %v", err)
		}
		common = append(common, "-config", abs)
	}

	// 1. Servidor headless
	fmt.Println("[1/2] Iniciando Servidor...")
	serverPath, err := filepath.Abs(binary("servidor", "server"))
	if err != nil {
		logrus.Fatalf("[Launcher] %v", err)
	}
	server := exec.CommandContext(ctx, serverPath, append(common, "-addr", *addr)...)
	server.Dir = "."
	server.Stdout = os.Stdout
	server.Stderr = os.Stderr
	if err := server.Start(); err != nil {
		logrus.Fatalf("[Launcher] Erro ao iniciar servidor: %v", err)
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = waitHealthy(waitCtx, "http://"+*addr+"/healthz")
	cancel()
	if err != nil {
		_ = server.Process.Kill()
		logrus.Fatalf("[Launcher] %v", err)
	}

	// 2. Cliente com janela, observando o servidor
	fmt.Println("[2/2] Abrindo Cliente...")
	clientPath, err := filepath.Abs(binary("cliente", "client"))
	if err != nil {
		logrus.Fatalf("[Launcher] %v", err)
	}
	client := exec.Command(clientPath, append(common, "-server", "ws://"+*addr+"/ws")...)
	client.Dir = "."
	if err := client.Run(); err != nil {
		logrus.Errorf("[Launcher] Cliente encerrou com erro: %v", err)
	}

	// Cliente fechado: derruba o servidor junto
	stop()
	_ = server.Wait()
	fmt.Println("VoxelMap encerrado.")
}
