package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"time"
)

// Cores para o terminal (ANSI)
const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
)

func main() {
	fmt.Println(ColorCyan + "╔══════════════════════════════════════╗" + ColorReset)
	fmt.Println(ColorCyan + "║       VoxelMap Native Builder        ║" + ColorReset)
	fmt.Println(ColorCyan + "╚══════════════════════════════════════╝" + ColorReset)

	skipTests := flag.Bool("skip-tests", false, "Não rodar go test antes de compilar")
	flag.Parse()

	start := time.Now()

	// 1. Configurar Ambiente
	setupEnvironment()

	// 2. Testes dos pacotes sem janela (voxel, render, cena, inspeção)
	if !*skipTests {
		if err := runTests("./shared/...", "./servidor/..."); err != nil {
			fatal(err)
		}
	}

	// 3. Servidor: sqlite exige CGO
	if err := buildComponent("SERVIDOR (CGO)", "servidor", exe("servidor/server"), true, "-s -w"); err != nil {
		fatal(err)
	}

	// 4. Cliente: raylib exige CGO
	clientFlags := "-s -w"
	if runtime.GOOS == "windows" {
		clientFlags += " -H=windowsgui"
	}
	if err := buildComponent("CLIENTE (CGO + GUI)", "cliente", exe("cliente/client"), true, clientFlags); err != nil {
		fatal(err)
	}

	// 5. Launcher
	if err := buildComponent("LAUNCHER (Pure Go)", "launcher", exe("VoxelMap"), false, "-s -w"); err != nil {
		fatal(err)
	}

	fmt.Printf("\n"+ColorCyan+"Build finalizada com sucesso em %v!"+ColorReset+"\n", time.Since(start).Round(time.Second))
	fmt.Printf(ColorYellow+"Dica: Execute o '%s' para abrir servidor e cliente."+ColorReset+"\n", exe("VoxelMap"))
}

func exe(name string) string {
	if runtime.GOOS == "windows" {
		return name + ".exe"
	}
	return name
}

func runTests(pkgs ...string) error {
	fmt.Println(ColorYellow + "\n[+] Rodando testes..." + ColorReset)
	os.Setenv("CGO_ENABLED", "1")
	cmd := exec.Command("go", append([]string{"test"}, pkgs...)...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("testes falharam: %w", err)
	}
	return nil
}

func setupEnvironment() {
	fmt.Println(ColorYellow + "\n[1/5] Configurando ambiente de compilação..." + ColorReset)

	// Adicionar MSYS2 ao PATH se estiver no Windows
	if runtime.GOOS == "windows" {
		msysPath := `C:\msys64\mingw64\bin`
		currentPath := os.Getenv("PATH")
		if !strings.Contains(currentPath, msysPath) {
			os.Setenv("PATH", msysPath+";"+currentPath)
			fmt.Printf("  - PATH atualizado: %s adicionado.\n", msysPath)
		}
		os.Setenv("CC", "gcc")
		fmt.Println("  - Compilador C: gcc (MSYS2)")
	}
}

func buildComponent(name, dir, output string, useCgo bool, ldflags string) error {
	fmt.Printf(ColorYellow+"\n[+] Compilando %s..."+ColorReset+"\n", name)

	cgoValue := "0"
	if useCgo {
		cgoValue = "1"
	}
	os.Setenv("CGO_ENABLED", cgoValue)

	args := []string{"build", "-ldflags", ldflags, "-o", output, "./" + dir}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("falha ao compilar %s: %w", name, err)
	}

	fmt.Printf(ColorGreen+"  - %s compilado com sucesso -> %s"+ColorReset+"\n", name, output)
	return nil
}

func fatal(err error) {
	fmt.Printf("\n"+ColorRed+"[ERRO FATAL] %v"+ColorReset+"\n", err)
	os.Exit(1)
}
