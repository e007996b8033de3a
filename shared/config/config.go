package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrUnknownFormat indica uma extensão de arquivo de configuração não suportada.
var ErrUnknownFormat = errors.New("formato de configuração desconhecido")

// Config armazena as configurações do visualizador e do servidor de preparação.
type Config struct {
	// Janela
	WindowWidth  int32  `json:"window_width" yaml:"window_width"`
	WindowHeight int32  `json:"window_height" yaml:"window_height"`
	WindowTitle  string `json:"window_title" yaml:"window_title"`
	Fullscreen   bool   `json:"fullscreen" yaml:"fullscreen"`
	TargetFPS    int32  `json:"target_fps" yaml:"target_fps"`

	// Mapa de exemplo
	MapSize uint32 `json:"map_size" yaml:"map_size"`
	Encoder string `json:"encoder" yaml:"encoder"` // "flat" ou "morton"

	// Renderização
	RenderRadius   float32 `json:"render_radius" yaml:"render_radius"` // 0 = sem limite além do armazenamento
	FramesInFlight int     `json:"frames_in_flight" yaml:"frames_in_flight"`
	FOV            float32 `json:"fov" yaml:"fov"`
	AtlasPath      string  `json:"atlas_path" yaml:"atlas_path"`

	// Câmera
	CameraSpeed       float32 `json:"camera_speed" yaml:"camera_speed"`
	CameraSensitivity float32 `json:"camera_sensitivity" yaml:"camera_sensitivity"`
	ZoomSpeed         float32 `json:"zoom_speed" yaml:"zoom_speed"`

	// Profiling e inspeção
	ProfileDB   string `json:"profile_db" yaml:"profile_db"`     // vazio = desativado
	InspectAddr string `json:"inspect_addr" yaml:"inspect_addr"` // servidor: endereço de escuta
	InspectURL  string `json:"inspect_url" yaml:"inspect_url"`   // cliente: servidor a observar

	// Debug
	LogLevel      string `json:"log_level" yaml:"log_level"`
	LogFile       string `json:"log_file" yaml:"log_file"`
	ShowDebugInfo bool   `json:"show_debug_info" yaml:"show_debug_info"`
	ShowGrid      bool   `json:"show_grid" yaml:"show_grid"`
}

// DefaultConfig retorna a configuração padrão.
func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  1280,
		WindowHeight: 720,
		WindowTitle:  "VoxelMap",
		Fullscreen:   false,
		TargetFPS:    60,

		MapSize: 8,
		Encoder: "morton",

		RenderRadius:   0,
		FramesInFlight: 3,
		FOV:            60.0,
		AtlasPath:      "assets/sheets",

		CameraSpeed:       10.0,
		CameraSensitivity: 0.3,
		ZoomSpeed:         2.0,

		ProfileDB:   "",
		InspectAddr: ":8080",
		InspectURL:  "ws://127.0.0.1:8080/ws",

		LogLevel:      "info",
		LogFile:       "",
		ShowDebugInfo: true,
		ShowGrid:      false,
	}
}

// configPath retorna o caminho do arquivo de configuração ao lado do executável.
func configPath() string {
	execDir, err := os.Executable()
	if err != nil {
		return "config.json"
	}
	return filepath.Join(filepath.Dir(execDir), "config.json")
}

// Load carrega as configurações do config.json ao lado do executável.
// Se o arquivo não existir ou for inválido, retorna as configurações padrão.
func Load() *Config {
	cfg, err := LoadFile(configPath())
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// LoadFile carrega um arquivo .json, .yaml ou .yml sobre os valores padrão.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}

	cfg := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(data, cfg)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, cfg)
	default:
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate verifica os valores que o renderizador não consegue corrigir sozinho.
func (c *Config) Validate() error {
	if c.MapSize == 0 {
		return errors.New("map_size deve ser maior que zero")
	}
	switch strings.ToLower(c.Encoder) {
	case "", "flat", "morton":
	default:
		return fmt.Errorf("encoder inválido: %q", c.Encoder)
	}
	if c.FramesInFlight < 1 {
		return fmt.Errorf("frames_in_flight inválido: %d", c.FramesInFlight)
	}
	if c.RenderRadius < 0 {
		return fmt.Errorf("render_radius negativo: %v", c.RenderRadius)
	}
	return nil
}

// Save salva as configurações no config.json ao lado do executável.
func (c *Config) Save() error {
	return c.SaveFile(configPath())
}

// SaveFile salva as configurações no formato indicado pela extensão.
func (c *Config) SaveFile(path string) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(c, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		return fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
