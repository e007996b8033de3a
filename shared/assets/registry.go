package assets

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"VoxelMap/shared/voxel"

	"github.com/sirupsen/logrus"
)

// --- Estruturas JSON ---

// SpriteEntry define um sprite em pixels.
type SpriteEntry struct {
	Name   string `json:"name,omitempty"`
	X      uint32 `json:"x"`
	Y      uint32 `json:"y"`
	Width  uint32 `json:"width"`
	Height uint32 `json:"height"`
}

// GridEntry recorta a textura em uma grade regular, linha por linha.
type GridEntry struct {
	Columns uint32 `json:"columns"`
	Rows    uint32 `json:"rows"`
	// Count limita o número de células usadas (0 = todas)
	Count uint32 `json:"count,omitempty"`
}

// SheetConfig é o root de um arquivo <nome>.json de sprite sheet.
type SheetConfig struct {
	Texture       string        `json:"texture"`
	TextureWidth  uint32        `json:"textureWidth"`
	TextureHeight uint32        `json:"textureHeight"`
	Sprites       []SpriteEntry `json:"sprites,omitempty"`
	Grid          *GridEntry    `json:"grid,omitempty"`
}

// ErrEmptySheet indica uma sprite sheet sem nenhum sprite.
var ErrEmptySheet = errors.New("sprite sheet sem sprites")

// Build converte a configuração em SpriteSheet.
func (c SheetConfig) Build() (*SpriteSheet, error) {
	if c.Texture == "" {
		return nil, fmt.Errorf("campo texture vazio")
	}
	if c.TextureWidth == 0 || c.TextureHeight == 0 {
		return nil, fmt.Errorf("dimensões da textura inválidas: %dx%d", c.TextureWidth, c.TextureHeight)
	}

	sheet := &SpriteSheet{Texture: TextureHandle(c.Texture)}

	for _, e := range c.Sprites {
		if e.X+e.Width > c.TextureWidth || e.Y+e.Height > c.TextureHeight {
			return nil, fmt.Errorf("sprite %q (%d,%d %dx%d) excede a textura", e.Name, e.X, e.Y, e.Width, e.Height)
		}
		sheet.Sprites = append(sheet.Sprites, spriteFromPixels(e.Name, c.TextureWidth, c.TextureHeight, e.X, e.Y, e.Width, e.Height))
	}

	if g := c.Grid; g != nil && g.Columns > 0 && g.Rows > 0 {
		w, h := c.TextureWidth/g.Columns, c.TextureHeight/g.Rows
		total := g.Columns * g.Rows
		if g.Count > 0 && g.Count < total {
			total = g.Count
		}
		for i := uint32(0); i < total; i++ {
			col, row := i%g.Columns, i/g.Columns
			sheet.Sprites = append(sheet.Sprites, spriteFromPixels("", c.TextureWidth, c.TextureHeight, col*w, row*h, w, h))
		}
	}

	if len(sheet.Sprites) == 0 {
		return nil, ErrEmptySheet
	}
	return sheet, nil
}

// --- Registry ---

// Registry guarda as sprite sheets carregadas, indexadas pelo handle do atlas.
// É consultado pelo passo de preparação a cada frame.
type Registry struct {
	mu     sync.RWMutex
	sheets map[voxel.AtlasHandle]*SpriteSheet
}

// NewRegistry cria um registro vazio.
func NewRegistry() *Registry {
	return &Registry{sheets: make(map[voxel.AtlasHandle]*SpriteSheet)}
}

// Register associa (ou substitui) a sheet de um handle.
func (r *Registry) Register(handle voxel.AtlasHandle, sheet *SpriteSheet) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sheets[handle] = sheet
}

// Remove descarta a sheet de um handle.
func (r *Registry) Remove(handle voxel.AtlasHandle) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sheets, handle)
}

// Sheet retorna a sheet registrada para o handle.
func (r *Registry) Sheet(handle voxel.AtlasHandle) (*SpriteSheet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sheets[handle]
	return s, ok
}

// Len retorna o número de sheets registradas.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sheets)
}

// LoadFile lê um arquivo JSON de sprite sheet e registra com o handle informado.
// O caminho da textura é resolvido relativo ao diretório do arquivo.
func (r *Registry) LoadFile(handle voxel.AtlasHandle, path string) (*SpriteSheet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler %s: %w", path, err)
	}
	var conf SheetConfig
	if err := json.Unmarshal(data, &conf); err != nil {
		return nil, fmt.Errorf("falha ao parsear %s: %w", path, err)
	}
	if conf.Texture != "" && !filepath.IsAbs(conf.Texture) {
		conf.Texture = filepath.Join(filepath.Dir(path), conf.Texture)
	}
	sheet, err := conf.Build()
	if err != nil {
		return nil, fmt.Errorf("sprite sheet %s: %w", path, err)
	}
	r.Register(handle, sheet)
	return sheet, nil
}

// LoadDir carrega todos os *.json do diretório; o handle de cada sheet é o nome do arquivo sem extensão.
// Arquivos inválidos são logados e ignorados.
func (r *Registry) LoadDir(dir string) (int, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return 0, fmt.Errorf("falha ao listar %s: %w", dir, err)
	}

	loaded := 0
	for _, f := range files {
		handle := voxel.AtlasHandle(strings.TrimSuffix(filepath.Base(f), filepath.Ext(f)))
		sheet, err := r.LoadFile(handle, f)
		if err != nil {
			logrus.Warnf("[Assets] Ignorando %s: %v", f, err)
			continue
		}
		logrus.Debugf("[Assets] Sprite sheet %q carregada: %d sprites (%s)", handle, sheet.Len(), sheet.Texture)
		loaded++
	}
	logrus.Infof("[Assets] Total de sprite sheets carregadas de %s: %d", dir, loaded)
	return loaded, nil
}
