package render

import (
	"fmt"
	"os"

	"VoxelMap/shared/assets"

	"github.com/sirupsen/logrus"
)

// TextureResidency é o serviço que mantém as texturas das sprite sheets carregadas no backend.
type TextureResidency interface {
	// Insert garante que a textura esteja residente. newly indica que ela acabou de ser carregada;
	// ok == false indica um asset ausente (o passo loga e ignora o mapa).
	Insert(tex assets.TextureHandle) (id TextureID, newly bool, ok bool)
	// Loaded informa se a textura pode ser usada nas chamadas de desenho.
	Loaded(id TextureID) bool
	// Maintain libera as texturas que não foram usadas no frame e informa se alguma saiu.
	Maintain() bool
}

// TextureCache implementa TextureResidency sobre um par de funções load/unload do backend.
// T é o tipo nativo da textura (ex: rl.Texture2D).
type TextureCache[T any] struct {
	load   func(assets.TextureHandle) (T, error)
	unload func(T)

	ids     map[assets.TextureHandle]TextureID
	entries map[TextureID]*residentTexture[T]
	failed  map[assets.TextureHandle]struct{}
	next    TextureID
	frame   uint64
}

type residentTexture[T any] struct {
	handle   assets.TextureHandle
	value    T
	lastUsed uint64
}

// NewTextureCache cria o cache. unload pode ser nil.
func NewTextureCache[T any](load func(assets.TextureHandle) (T, error), unload func(T)) *TextureCache[T] {
	return &TextureCache[T]{
		load:    load,
		unload:  unload,
		ids:     make(map[assets.TextureHandle]TextureID),
		entries: make(map[TextureID]*residentTexture[T]),
		failed:  make(map[assets.TextureHandle]struct{}),
		next:    1,
	}
}

func (c *TextureCache[T]) Insert(tex assets.TextureHandle) (TextureID, bool, bool) {
	if id, ok := c.ids[tex]; ok {
		c.entries[id].lastUsed = c.frame
		return id, false, true
	}

	v, err := c.load(tex)
	if err != nil {
		// Loga só a primeira falha de cada textura
		if _, seen := c.failed[tex]; !seen {
			c.failed[tex] = struct{}{}
			logrus.Errorf("[Render] Textura ausente: %s (%v)", tex, err)
		}
		return 0, false, false
	}
	delete(c.failed, tex)

	id := c.next
	c.next++
	c.ids[tex] = id
	c.entries[id] = &residentTexture[T]{handle: tex, value: v, lastUsed: c.frame}
	logrus.Debugf("[Render] Textura carregada: %s (id %d)", tex, id)
	return id, true, true
}

func (c *TextureCache[T]) Loaded(id TextureID) bool {
	_, ok := c.entries[id]
	return ok
}

// Get retorna a textura nativa de um id residente.
func (c *TextureCache[T]) Get(id TextureID) (T, bool) {
	e, ok := c.entries[id]
	if !ok {
		var zero T
		return zero, false
	}
	return e.value, true
}

func (c *TextureCache[T]) Maintain() bool {
	removed := false
	for id, e := range c.entries {
		if e.lastUsed == c.frame {
			continue
		}
		if c.unload != nil {
			c.unload(e.value)
		}
		delete(c.entries, id)
		delete(c.ids, e.handle)
		logrus.Debugf("[Render] Textura descarregada: %s", e.handle)
		removed = true
	}
	c.frame++
	return removed
}

// Len retorna o número de texturas residentes.
func (c *TextureCache[T]) Len() int { return len(c.entries) }

// Close descarrega todas as texturas.
func (c *TextureCache[T]) Close() {
	for id, e := range c.entries {
		if c.unload != nil {
			c.unload(e.value)
		}
		delete(c.entries, id)
	}
	c.ids = make(map[assets.TextureHandle]TextureID)
}

// StatTexture é um loader sem GPU: a textura é "residente" se o arquivo existir.
// Usado pelo servidor headless.
func StatTexture(tex assets.TextureHandle) (int64, error) {
	fi, err := os.Stat(string(tex))
	if err != nil {
		return 0, fmt.Errorf("textura %s: %w", tex, err)
	}
	if fi.IsDir() {
		return 0, fmt.Errorf("textura %s é um diretório", tex)
	}
	return fi.Size(), nil
}
