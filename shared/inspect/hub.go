package inspect

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	pkgutil "VoxelMap/shared/pkg/util"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

type peer struct {
	id   string
	lock sync.Mutex
}

// Hub gerencia os inspetores conectados e distribui os snapshots de frame.
type Hub struct {
	clients    map[*websocket.Conn]*peer
	broadcast  chan []byte
	register   chan *websocket.Conn
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex

	upgrader websocket.Upgrader
	codec    *Codec
	latest   pkgutil.Latest[[]byte]
	dropped  atomic.Uint64
}

// NewHub cria o hub; Run precisa estar rodando para aceitar conexões.
func NewHub(codec *Codec) *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]*peer),
		broadcast:  make(chan []byte, 64),
		register:   make(chan *websocket.Conn),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4 * 1024,
			WriteBufferSize: 64 * 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		codec: codec,
	}
}

// Run processa registros e broadcasts até o contexto ser cancelado.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logrus.Errorf("[Hub] Recuperado de pânico: %v", r)
		}
		h.mu.Lock()
		for conn := range h.clients {
			conn.Close()
			delete(h.clients, conn)
		}
		h.mu.Unlock()
		close(h.done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case conn := <-h.register:
			p := &peer{id: uuid.NewString()}
			h.mu.Lock()
			h.clients[conn] = p
			h.mu.Unlock()
			logrus.Infof("[Hub] Inspetor registrado: %s (%s)", p.id, conn.RemoteAddr())

			// O novo inspetor recebe o último frame publicado imediatamente.
			if data, ver := h.latest.Load(); ver > 0 {
				h.write(conn, p, data)
			}
		case conn := <-h.unregister:
			h.mu.Lock()
			if p, ok := h.clients[conn]; ok {
				p.lock.Lock()
				delete(h.clients, conn)
				conn.Close()
				p.lock.Unlock()
				logrus.Infof("[Hub] Inspetor desregistrado: %s", p.id)
			}
			h.mu.Unlock()
		case message := <-h.broadcast:
			type target struct {
				conn *websocket.Conn
				peer *peer
			}
			h.mu.Lock()
			targets := make([]target, 0, len(h.clients))
			for c, p := range h.clients {
				targets = append(targets, target{c, p})
			}
			h.mu.Unlock()

			for _, t := range targets {
				h.write(t.conn, t.peer, message)
			}
		}
	}
}

// write envia para um inspetor; em caso de erro ele é removido do hub.
func (h *Hub) write(conn *websocket.Conn, p *peer, data []byte) {
	p.lock.Lock()
	defer p.lock.Unlock()
	_ = conn.SetWriteDeadline(time.Now().Add(2 * time.Second))
	if err := conn.WriteMessage(websocket.BinaryMessage, data); err != nil {
		logrus.Warnf("[Hub] Erro ao enviar para %s: %v", p.id, err)
		conn.Close()
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}
}

// Publish serializa o frame e agenda o envio. Nunca bloqueia: com a fila cheia
// o frame é descartado (os inspetores ainda recebem o próximo).
func (h *Hub) Publish(f Frame) {
	data := h.codec.Marshal(f)
	h.latest.Store(data)
	select {
	case h.broadcast <- data:
	default:
		h.dropped.Add(1)
	}
}

// Dropped retorna quantos frames não couberam na fila de broadcast.
func (h *Hub) Dropped() uint64 { return h.dropped.Load() }

// Clients retorna o número de inspetores conectados.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// ServeHTTP faz o upgrade para websocket e mantém a conexão até o inspetor sair.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logrus.Warnf("[Hub] Erro no upgrade do WebSocket: %v", err)
		return
	}

	select {
	case h.register <- conn:
	case <-h.done:
		conn.Close()
		return
	}

	// Inspetores não enviam dados; a leitura só detecta o fechamento.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	select {
	case h.unregister <- conn:
	case <-h.done:
	}
}

// Client é um inspetor conectado a um Hub.
type Client struct {
	conn  *websocket.Conn
	codec *Codec
}

// Dial conecta a um hub (ex: ws://127.0.0.1:8080/ws).
func Dial(ctx context.Context, url string, codec *Codec) (*Client, error) {
	dialer := websocket.Dialer{
		HandshakeTimeout: 5 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("falha ao conectar em %s: %w", url, err)
	}
	return &Client{conn: conn, codec: codec}, nil
}

// Next bloqueia até o próximo frame.
func (c *Client) Next() (Frame, error) {
	for {
		typ, data, err := c.conn.ReadMessage()
		if err != nil {
			return Frame{}, err
		}
		if typ != websocket.BinaryMessage {
			continue
		}
		return c.codec.Unmarshal(data)
	}
}

// SetDeadline limita a espera de Next.
func (c *Client) SetDeadline(t time.Time) error { return c.conn.SetReadDeadline(t) }

// Close encerra a conexão.
func (c *Client) Close() error {
	_ = c.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	return c.conn.Close()
}
