package service

import (
	"context"
	"net/http"
	"sync"
	"time"

	"invest_bot/internal/strategy"

	"github.com/bytedance/sonic"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	broadcastBuffer = 256
	writeTimeout    = 5 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Hub раздаёт события стратегий всем подключённым к /ws.
type Hub struct {
	log *zap.Logger

	lock    sync.Mutex
	clients map[*websocket.Conn]struct{}

	broadcast chan []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		log:       log.Named("telemetry"),
		clients:   make(map[*websocket.Conn]struct{}),
		broadcast: make(chan []byte, broadcastBuffer),
	}
}

// Run пишет кадры клиентам, пока не отменят ctx. Отвалившихся выкидывает.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case msg := <-h.broadcast:
			h.lock.Lock()
			for c := range h.clients {
				_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := c.WriteMessage(websocket.TextMessage, msg); err != nil {
					_ = c.Close()
					delete(h.clients, c)
				}
			}
			h.lock.Unlock()
		}
	}
}

// Observe не блокирует: при переполненном буфере кадр теряется.
func (h *Hub) Observe(e strategy.Event) {
	msg, err := sonic.Marshal(e)
	if err != nil {
		h.log.Warn("marshal event", zap.Error(err))
		return
	}
	select {
	case h.broadcast <- msg:
	default:
		h.log.Debug("telemetry buffer is full, event dropped", zap.String("type", string(e.Type)))
	}
}

func (h *Hub) Clients() int {
	h.lock.Lock()
	defer h.lock.Unlock()
	return len(h.clients)
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warn("ws upgrade", zap.Error(err))
		return
	}
	h.lock.Lock()
	h.clients[conn] = struct{}{}
	h.lock.Unlock()

	// читаем только чтобы заметить закрытие со стороны клиента
	go func() {
		for {
			if _, _, err := conn.NextReader(); err != nil {
				h.drop(conn)
				return
			}
		}
	}()
}

func (h *Hub) drop(c *websocket.Conn) {
	h.lock.Lock()
	defer h.lock.Unlock()
	if _, ok := h.clients[c]; ok {
		_ = c.Close()
		delete(h.clients, c)
	}
}

func (h *Hub) closeAll() {
	h.lock.Lock()
	defer h.lock.Unlock()
	for c := range h.clients {
		_ = c.Close()
		delete(h.clients, c)
	}
}
