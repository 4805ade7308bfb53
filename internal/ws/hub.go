package ws

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	writeTimeout = 5 * time.Second
	sendBuffer   = 256
)

// Envelope — формат событий, отправляемых подключенным клиентам
type Envelope struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// client — подключение с буферизованной очередью исходящих сообщений.
// Единственная горутина writePump пишет в сокет, поэтому порядок
// доставки совпадает с порядком Broadcast.
type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub рассылает события всем подключенным клиентам. Доставка не
// гарантируется: медленный или отключившийся клиент просто пропускает
// событие, история не хранится.
type Hub struct {
	logger zerolog.Logger

	mu      sync.RWMutex
	clients map[*websocket.Conn]*client
}

func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger:  logger,
		clients: make(map[*websocket.Conn]*client),
	}
}

func (h *Hub) Register(conn *websocket.Conn) {
	c := &client{
		conn: conn,
		send: make(chan []byte, sendBuffer),
	}

	h.mu.Lock()
	h.clients[conn] = c
	count := len(h.clients)
	h.mu.Unlock()

	go h.writePump(c)

	h.logger.Debug().
		Int("clients", count).
		Msg("WebSocket client connected")
}

// Unregister удаляет клиента; повторный вызов безопасен
func (h *Hub) Unregister(conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	c, ok := h.clients[conn]
	if !ok {
		return
	}

	delete(h.clients, conn)
	close(c.send)
	conn.Close()

	h.logger.Debug().
		Int("clients", len(h.clients)).
		Msg("WebSocket client disconnected")
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Broadcast отправляет событие всем текущим клиентам. Не блокирует
// вызывающую сторону; ноль подписчиков — не ошибка. Сообщения одного
// клиента уходят в порядке вызовов Broadcast.
func (h *Hub) Broadcast(event string, payload interface{}) {
	envelope := Envelope{
		Event:     event,
		Data:      payload,
		Timestamp: time.Now().UTC(),
	}

	message, err := json.Marshal(envelope)
	if err != nil {
		h.logger.Error().Err(err).Str("event", event).Msg("Failed to marshal event")
		return
	}

	// Отправка в канал под RLock: Unregister закрывает канал только
	// под полным Lock, поэтому записи в закрытый канал не будет
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, c := range h.clients {
		select {
		case c.send <- message:
		default:
			// Очередь клиента переполнена — событие для него потеряно
			h.logger.Debug().Str("event", event).Msg("Dropping event for slow WebSocket client")
		}
	}
}

func (h *Hub) writePump(c *client) {
	for message := range c.send {
		c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			h.logger.Debug().Err(err).Msg("Dropping slow WebSocket client")
			h.Unregister(c.conn)
			return
		}
	}
}

// Close отключает всех клиентов; вызывается при остановке сервиса
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for conn, c := range h.clients {
		close(c.send)
		conn.Close()
	}
	h.clients = make(map[*websocket.Conn]*client)
}
