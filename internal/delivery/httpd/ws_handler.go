package httpd

import (
	"net/http"

	"github.com/gorilla/websocket"
)

// ServeWS апгрейдит соединение и подписывает клиента на события прогресса.
// Клиент ничего не шлет; read loop нужен чтобы заметить разрыв соединения.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}

	h.hub.Register(conn)
	h.logger.Debug().
		Str("remote", conn.RemoteAddr().String()).
		Int("clients", h.hub.ClientCount()).
		Msg("WebSocket client connected")

	go func() {
		defer func() {
			h.hub.Unregister(conn)
			conn.Close()
		}()

		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.logger.Debug().Err(err).Msg("WebSocket read error")
				}
				return
			}
		}
	}()
}
