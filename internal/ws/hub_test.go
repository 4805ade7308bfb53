package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjnyampinga/Educational-File-Manager/internal/models"
)

// поднимает тестовый сервер, который регистрирует все входящие соединения
func newHubServer(t *testing.T, hub *Hub) *httptest.Server {
	t.Helper()

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		hub.Register(conn)
	}))
	t.Cleanup(server.Close)
	return server
}

func dial(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)

	first := dial(t, server)
	second := dial(t, server)

	// Ждем пока сервер зарегистрирует оба соединения
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Broadcast(models.EventFileUploadProgress, models.ProgressEvent{
		FileID: "file-1",
		Status: models.ProgressComplete,
	})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var envelope Envelope
		require.NoError(t, json.Unmarshal(message, &envelope))
		assert.Equal(t, models.EventFileUploadProgress, envelope.Event)

		data, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var event models.ProgressEvent
		require.NoError(t, json.Unmarshal(data, &event))
		assert.Equal(t, "file-1", event.FileID)
		assert.Equal(t, models.ProgressComplete, event.Status)
	}
}

func TestHubDeliversEventsInBroadcastOrder(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)

	conn := dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	// Последовательность started → in_progress → complete для одного
	// файла должна дойти до клиента в порядке отправки
	statuses := []models.ProgressStatus{
		models.ProgressStarted,
		models.ProgressInProgress,
		models.ProgressComplete,
	}
	const rounds = 50
	for i := 0; i < rounds; i++ {
		for _, status := range statuses {
			hub.Broadcast(models.EventFileUploadProgress, models.ProgressEvent{
				FileID: "file-1",
				Status: status,
			})
		}
	}

	for i := 0; i < rounds*len(statuses); i++ {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, message, err := conn.ReadMessage()
		require.NoError(t, err)

		var envelope Envelope
		require.NoError(t, json.Unmarshal(message, &envelope))
		data, err := json.Marshal(envelope.Data)
		require.NoError(t, err)
		var event models.ProgressEvent
		require.NoError(t, json.Unmarshal(data, &event))

		require.Equal(t, statuses[i%len(statuses)], event.Status,
			"event %d delivered out of broadcast order", i)
	}
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := NewHub(zerolog.Nop())

	// Ноль подписчиков — не ошибка и не паника
	hub.Broadcast(models.EventFileUploadProgress, models.ProgressEvent{
		FileID: "file-1",
		Status: models.ProgressStarted,
	})
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubUnregisterIsIdempotent(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)

	dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)

	hub.mu.RLock()
	var conn *websocket.Conn
	for c := range hub.clients {
		conn = c
	}
	hub.mu.RUnlock()

	hub.Unregister(conn)
	hub.Unregister(conn)
	assert.Equal(t, 0, hub.ClientCount())
}

func TestHubClose(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	server := newHubServer(t, hub)

	dial(t, server)
	dial(t, server)
	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Close()
	assert.Equal(t, 0, hub.ClientCount())
}
