package handlers

import (
	"net/http"
	"time"

	"github.com/AnshRaj112/innerbloom-companion/internal/services"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	wsPongWait   = 90 * time.Second
	wsPingPeriod = 30 * time.Second
	wsWriteWait  = 10 * time.Second
)

var eventsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Origins are enforced by the CORS layer.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// deadlineConn bounds every hub write so a stalled client is dropped instead
// of holding its writer forever.
type deadlineConn struct {
	*websocket.Conn
}

func (c deadlineConn) WriteJSON(v interface{}) error {
	if err := c.Conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
		return err
	}
	return c.Conn.WriteJSON(v)
}

// Events handles GET /ws/events. The stream opens with the current user and
// then carries every event the hub publishes. Client messages are ignored.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	if h.Hub == nil {
		writeError(w, http.StatusServiceUnavailable, "Event stream is not available")
		return
	}
	conn, err := eventsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer conn.Close()

	hello := services.Event{
		Type:      services.EventUserUpdated,
		Data:      h.Session.Current(),
		Timestamp: time.Now().UTC(),
	}
	out := deadlineConn{conn}
	if err := out.WriteJSON(hello); err != nil {
		return
	}

	id := h.Hub.Register(out)
	defer h.Hub.Unregister(id)
	h.Logger.Debug("event subscriber connected", zap.String("subscriber", id))

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(wsPingPeriod)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(wsWriteWait)); err != nil {
					return
				}
			}
		}
	}()

	conn.SetReadLimit(4 * 1024)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.Logger.Debug("event subscriber disconnected", zap.String("subscriber", id))
			return
		}
	}
}
