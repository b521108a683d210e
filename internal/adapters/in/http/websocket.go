package http

import (
	"log/slog"
	"time"

	"fleet/internal/core/domain/events"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 45 * time.Second
)

// EventSource is the subscription half of the event bus the feed serves
// from.
type EventSource interface {
	Subscribe() (<-chan events.Event, func())
}

// EventFeed streams committed state changes to websocket clients on
// GET /api/v1/events. Each connection gets its own bus subscription; a
// client that stops reading loses events rather than backing up the bus.
type EventFeed struct {
	source   EventSource
	logger   *slog.Logger
	upgrader websocket.Upgrader
}

// NewEventFeed creates the websocket feed over the given event source.
func NewEventFeed(source EventSource, logger *slog.Logger) *EventFeed {
	return &EventFeed{
		source: source,
		logger: logger.With("component", "eventfeed"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// Serve upgrades the request and pumps bus events to the client until the
// connection drops or the bus closes.
func (f *EventFeed) Serve(ctx echo.Context) error {
	conn, err := f.upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		// Upgrade already wrote the error response.
		return nil
	}

	feed, unsubscribe := f.source.Subscribe()
	defer unsubscribe()
	defer conn.Close()

	// Reads only service control frames; any read error ends the session.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, readErr := conn.ReadMessage(); readErr != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-feed:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "shutting down"),
					time.Now().Add(writeWait))
				return nil
			}
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if writeErr := conn.WriteJSON(event); writeErr != nil {
				f.logger.Debug("event feed write failed", "error", writeErr)
				return nil
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if pingErr := conn.WriteMessage(websocket.PingMessage, nil); pingErr != nil {
				return nil
			}
		case <-closed:
			return nil
		}
	}
}
