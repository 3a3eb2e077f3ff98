package realtime

import (
	"context"
	"encoding/json"

	"github.com/gofiber/contrib/websocket"
	"go.uber.org/zap"

	"github.com/spec-kit/support-crm/internal/events"
)

// Hub fans domain events out to connected websocket clients. It is a pure
// observer: a broadcast that nobody receives changes nothing, and a slow
// client is dropped rather than allowed to stall the rest.
type Hub struct {
	logger     *zap.Logger
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub creates a hub. Run must be started before ServeWS accepts clients.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		register:   make(chan *client),
		unregister: make(chan *client),
		broadcast:  make(chan []byte, 32),
	}
}

// SubscribeTicketEvents wires the hub to the dispatcher so every ticket and
// complaint mutation reaches connected dashboards.
func (h *Hub) SubscribeTicketEvents(dispatcher events.Dispatcher) {
	for _, eventType := range []events.EventType{
		events.EventComplaintReceived,
		events.EventTicketCreated,
		events.EventTicketStatusChanged,
		events.EventTicketAssigned,
	} {
		dispatcher.Subscribe(eventType, h.handleEvent)
	}
}

func (h *Hub) handleEvent(_ context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
	default:
		h.logger.Warn("realtime broadcast buffer full; dropping event",
			zap.String("type", string(event.Type)))
	}
	return nil
}

// Run owns the client set. All registration and fan-out happens on this
// goroutine, so no mutex is needed.
func (h *Hub) Run(ctx context.Context) {
	clients := make(map[*client]struct{})
	for {
		select {
		case <-ctx.Done():
			for c := range clients {
				close(c.send)
			}
			return
		case c := <-h.register:
			clients[c] = struct{}{}
		case c := <-h.unregister:
			if _, ok := clients[c]; ok {
				delete(clients, c)
				close(c.send)
			}
		case message := <-h.broadcast:
			for c := range clients {
				select {
				case c.send <- message:
				default:
					delete(clients, c)
					close(c.send)
				}
			}
		}
	}
}

// ServeWS handles one websocket connection for its lifetime. Intended to be
// wrapped with websocket.New on a fiber route.
func (h *Hub) ServeWS(conn *websocket.Conn) {
	c := &client{conn: conn, send: make(chan []byte, 16)}
	h.register <- c

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			// Inbound frames are discarded; the stream is one-way.
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				_ = conn.Close()
				<-done
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				h.unregister <- c
				_ = conn.Close()
				<-done
				return
			}
		case <-done:
			h.unregister <- c
			_ = conn.Close()
			return
		}
	}
}
