package signaling

import "log/slog"

// Hub is the event loop at the centre of the relay. It owns the
// connection registry and the room table; every mutation of that state
// runs on the single Run goroutine, which is what makes concurrent joins
// to the same room safe without per-room locking.
type Hub struct {
	registry  *Registry
	rooms     *RoomManager
	lifecycle *LifecycleController
	router    *Router
	logger    *slog.Logger

	// Register is the channel for newly accepted connections.
	Register chan *Client

	// Unregister is the channel for closed connections.
	Unregister chan *Client

	// inbound carries parsed client messages into the loop.
	inbound chan inboundMessage
}

type inboundMessage struct {
	client *Client
	env    Envelope
	raw    []byte
}

// NewHub wires up the registry, room manager, lifecycle controller and
// router. Call Run in its own goroutine before serving connections.
func NewHub(logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	registry := NewRegistry()
	rooms := NewRoomManager(registry)
	lifecycle := NewLifecycleController(registry, rooms, logger)
	return &Hub{
		registry:   registry,
		rooms:      rooms,
		lifecycle:  lifecycle,
		router:     NewRouter(registry, rooms, lifecycle, logger),
		logger:     logger,
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		inbound:    make(chan inboundMessage),
	}
}

// Run processes registration, disconnect and message events until the
// process exits. All channels are unbuffered, so a connection is fully
// registered before its read pump can push a message.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.Register:
			h.handleRegister(client)
		case client := <-h.Unregister:
			h.handleUnregister(client)
		case msg := <-h.inbound:
			h.router.Route(msg.client.id, msg.env, msg.raw)
		}
	}
}

func (h *Hub) handleRegister(client *Client) {
	id := h.registry.Register(client)
	h.logger.Info("connection registered", "conn", id)
}

// handleUnregister is the single cleanup path. Transport close, read
// errors and failed writes all end here: leave the room (notifying the
// peer), drop the registry entry, and stop the write pump.
func (h *Hub) handleUnregister(client *Client) {
	if _, ok := h.registry.Client(client.id); !ok {
		return
	}
	h.logger.Info("connection closed", "conn", client.id)
	h.lifecycle.HandleLeave(client.id)
	h.registry.Deregister(client.id)
	close(client.send)
}
