package signaling

import "log/slog"

// Router delivers inbound messages. Administrative kinds (join, leave) go
// to the lifecycle controller; everything else is a negotiation payload
// forwarded verbatim to the other member of the sender's room. The router
// never inspects negotiation bodies.
type Router struct {
	registry  *Registry
	rooms     *RoomManager
	lifecycle *LifecycleController
	logger    *slog.Logger
}

// NewRouter creates a router over the given registry, room manager and
// lifecycle controller.
func NewRouter(registry *Registry, rooms *RoomManager, lifecycle *LifecycleController, logger *slog.Logger) *Router {
	if logger == nil {
		logger = slog.Default()
	}
	return &Router{
		registry:  registry,
		rooms:     rooms,
		lifecycle: lifecycle,
		logger:    logger,
	}
}

// Route handles one inbound message from sender. raw is the frame exactly
// as it arrived; forwarded messages are these bytes, not a re-encoding,
// so unknown payload fields survive the relay untouched.
func (rt *Router) Route(sender ConnID, env Envelope, raw []byte) {
	switch env.Type {
	case KindJoin:
		rt.lifecycle.HandleJoin(sender, env.RoomID)
	case KindLeave:
		rt.lifecycle.HandleLeave(sender)
	default:
		rt.forward(sender, env, raw)
	}
}

// forward relays raw to every room member except the sender. For the
// two-party model that is zero recipients (sole member, a no-op) or one.
// Delivery is best effort: a full recipient buffer drops the message
// rather than blocking the hub loop.
func (rt *Router) forward(sender ConnID, env Envelope, raw []byte) {
	roomID, ok := rt.registry.RoomOf(sender)
	if !ok {
		rt.logger.Warn("dropping message from connection without a room", "conn", sender, "type", env.Type)
		rt.lifecycle.NotifyError(sender, env.RoomID, ErrNotInRoom)
		return
	}

	for _, member := range rt.rooms.Members(roomID) {
		if member == sender {
			continue
		}
		recipient, ok := rt.registry.Client(member)
		if !ok {
			continue
		}
		if !recipient.trySend(raw) {
			rt.logger.Warn("message dropped, recipient buffer full", "room", roomID, "conn", member, "type", env.Type)
		}
	}
}
