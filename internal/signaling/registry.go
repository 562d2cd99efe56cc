package signaling

import "github.com/google/uuid"

// ConnID identifies one live connection for the lifetime of the process.
// IDs are assigned by the registry on accept, never supplied by clients.
type ConnID string

// Registry is the bookkeeping for open connections: which clients exist
// and which room each one currently belongs to. It is owned by the hub
// and only ever touched from the hub goroutine.
type Registry struct {
	conns map[ConnID]*entry
}

type entry struct {
	client *Client
	roomID string
}

// NewRegistry creates an empty connection registry.
func NewRegistry() *Registry {
	return &Registry{conns: make(map[ConnID]*entry)}
}

// NewID mints a connection id, unique for the process lifetime. Safe to
// call from any goroutine; ids go into the table only via Register.
func (r *Registry) NewID() ConnID {
	return ConnID(uuid.NewString())
}

// Register starts tracking the client under its connection id.
func (r *Registry) Register(c *Client) ConnID {
	r.conns[c.id] = &entry{client: c}
	return c.id
}

// Deregister stops tracking the connection. Safe to call twice.
func (r *Registry) Deregister(id ConnID) {
	delete(r.conns, id)
}

// Client returns the client behind a connection id.
func (r *Registry) Client(id ConnID) (*Client, bool) {
	e, ok := r.conns[id]
	if !ok {
		return nil, false
	}
	return e.client, true
}

// RoomOf returns the room the connection has joined, if any.
func (r *Registry) RoomOf(id ConnID) (string, bool) {
	e, ok := r.conns[id]
	if !ok || e.roomID == "" {
		return "", false
	}
	return e.roomID, true
}

// setRoom records the connection's current room ("" when it has none).
// Called by the room manager as membership changes; a no-op for unknown
// ids so that late leave events after deregister stay harmless.
func (r *Registry) setRoom(id ConnID, roomID string) {
	if e, ok := r.conns[id]; ok {
		e.roomID = roomID
	}
}
