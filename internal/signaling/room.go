package signaling

// RoomState describes how far a room is through pairing.
type RoomState int

const (
	// RoomWaiting means one member is in the room, waiting for a peer.
	RoomWaiting RoomState = iota + 1

	// RoomReady means both members are present and may negotiate.
	RoomReady
)

// Room is a named coordination point for exactly two peers. Members keep
// insertion order: members[0] is the first joiner. Empty rooms never
// persist; the manager deletes a room when its last member leaves.
type Room struct {
	ID      string
	members []ConnID
}

// maxRoomMembers is the two-party invariant. A call has exactly two ends.
const maxRoomMembers = 2

// JoinOutcome reports the result of a join.
type JoinOutcome struct {
	// State is the room's state after the join.
	State RoomState

	// Transitioned is true when the join changed membership. A duplicate
	// join by an existing member reports the current state with
	// Transitioned false, so notifications are never emitted twice.
	Transitioned bool

	// Members is the room membership after the join, in join order.
	Members []ConnID

	// Departed is set when the join implicitly removed the connection
	// from a different room first. It is valid even when Join returns
	// ErrRoomFull, since the implicit leave has already happened.
	Departed *Departure
}

// Departure reports the result of a leave.
type Departure struct {
	RoomID string

	// WasReady is true when the room had both members before the leave,
	// meaning the remaining member lost an active peer.
	WasReady bool

	// Remaining is the membership after the leave. Empty means the room
	// was destroyed.
	Remaining []ConnID
}

// RoomManager owns the room table and enforces membership transitions.
// Like the registry it is driven only from the hub goroutine, which is
// what serialises concurrent joins to the same room.
type RoomManager struct {
	registry *Registry
	rooms    map[string]*Room
}

// NewRoomManager creates a room manager backed by the given registry.
func NewRoomManager(registry *Registry) *RoomManager {
	return &RoomManager{
		registry: registry,
		rooms:    make(map[string]*Room),
	}
}

// Join adds the connection to the named room, creating the room on first
// join. Joining a room the connection is already in is a no-op that
// reports the room's current state. Joining while a member of a different
// room leaves that room first. A room with two members rejects further
// joins with ErrRoomFull and keeps its membership untouched.
func (m *RoomManager) Join(id ConnID, roomID string) (JoinOutcome, error) {
	if current, ok := m.registry.RoomOf(id); ok {
		if current == roomID {
			room := m.rooms[roomID]
			return JoinOutcome{
				State:   stateFor(len(room.members)),
				Members: append([]ConnID(nil), room.members...),
			}, nil
		}
		// Implicit leave: network retries and room switches must not
		// leave a connection in two rooms at once.
		departed, _ := m.Leave(id)
		outcome, err := m.Join(id, roomID)
		outcome.Departed = &departed
		return outcome, err
	}

	room, ok := m.rooms[roomID]
	if !ok {
		room = &Room{ID: roomID}
		m.rooms[roomID] = room
	}
	if len(room.members) >= maxRoomMembers {
		return JoinOutcome{}, ErrRoomFull
	}

	room.members = append(room.members, id)
	m.registry.setRoom(id, roomID)

	return JoinOutcome{
		State:        stateFor(len(room.members)),
		Transitioned: true,
		Members:      append([]ConnID(nil), room.members...),
	}, nil
}

// Leave removes the connection from its room, destroying the room when it
// empties. The second return is false when the connection was not in a
// room, which makes leave idempotent.
func (m *RoomManager) Leave(id ConnID) (Departure, bool) {
	roomID, ok := m.registry.RoomOf(id)
	if !ok {
		return Departure{}, false
	}
	room := m.rooms[roomID]

	wasReady := len(room.members) == maxRoomMembers
	for i, member := range room.members {
		if member == id {
			room.members = append(room.members[:i], room.members[i+1:]...)
			break
		}
	}
	m.registry.setRoom(id, "")

	if len(room.members) == 0 {
		delete(m.rooms, roomID)
	}

	return Departure{
		RoomID:    roomID,
		WasReady:  wasReady,
		Remaining: append([]ConnID(nil), room.members...),
	}, true
}

// Members returns the current membership of a room in join order, or nil
// for an unknown room.
func (m *RoomManager) Members(roomID string) []ConnID {
	room, ok := m.rooms[roomID]
	if !ok {
		return nil
	}
	return append([]ConnID(nil), room.members...)
}

func stateFor(memberCount int) RoomState {
	if memberCount >= maxRoomMembers {
		return RoomReady
	}
	return RoomWaiting
}
