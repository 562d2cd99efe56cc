package signaling

import "errors"

// Per-message errors. All of them are local to the offending connection's
// own message and never fatal to the relay or to other connections.
var (
	// ErrRoomFull rejects a join to a room that already has two members.
	ErrRoomFull = errors.New("room is full")

	// ErrNotInRoom rejects a negotiation message from a connection that
	// has not joined a room.
	ErrNotInRoom = errors.New("not in a room")

	// ErrMalformedMessage rejects a frame whose envelope cannot be parsed.
	ErrMalformedMessage = errors.New("malformed message")
)
