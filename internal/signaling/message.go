package signaling

import "encoding/json"

// Kind tags a websocket message envelope. The relay interprets only the
// administrative kinds; negotiation kinds (offer/answer/candidate and
// anything it does not recognise) are forwarded opaquely.
type Kind string

// Client to relay.
const (
	KindJoin      Kind = "join"
	KindLeave     Kind = "leave"
	KindOffer     Kind = "offer"
	KindAnswer    Kind = "answer"
	KindCandidate Kind = "candidate"
)

// Relay to client.
const (
	KindReady    Kind = "ready"
	KindPeerLeft Kind = "peer-left"
	KindError    Kind = "error"
)

// Envelope is the decoded header of a websocket message. Negotiation
// payload fields (sdp, candidate bodies, ...) are deliberately absent:
// the relay forwards the sender's raw bytes and never re-encodes them.
type Envelope struct {
	Type   Kind   `json:"type"`
	RoomID string `json:"roomId,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ParseEnvelope decodes the header of an inbound frame. It returns
// ErrMalformedMessage when the frame is not JSON, carries no type, or is
// a join without a room id.
func ParseEnvelope(raw []byte) (Envelope, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return Envelope{}, ErrMalformedMessage
	}
	if env.Type == "" {
		return Envelope{}, ErrMalformedMessage
	}
	if env.Type == KindJoin && env.RoomID == "" {
		return Envelope{}, ErrMalformedMessage
	}
	return env, nil
}

// notification builds a relay-generated message (ready, peer-left).
// Marshalling an Envelope cannot fail, so the error is ignored.
func notification(kind Kind, roomID string) []byte {
	b, _ := json.Marshal(Envelope{Type: kind, RoomID: roomID})
	return b
}

// errorNotification builds the error message sent back to a connection
// whose own message could not be handled.
func errorNotification(roomID, reason string) []byte {
	b, _ := json.Marshal(Envelope{Type: KindError, RoomID: roomID, Error: reason})
	return b
}
