package signaling

import (
	"errors"
	"fmt"
	"testing"
)

func newTestState() (*Registry, *RoomManager) {
	registry := NewRegistry()
	return registry, NewRoomManager(registry)
}

// addConn registers a fake client without a real websocket connection.
// The hub handlers only touch the send channel, so a nil conn is fine as
// long as the pumps are never started.
func addConn(registry *Registry) *Client {
	c := &Client{
		id:   registry.NewID(),
		send: make(chan []byte, 8),
	}
	registry.Register(c)
	return c
}

func TestFirstJoinCreatesWaitingRoom(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)

	outcome, err := rooms.Join(a.id, "r1")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if outcome.State != RoomWaiting {
		t.Errorf("expected RoomWaiting, got %v", outcome.State)
	}
	if !outcome.Transitioned {
		t.Error("first join should transition")
	}
	if len(outcome.Members) != 1 || outcome.Members[0] != a.id {
		t.Errorf("unexpected members: %v", outcome.Members)
	}
	if roomID, ok := registry.RoomOf(a.id); !ok || roomID != "r1" {
		t.Errorf("registry should map connection to r1, got %q", roomID)
	}
}

func TestSecondJoinPairsRoom(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)
	b := addConn(registry)

	if _, err := rooms.Join(a.id, "r1"); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	outcome, err := rooms.Join(b.id, "r1")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if outcome.State != RoomReady {
		t.Errorf("expected RoomReady, got %v", outcome.State)
	}
	if !outcome.Transitioned {
		t.Error("second join should transition")
	}
	// First joiner keeps first position.
	if len(outcome.Members) != 2 || outcome.Members[0] != a.id || outcome.Members[1] != b.id {
		t.Errorf("unexpected member order: %v", outcome.Members)
	}
}

func TestThirdJoinRejectedRoomFull(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)
	b := addConn(registry)
	c := addConn(registry)

	rooms.Join(a.id, "r1")
	rooms.Join(b.id, "r1")

	_, err := rooms.Join(c.id, "r1")
	if !errors.Is(err, ErrRoomFull) {
		t.Fatalf("expected ErrRoomFull, got %v", err)
	}

	// Existing membership untouched.
	members := rooms.Members("r1")
	if len(members) != 2 || members[0] != a.id || members[1] != b.id {
		t.Errorf("membership changed by rejected join: %v", members)
	}
	if _, ok := registry.RoomOf(c.id); ok {
		t.Error("rejected connection should not be in a room")
	}
}

func TestDuplicateJoinIsNoop(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)
	b := addConn(registry)

	rooms.Join(a.id, "r1")
	rooms.Join(b.id, "r1")

	outcome, err := rooms.Join(a.id, "r1")
	if err != nil {
		t.Fatalf("duplicate join failed: %v", err)
	}
	if outcome.Transitioned {
		t.Error("duplicate join must not transition")
	}
	if outcome.State != RoomReady {
		t.Errorf("duplicate join should report current state, got %v", outcome.State)
	}
	if len(rooms.Members("r1")) != 2 {
		t.Errorf("duplicate join changed membership: %v", rooms.Members("r1"))
	}
}

func TestJoinDifferentRoomLeavesFirst(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)
	b := addConn(registry)

	rooms.Join(a.id, "r1")
	rooms.Join(b.id, "r1")

	outcome, err := rooms.Join(b.id, "r2")
	if err != nil {
		t.Fatalf("join failed: %v", err)
	}
	if outcome.Departed == nil {
		t.Fatal("expected a departure from the previous room")
	}
	if outcome.Departed.RoomID != "r1" || !outcome.Departed.WasReady {
		t.Errorf("unexpected departure: %+v", outcome.Departed)
	}
	if outcome.State != RoomWaiting {
		t.Errorf("expected RoomWaiting in new room, got %v", outcome.State)
	}
	if roomID, _ := registry.RoomOf(b.id); roomID != "r2" {
		t.Errorf("registry should map connection to r2, got %q", roomID)
	}
	if members := rooms.Members("r1"); len(members) != 1 || members[0] != a.id {
		t.Errorf("previous room should hold only the abandoned peer: %v", members)
	}
}

func TestLeaveDestroysEmptyRoom(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)

	rooms.Join(a.id, "r1")
	departed, ok := rooms.Leave(a.id)
	if !ok {
		t.Fatal("leave should report a departure")
	}
	if departed.WasReady {
		t.Error("a waiting room was never ready")
	}
	if rooms.Members("r1") != nil {
		t.Error("empty room should be destroyed")
	}
	if _, ok := registry.RoomOf(a.id); ok {
		t.Error("connection should have no room after leaving")
	}
}

func TestLeaveWithoutRoomIsNoop(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)

	if _, ok := rooms.Leave(a.id); ok {
		t.Error("leave without a room should report nothing")
	}
	// Twice, for idempotence.
	rooms.Join(a.id, "r1")
	rooms.Leave(a.id)
	if _, ok := rooms.Leave(a.id); ok {
		t.Error("second leave should be a no-op")
	}
}

func TestRejoinAfterLeave(t *testing.T) {
	registry, rooms := newTestState()
	a := addConn(registry)

	rooms.Join(a.id, "r1")
	rooms.Leave(a.id)

	outcome, err := rooms.Join(a.id, "r1")
	if err != nil {
		t.Fatalf("rejoin failed: %v", err)
	}
	if outcome.State != RoomWaiting || !outcome.Transitioned {
		t.Errorf("rejoin should land in a fresh waiting room, got %+v", outcome)
	}
}

func TestTwoPartyInvariantUnderJoinChurn(t *testing.T) {
	registry, rooms := newTestState()

	// A burst of connections churning through two rooms must never push
	// any room past two members.
	conns := make([]*Client, 8)
	for i := range conns {
		conns[i] = addConn(registry)
	}
	for round := 0; round < 4; round++ {
		for i, c := range conns {
			roomID := fmt.Sprintf("r%d", (i+round)%2)
			rooms.Join(c.id, roomID)
			for _, r := range []string{"r0", "r1"} {
				if n := len(rooms.Members(r)); n > maxRoomMembers {
					t.Fatalf("room %s reached %d members", r, n)
				}
			}
		}
	}
}

func TestRegistryDeregisterIdempotent(t *testing.T) {
	registry := NewRegistry()
	c := addConn(registry)

	registry.Deregister(c.id)
	registry.Deregister(c.id)

	if _, ok := registry.Client(c.id); ok {
		t.Error("client should be gone after deregister")
	}
	if _, ok := registry.RoomOf(c.id); ok {
		t.Error("deregistered connection has no room")
	}
}
