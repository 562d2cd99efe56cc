package signaling

import "log/slog"

// LifecycleController turns room membership transitions into the
// participant-facing notifications: ready when a pairing completes,
// peer-left when a pairing breaks, error when a request is rejected.
// It carries no state of its own; each room's Empty/Waiting/Ready state
// lives in the room table and the controller reacts to transitions.
type LifecycleController struct {
	registry *Registry
	rooms    *RoomManager
	logger   *slog.Logger
}

// NewLifecycleController creates a controller over the given registry and
// room manager.
func NewLifecycleController(registry *Registry, rooms *RoomManager, logger *slog.Logger) *LifecycleController {
	if logger == nil {
		logger = slog.Default()
	}
	return &LifecycleController{
		registry: registry,
		rooms:    rooms,
		logger:   logger,
	}
}

// HandleJoin runs a join request and emits the resulting notifications:
// ready to both members when the room pairs up, peer-left to a peer
// abandoned by an implicit leave, error back to the joiner when the room
// is full.
func (lc *LifecycleController) HandleJoin(id ConnID, roomID string) {
	outcome, err := lc.rooms.Join(id, roomID)
	if outcome.Departed != nil {
		lc.notifyDeparture(*outcome.Departed)
	}
	if err != nil {
		lc.logger.Warn("join rejected", "conn", id, "room", roomID, "reason", err)
		lc.NotifyError(id, roomID, err)
		return
	}

	lc.logger.Info("joined room", "conn", id, "room", roomID, "members", len(outcome.Members))

	// Ready fires exactly once per pairing, on the transition to two
	// members. A duplicate join reports Transitioned false and stays
	// silent.
	if outcome.Transitioned && outcome.State == RoomReady {
		for _, member := range outcome.Members {
			lc.send(member, notification(KindReady, roomID))
		}
	}
}

// HandleLeave removes the connection from its room, if any, and notifies
// the remaining member. Safe to call for connections without a room.
func (lc *LifecycleController) HandleLeave(id ConnID) {
	departed, ok := lc.rooms.Leave(id)
	if !ok {
		return
	}
	lc.logger.Info("left room", "conn", id, "room", departed.RoomID, "remaining", len(departed.Remaining))
	lc.notifyDeparture(departed)
}

// NotifyError sends an error message to the offending connection. Best
// effort like every other delivery.
func (lc *LifecycleController) NotifyError(id ConnID, roomID string, err error) {
	lc.send(id, errorNotification(roomID, err.Error()))
}

// notifyDeparture tells the surviving member its peer is gone. A room
// that was still waiting produces no notification: nobody was paired.
func (lc *LifecycleController) notifyDeparture(d Departure) {
	if !d.WasReady || len(d.Remaining) != 1 {
		return
	}
	lc.send(d.Remaining[0], notification(KindPeerLeft, d.RoomID))
}

func (lc *LifecycleController) send(id ConnID, msg []byte) {
	client, ok := lc.registry.Client(id)
	if !ok {
		return
	}
	if !client.trySend(msg) {
		lc.logger.Warn("notification dropped, send buffer full", "conn", id)
	}
}
