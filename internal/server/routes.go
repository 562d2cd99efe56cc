package server

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/jeevansetu/callrelay/internal/signaling"
)

// newUpgrader configures the websocket upgrader. An empty allowedOrigin
// accepts every origin (development default); otherwise the Origin header
// must match exactly. This is the whole of the relay's participant
// authorization — anything stronger lives in front of it.
func newUpgrader(allowedOrigin string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  64 * 1024,
		WriteBufferSize: 64 * 1024,
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
}

// ServeWs returns an http.HandlerFunc that upgrades the request to a
// websocket, registers the connection with the hub and starts its read
// and write pumps.
func ServeWs(hub *signaling.Hub, allowedOrigin string) http.HandlerFunc {
	upgrader := newUpgrader(allowedOrigin)

	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("failed to upgrade connection", "err", err)
			return
		}

		client := signaling.NewClient(hub, conn)
		hub.Register <- client

		go client.WritePump()
		go client.ReadPump()
	}
}

// HealthHandler reports process liveness.
func HealthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Signaling relay is healthy."))
}
