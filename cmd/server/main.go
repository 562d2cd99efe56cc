package main

import (
	"log/slog"
	"net/http"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jeevansetu/callrelay/internal/config"
	"github.com/jeevansetu/callrelay/internal/logging"
	"github.com/jeevansetu/callrelay/internal/server"
	"github.com/jeevansetu/callrelay/internal/signaling"
)

var opts config.Options

// rootCmd runs the signaling relay. It is the only command: the relay is
// a single-purpose process.
var rootCmd = &cobra.Command{
	Use:   "callrelay",
	Short: "Two-party call signaling relay",
	Long:  `Callrelay pairs two clients per room over websockets and forwards their session-negotiation messages verbatim so they can establish a direct peer-to-peer media connection.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := config.Load(opts)
		logging.Init(cfg.LogLevel)

		hub := signaling.NewHub(slog.Default())

		// The hub's event loop owns all room state; everything else
		// talks to it through its channels.
		go hub.Run()

		http.HandleFunc("/health", server.HealthHandler)
		http.HandleFunc("/ws", server.ServeWs(hub, cfg.AllowedOrigin))

		slog.Info("starting signaling relay", "addr", cfg.ListenAddr)
		return http.ListenAndServe(cfg.ListenAddr, nil)
	},
}

func main() {
	rootCmd.Flags().StringVar(&opts.ListenAddr, "listen", "", "listen address (default :3001, env LISTEN_ADDR)")
	rootCmd.Flags().StringVar(&opts.AllowedOrigin, "origin", "", "allowed websocket Origin, empty allows all (env ALLOWED_ORIGIN)")
	rootCmd.Flags().StringVar(&opts.LogLevel, "log-level", "", "log level: debug, info, warn, error (env LOG_LEVEL)")

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt)
	go func() {
		<-sig
		os.Exit(0)
	}()

	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		slog.Error("relay exited", "err", err)
		os.Exit(1)
	}
}
