package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/server"
	"github.com/0xmhha/change-monitor/pkg/service"
)

// Serve command flags.
var (
	serveAddr   string
	servePreset string
)

var serveCmd = &cobra.Command{
	Use:   "serve [root]",
	Short: "Run the HTTP server with an SSE change event stream",
	Long: `serve exposes the change pipeline over HTTP. The watcher is
controlled through POST /api/watch/start and /api/watch/stop, and
connected SSE clients on GET /api/events receive every change event,
watch error, and statistics emission.

With --preset the watcher starts immediately, rooted at the given
directory (default: current directory).`,
	Args: cobra.MaximumNArgs(1),
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
	serveCmd.Flags().StringVar(&servePreset, "preset", "", "start watching immediately with this preset")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	if serveAddr != "" {
		cfg.Server.Addr = serveAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// The broker is both the service's emitter and the SSE fanout, so
	// every delivered event reaches the connected clients.
	broker := server.NewBroker()
	svc := service.New(broker,
		service.WithLogger(log),
		service.WithFilter(buildFilter(cfg)))

	if servePreset != "" {
		p, err := config.ParsePreset(servePreset)
		if err != nil {
			return fmt.Errorf("%w: %s", err, servePreset)
		}

		root := "."
		if len(args) > 0 {
			root = args[0]
		}

		if err := svc.Start(root, config.ForPreset(p)); err != nil {
			return err
		}
	}

	srv := server.New(cfg.Server, svc, broker, log)
	return srv.Run(ctx)
}
