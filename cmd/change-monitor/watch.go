package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/0xmhha/change-monitor/pkg/config"
	"github.com/0xmhha/change-monitor/pkg/discovery"
	"github.com/0xmhha/change-monitor/pkg/display"
	"github.com/0xmhha/change-monitor/pkg/emitter"
	"github.com/0xmhha/change-monitor/pkg/logger"
	"github.com/0xmhha/change-monitor/pkg/service"
)

// Watch command flags.
var (
	watchPreset        string
	watchProfile       string
	watchAuto          bool
	watchDebounce      uint64
	watchVerbose       bool
	watchFormat        string
	watchStatsInterval time.Duration
)

var watchCmd = &cobra.Command{
	Use:   "watch [root]",
	Short: "Watch a project directory and print change events",
	Long: `watch starts the change pipeline rooted at the given directory
(default: current directory) and prints every classified change event
until interrupted. High priority events (Claude state, git commits) are
delivered before normal ones from the same burst.

The watch policy comes from, in order of precedence: a named --profile,
a --preset, or the configuration file. --debounce and --verbose
override whichever source was chosen, and --auto replaces its target
list with the targets actually present under the root.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVar(&watchPreset, "preset", "", "watch preset (default, development, production, testing)")
	watchCmd.Flags().StringVar(&watchProfile, "profile", "", "named watch profile from the store")
	watchCmd.Flags().BoolVar(&watchAuto, "auto", false, "watch only the targets present under the root")
	watchCmd.Flags().Uint64Var(&watchDebounce, "debounce", 0, "debounce window in milliseconds")
	watchCmd.Flags().BoolVar(&watchVerbose, "verbose", false, "log every classified change")
	watchCmd.Flags().StringVar(&watchFormat, "format", "", "output format (table, json, simple; default: table on a terminal, simple otherwise)")
	watchCmd.Flags().DurationVar(&watchStatsInterval, "stats-interval", 0, "emit statistics periodically (0 disables)")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(_ *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := buildLogger(cfg)

	root := "."
	if len(args) > 0 {
		root = args[0]
	}

	profileWatch, err := loadProfileWatch(cfg, log, watchProfile)
	if err != nil {
		return err
	}

	wc, err := resolveWatchConfig(cfg, profileWatch, watchPreset, watchDebounce, watchVerbose)
	if err != nil {
		return err
	}

	if watchAuto {
		targets, err := discovery.New(nil, log).Discover(root)
		if err != nil {
			return fmt.Errorf("target discovery failed: %w", err)
		}
		wc.Targets = targets
		fmt.Printf("Discovered %d watch targets under %s\n", len(targets), root)
	}

	format, err := resolveFormat(watchFormat, term.IsTerminal(int(os.Stdout.Fd())))
	if err != nil {
		return err
	}
	formatter := display.New(display.Config{
		Format:         format,
		ShowDerived:    true,
		ShowTimestamps: true,
	})

	ch := emitter.NewChannel(wc.EventBufferSize)
	defer ch.Close()

	svc := service.New(ch,
		service.WithLogger(log),
		service.WithFilter(buildFilter(cfg)))

	if err := svc.Start(root, wc); err != nil {
		return err
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	var tick <-chan time.Time
	if watchStatsInterval > 0 {
		ticker := time.NewTicker(watchStatsInterval)
		defer ticker.Stop()
		tick = ticker.C
	}

	fmt.Printf("Watching %s - press Ctrl+C to stop\n", root)
	fmt.Println(strings.Repeat("─", 60))

	for {
		select {
		case <-sigChan:
			fmt.Println("\nStopping watcher...")
			if err := svc.Stop(); err != nil {
				log.Error("failed to stop watcher service", "error", err)
			}
			fmt.Println()
			return formatter.FormatSnapshot(os.Stdout, svc.Stats())

		case <-tick:
			if err := svc.EmitStats(); err != nil {
				log.Warn("failed to emit stats", "error", err)
			}

		case msg, ok := <-ch.Messages():
			if !ok {
				return nil
			}
			renderMessage(os.Stdout, os.Stderr, formatter, msg)
		}
	}
}

// renderMessage writes one delivered message in the selected format.
// Errors carried by the pipeline go to errOut.
func renderMessage(out, errOut io.Writer, f display.Formatter, msg emitter.Message) {
	switch msg.Type {
	case emitter.MessageChange:
		if msg.Event != nil {
			if err := f.FormatEvent(out, *msg.Event); err != nil {
				fmt.Fprintf(errOut, "failed to format event: %v\n", err)
			}
		}
	case emitter.MessageError:
		fmt.Fprintf(errOut, "watch error: %s\n", msg.Error)
	case emitter.MessageStats:
		if msg.Stats != nil {
			if err := f.FormatSnapshot(out, *msg.Stats); err != nil {
				fmt.Fprintf(errOut, "failed to format statistics: %v\n", err)
			}
		}
	}
}

// loadProfileWatch fetches a profile's watch policy, or nil when no
// profile was requested.
func loadProfileWatch(cfg *config.Config, log logger.Logger, name string) (*config.WatchConfig, error) {
	if name == "" {
		return nil, nil
	}

	st, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}
	defer closeStore(st, log)

	profile, err := st.Get(name)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile %s: %w", name, err)
	}

	return &profile.Watch, nil
}

// resolveWatchConfig builds the effective watch policy. Precedence:
// profile, then preset, then the configuration file. Flag overrides
// apply on top of whichever source won.
func resolveWatchConfig(cfg *config.Config, profileWatch *config.WatchConfig, preset string, debounceMs uint64, verbose bool) (*config.WatchConfig, error) {
	var wc config.WatchConfig

	switch {
	case profileWatch != nil:
		wc = *profileWatch
	case preset != "":
		p, err := config.ParsePreset(preset)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", err, preset)
		}
		wc = *config.ForPreset(p)
	default:
		wc = cfg.Watch
	}

	if debounceMs > 0 {
		wc.DebounceMs = debounceMs
	}
	if verbose {
		wc.Verbose = true
	}

	return &wc, nil
}

// resolveFormat picks the output format. Without an explicit name the
// format follows the terminal: tables for humans, one-liners for pipes.
func resolveFormat(name string, isTerminal bool) (display.Format, error) {
	if name != "" {
		return display.ParseFormat(name)
	}
	if isTerminal {
		return display.FormatTable, nil
	}
	return display.FormatSimple, nil
}
