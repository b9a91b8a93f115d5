package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v2"

	"soturidash/internal/config"
	"soturidash/internal/eventbus"
	"soturidash/internal/logging"
	"soturidash/internal/logic"
	"soturidash/internal/transport"
	"soturidash/internal/ui"
)

const versionPath = "/version"

// forwarded are the bus events the UI reacts to
var forwarded = []eventbus.EventType{
	eventbus.EventPlayerUpdated,
	eventbus.EventPlayerRemoved,
	eventbus.EventEnemiesAppeared,
	eventbus.EventEnemiesDisappeared,
	eventbus.EventSnapshotLoaded,
	eventbus.EventEntitiesCleared,
	eventbus.EventConnectionChanged,
	eventbus.EventServerVersion,
	eventbus.EventError,
	eventbus.EventConfigChanged,
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "soturidash",
		Usage: "Terminal map dashboard for the soturi game server",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to the config file",
				Value:   config.DefaultPath(),
			},
			&cli.StringFlag{
				Name:    "mode",
				Aliases: []string{"m"},
				Usage:   "Backend mode (local, production, origin)",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Server host in local mode",
			},
			&cli.StringFlag{
				Name:  "origin",
				Usage: "Server origin URL in origin mode",
			},
			&cli.StringFlag{
				Name:  "token-file",
				Usage: "File holding the bearer token",
			},
			&cli.StringFlag{
				Name:  "seed",
				Usage: "Load entities from a JSON snapshot instead of connecting",
			},
			&cli.StringFlag{
				Name:  "snapshot",
				Usage: "Server path of an initial JSON snapshot, fetched before streaming",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
			},
		},
		Action: run,
	}
}

// loadConfig reads the config file and applies the command line overrides
func loadConfig(c *cli.Context) (config.ConfigService, *config.Config) {
	svc := config.NewConfigServiceAt(c.String("config"))
	cfg, err := svc.Load()
	if err != nil {
		// logging is not set up yet
		fmt.Fprintf(os.Stderr, "Error loading config, using defaults: %v\n", err)
		cfg = config.DefaultConfig()
	}

	if c.IsSet("mode") {
		cfg.Backend.Mode = c.String("mode")
	}
	if c.IsSet("host") {
		cfg.Backend.Host = c.String("host")
	}
	if c.IsSet("origin") {
		cfg.Backend.Origin = c.String("origin")
	}
	if c.IsSet("token-file") {
		cfg.Backend.TokenFile = c.String("token-file")
	}
	if c.IsSet("log-level") {
		cfg.Log.Level = c.String("log-level")
	}
	return svc, cfg
}

// resolveEndpoints turns the backend settings into server URLs
func resolveEndpoints(backend config.BackendSettings) (transport.Endpoints, error) {
	mode, err := transport.ParseMode(backend.Mode)
	if err != nil {
		return transport.Endpoints{}, err
	}
	target := backend.Host
	if mode == transport.ModeOrigin {
		target = backend.Origin
	}
	return transport.Resolve(mode, target)
}

// initLogging points the logger at the log file. Bubble Tea owns the
// terminal, so without a file the logs are dropped.
func initLogging(settings config.LogSettings) io.Closer {
	closer, err := logging.Init(logging.Options{
		File:   settings.File,
		Level:  settings.Level,
		Format: settings.Format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file, logging disabled: %v\n", err)
	}
	if err != nil || settings.File == "" {
		logging.Log.SetOutput(io.Discard)
	}
	return closer
}

func run(c *cli.Context) error {
	configSvc, cfg := loadConfig(c)

	logCloser := initLogging(cfg.Log)
	defer logCloser.Close()
	log := logging.Component("main")

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(c.Context, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	bus := eventbus.New()
	defer bus.Close()
	store := logic.NewMemoryEntityStore()

	uiModel := ui.NewModel(cfg, store)
	defer uiModel.Close()

	opts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if cfg.UI.Mouse {
		opts = append(opts, tea.WithMouseCellMotion())
	}
	p := tea.NewProgram(uiModel, opts...)
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	for _, eventType := range forwarded {
		unsubscribe := bus.Subscribe(eventType, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				log.WithField("event", e.Type()).Warn("Event channel full, dropping event")
			}
		})
		defer unsubscribe()
	}
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	watchConfig(ctx, configSvc, bus, p)

	if seed := c.String("seed"); seed != "" {
		snap, err := transport.LoadSnapshot(seed)
		if err != nil {
			return err
		}
		snap.Apply(store, bus)
		log.WithField("seed", seed).Info("Loaded seed snapshot")
	} else if err := connect(ctx, cfg, c.String("snapshot"), store, bus); err != nil {
		return err
	}

	// Run the UI
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}

// connect starts talking to the server in the background
func connect(ctx context.Context, cfg *config.Config, snapshotPath string, store logic.EntityStore, bus eventbus.EventBus) error {
	endpoints, err := resolveEndpoints(cfg.Backend)
	if err != nil {
		return err
	}
	log := logging.Component("main").WithField("server", endpoints.HTTP)

	var creds transport.CredentialStore = transport.FileCredentials{Path: cfg.Backend.TokenFile}
	client := transport.NewClient(endpoints, creds)
	stream := transport.NewStream(endpoints, creds, store, bus)

	go func() {
		version, err := client.GetString(ctx, versionPath)
		if err != nil {
			log.WithError(err).Warn("Could not get server version")
		} else {
			bus.Publish(eventbus.ServerVersionEvent{Version: version})
		}

		if snapshotPath != "" {
			snap, err := transport.FetchSnapshot(ctx, client, snapshotPath)
			if err != nil {
				bus.Publish(eventbus.ErrorEvent{Message: "snapshot: " + err.Error(), Err: err})
			} else {
				snap.Apply(store, bus)
			}
		}

		log.WithField("url", stream.URL()).Info("Starting observer stream")
		if err := stream.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			log.WithError(err).Error("Observer stream stopped")
		}
	}()
	return nil
}

// watchConfig reloads the config file while the program runs
func watchConfig(ctx context.Context, svc config.ConfigService, bus eventbus.EventBus, p *tea.Program) {
	log := logging.Component("main")
	watcher, err := config.NewWatcher(svc, bus)
	if err != nil {
		log.WithError(err).Warn("Config file is not watched")
		return
	}
	go func() {
		defer watcher.Close()
		watcher.Run(ctx, func(cfg *config.Config) {
			p.Send(ui.ConfigReloadedMsg{Config: cfg})
		})
	}()
}
