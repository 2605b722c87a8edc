package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/nikhilmenon/auctiond/internal/auction"
	"github.com/nikhilmenon/auctiond/internal/clock"
	"github.com/nikhilmenon/auctiond/internal/config"
	"github.com/nikhilmenon/auctiond/internal/event"
	"github.com/nikhilmenon/auctiond/internal/health"
	"github.com/nikhilmenon/auctiond/internal/httpapi"
	"github.com/nikhilmenon/auctiond/internal/hub"
	"github.com/nikhilmenon/auctiond/internal/leader"
	"github.com/nikhilmenon/auctiond/internal/notify"
	"github.com/nikhilmenon/auctiond/internal/seed"
	"github.com/nikhilmenon/auctiond/internal/store"
	"github.com/nikhilmenon/auctiond/internal/telemetry"

	// Register store drivers so they are available via store.Open.
	_ "github.com/nikhilmenon/auctiond/internal/store/memstore"
	_ "github.com/nikhilmenon/auctiond/internal/store/postgres"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "config.yaml", "path to configuration file")
	showVersion := flag.Bool("version", false, "print version and exit")
	runSeed := flag.Bool("seed", false, "load the demo fixture and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	// Local development keeps secrets in .env; absence is fine.
	_ = godotenv.Load()

	if err := run(*configPath, *runSeed); err != nil {
		slog.Error("fatal error", slog.Any("error", err))
		os.Exit(1)
	}
}

func run(configPath string, runSeed bool) error {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	tp, err := telemetry.Setup(ctx, cfg.Telemetry)
	if err != nil {
		slog.Warn("telemetry setup failed, continuing without OTEL export", slog.Any("error", err))
		tp = telemetry.NewNopProvider()
	}
	defer func() {
		if shutdownErr := tp.Shutdown(context.Background()); shutdownErr != nil {
			slog.Error("telemetry shutdown error", slog.Any("error", shutdownErr))
		}
	}()

	logger := tp.Logger
	clk := clock.Real{}

	repos, err := store.Open(ctx, cfg.Database, clk)
	if err != nil {
		return fmt.Errorf("opening store (driver=%s): %w", cfg.Database.Driver, err)
	}
	defer repos.Closer.Close()

	logger.InfoContext(ctx, "connected to store", slog.String("driver", cfg.Database.Driver))

	if runSeed {
		return seed.Run(ctx, repos, cfg.Auction, logger)
	}

	bus := event.NewBus(logger)
	defer bus.Close()

	coord := auction.NewCoordinator(repos, bus, cfg.Admin.Token, cfg.Auction.RosterCap, logger, tp.TracerProvider)

	viewerHub := hub.New(hub.DefaultConfig(), logger)
	defer viewerHub.Close()
	hubEvents, unsubscribeHub := bus.Subscribe(256)
	defer unsubscribeHub()
	go viewerHub.Run(ctx, hubEvents)

	healthHandler := health.NewHandler(clk,
		health.Checker{
			Name:  "store",
			Check: repos.Ping,
		},
	)

	server := httpapi.NewServer(coord, repos, viewerHub, healthHandler, cfg.Admin, logger)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           server.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.InfoContext(ctx, "starting http server", slog.Int("port", cfg.Server.Port))
		if listenErr := httpServer.ListenAndServe(); listenErr != nil && listenErr != http.ErrServerClosed {
			logger.ErrorContext(ctx, "http server error", slog.Any("error", listenErr))
		}
	}()

	// startCore runs the leader-only pieces: the Discord announcer and the
	// readiness gate. The lot session is process-local, so only one replica
	// may advertise readiness for admin traffic.
	startCore := func(ctx context.Context) {
		var discordSession interface{ Close() error }
		if cfg.Discord.Enabled {
			session, connErr := notify.Connect(cfg.Discord)
			if connErr != nil {
				logger.ErrorContext(ctx, "discord connect failed", slog.Any("error", connErr))
			} else {
				discordSession = session
				announcer := notify.New(cfg.Discord, session, repos, logger)
				announcerEvents, unsubscribe := bus.Subscribe(64)
				defer unsubscribe()
				go announcer.Run(ctx, announcerEvents)
			}
		}

		healthHandler.SetReady(true)
		logger.InfoContext(ctx, "auctiond is running", slog.String("version", version))

		<-ctx.Done()

		healthHandler.SetReady(false)
		if discordSession != nil {
			if closeErr := discordSession.Close(); closeErr != nil {
				logger.Error("discord shutdown error", slog.Any("error", closeErr))
			}
		}
	}

	if cfg.LeaderElection.Enabled {
		logger.InfoContext(ctx, "leader election enabled, waiting for leadership...")

		if leaderErr := leader.Run(ctx, cfg.LeaderElection, logger, startCore, func() {
			logger.Info("lost leadership, shutting down...")
			cancel()
		}); leaderErr != nil {
			return fmt.Errorf("leader election: %w", leaderErr)
		}
	} else {
		startCore(ctx)
	}

	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", slog.Any("error", err))
	}

	logger.Info("shutdown complete")
	return nil
}
