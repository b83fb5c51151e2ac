package application

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/rocketscienceinc/rps-backend/internal/config"
	"github.com/rocketscienceinc/rps-backend/internal/repository"
	"github.com/rocketscienceinc/rps-backend/internal/repository/storage"
	"github.com/rocketscienceinc/rps-backend/internal/service"
	"github.com/rocketscienceinc/rps-backend/internal/transport/nats"
	"github.com/rocketscienceinc/rps-backend/internal/usecase"
	"github.com/rocketscienceinc/rps-backend/transport/rest"
	"github.com/rocketscienceinc/rps-backend/transport/websocket"
)

const shutdownTimeout = 10 * time.Second

// RunApp - runs the application.
func RunApp(logger *slog.Logger, conf *config.Config) error {
	log := logger.With("component", "app")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigs
		log.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	clk := clock.New()

	seed := conf.Bot.Seed
	if seed == 0 {
		seed = clk.Now().UnixNano()
	}

	bot, err := service.NewMoveProvider(conf.Bot.Strategy, seed)
	if err != nil {
		return fmt.Errorf("could not create bot: %w", err)
	}

	deps := usecase.Deps{Clock: clk, Bot: bot}

	var history repository.MatchRepository

	if conf.Redis.Enabled {
		redisStorage, redisErr := storage.NewRedisStorage(ctx, conf.Redis.GetRedisAddr())
		if redisErr != nil {
			return fmt.Errorf("could not connect to redis storage: %w", redisErr)
		}

		defer func() {
			if closeErr := redisStorage.Close(); closeErr != nil {
				log.Error("could not close redis storage", "error", closeErr)
			}
		}()

		deps.Snapshots = repository.NewRoomRepository(redisStorage.Connection, conf.Game.RoomTTL)
		log.Info("Mirroring rooms to redis", "addr", conf.Redis.GetRedisAddr())
	}

	if conf.Postgres.Enabled {
		pgStorage, pgErr := storage.NewPostgresStorage(ctx, conf.Postgres.DSN)
		if pgErr != nil {
			return fmt.Errorf("could not connect to postgres storage: %w", pgErr)
		}
		defer pgStorage.Close()

		if pgErr = pgStorage.Init(ctx); pgErr != nil {
			return fmt.Errorf("could not init postgres storage: %w", pgErr)
		}

		history = repository.NewMatchRepository(pgStorage.Pool)
		deps.Matches = history
		log.Info("Recording matches to postgres")
	}

	if conf.NATS.Enabled {
		publisher, natsErr := nats.New(conf.NATS.URL, conf.NATS.SubjectPrefix)
		if natsErr != nil {
			return fmt.Errorf("could not connect to nats: %w", natsErr)
		}

		defer func() {
			if closeErr := publisher.Close(); closeErr != nil {
				log.Error("could not close nats publisher", "error", closeErr)
			}
		}()

		deps.Events = publisher
		log.Info("Publishing room events to nats", "url", conf.NATS.URL)
	}

	manager := usecase.NewGameManager(logger, usecase.Options{
		MaxRounds:      conf.Game.MaxRounds,
		NextRoundDelay: conf.Game.NextRoundDelay,
		GracePeriod:    conf.Game.GracePeriod,
		RoomTTL:        conf.Game.RoomTTL,
		SweepInterval:  conf.Game.SweepInterval,
	}, deps)

	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer shutdownCancel()

		manager.Shutdown(shutdownCtx)
	}()

	go manager.RunSweeper(ctx)

	wsServer := websocket.New(logger, manager)
	handlers := rest.NewHandlers(logger, clk, manager, history)
	router := rest.NewRouter(handlers, wsServer.HandleUpgrade(ctx), conf.StaticDir)

	log.Info("Starting HTTP server", "port", conf.Port)

	if err = rest.Start(ctx, conf.Port, router); err != nil {
		return fmt.Errorf("HTTP server error: %w", err)
	}

	log.Info("Application context canceled, shutting down")

	return nil
}
