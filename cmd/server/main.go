package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"truthordare/internal/config"
	"truthordare/internal/engine"
	"truthordare/internal/logging"
	"truthordare/internal/repository"
	"truthordare/internal/service"
	"truthordare/internal/store"
	"truthordare/internal/telemetry"
	"truthordare/internal/transport/rest"
	"truthordare/internal/transport/ws"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	logger := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx := context.Background()

	shutdownTracing, err := telemetry.Setup(ctx, "truthordare", cfg.OTelEndpoint, cfg.OTelEnabled)
	if err != nil {
		return fmt.Errorf("telemetry: %w", err)
	}
	defer shutdownTracing(context.Background())

	st, err := store.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	logger.Info("store ready", "driver", cfg.StoreDriver)

	// MongoDB connection
	var mongoClient *mongo.Client
	if cfg.NeedsMongo() {
		mongoClient, err = mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer mongoClient.Disconnect(context.Background())

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := mongoClient.Ping(pingCtx, nil); err != nil {
			return fmt.Errorf("ping mongo: %w", err)
		}
		logger.Info("connected to mongo", "database", cfg.MongoDB)
	}

	var bank repository.QuestionBank
	switch cfg.QuestionSource {
	case config.QuestionsMongo:
		bank = repository.NewQuestionRepo(mongoClient, cfg.MongoDB)
	default:
		fileBank := repository.NewFileBank(cfg.QuestionDir)
		if err := fileBank.EnsureSamples(); err != nil {
			return fmt.Errorf("question files: %w", err)
		}
		bank = fileBank
	}
	logger.Info("question bank ready", "source", cfg.QuestionSource)

	hub := ws.NewHub(logger)
	defer hub.Close()

	opts := []engine.Option{engine.WithNotifier(hub), engine.WithLogger(logger)}
	var history repository.TurnLogRepository
	if cfg.HistoryEnabled {
		history = repository.NewTurnLogRepository(mongoClient, cfg.MongoDB)
		opts = append(opts, engine.WithRecorder(history))
	}

	eng := engine.New(st, bank, cfg.IsOperator, cfg.Rules, opts...)
	defer eng.Close()

	armed, err := eng.Recover(ctx)
	if err != nil {
		return fmt.Errorf("recover timers: %w", err)
	}
	logger.Info("timers recovered", "sessions", armed)

	container := &rest.Container{
		AuthService:     service.NewAuthService(cfg),
		GameService:     service.NewGameService(eng, history),
		QuestionService: service.NewQuestionService(bank),
		WSHub:           hub,
		Logger:          logger,
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: rest.NewRouter(container),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "port", cfg.Port, "operators", len(cfg.OperatorIDs))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	}
	logger.Info("shutting down server")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server exited")
	return nil
}
