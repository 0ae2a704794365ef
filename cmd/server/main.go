package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"pair-chat/auth"
	"pair-chat/infrastructure/grpc/server"
	httpapi "pair-chat/infrastructure/http"
	"pair-chat/infrastructure/search"
	"pair-chat/internal"
	"pair-chat/moderation"
	"pair-chat/observability"
	"pair-chat/repositories"
	"pair-chat/runtime/workers"
	"pair-chat/services"
	"strconv"
	"syscall"
	"time"

	"github.com/Netflix/go-env"
	"github.com/blugelabs/bluge"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/database"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
)

// Exit codes to provide meaningful status to the operating system or service manager (e.g., systemd).
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Server terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component and blocks until a signal or a server failure.
// Deferred closes run before the exit code reaches main.
func run() (int, error) {
	// 1. Configuration & Logger
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return exitConfig, fmt.Errorf("unable to read .env: %w", err)
	}
	var config internal.Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return exitConfig, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return exitConfig, err
	}
	charReplacement, _ := internal.CharacterRune(config.CharReplacement)

	logger, err := internal.NewLogger(config.LogLevel, config.LogFile)
	if err != nil {
		return exitConfig, fmt.Errorf("logger error: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 2. Stores
	stores, err := internal.OpenStores(ctx, config, logger)
	if err != nil {
		return exitRuntime, err
	}
	defer func() {
		logger.Info("Closing stores...")
		_ = stores.Close()
	}()

	if stores.Badger != nil && config.DebugPort > 0 {
		endpoint := "/inspect"
		logger.Info("Debug Badger inspector available", "url", fmt.Sprintf("http://localhost:%d%s", config.DebugPort, endpoint))
		database.StartDebugServer(stores.Badger, config.DebugPort, endpoint, InspectMapper)
	}

	// 3. Search index
	blugeWriter, err := bluge.OpenWriter(bluge.DefaultConfig(config.BlugeFilepath))
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to open bluge writer: %w", err)
	}
	defer func() {
		logger.Info("Closing Bluge...")
		_ = blugeWriter.Close()
	}()

	// 4. Services
	policy := services.ContentPolicy{MaxLength: config.MaxContentLength}
	if words := config.CensoredWordList(); len(words) > 0 {
		policy.Moderator, err = moderation.NewModerator(words, charReplacement, logger)
		if err != nil {
			return exitConfig, fmt.Errorf("moderator error: %w", err)
		}
	}

	metrics := observability.NewMetrics()
	indexQueue := workers.NewIndexQueue(search.NewMessageIndex(blugeWriter, logger), config.IndexQueueSize, logger, metrics)
	supervisor := workers.NewSupervisor(logger).Add(indexQueue)
	tokens := auth.NewTokenManager(config.AuthSecret, config.AuthTokenDuration)
	conversationService := services.NewConversationService(stores.Conversations, logger, metrics)
	chatService := services.NewChatService(conversationService, stores.Conversations, stores.Messages,
		indexQueue, policy, logger, metrics)
	authService := services.NewAuthService(stores.Users, tokens, logger)

	// 5. Transports
	httpServer := &http.Server{
		Addr: net.JoinHostPort(config.Host, strconv.Itoa(config.HTTPPort)),
		Handler: httpapi.NewRouter(httpapi.Dependencies{
			Chat:          chatService,
			Conversations: conversationService,
			Auth:          authService,
			Tokens:        tokens,
			Metrics:       metrics,
			Stats:         observability.NewStatsCollector(),
			RateLimitRPS:  config.RateLimitRPS,
			Log:           logger,
		}),
		ReadHeaderTimeout: 5 * time.Second,
	}

	grpcAddress := net.JoinHostPort(config.Host, strconv.Itoa(config.GRPCPort))
	listener, err := net.Listen("tcp", grpcAddress)
	if err != nil {
		return exitRuntime, fmt.Errorf("failed to listen on %s: %w", grpcAddress, err)
	}
	grpcServer := server.New(server.Dependencies{
		Chat:          chatService,
		Conversations: conversationService,
		Auth:          authService,
		Tokens:        tokens,
		Metrics:       metrics,
		Log:           logger,
	})

	// 6. Serve until a signal or the first failure
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		// Returns after the index queue is flushed, before Bluge is closed
		supervisor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting gRPC server", "address", grpcAddress, "store", config.StoreDriver)
		for serviceName := range grpcServer.GetServiceInfo() {
			logger.Debug("gRPC exposed service", "name", serviceName)
		}
		if err := grpcServer.Serve(listener); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			return fmt.Errorf("gRPC server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		grpcServer.GracefulStop()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		return exitRuntime, err
	}
	logger.Info("Program stopped cleanly")
	return exitOK, nil
}

// InspectMapper renders pairchat records in the debug inspector.
func InspectMapper(key string, val []byte) database.InspectRow {
	row := database.DefaultMapper(key, val)
	rec := repositories.DescribeRecord(key, val)
	row.Type = rec.Type
	row.Detail = rec.Detail
	return row
}
