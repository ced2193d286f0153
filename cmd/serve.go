package cmd

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"serve-board.com/serve-board/internal/audit"
	config "serve-board.com/serve-board/internal/configs"
	httpapi "serve-board.com/serve-board/internal/http"
	"serve-board.com/serve-board/internal/membership"
	"serve-board.com/serve-board/internal/queue"
	repository "serve-board.com/serve-board/internal/repositories"
	"serve-board.com/serve-board/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long:  "Starts the serve board HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := godotenv.Load(); err != nil {
			log.Println(".env file not found, using environment variables")
		}

		cfg := config.Load()
		cfg.RequireJWTSecret()
		logger := config.NewLogger(os.Stderr, cfg.LogLevel)
		slog.SetDefault(logger)

		database := config.New(cfg.DatabaseDSN)
		repos := repository.New(database)
		provider := membership.NewDBProvider(database)

		var publisher queue.Publisher = queue.NopPublisher{}
		if cfg.RedisEventsEnabled {
			redisClient := config.NewRedisClient(cfg.RedisAddr)
			defer redisClient.Close()
			publisher = queue.NewRedisPublisher(redisClient, cfg.RedisEventsKey)
			logger.Info("publishing events to redis", slog.String("addr", cfg.RedisAddr), slog.String("key", cfg.RedisEventsKey))
		}
		dispatch := services.NewDispatcher(publisher, audit.NewDBSink(database), logger)

		handler := httpapi.NewHandler(httpapi.Services{
			Tasks:     services.NewTaskService(repos, provider, dispatch),
			Lifecycle: services.NewLifecycleService(repos, dispatch),
			Pool:      services.NewPoolService(repos, provider, dispatch),
			Approvals: services.NewApprovalService(repos, dispatch),
			Rollover:  services.NewRolloverService(repos, dispatch),
		}, logger)

		e := echo.New()
		e.HideBanner = true
		httpapi.Register(e, handler, membership.NewResolver(provider), []byte(cfg.JWTSecret), cfg.RateLimit)

		ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		go func() {
			logger.Info("HTTP server listening", slog.String("addr", cfg.AppURL))
			if err := e.Start(cfg.AppURL); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("server stopped", slog.Any("err", err))
				stop()
			}
		}()

		<-ctx.Done()

		echoCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.ShutdownTimeoutSeconds)*time.Second)
		defer cancel()
		if err := e.Shutdown(echoCtx); err != nil {
			logger.Warn("shutdown incomplete", slog.Any("err", err))
		}

		logger.Info("HTTP server shut down gracefully")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
