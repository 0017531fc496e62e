package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/guru-ai/guru/backend/internal/config"
	"github.com/guru-ai/guru/backend/internal/handler"
	"github.com/guru-ai/guru/backend/internal/model/nav"
	"github.com/guru-ai/guru/backend/internal/service/chat"
	"github.com/guru-ai/guru/backend/internal/theme"
	"github.com/guru-ai/guru/backend/internal/view"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("warning: failed to load .env file: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := cfg.NewLogger()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()
	zap.ReplaceGlobals(logger)

	themes, err := theme.NewProvider(theme.Config{
		Default:      cfg.Theme.Default,
		Themes:       cfg.Theme.Themes,
		EnableSystem: cfg.Theme.EnableSystem,
	})
	if err != nil {
		logger.Fatal("invalid theme configuration", zap.Error(err))
	}

	menu := nav.Seed()
	if cfg.NavFile != "" {
		menu, err = nav.LoadFile(cfg.NavFile)
		if err != nil {
			logger.Fatal("failed to load sidebar menu", zap.String("file", cfg.NavFile), zap.Error(err))
		}
		logger.Info("sidebar menu loaded", zap.String("file", cfg.NavFile), zap.Int("items", len(menu.Items)))
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		logger.Fatal("failed to parse templates", zap.Error(err))
	}

	chatService := chat.NewService(
		chat.WithIdleTTL(cfg.Chat.IdleTTL),
		chat.WithReply(cfg.Chat.BotReply),
		chat.WithLogger(logger),
	)
	go chatService.Run(ctx, cfg.Chat.SweepInterval)

	router := handler.NewRouter(handler.Deps{
		Config:   cfg.Server,
		Chat:     chatService,
		Themes:   themes,
		Menu:     nav.NewMemoryStore(menu),
		Renderer: renderer,
		Logger:   logger,
	})

	startServer(ctx, logger, cfg.Server, router)
}

func startServer(ctx context.Context, logger *zap.Logger, serverCfg config.ServerConfig, router http.Handler) {
	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("Guru AI web listening", zap.String("addr", serverCfg.Addr), zap.Bool("dev", serverCfg.DevMode))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
