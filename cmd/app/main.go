// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"telegram-file-convert/internal/application"
	"telegram-file-convert/internal/config"
	"telegram-file-convert/internal/infra/convert"
	pg "telegram-file-convert/internal/infra/db/postgres"
	"telegram-file-convert/internal/infra/logging"
	"telegram-file-convert/internal/infra/metrics"
	red "telegram-file-convert/internal/infra/redis"
	tele "telegram-file-convert/internal/infra/telegram"
	"telegram-file-convert/internal/infra/web"
	"telegram-file-convert/internal/infra/worker"
	"telegram-file-convert/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "development mode")
	flag.Parse()

	// .env is optional; real deployments set TELEGRAM_BOT_TOKEN directly.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("postgres schema")
	}

	// ---- Redis ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	stateRepo := red.NewStateRepo(redisClient, cfg.Redis.StateTTL)

	// ---- Repositories / use cases ----
	usageRepo := pg.NewUsageRepo(pool)
	statsUC := usecase.NewStatsUseCase(usageRepo)

	engines, merger := convert.NewEngineSet(cfg.Convert, logger)
	convertUC := usecase.NewConvertUseCase(engines, merger, cfg.Convert.ToolTimeout, logger)

	// ---- Facade ----
	facade := application.NewBotFacade(convertUC, statsUC, stateRepo, cfg.Convert.WorkDir, logger)

	// ---- Conversion workers ----
	convPool := worker.NewPool(cfg.Convert.Queue, logger)
	convPool.Start(ctx)
	defer convPool.Stop()

	// ---- Telegram ----
	bot, err := tele.NewBot(&cfg.Bot, cfg.Convert.WorkDir, facade, convPool, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram")
	}
	if strings.ToLower(cfg.Bot.Mode) != "" && strings.ToLower(cfg.Bot.Mode) != "polling" {
		logger.Warn().Str("mode", cfg.Bot.Mode).Msg("bot mode not implemented; falling back to polling")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Admin HTTP server ----
	adminSrv := web.NewServer(statsUC, cfg.Admin, !cfg.Runtime.Dev, logger)
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Admin.Port),
		Handler: adminSrv.Router(),
	}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("admin http listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("admin http server")
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")

	bot.StopPolling()
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	_ = server.Shutdown(shutdownCtx)
	cancel()
}
