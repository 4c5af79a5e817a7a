package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/syrlavka/digest/internal/adapters/chart"
	"github.com/syrlavka/digest/internal/adapters/repository"
	"github.com/syrlavka/digest/internal/adapters/telegram"
	"github.com/syrlavka/digest/internal/app"
	"github.com/syrlavka/digest/internal/config"
	"github.com/syrlavka/digest/internal/domain/timeframe"
	"github.com/syrlavka/digest/pkg/logger"
)

func main() {
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since the logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Get().Error(ctx, "digest run failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

// run wires the collaborators and executes one digest. Separated from main
// so deferred cleanup happens before the exit code is decided.
func run(ctx context.Context) error {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		logger.Get().Warn(ctx, "invalid log_level; falling back to info",
			logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	norm, err := timeframe.NewNormalizer(cfg.Timezone)
	if err != nil {
		return err
	}

	store, err := repository.Open(ctx, cfg.DBLink,
		repository.WithOutletID(cfg.OutletID),
		repository.WithQueryTimeout(time.Duration(cfg.QueryTimeoutSec)*time.Second),
	)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Get().Warn(ctx, "store close failed", logger.Error(err))
		}
	}()

	notifier, err := telegram.New(cfg.BotToken, cfg.ChatID,
		telegram.WithSendTimeout(time.Duration(cfg.SendTimeoutSec)*time.Second),
	)
	if err != nil {
		return err
	}

	svc := app.New(store, notifier, chart.New(), norm,
		app.WithTopN(cfg.TopN),
		app.WithLogger(logger.Get()),
	)
	return svc.Run(ctx)
}
