// Package worker runs the background loops of the worker process: periodic
// trend refresh and research cache cleanup. It handles context cancellation
// and runs each task once at startup so a fresh deploy does not wait a full
// interval for its first refresh.
package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	// pollInterval is the sleep between ticker checks to prevent busy-waiting.
	pollInterval = 100 * time.Millisecond

	logFieldWorker = "worker"
	logFieldTask   = "task"
)

// TickerTask is a task triggered repeatedly at a fixed interval.
type TickerTask struct {
	Name     string
	Interval time.Duration
	Run      func(ctx context.Context)
}

// TickerConfig configures a ticker-based worker loop.
type TickerConfig struct {
	// Name identifies the worker for logging.
	Name string

	Tasks []TickerTask

	// OnStart is called once when the loop starts.
	OnStart func(ctx context.Context)

	// OnStop is called once when the loop exits.
	OnStop func()

	Logger *zerolog.Logger
}

// TickerLoop runs each task on its own ticker until ctx is cancelled. Tasks
// with a positive interval run once immediately at startup. Returns a
// wrapped context error on cancellation.
func TickerLoop(ctx context.Context, cfg TickerConfig) error {
	logger := getLogger(cfg.Logger)
	logger.Info().Str(logFieldWorker, cfg.Name).Msg("starting ticker loop")

	if cfg.OnStart != nil {
		cfg.OnStart(ctx)
	}

	defer func() {
		if cfg.OnStop != nil {
			cfg.OnStop()
		}

		logger.Info().Str(logFieldWorker, cfg.Name).Msg("ticker loop stopped")
	}()

	if len(cfg.Tasks) == 0 {
		<-ctx.Done()

		return fmt.Errorf("ticker loop %s: %w", cfg.Name, ctx.Err())
	}

	tickers := make([]*time.Ticker, len(cfg.Tasks))

	for i, task := range cfg.Tasks {
		if task.Interval > 0 {
			tickers[i] = time.NewTicker(task.Interval)
		}
	}

	defer func() {
		for _, t := range tickers {
			if t != nil {
				t.Stop()
			}
		}
	}()

	for i, task := range cfg.Tasks {
		if task.Run != nil && tickers[i] != nil {
			logger.Debug().Str(logFieldTask, task.Name).Msg("running initial task")
			task.Run(ctx)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("ticker loop %s: %w", cfg.Name, ctx.Err())
		default:
		}

		for i, task := range cfg.Tasks {
			if tickers[i] == nil || task.Run == nil {
				continue
			}

			select {
			case <-tickers[i].C:
				logger.Debug().Str(logFieldTask, task.Name).Msg("ticker fired")
				task.Run(ctx)
			default:
			}
		}

		if err := Wait(ctx, pollInterval); err != nil {
			return err
		}
	}
}

// Wait sleeps for d or until ctx is cancelled, whichever comes first.
func Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return fmt.Errorf("wait interrupted: %w", ctx.Err())
	case <-timer.C:
		return nil
	}
}

func getLogger(logger *zerolog.Logger) *zerolog.Logger {
	if logger != nil {
		return logger
	}

	nop := zerolog.Nop()

	return &nop
}
