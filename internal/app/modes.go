package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pairdesk/pairtrader/internal/domain"
	"github.com/pairdesk/pairtrader/internal/server"
	"github.com/pairdesk/pairtrader/internal/server/handler"
	"github.com/pairdesk/pairtrader/internal/service"
)

// ServerMode runs the HTTP API until the context is cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	return g.Wait()
}

// AdviseMode runs one analysis pass against the current ledger holdings and
// writes the result to stdout as JSON. Intended for cron jobs and quick
// terminal checks.
func (a *App) AdviseMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting advise mode")

	holdings, replay, err := deps.Ledger.Holdings(ctx, 0)
	if err != nil {
		return fmt.Errorf("advise mode: %w", err)
	}
	if len(replay.Skipped) > 0 {
		a.logger.WarnContext(ctx, "advise mode: ledger replay skipped rows",
			slog.Int("skipped", len(replay.Skipped)),
		)
	}

	res, err := deps.Pairs.Analyze(ctx, service.AnalyzeRequest{Holdings: holdings})
	if err != nil {
		return fmt.Errorf("advise mode: %w", err)
	}

	a.logger.InfoContext(ctx, "advise mode: analysis complete",
		slog.String("advice", res.Advice.String()),
		slog.Float64("z_score", res.ZScore),
		slog.Bool("z_valid", res.ZValid),
		slog.Float64("total_value", res.TotalValue),
	)

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(res); err != nil {
		return fmt.Errorf("advise mode: encode result: %w", err)
	}
	return nil
}

// MonitorMode periodically re-runs the analysis and pushes notifications when
// the advice crosses a threshold or the portfolio exceeds its cap. No HTTP
// server is started.
func (a *App) MonitorMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting monitor mode",
		slog.Duration("interval", a.cfg.Monitor.Interval.Duration),
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return a.runMonitorLoop(ctx, deps)
	})
	return g.Wait()
}

// FullMode runs the HTTP API and the monitor loop together.
func (a *App) FullMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting full mode")

	g, ctx := errgroup.WithContext(ctx)
	a.startHTTPServer(ctx, g, deps)
	g.Go(func() error {
		return a.runMonitorLoop(ctx, deps)
	})
	return g.Wait()
}

// startHTTPServer adds the HTTP server goroutine plus a graceful-shutdown
// goroutine to the given errgroup.
func (a *App) startHTTPServer(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	handlers := server.Handlers{
		Health: handler.NewHealthHandler(a.logger),
		Analysis: handler.NewAnalysisHandler(
			deps.Pairs,
			a.cfg.Strategy.ZScoreHigh,
			a.cfg.Strategy.ZScoreLow,
			a.logger,
		),
		Transactions: handler.NewTransactionsHandler(deps.Ledger, a.logger),
		LedgerAdmin:  handler.NewLedgerAdminHandler(deps.Ledger, a.logger),
	}

	srv := server.NewServer(server.Config{
		Port:        a.cfg.Server.Port,
		CORSOrigins: a.cfg.Server.CORSOrigins,
		APIKey:      a.cfg.Server.APIKey,
	}, handlers, a.logger)

	g.Go(srv.Start)

	g.Go(func() error {
		<-ctx.Done()
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	})
}

// runMonitorLoop runs one analysis cycle immediately and then on every tick
// until the context is cancelled.
func (a *App) runMonitorLoop(ctx context.Context, deps *Dependencies) error {
	interval := a.cfg.Monitor.Interval.Duration
	if interval <= 0 {
		interval = 15 * time.Minute
	}

	state := &monitorState{}
	a.runMonitorCycle(ctx, deps, state)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			a.runMonitorCycle(ctx, deps, state)
		}
	}
}

// runMonitorCycle replays the ledger, re-runs the analysis, and dispatches
// notifications. Failures are reported and the loop keeps going.
func (a *App) runMonitorCycle(ctx context.Context, deps *Dependencies, state *monitorState) {
	holdings, _, err := deps.Ledger.Holdings(ctx, 0)
	if err != nil {
		a.logger.ErrorContext(ctx, "monitor: ledger replay failed", slog.String("error", err.Error()))
		_ = deps.Notifier.Error(ctx, fmt.Sprintf("ledger replay failed: %v", err))
		return
	}

	res, err := deps.Pairs.Analyze(ctx, service.AnalyzeRequest{Holdings: holdings})
	if err != nil {
		a.logger.ErrorContext(ctx, "monitor: analysis failed", slog.String("error", err.Error()))
		_ = deps.Notifier.Error(ctx, fmt.Sprintf("analysis failed: %v", err))
		return
	}

	a.logger.InfoContext(ctx, "monitor: cycle complete",
		slog.String("advice", res.Advice.String()),
		slog.Float64("z_score", res.ZScore),
		slog.Bool("z_valid", res.ZValid),
		slog.String("status", res.Status),
		slog.Float64("total_value", res.TotalValue),
	)

	if state.adviceCrossed(res.Advice) {
		if err := deps.Notifier.ThresholdCrossed(ctx, res.Advice, res.ZScore); err != nil {
			a.logger.WarnContext(ctx, "monitor: threshold notification failed",
				slog.String("error", err.Error()),
			)
		}
	}
	if state.cashOutCrossed(res.CashOutTriggered) {
		if err := deps.Notifier.CashOut(ctx, res.TotalValue, res.CashOutSurplus); err != nil {
			a.logger.WarnContext(ctx, "monitor: cash-out notification failed",
				slog.String("error", err.Error()),
			)
		}
	}
}

// monitorState tracks the previously observed advice and cash-out condition so
// the monitor notifies on transitions rather than on every cycle.
type monitorState struct {
	lastAdvice domain.Advice
	primed     bool
	cashedOut  bool
}

// adviceCrossed reports whether a threshold notification should fire: the
// advice is not hold, and it differs from the last observation (or this is the
// first observation).
func (m *monitorState) adviceCrossed(advice domain.Advice) bool {
	crossed := advice != domain.AdviceHold && (!m.primed || advice != m.lastAdvice)
	m.lastAdvice = advice
	m.primed = true
	return crossed
}

// cashOutCrossed reports whether a cash-out notification should fire, i.e. the
// cap was not exceeded on the previous cycle but is now.
func (m *monitorState) cashOutCrossed(triggered bool) bool {
	crossed := triggered && !m.cashedOut
	m.cashedOut = triggered
	return crossed
}
