// Package app composes the weekly digest pipeline: fetch, transform,
// aggregate, render, deliver. One Run is one complete batch invocation.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/syrlavka/digest/internal/domain/band"
	"github.com/syrlavka/digest/internal/domain/dataset"
	"github.com/syrlavka/digest/internal/domain/kpi"
	"github.com/syrlavka/digest/internal/domain/model"
	"github.com/syrlavka/digest/internal/domain/ranking"
	"github.com/syrlavka/digest/internal/domain/summary"
	"github.com/syrlavka/digest/internal/domain/timeframe"
	"github.com/syrlavka/digest/pkg/logger"
	"github.com/syrlavka/digest/pkg/metrics"
)

// Pipeline stage names used in metrics.
const (
	stageFetchTransactions = "fetch_transactions"
	stageFetchReports      = "fetch_reports"
	stageAggregate         = "aggregate"
	stageRender            = "render"
	stageDeliver           = "deliver"
)

// Repository fetches the raw rows the pipeline transforms.
type Repository interface {
	Transactions(ctx context.Context) ([]model.TransactionRow, error)
	Reports(ctx context.Context) ([]model.ReportRow, error)
}

// Notifier delivers the composed digest.
type Notifier interface {
	SendText(ctx context.Context, text string) error
	SendPhoto(ctx context.Context, caption string, png []byte) error
}

// Renderer draws the trend chart.
type Renderer interface {
	Render(reports []model.Report, w timeframe.Windows, bands map[time.Weekday]band.WeekdayBand) ([]byte, error)
}

// Service runs the digest pipeline.
type Service struct {
	repo     Repository
	notifier Notifier
	renderer Renderer
	norm     *timeframe.Normalizer

	topN  int
	clock func() time.Time

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithTopN sets the ranking depth.
func WithTopN(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.topN = n
		}
	}
}

// WithClock overrides the "now" source. The clock is read exactly once per
// Run so every stage sees identical window boundaries.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service over the given collaborators.
func New(repo Repository, notifier Notifier, renderer Renderer, norm *timeframe.Normalizer, opts ...Option) *Service {
	s := &Service{
		repo:     repo,
		notifier: notifier,
		renderer: renderer,
		norm:     norm,
		topN:     ranking.DefaultTopN,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	return s
}

// Run executes one complete digest: nothing is sent unless the data passed
// quality checks, and a failed chart degrades to a text-only message as
// long as report data exists.
func (s *Service) Run(ctx context.Context) (err error) {
	defer func() {
		if err != nil {
			metrics.RecordRun(metrics.OutcomeFailed)
		} else {
			metrics.RecordRun(metrics.OutcomeOK)
		}
	}()

	runID := uuid.NewString()
	now := s.clock()
	windows := timeframe.Select(now, s.norm)
	s.logger.Info(ctx, "starting digest run",
		logger.String("run_id", runID),
		logger.String("window_start", windows.Current.Start.Format(time.DateOnly)),
		logger.String("window_end", windows.Current.End.Format(time.RFC3339)))

	txs, err := s.loadTransactions(ctx, runID)
	if err != nil {
		return err
	}
	reports, err := s.loadReports(ctx, runID)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		return ErrNoData
	}

	aggStart := time.Now()
	byRevenue := ranking.TopByRevenue(txs, windows.Current, s.topN)
	byQuantity := ranking.TopByQuantity(txs, windows.Current, s.topN)
	weekly := kpi.Compute(txs, reports, windows)
	bands, bandErr := band.Compute(reports, windows.BeforeCurrent())
	metrics.ObserveStage(stageAggregate, time.Since(aggStart))
	if bandErr != nil {
		// Band-less chart is acceptable; report data itself exists.
		s.logger.Warn(ctx, "weekday band unavailable",
			logger.String("run_id", runID), logger.Error(bandErr))
		bands = nil
	}

	renderStart := time.Now()
	png, renderErr := s.renderer.Render(reports, windows, bands)
	metrics.ObserveStage(stageRender, time.Since(renderStart))
	if renderErr != nil {
		s.logger.Warn(ctx, "chart render failed, sending text only",
			logger.String("run_id", runID), logger.Error(renderErr))
		png = nil
	}

	text := summary.Compose(weekly, byRevenue, byQuantity)

	deliverStart := time.Now()
	if png != nil {
		err = s.notifier.SendPhoto(ctx, text, png)
	} else {
		err = s.notifier.SendText(ctx, text)
	}
	metrics.ObserveStage(stageDeliver, time.Since(deliverStart))
	if err != nil {
		metrics.RecordDeliveryError()
		return fmt.Errorf("deliver digest: %w", err)
	}

	s.logger.Info(ctx, "digest delivered",
		logger.String("run_id", runID),
		logger.Int("top_by_revenue", len(byRevenue)),
		logger.Int("top_by_quantity", len(byQuantity)),
		logger.Int64("customer_count", weekly.CustomerCount),
		logger.Any("with_chart", png != nil))
	return nil
}

func (s *Service) loadTransactions(ctx context.Context, runID string) ([]model.Transaction, error) {
	fetchStart := time.Now()
	rows, err := s.repo.Transactions(ctx)
	metrics.ObserveStage(stageFetchTransactions, time.Since(fetchStart))
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	metrics.RecordRowsFetched("transactions", len(rows))

	txs, quality := dataset.LoadTransactions(rows, s.norm)
	if len(quality) > 0 {
		s.reportQuality(ctx, runID, "transactions", quality)
		return nil, fmt.Errorf("%w: %d transaction rows rejected", ErrDataQuality, len(quality))
	}
	return txs, nil
}

func (s *Service) loadReports(ctx context.Context, runID string) ([]model.Report, error) {
	fetchStart := time.Now()
	rows, err := s.repo.Reports(ctx)
	metrics.ObserveStage(stageFetchReports, time.Since(fetchStart))
	if err != nil {
		return nil, fmt.Errorf("fetch reports: %w", err)
	}
	metrics.RecordRowsFetched("reports", len(rows))

	reports, quality := dataset.LoadReports(rows, s.norm)
	if len(quality) > 0 {
		s.reportQuality(ctx, runID, "reports", quality)
		return nil, fmt.Errorf("%w: %d report rows rejected", ErrDataQuality, len(quality))
	}
	return reports, nil
}

// maxLoggedQualityErrors caps per-row log noise on badly broken inputs.
const maxLoggedQualityErrors = 10

func (s *Service) reportQuality(ctx context.Context, runID, ds string, quality []error) {
	metrics.RecordQualityErrors(len(quality))
	for i, qerr := range quality {
		if i == maxLoggedQualityErrors {
			s.logger.Error(ctx, "further quality errors suppressed",
				logger.String("run_id", runID), logger.String("dataset", ds),
				logger.Int("remaining", len(quality)-i))
			break
		}
		s.logger.Error(ctx, "row rejected",
			logger.String("run_id", runID), logger.String("dataset", ds), logger.Error(qerr))
	}
}
