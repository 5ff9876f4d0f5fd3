package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

// PipelineDeps wires the batch stages into the orchestration pipeline.
type PipelineDeps struct {
	Importer   *Importer
	Metrics    *MetricsBuilder
	Normalizer *RecencyNormalizer
	Ranker     *AlternativeRanker
	Notifier   ports.Notifier
	Logger     *slog.Logger
}

// Pipeline runs the batch stages in strict sequence: optional ingest,
// optional metrics recomputation, recency normalization, then ranking.
// The ranker reads the scores the normalizer writes, so the order is load
// bearing. Any stage failure aborts the whole run; there is no partial
// success bookkeeping and no retry.
type Pipeline struct {
	importer   *Importer
	metrics    *MetricsBuilder
	normalizer *RecencyNormalizer
	ranker     *AlternativeRanker
	notifier   ports.Notifier
	logger     *slog.Logger
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		importer:   deps.Importer,
		metrics:    deps.Metrics,
		normalizer: deps.Normalizer,
		ranker:     deps.Ranker,
		notifier:   deps.Notifier,
		logger:     deps.Logger,
	}
}

// Run executes one full batch and publishes a run report when a notifier
// is configured. The trigger time only feeds the report.
func (p *Pipeline) Run(ctx context.Context, trigger time.Time) error {
	if p.normalizer == nil || p.ranker == nil {
		return fmt.Errorf("pipeline misconfigured: missing stage")
	}

	started := time.Now()
	report := domain.RunReport{StartedAt: trigger}

	if p.importer != nil {
		ingested, err := p.importer.Run(ctx)
		if err != nil {
			return fmt.Errorf("ingest source files: %w", err)
		}
		report.IngestedRecords = ingested
	}

	if p.metrics != nil {
		companies, categories, err := p.metrics.Run(ctx)
		if err != nil {
			return fmt.Errorf("recompute metrics: %w", err)
		}
		report.CompanyMetrics = companies
		report.CategoryMetrics = categories
		report.MetricsRecomputed = true
	}

	scored, err := p.normalizer.Run(ctx)
	if err != nil {
		return fmt.Errorf("normalize recency: %w", err)
	}
	report.ProductsScored = scored

	covered, rows, err := p.ranker.Run(ctx)
	if err != nil {
		return fmt.Errorf("rank alternatives: %w", err)
	}
	report.CancelledCovered = covered
	report.AlternativeRows = rows
	report.Duration = time.Since(started).Round(time.Millisecond).String()

	p.info("pipeline run complete",
		"products_scored", scored,
		"cancelled_covered", covered,
		"alternative_rows", rows,
		"duration", report.Duration)

	if p.notifier == nil {
		return nil
	}

	if err := p.notifier.PublishRunReport(ctx, report); err != nil {
		return fmt.Errorf("publish run report: %w", err)
	}

	return nil
}

func (p *Pipeline) info(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Info(msg, args...)
	}
}
