package app

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"CosmeticsWatch/internal/config"
	"CosmeticsWatch/internal/infrastructure/csvfile"
	"CosmeticsWatch/internal/infrastructure/scheduler"
	"CosmeticsWatch/internal/infrastructure/storage"
	"CosmeticsWatch/internal/infrastructure/webhook"
	"CosmeticsWatch/internal/ingest"
	"CosmeticsWatch/internal/logging"
	"CosmeticsWatch/internal/ports"
	"CosmeticsWatch/internal/usecase"
)

// Application wires configs to use cases and lifecycle orchestration.
type Application struct {
	cfg      config.Config
	db       *sql.DB
	pipeline *usecase.Pipeline
	logger   *slog.Logger
}

// New builds a runnable application instance against a live store.
func New(cfg config.Config, baseLogger *slog.Logger) (*Application, error) {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level)
	}

	db, err := storage.Open(cfg.Database.DSN)
	if err != nil {
		return nil, fmt.Errorf("connect store: %w", err)
	}

	products := storage.NewProductRepository(db)
	metrics := storage.NewMetricRepository(db)
	alternatives := storage.NewAlternativeRepository(db, cfg.Pipeline.InsertBatchSize)

	var importer *usecase.Importer
	if cfg.Ingest.Enabled && len(cfg.Ingest.Datasets) > 0 {
		registry := ingest.NewRegistry()
		registry.Register(csvfile.NewNotificationLoader())
		registry.Register(csvfile.NewCancellationLoader())

		source := csvfile.NewSource(registry, cfg.Ingest.Datasets, baseLogger.With("component", "source"))
		importer = usecase.NewImporter(source, products, baseLogger.With("component", "importer"))
	}

	var metricsBuilder *usecase.MetricsBuilder
	if cfg.Pipeline.ComputeMetrics {
		metricsBuilder = usecase.NewMetricsBuilder(products, metrics, baseLogger.With("component", "metrics"))
	}

	var notifier ports.Notifier
	if cfg.Notifications.WebhookURL != "" {
		notifier = webhook.NewNotifier(cfg.Notifications.WebhookURL)
	}

	pipeline := usecase.NewPipeline(usecase.PipelineDeps{
		Importer:   importer,
		Metrics:    metricsBuilder,
		Normalizer: usecase.NewRecencyNormalizer(products, baseLogger.With("component", "recency")),
		Ranker: usecase.NewAlternativeRanker(usecase.RankerDeps{
			Products:     products,
			Metrics:      metrics,
			Alternatives: alternatives,
			TopN:         cfg.Pipeline.TopN,
			Logger:       baseLogger.With("component", "ranker"),
		}),
		Notifier: notifier,
		Logger:   baseLogger.With("component", "pipeline"),
	})

	return &Application{cfg: cfg, db: db, pipeline: pipeline, logger: baseLogger}, nil
}

// Close releases the store connection.
func (a *Application) Close() error {
	if a.db == nil {
		return nil
	}
	return a.db.Close()
}

// Run executes one batch, or keeps running on the configured interval when
// scheduling is enabled.
func (a *Application) Run(ctx context.Context) error {
	if a.pipeline == nil {
		return nil
	}

	now := time.Now().In(a.cfg.Scheduler.Location())

	if !a.cfg.Scheduler.Enabled {
		return a.pipeline.Run(ctx, now)
	}

	driver := scheduler.NewIntervalScheduler(a.cfg.Scheduler.Interval())
	sched := usecase.NewScheduler(driver, a.pipeline)

	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("start scheduler: %w", err)
	}

	<-ctx.Done()
	return sched.Stop(context.Background())
}
