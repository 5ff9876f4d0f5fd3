package ports

import (
	"context"
	"time"

	"CosmeticsWatch/internal/domain"
)

// ProductRepository reads the product catalog and persists recency scores.
type ProductRepository interface {
	ListProducts(ctx context.Context) ([]domain.Product, error)
	UpdateRecencyScores(ctx context.Context, updates []domain.RecencyUpdate) error
}

// MetricRepository serves precomputed company/category metrics and lets the
// metrics stage replace them.
type MetricRepository interface {
	CompanyMetrics(ctx context.Context) (map[int64]domain.CompanyMetric, error)
	CategoryMetrics(ctx context.Context) (map[string]domain.CategoryMetric, error)
	ReplaceCompanyMetrics(ctx context.Context, metrics []domain.CompanyMetric) error
	ReplaceCategoryMetrics(ctx context.Context, metrics []domain.CategoryMetric) error
}

// AlternativeRepository owns the recommended_alternatives table.
type AlternativeRepository interface {
	ReplaceAlternatives(ctx context.Context, rows []domain.RecommendedAlternative) error
}

// NotificationSource pulls regulatory records from configured datasets.
type NotificationSource interface {
	LoadAll(ctx context.Context) ([]domain.NotificationRecord, error)
}

// NotificationWriter upserts ingested source records into the catalog.
type NotificationWriter interface {
	EnsureCompany(ctx context.Context, name string) (int64, error)
	UpsertProduct(ctx context.Context, record domain.NotificationRecord, applicantID int64, manufacturerID *int64) error
}

// Notifier delivers batch-run reports to an ops channel.
type Notifier interface {
	PublishRunReport(ctx context.Context, report domain.RunReport) error
}

// Scheduler controls when the pipeline executes.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
