package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

const metricDecimals = 4

// MetricsBuilder derives company and category metrics from the product
// catalog. Deployments fed by an external metrics job leave this stage
// disabled and the tables become read-only input.
type MetricsBuilder struct {
	products ports.ProductRepository
	metrics  ports.MetricRepository
	logger   *slog.Logger
}

// NewMetricsBuilder wires the repositories.
func NewMetricsBuilder(products ports.ProductRepository, metrics ports.MetricRepository, logger *slog.Logger) *MetricsBuilder {
	return &MetricsBuilder{products: products, metrics: metrics, logger: logger}
}

// Run recomputes both metric tables from scratch.
func (b *MetricsBuilder) Run(ctx context.Context) (companies, categories int, err error) {
	products, err := b.products.ListProducts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list products: %w", err)
	}

	companyMetrics := ComputeCompanyMetrics(products)
	categoryMetrics := ComputeCategoryMetrics(products)

	if err := b.metrics.ReplaceCompanyMetrics(ctx, companyMetrics); err != nil {
		return 0, 0, fmt.Errorf("replace company metrics: %w", err)
	}
	if err := b.metrics.ReplaceCategoryMetrics(ctx, categoryMetrics); err != nil {
		return 0, 0, fmt.Errorf("replace category metrics: %w", err)
	}

	if b.logger != nil {
		b.logger.Debug("metrics recomputed", "companies", len(companyMetrics), "categories", len(categoryMetrics))
	}
	return len(companyMetrics), len(categoryMetrics), nil
}

// ComputeCompanyMetrics aggregates per applicant company: notification and
// cancellation counts, earliest notification date, and a reputation score
// that is the complement of the company's cancellation rate.
func ComputeCompanyMetrics(products []domain.Product) []domain.CompanyMetric {
	byCompany := make(map[int64]*domain.CompanyMetric)
	for _, p := range products {
		m, ok := byCompany[p.ApplicantID]
		if !ok {
			m = &domain.CompanyMetric{CompanyID: p.ApplicantID}
			byCompany[p.ApplicantID] = m
		}

		m.Total++
		if p.Cancelled() {
			m.Cancelled++
		}
		if p.NotifiedAt != nil && (m.FirstNotified == nil || p.NotifiedAt.Before(*m.FirstNotified)) {
			first := *p.NotifiedAt
			m.FirstNotified = &first
		}
	}

	out := make([]domain.CompanyMetric, 0, len(byCompany))
	for _, m := range byCompany {
		rate := float64(m.Cancelled) / float64(m.Total)
		m.Reputation = domain.RoundScore(domain.Clamp01(1-rate), metricDecimals)
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompanyID < out[j].CompanyID })
	return out
}

// ComputeCategoryMetrics aggregates per exact category label; risk is the
// category's cancellation rate.
func ComputeCategoryMetrics(products []domain.Product) []domain.CategoryMetric {
	byCategory := make(map[string]*domain.CategoryMetric)
	for _, p := range products {
		m, ok := byCategory[p.Category]
		if !ok {
			m = &domain.CategoryMetric{Category: p.Category}
			byCategory[p.Category] = m
		}

		m.Total++
		if p.Cancelled() {
			m.Cancelled++
		}
	}

	out := make([]domain.CategoryMetric, 0, len(byCategory))
	for _, m := range byCategory {
		if m.Total > 0 {
			m.Risk = domain.RoundScore(float64(m.Cancelled)/float64(m.Total), metricDecimals)
		}
		out = append(out, *m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}
