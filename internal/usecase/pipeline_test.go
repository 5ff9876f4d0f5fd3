package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"CosmeticsWatch/internal/domain"
)

type fakeStore struct {
	products []domain.Product

	companyMetrics  map[int64]domain.CompanyMetric
	categoryMetrics map[string]domain.CategoryMetric

	alternatives   []domain.RecommendedAlternative
	replaceCalls   int
	listErr        error
	updateErr      error
	replaceAltsErr error
}

func (s *fakeStore) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]domain.Product, len(s.products))
	copy(out, s.products)
	return out, nil
}

func (s *fakeStore) UpdateRecencyScores(ctx context.Context, updates []domain.RecencyUpdate) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	for _, u := range updates {
		for i := range s.products {
			if s.products[i].ID == u.ProductID {
				s.products[i].RecencyScore = u.Score
			}
		}
	}
	return nil
}

func (s *fakeStore) CompanyMetrics(ctx context.Context) (map[int64]domain.CompanyMetric, error) {
	return s.companyMetrics, nil
}

func (s *fakeStore) CategoryMetrics(ctx context.Context) (map[string]domain.CategoryMetric, error) {
	return s.categoryMetrics, nil
}

func (s *fakeStore) ReplaceCompanyMetrics(ctx context.Context, metrics []domain.CompanyMetric) error {
	s.companyMetrics = make(map[int64]domain.CompanyMetric, len(metrics))
	for _, m := range metrics {
		s.companyMetrics[m.CompanyID] = m
	}
	return nil
}

func (s *fakeStore) ReplaceCategoryMetrics(ctx context.Context, metrics []domain.CategoryMetric) error {
	s.categoryMetrics = make(map[string]domain.CategoryMetric, len(metrics))
	for _, m := range metrics {
		s.categoryMetrics[m.Category] = m
	}
	return nil
}

func (s *fakeStore) ReplaceAlternatives(ctx context.Context, rows []domain.RecommendedAlternative) error {
	if s.replaceAltsErr != nil {
		return s.replaceAltsErr
	}
	s.replaceCalls++
	s.alternatives = rows
	return nil
}

type fakeNotifier struct {
	reports []domain.RunReport
}

func (n *fakeNotifier) PublishRunReport(ctx context.Context, report domain.RunReport) error {
	n.reports = append(n.reports, report)
	return nil
}

func newTestPipeline(store *fakeStore, notifier *fakeNotifier) *Pipeline {
	deps := PipelineDeps{
		Metrics:    NewMetricsBuilder(store, store, nil),
		Normalizer: NewRecencyNormalizer(store, nil),
		Ranker: NewAlternativeRanker(RankerDeps{
			Products:     store,
			Metrics:      store,
			Alternatives: store,
			TopN:         5,
		}),
	}
	if notifier != nil {
		deps.Notifier = notifier
	}
	return NewPipeline(deps)
}

func TestPipelineRunEndToEnd(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		products: []domain.Product{
			{ID: 1, Category: "Lipstick", Status: domain.StatusCancelled, ApplicantID: 1,
				NotifiedAt: datePtr(2019, time.January, 1)},
			{ID: 2, Category: "Lipstick", Status: domain.StatusNotified, ApplicantID: 2,
				NotifiedAt: datePtr(2020, time.January, 1)},
			{ID: 3, Category: "Lipstick", Status: domain.StatusNotified, ApplicantID: 3,
				NotifiedAt: datePtr(2024, time.January, 1)},
		},
	}
	notifier := &fakeNotifier{}

	pipeline := newTestPipeline(store, notifier)
	if err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	// The metrics stage ran before ranking.
	if len(store.companyMetrics) != 3 {
		t.Fatalf("expected 3 company metrics, got %d", len(store.companyMetrics))
	}

	// The ranker saw the recency scores the normalizer wrote: candidate 3
	// (newest) must rank above candidate 2 (the cancelled subject anchors
	// the category minimum, so candidate 2 scores between 0 and 1).
	if store.replaceCalls != 1 {
		t.Fatalf("expected one alternatives replace, got %d", store.replaceCalls)
	}
	if len(store.alternatives) != 2 {
		t.Fatalf("expected 2 alternative rows, got %d", len(store.alternatives))
	}
	if store.alternatives[0].RecommendedProductID != 3 {
		t.Fatalf("expected newest candidate first, got %d", store.alternatives[0].RecommendedProductID)
	}
	if store.alternatives[0].RecencyScore != 1 {
		t.Fatalf("ranker must read normalizer output, got recency %v", store.alternatives[0].RecencyScore)
	}

	if len(notifier.reports) != 1 {
		t.Fatalf("expected one run report, got %d", len(notifier.reports))
	}
	report := notifier.reports[0]
	if report.ProductsScored != 3 || report.CancelledCovered != 1 || report.AlternativeRows != 2 {
		t.Fatalf("unexpected report: %+v", report)
	}
	if !report.MetricsRecomputed {
		t.Fatalf("report must flag the metrics stage")
	}
}

func TestPipelineAbortsOnNormalizerFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		products: []domain.Product{
			{ID: 1, Category: "Serum", Status: domain.StatusNotified, ApplicantID: 1,
				NotifiedAt: datePtr(2020, time.January, 1)},
		},
		updateErr: errors.New("connection reset"),
	}

	pipeline := NewPipeline(PipelineDeps{
		Normalizer: NewRecencyNormalizer(store, nil),
		Ranker: NewAlternativeRanker(RankerDeps{
			Products:     store,
			Metrics:      store,
			Alternatives: store,
		}),
	})

	err := pipeline.Run(context.Background(), time.Now())
	if err == nil {
		t.Fatalf("expected pipeline failure")
	}
	if store.replaceCalls != 0 {
		t.Fatalf("ranker must not run after a normalizer failure")
	}
}

func TestPipelineSkipsMetricsWhenDisabled(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		products: []domain.Product{
			{ID: 1, Category: "Serum", Status: domain.StatusNotified, ApplicantID: 1,
				NotifiedAt: datePtr(2020, time.January, 1)},
		},
		companyMetrics: map[int64]domain.CompanyMetric{
			1: {CompanyID: 1, Reputation: 0.42},
		},
	}

	pipeline := NewPipeline(PipelineDeps{
		Normalizer: NewRecencyNormalizer(store, nil),
		Ranker: NewAlternativeRanker(RankerDeps{
			Products:     store,
			Metrics:      store,
			Alternatives: store,
		}),
	})

	if err := pipeline.Run(context.Background(), time.Now()); err != nil {
		t.Fatalf("pipeline run failed: %v", err)
	}

	// Externally supplied metrics stay untouched.
	if store.companyMetrics[1].Reputation != 0.42 {
		t.Fatalf("metrics must be read-only when the stage is disabled")
	}
}
