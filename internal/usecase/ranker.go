package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

// Composite relevance weights. These are user-visible ranking policy: the
// exact coefficients and signs must survive any refactoring.
const (
	weightBrand        = 0.35
	weightManufacturer = 0.25
	weightCategoryRisk = 0.15
	weightRecency      = 0.10
	weightVertical     = 0.15

	componentDecimals = 4
	relevanceDecimals = 5

	// DefaultTopN bounds the shortlist per cancelled product.
	DefaultTopN = 5
)

// AlternativeRanker computes, for every cancelled product, a ranked
// shortlist of same-category notified alternatives and replaces the
// persisted recommendation set.
type AlternativeRanker struct {
	products     ports.ProductRepository
	metrics      ports.MetricRepository
	alternatives ports.AlternativeRepository
	topN         int
	logger       *slog.Logger
}

// RankerDeps wires the ranker's collaborators.
type RankerDeps struct {
	Products     ports.ProductRepository
	Metrics      ports.MetricRepository
	Alternatives ports.AlternativeRepository
	TopN         int
	Logger       *slog.Logger
}

// NewAlternativeRanker constructs the stage; TopN <= 0 falls back to the
// default shortlist size.
func NewAlternativeRanker(deps RankerDeps) *AlternativeRanker {
	topN := deps.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	return &AlternativeRanker{
		products:     deps.Products,
		metrics:      deps.Metrics,
		alternatives: deps.Alternatives,
		topN:         topN,
		logger:       deps.Logger,
	}
}

// Run performs one bulk read per input set, scores everything in memory and
// swaps the output table in a single replace operation.
func (r *AlternativeRanker) Run(ctx context.Context) (covered, rows int, err error) {
	products, err := r.products.ListProducts(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("list products: %w", err)
	}

	companyMetrics, err := r.metrics.CompanyMetrics(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load company metrics: %w", err)
	}

	categoryMetrics, err := r.metrics.CategoryMetrics(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("load category metrics: %w", err)
	}

	recommendations := BuildRecommendations(products, companyMetrics, categoryMetrics, r.topN)

	if err := r.alternatives.ReplaceAlternatives(ctx, recommendations); err != nil {
		return 0, 0, fmt.Errorf("replace alternatives: %w", err)
	}

	seen := make(map[int64]bool)
	for _, rec := range recommendations {
		seen[rec.CancelledProductID] = true
	}
	r.debug("alternatives replaced", "cancelled_covered", len(seen), "rows", len(recommendations))
	return len(seen), len(recommendations), nil
}

func (r *AlternativeRanker) debug(msg string, args ...any) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

// BuildRecommendations partitions products into cancelled and notified sets,
// groups the notified ones by exact category label and emits a ranked
// shortlist per cancelled product. The metric maps are read-only lookups
// built by the caller once per run.
func BuildRecommendations(
	products []domain.Product,
	companyMetrics map[int64]domain.CompanyMetric,
	categoryMetrics map[string]domain.CategoryMetric,
	topN int,
) []domain.RecommendedAlternative {
	var cancelled []domain.Product
	notifiedByCategory := make(map[string][]domain.Product)

	for _, p := range products {
		switch p.Status {
		case domain.StatusCancelled:
			cancelled = append(cancelled, p)
		case domain.StatusNotified:
			notifiedByCategory[p.Category] = append(notifiedByCategory[p.Category], p)
		}
	}

	var out []domain.RecommendedAlternative
	for _, subject := range cancelled {
		candidates := notifiedByCategory[subject.Category]
		if len(candidates) == 0 {
			// Expected for orphan categories: zero rows, not an error.
			continue
		}

		ranked := rankCandidates(subject, candidates, companyMetrics, categoryMetrics)
		if len(ranked) > topN {
			ranked = ranked[:topN]
		}
		out = append(out, ranked...)
	}

	return out
}

// rankCandidates scores every candidate and sorts descending by relevance.
// Ties break by candidate id ascending so output order never depends on
// input iteration order.
func rankCandidates(
	subject domain.Product,
	candidates []domain.Product,
	companyMetrics map[int64]domain.CompanyMetric,
	categoryMetrics map[string]domain.CategoryMetric,
) []domain.RecommendedAlternative {
	ranked := make([]domain.RecommendedAlternative, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, scoreCandidate(subject, c, companyMetrics, categoryMetrics))
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].RelevanceScore != ranked[j].RelevanceScore {
			return ranked[i].RelevanceScore > ranked[j].RelevanceScore
		}
		return ranked[i].RecommendedProductID < ranked[j].RecommendedProductID
	})

	return ranked
}

// scoreCandidate evaluates the composite relevance of one candidate. Every
// missing input (absent metric row, no manufacturer, no recency score)
// contributes zero rather than failing the run.
func scoreCandidate(
	subject, candidate domain.Product,
	companyMetrics map[int64]domain.CompanyMetric,
	categoryMetrics map[string]domain.CategoryMetric,
) domain.RecommendedAlternative {
	var brand float64
	if m, ok := companyMetrics[candidate.ApplicantID]; ok {
		brand = m.Reputation
	}

	var manufacturer float64
	if candidate.ManufacturerID != nil {
		if m, ok := companyMetrics[*candidate.ManufacturerID]; ok {
			manufacturer = m.Reputation
		}
	}

	var risk float64
	if m, ok := categoryMetrics[candidate.Category]; ok {
		risk = m.Risk
	}

	recency := candidate.RecencyScore

	var vertical float64
	if candidate.VerticallyIntegrated {
		vertical = 1
	}

	relevance := weightBrand*brand +
		weightManufacturer*manufacturer -
		weightCategoryRisk*risk +
		weightRecency*recency +
		weightVertical*vertical

	return domain.RecommendedAlternative{
		CancelledProductID:   subject.ID,
		RecommendedProductID: candidate.ID,
		BrandScore:           domain.RoundScore(brand, componentDecimals),
		ManufacturerScore:    domain.RoundScore(manufacturer, componentDecimals),
		CategoryRiskScore:    domain.RoundScore(risk, componentDecimals),
		RecencyScore:         domain.RoundScore(recency, componentDecimals),
		VerticallyIntegrated: candidate.VerticallyIntegrated,
		RelevanceScore:       domain.RoundScore(relevance, relevanceDecimals),
	}
}
