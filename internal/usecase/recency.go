package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

const (
	// recencyDecimals is the storage precision of recency scores.
	recencyDecimals = 4
	// neutralRecency is assigned when a category carries no date spread.
	neutralRecency = 0.50
)

// RecencyNormalizer rewrites every dated product's recency score so that
// later ranking can compare recency across categories on a common [0,1]
// footing.
type RecencyNormalizer struct {
	products ports.ProductRepository
	logger   *slog.Logger
}

// NewRecencyNormalizer wires the product repository.
func NewRecencyNormalizer(products ports.ProductRepository, logger *slog.Logger) *RecencyNormalizer {
	return &RecencyNormalizer{products: products, logger: logger}
}

// Run loads the catalog, computes scores and persists them in one pass.
// Any failure aborts; re-running on unchanged dates yields identical scores.
func (n *RecencyNormalizer) Run(ctx context.Context) (int, error) {
	products, err := n.products.ListProducts(ctx)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	updates := ComputeRecencyScores(products)
	if len(updates) == 0 {
		n.debug("no dated products, nothing to normalize")
		return 0, nil
	}

	if err := n.products.UpdateRecencyScores(ctx, updates); err != nil {
		return 0, fmt.Errorf("persist recency scores: %w", err)
	}

	n.debug("recency scores updated", "products", len(updates))
	return len(updates), nil
}

func (n *RecencyNormalizer) debug(msg string, args ...any) {
	if n.logger != nil {
		n.logger.Debug(msg, args...)
	}
}

// ComputeRecencyScores assigns each dated product a score expressing its
// notification date's position within its category's observed date range.
// Products without a notification date are skipped and keep their stored
// value. Categories are exact-string groups; a category whose products all
// share one date (including single-member groups) gets the neutral 0.50.
func ComputeRecencyScores(products []domain.Product) []domain.RecencyUpdate {
	groups := make(map[string][]domain.Product)
	for _, p := range products {
		if p.NotifiedAt == nil {
			continue
		}
		groups[p.Category] = append(groups[p.Category], p)
	}

	var updates []domain.RecencyUpdate
	for _, members := range groups {
		minDate, maxDate := dateRange(members)
		delta := maxDate.Sub(minDate).Seconds()

		for _, p := range members {
			score := neutralRecency
			if delta != 0 {
				score = p.NotifiedAt.Sub(minDate).Seconds() / delta
			}
			updates = append(updates, domain.RecencyUpdate{
				ProductID: p.ID,
				Score:     domain.RoundScore(score, recencyDecimals),
			})
		}
	}

	return updates
}

func dateRange(products []domain.Product) (time.Time, time.Time) {
	minDate := *products[0].NotifiedAt
	maxDate := minDate
	for _, p := range products[1:] {
		if p.NotifiedAt.Before(minDate) {
			minDate = *p.NotifiedAt
		}
		if p.NotifiedAt.After(maxDate) {
			maxDate = *p.NotifiedAt
		}
	}
	return minDate, maxDate
}
