package storage

import (
	"context"
	"database/sql"
	"fmt"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

const (
	componentDecimals = 4
	relevanceDecimals = 5

	defaultInsertBatch = 500
)

// AlternativeRepository owns the recommended_alternatives table. The table
// is derived data: every ranker run replaces it wholesale.
type AlternativeRepository struct {
	db        *sql.DB
	batchSize int
}

var _ ports.AlternativeRepository = (*AlternativeRepository)(nil)

// NewAlternativeRepository wires a sql.DB implementation; batchSize <= 0
// falls back to the default insert chunk.
func NewAlternativeRepository(db *sql.DB, batchSize int) *AlternativeRepository {
	if batchSize <= 0 {
		batchSize = defaultInsertBatch
	}
	return &AlternativeRepository{db: db, batchSize: batchSize}
}

// ReplaceAlternatives clears and rebuilds the table inside one transaction,
// inserting in fixed-size batches. Readers see either the previous set or
// the complete new one, never a partially written run.
func (r *AlternativeRepository) ReplaceAlternatives(ctx context.Context, alternatives []domain.RecommendedAlternative) error {
	if r.db == nil {
		return fmt.Errorf("repository is not connected")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin alternatives tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteSQL, deleteArgs, err := psql.Delete("recommended_alternatives").ToSql()
	if err != nil {
		return fmt.Errorf("build alternatives delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("clear alternatives: %w", err)
	}

	for start := 0; start < len(alternatives); start += r.batchSize {
		end := start + r.batchSize
		if end > len(alternatives) {
			end = len(alternatives)
		}

		if err := r.insertBatch(ctx, tx, alternatives[start:end]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit alternatives tx: %w", err)
	}

	return nil
}

func (r *AlternativeRepository) insertBatch(ctx context.Context, tx *sql.Tx, batch []domain.RecommendedAlternative) error {
	builder := psql.
		Insert("recommended_alternatives").
		Columns("cancelled_product_id", "recommended_product_id",
			"brand_score", "manufacturer_score", "category_risk_score",
			"recency_score", "vertically_integrated", "relevance_score")

	for _, alt := range batch {
		builder = builder.Values(
			alt.CancelledProductID,
			alt.RecommendedProductID,
			domain.FormatScore(alt.BrandScore, componentDecimals),
			domain.FormatScore(alt.ManufacturerScore, componentDecimals),
			domain.FormatScore(alt.CategoryRiskScore, componentDecimals),
			domain.FormatScore(alt.RecencyScore, componentDecimals),
			alt.VerticallyIntegrated,
			domain.FormatScore(alt.RelevanceScore, relevanceDecimals),
		)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return fmt.Errorf("build alternatives insert: %w", err)
	}

	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert alternatives batch: %w", err)
	}

	return nil
}
