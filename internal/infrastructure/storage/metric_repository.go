package storage

import (
	"context"
	"database/sql"
	"fmt"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

const metricDecimals = 4

// MetricRepository serves the derived company/category metric tables.
type MetricRepository struct {
	db *sql.DB
}

var _ ports.MetricRepository = (*MetricRepository)(nil)

// NewMetricRepository wires a sql.DB implementation.
func NewMetricRepository(db *sql.DB) *MetricRepository {
	return &MetricRepository{db: db}
}

// CompanyMetrics loads the reputation table keyed by company id.
func (r *MetricRepository) CompanyMetrics(ctx context.Context) (map[int64]domain.CompanyMetric, error) {
	if r.db == nil {
		return map[int64]domain.CompanyMetric{}, nil
	}

	query, args, err := psql.
		Select("company_id", "total", "cancelled", "first_notified", "reputation").
		From("company_metrics").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build company metrics query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query company metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[int64]domain.CompanyMetric)
	for rows.Next() {
		var (
			m          domain.CompanyMetric
			first      sql.NullTime
			reputation sql.NullString
		)
		if err := rows.Scan(&m.CompanyID, &m.Total, &m.Cancelled, &first, &reputation); err != nil {
			return nil, fmt.Errorf("scan company metric: %w", err)
		}
		if first.Valid {
			t := first.Time
			m.FirstNotified = &t
		}
		if reputation.Valid {
			m.Reputation = domain.ParseScoreOrDefault(reputation.String, 0)
		}
		metrics[m.CompanyID] = m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate company metrics: %w", err)
	}

	return metrics, nil
}

// CategoryMetrics loads the risk table keyed by exact category label.
func (r *MetricRepository) CategoryMetrics(ctx context.Context) (map[string]domain.CategoryMetric, error) {
	if r.db == nil {
		return map[string]domain.CategoryMetric{}, nil
	}

	query, args, err := psql.
		Select("category", "total", "cancelled", "risk").
		From("category_metrics").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build category metrics query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query category metrics: %w", err)
	}
	defer rows.Close()

	metrics := make(map[string]domain.CategoryMetric)
	for rows.Next() {
		var (
			m    domain.CategoryMetric
			risk sql.NullString
		)
		if err := rows.Scan(&m.Category, &m.Total, &m.Cancelled, &risk); err != nil {
			return nil, fmt.Errorf("scan category metric: %w", err)
		}
		if risk.Valid {
			m.Risk = domain.ParseScoreOrDefault(risk.String, 0)
		}
		metrics[m.Category] = m
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate category metrics: %w", err)
	}

	return metrics, nil
}

// ReplaceCompanyMetrics swaps the whole company_metrics table in one
// transaction.
func (r *MetricRepository) ReplaceCompanyMetrics(ctx context.Context, metrics []domain.CompanyMetric) error {
	if r.db == nil {
		return fmt.Errorf("repository is not connected")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin company metrics tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteSQL, deleteArgs, err := psql.Delete("company_metrics").ToSql()
	if err != nil {
		return fmt.Errorf("build company metrics delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("clear company metrics: %w", err)
	}

	for _, m := range metrics {
		var first any
		if m.FirstNotified != nil {
			first = *m.FirstNotified
		}

		query, args, err := psql.
			Insert("company_metrics").
			Columns("company_id", "total", "cancelled", "first_notified", "reputation").
			Values(m.CompanyID, m.Total, m.Cancelled, first,
				domain.FormatScore(m.Reputation, metricDecimals)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build company metric insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert company metric %d: %w", m.CompanyID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit company metrics tx: %w", err)
	}

	return nil
}

// ReplaceCategoryMetrics swaps the whole category_metrics table in one
// transaction.
func (r *MetricRepository) ReplaceCategoryMetrics(ctx context.Context, metrics []domain.CategoryMetric) error {
	if r.db == nil {
		return fmt.Errorf("repository is not connected")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin category metrics tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	deleteSQL, deleteArgs, err := psql.Delete("category_metrics").ToSql()
	if err != nil {
		return fmt.Errorf("build category metrics delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, deleteSQL, deleteArgs...); err != nil {
		return fmt.Errorf("clear category metrics: %w", err)
	}

	for _, m := range metrics {
		query, args, err := psql.
			Insert("category_metrics").
			Columns("category", "total", "cancelled", "risk").
			Values(m.Category, m.Total, m.Cancelled,
				domain.FormatScore(m.Risk, metricDecimals)).
			ToSql()
		if err != nil {
			return fmt.Errorf("build category metric insert: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert category metric %s: %w", m.Category, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit category metrics tx: %w", err)
	}

	return nil
}
