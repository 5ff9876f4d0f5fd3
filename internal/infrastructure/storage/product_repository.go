package storage

import (
	"context"
	"database/sql"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"CosmeticsWatch/internal/domain"
	"CosmeticsWatch/internal/ports"
)

// recencyDecimals matches the normalizer's storage precision.
const recencyDecimals = 4

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// ProductRepository reads and mutates the products table.
type ProductRepository struct {
	db *sql.DB
}

var _ ports.ProductRepository = (*ProductRepository)(nil)
var _ ports.NotificationWriter = (*ProductRepository)(nil)

// NewProductRepository wires a sql.DB implementation.
func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ListProducts returns the whole catalog. Score columns are stored as text
// and parsed leniently: a corrupt value degrades to 0 instead of aborting.
func (r *ProductRepository) ListProducts(ctx context.Context) ([]domain.Product, error) {
	if r.db == nil {
		return nil, nil
	}

	query, args, err := psql.
		Select("id", "notif_no", "name", "category", "status", "notified_at",
			"cancellation_reason", "applicant_id", "manufacturer_id",
			"vertically_integrated", "recency_score").
		From("products").
		OrderBy("id").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build products query: %w", err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		var (
			p            domain.Product
			notifiedAt   sql.NullTime
			reason       sql.NullString
			manufacturer sql.NullInt64
			recency      sql.NullString
		)

		err := rows.Scan(&p.ID, &p.NotificationNumber, &p.Name, &p.Category,
			&p.Status, &notifiedAt, &reason, &p.ApplicantID, &manufacturer,
			&p.VerticallyIntegrated, &recency)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}

		if notifiedAt.Valid {
			t := notifiedAt.Time
			p.NotifiedAt = &t
		}
		if reason.Valid {
			p.CancellationReason = reason.String
		}
		if manufacturer.Valid {
			id := manufacturer.Int64
			p.ManufacturerID = &id
		}
		if recency.Valid {
			p.RecencyScore = domain.ParseScoreOrDefault(recency.String, 0)
		}

		products = append(products, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate products: %w", err)
	}

	return products, nil
}

// UpdateRecencyScores overwrites the recency column for every update in one
// transaction, so a failed run never leaves a half-scored catalog.
func (r *ProductRepository) UpdateRecencyScores(ctx context.Context, updates []domain.RecencyUpdate) error {
	if r.db == nil || len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin recency tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `UPDATE products SET recency_score = $1 WHERE id = $2`)
	if err != nil {
		return fmt.Errorf("prepare recency update: %w", err)
	}
	defer stmt.Close()

	for _, update := range updates {
		formatted := domain.FormatScore(update.Score, recencyDecimals)
		if _, err := stmt.ExecContext(ctx, formatted, update.ProductID); err != nil {
			return fmt.Errorf("update recency for product %d: %w", update.ProductID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit recency tx: %w", err)
	}

	return nil
}

// EnsureCompany resolves a company id by unique name, inserting on first
// sight.
func (r *ProductRepository) EnsureCompany(ctx context.Context, name string) (int64, error) {
	if r.db == nil {
		return 0, fmt.Errorf("repository is not connected")
	}

	query, args, err := psql.
		Insert("companies").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("build company upsert: %w", err)
	}

	var id int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
		return 0, fmt.Errorf("upsert company: %w", err)
	}

	return id, nil
}

// UpsertProduct writes one ingested record keyed by notification number.
// A later cancellation export overwrites the status and reason of the
// original notification row.
func (r *ProductRepository) UpsertProduct(ctx context.Context, record domain.NotificationRecord, applicantID int64, manufacturerID *int64) error {
	if r.db == nil {
		return fmt.Errorf("repository is not connected")
	}

	vertical := record.VerticallyIntegrated()

	var notifiedAt any
	if record.NotifiedAt != nil {
		notifiedAt = *record.NotifiedAt
	}

	var manufacturer any
	if manufacturerID != nil {
		manufacturer = *manufacturerID
	}

	query, args, err := psql.
		Insert("products").
		Columns("notif_no", "name", "category", "status", "notified_at",
			"cancellation_reason", "applicant_id", "manufacturer_id",
			"vertically_integrated").
		Values(record.NotificationNumber, record.ProductName, record.Category,
			string(record.Status), notifiedAt, record.CancellationReason,
			applicantID, manufacturer, vertical).
		Suffix(`ON CONFLICT (notif_no) DO UPDATE SET
			name = EXCLUDED.name,
			category = EXCLUDED.category,
			status = EXCLUDED.status,
			notified_at = COALESCE(EXCLUDED.notified_at, products.notified_at),
			cancellation_reason = EXCLUDED.cancellation_reason,
			manufacturer_id = EXCLUDED.manufacturer_id,
			vertically_integrated = EXCLUDED.vertically_integrated`).
		ToSql()
	if err != nil {
		return fmt.Errorf("build product upsert: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("upsert product %s: %w", record.NotificationNumber, err)
	}

	return nil
}
