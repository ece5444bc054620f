package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"billscan/internal/domain"
	"billscan/internal/port"
)

type recordRepo struct {
	db *sqlx.DB
}

// NewRecordRepo creates a new PostgreSQL-backed RecordRepository.
func NewRecordRepo(db *sqlx.DB) port.RecordRepository {
	return &recordRepo{db: db}
}

func (r *recordRepo) Create(ctx context.Context, rec *domain.BillRecord) error {
	if rec.CreatedAt.IsZero() {
		now := time.Now().UTC()
		rec.CreatedAt = now
		rec.UpdatedAt = now
	}

	query := `INSERT INTO bill_records (
		id, vendor, bill_date, amount, currency, category, language,
		source_key, raw_text, fields, created_at, updated_at
	) VALUES (
		$1, $2, $3, $4, $5, $6, $7,
		$8, $9, $10, $11, $12
	)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Vendor, rec.BillDate, rec.Amount, rec.Currency, rec.Category, rec.Language,
		rec.SourceKey, rec.RawText, rec.Fields, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Create: %w", err)
	}
	return nil
}

func (r *recordRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.BillRecord, error) {
	var rec domain.BillRecord
	err := r.db.GetContext(ctx, &rec,
		"SELECT * FROM bill_records WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, fmt.Errorf("recordRepo.GetByID: %w", err)
	}
	return &rec, nil
}

func (r *recordRepo) List(ctx context.Context, offset, limit int) ([]domain.BillRecord, int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM bill_records")
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List count: %w", err)
	}

	var recs []domain.BillRecord
	err = r.db.SelectContext(ctx, &recs,
		`SELECT * FROM bill_records
		 ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("recordRepo.List: %w", err)
	}
	return recs, total, nil
}

func (r *recordRepo) ListAll(ctx context.Context) ([]domain.BillRecord, error) {
	var recs []domain.BillRecord
	err := r.db.SelectContext(ctx, &recs,
		"SELECT * FROM bill_records ORDER BY created_at ASC")
	if err != nil {
		return nil, fmt.Errorf("recordRepo.ListAll: %w", err)
	}
	return recs, nil
}

func (r *recordRepo) Update(ctx context.Context, rec *domain.BillRecord) error {
	rec.UpdatedAt = time.Now().UTC()

	query := `UPDATE bill_records SET
		vendor = $2, bill_date = $3, amount = $4, currency = $5,
		category = $6, language = $7, source_key = $8, raw_text = $9,
		fields = $10, updated_at = $11
	WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.Vendor, rec.BillDate, rec.Amount, rec.Currency,
		rec.Category, rec.Language, rec.SourceKey, rec.RawText,
		rec.Fields, rec.UpdatedAt)
	if err != nil {
		return fmt.Errorf("recordRepo.Update: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recordRepo.Update rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}

func (r *recordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM bill_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("recordRepo.Delete: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("recordRepo.Delete rows: %w", err)
	}
	if rows == 0 {
		return domain.ErrRecordNotFound
	}
	return nil
}
