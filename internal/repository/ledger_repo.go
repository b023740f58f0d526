package repository

import (
	"context"
	"encoding/json"
	"time"

	"tapearn_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type LedgerRepository struct {
	db *pgxpool.Pool
}

func NewLedgerRepository(db *pgxpool.Pool) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// CreateTx appends a ledger entry inside an existing transaction so the
// balance mutation and its record commit together or not at all.
func (r *LedgerRepository) CreateTx(ctx context.Context, tx pgx.Tx, e *domain.LedgerEntry) error {
	metaJSON, err := json.Marshal(e.Meta)
	if err != nil {
		metaJSON = []byte("{}")
	}

	return tx.QueryRow(ctx,
		`INSERT INTO reward_ledger (user_id, type, amount, meta)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		e.UserID, e.Type, e.Amount, metaJSON,
	).Scan(&e.ID, &e.CreatedAt)
}

// GetByUserID returns recent ledger entries for a user
func (r *LedgerRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.LedgerEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, user_id, type, amount, meta, created_at
		 FROM reward_ledger
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanLedgerRows(rows)
}

// SumByType returns the total amount of a given entry type for a user.
// Used by referral stats to report lifetime referral earnings.
func (r *LedgerRepository) SumByType(ctx context.Context, userID int64, entryType string) (int64, error) {
	var total int64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0) FROM reward_ledger WHERE user_id = $1 AND type = $2`,
		userID, entryType,
	).Scan(&total)
	return total, err
}

func scanLedgerRows(rows pgx.Rows) ([]*domain.LedgerEntry, error) {
	var result []*domain.LedgerEntry

	for rows.Next() {
		var (
			e         domain.LedgerEntry
			metaJSON  []byte
			createdAt time.Time
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Type, &e.Amount, &metaJSON, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt = createdAt
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &e.Meta)
		}
		result = append(result, &e)
	}

	return result, rows.Err()
}
