package repository

import (
	"context"

	"tapearn_webapp/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type WithdrawalRepository struct {
	db *pgxpool.Pool
}

func NewWithdrawalRepository(db *pgxpool.Pool) *WithdrawalRepository {
	return &WithdrawalRepository{db: db}
}

// CreateTx inserts a pending withdrawal request. Must run in the same
// transaction as the point deduction.
func (r *WithdrawalRepository) CreateTx(ctx context.Context, tx pgx.Tx, w *domain.Withdrawal) error {
	w.Reference = uuid.NewString()
	w.Status = domain.WithdrawalPending
	return tx.QueryRow(ctx,
		`INSERT INTO withdrawals (reference, user_id, points, method, details, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, requested_at`,
		w.Reference, w.UserID, w.Points, w.Method, w.Details, w.Status,
	).Scan(&w.ID, &w.RequestedAt)
}

// GetByUserID returns the user's withdrawal history, newest first.
func (r *WithdrawalRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		`SELECT id, reference, user_id, points, method, details, status, requested_at
		 FROM withdrawals
		 WHERE user_id = $1
		 ORDER BY requested_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.Withdrawal
	for rows.Next() {
		var w domain.Withdrawal
		if err := rows.Scan(&w.ID, &w.Reference, &w.UserID, &w.Points, &w.Method, &w.Details, &w.Status, &w.RequestedAt); err != nil {
			return nil, err
		}
		res = append(res, w)
	}
	return res, rows.Err()
}
