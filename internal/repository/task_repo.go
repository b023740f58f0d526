package repository

import (
	"context"
	"time"

	"tapearn_webapp/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	var t domain.Task
	err := r.db.QueryRow(ctx,
		`SELECT id, title, link, reward, recurring, is_active, created_at
		 FROM tasks WHERE id = $1`, id,
	).Scan(&t.ID, &t.Title, &t.Link, &t.Reward, &t.Recurring, &t.IsActive, &t.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListForUser returns active catalog entries with the caller's completion
// status: recurring tasks count only today's completion, one-shot tasks any.
func (r *TaskRepository) ListForUser(ctx context.Context, userID int64, today time.Time) ([]domain.TaskWithStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT t.id, t.title, t.link, t.reward, t.recurring, t.is_active, t.created_at,
		        EXISTS (
		          SELECT 1 FROM task_completions c
		          WHERE c.user_id = $1 AND c.task_id = t.id
		            AND (NOT t.recurring OR c.completed_date = $2)
		        ) AS completed
		 FROM tasks t
		 WHERE t.is_active
		 ORDER BY t.id ASC`,
		userID, today,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []domain.TaskWithStatus
	for rows.Next() {
		var t domain.TaskWithStatus
		if err := rows.Scan(&t.ID, &t.Title, &t.Link, &t.Reward, &t.Recurring, &t.IsActive, &t.CreatedAt, &t.Completed); err != nil {
			return nil, err
		}
		res = append(res, t)
	}
	return res, rows.Err()
}

// HasCompletion reports whether the user already completed the task —
// on the given UTC date for recurring tasks, ever otherwise.
func (r *TaskRepository) HasCompletion(ctx context.Context, userID, taskID int64, recurring bool, date time.Time) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM task_completions
		   WHERE user_id = $1 AND task_id = $2 AND ($3::bool = false OR completed_date = $4)
		 )`,
		userID, taskID, recurring, date,
	).Scan(&exists)
	return exists, err
}

// InsertCompletionTx records a completion inside a transaction. The unique
// indexes are the authority: a duplicate insert conflicts and inserts
// nothing, and the returned flag lets the caller roll the reward back.
func (r *TaskRepository) InsertCompletionTx(ctx context.Context, tx pgx.Tx, userID, taskID int64, date time.Time) (bool, error) {
	tag, err := tx.Exec(ctx,
		`INSERT INTO task_completions (user_id, task_id, completed_date)
		 VALUES ($1, $2, $3)
		 ON CONFLICT DO NOTHING`,
		userID, taskID, date,
	)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
