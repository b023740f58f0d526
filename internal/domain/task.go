package domain

import "time"

// Task is a catalog entry. The catalog is externally configured and
// read-only from the app's point of view.
type Task struct {
	ID        int64     `db:"id" json:"id"`
	Title     string    `db:"title" json:"title"`
	Link      string    `db:"link" json:"link"`
	Reward    int64     `db:"reward" json:"reward"`
	Recurring bool      `db:"recurring" json:"recurring"`
	IsActive  bool      `db:"is_active" json:"is_active"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// TaskCompletion records that a user completed a task. For recurring tasks
// uniqueness is per (user, task, UTC date); otherwise per (user, task).
type TaskCompletion struct {
	ID            int64     `db:"id" json:"id"`
	UserID        int64     `db:"user_id" json:"user_id"`
	TaskID        int64     `db:"task_id" json:"task_id"`
	CompletedDate time.Time `db:"completed_date" json:"completed_date"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}

// TaskWithStatus is a catalog entry joined with the caller's completion state.
type TaskWithStatus struct {
	Task
	Completed bool `json:"completed"`
}
