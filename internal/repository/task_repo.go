package repository

import (
	"context"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const taskColumns = `id, client_id, post_link, quantity, cost, status, completed_count,
	worker_pay, level1_commission, level2_commission, level3_commission, company_share, created_at`

type TaskRepository struct {
	db *pgxpool.Pool
}

func NewTaskRepository(db *pgxpool.Pool) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, t *domain.Task) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO tasks (client_id, post_link, quantity, cost, worker_pay,
		        level1_commission, level2_commission, level3_commission, company_share)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, status, completed_count, created_at`,
		t.ClientID, t.PostLink, t.Quantity, t.Cost, t.WorkerPay,
		t.Level1Commission, t.Level2Commission, t.Level3Commission, t.CompanyShare,
	).Scan(&t.ID, &t.Status, &t.CompletedCount, &t.CreatedAt)
}

func (r *TaskRepository) GetByID(ctx context.Context, id int64) (*domain.Task, error) {
	row := r.db.QueryRow(ctx, `SELECT `+taskColumns+` FROM tasks WHERE id = $1`, id)
	return scanTask(row)
}

// GetActive lists tasks open for submissions, newest first.
func (r *TaskRepository) GetActive(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+taskColumns+` FROM tasks
		 WHERE status = 'active'
		 ORDER BY created_at DESC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *t)
	}
	return tasks, rows.Err()
}

// IncrementCompletedTx bumps completed_count and flips the task to
// completed once the quantity cap is reached, in one statement.
func (r *TaskRepository) IncrementCompletedTx(ctx context.Context, tx pgx.Tx, taskID int64) error {
	_, err := tx.Exec(ctx,
		`UPDATE tasks SET completed_count = completed_count + 1,
		        status = CASE WHEN completed_count + 1 >= quantity THEN 'completed' ELSE status END
		 WHERE id = $1`,
		taskID)
	return err
}

func scanTask(row pgx.Row) (*domain.Task, error) {
	var t domain.Task
	if err := row.Scan(
		&t.ID, &t.ClientID, &t.PostLink, &t.Quantity, &t.Cost, &t.Status, &t.CompletedCount,
		&t.WorkerPay, &t.Level1Commission, &t.Level2Commission, &t.Level3Commission,
		&t.CompanyShare, &t.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &t, nil
}
