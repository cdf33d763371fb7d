package repository

import (
	"context"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const submissionColumns = `id, task_id, worker_id, proof, status, earnings, COALESCE(admin_notes, ''), created_at`

type SubmissionRepository struct {
	db *pgxpool.Pool
}

func NewSubmissionRepository(db *pgxpool.Pool) *SubmissionRepository {
	return &SubmissionRepository{db: db}
}

func (r *SubmissionRepository) Create(ctx context.Context, s *domain.TaskSubmission) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO task_submissions (task_id, worker_id, proof, earnings)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, status, created_at`,
		s.TaskID, s.WorkerID, s.Proof, s.Earnings,
	).Scan(&s.ID, &s.Status, &s.CreatedAt)
}

func (r *SubmissionRepository) GetByID(ctx context.Context, id int64) (*domain.TaskSubmission, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+submissionColumns+` FROM task_submissions WHERE id = $1`, id)
	return scanSubmission(row)
}

// Exists reports whether the worker already submitted to this task.
func (r *SubmissionRepository) Exists(ctx context.Context, taskID, workerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM task_submissions WHERE task_id = $1 AND worker_id = $2)`,
		taskID, workerID).Scan(&exists)
	return exists, err
}

func (r *SubmissionRepository) GetByWorker(ctx context.Context, workerID int64, limit int) ([]domain.TaskSubmission, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+submissionColumns+` FROM task_submissions
		 WHERE worker_id = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		workerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.TaskSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

func (r *SubmissionRepository) GetPending(ctx context.Context, limit int) ([]domain.TaskSubmission, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+submissionColumns+` FROM task_submissions
		 WHERE status = 'pending'
		 ORDER BY created_at ASC
		 LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var submissions []domain.TaskSubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, err
		}
		submissions = append(submissions, *s)
	}
	return submissions, rows.Err()
}

// MarkApprovedTx flips a pending submission to approved. Returns false
// when the submission was not pending, which makes concurrent double
// approval race down to exactly one winner.
func (r *SubmissionRepository) MarkApprovedTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE task_submissions SET status = 'approved'
		 WHERE id = $1 AND status = 'pending'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

// MarkRejected flips a pending submission to rejected, storing optional
// admin notes. Returns false when the submission was not pending.
func (r *SubmissionRepository) MarkRejected(ctx context.Context, id int64, notes string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE task_submissions SET status = 'rejected', admin_notes = $2
		 WHERE id = $1 AND status = 'pending'`, id, notes)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}

func scanSubmission(row pgx.Row) (*domain.TaskSubmission, error) {
	var s domain.TaskSubmission
	if err := row.Scan(
		&s.ID, &s.TaskID, &s.WorkerID, &s.Proof, &s.Status, &s.Earnings,
		&s.AdminNotes, &s.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &s, nil
}
