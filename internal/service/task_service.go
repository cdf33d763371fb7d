package service

import (
	"context"
	"errors"
	"fmt"

	"earnhub/internal/domain"
	"earnhub/internal/logger"
	"earnhub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TaskService governs the submission lifecycle:
// pending -> approved | rejected, both terminal. Approval is the single
// trigger for the commission distributor.
type TaskService struct {
	db          *pgxpool.Pool
	tasks       *repository.TaskRepository
	submissions *repository.SubmissionRepository
	ledger      *repository.LedgerRepository
	earnings    *repository.EarningRepository
	referrals   *ReferralService
	events      EventPublisher
}

func NewTaskService(db *pgxpool.Pool, referrals *ReferralService, events EventPublisher) *TaskService {
	return &TaskService{
		db:          db,
		tasks:       repository.NewTaskRepository(db),
		submissions: repository.NewSubmissionRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		earnings:    repository.NewEarningRepository(db),
		referrals:   referrals,
		events:      events,
	}
}

// CreateTask opens a task with the default commission schedule.
func (s *TaskService) CreateTask(ctx context.Context, clientID int64, postLink string, quantity int, cost int64) (*domain.Task, error) {
	if postLink == "" || quantity <= 0 || cost <= 0 {
		return nil, fmt.Errorf("%w: post link, quantity and cost are required", ErrValidation)
	}

	task := &domain.Task{
		ClientID:         clientID,
		PostLink:         postLink,
		Quantity:         quantity,
		Cost:             cost,
		WorkerPay:        domain.DefaultWorkerPay,
		Level1Commission: domain.DefaultLevelCommission,
		Level2Commission: domain.DefaultLevelCommission,
		Level3Commission: domain.DefaultLevelCommission,
		CompanyShare:     domain.DefaultCompanyShare,
	}
	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) ActiveTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	return s.tasks.GetActive(ctx, limit)
}

func (s *TaskService) MySubmissions(ctx context.Context, workerID int64, limit int) ([]domain.TaskSubmission, error) {
	return s.submissions.GetByWorker(ctx, workerID, limit)
}

func (s *TaskService) PendingSubmissions(ctx context.Context, limit int) ([]domain.TaskSubmission, error) {
	return s.submissions.GetPending(ctx, limit)
}

// Submit records a worker's proof against an active task. The earnings
// field snapshots the task's worker pay at submission time; approval pays
// out the snapshot even if the task is edited later.
func (s *TaskService) Submit(ctx context.Context, workerID, taskID int64, proof string) (*domain.TaskSubmission, error) {
	if proof == "" {
		return nil, fmt.Errorf("%w: proof is required", ErrValidation)
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: task not found", ErrNotFound)
		}
		return nil, err
	}
	if task.Status != domain.TaskActive {
		return nil, fmt.Errorf("%w: task not active", ErrNotFound)
	}

	exists, err := s.submissions.Exists(ctx, taskID, workerID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: task already submitted", ErrConflict)
	}

	submission := &domain.TaskSubmission{
		TaskID:   taskID,
		WorkerID: workerID,
		Proof:    proof,
		Earnings: task.WorkerPay,
	}
	if err := s.submissions.Create(ctx, submission); err != nil {
		// the unique index closes the check-then-insert race
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: task already submitted", ErrConflict)
		}
		return nil, err
	}

	if s.events != nil {
		s.events.Publish("submission.created", submission)
	}
	return submission, nil
}

// Approve finalizes a pending submission: the worker is credited the
// snapshot earnings, one task earning record is written, the task's
// completed count advances, and upline commissions are distributed.
//
// Only a pending submission can be approved; approving an approved or
// rejected one fails with a conflict, so a submission can never be
// credited twice. Distribution failures are logged, never propagated.
func (s *TaskService) Approve(ctx context.Context, submissionID int64) (*domain.TaskSubmission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: submission not found", ErrNotFound)
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// conditional update: exactly one approval wins
	ok, err := s.submissions.MarkApprovedTx(ctx, tx, submissionID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: submission already processed", ErrConflict)
	}

	if err := s.ledger.CreditTaskTx(ctx, tx, submission.WorkerID, submission.Earnings); err != nil {
		return nil, err
	}

	earning := &domain.Earning{
		UserID:           submission.WorkerID,
		Type:             domain.EarningTask,
		Amount:           submission.Earnings,
		Status:           "approved",
		Description:      "Task completion earnings",
		ReferenceID:      &submission.TaskID,
		TaskSubmissionID: &submission.ID,
	}
	if err := s.earnings.CreateTx(ctx, tx, earning); err != nil {
		return nil, err
	}

	if err := s.tasks.IncrementCompletedTx(ctx, tx, submission.TaskID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	EarningsCredited.WithLabelValues(string(domain.EarningTask)).Inc()

	// Upline commissions are best-effort and outside the approval
	// transaction: a distribution failure must never reverse the
	// committed approval.
	s.referrals.DistributeTaskCommission(ctx, submission.WorkerID, submission.TaskID, submission.Earnings)

	submission.Status = domain.SubmissionApproved
	if s.events != nil {
		s.events.Publish("submission.approved", submission)
	}
	logger.Info("submission approved",
		"submission_id", submission.ID, "task_id", submission.TaskID, "worker_id", submission.WorkerID)
	return submission, nil
}

// Reject closes a pending submission with no monetary effect.
func (s *TaskService) Reject(ctx context.Context, submissionID int64, notes string) (*domain.TaskSubmission, error) {
	submission, err := s.submissions.GetByID(ctx, submissionID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: submission not found", ErrNotFound)
		}
		return nil, err
	}

	ok, err := s.submissions.MarkRejected(ctx, submissionID, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: submission already processed", ErrConflict)
	}

	submission.Status = domain.SubmissionRejected
	submission.AdminNotes = notes
	return submission, nil
}
