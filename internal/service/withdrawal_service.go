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

// WithdrawalService governs the balance-debit lifecycle:
// pending -> approved | rejected, both terminal. Requesting reserves the
// amount (current_balance -> pending_earnings); approval finalizes the
// reservation into total_withdrawals; rejection releases it back.
type WithdrawalService struct {
	db          *pgxpool.Pool
	withdrawals *repository.WithdrawalRepository
	ledger      *repository.LedgerRepository
	settings    *repository.SettingsRepository
	events      EventPublisher
}

func NewWithdrawalService(db *pgxpool.Pool, settings *repository.SettingsRepository, events EventPublisher) *WithdrawalService {
	return &WithdrawalService{
		db:          db,
		withdrawals: repository.NewWithdrawalRepository(db),
		ledger:      repository.NewLedgerRepository(db),
		settings:    settings,
		events:      events,
	}
}

// Request reserves amount from the user's spendable balance and opens a
// pending withdrawal. At most one pending request per user; an amount
// exactly at the configured minimum is accepted.
func (s *WithdrawalService) Request(ctx context.Context, userID, amount int64, method string, details domain.AccountDetails) (*domain.Withdrawal, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if !domain.ValidPaymentMethod(method) {
		return nil, fmt.Errorf("%w: unknown payment method %q", ErrValidation, method)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	if amount < settings.MinWithdrawalAmount {
		return nil, fmt.Errorf("%w: minimum withdrawal amount is %d", ErrValidation, settings.MinWithdrawalAmount)
	}

	pending, err := s.withdrawals.HasPending(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pending {
		return nil, fmt.Errorf("%w: a pending withdrawal request already exists", ErrConflict)
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	// guarded decrement: fails cleanly when the balance is short
	ok, err := s.ledger.ReserveForWithdrawalTx(ctx, tx, userID, amount)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: insufficient balance", ErrValidation)
	}

	withdrawal := &domain.Withdrawal{
		UserID:         userID,
		Amount:         amount,
		PaymentMethod:  method,
		AccountDetails: details,
	}
	if err := s.withdrawals.CreateTx(ctx, tx, withdrawal); err != nil {
		// the partial unique index on pending withdrawals catches the
		// race the HasPending pre-check cannot
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: a pending withdrawal request already exists", ErrConflict)
		}
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	WithdrawalTransitions.WithLabelValues("pending").Inc()
	if s.events != nil {
		s.events.Publish("withdrawal.requested", withdrawal)
	}
	logger.Info("withdrawal requested", "withdrawal_id", withdrawal.ID, "user_id", userID, "amount", amount)
	return withdrawal, nil
}

// Approve finalizes a pending withdrawal: the reserved amount moves from
// pending_earnings into total_withdrawals. current_balance is untouched;
// it was debited when the reservation was taken.
func (s *WithdrawalService) Approve(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	withdrawal, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.withdrawals.MarkApprovedTx(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: withdrawal already processed", ErrConflict)
	}

	if err := s.ledger.FinalizeWithdrawalTx(ctx, tx, withdrawal.UserID, withdrawal.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	WithdrawalTransitions.WithLabelValues("approved").Inc()
	withdrawal.Status = domain.WithdrawalApproved
	return withdrawal, nil
}

// Reject releases the reservation back into the user's spendable balance.
func (s *WithdrawalService) Reject(ctx context.Context, id int64, notes string) (*domain.Withdrawal, error) {
	withdrawal, err := s.getByID(ctx, id)
	if err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.withdrawals.MarkRejectedTx(ctx, tx, id, notes)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: withdrawal already processed", ErrConflict)
	}

	if err := s.ledger.ReleaseWithdrawalTx(ctx, tx, withdrawal.UserID, withdrawal.Amount); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	WithdrawalTransitions.WithLabelValues("rejected").Inc()
	withdrawal.Status = domain.WithdrawalRejected
	withdrawal.AdminNotes = notes
	return withdrawal, nil
}

func (s *WithdrawalService) MyWithdrawals(ctx context.Context, userID int64, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawals.GetByUserID(ctx, userID, limit)
}

func (s *WithdrawalService) AllWithdrawals(ctx context.Context, status string, limit int) ([]domain.Withdrawal, error) {
	return s.withdrawals.GetAll(ctx, status, limit)
}

func (s *WithdrawalService) getByID(ctx context.Context, id int64) (*domain.Withdrawal, error) {
	withdrawal, err := s.withdrawals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: withdrawal not found", ErrNotFound)
		}
		return nil, err
	}
	return withdrawal, nil
}
