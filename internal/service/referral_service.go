package service

import (
	"context"
	"errors"
	"strconv"

	"earnhub/internal/domain"
	"earnhub/internal/logger"
	"earnhub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReferralService owns the two sides of the referral engine: attaching a
// new user to their upline at registration, and distributing per-task
// commissions up that chain when a submission is approved.
//
// The referred_by parent pointer is the authoritative topology. The
// referrals projection table is maintained alongside it for queries; a
// partial failure there never rolls back committed credits.
type ReferralService struct {
	users     *repository.UserRepository
	referrals *repository.ReferralRepository
	ledger    *repository.LedgerRepository
	earnings  *repository.EarningRepository
	tasks     *repository.TaskRepository
	settings  *repository.SettingsRepository
}

func NewReferralService(db *pgxpool.Pool, settings *repository.SettingsRepository) *ReferralService {
	return &ReferralService{
		users:     repository.NewUserRepository(db),
		referrals: repository.NewReferralRepository(db),
		ledger:    repository.NewLedgerRepository(db),
		earnings:  repository.NewEarningRepository(db),
		tasks:     repository.NewTaskRepository(db),
		settings:  settings,
	}
}

// AttachReferral links a freshly registered user to the upline behind
// referralCode. An unknown code is a normal outcome: it returns
// (nil, nil) and mutates nothing, and registration proceeds without a
// referrer.
//
// The direct referrer gets the configured signup bonus and one earning
// record; level 2 and 3 ancestors only gain a projection row. Each
// ancestor update past level 1 is best-effort: a failure there is logged
// and does not undo the level-1 credit already committed.
func (s *ReferralService) AttachReferral(ctx context.Context, newUserID int64, referralCode string) (*domain.User, error) {
	referrer, err := s.users.GetByReferralCode(ctx, referralCode)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	if referrer.ID == newUserID {
		return nil, nil
	}

	if err := s.users.SetReferrer(ctx, newUserID, referrer.ID, 1); err != nil {
		return nil, err
	}
	if err := s.referrals.Record(ctx, referrer.ID, newUserID, 1); err != nil {
		return nil, err
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return nil, err
	}
	bonus := settings.ReferralSignupBonus

	if err := s.ledger.CreditReferral(ctx, referrer.ID, bonus); err != nil {
		return nil, err
	}

	level := 1
	earning := &domain.Earning{
		UserID:         referrer.ID,
		Type:           domain.EarningReferral,
		Amount:         bonus,
		Status:         "approved",
		Description:    "Referral bonus for new user registration",
		ReferredUserID: &newUserID,
		ReferralLevel:  &level,
	}
	if err := s.earnings.Create(ctx, earning); err != nil {
		return nil, err
	}
	EarningsCredited.WithLabelValues(string(domain.EarningReferral)).Inc()

	// Levels 2 and 3 are projection-only. Record them best-effort and
	// stop at three generations no matter how deep the tree goes.
	ancestorID := referrer.ReferredBy
	for depth := 2; depth <= domain.MaxReferralDepth && ancestorID != nil; depth++ {
		if err := s.referrals.Record(ctx, *ancestorID, newUserID, depth); err != nil {
			logger.Error("referral: projection update failed",
				"ancestor_id", *ancestorID, "referred_id", newUserID, "level", depth, "error", err)
			break
		}
		if err := s.users.SetReferralLevel(ctx, newUserID, depth); err != nil {
			logger.Error("referral: level update failed",
				"user_id", newUserID, "level", depth, "error", err)
			break
		}

		next, err := s.users.GetReferrerID(ctx, *ancestorID)
		if err != nil || next == 0 {
			break
		}
		ancestorID = &next
	}

	return referrer, nil
}

// DistributeTaskCommission walks the worker's upline via the referred_by
// chain and credits each existing ancestor the task's fixed commission
// for that depth. The amount argument is the worker's own payout; it is
// recorded for context but does not drive the commission math, which
// always reads the task's static schedule.
//
// Invoked at most once per approved submission by the task service; this
// method performs no duplicate check of its own. Every failure here is
// logged and swallowed so a distribution problem never blocks or
// reverses the approval that triggered it.
func (s *ReferralService) DistributeTaskCommission(ctx context.Context, workerID, taskID, amount int64) {
	worker, err := s.users.GetByID(ctx, workerID)
	if err != nil {
		logger.Error("commission: worker lookup failed", "worker_id", workerID, "error", err)
		return
	}
	if worker.ReferredBy == nil {
		return
	}

	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		logger.Error("commission: task lookup failed", "task_id", taskID, "error", err)
		return
	}

	ancestorID := *worker.ReferredBy
	for depth := 1; depth <= domain.MaxReferralDepth; depth++ {
		ancestor, err := s.users.GetByID(ctx, ancestorID)
		if err != nil {
			if !errors.Is(err, pgx.ErrNoRows) {
				logger.Error("commission: ancestor lookup failed",
					"ancestor_id", ancestorID, "level", depth, "error", err)
			}
			return
		}

		commission := task.CommissionForLevel(depth)
		s.creditCommission(ctx, ancestor.ID, workerID, taskID, commission, depth)

		if ancestor.ReferredBy == nil {
			return
		}
		ancestorID = *ancestor.ReferredBy
	}
}

func (s *ReferralService) creditCommission(ctx context.Context, ancestorID, workerID, taskID, commission int64, depth int) {
	if err := s.ledger.CreditReferral(ctx, ancestorID, commission); err != nil {
		logger.Error("commission: ledger credit failed",
			"ancestor_id", ancestorID, "level", depth, "error", err)
		CommissionFailures.Inc()
		return
	}

	level := depth
	earning := &domain.Earning{
		UserID:         ancestorID,
		Type:           domain.EarningReferral,
		Amount:         commission,
		Status:         "approved",
		Description:    "Level " + strconv.Itoa(depth) + " referral commission from task",
		ReferenceID:    &taskID,
		ReferredUserID: &workerID,
		ReferralLevel:  &level,
	}
	if err := s.earnings.Create(ctx, earning); err != nil {
		logger.Error("commission: earning record failed",
			"ancestor_id", ancestorID, "level", depth, "error", err)
		CommissionFailures.Inc()
		return
	}

	EarningsCredited.WithLabelValues(string(domain.EarningReferral)).Inc()
	CommissionsDistributed.WithLabelValues(strconv.Itoa(depth)).Inc()
}

// Stats summarizes a user's referral tree for the profile screen.
type ReferralStats struct {
	Code         string            `json:"code"`
	Link         string            `json:"link,omitempty"`
	CountByLevel map[int]int       `json:"count_by_level"`
	EarnedL1     int64             `json:"earned_level1"`
	EarnedL2     int64             `json:"earned_level2"`
	EarnedL3     int64             `json:"earned_level3"`
	Recent       []domain.Referral `json:"recent"`
}

func (s *ReferralService) Stats(ctx context.Context, userID int64) (*ReferralStats, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	counts, err := s.referrals.CountByLevel(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, err := s.referrals.GetByAncestor(ctx, userID, 20)
	if err != nil {
		return nil, err
	}

	stats := &ReferralStats{Code: user.ReferralCode, CountByLevel: counts, Recent: recent}
	_, stats.EarnedL1, err = s.earnings.CountByTypeAndLevel(ctx, userID, 1)
	if err != nil {
		return nil, err
	}
	_, stats.EarnedL2, err = s.earnings.CountByTypeAndLevel(ctx, userID, 2)
	if err != nil {
		return nil, err
	}
	_, stats.EarnedL3, err = s.earnings.CountByTypeAndLevel(ctx, userID, 3)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
