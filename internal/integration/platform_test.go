package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"earnhub/internal/domain"
	"earnhub/internal/repository"
	"earnhub/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

// End-to-end flows against a real database. Runs only if DATABASE_URL is
// set and migrations have been applied (cmd/migrate_apply -apply).

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set; skipping integration test")
	}
	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func registerUser(t *testing.T, auth *service.AuthService, name, refCode string) *domain.User {
	t.Helper()
	suffix := fmt.Sprintf("%s_%d", name, time.Now().UnixNano())
	u, err := auth.Register(context.Background(), service.RegisterInput{
		Name:         name,
		Username:     suffix,
		Email:        suffix + "@example.com",
		Password:     "secret123",
		ReferralCode: refCode,
	})
	if err != nil {
		t.Fatalf("register %s: %v", name, err)
	}
	return u
}

// Registers a four-deep chain a <- b <- c <- d and approves a task
// submission from d. a, b and c must each receive exactly one referral
// earning at their respective depth, and d gets the worker pay.
func TestReferralChainCommissions(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	tasks := service.NewTaskService(pool, referrals, nil)
	users := repository.NewUserRepository(pool)
	earnings := repository.NewEarningRepository(pool)

	a := registerUser(t, auth, "alice", "")
	b := registerUser(t, auth, "bob", a.ReferralCode)
	c := registerUser(t, auth, "carol", b.ReferralCode)
	d := registerUser(t, auth, "dave", c.ReferralCode)

	// signup bonuses land on the direct referrer only
	bonus, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	aAfter, err := users.GetByID(ctx, a.ID)
	if err != nil {
		t.Fatalf("get a: %v", err)
	}
	if aAfter.Ledger.ReferralEarnings != bonus.ReferralSignupBonus {
		t.Errorf("a referral earnings = %d, want %d", aAfter.Ledger.ReferralEarnings, bonus.ReferralSignupBonus)
	}

	task, err := tasks.CreateTask(ctx, a.ID, "https://example.com/post", 10, 2000)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}

	sub, err := tasks.Submit(ctx, d.ID, task.ID, "https://example.com/proof")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	// baseline before approval: signup bonuses already produced level-1
	// referral earnings for each direct referrer
	type ancestorCheck struct {
		user  *domain.User
		level int
	}
	checks := []ancestorCheck{{c, 1}, {b, 2}, {a, 3}}

	baseCount := make([]int, len(checks))
	baseTotal := make([]int64, len(checks))
	for i, tc := range checks {
		baseCount[i], baseTotal[i], err = earnings.CountByTypeAndLevel(ctx, tc.user.ID, tc.level)
		if err != nil {
			t.Fatalf("baseline count level %d: %v", tc.level, err)
		}
	}

	if _, err := tasks.Approve(ctx, sub.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// worker pay
	dAfter, err := users.GetByID(ctx, d.ID)
	if err != nil {
		t.Fatalf("get d: %v", err)
	}
	if dAfter.Ledger.TaskEarnings != task.WorkerPay {
		t.Errorf("d task earnings = %d, want %d", dAfter.Ledger.TaskEarnings, task.WorkerPay)
	}

	// exactly one new commission per ancestor, at the right depth
	for i, tc := range checks {
		count, total, err := earnings.CountByTypeAndLevel(ctx, tc.user.ID, tc.level)
		if err != nil {
			t.Fatalf("count level %d: %v", tc.level, err)
		}
		if got := count - baseCount[i]; got != 1 {
			t.Errorf("%s level %d new commission count = %d, want 1", tc.user.Name, tc.level, got)
		}
		if got, want := total-baseTotal[i], task.CommissionForLevel(tc.level); got != want {
			t.Errorf("%s level %d new commission total = %d, want %d", tc.user.Name, tc.level, got, want)
		}
	}
}

func TestApproveSubmissionTwice(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	tasks := service.NewTaskService(pool, referrals, nil)
	users := repository.NewUserRepository(pool)

	client := registerUser(t, auth, "client", "")
	worker := registerUser(t, auth, "worker", "")

	task, err := tasks.CreateTask(ctx, client.ID, "https://example.com/post", 5, 1000)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	sub, err := tasks.Submit(ctx, worker.ID, task.ID, "https://example.com/proof")
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	if _, err := tasks.Approve(ctx, sub.ID); err != nil {
		t.Fatalf("first approve: %v", err)
	}
	if _, err := tasks.Approve(ctx, sub.ID); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("second approve: got %v, want ErrConflict", err)
	}

	// balance credited exactly once
	w, err := users.GetByID(ctx, worker.ID)
	if err != nil {
		t.Fatalf("get worker: %v", err)
	}
	if w.Ledger.TaskEarnings != task.WorkerPay {
		t.Errorf("worker task earnings = %d, want %d", w.Ledger.TaskEarnings, task.WorkerPay)
	}
}

func TestDuplicateSubmissionRejected(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	tasks := service.NewTaskService(pool, referrals, nil)

	client := registerUser(t, auth, "client2", "")
	worker := registerUser(t, auth, "worker2", "")

	task, err := tasks.CreateTask(ctx, client.ID, "https://example.com/post", 5, 1000)
	if err != nil {
		t.Fatalf("create task: %v", err)
	}
	if _, err := tasks.Submit(ctx, worker.ID, task.ID, "first"); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := tasks.Submit(ctx, worker.ID, task.ID, "second"); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("second submit: got %v, want ErrConflict", err)
	}
}

func TestWithdrawalLifecycle(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	withdrawals := service.NewWithdrawalService(pool, settings, nil)
	users := repository.NewUserRepository(pool)

	// fund the account via a signup bonus: referrer earns when the
	// referred user registers
	referrer := registerUser(t, auth, "earner", "")
	registerUser(t, auth, "downline1", referrer.ReferralCode)
	registerUser(t, auth, "downline2", referrer.ReferralCode)
	registerUser(t, auth, "downline3", referrer.ReferralCode)
	registerUser(t, auth, "downline4", referrer.ReferralCode)

	u, err := users.GetByID(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}

	cfg, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if u.Ledger.CurrentBalance < cfg.MinWithdrawalAmount {
		t.Skipf("balance %d below min withdrawal %d; adjust seed settings", u.Ledger.CurrentBalance, cfg.MinWithdrawalAmount)
	}

	details := domain.AccountDetails{PhoneNumber: "03001234567", AccountName: "Earner"}

	// below minimum is a validation error
	if _, err := withdrawals.Request(ctx, u.ID, cfg.MinWithdrawalAmount-1, "easypaisa", details); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("below-min request: got %v, want ErrValidation", err)
	}

	w, err := withdrawals.Request(ctx, u.ID, cfg.MinWithdrawalAmount, "easypaisa", details)
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// balance moved into pending
	mid, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get mid: %v", err)
	}
	if mid.Ledger.CurrentBalance != u.Ledger.CurrentBalance-cfg.MinWithdrawalAmount {
		t.Errorf("balance after request = %d, want %d", mid.Ledger.CurrentBalance, u.Ledger.CurrentBalance-cfg.MinWithdrawalAmount)
	}
	if mid.Ledger.PendingEarnings != cfg.MinWithdrawalAmount {
		t.Errorf("pending after request = %d, want %d", mid.Ledger.PendingEarnings, cfg.MinWithdrawalAmount)
	}

	// only one pending withdrawal at a time
	if _, err := withdrawals.Request(ctx, u.ID, cfg.MinWithdrawalAmount, "easypaisa", details); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("second pending request: got %v, want ErrConflict", err)
	}

	if _, err := withdrawals.Approve(ctx, w.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := withdrawals.Approve(ctx, w.ID); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("double approve: got %v, want ErrConflict", err)
	}

	final, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get final: %v", err)
	}
	if final.Ledger.PendingEarnings != 0 {
		t.Errorf("pending after approve = %d, want 0", final.Ledger.PendingEarnings)
	}
	if final.Ledger.TotalWithdrawals != cfg.MinWithdrawalAmount {
		t.Errorf("total withdrawals = %d, want %d", final.Ledger.TotalWithdrawals, cfg.MinWithdrawalAmount)
	}
}

func TestWithdrawalRejectRestoresBalance(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	withdrawals := service.NewWithdrawalService(pool, settings, nil)
	users := repository.NewUserRepository(pool)

	referrer := registerUser(t, auth, "earner2", "")
	registerUser(t, auth, "dl1", referrer.ReferralCode)
	registerUser(t, auth, "dl2", referrer.ReferralCode)
	registerUser(t, auth, "dl3", referrer.ReferralCode)
	registerUser(t, auth, "dl4", referrer.ReferralCode)

	u, err := users.GetByID(ctx, referrer.ID)
	if err != nil {
		t.Fatalf("get referrer: %v", err)
	}
	cfg, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("settings: %v", err)
	}
	if u.Ledger.CurrentBalance < cfg.MinWithdrawalAmount {
		t.Skipf("balance %d below min withdrawal %d", u.Ledger.CurrentBalance, cfg.MinWithdrawalAmount)
	}

	w, err := withdrawals.Request(ctx, u.ID, cfg.MinWithdrawalAmount, "jazzcash", domain.AccountDetails{PhoneNumber: "03007654321"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if _, err := withdrawals.Reject(ctx, w.ID, "account mismatch"); err != nil {
		t.Fatalf("reject: %v", err)
	}

	after, err := users.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get after: %v", err)
	}
	if after.Ledger.CurrentBalance != u.Ledger.CurrentBalance {
		t.Errorf("balance after reject = %d, want %d", after.Ledger.CurrentBalance, u.Ledger.CurrentBalance)
	}
	if after.Ledger.PendingEarnings != 0 {
		t.Errorf("pending after reject = %d, want 0", after.Ledger.PendingEarnings)
	}
}

// Two pending rows for the same user must be impossible at the schema
// level, even when concurrent requests both pass the HasPending check.
func TestSecondPendingWithdrawalHitsUniqueIndex(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	withdrawals := repository.NewWithdrawalRepository(pool)

	u := registerUser(t, auth, "racer", "")

	insertPending := func() error {
		tx, err := pool.Begin(ctx)
		if err != nil {
			t.Fatalf("begin: %v", err)
		}
		defer func() { _ = tx.Rollback(ctx) }()
		w := &domain.Withdrawal{
			UserID:        u.ID,
			Amount:        10000,
			PaymentMethod: "easypaisa",
			AccountDetails: domain.AccountDetails{
				AccountNumber: "03001234567",
				AccountName:   "racer",
			},
		}
		if err := withdrawals.CreateTx(ctx, tx, w); err != nil {
			return err
		}
		return tx.Commit(ctx)
	}

	if err := insertPending(); err != nil {
		t.Fatalf("first pending insert: %v", err)
	}
	err := insertPending()
	if err == nil {
		t.Fatal("second pending insert succeeded, want unique violation")
	}
	if !repository.IsUniqueViolation(err) {
		t.Fatalf("second pending insert: got %v, want unique violation", err)
	}
}

func TestReferralStatsAggregation(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)

	cfg, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}

	root := registerUser(t, auth, "statroot", "")
	registerUser(t, auth, "statchild", root.ReferralCode)

	stats, err := referrals.Stats(ctx, root.ID)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Code != root.ReferralCode {
		t.Errorf("stats code = %q, want %q", stats.Code, root.ReferralCode)
	}
	if stats.CountByLevel[1] != 1 {
		t.Errorf("level 1 count = %d, want 1", stats.CountByLevel[1])
	}
	if stats.EarnedL1 != cfg.ReferralSignupBonus {
		t.Errorf("level 1 earned = %d, want %d", stats.EarnedL1, cfg.ReferralSignupBonus)
	}
	if len(stats.Recent) != 1 {
		t.Errorf("recent referrals = %d, want 1", len(stats.Recent))
	}

	if _, err := referrals.Stats(ctx, -1); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("stats for unknown user: got %v, want ErrNotFound", err)
	}
}
