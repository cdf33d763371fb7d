package integration

import (
	"context"
	"errors"
	"testing"

	"earnhub/internal/domain"
	"earnhub/internal/repository"
	"earnhub/internal/service"
)

func TestBlogRevenueDeltaCredits(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	revenue := service.NewRevenueService(pool, settings)
	users := repository.NewUserRepository(pool)

	author := registerUser(t, auth, "author", "")

	blog, err := revenue.CreateBlog(ctx, author.ID, "How I earn online")
	if err != nil {
		t.Fatalf("create blog: %v", err)
	}

	// first update credits the full figure
	if _, err := revenue.UpdateBlogRevenue(ctx, blog.ID, 500); err != nil {
		t.Fatalf("first revenue update: %v", err)
	}
	// second update credits only the delta
	if _, err := revenue.UpdateBlogRevenue(ctx, blog.ID, 800); err != nil {
		t.Fatalf("second revenue update: %v", err)
	}

	u, err := users.GetByID(ctx, author.ID)
	if err != nil {
		t.Fatalf("get author: %v", err)
	}
	if u.Ledger.BlogEarnings != 800 {
		t.Errorf("blog earnings = %d, want 800", u.Ledger.BlogEarnings)
	}

	// re-reporting the same figure is a zero delta, not a new credit
	if _, err := revenue.UpdateBlogRevenue(ctx, blog.ID, 800); err != nil {
		t.Fatalf("same-figure update: %v", err)
	}
	u, err = users.GetByID(ctx, author.ID)
	if err != nil {
		t.Fatalf("get author again: %v", err)
	}
	if u.Ledger.BlogEarnings != 800 {
		t.Errorf("blog earnings after no-op update = %d, want 800", u.Ledger.BlogEarnings)
	}

	if _, err := revenue.UpdateBlogRevenue(ctx, blog.ID, -1); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("negative revenue: got %v, want ErrValidation", err)
	}
}

func TestOrderDeliveryCommission(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	revenue := service.NewRevenueService(pool, settings)
	users := repository.NewUserRepository(pool)
	orders := repository.NewOrderRepository(pool)

	vendor := registerUser(t, auth, "vendor", "")
	buyer := registerUser(t, auth, "buyer", "")

	order := &domain.Order{
		VendorID:         vendor.ID,
		BuyerID:          buyer.ID,
		Total:            5000,
		VendorCommission: 450,
		Paid:             true,
	}
	if err := orders.Create(ctx, order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	if _, err := revenue.MarkOrderDelivered(ctx, order.ID); err != nil {
		t.Fatalf("mark delivered: %v", err)
	}
	// delivering twice must not double-credit
	if _, err := revenue.MarkOrderDelivered(ctx, order.ID); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("second delivery: got %v, want ErrConflict", err)
	}

	v, err := users.GetByID(ctx, vendor.ID)
	if err != nil {
		t.Fatalf("get vendor: %v", err)
	}
	if v.Ledger.ShopEarnings != order.VendorCommission {
		t.Errorf("shop earnings = %d, want %d", v.Ledger.ShopEarnings, order.VendorCommission)
	}

	// unpaid orders cannot be delivered
	unpaid := &domain.Order{VendorID: vendor.ID, BuyerID: buyer.ID, Total: 1000, VendorCommission: 90}
	if err := orders.Create(ctx, unpaid); err != nil {
		t.Fatalf("create unpaid order: %v", err)
	}
	if _, err := revenue.MarkOrderDelivered(ctx, unpaid.ID); !errors.Is(err, service.ErrConflict) {
		t.Fatalf("unpaid delivery: got %v, want ErrConflict", err)
	}
}

func TestVideoWatchTimeEarnings(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()

	settings := repository.NewSettingsRepository(pool, nil)
	referrals := service.NewReferralService(pool, settings)
	auth := service.NewAuthService(pool, referrals)
	revenue := service.NewRevenueService(pool, settings)
	users := repository.NewUserRepository(pool)

	viewer := registerUser(t, auth, "viewer", "")

	cfg, err := settings.Get(ctx)
	if err != nil {
		t.Fatalf("get settings: %v", err)
	}

	before, err := users.GetByID(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("get viewer: %v", err)
	}

	const minutes = 7
	amount, err := revenue.RecordWatchTime(ctx, viewer.ID, minutes)
	if err != nil {
		t.Fatalf("record watch time: %v", err)
	}
	want := int64(minutes) * cfg.VideoRatePerMinute
	if amount != want {
		t.Errorf("credited amount = %d, want %d", amount, want)
	}

	after, err := users.GetByID(ctx, viewer.ID)
	if err != nil {
		t.Fatalf("get viewer again: %v", err)
	}
	if got := after.Ledger.TaskEarnings - before.Ledger.TaskEarnings; got != want {
		t.Errorf("task earnings delta = %d, want %d", got, want)
	}
	if got := after.Ledger.CurrentBalance - before.Ledger.CurrentBalance; got != want {
		t.Errorf("balance delta = %d, want %d", got, want)
	}

	if _, err := revenue.RecordWatchTime(ctx, viewer.ID, 0); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("zero minutes: got %v, want ErrValidation", err)
	}
	if _, err := revenue.RecordWatchTime(ctx, viewer.ID, -3); !errors.Is(err, service.ErrValidation) {
		t.Fatalf("negative minutes: got %v, want ErrValidation", err)
	}
}
