package service

import (
	"context"
	"errors"
	"fmt"

	"earnhub/internal/domain"
	"earnhub/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RevenueService covers the two non-task credit flows: blog ad revenue
// for authors and vendor commissions on delivered shop orders. Both
// follow the same shape as task approval: one transaction holding the
// state flip, the ledger credit and the earning record.
type RevenueService struct {
	db       *pgxpool.Pool
	blogs    *repository.BlogRepository
	orders   *repository.OrderRepository
	ledger   *repository.LedgerRepository
	earnings *repository.EarningRepository
	settings *repository.SettingsRepository
}

func NewRevenueService(db *pgxpool.Pool, settings *repository.SettingsRepository) *RevenueService {
	return &RevenueService{
		db:       db,
		blogs:    repository.NewBlogRepository(db),
		orders:   repository.NewOrderRepository(db),
		ledger:   repository.NewLedgerRepository(db),
		earnings: repository.NewEarningRepository(db),
		settings: settings,
	}
}

// RecordWatchTime credits a member for minutes of video watched at the
// configured per-minute rate. The credit and its earning record commit
// together, same as every other ledger write.
func (s *RevenueService) RecordWatchTime(ctx context.Context, userID, minutes int64) (int64, error) {
	if minutes <= 0 {
		return 0, fmt.Errorf("%w: minutes must be positive", ErrValidation)
	}

	settings, err := s.settings.Get(ctx)
	if err != nil {
		return 0, err
	}
	amount := minutes * settings.VideoRatePerMinute
	if amount == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := s.ledger.CreditTaskTx(ctx, tx, userID, amount); err != nil {
		return 0, err
	}

	earning := &domain.Earning{
		UserID:      userID,
		Type:        domain.EarningTask,
		Amount:      amount,
		Status:      "approved",
		Description: fmt.Sprintf("Video watch time earnings for %d minutes", minutes),
	}
	if err := s.earnings.CreateTx(ctx, tx, earning); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	EarningsCredited.WithLabelValues(string(domain.EarningTask)).Inc()
	return amount, nil
}

// CreateBlog opens a revenue-tracked blog owned by the author. New blogs
// start in review and earn nothing until published.
func (s *RevenueService) CreateBlog(ctx context.Context, authorID int64, title string) (*domain.Blog, error) {
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrValidation)
	}
	blog := &domain.Blog{
		AuthorID: authorID,
		Title:    title,
		Status:   domain.BlogPending,
	}
	if err := s.blogs.Create(ctx, blog); err != nil {
		return nil, err
	}
	return blog, nil
}

// UpdateBlogRevenue sets the blog's cumulative ad revenue figure and
// credits the author the delta since the last update.
func (s *RevenueService) UpdateBlogRevenue(ctx context.Context, blogID, adRevenue int64) (*domain.Blog, error) {
	if adRevenue < 0 {
		return nil, fmt.Errorf("%w: invalid ad revenue amount", ErrValidation)
	}

	blog, err := s.blogs.GetByID(ctx, blogID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: blog not found", ErrNotFound)
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	delta, err := s.blogs.SetAdRevenueTx(ctx, tx, blogID, adRevenue)
	if err != nil {
		return nil, err
	}

	if delta != 0 {
		if err := s.ledger.CreditBlogTx(ctx, tx, blog.AuthorID, delta); err != nil {
			return nil, err
		}

		earning := &domain.Earning{
			UserID:      blog.AuthorID,
			Type:        domain.EarningBlog,
			Amount:      delta,
			Status:      "approved",
			Description: "Blog ad revenue: " + blog.Title,
			ReferenceID: &blog.ID,
			BlogID:      &blog.ID,
		}
		if err := s.earnings.CreateTx(ctx, tx, earning); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if delta != 0 {
		EarningsCredited.WithLabelValues(string(domain.EarningBlog)).Inc()
	}

	blog.AdRevenue = adRevenue
	blog.TotalEarnings += delta
	return blog, nil
}

// MarkOrderDelivered flips a paid order to delivered and credits the
// vendor their commission exactly once.
func (s *RevenueService) MarkOrderDelivered(ctx context.Context, orderID int64) (*domain.Order, error) {
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: order not found", ErrNotFound)
		}
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	ok, err := s.orders.MarkDeliveredTx(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: order not paid or already delivered", ErrConflict)
	}

	if order.VendorCommission > 0 {
		if err := s.ledger.CreditShopTx(ctx, tx, order.VendorID, order.VendorCommission); err != nil {
			return nil, err
		}

		earning := &domain.Earning{
			UserID:      order.VendorID,
			Type:        domain.EarningShop,
			Amount:      order.VendorCommission,
			Status:      "approved",
			Description: fmt.Sprintf("Vendor commission from order #%d", order.ID),
			ReferenceID: &order.ID,
			OrderID:     &order.ID,
		}
		if err := s.earnings.CreateTx(ctx, tx, earning); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	if order.VendorCommission > 0 {
		EarningsCredited.WithLabelValues(string(domain.EarningShop)).Inc()
	}

	order.Status = domain.OrderDelivered
	return order, nil
}
