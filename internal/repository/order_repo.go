package repository

import (
	"context"

	"earnhub/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, o *domain.Order) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO orders (vendor_id, buyer_id, total, vendor_commission, paid)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id, status, created_at`,
		o.VendorID, o.BuyerID, o.Total, o.VendorCommission, o.Paid,
	).Scan(&o.ID, &o.Status, &o.CreatedAt)
}

func (r *OrderRepository) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, vendor_id, buyer_id, total, vendor_commission, paid, status, created_at
		 FROM orders WHERE id = $1`, id)

	var o domain.Order
	if err := row.Scan(&o.ID, &o.VendorID, &o.BuyerID, &o.Total, &o.VendorCommission,
		&o.Paid, &o.Status, &o.CreatedAt); err != nil {
		return nil, err
	}
	return &o, nil
}

// MarkDeliveredTx flips a paid, undelivered order to delivered. Returns
// false when the order was already delivered or not paid, so the vendor
// commission is credited at most once.
func (r *OrderRepository) MarkDeliveredTx(ctx context.Context, tx pgx.Tx, id int64) (bool, error) {
	tag, err := tx.Exec(ctx,
		`UPDATE orders SET status = 'delivered'
		 WHERE id = $1 AND paid AND status <> 'delivered'`, id)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
