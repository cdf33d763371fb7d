package domain

import "time"

type OrderStatus string

const (
	OrderPlaced    OrderStatus = "placed"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
)

// Order is the slice of a shop order this service cares about: who the
// vendor is and what commission they are owed once the order is
// delivered and paid.
type Order struct {
	ID               int64       `db:"id" json:"id"`
	VendorID         int64       `db:"vendor_id" json:"vendor_id"`
	BuyerID          int64       `db:"buyer_id" json:"buyer_id"`
	Total            int64       `db:"total" json:"total"`
	VendorCommission int64       `db:"vendor_commission" json:"vendor_commission"`
	Paid             bool        `db:"paid" json:"paid"`
	Status           OrderStatus `db:"status" json:"status"`
	CreatedAt        time.Time   `db:"created_at" json:"created_at"`
}
