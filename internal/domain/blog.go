package domain

import "time"

const (
	BlogPending   = "pending"
	BlogPublished = "published"
)

// Blog is kept minimal: only the fields the ad-revenue crediting flow
// touches. Content management lives outside this service.
type Blog struct {
	ID            int64     `db:"id" json:"id"`
	AuthorID      int64     `db:"author_id" json:"author_id"`
	Title         string    `db:"title" json:"title"`
	Status        string    `db:"status" json:"status"`
	AdRevenue     int64     `db:"ad_revenue" json:"ad_revenue"`
	TotalEarnings int64     `db:"total_earnings" json:"total_earnings"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
