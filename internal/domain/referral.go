package domain

import "time"

// Referral is one row of the upline projection: the referred user appears
// once per ancestor, tagged with the ancestor's depth above them (1 =
// direct referrer). The authoritative topology is the ReferredBy parent
// pointer on User; this table is the queryable projection of it.
type Referral struct {
	ID         int64     `db:"id" json:"id"`
	AncestorID int64     `db:"ancestor_id" json:"ancestor_id"`
	ReferredID int64     `db:"referred_id" json:"referred_id"`
	Level      int       `db:"level" json:"level"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
