package revenueshare

import (
	"time"

	"gorm.io/gorm"
)

// Repository encapsulates data access for revenue shares.
type Repository struct {
	DB *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{DB: db}
}

// WithDB returns a copy of the repo bound to a specific *gorm.DB (e.g. a tx).
func (r *Repository) WithDB(db *gorm.DB) *Repository {
	if db == nil {
		db = r.DB
	}
	return &Repository{DB: db}
}

// Create inserts a single revenue share row.
func (r *Repository) Create(rs *RevenueShare) error {
	return r.DB.Create(rs).Error
}

// ListByTransaction returns every share generated by one transaction,
// ordered by tier.
func (r *Repository) ListByTransaction(transactionID uint) ([]RevenueShare, error) {
	var list []RevenueShare
	err := r.DB.Where("transaction_id = ?", transactionID).Order("tier").Find(&list).Error
	return list, err
}

// ListByRecipient returns every share received by an agent, optionally
// bounded to payouts created inside [since, until).
func (r *Repository) ListByRecipient(recipientID uint, since, until *time.Time) ([]RevenueShare, error) {
	var list []RevenueShare
	q := r.DB.Where("recipient_agent_id = ?", recipientID)
	if since != nil {
		q = q.Where("created_at >= ?", *since)
	}
	if until != nil {
		q = q.Where("created_at < ?", *until)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

// DeleteByTransaction removes every share owned by a transaction.
func (r *Repository) DeleteByTransaction(transactionID uint) error {
	return r.DB.Where("transaction_id = ?", transactionID).Delete(&RevenueShare{}).Error
}

// SumForPair is the annual payout ledger: how much recipient has already
// been paid out of source's transactions since the given instant. Always a
// read of persisted rows, so it cannot drift from the table itself.
func (r *Repository) SumForPair(recipientID, sourceID uint, since time.Time) (float64, error) {
	var total float64
	err := r.DB.
		Model(&RevenueShare{}).
		Where("recipient_agent_id = ? AND source_agent_id = ? AND created_at >= ?", recipientID, sourceID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// TotalReceived sums every payout an agent has ever received.
func (r *Repository) TotalReceived(recipientID uint) (float64, error) {
	var total float64
	err := r.DB.
		Model(&RevenueShare{}).
		Where("recipient_agent_id = ?", recipientID).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}

// TotalReceivedSince sums payouts received at or after since.
func (r *Repository) TotalReceivedSince(recipientID uint, since time.Time) (float64, error) {
	var total float64
	err := r.DB.
		Model(&RevenueShare{}).
		Where("recipient_agent_id = ? AND created_at >= ?", recipientID, since).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return total, err
}
