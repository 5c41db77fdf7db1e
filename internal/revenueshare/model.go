package revenueshare

import (
	"time"

	"gorm.io/gorm"
)

// RevenueShare is one tiered payout from a transaction's company GCI to an
// upline sponsor. CreatedAt buckets the payout into a calendar year for
// annual cap accounting. Rows are deleted and regenerated wholesale when
// the owning transaction's GCI changes, never patched, so a transaction
// carries at most one row per recipient.
type RevenueShare struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	TransactionID    uint      `gorm:"not null;index" json:"transactionId"`
	SourceAgentID    uint      `gorm:"not null;index" json:"sourceAgentId"`
	RecipientAgentID uint      `gorm:"not null;index" json:"recipientAgentId"`
	Tier             int       `gorm:"not null" json:"tier"`
	Amount           float64   `gorm:"not null;default:0" json:"amount"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// Migrate creates the revenue_shares table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&RevenueShare{})
}
