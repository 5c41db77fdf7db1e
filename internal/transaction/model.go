package transaction

import (
	"time"

	"github.com/CrestwoodRealty/api-brokerage/internal/note"
	"gorm.io/gorm"
)

// Transaction is a closed deal entered by an agent. CompanyGCI is the
// slice of commission retained by the company and is the only field whose
// change triggers revenue share recomputation.
type Transaction struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	AgentID              uint      `gorm:"not null;index" json:"agentId"`
	PropertyAddress      string    `gorm:"not null" json:"propertyAddress"`
	SaleAmount           float64   `gorm:"not null;default:0" json:"saleAmount"`
	CommissionPercentage float64   `gorm:"not null;default:0" json:"commissionPercentage"`
	CompanyGCI           float64   `gorm:"not null;default:0" json:"companyGci"`
	TransactionDate      time.Time `json:"transactionDate"`
	Status               string    `gorm:"size:50;not null;default:'Pending'" json:"status"`

	Notes []note.Note `gorm:"foreignKey:TransactionID" json:"notes,omitempty"`
}

// Migrate creates the transactions table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Transaction{})
}
