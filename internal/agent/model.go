package agent

import (
	"time"

	"gorm.io/gorm"
)

// AgentType distinguishes full-status principals from support staff.
type AgentType string

const (
	TypePrincipal AgentType = "principal"
	TypeSupport   AgentType = "support"
)

// CapType is the annual revenue share plan of a principal agent.
type CapType string

const (
	CapStandard CapType = "standard"
	CapTeam     CapType = "team"
)

// Agent is a participant in the brokerage's recruiting hierarchy.
// SponsorID points at the direct upline; roots have none.
type Agent struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deletedAt,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `gorm:"unique" json:"email"`
	Phone     string `json:"phone"`

	AgentType AgentType `gorm:"size:20;not null;default:'principal';index" json:"agentType"`
	// Only meaningful for principals; null for support agents.
	CapType   *CapType `gorm:"size:20" json:"capType,omitempty"`
	SponsorID *uint    `gorm:"index" json:"sponsorId,omitempty"`

	PasswordHash       string `json:"-"`
	NeedsPasswordReset bool   `json:"-"`
	IsAdmin            bool   `json:"isAdmin"`

	Downline []Agent `gorm:"foreignKey:SponsorID" json:"downline,omitempty"`
}

// Migrate creates the agents table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Agent{})
}
