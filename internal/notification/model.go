package notification

import "gorm.io/gorm"

// Webhook is a registered delivery endpoint. Event is either an exact
// event name ("transaction.updated") or "*" for everything.
type Webhook struct {
	gorm.Model
	URL    string `gorm:"not null" json:"url"`
	Event  string `gorm:"size:100;not null;default:'*'" json:"event"`
	Active bool   `gorm:"not null;default:true" json:"active"`
}

// Migrate creates the webhooks table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Webhook{})
}
