package note

import "gorm.io/gorm"

// Note is a free-text annotation on a transaction.
type Note struct {
	gorm.Model
	Body          string `json:"body"`
	TransactionID uint   `json:"transactionId"`
	AuthorID      uint   `json:"authorId"`
}

// Migrate creates the notes table.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&Note{})
}
