package note

import "gorm.io/gorm"

type Repository interface {
	Create(db *gorm.DB, n *Note) error
	ListByTransaction(db *gorm.DB, transactionID uint) ([]Note, error)
	FindByID(db *gorm.DB, id uint) (*Note, error)
	UpdateBody(db *gorm.DB, id uint, body string) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Create(db *gorm.DB, n *Note) error {
	return db.Create(n).Error
}

func (r *repositoryImpl) ListByTransaction(db *gorm.DB, transactionID uint) ([]Note, error) {
	var notes []Note
	err := db.Where("transaction_id = ?", transactionID).Find(&notes).Error
	return notes, err
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Note, error) {
	var n Note
	err := db.First(&n, id).Error
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *repositoryImpl) UpdateBody(db *gorm.DB, id uint, body string) error {
	return db.Model(&Note{}).Where("id = ?", id).Update("body", body).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Note{}, id).Error
}
