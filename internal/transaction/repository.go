package transaction

import "gorm.io/gorm"

type Repository interface {
	Save(db *gorm.DB, t *Transaction) error
	FindByID(db *gorm.DB, id uint) (*Transaction, error)
	ListAll(db *gorm.DB) ([]Transaction, error)
	ListByAgent(db *gorm.DB, agentID uint) ([]Transaction, error)
	Update(db *gorm.DB, t *Transaction) error
	Delete(db *gorm.DB, id uint) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, t *Transaction) error {
	return db.Create(t).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Transaction, error) {
	var t Transaction
	err := db.Preload("Notes").First(&t, id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Transaction, error) {
	var list []Transaction
	err := db.Order("transaction_date DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListByAgent(db *gorm.DB, agentID uint) ([]Transaction, error) {
	var list []Transaction
	err := db.Where("agent_id = ?", agentID).Order("transaction_date DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Update(db *gorm.DB, t *Transaction) error {
	return db.Save(t).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Transaction{}, id).Error
}
