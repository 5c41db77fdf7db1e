package agent

import (
	"gorm.io/gorm"
)

type Repository interface {
	Save(db *gorm.DB, a *Agent) error
	FindByID(db *gorm.DB, id uint) (*Agent, error)
	FindByEmail(db *gorm.DB, email string) (*Agent, error)
	ListAll(db *gorm.DB) ([]Agent, error)
	Update(db *gorm.DB, a *Agent) error
	Delete(db *gorm.DB, id uint) error

	SponsorOf(db *gorm.DB, agentID uint) (*uint, error)
	ChildrenOf(db *gorm.DB, sponsorID uint) ([]uint, error)
	HasDependents(db *gorm.DB, id uint) (bool, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Save(db *gorm.DB, a *Agent) error {
	return db.Create(a).Error
}

func (r *repositoryImpl) FindByID(db *gorm.DB, id uint) (*Agent, error) {
	var a Agent
	err := db.First(&a, id).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) FindByEmail(db *gorm.DB, email string) (*Agent, error) {
	var a Agent
	if err := db.Where("email = ?", email).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repositoryImpl) ListAll(db *gorm.DB) ([]Agent, error) {
	var agents []Agent
	err := db.Preload("Downline").Find(&agents).Error
	return agents, err
}

func (r *repositoryImpl) Update(db *gorm.DB, a *Agent) error {
	return db.Save(a).Error
}

func (r *repositoryImpl) Delete(db *gorm.DB, id uint) error {
	return db.Delete(&Agent{}, id).Error
}

// SponsorOf reads only the parent pointer; nil means root agent.
func (r *repositoryImpl) SponsorOf(db *gorm.DB, agentID uint) (*uint, error) {
	var a Agent
	if err := db.Select("id", "sponsor_id").First(&a, agentID).Error; err != nil {
		return nil, err
	}
	return a.SponsorID, nil
}

func (r *repositoryImpl) ChildrenOf(db *gorm.DB, sponsorID uint) ([]uint, error) {
	var ids []uint
	err := db.Model(&Agent{}).Where("sponsor_id = ?", sponsorID).Pluck("id", &ids).Error
	return ids, err
}

// HasDependents reports whether the agent still owns downline, transactions
// or revenue shares. Deletion stays blocked while any exist.
func (r *repositoryImpl) HasDependents(db *gorm.DB, id uint) (bool, error) {
	var count int64
	if err := db.Model(&Agent{}).Where("sponsor_id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Table("transactions").Where("agent_id = ? AND deleted_at IS NULL", id).Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}
	if err := db.Table("revenue_shares").
		Where("recipient_agent_id = ? OR source_agent_id = ?", id, id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
