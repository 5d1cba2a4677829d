package repository

import (
	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type ConsentRepository interface {
	CreateConsent(consent *domain.UserConsent) error
	ListByUserID(userID uint) ([]domain.UserConsent, error)
}

type consentRepository struct {
	db *gorm.DB
}

func NewConsentRepository(db *gorm.DB) ConsentRepository {
	return &consentRepository{db: db}
}

func (c consentRepository) CreateConsent(consent *domain.UserConsent) error {
	return c.db.Create(consent).Error
}

func (c consentRepository) ListByUserID(userID uint) ([]domain.UserConsent, error) {
	var consents []domain.UserConsent
	if err := c.db.Where("user_id = ?", userID).Find(&consents).Error; err != nil {
		return nil, err
	}
	return consents, nil
}
