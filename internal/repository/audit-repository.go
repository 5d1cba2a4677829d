package repository

import (
	"errors"
	"log"

	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type AuditRepository interface {
	CreateEntry(entry *domain.AuditLog) error
	ListByEntity(entity, entityID string) ([]domain.AuditLog, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) CreateEntry(entry *domain.AuditLog) error {
	if entry == nil {
		return errors.New("nil audit entry")
	}

	if err := r.db.Create(entry).Error; err != nil {
		log.Printf("create audit entry error: %v", err)
		return errors.New("failed to create audit entry")
	}
	return nil
}

func (r *auditRepository) ListByEntity(entity, entityID string) ([]domain.AuditLog, error) {
	var entries []domain.AuditLog

	if err := r.db.Where("entity = ? AND entity_id = ?", entity, entityID).Order("created_at").Find(&entries).Error; err != nil {
		log.Printf("list audit entries error: %v", err)
		return nil, errors.New("failed to list audit entries")
	}

	return entries, nil
}
