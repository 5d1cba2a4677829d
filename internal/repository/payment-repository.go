package repository

import (
	"errors"
	"log"

	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type PaymentRepository interface {
	CreatePayment(payment *domain.Payment) (*domain.Payment, error)
	ListByClaimID(claimID string) ([]domain.Payment, error)
}

type paymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{db: db}
}

func (r *paymentRepository) CreatePayment(payment *domain.Payment) (*domain.Payment, error) {
	if payment == nil {
		return nil, errors.New("nil payment")
	}

	if err := r.db.Create(payment).Error; err != nil {
		log.Printf("create payment error: %v", err)
		return nil, errors.New("failed to create payment")
	}

	return payment, nil
}

func (r *paymentRepository) ListByClaimID(claimID string) ([]domain.Payment, error) {
	var payments []domain.Payment

	if err := r.db.Where("claim_id = ?", claimID).Order("created_at DESC").Find(&payments).Error; err != nil {
		log.Printf("list payments error: %v", err)
		return nil, errors.New("failed to list payments")
	}

	return payments, nil
}
