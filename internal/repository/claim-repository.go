package repository

import (
	"errors"
	"log"

	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type ClaimRepository interface {
	CreateClaim(claim *domain.Claim) (*domain.Claim, error)
	FindByClaimID(claimID string) (*domain.Claim, error)
	FindByEnvelopeID(envelopeID string) (*domain.Claim, error)
	FindByEmail(email string) ([]domain.Claim, error)
	ListAll() ([]domain.Claim, error)
	SaveClaim(claim *domain.Claim) error
}

type claimRepository struct {
	db *gorm.DB
}

func NewClaimRepository(db *gorm.DB) ClaimRepository {
	return &claimRepository{db: db}
}

func (r *claimRepository) CreateClaim(claim *domain.Claim) (*domain.Claim, error) {
	if claim == nil {
		return nil, errors.New("nil claim")
	}

	if err := r.db.Create(claim).Error; err != nil {
		log.Printf("create claim error: %v", err)
		return nil, errors.New("failed to create claim")
	}

	return claim, nil
}

func (r *claimRepository) FindByClaimID(claimID string) (*domain.Claim, error) {
	claim := &domain.Claim{}

	if err := r.db.First(claim, "claim_id = ?", claimID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find claim by claim_id error: %v", err)
		return nil, errors.New("failed to find claim")
	}

	return claim, nil
}

func (r *claimRepository) FindByEnvelopeID(envelopeID string) (*domain.Claim, error) {
	claim := &domain.Claim{}

	if err := r.db.First(claim, "poa_envelope_id = ?", envelopeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find claim by envelope id error: %v", err)
		return nil, errors.New("failed to find claim")
	}

	return claim, nil
}

func (r *claimRepository) FindByEmail(email string) ([]domain.Claim, error) {
	var claims []domain.Claim

	if err := r.db.Where("email = ?", email).Order("created_at DESC").Find(&claims).Error; err != nil {
		log.Printf("find claims by email error: %v", err)
		return nil, errors.New("failed to find claims by email")
	}

	return claims, nil
}

func (r *claimRepository) ListAll() ([]domain.Claim, error) {
	var claims []domain.Claim

	if err := r.db.Order("created_at DESC").Find(&claims).Error; err != nil {
		log.Printf("list claims error: %v", err)
		return nil, errors.New("failed to list claims")
	}

	return claims, nil
}

func (r *claimRepository) SaveClaim(claim *domain.Claim) error {
	if claim == nil {
		return errors.New("nil claim")
	}

	if err := r.db.Save(claim).Error; err != nil {
		log.Printf("save claim error: %v", err)
		return errors.New("failed to save claim")
	}
	return nil
}
