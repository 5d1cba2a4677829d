package repository

import (
	"errors"
	"log"

	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type FaqRepository interface {
	ListActive() ([]domain.FaqItem, error)
	Search(query string) ([]domain.FaqItem, error)
	CreateFaq(faq *domain.FaqItem) (*domain.FaqItem, error)
	SaveFaq(faq *domain.FaqItem) error
	FindByID(id uint) (*domain.FaqItem, error)
	Deactivate(id uint) error
}

type faqRepository struct {
	db *gorm.DB
}

func NewFaqRepository(db *gorm.DB) FaqRepository {
	return &faqRepository{db: db}
}

func (r *faqRepository) ListActive() ([]domain.FaqItem, error) {
	var faqs []domain.FaqItem

	if err := r.db.Where("is_active = ?", true).Order("display_order").Find(&faqs).Error; err != nil {
		log.Printf("list faqs error: %v", err)
		return nil, errors.New("failed to list faqs")
	}

	return faqs, nil
}

func (r *faqRepository) Search(query string) ([]domain.FaqItem, error) {
	var faqs []domain.FaqItem

	pattern := "%" + query + "%"
	err := r.db.
		Where("is_active = ?", true).
		Where("question ILIKE ? OR answer ILIKE ?", pattern, pattern).
		Order("display_order").
		Find(&faqs).Error
	if err != nil {
		log.Printf("search faqs error: %v", err)
		return nil, errors.New("failed to search faqs")
	}

	return faqs, nil
}

func (r *faqRepository) CreateFaq(faq *domain.FaqItem) (*domain.FaqItem, error) {
	if faq == nil {
		return nil, errors.New("nil faq")
	}

	if err := r.db.Create(faq).Error; err != nil {
		log.Printf("create faq error: %v", err)
		return nil, errors.New("failed to create faq")
	}

	return faq, nil
}

func (r *faqRepository) SaveFaq(faq *domain.FaqItem) error {
	if faq == nil {
		return errors.New("nil faq")
	}

	if err := r.db.Save(faq).Error; err != nil {
		log.Printf("save faq error: %v", err)
		return errors.New("failed to save faq")
	}
	return nil
}

func (r *faqRepository) FindByID(id uint) (*domain.FaqItem, error) {
	faq := &domain.FaqItem{}

	if err := r.db.First(faq, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		log.Printf("find faq error: %v", err)
		return nil, errors.New("failed to find faq")
	}

	return faq, nil
}

// Deactivate soft-deletes by flipping is_active; FAQ rows are content and
// never physically removed.
func (r *faqRepository) Deactivate(id uint) error {
	if err := r.db.Model(&domain.FaqItem{}).Where("id = ?", id).Update("is_active", false).Error; err != nil {
		log.Printf("deactivate faq error: %v", err)
		return errors.New("failed to deactivate faq")
	}
	return nil
}
