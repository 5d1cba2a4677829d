package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/interfaces"
	"github.com/yulclaims/claim_service/internal/repository"
	"gorm.io/gorm"
)

type FaqService interface {
	ListFaqs(search string) ([]domain.FaqItem, error)
	Chatbot(ctx context.Context, query string) (dto.ChatbotResponse, error)
	VoiceSearch(ctx context.Context, transcript string) (dto.ChatbotResponse, error)
	CreateFaq(input dto.FaqRequest) (*domain.FaqItem, error)
	UpdateFaq(id uint, input dto.FaqRequest) (*domain.FaqItem, error)
	DeleteFaq(id uint) error
}

type faqService struct {
	repo     repository.FaqRepository
	assessor interfaces.EligibilityAssessor
}

func NewFaqService(repo repository.FaqRepository, assessor interfaces.EligibilityAssessor) FaqService {
	return &faqService{repo: repo, assessor: assessor}
}

func (f *faqService) ListFaqs(search string) ([]domain.FaqItem, error) {
	search = strings.TrimSpace(search)
	if search == "" {
		return f.repo.ListActive()
	}
	return f.repo.Search(search)
}

func (f *faqService) Chatbot(ctx context.Context, query string) (dto.ChatbotResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return dto.ChatbotResponse{}, errors.New("query is required")
	}
	if f.assessor == nil {
		return dto.ChatbotResponse{}, errors.New("chatbot is not configured")
	}

	answer := f.assessor.Chat(ctx, query, "")
	return dto.ChatbotResponse{Message: answer.Message, IsHelpful: answer.IsHelpful}, nil
}

// VoiceSearch answers a spoken question from the FAQ store first and only
// falls back to the chatbot when nothing matches.
func (f *faqService) VoiceSearch(ctx context.Context, transcript string) (dto.ChatbotResponse, error) {
	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return dto.ChatbotResponse{}, errors.New("transcript is required")
	}

	matches, err := f.repo.Search(transcript)
	if err == nil && len(matches) > 0 {
		top := matches[0]
		return dto.ChatbotResponse{
			Message:   fmt.Sprintf("%s %s", top.Question, top.Answer),
			IsHelpful: true,
		}, nil
	}

	return f.Chatbot(ctx, transcript)
}

func (f *faqService) CreateFaq(input dto.FaqRequest) (*domain.FaqItem, error) {
	question := strings.TrimSpace(input.Question)
	answer := strings.TrimSpace(input.Answer)
	if question == "" || answer == "" {
		return nil, errors.New("question and answer are required")
	}

	return f.repo.CreateFaq(&domain.FaqItem{
		Question: question,
		Answer:   answer,
		Category: strings.TrimSpace(input.Category),
		Order:    input.Order,
		IsActive: true,
	})
}

func (f *faqService) UpdateFaq(id uint, input dto.FaqRequest) (*domain.FaqItem, error) {
	faq, err := f.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("faq not found")
		}
		return nil, err
	}

	if q := strings.TrimSpace(input.Question); q != "" {
		faq.Question = q
	}
	if a := strings.TrimSpace(input.Answer); a != "" {
		faq.Answer = a
	}
	if c := strings.TrimSpace(input.Category); c != "" {
		faq.Category = c
	}
	if input.Order != 0 {
		faq.Order = input.Order
	}

	if err := f.repo.SaveFaq(faq); err != nil {
		return nil, err
	}
	return faq, nil
}

func (f *faqService) DeleteFaq(id uint) error {
	if _, err := f.repo.FindByID(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return errors.New("faq not found")
		}
		return err
	}
	return f.repo.Deactivate(id)
}
