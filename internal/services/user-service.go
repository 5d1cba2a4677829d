package services

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/helper"
	"github.com/yulclaims/claim_service/internal/interfaces"
	"github.com/yulclaims/claim_service/internal/repository"
	"golang.org/x/crypto/bcrypt"
)

type UserService interface {
	Register(input dto.RegisterRequest, meta dto.RequestMeta) error
	Login(input dto.LoginRequest) (*domain.User, string, error)
	Authenticate(c *fiber.Ctx) (*domain.User, error)
	GetProfile(userID uint) (*domain.User, error)
	SetRole(adminID, userID uint, role string) error
	ListUsers(limit, offset int) ([]domain.User, error)
}

type userService struct {
	repo        repository.UserRepository
	consentRepo repository.ConsentRepository
	auditRepo   repository.AuditRepository
	consents    interfaces.ConsentStore
	auth        helper.Auth
}

func NewUserService(
	repo repository.UserRepository,
	consentRepo repository.ConsentRepository,
	auditRepo repository.AuditRepository,
	consents interfaces.ConsentStore,
	auth helper.Auth,
) UserService {
	return &userService{
		repo:        repo,
		consentRepo: consentRepo,
		auditRepo:   auditRepo,
		consents:    consents,
		auth:        auth,
	}
}

func (u *userService) Register(input dto.RegisterRequest, meta dto.RequestMeta) error {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)

	if email == "" || strings.TrimSpace(input.Password) == "" || firstName == "" || lastName == "" {
		return errors.New("invalid inputs")
	}
	if !strings.Contains(email, "@") {
		return errors.New("invalid email")
	}
	if len(input.Password) < 6 {
		return errors.New("password must be at least 6 characters")
	}

	if !input.TermsAccepted || !input.PrivacyAccepted || !input.DataRetentionAccepted {
		return errors.New("terms, privacy and data retention consents are required")
	}

	existing, err := u.repo.FindUserByEmail(email)
	if err == nil && existing != nil && existing.ID != 0 {
		return errors.New("email already exists")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return errors.New("failed to hash password")
	}

	newUser := &domain.User{
		Email:                 email,
		PasswordHash:          string(hashedPassword),
		DisplayName:           firstName + " " + lastName,
		Role:                  domain.RoleUser,
		Status:                "active",
		TermsAccepted:         input.TermsAccepted,
		PrivacyAccepted:       input.PrivacyAccepted,
		DataRetentionAccepted: input.DataRetentionAccepted,
		MarketingAccepted:     input.MarketingAccepted,
	}

	usr, err := u.repo.CreateUser(newUser)
	if err != nil {
		return err
	}
	if usr == nil || usr.ID == 0 {
		return errors.New("failed to create user")
	}

	accepted := []string{domain.ConsentTerms, domain.ConsentPrivacy, domain.ConsentDataRetention}
	if input.MarketingAccepted {
		accepted = append(accepted, domain.ConsentMarketing)
	}

	now := time.Now()
	for _, consentType := range accepted {
		row := &domain.UserConsent{
			UserID:      usr.ID,
			ConsentType: consentType,
			Accepted:    true,
			AcceptedAt:  &now,
		}
		if err := u.consentRepo.CreateConsent(row); err != nil {
			if helper.IsDuplicateConsent(err) {
				continue
			}
			return err
		}

		_, err := u.consents.Record(domain.ConsentRecord{
			ConsentType:     consentType,
			UserEmail:       email,
			UserName:        usr.DisplayName,
			Timestamp:       now.UTC().Format(time.RFC3339),
			IPAddress:       meta.IPAddress,
			UserAgent:       meta.UserAgent,
			DocumentVersion: "1.0",
			Agreed:          true,
		})
		if err != nil {
			// A lost marketing record is tolerable; a lost mandatory
			// record is not, the registration must not stand without it.
			if domain.IsMandatoryConsent(consentType) {
				return errors.New("failed to record consent")
			}
			log.Printf("marketing consent record error for %s: %v", email, err)
		}
	}

	return nil
}

func (u *userService) Login(input dto.LoginRequest) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	password := strings.TrimSpace(input.Password)

	if email == "" || password == "" {
		return nil, "", errors.New("invalid email or password")
	}

	user, err := u.repo.FindUserByEmail(email)
	if err != nil || user == nil || user.ID == 0 {
		return nil, "", errors.New("invalid email or password")
	}

	if user.Status != "" && user.Status != "active" {
		return nil, "", errors.New("account is not active")
	}

	if err := u.auth.VerifyPassword(password, user.PasswordHash); err != nil {
		return nil, "", errors.New("invalid email or password")
	}

	token, err := u.auth.GenerateToken(int(user.ID), user.Email, user.Role)
	if err != nil {
		return nil, "", err
	}

	return user, token, nil
}

func (u *userService) Authenticate(c *fiber.Ctx) (*domain.User, error) {
	v := c.Locals("userID")
	userID, ok := v.(uint)
	if !ok || userID == 0 {
		return nil, errors.New("unauthorized")
	}
	user, err := u.repo.FindUserById(userID)
	if err != nil || user == nil {
		return nil, errors.New("user not found")
	}
	return user, nil
}

func (u *userService) GetProfile(userID uint) (*domain.User, error) {
	return u.repo.FindUserById(userID)
}

func (u *userService) SetRole(adminID, userID uint, role string) error {
	role = strings.TrimSpace(strings.ToLower(role))
	if !domain.IsValidRole(role) {
		return errors.New("invalid role")
	}
	if adminID == userID {
		return errors.New("cannot change own role")
	}

	user, err := u.repo.FindUserById(userID)
	if err != nil || user == nil {
		return errors.New("user not found")
	}

	previous := user.Role
	user.Role = role
	if err := u.repo.SaveUser(user); err != nil {
		return err
	}

	note := "role changed from " + previous + " to " + role
	entry := &domain.AuditLog{
		ActorID:  adminID,
		Action:   "user.role_changed",
		Entity:   "user",
		EntityID: user.Email,
		Note:     &note,
	}
	if err := u.auditRepo.CreateEntry(entry); err != nil {
		log.Printf("audit write error for user %d: %v", userID, err)
	}

	return nil
}

func (u *userService) ListUsers(limit, offset int) ([]domain.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return u.repo.ListUsers(limit, offset)
}
