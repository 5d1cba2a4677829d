package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yulclaims/claim_service/internal/clients/airtable"
	"github.com/yulclaims/claim_service/internal/clients/docusign"
	"github.com/yulclaims/claim_service/internal/clients/mail"
	"github.com/yulclaims/claim_service/internal/clients/openai"
	"github.com/yulclaims/claim_service/internal/consent"
	"github.com/yulclaims/claim_service/internal/domain"
	"gorm.io/gorm"
)

type fakeClaimRepo struct {
	mu     sync.Mutex
	nextID uint
	claims map[string]*domain.Claim

	createErr error
	saveErr   error
}

func newFakeClaimRepo() *fakeClaimRepo {
	return &fakeClaimRepo{claims: map[string]*domain.Claim{}}
}

func (r *fakeClaimRepo) CreateClaim(claim *domain.Claim) (*domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.nextID++
	claim.ID = r.nextID
	c := *claim
	r.claims[claim.ClaimID] = &c
	return claim, nil
}

func (r *fakeClaimRepo) FindByClaimID(claimID string) (*domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.claims[claimID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *fakeClaimRepo) FindByEnvelopeID(envelopeID string) (*domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.claims {
		if c.POAEnvelopeID == envelopeID {
			cp := *c
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeClaimRepo) FindByEmail(email string) ([]domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Claim
	for _, c := range r.claims {
		if c.Email == email {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (r *fakeClaimRepo) ListAll() ([]domain.Claim, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.Claim
	for _, c := range r.claims {
		out = append(out, *c)
	}
	return out, nil
}

func (r *fakeClaimRepo) SaveClaim(claim *domain.Claim) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	c := *claim
	r.claims[claim.ClaimID] = &c
	return nil
}

type fakePaymentRepo struct {
	payments []domain.Payment
	err      error
}

func (r *fakePaymentRepo) CreatePayment(p *domain.Payment) (*domain.Payment, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.payments = append(r.payments, *p)
	return p, nil
}

func (r *fakePaymentRepo) ListByClaimID(claimID string) ([]domain.Payment, error) {
	var out []domain.Payment
	for _, p := range r.payments {
		if p.ClaimID == claimID {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeAuditRepo struct {
	entries []domain.AuditLog
	err     error
}

func (r *fakeAuditRepo) CreateEntry(e *domain.AuditLog) error {
	if r.err != nil {
		return r.err
	}
	r.entries = append(r.entries, *e)
	return nil
}

func (r *fakeAuditRepo) ListByEntity(entity, entityID string) ([]domain.AuditLog, error) {
	return r.entries, nil
}

type fakeAssessor struct {
	result      openai.EligibilityResult
	chatMessage string
	calls       int
}

func (a *fakeAssessor) ValidateEligibility(_ context.Context, _ openai.EligibilityInput) openai.EligibilityResult {
	a.calls++
	return a.result
}

func (a *fakeAssessor) Chat(_ context.Context, _, _ string) openai.ChatbotResponse {
	if a.chatMessage == "" {
		return openai.ChatbotResponse{Message: openai.ChatbotFallbackMessage, IsHelpful: false}
	}
	return openai.ChatbotResponse{Message: a.chatMessage, IsHelpful: true}
}

func (a *fakeAssessor) ExplainCommission(_ context.Context, _, _, _ float64) string {
	return "explanation"
}

type fakeCRM struct {
	fail     bool
	created  []string
	updated  []string
	payments []string
	metrics  airtable.Metrics
}

func (c *fakeCRM) CreateClaimRecord(_ context.Context, claim *domain.Claim) (*airtable.Record, error) {
	if c.fail {
		return nil, errors.New("crm down")
	}
	c.created = append(c.created, claim.ClaimID)
	return &airtable.Record{ID: "rec1"}, nil
}

func (c *fakeCRM) UpdateClaimRecord(_ context.Context, claimID string, _ map[string]any) (*airtable.Record, error) {
	if c.fail {
		return nil, errors.New("crm down")
	}
	c.updated = append(c.updated, claimID)
	return &airtable.Record{ID: "rec1"}, nil
}

func (c *fakeCRM) CreatePaymentRecord(_ context.Context, claimID string, _ airtable.PaymentRecord) (*airtable.Record, error) {
	if c.fail {
		return nil, errors.New("crm down")
	}
	c.payments = append(c.payments, claimID)
	return &airtable.Record{ID: "rec2"}, nil
}

func (c *fakeCRM) CommissionMetrics(_ context.Context) (airtable.Metrics, error) {
	if c.fail {
		return airtable.Metrics{}, errors.New("crm down")
	}
	return c.metrics, nil
}

type fakeMailer struct {
	fail          bool
	confirmations []string
	statuses      []string
	payments      []string
	invoices      []string
}

func (m *fakeMailer) SendClaimConfirmation(to string, _ mail.ClaimConfirmation) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.confirmations = append(m.confirmations, to)
	return nil
}

func (m *fakeMailer) SendStatusUpdate(to string, _ mail.StatusUpdate) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.statuses = append(m.statuses, to)
	return nil
}

func (m *fakeMailer) SendPaymentConfirmation(to string, _ mail.PaymentConfirmation) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.payments = append(m.payments, to)
	return nil
}

func (m *fakeMailer) SendCommissionInvoice(to string, _ mail.CommissionInvoice) error {
	if m.fail {
		return errors.New("smtp down")
	}
	m.invoices = append(m.invoices, to)
	return nil
}

type fakeSigner struct {
	envelopeID string
	completed  bool
	err        error
}

func (s *fakeSigner) CreatePOAEnvelope(_ context.Context, _ docusign.POARequest) (*docusign.SigningResponse, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &docusign.SigningResponse{
		EnvelopeID: s.envelopeID,
		SigningURL: "https://sign.example/" + s.envelopeID,
		Status:     "sent",
	}, nil
}

func (s *fakeSigner) GetEnvelopeStatus(_ context.Context, _ string) (docusign.EnvelopeStatus, error) {
	if s.err != nil {
		return docusign.EnvelopeStatus{}, s.err
	}
	status := "sent"
	if s.completed {
		status = "completed"
	}
	return docusign.EnvelopeStatus{Status: status, Completed: s.completed}, nil
}

type fakeExporter struct {
	exported int
	err      error
}

func (e *fakeExporter) ExportClaims(_ context.Context, claims []domain.Claim) (string, error) {
	if e.err != nil {
		return "", e.err
	}
	e.exported = len(claims)
	return "https://sheets.example/doc", nil
}

func (e *fakeExporter) AppendClaim(_ context.Context, _ *domain.Claim) error {
	return e.err
}

type fakeConsentStore struct {
	valid       bool
	missing     []string
	records     []domain.ConsentRecord
	recordErr   error
	failOnType  string
	validateErr error
}

func (c *fakeConsentStore) Record(record domain.ConsentRecord) (string, error) {
	if c.recordErr != nil {
		return "", c.recordErr
	}
	if c.failOnType != "" && record.ConsentType == c.failOnType {
		return "", errors.New("disk full")
	}
	c.records = append(c.records, record)
	return record.ConsentType + ".json", nil
}

func (c *fakeConsentStore) AuditTrail(email string) ([]domain.ConsentRecord, error) {
	var out []domain.ConsentRecord
	for _, r := range c.records {
		if r.UserEmail == email {
			out = append(out, r)
		}
	}
	return out, nil
}

func (c *fakeConsentStore) Validate(_ string, _ []string) (consent.ValidationResult, error) {
	if c.validateErr != nil {
		return consent.ValidationResult{}, c.validateErr
	}
	return consent.ValidationResult{Valid: c.valid, Missing: c.missing}, nil
}

func (c *fakeConsentStore) Export(_, _ *time.Time) ([]domain.ConsentRecord, error) {
	return c.records, nil
}

type fakeProducer struct {
	fail     bool
	messages []string
}

func (p *fakeProducer) PublishMessage(key, _ []byte) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.messages = append(p.messages, string(key))
	return nil
}

type fakeUploader struct {
	fail bool
}

func (u *fakeUploader) UploadBytes(_ context.Context, folder, filename string, _ []byte) (string, error) {
	if u.fail {
		return "", errors.New("storage down")
	}
	return "https://cdn.example/" + folder + "/" + filename, nil
}

type fakeUserRepo struct {
	nextID uint
	users  map[string]*domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (r *fakeUserRepo) CreateUser(user *domain.User) (*domain.User, error) {
	r.nextID++
	user.ID = r.nextID
	u := *user
	r.users[user.Email] = &u
	return user, nil
}

func (r *fakeUserRepo) FindUserByEmail(email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) FindUserById(userID uint) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			cp := *u
			return &cp, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (r *fakeUserRepo) SaveUser(user *domain.User) error {
	u := *user
	r.users[user.Email] = &u
	return nil
}

func (r *fakeUserRepo) ListUsers(limit, offset int) ([]domain.User, error) {
	var out []domain.User
	for _, u := range r.users {
		out = append(out, *u)
	}
	return out, nil
}

type fakeConsentRepo struct {
	rows []domain.UserConsent
	err  error
}

func (r *fakeConsentRepo) CreateConsent(c *domain.UserConsent) error {
	if r.err != nil {
		return r.err
	}
	r.rows = append(r.rows, *c)
	return nil
}

func (r *fakeConsentRepo) ListByUserID(userID uint) ([]domain.UserConsent, error) {
	var out []domain.UserConsent
	for _, c := range r.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

type fakeFaqRepo struct {
	nextID uint
	faqs   map[uint]*domain.FaqItem
}

func newFakeFaqRepo() *fakeFaqRepo {
	return &fakeFaqRepo{faqs: map[uint]*domain.FaqItem{}}
}

func (r *fakeFaqRepo) ListActive() ([]domain.FaqItem, error) {
	var out []domain.FaqItem
	for _, f := range r.faqs {
		if f.IsActive {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFaqRepo) Search(query string) ([]domain.FaqItem, error) {
	var out []domain.FaqItem
	for _, f := range r.faqs {
		if !f.IsActive {
			continue
		}
		if containsFold(f.Question, query) || containsFold(f.Answer, query) {
			out = append(out, *f)
		}
	}
	return out, nil
}

func (r *fakeFaqRepo) CreateFaq(faq *domain.FaqItem) (*domain.FaqItem, error) {
	r.nextID++
	faq.ID = r.nextID
	f := *faq
	r.faqs[faq.ID] = &f
	return faq, nil
}

func (r *fakeFaqRepo) SaveFaq(faq *domain.FaqItem) error {
	f := *faq
	r.faqs[faq.ID] = &f
	return nil
}

func (r *fakeFaqRepo) FindByID(id uint) (*domain.FaqItem, error) {
	f, ok := r.faqs[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *f
	return &cp, nil
}

func (r *fakeFaqRepo) Deactivate(id uint) error {
	if f, ok := r.faqs[id]; ok {
		f.IsActive = false
	}
	return nil
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
