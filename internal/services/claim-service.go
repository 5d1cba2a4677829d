package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yulclaims/claim_service/internal/appr"
	"github.com/yulclaims/claim_service/internal/clients/airtable"
	"github.com/yulclaims/claim_service/internal/clients/docusign"
	"github.com/yulclaims/claim_service/internal/clients/mail"
	"github.com/yulclaims/claim_service/internal/clients/openai"
	"github.com/yulclaims/claim_service/internal/domain"
	"github.com/yulclaims/claim_service/internal/dto"
	"github.com/yulclaims/claim_service/internal/interfaces"
	"github.com/yulclaims/claim_service/internal/repository"
	"github.com/yulclaims/claim_service/pkg/utils"
	"gorm.io/gorm"
)

const (
	maxDocumentSize  = 10 << 20
	maxDocumentCount = 5
)

var allowedDocumentTypes = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

type ClaimService interface {
	CreateClaim(ctx context.Context, input dto.CreateClaimRequest, documents []*multipart.FileHeader, meta dto.RequestMeta) (*domain.Claim, []string, error)
	GetClaimsByIdentifier(identifier string) ([]domain.Claim, error)
	GetClaimStatus(claimID string) (*domain.Claim, error)
	ListClaims() ([]domain.Claim, error)
	UpdateStatus(ctx context.Context, claimID string, adminID uint, input dto.UpdateStatusRequest) (*domain.Claim, error)
	ClaimPayments(claimID string) ([]domain.Payment, error)
	ClaimAuditLog(claimID string) ([]domain.AuditLog, error)
	CalculateCompensation(ctx context.Context, input dto.CalculateCompensationRequest) (dto.CompensationResponse, error)
	Stats(ctx context.Context) dto.StatsResponse
	CreatePOA(ctx context.Context, claimID string) (*docusign.SigningResponse, error)
	CompletePOA(ctx context.Context, envelopeID, event string, meta dto.RequestMeta) (*domain.Claim, error)
	ConsentAuditTrail(email string) ([]domain.ConsentRecord, error)
	ExportConsentRecords(from, to *time.Time) ([]domain.ConsentRecord, error)
	ExportClaims(ctx context.Context) (string, error)
}

type claimService struct {
	repo        repository.ClaimRepository
	paymentRepo repository.PaymentRepository
	auditRepo   repository.AuditRepository

	assessor interfaces.EligibilityAssessor
	crm      interfaces.CRM
	mailer   interfaces.Mailer
	signer   interfaces.SignatureProvider
	exporter interfaces.SheetExporter
	uploader interfaces.Uploader
	consents interfaces.ConsentStore

	// messaging
	producer interfaces.ProducerHandler
}

func NewClaimService(
	repo repository.ClaimRepository,
	paymentRepo repository.PaymentRepository,
	auditRepo repository.AuditRepository,
	assessor interfaces.EligibilityAssessor,
	crm interfaces.CRM,
	mailer interfaces.Mailer,
	signer interfaces.SignatureProvider,
	exporter interfaces.SheetExporter,
	uploader interfaces.Uploader,
	consents interfaces.ConsentStore,
	producer interfaces.ProducerHandler,
) ClaimService {
	return &claimService{
		repo:        repo,
		paymentRepo: paymentRepo,
		auditRepo:   auditRepo,
		assessor:    assessor,
		crm:         crm,
		mailer:      mailer,
		signer:      signer,
		exporter:    exporter,
		uploader:    uploader,
		consents:    consents,
		producer:    producer,
	}
}

// GenerateClaimID builds "YUL-<base36 ts+email hash>-<uuid8>". The uuid
// suffix alone guarantees uniqueness; the hash segment keeps identifiers
// visually distinct per passenger.
func GenerateClaimID(email string, at time.Time) string {
	var sum int64
	for _, b := range []byte(strings.ToLower(email)) {
		sum += int64(b)
	}
	hash := strconv.FormatInt(at.UnixMilli()+sum, 36)
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return strings.ToUpper(fmt.Sprintf("YUL-%s-%s", hash, suffix))
}

func validIssueType(t string) bool {
	switch t {
	case domain.IssueDelayed, domain.IssueCancelled, domain.IssueDeniedBoarding, domain.IssueMissedConnection:
		return true
	}
	return false
}

func (s *claimService) CreateClaim(
	ctx context.Context,
	input dto.CreateClaimRequest,
	documents []*multipart.FileHeader,
	meta dto.RequestMeta,
) (*domain.Claim, []string, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	firstName := strings.TrimSpace(input.FirstName)
	lastName := strings.TrimSpace(input.LastName)
	flightNumber := strings.TrimSpace(strings.ToUpper(input.FlightNumber))
	issueType := strings.TrimSpace(input.IssueType)

	if email == "" || firstName == "" || lastName == "" || flightNumber == "" {
		return nil, nil, errors.New("invalid inputs")
	}
	if input.DepartureDate == "" || input.Origin == "" || input.Destination == "" {
		return nil, nil, errors.New("flight details are required")
	}
	if !validIssueType(issueType) {
		return nil, nil, errors.New("invalid issue type")
	}
	if issueType == domain.IssueDelayed && input.DelayDuration == "" {
		return nil, nil, errors.New("delay duration is required for delayed flights")
	}
	if !input.ConsentGiven {
		return nil, nil, errors.New("consent is required to submit a claim")
	}

	validation, err := s.consents.Validate(email, domain.RegistrationConsents)
	if err != nil {
		return nil, nil, errors.New("failed to verify consents")
	}
	if !validation.Valid {
		return nil, nil, fmt.Errorf("missing required consents: %s", strings.Join(validation.Missing, ", "))
	}

	now := time.Now()
	claimID := GenerateClaimID(email, now)

	documentURLs, warnings := s.uploadDocuments(ctx, claimID, documents)

	claim := &domain.Claim{
		ClaimID:          claimID,
		PassengerName:    firstName + " " + lastName,
		Email:            email,
		Airline:          strings.TrimSpace(input.Airline),
		AirlineCategory:  strings.TrimSpace(strings.ToLower(input.AirlineCategory)),
		FlightNumber:     flightNumber,
		FlightDate:       strings.TrimSpace(input.DepartureDate),
		DepartureAirport: strings.TrimSpace(strings.ToUpper(input.Origin)),
		ArrivalAirport:   strings.TrimSpace(strings.ToUpper(input.Destination)),
		IssueType:        issueType,
		DelayDuration:    strings.TrimSpace(input.DelayDuration),
		DelayReason:      strings.TrimSpace(input.DelayReason),
		Status:           domain.StatusSubmitted,
		POARequested:     input.POARequested,
		StatusHistory:    domain.AppendStatus(nil, domain.StatusSubmitted, "Claim submitted", now),
		DocumentsURLs:    documentURLs,
	}
	if input.MealVoucherAmount > 0 {
		v := input.MealVoucherAmount
		claim.MealVoucherAmount = &v
	}

	created, err := s.repo.CreateClaim(claim)
	if err != nil {
		return nil, nil, err
	}

	// Enrichment below is best effort. Each step is isolated: a provider
	// outage never fails the submission and never blocks the next step.
	s.assessEligibility(ctx, created)
	s.mirrorToCRM(ctx, created)
	s.appendToSheet(ctx, created)
	s.sendConfirmation(created)
	s.publishEvent(queueEventClaimCreated, created)

	return created, warnings, nil
}

func (s *claimService) appendToSheet(ctx context.Context, claim *domain.Claim) {
	if s.exporter == nil {
		return
	}
	if err := s.exporter.AppendClaim(ctx, claim); err != nil {
		log.Printf("sheet append error for %s: %v", claim.ClaimID, err)
	}
}

func (s *claimService) uploadDocuments(
	ctx context.Context,
	claimID string,
	documents []*multipart.FileHeader,
) ([]string, []string) {
	var urls []string
	var warnings []string

	if len(documents) > maxDocumentCount {
		warnings = append(warnings, fmt.Sprintf("only the first %d documents were kept", maxDocumentCount))
		documents = documents[:maxDocumentCount]
	}

	for _, fh := range documents {
		ext := strings.ToLower(filepath.Ext(fh.Filename))
		if !allowedDocumentTypes[ext] {
			warnings = append(warnings, fmt.Sprintf("%s skipped: unsupported file type", fh.Filename))
			continue
		}
		if fh.Size > maxDocumentSize {
			warnings = append(warnings, fmt.Sprintf("%s skipped: file exceeds 10MB", fh.Filename))
			continue
		}

		f, err := fh.Open()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s skipped: unreadable", fh.Filename))
			continue
		}
		b, err := utils.ReadAllLimit(f, maxDocumentSize)
		f.Close()
		if err != nil {
			warnings = append(warnings, fmt.Sprintf("%s skipped: %v", fh.Filename, err))
			continue
		}

		if s.uploader == nil {
			warnings = append(warnings, fmt.Sprintf("%s skipped: document storage unavailable", fh.Filename))
			continue
		}
		url, err := s.uploader.UploadBytes(ctx, "claims/"+claimID, fh.Filename, b)
		if err != nil {
			log.Printf("document upload error for %s: %v", claimID, err)
			warnings = append(warnings, fmt.Sprintf("%s skipped: upload failed", fh.Filename))
			continue
		}
		urls = append(urls, url)
	}

	return urls, warnings
}

// assessEligibility stores the AI verdict and, when the rule table agrees,
// the financial breakdown. The assessor itself never returns an error.
func (s *claimService) assessEligibility(ctx context.Context, claim *domain.Claim) {
	if s.assessor == nil {
		return
	}

	result := s.assessor.ValidateEligibility(ctx, openai.EligibilityInput{
		FlightNumber:     claim.FlightNumber,
		FlightDate:       claim.FlightDate,
		DepartureAirport: claim.DepartureAirport,
		ArrivalAirport:   claim.ArrivalAirport,
		IssueType:        claim.IssueType,
		DelayDuration:    claim.DelayDuration,
		DelayReason:      claim.DelayReason,
	})

	claim.Eligibility = &domain.EligibilityValidation{
		IsEligible: result.IsEligible,
		Confidence: result.Confidence,
		Reason:     result.Reason,
	}

	if result.IsEligible {
		category := claim.AirlineCategory
		if category == "" {
			category = appr.AirlineLarge
		}
		hours := appr.DelayBucketHours(claim.DelayDuration)
		ruled := appr.ComputeCompensation(category, hours, claim.DelayReason)
		if ruled.Eligible {
			voucher := 0.0
			if claim.MealVoucherAmount != nil {
				voucher = *claim.MealVoucherAmount
			}
			split := appr.ComputeCommission(ruled.Amount, voucher)
			claim.CompensationAmount = &ruled.Amount
			claim.CommissionAmount = &split.Commission
		}
	}

	if err := s.repo.SaveClaim(claim); err != nil {
		log.Printf("eligibility save error for %s: %v", claim.ClaimID, err)
	}
}

func (s *claimService) mirrorToCRM(ctx context.Context, claim *domain.Claim) {
	if s.crm == nil {
		return
	}
	if _, err := s.crm.CreateClaimRecord(ctx, claim); err != nil {
		log.Printf("crm mirror error for %s: %v", claim.ClaimID, err)
	}
}

func (s *claimService) sendConfirmation(claim *domain.Claim) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendClaimConfirmation(claim.Email, mail.ClaimConfirmation{
		ClaimID:               claim.ClaimID,
		PassengerName:         claim.PassengerName,
		FlightNumber:          claim.FlightNumber,
		FlightDate:            claim.FlightDate,
		EstimatedCompensation: claim.CompensationAmount,
		CommissionAmount:      claim.CommissionAmount,
	})
	if err != nil {
		log.Printf("confirmation email error for %s: %v", claim.ClaimID, err)
	}
}

const (
	queueEventClaimCreated       = "claim.created"
	queueEventClaimStatusChanged = "claim.status_changed"
	queueEventClaimPOASigned     = "claim.poa_signed"
)

func (s *claimService) publishEvent(event string, claim *domain.Claim) {
	if s.producer == nil {
		return
	}
	payload := fmt.Sprintf(
		`{"claim_id":%q,"email":%q,"status":%q,"at":%q}`,
		claim.ClaimID, claim.Email, claim.Status, time.Now().UTC().Format(time.RFC3339),
	)
	if err := s.producer.PublishMessage([]byte(event), []byte(payload)); err != nil {
		log.Printf("publish %s error for %s: %v", event, claim.ClaimID, err)
	}
}

// GetClaimsByIdentifier accepts either a passenger email or a claim
// identifier and always answers with a list.
func (s *claimService) GetClaimsByIdentifier(identifier string) ([]domain.Claim, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, errors.New("identifier is required")
	}

	if strings.Contains(identifier, "@") {
		return s.repo.FindByEmail(strings.ToLower(identifier))
	}

	claim, err := s.repo.FindByClaimID(strings.ToUpper(identifier))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []domain.Claim{}, nil
		}
		return nil, err
	}
	return []domain.Claim{*claim}, nil
}

func (s *claimService) GetClaimStatus(claimID string) (*domain.Claim, error) {
	claimID = strings.TrimSpace(strings.ToUpper(claimID))
	if claimID == "" {
		return nil, errors.New("claim id is required")
	}
	return s.repo.FindByClaimID(claimID)
}

func (s *claimService) ListClaims() ([]domain.Claim, error) {
	return s.repo.ListAll()
}

func (s *claimService) UpdateStatus(
	ctx context.Context,
	claimID string,
	adminID uint,
	input dto.UpdateStatusRequest,
) (*domain.Claim, error) {
	newStatus := strings.TrimSpace(input.Status)
	switch newStatus {
	case domain.StatusSubmitted, domain.StatusUnderReview, domain.StatusApproved, domain.StatusRejected, domain.StatusPaid:
	default:
		return nil, errors.New("invalid status")
	}

	claim, err := s.repo.FindByClaimID(strings.ToUpper(strings.TrimSpace(claimID)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("claim not found")
		}
		return nil, err
	}

	if !domain.CanTransition(claim.Status, newStatus) {
		return nil, fmt.Errorf("invalid status transition from %s to %s", claim.Status, newStatus)
	}

	now := time.Now()
	claim.Status = newStatus
	claim.StatusHistory = domain.AppendStatus(claim.StatusHistory, newStatus, input.Notes, now)

	if err := s.repo.SaveClaim(claim); err != nil {
		return nil, err
	}

	note := input.Notes
	entry := &domain.AuditLog{
		ActorID:  adminID,
		Action:   "claim.status." + newStatus,
		Entity:   "claim",
		EntityID: claim.ClaimID,
	}
	if note != "" {
		entry.Note = &note
	}
	if err := s.auditRepo.CreateEntry(entry); err != nil {
		log.Printf("audit write error for %s: %v", claim.ClaimID, err)
	}

	s.notifyStatusChange(claim)
	s.updateCRMStatus(ctx, claim)
	s.publishEvent(queueEventClaimStatusChanged, claim)

	if newStatus == domain.StatusPaid {
		s.recordPayment(ctx, claim)
	}

	return claim, nil
}

func (s *claimService) notifyStatusChange(claim *domain.Claim) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.SendStatusUpdate(claim.Email, mail.StatusUpdate{
		ClaimID:       claim.ClaimID,
		PassengerName: claim.PassengerName,
		NewStatus:     claim.Status,
		StatusMessage: statusMessage(claim.Status),
	})
	if err != nil {
		log.Printf("status email error for %s: %v", claim.ClaimID, err)
	}
}

func statusMessage(status string) string {
	switch status {
	case domain.StatusUnderReview:
		return "Your claim is being reviewed by our team."
	case domain.StatusApproved:
		return "Your claim has been approved. Payment is being arranged with the airline."
	case domain.StatusRejected:
		return "Unfortunately your claim did not qualify for compensation."
	case domain.StatusPaid:
		return "Your compensation has been paid out."
	default:
		return "Your claim has been received."
	}
}

func (s *claimService) updateCRMStatus(ctx context.Context, claim *domain.Claim) {
	if s.crm == nil {
		return
	}
	if _, err := s.crm.UpdateClaimRecord(ctx, claim.ClaimID, map[string]any{"Status": claim.Status}); err != nil {
		log.Printf("crm status update error for %s: %v", claim.ClaimID, err)
	}
}

// recordPayment writes the payout row and mirrors it to the CRM, then
// sends the payment confirmation and commission invoice.
func (s *claimService) recordPayment(ctx context.Context, claim *domain.Claim) {
	compensation := 0.0
	if claim.CompensationAmount != nil {
		compensation = *claim.CompensationAmount
	}
	commission := 0.0
	if claim.CommissionAmount != nil {
		commission = *claim.CommissionAmount
	}
	voucher := 0.0
	if claim.MealVoucherAmount != nil {
		voucher = *claim.MealVoucherAmount
	}
	// Commission was computed on the voucher-deducted base, the net must
	// deduct it too.
	base := compensation - voucher
	if base < 0 {
		base = 0
	}
	net := base - commission

	payment := &domain.Payment{
		ClaimID:            claim.ClaimID,
		PassengerEmail:     claim.Email,
		CompensationAmount: compensation,
		CommissionAmount:   commission,
		NetAmount:          net,
		PaymentMethod:      "bank_transfer",
		Status:             "completed",
	}
	if _, err := s.paymentRepo.CreatePayment(payment); err != nil {
		log.Printf("payment record error for %s: %v", claim.ClaimID, err)
	}

	if s.crm != nil {
		_, err := s.crm.CreatePaymentRecord(ctx, claim.ClaimID, airtable.PaymentRecord{
			PassengerEmail:     claim.Email,
			CompensationAmount: compensation,
			CommissionAmount:   commission,
			PaymentMethod:      "bank_transfer",
			Status:             "completed",
		})
		if err != nil {
			log.Printf("crm payment mirror error for %s: %v", claim.ClaimID, err)
		}
	}

	if s.mailer == nil {
		return
	}
	err := s.mailer.SendPaymentConfirmation(claim.Email, mail.PaymentConfirmation{
		ClaimID:            claim.ClaimID,
		PassengerName:      claim.PassengerName,
		AmountReceived:     compensation,
		CommissionDeducted: commission,
		FinalAmount:        net,
	})
	if err != nil {
		log.Printf("payment email error for %s: %v", claim.ClaimID, err)
	}

	// POA claims collect through us, so the invoice is only sent when the
	// passenger is billed directly.
	if !claim.POASigned {
		err := s.mailer.SendCommissionInvoice(claim.Email, mail.CommissionInvoice{
			ClaimID:             claim.ClaimID,
			PassengerName:       claim.PassengerName,
			CompensationAmount:  compensation,
			CommissionAmount:    commission,
			PaymentInstructions: "Please settle the commission within 14 days of receiving your compensation.",
		})
		if err != nil {
			log.Printf("invoice email error for %s: %v", claim.ClaimID, err)
		}
	}
}

func (s *claimService) ClaimPayments(claimID string) ([]domain.Payment, error) {
	claimID = strings.TrimSpace(strings.ToUpper(claimID))
	if claimID == "" {
		return nil, errors.New("claim id is required")
	}
	return s.paymentRepo.ListByClaimID(claimID)
}

func (s *claimService) ClaimAuditLog(claimID string) ([]domain.AuditLog, error) {
	claimID = strings.TrimSpace(strings.ToUpper(claimID))
	if claimID == "" {
		return nil, errors.New("claim id is required")
	}
	return s.auditRepo.ListByEntity("claim", claimID)
}

func (s *claimService) CalculateCompensation(
	ctx context.Context,
	input dto.CalculateCompensationRequest,
) (dto.CompensationResponse, error) {
	category := strings.TrimSpace(strings.ToLower(input.AirlineCategory))
	if category != appr.AirlineLarge && category != appr.AirlineSmall {
		return dto.CompensationResponse{}, errors.New("invalid airline category")
	}
	if input.DelayHours < 0 {
		return dto.CompensationResponse{}, errors.New("invalid delay hours")
	}

	ruled := appr.ComputeCompensation(category, input.DelayHours, strings.TrimSpace(input.DelayReason))
	if !ruled.Eligible {
		return dto.CompensationResponse{
			Eligible: false,
			Reason:   ruled.Reason,
		}, nil
	}

	split := appr.ComputeCommission(ruled.Amount, input.MealVoucherAmount)

	resp := dto.CompensationResponse{
		Eligible:           true,
		CompensationAmount: ruled.Amount,
		CommissionAmount:   split.Commission,
		NetAmount:          split.Net,
	}
	if s.assessor != nil {
		resp.Explanation = s.assessor.ExplainCommission(ctx, ruled.Amount, split.Commission, split.Net)
	}
	return resp, nil
}

// Stats prefers CRM aggregates, falls back to the database, and finally to
// static marketing figures so the public page never breaks.
func (s *claimService) Stats(ctx context.Context) dto.StatsResponse {
	if s.crm != nil {
		metrics, err := s.crm.CommissionMetrics(ctx)
		if err == nil && metrics.TotalClaims > 0 {
			return dto.StatsResponse{
				TotalClaims:    metrics.TotalClaims,
				TotalRecovered: metrics.TotalCommissions / appr.CommissionRate,
				// CRM reports percent, the API reports a fraction
				SuccessRate:  metrics.SuccessRate / 100,
				AverageDelay: 0,
				Source:       "crm",
			}
		}
		if err != nil {
			log.Printf("crm stats error: %v", err)
		}
	}

	claims, err := s.repo.ListAll()
	if err == nil && len(claims) > 0 {
		var paid int
		var recovered, delaySum float64
		for _, c := range claims {
			if c.Status == domain.StatusPaid {
				paid++
				if c.CompensationAmount != nil {
					recovered += *c.CompensationAmount
				}
			}
			delaySum += appr.DelayBucketHours(c.DelayDuration)
		}
		return dto.StatsResponse{
			TotalClaims:    len(claims),
			TotalRecovered: recovered,
			SuccessRate:    float64(paid) / float64(len(claims)),
			AverageDelay:   delaySum / float64(len(claims)),
			Source:         "database",
		}
	}
	if err != nil {
		log.Printf("stats query error: %v", err)
	}

	return dto.StatsResponse{
		TotalClaims:    1250,
		TotalRecovered: 875000,
		SuccessRate:    0.87,
		AverageDelay:   5.2,
		Source:         "static",
	}
}

func (s *claimService) CreatePOA(ctx context.Context, claimID string) (*docusign.SigningResponse, error) {
	if s.signer == nil {
		return nil, errors.New("e-signature is not configured")
	}

	claim, err := s.repo.FindByClaimID(strings.ToUpper(strings.TrimSpace(claimID)))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("claim not found")
		}
		return nil, err
	}

	compensation := 0.0
	if claim.CompensationAmount != nil {
		compensation = *claim.CompensationAmount
	}
	commission := 0.0
	if claim.CommissionAmount != nil {
		commission = *claim.CommissionAmount
	}

	signing, err := s.signer.CreatePOAEnvelope(ctx, docusign.POARequest{
		ClaimID:            claim.ClaimID,
		PassengerName:      claim.PassengerName,
		PassengerEmail:     claim.Email,
		CompensationAmount: compensation,
		CommissionAmount:   commission,
	})
	if err != nil {
		return nil, err
	}

	claim.POARequested = true
	claim.POAEnvelopeID = signing.EnvelopeID
	if err := s.repo.SaveClaim(claim); err != nil {
		return nil, err
	}

	return signing, nil
}

// CompletePOA handles the signing callback. The envelope status is
// re-checked with the provider rather than trusted from the redirect.
func (s *claimService) CompletePOA(ctx context.Context, envelopeID, event string, meta dto.RequestMeta) (*domain.Claim, error) {
	envelopeID = strings.TrimSpace(envelopeID)
	if envelopeID == "" {
		return nil, errors.New("envelope id is required")
	}

	claim, err := s.repo.FindByEnvelopeID(envelopeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("claim not found for envelope")
		}
		return nil, err
	}

	completed := event == "signing_complete"
	if s.signer != nil {
		status, err := s.signer.GetEnvelopeStatus(ctx, envelopeID)
		if err == nil {
			completed = status.Completed
		} else {
			log.Printf("envelope status check error for %s: %v", claim.ClaimID, err)
		}
	}
	if !completed {
		return claim, nil
	}

	claim.POASigned = true
	if err := s.repo.SaveClaim(claim); err != nil {
		return nil, err
	}

	if s.consents != nil {
		_, err := s.consents.Record(domain.ConsentRecord{
			ConsentType:     domain.ConsentPOA,
			UserEmail:       claim.Email,
			UserName:        claim.PassengerName,
			ClaimID:         claim.ClaimID,
			Timestamp:       time.Now().UTC().Format(time.RFC3339),
			IPAddress:       meta.IPAddress,
			UserAgent:       meta.UserAgent,
			DocumentVersion: "1.0",
			Agreed:          true,
		})
		if err != nil {
			log.Printf("poa consent record error for %s: %v", claim.ClaimID, err)
		}
	}

	s.publishEvent(queueEventClaimPOASigned, claim)

	return claim, nil
}

func (s *claimService) ConsentAuditTrail(email string) ([]domain.ConsentRecord, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, errors.New("email is required")
	}
	return s.consents.AuditTrail(email)
}

func (s *claimService) ExportConsentRecords(from, to *time.Time) ([]domain.ConsentRecord, error) {
	return s.consents.Export(from, to)
}

func (s *claimService) ExportClaims(ctx context.Context) (string, error) {
	if s.exporter == nil {
		return "", errors.New("spreadsheet export is not configured")
	}
	claims, err := s.repo.ListAll()
	if err != nil {
		return "", err
	}
	return s.exporter.ExportClaims(ctx, claims)
}
