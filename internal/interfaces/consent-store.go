package interfaces

import (
	"time"

	"github.com/yulclaims/claim_service/internal/consent"
	"github.com/yulclaims/claim_service/internal/domain"
)

// ConsentStore is the immutable file-backed consent record log.
type ConsentStore interface {
	Record(record domain.ConsentRecord) (string, error)
	AuditTrail(email string) ([]domain.ConsentRecord, error)
	Validate(email string, required []string) (consent.ValidationResult, error)
	Export(from, to *time.Time) ([]domain.ConsentRecord, error)
}
