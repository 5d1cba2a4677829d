package domain

import (
	"time"

	"gorm.io/gorm"
)

// Claim statuses. Transitions are guarded by CanTransition; rejected and
// paid are terminal.
const (
	StatusSubmitted   = "submitted"
	StatusUnderReview = "under-review"
	StatusApproved    = "approved"
	StatusRejected    = "rejected"
	StatusPaid        = "paid"
)

// Issue types reported by the passenger.
const (
	IssueDelayed          = "delayed"
	IssueCancelled        = "cancelled"
	IssueDeniedBoarding   = "denied-boarding"
	IssueMissedConnection = "missed-connection"
)

type StatusHistoryEntry struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Notes     string `json:"notes,omitempty"`
}

type EligibilityValidation struct {
	IsEligible bool    `json:"is_eligible"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
}

type Claim struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ClaimID string `gorm:"type:varchar(50);uniqueIndex;not null" json:"claim_id"`

	PassengerName string `gorm:"not null" json:"passenger_name"`
	Email         string `gorm:"index;not null" json:"email"`

	Airline         string `json:"airline"`
	AirlineCategory string `gorm:"type:varchar(10)" json:"airline_category"` // large | small

	FlightNumber     string `gorm:"not null" json:"flight_number"`
	FlightDate       string `gorm:"not null" json:"flight_date"`
	DepartureAirport string `gorm:"not null" json:"departure_airport"`
	ArrivalAirport   string `gorm:"not null" json:"arrival_airport"`
	IssueType        string `gorm:"not null" json:"issue_type"`
	DelayDuration    string `json:"delay_duration"` // 3-6 | 6-9 | 9+
	DelayReason      string `json:"delay_reason"`

	Status string `gorm:"type:varchar(20);not null;default:submitted" json:"status"`

	CompensationAmount *float64 `gorm:"type:decimal(10,2)" json:"compensation_amount,omitempty"`
	CommissionAmount   *float64 `gorm:"type:decimal(10,2)" json:"commission_amount,omitempty"`
	MealVoucherAmount  *float64 `gorm:"type:decimal(10,2)" json:"meal_voucher_amount,omitempty"`

	POARequested   bool   `gorm:"default:false" json:"poa_requested"`
	POASigned      bool   `gorm:"default:false" json:"poa_signed"`
	POADocumentURL string `json:"poa_document_url,omitempty"`
	POAEnvelopeID  string `gorm:"index" json:"poa_envelope_id,omitempty"`

	Eligibility   *EligibilityValidation `gorm:"serializer:json;type:jsonb" json:"eligibility,omitempty"`
	StatusHistory []StatusHistoryEntry   `gorm:"serializer:json;type:jsonb" json:"status_history"`
	DocumentsURLs []string               `gorm:"serializer:json;type:jsonb" json:"documents_urls"`

	gorm.Model
}

// CanTransition reports whether a claim may move from to next. Terminal
// states never leave; everything else follows
// submitted -> under-review -> {approved, rejected}, approved -> paid.
func CanTransition(from, to string) bool {
	allowed := map[string][]string{
		StatusSubmitted:   {StatusUnderReview, StatusRejected},
		StatusUnderReview: {StatusApproved, StatusRejected},
		StatusApproved:    {StatusPaid, StatusRejected},
	}
	for _, next := range allowed[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalStatus reports whether status accepts no further transitions.
func IsTerminalStatus(status string) bool {
	return status == StatusRejected || status == StatusPaid
}

// AppendStatus returns history with a new entry appended. Existing entries
// are never modified or reordered.
func AppendStatus(history []StatusHistoryEntry, status, notes string, at time.Time) []StatusHistoryEntry {
	out := make([]StatusHistoryEntry, 0, len(history)+1)
	out = append(out, history...)
	out = append(out, StatusHistoryEntry{
		Status:    status,
		Timestamp: at.UTC().Format(time.RFC3339),
		Notes:     notes,
	})
	return out
}
