package domain

import (
	"time"

	"gorm.io/gorm"
)

// Consent types. Terms, privacy and data-retention are mandatory at
// registration; POA is collected per claim; marketing is optional.
const (
	ConsentTerms         = "terms"
	ConsentPrivacy       = "privacy"
	ConsentDataRetention = "data_retention"
	ConsentPOA           = "poa"
	ConsentMarketing     = "marketing"
)

// RegistrationConsents are required before a claim may be submitted.
var RegistrationConsents = []string{ConsentTerms, ConsentPrivacy, ConsentDataRetention}

func IsValidConsentType(t string) bool {
	switch t {
	case ConsentTerms, ConsentPrivacy, ConsentDataRetention, ConsentPOA, ConsentMarketing:
		return true
	}
	return false
}

func IsMandatoryConsent(t string) bool {
	switch t {
	case ConsentTerms, ConsentPrivacy, ConsentDataRetention, ConsentPOA:
		return true
	}
	return false
}

// ConsentRecord is one immutable proof of agreement, persisted as a JSON
// file whose name is a deterministic function of its identifying fields.
type ConsentRecord struct {
	ConsentType     string `json:"consent_type"`
	UserEmail       string `json:"user_email"`
	UserName        string `json:"user_name"`
	ClaimID         string `json:"claim_id,omitempty"`
	Timestamp       string `json:"timestamp"`
	IPAddress       string `json:"ip_address,omitempty"`
	UserAgent       string `json:"user_agent,omitempty"`
	DocumentVersion string `json:"document_version"`
	Agreed          bool   `json:"agreed"`

	// Set by the recorder on write.
	Filename   string `json:"filename,omitempty"`
	RecordedAt string `json:"recorded_at,omitempty"`
}

// UserConsent is the account-level row written alongside the file record
// for registration-time agreements.
type UserConsent struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	UserID      uint       `gorm:"not null;index:uidx_user_consents_type,unique" json:"user_id"`
	ConsentType string     `gorm:"type:varchar(50);not null;index:uidx_user_consents_type,unique" json:"consent_type"`
	Accepted    bool       `gorm:"not null;default:true" json:"accepted"`
	AcceptedAt  *time.Time `json:"accepted_at,omitempty"`
	gorm.Model
}
