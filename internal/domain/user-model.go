package domain

import "gorm.io/gorm"

// User roles, least to most privileged.
const (
	RoleUser        = "user"
	RoleJuniorAdmin = "junior_admin"
	RoleSeniorAdmin = "senior_admin"
)

type User struct {
	ID           uint   `gorm:"primaryKey" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `json:"-"`
	DisplayName  string `json:"display_name"`
	Role         string `gorm:"type:varchar(20);not null;default:user" json:"role"`
	Status       string `gorm:"type:varchar(20);not null;default:active" json:"status"`

	// Registration-time agreements, duplicated at the account level.
	// The authoritative records live in the consent store.
	TermsAccepted         bool `gorm:"default:false" json:"terms_accepted"`
	PrivacyAccepted       bool `gorm:"default:false" json:"privacy_accepted"`
	DataRetentionAccepted bool `gorm:"default:false" json:"data_retention_accepted"`
	MarketingAccepted     bool `gorm:"default:false" json:"marketing_accepted"`

	gorm.Model
}

func IsValidRole(role string) bool {
	switch role {
	case RoleUser, RoleJuniorAdmin, RoleSeniorAdmin:
		return true
	}
	return false
}

// RoleAtLeast reports whether have grants the privileges of want.
func RoleAtLeast(have, want string) bool {
	rank := map[string]int{RoleUser: 0, RoleJuniorAdmin: 1, RoleSeniorAdmin: 2}
	return rank[have] >= rank[want]
}
