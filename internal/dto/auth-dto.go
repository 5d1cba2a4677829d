package dto

type RegisterRequest struct {
	FirstName             string `json:"firstName"`
	LastName              string `json:"lastName"`
	Email                 string `json:"email"`
	Phone                 string `json:"phone"`
	Password              string `json:"password"`
	TermsAccepted         bool   `json:"termsAccepted"`
	PrivacyAccepted       bool   `json:"privacyAccepted"`
	DataRetentionAccepted bool   `json:"dataRetentionAccepted"`
	MarketingAccepted     bool   `json:"marketingAccepted"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	UserID int
	Email  string
	Role   string
	Expiry float64
	Iat    float64
}

type SetRoleRequest struct {
	Role string `json:"role"`
}
