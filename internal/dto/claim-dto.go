package dto

// CreateClaimRequest carries the multi-step form fields. Multipart file
// parts arrive separately under the "documents" field name.
type CreateClaimRequest struct {
	FlightNumber    string `json:"flightNumber" form:"flightNumber"`
	Airline         string `json:"airline" form:"airline"`
	AirlineCategory string `json:"airlineCategory" form:"airlineCategory"`
	DepartureDate   string `json:"departureDate" form:"departureDate"`
	Origin          string `json:"origin" form:"origin"`
	Destination     string `json:"destination" form:"destination"`
	IssueType       string `json:"issueType" form:"issueType"`
	DelayDuration   string `json:"delayDuration" form:"delayDuration"`
	DelayReason     string `json:"delayReason" form:"delayReason"`

	MealVoucherAmount float64 `json:"mealVoucherAmount" form:"mealVoucherAmount"`

	FirstName    string `json:"firstName" form:"firstName"`
	LastName     string `json:"lastName" form:"lastName"`
	Email        string `json:"email" form:"email"`
	Phone        string `json:"phone" form:"phone"`
	Address      string `json:"address" form:"address"`
	ConsentGiven bool   `json:"consentGiven" form:"consentGiven"`
	POARequested bool   `json:"poaRequested" form:"poaRequested"`
}

// RequestMeta carries caller attribution for consent records.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}

type CreatePOARequest struct {
	ClaimID string `json:"claimId"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`
}

type CalculateCompensationRequest struct {
	AirlineCategory   string  `json:"airlineCategory"`
	DelayHours        float64 `json:"delayHours"`
	DelayReason       string  `json:"delayReason"`
	MealVoucherAmount float64 `json:"mealVoucherAmount"`
}

type CompensationResponse struct {
	Eligible           bool    `json:"eligible"`
	CompensationAmount float64 `json:"compensationAmount"`
	CommissionAmount   float64 `json:"commissionAmount"`
	NetAmount          float64 `json:"netAmount"`
	Reason             string  `json:"reason,omitempty"`
	Explanation        string  `json:"explanation,omitempty"`
}

type StatsResponse struct {
	TotalClaims    int     `json:"totalClaims"`
	TotalRecovered float64 `json:"totalRecovered"`
	SuccessRate    float64 `json:"successRate"`
	AverageDelay   float64 `json:"averageDelayHours"`
	Source         string  `json:"source"`
}

type POACallbackRequest struct {
	EnvelopeID string `json:"envelopeId"`
	Event      string `json:"event"`
}
