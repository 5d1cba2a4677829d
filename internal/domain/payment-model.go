package domain

import "gorm.io/gorm"

type Payment struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ClaimID string `gorm:"type:varchar(50);index;not null" json:"claim_id"`

	PassengerEmail     string  `gorm:"not null" json:"passenger_email"`
	CompensationAmount float64 `gorm:"type:decimal(10,2);not null" json:"compensation_amount"`
	CommissionAmount   float64 `gorm:"type:decimal(10,2);not null" json:"commission_amount"`
	NetAmount          float64 `gorm:"type:decimal(10,2);not null" json:"net_amount"`
	PaymentMethod      string  `gorm:"type:varchar(30)" json:"payment_method"`
	Status             string  `gorm:"type:varchar(20);not null;default:completed" json:"status"`

	gorm.Model
}
