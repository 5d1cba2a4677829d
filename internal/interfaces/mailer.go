package interfaces

import (
	"github.com/yulclaims/claim_service/internal/clients/mail"
)

type Mailer interface {
	SendClaimConfirmation(to string, data mail.ClaimConfirmation) error
	SendStatusUpdate(to string, data mail.StatusUpdate) error
	SendPaymentConfirmation(to string, data mail.PaymentConfirmation) error
	SendCommissionInvoice(to string, data mail.CommissionInvoice) error
}
