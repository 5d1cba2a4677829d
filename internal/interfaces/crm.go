package interfaces

import (
	"context"

	"github.com/yulclaims/claim_service/internal/clients/airtable"
	"github.com/yulclaims/claim_service/internal/domain"
)

type CRM interface {
	CreateClaimRecord(ctx context.Context, claim *domain.Claim) (*airtable.Record, error)
	UpdateClaimRecord(ctx context.Context, claimID string, updates map[string]any) (*airtable.Record, error)
	CreatePaymentRecord(ctx context.Context, claimID string, payment airtable.PaymentRecord) (*airtable.Record, error)
	CommissionMetrics(ctx context.Context) (airtable.Metrics, error)
}
