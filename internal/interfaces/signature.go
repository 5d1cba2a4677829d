package interfaces

import (
	"context"

	"github.com/yulclaims/claim_service/internal/clients/docusign"
)

type SignatureProvider interface {
	CreatePOAEnvelope(ctx context.Context, request docusign.POARequest) (*docusign.SigningResponse, error)
	GetEnvelopeStatus(ctx context.Context, envelopeID string) (docusign.EnvelopeStatus, error)
}
