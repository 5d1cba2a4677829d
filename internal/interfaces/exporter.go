package interfaces

import (
	"context"

	"github.com/yulclaims/claim_service/internal/domain"
)

type SheetExporter interface {
	ExportClaims(ctx context.Context, claims []domain.Claim) (string, error)
	AppendClaim(ctx context.Context, claim *domain.Claim) error
}
