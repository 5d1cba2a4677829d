package interfaces

import (
	"context"

	"github.com/yulclaims/claim_service/internal/clients/openai"
)

// EligibilityAssessor is the AI boundary. Implementations never propagate
// provider failures; they return safe fallbacks instead.
type EligibilityAssessor interface {
	ValidateEligibility(ctx context.Context, input openai.EligibilityInput) openai.EligibilityResult
	Chat(ctx context.Context, query, contextNote string) openai.ChatbotResponse
	ExplainCommission(ctx context.Context, compensation, commission, net float64) string
}
