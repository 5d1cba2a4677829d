package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	chatCompletionsURL = "https://api.openai.com/v1/chat/completions"
	model              = "gpt-4o"
)

type Client struct {
	apiKey  string
	baseURL string
	http    *http.Client
}

func New(apiKey string) *Client {
	return &Client{
		apiKey:  apiKey,
		baseURL: chatCompletionsURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

func (c *Client) complete(ctx context.Context, messages []chatMessage, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", errors.New("missing openai api key")
	}

	reqBody := chatRequest{Model: model, Messages: messages}
	if jsonMode {
		reqBody.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	var out chatResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("openai response parse error (%d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if out.Error != nil {
			return "", fmt.Errorf("openai error (%d): %s", resp.StatusCode, out.Error.Message)
		}
		return "", fmt.Errorf("openai http error (%d): %s", resp.StatusCode, string(body))
	}
	if len(out.Choices) == 0 {
		return "", errors.New("openai returned no choices")
	}
	return out.Choices[0].Message.Content, nil
}

type EligibilityInput struct {
	FlightNumber     string
	FlightDate       string
	DepartureAirport string
	ArrivalAirport   string
	IssueType        string
	DelayDuration    string
	DelayReason      string
}

type EligibilityResult struct {
	IsEligible         bool    `json:"isEligible"`
	Confidence         float64 `json:"confidence"`
	Reason             string  `json:"reason"`
	CompensationAmount float64 `json:"compensationAmount"`
}

// FallbackEligibility is returned whenever the provider call fails;
// ValidateEligibility never returns an error to its caller.
func FallbackEligibility() EligibilityResult {
	return EligibilityResult{
		IsEligible: false,
		Confidence: 0,
		Reason:     "validation error",
	}
}

// ValidateEligibility asks the model for an APPR eligibility verdict. The
// prompt is built deterministically from the flight facts; confidence is
// clamped into [0,1]. Any failure yields the safe fallback: callers treat
// this as best-effort enrichment.
func (c *Client) ValidateEligibility(ctx context.Context, input EligibilityInput) EligibilityResult {
	delayDuration := input.DelayDuration
	if delayDuration == "" {
		delayDuration = "Not specified"
	}
	delayReason := input.DelayReason
	if delayReason == "" {
		delayReason = "Not specified"
	}

	prompt := fmt.Sprintf(`Analyze this flight compensation claim for eligibility under Canadian APPR (Air Passenger Protection Regulations):

Flight Details:
- Flight: %s
- Date: %s
- Route: %s to %s
- Issue: %s
- Delay Duration: %s
- Reason: %s

Evaluate eligibility based on APPR criteria:
1. Flight must be within/to/from Canada
2. Delay/cancellation must be within airline control
3. Minimum delay thresholds apply
4. Weather and extraordinary circumstances are excluded

Provide assessment in JSON format with:
- isEligible: boolean
- confidence: number (0-1)
- reason: detailed explanation
- compensationAmount: estimated CAD amount if eligible`,
		input.FlightNumber, input.FlightDate,
		input.DepartureAirport, input.ArrivalAirport,
		input.IssueType, delayDuration, delayReason,
	)

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are an expert in Canadian Air Passenger Protection Regulations (APPR). Analyze flight compensation claims for eligibility and provide accurate assessments. Respond with JSON in the specified format."},
		{Role: "user", Content: prompt},
	}, true)
	if err != nil {
		return FallbackEligibility()
	}

	var result EligibilityResult
	if err := json.Unmarshal([]byte(content), &result); err != nil {
		return FallbackEligibility()
	}

	if result.Confidence < 0 {
		result.Confidence = 0
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}
	if result.Reason == "" {
		result.Reason = "Unable to determine eligibility"
	}
	return result
}

type ChatbotResponse struct {
	Message   string `json:"message"`
	IsHelpful bool   `json:"is_helpful"`
}

// ChatbotFallbackMessage is surfaced to the user when the provider fails.
const ChatbotFallbackMessage = "I'm experiencing technical difficulties. Please contact our support team for assistance."

const chatbotSystemPrompt = `You are a helpful AI assistant for YUL Flight Delay Compensation, an airline compensation platform that charges a 15% commission on successful claims.

Key information about our service:
- We charge 15% commission only on successful claims
- No upfront fees or hidden costs
- Power of Attorney (POA) allows direct collection and immediate transfer
- Without POA, we invoice after airline pays passenger
- We handle Canadian APPR claims for delays, cancellations, and denied boarding
- Average compensation ranges from $125 to $1000 CAD

Provide helpful, accurate responses about:
- Commission structure and fees
- Claim process and requirements
- APPR rights and regulations
- Timeline and expectations

Keep responses concise and professional.`

// Chat answers a free-text support question. Never fails past its
// boundary; provider errors become the fallback message.
func (c *Client) Chat(ctx context.Context, query, contextNote string) ChatbotResponse {
	userContent := query
	if contextNote != "" {
		userContent = fmt.Sprintf("Context: %s\n\nQuestion: %s", contextNote, query)
	}

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: chatbotSystemPrompt},
		{Role: "user", Content: userContent},
	}, false)
	if err != nil {
		return ChatbotResponse{Message: ChatbotFallbackMessage, IsHelpful: false}
	}
	return ChatbotResponse{Message: content, IsHelpful: true}
}

// ExplainCommission generates a customer-facing breakdown of the 15% fee
// for the given amounts. Falls back to a deterministic sentence.
func (c *Client) ExplainCommission(ctx context.Context, compensation, commission, net float64) string {
	fallback := fmt.Sprintf(
		"For your $%.0f compensation claim, our 15%% commission would be $%.0f, leaving you with $%.0f.",
		compensation, commission, net,
	)

	prompt := fmt.Sprintf(`Generate a clear, professional explanation of our 15%% commission structure for a compensation claim of $%.0f CAD. Include:
- Total compensation: $%.0f
- Our commission (15%%): $%.0f
- Amount passenger receives: $%.0f
- Why this fee structure is fair and transparent
- What services are included

Keep it conversational and reassuring.`,
		compensation, compensation, commission, net,
	)

	content, err := c.complete(ctx, []chatMessage{
		{Role: "system", Content: "You are a customer service expert explaining commission structures in a clear, friendly manner."},
		{Role: "user", Content: prompt},
	}, false)
	if err != nil || content == "" {
		return fallback
	}
	return content
}
