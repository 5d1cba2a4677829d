// Package docusign drives power-of-attorney e-signature envelopes.
package docusign

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

type Client struct {
	clientID     string
	clientSecret string
	accountID    string
	environment  string
	baseURL      string
	authURL      string
	returnURL    string
	http         *http.Client

	mu          sync.Mutex
	accessToken string
	tokenExpiry time.Time
}

func New(clientID, clientSecret, accountID, environment, returnURL string) *Client {
	baseURL := "https://demo.docusign.net/restapi/v2.1"
	authURL := "https://account-d.docusign.com/oauth/token"
	if environment == "production" {
		baseURL = "https://www.docusign.net/restapi/v2.1"
		authURL = "https://account.docusign.com/oauth/token"
	}
	return &Client{
		clientID:     clientID,
		clientSecret: clientSecret,
		accountID:    accountID,
		environment:  environment,
		baseURL:      baseURL,
		authURL:      authURL,
		returnURL:    returnURL,
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

func (c *Client) token(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.accessToken != "" && time.Now().Before(c.tokenExpiry) {
		return c.accessToken, nil
	}
	if c.clientID == "" || c.clientSecret == "" {
		return "", errors.New("docusign is not configured")
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("scope", "signature")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	credentials := base64.StdEncoding.EncodeToString([]byte(c.clientID + ":" + c.clientSecret))
	req.Header.Set("Authorization", "Basic "+credentials)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("docusign auth failed (%d): %s", resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int    `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}

	c.accessToken = out.AccessToken
	// refresh 5 minutes before expiry
	c.tokenExpiry = time.Now().Add(time.Duration(out.ExpiresIn-300) * time.Second)
	return c.accessToken, nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	u := fmt.Sprintf("%s/accounts/%s%s", c.baseURL, c.accountID, endpoint)
	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("docusign http error (%d): %s", resp.StatusCode, string(out))
	}
	return out, nil
}

type POARequest struct {
	ClaimID            string
	PassengerName      string
	PassengerEmail     string
	CompensationAmount float64
	CommissionAmount   float64
}

type SigningResponse struct {
	EnvelopeID string `json:"envelope_id"`
	SigningURL string `json:"signing_url"`
	Status     string `json:"status"`
}

// CreatePOAEnvelope sends a power-of-attorney document for signature and
// returns the embedded signing URL.
func (c *Client) CreatePOAEnvelope(ctx context.Context, request POARequest) (*SigningResponse, error) {
	document := poaDocument(request)

	envelope := map[string]any{
		"emailSubject": fmt.Sprintf("Power of Attorney - YUL Flight Delay Compensation (Claim: %s)", request.ClaimID),
		"documents": []map[string]any{{
			"documentBase64": base64.StdEncoding.EncodeToString([]byte(document)),
			"name":           fmt.Sprintf("POA_%s.pdf", request.ClaimID),
			"fileExtension":  "pdf",
			"documentId":     "1",
		}},
		"recipients": map[string]any{
			"signers": []map[string]any{{
				"email":       request.PassengerEmail,
				"name":        request.PassengerName,
				"recipientId": "1",
				"tabs": map[string]any{
					"signHereTabs":   []map[string]any{{"documentId": "1", "pageNumber": "1", "xPosition": "400", "yPosition": "600"}},
					"dateSignedTabs": []map[string]any{{"documentId": "1", "pageNumber": "1", "xPosition": "400", "yPosition": "650"}},
				},
			}},
		},
		"status": "sent",
	}

	body, err := c.request(ctx, http.MethodPost, "/envelopes", envelope)
	if err != nil {
		return nil, err
	}

	var created struct {
		EnvelopeID string `json:"envelopeId"`
		Status     string `json:"status"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, err
	}

	viewBody, err := c.request(ctx, http.MethodPost, "/envelopes/"+created.EnvelopeID+"/views/recipient", map[string]any{
		"authenticationMethod": "none",
		"email":                request.PassengerEmail,
		"recipientId":          "1",
		"returnUrl":            c.returnURL,
		"userName":             request.PassengerName,
	})
	if err != nil {
		return nil, err
	}

	var view struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(viewBody, &view); err != nil {
		return nil, err
	}

	return &SigningResponse{
		EnvelopeID: created.EnvelopeID,
		SigningURL: view.URL,
		Status:     created.Status,
	}, nil
}

type EnvelopeStatus struct {
	Status    string `json:"status"`
	Completed bool   `json:"completed"`
}

func (c *Client) GetEnvelopeStatus(ctx context.Context, envelopeID string) (EnvelopeStatus, error) {
	body, err := c.request(ctx, http.MethodGet, "/envelopes/"+envelopeID, nil)
	if err != nil {
		return EnvelopeStatus{}, err
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return EnvelopeStatus{}, err
	}

	return EnvelopeStatus{
		Status:    out.Status,
		Completed: out.Status == "completed",
	}, nil
}

func poaDocument(request POARequest) string {
	net := request.CompensationAmount - request.CommissionAmount
	return fmt.Sprintf(`POWER OF ATTORNEY
Flight Compensation Claim Authorization

Claim ID: %s
Passenger Name: %s
Email: %s

I, %s, hereby authorize YUL Flight Delay Compensation to act as my
attorney-in-fact for the purpose of:
- Submitting and pursuing flight compensation claims on my behalf
- Collecting compensation payments directly from airlines
- Deducting the agreed 15%% commission (%.2f CAD) from any compensation received
- Transferring the remaining compensation (%.2f CAD) to my designated account

I understand and agree that:
- YUL Flight Delay Compensation charges a 15%% commission on successful claims only
- No fees are charged if the claim is unsuccessful
- The commission will be automatically deducted from any compensation received

This Power of Attorney remains in effect until the claim is resolved or I
revoke it in writing.

Passenger Signature: ___________________________  Date: _______________
%s
`,
		request.ClaimID, request.PassengerName, request.PassengerEmail,
		request.PassengerName, request.CommissionAmount, net,
		request.PassengerName,
	)
}
