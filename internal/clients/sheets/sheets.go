// Package sheets exports claim rows to a Google Sheets spreadsheet using
// a service-account credential.
package sheets

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/yulclaims/claim_service/internal/domain"
)

const (
	valuesBaseURL = "https://sheets.googleapis.com/v4/spreadsheets"
	tokenURL      = "https://oauth2.googleapis.com/token"
	sheetsScope   = "https://www.googleapis.com/auth/spreadsheets"
)

var headerRow = []string{
	"Claim ID", "Passenger Name", "Email", "Flight Number", "Flight Date",
	"Departure Airport", "Arrival Airport", "Issue Type", "Delay Duration",
	"Delay Reason", "Status", "Compensation Amount", "Commission Amount",
	"POA Requested", "POA Signed", "Created At", "Updated At",
}

type Client struct {
	spreadsheetID string
	clientEmail   string
	privateKey    string
	http          *http.Client
}

func New(spreadsheetID, clientEmail, privateKey string) *Client {
	return &Client{
		spreadsheetID: spreadsheetID,
		clientEmail:   clientEmail,
		// env vars carry the key with escaped newlines
		privateKey: strings.ReplaceAll(privateKey, `\n`, "\n"),
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

// accessToken exchanges a signed RS256 service-account assertion for an
// OAuth bearer token.
func (c *Client) accessToken(ctx context.Context) (string, error) {
	if c.clientEmail == "" || c.privateKey == "" {
		return "", errors.New("google sheets is not configured")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(c.privateKey))
	if err != nil {
		return "", fmt.Errorf("parse service account key: %w", err)
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   c.clientEmail,
		"scope": sheetsScope,
		"aud":   tokenURL,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Hour).Unix(),
	})
	assertion, err := token.SignedString(key)
	if err != nil {
		return "", err
	}

	form := url.Values{}
	form.Set("grant_type", "urn:ietf:params:oauth:grant-type:jwt-bearer")
	form.Set("assertion", assertion)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("google token error (%d): %s", resp.StatusCode, string(body))
	}

	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

func claimRow(claim *domain.Claim) []string {
	compensation := ""
	if claim.CompensationAmount != nil {
		compensation = strconv.FormatFloat(*claim.CompensationAmount, 'f', 2, 64)
	}
	commission := ""
	if claim.CommissionAmount != nil {
		commission = strconv.FormatFloat(*claim.CommissionAmount, 'f', 2, 64)
	}
	return []string{
		claim.ClaimID, claim.PassengerName, claim.Email,
		claim.FlightNumber, claim.FlightDate,
		claim.DepartureAirport, claim.ArrivalAirport,
		claim.IssueType, claim.DelayDuration, claim.DelayReason,
		claim.Status, compensation, commission,
		strconv.FormatBool(claim.POARequested), strconv.FormatBool(claim.POASigned),
		claim.CreatedAt.UTC().Format(time.RFC3339),
		claim.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

// ExportClaims replaces the Claims sheet with a header row plus one row
// per claim and returns the spreadsheet URL.
func (c *Client) ExportClaims(ctx context.Context, claims []domain.Claim) (string, error) {
	token, err := c.accessToken(ctx)
	if err != nil {
		return "", err
	}

	values := make([][]string, 0, len(claims)+1)
	values = append(values, headerRow)
	for i := range claims {
		values = append(values, claimRow(&claims[i]))
	}

	clearURL := fmt.Sprintf("%s/%s/values/Claims!A:Q:clear", valuesBaseURL, c.spreadsheetID)
	if err := c.call(ctx, http.MethodPost, clearURL, token, nil); err != nil {
		return "", err
	}

	updateURL := fmt.Sprintf("%s/%s/values/Claims!A1?valueInputOption=RAW", valuesBaseURL, c.spreadsheetID)
	if err := c.call(ctx, http.MethodPut, updateURL, token, map[string]any{"values": values}); err != nil {
		return "", err
	}

	return "https://docs.google.com/spreadsheets/d/" + c.spreadsheetID, nil
}

// AppendClaim adds a single claim row without touching existing rows.
func (c *Client) AppendClaim(ctx context.Context, claim *domain.Claim) error {
	token, err := c.accessToken(ctx)
	if err != nil {
		return err
	}

	appendURL := fmt.Sprintf("%s/%s/values/Claims!A:Q:append?valueInputOption=RAW", valuesBaseURL, c.spreadsheetID)
	return c.call(ctx, http.MethodPost, appendURL, token, map[string]any{
		"values": [][]string{claimRow(claim)},
	})
}

func (c *Client) call(ctx context.Context, method, u, token string, body any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("google sheets http error (%d): %s", resp.StatusCode, string(out))
	}
	return nil
}
