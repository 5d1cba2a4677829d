// Package airtable mirrors claim and payment records into the CRM base.
// All calls are attempt-once; callers log and continue on failure.
package airtable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yulclaims/claim_service/internal/domain"
)

type Client struct {
	baseID string
	apiKey string
	base   string
	http   *http.Client
}

func New(baseID, apiKey string) *Client {
	return &Client{
		baseID: baseID,
		apiKey: apiKey,
		base:   fmt.Sprintf("https://api.airtable.com/v0/%s", baseID),
		http: &http.Client{
			Timeout: 20 * time.Second,
		},
	}
}

type Record struct {
	ID          string         `json:"id"`
	Fields      map[string]any `json:"fields"`
	CreatedTime string         `json:"createdTime"`
}

type recordsResponse struct {
	Records []Record `json:"records"`
}

func (c *Client) request(ctx context.Context, method, endpoint string, body any) ([]byte, error) {
	if c.apiKey == "" || c.baseID == "" {
		return nil, errors.New("airtable is not configured")
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base+endpoint, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	out, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("airtable http error (%d): %s", resp.StatusCode, string(out))
	}
	return out, nil
}

// CreateClaimRecord mirrors a freshly created claim into the Claims table.
func (c *Client) CreateClaimRecord(ctx context.Context, claim *domain.Claim) (*Record, error) {
	fields := map[string]any{
		"Claim ID":          claim.ClaimID,
		"Passenger Name":    claim.PassengerName,
		"Email":             claim.Email,
		"Airline":           claim.Airline,
		"Airline Category":  claim.AirlineCategory,
		"Flight Number":     claim.FlightNumber,
		"Flight Date":       claim.FlightDate,
		"Departure Airport": claim.DepartureAirport,
		"Arrival Airport":   claim.ArrivalAirport,
		"Issue Type":        claim.IssueType,
		"Delay Duration":    claim.DelayDuration,
		"Delay Reason":      claim.DelayReason,
		"Status":            claim.Status,
		"POA Requested":     claim.POARequested,
		"POA Signed":        claim.POASigned,
		"Created At":        time.Now().UTC().Format(time.RFC3339),
	}
	if claim.CompensationAmount != nil {
		fields["Compensation Amount"] = *claim.CompensationAmount
	}
	if claim.CommissionAmount != nil {
		fields["Commission Amount"] = *claim.CommissionAmount
	}

	body, err := c.request(ctx, http.MethodPost, "/Claims", map[string]any{
		"fields":   fields,
		"typecast": true,
	})
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// UpdateClaimRecord patches the CRM row matching the claim identifier.
func (c *Client) UpdateClaimRecord(ctx context.Context, claimID string, updates map[string]any) (*Record, error) {
	records, err := c.ClaimRecords(ctx)
	if err != nil {
		return nil, err
	}

	var target *Record
	for i := range records {
		if records[i].Fields["Claim ID"] == claimID {
			target = &records[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("claim record not found: %s", claimID)
	}

	body, err := c.request(ctx, http.MethodPatch, "/Claims/"+target.ID, map[string]any{
		"fields":   updates,
		"typecast": true,
	})
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

func (c *Client) ClaimRecords(ctx context.Context) ([]Record, error) {
	body, err := c.request(ctx, http.MethodGet, "/Claims", nil)
	if err != nil {
		return nil, err
	}

	var out recordsResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, err
	}
	return out.Records, nil
}

type PaymentRecord struct {
	PassengerEmail     string
	CompensationAmount float64
	CommissionAmount   float64
	PaymentMethod      string
	Status             string
}

// CreatePaymentRecord mirrors a payout into the Payments table when a
// claim is marked paid.
func (c *Client) CreatePaymentRecord(ctx context.Context, claimID string, payment PaymentRecord) (*Record, error) {
	fields := map[string]any{
		"Claim ID":            claimID,
		"Passenger Email":     payment.PassengerEmail,
		"Compensation Amount": payment.CompensationAmount,
		"Commission Amount":   payment.CommissionAmount,
		"Payment Method":      payment.PaymentMethod,
		"Status":              payment.Status,
		"Created At":          time.Now().UTC().Format(time.RFC3339),
	}

	body, err := c.request(ctx, http.MethodPost, "/Payments", map[string]any{
		"fields":   fields,
		"typecast": true,
	})
	if err != nil {
		return nil, err
	}

	var record Record
	if err := json.Unmarshal(body, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

type Metrics struct {
	TotalClaims       int     `json:"total_claims"`
	TotalCommissions  float64 `json:"total_commissions"`
	AverageCommission float64 `json:"average_commission"`
	SuccessRate       float64 `json:"success_rate"`
}

// CommissionMetrics aggregates paid claims in the CRM base.
func (c *Client) CommissionMetrics(ctx context.Context) (Metrics, error) {
	records, err := c.ClaimRecords(ctx)
	if err != nil {
		return Metrics{}, err
	}

	var paid int
	var totalCommissions float64
	for _, record := range records {
		if record.Fields["Status"] != domain.StatusPaid {
			continue
		}
		paid++
		if v, ok := record.Fields["Commission Amount"].(float64); ok {
			totalCommissions += v
		}
	}

	metrics := Metrics{
		TotalClaims:      len(records),
		TotalCommissions: totalCommissions,
	}
	if paid > 0 {
		metrics.AverageCommission = totalCommissions / float64(paid)
	}
	if len(records) > 0 {
		metrics.SuccessRate = float64(paid) / float64(len(records)) * 100
	}
	return metrics, nil
}
