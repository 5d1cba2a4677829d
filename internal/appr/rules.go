// Package appr encodes the compensation table of the Canadian Air
// Passenger Protection Regulations and the service commission split.
package appr

import (
	"fmt"
	"math"
)

// Airline size categories used by the APPR table.
const (
	AirlineLarge = "large"
	AirlineSmall = "small"
)

// Fixed payout table in CAD, banded by delay hours.
var compensationTable = map[string][3]float64{
	AirlineLarge: {400, 700, 1000}, // [3,6) [6,9) [9,inf)
	AirlineSmall: {125, 250, 500},
}

// Delay causes outside airline control. Never compensable, regardless of
// duration or airline size.
var extraordinaryReasons = map[string]bool{
	"weather":             true,
	"air_traffic_control": true,
	"security":            true,
	"airport_failure":     true,
	"safety_maintenance":  true,
	"third_party_strike":  true,
	"government_delay":    true,
	"medical_emergency":   true,
	"cyberattack":         true,
}

// CommissionRate is the service fee charged on successful claims only.
const CommissionRate = 0.15

type CompensationResult struct {
	Eligible bool    `json:"eligible"`
	Amount   float64 `json:"amount"`
	Reason   string  `json:"reason"`
}

type CommissionBreakdown struct {
	Commission float64 `json:"commission"`
	Net        float64 `json:"net"`
}

// IsExtraordinaryReason reports whether the delay reason code is excluded
// from compensation under APPR.
func IsExtraordinaryReason(code string) bool {
	return extraordinaryReasons[code]
}

// ComputeCompensation applies the APPR table to a hypothetical or real
// claim. Pure: identical inputs always yield identical results.
func ComputeCompensation(airlineCategory string, delayHours float64, delayReason string) CompensationResult {
	if delayHours < 3 {
		return CompensationResult{Eligible: false, Reason: "delay below minimum threshold"}
	}
	if IsExtraordinaryReason(delayReason) {
		return CompensationResult{Eligible: false, Reason: "extraordinary circumstances"}
	}

	table, ok := compensationTable[airlineCategory]
	if !ok {
		return CompensationResult{Eligible: false, Reason: "unknown airline category"}
	}

	var amount float64
	switch {
	case delayHours < 6:
		amount = table[0]
	case delayHours < 9:
		amount = table[1]
	default:
		amount = table[2]
	}

	return CompensationResult{
		Eligible: true,
		Amount:   amount,
		Reason:   fmt.Sprintf("%s airline, delay within airline control", airlineCategory),
	}
}

// ComputeCommission splits amount into the 15% service commission and the
// passenger's net payout. A meal-voucher value already provided by the
// airline is deducted first, floored at zero. Negative amounts clamp to 0.
func ComputeCommission(amount, mealVoucher float64) CommissionBreakdown {
	base := amount - mealVoucher
	if base < 0 {
		base = 0
	}
	commission := math.Round(base * CommissionRate)
	return CommissionBreakdown{
		Commission: commission,
		Net:        base - commission,
	}
}

// DelayBucketHours maps the form's delay-duration bucket to a
// representative hour count inside the bucket.
func DelayBucketHours(bucket string) float64 {
	switch bucket {
	case "3-6":
		return 3
	case "6-9":
		return 6
	case "9+":
		return 9
	default:
		return 0
	}
}
