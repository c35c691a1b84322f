package service

import (
	"fmt"
	"time"
)

// ValidateClaim checks a raw claim record before it enters the ledger.
// claim_id and provider_id are required non-empty strings; billed_amount,
// when present, must be a non-negative number; service_date, when present,
// must parse as RFC 3339.
func ValidateClaim(claim map[string]interface{}) error {
	if claim == nil {
		return fmt.Errorf("claim cannot be empty")
	}

	for _, field := range []string{"claim_id", "provider_id"} {
		v, ok := claim[field]
		if !ok {
			return fmt.Errorf("%s is required", field)
		}
		s, ok := v.(string)
		if !ok || s == "" {
			return fmt.Errorf("%s must be a non-empty string", field)
		}
	}

	if v, ok := claim["billed_amount"]; ok && v != nil {
		amount, ok := toFloat(v)
		if !ok {
			return fmt.Errorf("billed_amount must be a number")
		}
		if amount < 0 {
			return fmt.Errorf("billed_amount cannot be negative")
		}
	}

	if v, ok := claim["service_date"]; ok && v != nil {
		s, ok := v.(string)
		if !ok {
			return fmt.Errorf("service_date must be an RFC 3339 string")
		}
		if _, err := time.Parse(time.RFC3339, s); err != nil {
			return fmt.Errorf("service_date is not valid RFC 3339: %w", err)
		}
	}

	return nil
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}
