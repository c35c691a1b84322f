package service_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	service "claimtrace/ingestion/service/core"
)

// TestValidateClaim walks the admission rules for raw claim records.
func TestValidateClaim(t *testing.T) {
	cases := []struct {
		name    string
		claim   map[string]interface{}
		wantErr string
	}{
		{
			name: "Valid",
			claim: map[string]interface{}{
				"claim_id":      "CLM-100",
				"provider_id":   "PRV-1",
				"billed_amount": 1250.0,
				"service_date":  "2024-06-01T12:00:00Z",
			},
		},
		{
			name: "MinimalValid",
			claim: map[string]interface{}{
				"claim_id":    "CLM-100",
				"provider_id": "PRV-1",
			},
		},
		{
			name:    "NilClaim",
			claim:   nil,
			wantErr: "claim cannot be empty",
		},
		{
			name: "MissingClaimID",
			claim: map[string]interface{}{
				"provider_id": "PRV-1",
			},
			wantErr: "claim_id is required",
		},
		{
			name: "MissingProviderID",
			claim: map[string]interface{}{
				"claim_id": "CLM-100",
			},
			wantErr: "provider_id is required",
		},
		{
			name: "EmptyClaimID",
			claim: map[string]interface{}{
				"claim_id":    "",
				"provider_id": "PRV-1",
			},
			wantErr: "claim_id must be a non-empty string",
		},
		{
			name: "NonStringProviderID",
			claim: map[string]interface{}{
				"claim_id":    "CLM-100",
				"provider_id": 42,
			},
			wantErr: "provider_id must be a non-empty string",
		},
		{
			name: "NegativeAmount",
			claim: map[string]interface{}{
				"claim_id":      "CLM-100",
				"provider_id":   "PRV-1",
				"billed_amount": -10.0,
			},
			wantErr: "billed_amount cannot be negative",
		},
		{
			name: "NonNumericAmount",
			claim: map[string]interface{}{
				"claim_id":      "CLM-100",
				"provider_id":   "PRV-1",
				"billed_amount": "a lot",
			},
			wantErr: "billed_amount must be a number",
		},
		{
			name: "BadServiceDate",
			claim: map[string]interface{}{
				"claim_id":     "CLM-100",
				"provider_id":  "PRV-1",
				"service_date": "06/01/2024",
			},
			wantErr: "service_date is not valid",
		},
		{
			name: "NonStringServiceDate",
			claim: map[string]interface{}{
				"claim_id":     "CLM-100",
				"provider_id":  "PRV-1",
				"service_date": 20240601,
			},
			wantErr: "service_date must be an RFC 3339 string",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := service.ValidateClaim(tc.claim)
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			require.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
