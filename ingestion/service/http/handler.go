package http

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	core "claimtrace/ingestion/service/core"
)

// ClaimHandler encapsulates the logic for handling HTTP claim requests
type ClaimHandler struct {
	svc    *core.Service
	logger *log.Logger
}

// NewClaimHandler creates a new ClaimHandler
func NewClaimHandler(s *core.Service, l *log.Logger) *ClaimHandler {
	return &ClaimHandler{svc: s, logger: l}
}

// SubmitClaim handles POST /v1/claims requests
func (h *ClaimHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		h.respondError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// Content-Type validation
	if r.Header.Get("Content-Type") != "application/json" {
		h.respondError(w, "Content-Type must be application/json", http.StatusBadRequest)
		return
	}

	// Request size limit
	if r.ContentLength > 10*1024*1024 { // 10MB limit
		h.respondError(w, "Request body too large", http.StatusRequestEntityTooLarge)
		return
	}

	// 1. Parse request body JSON
	var claim map[string]interface{}
	if err := json.NewDecoder(r.Body).Decode(&claim); err != nil {
		h.logger.Printf("HTTP Handler: Failed to parse JSON request: %v", err)
		h.respondError(w, "Bad Request: Invalid JSON format", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	// 2. Tenant from header (set by the edge gateway) when present
	tenantID := r.Header.Get("X-Client-Tenant-ID")

	// 3. Call Service layer processing logic
	input := &core.ClaimInput{Claim: claim, TenantID: tenantID}
	result, err := h.svc.SubmitClaim(r.Context(), input)
	if err != nil {
		h.logger.Printf("HTTP Handler: Service layer processing failed: %v", err)

		// Validation failures are the client's fault; everything else is ours
		statusCode := http.StatusInternalServerError
		if isValidationError(err) {
			statusCode = http.StatusBadRequest
		}

		h.respondError(w, err.Error(), statusCode)
		return
	}

	// 4. Construct and return success response (HTTP 202 Accepted)
	respPayload := map[string]interface{}{
		"request_id":                result.RequestID,
		"receipt_hash":              result.ReceiptHash,
		"server_received_timestamp": result.ReceivedTimestamp.Format(time.RFC3339Nano),
		"status":                    "ACCEPTED",
	}

	h.respondJSON(w, respPayload, http.StatusAccepted)
}

// isValidationError distinguishes claim validation failures from internal
// errors by the error text produced in ValidateClaim.
func isValidationError(err error) bool {
	msg := err.Error()
	for _, marker := range []string{
		"is required",
		"must be",
		"cannot be",
		"is not valid",
	} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// HealthCheck handles GET /health requests
func (h *ClaimHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	resp := map[string]interface{}{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339Nano),
		"service":   "ingestion-gateway",
	}

	h.respondJSON(w, resp, http.StatusOK)
}

// Metrics handles GET /metrics requests (basic metrics)
func (h *ClaimHandler) Metrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		h.respondError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		return
	}

	// Basic metrics - in production, use proper metrics library
	resp := map[string]interface{}{
		"timestamp": time.Now().Unix(),
		"service":   "ingestion-gateway",
		"version":   "1.0.0",
	}

	h.respondJSON(w, resp, http.StatusOK)
}

// respondJSON sends JSON response
func (h *ClaimHandler) respondJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Printf("HTTP Handler: Failed to encode JSON response: %v", err)
		// Cannot send error to client at this point
	}
}

// respondError sends error response
func (h *ClaimHandler) respondError(w http.ResponseWriter, message string, statusCode int) {
	errorResp := map[string]interface{}{
		"error":   message,
		"status":  statusCode,
		"message": http.StatusText(statusCode),
	}

	h.respondJSON(w, errorResp, statusCode)
}
