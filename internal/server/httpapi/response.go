package httpapi

import (
	"encoding/json"
	"net/http"
	"time"
)

// Envelope is the uniform response body for every endpoint, success or
// error. Timestamp is ISO-8601 UTC.
type Envelope struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	Data        any    `json:"data,omitempty"`
	ErrorCode   string `json:"error_code,omitempty"`
	Environment string `json:"environment"`
	Timestamp   string `json:"timestamp"`
	Details     any    `json:"details,omitempty"`
	UserID      string `json:"user_id,omitempty"`
}

// Error codes surfaced to clients. Internal detail stays in the logs.
const (
	codeInvalidJSON         = "INVALID_JSON"
	codeMissingBody         = "MISSING_BODY"
	codeTooManyFiles        = "TOO_MANY_FILES"
	codeValidationError     = "VALIDATION_ERROR"
	codeDuplicateUser       = "DUPLICATE_USER"
	codeBackendError        = "BACKEND_ERROR"
	codeBucketNotConfigured = "BUCKET_NOT_CONFIGURED"
	codeNotFound            = "NOT_FOUND"
	codeInternalError       = "INTERNAL_ERROR"
)

// corsHeaders is the fixed header set carried by every response, preflight
// included.
var corsHeaders = map[string]string{
	"Access-Control-Allow-Origin":  "*",
	"Access-Control-Allow-Methods": "POST, GET, OPTIONS",
	"Access-Control-Allow-Headers": "Content-Type, Authorization",
}

func setCORS(w http.ResponseWriter) {
	for k, v := range corsHeaders {
		w.Header().Set(k, v)
	}
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, body Envelope) {
	body.Environment = h.environment
	body.Timestamp = time.Now().UTC().Format(time.RFC3339)

	setCORS(w)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func (h *Handlers) writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	h.writeJSON(w, status, Envelope{Success: true, Message: message, Data: data})
}

func (h *Handlers) writeError(w http.ResponseWriter, status int, message, code string, details any) {
	h.writeJSON(w, status, Envelope{Success: false, Message: message, ErrorCode: code, Details: details})
}
