// Package httpapi exposes the intake operations over JSON/HTTP: presigned
// upload grants and user registration, plus a health check. Every response
// uses the shared envelope and carries the fixed CORS header set.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/common"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/logging"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/services"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/storage"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/validation"
)

// Handlers wires the intake endpoints to their services.
type Handlers struct {
	uploads      *services.UploadService
	registration *services.RegistrationService
	logger       logging.Logger
	environment  string
	bucket       string
}

func NewHandlers(uploads *services.UploadService, registration *services.RegistrationService, logger logging.Logger, environment, bucket string) *Handlers {
	return &Handlers{
		uploads:      uploads,
		registration: registration,
		logger:       logger.With("module", "httpapi"),
		environment:  environment,
		bucket:       bucket,
	}
}

// Register mounts the intake endpoints on the router.
func (h *Handlers) Register(r chi.Router) {
	r.Post("/files/upload-urls", h.HandleUploadURLs)
	r.Post("/users/register", h.HandleRegister)
	r.Get("/users/{ci}", h.HandleGetUser)
	r.Get("/ping", h.HandlePing)
}

type uploadURLsRequest struct {
	Files []models.FileUploadRequest `json:"files"`
}

// HandleUploadURLs handles POST /files/upload-urls.
func (h *Handlers) HandleUploadURLs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req uploadURLsRequest
	if !h.decodeBody(w, r, &req) {
		return
	}

	grants, err := h.uploads.RequestUploadURLs(ctx, req.Files)
	if err != nil {
		h.writeUploadError(w, r, err)
		return
	}

	h.writeSuccess(w, http.StatusOK, "Upload URLs generated successfully", map[string]any{
		"upload_urls": grants,
		"bucket_name": h.bucket,
		"total_files": len(grants),
	})
}

func (h *Handlers) writeUploadError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var tooMany *validation.ErrTooManyFiles
	var violations validation.Violations

	switch {
	case errors.As(err, &tooMany):
		h.writeError(w, http.StatusBadRequest, tooMany.Error(), codeTooManyFiles, nil)
	case errors.As(err, &violations):
		h.writeError(w, http.StatusBadRequest, "Validation errors found", codeValidationError,
			map[string]any{"validation_errors": violations})
	case errors.Is(err, storage.ErrBucketNotConfigured):
		h.writeError(w, http.StatusInternalServerError, "Storage bucket is not configured", codeBucketNotConfigured, nil)
	case errors.Is(err, common.ErrorBackendUnavailable):
		h.logger.Error(ctx, "presigned URL issuance failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Failed to generate presigned URL", codeBackendError, nil)
	default:
		h.logger.Error(ctx, "unexpected error issuing upload URLs", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", codeInternalError, nil)
	}
}

// HandleRegister handles POST /users/register.
func (h *Handlers) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var payload models.RegistrationPayload
	if !h.decodeBody(w, r, &payload) {
		return
	}

	res, err := h.registration.Register(ctx, &payload)
	if err != nil {
		h.writeRegistrationError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, Envelope{
		Success: true,
		Message: "User registered successfully",
		UserID:  res.UserID,
		Data: map[string]any{
			"user_id":     res.UserID,
			"s3_location": res.FolderURL,
			"total_files": res.FilesCount,
		},
	})
}

func (h *Handlers) writeRegistrationError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()

	var violations validation.Violations
	var conflict *common.ConflictError

	switch {
	case errors.As(err, &violations):
		h.writeError(w, http.StatusBadRequest, "Validation errors found", codeValidationError,
			map[string]any{"validation_errors": violations})
	case errors.As(err, &conflict):
		h.writeError(w, http.StatusConflict, conflict.Error(), codeDuplicateUser,
			map[string]any{"field": conflict.Field})
	case errors.Is(err, common.ErrorBackendUnavailable):
		h.logger.Error(ctx, "registration failed", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Registration failed", codeBackendError, nil)
	default:
		h.logger.Error(ctx, "unexpected registration error", "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", codeInternalError, nil)
	}
}

// HandleGetUser handles GET /users/{ci}; it reports registration status and
// which documents have been stored.
func (h *Handlers) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ci := chi.URLParam(r, "ci")

	user, err := h.registration.GetByNationalID(ctx, ci)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			h.writeError(w, http.StatusNotFound, "User not found", codeNotFound, nil)
			return
		}
		h.logger.Error(ctx, "user lookup failed", "ci", ci, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error", codeInternalError, nil)
		return
	}

	h.writeSuccess(w, http.StatusOK, "User found", map[string]any{
		"user_id":        user.ID,
		"email":          user.Email,
		"full_name":      user.FullName,
		"ci":             user.NationalID,
		"files_uploaded": user.FilesUploaded,
	})
}

// HandlePing handles GET /ping.
func (h *Handlers) HandlePing(w http.ResponseWriter, r *http.Request) {
	h.writeSuccess(w, http.StatusOK, "pong", nil)
}

// maxRequestBody caps inbound bodies: five 10 MiB documents survive base64
// encoding (4/3 inflation) plus the text fields with room to spare.
const maxRequestBody = 70 << 20

// decodeBody reads and decodes a JSON body, writing the appropriate error
// envelope on failure.
func (h *Handlers) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", codeValidationError, nil)
			return false
		}
		h.writeError(w, http.StatusBadRequest, "Request body is required", codeMissingBody, nil)
		return false
	}
	if len(body) == 0 {
		h.writeError(w, http.StatusBadRequest, "Request body is required", codeMissingBody, nil)
		return false
	}

	if err := json.Unmarshal(body, dst); err != nil {
		h.writeError(w, http.StatusBadRequest, "Invalid JSON in request body", codeInvalidJSON, nil)
		return false
	}

	return true
}
