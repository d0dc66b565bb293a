// Package validation checks inbound upload-slot batches and registration
// payloads against the intake policy. Violations accumulate per item so the
// caller sees every problem in a batch, not just the first.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/common"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
)

const (
	// MaxFilesPerBatch caps one presigned-URL request.
	MaxFilesPerBatch = 5

	// MaxFileSize is the per-file size cap (10 MiB).
	MaxFileSize = 10 * 1024 * 1024
)

// AllowedFileTypes maps permitted extensions to their canonical MIME type.
// The declared content type must match exactly; no wildcard or alias
// matching.
var AllowedFileTypes = map[string]string{
	"pdf":  "application/pdf",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"doc":  "application/msword",
	"docx": "application/vnd.openxmlformats-officedocument.wordprocessingml.document",
}

// Violation is one field-level problem, indexed by the position of the
// offending file in the request batch.
type Violation struct {
	FileIndex int    `json:"file_index"`
	Field     string `json:"field"`
	Message   string `json:"message"`
}

// Violations implements error so validators can hand a batch of problems
// across the service boundary.
type Violations []Violation

func (v Violations) Error() string {
	if len(v) == 1 {
		return fmt.Sprintf("validation failed: %s: %s", v[0].Field, v[0].Message)
	}
	return fmt.Sprintf("validation failed: %d violations", len(v))
}

func (v Violations) Is(target error) bool {
	return target == common.ErrorValidation
}

// ErrTooManyFiles is returned before any per-file validation when the batch
// exceeds MaxFilesPerBatch.
type ErrTooManyFiles struct {
	Count int
}

func (e *ErrTooManyFiles) Error() string {
	return fmt.Sprintf("maximum %d files allowed per request, got %d", MaxFilesPerBatch, e.Count)
}

// allowedExtensions returns the permitted extensions in stable order, for
// error messages.
func allowedExtensions() []string {
	exts := make([]string, 0, len(AllowedFileTypes))
	for ext := range AllowedFileTypes {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}

// validateFileInfo applies the per-file rules in order and returns the first
// violation for this file, or nil.
func validateFileInfo(f models.FileUploadRequest, index int) *Violation {
	switch {
	case f.FieldName == "":
		return &Violation{FileIndex: index, Field: "field_name", Message: "field 'field_name' is required"}
	case f.FileName == "":
		return &Violation{FileIndex: index, Field: "file_name", Message: "field 'file_name' is required"}
	case f.FileSize == 0:
		return &Violation{FileIndex: index, Field: "file_size", Message: "field 'file_size' is required"}
	case f.ContentType == "":
		return &Violation{FileIndex: index, Field: "content_type", Message: "field 'content_type' is required"}
	}

	if f.FileSize < 0 {
		return &Violation{FileIndex: index, Field: "file_size", Message: "file size must be a positive integer"}
	}

	if !strings.Contains(f.FileName, ".") {
		return &Violation{FileIndex: index, Field: "file_name", Message: "file name must include file extension"}
	}

	ext := strings.ToLower(f.FileName[strings.LastIndex(f.FileName, ".")+1:])
	expected, ok := AllowedFileTypes[ext]
	if !ok {
		return &Violation{
			FileIndex: index,
			Field:     "file_name",
			Message:   fmt.Sprintf("file type '%s' not allowed, allowed types: %s", ext, strings.Join(allowedExtensions(), ", ")),
		}
	}

	if f.FileSize > MaxFileSize {
		return &Violation{
			FileIndex: index,
			Field:     "file_size",
			Message:   fmt.Sprintf("file size exceeds maximum allowed size of %d bytes", MaxFileSize),
		}
	}

	if f.ContentType != expected {
		return &Violation{
			FileIndex: index,
			Field:     "content_type",
			Message:   fmt.Sprintf("invalid content type, expected '%s' for .%s files", expected, ext),
		}
	}

	return nil
}

// ValidateFileBatch checks a presigned-URL request batch. The size cap is
// enforced before any per-file rule runs. Per-file validation is fail-soft:
// a violation is recorded and the next file is checked. The batch as a whole
// is fail-hard: any violation means no grants are issued for any file.
func ValidateFileBatch(files []models.FileUploadRequest) error {
	if len(files) == 0 {
		return Violations{{Field: "files", Message: "files array is required and must contain at least one file"}}
	}
	if len(files) > MaxFilesPerBatch {
		return &ErrTooManyFiles{Count: len(files)}
	}

	var violations Violations
	for i, f := range files {
		if v := validateFileInfo(f, i); v != nil {
			violations = append(violations, *v)
		}
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}

// requiredRegistrationFields lists the payload fields that must be present,
// in report order.
var requiredRegistrationFields = []string{"email", "full_name", "ci", "phone1"}

// ValidateRegistration checks the required registration fields. Missing
// fields are reported jointly as one violation listing every missing name.
func ValidateRegistration(p *models.RegistrationPayload) error {
	values := map[string]string{
		"email":     p.Email,
		"full_name": p.FullName,
		"ci":        p.NationalID,
		"phone1":    p.Phone1,
	}

	var missing []string
	for _, name := range requiredRegistrationFields {
		if strings.TrimSpace(values[name]) == "" {
			missing = append(missing, name)
		}
	}

	var violations Violations
	if len(missing) > 0 {
		violations = append(violations, Violation{
			Field:   strings.Join(missing, ", "),
			Message: fmt.Sprintf("missing required fields: %s", strings.Join(missing, ", ")),
		})
	}

	if p.Email != "" && !strings.Contains(p.Email, "@") {
		violations = append(violations, Violation{
			Field:   "email",
			Message: "email must contain '@'",
		})
	}

	if len(violations) > 0 {
		return violations
	}
	return nil
}
