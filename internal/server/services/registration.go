package services

import (
	"context"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/common"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/dbx"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/logging"
	sc "github.com/mundobien2025/pulbot-impulsame-backend/internal/server/config"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/repositories/repomanager"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/storage"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/validation"
)

// newUserID generates row identifiers; a seam for deterministic tests.
var newUserID = uuid.NewString

// documentField binds a recognized payload field to its document type used
// in object keys and to the column the resulting path lands in.
type documentField struct {
	name    string
	docType string
	blob    func(*models.RegistrationPayload) *models.FileBlob
	path    func(*models.User) **string
}

var documentFields = []documentField{
	{"id_file", "cedula",
		func(p *models.RegistrationPayload) *models.FileBlob { return p.IDFile },
		func(u *models.User) **string { return &u.IDFilePath }},
	{"rif_file", "rif",
		func(p *models.RegistrationPayload) *models.FileBlob { return p.RIFFile },
		func(u *models.User) **string { return &u.RIFFilePath }},
	{"ref1_id", "ref1_cedula",
		func(p *models.RegistrationPayload) *models.FileBlob { return p.Ref1ID },
		func(u *models.User) **string { return &u.Ref1IDPath }},
	{"ref2_id", "ref2_cedula",
		func(p *models.RegistrationPayload) *models.FileBlob { return p.Ref2ID },
		func(u *models.User) **string { return &u.Ref2IDPath }},
	{"work_cert", "constancia",
		func(p *models.RegistrationPayload) *models.FileBlob { return p.WorkCert },
		func(u *models.User) **string { return &u.WorkCertPath }},
}

// RegistrationService runs the intake registration: documents are written
// to object storage under deterministic keys, then the row insert runs in
// an explicit transaction. Storage and the database share no atomic
// transaction, so undo is a manual saga: every written object joins a
// rollback set that is swept if the insert fails.
type RegistrationService struct {
	db     *sql.DB
	repos  repomanager.RepositoryManager
	store  storage.ObjectStore
	config *sc.Config
	logger logging.Logger
}

func NewRegistrationService(db *sql.DB, repos repomanager.RepositoryManager, store storage.ObjectStore, config *sc.Config, logger logging.Logger) *RegistrationService {
	return &RegistrationService{
		db:     db,
		repos:  repos,
		store:  store,
		config: config,
		logger: logger.With("module", "registration"),
	}
}

// RegistrationResult is the success outcome of one registration.
type RegistrationResult struct {
	UserID     string
	FolderURL  string
	FilesCount int
}

// Register validates the payload, checks uniqueness inside the transaction,
// uploads the embedded documents, and inserts the row. A conflict aborts
// before any object is written, so it needs no compensation. Any later
// failure rolls the transaction back and deletes every object written
// during this attempt before the error is reported.
func (s *RegistrationService) Register(ctx context.Context, p *models.RegistrationPayload) (*RegistrationResult, error) {
	if err := validation.ValidateRegistration(p); err != nil {
		return nil, err
	}

	now := timeNow()
	user := s.buildUser(p, now)
	folder := FolderName(now, user.NationalID, p.FullName)

	var rollback []models.UploadedObject

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repos.Users(tx)

		if exists, err := repo.ExistsByEmail(ctx, user.Email); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
		} else if exists {
			return &common.ConflictError{Field: "email"}
		}

		if exists, err := repo.ExistsByNationalID(ctx, user.NationalID); err != nil {
			return fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
		} else if exists {
			return &common.ConflictError{Field: "ci"}
		}

		if !s.config.UploadsDisabled {
			rollback = s.uploadDocuments(ctx, p, user, folder, now)
		}

		return repo.Create(ctx, user)
	})

	if err != nil {
		s.compensate(ctx, rollback)

		if errors.Is(err, common.ErrorConflict) {
			return nil, err
		}
		if errors.Is(err, common.ErrorBackendUnavailable) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", common.ErrorBackendUnavailable, err)
	}

	s.logger.Info(ctx, "user registered", "user_id", user.ID, "ci", user.NationalID, "files", len(rollback))

	return &RegistrationResult{
		UserID:     user.ID,
		FolderURL:  s.store.URL(folder) + "/",
		FilesCount: len(rollback),
	}, nil
}

// uploadDocuments writes each recognized document with non-empty data.
// Uploads are independent: a per-file failure is logged and the document's
// path column stays unset; only the relational insert is all-or-nothing.
// Every written key joins the returned rollback set.
func (s *RegistrationService) uploadDocuments(ctx context.Context, p *models.RegistrationPayload, user *models.User, folder string, now time.Time) []models.UploadedObject {
	var uploaded []models.UploadedObject

	for _, df := range documentFields {
		blob := df.blob(p)
		if blob == nil || blob.Data == "" {
			continue
		}

		data, err := base64.StdEncoding.DecodeString(blob.Data)
		if err != nil {
			s.logger.Warn(ctx, "document payload not valid base64", "field", df.name, "error", err)
			continue
		}

		contentType := blob.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}

		key := DocumentKey(now, folder, user.NationalID, df.docType, extensionForContentType(contentType))

		if err := s.store.Put(ctx, key, data, contentType); err != nil {
			s.logger.Error(ctx, "document upload failed", "field", df.name, "key", key, "error", err)
			continue
		}

		url := s.store.URL(key)
		*df.path(user) = &url
		uploaded = append(uploaded, models.UploadedObject{
			FormField:  df.name,
			ObjectKey:  key,
			StorageURL: url,
		})
	}

	if len(uploaded) > 0 {
		user.FilesUploaded = true
		ts := now.UTC()
		user.FilesUploadedAt = &ts
	}

	return uploaded
}

// compensate deletes every object written during a failed attempt. Each
// deletion is attempted independently; a failure is logged and the sweep
// continues, never escalating to the caller.
func (s *RegistrationService) compensate(ctx context.Context, uploaded []models.UploadedObject) {
	for _, obj := range uploaded {
		if err := s.store.Delete(ctx, obj.ObjectKey); err != nil {
			s.logger.Error(ctx, "compensating delete failed", "key", obj.ObjectKey, "error", err)
			continue
		}
		s.logger.Info(ctx, "compensating delete", "key", obj.ObjectKey, "field", obj.FormField)
	}
}

// GetByNationalID looks up a committed registration row.
func (s *RegistrationService) GetByNationalID(ctx context.Context, nationalID string) (*models.User, error) {
	return s.repos.Users(s.db).GetByNationalID(ctx, nationalID)
}

func (s *RegistrationService) buildUser(p *models.RegistrationPayload, now time.Time) *models.User {
	user := &models.User{
		ID:            newUserID(),
		Email:         strings.ToLower(strings.TrimSpace(p.Email)),
		FullName:      p.FullName,
		BirthDate:     p.BirthDate,
		NationalID:    strings.TrimSpace(p.NationalID),
		Phone1:        p.Phone1,
		Phone2:        p.Phone2,
		Address:       p.Address,
		Instagram:     p.Instagram,
		Facebook:      p.Facebook,
		TikTok:        p.TikTok,
		Ref1Name:      p.Ref1Name,
		Ref1Relation:  p.Ref1Relation,
		Ref2Name:      p.Ref2Name,
		Ref2Relation:  p.Ref2Relation,
		MonthlyIncome: p.MonthlyIncome,
		ActivityType:  p.ActivityType,
		Position:      p.Position,
		CreatedAt:     now,
	}

	if user.BirthDate == "" {
		user.BirthDate = "1970-01-01"
	}
	if user.Ref1Relation == "" {
		user.Ref1Relation = "otro"
	}
	if user.Ref2Relation == "" {
		user.Ref2Relation = "otro"
	}
	if user.ActivityType == "" {
		user.ActivityType = "dependencia"
	}

	return user
}
