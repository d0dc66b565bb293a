package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/mundobien2025/pulbot-impulsame-backend/internal/common"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/logging"
	sc "github.com/mundobien2025/pulbot-impulsame-backend/internal/server/config"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/models"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/storage"
	"github.com/mundobien2025/pulbot-impulsame-backend/internal/server/validation"
)

// UploadService issues presigned upload grants. It has no relational side
// effects; issuing a grant reserves nothing beyond the randomness of the
// key's id component.
type UploadService struct {
	store  storage.ObjectStore
	config *sc.Config
	logger logging.Logger
}

func NewUploadService(store storage.ObjectStore, config *sc.Config, logger logging.Logger) *UploadService {
	return &UploadService{
		store:  store,
		config: config,
		logger: logger.With("module", "uploads"),
	}
}

// RequestUploadURLs validates the batch and returns one grant per file,
// each scoped to its exact key, content type and declared size. The batch
// is atomic: any backend failure returns zero grants.
func (s *UploadService) RequestUploadURLs(ctx context.Context, files []models.FileUploadRequest) ([]models.UploadGrant, error) {
	if err := validation.ValidateFileBatch(files); err != nil {
		return nil, err
	}

	ttl := s.config.PresignTTL
	grants := make([]models.UploadGrant, 0, len(files))

	for _, f := range files {
		key := UploadObjectKey(f.FieldName, f.FileName)

		url, err := s.store.PresignPut(ctx, key, f.ContentType, f.FileSize, ttl)
		if err != nil {
			s.logger.Error(ctx, "presign failed", "key", key, "error", err)
			if errors.Is(err, storage.ErrBucketNotConfigured) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: failed to generate presigned URL", common.ErrorBackendUnavailable)
		}

		grants = append(grants, models.UploadGrant{
			FieldName:   f.FieldName,
			FileName:    f.FileName,
			ObjectKey:   key,
			UploadURL:   url,
			ExpiresIn:   int64(ttl.Seconds()),
			ContentType: f.ContentType,
			MaxFileSize: f.FileSize,
		})
	}

	s.logger.Info(ctx, "upload grants issued", "count", len(grants))
	return grants, nil
}
