package services

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
)

// genericContentType is what most clients send when they do not know the type.
const genericContentType = "application/octet-stream"

type MediaService struct {
	mediaRepo models.MediaRepo
	logger    *slog.Logger
	now       func() time.Time
}

func NewMediaService(mediaRepo models.MediaRepo, logger *slog.Logger) *MediaService {
	return &MediaService{
		mediaRepo: mediaRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// Upload stores an attachment in the shared media collection and returns its
// id. When the client sent no usable content type it is detected from the
// payload.
func (ms *MediaService) Upload(ctx context.Context, kind models.MediaKind, ownerID, filename, contentType string, content []byte) (string, error) {
	ownerID = helpers.StringTrim(ownerID)
	if ownerID == "" {
		return "", helpers.RejectedInput(kind.OwnerField, kind.OwnerField+" is required")
	}
	if ct := strings.TrimSpace(contentType); ct == "" || ct == genericContentType {
		contentType = mimetype.Detect(content).String()
	}

	file := models.NewMediaFile(kind, ownerID, filename, contentType, content, ms.now())
	if err := helpers.CleanInput(file.Fields()); err != nil {
		return "", err
	}

	id, err := ms.mediaRepo.InsertMedia(ctx, file)
	if err != nil {
		return "", err
	}

	ms.logger.Info("Media uploaded",
		"id", id.Hex(),
		"media_type", file.MediaType,
		kind.OwnerField, file.OwnerID(),
		"bytes", len(file.Content),
	)
	return helpers.EncodeObjectID(id), nil
}

// Download returns the attachment only if it was stored under kind's category.
func (ms *MediaService) Download(ctx context.Context, kind models.MediaKind, id string) (*models.MediaFile, error) {
	oid, err := helpers.ParseObjectID(id)
	if err != nil {
		return nil, err
	}

	file, err := ms.mediaRepo.FindMedia(ctx, oid, kind.Category)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, helpers.NotFound(kind.Noun)
	}
	return file, nil
}
