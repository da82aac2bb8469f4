package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joshua-takyi/eventhub/internal/helpers"
	"github.com/joshua-takyi/eventhub/internal/models"
	"github.com/joshua-takyi/eventhub/internal/services"
)

// multipartOverhead leaves room for boundaries and part headers on top of the
// payload limit.
const multipartOverhead = 1 << 20

// UploadMedia reads the "file" part of a multipart form into memory and stores
// it under kind. The owner id is taken from the path parameter named after
// kind.OwnerField.
func UploadMedia(ms *services.MediaService, kind models.MediaKind, maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID := c.Param(kind.OwnerField)

		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
		fileHeader, err := c.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				c.JSON(http.StatusRequestEntityTooLarge, helpers.ErrorResponse(fmt.Sprintf("file exceeds %d bytes", maxBytes)))
				return
			}
			c.JSON(http.StatusBadRequest, helpers.ErrorResponse("file is required"))
			return
		}
		if fileHeader.Size > maxBytes {
			c.JSON(http.StatusRequestEntityTooLarge, helpers.ErrorResponse(fmt.Sprintf("file exceeds %d bytes", maxBytes)))
			return
		}

		f, err := fileHeader.Open()
		if err != nil {
			_ = c.Error(fmt.Errorf("failed to open uploaded file: %w", err))
			return
		}
		defer f.Close()

		content, err := io.ReadAll(f)
		if err != nil {
			_ = c.Error(fmt.Errorf("failed to read uploaded file: %w", err))
			return
		}

		id, err := ms.Upload(c.Request.Context(), kind, ownerID, fileHeader.Filename, fileHeader.Header.Get("Content-Type"), content)
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.JSON(http.StatusCreated, helpers.CreatedResponse{
			Message: kind.Label + " uploaded",
			ID:      id,
		})
	}
}

// DownloadMedia streams a stored attachment back with its original content
// type and filename.
func DownloadMedia(ms *services.MediaService, kind models.MediaKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		file, err := ms.Download(c.Request.Context(), kind, c.Param("id"))
		if err != nil {
			_ = c.Error(err)
			return
		}

		c.DataFromReader(http.StatusOK, int64(len(file.Content)), file.ContentType, bytes.NewReader(file.Content), map[string]string{
			"Content-Disposition": "attachment; filename=" + file.Filename,
		})
	}
}
