package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"time"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
)

// mimeExtensions maps declared content types to a file extension, used when
// the original file name carries none.
var mimeExtensions = map[string]string{
	"image/jpeg":         ".jpg",
	"image/png":          ".png",
	"image/gif":          ".gif",
	"image/webp":         ".webp",
	"image/svg+xml":      ".svg",
	"video/mp4":          ".mp4",
	"video/webm":         ".webm",
	"video/quicktime":    ".mov",
	"audio/mpeg":         ".mp3",
	"audio/ogg":          ".ogg",
	"audio/wav":          ".wav",
	"application/pdf":    ".pdf",
	"application/msword": ".doc",
	"application/zip":    ".zip",
}

// AttachmentService decodes inbound file payloads and delegates the bytes to
// the content store. Every stored file gets a fresh random object name under
// a scope-qualified path; identical uploads are stored twice on purpose (no
// content addressing).
type AttachmentService struct {
	store ObjectStore
}

func NewAttachmentService(store ObjectStore) *AttachmentService {
	return &AttachmentService{store: store}
}

// Store decodes the payload and persists it under the given scope. An empty
// payload is a no-op and returns nil without error, so callers can pass
// request attachments through unfiltered.
func (s *AttachmentService) Store(ctx context.Context, upload model.AttachmentUpload, scope string) (*model.Attachment, error) {
	content := strings.TrimSpace(upload.Content)
	if content == "" {
		return nil, nil
	}

	// Tolerate data-URI payloads ("data:image/png;base64,....")
	if idx := strings.Index(content, ";base64,"); idx >= 0 {
		content = content[idx+len(";base64,"):]
	}

	data, err := base64.StdEncoding.DecodeString(content)
	if err != nil {
		return nil, apperr.InvalidArg("attachment content is not valid base64")
	}

	ext := strings.ToLower(filepath.Ext(upload.FileName))
	if ext == "" {
		ext = mimeExtensions[strings.ToLower(upload.MimeType)]
	}

	objectKey := fmt.Sprintf("%s/%s%s", scope, uuid.New().String(), ext)

	url, err := s.store.Put(ctx, objectKey, data, upload.MimeType)
	if err != nil {
		return nil, apperr.Internal("failed to store attachment", err)
	}

	now := time.Now().UTC()
	return &model.Attachment{
		ObjectKey:  objectKey,
		URL:        url,
		FileName:   upload.FileName,
		MimeType:   upload.MimeType,
		UploadedAt: &now,
	}, nil
}

// Remove deletes the stored object behind an attachment record. An
// already-gone object counts as success. The failure is logged here once;
// callers decide whether it matters (conversation deletion ignores it, the
// retention sweep keeps the row for a later pass).
func (s *AttachmentService) Remove(ctx context.Context, att model.Attachment) error {
	if att.ObjectKey == "" {
		return nil
	}
	if err := s.store.Delete(ctx, att.ObjectKey); err != nil {
		log.Printf("⚠️ Failed to delete attachment object %s: %v", att.ObjectKey, err)
		return err
	}
	return nil
}
