package model

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Attachment owner types (polymorphic association)
const (
	AttachmentOwnerDirectMessage = "direct_message"
	AttachmentOwnerGroupMessage  = "group_message"
)

// imageExtensions is the fallback set used when an attachment carries no
// usable MIME type.
var imageExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	".bmp":  true,
	".svg":  true,
	".heic": true,
	".heif": true,
}

// Attachment represents a stored file attached to exactly one message.
// UploadedAt may be null for records migrated from the legacy store; the
// retention sweep then falls back to the owning message's creation time.
type Attachment struct {
	ID         uuid.UUID  `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	OwnerID    uuid.UUID  `json:"-" gorm:"type:uuid;not null;index:idx_attachment_owner"`
	OwnerType  string     `json:"-" gorm:"size:30;not null;index:idx_attachment_owner"`
	ObjectKey  string     `json:"object_key" gorm:"size:500;not null"`
	URL        string     `json:"url" gorm:"size:1000;not null"`
	FileName   string     `json:"file_name" gorm:"size:255"`
	MimeType   string     `json:"mime_type" gorm:"size:100"`
	UploadedAt *time.Time `json:"uploaded_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// IsImage classifies the attachment by declared content type, falling back
// to the file extension when no MIME type was recorded.
func (a *Attachment) IsImage() bool {
	if strings.HasPrefix(strings.ToLower(a.MimeType), "image/") {
		return true
	}
	ext := strings.ToLower(filepath.Ext(a.FileName))
	return imageExtensions[ext]
}

// EffectiveTime is the timestamp retention compares against the window:
// the attachment's own upload time when present, else the owning message's
// creation time.
func (a *Attachment) EffectiveTime(messageCreatedAt time.Time) time.Time {
	if a.UploadedAt != nil && !a.UploadedAt.IsZero() {
		return *a.UploadedAt
	}
	return messageCreatedAt
}
