package service

import (
	"context"
	"log"
	"time"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/google/uuid"
)

// RetentionService removes image attachments older than the configured
// retention window. Non-image attachments are kept indefinitely.
type RetentionService struct {
	messages    MessageStore
	groups      GroupStore
	attachments *AttachmentService
	days        int
}

func NewRetentionService(messages MessageStore, groups GroupStore, attachments *AttachmentService, days int) *RetentionService {
	return &RetentionService{
		messages:    messages,
		groups:      groups,
		attachments: attachments,
		days:        days,
	}
}

// Sweep scans every message carrying attachments and deletes expired images,
// object first, database row second. Failures are logged per message and the
// sweep keeps going.
func (s *RetentionService) Sweep(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -s.days)
	log.Printf("📦 Retention sweep started, removing images older than %s", cutoff.Format(time.RFC3339))

	removed := 0

	direct, err := s.messages.ListWithAttachments()
	if err != nil {
		log.Printf("⚠️ Retention sweep: failed to list direct messages: %v", err)
	} else {
		for _, msg := range direct {
			expired := expiredImages(msg.Attachments, msg.CreatedAt, cutoff)
			if len(expired) == 0 {
				continue
			}
			ids := s.removeObjects(ctx, expired)
			if len(ids) == 0 {
				continue
			}
			if err := s.messages.DeleteAttachments(ids); err != nil {
				log.Printf("⚠️ Retention sweep: failed to delete attachment rows for message %s: %v", msg.ID, err)
				continue
			}
			removed += len(ids)
		}
	}

	group, err := s.groups.ListMessagesWithAttachments()
	if err != nil {
		log.Printf("⚠️ Retention sweep: failed to list group messages: %v", err)
	} else {
		for _, msg := range group {
			expired := expiredImages(msg.Attachments, msg.CreatedAt, cutoff)
			if len(expired) == 0 {
				continue
			}
			ids := s.removeObjects(ctx, expired)
			if len(ids) == 0 {
				continue
			}
			if err := s.groups.DeleteMessageAttachments(ids); err != nil {
				log.Printf("⚠️ Retention sweep: failed to delete attachment rows for group message %s: %v", msg.ID, err)
				continue
			}
			removed += len(ids)
		}
	}

	log.Printf("📦 Retention sweep finished, removed %d attachments", removed)
}

// expiredImages filters to image attachments whose effective time is before
// the cutoff. Attachments with no upload timestamp fall back to the
// message's created_at.
func expiredImages(attachments []model.Attachment, messageCreatedAt, cutoff time.Time) []model.Attachment {
	expired := []model.Attachment{}
	for _, att := range attachments {
		if !att.IsImage() {
			continue
		}
		if att.EffectiveTime(messageCreatedAt).Before(cutoff) {
			expired = append(expired, att)
		}
	}
	return expired
}

// removeObjects deletes the stored objects and returns the ids whose objects
// are gone. An attachment whose object delete failed stays in the database
// for the next sweep.
func (s *RetentionService) removeObjects(ctx context.Context, expired []model.Attachment) []uuid.UUID {
	ids := []uuid.UUID{}
	for _, att := range expired {
		if err := s.attachments.Remove(ctx, att); err != nil {
			continue
		}
		ids = append(ids, att.ID)
	}
	return ids
}
