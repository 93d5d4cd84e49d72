package repository

import (
	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MessageRepository handles database operations for direct messages and
// their attachments. Set mutations (read_by) are single-statement array
// updates, so each row change is atomic without any in-process locking.
type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Create inserts a new message together with its attachment rows
func (r *MessageRepository) Create(msg *model.DirectMessage) error {
	if err := r.db.Create(msg).Error; err != nil {
		return apperr.Internal("failed to store message", err)
	}
	return nil
}

// ListByConversation returns a conversation's messages oldest-first
func (r *MessageRepository) ListByConversation(key string) ([]model.DirectMessage, error) {
	messages := []model.DirectMessage{}
	err := r.db.
		Preload("Attachments").
		Where("conversation_key = ?", key).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load conversation", err)
	}
	return messages, nil
}

// LatestPerConversation returns the newest message of every conversation the
// user participates in. Ordering across conversations is left to the caller.
func (r *MessageRepository) LatestPerConversation(userID uuid.UUID) ([]model.DirectMessage, error) {
	messages := []model.DirectMessage{}
	err := r.db.
		Preload("Attachments").
		Select("DISTINCT ON (conversation_key) *").
		Where("? = ANY(participants)", userID.String()).
		Order("conversation_key, created_at DESC").
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load conversation summaries", err)
	}
	return messages, nil
}

// HasConversation reports whether any message exists under the key
func (r *MessageRepository) HasConversation(key string) (bool, error) {
	var count int64
	err := r.db.Model(&model.DirectMessage{}).
		Where("conversation_key = ?", key).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check conversation", err)
	}
	return count > 0, nil
}

// IsParticipant reports whether any message under the key lists the user as
// a participant
func (r *MessageRepository) IsParticipant(key string, userID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.Model(&model.DirectMessage{}).
		Where("conversation_key = ? AND ? = ANY(participants)", key, userID.String()).
		Count(&count).Error
	if err != nil {
		return false, apperr.Internal("failed to check participation", err)
	}
	return count > 0, nil
}

// MarkRead adds the user to read_by on every message of the conversation not
// already marked. The NOT ANY guard makes repeated calls no-ops.
func (r *MessageRepository) MarkRead(key string, userID uuid.UUID) error {
	err := r.db.Model(&model.DirectMessage{}).
		Where("conversation_key = ? AND NOT (? = ANY(read_by))", key, userID.String()).
		Update("read_by", gorm.Expr("array_append(read_by, ?)", userID.String())).Error
	if err != nil {
		return apperr.Internal("failed to mark conversation read", err)
	}
	return nil
}

// DeleteConversationFor removes the conversation's messages where the user
// is a participant and returns the attachment records of the deleted rows so
// the caller can clean up stored objects. Messages under a colliding key
// that do not list the user stay untouched.
func (r *MessageRepository) DeleteConversationFor(key string, userID uuid.UUID) ([]model.Attachment, error) {
	var messages []model.DirectMessage
	err := r.db.
		Preload("Attachments").
		Where("conversation_key = ? AND ? = ANY(participants)", key, userID.String()).
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load conversation for deletion", err)
	}
	if len(messages) == 0 {
		return nil, nil
	}

	messageIDs := make([]uuid.UUID, 0, len(messages))
	attachments := []model.Attachment{}
	for _, m := range messages {
		messageIDs = append(messageIDs, m.ID)
		attachments = append(attachments, m.Attachments...)
	}

	err = r.db.
		Where("owner_type = ? AND owner_id IN ?", model.AttachmentOwnerDirectMessage, messageIDs).
		Delete(&model.Attachment{}).Error
	if err != nil {
		return nil, apperr.Internal("failed to delete attachments", err)
	}

	err = r.db.Where("id IN ?", messageIDs).Delete(&model.DirectMessage{}).Error
	if err != nil {
		return nil, apperr.Internal("failed to delete conversation", err)
	}

	return attachments, nil
}

// DistinctPartners returns every user the given user has exchanged direct
// messages with, newest contact first.
func (r *MessageRepository) DistinctPartners(userID uuid.UUID) ([]model.PartnerContact, error) {
	partners := []model.PartnerContact{}
	err := r.db.Raw(`
		SELECT CASE WHEN sender_id = @id THEN recipient_id ELSE sender_id END AS partner_id,
		       MAX(created_at) AS last_contact_at
		FROM direct_messages
		WHERE @ids = ANY(participants)
		GROUP BY partner_id
		ORDER BY last_contact_at DESC`,
		map[string]interface{}{"id": userID, "ids": userID.String()},
	).Scan(&partners).Error
	if err != nil {
		return nil, apperr.Internal("failed to load message partners", err)
	}
	return partners, nil
}

// ListWithAttachments returns every direct message that still carries at
// least one attachment. Used by the retention sweep.
func (r *MessageRepository) ListWithAttachments() ([]model.DirectMessage, error) {
	messages := []model.DirectMessage{}
	err := r.db.
		Preload("Attachments").
		Where("EXISTS (SELECT 1 FROM attachments a WHERE a.owner_type = ? AND a.owner_id = direct_messages.id)",
			model.AttachmentOwnerDirectMessage).
		Find(&messages).Error
	if err != nil {
		return nil, apperr.Internal("failed to load messages with attachments", err)
	}
	return messages, nil
}

// DeleteAttachments hard-deletes attachment rows by id
func (r *MessageRepository) DeleteAttachments(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	err := r.db.Where("id IN ?", ids).Delete(&model.Attachment{}).Error
	if err != nil {
		return apperr.Internal("failed to delete attachments", err)
	}
	return nil
}
