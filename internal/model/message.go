package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// DirectMessage is one message of a 1:1 parent↔caregiver conversation.
// The conversation itself is not a stored entity: its identity is the
// canonical key and its participant set is defined by the first message
// written under that key. Messages are immutable after creation except for
// ReadBy and Attachments (attachments only shrink, via retention).
type DirectMessage struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConversationKey string         `json:"conversation_id" gorm:"size:120;not null;index:idx_conversation_created"`
	SenderID        uuid.UUID      `json:"sender_id" gorm:"type:uuid;not null;index"`
	RecipientID     uuid.UUID      `json:"recipient_id" gorm:"type:uuid;not null"`
	Participants    pq.StringArray `json:"participants" gorm:"type:text[];not null"`
	Body            string         `json:"body" gorm:"type:text"`
	ReadBy          pq.StringArray `json:"read_by" gorm:"type:text[];not null;default:'{}'"`
	CreatedAt       time.Time      `json:"created_at" gorm:"index:idx_conversation_created"`
	UpdatedAt       time.Time      `json:"updated_at"`

	// Relations
	Attachments []Attachment `json:"attachments" gorm:"polymorphic:Owner;polymorphicValue:direct_message"`
}

// HasParticipant reports whether userID belongs to the message's participant pair.
func (m *DirectMessage) HasParticipant(userID uuid.UUID) bool {
	return containsID(m.Participants, userID)
}

func containsID(set []string, id uuid.UUID) bool {
	s := id.String()
	for _, v := range set {
		if v == s {
			return true
		}
	}
	return false
}
