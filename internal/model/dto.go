package model

import (
	"time"

	"github.com/google/uuid"
)

// ========== Message DTOs ==========

// AttachmentUpload is an inbound file payload: base64 content plus whatever
// the client knows about the file. A data-URI prefix on Content is tolerated.
type AttachmentUpload struct {
	Content  string `json:"content"`
	FileName string `json:"file_name"`
	MimeType string `json:"mime_type"`
}

type SendMessageRequest struct {
	RecipientID uuid.UUID `json:"recipient_id" binding:"required"`
	Body        string    `json:"body"`
	// ConversationID is accepted for client convenience; the canonical key
	// derived from the participant pair always wins.
	ConversationID string             `json:"conversation_id"`
	Attachments    []AttachmentUpload `json:"attachments,omitempty"`
}

type SendGroupMessageRequest struct {
	Body        string             `json:"body"`
	Attachments []AttachmentUpload `json:"attachments,omitempty"`
}

// ========== Group DTOs ==========

type CreateGroupRequest struct {
	Name        string      `json:"name" binding:"required,min=2,max=100"`
	Description string      `json:"description" binding:"max=2000"`
	CareTimes   string      `json:"care_times" binding:"max=255"`
	ParentIDs   []uuid.UUID `json:"parent_ids"`
}

type UpdateParticipantsRequest struct {
	Add    []uuid.UUID `json:"add"`
	Remove []uuid.UUID `json:"remove"`
}

// ParticipantSuggestion is one entry of a caregiver's suggestion list:
// contact-book entries unioned with parents from direct-message history.
type ParticipantSuggestion struct {
	ParentID      uuid.UUID `json:"parent_id"`
	Name          string    `json:"name"`
	LastContactAt time.Time `json:"last_contact_at"`
	InContacts    bool      `json:"in_contacts"`
}

// ========== Contact DTOs ==========

type ContactRequest struct {
	ParentID uuid.UUID `json:"parent_id" binding:"required"`
}

// ========== Device DTOs ==========

type RegisterDeviceRequest struct {
	FCMToken   string `json:"fcm_token" binding:"required"`
	DeviceType string `json:"device_type" binding:"required"`
}

type NotificationSettingRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

// ========== Common ==========

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}
