package service

import (
	"context"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/push"
	"github.com/google/uuid"
)

// Persistence and collaborator contracts consumed by the services. The gorm
// repositories and the pkg adapters satisfy these; tests substitute
// in-memory fakes through the same constructors.

// MessageStore persists direct messages and their attachments.
type MessageStore interface {
	Create(msg *model.DirectMessage) error
	ListByConversation(key string) ([]model.DirectMessage, error)
	LatestPerConversation(userID uuid.UUID) ([]model.DirectMessage, error)
	HasConversation(key string) (bool, error)
	IsParticipant(key string, userID uuid.UUID) (bool, error)
	MarkRead(key string, userID uuid.UUID) error
	DeleteConversationFor(key string, userID uuid.UUID) ([]model.Attachment, error)
	DistinctPartners(userID uuid.UUID) ([]model.PartnerContact, error)
	ListWithAttachments() ([]model.DirectMessage, error)
	DeleteAttachments(ids []uuid.UUID) error
}

// GroupStore persists care groups and group messages.
type GroupStore interface {
	Create(group *model.CareGroup) error
	FindByID(id uuid.UUID) (*model.CareGroup, error)
	ListForUser(userID uuid.UUID) ([]model.CareGroup, error)
	UpdateParticipants(groupID uuid.UUID, participantIDs []string) error
	SetMuted(groupID, userID uuid.UUID, muted bool) error
	MarkLeft(groupID, userID uuid.UUID) error
	ClearLeft(groupID, userID uuid.UUID) error
	ParentInOtherGroup(parentID, caregiverID uuid.UUID) (bool, error)
	TouchUpdatedAt(groupID uuid.UUID) error
	CreateMessage(msg *model.GroupMessage) error
	ListMessages(groupID uuid.UUID) ([]model.GroupMessage, error)
	MarkMessagesRead(groupID, userID uuid.UUID) error
	ListMessagesWithAttachments() ([]model.GroupMessage, error)
	DeleteMessageAttachments(ids []uuid.UUID) error
}

// ContactStore persists caregiver address-book entries.
type ContactStore interface {
	Upsert(contact *model.CaregiverContact) error
	Delete(caregiverID, parentID uuid.UUID) error
	ListByCaregiver(caregiverID uuid.UUID) ([]model.CaregiverContact, error)
}

// ProfileStore resolves user profiles. The core only reads.
type ProfileStore interface {
	FindByID(id uuid.UUID) (*model.User, error)
}

// ObjectStore is the binary content store collaborator.
type ObjectStore interface {
	Put(ctx context.Context, objectKey string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, objectKey string) error
}

// EmailSender is the outbound email collaborator.
type EmailSender interface {
	SendMessageNotification(toEmail, recipientName, senderName, preview string) error
}

// PushSender is the outbound push collaborator.
type PushSender interface {
	SendMessageNotification(ctx context.Context, recipientID uuid.UUID, payload push.Payload) error
}

// Notifier accepts best-effort notification work. Enqueueing must never
// block or fail the caller.
type Notifier interface {
	Enqueue(n Notification)
}
