package service

import (
	"context"
	"log"
	"sort"
	"strings"

	"github.com/carenestapp/carenest/internal/chatkey"
	"github.com/carenestapp/carenest/internal/model"
	"github.com/carenestapp/carenest/pkg/apperr"
	"github.com/google/uuid"
)

// ChatService handles direct 1:1 messaging
type ChatService struct {
	messages    MessageStore
	guard       *Guard
	attachments *AttachmentService
	notifier    Notifier
}

func NewChatService(messages MessageStore, guard *Guard, attachments *AttachmentService, notifier Notifier) *ChatService {
	return &ChatService{
		messages:    messages,
		guard:       guard,
		attachments: attachments,
		notifier:    notifier,
	}
}

// Send validates, authorizes, and persists a direct message, then hands the
// recipient notification to the dispatcher. The notification is never
// awaited; its outcome cannot affect the returned message.
func (s *ChatService) Send(ctx context.Context, senderID, recipientID uuid.UUID, body string, uploads []model.AttachmentUpload, suppliedKey string) (*model.DirectMessage, error) {
	if senderID == uuid.Nil || recipientID == uuid.Nil {
		return nil, apperr.InvalidArg("sender and recipient are required")
	}
	body = strings.TrimSpace(body)
	if body == "" && len(uploads) == 0 {
		return nil, apperr.InvalidArg("message needs a body or at least one attachment")
	}

	key := chatkey.Direct(senderID, recipientID)
	if suppliedKey != "" && suppliedKey != key {
		// The canonical key always wins; a mismatched client value is
		// accepted silently for compatibility with older clients.
		log.Printf("conversation id %q overridden by canonical key %s", suppliedKey, key)
	}

	if err := s.guard.AuthorizeConversation(key, senderID); err != nil {
		return nil, err
	}

	attachments := []model.Attachment{}
	for _, upload := range uploads {
		att, err := s.attachments.Store(ctx, upload, key)
		if err != nil {
			return nil, err
		}
		if att != nil {
			attachments = append(attachments, *att)
		}
	}
	if body == "" && len(attachments) == 0 {
		return nil, apperr.InvalidArg("message needs a body or at least one attachment")
	}

	msg := &model.DirectMessage{
		ConversationKey: key,
		SenderID:        senderID,
		RecipientID:     recipientID,
		Participants:    []string{senderID.String(), recipientID.String()},
		Body:            body,
		ReadBy:          []string{senderID.String()},
		Attachments:     attachments,
	}

	if err := s.messages.Create(msg); err != nil {
		return nil, err
	}

	s.notifier.Enqueue(Notification{
		RecipientID:     recipientID,
		SenderID:        senderID,
		Body:            body,
		ConversationKey: key,
	})

	return msg, nil
}

// List returns a conversation's messages oldest-first for an authorized caller
func (s *ChatService) List(key string, callerID uuid.UUID) ([]model.DirectMessage, error) {
	if err := s.guard.AuthorizeConversation(key, callerID); err != nil {
		return nil, err
	}
	return s.messages.ListByConversation(key)
}

// ConversationSummaries returns the most recent message of every
// conversation the user participates in, newest conversation first.
func (s *ChatService) ConversationSummaries(userID uuid.UUID) ([]model.DirectMessage, error) {
	latest, err := s.messages.LatestPerConversation(userID)
	if err != nil {
		return nil, err
	}
	sort.Slice(latest, func(i, j int) bool {
		return latest[i].CreatedAt.After(latest[j].CreatedAt)
	})
	return latest, nil
}

// MarkRead marks every message of the conversation as read by the caller.
// Repeating the call changes nothing.
func (s *ChatService) MarkRead(key string, callerID uuid.UUID) error {
	if err := s.guard.AuthorizeConversation(key, callerID); err != nil {
		return err
	}
	return s.messages.MarkRead(key, callerID)
}

// DeleteConversation removes the conversation's messages where the caller is
// a participant, then cleans up their stored attachments best-effort.
func (s *ChatService) DeleteConversation(ctx context.Context, key string, callerID uuid.UUID) error {
	if err := s.guard.AuthorizeConversation(key, callerID); err != nil {
		return err
	}

	attachments, err := s.messages.DeleteConversationFor(key, callerID)
	if err != nil {
		return err
	}
	for _, att := range attachments {
		s.attachments.Remove(ctx, att)
	}
	return nil
}
