package service

import (
	"context"
	"log"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/carenestapp/carenest/pkg/push"
	"github.com/google/uuid"
)

const (
	notifyQueueSize = 256
	notifyTimeout   = 10 * time.Second
	previewMaxRunes = 120
)

// Notification is a queued request to tell a recipient about a new message.
type Notification struct {
	RecipientID     uuid.UUID
	SenderID        uuid.UUID
	Body            string
	ConversationKey string
}

// NotifyService fans messages out to email and push from a single worker
// goroutine. Delivery is best effort: a full queue drops the notification,
// channel failures are logged and never reach the sender's request.
type NotifyService struct {
	profiles ProfileStore
	mail     EmailSender
	push     PushSender
	queue    chan Notification
}

func NewNotifyService(profiles ProfileStore, mail EmailSender, push PushSender) *NotifyService {
	return &NotifyService{
		profiles: profiles,
		mail:     mail,
		push:     push,
		queue:    make(chan Notification, notifyQueueSize),
	}
}

// Enqueue adds a notification without blocking. When the queue is full the
// notification is dropped.
func (s *NotifyService) Enqueue(n Notification) {
	select {
	case s.queue <- n:
	default:
		log.Printf("⚠️ Notification queue full, dropping notification for %s", n.RecipientID)
	}
}

// Run drains the queue until ctx is cancelled. Call it from its own
// goroutine.
func (s *NotifyService) Run(ctx context.Context) {
	log.Println("✅ Notification worker started")
	for {
		select {
		case <-ctx.Done():
			log.Println("✅ Notification worker stopped")
			return
		case n := <-s.queue:
			s.deliver(n)
		}
	}
}

// deliver sends email and push for one notification and reports whether the
// email went out. Panics in either channel are contained here.
func (s *NotifyService) deliver(n Notification) (delivered bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("⚠️ Notification delivery panic for %s: %v", n.RecipientID, r)
			delivered = false
		}
	}()

	recipient, err := s.profiles.FindByID(n.RecipientID)
	if err != nil {
		log.Printf("⚠️ Notification skipped, recipient %s not found: %v", n.RecipientID, err)
		return false
	}

	senderName := "Someone"
	if sender, err := s.profiles.FindByID(n.SenderID); err == nil && sender.Name != "" {
		senderName = sender.Name
	}

	preview := truncatePreview(n.Body)

	ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	var wg sync.WaitGroup
	var mailErr error

	wg.Add(1)
	go func() {
		defer wg.Done()
		mailErr = s.mail.SendMessageNotification(recipient.Email, recipient.Name, senderName, preview)
		if mailErr != nil {
			log.Printf("⚠️ Failed to email %s: %v", recipient.Email, mailErr)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		payload := push.Payload{
			Title:           senderName,
			Body:            preview,
			ConversationKey: n.ConversationKey,
		}
		if err := s.push.SendMessageNotification(ctx, recipient.ID, payload); err != nil {
			log.Printf("⚠️ Failed to push to %s: %v", recipient.ID, err)
		}
	}()

	wg.Wait()
	return mailErr == nil
}

// truncatePreview caps the notification body length so emails and
// push payloads stay short.
func truncatePreview(body string) string {
	if utf8.RuneCountInString(body) <= previewMaxRunes {
		return body
	}
	runes := []rune(body)
	return string(runes[:previewMaxRunes]) + "…"
}
