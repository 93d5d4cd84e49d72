package service

import (
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/carenestapp/carenest/internal/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDeliver(t *testing.T) {
	recipient := &model.User{ID: uuid.New(), Name: "Paula", Email: "paula@carenest.test", Role: model.RoleParent}
	sender := &model.User{ID: uuid.New(), Name: "Grace", Email: "grace@carenest.test", Role: model.RoleCaregiver}

	t.Run("sends email and push", func(t *testing.T) {
		mail := &fakeEmailSender{}
		pushSender := &fakePushSender{}
		svc := NewNotifyService(newFakeProfileStore(recipient, sender), mail, pushSender)

		delivered := svc.deliver(Notification{
			RecipientID:     recipient.ID,
			SenderID:        sender.ID,
			Body:            "see you at noon",
			ConversationKey: "dm:a:b",
		})

		assert.True(t, delivered)
		require.Len(t, mail.calls, 1)
		assert.Equal(t, recipient.Email, mail.calls[0].To)
		assert.Equal(t, sender.Name, mail.calls[0].SenderName)
		assert.Equal(t, "see you at noon", mail.calls[0].Preview)

		require.Len(t, pushSender.calls, 1)
		assert.Equal(t, recipient.ID, pushSender.calls[0].RecipientID)
		assert.Equal(t, "dm:a:b", pushSender.calls[0].Payload.ConversationKey)
	})

	t.Run("unknown recipient is skipped", func(t *testing.T) {
		mail := &fakeEmailSender{}
		pushSender := &fakePushSender{}
		svc := NewNotifyService(newFakeProfileStore(sender), mail, pushSender)

		delivered := svc.deliver(Notification{RecipientID: uuid.New(), SenderID: sender.ID, Body: "x"})

		assert.False(t, delivered)
		assert.Empty(t, mail.calls)
		assert.Empty(t, pushSender.calls)
	})

	t.Run("unknown sender falls back to a generic name", func(t *testing.T) {
		mail := &fakeEmailSender{}
		svc := NewNotifyService(newFakeProfileStore(recipient), mail, &fakePushSender{})

		svc.deliver(Notification{RecipientID: recipient.ID, SenderID: uuid.New(), Body: "x"})

		require.Len(t, mail.calls, 1)
		assert.Equal(t, "Someone", mail.calls[0].SenderName)
	})

	t.Run("long bodies are truncated for the preview", func(t *testing.T) {
		mail := &fakeEmailSender{}
		svc := NewNotifyService(newFakeProfileStore(recipient, sender), mail, &fakePushSender{})

		svc.deliver(Notification{
			RecipientID: recipient.ID,
			SenderID:    sender.ID,
			Body:        strings.Repeat("a", 500),
		})

		require.Len(t, mail.calls, 1)
		preview := mail.calls[0].Preview
		assert.Equal(t, previewMaxRunes+1, utf8.RuneCountInString(preview))
		assert.True(t, strings.HasSuffix(preview, "…"))
	})

	t.Run("email failure does not stop push", func(t *testing.T) {
		mail := &fakeEmailSender{err: errors.New("smtp down")}
		pushSender := &fakePushSender{}
		svc := NewNotifyService(newFakeProfileStore(recipient, sender), mail, pushSender)

		delivered := svc.deliver(Notification{RecipientID: recipient.ID, SenderID: sender.ID, Body: "x"})

		assert.False(t, delivered)
		assert.Len(t, pushSender.calls, 1, "push still attempted")
	})

	t.Run("push failure does not fail delivery", func(t *testing.T) {
		pushSender := &fakePushSender{err: errors.New("fcm down")}
		svc := NewNotifyService(newFakeProfileStore(recipient, sender), &fakeEmailSender{}, pushSender)

		delivered := svc.deliver(Notification{RecipientID: recipient.ID, SenderID: sender.ID, Body: "x"})
		assert.True(t, delivered)
	})
}

func TestNotifyEnqueueNeverBlocks(t *testing.T) {
	svc := NewNotifyService(newFakeProfileStore(), &fakeEmailSender{}, &fakePushSender{})

	// No worker is draining; overfilling the queue must not block or panic.
	for i := 0; i < notifyQueueSize+10; i++ {
		svc.Enqueue(Notification{RecipientID: uuid.New()})
	}
	assert.Equal(t, notifyQueueSize, len(svc.queue))
}

func TestTruncatePreview(t *testing.T) {
	t.Run("short bodies pass through", func(t *testing.T) {
		assert.Equal(t, "hello", truncatePreview("hello"))
	})

	t.Run("multibyte runes are not split", func(t *testing.T) {
		body := strings.Repeat("ü", previewMaxRunes+5)
		out := truncatePreview(body)
		assert.True(t, utf8.ValidString(out))
		assert.Equal(t, previewMaxRunes+1, utf8.RuneCountInString(out))
	})
}
