package push

import (
	"context"
	"fmt"
	"log"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/carenestapp/carenest/internal/model"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// Payload is what a message notification carries to a device.
type Payload struct {
	Title           string
	Body            string
	ConversationKey string
}

// UserDirectory resolves a recipient's profile and registered devices.
type UserDirectory interface {
	FindByID(id uuid.UUID) (*model.User, error)
	GetUserDevices(userID uuid.UUID) ([]model.UserDevice, error)
	DeleteDevice(userID uuid.UUID, token string) error
}

// Service sends FCM push notifications. A nil *Service is valid and sends
// nothing, so callers never need to special-case disabled push.
type Service struct {
	client *messaging.Client
	users  UserDirectory
}

// NewService creates an FCM push service
func NewService(credentialsFile string, users UserDirectory) (*Service, error) {
	if credentialsFile == "" {
		log.Println("⚠️ Firebase credentials not provided, push notifications disabled")
		return nil, nil
	}

	opt := option.WithCredentialsFile(credentialsFile)
	app, err := firebase.NewApp(context.Background(), nil, opt)
	if err != nil {
		// Log warning instead of error to not block server startup
		log.Printf("⚠️ Failed to initialize Firebase app: %v (push notifications disabled)", err)
		return nil, nil
	}

	client, err := app.Messaging(context.Background())
	if err != nil {
		log.Printf("⚠️ Failed to get messaging client: %v", err)
		return nil, nil
	}

	log.Println("✅ Firebase FCM initialized")
	return &Service{
		client: client,
		users:  users,
	}, nil
}

// SendMessageNotification pushes a new-message notification to every device
// the recipient has registered. Tokens FCM reports as no longer registered
// are pruned from the directory so dead endpoints don't accumulate.
func (s *Service) SendMessageNotification(ctx context.Context, recipientID uuid.UUID, payload Payload) error {
	if s == nil || s.client == nil {
		return nil
	}

	// Check if user has notifications enabled
	user, err := s.users.FindByID(recipientID)
	if err != nil {
		return err
	}
	if !user.IsNotificationEnabled {
		return nil
	}

	devices, err := s.users.GetUserDevices(recipientID)
	if err != nil {
		return err
	}

	if len(devices) == 0 {
		return nil
	}

	body := payload.Body
	if body == "" {
		body = "Sent an attachment"
	}

	tokens := make([]string, 0, len(devices))
	for _, d := range devices {
		tokens = append(tokens, d.FCMToken)
	}

	message := &messaging.MulticastMessage{
		Tokens: tokens,
		Notification: &messaging.Notification{
			Title: payload.Title,
			Body:  body,
		},
		Data: map[string]string{
			"type":            "new_message",
			"conversation_id": payload.ConversationKey,
			"sender_name":     payload.Title,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ClickAction: "FLUTTER_NOTIFICATION_CLICK",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}

	br, err := s.client.SendMulticast(ctx, message)
	if err != nil {
		return fmt.Errorf("error sending multicast message: %w", err)
	}

	if br.FailureCount > 0 {
		for idx, resp := range br.Responses {
			if resp.Success {
				continue
			}
			// Unregistered is FCM's 404/410 equivalent: the endpoint is
			// dead and the token should be dropped.
			if messaging.IsRegistrationTokenNotRegistered(resp.Error) {
				if err := s.users.DeleteDevice(recipientID, tokens[idx]); err != nil {
					log.Printf("⚠️ Failed to prune dead FCM token: %v", err)
				}
				continue
			}
			log.Printf("⚠️ FCM failure for token %s: %v", tokens[idx], resp.Error)
		}
	}

	return nil
}
