package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/mustaphalimar/prepilot/internal/identity"
	"github.com/mustaphalimar/prepilot/internal/models"
	"github.com/mustaphalimar/prepilot/internal/services"
	"gorm.io/gorm"
)

// WebhookHandler ingests identity-provider user lifecycle events and keeps
// the mirrored users table in sync.
type WebhookHandler struct {
	DB     *gorm.DB
	Users  *services.UserService
	Secret string
	Env    string
	Now    func() time.Time
}

// webhookEvent is the provider's event envelope.
type webhookEvent struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// webhookUser is the user object carried by user.* events.
type webhookUser struct {
	ID             string              `json:"id"`
	EmailAddresses []webhookEmail      `json:"email_addresses"`
	FirstName      *string             `json:"first_name"`
	LastName       *string             `json:"last_name"`
	ImageURL       string              `json:"image_url"`
	LastSignInAt   *int64              `json:"last_sign_in_at"`
}

type webhookEmail struct {
	ID           string `json:"id"`
	EmailAddress string `json:"email_address"`
	Verification struct {
		Status string `json:"status"`
	} `json:"verification"`
}

// webhookSession is the payload of session.created events.
type webhookSession struct {
	UserID    string `json:"user_id"`
	CreatedAt int64  `json:"created_at"`
}

// Handle processes POST /v1/webhooks/identity. Unknown event types are
// acknowledged with 200; redeliveries of a recorded event id are no-ops.
func (h *WebhookHandler) Handle(c *fiber.Ctx) error {
	body := c.Body()
	now := h.now()

	sig := identity.WebhookSignature{
		ID:        c.Get("svix-id"),
		Timestamp: c.Get("svix-timestamp"),
		Signature: c.Get("svix-signature"),
	}

	if !h.verify(sig, body, now) {
		return fiber.NewError(fiber.StatusUnauthorized, "Invalid webhook signature")
	}

	var event webhookEvent
	if err := json.Unmarshal(body, &event); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid JSON payload")
	}

	recorded, err := h.recordDelivery(c, sig.ID, event.Type, body, now)
	if err != nil {
		return err
	}
	if !recorded {
		// Redelivery of an already processed event.
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true, "duplicate": true})
	}

	switch event.Type {
	case "user.created", "user.updated":
		if err := h.syncUser(c, event.Data); err != nil {
			return err
		}
	case "user.deleted":
		var payload struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil || payload.ID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid user data")
		}
		if err := h.Users.DeleteByExternalID(c.Context(), payload.ID); err != nil {
			return err
		}
	case "session.created":
		var session webhookSession
		if err := json.Unmarshal(event.Data, &session); err != nil || session.UserID == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid session data")
		}
		signIn := time.UnixMilli(session.CreatedAt)
		if err := h.Users.RecordSignIn(c.Context(), session.UserID, signIn); err != nil {
			return err
		}
	default:
		log.Printf("webhook: unhandled event type %q acknowledged", event.Type)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"received": true})
}

// verify enforces the signature except in development without a secret.
func (h *WebhookHandler) verify(sig identity.WebhookSignature, body []byte, now time.Time) bool {
	if h.Secret == "" {
		return h.Env == "development"
	}
	return identity.VerifyWebhook(h.Secret, sig, body, now)
}

// recordDelivery stores the event for idempotency. Returns false when the
// provider event id was already recorded.
func (h *WebhookHandler) recordDelivery(c *fiber.Ctx, eventID, eventType string, body []byte, now time.Time) (bool, error) {
	if eventID == "" {
		// Development deliveries without svix headers are not deduplicated.
		return true, nil
	}

	record := models.WebhookEvent{
		ID:         uuid.New(),
		EventID:    eventID,
		EventType:  eventType,
		Payload:    body,
		ReceivedAt: now,
	}
	err := h.DB.WithContext(c.Context()).Create(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return false, nil
		}
		// Unique violation reporting differs per driver; treat any insert
		// conflict on the event id as a duplicate.
		var existing int64
		if countErr := h.DB.WithContext(c.Context()).
			Model(&models.WebhookEvent{}).
			Where("event_id = ?", eventID).
			Count(&existing).Error; countErr == nil && existing > 0 {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// syncUser applies a user.created/user.updated payload to the mirror.
func (h *WebhookHandler) syncUser(c *fiber.Ctx, data json.RawMessage) error {
	var user webhookUser
	if err := json.Unmarshal(data, &user); err != nil || user.ID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid user data")
	}

	email, verified := primaryEmail(user.EmailAddresses)
	if email == "" {
		return fiber.NewError(fiber.StatusBadRequest, "User has no email address")
	}

	ident := &identity.User{
		ID:            user.ID,
		Email:         email,
		Name:          identity.FullName(user.FirstName, user.LastName),
		FirstName:     user.FirstName,
		LastName:      user.LastName,
		EmailVerified: verified,
	}
	if user.ImageURL != "" {
		ident.ImageURL = &user.ImageURL
	}
	if user.LastSignInAt != nil {
		signIn := time.UnixMilli(*user.LastSignInAt)
		ident.LastSignInAt = &signIn
	}

	_, err := h.Users.UpsertFromWebhook(c.Context(), ident)
	return err
}

func (h *WebhookHandler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

// primaryEmail picks the first email address and reports whether it is
// verified.
func primaryEmail(addresses []webhookEmail) (string, bool) {
	for _, addr := range addresses {
		if addr.EmailAddress != "" {
			return addr.EmailAddress, addr.Verification.Status == "verified"
		}
	}
	return "", false
}
