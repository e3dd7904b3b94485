package services

import (
	"context"
	"fmt"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"
)

// Notifier delivers best-effort side notifications. Failures are logged
// and never affect the operation that triggered them.
type Notifier interface {
	WithdrawalRequested(ctx context.Context, user *models.User, w models.WithdrawalRequest)
	WithdrawalProcessed(ctx context.Context, user *models.User, w models.WithdrawalRequest)
	PaymentSettled(ctx context.Context, p *models.Payment)
	ReferralCredited(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry)
}

// Mailer sends plain text e-mail
type Mailer interface {
	Send(to, subject, body string) error
}

// Pusher delivers mobile push notifications
type Pusher interface {
	Push(ctx context.Context, token, title, body string, data map[string]string) error
}

// Broadcaster fans events out to connected admin consoles
type Broadcaster interface {
	Broadcast(eventType, message string, data interface{})
}

// GomailMailer sends through an SMTP relay
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailMailer(host string, port int, user, pass string) *GomailMailer {
	return &GomailMailer{dialer: gomail.NewDialer(host, port, user, pass), from: user}
}

func (m *GomailMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)
	return m.dialer.DialAndSend(msg)
}

// FCMPusher sends through Firebase Cloud Messaging
type FCMPusher struct {
	client *messaging.Client
}

func NewFCMPusher(client *messaging.Client) *FCMPusher {
	return &FCMPusher{client: client}
}

func (p *FCMPusher) Push(ctx context.Context, token, title, body string, data map[string]string) error {
	msg := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
		},
	}
	_, err := p.client.Send(ctx, msg)
	return err
}

// NotificationService stores in-app notifications and fans them out to
// e-mail, push and the admin feed. Any channel may be nil.
type NotificationService struct {
	store      NotificationStore
	mailer     Mailer
	pusher     Pusher
	feed       Broadcaster
	adminEmail string
}

func NewNotificationService(store NotificationStore, mailer Mailer, pusher Pusher, feed Broadcaster, adminEmail string) *NotificationService {
	return &NotificationService{
		store:      store,
		mailer:     mailer,
		pusher:     pusher,
		feed:       feed,
		adminEmail: adminEmail,
	}
}

var _ Notifier = (*NotificationService)(nil)

func (s *NotificationService) WithdrawalRequested(ctx context.Context, user *models.User, w models.WithdrawalRequest) {
	data := map[string]interface{}{
		"userId":       user.ID.Hex(),
		"withdrawalId": w.ID.Hex(),
		"amount":       w.Amount,
		"network":      w.Network,
	}
	if s.feed != nil {
		s.feed.Broadcast(websocket.EventWithdrawalRequested,
			fmt.Sprintf("%s requested a withdrawal of %.2f", user.FullName, w.Amount), data)
	}

	if s.mailer != nil && s.adminEmail != "" {
		subject := "New Withdrawal Request"
		body := fmt.Sprintf("A new withdrawal request has been submitted.\n\nUser: %s (%s)\nAmount: %.2f\nMobile money: %s (%s)\nRequested at: %s\n",
			user.FullName, user.Email, w.Amount, w.MomoNumber, w.Network, w.RequestedAt.Format(time.RFC1123))
		go s.sendMail(s.adminEmail, subject, body)
	}
}

func (s *NotificationService) WithdrawalProcessed(ctx context.Context, user *models.User, w models.WithdrawalRequest) {
	var title, message string
	switch w.Status {
	case models.WithdrawalCompleted:
		title = "Withdrawal completed"
		message = fmt.Sprintf("Your withdrawal of %.2f has been sent to %s.", w.Amount, w.MomoNumber)
	case models.WithdrawalRejected:
		title = "Withdrawal rejected"
		message = fmt.Sprintf("Your withdrawal of %.2f was rejected and returned to your balance.", w.Amount)
	default:
		title = "Withdrawal failed"
		message = fmt.Sprintf("Your withdrawal of %.2f could not be paid out and was returned to your balance.", w.Amount)
	}
	if w.Note != "" {
		message += " " + w.Note
	}

	s.save(ctx, user.ID, title, message, models.NotificationWithdrawal, map[string]interface{}{
		"withdrawalId": w.ID.Hex(),
		"status":       w.Status,
		"amount":       w.Amount,
	})
	s.push(ctx, user.FCMToken, title, message, map[string]string{
		"type":         models.NotificationWithdrawal,
		"withdrawalId": w.ID.Hex(),
		"status":       w.Status,
	})
}

func (s *NotificationService) PaymentSettled(ctx context.Context, p *models.Payment) {
	title := "Purchase completed"
	message := fmt.Sprintf("You now have access to %s.", p.ItemTitle)
	s.save(ctx, p.UserID, title, message, models.NotificationPurchase, map[string]interface{}{
		"reference": p.Reference,
		"itemType":  p.ItemType,
		"itemId":    p.ItemID.Hex(),
	})

	if s.feed != nil {
		s.feed.Broadcast(websocket.EventPaymentSettled,
			fmt.Sprintf("Payment %s settled (%.2f)", p.Reference, p.ChargedAmount),
			map[string]interface{}{
				"reference":  p.Reference,
				"userId":     p.UserID.Hex(),
				"itemType":   p.ItemType,
				"itemId":     p.ItemID.Hex(),
				"amount":     p.ChargedAmount,
				"commission": p.CommissionAmount,
			})
	}
}

func (s *NotificationService) ReferralCredited(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry) {
	s.save(ctx, referrerID, "Referral commission earned",
		fmt.Sprintf("You earned %.2f from a referral purchase.", entry.Amount),
		models.NotificationReferral, map[string]interface{}{
			"reference": entry.Reference,
			"amount":    entry.Amount,
		})
}

func (s *NotificationService) save(ctx context.Context, userID primitive.ObjectID, title, message, notifType string, data interface{}) {
	if s.store == nil {
		return
	}
	n := &models.Notification{
		UserID:    userID,
		Title:     title,
		Message:   message,
		Type:      notifType,
		Data:      data,
		CreatedAt: time.Now(),
	}
	if err := s.store.Create(ctx, n); err != nil {
		logger.Log.Error("failed to save notification", zap.String("userId", userID.Hex()), zap.Error(err))
	}
}

func (s *NotificationService) push(ctx context.Context, token, title, body string, data map[string]string) {
	if s.pusher == nil || token == "" {
		return
	}
	if err := s.pusher.Push(ctx, token, title, body, data); err != nil {
		logger.Log.Warn("failed to send push notification", zap.Error(err))
	}
}

func (s *NotificationService) sendMail(to, subject, body string) {
	if err := s.mailer.Send(to, subject, body); err != nil {
		logger.Log.Warn("failed to send email", zap.String("to", to), zap.Error(err))
	}
}

// List returns the user's latest notifications
func (s *NotificationService) List(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	return s.store.ListByUser(ctx, userID, 50)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, id primitive.ObjectID) error {
	return mapNotFound(s.store.MarkRead(ctx, userID, id), ErrNotFound)
}
