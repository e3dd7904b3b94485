package services

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type MentorshipService struct {
	apps  MentorshipStore
	users UserStore
	now   func() time.Time
}

func NewMentorshipService(apps MentorshipStore, users UserStore) *MentorshipService {
	return &MentorshipService{apps: apps, users: users, now: time.Now}
}

func (s *MentorshipService) Apply(ctx context.Context, userID primitive.ObjectID, req models.MentorshipRequest) (*models.MentorshipApplication, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	phone := user.Phone
	if req.Phone != "" {
		if phone, err = utils.SanitizePhone(req.Phone); err != nil {
			return nil, ErrInvalidInput
		}
	}

	now := s.now()
	app := &models.MentorshipApplication{
		UserID:    userID,
		FullName:  user.FullName,
		Email:     user.Email,
		Phone:     phone,
		Plan:      req.Plan,
		Goals:     utils.SanitizeInput(req.Goals),
		Status:    models.MentorshipPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.apps.Create(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *MentorshipService) ListMine(ctx context.Context, userID primitive.ObjectID) ([]models.MentorshipApplication, error) {
	return s.apps.List(ctx, &userID, "")
}

func (s *MentorshipService) ListAll(ctx context.Context, status string) ([]models.MentorshipApplication, error) {
	return s.apps.List(ctx, nil, status)
}

func (s *MentorshipService) SetStatus(ctx context.Context, id primitive.ObjectID, req models.MentorshipStatusRequest) (*models.MentorshipApplication, error) {
	app, err := s.apps.SetStatus(ctx, id, req.Status, req.AdminNote)
	if err != nil {
		return nil, mapNotFound(err, ErrNotFound)
	}
	return app, nil
}
