package services

import (
	"context"
	"strings"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Profile(ctx context.Context, userID primitive.ObjectID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return user, nil
}

func (s *UserService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req models.UpdateProfileRequest) (*models.User, error) {
	req.FullName = utils.SanitizeInput(req.FullName)
	if req.Phone != "" {
		phone, err := utils.SanitizePhone(req.Phone)
		if err != nil {
			return nil, ErrInvalidInput
		}
		req.Phone = phone
	}
	if req.FullName == "" && req.Phone == "" {
		return nil, ErrInvalidInput
	}
	if err := s.users.UpdateProfile(ctx, userID, req); err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return s.Profile(ctx, userID)
}

// SetMomoDetails stores the payout destination used by withdrawals
func (s *UserService) SetMomoDetails(ctx context.Context, userID primitive.ObjectID, momo models.MomoDetails) (*models.MomoDetails, error) {
	number, err := utils.SanitizePhone(momo.Number)
	if err != nil || number == "" {
		return nil, ErrInvalidInput
	}
	momo.Number = number
	momo.Network = strings.ToUpper(strings.TrimSpace(momo.Network))
	momo.AccountName = utils.SanitizeInput(momo.AccountName)

	if err := s.users.SetMomoDetails(ctx, userID, &momo); err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return &momo, nil
}

func (s *UserService) SetFCMToken(ctx context.Context, userID primitive.ObjectID, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return ErrInvalidInput
	}
	return mapNotFound(s.users.SetFCMToken(ctx, userID, token), ErrUserNotFound)
}

// List pages through users for the admin console
func (s *UserService) List(ctx context.Context, page, limit int64) ([]models.User, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if page < 1 {
		page = 1
	}
	return s.users.List(ctx, limit, (page-1)*limit)
}
