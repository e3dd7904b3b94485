package services

import (
	"context"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const maxWithdrawalAttempts = 3

// belowMinimum compares whole cents of the balance. Float noise from summed
// commissions is dropped first so 19.999999999999996 counts as 20.
func belowMinimum(balance, minimum float64) bool {
	cents := decimal.NewFromFloat(balance).Round(6).Truncate(2)
	return cents.LessThan(decimal.NewFromFloat(minimum))
}

// WithdrawalService runs the payout lifecycle of referral earnings:
// pending -> completed, or pending -> rejected/failed with the amount
// returned to the balance.
type WithdrawalService struct {
	users    UserStore
	locker   Locker
	notifier Notifier
	minimum  float64
	now      func() time.Time
}

func NewWithdrawalService(users UserStore, locker Locker, notifier Notifier, minimum float64) *WithdrawalService {
	return &WithdrawalService{
		users:    users,
		locker:   locker,
		notifier: notifier,
		minimum:  minimum,
		now:      time.Now,
	}
}

func withdrawalLockKey(userID primitive.ObjectID) string {
	return "withdrawal:" + userID.Hex()
}

// Request moves the user's whole balance into a new pending withdrawal
func (s *WithdrawalService) Request(ctx context.Context, userID primitive.ObjectID) (*models.WithdrawalRequest, error) {
	unlock, err := s.locker.Lock(ctx, withdrawalLockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	for attempt := 0; attempt < maxWithdrawalAttempts; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return nil, mapNotFound(err, ErrUserNotFound)
		}

		if user.PendingWithdrawal() != nil {
			return nil, ErrPendingWithdrawal
		}
		if user.MomoDetails == nil || user.MomoDetails.Number == "" {
			return nil, ErrNoPayoutDestination
		}
		if belowMinimum(user.ReferralEarnings, s.minimum) {
			return nil, ErrBelowMinimumWithdrawal
		}

		req := models.WithdrawalRequest{
			ID:          primitive.NewObjectID(),
			Amount:      user.ReferralEarnings,
			MomoNumber:  user.MomoDetails.Number,
			Network:     user.MomoDetails.Network,
			Status:      models.WithdrawalPending,
			RequestedAt: s.now(),
		}

		ok, err := s.users.OpenWithdrawal(ctx, userID, user.ReferralEarnings, req)
		if err != nil {
			return nil, err
		}
		if ok {
			logger.Log.Info("withdrawal requested",
				zap.String("userId", userID.Hex()),
				zap.String("withdrawalId", req.ID.Hex()),
				zap.Float64("amount", req.Amount))
			s.notifier.WithdrawalRequested(ctx, user, req)
			return &req, nil
		}
		// balance changed between read and write, e.g. a commission landed
	}

	return nil, ErrConcurrentUpdate
}

// List returns the user's own requests, newest first
func (s *WithdrawalService) List(ctx context.Context, userID primitive.ObjectID) ([]models.WithdrawalRequest, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	out := make([]models.WithdrawalRequest, 0, len(user.WithdrawalRequests))
	for i := len(user.WithdrawalRequests) - 1; i >= 0; i-- {
		out = append(out, user.WithdrawalRequests[i])
	}
	return out, nil
}

// ListAll returns requests across users for the admin console
func (s *WithdrawalService) ListAll(ctx context.Context, status string) ([]models.UserWithdrawal, error) {
	return s.users.ListWithdrawals(ctx, status)
}

// Approve marks the payout as sent
func (s *WithdrawalService) Approve(ctx context.Context, adminID, userID, withdrawalID primitive.ObjectID, note string) (*models.WithdrawalRequest, error) {
	return s.close(ctx, adminID, userID, withdrawalID, models.WithdrawalCompleted, note)
}

// Reject declines the request and restores the amount
func (s *WithdrawalService) Reject(ctx context.Context, adminID, userID, withdrawalID primitive.ObjectID, note string) (*models.WithdrawalRequest, error) {
	return s.close(ctx, adminID, userID, withdrawalID, models.WithdrawalRejected, note)
}

// Fail records a failed payout and restores the amount
func (s *WithdrawalService) Fail(ctx context.Context, adminID, userID, withdrawalID primitive.ObjectID, note string) (*models.WithdrawalRequest, error) {
	return s.close(ctx, adminID, userID, withdrawalID, models.WithdrawalFailed, note)
}

func (s *WithdrawalService) close(ctx context.Context, adminID, userID, withdrawalID primitive.ObjectID, status, note string) (*models.WithdrawalRequest, error) {
	unlock, err := s.locker.Lock(ctx, withdrawalLockKey(userID))
	if err != nil {
		return nil, err
	}
	defer unlock()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	current := user.FindWithdrawal(withdrawalID)
	if current == nil {
		return nil, ErrWithdrawalNotFound
	}
	if current.Status != models.WithdrawalPending {
		return nil, ErrWithdrawalNotPending
	}

	now := s.now()
	updated := *current
	updated.Status = status
	updated.ProcessedAt = &now
	updated.ProcessedBy = &adminID
	updated.Note = note

	restore := status != models.WithdrawalCompleted
	ok, err := s.users.CloseWithdrawal(ctx, userID, updated, restore)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrWithdrawalNotPending
	}

	logger.Log.Info("withdrawal processed",
		zap.String("userId", userID.Hex()),
		zap.String("withdrawalId", withdrawalID.Hex()),
		zap.String("status", status),
		zap.Bool("restored", restore))
	s.notifier.WithdrawalProcessed(ctx, user, updated)
	return &updated, nil
}
