package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type AffiliateService struct {
	affiliates AffiliateStore
	users      UserStore
	policy     *CommissionPolicy
	now        func() time.Time
}

func NewAffiliateService(affiliates AffiliateStore, users UserStore, policy *CommissionPolicy) *AffiliateService {
	return &AffiliateService{affiliates: affiliates, users: users, policy: policy, now: time.Now}
}

// Register creates the affiliate profile of a user. Its code is the user's
// referral code.
func (s *AffiliateService) Register(ctx context.Context, userID primitive.ObjectID, req models.RegisterAffiliateRequest) (*models.Affiliate, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}

	now := s.now()
	a := &models.Affiliate{
		UserID:       userID,
		Code:         user.ReferralCode,
		Status:       models.AffiliateActive,
		Tier:         s.policy.TierFor(0).Tier,
		PayoutMethod: req.PayoutMethod,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.affiliates.Create(ctx, a); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAffiliateExists
		}
		return nil, err
	}
	return a, nil
}

// Stats summarizes the affiliate's standing and distance to the next tier
func (s *AffiliateService) Stats(ctx context.Context, userID primitive.ObjectID) (*models.AffiliateStats, error) {
	a, err := s.affiliates.FindByUserID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrAffiliateNotFound)
	}

	quote := s.policy.Quote(a, 0)
	stats := &models.AffiliateStats{
		Code:          a.Code,
		Status:        a.Status,
		Tier:          quote.Tier,
		Rate:          quote.Rate,
		TotalEarnings: a.TotalEarnings,
		ReferralCount: len(a.Referrals),
	}
	if next, ok := s.policy.NextTier(a.TotalEarnings); ok {
		at := next.MinEarnings.InexactFloat64()
		remaining := subMoney(at, a.TotalEarnings)
		stats.NextTier = next.Tier
		stats.NextTierAt = &at
		stats.RemainingToNext = &remaining
	}
	return stats, nil
}

func (s *AffiliateService) List(ctx context.Context, status string) ([]models.Affiliate, error) {
	return s.affiliates.List(ctx, status)
}

func (s *AffiliateService) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	return mapNotFound(s.affiliates.SetStatus(ctx, id, status), ErrAffiliateNotFound)
}
