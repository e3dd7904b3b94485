package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"github.com/HSouheill/academy_backend/utils"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// ReferralService validates referral codes and credits commissions
type ReferralService struct {
	users      UserStore
	affiliates AffiliateStore
	policy     *CommissionPolicy
	notifier   Notifier
	linkBase   string
}

func NewReferralService(users UserStore, affiliates AffiliateStore, policy *CommissionPolicy, notifier Notifier, frontendURL string) *ReferralService {
	return &ReferralService{
		users:      users,
		affiliates: affiliates,
		policy:     policy,
		notifier:   notifier,
		linkBase:   frontendURL,
	}
}

// ResolveReferrer returns the owner of code. The purchaser may not refer
// themselves.
func (s *ReferralService) ResolveReferrer(ctx context.Context, code string, purchaserID primitive.ObjectID) (*models.User, error) {
	code = utils.NormalizeReferralCode(code)
	if !utils.IsReferralCode(code) {
		return nil, ErrInvalidReferralCode
	}
	referrer, err := s.users.FindByReferralCode(ctx, code)
	if err != nil {
		return nil, mapNotFound(err, ErrInvalidReferralCode)
	}
	if referrer.ID == purchaserID {
		return nil, ErrSelfReferral
	}
	return referrer, nil
}

// Quote returns the commission the referrer earns on saleAmount
func (s *ReferralService) Quote(ctx context.Context, referrerID primitive.ObjectID, saleAmount float64) (CommissionQuote, error) {
	affiliate, err := s.affiliates.FindByUserID(ctx, referrerID)
	if err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return CommissionQuote{}, err
	}
	return s.policy.Quote(affiliate, saleAmount), nil
}

// CreditInput describes one referred sale
type CreditInput struct {
	Code        string
	SaleAmount  float64
	PurchaserID primitive.ObjectID
	Reference   string
	ItemType    string
	ItemID      primitive.ObjectID
}

// Credit validates the code, computes the commission and credits it. Calling
// it again with the same reference credits nothing.
func (s *ReferralService) Credit(ctx context.Context, in CreditInput) (*models.ReferralEntry, error) {
	referrer, err := s.ResolveReferrer(ctx, in.Code, in.PurchaserID)
	if err != nil {
		return nil, err
	}
	quote, err := s.Quote(ctx, referrer.ID, in.SaleAmount)
	if err != nil {
		return nil, err
	}

	entry := models.ReferralEntry{
		ReferredUser: in.PurchaserID,
		CourseID:     in.ItemID,
		ItemType:     in.ItemType,
		Amount:       quote.Amount,
		Rate:         quote.Rate,
		Reference:    in.Reference,
		Date:         time.Now(),
	}
	if err := s.apply(ctx, referrer.ID, entry, quote.Tier, in.SaleAmount); err != nil {
		return nil, err
	}
	return &entry, nil
}

// CreditPayment applies the commission quoted at checkout for a settled
// payment. Payments without a referrer are a no-op.
func (s *ReferralService) CreditPayment(ctx context.Context, p *models.Payment) error {
	if p.ReferringUserID == nil || p.CommissionAmount <= 0 {
		return nil
	}
	entry := models.ReferralEntry{
		ReferredUser: p.UserID,
		CourseID:     p.ItemID,
		ItemType:     p.ItemType,
		Amount:       p.CommissionAmount,
		Rate:         p.CommissionRate,
		Reference:    p.Reference,
		Date:         time.Now(),
	}
	return s.apply(ctx, *p.ReferringUserID, entry, p.CommissionTier, p.OriginalAmount)
}

func (s *ReferralService) apply(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry, tier string, saleAmount float64) error {
	if entry.Amount <= 0 {
		return nil
	}

	credited, err := s.users.CreditReferral(ctx, referrerID, entry)
	if err != nil {
		return fmt.Errorf("credit referral %s: %w", entry.Reference, err)
	}

	if tier != TierStandard && tier != "" {
		affiliate, err := s.affiliates.Credit(ctx, referrerID, models.AffiliateReferral{
			ReferredUser: entry.ReferredUser,
			Reference:    entry.Reference,
			SaleAmount:   saleAmount,
			Commission:   entry.Amount,
			Rate:         entry.Rate,
			Date:         entry.Date,
		})
		if err != nil {
			return fmt.Errorf("credit affiliate %s: %w", entry.Reference, err)
		}
		if affiliate != nil {
			if next := s.policy.TierFor(affiliate.TotalEarnings).Tier; next != affiliate.Tier {
				if err := s.affiliates.SetTier(ctx, affiliate.ID, next); err != nil {
					logger.Log.Warn("failed to update affiliate tier", zap.String("affiliateId", affiliate.ID.Hex()), zap.Error(err))
				}
			}
		}
	}

	if credited {
		logger.Log.Info("referral commission credited",
			zap.String("referrerId", referrerID.Hex()),
			zap.String("reference", entry.Reference),
			zap.Float64("amount", entry.Amount))
		s.notifier.ReferralCredited(ctx, referrerID, entry)
	}
	return nil
}

// ReferralData is the referral dashboard of a user
type ReferralData struct {
	ReferralCode     string                 `json:"referralCode"`
	ReferralLink     string                 `json:"referralLink"`
	ReferralEarnings float64                `json:"referralEarnings"`
	ReferralCount    int                    `json:"referralCount"`
	ReferralHistory  []models.ReferralEntry `json:"referralHistory"`
	MinWithdrawal    float64                `json:"minWithdrawal"`
}

func (s *ReferralService) Data(ctx context.Context, userID primitive.ObjectID, minWithdrawal float64) (*ReferralData, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	history := user.ReferralHistory
	if history == nil {
		history = []models.ReferralEntry{}
	}
	return &ReferralData{
		ReferralCode:     user.ReferralCode,
		ReferralLink:     s.Link(user.ReferralCode),
		ReferralEarnings: user.ReferralEarnings,
		ReferralCount:    len(history),
		ReferralHistory:  history,
		MinWithdrawal:    minWithdrawal,
	}, nil
}

// Link is the sign-up URL carrying a referral code
func (s *ReferralService) Link(code string) string {
	return fmt.Sprintf("%s/register?ref=%s", s.linkBase, code)
}

// QRCode renders the user's referral link as a PNG
func (s *ReferralService) QRCode(ctx context.Context, userID primitive.ObjectID) ([]byte, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	return utils.QRCodePNG(s.Link(user.ReferralCode), 300)
}
