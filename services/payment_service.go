package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// PaymentService owns checkout and settlement. Every side effect of a
// payment is keyed by its reference so settlement can run more than once.
type PaymentService struct {
	users       UserStore
	courses     CourseStore
	books       BookStore
	payments    PaymentStore
	purchases   PurchaseStore
	referrals   *ReferralService
	coupons     *CouponService
	provider    PaymentProvider
	locker      Locker
	notifier    Notifier
	callbackURL string
	currency    string
	now         func() time.Time
}

// PaymentDeps groups the collaborators of PaymentService
type PaymentDeps struct {
	Users       UserStore
	Courses     CourseStore
	Books       BookStore
	Payments    PaymentStore
	Purchases   PurchaseStore
	Referrals   *ReferralService
	Coupons     *CouponService
	Provider    PaymentProvider
	Locker      Locker
	Notifier    Notifier
	CallbackURL string
	Currency    string
}

func NewPaymentService(d PaymentDeps) *PaymentService {
	return &PaymentService{
		users:       d.Users,
		courses:     d.Courses,
		books:       d.Books,
		payments:    d.Payments,
		purchases:   d.Purchases,
		referrals:   d.Referrals,
		coupons:     d.Coupons,
		provider:    d.Provider,
		locker:      d.Locker,
		notifier:    d.Notifier,
		callbackURL: d.CallbackURL,
		currency:    d.Currency,
		now:         time.Now,
	}
}

// toMinorUnits converts an amount to the provider's integer unit
func toMinorUnits(amount float64) int64 {
	return decimal.NewFromFloat(amount).Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

type checkoutItem struct {
	title string
	price float64
}

func (s *PaymentService) loadItem(ctx context.Context, user *models.User, itemType string, itemID primitive.ObjectID) (*checkoutItem, error) {
	switch itemType {
	case models.ItemCourse:
		course, err := s.courses.FindByID(ctx, itemID)
		if err != nil {
			return nil, mapNotFound(err, ErrCourseNotFound)
		}
		if !course.IsPublished {
			return nil, ErrItemUnavailable
		}
		if user.OwnsCourse(itemID) {
			return nil, ErrAlreadyPurchased
		}
		return &checkoutItem{title: course.Title, price: course.Price}, nil
	case models.ItemBook:
		book, err := s.books.FindByID(ctx, itemID)
		if err != nil {
			return nil, mapNotFound(err, ErrBookNotFound)
		}
		if !book.IsPublished {
			return nil, ErrItemUnavailable
		}
		if user.OwnsBook(itemID) {
			return nil, ErrBookAlreadyOwned
		}
		return &checkoutItem{title: book.Title, price: book.Price}, nil
	}
	return nil, ErrInvalidInput
}

// Initialize prices the item, records a pending payment and opens a hosted
// checkout with the provider.
func (s *PaymentService) Initialize(ctx context.Context, userID primitive.ObjectID, req models.InitializePaymentRequest) (*models.InitializePaymentResponse, error) {
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		return nil, ErrInvalidID
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	item, err := s.loadItem(ctx, user, req.ItemType, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	payment := &models.Payment{
		Reference:      "PAY-" + uuid.NewString(),
		UserID:         userID,
		Email:          user.Email,
		ItemType:       req.ItemType,
		ItemID:         itemID,
		ItemTitle:      item.title,
		Currency:       s.currency,
		OriginalAmount: item.price,
		Status:         models.PaymentPending,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if req.CouponCode != "" {
		coupon, discount, err := s.coupons.Discount(ctx, req.CouponCode, req.ItemType, itemID, item.price)
		if err != nil {
			return nil, err
		}
		payment.CouponCode = coupon.Code
		payment.DiscountAmount = discount
	}
	payment.ChargedAmount = subMoney(item.price, payment.DiscountAmount)

	if err := s.attachReferral(ctx, user, req.ReferralCode, payment); err != nil {
		return nil, err
	}
	payment.FinalAmount = subMoney(payment.ChargedAmount, payment.CommissionAmount)

	if err := s.payments.Create(ctx, payment); err != nil {
		return nil, fmt.Errorf("create payment: %w", err)
	}

	if toMinorUnits(payment.ChargedAmount) == 0 {
		settled, err := s.settle(ctx, payment.Reference)
		if err != nil {
			return nil, err
		}
		return &models.InitializePaymentResponse{
			Reference: settled.Reference,
			Amount:    settled.ChargedAmount,
			Discount:  settled.DiscountAmount,
			Status:    settled.Status,
		}, nil
	}

	authURL, err := s.provider.InitializeTransaction(ctx, models.PaystackInitializeRequest{
		Email:       user.Email,
		Amount:      toMinorUnits(payment.ChargedAmount),
		Currency:    s.currency,
		Reference:   payment.Reference,
		CallbackURL: s.callbackURL,
		Metadata: map[string]interface{}{
			"userId":   userID.Hex(),
			"itemType": payment.ItemType,
			"itemId":   itemID.Hex(),
		},
	})
	if err != nil {
		logger.Log.Error("payment initialization failed",
			zap.String("reference", payment.Reference), zap.Error(err))
		if _, markErr := s.payments.MarkFailed(ctx, payment.Reference, "", "provider initialization failed"); markErr != nil {
			logger.Log.Error("failed to mark payment failed", zap.String("reference", payment.Reference), zap.Error(markErr))
		}
		return nil, ErrProviderUnavailable
	}

	if err := s.payments.SetAuthorization(ctx, payment.Reference, authURL); err != nil {
		logger.Log.Warn("failed to store authorization url", zap.String("reference", payment.Reference), zap.Error(err))
	}

	return &models.InitializePaymentResponse{
		Reference:        payment.Reference,
		AuthorizationURL: authURL,
		Amount:           payment.ChargedAmount,
		Discount:         payment.DiscountAmount,
		Status:           payment.Status,
	}, nil
}

// attachReferral quotes the commission for the explicit code, or else the
// code the user signed up with. A bad explicit code fails the checkout; a
// stale sign-up code is ignored.
func (s *PaymentService) attachReferral(ctx context.Context, user *models.User, explicit string, p *models.Payment) error {
	code := explicit
	if code == "" {
		code = user.ReferredBy
	}
	if code == "" {
		return nil
	}

	referrer, err := s.referrals.ResolveReferrer(ctx, code, user.ID)
	if err != nil {
		if explicit != "" || !(errors.Is(err, ErrInvalidReferralCode) || errors.Is(err, ErrSelfReferral)) {
			return err
		}
		logger.Log.Info("ignoring stale referral code", zap.String("userId", user.ID.Hex()), zap.String("code", code))
		return nil
	}

	// Commission is earned on the list price, never more than was collected
	quote, err := s.referrals.Quote(ctx, referrer.ID, p.OriginalAmount)
	if err != nil {
		return err
	}
	if quote.Amount > p.ChargedAmount {
		quote.Amount = p.ChargedAmount
	}
	p.ReferralCode = referrer.ReferralCode
	p.ReferringUserID = &referrer.ID
	p.CommissionTier = quote.Tier
	p.CommissionRate = quote.Rate
	p.CommissionAmount = quote.Amount
	return nil
}

// GetPayment returns a payment owned by userID
func (s *PaymentService) GetPayment(ctx context.Context, userID primitive.ObjectID, reference string) (*models.Payment, error) {
	p, err := s.payments.FindByReference(ctx, reference)
	if err != nil {
		return nil, mapNotFound(err, ErrPaymentNotFound)
	}
	if p.UserID != userID {
		return nil, ErrPaymentNotFound
	}
	return p, nil
}

func (s *PaymentService) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	return s.payments.ListByUser(ctx, userID)
}

func (s *PaymentService) List(ctx context.Context, status string) ([]models.Payment, error) {
	return s.payments.List(ctx, status)
}
