package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Provider transaction states that may still turn into a success. An
// abandoned transaction is one the customer has not paid yet.
var inFlightStatuses = map[string]bool{
	"abandoned":  true,
	"ongoing":    true,
	"pending":    true,
	"processing": true,
	"queued":     true,
}

const providerSuccess = "success"

// Verify settles a payment on behalf of its owner
func (s *PaymentService) Verify(ctx context.Context, userID primitive.ObjectID, reference string) (*models.Payment, error) {
	if _, err := s.GetPayment(ctx, userID, reference); err != nil {
		return nil, err
	}
	return s.settle(ctx, reference)
}

// HandleWebhook settles the payment named by a provider event. The event
// body is only used for its reference; state comes from the provider API.
func (s *PaymentService) HandleWebhook(ctx context.Context, event models.PaystackWebhookEvent) error {
	if event.Event != "charge.success" || event.Data.Reference == "" {
		logger.Log.Debug("ignoring webhook event", zap.String("event", event.Event))
		return nil
	}
	_, err := s.settle(ctx, event.Data.Reference)
	if errors.Is(err, ErrPaymentNotFound) {
		logger.Log.Warn("webhook for unknown payment", zap.String("reference", event.Data.Reference))
		return nil
	}
	return err
}

// settle brings a payment to its final state. A completed payment whose
// side effects did not all land is settled again.
func (s *PaymentService) settle(ctx context.Context, reference string) (*models.Payment, error) {
	unlock, err := s.locker.Lock(ctx, "payment:"+reference)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.payments.FindByReference(ctx, reference)
	if err != nil {
		return nil, mapNotFound(err, ErrPaymentNotFound)
	}

	failed := p.Status == models.PaymentFailed
	switch {
	case p.Status == models.PaymentCompleted:
		if p.Settled {
			return p, nil
		}
		logger.Log.Info("resuming settlement", zap.String("reference", reference))
		return p, s.applySettlement(ctx, p)
	case failed && toMinorUnits(p.ChargedAmount) == 0:
		return p, ErrPaymentFailed
	}

	// A failed payment is checked again: the customer may have paid after
	// an earlier verification saw a final non-success state.
	providerStatus, channel := providerSuccess, ""
	if toMinorUnits(p.ChargedAmount) > 0 {
		result, err := s.provider.VerifyTransaction(ctx, reference)
		if err != nil {
			logger.Log.Error("payment verification failed", zap.String("reference", reference), zap.Error(err))
			if failed {
				// initialization may have failed before the provider saw it
				return p, ErrPaymentFailed
			}
			return nil, ErrProviderUnavailable
		}
		paidEnough := result.Amount >= toMinorUnits(p.ChargedAmount)
		if failed && (result.Status != providerSuccess || !paidEnough) {
			return p, ErrPaymentFailed
		}
		if result.Status != providerSuccess {
			if !inFlightStatuses[result.Status] {
				s.fail(ctx, p, result.Status, "payment "+result.Status)
			}
			return p, ErrPaymentNotSuccessful
		}
		if !paidEnough {
			s.fail(ctx, p, result.Status, fmt.Sprintf("paid %d, expected %d", result.Amount, toMinorUnits(p.ChargedAmount)))
			return p, ErrAmountMismatch
		}
		if failed {
			logger.Log.Info("provider confirmed a failed payment", zap.String("reference", reference))
		}
		providerStatus, channel = result.Status, result.Channel
	}

	now := s.now()
	if _, err := s.payments.Complete(ctx, reference, providerStatus, channel, now); err != nil {
		return nil, fmt.Errorf("complete payment: %w", err)
	}
	// re-read: another instance may have completed it first
	p, err = s.payments.FindByReference(ctx, reference)
	if err != nil {
		return nil, mapNotFound(err, ErrPaymentNotFound)
	}
	if p.Status != models.PaymentCompleted {
		return p, ErrPaymentFailed
	}
	if p.Settled {
		return p, nil
	}
	return p, s.applySettlement(ctx, p)
}

func (s *PaymentService) fail(ctx context.Context, p *models.Payment, providerStatus, reason string) {
	if _, err := s.payments.MarkFailed(ctx, p.Reference, providerStatus, reason); err != nil {
		logger.Log.Error("failed to mark payment failed", zap.String("reference", p.Reference), zap.Error(err))
		return
	}
	p.Status = models.PaymentFailed
	p.ProviderStatus = providerStatus
	p.FailureReason = reason
}

// applySettlement grants the item, credits the referrer and redeems the
// coupon. Each step is idempotent for the payment reference.
func (s *PaymentService) applySettlement(ctx context.Context, p *models.Payment) error {
	switch p.ItemType {
	case models.ItemCourse:
		if err := s.grantCourse(ctx, p.UserID, p.ItemID, p.ChargedAmount, p.Reference); err != nil {
			return err
		}
	case models.ItemBook:
		added, err := s.users.AddPurchasedBook(ctx, p.UserID, p.ItemID)
		if err != nil {
			return fmt.Errorf("grant book: %w", err)
		}
		if added {
			if err := s.books.IncrementPurchaseCount(ctx, p.ItemID); err != nil {
				logger.Log.Warn("failed to bump book purchase count", zap.String("bookId", p.ItemID.Hex()), zap.Error(err))
			}
		}
	}

	if err := s.referrals.CreditPayment(ctx, p); err != nil {
		return err
	}

	if p.CouponCode != "" {
		if err := s.coupons.Redeem(ctx, p.CouponCode, p.Reference); err != nil {
			return fmt.Errorf("redeem coupon: %w", err)
		}
	}

	now := s.now()
	if err := s.payments.MarkSettled(ctx, p.Reference, now); err != nil {
		return fmt.Errorf("mark settled: %w", err)
	}
	p.Settled = true
	p.SettledAt = &now

	logger.Log.Info("payment settled",
		zap.String("reference", p.Reference),
		zap.String("itemType", p.ItemType),
		zap.String("itemId", p.ItemID.Hex()),
		zap.Float64("amount", p.ChargedAmount))
	s.notifier.PaymentSettled(ctx, p)
	return nil
}

// grantCourse records the purchase and adds the course, plus the forex book
// bundle for forex courses, to the user's library.
func (s *PaymentService) grantCourse(ctx context.Context, userID, courseID primitive.ObjectID, amount float64, reference string) error {
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return mapNotFound(err, ErrCourseNotFound)
	}

	inserted, err := s.purchases.Upsert(ctx, &models.Purchase{
		UserID:      userID,
		CourseID:    courseID,
		Amount:      amount,
		Reference:   reference,
		Status:      models.PurchaseCompleted,
		PurchasedAt: s.now(),
	})
	if err != nil {
		return fmt.Errorf("record purchase: %w", err)
	}
	if inserted {
		if err := s.courses.IncrementPurchaseCount(ctx, courseID); err != nil {
			logger.Log.Warn("failed to bump course purchase count", zap.String("courseId", courseID.Hex()), zap.Error(err))
		}
	}

	return s.addToLibrary(ctx, userID, course)
}

func (s *PaymentService) addToLibrary(ctx context.Context, userID primitive.ObjectID, course *models.Course) error {
	if _, err := s.users.AddPurchasedCourse(ctx, userID, course.ID); err != nil {
		return fmt.Errorf("grant course: %w", err)
	}
	if !course.IsForex() {
		return nil
	}
	bookIDs, err := s.books.IDsByTag(ctx, models.TagForex)
	if err != nil {
		return fmt.Errorf("load forex bundle: %w", err)
	}
	if err := s.users.AddPurchasedBooks(ctx, userID, bookIDs); err != nil {
		return fmt.Errorf("grant forex bundle: %w", err)
	}
	return nil
}

// GrantManual records an admin granted course purchase. A second grant of
// the same course to the same user fails with ErrAlreadyPurchased.
func (s *PaymentService) GrantManual(ctx context.Context, req models.ManualPurchaseRequest) (*models.Purchase, error) {
	userID, err := primitive.ObjectIDFromHex(req.UserID)
	if err != nil {
		return nil, ErrInvalidID
	}
	courseID, err := primitive.ObjectIDFromHex(req.CourseID)
	if err != nil {
		return nil, ErrInvalidID
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	course, err := s.courses.FindByID(ctx, courseID)
	if err != nil {
		return nil, mapNotFound(err, ErrCourseNotFound)
	}

	now := s.now()
	purchase := &models.Purchase{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		CourseID:    courseID,
		Amount:      req.Amount,
		Status:      models.PurchaseCompleted,
		PurchasedAt: now,
		UpdatedAt:   now,
	}
	purchase.Reference = "MANUAL-" + purchase.ID.Hex()

	if err := s.purchases.Create(ctx, purchase); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrAlreadyPurchased
		}
		return nil, err
	}
	if err := s.courses.IncrementPurchaseCount(ctx, courseID); err != nil {
		logger.Log.Warn("failed to bump course purchase count", zap.String("courseId", courseID.Hex()), zap.Error(err))
	}
	if err := s.addToLibrary(ctx, userID, course); err != nil {
		return nil, err
	}

	if req.ReferralCode != "" && req.Amount > 0 {
		if _, err := s.referrals.Credit(ctx, CreditInput{
			Code:        req.ReferralCode,
			SaleAmount:  req.Amount,
			PurchaserID: userID,
			Reference:   purchase.Reference,
			ItemType:    models.ItemCourse,
			ItemID:      courseID,
		}); err != nil {
			logger.Log.Warn("manual purchase referral not credited",
				zap.String("reference", purchase.Reference), zap.Error(err))
		}
	}

	return purchase, nil
}

// Library lists the courses and books the user owns
func (s *PaymentService) Library(ctx context.Context, userID primitive.ObjectID) (*Library, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err, ErrUserNotFound)
	}
	courses, err := s.courses.FindByIDs(ctx, user.PurchasedCourses)
	if err != nil {
		return nil, err
	}
	books, err := s.books.FindByIDs(ctx, user.PurchasedBooks)
	if err != nil {
		return nil, err
	}
	return &Library{Courses: courses, Books: books}, nil
}

// Library is the content a user owns
type Library struct {
	Courses []models.Course `json:"courses"`
	Books   []models.Book   `json:"books"`
}
