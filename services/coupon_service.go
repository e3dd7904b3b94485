package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/HSouheill/academy_backend/logger"
	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type CouponService struct {
	coupons CouponStore
	courses CourseStore
	books   BookStore
	now     func() time.Time
}

func NewCouponService(coupons CouponStore, courses CourseStore, books BookStore) *CouponService {
	return &CouponService{coupons: coupons, courses: courses, books: books, now: time.Now}
}

func normalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Discount checks that the coupon applies to the item and returns the
// amount taken off price. The discount never exceeds the price.
func (s *CouponService) Discount(ctx context.Context, code, itemType string, itemID primitive.ObjectID, price float64) (*models.Coupon, float64, error) {
	coupon, err := s.coupons.FindByCode(ctx, normalizeCouponCode(code))
	if err != nil {
		return nil, 0, mapNotFound(err, ErrInvalidCoupon)
	}
	if !coupon.IsActive {
		return nil, 0, ErrInvalidCoupon
	}
	if coupon.ExpiresAt != nil && s.now().After(*coupon.ExpiresAt) {
		return nil, 0, ErrInvalidCoupon
	}
	if coupon.MaxUses > 0 && coupon.UsedCount >= coupon.MaxUses {
		return nil, 0, ErrInvalidCoupon
	}
	if len(coupon.CourseIDs) > 0 {
		if itemType != models.ItemCourse || !containsObjectID(coupon.CourseIDs, itemID) {
			return nil, 0, ErrInvalidCoupon
		}
	}

	p := decimal.NewFromFloat(price)
	var discount decimal.Decimal
	switch coupon.Type {
	case models.CouponPercent:
		discount = p.Mul(decimal.NewFromFloat(coupon.Value)).Div(decimal.NewFromInt(100))
	case models.CouponFixed:
		discount = decimal.NewFromFloat(coupon.Value)
	default:
		return nil, 0, ErrInvalidCoupon
	}
	if discount.GreaterThan(p) {
		discount = p
	}
	return coupon, discount.Round(2).InexactFloat64(), nil
}

// Quote prices an item with the coupon applied
func (s *CouponService) Quote(ctx context.Context, req models.ValidateCouponRequest) (*models.CouponQuote, error) {
	itemID, err := primitive.ObjectIDFromHex(req.ItemID)
	if err != nil {
		return nil, ErrInvalidID
	}
	price, err := s.itemPrice(ctx, req.ItemType, itemID)
	if err != nil {
		return nil, err
	}
	coupon, discount, err := s.Discount(ctx, req.Code, req.ItemType, itemID, price)
	if err != nil {
		return nil, err
	}
	return &models.CouponQuote{
		Code:     coupon.Code,
		Original: price,
		Discount: discount,
		Total:    subMoney(price, discount),
	}, nil
}

func (s *CouponService) itemPrice(ctx context.Context, itemType string, id primitive.ObjectID) (float64, error) {
	switch itemType {
	case models.ItemCourse:
		c, err := s.courses.FindByID(ctx, id)
		if err != nil {
			return 0, mapNotFound(err, ErrCourseNotFound)
		}
		return c.Price, nil
	case models.ItemBook:
		b, err := s.books.FindByID(ctx, id)
		if err != nil {
			return 0, mapNotFound(err, ErrBookNotFound)
		}
		return b.Price, nil
	}
	return 0, ErrInvalidInput
}

// Redeem counts the coupon use for a settled payment reference. Uses never
// go past MaxUses; a payment that checked out before the coupon ran out keeps
// the price it was quoted.
func (s *CouponService) Redeem(ctx context.Context, code, reference string) error {
	code = normalizeCouponCode(code)
	redeemed, err := s.coupons.Redeem(ctx, code, reference)
	if err != nil || redeemed {
		return err
	}

	coupon, err := s.coupons.FindByCode(ctx, code)
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Warn("coupon deleted before settlement", zap.String("code", code), zap.String("reference", reference))
		return nil
	}
	if err != nil {
		return err
	}
	for _, r := range coupon.Redemptions {
		if r == reference {
			return nil
		}
	}
	logger.Log.Warn("coupon used up before settlement",
		zap.String("code", code),
		zap.String("reference", reference),
		zap.Int("maxUses", coupon.MaxUses))
	return nil
}

func (s *CouponService) fromRequest(c *models.Coupon, req models.CouponRequest) error {
	if req.Type == models.CouponPercent && req.Value > 100 {
		return ErrInvalidInput
	}
	ids := make([]primitive.ObjectID, 0, len(req.CourseIDs))
	for _, hex := range req.CourseIDs {
		id, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return ErrInvalidID
		}
		ids = append(ids, id)
	}
	c.Code = normalizeCouponCode(req.Code)
	c.Type = req.Type
	c.Value = req.Value
	c.MaxUses = req.MaxUses
	c.CourseIDs = ids
	c.ExpiresAt = req.ExpiresAt
	c.IsActive = req.IsActive
	return nil
}

func (s *CouponService) Create(ctx context.Context, req models.CouponRequest) (*models.Coupon, error) {
	now := s.now()
	c := &models.Coupon{CreatedAt: now, UpdatedAt: now}
	if err := s.fromRequest(c, req); err != nil {
		return nil, err
	}
	if err := s.coupons.Create(ctx, c); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrCouponExists
		}
		return nil, err
	}
	return c, nil
}

func (s *CouponService) Update(ctx context.Context, id primitive.ObjectID, req models.CouponRequest) (*models.Coupon, error) {
	c := &models.Coupon{ID: id}
	if err := s.fromRequest(c, req); err != nil {
		return nil, err
	}
	if err := s.coupons.Update(ctx, c); err != nil {
		return nil, mapNotFound(err, ErrCouponNotFound)
	}
	return c, nil
}

func (s *CouponService) List(ctx context.Context) ([]models.Coupon, error) {
	return s.coupons.List(ctx)
}

func (s *CouponService) Delete(ctx context.Context, id primitive.ObjectID) error {
	return mapNotFound(s.coupons.Delete(ctx, id), ErrCouponNotFound)
}

func containsObjectID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
