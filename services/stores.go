package services

import (
	"context"
	"errors"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Persistence ports. The repositories package provides the Mongo
// implementations; tests use in-memory fakes.

type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByReferralCode(ctx context.Context, code string) (*models.User, error)
	UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) error
	SetMomoDetails(ctx context.Context, id primitive.ObjectID, momo *models.MomoDetails) error
	SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error
	SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error
	TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error
	CreditReferral(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry) (bool, error)
	OpenWithdrawal(ctx context.Context, userID primitive.ObjectID, observedBalance float64, req models.WithdrawalRequest) (bool, error)
	CloseWithdrawal(ctx context.Context, userID primitive.ObjectID, w models.WithdrawalRequest, restore bool) (bool, error)
	ListWithdrawals(ctx context.Context, status string) ([]models.UserWithdrawal, error)
	AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error)
	AddPurchasedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error)
	AddPurchasedBooks(ctx context.Context, userID primitive.ObjectID, bookIDs []primitive.ObjectID) error
	List(ctx context.Context, limit, skip int64) ([]models.User, error)
}

type AdminStore interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Admin, error)
}

type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error)
	List(ctx context.Context, f repositories.CourseFilter) ([]models.Course, error)
	Update(ctx context.Context, course *models.Course) error
	SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error
}

type CurriculumStore interface {
	CreateModule(ctx context.Context, m *models.Module) error
	FindModule(ctx context.Context, id primitive.ObjectID) (*models.Module, error)
	UpdateModule(ctx context.Context, id primitive.ObjectID, title string, position int) error
	DeleteModule(ctx context.Context, id primitive.ObjectID) error
	CreateSection(ctx context.Context, s *models.Section) error
	FindSection(ctx context.Context, id primitive.ObjectID) (*models.Section, error)
	UpdateSection(ctx context.Context, id primitive.ObjectID, title string, position int) error
	DeleteSection(ctx context.Context, id primitive.ObjectID) error
	CreateLesson(ctx context.Context, l *models.Lesson) error
	FindLesson(ctx context.Context, id primitive.ObjectID) (*models.Lesson, error)
	UpdateLesson(ctx context.Context, l *models.Lesson) error
	DeleteLesson(ctx context.Context, id primitive.ObjectID) error
	Tree(ctx context.Context, courseID primitive.ObjectID) ([]models.Module, []models.Section, []models.Lesson, error)
	DeleteCourse(ctx context.Context, courseID primitive.ObjectID) error
}

type BookStore interface {
	Create(ctx context.Context, book *models.Book) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error)
	List(ctx context.Context, publishedOnly bool, tag string) ([]models.Book, error)
	IDsByTag(ctx context.Context, tag string) ([]primitive.ObjectID, error)
	Update(ctx context.Context, book *models.Book) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error
}

type PaymentStore interface {
	Create(ctx context.Context, p *models.Payment) error
	FindByReference(ctx context.Context, reference string) (*models.Payment, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error)
	List(ctx context.Context, status string) ([]models.Payment, error)
	SetAuthorization(ctx context.Context, reference, url string) error
	MarkFailed(ctx context.Context, reference, providerStatus, reason string) (bool, error)
	Complete(ctx context.Context, reference, providerStatus, channel string, at time.Time) (bool, error)
	MarkSettled(ctx context.Context, reference string, at time.Time) error
}

type PurchaseStore interface {
	Create(ctx context.Context, p *models.Purchase) error
	Upsert(ctx context.Context, p *models.Purchase) (bool, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Purchase, error)
}

type AffiliateStore interface {
	Create(ctx context.Context, a *models.Affiliate) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Affiliate, error)
	List(ctx context.Context, status string) ([]models.Affiliate, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status string) error
	SetTier(ctx context.Context, id primitive.ObjectID, tier string) error
	Credit(ctx context.Context, userID primitive.ObjectID, ref models.AffiliateReferral) (*models.Affiliate, error)
}

type CouponStore interface {
	Create(ctx context.Context, c *models.Coupon) error
	FindByCode(ctx context.Context, code string) (*models.Coupon, error)
	List(ctx context.Context) ([]models.Coupon, error)
	Update(ctx context.Context, c *models.Coupon) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Redeem(ctx context.Context, code, reference string) (bool, error)
}

type AdStore interface {
	Create(ctx context.Context, ad *models.Advertisement) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Advertisement, error)
	List(ctx context.Context, activeOnly bool) ([]models.Advertisement, error)
	Update(ctx context.Context, ad *models.Advertisement) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type MentorshipStore interface {
	Create(ctx context.Context, app *models.MentorshipApplication) error
	List(ctx context.Context, userID *primitive.ObjectID, status string) ([]models.MentorshipApplication, error)
	SetStatus(ctx context.Context, id primitive.ObjectID, status, note string) (*models.MentorshipApplication, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	ListByUser(ctx context.Context, userID primitive.ObjectID, limit int64) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, id primitive.ObjectID) error
}

// mapNotFound swaps the repository sentinel for a service error
func mapNotFound(err, target error) error {
	if errors.Is(err, repositories.ErrNotFound) {
		return target
	}
	return err
}
