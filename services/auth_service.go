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
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const referralCodeAttempts = 5

// TokenSigner issues access and refresh tokens
type TokenSigner interface {
	GenerateJWT(userID, email, userType string) (string, string, error)
}

// AuthService registers and authenticates users and admins
type AuthService struct {
	users  UserStore
	admins AdminStore
	tokens TokenSigner
}

func NewAuthService(users UserStore, admins AdminStore, tokens TokenSigner) *AuthService {
	return &AuthService{users: users, admins: admins, tokens: tokens}
}

// Register creates a user with a fresh referral code. A referral code that
// resolves to an existing user is remembered as referredBy; anything else is
// ignored so signup never fails on a bad link.
func (s *AuthService) Register(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidInput
	}
	if _, err := s.users.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now()
	user := &models.User{
		Email:     email,
		Password:  string(hashed),
		FullName:  utils.SanitizeInput(req.FullName),
		UserType:  models.UserTypeUser,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if req.Phone != "" {
		if phone, err := utils.SanitizePhone(req.Phone); err == nil {
			user.Phone = phone
		}
	}
	if code := utils.NormalizeReferralCode(req.ReferralCode); code != "" {
		if referrer, err := s.users.FindByReferralCode(ctx, code); err == nil {
			user.ReferredBy = referrer.ReferralCode
		} else {
			logger.Log.Info("ignoring unknown referral code at signup", zap.String("code", code))
		}
	}

	if err := s.createWithReferralCode(ctx, user); err != nil {
		return nil, err
	}
	return s.issue(user.ID.Hex(), user.Email, user.UserType, user)
}

// createWithReferralCode retries on a referral code collision. An email
// collision between the lookup and the insert surfaces as ErrEmailTaken.
func (s *AuthService) createWithReferralCode(ctx context.Context, user *models.User) error {
	for attempt := 0; attempt < referralCodeAttempts; attempt++ {
		code, err := utils.GenerateUserReferralCode()
		if err != nil {
			return fmt.Errorf("generate referral code: %w", err)
		}
		if _, err := s.users.FindByReferralCode(ctx, code); err == nil {
			continue
		} else if !errors.Is(err, repositories.ErrNotFound) {
			return err
		}
		user.ReferralCode = code

		err = s.users.Create(ctx, user)
		if err == nil {
			return nil
		}
		if !errors.Is(err, repositories.ErrDuplicate) {
			return err
		}
		if _, lookupErr := s.users.FindByEmail(ctx, user.Email); lookupErr == nil {
			return ErrEmailTaken
		}
	}
	return errors.New("could not allocate a unique referral code")
}

// Login checks the password and issues a user token
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapNotFound(err, ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, ErrAccountDisabled
	}

	if err := s.users.TouchLogin(ctx, user.ID, time.Now()); err != nil {
		logger.Log.Warn("failed to record login", zap.String("userId", user.ID.Hex()), zap.Error(err))
	}
	return s.issue(user.ID.Hex(), user.Email, user.UserType, user)
}

// AdminLogin authenticates an admin. The token's user type is the admin role.
func (s *AuthService) AdminLogin(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error) {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	admin, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		return nil, mapNotFound(err, ErrInvalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(admin.ID.Hex(), admin.Email, admin.Role, admin)
}

// CreateAdmin is reserved to super admins
func (s *AuthService) CreateAdmin(ctx context.Context, callerRole string, req models.CreateAdminRequest) (*models.Admin, error) {
	if callerRole != models.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	role := req.Role
	if role == "" {
		role = models.RoleAdmin
	}
	return s.createAdmin(ctx, req.Email, req.Password, req.FullName, role)
}

// EnsureSuperAdmin creates the first super admin when the admins collection
// is empty. It does nothing once any admin exists.
func (s *AuthService) EnsureSuperAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	admin, err := s.createAdmin(ctx, email, password, "Super Admin", models.RoleSuperAdmin)
	if err != nil {
		return err
	}
	logger.Log.Info("bootstrapped super admin", zap.String("email", admin.Email))
	return nil
}

func (s *AuthService) ListAdmins(ctx context.Context) ([]models.Admin, error) {
	return s.admins.List(ctx)
}

func (s *AuthService) createAdmin(ctx context.Context, email, password, fullName, role string) (*models.Admin, error) {
	email, err := utils.SanitizeEmail(email)
	if err != nil {
		return nil, ErrInvalidInput
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	now := time.Now()
	admin := &models.Admin{
		Email:     email,
		Password:  string(hashed),
		FullName:  utils.SanitizeInput(fullName),
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return admin, nil
}

func (s *AuthService) issue(id, email, userType string, subject interface{}) (*models.AuthResponse, error) {
	token, refresh, err := s.tokens.GenerateJWT(id, email, userType)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}
	return &models.AuthResponse{Token: token, RefreshToken: refresh, User: subject}, nil
}
