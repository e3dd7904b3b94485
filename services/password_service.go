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

const (
	resetCodeLength   = 6
	resetCodeTTL      = 15 * time.Minute
	resetAttemptLimit = 5
	resetWindow       = time.Hour
)

// PasswordService runs the forgot/reset password flow over email codes
type PasswordService struct {
	users  UserStore
	codes  CodeStore
	mailer Mailer
}

func NewPasswordService(users UserStore, codes CodeStore, mailer Mailer) *PasswordService {
	return &PasswordService{users: users, codes: codes, mailer: mailer}
}

func resetCodeKey(email string) string    { return "password_reset:" + email }
func resetAttemptsKey(email string) string { return "password_reset_attempts:" + email }

// ForgotPassword emails a reset code. Unknown and disabled accounts get the
// same silent success so the endpoint does not reveal who is registered.
func (s *PasswordService) ForgotPassword(ctx context.Context, req models.ForgotPasswordRequest) error {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return ErrInvalidInput
	}
	if s.mailer == nil {
		return ErrMailUnavailable
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repositories.ErrNotFound) {
		logger.Log.Info("password reset requested for unknown email")
		return nil
	}
	if err != nil {
		return err
	}
	if !user.IsActive {
		return nil
	}

	code, err := utils.GenerateSecureOTP(resetCodeLength)
	if err != nil {
		return fmt.Errorf("generate reset code: %w", err)
	}
	if err := s.codes.Save(ctx, resetCodeKey(email), code, resetCodeTTL); err != nil {
		return fmt.Errorf("store reset code: %w", err)
	}

	body := fmt.Sprintf("Hello %s,\n\nUse this code to reset your password: %s\n\nThe code expires in %d minutes. If you did not ask for a reset you can ignore this email.",
		user.FullName, code, int(resetCodeTTL.Minutes()))
	if err := s.mailer.Send(user.Email, "Reset your password", body); err != nil {
		logger.Log.Error("failed to send reset code", zap.String("email", utils.MaskEmail(email)), zap.Error(err))
		return ErrMailUnavailable
	}
	return nil
}

// ResetPassword checks the emailed code and replaces the password. A code is
// single use and each email gets a limited number of tries per hour.
func (s *PasswordService) ResetPassword(ctx context.Context, req models.ResetPasswordRequest) error {
	email, err := utils.SanitizeEmail(req.Email)
	if err != nil {
		return ErrInvalidResetCode
	}

	attempts, err := s.codes.Attempt(ctx, resetAttemptsKey(email), resetWindow)
	if err != nil {
		return fmt.Errorf("count reset attempts: %w", err)
	}
	if attempts > resetAttemptLimit {
		return ErrTooManyAttempts
	}

	stored, err := s.codes.Get(ctx, resetCodeKey(email))
	if err != nil {
		return fmt.Errorf("load reset code: %w", err)
	}
	if !utils.OTPMatches(stored, req.OTP) {
		return ErrInvalidResetCode
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return mapNotFound(err, ErrInvalidResetCode)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, user.ID, string(hashed)); err != nil {
		return err
	}

	if err := s.codes.Delete(ctx, resetCodeKey(email), resetAttemptsKey(email)); err != nil {
		logger.Log.Warn("failed to clear reset code", zap.String("userId", user.ID.Hex()), zap.Error(err))
	}
	logger.Log.Info("password reset", zap.String("userId", user.ID.Hex()))
	return nil
}
