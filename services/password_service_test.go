package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sentMail struct {
	to, subject, body string
}

type memoryMailer struct {
	sent []sentMail
	err  error
}

func (m *memoryMailer) Send(to, subject, body string) error {
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: body})
	return nil
}

func newPasswordFixture(t *testing.T) (*PasswordService, *AuthService, *LocalCodeStore, *memoryMailer) {
	t.Helper()
	users := newFakeUsers()
	auth := NewAuthService(users, &fakeAdmins{}, &stubSigner{})
	_, err := auth.Register(context.Background(), models.SignupRequest{Email: "abena@example.com", Password: "oldpassword", FullName: "Abena"})
	require.NoError(t, err)

	codes := NewLocalCodeStore()
	mailer := &memoryMailer{}
	return NewPasswordService(users, codes, mailer), auth, codes, mailer
}

func TestPasswordReset(t *testing.T) {
	svc, auth, codes, mailer := newPasswordFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "Abena@Example.com"}))
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "abena@example.com", mailer.sent[0].to)

	code, err := codes.Get(ctx, resetCodeKey("abena@example.com"))
	require.NoError(t, err)
	require.Len(t, code, 6)
	assert.Contains(t, mailer.sent[0].body, code)

	req := models.ResetPasswordRequest{Email: "abena@example.com", OTP: code, NewPassword: "newpassword"}
	require.NoError(t, svc.ResetPassword(ctx, req))

	_, err = auth.Login(ctx, models.LoginRequest{Email: "abena@example.com", Password: "oldpassword"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = auth.Login(ctx, models.LoginRequest{Email: "abena@example.com", Password: "newpassword"})
	assert.NoError(t, err)

	// codes are single use
	assert.ErrorIs(t, svc.ResetPassword(ctx, req), ErrInvalidResetCode)
}

func TestForgotPassword_UnknownEmailIsSilent(t *testing.T) {
	svc, _, _, mailer := newPasswordFixture(t)

	require.NoError(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "nobody@example.com"}))
	assert.Empty(t, mailer.sent)
}

func TestForgotPassword_MailFailures(t *testing.T) {
	svc, _, _, mailer := newPasswordFixture(t)
	mailer.err = errors.New("smtp down")
	assert.ErrorIs(t, svc.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "abena@example.com"}), ErrMailUnavailable)

	noMail := NewPasswordService(newFakeUsers(), NewLocalCodeStore(), nil)
	assert.ErrorIs(t, noMail.ForgotPassword(context.Background(), models.ForgotPasswordRequest{Email: "abena@example.com"}), ErrMailUnavailable)
}

func TestResetPassword_AttemptLimit(t *testing.T) {
	svc, auth, codes, _ := newPasswordFixture(t)
	ctx := context.Background()
	require.NoError(t, svc.ForgotPassword(ctx, models.ForgotPasswordRequest{Email: "abena@example.com"}))
	code, _ := codes.Get(ctx, resetCodeKey("abena@example.com"))

	wrong := "000000"
	if code == wrong {
		wrong = "111111"
	}
	for i := 0; i < resetAttemptLimit; i++ {
		err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "abena@example.com", OTP: wrong, NewPassword: "newpassword"})
		require.ErrorIs(t, err, ErrInvalidResetCode, "attempt %d", i)
	}

	err := svc.ResetPassword(ctx, models.ResetPasswordRequest{Email: "abena@example.com", OTP: code, NewPassword: "newpassword"})
	assert.ErrorIs(t, err, ErrTooManyAttempts)
	_, err = auth.Login(ctx, models.LoginRequest{Email: "abena@example.com", Password: "oldpassword"})
	assert.NoError(t, err)
}

func TestLocalCodeStoreExpiry(t *testing.T) {
	store := NewLocalCodeStore()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "k", "123456", time.Minute))
	got, _ := store.Get(ctx, "k")
	assert.Equal(t, "123456", got)

	n, _ := store.Attempt(ctx, "a", time.Hour)
	assert.Equal(t, int64(1), n)
	n, _ = store.Attempt(ctx, "a", time.Hour)
	assert.Equal(t, int64(2), n)

	now = now.Add(2 * time.Minute)
	got, _ = store.Get(ctx, "k")
	assert.Empty(t, got)

	now = now.Add(time.Hour)
	n, _ = store.Attempt(ctx, "a", time.Hour)
	assert.Equal(t, int64(1), n)
}
