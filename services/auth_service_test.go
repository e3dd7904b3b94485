package services

import (
	"context"
	"testing"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSigner struct {
	userType string
}

func (s *stubSigner) GenerateJWT(userID, email, userType string) (string, string, error) {
	s.userType = userType
	return "access-" + userID, "refresh-" + userID, nil
}

func newAuthFixture() (*AuthService, *fakeUsers, *fakeAdmins, *stubSigner) {
	users := newFakeUsers()
	admins := &fakeAdmins{}
	signer := &stubSigner{}
	return NewAuthService(users, admins, signer), users, admins, signer
}

func TestRegister(t *testing.T) {
	svc, users, _, signer := newAuthFixture()
	ctx := context.Background()
	referrer := users.add(&models.User{Email: "ref@example.com", ReferralCode: "USR-ABC234"})

	res, err := svc.Register(ctx, models.SignupRequest{
		Email:        "  New.User@Example.com ",
		Password:     "s3cretpass",
		FullName:     "New User",
		Phone:        "024 123 4567",
		ReferralCode: "usr-abc234",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, models.UserTypeUser, signer.userType)

	u, err := users.FindByEmail(ctx, "new.user@example.com")
	require.NoError(t, err)
	assert.True(t, utils.IsReferralCode(u.ReferralCode))
	assert.NotEqual(t, referrer.ReferralCode, u.ReferralCode)
	assert.Equal(t, referrer.ReferralCode, u.ReferredBy)
	assert.Equal(t, "+0241234567", u.Phone)
	assert.NotEqual(t, "s3cretpass", u.Password)
	assert.True(t, u.IsActive)

	_, err = svc.Register(ctx, models.SignupRequest{Email: "new.user@example.com", Password: "another1", FullName: "Dup"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegister_UnknownReferralCodeIgnored(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	ctx := context.Background()

	_, err := svc.Register(ctx, models.SignupRequest{
		Email: "solo@example.com", Password: "password1", FullName: "Solo", ReferralCode: "USR-NOPE00",
	})
	require.NoError(t, err)

	u, err := users.FindByEmail(ctx, "solo@example.com")
	require.NoError(t, err)
	assert.Empty(t, u.ReferredBy)
}

func TestLogin(t *testing.T) {
	svc, users, _, _ := newAuthFixture()
	ctx := context.Background()
	_, err := svc.Register(ctx, models.SignupRequest{Email: "kwame@example.com", Password: "password1", FullName: "Kwame"})
	require.NoError(t, err)

	res, err := svc.Login(ctx, models.LoginRequest{Email: "KWAME@example.com", Password: "password1"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)

	u, err := users.FindByEmail(ctx, "kwame@example.com")
	require.NoError(t, err)
	assert.NotNil(t, u.LastLoginAt)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "kwame@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, models.LoginRequest{Email: "ghost@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	require.NoError(t, users.update(u.ID, func(u *models.User) { u.IsActive = false }))
	_, err = svc.Login(ctx, models.LoginRequest{Email: "kwame@example.com", Password: "password1"})
	assert.ErrorIs(t, err, ErrAccountDisabled)
}

func TestAdminAccounts(t *testing.T) {
	svc, _, admins, signer := newAuthFixture()
	ctx := context.Background()

	require.NoError(t, svc.EnsureSuperAdmin(ctx, "root@academy.test", "rootpass1"))
	require.NoError(t, svc.EnsureSuperAdmin(ctx, "other@academy.test", "rootpass1"))
	n, _ := admins.Count(ctx)
	assert.Equal(t, int64(1), n)

	_, err := svc.AdminLogin(ctx, models.LoginRequest{Email: "root@academy.test", Password: "rootpass1"})
	require.NoError(t, err)
	assert.Equal(t, models.RoleSuperAdmin, signer.userType)

	req := models.CreateAdminRequest{Email: "ops@academy.test", Password: "opspass12", FullName: "Ops"}
	_, err = svc.CreateAdmin(ctx, models.RoleAdmin, req)
	assert.ErrorIs(t, err, ErrForbidden)

	admin, err := svc.CreateAdmin(ctx, models.RoleSuperAdmin, req)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)

	_, err = svc.CreateAdmin(ctx, models.RoleSuperAdmin, req)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.AdminLogin(ctx, models.LoginRequest{Email: "ops@academy.test", Password: "nope"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	list, err := svc.ListAdmins(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)
}
