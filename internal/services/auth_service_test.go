package services

import (
	"testing"

	"github.com/sqlsage/sqlsage-backend/internal/dto"
	"github.com/sqlsage/sqlsage-backend/internal/models"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.Equal(t, "a@x.com", resp.User.Email)
	require.False(t, resp.User.IsAdmin)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "a@x.com").Error)
	require.NotEqual(t, "s3cret-pass", user.PasswordHash)
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("s3cret-pass")))
}

func TestAuthService_RegisterDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Imposter", Password: "other-pass1"})
	require.ErrorIs(t, err, ErrEmailTaken)
}

func TestAuthService_RegisterShortPasswordRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "short"})
	require.Error(t, err)
}

func TestAuthService_RegisterAllowListedEmailIsAdmin(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	resp, err := svc.Register(&dto.RegisterRequest{Email: "admin@example.com", Name: "Root", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.True(t, resp.User.IsAdmin)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "admin@example.com").Error)
	require.True(t, user.IsAdmin)
}

func TestAuthService_LoginWrongPasswordIsInvalidCredentials(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	_, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	_, err = svc.Login(&dto.LoginRequest{Email: "a@x.com", Password: "wrong-pass1"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.NotErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_LoginUnknownEmailIsNotFound(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	_, err := svc.Login(&dto.LoginRequest{Email: "ghost@x.com", Password: "whatever1"})
	require.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_LoginAllowListPromotesWithoutDBWrite(t *testing.T) {
	db := newTestDB(t)

	// Registered before the email was added to the allow-list.
	plainCfg := newTestConfig()
	plainCfg.AdminEmails = ""
	_, err := NewAuthService(db, plainCfg).Register(&dto.RegisterRequest{
		Email: "admin@example.com", Name: "Root", Password: "s3cret-pass",
	})
	require.NoError(t, err)

	svc := NewAuthService(db, newTestConfig())
	resp, err := svc.Login(&dto.LoginRequest{Email: "admin@example.com", Password: "s3cret-pass"})
	require.NoError(t, err)
	require.True(t, resp.User.IsAdmin)

	var user models.User
	require.NoError(t, db.First(&user, "email = ?", "admin@example.com").Error)
	require.False(t, user.IsAdmin, "allow-list promotion must not mutate the stored flag")
}

func TestAuthService_RefreshRotatesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	reg, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	refreshed, err := svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.NoError(t, err)
	require.NotEqual(t, reg.RefreshToken, refreshed.RefreshToken)

	// Old token is revoked after rotation.
	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	db := newTestDB(t)
	svc := NewAuthService(db, newTestConfig())

	reg, err := svc.Register(&dto.RegisterRequest{Email: "a@x.com", Name: "Alice", Password: "s3cret-pass"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(&dto.LogoutRequest{RefreshToken: reg.RefreshToken}))

	_, err = svc.Refresh(&dto.RefreshRequest{RefreshToken: reg.RefreshToken})
	require.ErrorIs(t, err, ErrInvalidToken)
}
