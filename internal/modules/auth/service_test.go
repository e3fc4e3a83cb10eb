package auth

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/jwt"
	"github.com/quill-cms/core/internal/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	signer := jwt.NewSigner("test-secret", time.Minute, time.Hour)
	return NewService(db, signer), db
}

func TestNormalizeEmail(t *testing.T) {
	assert.Equal(t, "user@example.com", NormalizeEmail("  User@EXAMPLE.COM  "))
	assert.Equal(t, "plain", NormalizeEmail("plain"))
	assert.Equal(t, "a@b@c.com", NormalizeEmail("a@B@C.COM"))
}

func TestCheckPassword(t *testing.T) {
	assert.NotEmpty(t, CheckPassword("short"))
	assert.NotEmpty(t, CheckPassword("12345678"))
	assert.Empty(t, CheckPassword("sufficiently-long"))
	assert.Empty(t, CheckPassword("pass1234"))
}

func TestRegister(t *testing.T) {
	svc, _ := setupService(t)

	user, err := svc.Register(&RegisterDTO{
		Email:           "New@EXAMPLE.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", user.Email) // stored lower-cased
	assert.True(t, user.IsActive)
	assert.False(t, user.IsStaff)
	assert.NotEqual(t, "correct-horse", user.Password) // stored hashed

	// A re-registration differing only in case hits the unique index.
	_, err = svc.Register(&RegisterDTO{
		Email:           "NEW@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := setupService(t)

	_, err := svc.Register(&RegisterDTO{
		Email:           "bad-email",
		Password:        "12345678",
		PasswordConfirm: "different",
	})
	var fieldErrs validate.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "email")
	assert.Contains(t, fieldErrs, "password")
	assert.Contains(t, fieldErrs, "password_confirm")
}

func TestLogin(t *testing.T) {
	svc, db := setupService(t)
	_, err := svc.Register(&RegisterDTO{
		Email:           "ada@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)

	user, pair, err := svc.Login("ada@EXAMPLE.com", "correct-horse")
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", user.Email)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)

	_, _, err = svc.Login("ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, _, err = svc.Login("ghost@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrBadCredentials)

	require.NoError(t, db.Model(&models.UserModel{}).
		Where("email = ?", "ada@example.com").
		Update("is_active", false).Error)
	_, _, err = svc.Login("ada@example.com", "correct-horse")
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestRefresh(t *testing.T) {
	svc, db := setupService(t)
	user, err := svc.Register(&RegisterDTO{
		Email:           "ada@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)

	_, pair, err := svc.Login("ada@example.com", "correct-horse")
	require.NoError(t, err)

	access, err := svc.Refresh(pair.Refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, access)

	// An access token is not accepted in place of a refresh token.
	_, err = svc.Refresh(pair.Access)
	assert.Error(t, err)

	_, err = svc.Refresh("garbage")
	assert.Error(t, err)

	// Deactivation invalidates refresh immediately.
	require.NoError(t, db.Model(user).Update("is_active", false).Error)
	_, err = svc.Refresh(pair.Refresh)
	assert.ErrorIs(t, err, ErrAccountInactive)
}

func TestUpdateProfile(t *testing.T) {
	svc, _ := setupService(t)
	user, err := svc.Register(&RegisterDTO{
		Email:           "ada@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)
	_, err = svc.Register(&RegisterDTO{
		Email:           "taken@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)

	first := "Ada"
	require.NoError(t, svc.UpdateProfile(user, &ProfileDTO{FirstName: &first}))
	assert.Equal(t, "Ada", user.FirstName)

	bad := "not-an-email"
	err = svc.UpdateProfile(user, &ProfileDTO{Email: &bad})
	var fieldErrs validate.Errors
	assert.ErrorAs(t, err, &fieldErrs)

	dup := "taken@example.com"
	err = svc.UpdateProfile(user, &ProfileDTO{Email: &dup})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestStaffChecker(t *testing.T) {
	svc, db := setupService(t)
	user, err := svc.Register(&RegisterDTO{
		Email:           "ada@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	require.NoError(t, err)

	check := svc.StaffChecker()
	isStaff, isActive, err := check(user.ID)
	require.NoError(t, err)
	assert.False(t, isStaff)
	assert.True(t, isActive)

	require.NoError(t, db.Model(user).Update("is_staff", true).Error)
	isStaff, _, err = check(user.ID)
	require.NoError(t, err)
	assert.True(t, isStaff)

	_, _, err = check("no-such-id")
	assert.Error(t, err)
}
