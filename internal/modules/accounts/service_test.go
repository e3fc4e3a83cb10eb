package accounts

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/modules/auth"
	"github.com/quill-cms/core/internal/pkg/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.UserModel{}, &models.PostModel{}))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

func createAccount(t *testing.T, svc *Service, email string, staff bool) *models.UserModel {
	t.Helper()
	user, err := svc.Create(&CreateDTO{
		Email:           email,
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
		IsStaff:         staff,
	})
	require.NoError(t, err)
	return user
}

func TestCreateAccount(t *testing.T) {
	svc := NewService(setupTestDB(t))

	user := createAccount(t, svc, "staff@example.com", true)
	assert.True(t, user.IsStaff)
	assert.True(t, user.IsActive)

	_, err := svc.Create(&CreateDTO{
		Email:           "staff@example.com",
		Password:        "correct-horse",
		PasswordConfirm: "correct-horse",
	})
	assert.ErrorIs(t, err, auth.ErrEmailTaken)

	_, err = svc.Create(&CreateDTO{
		Email:           "weak@example.com",
		Password:        "123",
		PasswordConfirm: "124",
	})
	var fieldErrs validate.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "password")
	assert.Contains(t, fieldErrs, "password_confirm")
}

func TestListSearch(t *testing.T) {
	svc := NewService(setupTestDB(t))
	createAccount(t, svc, "ada@example.com", false)
	bob := createAccount(t, svc, "bob@example.com", false)
	bob.FirstName = "Robert"
	require.NoError(t, svc.Update(bob.ID, bob, &UpdateDTO{}))

	users, err := svc.List("")
	require.NoError(t, err)
	assert.Len(t, users, 2)

	users, err = svc.List("robert")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "bob@example.com", users[0].Email)
}

func TestSelfProtection(t *testing.T) {
	svc := NewService(setupTestDB(t))
	admin := createAccount(t, svc, "admin@example.com", true)
	other := createAccount(t, svc, "other@example.com", true)

	assert.ErrorIs(t, svc.Delete(admin.ID, admin), ErrSelfDelete)
	assert.ErrorIs(t, svc.ToggleStaff(admin.ID, admin), ErrSelfStaffRevoke)
	assert.ErrorIs(t, svc.ToggleActive(admin.ID, admin), ErrSelfDeactivate)

	off := false
	err := svc.Update(admin.ID, admin, &UpdateDTO{IsStaff: &off})
	assert.ErrorIs(t, err, ErrSelfStaffRevoke)
	err = svc.Update(admin.ID, admin, &UpdateDTO{IsActive: &off})
	assert.ErrorIs(t, err, ErrSelfDeactivate)

	// The same operations against another account succeed.
	require.NoError(t, svc.ToggleStaff(admin.ID, other))
	assert.False(t, other.IsStaff)
	require.NoError(t, svc.ToggleActive(admin.ID, other))
	assert.False(t, other.IsActive)
	require.NoError(t, svc.Delete(admin.ID, other))

	got, err := svc.Get(other.ID)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestToggleStaffPromotesSelf(t *testing.T) {
	// Granting yourself a flag you lack is not revocation; only the
	// revoke direction is blocked.
	svc := NewService(setupTestDB(t))
	user := createAccount(t, svc, "plain@example.com", false)
	require.NoError(t, svc.ToggleStaff(user.ID, user))
	assert.True(t, user.IsStaff)
}

func TestUpdatePassword(t *testing.T) {
	svc := NewService(setupTestDB(t))
	user := createAccount(t, svc, "ada@example.com", false)
	oldHash := user.Password

	pw := "new-password-1"
	require.NoError(t, svc.Update("someone-else", user, &UpdateDTO{
		Password: &pw, PasswordConfirm: &pw,
	}))
	assert.NotEqual(t, oldHash, user.Password)
	assert.NotEqual(t, pw, user.Password)

	mismatch := "different-pw-1"
	err := svc.Update("someone-else", user, &UpdateDTO{
		Password: &pw, PasswordConfirm: &mismatch,
	})
	var fieldErrs validate.Errors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "password_confirm")
}

func TestDeleteCascadesPosts(t *testing.T) {
	db := setupTestDB(t)
	svc := NewService(db)
	admin := createAccount(t, svc, "admin@example.com", true)
	author := createAccount(t, svc, "author@example.com", false)

	post := models.PostModel{Title: "Orphan Me", Slug: "orphan-me", AuthorID: author.ID}
	require.NoError(t, db.Create(&post).Error)

	require.NoError(t, svc.Delete(admin.ID, author))

	var n int64
	require.NoError(t, db.Model(&models.PostModel{}).Where("author_id = ?", author.ID).Count(&n).Error)
	assert.Zero(t, n)
}
