package accounts

import (
	"errors"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/modules/auth"
	"github.com/quill-cms/core/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("user not found")

	// Self-protection policy violations. These are client errors (400), not
	// permission errors: the caller is allowed to manage accounts, just not
	// to saw off the branch they sit on.
	ErrSelfDelete      = errors.New("you cannot delete your own account")
	ErrSelfStaffRevoke = errors.New("you cannot revoke your own administrator status")
	ErrSelfDeactivate  = errors.New("you cannot deactivate your own account")
)

// Service implements administrator-only account management.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// List returns all accounts, newest first, optionally filtered by a
// free-text search across email and names.
func (s *Service) List(search string) ([]models.UserModel, error) {
	tx := s.db.Model(&models.UserModel{}).Order("created_at DESC")
	if search != "" {
		like := "%" + search + "%"
		tx = tx.Where("email LIKE ? OR first_name LIKE ? OR last_name LIKE ?", like, like, like)
	}

	var users []models.UserModel
	return users, tx.Find(&users).Error
}

// Get fetches an account by id, (nil, nil) when absent.
func (s *Service) Get(id string) (*models.UserModel, error) {
	var user models.UserModel
	err := s.db.First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// CreateDTO carries an admin-created account.
type CreateDTO struct {
	Email           string `json:"email" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
	IsStaff         bool   `json:"is_staff"`
	IsActive        *bool  `json:"is_active"`
}

// Create adds an account with admin-chosen flags.
func (s *Service) Create(dto *CreateDTO) (*models.UserModel, error) {
	fieldErrs := validate.Errors{}

	email := auth.NormalizeEmail(dto.Email)
	if !validate.Email(email) {
		fieldErrs.Add("email", "invalid email")
	}
	if reason := auth.CheckPassword(dto.Password); reason != "" {
		fieldErrs.Add("password", reason)
	}
	if dto.Password != dto.PasswordConfirm {
		fieldErrs.Add("password_confirm", "passwords do not match")
	}
	if len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(dto.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	isActive := true
	if dto.IsActive != nil {
		isActive = *dto.IsActive
	}
	user := models.UserModel{
		Email:     email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Password:  string(hash),
		IsStaff:   dto.IsStaff,
		IsActive:  isActive,
	}
	err = s.db.Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, auth.ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateDTO carries an admin account update; nil fields are left unchanged.
type UpdateDTO struct {
	Email           *string `json:"email"`
	FirstName       *string `json:"first_name"`
	LastName        *string `json:"last_name"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"password_confirm"`
	IsStaff         *bool   `json:"is_staff"`
	IsActive        *bool   `json:"is_active"`
}

// Update applies admin changes to an account. The self-protection rules
// apply when the actor edits their own flags.
func (s *Service) Update(actorID string, user *models.UserModel, dto *UpdateDTO) error {
	if user.ID == actorID {
		if dto.IsStaff != nil && user.IsStaff && !*dto.IsStaff {
			return ErrSelfStaffRevoke
		}
		if dto.IsActive != nil && !*dto.IsActive {
			return ErrSelfDeactivate
		}
	}

	fieldErrs := validate.Errors{}
	if dto.Email != nil {
		email := auth.NormalizeEmail(*dto.Email)
		if !validate.Email(email) {
			fieldErrs.Add("email", "invalid email")
		} else {
			user.Email = email
		}
	}
	if dto.Password != nil {
		if reason := auth.CheckPassword(*dto.Password); reason != "" {
			fieldErrs.Add("password", reason)
		}
		if dto.PasswordConfirm == nil || *dto.Password != *dto.PasswordConfirm {
			fieldErrs.Add("password_confirm", "passwords do not match")
		}
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}

	if dto.FirstName != nil {
		user.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		user.LastName = *dto.LastName
	}
	if dto.IsStaff != nil {
		user.IsStaff = *dto.IsStaff
	}
	if dto.IsActive != nil {
		user.IsActive = *dto.IsActive
	}
	if dto.Password != nil {
		hash, err := bcrypt.GenerateFromPassword([]byte(*dto.Password), bcrypt.DefaultCost)
		if err != nil {
			return err
		}
		user.Password = string(hash)
	}

	err := s.db.Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return auth.ErrEmailTaken
	}
	return err
}

// Delete removes an account and, via the foreign key cascade, its posts.
// An account may not delete itself.
func (s *Service) Delete(actorID string, user *models.UserModel) error {
	if user.ID == actorID {
		return ErrSelfDelete
	}
	return s.db.Transaction(func(tx *gorm.DB) error {
		// Explicit cascade keeps backends without FK enforcement consistent.
		if err := tx.Where("author_id = ?", user.ID).Delete(&models.PostModel{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
}

// ToggleStaff flips the staff flag. Actors cannot revoke their own flag.
func (s *Service) ToggleStaff(actorID string, user *models.UserModel) error {
	if user.ID == actorID && user.IsStaff {
		return ErrSelfStaffRevoke
	}
	user.IsStaff = !user.IsStaff
	return s.db.Model(user).Update("is_staff", user.IsStaff).Error
}

// ToggleActive flips the active flag. Actors cannot deactivate themselves.
func (s *Service) ToggleActive(actorID string, user *models.UserModel) error {
	if user.ID == actorID {
		return ErrSelfDeactivate
	}
	user.IsActive = !user.IsActive
	return s.db.Model(user).Update("is_active", user.IsActive).Error
}
