package auth

import (
	"errors"
	"strings"
	"unicode"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/jwt"
	"github.com/quill-cms/core/internal/pkg/validate"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrBadCredentials  = errors.New("invalid email or password")
	ErrAccountInactive = errors.New("account is deactivated")
	ErrEmailTaken      = errors.New("email already registered")
)

// MinPasswordLength is the floor of the password strength policy.
const MinPasswordLength = 8

// Service implements registration, login and token refresh.
type Service struct {
	db     *gorm.DB
	signer *jwt.Signer
}

func NewService(db *gorm.DB, signer *jwt.Signer) *Service {
	return &Service{db: db, signer: signer}
}

// NormalizeEmail trims and lower-cases the address. Emails are stored
// lower-cased so uniqueness and login lookups do not depend on the
// database collation.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// CheckPassword enforces the strength policy: minimum length and not
// entirely numeric.
func CheckPassword(password string) string {
	if len(password) < MinPasswordLength {
		return "password must be at least 8 characters long"
	}
	allDigits := true
	for _, r := range password {
		if !unicode.IsDigit(r) {
			allDigits = false
			break
		}
	}
	if allDigits {
		return "password cannot be entirely numeric"
	}
	return ""
}

// RegisterDTO carries a self-service registration.
type RegisterDTO struct {
	Email           string `json:"email" binding:"required"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password" binding:"required"`
	PasswordConfirm string `json:"password_confirm" binding:"required"`
}

// Register creates a new active, non-staff account. Email uniqueness is
// enforced by the column constraint rather than a pre-check.
func (s *Service) Register(dto *RegisterDTO) (*models.UserModel, error) {
	fieldErrs := validate.Errors{}

	email := NormalizeEmail(dto.Email)
	if !validate.Email(email) {
		fieldErrs.Add("email", "invalid email")
	}
	if reason := CheckPassword(dto.Password); reason != "" {
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

	user := models.UserModel{
		Email:     email,
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Password:  string(hash),
		IsActive:  true,
	}
	err = s.db.Create(&user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// TokenPair is the issued credential set.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// Login verifies credentials and issues an access/refresh token pair.
func (s *Service) Login(email, password string) (*models.UserModel, *TokenPair, error) {
	var user models.UserModel
	err := s.db.Where("email = ?", NormalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, ErrBadCredentials
	}
	if err != nil {
		return nil, nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, nil, ErrBadCredentials
	}
	if !user.IsActive {
		return nil, nil, ErrAccountInactive
	}

	pair, err := s.issuePair(&user)
	if err != nil {
		return nil, nil, err
	}
	return &user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The new
// token carries a fresh profile snapshot.
func (s *Service) Refresh(refreshToken string) (string, error) {
	claims, err := s.signer.ParseRefresh(refreshToken)
	if err != nil {
		return "", err
	}

	var user models.UserModel
	if err := s.db.First(&user, "id = ?", claims.UserID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrBadCredentials
		}
		return "", err
	}
	if !user.IsActive {
		return "", ErrAccountInactive
	}

	return s.signer.SignAccess(snapshot(&user))
}

// GetUser fetches an account by id, (nil, nil) when absent.
func (s *Service) GetUser(id string) (*models.UserModel, error) {
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

// ProfileDTO carries a self-profile update; nil fields are left unchanged.
type ProfileDTO struct {
	Email     *string `json:"email"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
}

// UpdateProfile applies a self-service profile change.
func (s *Service) UpdateProfile(user *models.UserModel, dto *ProfileDTO) error {
	if dto.Email != nil {
		email := NormalizeEmail(*dto.Email)
		if !validate.Email(email) {
			return validate.Errors{"email": "invalid email"}
		}
		user.Email = email
	}
	if dto.FirstName != nil {
		user.FirstName = *dto.FirstName
	}
	if dto.LastName != nil {
		user.LastName = *dto.LastName
	}

	err := s.db.Save(user).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrEmailTaken
	}
	return err
}

// StaffChecker adapts the service for the auth middleware.
func (s *Service) StaffChecker() func(userID string) (bool, bool, error) {
	return func(userID string) (bool, bool, error) {
		var user models.UserModel
		err := s.db.Select("is_staff", "is_active").First(&user, "id = ?", userID).Error
		if err != nil {
			return false, false, err
		}
		return user.IsStaff, user.IsActive, nil
	}
}

func (s *Service) issuePair(user *models.UserModel) (*TokenPair, error) {
	snap := snapshot(user)
	access, err := s.signer.SignAccess(snap)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signer.SignRefresh(snap)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func snapshot(user *models.UserModel) jwt.Snapshot {
	return jwt.Snapshot{
		UserID:    user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}
}
