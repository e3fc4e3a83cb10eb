package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/modules/configs"
	"github.com/quill-cms/core/internal/pkg/mail"
	"github.com/quill-cms/core/internal/pkg/validate"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var ErrNotFound = errors.New("message not found")

const (
	minNameLength    = 2
	minMessageLength = 10
)

// Service stores contact-form submissions and notifies the site owner.
type Service struct {
	db      *gorm.DB
	configs *configs.Service
	logger  *zap.Logger
}

func NewService(db *gorm.DB, cfgService *configs.Service, logger *zap.Logger) *Service {
	return &Service{db: db, configs: cfgService, logger: logger}
}

// CreateDTO carries a public contact-form submission.
type CreateDTO struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message" binding:"required"`
}

func (dto *CreateDTO) validate() error {
	fieldErrs := validate.Errors{}
	if len(strings.TrimSpace(dto.Name)) < minNameLength {
		fieldErrs.Add("name", fmt.Sprintf("name must be at least %d characters", minNameLength))
	}
	if !validate.Email(strings.TrimSpace(dto.Email)) {
		fieldErrs.Add("email", "invalid email")
	}
	if len(strings.TrimSpace(dto.Message)) < minMessageLength {
		fieldErrs.Add("message", fmt.Sprintf("message must be at least %d characters", minMessageLength))
	}
	if len(fieldErrs) > 0 {
		return fieldErrs
	}
	return nil
}

// Create validates and stores a submission, then dispatches the owner
// notification in the background so slow SMTP never blocks the request.
func (s *Service) Create(dto *CreateDTO) (*models.ContactMessageModel, error) {
	if err := dto.validate(); err != nil {
		return nil, err
	}

	msg := models.ContactMessageModel{
		Name:    strings.TrimSpace(dto.Name),
		Email:   strings.TrimSpace(dto.Email),
		Phone:   strings.TrimSpace(dto.Phone),
		Subject: strings.TrimSpace(dto.Subject),
		Message: strings.TrimSpace(dto.Message),
	}
	if err := s.db.Create(&msg).Error; err != nil {
		return nil, err
	}

	go s.notify(&msg)
	return &msg, nil
}

// notify emails the configured contact address. SMTP settings live in the
// configuration store's email category so admins can change them at runtime.
func (s *Service) notify(msg *models.ContactMessageModel) {
	settings, err := s.configs.ValuesByCategory(configs.CategoryEmail)
	if err != nil {
		s.logger.Warn("loading mail settings failed", zap.Error(err))
		return
	}

	to, _ := settings["contact_email"].(string)
	if to == "" {
		return
	}

	enabled, _ := settings["smtp_enabled"].(bool)
	sender := mail.New(mail.Config{
		Enable: enabled,
		Host:   stringSetting(settings, "smtp_host"),
		Port:   int(intSetting(settings, "smtp_port", 587)),
		User:   stringSetting(settings, "smtp_user"),
		Pass:   stringSetting(settings, "smtp_password"),
		From:   stringSetting(settings, "smtp_from"),
	})

	subject := msg.Subject
	if subject == "" {
		subject = "New contact message"
	}
	if site := s.configs.GetString("site_name", ""); site != "" {
		subject = fmt.Sprintf("[%s] %s", site, subject)
	}
	body := fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s", msg.Name, msg.Email, msg.Phone, msg.Message)

	if err := sender.Send(mail.Message{To: []string{to}, Subject: subject, Text: body}); err != nil {
		s.logger.Warn("contact notification failed", zap.Error(err), zap.String("message_id", msg.ID))
	}
}

func stringSetting(settings map[string]interface{}, key string) string {
	v, _ := settings[key].(string)
	return v
}

func intSetting(settings map[string]interface{}, key string, def int64) int64 {
	switch v := settings[key].(type) {
	case int64:
		return v
	case float64:
		return int64(v)
	default:
		return def
	}
}

// List returns messages, newest first, optionally filtered to unread.
func (s *Service) List(unreadOnly bool) ([]models.ContactMessageModel, error) {
	tx := s.db.Model(&models.ContactMessageModel{}).Order("created_at DESC")
	if unreadOnly {
		tx = tx.Where("is_read = ?", false)
	}

	var msgs []models.ContactMessageModel
	return msgs, tx.Find(&msgs).Error
}

// Get fetches one message by id, (nil, nil) when absent.
func (s *Service) Get(id string) (*models.ContactMessageModel, error) {
	var msg models.ContactMessageModel
	err := s.db.First(&msg, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &msg, nil
}

// ToggleRead flips the read flag.
func (s *Service) ToggleRead(msg *models.ContactMessageModel) error {
	msg.IsRead = !msg.IsRead
	return s.db.Model(msg).Update("is_read", msg.IsRead).Error
}

// Delete removes a message.
func (s *Service) Delete(msg *models.ContactMessageModel) error {
	return s.db.Delete(msg).Error
}

// UnreadCount reports how many messages await attention.
func (s *Service) UnreadCount() (int64, error) {
	var n int64
	err := s.db.Model(&models.ContactMessageModel{}).Where("is_read = ?", false).Count(&n).Error
	return n, err
}
