package configs

import (
	"errors"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("configuration not found")
	ErrKeyTaken       = errors.New("configuration key already in use")
	ErrDeleteRequired = errors.New("cannot delete a required configuration")
)

// Service is the typed configuration store. Settings persist as raw text
// with a declared type; validation happens on write, conversion on read.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// EffectiveValue resolves value-else-default and converts it per the
// entry's declared type.
func EffectiveValue(entry *models.ConfigurationModel) interface{} {
	return ValueType(entry.Type).Convert(entry.RawEffectiveValue())
}

// Get returns the typed effective value for key, or the caller-supplied
// default when the key is absent. Absence is not an error.
func (s *Service) Get(key string, def interface{}) interface{} {
	entry, err := s.GetEntry(key)
	if err != nil || entry == nil {
		return def
	}
	return EffectiveValue(entry)
}

// GetString is Get for callers that want the raw stored text.
func (s *Service) GetString(key, def string) string {
	entry, err := s.GetEntry(key)
	if err != nil || entry == nil {
		return def
	}
	if raw := entry.RawEffectiveValue(); raw != "" {
		return raw
	}
	return def
}

// GetEntry fetches a single entry by key, (nil, nil) when absent.
func (s *Service) GetEntry(key string) (*models.ConfigurationModel, error) {
	var entry models.ConfigurationModel
	err := s.db.Where("`key` = ?", key).First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// ListQuery filters List.
type ListQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// List returns entries ordered for display (category, order, label),
// optionally filtered by category and free-text search.
func (s *Service) List(q ListQuery) ([]models.ConfigurationModel, error) {
	tx := s.db.Model(&models.ConfigurationModel{}).
		Order("category, `order`, label")

	if q.Category != "" {
		tx = tx.Where("category = ?", q.Category)
	}
	if q.Search != "" {
		like := "%" + q.Search + "%"
		tx = tx.Where("`key` LIKE ? OR label LIKE ? OR description LIKE ?", like, like, like)
	}

	var entries []models.ConfigurationModel
	return entries, tx.Find(&entries).Error
}

// Create persists a new entry. Key uniqueness relies on the column
// constraint, not a pre-check, so concurrent creates cannot both win.
func (s *Service) Create(entry *models.ConfigurationModel) error {
	if entry.Category == "" {
		entry.Category = CategoryGeneral
	}
	if entry.Type == "" {
		entry.Type = string(TypeText)
	}
	if fieldErrs := validateEntry(entry); len(fieldErrs) > 0 {
		return fieldErrs
	}

	err := s.db.Create(entry).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrKeyTaken
	}
	return err
}

// SetValue validates value against the entry's declared type and persists
// it. Invalid values fail with a field error on "value" before any write.
func (s *Service) SetValue(key, value string) (*models.ConfigurationModel, error) {
	entry, err := s.GetEntry(key)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}

	if ok, reason := ValueType(entry.Type).Validate(value); !ok {
		return nil, validate.Errors{"value": reason}
	}
	if entry.IsRequired && value == "" && entry.DefaultValue == "" {
		return nil, validate.Errors{"value": "this field is required"}
	}

	entry.Value = value
	if err := s.db.Model(entry).Update("value", value).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Update applies metadata changes to an existing entry (value changes go
// through the same per-type validation as SetValue).
func (s *Service) Update(key string, entry *models.ConfigurationModel) (*models.ConfigurationModel, error) {
	existing, err := s.GetEntry(key)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrNotFound
	}

	entry.ID = existing.ID
	entry.Key = existing.Key
	entry.CreatedAt = existing.CreatedAt
	if entry.Category == "" {
		entry.Category = existing.Category
	}
	if entry.Type == "" {
		entry.Type = existing.Type
	}
	if fieldErrs := validateEntry(entry); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	if err := s.db.Save(entry).Error; err != nil {
		return nil, err
	}
	return entry, nil
}

// Delete removes an entry. Required entries cannot be deleted.
func (s *Service) Delete(key string) error {
	entry, err := s.GetEntry(key)
	if err != nil {
		return err
	}
	if entry == nil {
		return ErrNotFound
	}
	if entry.IsRequired {
		return ErrDeleteRequired
	}
	return s.db.Delete(entry).Error
}

// BulkItem is one (key, value) pair of a bulk update.
type BulkItem struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// BulkError reports why one item of a bulk update failed.
type BulkError struct {
	Key    string `json:"key"`
	Reason string `json:"reason"`
}

// BulkSet applies SetValue per item independently. One bad item never
// aborts the batch; the result lists what succeeded and what failed.
func (s *Service) BulkSet(items []BulkItem) (updated []models.ConfigurationModel, failed []BulkError) {
	for _, item := range items {
		if item.Key == "" {
			failed = append(failed, BulkError{Key: "", Reason: "key is required"})
			continue
		}
		entry, err := s.SetValue(item.Key, item.Value)
		if err != nil {
			failed = append(failed, BulkError{Key: item.Key, Reason: err.Error()})
			continue
		}
		updated = append(updated, *entry)
	}
	return updated, failed
}

// ResetToDefaults overwrites value with default_value for every matching
// entry that has a non-empty default. Entries without a default are left
// untouched and not counted.
func (s *Service) ResetToDefaults(category string) (int, error) {
	tx := s.db.Where("default_value <> ''")
	if category != "" {
		tx = tx.Where("category = ?", category)
	}

	var entries []models.ConfigurationModel
	if err := tx.Find(&entries).Error; err != nil {
		return 0, err
	}

	reset := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range entries {
			if err := tx.Model(&entries[i]).
				Update("value", entries[i].DefaultValue).Error; err != nil {
				return err
			}
			reset++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return reset, nil
}

// PublicValues returns key → typed effective value for public entries only.
func (s *Service) PublicValues() (map[string]interface{}, error) {
	entries, err := s.publicEntries()
	if err != nil {
		return nil, err
	}
	values := make(map[string]interface{}, len(entries))
	for i := range entries {
		values[entries[i].Key] = EffectiveValue(&entries[i])
	}
	return values, nil
}

// PublicValuesByCategory groups public values by category.
func (s *Service) PublicValuesByCategory() (map[string]map[string]interface{}, error) {
	entries, err := s.publicEntries()
	if err != nil {
		return nil, err
	}
	grouped := map[string]map[string]interface{}{}
	for i := range entries {
		entry := &entries[i]
		if grouped[entry.Category] == nil {
			grouped[entry.Category] = map[string]interface{}{}
		}
		grouped[entry.Category][entry.Key] = EffectiveValue(entry)
	}
	return grouped, nil
}

func (s *Service) publicEntries() ([]models.ConfigurationModel, error) {
	var entries []models.ConfigurationModel
	err := s.db.Where("is_public = ?", true).
		Order("category, `order`, label").
		Find(&entries).Error
	return entries, err
}

// ValuesByCategory returns key → typed effective value for one category,
// regardless of visibility. Admin-facing.
func (s *Service) ValuesByCategory(category string) (map[string]interface{}, error) {
	var entries []models.ConfigurationModel
	if err := s.db.Where("category = ?", category).Find(&entries).Error; err != nil {
		return nil, err
	}
	values := make(map[string]interface{}, len(entries))
	for i := range entries {
		values[entries[i].Key] = EffectiveValue(&entries[i])
	}
	return values, nil
}

// SiteInfo bundles the public site/seo/social categories for the
// unauthenticated site-info endpoint.
func (s *Service) SiteInfo() (map[string]map[string]interface{}, error) {
	grouped, err := s.PublicValuesByCategory()
	if err != nil {
		return nil, err
	}
	info := map[string]map[string]interface{}{
		CategorySite:   {},
		CategorySEO:    {},
		CategorySocial: {},
	}
	for _, category := range []string{CategorySite, CategorySEO, CategorySocial} {
		if values, ok := grouped[category]; ok {
			info[category] = values
		}
	}
	return info, nil
}

// validateEntry enforces entry-level invariants on write.
func validateEntry(entry *models.ConfigurationModel) validate.Errors {
	fieldErrs := validate.Errors{}

	if entry.Key == "" {
		fieldErrs.Add("key", "key is required")
	}
	if entry.Label == "" {
		fieldErrs.Add("label", "label is required")
	}

	vt := ValueType(entry.Type)
	if !vt.Known() {
		fieldErrs.Add("type", "unknown configuration type")
	} else {
		if ok, reason := vt.Validate(entry.Value); !ok {
			fieldErrs.Add("value", reason)
		}
		if ok, reason := vt.Validate(entry.DefaultValue); !ok {
			fieldErrs.Add("default_value", reason)
		}
	}

	if entry.IsRequired && entry.Value == "" && entry.DefaultValue == "" {
		fieldErrs.Add("value", "this field is required")
	}

	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}
