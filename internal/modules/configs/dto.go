package configs

import "github.com/quill-cms/core/internal/models"

// configurationResponse is the admin-facing representation: the stored row
// plus the typed effective value.
type configurationResponse struct {
	models.ConfigurationModel
	ValueTyped interface{} `json:"value_typed"`
}

func toResponse(entry *models.ConfigurationModel) configurationResponse {
	return configurationResponse{
		ConfigurationModel: *entry,
		ValueTyped:         EffectiveValue(entry),
	}
}

func toResponses(entries []models.ConfigurationModel) []configurationResponse {
	items := make([]configurationResponse, len(entries))
	for i := range entries {
		items[i] = toResponse(&entries[i])
	}
	return items
}

// createDTO carries a new configuration entry.
type createDTO struct {
	Key          string `json:"key" binding:"required"`
	Value        string `json:"value"`
	DefaultValue string `json:"default_value"`
	Category     string `json:"category"`
	Type         string `json:"type"`
	Label        string `json:"label" binding:"required"`
	Description  string `json:"description"`
	IsRequired   bool   `json:"is_required"`
	IsPublic     bool   `json:"is_public"`
	Order        int    `json:"order"`
}

func (d createDTO) model() models.ConfigurationModel {
	return models.ConfigurationModel{
		Key:          d.Key,
		Value:        d.Value,
		DefaultValue: d.DefaultValue,
		Category:     d.Category,
		Type:         d.Type,
		Label:        d.Label,
		Description:  d.Description,
		IsRequired:   d.IsRequired,
		IsPublic:     d.IsPublic,
		Order:        d.Order,
	}
}

// updateValueDTO carries a value-only update.
type updateValueDTO struct {
	Value string `json:"value"`
}

// bulkUpdateDTO carries a batch of value updates.
type bulkUpdateDTO struct {
	Configurations []BulkItem `json:"configurations" binding:"required"`
}

// resetDTO optionally narrows a reset to one category.
type resetDTO struct {
	Category string `json:"category"`
}

// categoryGroup is one section of the grouped admin listing.
type categoryGroup struct {
	Category       string                  `json:"category"`
	Label          string                  `json:"label"`
	Configurations []configurationResponse `json:"configurations"`
}

// choice is a value/label pair for the categories and types listings.
type choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
