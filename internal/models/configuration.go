package models

// ConfigurationModel is a single dynamic site setting. The value is stored
// as raw text and interpreted according to Type; see the configs module for
// validation and conversion rules.
type ConfigurationModel struct {
	Base
	Key          string `json:"key"           gorm:"uniqueIndex;not null"`
	Value        string `json:"value"`
	DefaultValue string `json:"default_value"`
	Category     string `json:"category"      gorm:"index;default:general"`
	Type         string `json:"type"          gorm:"default:text"`
	Label        string `json:"label"`
	Description  string `json:"description"`
	IsRequired   bool   `json:"is_required"   gorm:"default:false"`
	IsPublic     bool   `json:"is_public"     gorm:"default:false;index"`
	Order        int    `json:"order"         gorm:"default:0"`
}

func (ConfigurationModel) TableName() string { return "configurations" }

// RawEffectiveValue resolves the stored text before type conversion: the
// live value when set, otherwise the default.
func (c ConfigurationModel) RawEffectiveValue() string {
	if c.Value != "" {
		return c.Value
	}
	return c.DefaultValue
}
