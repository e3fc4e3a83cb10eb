package configs

import (
	"github.com/quill-cms/core/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// defaultConfigurations are the settings every installation starts with.
// Seeding never overwrites operator-edited values.
var defaultConfigurations = []models.ConfigurationModel{
	{Key: "site_name", DefaultValue: "Quill", Category: CategorySite, Type: string(TypeText), Label: "Site name", IsRequired: true, IsPublic: true, Order: 0},
	{Key: "site_description", DefaultValue: "A content management system", Category: CategorySite, Type: string(TypeTextarea), Label: "Site description", IsPublic: true, Order: 1},
	{Key: "site_url", DefaultValue: "http://localhost:8000", Category: CategorySite, Type: string(TypeURL), Label: "Site URL", IsPublic: true, Order: 2},
	{Key: "site_logo", Category: CategorySite, Type: string(TypeFile), Label: "Site logo", IsPublic: true, Order: 3},
	{Key: "maintenance_mode", DefaultValue: "false", Category: CategorySite, Type: string(TypeBoolean), Label: "Maintenance mode", Order: 4},
	{Key: "posts_per_page", DefaultValue: "20", Category: CategorySite, Type: string(TypeNumber), Label: "Posts per page", Order: 5},

	{Key: "seo_title", Category: CategorySEO, Type: string(TypeText), Label: "SEO title", IsPublic: true, Order: 0},
	{Key: "seo_description", Category: CategorySEO, Type: string(TypeTextarea), Label: "SEO description", IsPublic: true, Order: 1},
	{Key: "seo_keywords", DefaultValue: "[]", Category: CategorySEO, Type: string(TypeJSON), Label: "SEO keywords", IsPublic: true, Order: 2},

	{Key: "contact_email", Category: CategoryEmail, Type: string(TypeEmail), Label: "Contact email", IsPublic: true, Order: 0},
	{Key: "smtp_enabled", DefaultValue: "false", Category: CategoryEmail, Type: string(TypeBoolean), Label: "SMTP enabled", Order: 1},
	{Key: "smtp_host", Category: CategoryEmail, Type: string(TypeText), Label: "SMTP host", Order: 2},
	{Key: "smtp_port", DefaultValue: "587", Category: CategoryEmail, Type: string(TypeNumber), Label: "SMTP port", Order: 3},
	{Key: "smtp_user", Category: CategoryEmail, Type: string(TypeText), Label: "SMTP user", Order: 4},
	{Key: "smtp_password", Category: CategoryEmail, Type: string(TypeText), Label: "SMTP password", Order: 5},
	{Key: "smtp_from", Category: CategoryEmail, Type: string(TypeEmail), Label: "SMTP from address", Order: 6},

	{Key: "social_twitter", Category: CategorySocial, Type: string(TypeURL), Label: "Twitter URL", IsPublic: true, Order: 0},
	{Key: "social_facebook", Category: CategorySocial, Type: string(TypeURL), Label: "Facebook URL", IsPublic: true, Order: 1},
	{Key: "social_instagram", Category: CategorySocial, Type: string(TypeURL), Label: "Instagram URL", IsPublic: true, Order: 2},
	{Key: "social_linkedin", Category: CategorySocial, Type: string(TypeURL), Label: "LinkedIn URL", IsPublic: true, Order: 3},

	{Key: "analytics_id", Category: CategoryAnalytics, Type: string(TypeText), Label: "Analytics ID", Order: 0},
	{Key: "analytics_enabled", DefaultValue: "false", Category: CategoryAnalytics, Type: string(TypeBoolean), Label: "Analytics enabled", Order: 1},
}

// SeedDefaults inserts any missing default configuration, keyed by the
// unique key column. Safe to run concurrently at process start: each row is
// an atomic insert-if-absent, all inside one transaction.
func SeedDefaults(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		for i := range defaultConfigurations {
			entry := defaultConfigurations[i]
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoNothing: true,
			}).Create(&entry).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
}
