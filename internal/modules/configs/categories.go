package configs

// Categories group related settings for display. The list is advisory:
// entries carry whatever category they were created with, and lookups fall
// back to the raw value as its own label.
const (
	CategorySite      = "site"
	CategorySEO       = "seo"
	CategoryEmail     = "email"
	CategorySocial    = "social"
	CategoryGeneral   = "general"
	CategoryAnalytics = "analytics"
)

var Categories = []string{
	CategorySite, CategorySEO, CategoryEmail,
	CategorySocial, CategoryGeneral, CategoryAnalytics,
}

var categoryLabels = map[string]string{
	CategorySite:      "Site",
	CategorySEO:       "SEO",
	CategoryEmail:     "Email",
	CategorySocial:    "Social networks",
	CategoryGeneral:   "General",
	CategoryAnalytics: "Analytics",
}

// CategoryLabel returns the display label for a category value.
func CategoryLabel(category string) string {
	if label, ok := categoryLabels[category]; ok {
		return label
	}
	return category
}
