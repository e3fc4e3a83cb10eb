package models

// PostModel is a blog post. Slug is assigned from the title when absent and
// is unique across all posts.
type PostModel struct {
	Base
	Title       string     `json:"title"        gorm:"not null"`
	Content     string     `json:"content"      gorm:"type:longtext"`
	Slug        string     `json:"slug"         gorm:"uniqueIndex;not null"`
	AuthorID    string     `json:"author_id"    gorm:"index;not null"`
	Author      *UserModel `json:"author,omitempty" gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	IsPublished bool       `json:"is_published" gorm:"default:false;index"`
	Image       string     `json:"image,omitempty"`
}

func (PostModel) TableName() string { return "posts" }

const excerptLength = 150

// Excerpt returns the first 150 characters of content, marking truncation.
func (p PostModel) Excerpt() string {
	runes := []rune(p.Content)
	if len(runes) > excerptLength {
		return string(runes[:excerptLength]) + "..."
	}
	return p.Content
}
