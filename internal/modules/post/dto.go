package post

import (
	"time"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/markdown"
)

// postResponse is the detail representation.
type postResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Content     string    `json:"content"`
	ContentHTML string    `json:"content_html"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	AuthorID    string    `json:"author_id"`
	IsPublished bool      `json:"is_published"`
	Image       string    `json:"image,omitempty"`
	Excerpt     string    `json:"excerpt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// postListItem is the lighter listing representation: no content body.
type postListItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	Author      string    `json:"author"`
	IsPublished bool      `json:"is_published"`
	Excerpt     string    `json:"excerpt"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func authorName(p *models.PostModel) string {
	if p.Author == nil {
		return ""
	}
	if name := p.Author.FullName(); name != "" {
		return name
	}
	return p.Author.Email
}

func toResponse(p *models.PostModel) postResponse {
	return postResponse{
		ID:          p.ID,
		Title:       p.Title,
		Content:     p.Content,
		ContentHTML: markdown.Render(p.Content),
		Slug:        p.Slug,
		Author:      authorName(p),
		AuthorID:    p.AuthorID,
		IsPublished: p.IsPublished,
		Image:       p.Image,
		Excerpt:     p.Excerpt(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toListItem(p *models.PostModel) postListItem {
	return postListItem{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Author:      authorName(p),
		IsPublished: p.IsPublished,
		Excerpt:     p.Excerpt(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
