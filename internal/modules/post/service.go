package post

import (
	"errors"
	"fmt"

	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/pagination"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/slugify"
	"github.com/quill-cms/core/internal/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrSlugTaken = errors.New("slug already in use")
	ErrNotFound  = errors.New("post not found")
)

// maxSlugAttempts bounds the suffix search under pathological contention.
const maxSlugAttempts = 50

// Service handles post business logic.
type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// ListQuery filters List.
type ListQuery struct {
	Author string `form:"author"` // author email
	Search string `form:"search"`
}

// List returns a page of posts, newest first. Unless the caller may see
// drafts, only published posts are returned.
func (s *Service) List(q pagination.Query, lq ListQuery, seesDrafts bool) ([]models.PostModel, response.Pagination, error) {
	// Columns are qualified because the author filter joins users, which
	// shares column names with posts.
	tx := s.db.Model(&models.PostModel{}).
		Preload("Author").
		Order("posts.created_at DESC")

	if !seesDrafts {
		tx = tx.Where("posts.is_published = ?", true)
	}
	if lq.Author != "" {
		tx = tx.Joins("JOIN users ON users.id = posts.author_id").
			Where("users.email = ?", lq.Author)
	}
	if lq.Search != "" {
		like := "%" + lq.Search + "%"
		tx = tx.Where("posts.title LIKE ? OR posts.content LIKE ?", like, like)
	}

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// ListByAuthor returns a page of one author's posts, drafts included.
func (s *Service) ListByAuthor(q pagination.Query, authorID string) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at DESC")

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetBySlug fetches a single post by slug, (nil, nil) when absent. An
// unpublished post is only visible to its author and staff; for anyone else
// it does not exist.
func (s *Service) GetBySlug(slug, viewerID string, viewerIsStaff bool) (*models.PostModel, error) {
	var post models.PostModel
	err := s.db.Preload("Author").Where("slug = ?", slug).First(&post).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if !post.IsPublished && !viewerIsStaff && post.AuthorID != viewerID {
		return nil, nil
	}
	return &post, nil
}

// Create inserts a new post, deriving a unique slug from the title when
// none is supplied. Uniqueness is enforced by the slug column constraint:
// the insert runs as-is and a duplicate-key violation moves to the next
// candidate, so concurrent creates with identical titles cannot collide.
func (s *Service) Create(authorID string, dto *CreateDTO) (*models.PostModel, error) {
	if fieldErrs := dto.validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	post := models.PostModel{
		Title:       dto.Title,
		Content:     dto.Content,
		AuthorID:    authorID,
		IsPublished: dto.IsPublished,
		Image:       dto.Image,
	}

	if dto.Slug != "" {
		post.Slug = dto.Slug
		err := s.db.Create(&post).Error
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrSlugTaken
		}
		if err != nil {
			return nil, err
		}
		return &post, nil
	}

	base := slugify.Make(dto.Title)
	if base == "" {
		base = "post"
	}
	for attempt := 0; attempt < maxSlugAttempts; attempt++ {
		post.Slug = candidateSlug(base, attempt)
		err := s.db.Create(&post).Error
		if err == nil {
			return &post, nil
		}
		if !errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		// The failed insert may have left a stale ID on the struct.
		post.ID = ""
	}
	return nil, ErrSlugTaken
}

func candidateSlug(base string, attempt int) string {
	if attempt == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, attempt)
}

// Update applies changes to an existing post. A changed slug goes through
// the same constraint-backed uniqueness path as creation; keeping the
// current slug never self-conflicts.
func (s *Service) Update(post *models.PostModel, dto *UpdateDTO) (*models.PostModel, error) {
	if fieldErrs := dto.validate(); len(fieldErrs) > 0 {
		return nil, fieldErrs
	}

	if dto.Title != nil {
		post.Title = *dto.Title
	}
	if dto.Content != nil {
		post.Content = *dto.Content
	}
	if dto.Slug != nil && *dto.Slug != "" {
		post.Slug = *dto.Slug
	}
	if dto.IsPublished != nil {
		post.IsPublished = *dto.IsPublished
	}
	if dto.Image != nil {
		post.Image = *dto.Image
	}

	err := s.db.Save(post).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, ErrSlugTaken
	}
	if err != nil {
		return nil, err
	}
	return post, nil
}

// TogglePublish flips the published flag, a first-class mutation distinct
// from a general update.
func (s *Service) TogglePublish(post *models.PostModel) error {
	post.IsPublished = !post.IsPublished
	return s.db.Model(post).Update("is_published", post.IsPublished).Error
}

// Delete removes a post.
func (s *Service) Delete(post *models.PostModel) error {
	return s.db.Delete(post).Error
}

// CreateDTO carries a new post.
type CreateDTO struct {
	Title       string `json:"title" binding:"required"`
	Content     string `json:"content"`
	Slug        string `json:"slug"`
	IsPublished bool   `json:"is_published"`
	Image       string `json:"image"`
}

func (d *CreateDTO) validate() validate.Errors {
	fieldErrs := validate.Errors{}
	if d.Slug != "" && !slugify.IsValid(d.Slug) {
		fieldErrs.Add("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}

// UpdateDTO carries a partial post update; nil fields are left unchanged.
type UpdateDTO struct {
	Title       *string `json:"title"`
	Content     *string `json:"content"`
	Slug        *string `json:"slug"`
	IsPublished *bool   `json:"is_published"`
	Image       *string `json:"image"`
}

func (d *UpdateDTO) validate() validate.Errors {
	fieldErrs := validate.Errors{}
	if d.Title != nil && *d.Title == "" {
		fieldErrs.Add("title", "title cannot be empty")
	}
	if d.Slug != nil && *d.Slug != "" && !slugify.IsValid(*d.Slug) {
		fieldErrs.Add("slug", "slug may only contain lowercase letters, numbers and hyphens")
	}
	if len(fieldErrs) == 0 {
		return nil
	}
	return fieldErrs
}
