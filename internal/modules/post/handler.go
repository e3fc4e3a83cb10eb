package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/middleware"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/pagination"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/validate"
)

// Handler handles post HTTP requests. Reads are public (draft visibility
// widened for authors and staff via optional auth); writes require auth,
// and mutations on an existing post require its author or a staff account.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts post routes onto the given router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, optionalAuthMW, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts", optionalAuthMW)
	posts.GET("", h.list)
	posts.GET("/my_posts", authMW, h.myPosts)
	posts.GET("/:slug", h.get)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/:slug", h.update)
	authed.PATCH("/:slug", h.update)
	authed.POST("/:slug/toggle_publish", h.togglePublish)
	authed.DELETE("/:slug", h.delete)
}

// list GET /posts
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var lq ListQuery
	if err := c.ShouldBindQuery(&lq); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	posts, pag, err := h.svc.List(q, lq, middleware.IsStaff(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postListItem, len(posts))
	for i := range posts {
		items[i] = toListItem(&posts[i])
	}
	response.Paged(c, items, pag)
}

// myPosts GET /posts/my_posts
func (h *Handler) myPosts(c *gin.Context) {
	q := pagination.FromContext(c)

	posts, pag, err := h.svc.ListByAuthor(q, middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}

	items := make([]postListItem, len(posts))
	for i := range posts {
		items[i] = toListItem(&posts[i])
	}
	response.Paged(c, items, pag)
}

// get GET /posts/:slug
func (h *Handler) get(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"), middleware.CurrentUserID(c), middleware.IsStaff(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return
	}
	response.OK(c, toResponse(post))
}

// create POST /posts
func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	post, err := h.svc.Create(middleware.CurrentUserID(c), &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResponse(post))
}

// update PUT/PATCH /posts/:slug
func (h *Handler) update(c *gin.Context) {
	post, ok := h.loadForMutation(c)
	if !ok {
		return
	}

	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	updated, err := h.svc.Update(post, &dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(updated))
}

// togglePublish POST /posts/:slug/toggle_publish
func (h *Handler) togglePublish(c *gin.Context) {
	post, ok := h.loadForMutation(c)
	if !ok {
		return
	}

	if err := h.svc.TogglePublish(post); err != nil {
		response.InternalError(c, err)
		return
	}

	message := "post unpublished"
	if post.IsPublished {
		message = "post published"
	}
	response.OK(c, gin.H{"message": message, "post": toResponse(post)})
}

// delete DELETE /posts/:slug
func (h *Handler) delete(c *gin.Context) {
	post, ok := h.loadForMutation(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(post); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}

// loadForMutation fetches the post and enforces the author-or-staff
// mutation policy. Non-owners see a 404 for drafts they cannot read and a
// 403 for published posts they cannot touch.
func (h *Handler) loadForMutation(c *gin.Context) (*models.PostModel, bool) {
	viewerID := middleware.CurrentUserID(c)
	isStaff := middleware.IsStaff(c)

	post, err := h.svc.GetBySlug(c.Param("slug"), viewerID, isStaff)
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	if post == nil {
		response.NotFoundMsg(c, "post not found")
		return nil, false
	}
	if post.AuthorID != viewerID && !isStaff {
		response.Forbidden(c)
		return nil, false
	}
	return post, true
}

func (h *Handler) writeError(c *gin.Context, err error) {
	if fieldErrs, ok := validate.AsErrors(err); ok {
		response.FieldErrors(c, "error saving post", fieldErrs)
		return
	}
	if errors.Is(err, ErrSlugTaken) {
		response.FieldErrors(c, "error saving post", map[string]string{"slug": "this slug is already in use"})
		return
	}
	response.InternalError(c, err)
}
