package configs

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/validate"
)

// Handler exposes configuration management over HTTP. Management routes are
// admin-only; the public routes surface is_public entries without auth.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts admin configuration routes onto the given group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/configurations", adminMW...)
	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/categories", h.categories)
	g.GET("/types", h.types)
	g.POST("/bulk_update", h.bulkUpdate)
	g.POST("/reset_to_defaults", h.resetToDefaults)
	g.GET("/:key", h.get)
	g.PUT("/:key", h.update)
	g.PATCH("/:key", h.setValue)
	g.DELETE("/:key", h.delete)
}

// RegisterPublicRoutes mounts the unauthenticated read endpoints.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/public")
	g.GET("/configurations", h.publicConfigurations)
	g.GET("/site-info", h.siteInfo)
}

// list GET /configurations?category=&search=&group_by_category=
func (h *Handler) list(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entries, err := h.svc.List(q)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	if c.Query("group_by_category") == "true" {
		response.OK(c, groupByCategory(entries))
		return
	}
	response.OK(c, toResponses(entries))
}

func groupByCategory(entries []models.ConfigurationModel) []categoryGroup {
	var groups []categoryGroup
	index := map[string]int{}
	for i := range entries {
		entry := &entries[i]
		at, ok := index[entry.Category]
		if !ok {
			at = len(groups)
			index[entry.Category] = at
			groups = append(groups, categoryGroup{
				Category: entry.Category,
				Label:    CategoryLabel(entry.Category),
			})
		}
		groups[at].Configurations = append(groups[at].Configurations, toResponse(entry))
	}
	return groups
}

// get GET /configurations/:key
func (h *Handler) get(c *gin.Context) {
	entry, err := h.svc.GetEntry(c.Param("key"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if entry == nil {
		response.NotFoundMsg(c, "configuration not found")
		return
	}
	response.OK(c, toResponse(entry))
}

// create POST /configurations
func (h *Handler) create(c *gin.Context) {
	var dto createDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry := dto.model()
	if err := h.svc.Create(&entry); err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, gin.H{
		"message":       "configuration created",
		"configuration": toResponse(&entry),
	})
}

// update PUT /configurations/:key
func (h *Handler) update(c *gin.Context) {
	var dto createDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry := dto.model()
	updated, err := h.svc.Update(c.Param("key"), &entry)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":       "configuration updated",
		"configuration": toResponse(updated),
	})
}

// setValue PATCH /configurations/:key
func (h *Handler) setValue(c *gin.Context) {
	var dto updateValueDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	entry, err := h.svc.SetValue(c.Param("key"), dto.Value)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message":       "configuration updated",
		"configuration": toResponse(entry),
	})
}

// delete DELETE /configurations/:key
func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("key")); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

// categories GET /configurations/categories
func (h *Handler) categories(c *gin.Context) {
	choices := make([]choice, len(Categories))
	for i, category := range Categories {
		choices[i] = choice{Value: category, Label: CategoryLabel(category)}
	}
	response.OK(c, choices)
}

// types GET /configurations/types
func (h *Handler) types(c *gin.Context) {
	choices := make([]choice, len(ValueTypes))
	for i, t := range ValueTypes {
		choices[i] = choice{Value: string(t), Label: t.Label()}
	}
	response.OK(c, choices)
}

// bulkUpdate POST /configurations/bulk_update
func (h *Handler) bulkUpdate(c *gin.Context) {
	var dto bulkUpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(dto.Configurations) == 0 {
		response.BadRequest(c, "no configurations provided")
		return
	}

	updated, failed := h.svc.BulkSet(dto.Configurations)
	response.OK(c, gin.H{
		"message": fmt.Sprintf("%d configurations updated", len(updated)),
		"updated": toResponses(updated),
		"errors":  failed,
	})
}

// resetToDefaults POST /configurations/reset_to_defaults
func (h *Handler) resetToDefaults(c *gin.Context) {
	var dto resetDTO
	if err := c.ShouldBindJSON(&dto); err != nil && c.Request.ContentLength > 0 {
		response.BadRequest(c, err.Error())
		return
	}

	count, err := h.svc.ResetToDefaults(dto.Category)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{
		"message": fmt.Sprintf("%d configurations reset to default values", count),
	})
}

// publicConfigurations GET /public/configurations?group_by_category=
func (h *Handler) publicConfigurations(c *gin.Context) {
	if c.Query("group_by_category") == "true" {
		grouped, err := h.svc.PublicValuesByCategory()
		if err != nil {
			response.InternalError(c, err)
			return
		}
		response.OK(c, grouped)
		return
	}

	values, err := h.svc.PublicValues()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, values)
}

// siteInfo GET /public/site-info
func (h *Handler) siteInfo(c *gin.Context) {
	info, err := h.svc.SiteInfo()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, info)
}

func (h *Handler) writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		response.NotFoundMsg(c, "configuration not found")
	case errors.Is(err, ErrKeyTaken):
		response.FieldErrors(c, "error saving configuration", map[string]string{"key": "this key already exists"})
	case errors.Is(err, ErrDeleteRequired):
		response.BadRequest(c, "cannot delete a required configuration")
	default:
		if fieldErrs, ok := validate.AsErrors(err); ok {
			response.FieldErrors(c, "error saving configuration", fieldErrs)
			return
		}
		response.InternalError(c, err)
	}
}
