package accounts

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/middleware"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/modules/auth"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/validate"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

// RegisterRoutes mounts the administrator account-management endpoints.
// Every route requires an authenticated staff account.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/users", adminMW...)

	g.GET("", h.list)
	g.POST("", h.create)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.PATCH("/:id", h.update)
	g.DELETE("/:id", h.delete)
	g.POST("/:id/toggle_staff", h.toggleStaff)
	g.POST("/:id/toggle_active", h.toggleActive)
}

func (h *Handler) list(c *gin.Context) {
	users, err := h.service.List(c.Query("search"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(users),
		"results": toResponses(users),
	})
}

func (h *Handler) get(c *gin.Context) {
	user, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	response.OK(c, toResponse(user))
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.service.Create(&dto)
	if err != nil {
		h.writeError(c, err)
		return
	}
	response.Created(c, toResponse(user))
}

func (h *Handler) update(c *gin.Context) {
	user, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}

	var dto UpdateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.service.Update(middleware.CurrentUserID(c), user, &dto); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(user))
}

func (h *Handler) delete(c *gin.Context) {
	user, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	if err := h.service.Delete(middleware.CurrentUserID(c), user); err != nil {
		h.writeError(c, err)
		return
	}
	response.NoContent(c)
}

func (h *Handler) toggleStaff(c *gin.Context) {
	h.toggle(c, h.service.ToggleStaff)
}

func (h *Handler) toggleActive(c *gin.Context) {
	h.toggle(c, h.service.ToggleActive)
}

func (h *Handler) toggle(c *gin.Context, flip func(string, *models.UserModel) error) {
	user, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.NotFoundMsg(c, "user not found")
		return
	}
	if err := flip(middleware.CurrentUserID(c), user); err != nil {
		h.writeError(c, err)
		return
	}
	response.OK(c, toResponse(user))
}

func (h *Handler) writeError(c *gin.Context, err error) {
	var fieldErrs validate.Errors
	switch {
	case errors.As(err, &fieldErrs):
		response.FieldErrors(c, "validation failed", fieldErrs)
	case errors.Is(err, auth.ErrEmailTaken):
		response.FieldErrors(c, "validation failed", map[string]string{"email": "email already registered"})
	case errors.Is(err, ErrSelfDelete), errors.Is(err, ErrSelfStaffRevoke), errors.Is(err, ErrSelfDeactivate):
		response.BadRequest(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}
