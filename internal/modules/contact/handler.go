package contact

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/validate"
)

type Handler struct{ service *Service }

func NewHandler(service *Service) *Handler { return &Handler{service: service} }

// RegisterPublicRoutes mounts the anonymous contact form endpoint.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, limitMW ...gin.HandlerFunc) {
	rg.POST("/contact", append(limitMW, h.create)...)
}

// RegisterRoutes mounts the administrator inbox endpoints.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, adminMW ...gin.HandlerFunc) {
	g := rg.Group("/contact-messages", adminMW...)

	g.GET("", h.list)
	g.GET("/unread_count", h.unreadCount)
	g.GET("/:id", h.get)
	g.POST("/:id/toggle_read", h.toggleRead)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	msg, err := h.service.Create(&dto)
	if err != nil {
		var fieldErrs validate.Errors
		if errors.As(err, &fieldErrs) {
			response.FieldErrors(c, "validation failed", fieldErrs)
			return
		}
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"message": "thank you for reaching out, we will get back to you soon",
		"id":      msg.ID,
	})
}

func (h *Handler) list(c *gin.Context) {
	unreadOnly := c.Query("unread") == "true"
	msgs, err := h.service.List(unreadOnly)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(msgs),
		"results": msgs,
	})
}

func (h *Handler) unreadCount(c *gin.Context) {
	n, err := h.service.UnreadCount()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"unread_count": n})
}

func (h *Handler) get(c *gin.Context) {
	msg, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if msg == nil {
		response.NotFoundMsg(c, "message not found")
		return
	}
	response.OK(c, msg)
}

func (h *Handler) toggleRead(c *gin.Context) {
	msg, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if msg == nil {
		response.NotFoundMsg(c, "message not found")
		return
	}
	if err := h.service.ToggleRead(msg); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, msg)
}

func (h *Handler) delete(c *gin.Context) {
	msg, err := h.service.Get(c.Param("id"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if msg == nil {
		response.NotFoundMsg(c, "message not found")
		return
	}
	if err := h.service.Delete(msg); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
