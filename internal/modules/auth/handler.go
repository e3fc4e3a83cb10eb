package auth

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/middleware"
	"github.com/quill-cms/core/internal/models"
	"github.com/quill-cms/core/internal/pkg/response"
	"github.com/quill-cms/core/internal/pkg/validate"
)

// Handler handles authentication and self-profile HTTP requests.
type Handler struct{ svc *Service }

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterRoutes mounts auth routes onto the given router group. The
// public endpoints take the rate-limit middleware; profile requires auth.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc, limitMW ...gin.HandlerFunc) {
	g := rg.Group("/auth")

	public := g.Group("", limitMW...)
	public.POST("/register", h.register)
	public.POST("/login", h.login)
	public.POST("/token/refresh", h.refresh)

	profile := g.Group("/profile", authMW)
	profile.GET("", h.profile)
	profile.PUT("", h.updateProfile)
	profile.PATCH("", h.updateProfile)
}

// userPayload shapes an account for API responses.
func userPayload(u *models.UserModel) gin.H {
	return gin.H{
		"id":          u.ID,
		"email":       u.Email,
		"first_name":  u.FirstName,
		"last_name":   u.LastName,
		"is_staff":    u.IsStaff,
		"date_joined": u.CreatedAt,
	}
}

// register POST /auth/register
func (h *Handler) register(c *gin.Context) {
	var dto RegisterDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, err := h.svc.Register(&dto)
	if err != nil {
		if fieldErrs, ok := validate.AsErrors(err); ok {
			response.FieldErrors(c, "error creating account", fieldErrs)
			return
		}
		if errors.Is(err, ErrEmailTaken) {
			response.FieldErrors(c, "error creating account", map[string]string{"email": "this email is already registered"})
			return
		}
		response.InternalError(c, err)
		return
	}

	response.Created(c, gin.H{
		"message": "account created",
		"user":    userPayload(user),
	})
}

type loginDTO struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// login POST /auth/login
func (h *Handler) login(c *gin.Context) {
	var dto loginDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	user, pair, err := h.svc.Login(dto.Email, dto.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrBadCredentials):
			response.UnauthorizedMsg(c, "invalid email or password")
		case errors.Is(err, ErrAccountInactive):
			response.UnauthorizedMsg(c, "account is deactivated")
		default:
			response.InternalError(c, err)
		}
		return
	}

	response.OK(c, gin.H{
		"access":  pair.Access,
		"refresh": pair.Refresh,
		"user":    userPayload(user),
	})
}

type refreshDTO struct {
	Refresh string `json:"refresh" binding:"required"`
}

// refresh POST /auth/token/refresh
func (h *Handler) refresh(c *gin.Context) {
	var dto refreshDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	access, err := h.svc.Refresh(dto.Refresh)
	if err != nil {
		response.UnauthorizedMsg(c, "invalid or expired refresh token")
		return
	}
	response.OK(c, gin.H{"access": access})
}

// profile GET /auth/profile
func (h *Handler) profile(c *gin.Context) {
	user, err := h.svc.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}
	response.OK(c, gin.H{"user": userPayload(user)})
}

// updateProfile PUT/PATCH /auth/profile
func (h *Handler) updateProfile(c *gin.Context) {
	user, err := h.svc.GetUser(middleware.CurrentUserID(c))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if user == nil {
		response.Unauthorized(c)
		return
	}

	var dto ProfileDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	if err := h.svc.UpdateProfile(user, &dto); err != nil {
		if fieldErrs, ok := validate.AsErrors(err); ok {
			response.FieldErrors(c, "error updating profile", fieldErrs)
			return
		}
		if errors.Is(err, ErrEmailTaken) {
			response.FieldErrors(c, "error updating profile", map[string]string{"email": "this email is already registered"})
			return
		}
		response.InternalError(c, err)
		return
	}

	response.OK(c, gin.H{
		"message": "profile updated",
		"user":    userPayload(user),
	})
}
