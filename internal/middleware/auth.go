package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/pkg/jwt"
	"github.com/quill-cms/core/internal/pkg/response"
)

const (
	contextKeyClaims = "auth_claims"
	contextKeyStaff  = "auth_is_staff"
)

// StaffChecker resolves whether the account behind a token still holds the
// staff flag. Flags are read live rather than trusted from the token
// snapshot, so a revoked flag takes effect before token expiry.
type StaffChecker func(userID string) (isStaff bool, isActive bool, err error)

// Auth returns a middleware enforcing a valid bearer access token.
func Auth(signer *jwt.Signer, check StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := signer.ParseAccess(extractToken(c))
		if err != nil {
			response.Unauthorized(c)
			return
		}
		isStaff, isActive, err := check(claims.UserID)
		if err != nil {
			response.Unauthorized(c)
			return
		}
		if !isActive {
			response.UnauthorizedMsg(c, "account is deactivated")
			return
		}
		c.Set(contextKeyClaims, claims)
		c.Set(contextKeyStaff, isStaff)
		c.Next()
	}
}

// OptionalAuth resolves the caller when a valid token is present but never
// blocks the request. Read endpoints use it to widen visibility for staff.
func OptionalAuth(signer *jwt.Signer, check StaffChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := signer.ParseAccess(extractToken(c)); err == nil {
			if isStaff, isActive, err := check(claims.UserID); err == nil && isActive {
				c.Set(contextKeyClaims, claims)
				c.Set(contextKeyStaff, isStaff)
			}
		}
		c.Next()
	}
}

// RequireStaff gates a route group to staff accounts. Must run after Auth.
func RequireStaff() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsStaff(c) {
			response.Forbidden(c)
			return
		}
		c.Next()
	}
}

// CurrentClaims returns the authenticated caller's token claims, or nil.
func CurrentClaims(c *gin.Context) *jwt.Claims {
	v, _ := c.Get(contextKeyClaims)
	claims, _ := v.(*jwt.Claims)
	return claims
}

// CurrentUserID extracts the authenticated account ID from context.
func CurrentUserID(c *gin.Context) string {
	if claims := CurrentClaims(c); claims != nil {
		return claims.UserID
	}
	return ""
}

// IsAuthenticated reports whether the request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

// IsStaff reports whether the authenticated caller holds the staff flag.
func IsStaff(c *gin.Context) bool {
	v, _ := c.Get(contextKeyStaff)
	isStaff, _ := v.(bool)
	return isStaff
}

func extractToken(c *gin.Context) string {
	return NormalizeToken(c.GetHeader("Authorization"))
}

// NormalizeToken trims spaces and strips the optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}
