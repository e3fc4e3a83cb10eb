package app

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/quill-cms/core/internal/middleware"
	"github.com/quill-cms/core/internal/modules/accounts"
	"github.com/quill-cms/core/internal/modules/auth"
	"github.com/quill-cms/core/internal/modules/configs"
	"github.com/quill-cms/core/internal/modules/contact"
	"github.com/quill-cms/core/internal/modules/post"
	"github.com/quill-cms/core/internal/pkg/response"
)

// Per-minute request caps for anonymous endpoints.
const (
	authRateLimit    = 10
	contactRateLimit = 5
)

func (a *App) registerRoutes() {
	r := a.router
	db := a.db

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{
			"code":    http.StatusMethodNotAllowed,
			"message": "method not allowed",
		})
	})

	authSvc := auth.NewService(db, a.signer)
	cfgSvc := configs.NewService(db)
	postSvc := post.NewService(db)
	contactSvc := contact.NewService(db, cfgSvc, a.logger)
	accountsSvc := accounts.NewService(db)

	authMW := middleware.Auth(a.signer, authSvc.StaffChecker())
	optionalAuthMW := middleware.OptionalAuth(a.signer, authSvc.StaffChecker())
	adminMW := []gin.HandlerFunc{authMW, middleware.RequireStaff()}

	// The public contact form pauses while the site is in maintenance
	// mode. The flag lives in the configuration store, so flipping it
	// needs no restart. Login stays open so admins can turn it off.
	maintenanceMW := func(c *gin.Context) {
		if on, _ := cfgSvc.Get("maintenance_mode", false).(bool); on {
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"code":    http.StatusServiceUnavailable,
				"message": "service is under maintenance, try again later",
			})
			return
		}
		c.Next()
	}

	api := r.Group("/api")

	api.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"data": "pong"})
	})
	api.GET("/health", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
	})

	// OptionalAuth runs ahead of the limiter so authenticated callers
	// are exempt from the anonymous rate caps.
	auth.NewHandler(authSvc).RegisterRoutes(api, authMW, optionalAuthMW, middleware.RateLimit(a.rdb, authRateLimit))
	post.NewHandler(postSvc).RegisterRoutes(api, optionalAuthMW, authMW)

	cfgHandler := configs.NewHandler(cfgSvc)
	cfgHandler.RegisterRoutes(api, adminMW...)
	cfgHandler.RegisterPublicRoutes(api)

	contactHandler := contact.NewHandler(contactSvc)
	contactHandler.RegisterPublicRoutes(api, maintenanceMW, optionalAuthMW, middleware.RateLimit(a.rdb, contactRateLimit))
	contactHandler.RegisterRoutes(api, adminMW...)

	accounts.NewHandler(accountsSvc).RegisterRoutes(api.Group("/auth"), adminMW...)
}
