// Package api wires the REST surface: route registration and the auth
// middleware that resolves the caller's identity for every request.
package api

import (
	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/config"
	"github.com/gymfeetrack/gymfeetrack/internal/http/api/handlers"
	"gorm.io/gorm"
)

// RegisterRoutes registers all routes, middleware, and handlers.
func RegisterRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	r.POST("/register", authHandler.Register)
	r.POST("/token", authHandler.Token)

	planHandler := handlers.NewPlanHandler(db)
	r.GET("/plans", planHandler.List)
	r.GET("/plans/:id", planHandler.Get)

	authed := r.Group("")
	authed.Use(authMiddleware(db, jwtCfg))

	profileHandler := handlers.NewProfileHandler(db)
	authed.GET("/me", profileHandler.Me)
	authed.PUT("/me/password", profileHandler.ChangePassword)
	authed.GET("/profiles/:id", profileHandler.Get)
	authed.PUT("/profiles/:id", profileHandler.Update)

	subscriptionHandler := handlers.NewSubscriptionHandler(db)
	authed.GET("/subscriptions", subscriptionHandler.List)
	authed.POST("/subscriptions", subscriptionHandler.Create)
	authed.GET("/subscriptions/:id", subscriptionHandler.Get)
	authed.PUT("/subscriptions/:id", subscriptionHandler.Update)
	authed.DELETE("/subscriptions/:id", subscriptionHandler.Delete)

	paymentHandler := handlers.NewPaymentHandler(db)
	authed.GET("/payments", paymentHandler.List)
	authed.POST("/payments", paymentHandler.Create)
	authed.GET("/payments/:id", paymentHandler.Get)

	admin := authed.Group("")
	admin.Use(adminOnly())

	admin.GET("/admin/profiles", profileHandler.AdminList)
	admin.GET("/admin/profiles/:id", profileHandler.AdminGet)
	admin.PUT("/admin/profiles/:id", profileHandler.AdminUpdate)
	admin.DELETE("/admin/profiles/:id", profileHandler.AdminDelete)

	admin.POST("/plans", planHandler.Create)
	admin.PUT("/plans/:id", planHandler.Update)
	admin.DELETE("/plans/:id", planHandler.Delete)

	admin.PUT("/payments/:id", paymentHandler.Update)
	admin.DELETE("/payments/:id", paymentHandler.Delete)
}
