// Package handler wires the HTTP surface: public item and claim routes, the
// admin review routes and the admin live feed WebSocket.
package handler

import (
	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/config"
	"campusconnect/backend/internal/livefeed"
	"campusconnect/backend/internal/matching"
	"campusconnect/backend/internal/storage"
	"campusconnect/backend/internal/verification"

	"github.com/gin-gonic/gin"
)

// Handler carries the service dependencies for all routes.
type Handler struct {
	Store    storage.Storage
	Verifier *verification.Service
	Matcher  *matching.Engine
	AI       *ai.Client
	Hub      *livefeed.Hub

	jwtSecret   []byte
	adminEmails map[string]bool
}

// NewHandler creates the route handler. hub may be nil when the live feed is
// disabled.
func NewHandler(store storage.Storage, verifier *verification.Service, matcher *matching.Engine, aiClient *ai.Client, hub *livefeed.Hub, env config.Env) *Handler {
	admins := make(map[string]bool, len(env.AdminEmails))
	for _, email := range env.AdminEmails {
		admins[email] = true
	}

	return &Handler{
		Store:       store,
		Verifier:    verifier,
		Matcher:     matcher,
		AI:          aiClient,
		Hub:         hub,
		jwtSecret:   []byte(env.JWTSecret),
		adminEmails: admins,
	}
}

// RegisterRoutes attaches all routes to the engine.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.POST("/auth/session", h.CreateSession)

	r.GET("/categories", h.ListCategories)
	r.GET("/items", h.ListItems)
	r.GET("/items/:id", h.GetItem)
	r.GET("/items/:id/questions", h.GetItemQuestions)
	r.GET("/items/:id/matches", h.GetItemMatches)

	authed := r.Group("/", h.Authenticate())
	authed.POST("/items", h.CreateItem)
	authed.POST("/items/:id/claims", h.CreateClaim)
	authed.POST("/items/:id/claims/preview", h.PreviewClaim)
	authed.GET("/claims/:id", h.GetClaim)
	authed.GET("/notifications", h.ListNotifications)

	admin := r.Group("/admin", h.Authenticate(), h.RequireAdmin())
	admin.GET("/claims", h.ListClaims)
	admin.POST("/claims/:id/review", h.ReviewClaim)
	admin.GET("/ai/ping", h.PingAI)
	admin.GET("/feed", h.ServeLiveFeed)
}
