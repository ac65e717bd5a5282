package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	jwt "github.com/golang-jwt/jwt/v5"
)

// Context keys set by the auth middleware.
const (
	ctxUserID    = "user_id"
	ctxUserEmail = "user_email"
	ctxUserName  = "user_name"
	ctxIsAdmin   = "is_admin"
)

type sessionRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
}

// CreateSession issues a JWT for the given identity. There is no password:
// campus SSO fronts this service and the token only binds the session to an
// email. Admin rights come from the configured allow-list.
func (h *Handler) CreateSession(c *gin.Context) {
	var req sessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name and a valid email are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	userID := uuid.New().String()
	isAdmin := h.adminEmails[email]

	claims := jwt.MapClaims{
		"user_id":  userID,
		"email":    email,
		"name":     req.Name,
		"is_admin": isAdmin,
		"exp":      time.Now().Add(time.Hour * 72).Unix(),
		"iss":      "campusconnect-service",
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   signed,
		"userId":  userID,
		"isAdmin": isAdmin,
	})
}

// Authenticate validates the bearer token and loads the identity into the
// request context.
func (h *Handler) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := h.parseBearer(c)
		if !ok {
			return
		}

		c.Set(ctxUserID, stringClaim(claims, "user_id"))
		c.Set(ctxUserEmail, stringClaim(claims, "email"))
		c.Set(ctxUserName, stringClaim(claims, "name"))
		isAdmin, _ := claims["is_admin"].(bool)
		c.Set(ctxIsAdmin, isAdmin)
		c.Next()
	}
}

// RequireAdmin rejects tokens whose email is not on the allow-list. The
// allow-list is re-checked here so revoking an admin takes effect on the
// next request, not at token expiry.
func (h *Handler) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.GetString(ctxUserEmail)
		if !c.GetBool(ctxIsAdmin) || !h.adminEmails[email] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}
		c.Next()
	}
}

func (h *Handler) parseBearer(c *gin.Context) (jwt.MapClaims, bool) {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) < 8 || !strings.EqualFold(authHeader[:7], "Bearer ") {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token missing"})
		return nil, false
	}

	token, err := jwt.Parse(authHeader[7:], func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return h.jwtSecret, nil
	})
	if err != nil || !token.Valid {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token or expired"})
		return nil, false
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
		return nil, false
	}
	return claims, true
}

func stringClaim(claims jwt.MapClaims, key string) string {
	v, _ := claims[key].(string)
	return v
}
