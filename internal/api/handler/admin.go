package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"campusconnect/backend/internal/ai"
	"campusconnect/backend/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListClaims returns claims for review, filtered by status (default:
// pending).
func (h *Handler) ListClaims(c *gin.Context) {
	status := c.DefaultQuery("status", models.ClaimPending)

	claims, err := h.Store.FindClaims(c.Request.Context(), models.ClaimFilter{Status: status})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list claims"})
		return
	}

	views := make([]gin.H, 0, len(claims))
	for i := range claims {
		views = append(views, claimView(&claims[i]))
	}
	c.JSON(http.StatusOK, gin.H{"claims": views, "count": len(views)})
}

type reviewRequest struct {
	Action string `json:"action" binding:"required,oneof=approve reject"`
	Note   string `json:"note"`
}

// ReviewClaim applies an admin override to a pending claim. Approval hands
// the item over; rejection returns it to the pool. The original verdict
// columns stay untouched so the audit trail survives the override.
func (h *Handler) ReviewClaim(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "action must be approve or reject"})
		return
	}

	claimID := c.Param("id")
	claim, err := h.Store.GetClaimByID(c.Request.Context(), claimID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claim"})
		return
	}
	if claim == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	status := models.ClaimRejected
	itemStatus := models.ItemAvailable
	if req.Action == "approve" {
		status = models.ClaimApproved
		itemStatus = models.ItemClaimed
	}

	if err := h.Store.UpdateClaimStatus(c.Request.Context(), claimID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update claim"})
		return
	}

	if err := h.Store.UpdateItemStatus(c.Request.Context(), claim.ItemID, itemStatus); err != nil {
		log.Printf("ERROR: Failed to update item %s after review: %v", claim.ItemID, err)
	}

	if claim.UserID != "" {
		note := &models.Notification{
			Type:    models.NotificationDecision,
			UserID:  claim.UserID,
			ItemID:  claim.ItemID,
			Message: "An admin has " + status + " your claim.",
		}
		if req.Note != "" {
			note.Message += " Note: " + req.Note
		}
		if err := h.Store.SaveNotification(c.Request.Context(), note); err != nil {
			log.Printf("ERROR: Failed to save review notification: %v", err)
		}
	}

	log.Printf("INFO: Admin %s %s claim %s", c.GetString(ctxUserEmail), status, claimID)
	c.JSON(http.StatusOK, gin.H{"claimId": claimID, "status": status})
}

// PingAI verifies the AI credential with a minimal round trip.
func (h *Handler) PingAI(c *gin.Context) {
	if !h.AI.Configured() {
		c.JSON(http.StatusOK, gin.H{"configured": false})
		return
	}

	start := time.Now()
	if err := h.AI.Ping(c.Request.Context()); err != nil {
		status := "error"
		if errors.Is(err, ai.ErrUnavailable) {
			status = "unavailable"
		}
		c.JSON(http.StatusOK, gin.H{"configured": true, "status": status, "error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": true,
		"status":     "ok",
		"latencyMs":  time.Since(start).Milliseconds(),
	})
}
