package handler

import (
	"context"
	"log"
	"net/http"
	"time"

	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/storage"

	"github.com/gin-gonic/gin"
)

type createItemRequest struct {
	Name        string   `json:"name" binding:"required"`
	Category    string   `json:"category" binding:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" binding:"required"`
	DateFound   string   `json:"dateFound"`
	Image       string   `json:"image"`
	Type        string   `json:"type" binding:"required,oneof=found lost"`
	Keywords    []string `json:"keywords"`
}

// CreateItem registers a found or lost item and kicks off auto-matching in
// the background.
func (h *Handler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidCategory(req.Category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown category"})
		return
	}

	item := &models.Item{
		Name:           req.Name,
		Category:       req.Category,
		Description:    req.Description,
		Location:       req.Location,
		DateFound:      req.DateFound,
		Image:          req.Image,
		Type:           req.Type,
		Keywords:       req.Keywords,
		CreatedBy:      c.GetString(ctxUserID),
		CreatedByEmail: c.GetString(ctxUserEmail),
	}

	if err := h.Store.SaveItem(c.Request.Context(), item); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save item"})
		return
	}

	if err := h.Store.PublishEvent(c.Request.Context(), models.Event{
		Type:         models.EventItemReported,
		ItemID:       item.ID,
		ItemName:     item.Name,
		ItemCategory: item.Category,
		ItemLocation: item.Location,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("ERROR: Failed to publish item event: %v", err)
	}

	// Matching runs detached from the request; results land as a
	// notification for the reporter.
	go func(reported models.Item) {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		h.Matcher.RunAutoMatching(ctx, &reported)
	}(*item)

	c.JSON(http.StatusCreated, item)
}

// ListItems returns items, optionally narrowed by type, category, status or
// location query parameters.
func (h *Handler) ListItems(c *gin.Context) {
	items, err := h.Store.ListItems(c.Request.Context(), storage.ItemFilter{
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Status:   c.Query("status"),
		Location: c.Query("location"),
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list items"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "count": len(items)})
}

// GetItem returns one item by id.
func (h *Handler) GetItem(c *gin.Context) {
	item, err := h.Store.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

// GetItemQuestions returns the category security questions a claimant must
// answer for this item.
func (h *Handler) GetItemQuestions(c *gin.Context) {
	item, err := h.Store.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"itemId":    item.ID,
		"category":  item.Category,
		"questions": models.QuestionsFor(item.Category),
	})
}

// GetItemMatches returns the current counterpart candidates for an item.
func (h *Handler) GetItemMatches(c *gin.Context) {
	item, err := h.Store.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	matches, err := h.Matcher.FindMatches(c.Request.Context(), item)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to find matches"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemId": item.ID, "matches": matches})
}

// ListCategories returns the closed category set and campus locations.
func (h *Handler) ListCategories(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"categories": models.Categories,
		"locations":  models.Locations,
	})
}

// ListNotifications returns the caller's notifications.
func (h *Handler) ListNotifications(c *gin.Context) {
	notifications, err := h.Store.ListNotifications(c.Request.Context(), c.GetString(ctxUserID))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notifications"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": notifications})
}
