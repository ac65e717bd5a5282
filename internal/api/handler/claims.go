package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"campusconnect/backend/internal/models"
	"campusconnect/backend/internal/verification"

	"github.com/gin-gonic/gin"
)

type createClaimRequest struct {
	ClaimerName     string            `json:"claimerName"`
	ClaimerEmail    string            `json:"claimerEmail"`
	ClaimerPhone    string            `json:"claimerPhone"`
	Description     string            `json:"description"`
	SecurityAnswers map[string]string `json:"securityAnswers"`
	ProofImages     []string          `json:"proofImages"`
}

// CreateClaim runs the verification pipeline for a claim on an item and
// persists the claim together with its verdict. The item status follows the
// decision: approved claims mark it claimed, escalations mark it pending,
// rejections leave it available.
func (h *Handler) CreateClaim(c *gin.Context) {
	var req createClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// The session supplies identity; the body may override the display name
	// for claims filed on someone's behalf.
	name := strings.TrimSpace(req.ClaimerName)
	if name == "" {
		name = c.GetString(ctxUserName)
	}
	email := strings.ToLower(strings.TrimSpace(req.ClaimerEmail))
	if email == "" {
		email = c.GetString(ctxUserEmail)
	}
	if name == "" || email == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Claimer name and email are required"})
		return
	}

	itemID := c.Param("id")
	item, err := h.Store.GetItemByID(c.Request.Context(), itemID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	submission := &verification.ClaimSubmission{
		ItemID:          itemID,
		Item:            item,
		ClaimerName:     name,
		ClaimerEmail:    email,
		ClaimerPhone:    req.ClaimerPhone,
		Description:     req.Description,
		SecurityAnswers: req.SecurityAnswers,
		ProofImages:     req.ProofImages,
		UserID:          c.GetString(ctxUserID),
	}

	result, err := h.Verifier.VerifyClaim(c.Request.Context(), submission)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Verification failed"})
		return
	}

	claim, err := h.persistClaim(c, submission, result)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save claim"})
		return
	}

	h.applyDecisionToItem(c, item, result.Decision)
	h.announceClaim(c, item, claim, result)

	c.JSON(http.StatusCreated, gin.H{
		"claim":        claim,
		"verification": result,
	})
}

func (h *Handler) persistClaim(c *gin.Context, submission *verification.ClaimSubmission, result *verification.Result) (*models.Claim, error) {
	answersJSON, _ := json.Marshal(submission.SecurityAnswers)
	checksJSON, _ := json.Marshal(result.Checks)

	aiJSON := ""
	if result.AI != nil {
		raw, _ := json.Marshal(result.AI)
		aiJSON = string(raw)
	}

	status := models.ClaimPending
	switch result.Decision {
	case verification.DecisionAutoApproved:
		status = models.ClaimApproved
	case verification.DecisionAutoRejected:
		status = models.ClaimRejected
	}

	claim := &models.Claim{
		ItemID:          submission.ItemID,
		ClaimerName:     submission.ClaimerName,
		ClaimerEmail:    submission.ClaimerEmail,
		ClaimerPhone:    submission.ClaimerPhone,
		Description:     submission.Description,
		SecurityAnswers: string(answersJSON),
		ProofImages:     submission.ProofImages,
		UserID:          submission.UserID,
		Status:          status,
		Decision:        result.Decision,
		OverallScore:    result.OverallScore,
		RiskLevel:       result.RiskLevel,
		ChecksJSON:      string(checksJSON),
		AIJSON:          aiJSON,
		Summary:         result.Summary,
		ProcessingMs:    result.ProcessingMs,
	}

	if err := h.Store.SaveClaim(c.Request.Context(), claim); err != nil {
		return nil, err
	}
	return claim, nil
}

// applyDecisionToItem moves the item along the claim lifecycle. A rejected
// claim leaves it where it was.
func (h *Handler) applyDecisionToItem(c *gin.Context, item *models.Item, decision string) {
	var status string
	switch decision {
	case verification.DecisionAutoApproved:
		status = models.ItemClaimed
	case verification.DecisionPendingReview:
		status = models.ItemPending
	default:
		return
	}

	if err := h.Store.UpdateItemStatus(c.Request.Context(), item.ID, status); err != nil {
		log.Printf("ERROR: Failed to update item %s status to %s: %v", item.ID, status, err)
	}
}

// announceClaim publishes the claim event and leaves a notification for the
// item reporter. Both are best effort.
func (h *Handler) announceClaim(c *gin.Context, item *models.Item, claim *models.Claim, result *verification.Result) {
	if err := h.Store.PublishEvent(c.Request.Context(), models.Event{
		Type:         models.EventClaimVerified,
		ItemID:       item.ID,
		ItemName:     item.Name,
		ClaimID:      claim.ID,
		ClaimerName:  claim.ClaimerName,
		ClaimerEmail: claim.ClaimerEmail,
		ClaimerPhone: claim.ClaimerPhone,
		Decision:     result.Decision,
		OverallScore: result.OverallScore,
		RiskLevel:    result.RiskLevel,
		Summary:      result.Summary,
		Timestamp:    time.Now().UTC().Format(time.RFC3339),
	}); err != nil {
		log.Printf("ERROR: Failed to publish claim event: %v", err)
	}

	if item.CreatedBy == "" {
		return
	}
	note := &models.Notification{
		Type:    models.NotificationClaim,
		UserID:  item.CreatedBy,
		ItemID:  item.ID,
		Message: "Someone claimed your reported item \"" + item.Name + "\": " + result.Summary,
	}
	if err := h.Store.SaveNotification(c.Request.Context(), note); err != nil {
		log.Printf("ERROR: Failed to save claim notification: %v", err)
	}
}

// PreviewClaim returns the advisory blended match score for a draft claim
// without persisting anything.
func (h *Handler) PreviewClaim(c *gin.Context) {
	var req createClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.Store.GetItemByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load item"})
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Item not found"})
		return
	}

	score := h.Matcher.ScoreClaim(c.Request.Context(), item, req.SecurityAnswers, req.Description)
	c.JSON(http.StatusOK, score)
}

// GetClaim returns one claim with its verdict. Claimants may read their own
// claims; admins may read any.
func (h *Handler) GetClaim(c *gin.Context) {
	claim, err := h.Store.GetClaimByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load claim"})
		return
	}
	if claim == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Claim not found"})
		return
	}

	email := c.GetString(ctxUserEmail)
	if !c.GetBool(ctxIsAdmin) && !strings.EqualFold(claim.ClaimerEmail, email) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not your claim"})
		return
	}

	c.JSON(http.StatusOK, claimView(claim))
}

// claimView decorates a claim with its parsed check list for API responses.
func claimView(claim *models.Claim) gin.H {
	var checks []verification.Check
	if claim.ChecksJSON != "" {
		if err := json.Unmarshal([]byte(claim.ChecksJSON), &checks); err != nil {
			log.Printf("ERROR: Failed to parse stored checks for claim %s: %v", claim.ID, err)
		}
	}

	view := gin.H{
		"claim":  claim,
		"checks": checks,
	}
	if claim.AIJSON != "" {
		var assessment json.RawMessage
		if err := json.Unmarshal([]byte(claim.AIJSON), &assessment); err == nil {
			view["aiVerification"] = assessment
		}
	}
	return view
}
