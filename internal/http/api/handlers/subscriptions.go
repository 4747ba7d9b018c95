package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"gorm.io/gorm"
)

// SubscriptionHandler manages member subscription endpoints. Admins operate
// on all rows; members only ever see rows owned by their own profile.
type SubscriptionHandler struct {
	db *gorm.DB
}

// NewSubscriptionHandler constructs a SubscriptionHandler.
func NewSubscriptionHandler(db *gorm.DB) *SubscriptionHandler {
	return &SubscriptionHandler{db: db}
}

// scoped returns the subscription query visible to the caller. The ownership
// filter is composed into the query itself so scoped-out rows read as absent.
func (h *SubscriptionHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.MemberSubscription{})
	if !isGymAdmin(c) {
		q = q.Where("member_subscriptions.user_profile_id = ?", callerProfileID(c))
	}
	return q
}

// List returns the caller's visible subscriptions with optional filters.
func (h *SubscriptionHandler) List(c *gin.Context) {
	q := h.scoped(c).
		Preload("UserProfile").
		Preload("UserProfile.User").
		Preload("Plan")

	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		if !models.ValidSubscriptionStatus(models.SubscriptionStatus(statusQ)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		q = q.Where("status = ?", statusQ)
	}
	if activeQ := strings.TrimSpace(c.Query("active")); activeQ == "true" || activeQ == "1" {
		q = q.Where("status = ?", models.SubscriptionStatusActive).
			Where("end_date >= ?", today())
	}
	if planIDQ := strings.TrimSpace(c.Query("plan_id")); planIDQ != "" {
		if id, errParse := strconv.ParseUint(planIDQ, 10, 64); errParse == nil {
			q = q.Where("plan_id = ?", id)
		}
	}

	var rows []models.MemberSubscription
	if errFind := q.Order("created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list subscriptions failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatSubscription(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": out})
}

// createSubscriptionRequest defines the request body for subscription
// creation. user_profile_id is only honored for admin callers.
type createSubscriptionRequest struct {
	UserProfileID uint64 `json:"user_profile_id"`
	PlanID        uint64 `json:"plan_id"`
	StartDate     string `json:"start_date"`
	EndDate       string `json:"end_date"`
	Status        string `json:"status"`
}

// Create creates a subscription. An admin supplying user_profile_id creates
// it for that profile; everyone else gets a subscription on their own
// profile.
func (h *SubscriptionHandler) Create(c *gin.Context) {
	var body createSubscriptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	if body.PlanID == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan_id is required"})
		return
	}
	startDate, okStart := parseDate(strings.TrimSpace(body.StartDate))
	if !okStart {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
		return
	}
	endDate, okEnd := parseDate(strings.TrimSpace(body.EndDate))
	if !okEnd {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
		return
	}
	status := models.SubscriptionStatus(strings.TrimSpace(body.Status))
	if status == "" {
		status = models.SubscriptionStatusActive
	}
	if !models.ValidSubscriptionStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var plan models.MembershipPlan
	if errFindPlan := h.db.WithContext(c.Request.Context()).
		First(&plan, body.PlanID).Error; errFindPlan != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_id"})
		return
	}

	targetProfileID := callerProfileID(c)
	if isGymAdmin(c) && body.UserProfileID != 0 {
		var target models.UserProfile
		if errFindTarget := h.db.WithContext(c.Request.Context()).
			First(&target, body.UserProfileID).Error; errFindTarget != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
			return
		}
		targetProfileID = target.ID
	}
	if targetProfileID == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	planID := plan.ID
	sub := models.MemberSubscription{
		UserProfileID: targetProfileID,
		PlanID:        &planID,
		StartDate:     startDate,
		EndDate:       endDate,
		Status:        status,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&sub).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create subscription failed"})
		return
	}

	if errLoad := h.db.WithContext(c.Request.Context()).
		Preload("UserProfile").
		Preload("UserProfile.User").
		Preload("Plan").
		First(&sub, sub.ID).Error; errLoad != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load subscription failed"})
		return
	}
	c.JSON(http.StatusCreated, formatSubscription(&sub))
}

// Get returns one visible subscription.
func (h *SubscriptionHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var sub models.MemberSubscription
	if errFind := h.scoped(c).
		Preload("UserProfile").
		Preload("UserProfile.User").
		Preload("Plan").
		Where("member_subscriptions.id = ?", id).
		First(&sub).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}
	c.JSON(http.StatusOK, formatSubscription(&sub))
}

// updateSubscriptionRequest defines the request body for subscription
// updates.
type updateSubscriptionRequest struct {
	PlanID    *uint64 `json:"plan_id"`
	StartDate *string `json:"start_date"`
	EndDate   *string `json:"end_date"`
	Status    *string `json:"status"`
}

// Update edits one visible subscription.
func (h *SubscriptionHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var sub models.MemberSubscription
	if errFind := h.scoped(c).
		Where("member_subscriptions.id = ?", id).
		First(&sub).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}

	var body updateSubscriptionRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.PlanID != nil {
		var plan models.MembershipPlan
		if errFindPlan := h.db.WithContext(c.Request.Context()).
			First(&plan, *body.PlanID).Error; errFindPlan != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid plan_id"})
			return
		}
		updates["plan_id"] = plan.ID
	}
	if body.StartDate != nil {
		startDate, okStart := parseDate(strings.TrimSpace(*body.StartDate))
		if !okStart {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date"})
			return
		}
		updates["start_date"] = startDate
	}
	if body.EndDate != nil {
		endDate, okEnd := parseDate(strings.TrimSpace(*body.EndDate))
		if !okEnd {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date"})
			return
		}
		updates["end_date"] = endDate
	}
	if body.Status != nil {
		status := models.SubscriptionStatus(strings.TrimSpace(*body.Status))
		if !models.ValidSubscriptionStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.MemberSubscription{}).
			Where("id = ?", sub.ID).
			Updates(updates).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update subscription failed"})
			return
		}
	}

	if errLoad := h.db.WithContext(c.Request.Context()).
		Preload("UserProfile").
		Preload("UserProfile.User").
		Preload("Plan").
		First(&sub, sub.ID).Error; errLoad != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load subscription failed"})
		return
	}
	c.JSON(http.StatusOK, formatSubscription(&sub))
}

// Delete removes one visible subscription and its payments.
func (h *SubscriptionHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var sub models.MemberSubscription
	if errFind := h.scoped(c).
		Where("member_subscriptions.id = ?", id).
		First(&sub).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errPayments := tx.
			Where("member_subscription_id = ?", sub.ID).
			Delete(&models.Payment{}).Error; errPayments != nil {
			return errPayments
		}
		return tx.Delete(&models.MemberSubscription{}, sub.ID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete subscription failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
