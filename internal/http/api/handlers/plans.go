package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"gorm.io/gorm"
)

// PlanHandler manages the membership plan catalog. Reads are public; writes
// go through the admin route group.
type PlanHandler struct {
	db *gorm.DB
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(db *gorm.DB) *PlanHandler {
	return &PlanHandler{db: db}
}

// List returns the full plan catalog.
func (h *PlanHandler) List(c *gin.Context) {
	var plans []models.MembershipPlan
	if errFind := h.db.WithContext(c.Request.Context()).
		Order("price ASC, name ASC").
		Find(&plans).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list plans failed"})
		return
	}

	out := make([]gin.H, 0, len(plans))
	for i := range plans {
		out = append(out, formatPlan(&plans[i]))
	}
	c.JSON(http.StatusOK, gin.H{"plans": out})
}

// Get returns one plan by ID.
func (h *PlanHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var plan models.MembershipPlan
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&plan, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	c.JSON(http.StatusOK, formatPlan(&plan))
}

// planRequest defines the request body for plan creation and updates.
type planRequest struct {
	Name         string   `json:"name"`
	Price        *float64 `json:"price"`
	DurationDays *int     `json:"duration_days"`
	Description  *string  `json:"description"`
}

// Create adds a plan to the catalog.
func (h *PlanHandler) Create(c *gin.Context) {
	var body planRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing name"})
		return
	}
	if body.Price == nil || *body.Price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
		return
	}
	if body.DurationDays == nil || *body.DurationDays <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration_days"})
		return
	}

	var count int64
	if errCount := h.db.WithContext(c.Request.Context()).
		Model(&models.MembershipPlan{}).
		Where("name = ?", name).
		Count(&count).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		return
	}
	if count > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "plan name already exists"})
		return
	}

	plan := models.MembershipPlan{
		Name:         name,
		Price:        *body.Price,
		DurationDays: *body.DurationDays,
	}
	if body.Description != nil {
		plan.Description = strings.TrimSpace(*body.Description)
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&plan).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create plan failed"})
		return
	}
	c.JSON(http.StatusCreated, formatPlan(&plan))
}

// Update edits a catalog plan.
func (h *PlanHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var plan models.MembershipPlan
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&plan, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}

	var body planRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if name := strings.TrimSpace(body.Name); name != "" && name != plan.Name {
		var count int64
		if errCount := h.db.WithContext(c.Request.Context()).
			Model(&models.MembershipPlan{}).
			Where("name = ? AND id <> ?", name, plan.ID).
			Count(&count).Error; errCount != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update plan failed"})
			return
		}
		if count > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "plan name already exists"})
			return
		}
		plan.Name = name
		updates["name"] = name
	}
	if body.Price != nil {
		if *body.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid price"})
			return
		}
		plan.Price = *body.Price
		updates["price"] = *body.Price
	}
	if body.DurationDays != nil {
		if *body.DurationDays <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid duration_days"})
			return
		}
		plan.DurationDays = *body.DurationDays
		updates["duration_days"] = *body.DurationDays
	}
	if body.Description != nil {
		plan.Description = strings.TrimSpace(*body.Description)
		updates["description"] = plan.Description
	}

	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.MembershipPlan{}).
			Where("id = ?", plan.ID).
			Updates(updates).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update plan failed"})
			return
		}
	}
	c.JSON(http.StatusOK, formatPlan(&plan))
}

// Delete removes a plan from the catalog. Subscriptions referencing the plan
// survive with a null plan reference.
func (h *PlanHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var plan models.MembershipPlan
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&plan, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errDetach := tx.Model(&models.MemberSubscription{}).
			Where("plan_id = ?", plan.ID).
			Update("plan_id", nil).Error; errDetach != nil {
			return errDetach
		}
		return tx.Delete(&models.MembershipPlan{}, plan.ID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete plan failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
