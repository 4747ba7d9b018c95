package handlers

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"gorm.io/gorm"
)

// PaymentHandler manages payment endpoints. Members can only read payments
// reachable through their own subscriptions; all writes are admin actions.
type PaymentHandler struct {
	db *gorm.DB
}

// NewPaymentHandler constructs a PaymentHandler.
func NewPaymentHandler(db *gorm.DB) *PaymentHandler {
	return &PaymentHandler{db: db}
}

// scoped returns the payment query visible to the caller. Member visibility
// goes through subscription ownership, composed into the query itself.
func (h *PaymentHandler) scoped(c *gin.Context) *gorm.DB {
	q := h.db.WithContext(c.Request.Context()).Model(&models.Payment{})
	if !isGymAdmin(c) {
		q = q.Where("payments.member_subscription_id IN (?)",
			h.db.Session(&gorm.Session{NewDB: true}).
				Model(&models.MemberSubscription{}).
				Select("id").
				Where("user_profile_id = ?", callerProfileID(c)))
	}
	return q
}

// paymentPreloads attaches the nested read-form associations.
func paymentPreloads(q *gorm.DB) *gorm.DB {
	return q.
		Preload("MemberSubscription").
		Preload("MemberSubscription.UserProfile").
		Preload("MemberSubscription.UserProfile.User").
		Preload("MemberSubscription.Plan")
}

// List returns the caller's visible payments with optional filters.
func (h *PaymentHandler) List(c *gin.Context) {
	q := paymentPreloads(h.scoped(c))

	if subQ := strings.TrimSpace(c.Query("subscription_id")); subQ != "" {
		if id, errParse := strconv.ParseUint(subQ, 10, 64); errParse == nil {
			q = q.Where("payments.member_subscription_id = ?", id)
		}
	}
	if statusQ := strings.TrimSpace(c.Query("status")); statusQ != "" {
		if !models.ValidPaymentStatus(models.PaymentStatus(statusQ)) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		q = q.Where("payments.status = ?", statusQ)
	}

	var rows []models.Payment
	if errFind := q.Order("payments.payment_date DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list payments failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatPayment(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"payments": out})
}

// createPaymentRequest defines the request body for payment creation.
type createPaymentRequest struct {
	MemberSubscriptionID uint64   `json:"member_subscription_id"`
	Amount               *float64 `json:"amount"`
	PaymentMethod        string   `json:"payment_method"`
	TransactionID        string   `json:"transaction_id"`
	Status               string   `json:"status"`
}

// Create records a payment against a subscription. Only admins naming an
// explicit target subscription may create payments; members are rejected
// with a permission error rather than a silent no-op.
func (h *PaymentHandler) Create(c *gin.Context) {
	var body createPaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	if !isGymAdmin(c) || body.MemberSubscriptionID == 0 {
		c.JSON(http.StatusForbidden, gin.H{"error": "members can only view payments, contact an admin to record one"})
		return
	}

	if body.Amount == nil || *body.Amount <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}
	method := models.PaymentMethod(strings.TrimSpace(body.PaymentMethod))
	if !models.ValidPaymentMethod(method) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method"})
		return
	}
	status := models.PaymentStatus(strings.TrimSpace(body.Status))
	if status == "" {
		status = models.PaymentStatusCompleted
	}
	if !models.ValidPaymentStatus(status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	var sub models.MemberSubscription
	if errFindSub := h.db.WithContext(c.Request.Context()).
		First(&sub, body.MemberSubscriptionID).Error; errFindSub != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "subscription not found"})
		return
	}

	payment := models.Payment{
		MemberSubscriptionID: sub.ID,
		Amount:               *body.Amount,
		PaymentDate:          time.Now().UTC(),
		PaymentMethod:        method,
		TransactionID:        strings.TrimSpace(body.TransactionID),
		Status:               status,
	}
	if errCreate := h.db.WithContext(c.Request.Context()).Create(&payment).Error; errCreate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "create payment failed"})
		return
	}

	if errLoad := paymentPreloads(h.db.WithContext(c.Request.Context())).
		First(&payment, payment.ID).Error; errLoad != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load payment failed"})
		return
	}
	c.JSON(http.StatusCreated, formatPayment(&payment))
}

// Get returns one visible payment.
func (h *PaymentHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var payment models.Payment
	if errFind := paymentPreloads(h.scoped(c)).
		Where("payments.id = ?", id).
		First(&payment).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}
	c.JSON(http.StatusOK, formatPayment(&payment))
}

// updatePaymentRequest defines the request body for payment updates.
type updatePaymentRequest struct {
	Amount        *float64 `json:"amount"`
	PaymentMethod *string  `json:"payment_method"`
	TransactionID *string  `json:"transaction_id"`
	Status        *string  `json:"status"`
}

// Update edits a payment. Admin only; the payment date is immutable.
func (h *PaymentHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var payment models.Payment
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&payment, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	var body updatePaymentRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}

	updates := map[string]any{}
	if body.Amount != nil {
		if *body.Amount <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		updates["amount"] = *body.Amount
	}
	if body.PaymentMethod != nil {
		method := models.PaymentMethod(strings.TrimSpace(*body.PaymentMethod))
		if !models.ValidPaymentMethod(method) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment_method"})
			return
		}
		updates["payment_method"] = method
	}
	if body.TransactionID != nil {
		updates["transaction_id"] = strings.TrimSpace(*body.TransactionID)
	}
	if body.Status != nil {
		status := models.PaymentStatus(strings.TrimSpace(*body.Status))
		if !models.ValidPaymentStatus(status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		updates["status"] = status
	}

	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.Payment{}).
			Where("id = ?", payment.ID).
			Updates(updates).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update payment failed"})
			return
		}
	}

	if errLoad := paymentPreloads(h.db.WithContext(c.Request.Context())).
		First(&payment, payment.ID).Error; errLoad != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "load payment failed"})
		return
	}
	c.JSON(http.StatusOK, formatPayment(&payment))
}

// Delete removes a payment. Admin only.
func (h *PaymentHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var payment models.Payment
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&payment, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "payment not found"})
		return
	}

	if errDelete := h.db.WithContext(c.Request.Context()).
		Delete(&models.Payment{}, payment.ID).Error; errDelete != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete payment failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
