package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	dbutil "github.com/gymfeetrack/gymfeetrack/internal/db"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
	"github.com/gymfeetrack/gymfeetrack/internal/security"
	"gorm.io/gorm"
)

// ProfileHandler manages member profile endpoints.
type ProfileHandler struct {
	db *gorm.DB
}

// NewProfileHandler constructs a ProfileHandler.
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{db: db}
}

// Me returns the caller's own profile.
func (h *ProfileHandler) Me(c *gin.Context) {
	profile := getProfile(c)
	if profile == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, formatProfile(profile))
}

// changePasswordRequest defines the request body for password changes.
type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// ChangePassword updates the caller's own password.
func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	user := getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var body changePasswordRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	newPassword := strings.TrimSpace(body.NewPassword)
	if newPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing new password"})
		return
	}
	if !security.CheckPassword(user.Password, body.OldPassword) {
		c.JSON(http.StatusForbidden, gin.H{"error": "old password mismatch"})
		return
	}

	hash, errHash := security.HashPassword(newPassword)
	if errHash != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "hash password failed"})
		return
	}
	if errUpdate := h.db.WithContext(c.Request.Context()).
		Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("password", hash).Error; errUpdate != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update password failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Get returns the caller's own profile by ID. The ownership filter is part of
// the query, so other members' profile IDs read as not found.
func (h *ProfileHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	user := getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var profile models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&profile).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, formatProfile(&profile))
}

// updateProfileRequest defines the request body for profile updates. The
// join date is immutable and the admin flag is only writable through the
// admin endpoints.
type updateProfileRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
}

// Update updates the caller's own profile.
func (h *ProfileHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	user := getUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var profile models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("User").
		Where("id = ? AND user_id = ?", id, user.ID).
		First(&profile).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	var body updateProfileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updates, errApply := applyProfileFields(&profile, body.PhoneNumber, body.Address)
	if errApply != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errApply.Error()})
		return
	}
	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.UserProfile{}).
			Where("id = ?", profile.ID).
			Updates(updates).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update profile failed"})
			return
		}
	}
	c.JSON(http.StatusOK, formatProfile(&profile))
}

// errPhoneTooLong rejects phone numbers over the schema's 10-char limit.
var errPhoneTooLong = errors.New("phone_number too long")

// applyProfileFields validates and applies member-writable profile fields,
// returning the column updates to persist.
func applyProfileFields(profile *models.UserProfile, phone, address *string) (map[string]any, error) {
	updates := map[string]any{}
	if phone != nil {
		trimmed := strings.TrimSpace(*phone)
		if len(trimmed) > 10 {
			return nil, errPhoneTooLong
		}
		profile.PhoneNumber = trimmed
		updates["phone_number"] = trimmed
	}
	if address != nil {
		profile.Address = strings.TrimSpace(*address)
		updates["address"] = profile.Address
	}
	return updates, nil
}

// AdminList returns all profiles, optionally filtered by a search term over
// the owning account's username and email.
func (h *ProfileHandler) AdminList(c *gin.Context) {
	q := h.db.WithContext(c.Request.Context()).
		Model(&models.UserProfile{}).
		Preload("User").
		Joins("JOIN users ON users.id = user_profiles.user_id")

	if searchQ := strings.TrimSpace(c.Query("search")); searchQ != "" {
		pattern := dbutil.NormalizeLikePattern(h.db, "%"+searchQ+"%")
		q = q.Where(
			dbutil.CaseInsensitiveLikeExpr(h.db, "users.username")+" OR "+
				dbutil.CaseInsensitiveLikeExpr(h.db, "users.email"),
			pattern,
			pattern,
		)
	}

	var rows []models.UserProfile
	if errFind := q.Order("user_profiles.created_at DESC").Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list profiles failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for i := range rows {
		out = append(out, formatProfile(&rows[i]))
	}
	c.JSON(http.StatusOK, gin.H{"profiles": out})
}

// AdminGet returns any profile by ID.
func (h *ProfileHandler) AdminGet(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var profile models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("User").
		First(&profile, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}
	c.JSON(http.StatusOK, formatProfile(&profile))
}

// adminUpdateProfileRequest defines the admin request body for profile
// updates. Admins may additionally toggle the admin flag.
type adminUpdateProfileRequest struct {
	PhoneNumber *string `json:"phone_number"`
	Address     *string `json:"address"`
	IsGymAdmin  *bool   `json:"is_gym_admin"`
}

// AdminUpdate updates any profile.
func (h *ProfileHandler) AdminUpdate(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var profile models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).
		Preload("User").
		First(&profile, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	var body adminUpdateProfileRequest
	if errBind := c.ShouldBindJSON(&body); errBind != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
		return
	}
	updates, errApply := applyProfileFields(&profile, body.PhoneNumber, body.Address)
	if errApply != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errApply.Error()})
		return
	}
	if body.IsGymAdmin != nil {
		profile.IsGymAdmin = *body.IsGymAdmin
		updates["is_gym_admin"] = *body.IsGymAdmin
	}
	if len(updates) > 0 {
		if errUpdate := h.db.WithContext(c.Request.Context()).
			Model(&models.UserProfile{}).
			Where("id = ?", profile.ID).
			Updates(updates).Error; errUpdate != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update profile failed"})
			return
		}
	}
	c.JSON(http.StatusOK, formatProfile(&profile))
}

// AdminDelete deletes a profile together with its account, subscriptions,
// and payments in one transaction.
func (h *ProfileHandler) AdminDelete(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	var profile models.UserProfile
	if errFind := h.db.WithContext(c.Request.Context()).
		First(&profile, id).Error; errFind != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "profile not found"})
		return
	}

	errTx := h.db.WithContext(c.Request.Context()).Transaction(func(tx *gorm.DB) error {
		if errPayments := tx.
			Where("member_subscription_id IN (?)",
				tx.Session(&gorm.Session{NewDB: true}).
					Model(&models.MemberSubscription{}).
					Select("id").
					Where("user_profile_id = ?", profile.ID)).
			Delete(&models.Payment{}).Error; errPayments != nil {
			return errPayments
		}
		if errSubs := tx.
			Where("user_profile_id = ?", profile.ID).
			Delete(&models.MemberSubscription{}).Error; errSubs != nil {
			return errSubs
		}
		if errProfile := tx.Delete(&models.UserProfile{}, profile.ID).Error; errProfile != nil {
			return errProfile
		}
		return tx.Delete(&models.User{}, profile.UserID).Error
	})
	if errTx != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "delete profile failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
