package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gymfeetrack/gymfeetrack/internal/models"
)

// formatUser converts a user account to its read payload. The password hash
// is never serialized.
func formatUser(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
	}
}

// formatProfile converts a profile to its read payload with the owning user
// embedded. The caller must have loaded the User association.
func formatProfile(profile *models.UserProfile) gin.H {
	return gin.H{
		"id":              profile.ID,
		"user":            formatUser(&profile.User),
		"phone_number":    profile.PhoneNumber,
		"date_of_joining": formatDate(profile.DateOfJoining),
		"address":         profile.Address,
		"is_gym_admin":    profile.IsGymAdmin,
	}
}

// formatPlan converts a membership plan to its read payload.
func formatPlan(plan *models.MembershipPlan) gin.H {
	return gin.H{
		"id":            plan.ID,
		"name":          plan.Name,
		"price":         plan.Price,
		"duration_days": plan.DurationDays,
		"description":   plan.Description,
	}
}

// formatSubscription converts a subscription to its read payload. The profile
// and plan read forms are embedded; the plan is null when its catalog entry
// has been deleted. is_active is recomputed from wall-clock time on every
// call, it is never stored.
func formatSubscription(sub *models.MemberSubscription) gin.H {
	var plan any
	if sub.Plan != nil {
		plan = formatPlan(sub.Plan)
	}
	return gin.H{
		"id":           sub.ID,
		"user_profile": formatProfile(&sub.UserProfile),
		"plan":         plan,
		"start_date":   formatDate(sub.StartDate),
		"end_date":     formatDate(sub.EndDate),
		"status":       sub.Status,
		"is_active":    sub.IsActiveOn(time.Now()),
		"created_at":   sub.CreatedAt,
		"updated_at":   sub.UpdatedAt,
	}
}

// formatPayment converts a payment to its read payload with the owning
// subscription embedded.
func formatPayment(payment *models.Payment) gin.H {
	return gin.H{
		"id":                  payment.ID,
		"member_subscription": formatSubscription(&payment.MemberSubscription),
		"amount":              payment.Amount,
		"payment_date":        payment.PaymentDate,
		"payment_method":      payment.PaymentMethod,
		"transaction_id":      payment.TransactionID,
		"status":              payment.Status,
	}
}
