package models

import "time"

// SubscriptionStatus is the lifecycle state of a member subscription.
type SubscriptionStatus string

// SubscriptionStatus values.
const (
	// SubscriptionStatusActive marks a running subscription.
	SubscriptionStatusActive SubscriptionStatus = "Active"
	// SubscriptionStatusExpired marks a subscription past its end date.
	SubscriptionStatusExpired SubscriptionStatus = "Expired"
	// SubscriptionStatusPending marks a subscription awaiting activation.
	SubscriptionStatusPending SubscriptionStatus = "Pending"
	// SubscriptionStatusCancelled marks a cancelled subscription.
	SubscriptionStatusCancelled SubscriptionStatus = "Cancelled"
)

// ValidSubscriptionStatus reports whether s is a known subscription status.
func ValidSubscriptionStatus(s SubscriptionStatus) bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusExpired,
		SubscriptionStatusPending, SubscriptionStatusCancelled:
		return true
	}
	return false
}

// MemberSubscription links a profile to a plan for a date interval.
type MemberSubscription struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	UserProfileID uint64      `gorm:"not null;index"`           // Owning profile ID.
	UserProfile   UserProfile `gorm:"foreignKey:UserProfileID"` // Owning profile record.

	PlanID *uint64         `gorm:"index"`                                          // Referenced plan ID, nil after plan deletion.
	Plan   *MembershipPlan `gorm:"foreignKey:PlanID;constraint:OnDelete:SET NULL"` // Referenced plan record.

	StartDate time.Time          `gorm:"not null"`                                   // Subscription start date.
	EndDate   time.Time          `gorm:"not null"`                                   // Subscription end date.
	Status    SubscriptionStatus `gorm:"type:varchar(20);not null;default:'Active'"` // Lifecycle status.

	Payments []Payment `gorm:"foreignKey:MemberSubscriptionID;constraint:OnDelete:CASCADE"` // Settlements against this subscription.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}

// IsActiveOn reports whether the subscription is active at the given moment:
// status is Active and the end date has not passed. The value is derived from
// wall-clock time on every call and is never stored.
func (s *MemberSubscription) IsActiveOn(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	today := now.UTC().Truncate(24 * time.Hour)
	end := s.EndDate.UTC().Truncate(24 * time.Hour)
	return !end.Before(today)
}
