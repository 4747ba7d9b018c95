package models

import "time"

// MembershipPlan is a catalog entry describing a purchasable membership.
// Plans are referenced by subscriptions, not owned: deleting a plan leaves
// existing subscriptions in place with a null plan reference.
type MembershipPlan struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	Name         string  `gorm:"type:varchar(100);not null;uniqueIndex"` // Unique plan name.
	Price        float64 `gorm:"type:decimal(8,2);not null"`             // Plan price.
	DurationDays int     `gorm:"not null"`                               // Duration in days, e.g. 30 for monthly.
	Description  string  `gorm:"type:text"`                              // Plan description.

	CreatedAt time.Time `gorm:"not null;autoCreateTime"` // Creation timestamp.
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime"` // Last update timestamp.
}
