package models

import "time"

// PaymentMethod is the settlement channel for a payment.
type PaymentMethod string

// PaymentMethod values.
const (
	// PaymentMethodCash marks an in-person cash payment.
	PaymentMethodCash PaymentMethod = "Cash"
	// PaymentMethodOnline marks an online transfer.
	PaymentMethodOnline PaymentMethod = "Online"
	// PaymentMethodCard marks a card payment.
	PaymentMethodCard PaymentMethod = "Card"
)

// ValidPaymentMethod reports whether m is a known payment method.
func ValidPaymentMethod(m PaymentMethod) bool {
	switch m {
	case PaymentMethodCash, PaymentMethodOnline, PaymentMethodCard:
		return true
	}
	return false
}

// PaymentStatus is the settlement state of a payment.
type PaymentStatus string

// PaymentStatus values.
const (
	// PaymentStatusCompleted marks a settled payment.
	PaymentStatusCompleted PaymentStatus = "Completed"
	// PaymentStatusPending marks a payment awaiting settlement.
	PaymentStatusPending PaymentStatus = "Pending"
	// PaymentStatusFailed marks a failed payment.
	PaymentStatusFailed PaymentStatus = "Failed"
)

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s PaymentStatus) bool {
	switch s {
	case PaymentStatusCompleted, PaymentStatusPending, PaymentStatusFailed:
		return true
	}
	return false
}

// Payment records a settlement against one member subscription.
type Payment struct {
	ID uint64 `gorm:"primaryKey;autoIncrement"` // Primary key.

	MemberSubscriptionID uint64             `gorm:"not null;index"`                  // Owning subscription ID.
	MemberSubscription   MemberSubscription `gorm:"foreignKey:MemberSubscriptionID"` // Owning subscription record.

	Amount        float64       `gorm:"type:decimal(8,2);not null"`                    // Paid amount.
	PaymentDate   time.Time     `gorm:"not null"`                                      // Settlement timestamp, set once at creation.
	PaymentMethod PaymentMethod `gorm:"type:varchar(50);not null"`                     // Settlement channel.
	TransactionID string        `gorm:"type:varchar(255)"`                             // External transaction reference, optional.
	Status        PaymentStatus `gorm:"type:varchar(20);not null;default:'Completed'"` // Settlement state.
}
