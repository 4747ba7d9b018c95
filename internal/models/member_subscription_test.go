package models

import (
	"testing"
	"time"
)

func TestIsActiveOn(t *testing.T) {
	day := 24 * time.Hour
	now := time.Now().UTC()

	sub := MemberSubscription{
		Status:    SubscriptionStatusActive,
		StartDate: now.Add(-30 * day),
		EndDate:   now.Add(30 * day),
	}
	if !sub.IsActiveOn(now) {
		t.Fatalf("expected subscription ending in the future to be active")
	}

	// Active through the last day of the interval.
	sub.EndDate = now
	if !sub.IsActiveOn(now) {
		t.Fatalf("expected subscription ending today to be active")
	}

	sub.EndDate = now.Add(-2 * day)
	if sub.IsActiveOn(now) {
		t.Fatalf("expected subscription past its end date to be inactive")
	}

	sub.EndDate = now.Add(30 * day)
	for _, status := range []SubscriptionStatus{
		SubscriptionStatusExpired, SubscriptionStatusPending, SubscriptionStatusCancelled,
	} {
		sub.Status = status
		if sub.IsActiveOn(now) {
			t.Fatalf("expected %s subscription to be inactive", status)
		}
	}
}

func TestValidSubscriptionStatus(t *testing.T) {
	for _, status := range []SubscriptionStatus{
		SubscriptionStatusActive, SubscriptionStatusExpired,
		SubscriptionStatusPending, SubscriptionStatusCancelled,
	} {
		if !ValidSubscriptionStatus(status) {
			t.Fatalf("expected %s to be valid", status)
		}
	}
	if ValidSubscriptionStatus("Paused") {
		t.Fatalf("expected unknown status to be invalid")
	}
}
