package entity

import (
	"time"

	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// Subscription is the billing record the cancellation flow acts on.
type Subscription struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	MonthlyPrice float64
	Status       flow.SubscriptionStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Active reports whether the subscription can enter the cancellation flow.
func (s *Subscription) Active() bool {
	return s.Status == flow.SubscriptionActive
}
