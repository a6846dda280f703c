package contract

import (
	"context"

	"cancellation-flow-be/internal/entity"
	"cancellation-flow-be/internal/repository/specification"
	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// SubscriptionRepository is the narrow subscription surface the flow needs:
// find the active subscription and move its status.
type SubscriptionRepository interface {
	Create(ctx context.Context, subscription *entity.Subscription) error

	// FindActiveByUser returns the user's most recent active subscription,
	// or nil when there is none.
	FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error)

	// UpdateStatus moves every subscription of the user to the given status
	// and stamps updated_at.
	UpdateStatus(ctx context.Context, userID uuid.UUID, status flow.SubscriptionStatus) error
}
