package contract

import (
	"context"

	"cancellation-flow-be/internal/entity"
	"cancellation-flow-be/internal/repository/specification"

	"github.com/google/uuid"
)

// CancellationRepository persists cancellation-flow traversals. All free-text
// fields must be sanitized by the caller before they reach this interface;
// the repository stores what it is given.
type CancellationRepository interface {
	Create(ctx context.Context, record *entity.CancellationRecord) error

	// FindLatestByUser returns the user's most recent record, or nil when
	// the user never entered the flow.
	FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.CancellationRecord, error)

	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationRecord, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRecord, error)

	// UpdateFields applies a partial update scoped to both id and user id so
	// one user can never mutate another's record. The updated_at column is
	// stamped on every call.
	UpdateFields(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}) error
}
