package unitofwork

import (
	"context"

	"cancellation-flow-be/internal/repository/contract"
)

// UnitOfWork groups the cancellation and subscription writes of one
// finalization into a single transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	CancellationRepository() contract.CancellationRepository
	SubscriptionRepository() contract.SubscriptionRepository
}
