package service

import (
	"context"

	"cancellation-flow-be/internal/repository/unitofwork"
	"cancellation-flow-be/pkg/experiment"
	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// variantStore adapts the cancellation repository to the read surface the
// variant assigner needs.
type variantStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewVariantStore(uowFactory unitofwork.RepositoryFactory) experiment.VariantStore {
	return &variantStore{uowFactory: uowFactory}
}

func (s *variantStore) LatestVariant(ctx context.Context, userID uuid.UUID) (flow.Variant, bool, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	record, err := uow.CancellationRepository().FindLatestByUser(ctx, userID)
	if err != nil {
		return "", false, err
	}
	if record == nil {
		return "", false, nil
	}
	return record.DownsellVariant, true, nil
}
