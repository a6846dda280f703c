package implementation

import (
	"context"
	"time"

	"cancellation-flow-be/internal/entity"
	"cancellation-flow-be/internal/model"
	"cancellation-flow-be/internal/repository/contract"
	"cancellation-flow-be/internal/repository/specification"
	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type subscriptionRepositoryImpl struct {
	db *gorm.DB
}

// NewSubscriptionRepository creates a new subscription repository
func NewSubscriptionRepository(db *gorm.DB) contract.SubscriptionRepository {
	return &subscriptionRepositoryImpl{db: db}
}

func (r *subscriptionRepositoryImpl) Create(ctx context.Context, subscription *entity.Subscription) error {
	m := r.mapToModel(subscription)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	subscription.ID = m.ID
	subscription.CreatedAt = m.CreatedAt
	subscription.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *subscriptionRepositoryImpl) FindActiveByUser(ctx context.Context, userID uuid.UUID) (*entity.Subscription, error) {
	return r.FindOne(ctx,
		specification.ByUserID{UserID: userID},
		specification.ByStatus{Status: string(flow.SubscriptionActive)},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *subscriptionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Subscription, error) {
	var m model.Subscription
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.First(&m).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}

	return r.mapToEntity(&m), nil
}

func (r *subscriptionRepositoryImpl) UpdateStatus(ctx context.Context, userID uuid.UUID, status flow.SubscriptionStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Subscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":     string(status),
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *subscriptionRepositoryImpl) mapToModel(e *entity.Subscription) *model.Subscription {
	return &model.Subscription{
		ID:           e.ID,
		UserID:       e.UserID,
		MonthlyPrice: e.MonthlyPrice,
		Status:       string(e.Status),
	}
}

func (r *subscriptionRepositoryImpl) mapToEntity(m *model.Subscription) *entity.Subscription {
	return &entity.Subscription{
		ID:           m.ID,
		UserID:       m.UserID,
		MonthlyPrice: m.MonthlyPrice,
		Status:       flow.SubscriptionStatus(m.Status),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
}
