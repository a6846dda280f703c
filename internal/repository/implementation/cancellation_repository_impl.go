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

type cancellationRepositoryImpl struct {
	db *gorm.DB
}

// NewCancellationRepository creates a new cancellation repository
func NewCancellationRepository(db *gorm.DB) contract.CancellationRepository {
	return &cancellationRepositoryImpl{db: db}
}

func (r *cancellationRepositoryImpl) Create(ctx context.Context, record *entity.CancellationRecord) error {
	m := r.mapToModel(record)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	// Surface store-assigned values back to the caller
	record.ID = m.ID
	record.CreatedAt = m.CreatedAt
	record.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *cancellationRepositoryImpl) FindLatestByUser(ctx context.Context, userID uuid.UUID) (*entity.CancellationRecord, error) {
	return r.FindOne(ctx,
		specification.ByUserID{UserID: userID},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
}

func (r *cancellationRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.CancellationRecord, error) {
	var m model.Cancellation
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

func (r *cancellationRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CancellationRecord, error) {
	var models []*model.Cancellation
	query := r.db.WithContext(ctx)

	for _, spec := range specs {
		query = spec.Apply(query)
	}

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	var records []*entity.CancellationRecord
	for _, m := range models {
		records = append(records, r.mapToEntity(m))
	}

	return records, nil
}

func (r *cancellationRepositoryImpl) UpdateFields(ctx context.Context, id, userID uuid.UUID, fields map[string]interface{}) error {
	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["updated_at"] = time.Now().UTC()

	res := r.db.WithContext(ctx).Model(&model.Cancellation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cancellationRepositoryImpl) mapToModel(e *entity.CancellationRecord) *model.Cancellation {
	return &model.Cancellation{
		ID:                   e.ID,
		UserID:               e.UserID,
		SubscriptionID:       e.SubscriptionID,
		DownsellVariant:      string(e.DownsellVariant),
		CancellationStep:     string(e.CancellationStep),
		JobFound:             e.JobFound,
		FoundWithMigrateMate: e.FoundWithMigrateMate,
		FeedbackText:         e.FeedbackText,
		Reason:               e.Reason,
		VisaType:             e.VisaType,
		HasLawyer:            e.HasLawyer,
		AcceptedDownsell:     e.AcceptedDownsell,
		FinalOutcome:         string(e.FinalOutcome),
		RolesApplied:         e.RolesApplied,
		CompaniesEmailed:     e.CompaniesEmailed,
		CompaniesInterviewed: e.CompaniesInterviewed,
	}
}

func (r *cancellationRepositoryImpl) mapToEntity(m *model.Cancellation) *entity.CancellationRecord {
	return &entity.CancellationRecord{
		ID:                   m.ID,
		UserID:               m.UserID,
		SubscriptionID:       m.SubscriptionID,
		DownsellVariant:      flow.Variant(m.DownsellVariant),
		CancellationStep:     flow.Step(m.CancellationStep),
		JobFound:             m.JobFound,
		FoundWithMigrateMate: m.FoundWithMigrateMate,
		FeedbackText:         m.FeedbackText,
		Reason:               m.Reason,
		VisaType:             m.VisaType,
		HasLawyer:            m.HasLawyer,
		AcceptedDownsell:     m.AcceptedDownsell,
		FinalOutcome:         flow.Outcome(m.FinalOutcome),
		RolesApplied:         m.RolesApplied,
		CompaniesEmailed:     m.CompaniesEmailed,
		CompaniesInterviewed: m.CompaniesInterviewed,
		CreatedAt:            m.CreatedAt,
		UpdatedAt:            m.UpdatedAt,
	}
}
