package memory

import (
	"testing"

	"cancellation-flow-be/pkg/flow"
	"cancellation-flow-be/pkg/store"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionRepository(t *testing.T) {
	repo := NewSessionRepository()
	userId := uuid.New()

	_, found := repo.Get(userId)
	assert.False(t, found)

	session := &store.FlowSession{
		ID:          uuid.New(),
		UserID:      userId,
		Variant:     flow.VariantB,
		CurrentStep: flow.StepInitial,
	}
	repo.Save(session)

	got, found := repo.Get(userId)
	require.True(t, found)
	assert.Equal(t, session.ID, got.ID)
	assert.Equal(t, flow.VariantB, got.Variant)

	// Save overwrites the user's single session
	session.CurrentStep = flow.StepSurvey
	repo.Save(session)
	got, found = repo.Get(userId)
	require.True(t, found)
	assert.Equal(t, flow.StepSurvey, got.CurrentStep)

	repo.Delete(userId)
	_, found = repo.Get(userId)
	assert.False(t, found)
}
