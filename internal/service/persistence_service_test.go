package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"cancellation-flow-be/internal/dto"
	"cancellation-flow-be/internal/pkg/audit"
	"cancellation-flow-be/internal/pkg/logger"
	"cancellation-flow-be/pkg/flow"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPersistenceWorker(t *testing.T) {
	newWorker := func(t *testing.T, retries int) (*fakeCancellationRepo, *fakeSubscriptionRepo, IPublisherService) {
		t.Helper()

		cancellations := &fakeCancellationRepo{}
		subscriptions := &fakeSubscriptionRepo{}
		factory := &fakeFactory{uow: &fakeUnitOfWork{
			cancellations: cancellations,
			subscriptions: subscriptions,
		}}

		pubSub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewStdLogger(false, false))
		nop := logger.NewNopLogger()

		worker := NewPersistenceService(pubSub, "TEST_PERSIST", factory, retries, nop, audit.NewRecorder(nop))
		require.NoError(t, worker.Consume(context.Background()))

		return cancellations, subscriptions, NewPublisherService("TEST_PERSIST", pubSub)
	}

	publish := func(t *testing.T, pub IPublisherService, msg dto.PersistStepMessage) {
		t.Helper()
		payload, err := json.Marshal(msg)
		require.NoError(t, err)
		require.NoError(t, pub.Publish(context.Background(), payload))
	}

	waitFor := func(t *testing.T, cond func() bool) {
		t.Helper()
		deadline := time.Now().Add(2 * time.Second)
		for time.Now().Before(deadline) {
			if cond() {
				return
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Fatal("condition not reached in time")
	}

	t.Run("applies fields and step to the record", func(t *testing.T) {
		cancellations, _, pub := newWorker(t, 0)

		publish(t, pub, dto.PersistStepMessage{
			RecordId: uuid.New(),
			UserId:   uuid.New(),
			Step:     string(flow.StepSurvey),
			Fields:   map[string]interface{}{"job_found": true},
		})

		waitFor(t, func() bool { return len(cancellations.updates) == 1 })
		assert.Equal(t, true, cancellations.updates[0]["job_found"])
		assert.Equal(t, string(flow.StepSurvey), cancellations.updates[0]["cancellation_step"])
	})

	t.Run("moves the subscription status when asked", func(t *testing.T) {
		cancellations, subscriptions, pub := newWorker(t, 0)

		publish(t, pub, dto.PersistStepMessage{
			RecordId:           uuid.New(),
			UserId:             uuid.New(),
			Step:               string(flow.StepSubscriptionContinued),
			Fields:             map[string]interface{}{"accepted_downsell": true},
			SubscriptionStatus: string(flow.SubscriptionActive),
		})

		waitFor(t, func() bool { return len(subscriptions.statusUpdates) == 1 })
		assert.Equal(t, flow.SubscriptionActive, subscriptions.statusUpdates[0])
		assert.Len(t, cancellations.updates, 1)
	})

	t.Run("write failure is swallowed after retries", func(t *testing.T) {
		cancellations, _, pub := newWorker(t, 1)
		cancellations.updateErr = assert.AnError

		publish(t, pub, dto.PersistStepMessage{
			RecordId:    uuid.New(),
			UserId:      uuid.New(),
			Step:        string(flow.StepFeedback),
			Fields:      map[string]interface{}{"feedback_text": "x"},
			FailureCode: CodeFeedbackProcessingFailed,
		})

		// Both attempts fail; the message is acked and never recorded
		time.Sleep(500 * time.Millisecond)
		assert.Empty(t, cancellations.updates)

		// The worker is still alive for the next message
		cancellations.updateErr = nil
		publish(t, pub, dto.PersistStepMessage{
			RecordId: uuid.New(),
			UserId:   uuid.New(),
			Step:     string(flow.StepFeedback),
			Fields:   map[string]interface{}{"feedback_text": "y"},
		})
		waitFor(t, func() bool { return len(cancellations.updates) == 1 })
	})
}
