package service

import (
	"context"
	"encoding/json"
	"time"

	"cancellation-flow-be/internal/dto"
	"cancellation-flow-be/internal/pkg/audit"
	"cancellation-flow-be/internal/pkg/logger"
	"cancellation-flow-be/internal/repository/unitofwork"
	"cancellation-flow-be/pkg/flow"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// IPersistenceService drains the fire-and-forget step-persistence queue. Step
// submits never wait on the database; this worker carries their writes.
type IPersistenceService interface {
	Consume(ctx context.Context) error
}

type persistenceService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	retries    int
	logger     logger.ILogger
	audit      audit.Recorder
}

func NewPersistenceService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	retries int,
	log logger.ILogger,
	recorder audit.Recorder,
) IPersistenceService {
	return &persistenceService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		retries:    retries,
		logger:     log,
		audit:      recorder,
	}
}

func (ps *persistenceService) Consume(ctx context.Context) error {
	messages, err := ps.pubSub.Subscribe(ctx, ps.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			ps.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (ps *persistenceService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PersistStepMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		ps.logger.Error("PERSISTENCE", "failed to unmarshal step message", map[string]interface{}{
			"error": err.Error(),
		})
		msg.Ack() // malformed payloads would retry forever
		return
	}

	var err error
	for attempt := 0; attempt <= ps.retries; attempt++ {
		if attempt > 0 {
			time.Sleep(time.Duration(attempt) * 200 * time.Millisecond)
		}
		if err = ps.persist(ctx, &payload); err == nil {
			break
		}
	}

	if err != nil {
		code := payload.FailureCode
		if code == "" {
			code = CodeStepUpdateFailed
		}
		ps.audit.Failure(code, payload.UserId, err, map[string]interface{}{
			"record_id": payload.RecordId.String(),
			"step":      payload.Step,
			"attempts":  ps.retries + 1,
		})
	}

	// Best effort either way; the wizard already moved on.
	msg.Ack()
}

func (ps *persistenceService) persist(ctx context.Context, payload *dto.PersistStepMessage) error {
	uow := ps.uowFactory.NewUnitOfWork(ctx)

	fields := make(map[string]interface{}, len(payload.Fields)+1)
	for k, v := range payload.Fields {
		fields[k] = v
	}
	if payload.Step != "" {
		fields["cancellation_step"] = payload.Step
	}

	if err := uow.CancellationRepository().UpdateFields(ctx, payload.RecordId, payload.UserId, fields); err != nil {
		return err
	}

	if payload.SubscriptionStatus != "" {
		status := flow.SubscriptionStatus(payload.SubscriptionStatus)
		if err := uow.SubscriptionRepository().UpdateStatus(ctx, payload.UserId, status); err != nil {
			return err
		}
	}

	return nil
}
