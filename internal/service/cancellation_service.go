package service

import (
	"context"
	"encoding/json"
	"time"

	"cancellation-flow-be/internal/config"
	"cancellation-flow-be/internal/dto"
	"cancellation-flow-be/internal/entity"
	"cancellation-flow-be/internal/pkg/audit"
	"cancellation-flow-be/internal/pkg/logger"
	"cancellation-flow-be/internal/pkg/ratelimit"
	"cancellation-flow-be/internal/repository/memory"
	"cancellation-flow-be/internal/repository/unitofwork"
	"cancellation-flow-be/pkg/events"
	"cancellation-flow-be/pkg/experiment"
	"cancellation-flow-be/pkg/flow"
	pktNats "cancellation-flow-be/pkg/nats"
	"cancellation-flow-be/pkg/sanitize"
	"cancellation-flow-be/pkg/store"

	"github.com/google/uuid"
)

// CompletionCallback is invoked exactly once per finalized flow, with whether
// the subscription stays active after the outcome.
type CompletionCallback func(userID uuid.UUID, subscriptionRemainsActive bool)

type ICancellationService interface {
	Initialize(ctx context.Context, userId uuid.UUID) (*dto.InitializeCancellationResponse, error)
	GetSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error)
	GetVariantInfo(ctx context.Context, userId uuid.UUID) (*dto.VariantInfoResponse, error)

	SubmitJobResponse(ctx context.Context, userId uuid.UUID, req *dto.JobResponseRequest) (*dto.StepResponse, error)
	SubmitSurvey(ctx context.Context, userId uuid.UUID, req *dto.SurveyRequest) (*dto.StepResponse, error)
	SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.StepResponse, error)
	SubmitVisa(ctx context.Context, userId uuid.UUID, req *dto.VisaRequest) (*dto.StepResponse, error)
	SubmitDownsellDecision(ctx context.Context, userId uuid.UUID, req *dto.DownsellDecisionRequest) (*dto.StepResponse, error)
	SubmitSurveyOffer(ctx context.Context, userId uuid.UUID, req *dto.SurveyOfferRequest) (*dto.StepResponse, error)
	SubmitReason(ctx context.Context, userId uuid.UUID, req *dto.ReasonRequest) (*dto.StepResponse, error)

	Finish(ctx context.Context, userId uuid.UUID) (*dto.StepResponse, error)
	Back(ctx context.Context, userId uuid.UUID) (*dto.StepResponse, error)
	Abandon(ctx context.Context, userId uuid.UUID) error
}

type cancellationService struct {
	uowFactory       unitofwork.RepositoryFactory
	sessions         *memory.SessionRepository
	assigner         *experiment.Assigner
	publisherService IPublisherService
	eventPublisher   *pktNats.Publisher
	limiter          *ratelimit.Limiter
	flowCfg          config.FlowConfig
	onComplete       CompletionCallback
	logger           logger.ILogger
	audit            audit.Recorder
}

func NewCancellationService(
	uowFactory unitofwork.RepositoryFactory,
	sessions *memory.SessionRepository,
	assigner *experiment.Assigner,
	publisherService IPublisherService,
	eventPublisher *pktNats.Publisher,
	limiter *ratelimit.Limiter,
	flowCfg config.FlowConfig,
	onComplete CompletionCallback,
	log logger.ILogger,
	recorder audit.Recorder,
) ICancellationService {
	return &cancellationService{
		uowFactory:       uowFactory,
		sessions:         sessions,
		assigner:         assigner,
		publisherService: publisherService,
		eventPublisher:   eventPublisher,
		limiter:          limiter,
		flowCfg:          flowCfg,
		onComplete:       onComplete,
		logger:           log,
		audit:            recorder,
	}
}

// Initialize opens the wizard. Unlike step submits this is blocking: without
// an active subscription and a reachable store there is nothing to resume or
// create, so the caller gets INITIALIZATION_FAILED and may retry.
func (s *cancellationService) Initialize(ctx context.Context, userId uuid.UUID) (*dto.InitializeCancellationResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	subscription, err := uow.SubscriptionRepository().FindActiveByUser(ctx, userId)
	if err != nil {
		s.audit.Failure(CodeInitializationFailed, userId, err, map[string]interface{}{"stage": "subscription_lookup"})
		return nil, NewFlowError(CodeInitializationFailed, "Unable to load subscription, please try again", err)
	}
	if subscription == nil {
		s.audit.Failure(CodeInitializationFailed, userId, nil, map[string]interface{}{"stage": "no_active_subscription"})
		return nil, NewFlowError(CodeInitializationFailed, "No active subscription to cancel", nil)
	}

	record, err := uow.CancellationRepository().FindLatestByUser(ctx, userId)
	if err != nil {
		s.audit.Failure(CodeInitializationFailed, userId, err, map[string]interface{}{"stage": "record_lookup"})
		return nil, NewFlowError(CodeInitializationFailed, "Unable to load cancellation state, please try again", err)
	}

	var (
		variant flow.Variant
		answers flow.Answers
		resumed bool
	)

	if record != nil && !record.Finalized() {
		// Resume: the stored variant is authoritative, answers pre-fill the
		// steps, and the wizard restarts from the entry question.
		variant = record.DownsellVariant
		answers = record.Answers()
		resumed = true
		s.enqueuePersist(ctx, record.ID, userId, flow.StepInitial, nil, "", CodeStepUpdateFailed)
	} else {
		variant = s.assigner.GetOrAssignVariant(ctx, userId)
		answers = flow.Answers{Variant: variant}

		record = &entity.CancellationRecord{
			UserID:           userId,
			SubscriptionID:   subscription.ID,
			DownsellVariant:  variant,
			CancellationStep: flow.StepInitial,
			AcceptedDownsell: false,
		}
		if err := uow.CancellationRepository().Create(ctx, record); err != nil {
			s.audit.Failure(CodeInitializationFailed, userId, err, map[string]interface{}{"stage": "record_create"})
			return nil, NewFlowError(CodeInitializationFailed, "Unable to start the cancellation flow, please try again", err)
		}
	}
	answers.Variant = variant

	now := time.Now().UTC()
	session := &store.FlowSession{
		ID:             uuid.New(),
		UserID:         userId,
		SubscriptionID: subscription.ID,
		RecordID:       record.ID,
		Variant:        variant,
		CurrentStep:    flow.StepInitial,
		Answers:        answers,
		StartedAt:      now,
		LastUpdated:    now,
	}
	s.sessions.Save(session)

	s.audit.Event("CANCELLATION_FLOW_INITIALIZED", userId, map[string]interface{}{
		"record_id": record.ID.String(),
		"variant":   string(variant),
		"resumed":   resumed,
	})

	return &dto.InitializeCancellationResponse{
		RecordId:       record.ID,
		SubscriptionId: subscription.ID,
		Step:           string(flow.StepInitial),
		Variant:        string(variant),
		Resumed:        resumed,
		Answers:        answersPayload(answers),
		Downsell:       s.downsellFor(variant, flow.StepInitial),
		StartedAt:      now,
	}, nil
}

func (s *cancellationService) GetSession(ctx context.Context, userId uuid.UUID) (*dto.SessionResponse, error) {
	session, ok := s.sessions.Get(userId)
	if !ok {
		return nil, NewFlowError(CodeSessionNotFound, "No open cancellation session", nil)
	}

	return &dto.SessionResponse{
		RecordId:    session.RecordID,
		Step:        string(session.CurrentStep),
		Variant:     string(session.Variant),
		Progress:    progressPayload(session.CurrentStep, session.Answers),
		Answers:     answersPayload(session.Answers),
		StartedAt:   session.StartedAt,
		LastUpdated: session.LastUpdated,
	}, nil
}

func (s *cancellationService) GetVariantInfo(ctx context.Context, userId uuid.UUID) (*dto.VariantInfoResponse, error) {
	info := s.assigner.Info(ctx, userId)
	return &dto.VariantInfoResponse{
		UserId:             userId,
		Variant:            string(info.Variant),
		Source:             info.Source,
		ShowDownsellOffers: info.Variant == flow.VariantB,
	}, nil
}

func (s *cancellationService) SubmitJobResponse(ctx context.Context, userId uuid.UUID, req *dto.JobResponseRequest) (*dto.StepResponse, error) {
	return s.applyEvent(ctx, userId, "job_response", CodeStepUpdateFailed,
		flow.JobResponse{FoundJob: *req.JobFound})
}

func (s *cancellationService) SubmitSurvey(ctx context.Context, userId uuid.UUID, req *dto.SurveyRequest) (*dto.StepResponse, error) {
	if err := sanitize.SurveyAnswers(req.RolesApplied, req.CompaniesEmailed, req.CompaniesInterviewed); err != nil {
		s.audit.Failure("SURVEY_VALIDATION_REJECTED", userId, err, nil)
		return nil, NewFlowError(CodeValidationFailed, err.Error(), err)
	}
	return s.applyEvent(ctx, userId, "survey", CodeSurveyProcessingFailed, flow.SurveySubmitted{
		FoundWithMigrateMate: *req.FoundWithMigrateMate,
		RolesApplied:         req.RolesApplied,
		CompaniesEmailed:     req.CompaniesEmailed,
		CompaniesInterviewed: req.CompaniesInterviewed,
	})
}

func (s *cancellationService) SubmitFeedback(ctx context.Context, userId uuid.UUID, req *dto.FeedbackRequest) (*dto.StepResponse, error) {
	text, err := sanitize.Feedback(req.Feedback)
	if err != nil {
		s.audit.Failure("FEEDBACK_VALIDATION_REJECTED", userId, err, nil)
		return nil, NewFlowError(CodeValidationFailed, err.Error(), err)
	}
	return s.applyEvent(ctx, userId, "feedback", CodeFeedbackProcessingFailed,
		flow.FeedbackSubmitted{Text: text})
}

func (s *cancellationService) SubmitVisa(ctx context.Context, userId uuid.UUID, req *dto.VisaRequest) (*dto.StepResponse, error) {
	visaType, err := sanitize.VisaType(req.VisaType)
	if err != nil {
		s.audit.Failure("VISA_VALIDATION_REJECTED", userId, err, nil)
		return nil, NewFlowError(CodeValidationFailed, err.Error(), err)
	}
	return s.applyEvent(ctx, userId, "visa", CodeVisaOfferProcessingFailed, flow.VisaAnswer{
		HasLawyer: *req.HasLawyer,
		VisaType:  visaType,
	})
}

func (s *cancellationService) SubmitDownsellDecision(ctx context.Context, userId uuid.UUID, req *dto.DownsellDecisionRequest) (*dto.StepResponse, error) {
	return s.applyEvent(ctx, userId, "downsell", CodeStepUpdateFailed,
		flow.DownsellDecision{Accepted: *req.Accepted})
}

func (s *cancellationService) SubmitSurveyOffer(ctx context.Context, userId uuid.UUID, req *dto.SurveyOfferRequest) (*dto.StepResponse, error) {
	if !*req.AcceptedOffer {
		if err := sanitize.SurveyAnswers(req.RolesApplied, req.CompaniesEmailed, req.CompaniesInterviewed); err != nil {
			s.audit.Failure("SURVEY_VALIDATION_REJECTED", userId, err, nil)
			return nil, NewFlowError(CodeValidationFailed, err.Error(), err)
		}
	}
	return s.applyEvent(ctx, userId, "survey_offer", CodeSurveyProcessingFailed, flow.JobSearchSurveyCompleted{
		AcceptedOffer:        *req.AcceptedOffer,
		RolesApplied:         req.RolesApplied,
		CompaniesEmailed:     req.CompaniesEmailed,
		CompaniesInterviewed: req.CompaniesInterviewed,
	})
}

func (s *cancellationService) SubmitReason(ctx context.Context, userId uuid.UUID, req *dto.ReasonRequest) (*dto.StepResponse, error) {
	reason, details := req.Reason, req.Details
	if !*req.AcceptedOffer {
		var err error
		reason, details, err = sanitize.Reason(req.Reason, req.Details)
		if err != nil {
			s.audit.Failure("REASON_VALIDATION_REJECTED", userId, err, nil)
			return nil, NewFlowError(CodeValidationFailed, err.Error(), err)
		}
	}
	return s.applyEvent(ctx, userId, "reason", CodeReasonProcessingFailed, flow.ReasonSubmitted{
		AcceptedOffer: *req.AcceptedOffer,
		Reason:        reason,
		Details:       details,
	})
}

func (s *cancellationService) Finish(ctx context.Context, userId uuid.UUID) (*dto.StepResponse, error) {
	return s.applyEvent(ctx, userId, "finish", CodeStepUpdateFailed, flow.Finish{})
}

func (s *cancellationService) Back(ctx context.Context, userId uuid.UUID) (*dto.StepResponse, error) {
	return s.applyEvent(ctx, userId, "back", CodeStepUpdateFailed, flow.Back{})
}

// Abandon handles the wizard being closed mid-flow. The in-memory session is
// discarded; the stored record keeps its last persisted step with no outcome.
// Closing from the continued confirmation screen finalizes the accepted
// downsell, since the user already took the offer.
func (s *cancellationService) Abandon(ctx context.Context, userId uuid.UUID) error {
	session, ok := s.sessions.Get(userId)
	if !ok {
		return nil
	}

	if session.CurrentStep == flow.StepSubscriptionContinued && session.Answers.AcceptedDownsell {
		s.finalize(ctx, session, session.CurrentStep, flow.Effects{
			Persist:                   map[string]interface{}{"final_outcome": string(flow.OutcomeDownsellAccepted)},
			Terminal:                  true,
			Outcome:                   flow.OutcomeDownsellAccepted,
			SubscriptionStatus:        flow.SubscriptionActive,
			SubscriptionRemainsActive: true,
		})
		return nil
	}

	s.sessions.Delete(userId)
	s.audit.Event("CANCELLATION_FLOW_ABANDONED", userId, map[string]interface{}{
		"record_id": session.RecordID.String(),
		"step":      string(session.CurrentStep),
	})
	return nil
}

// applyEvent is the shared submit path: rate limit, transition, session
// update, then effects. Persistence is fire and forget for non-terminal
// transitions; terminal transitions finalize synchronously but still surface
// the end screen if the store write fails.
func (s *cancellationService) applyEvent(ctx context.Context, userId uuid.UUID, action, failureCode string, ev flow.Event) (*dto.StepResponse, error) {
	if !s.limiter.Allow(userId.String(), action) {
		s.audit.Failure("RATE_LIMIT_EXCEEDED", userId, nil, map[string]interface{}{"action": action})
		return nil, NewFlowError(CodeRateLimited, "Too many attempts, please wait a moment", nil)
	}

	session, ok := s.sessions.Get(userId)
	if !ok {
		return nil, NewFlowError(CodeSessionNotFound, "No open cancellation session", nil)
	}

	result, err := flow.Transition(session.CurrentStep, session.Answers, ev)
	if err != nil {
		s.audit.Failure("INVALID_FLOW_TRANSITION", userId, err, map[string]interface{}{
			"step":  string(session.CurrentStep),
			"event": ev.Name(),
		})
		return nil, NewFlowError(CodeInvalidTransition, "That action is not available on the current step", err)
	}

	session.CurrentStep = result.Next
	session.Answers = result.Answers
	session.Touch()
	s.sessions.Save(session)

	if result.Effects.Terminal {
		s.finalize(ctx, session, result.Next, result.Effects)
	} else if len(result.Effects.Persist) > 0 || result.Effects.SubscriptionStatus != "" {
		s.enqueuePersist(ctx, session.RecordID, userId, result.Next, result.Effects.Persist, result.Effects.SubscriptionStatus, failureCode)
	}

	return s.stepResponse(session, result), nil
}

// finalize carries out a terminal transition: write-once outcome and answers,
// subscription status move, completion callback, outcome event. A store
// failure is logged as FINALIZATION_FAILED but never hides the end screen.
func (s *cancellationService) finalize(ctx context.Context, session *store.FlowSession, step flow.Step, effects flow.Effects) {
	fields := make(map[string]interface{}, len(effects.Persist)+1)
	for k, v := range effects.Persist {
		fields[k] = v
	}
	fields["cancellation_step"] = string(step)

	uow := s.uowFactory.NewUnitOfWork(ctx)
	err := uow.Begin(ctx)
	if err == nil {
		if err = uow.CancellationRepository().UpdateFields(ctx, session.RecordID, session.UserID, fields); err == nil && effects.SubscriptionStatus != "" {
			err = uow.SubscriptionRepository().UpdateStatus(ctx, session.UserID, effects.SubscriptionStatus)
		}
		if err != nil {
			_ = uow.Rollback()
		} else {
			err = uow.Commit()
		}
	}
	if err != nil {
		s.audit.Failure(CodeFinalizationFailed, session.UserID, err, map[string]interface{}{
			"record_id": session.RecordID.String(),
			"step":      string(step),
			"outcome":   string(effects.Outcome),
		})
	} else {
		s.audit.Event("CANCELLATION_FLOW_FINALIZED", session.UserID, map[string]interface{}{
			"record_id": session.RecordID.String(),
			"outcome":   string(effects.Outcome),
		})
	}

	if s.onComplete != nil {
		s.onComplete(session.UserID, effects.SubscriptionRemainsActive)
	}

	s.publishOutcome(ctx, session, effects)

	// The session is done either way; a later open resumes from storage.
	s.sessions.Delete(session.UserID)
}

func (s *cancellationService) publishOutcome(ctx context.Context, session *store.FlowSession, effects flow.Effects) {
	if s.eventPublisher == nil {
		return
	}

	var eventType string
	switch effects.Outcome {
	case flow.OutcomeDownsellAccepted:
		eventType = events.TypeDownsellAccepted
	case flow.OutcomeContinued:
		eventType = events.TypeSubscriptionContinued
	default:
		eventType = events.TypeCancellationFinalized
	}

	evt := events.NewOutcomeEvent(eventType, map[string]interface{}{
		"user_id":         session.UserID.String(),
		"record_id":       session.RecordID.String(),
		"subscription_id": session.SubscriptionID.String(),
		"variant":         string(session.Variant),
		"outcome":         string(effects.Outcome),
	})
	if err := s.eventPublisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("CANCELLATION", "failed to publish outcome event", map[string]interface{}{
			"user_id": session.UserID.String(),
			"error":   err.Error(),
		})
	}
}

func (s *cancellationService) enqueuePersist(ctx context.Context, recordId, userId uuid.UUID, step flow.Step, fields map[string]interface{}, status flow.SubscriptionStatus, failureCode string) {
	payload, err := json.Marshal(dto.PersistStepMessage{
		RecordId:           recordId,
		UserId:             userId,
		Step:               string(step),
		Fields:             fields,
		SubscriptionStatus: string(status),
		FailureCode:        failureCode,
	})
	if err != nil {
		s.logger.Error("CANCELLATION", "failed to marshal persistence message", map[string]interface{}{
			"user_id": userId.String(),
			"error":   err.Error(),
		})
		return
	}

	if err := s.publisherService.Publish(ctx, payload); err != nil {
		s.audit.Failure(failureCode, userId, err, map[string]interface{}{
			"record_id": recordId.String(),
			"step":      string(step),
		})
	}
}

func (s *cancellationService) stepResponse(session *store.FlowSession, result flow.Result) *dto.StepResponse {
	res := &dto.StepResponse{
		Step:     string(result.Next),
		Variant:  string(session.Variant),
		Progress: progressPayload(result.Next, result.Answers),
		Terminal: result.Effects.Terminal,
		Downsell: s.downsellFor(session.Variant, result.Next),
	}
	if result.Effects.Terminal {
		res.Outcome = string(result.Effects.Outcome)
		res.SubscriptionStatus = string(result.Effects.SubscriptionStatus)
		remains := result.Effects.SubscriptionRemainsActive
		res.SubscriptionRemainsActive = &remains
	}
	return res
}

// downsellFor returns the offer pricing for screens that render it.
func (s *cancellationService) downsellFor(variant flow.Variant, step flow.Step) *dto.DownsellOffer {
	switch step {
	case flow.StepJobSearchDownsell, flow.StepJobSearchSurvey, flow.StepCancellationReason:
		if variant != flow.VariantB {
			return nil
		}
		return &dto.DownsellOffer{
			DiscountPercent: s.flowCfg.DownsellDiscountPercent,
			MonthlyPrice:    s.flowCfg.MonthlyPrice,
			OfferPrice:      s.flowCfg.DownsellPrice,
		}
	default:
		return nil
	}
}

func progressPayload(step flow.Step, ans flow.Answers) dto.ProgressInfo {
	p := flow.StepProgress(step, ans)
	return dto.ProgressInfo{Ordinal: p.Ordinal, Total: p.Total, Shown: p.Shown}
}

func answersPayload(ans flow.Answers) dto.AnswersPayload {
	return dto.AnswersPayload{
		JobFound:             ans.JobFound,
		FoundWithMigrateMate: ans.FoundWithMigrateMate,
		FeedbackText:         ans.FeedbackText,
		HasLawyer:            ans.HasLawyer,
		VisaType:             ans.VisaType,
		AcceptedDownsell:     ans.AcceptedDownsell,
		Reason:               ans.Reason,
		RolesApplied:         ans.RolesApplied,
		CompaniesEmailed:     ans.CompaniesEmailed,
		CompaniesInterviewed: ans.CompaniesInterviewed,
	}
}
