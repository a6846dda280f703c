package flow

import (
	"errors"
	"testing"
)

func TestTransitionTable(t *testing.T) {
	yes, no := true, false

	tests := []struct {
		name     string
		current  Step
		answers  Answers
		event    Event
		wantNext Step
	}{
		{
			name:     "initial job found goes to survey",
			current:  StepInitial,
			answers:  Answers{Variant: VariantA},
			event:    JobResponse{FoundJob: true},
			wantNext: StepSurvey,
		},
		{
			name:     "initial not found variant B goes to downsell",
			current:  StepInitial,
			answers:  Answers{Variant: VariantB},
			event:    JobResponse{FoundJob: false},
			wantNext: StepJobSearchDownsell,
		},
		{
			name:     "initial not found variant A skips downsell",
			current:  StepInitial,
			answers:  Answers{Variant: VariantA},
			event:    JobResponse{FoundJob: false},
			wantNext: StepJobSearchSurvey,
		},
		{
			name:     "survey submit goes to feedback",
			current:  StepSurvey,
			answers:  Answers{Variant: VariantA, JobFound: &yes},
			event:    SurveySubmitted{FoundWithMigrateMate: true, RolesApplied: "1 - 5", CompaniesEmailed: "1-5", CompaniesInterviewed: "1-2"},
			wantNext: StepFeedback,
		},
		{
			name:     "feedback with migrate mate goes to visa offer",
			current:  StepFeedback,
			answers:  Answers{Variant: VariantA, JobFound: &yes, FoundWithMigrateMate: &yes},
			event:    FeedbackSubmitted{Text: "found my role through the platform, thanks a lot"},
			wantNext: StepVisaOffer,
		},
		{
			name:     "feedback without migrate mate goes to downsell offer",
			current:  StepFeedback,
			answers:  Answers{Variant: VariantA, JobFound: &yes, FoundWithMigrateMate: &no},
			event:    FeedbackSubmitted{Text: "found the job elsewhere but learned a lot here"},
			wantNext: StepDownsellOffer,
		},
		{
			name:     "visa offer with lawyer completes",
			current:  StepVisaOffer,
			answers:  Answers{Variant: VariantA, JobFound: &yes, FoundWithMigrateMate: &yes},
			event:    VisaAnswer{HasLawyer: true, VisaType: "O-1"},
			wantNext: StepYesLawyerCompletion,
		},
		{
			name:     "visa offer without lawyer completes",
			current:  StepVisaOffer,
			answers:  Answers{Variant: VariantA, JobFound: &yes, FoundWithMigrateMate: &yes},
			event:    VisaAnswer{HasLawyer: false, VisaType: "H-1B"},
			wantNext: StepCompletion,
		},
		{
			name:     "downsell offer with lawyer completes",
			current:  StepDownsellOffer,
			answers:  Answers{Variant: VariantA, JobFound: &yes, FoundWithMigrateMate: &no},
			event:    VisaAnswer{HasLawyer: true, VisaType: "TN"},
			wantNext: StepYesLawyerCompletion,
		},
		{
			name:     "accepting job search downsell continues subscription",
			current:  StepJobSearchDownsell,
			answers:  Answers{Variant: VariantB, JobFound: &no},
			event:    DownsellDecision{Accepted: true},
			wantNext: StepSubscriptionContinued,
		},
		{
			name:     "declining job search downsell goes to survey",
			current:  StepJobSearchDownsell,
			answers:  Answers{Variant: VariantB, JobFound: &no},
			event:    DownsellDecision{Accepted: false},
			wantNext: StepJobSearchSurvey,
		},
		{
			name:     "subscription continued finish returns to survey",
			current:  StepSubscriptionContinued,
			answers:  Answers{Variant: VariantB, JobFound: &no, AcceptedDownsell: true},
			event:    Finish{},
			wantNext: StepJobSearchSurvey,
		},
		{
			name:     "accepting offer on job search survey continues subscription",
			current:  StepJobSearchSurvey,
			answers:  Answers{Variant: VariantB, JobFound: &no},
			event:    JobSearchSurveyCompleted{AcceptedOffer: true},
			wantNext: StepSubscriptionContinued,
		},
		{
			name:     "completing job search survey goes to reason",
			current:  StepJobSearchSurvey,
			answers:  Answers{Variant: VariantA, JobFound: &no},
			event:    JobSearchSurveyCompleted{RolesApplied: "6 - 20", CompaniesEmailed: "6-20", CompaniesInterviewed: "3-5"},
			wantNext: StepCancellationReason,
		},
		{
			name:     "accepting offer on reason step continues subscription",
			current:  StepCancellationReason,
			answers:  Answers{Variant: VariantB, JobFound: &no},
			event:    ReasonSubmitted{AcceptedOffer: true},
			wantNext: StepSubscriptionContinued,
		},
		{
			name:     "submitting reason reaches final cancellation",
			current:  StepCancellationReason,
			answers:  Answers{Variant: VariantB, JobFound: &no},
			event:    ReasonSubmitted{Reason: "Too expensive", Details: "the monthly price no longer fits my budget"},
			wantNext: StepFinalCancellation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Transition(tt.current, tt.answers, tt.event)
			if err != nil {
				t.Fatalf("Transition() error = %v", err)
			}
			if res.Next != tt.wantNext {
				t.Errorf("Next = %s, want %s", res.Next, tt.wantNext)
			}
		})
	}
}

func TestTransitionTerminalEffects(t *testing.T) {
	yes := true

	t.Run("final cancellation cancels the subscription", func(t *testing.T) {
		res, err := Transition(StepCancellationReason, Answers{Variant: VariantB}, ReasonSubmitted{
			Reason:  "Other",
			Details: "relocating back home, so the platform is no longer useful",
		})
		if err != nil {
			t.Fatal(err)
		}
		if !res.Effects.Terminal {
			t.Fatal("expected terminal effects")
		}
		if res.Effects.Outcome != OutcomeCancelled {
			t.Errorf("Outcome = %s, want %s", res.Effects.Outcome, OutcomeCancelled)
		}
		if res.Effects.SubscriptionStatus != SubscriptionCancelled {
			t.Errorf("SubscriptionStatus = %s, want %s", res.Effects.SubscriptionStatus, SubscriptionCancelled)
		}
		if res.Effects.SubscriptionRemainsActive {
			t.Error("subscription should not remain active after cancellation")
		}
		if got := res.Effects.Persist["reason"]; got != "Other: relocating back home, so the platform is no longer useful" {
			t.Errorf("persisted reason = %v", got)
		}
	})

	t.Run("lawyer completion keeps the subscription active", func(t *testing.T) {
		res, err := Transition(StepVisaOffer, Answers{Variant: VariantA, FoundWithMigrateMate: &yes}, VisaAnswer{HasLawyer: true, VisaType: "O-1"})
		if err != nil {
			t.Fatal(err)
		}
		if res.Effects.Outcome != OutcomeContinued {
			t.Errorf("Outcome = %s, want %s", res.Effects.Outcome, OutcomeContinued)
		}
		if res.Effects.SubscriptionStatus != SubscriptionActive {
			t.Errorf("SubscriptionStatus = %s, want %s", res.Effects.SubscriptionStatus, SubscriptionActive)
		}
		if !res.Effects.SubscriptionRemainsActive {
			t.Error("callback argument should report the subscription as active")
		}
	})

	t.Run("accepting a downsell marks the subscription active without terminating", func(t *testing.T) {
		res, err := Transition(StepJobSearchDownsell, Answers{Variant: VariantB}, DownsellDecision{Accepted: true})
		if err != nil {
			t.Fatal(err)
		}
		if res.Effects.Terminal {
			t.Error("subscription-continued is not a terminal step")
		}
		if res.Effects.SubscriptionStatus != SubscriptionActive {
			t.Errorf("SubscriptionStatus = %s, want %s", res.Effects.SubscriptionStatus, SubscriptionActive)
		}
		if !res.Answers.AcceptedDownsell {
			t.Error("answers should record the accepted downsell")
		}
	})
}

func TestTransitionBack(t *testing.T) {
	tests := []struct {
		name     string
		current  Step
		answers  Answers
		wantPrev Step
	}{
		{"survey back to initial", StepSurvey, Answers{Variant: VariantA}, StepInitial},
		{"feedback back to survey", StepFeedback, Answers{Variant: VariantA}, StepSurvey},
		{"visa offer back to feedback", StepVisaOffer, Answers{Variant: VariantA}, StepFeedback},
		{"downsell offer back to feedback", StepDownsellOffer, Answers{Variant: VariantA}, StepFeedback},
		{"job search downsell back to initial", StepJobSearchDownsell, Answers{Variant: VariantB}, StepInitial},
		{"job search survey back to downsell for variant B", StepJobSearchSurvey, Answers{Variant: VariantB}, StepJobSearchDownsell},
		{"job search survey back to initial for variant A", StepJobSearchSurvey, Answers{Variant: VariantA}, StepInitial},
		{"reason back to job search survey", StepCancellationReason, Answers{Variant: VariantB}, StepJobSearchSurvey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := Transition(tt.current, tt.answers, Back{})
			if err != nil {
				t.Fatalf("Transition(Back) error = %v", err)
			}
			if res.Next != tt.wantPrev {
				t.Errorf("Next = %s, want %s", res.Next, tt.wantPrev)
			}
		})
	}

	t.Run("no back from terminal steps", func(t *testing.T) {
		for _, s := range []Step{StepCompletion, StepYesLawyerCompletion, StepFinalCancellation, StepInitial, StepSubscriptionContinued} {
			if _, err := Transition(s, Answers{}, (Back{})); !errors.Is(err, ErrInvalidTransition) {
				t.Errorf("Transition(%s, Back) error = %v, want ErrInvalidTransition", s, err)
			}
		}
	})
}

func TestTransitionRejectsMismatchedEvents(t *testing.T) {
	if _, err := Transition(StepInitial, Answers{}, FeedbackSubmitted{Text: "nope"}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
	if _, err := Transition(StepFinalCancellation, Answers{}, Finish{}); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("error = %v, want ErrInvalidTransition", err)
	}
}
