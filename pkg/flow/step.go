package flow

// Step identifies a single wizard screen in the cancellation flow.
type Step string

const (
	StepInitial               Step = "initial"
	StepSurvey                Step = "survey"
	StepFeedback              Step = "feedback"
	StepVisaOffer             Step = "visa-offer"
	StepDownsellOffer         Step = "downsell-offer"
	StepJobSearchDownsell     Step = "job-search-downsell"
	StepJobSearchSurvey       Step = "job-search-survey"
	StepCancellationReason    Step = "cancellation-reason"
	StepSubscriptionContinued Step = "subscription-continued"
	StepCompletion            Step = "completion"
	StepYesLawyerCompletion   Step = "yes-lawyer-completion"
	StepFinalCancellation     Step = "final-cancellation"
)

// Steps lists every step in the flow.
var Steps = []Step{
	StepInitial,
	StepSurvey,
	StepFeedback,
	StepVisaOffer,
	StepDownsellOffer,
	StepJobSearchDownsell,
	StepJobSearchSurvey,
	StepCancellationReason,
	StepSubscriptionContinued,
	StepCompletion,
	StepYesLawyerCompletion,
	StepFinalCancellation,
}

// IsTerminal reports whether the only exit from the step is closing the wizard.
func (s Step) IsTerminal() bool {
	switch s {
	case StepCompletion, StepYesLawyerCompletion, StepFinalCancellation:
		return true
	}
	return false
}

// Valid reports whether s names a known step.
func (s Step) Valid() bool {
	for _, step := range Steps {
		if s == step {
			return true
		}
	}
	return false
}

// Variant is the A/B experiment bucket controlling whether the intermediate
// retention offer is shown on the "still looking" branch.
type Variant string

const (
	VariantA Variant = "A"
	VariantB Variant = "B"
)

// Valid reports whether v is one of the two known buckets.
func (v Variant) Valid() bool {
	return v == VariantA || v == VariantB
}

// Outcome tags how a traversal of the flow ended.
type Outcome string

const (
	OutcomeCancelled        Outcome = "cancelled"
	OutcomeContinued        Outcome = "continued"
	OutcomeDownsellAccepted Outcome = "downsell_accepted"
	OutcomeAbandoned        Outcome = "abandoned"
	OutcomeError            Outcome = "error"
)

// SubscriptionStatus mirrors the status column on the subscriptions table.
type SubscriptionStatus string

const (
	SubscriptionActive              SubscriptionStatus = "active"
	SubscriptionPendingCancellation SubscriptionStatus = "pending_cancellation"
	SubscriptionCancelled           SubscriptionStatus = "cancelled"
)

// Answers accumulates everything the user has told us so far in one traversal.
// Pointer fields distinguish "not answered yet" from an explicit false.
type Answers struct {
	Variant              Variant
	JobFound             *bool
	FoundWithMigrateMate *bool
	FeedbackText         string
	VisaType             string
	HasLawyer            *bool
	AcceptedDownsell     bool
	Reason               string
	ReasonDetails        string
	RolesApplied         string
	CompaniesEmailed     string
	CompaniesInterviewed string
}

func boolPtr(b bool) *bool { return &b }
