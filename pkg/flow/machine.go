package flow

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when an event does not apply to the
// current step (e.g. a survey submit while the wizard shows the visa offer).
var ErrInvalidTransition = errors.New("invalid flow transition")

// Effects describes the side effects the caller must carry out after a
// transition. The machine itself never touches storage.
type Effects struct {
	// Persist holds the cancellation-record columns to write for this
	// transition. The current step column is stamped by the caller.
	Persist map[string]interface{}

	// Terminal marks that the flow reached a final screen.
	Terminal bool

	// Outcome is set only on terminal transitions.
	Outcome Outcome

	// SubscriptionStatus, when non-empty, is the status the subscription
	// must be moved to as part of this transition.
	SubscriptionStatus SubscriptionStatus

	// SubscriptionRemainsActive is the completion-callback argument and is
	// meaningful only when Terminal is true.
	SubscriptionRemainsActive bool
}

// Result is the full output of a transition: where the flow goes, the answer
// set after applying the event, and the side effects to carry out.
type Result struct {
	Next    Step
	Answers Answers
	Effects Effects
}

// Transition is the pure step-transition function: given the open step, the
// answers accumulated so far and the event the user produced, it returns the
// next step and the side effects. It never mutates its inputs.
func Transition(current Step, ans Answers, ev Event) (Result, error) {
	if _, ok := ev.(Back); ok {
		return transitionBack(current, ans)
	}

	switch current {
	case StepInitial:
		e, ok := ev.(JobResponse)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		ans.JobFound = boolPtr(e.FoundJob)
		next := StepSurvey
		if !e.FoundJob {
			if ans.Variant == VariantB {
				next = StepJobSearchDownsell
			} else {
				next = StepJobSearchSurvey
			}
		}
		return Result{
			Next:    next,
			Answers: ans,
			Effects: Effects{Persist: map[string]interface{}{"job_found": e.FoundJob}},
		}, nil

	case StepSurvey:
		e, ok := ev.(SurveySubmitted)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		ans.FoundWithMigrateMate = boolPtr(e.FoundWithMigrateMate)
		ans.RolesApplied = e.RolesApplied
		ans.CompaniesEmailed = e.CompaniesEmailed
		ans.CompaniesInterviewed = e.CompaniesInterviewed
		return Result{
			Next:    StepFeedback,
			Answers: ans,
			Effects: Effects{Persist: map[string]interface{}{
				"found_with_migrate_mate": e.FoundWithMigrateMate,
				"roles_applied":           e.RolesApplied,
				"companies_emailed":       e.CompaniesEmailed,
				"companies_interviewed":   e.CompaniesInterviewed,
			}},
		}, nil

	case StepFeedback:
		e, ok := ev.(FeedbackSubmitted)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		if ans.FoundWithMigrateMate == nil {
			return Result{}, fmt.Errorf("%w: feedback submitted before survey", ErrInvalidTransition)
		}
		ans.FeedbackText = e.Text
		next := StepDownsellOffer
		if *ans.FoundWithMigrateMate {
			next = StepVisaOffer
		}
		return Result{
			Next:    next,
			Answers: ans,
			Effects: Effects{Persist: map[string]interface{}{"feedback_text": e.Text}},
		}, nil

	case StepVisaOffer, StepDownsellOffer:
		e, ok := ev.(VisaAnswer)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		ans.HasLawyer = boolPtr(e.HasLawyer)
		ans.VisaType = e.VisaType
		persist := map[string]interface{}{
			"has_lawyer": e.HasLawyer,
			"visa_type":  e.VisaType,
		}
		if e.HasLawyer {
			return Result{
				Next:    StepYesLawyerCompletion,
				Answers: ans,
				Effects: terminalEffects(persist, OutcomeContinued),
			}, nil
		}
		return Result{
			Next:    StepCompletion,
			Answers: ans,
			Effects: terminalEffects(persist, OutcomeCancelled),
		}, nil

	case StepJobSearchDownsell:
		e, ok := ev.(DownsellDecision)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		if e.Accepted {
			ans.AcceptedDownsell = true
			return Result{
				Next:    StepSubscriptionContinued,
				Answers: ans,
				Effects: Effects{
					Persist:            map[string]interface{}{"accepted_downsell": true},
					SubscriptionStatus: SubscriptionActive,
				},
			}, nil
		}
		return Result{
			Next:    StepJobSearchSurvey,
			Answers: ans,
			Effects: Effects{Persist: map[string]interface{}{"accepted_downsell": false}},
		}, nil

	case StepSubscriptionContinued:
		if _, ok := ev.(Finish); !ok {
			return Result{}, invalid(current, ev)
		}
		return Result{Next: StepJobSearchSurvey, Answers: ans}, nil

	case StepJobSearchSurvey:
		e, ok := ev.(JobSearchSurveyCompleted)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		if e.AcceptedOffer {
			ans.AcceptedDownsell = true
			return Result{
				Next:    StepSubscriptionContinued,
				Answers: ans,
				Effects: Effects{
					Persist:            map[string]interface{}{"accepted_downsell": true},
					SubscriptionStatus: SubscriptionActive,
				},
			}, nil
		}
		ans.RolesApplied = e.RolesApplied
		ans.CompaniesEmailed = e.CompaniesEmailed
		ans.CompaniesInterviewed = e.CompaniesInterviewed
		return Result{
			Next:    StepCancellationReason,
			Answers: ans,
			Effects: Effects{Persist: map[string]interface{}{
				"roles_applied":         e.RolesApplied,
				"companies_emailed":     e.CompaniesEmailed,
				"companies_interviewed": e.CompaniesInterviewed,
			}},
		}, nil

	case StepCancellationReason:
		e, ok := ev.(ReasonSubmitted)
		if !ok {
			return Result{}, invalid(current, ev)
		}
		if e.AcceptedOffer {
			ans.AcceptedDownsell = true
			return Result{
				Next:    StepSubscriptionContinued,
				Answers: ans,
				Effects: Effects{
					Persist:            map[string]interface{}{"accepted_downsell": true},
					SubscriptionStatus: SubscriptionActive,
				},
			}, nil
		}
		ans.Reason = e.Reason
		ans.ReasonDetails = e.Details
		return Result{
			Next:    StepFinalCancellation,
			Answers: ans,
			Effects: terminalEffects(map[string]interface{}{
				"reason":            combineReason(e.Reason, e.Details),
				"accepted_downsell": false,
			}, OutcomeCancelled),
		}, nil
	}

	if current.IsTerminal() {
		return Result{}, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, current)
	}
	return Result{}, invalid(current, ev)
}

// transitionBack resolves back navigation along the path actually taken.
func transitionBack(current Step, ans Answers) (Result, error) {
	var prev Step
	switch current {
	case StepSurvey, StepJobSearchDownsell:
		prev = StepInitial
	case StepFeedback:
		prev = StepSurvey
	case StepVisaOffer, StepDownsellOffer:
		prev = StepFeedback
	case StepJobSearchSurvey:
		if ans.Variant == VariantB {
			prev = StepJobSearchDownsell
		} else {
			prev = StepInitial
		}
	case StepCancellationReason:
		prev = StepJobSearchSurvey
	default:
		return Result{}, fmt.Errorf("%w: no back navigation from %s", ErrInvalidTransition, current)
	}
	return Result{Next: prev, Answers: ans}, nil
}

// terminalEffects builds the effect set for the three final screens. The
// subscription-status mapping is: cancelled stops the subscription, continued
// keeps it active and is reported back to the caller as such.
func terminalEffects(persist map[string]interface{}, outcome Outcome) Effects {
	persist["final_outcome"] = string(outcome)
	status := SubscriptionCancelled
	remains := false
	if outcome == OutcomeContinued || outcome == OutcomeDownsellAccepted {
		status = SubscriptionActive
		remains = true
	}
	return Effects{
		Persist:                   persist,
		Terminal:                  true,
		Outcome:                   outcome,
		SubscriptionStatus:        status,
		SubscriptionRemainsActive: remains,
	}
}

// combineReason folds the optional detail text into the stored reason column.
func combineReason(reason, details string) string {
	if details == "" {
		return reason
	}
	return reason + ": " + details
}

func invalid(current Step, ev Event) error {
	return fmt.Errorf("%w: event %s not allowed on step %s", ErrInvalidTransition, ev.Name(), current)
}
