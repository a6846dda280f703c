package flow

// Progress is the branch-local "Step N of M" pair shown on a wizard screen.
// Shown is false for screens without a step indicator (the entry question and
// the subscription-continued confirmation).
type Progress struct {
	Ordinal int
	Total   int
	Shown   bool
}

// StepProgress derives the progress indicator for a step from the branch the
// user is actually on. Totals differ between the found-a-job branch and the
// still-looking branch, and within the latter between variants, so the pair
// is computed rather than counted off a global list.
func StepProgress(s Step, ans Answers) Progress {
	switch s {
	case StepInitial, StepSubscriptionContinued:
		return Progress{}

	case StepSurvey:
		return Progress{Ordinal: 1, Total: 3, Shown: true}
	case StepFeedback:
		return Progress{Ordinal: 2, Total: 3, Shown: true}
	case StepVisaOffer, StepDownsellOffer:
		return Progress{Ordinal: 3, Total: 3, Shown: true}
	case StepCompletion, StepYesLawyerCompletion:
		return Progress{Ordinal: 3, Total: 3, Shown: true}

	case StepJobSearchDownsell:
		return Progress{Ordinal: 1, Total: 3, Shown: true}
	case StepJobSearchSurvey:
		if ans.Variant == VariantB {
			return Progress{Ordinal: 2, Total: 3, Shown: true}
		}
		return Progress{Ordinal: 1, Total: 2, Shown: true}
	case StepCancellationReason:
		if ans.Variant == VariantB {
			return Progress{Ordinal: 3, Total: 3, Shown: true}
		}
		return Progress{Ordinal: 2, Total: 2, Shown: true}
	case StepFinalCancellation:
		if ans.Variant == VariantB {
			return Progress{Ordinal: 3, Total: 3, Shown: true}
		}
		return Progress{Ordinal: 2, Total: 2, Shown: true}
	}
	return Progress{}
}
