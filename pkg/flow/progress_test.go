package flow

import "testing"

func TestStepProgress(t *testing.T) {
	tests := []struct {
		name        string
		step        Step
		answers     Answers
		wantOrdinal int
		wantTotal   int
		wantShown   bool
	}{
		{"initial has no indicator", StepInitial, Answers{Variant: VariantA}, 0, 0, false},
		{"subscription continued has no indicator", StepSubscriptionContinued, Answers{Variant: VariantB}, 0, 0, false},
		{"survey is first of three", StepSurvey, Answers{Variant: VariantA}, 1, 3, true},
		{"feedback is second of three", StepFeedback, Answers{Variant: VariantA}, 2, 3, true},
		{"visa offer is last of three", StepVisaOffer, Answers{Variant: VariantA}, 3, 3, true},
		{"downsell variant B is first of three", StepJobSearchDownsell, Answers{Variant: VariantB}, 1, 3, true},
		{"job search survey variant B is second of three", StepJobSearchSurvey, Answers{Variant: VariantB}, 2, 3, true},
		{"job search survey variant A is first of two", StepJobSearchSurvey, Answers{Variant: VariantA}, 1, 2, true},
		{"reason variant B is third of three", StepCancellationReason, Answers{Variant: VariantB}, 3, 3, true},
		{"reason variant A is second of two", StepCancellationReason, Answers{Variant: VariantA}, 2, 2, true},
		{"final cancellation keeps branch total", StepFinalCancellation, Answers{Variant: VariantA}, 2, 2, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := StepProgress(tt.step, tt.answers)
			if p.Shown != tt.wantShown {
				t.Fatalf("Shown = %v, want %v", p.Shown, tt.wantShown)
			}
			if p.Ordinal != tt.wantOrdinal || p.Total != tt.wantTotal {
				t.Errorf("progress = %d/%d, want %d/%d", p.Ordinal, p.Total, tt.wantOrdinal, tt.wantTotal)
			}
		})
	}
}
