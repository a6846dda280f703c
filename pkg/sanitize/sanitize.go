// Package sanitize is the input boundary for all free-text answers collected
// by the cancellation flow. Everything here is pure: encode, validate, and
// either return the cleaned value or an error. Rejected input must never be
// truncated and passed on.
package sanitize

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"
)

const (
	// DefaultMaxLength caps any free-text field without a tighter limit.
	DefaultMaxLength = 1000

	// FeedbackMinLength and FeedbackMaxLength bound the feedback step text.
	FeedbackMinLength = 25
	FeedbackMaxLength = 2000

	// ReasonDetailsMinLength and ReasonDetailsMaxLength bound the optional
	// detail text on the cancellation-reason step.
	ReasonDetailsMinLength = 25
	ReasonDetailsMaxLength = 500

	// VisaTypeMinLength and VisaTypeMaxLength bound the visa-type answer.
	VisaTypeMinLength = 2
	VisaTypeMaxLength = 100
)

var (
	ErrTooLong  = errors.New("input exceeds maximum length")
	ErrTooShort = errors.New("input is below minimum length")
	ErrInvalid  = errors.New("input is not an allowed value")
)

// htmlEscaper encodes the characters the original validator rejects. Forward
// slash is included to defuse closing tags inside attributes.
var htmlEscaper = strings.NewReplacer(
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
	"/", "&#x2F;",
)

// String HTML-entity-encodes special characters, trims surrounding
// whitespace, and enforces the length cap. Lengths are counted in characters,
// not bytes, so multibyte text is measured the way the user typed it.
// Overlong input is an error, not a silent truncation.
func String(input string, maxLength int) (string, error) {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	cleaned := strings.TrimSpace(htmlEscaper.Replace(input))
	if n := utf8.RuneCountInString(cleaned); n > maxLength {
		return "", fmt.Errorf("%w (%d > %d)", ErrTooLong, n, maxLength)
	}
	return cleaned, nil
}

// Feedback validates the feedback-step text: sanitized, at least 25 and at
// most 2000 characters.
func Feedback(text string) (string, error) {
	cleaned, err := String(text, FeedbackMaxLength)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(cleaned) < FeedbackMinLength {
		return "", fmt.Errorf("%w: feedback needs at least %d characters", ErrTooShort, FeedbackMinLength)
	}
	return cleaned, nil
}

// CancellationReasons is the allow-list shown on the reason step.
var CancellationReasons = []string{
	"Too expensive",
	"Platform not helpful",
	"Not enough relevant jobs",
	"Decided not to move",
	"Other",
}

// Reason validates the selected reason against the allow-list and, when detail
// text is present, sanitizes it and enforces the 25-character minimum.
func Reason(reason, details string) (string, string, error) {
	allowed := false
	for _, r := range CancellationReasons {
		if reason == r {
			allowed = true
			break
		}
	}
	if !allowed {
		return "", "", fmt.Errorf("%w: unknown cancellation reason %q", ErrInvalid, reason)
	}
	if details == "" {
		return reason, "", nil
	}
	cleaned, err := String(details, ReasonDetailsMaxLength)
	if err != nil {
		return "", "", err
	}
	if utf8.RuneCountInString(cleaned) < ReasonDetailsMinLength {
		return "", "", fmt.Errorf("%w: reason details need at least %d characters", ErrTooShort, ReasonDetailsMinLength)
	}
	return reason, cleaned, nil
}

// VisaType validates the free-text visa type (e.g. "O-1", "H-1B").
func VisaType(visaType string) (string, error) {
	cleaned, err := String(visaType, VisaTypeMaxLength)
	if err != nil {
		return "", err
	}
	if utf8.RuneCountInString(cleaned) < VisaTypeMinLength {
		return "", fmt.Errorf("%w: visa type needs at least %d characters", ErrTooShort, VisaTypeMinLength)
	}
	return cleaned, nil
}

// Survey option allow-lists, exactly as the wizard renders them.
var (
	RolesAppliedOptions         = []string{"0", "1 - 5", "6 - 20", "20+"}
	CompaniesEmailedOptions     = []string{"0", "1-5", "6-20", "20+"}
	CompaniesInterviewedOptions = []string{"0", "1-2", "3-5", "5+"}
)

// SurveyAnswers validates the three job-search survey answers against their
// option lists. All three are required.
func SurveyAnswers(rolesApplied, companiesEmailed, companiesInterviewed string) error {
	if !oneOf(rolesApplied, RolesAppliedOptions) {
		return fmt.Errorf("%w: roles applied %q", ErrInvalid, rolesApplied)
	}
	if !oneOf(companiesEmailed, CompaniesEmailedOptions) {
		return fmt.Errorf("%w: companies emailed %q", ErrInvalid, companiesEmailed)
	}
	if !oneOf(companiesInterviewed, CompaniesInterviewedOptions) {
		return fmt.Errorf("%w: companies interviewed %q", ErrInvalid, companiesInterviewed)
	}
	return nil
}

func oneOf(value string, options []string) bool {
	for _, o := range options {
		if value == o {
			return true
		}
	}
	return false
}
