package service

import "fmt"

// Error codes surfaced to the client. Codes for logged-only failures
// (STEP_UPDATE_FAILED, FINALIZATION_FAILED and friends) live with the audit
// calls that emit them.
const (
	CodeInitializationFailed = "INITIALIZATION_FAILED"
	CodeValidationFailed     = "VALIDATION_FAILED"
	CodeInvalidTransition    = "INVALID_TRANSITION"
	CodeSessionNotFound      = "SESSION_NOT_FOUND"
	CodeRateLimited          = "RATE_LIMITED"
)

// Audit-only failure codes for the async persistence path.
const (
	CodeStepUpdateFailed          = "STEP_UPDATE_FAILED"
	CodeSurveyProcessingFailed    = "SURVEY_PROCESSING_FAILED"
	CodeFeedbackProcessingFailed  = "FEEDBACK_PROCESSING_FAILED"
	CodeVisaOfferProcessingFailed = "VISA_OFFER_PROCESSING_FAILED"
	CodeReasonProcessingFailed    = "REASON_PROCESSING_FAILED"
	CodeFinalizationFailed        = "FINALIZATION_FAILED"
)

// FlowError couples a machine-readable code with a human message so the
// client can branch on the code (retry banner, inline validation, resume).
type FlowError struct {
	Code    string
	Message string
	Err     error
}

func (e *FlowError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *FlowError) Unwrap() error {
	return e.Err
}

func NewFlowError(code, message string, err error) *FlowError {
	return &FlowError{Code: code, Message: message, Err: err}
}
