package dto

import (
	"time"

	"github.com/google/uuid"
)

// --- Flow lifecycle ---

// ProgressInfo is the branch-local step indicator. Ordinal/Total are only
// meaningful when Shown is true.
type ProgressInfo struct {
	Ordinal int  `json:"ordinal"`
	Total   int  `json:"total"`
	Shown   bool `json:"shown"`
}

// DownsellOffer is the pricing payload the client renders when the flow
// decided to show an offer
type DownsellOffer struct {
	DiscountPercent int     `json:"discount_percent"`
	MonthlyPrice    float64 `json:"monthly_price"`
	OfferPrice      float64 `json:"offer_price"`
}

// AnswersPayload carries the collected answers for resume/pre-fill.
type AnswersPayload struct {
	JobFound             *bool  `json:"job_found"`
	FoundWithMigrateMate *bool  `json:"found_with_migrate_mate"`
	FeedbackText         string `json:"feedback_text,omitempty"`
	HasLawyer            *bool  `json:"has_lawyer"`
	VisaType             string `json:"visa_type,omitempty"`
	AcceptedDownsell     bool   `json:"accepted_downsell"`
	Reason               string `json:"reason,omitempty"`
	RolesApplied         string `json:"roles_applied,omitempty"`
	CompaniesEmailed     string `json:"companies_emailed,omitempty"`
	CompaniesInterviewed string `json:"companies_interviewed,omitempty"`
}

// InitializeCancellationResponse after the wizard is opened
type InitializeCancellationResponse struct {
	RecordId       uuid.UUID      `json:"record_id"`
	SubscriptionId uuid.UUID      `json:"subscription_id"`
	Step           string         `json:"step"`
	Variant        string         `json:"variant"`
	Resumed        bool           `json:"resumed"`
	Answers        AnswersPayload `json:"answers"`
	Downsell       *DownsellOffer `json:"downsell,omitempty"`
	StartedAt      time.Time      `json:"started_at"`
}

// StepResponse after every submit/back: where the wizard is now
type StepResponse struct {
	Step                      string         `json:"step"`
	Variant                   string         `json:"variant"`
	Progress                  ProgressInfo   `json:"progress"`
	Terminal                  bool           `json:"terminal"`
	Outcome                   string         `json:"outcome,omitempty"`
	SubscriptionStatus        string         `json:"subscription_status,omitempty"`
	SubscriptionRemainsActive *bool          `json:"subscription_remains_active,omitempty"`
	Downsell                  *DownsellOffer `json:"downsell,omitempty"`
}

// SessionResponse for resume/pre-fill queries
type SessionResponse struct {
	RecordId    uuid.UUID      `json:"record_id"`
	Step        string         `json:"step"`
	Variant     string         `json:"variant"`
	Progress    ProgressInfo   `json:"progress"`
	Answers     AnswersPayload `json:"answers"`
	StartedAt   time.Time      `json:"started_at"`
	LastUpdated time.Time      `json:"last_updated"`
}

// VariantInfoResponse is a diagnostic view of the A/B assignment
type VariantInfoResponse struct {
	UserId             uuid.UUID `json:"user_id"`
	Variant            string    `json:"variant"`
	Source             string    `json:"source"`
	ShowDownsellOffers bool      `json:"show_downsell_offers"`
}

// --- Step submissions ---

// JobResponseRequest answers "have you found a job yet?"
type JobResponseRequest struct {
	JobFound *bool `json:"job_found" validate:"required"`
}

// SurveyRequest for the found-job usage survey
type SurveyRequest struct {
	FoundWithMigrateMate *bool  `json:"found_with_migrate_mate" validate:"required"`
	RolesApplied         string `json:"roles_applied" validate:"required"`
	CompaniesEmailed     string `json:"companies_emailed" validate:"required"`
	CompaniesInterviewed string `json:"companies_interviewed" validate:"required"`
}

// FeedbackRequest carries the free-text feedback
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// VisaRequest answers the immigration-lawyer question
type VisaRequest struct {
	HasLawyer *bool  `json:"has_lawyer" validate:"required"`
	VisaType  string `json:"visa_type" validate:"required"`
}

// DownsellDecisionRequest accepts or declines the discounted offer
type DownsellDecisionRequest struct {
	Accepted *bool `json:"accepted" validate:"required"`
}

// SurveyOfferRequest for the not-found usage survey, which carries its own
// accept-offer escape hatch. Accepting the offer bypasses the survey, so the
// answers are only required when the offer is declined.
type SurveyOfferRequest struct {
	AcceptedOffer        *bool  `json:"accepted_offer" validate:"required"`
	RolesApplied         string `json:"roles_applied" validate:"required_if=AcceptedOffer false"`
	CompaniesEmailed     string `json:"companies_emailed" validate:"required_if=AcceptedOffer false"`
	CompaniesInterviewed string `json:"companies_interviewed" validate:"required_if=AcceptedOffer false"`
}

// ReasonRequest for the cancellation-reason step; accepting the offer bypasses
// the reason, and Details is required only for reasons the service decides
// need elaboration
type ReasonRequest struct {
	AcceptedOffer *bool  `json:"accepted_offer" validate:"required"`
	Reason        string `json:"reason" validate:"required_if=AcceptedOffer false"`
	Details       string `json:"details"`
}
