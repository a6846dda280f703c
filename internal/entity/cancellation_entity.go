package entity

import (
	"time"

	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// CancellationRecord is one persisted cancellation attempt: the variant the
// user was bucketed into, the furthest step reached, and every answer
// collected along the way. One record per user per attempt; resumed wizard
// opens reuse the latest record.
type CancellationRecord struct {
	ID               uuid.UUID
	UserID           uuid.UUID
	SubscriptionID   uuid.UUID
	DownsellVariant  flow.Variant
	CancellationStep flow.Step

	JobFound             *bool
	FoundWithMigrateMate *bool
	FeedbackText         string
	Reason               string
	VisaType             string
	HasLawyer            *bool
	AcceptedDownsell     bool
	FinalOutcome         flow.Outcome // empty until a terminal transition

	RolesApplied         string
	CompaniesEmailed     string
	CompaniesInterviewed string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Answers projects the stored record back into the in-memory answer set used
// to pre-fill steps on resume.
func (r *CancellationRecord) Answers() flow.Answers {
	return flow.Answers{
		Variant:              r.DownsellVariant,
		JobFound:             r.JobFound,
		FoundWithMigrateMate: r.FoundWithMigrateMate,
		FeedbackText:         r.FeedbackText,
		VisaType:             r.VisaType,
		HasLawyer:            r.HasLawyer,
		AcceptedDownsell:     r.AcceptedDownsell,
		Reason:               r.Reason,
		RolesApplied:         r.RolesApplied,
		CompaniesEmailed:     r.CompaniesEmailed,
		CompaniesInterviewed: r.CompaniesInterviewed,
	}
}

// Finalized reports whether the record already carries a terminal outcome.
func (r *CancellationRecord) Finalized() bool {
	return r.FinalOutcome != ""
}
