package model

import (
	"time"

	"github.com/google/uuid"
)

// Cancellation GORM model for one cancellation-flow traversal. Column names
// are the wire/storage contract consumed by analytics, so they stay snake_case
// booleans rather than an encoded blob.
type Cancellation struct {
	ID               uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index"`
	SubscriptionID   uuid.UUID `gorm:"type:uuid;not null;index"`
	DownsellVariant  string    `gorm:"type:varchar(1);not null"` // 'A' | 'B'
	CancellationStep string    `gorm:"type:varchar(50);default:'initial'"`

	JobFound             *bool  `gorm:"column:job_found"`
	FoundWithMigrateMate *bool  `gorm:"column:found_with_migrate_mate"`
	FeedbackText         string `gorm:"type:text"`
	Reason               string `gorm:"type:text"`
	VisaType             string `gorm:"type:varchar(100)"`
	HasLawyer            *bool  `gorm:"column:has_lawyer"`
	AcceptedDownsell     bool   `gorm:"not null;default:false"`
	FinalOutcome         string `gorm:"type:varchar(50);index"` // cancelled, continued, downsell_accepted, abandoned, error

	RolesApplied         string `gorm:"type:varchar(20)"`
	CompaniesEmailed     string `gorm:"type:varchar(20)"`
	CompaniesInterviewed string `gorm:"type:varchar(20)"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Cancellation) TableName() string {
	return "cancellations"
}
