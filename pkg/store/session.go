package store

import (
	"time"

	"cancellation-flow-be/pkg/flow"

	"github.com/google/uuid"
)

// FlowSession is the in-memory state of one wizard traversal. It mirrors the
// persisted record but lives only for the duration of the flow, so Back
// navigation and step rendering never hit the database.
type FlowSession struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	SubscriptionID uuid.UUID `json:"subscription_id"`
	RecordID       uuid.UUID `json:"record_id"`

	Variant     flow.Variant `json:"variant"`
	CurrentStep flow.Step    `json:"current_step"`
	Answers     flow.Answers `json:"answers"`

	StartedAt   time.Time `json:"started_at"`
	LastUpdated time.Time `json:"last_updated"`
}

// Terminal reports whether the session has reached an end screen.
func (s *FlowSession) Terminal() bool {
	return s.CurrentStep.IsTerminal()
}

func (s *FlowSession) Touch() {
	s.LastUpdated = time.Now().UTC()
}
