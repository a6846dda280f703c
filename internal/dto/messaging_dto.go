package dto

import "github.com/google/uuid"

// PersistStepMessage is the payload handed to the async persistence worker
// after every non-terminal transition. FailureCode is the audit event to log
// when delivery ultimately fails.
type PersistStepMessage struct {
	RecordId           uuid.UUID              `json:"record_id"`
	UserId             uuid.UUID              `json:"user_id"`
	Step               string                 `json:"step"`
	Fields             map[string]interface{} `json:"fields"`
	SubscriptionStatus string                 `json:"subscription_status,omitempty"`
	FailureCode        string                 `json:"failure_code"`
}
