// Package audit records security-relevant flow events: variant decisions,
// validation rejections, store failures, finalizations. Every validation
// failure and every store error must pass through here.
package audit

import (
	"time"

	"cancellation-flow-be/internal/pkg/logger"

	"github.com/google/uuid"
)

// Recorder is the structured security/audit log consumed by the flow core.
type Recorder interface {
	Event(event string, userID uuid.UUID, details map[string]interface{})
	Failure(event string, userID uuid.UUID, err error, details map[string]interface{})
}

type logRecorder struct {
	logger logger.ILogger
}

func NewRecorder(log logger.ILogger) Recorder {
	return &logRecorder{logger: log}
}

func (r *logRecorder) Event(event string, userID uuid.UUID, details map[string]interface{}) {
	r.logger.Info("SECURITY", event, withCommon(userID, details))
}

func (r *logRecorder) Failure(event string, userID uuid.UUID, err error, details map[string]interface{}) {
	d := withCommon(userID, details)
	if err != nil {
		d["error"] = err.Error()
	}
	r.logger.Error("SECURITY", event, d)
}

func withCommon(userID uuid.UUID, details map[string]interface{}) map[string]interface{} {
	d := make(map[string]interface{}, len(details)+2)
	for k, v := range details {
		d[k] = v
	}
	if userID != uuid.Nil {
		d["user_id"] = userID.String()
	} else {
		d["user_id"] = "anonymous"
	}
	d["recorded_at"] = time.Now().UTC().Format(time.RFC3339)
	return d
}
