package model

import (
	"time"

	"github.com/google/uuid"
)

// Subscription GORM model. Status transitions are driven exclusively by the
// cancellation flow: active -> pending_cancellation | cancelled -> active.
type Subscription struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID `gorm:"type:uuid;not null;index"`
	MonthlyPrice float64   `gorm:"type:decimal(10,2);not null"`
	Status       string    `gorm:"type:varchar(50);not null;default:'active';index"` // active, pending_cancellation, cancelled
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (Subscription) TableName() string {
	return "subscriptions"
}
