package models

import "time"

const (
	RunStatusOK    = "ok"
	RunStatusError = "error"
)

// GenerationRun records the outcome of one generate call.
type GenerationRun struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Model       string    `gorm:"size:255;not null;index" json:"model"`
	PromptChars int       `gorm:"not null" json:"promptChars"`
	Streamed    bool      `gorm:"not null" json:"streamed"`
	Tokens      int       `gorm:"not null;default:0" json:"tokens"` // fragments relayed, streams only
	Status      string    `gorm:"size:16;not null" json:"status"`
	Error       string    `gorm:"type:text" json:"error,omitempty"`
	DurationMs  int64     `gorm:"not null" json:"durationMs"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
}
