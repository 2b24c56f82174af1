package model

import "time"

// QuizAttempt is owned exclusively by the submitting user. Progress saves
// merge into Answers; Submit finalizes the row exactly once.
//
// swagger:model QuizAttempt
type QuizAttempt struct {
	UUIDBase
	QuizID         string            `gorm:"index;type:varchar(36)" json:"quiz_id"`
	UserID         string            `gorm:"index;type:varchar(36)" json:"user_id"`
	TotalQuestions int               `json:"total_questions"`
	Answers        map[string]string `gorm:"serializer:json;type:jsonb" json:"answers"`
	Score          int               `json:"score"`
	Percentage     float64           `gorm:"type:decimal(5,2)" json:"percentage"`
	TimeTaken      *int              `json:"time_taken"`
	IsCompleted    bool              `gorm:"default:false;index" json:"is_completed"`
	StartedAt      time.Time         `json:"started_at"`
	CompletedAt    *time.Time        `json:"completed_at"`

	Quiz *Quiz `gorm:"foreignKey:QuizID" json:"quiz,omitempty"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
