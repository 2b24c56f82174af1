package repository

import (
	"time"

	"studysphere_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(attempt *model.QuizAttempt) error {
	return r.DB.Create(attempt).Error
}

func (r *AttemptRepository) FindByIDAndUser(id, userID string) (*model.QuizAttempt, error) {
	var attempt model.QuizAttempt
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&attempt).Error
	if err != nil {
		return nil, err
	}
	return &attempt, nil
}

func (r *AttemptRepository) ListByUser(userID, quizID string, limit, offset int) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	query := r.DB.Preload("Quiz").Where("user_id = ?", userID).
		Order("started_at desc").Limit(limit).Offset(offset)
	if quizID != "" {
		query = query.Where("quiz_id = ?", quizID)
	}
	err := query.Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListCompletedByUser(userID string) ([]model.QuizAttempt, error) {
	var attempts []model.QuizAttempt
	err := r.DB.Where("user_id = ? AND is_completed = ?", userID, true).Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) SaveProgress(attempt *model.QuizAttempt) error {
	return r.DB.Save(attempt).Error
}

// Complete finalizes an attempt with a compare-and-set guarded on
// is_completed so two racing submits produce exactly one score. Returns the
// number of rows updated; zero means the attempt was already completed.
func (r *AttemptRepository) Complete(id, userID string, answers map[string]string, score int, percentage float64, timeTaken *int, completedAt time.Time) (int64, error) {
	res := r.DB.Model(&model.QuizAttempt{}).
		Where("id = ? AND user_id = ? AND is_completed = ?", id, userID, false).
		Updates(map[string]interface{}{
			"answers":      answers,
			"score":        score,
			"percentage":   percentage,
			"time_taken":   timeTaken,
			"is_completed": true,
			"completed_at": completedAt,
		})
	return res.RowsAffected, res.Error
}
