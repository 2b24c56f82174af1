package repository

import (
	"studysphere_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(quiz *model.Quiz) error {
	return r.DB.Create(quiz).Error
}

func (r *QuizRepository) FindByID(id string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.First(&quiz, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) FindByIDAndUser(id, userID string) (*model.Quiz, error) {
	var quiz model.Quiz
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&quiz).Error
	if err != nil {
		return nil, err
	}
	return &quiz, nil
}

func (r *QuizRepository) ListByUser(userID string) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) ListPublic(limit int) ([]model.Quiz, error) {
	var quizzes []model.Quiz
	err := r.DB.Where("is_public = ?", true).Order("created_at desc").Limit(limit).Find(&quizzes).Error
	return quizzes, err
}

func (r *QuizRepository) Update(quiz *model.Quiz) error {
	return r.DB.Save(quiz).Error
}

func (r *QuizRepository) Delete(id, userID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quiz_id = ?", id).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		return tx.Where("id = ? AND user_id = ?", id, userID).Delete(&model.Quiz{}).Error
	})
}

func (r *QuizRepository) ListQuestions(quizID string) ([]model.QuizQuestion, error) {
	var questions []model.QuizQuestion
	err := r.DB.Where("quiz_id = ?", quizID).Order("order_index asc").Find(&questions).Error
	return questions, err
}

func (r *QuizRepository) CountQuestions(quizID string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.QuizQuestion{}).Where("quiz_id = ?", quizID).Count(&count).Error
	return count, err
}

// ReplaceQuestions swaps the quiz's question set atomically so readers never
// observe a quiz with zero questions mid-regeneration.
func (r *QuizRepository) ReplaceQuestions(quizID string, questions []model.QuizQuestion) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("quiz_id = ?", quizID).Delete(&model.QuizQuestion{}).Error; err != nil {
			return err
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
}
