package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"studysphere_backend/internal/model"
	"studysphere_backend/internal/repository"
	"studysphere_backend/internal/util"
	"studysphere_backend/pkg/logger"
	"studysphere_backend/pkg/monitoring"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	publicQuizzesCacheKey = "quizzes:public"
	publicQuizzesCacheTTL = time.Minute
	publicQuizzesLimit    = 50
)

// QuestionSynthesizer is the AI generation path. Failures are recovered per
// card by the orchestrator, never surfaced to the caller.
type QuestionSynthesizer interface {
	Available() bool
	GenerateQuestionForCard(ctx context.Context, card model.Flashcard, allCards []model.Flashcard, quizType string) (*GeneratedQuestion, error)
}

type QuizService struct {
	quizRepo      *repository.QuizRepository
	flashcardRepo *repository.FlashcardRepository
	ai            QuestionSynthesizer
	generator     *QuestionGenerator
	rdb           *redis.Client
}

func NewQuizService(quizRepo *repository.QuizRepository, flashcardRepo *repository.FlashcardRepository, ai QuestionSynthesizer, generator *QuestionGenerator, rdb *redis.Client) *QuizService {
	return &QuizService{
		quizRepo:      quizRepo,
		flashcardRepo: flashcardRepo,
		ai:            ai,
		generator:     generator,
		rdb:           rdb,
	}
}

type CreateQuizRequest struct {
	Title           string `json:"title" binding:"required"`
	Description     string `json:"description"`
	FlashcardSetID  string `json:"flashcard_set_id" binding:"required"`
	QuizType        string `json:"quiz_type"`
	QuestionCount   int    `json:"question_count"`
	TimeLimit       *int   `json:"time_limit"`
	IsPublic        bool   `json:"is_public"`
	UseAIGeneration bool   `json:"use_ai_generation"`
}

type UpdateQuizRequest struct {
	Title         string `json:"title"`
	Description   string `json:"description"`
	QuizType      string `json:"quiz_type"`
	QuestionCount int    `json:"question_count"`
	TimeLimit     *int   `json:"time_limit"`
	IsPublic      *bool  `json:"is_public"`
}

func (s *QuizService) CreateQuiz(ctx context.Context, userID string, req CreateQuizRequest) (*model.Quiz, error) {
	if req.QuizType == "" {
		req.QuizType = model.QuizTypeMultipleChoice
	}
	if !model.ValidQuizType(req.QuizType) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidQuizType, req.QuizType)
	}
	if req.QuestionCount <= 0 {
		req.QuestionCount = 10
	} else if req.QuestionCount < model.MinFlashcards {
		return nil, util.ErrInvalidQuestionCount
	}

	// The caller must own the flashcard set the quiz is built from.
	if _, err := s.flashcardRepo.FindSetByIDAndUser(req.FlashcardSetID, userID); err != nil {
		return nil, util.ErrSetNotFound
	}

	quiz := &model.Quiz{
		UserID:         userID,
		FlashcardSetID: req.FlashcardSetID,
		Title:          req.Title,
		Description:    req.Description,
		QuizType:       req.QuizType,
		QuestionCount:  req.QuestionCount,
		TimeLimit:      req.TimeLimit,
		IsPublic:       req.IsPublic,
	}
	if err := s.quizRepo.Create(quiz); err != nil {
		return nil, err
	}

	if err := s.GenerateQuestions(ctx, quiz, req.UseAIGeneration); err != nil {
		return nil, err
	}

	s.invalidatePublicCache(ctx)
	return quiz, nil
}

// GenerateQuestions builds a fresh question set for the quiz and replaces any
// existing one. Cards are processed sequentially to bound load on the
// upstream generation API and keep ordering deterministic.
func (s *QuizService) GenerateQuestions(ctx context.Context, quiz *model.Quiz, useAI bool) error {
	cards, err := s.flashcardRepo.ListCardsBySet(quiz.FlashcardSetID)
	if err != nil {
		return err
	}
	if len(cards) < model.MinFlashcards {
		return util.ErrInsufficientFlashcards
	}

	questions := s.synthesizeQuestions(ctx, quiz, cards, useAI)
	return s.quizRepo.ReplaceQuestions(quiz.ID, questions)
}

// synthesizeQuestions picks cards and builds one question per card. The AI
// path is attempted per card when requested and falls back to heuristic
// generation on any error, so a flaky upstream never fails the whole quiz.
func (s *QuizService) synthesizeQuestions(ctx context.Context, quiz *model.Quiz, cards []model.Flashcard, useAI bool) []model.QuizQuestion {
	selected := s.generator.SelectCards(cards, quiz.QuestionCount)

	questions := make([]model.QuizQuestion, 0, len(selected))
	for i, card := range selected {
		var gq GeneratedQuestion

		if useAI && s.ai.Available() {
			aiQ, aiErr := s.ai.GenerateQuestionForCard(ctx, card, cards, quiz.QuizType)
			if aiErr != nil {
				logger.Log.Warn("AI question generation failed, using heuristic fallback",
					zap.String("quiz_id", quiz.ID),
					zap.String("flashcard_id", card.ID),
					zap.Error(aiErr))
				monitoring.QuestionGenerations.WithLabelValues("fallback").Inc()
				gq = s.generator.BuildQuestion(card, cards, quiz.QuizType)
			} else {
				monitoring.QuestionGenerations.WithLabelValues("ai").Inc()
				gq = *aiQ
			}
		} else {
			monitoring.QuestionGenerations.WithLabelValues("heuristic").Inc()
			gq = s.generator.BuildQuestion(card, cards, quiz.QuizType)
		}

		questions = append(questions, model.QuizQuestion{
			QuizID:        quiz.ID,
			FlashcardID:   gq.FlashcardID,
			QuestionText:  gq.QuestionText,
			CorrectAnswer: gq.CorrectAnswer,
			WrongAnswers:  gq.WrongAnswers,
			QuestionType:  quiz.QuizType,
			Points:        1,
			OrderIndex:    i + 1,
		})
	}

	return questions
}

func (s *QuizService) RegenerateQuiz(ctx context.Context, userID, quizID string, useAI bool) error {
	quiz, err := s.quizRepo.FindByIDAndUser(quizID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	return s.GenerateQuestions(ctx, quiz, useAI)
}

// GetQuiz returns a quiz with its questions when the caller owns it or it is
// public.
func (s *QuizService) GetQuiz(userID, quizID string) (*model.Quiz, error) {
	quiz, err := s.quizRepo.FindByID(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if !quiz.IsPublic && quiz.UserID != userID {
		return nil, util.ErrAccessDenied
	}

	questions, err := s.quizRepo.ListQuestions(quizID)
	if err != nil {
		return nil, err
	}
	quiz.Questions = questions
	return quiz, nil
}

func (s *QuizService) ListQuizzes(userID string) ([]model.Quiz, error) {
	return s.quizRepo.ListByUser(userID)
}

// ListPublicQuizzes serves the public listing through a short-lived redis
// cache.
func (s *QuizService) ListPublicQuizzes(ctx context.Context) ([]model.Quiz, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, publicQuizzesCacheKey).Result(); err == nil {
			var quizzes []model.Quiz
			if json.Unmarshal([]byte(cached), &quizzes) == nil {
				return quizzes, nil
			}
		}
	}

	quizzes, err := s.quizRepo.ListPublic(publicQuizzesLimit)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if data, err := json.Marshal(quizzes); err == nil {
			s.rdb.Set(ctx, publicQuizzesCacheKey, data, publicQuizzesCacheTTL)
		}
	}
	return quizzes, nil
}

func (s *QuizService) UpdateQuiz(ctx context.Context, userID, quizID string, req UpdateQuizRequest) (*model.Quiz, error) {
	if req.QuizType != "" && !model.ValidQuizType(req.QuizType) {
		return nil, fmt.Errorf("%w: %s", util.ErrInvalidQuizType, req.QuizType)
	}
	if req.QuestionCount > 0 && req.QuestionCount < model.MinFlashcards {
		return nil, util.ErrInvalidQuestionCount
	}

	quiz, err := s.quizRepo.FindByIDAndUser(quizID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	if req.Title != "" {
		quiz.Title = req.Title
	}
	if req.Description != "" {
		quiz.Description = req.Description
	}
	if req.QuizType != "" {
		quiz.QuizType = req.QuizType
	}
	if req.QuestionCount > 0 {
		quiz.QuestionCount = req.QuestionCount
	}
	if req.TimeLimit != nil {
		quiz.TimeLimit = req.TimeLimit
	}
	if req.IsPublic != nil {
		quiz.IsPublic = *req.IsPublic
	}

	if err := s.quizRepo.Update(quiz); err != nil {
		return nil, err
	}

	s.invalidatePublicCache(ctx)
	return quiz, nil
}

func (s *QuizService) DeleteQuiz(ctx context.Context, userID, quizID string) error {
	if _, err := s.quizRepo.FindByIDAndUser(quizID, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrQuizNotFound
		}
		return err
	}
	if err := s.quizRepo.Delete(quizID, userID); err != nil {
		return err
	}
	s.invalidatePublicCache(ctx)
	return nil
}

func (s *QuizService) invalidatePublicCache(ctx context.Context) {
	if s.rdb != nil {
		s.rdb.Del(ctx, publicQuizzesCacheKey)
	}
}
