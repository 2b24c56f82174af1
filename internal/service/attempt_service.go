package service

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"sort"
	"time"

	"studysphere_backend/internal/model"
	"studysphere_backend/internal/repository"
	"studysphere_backend/internal/util"

	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

const (
	statsCachePrefix   = "quiz:stats:"
	statsCacheTTL      = 5 * time.Minute
	defaultAttemptPage = 50
	recentActivitySize = 10
)

type AttemptService struct {
	attemptRepo *repository.AttemptRepository
	quizRepo    *repository.QuizRepository
	rdb         *redis.Client
}

func NewAttemptService(attemptRepo *repository.AttemptRepository, quizRepo *repository.QuizRepository, rdb *redis.Client) *AttemptService {
	return &AttemptService{attemptRepo: attemptRepo, quizRepo: quizRepo, rdb: rdb}
}

type SubmitAttemptRequest struct {
	Answers   map[string]string `json:"answers" binding:"required"`
	TimeTaken *int              `json:"time_taken"`
}

type SaveProgressRequest struct {
	Answers   map[string]string `json:"answers"`
	TimeTaken *int              `json:"time_taken"`
}

// AttemptStats is the per-user aggregate over completed attempts.
type AttemptStats struct {
	TotalAttempts    int                 `json:"total_attempts"`
	AverageScore     float64             `json:"average_score"`
	BestScore        float64             `json:"best_score"`
	TotalTimeStudied int                 `json:"total_time_studied"`
	RecentActivity   []model.QuizAttempt `json:"recent_activity"`
}

// StartAttempt opens a new attempt against a quiz the caller can see.
func (s *AttemptService) StartAttempt(userID, quizID string) (*model.QuizAttempt, error) {
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

	count, err := s.quizRepo.CountQuestions(quizID)
	if err != nil {
		return nil, err
	}

	attempt := &model.QuizAttempt{
		QuizID:         quizID,
		UserID:         userID,
		TotalQuestions: int(count),
		Answers:        map[string]string{},
		StartedAt:      time.Now(),
	}
	if err := s.attemptRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *AttemptService) ListAttempts(userID, quizID string, limit, offset int) ([]model.QuizAttempt, error) {
	if limit <= 0 {
		limit = defaultAttemptPage
	}
	if offset < 0 {
		offset = 0
	}
	return s.attemptRepo.ListByUser(userID, quizID, limit, offset)
}

func (s *AttemptService) GetAttempt(userID, attemptID string) (*model.QuizAttempt, error) {
	attempt, err := s.attemptRepo.FindByIDAndUser(attemptID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	return attempt, nil
}

// SaveProgress merges partial answers into the attempt, last write wins per
// question. When the payload marks the attempt completed it is scored and
// finalized in the same call.
func (s *AttemptService) SaveProgress(ctx context.Context, userID, attemptID string, req SaveProgressRequest, complete bool) (*model.QuizAttempt, error) {
	attempt, err := s.GetAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}

	if attempt.Answers == nil {
		attempt.Answers = map[string]string{}
	}
	for questionID, answer := range req.Answers {
		attempt.Answers[questionID] = answer
	}
	if req.TimeTaken != nil {
		attempt.TimeTaken = req.TimeTaken
	}

	if complete {
		questions, err := s.quizRepo.ListQuestions(attempt.QuizID)
		if err != nil {
			return nil, err
		}
		score, total := scoreAnswers(questions, attempt.Answers)
		now := time.Now()
		attempt.Score = score
		attempt.Percentage = percentage(score, total)
		attempt.IsCompleted = true
		attempt.CompletedAt = &now
		s.invalidateStatsCache(ctx, userID)
	}

	if err := s.attemptRepo.SaveProgress(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// Submit scores and finalizes the attempt. A compare-and-set in the
// repository guarantees at most one submission wins a race.
func (s *AttemptService) Submit(ctx context.Context, userID, attemptID string, req SubmitAttemptRequest) (*model.QuizAttempt, error) {
	attempt, err := s.GetAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}
	if attempt.IsCompleted {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	questions, err := s.quizRepo.ListQuestions(attempt.QuizID)
	if err != nil {
		return nil, err
	}

	score, total := scoreAnswers(questions, req.Answers)
	pct := percentage(score, total)
	now := time.Now()

	rows, err := s.attemptRepo.Complete(attemptID, userID, req.Answers, score, pct, req.TimeTaken, now)
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, util.ErrAttemptAlreadyCompleted
	}

	s.invalidateStatsCache(ctx, userID)

	attempt.Answers = req.Answers
	attempt.Score = score
	attempt.Percentage = pct
	attempt.TimeTaken = req.TimeTaken
	attempt.IsCompleted = true
	attempt.CompletedAt = &now
	return attempt, nil
}

// Summary aggregates the caller's completed attempts, cached briefly in
// redis.
func (s *AttemptService) Summary(ctx context.Context, userID string) (*AttemptStats, error) {
	cacheKey := statsCachePrefix + userID
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var stats AttemptStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	attempts, err := s.attemptRepo.ListCompletedByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := summarize(attempts)

	if s.rdb != nil {
		if data, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, cacheKey, data, statsCacheTTL)
		}
	}
	return stats, nil
}

func (s *AttemptService) invalidateStatsCache(ctx context.Context, userID string) {
	if s.rdb != nil {
		s.rdb.Del(ctx, statsCachePrefix+userID)
	}
}

// scoreAnswers compares submitted answers to correct ones with exact string
// equality and returns points earned and total points available.
func scoreAnswers(questions []model.QuizQuestion, answers map[string]string) (score, total int) {
	for _, q := range questions {
		total += q.Points
		if answers[q.ID] == q.CorrectAnswer {
			score += q.Points
		}
	}
	return score, total
}

// percentage converts a score to a percentage rounded to two decimal places.
// A quiz with no questions scores zero.
func percentage(score, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(score)/float64(total)*100*100) / 100
}

func summarize(attempts []model.QuizAttempt) *AttemptStats {
	stats := &AttemptStats{
		TotalAttempts:  len(attempts),
		RecentActivity: []model.QuizAttempt{},
	}
	if len(attempts) == 0 {
		return stats
	}

	var sum float64
	for _, a := range attempts {
		sum += a.Percentage
		if a.Percentage > stats.BestScore {
			stats.BestScore = a.Percentage
		}
		if a.TimeTaken != nil {
			stats.TotalTimeStudied += *a.TimeTaken
		}
	}
	stats.AverageScore = math.Round(sum/float64(len(attempts))*100) / 100

	sorted := make([]model.QuizAttempt, len(attempts))
	copy(sorted, attempts)
	sort.Slice(sorted, func(i, j int) bool {
		ti, tj := sorted[i].CompletedAt, sorted[j].CompletedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})
	if len(sorted) > recentActivitySize {
		sorted = sorted[:recentActivitySize]
	}
	stats.RecentActivity = sorted

	return stats
}
