package service

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"studysphere_backend/internal/model"
	"studysphere_backend/internal/util"
	"studysphere_backend/pkg/logger"

	"go.uber.org/zap"
)

type stubSynthesizer struct {
	available bool
	err       error
	question  *GeneratedQuestion
	calls     int
}

func (s *stubSynthesizer) Available() bool { return s.available }

func (s *stubSynthesizer) GenerateQuestionForCard(ctx context.Context, card model.Flashcard, allCards []model.Flashcard, quizType string) (*GeneratedQuestion, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	q := *s.question
	q.FlashcardID = card.ID
	return &q, nil
}

func newTestQuizService(ai QuestionSynthesizer) *QuizService {
	if logger.Log == nil {
		logger.Log = zap.NewNop()
	}
	gen := NewQuestionGenerator(rand.New(rand.NewSource(7)))
	return NewQuizService(nil, nil, ai, gen, nil)
}

func testQuiz(count int) *model.Quiz {
	return &model.Quiz{
		UUIDBase:      model.UUIDBase{ID: "quiz-1"},
		QuizType:      model.QuizTypeMultipleChoice,
		QuestionCount: count,
	}
}

func TestSynthesizeQuestionsHeuristicOnly(t *testing.T) {
	ai := &stubSynthesizer{available: true}
	svc := newTestQuizService(ai)
	cards := makeCards(6)

	questions := svc.synthesizeQuestions(context.Background(), testQuiz(4), cards, false)

	if len(questions) != 4 {
		t.Fatalf("expected 4 questions, got %d", len(questions))
	}
	if ai.calls != 0 {
		t.Errorf("AI must not be called when not requested, got %d calls", ai.calls)
	}
	for i, q := range questions {
		if q.OrderIndex != i+1 {
			t.Errorf("question %d has order index %d, want %d", i, q.OrderIndex, i+1)
		}
		if q.Points != 1 {
			t.Errorf("question %d has %d points, want 1", i, q.Points)
		}
		if q.QuizID != "quiz-1" {
			t.Errorf("question %d has quiz id %q", i, q.QuizID)
		}
		if q.QuestionText == "" || q.CorrectAnswer == "" {
			t.Errorf("question %d is incomplete: %+v", i, q)
		}
	}
}

func TestSynthesizeQuestionsUsesAI(t *testing.T) {
	ai := &stubSynthesizer{
		available: true,
		question: &GeneratedQuestion{
			QuestionText:  "AI question",
			CorrectAnswer: "AI answer",
			WrongAnswers:  []string{"w1", "w2", "w3"},
		},
	}
	svc := newTestQuizService(ai)
	cards := makeCards(5)

	questions := svc.synthesizeQuestions(context.Background(), testQuiz(3), cards, true)

	if ai.calls != 3 {
		t.Errorf("expected one AI call per card, got %d", ai.calls)
	}
	for _, q := range questions {
		if q.QuestionText != "AI question" {
			t.Errorf("question text = %q, want the AI output", q.QuestionText)
		}
	}
}

func TestSynthesizeQuestionsFallsBackPerCard(t *testing.T) {
	ai := &stubSynthesizer{available: true, err: util.ErrAIMalformedResponse}
	svc := newTestQuizService(ai)
	cards := makeCards(5)

	questions := svc.synthesizeQuestions(context.Background(), testQuiz(5), cards, true)

	if len(questions) != 5 {
		t.Fatalf("AI failures must not lose questions, got %d of 5", len(questions))
	}
	if ai.calls != 5 {
		t.Errorf("expected 5 AI attempts, got %d", ai.calls)
	}
	for i, q := range questions {
		if q.QuestionText == "" || q.CorrectAnswer == "" {
			t.Errorf("fallback question %d incomplete: %+v", i, q)
		}
		if q.OrderIndex != i+1 {
			t.Errorf("fallback question %d order index = %d", i, q.OrderIndex)
		}
	}
}

func TestSynthesizeQuestionsSkipsUnavailableAI(t *testing.T) {
	ai := &stubSynthesizer{available: false}
	svc := newTestQuizService(ai)
	cards := makeCards(4)

	questions := svc.synthesizeQuestions(context.Background(), testQuiz(4), cards, true)

	if ai.calls != 0 {
		t.Errorf("unavailable AI should never be called, got %d calls", ai.calls)
	}
	if len(questions) != 4 {
		t.Errorf("expected 4 heuristic questions, got %d", len(questions))
	}
}

func TestCreateQuizRejectsLowQuestionCount(t *testing.T) {
	svc := newTestQuizService(&stubSynthesizer{})

	for _, count := range []int{1, 2} {
		_, err := svc.CreateQuiz(context.Background(), "user-1", CreateQuizRequest{
			Title:          "Networking basics",
			FlashcardSetID: "set-1",
			QuestionCount:  count,
		})
		if !errors.Is(err, util.ErrInvalidQuestionCount) {
			t.Errorf("question_count=%d: expected ErrInvalidQuestionCount, got %v", count, err)
		}
	}
}

func TestCreateQuizRejectsUnknownQuizType(t *testing.T) {
	svc := newTestQuizService(&stubSynthesizer{})

	_, err := svc.CreateQuiz(context.Background(), "user-1", CreateQuizRequest{
		Title:          "Networking basics",
		FlashcardSetID: "set-1",
		QuizType:       "essay",
	})
	if !errors.Is(err, util.ErrInvalidQuizType) {
		t.Errorf("expected ErrInvalidQuizType, got %v", err)
	}
}

func TestUpdateQuizRejectsLowQuestionCount(t *testing.T) {
	svc := newTestQuizService(&stubSynthesizer{})

	_, err := svc.UpdateQuiz(context.Background(), "user-1", "quiz-1", UpdateQuizRequest{QuestionCount: 2})
	if !errors.Is(err, util.ErrInvalidQuestionCount) {
		t.Errorf("expected ErrInvalidQuestionCount, got %v", err)
	}
}

func TestSynthesizeQuestionsClampsToCardCount(t *testing.T) {
	svc := newTestQuizService(&stubSynthesizer{})
	cards := makeCards(3)

	questions := svc.synthesizeQuestions(context.Background(), testQuiz(10), cards, false)

	if len(questions) != 3 {
		t.Errorf("expected 3 questions from 3 cards, got %d", len(questions))
	}
}
