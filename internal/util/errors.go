package util

import "errors"

var (
	ErrSetNotFound             = errors.New("flashcard set not found or access denied")
	ErrQuizNotFound            = errors.New("quiz not found or access denied")
	ErrAccessDenied            = errors.New("access denied to this quiz")
	ErrAttemptNotFound         = errors.New("quiz attempt not found")
	ErrAttemptAlreadyCompleted = errors.New("quiz already completed")
	ErrInsufficientFlashcards  = errors.New("not enough flashcards to generate quiz (minimum 3 required)")
	ErrInvalidQuizType         = errors.New("unsupported quiz type")
	ErrInvalidQuestionCount    = errors.New("question_count must be at least 3")

	// AI failures are never surfaced to callers; the orchestrator catches
	// them and falls back to heuristic generation per card.
	ErrAIUnavailable       = errors.New("AI API key is not configured")
	ErrAIEmptyResponse     = errors.New("AI returned empty response")
	ErrAIMalformedResponse = errors.New("invalid AI response format")
	ErrAIInvalidStructure  = errors.New("invalid AI response structure")
)
