package service

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"studysphere_backend/internal/config"
	"studysphere_backend/internal/model"
	"studysphere_backend/internal/util"
)

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a":1}`, `{"a":1}`},
		{"markdown fence", "```json\n{\"a\":1}\n```", `{"a":1}`},
		{"plain fence", "```\n{\"a\":1}\n```", `{"a":1}`},
		{"surrounding prose", `Here you go: {"a":1} Hope that helps!`, `{"a":1}`},
		{"whitespace", "  \n {\"a\":1} \n ", `{"a":1}`},
		{"no object", "no json here", "no json here"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractJSONObject(tt.in); got != tt.want {
				t.Errorf("extractJSONObject(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func stubAIServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("authorization header = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":` + content + `}}]}`))
	}))
}

func testAIService(baseURL string) *AIService {
	return NewAIService(config.AIConfig{
		BaseURL:        baseURL,
		APIKey:         "test-key",
		Model:          "test-model",
		TimeoutSeconds: 5,
	})
}

func TestGenerateQuestionForCardSuccess(t *testing.T) {
	srv := stubAIServer(t, `"{\"question\":\"What does gravity do?\",\"correct_answer\":\"pulls objects together\",\"wrong_answers\":[\"pushes objects apart\",\"has no effect\",\"only acts in space\"]}"`)
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	q, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.QuestionText != "What does gravity do?" {
		t.Errorf("question = %q", q.QuestionText)
	}
	if q.CorrectAnswer != "pulls objects together" {
		t.Errorf("correct answer = %q", q.CorrectAnswer)
	}
	if len(q.WrongAnswers) != 3 {
		t.Errorf("expected 3 wrong answers, got %d", len(q.WrongAnswers))
	}
	if q.FlashcardID != cards[0].ID {
		t.Errorf("flashcard id = %q, want %q", q.FlashcardID, cards[0].ID)
	}
}

func TestGenerateQuestionForCardFencedResponse(t *testing.T) {
	srv := stubAIServer(t, `"`+"```json\\n{\\\"question\\\":\\\"Q?\\\",\\\"correct_answer\\\":\\\"A\\\",\\\"wrong_answers\\\":[]}\\n```"+`"`)
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	q, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeFillBlank)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.QuestionText != "Q?" || q.CorrectAnswer != "A" {
		t.Errorf("got %q / %q", q.QuestionText, q.CorrectAnswer)
	}
	if q.WrongAnswers == nil {
		t.Error("wrong answers should never be nil")
	}
}

func TestGenerateQuestionForCardDropsDistractorEqualToCorrect(t *testing.T) {
	srv := stubAIServer(t, `"{\"question\":\"Q?\",\"correct_answer\":\"right\",\"wrong_answers\":[\"right\",\"wrong1\",\"wrong2\"]}"`)
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	q, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.WrongAnswers) != 2 {
		t.Fatalf("expected the echoed correct answer to be dropped, got %v", q.WrongAnswers)
	}
	for _, w := range q.WrongAnswers {
		if w == q.CorrectAnswer {
			t.Errorf("distractor %q equals the correct answer", w)
		}
	}
}

func TestGenerateQuestionForCardMalformedJSON(t *testing.T) {
	srv := stubAIServer(t, `"this is not json at all"`)
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	_, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if !errors.Is(err, util.ErrAIMalformedResponse) {
		t.Errorf("expected ErrAIMalformedResponse, got %v", err)
	}
}

func TestGenerateQuestionForCardMissingFields(t *testing.T) {
	srv := stubAIServer(t, `"{\"question\":\"\",\"correct_answer\":\"A\"}"`)
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	_, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if !errors.Is(err, util.ErrAIInvalidStructure) {
		t.Errorf("expected ErrAIInvalidStructure, got %v", err)
	}
}

func TestGenerateQuestionForCardEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	_, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if !errors.Is(err, util.ErrAIEmptyResponse) {
		t.Errorf("expected ErrAIEmptyResponse, got %v", err)
	}
}

func TestGenerateQuestionForCardUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	svc := testAIService(srv.URL)
	cards := makeCards(3)

	if _, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice); err == nil {
		t.Error("expected an error for a non-200 response")
	}
}

func TestGenerateQuestionForCardNoKey(t *testing.T) {
	svc := NewAIService(config.AIConfig{TimeoutSeconds: 5})
	cards := makeCards(3)

	_, err := svc.GenerateQuestionForCard(context.Background(), cards[0], cards, model.QuizTypeMultipleChoice)
	if !errors.Is(err, util.ErrAIUnavailable) {
		t.Errorf("expected ErrAIUnavailable when no API key is configured, got %v", err)
	}
	if svc.Available() {
		t.Error("Available() should be false without an API key")
	}
}

func TestQuestionPromptIncludesSetContext(t *testing.T) {
	cards := makeCards(3)

	for _, quizType := range []string{model.QuizTypeMultipleChoice, model.QuizTypeTrueFalse, model.QuizTypeFillBlank} {
		prompt, err := questionPrompt(cards[0], cards, quizType)
		if err != nil {
			t.Fatalf("%s: %v", quizType, err)
		}
		for _, card := range cards {
			line := card.Term + ": " + card.Definition
			if !strings.Contains(prompt, line) {
				t.Errorf("%s prompt missing context line %q", quizType, line)
			}
		}
	}

	if _, err := questionPrompt(cards[0], cards, "essay"); err == nil {
		t.Error("expected an error for an unsupported quiz type")
	}
}
