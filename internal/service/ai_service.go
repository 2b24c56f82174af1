package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"studysphere_backend/internal/config"
	"studysphere_backend/internal/model"
	"studysphere_backend/internal/util"
)

const defaultOpenRouterBaseURL = "https://openrouter.ai/api/v1"

// AIService talks to an OpenRouter-compatible chat-completions endpoint.
type AIService struct {
	config config.AIConfig
	client *http.Client
}

func NewAIService(cfg config.AIConfig) *AIService {
	return &AIService{
		config: cfg,
		client: &http.Client{Timeout: cfg.Timeout()},
	}
}

type AIChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ChatCompletionRequest struct {
	Model       string          `json:"model"`
	Messages    []AIChatMessage `json:"messages"`
	Temperature float64         `json:"temperature,omitempty"`
	MaxTokens   int             `json:"max_tokens,omitempty"`
}

type ChatCompletionResponse struct {
	Choices []struct {
		Message AIChatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// Available reports whether an API credential is configured. Callers are
// expected to fall back to heuristic generation when it is not.
func (s *AIService) Available() bool {
	return s.config.APIKey != ""
}

func (s *AIService) baseURL() string {
	if s.config.BaseURL != "" {
		return s.config.BaseURL
	}
	return defaultOpenRouterBaseURL
}

func (s *AIService) chatCompletion(ctx context.Context, messages []AIChatMessage, temperature float64, maxTokens int) (string, error) {
	if !s.Available() {
		return "", util.ErrAIUnavailable
	}

	reqBody := ChatCompletionRequest{
		Model:       s.config.Model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.baseURL()+"/chat/completions", bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("AI API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result ChatCompletionResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}

	if result.Error != nil {
		return "", fmt.Errorf("AI API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", util.ErrAIEmptyResponse
	}

	return result.Choices[0].Message.Content, nil
}

// Chat forwards a free-form prompt with optional history and returns the
// assistant message.
func (s *AIService) Chat(ctx context.Context, prompt string, history []AIChatMessage) (string, error) {
	messages := append(append([]AIChatMessage{}, history...), AIChatMessage{
		Role:    "user",
		Content: prompt,
	})
	return s.chatCompletion(ctx, messages, 0, 0)
}

// GeneratedQuestion is a synthesized question before it is persisted.
type GeneratedQuestion struct {
	FlashcardID   string
	QuestionText  string
	CorrectAnswer string
	WrongAnswers  []string
}

type aiQuestionPayload struct {
	Question      string   `json:"question"`
	CorrectAnswer string   `json:"correct_answer"`
	WrongAnswers  []string `json:"wrong_answers"`
}

const questionSystemPrompt = "You are an educational AI that creates high-quality quiz questions. " +
	"You MUST respond with ONLY valid JSON in the exact format requested. " +
	"Do not include any explanations, markdown formatting, or additional text."

// flashcardContext joins every card in the set into one block so the model
// can produce subject-consistent distractors.
func flashcardContext(cards []model.Flashcard) string {
	lines := make([]string, len(cards))
	for i, card := range cards {
		lines[i] = fmt.Sprintf("%s: %s", card.Term, card.Definition)
	}
	return strings.Join(lines, "\n")
}

func questionPrompt(card model.Flashcard, allCards []model.Flashcard, quizType string) (string, error) {
	context := flashcardContext(allCards)

	switch quizType {
	case model.QuizTypeMultipleChoice:
		return fmt.Sprintf(`Based on the following flashcard context, create an intelligent multiple choice question for the term %q.

Context:
%s

Requirements:
- Create a challenging question that tests understanding, not just memorization
- Generate 3 plausible but incorrect distractors (wrong answers)
- The question can be variations like "What does %s mean?", "Which definition best describes %s?", or conceptual applications
- Make distractors realistic and related to the subject matter
- Ensure only one answer is clearly correct

Response format (JSON):
{
  "question": "Your intelligent question here",
  "correct_answer": %q,
  "wrong_answers": ["distractor1", "distractor2", "distractor3"]
}`, card.Term, context, card.Term, card.Term, card.Definition), nil

	case model.QuizTypeTrueFalse:
		return fmt.Sprintf(`Based on the following flashcard context, create an intelligent true/false question for the term %q.

Context:
%s

Requirements:
- Create a challenging statement that tests understanding
- The statement should be definitively true or false
- For false statements, make subtle but clear errors
- Vary between testing the term-definition relationship and conceptual understanding

Response format (JSON):
{
  "question": "Your true/false statement here",
  "correct_answer": "True" or "False",
  "wrong_answers": ["False"] or ["True"]
}`, card.Term, context), nil

	case model.QuizTypeFillBlank:
		return fmt.Sprintf(`Based on the following flashcard context, create an intelligent fill-in-the-blank question for the term %q.

Context:
%s

Requirements:
- Create a question that tests understanding of the definition
- Use contexts like "Complete the definition:", "Fill in the missing part:", or scenario-based questions
- Make the blank meaningful and test key concepts

Response format (JSON):
{
  "question": "Your fill-in-the-blank question with ___ for the blank",
  "correct_answer": %q,
  "wrong_answers": []
}`, card.Term, context, card.Definition), nil
	}

	return "", fmt.Errorf("unsupported quiz type: %s", quizType)
}

// extractJSONObject strips markdown fences and any leading/trailing prose the
// model wrapped around the JSON object. Upstream models are not trusted to
// return bare JSON.
func extractJSONObject(s string) string {
	clean := strings.TrimSpace(s)
	clean = strings.ReplaceAll(clean, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")

	start := strings.Index(clean, "{")
	end := strings.LastIndex(clean, "}")
	if start != -1 && end != -1 && end > start {
		clean = clean[start : end+1]
	}
	return strings.TrimSpace(clean)
}

// GenerateQuestionForCard asks the model for one question of the requested
// type. Low temperature and a bounded token budget bias the model toward
// correctness over creativity. Any error here is recoverable by the caller
// via heuristic generation for the same card.
func (s *AIService) GenerateQuestionForCard(ctx context.Context, card model.Flashcard, allCards []model.Flashcard, quizType string) (*GeneratedQuestion, error) {
	if !s.Available() {
		return nil, util.ErrAIUnavailable
	}

	prompt, err := questionPrompt(card, allCards, quizType)
	if err != nil {
		return nil, err
	}

	messages := []AIChatMessage{
		{Role: "system", Content: questionSystemPrompt},
		{Role: "user", Content: prompt},
	}

	content, err := s.chatCompletion(ctx, messages, 0.3, 800)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, util.ErrAIEmptyResponse
	}

	var payload aiQuestionPayload
	if err := json.Unmarshal([]byte(extractJSONObject(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIMalformedResponse, err)
	}

	if payload.Question == "" || payload.CorrectAnswer == "" {
		return nil, util.ErrAIInvalidStructure
	}

	// Models occasionally echo the correct answer among the distractors.
	wrong := make([]string, 0, len(payload.WrongAnswers))
	for _, w := range payload.WrongAnswers {
		if w != payload.CorrectAnswer {
			wrong = append(wrong, w)
		}
	}

	return &GeneratedQuestion{
		FlashcardID:   card.ID,
		QuestionText:  payload.Question,
		CorrectAnswer: payload.CorrectAnswer,
		WrongAnswers:  wrong,
	}, nil
}

// FlashcardDraft is a model-proposed card before persistence.
type FlashcardDraft struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

type aiFlashcardPayload struct {
	Flashcards []FlashcardDraft `json:"flashcards"`
}

// GenerateFlashcards turns pasted study text into term/definition pairs.
func (s *AIService) GenerateFlashcards(ctx context.Context, content string, numItems int) ([]FlashcardDraft, error) {
	if !s.Available() {
		return nil, util.ErrAIUnavailable
	}
	if numItems <= 0 {
		numItems = 5
	}

	system := fmt.Sprintf("You are an AI assistant that generates educational flashcards. "+
		"Generate %d flashcards (term and definition) based on the provided text. "+
		`Respond ONLY in JSON format like this: {"flashcards": [{"term": "...", "definition": "..."}]}`, numItems)

	messages := []AIChatMessage{
		{Role: "system", Content: system},
		{Role: "user", Content: fmt.Sprintf("Generate flashcards from the following text:\n\n%s", content)},
	}

	raw, err := s.chatCompletion(ctx, messages, 0.3, 2000)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(raw) == "" {
		return nil, util.ErrAIEmptyResponse
	}

	var payload aiFlashcardPayload
	if err := json.Unmarshal([]byte(extractJSONObject(raw)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", util.ErrAIMalformedResponse, err)
	}

	if len(payload.Flashcards) == 0 {
		return nil, util.ErrAIInvalidStructure
	}

	return payload.Flashcards, nil
}
