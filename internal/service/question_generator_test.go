package service

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"studysphere_backend/internal/model"
)

func makeCards(n int) []model.Flashcard {
	cards := make([]model.Flashcard, n)
	for i := range cards {
		cards[i] = model.Flashcard{
			UUIDBase:   model.UUIDBase{ID: fmt.Sprintf("card-%d", i)},
			SetID:      "set-1",
			Term:       fmt.Sprintf("term-%d", i),
			Definition: fmt.Sprintf("definition-%d", i),
		}
	}
	return cards
}

func TestSelectCardsClampsToAvailable(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(1)))
	cards := makeCards(5)

	if got := g.SelectCards(cards, 10); len(got) != 5 {
		t.Errorf("expected 5 cards when asking for 10 of 5, got %d", len(got))
	}
	if got := g.SelectCards(cards, 3); len(got) != 3 {
		t.Errorf("expected 3 cards, got %d", len(got))
	}
	if got := g.SelectCards(cards, 0); len(got) != 0 {
		t.Errorf("expected 0 cards, got %d", len(got))
	}
}

func TestSelectCardsDoesNotMutateInput(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(2)))
	cards := makeCards(8)

	original := make([]model.Flashcard, len(cards))
	copy(original, cards)

	g.SelectCards(cards, 8)

	for i := range cards {
		if cards[i].ID != original[i].ID {
			t.Fatalf("input slice mutated at index %d", i)
		}
	}
}

func TestSelectCardsDeterministicWithSeed(t *testing.T) {
	cards := makeCards(10)

	a := NewQuestionGenerator(rand.New(rand.NewSource(42))).SelectCards(cards, 10)
	b := NewQuestionGenerator(rand.New(rand.NewSource(42))).SelectCards(cards, 10)

	for i := range a {
		if a[i].ID != b[i].ID {
			t.Fatalf("same seed produced different orders at index %d: %s vs %s", i, a[i].ID, b[i].ID)
		}
	}
}

func TestBuildQuestionMultipleChoice(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(3)))
	cards := makeCards(6)

	q := g.BuildQuestion(cards[0], cards, model.QuizTypeMultipleChoice)

	if q.FlashcardID != cards[0].ID {
		t.Errorf("flashcard id = %q, want %q", q.FlashcardID, cards[0].ID)
	}
	if !strings.Contains(q.QuestionText, cards[0].Term) {
		t.Errorf("question %q does not mention the term", q.QuestionText)
	}
	if q.CorrectAnswer != cards[0].Definition {
		t.Errorf("correct answer = %q, want %q", q.CorrectAnswer, cards[0].Definition)
	}
	if len(q.WrongAnswers) != 3 {
		t.Fatalf("expected 3 distractors, got %d", len(q.WrongAnswers))
	}

	seen := map[string]bool{}
	for _, w := range q.WrongAnswers {
		if w == q.CorrectAnswer {
			t.Errorf("distractor equals the correct answer: %q", w)
		}
		if seen[w] {
			t.Errorf("duplicate distractor: %q", w)
		}
		seen[w] = true
	}
}

func TestBuildQuestionMultipleChoiceDuplicateDefinitions(t *testing.T) {
	cards := []model.Flashcard{
		{UUIDBase: model.UUIDBase{ID: "c1"}, Term: "TCP", Definition: "a protocol"},
		{UUIDBase: model.UUIDBase{ID: "c2"}, Term: "UDP", Definition: "a protocol"},
		{UUIDBase: model.UUIDBase{ID: "c3"}, Term: "IP", Definition: "an address scheme"},
		{UUIDBase: model.UUIDBase{ID: "c4"}, Term: "DNS", Definition: "a name service"},
	}

	// Every seed must respect the invariant, not just a lucky shuffle.
	for seed := int64(0); seed < 20; seed++ {
		g := NewQuestionGenerator(rand.New(rand.NewSource(seed)))
		q := g.BuildQuestion(cards[0], cards, model.QuizTypeMultipleChoice)

		seen := map[string]bool{}
		for _, w := range q.WrongAnswers {
			if w == q.CorrectAnswer {
				t.Fatalf("seed %d: distractor %q equals correct answer", seed, w)
			}
			if seen[w] {
				t.Fatalf("seed %d: duplicate distractor %q", seed, w)
			}
			seen[w] = true
		}
		// c2 shares the correct definition, so only c3 and c4 qualify.
		if len(q.WrongAnswers) != 2 {
			t.Fatalf("seed %d: expected 2 distractors, got %d", seed, len(q.WrongAnswers))
		}
	}
}

func TestBuildQuestionMultipleChoiceSmallSet(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(4)))
	cards := makeCards(3)

	q := g.BuildQuestion(cards[0], cards, model.QuizTypeMultipleChoice)

	// Only two sibling cards exist so only two distractors are possible.
	if len(q.WrongAnswers) != 2 {
		t.Errorf("expected 2 distractors from a 3-card set, got %d", len(q.WrongAnswers))
	}
}

func TestBuildQuestionTrueFalse(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(5)))
	cards := makeCards(4)

	q := g.BuildQuestion(cards[1], cards, model.QuizTypeTrueFalse)

	if q.CorrectAnswer != "True" {
		t.Errorf("heuristic true/false must always be true, got %q", q.CorrectAnswer)
	}
	if len(q.WrongAnswers) != 1 || q.WrongAnswers[0] != "False" {
		t.Errorf("wrong answers = %v, want [False]", q.WrongAnswers)
	}
	if !strings.Contains(q.QuestionText, cards[1].Term) || !strings.Contains(q.QuestionText, cards[1].Definition) {
		t.Errorf("statement %q should contain both term and definition", q.QuestionText)
	}
}

func TestBuildQuestionFillBlank(t *testing.T) {
	g := NewQuestionGenerator(rand.New(rand.NewSource(6)))
	cards := makeCards(4)

	q := g.BuildQuestion(cards[2], cards, model.QuizTypeFillBlank)

	if q.CorrectAnswer != cards[2].Definition {
		t.Errorf("correct answer = %q, want the definition", q.CorrectAnswer)
	}
	if len(q.WrongAnswers) != 0 {
		t.Errorf("fill-in-the-blank should have no distractors, got %v", q.WrongAnswers)
	}
	if q.WrongAnswers == nil {
		t.Error("wrong answers should be an empty slice, not nil")
	}
}
