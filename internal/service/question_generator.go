package service

import (
	"fmt"
	"math/rand"
	"sync"

	"studysphere_backend/internal/model"
)

// QuestionGenerator is the deterministic fallback synthesizer. It never
// fails; every card yields a usable question. It is used both as the default
// generation path and as the per-card fallback when AI generation errors.
type QuestionGenerator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewQuestionGenerator takes its random source so tests can seed it.
func NewQuestionGenerator(rng *rand.Rand) *QuestionGenerator {
	return &QuestionGenerator{rng: rng}
}

// shuffled returns a Fisher-Yates shuffled copy, leaving the input intact.
func (g *QuestionGenerator) shuffled(cards []model.Flashcard) []model.Flashcard {
	out := make([]model.Flashcard, len(cards))
	copy(out, cards)

	g.mu.Lock()
	g.rng.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	g.mu.Unlock()

	return out
}

// SelectCards picks min(count, len(cards)) cards uniformly at random. Picks
// are independent of study history.
func (g *QuestionGenerator) SelectCards(cards []model.Flashcard, count int) []model.Flashcard {
	if count > len(cards) {
		count = len(cards)
	}
	if count < 0 {
		count = 0
	}
	return g.shuffled(cards)[:count]
}

// BuildQuestion synthesizes one question of the requested type from a card,
// sourcing multiple-choice distractors from the sibling cards.
func (g *QuestionGenerator) BuildQuestion(card model.Flashcard, allCards []model.Flashcard, quizType string) GeneratedQuestion {
	q := GeneratedQuestion{
		FlashcardID:  card.ID,
		WrongAnswers: []string{},
	}

	switch quizType {
	case model.QuizTypeMultipleChoice:
		q.QuestionText = fmt.Sprintf("What is the definition of %q?", card.Term)
		q.CorrectAnswer = card.Definition

		// Sibling cards may repeat a definition; a distractor must never
		// equal the correct answer or another distractor.
		seen := map[string]bool{card.Definition: true}
		others := make([]model.Flashcard, 0, len(allCards))
		for _, other := range allCards {
			if other.ID == card.ID || seen[other.Definition] {
				continue
			}
			seen[other.Definition] = true
			others = append(others, other)
		}
		for _, other := range g.SelectCards(others, 3) {
			q.WrongAnswers = append(q.WrongAnswers, other.Definition)
		}

	case model.QuizTypeTrueFalse:
		// Always a literally true statement; only the AI path produces
		// genuinely false ones.
		q.QuestionText = fmt.Sprintf("True or False: %q means %q", card.Term, card.Definition)
		q.CorrectAnswer = "True"
		q.WrongAnswers = []string{"False"}

	case model.QuizTypeFillBlank:
		q.QuestionText = fmt.Sprintf("Complete the definition: %q means ___", card.Term)
		q.CorrectAnswer = card.Definition

	default:
		q.QuestionText = fmt.Sprintf("What is the definition of %q?", card.Term)
		q.CorrectAnswer = card.Definition
	}

	return q
}
