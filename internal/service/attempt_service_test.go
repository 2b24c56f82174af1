package service

import (
	"testing"
	"time"

	"studysphere_backend/internal/model"
)

func question(id, correct string, points int) model.QuizQuestion {
	return model.QuizQuestion{
		UUIDBase:      model.UUIDBase{ID: id},
		CorrectAnswer: correct,
		Points:        points,
	}
}

func TestScoreAnswers(t *testing.T) {
	questions := []model.QuizQuestion{
		question("q1", "Paris", 1),
		question("q2", "Berlin", 1),
	}

	score, total := scoreAnswers(questions, map[string]string{
		"q1": "Paris",
		"q2": "London",
	})
	if score != 1 || total != 2 {
		t.Errorf("score/total = %d/%d, want 1/2", score, total)
	}
}

func TestScoreAnswersIsCaseSensitive(t *testing.T) {
	questions := []model.QuizQuestion{question("q1", "Paris", 1)}

	score, _ := scoreAnswers(questions, map[string]string{"q1": "paris"})
	if score != 0 {
		t.Errorf("grading must use exact string equality, got score %d", score)
	}
}

func TestScoreAnswersUnansweredAndUnknown(t *testing.T) {
	questions := []model.QuizQuestion{
		question("q1", "A", 1),
		question("q2", "B", 2),
	}

	// q2 unanswered, q9 does not belong to the quiz.
	score, total := scoreAnswers(questions, map[string]string{
		"q1": "A",
		"q9": "B",
	})
	if score != 1 || total != 3 {
		t.Errorf("score/total = %d/%d, want 1/3", score, total)
	}
}

func TestPercentage(t *testing.T) {
	tests := []struct {
		score, total int
		want         float64
	}{
		{1, 2, 50},
		{2, 3, 66.67},
		{1, 3, 33.33},
		{3, 3, 100},
		{0, 5, 0},
		{0, 0, 0},
	}

	for _, tt := range tests {
		if got := percentage(tt.score, tt.total); got != tt.want {
			t.Errorf("percentage(%d, %d) = %v, want %v", tt.score, tt.total, got, tt.want)
		}
	}
}

func completedAttempt(pct float64, completedAt time.Time) model.QuizAttempt {
	return model.QuizAttempt{
		Percentage:  pct,
		IsCompleted: true,
		CompletedAt: &completedAt,
	}
}

func TestSummarize(t *testing.T) {
	now := time.Now()
	t1, t2 := 120, 45
	attempts := []model.QuizAttempt{
		completedAttempt(80, now.Add(-2*time.Hour)),
		completedAttempt(60, now.Add(-1*time.Hour)),
	}
	attempts[0].TimeTaken = &t1
	attempts[1].TimeTaken = &t2

	stats := summarize(attempts)

	if stats.TotalAttempts != 2 {
		t.Errorf("total = %d, want 2", stats.TotalAttempts)
	}
	if stats.AverageScore != 70 {
		t.Errorf("average = %v, want 70", stats.AverageScore)
	}
	if stats.BestScore != 80 {
		t.Errorf("best = %v, want 80", stats.BestScore)
	}
	if stats.TotalTimeStudied != 165 {
		t.Errorf("total time studied = %d, want 165", stats.TotalTimeStudied)
	}
	if len(stats.RecentActivity) != 2 {
		t.Fatalf("recent activity length = %d, want 2", len(stats.RecentActivity))
	}
	// Most recent first.
	if stats.RecentActivity[0].Percentage != 60 {
		t.Errorf("recent activity not ordered by completion time, first = %v", stats.RecentActivity[0].Percentage)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	stats := summarize(nil)

	if stats.TotalAttempts != 0 || stats.AverageScore != 0 || stats.BestScore != 0 {
		t.Errorf("empty stats = %+v", stats)
	}
	if stats.RecentActivity == nil {
		t.Error("recent activity should be an empty slice, not nil")
	}
}

func TestSummarizeCapsRecentActivity(t *testing.T) {
	now := time.Now()
	var attempts []model.QuizAttempt
	for i := 0; i < 15; i++ {
		attempts = append(attempts, completedAttempt(float64(i), now.Add(-time.Duration(i)*time.Minute)))
	}

	stats := summarize(attempts)

	if stats.TotalAttempts != 15 {
		t.Errorf("total = %d, want 15", stats.TotalAttempts)
	}
	if len(stats.RecentActivity) != 10 {
		t.Errorf("recent activity length = %d, want 10", len(stats.RecentActivity))
	}
	// i=0 completed most recently.
	if stats.RecentActivity[0].Percentage != 0 {
		t.Errorf("first recent attempt percentage = %v, want 0", stats.RecentActivity[0].Percentage)
	}
}
