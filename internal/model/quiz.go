package model

const (
	QuizTypeMultipleChoice = "multiple_choice"
	QuizTypeTrueFalse      = "true_false"
	QuizTypeFillBlank      = "fill_blank"
)

// MinFlashcards is the hard floor below which a set cannot produce a quiz.
const MinFlashcards = 3

func ValidQuizType(t string) bool {
	switch t {
	case QuizTypeMultipleChoice, QuizTypeTrueFalse, QuizTypeFillBlank:
		return true
	}
	return false
}

// swagger:model Quiz
type Quiz struct {
	UUIDBase
	UserID         string `gorm:"index;type:varchar(36)" json:"user_id"`
	FlashcardSetID string `gorm:"index;type:varchar(36)" json:"flashcard_set_id"`
	Title          string `gorm:"size:255;not null" json:"title"`
	Description    string `gorm:"type:text" json:"description"`
	QuizType       string `gorm:"size:20;default:'multiple_choice'" json:"quiz_type"`
	QuestionCount  int    `gorm:"default:10" json:"question_count"`
	TimeLimit      *int   `json:"time_limit"`
	IsPublic       bool   `gorm:"default:false" json:"is_public"`

	Questions []QuizQuestion `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

// QuizQuestion rows are replaced wholesale on regeneration: a quiz holds
// exactly one generation of questions at a time.
//
// swagger:model QuizQuestion
type QuizQuestion struct {
	UUIDBase
	QuizID        string   `gorm:"index;type:varchar(36)" json:"quiz_id"`
	FlashcardID   string   `gorm:"type:varchar(36)" json:"flashcard_id"`
	QuestionText  string   `gorm:"type:text;not null" json:"question_text"`
	CorrectAnswer string   `gorm:"type:text;not null" json:"correct_answer"`
	WrongAnswers  []string `gorm:"serializer:json;type:jsonb" json:"wrong_answers"`
	QuestionType  string   `gorm:"size:20" json:"question_type"`
	Points        int      `gorm:"default:1" json:"points"`
	OrderIndex    int      `json:"order_index"`
}

func (QuizQuestion) TableName() string {
	return "quiz_questions"
}
