package model

// swagger:model FlashcardSet
type FlashcardSet struct {
	UUIDBase
	UserID      string `gorm:"index;type:varchar(36)" json:"user_id"`
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	IsPublic    bool   `gorm:"default:false" json:"is_public"`
	CoverURL    string `gorm:"size:512" json:"cover_url"`

	Flashcards []Flashcard `gorm:"foreignKey:SetID" json:"flashcards,omitempty"`
}

func (FlashcardSet) TableName() string {
	return "flashcard_sets"
}

// Flashcard is the source material questions are synthesized from. Generated
// questions keep their own copy of the text, so editing a card does not
// retroactively change quizzes built from it.
//
// swagger:model Flashcard
type Flashcard struct {
	UUIDBase
	SetID      string `gorm:"index;type:varchar(36)" json:"set_id"`
	Term       string `gorm:"type:text;not null" json:"term"`
	Definition string `gorm:"type:text;not null" json:"definition"`
}

func (Flashcard) TableName() string {
	return "flashcards"
}
