package repository

import (
	"studysphere_backend/internal/model"

	"gorm.io/gorm"
)

type FlashcardRepository struct {
	DB *gorm.DB
}

func NewFlashcardRepository(db *gorm.DB) *FlashcardRepository {
	return &FlashcardRepository{DB: db}
}

func (r *FlashcardRepository) CreateSet(set *model.FlashcardSet) error {
	return r.DB.Create(set).Error
}

func (r *FlashcardRepository) FindSetByIDAndUser(id, userID string) (*model.FlashcardSet, error) {
	var set model.FlashcardSet
	err := r.DB.Where("id = ? AND user_id = ?", id, userID).First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

// FindVisibleSet resolves a set the caller may read: their own or a public one.
func (r *FlashcardRepository) FindVisibleSet(id, userID string) (*model.FlashcardSet, error) {
	var set model.FlashcardSet
	err := r.DB.Where("id = ? AND (user_id = ? OR is_public = ?)", id, userID, true).First(&set).Error
	if err != nil {
		return nil, err
	}
	return &set, nil
}

func (r *FlashcardRepository) ListSetsByUser(userID string) ([]model.FlashcardSet, error) {
	var sets []model.FlashcardSet
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Find(&sets).Error
	return sets, err
}

func (r *FlashcardRepository) UpdateSet(set *model.FlashcardSet) error {
	return r.DB.Save(set).Error
}

func (r *FlashcardRepository) DeleteSet(id string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("set_id = ?", id).Delete(&model.Flashcard{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.FlashcardSet{}, "id = ?", id).Error
	})
}

func (r *FlashcardRepository) CreateCard(card *model.Flashcard) error {
	return r.DB.Create(card).Error
}

func (r *FlashcardRepository) CreateCards(cards []model.Flashcard) error {
	if len(cards) == 0 {
		return nil
	}
	return r.DB.Create(&cards).Error
}

func (r *FlashcardRepository) FindCardByID(id string) (*model.Flashcard, error) {
	var card model.Flashcard
	err := r.DB.First(&card, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *FlashcardRepository) ListCardsBySet(setID string) ([]model.Flashcard, error) {
	var cards []model.Flashcard
	err := r.DB.Where("set_id = ?", setID).Order("created_at asc").Find(&cards).Error
	return cards, err
}

func (r *FlashcardRepository) UpdateCard(card *model.Flashcard) error {
	return r.DB.Save(card).Error
}

func (r *FlashcardRepository) DeleteCard(id string) error {
	return r.DB.Delete(&model.Flashcard{}, "id = ?", id).Error
}
