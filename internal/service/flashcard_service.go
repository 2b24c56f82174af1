package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"studysphere_backend/internal/model"
	"studysphere_backend/internal/repository"
	"studysphere_backend/internal/util"

	"gorm.io/gorm"
)

type FlashcardService struct {
	repo    *repository.FlashcardRepository
	ai      *AIService
	storage *StorageService
}

func NewFlashcardService(repo *repository.FlashcardRepository, ai *AIService, storage *StorageService) *FlashcardService {
	return &FlashcardService{repo: repo, ai: ai, storage: storage}
}

type CreateSetRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	IsPublic    bool   `json:"is_public"`
}

type UpdateSetRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	IsPublic    *bool  `json:"is_public"`
}

type CardRequest struct {
	Term       string `json:"term" binding:"required"`
	Definition string `json:"definition" binding:"required"`
}

type GenerateFlashcardsRequest struct {
	Content  string `json:"content" binding:"required"`
	NumItems int    `json:"num_items"`
}

func (s *FlashcardService) CreateSet(userID string, req CreateSetRequest) (*model.FlashcardSet, error) {
	set := &model.FlashcardSet{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		IsPublic:    req.IsPublic,
	}
	if err := s.repo.CreateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

// GetSet returns a visible set with its cards loaded in creation order.
func (s *FlashcardService) GetSet(userID, setID string) (*model.FlashcardSet, error) {
	set, err := s.repo.FindVisibleSet(setID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSetNotFound
		}
		return nil, err
	}

	cards, err := s.repo.ListCardsBySet(setID)
	if err != nil {
		return nil, err
	}
	set.Flashcards = cards
	return set, nil
}

func (s *FlashcardService) ListSets(userID string) ([]model.FlashcardSet, error) {
	return s.repo.ListSetsByUser(userID)
}

func (s *FlashcardService) UpdateSet(userID, setID string, req UpdateSetRequest) (*model.FlashcardSet, error) {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return nil, err
	}

	if req.Title != "" {
		set.Title = req.Title
	}
	if req.Description != "" {
		set.Description = req.Description
	}
	if req.IsPublic != nil {
		set.IsPublic = *req.IsPublic
	}

	if err := s.repo.UpdateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *FlashcardService) DeleteSet(userID, setID string) error {
	if _, err := s.ownedSet(userID, setID); err != nil {
		return err
	}
	return s.repo.DeleteSet(setID)
}

// UploadCover stores a cover image and records its URL on the set.
func (s *FlashcardService) UploadCover(ctx context.Context, userID, setID, originalName string, reader io.Reader, size int64, contentType string) (*model.FlashcardSet, error) {
	set, err := s.ownedSet(userID, setID)
	if err != nil {
		return nil, err
	}

	filename := fmt.Sprintf("covers/%s_%d%s", setID, time.Now().Unix(), filepath.Ext(originalName))
	url, err := s.storage.Upload(ctx, filename, reader, size, contentType)
	if err != nil {
		return nil, err
	}

	set.CoverURL = url
	if err := s.repo.UpdateSet(set); err != nil {
		return nil, err
	}
	return set, nil
}

func (s *FlashcardService) AddCard(userID, setID string, req CardRequest) (*model.Flashcard, error) {
	if _, err := s.ownedSet(userID, setID); err != nil {
		return nil, err
	}

	card := &model.Flashcard{
		SetID:      setID,
		Term:       req.Term,
		Definition: req.Definition,
	}
	if err := s.repo.CreateCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FlashcardService) UpdateCard(userID, setID, cardID string, req CardRequest) (*model.Flashcard, error) {
	if _, err := s.ownedSet(userID, setID); err != nil {
		return nil, err
	}

	card, err := s.repo.FindCardByID(cardID)
	if err != nil || card.SetID != setID {
		return nil, util.ErrSetNotFound
	}

	card.Term = req.Term
	card.Definition = req.Definition
	if err := s.repo.UpdateCard(card); err != nil {
		return nil, err
	}
	return card, nil
}

func (s *FlashcardService) DeleteCard(userID, setID, cardID string) error {
	if _, err := s.ownedSet(userID, setID); err != nil {
		return err
	}

	card, err := s.repo.FindCardByID(cardID)
	if err != nil || card.SetID != setID {
		return util.ErrSetNotFound
	}
	return s.repo.DeleteCard(cardID)
}

// GenerateFlashcardsFromText asks the AI to draft cards from pasted study
// material and inserts them into the set.
func (s *FlashcardService) GenerateFlashcardsFromText(ctx context.Context, userID, setID string, req GenerateFlashcardsRequest) ([]model.Flashcard, error) {
	if _, err := s.ownedSet(userID, setID); err != nil {
		return nil, err
	}

	drafts, err := s.ai.GenerateFlashcards(ctx, req.Content, req.NumItems)
	if err != nil {
		return nil, err
	}

	cards := make([]model.Flashcard, 0, len(drafts))
	for _, d := range drafts {
		if d.Term == "" || d.Definition == "" {
			continue
		}
		cards = append(cards, model.Flashcard{
			SetID:      setID,
			Term:       d.Term,
			Definition: d.Definition,
		})
	}
	if len(cards) == 0 {
		return nil, util.ErrAIInvalidStructure
	}

	if err := s.repo.CreateCards(cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (s *FlashcardService) ownedSet(userID, setID string) (*model.FlashcardSet, error) {
	set, err := s.repo.FindSetByIDAndUser(setID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrSetNotFound
		}
		return nil, err
	}
	return set, nil
}
