package controller

import (
	"errors"

	"studysphere_backend/internal/service"
	"studysphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AIController struct {
	Service    *service.AIService
	Flashcards *service.FlashcardService
}

func NewAIController(svc *service.AIService, flashcards *service.FlashcardService) *AIController {
	return &AIController{Service: svc, Flashcards: flashcards}
}

type chatRequest struct {
	Prompt  string                  `json:"prompt" binding:"required"`
	History []service.AIChatMessage `json:"history"`
}

// @Summary Chat with the study assistant
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body chatRequest true "prompt and optional history"
// @Success 200 {object} util.Response
// @Router /api/ai/chat [post]
func (c *AIController) Chat(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req chatRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	reply, err := c.Service.Chat(ctx.Request.Context(), req.Prompt, req.History)
	if err != nil {
		if errors.Is(err, util.ErrAIUnavailable) {
			util.Error(ctx, 503, "AI is not configured")
		} else {
			util.LogInternalError(ctx, "AI chat failed", err)
		}
		return
	}

	util.Success(ctx, gin.H{"reply": reply})
}

type generateFlashcardsRequest struct {
	SetID    string `json:"set_id" binding:"required"`
	Content  string `json:"content" binding:"required"`
	NumItems int    `json:"num_items"`
}

// @Summary Generate flashcards from pasted text
// @Tags ai
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body generateFlashcardsRequest true "target set and source text"
// @Success 201 {object} util.Response
// @Router /api/ai/flashcards [post]
func (c *AIController) GenerateFlashcards(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req generateFlashcardsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	cards, err := c.Flashcards.GenerateFlashcardsFromText(ctx.Request.Context(), user.UserID(), req.SetID,
		service.GenerateFlashcardsRequest{Content: req.Content, NumItems: req.NumItems})
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSetNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAIUnavailable):
			util.Error(ctx, 503, "AI generation is not configured")
		default:
			util.LogInternalError(ctx, "failed to generate flashcards", err)
		}
		return
	}

	util.Created(ctx, cards)
}
