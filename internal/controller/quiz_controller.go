package controller

import (
	"errors"
	"io"

	"studysphere_backend/internal/service"
	"studysphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	Service *service.QuizService
}

func NewQuizController(svc *service.QuizService) *QuizController {
	return &QuizController{Service: svc}
}

// @Summary Create a quiz from a flashcard set
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateQuizRequest true "quiz definition"
// @Success 201 {object} util.Response
// @Router /api/quizzes [post]
func (c *QuizController) Create(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.CreateQuiz(ctx.Request.Context(), user.UserID(), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrSetNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInsufficientFlashcards),
			errors.Is(err, util.ErrInvalidQuestionCount),
			errors.Is(err, util.ErrInvalidQuizType):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to create quiz", err)
		}
		return
	}

	util.Created(ctx, quiz)
}

// @Summary List the caller's quizzes
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quizzes [get]
func (c *QuizController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizzes, err := c.Service.ListQuizzes(user.UserID())
	if err != nil {
		util.LogInternalError(ctx, "failed to list quizzes", err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary List public quizzes
// @Tags quizzes
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/quizzes/public [get]
func (c *QuizController) ListPublic(ctx *gin.Context) {
	quizzes, err := c.Service.ListPublicQuizzes(ctx.Request.Context())
	if err != nil {
		util.LogInternalError(ctx, "failed to list public quizzes", err)
		return
	}

	util.Success(ctx, quizzes)
}

// @Summary Get a quiz with its questions
// @Tags quizzes
// @Produce json
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [get]
func (c *QuizController) Get(ctx *gin.Context) {
	userID := ""
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID()
	}

	quiz, err := c.Service.GetQuiz(userID, ctx.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to get quiz", err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Update a quiz
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Param body body service.UpdateQuizRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [put]
func (c *QuizController) Update(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	quiz, err := c.Service.UpdateQuiz(ctx.Request.Context(), user.UserID(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInvalidQuestionCount), errors.Is(err, util.ErrInvalidQuizType):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to update quiz", err)
		}
		return
	}

	util.Success(ctx, quiz)
}

// @Summary Delete a quiz and its questions
// @Tags quizzes
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id} [delete]
func (c *QuizController) Delete(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteQuiz(ctx.Request.Context(), user.UserID(), ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrQuizNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to delete quiz", err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "quiz deleted"})
}

type regenerateRequest struct {
	UseAIGeneration bool `json:"use_ai_generation"`
}

// @Summary Regenerate a quiz's questions
// @Tags quizzes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "quiz id"
// @Success 200 {object} util.Response
// @Router /api/quizzes/{id}/regenerate [post]
func (c *QuizController) Regenerate(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	// The body is optional; an absent one means heuristic generation.
	var req regenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	err := c.Service.RegenerateQuiz(ctx.Request.Context(), user.UserID(), ctx.Param("id"), req.UseAIGeneration)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrInsufficientFlashcards):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to regenerate quiz", err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "questions regenerated"})
}
