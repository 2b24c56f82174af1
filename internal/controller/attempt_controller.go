package controller

import (
	"errors"
	"strconv"

	"studysphere_backend/internal/service"
	"studysphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AttemptController struct {
	Service *service.AttemptService
}

func NewAttemptController(svc *service.AttemptService) *AttemptController {
	return &AttemptController{Service: svc}
}

type startAttemptRequest struct {
	QuizID string `json:"quiz_id" binding:"required"`
}

// @Summary Start a quiz attempt
// @Tags quiz-attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body startAttemptRequest true "quiz to attempt"
// @Success 201 {object} util.Response
// @Router /api/quiz-attempts [post]
func (c *AttemptController) Start(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req startAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.StartAttempt(user.UserID(), req.QuizID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAccessDenied):
			util.Forbidden(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to start attempt", err)
		}
		return
	}

	util.Created(ctx, attempt)
}

// @Summary List the caller's attempts
// @Tags quiz-attempts
// @Produce json
// @Security BearerAuth
// @Param quiz_id query string false "filter by quiz"
// @Param limit query int false "page size"
// @Param offset query int false "page offset"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts [get]
func (c *AttemptController) List(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.Query("limit"))
	offset, _ := strconv.Atoi(ctx.Query("offset"))

	attempts, err := c.Service.ListAttempts(user.UserID(), ctx.Query("quiz_id"), limit, offset)
	if err != nil {
		util.LogInternalError(ctx, "failed to list attempts", err)
		return
	}

	util.Success(ctx, attempts)
}

// @Summary Get one attempt
// @Tags quiz-attempts
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{id} [get]
func (c *AttemptController) Get(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	attempt, err := c.Service.GetAttempt(user.UserID(), ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to get attempt", err)
		}
		return
	}

	util.Success(ctx, attempt)
}

type saveProgressRequest struct {
	Answers     map[string]string `json:"answers"`
	TimeTaken   *int              `json:"time_taken"`
	IsCompleted bool              `json:"is_completed"`
}

// @Summary Save attempt progress
// @Tags quiz-attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Param body body saveProgressRequest true "partial answers"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{id} [put]
func (c *AttemptController) SaveProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req saveProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.SaveProgress(ctx.Request.Context(), user.UserID(), ctx.Param("id"),
		service.SaveProgressRequest{Answers: req.Answers, TimeTaken: req.TimeTaken}, req.IsCompleted)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to save progress", err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// @Summary Submit and score an attempt
// @Tags quiz-attempts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "attempt id"
// @Param body body service.SubmitAttemptRequest true "final answers"
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/{id}/submit [post]
func (c *AttemptController) Submit(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.SubmitAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.Service.Submit(ctx.Request.Context(), user.UserID(), ctx.Param("id"), req)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrAttemptNotFound):
			util.NotFound(ctx, err.Error())
		case errors.Is(err, util.ErrAttemptAlreadyCompleted):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, "failed to submit attempt", err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// @Summary Attempt statistics for the caller
// @Tags quiz-attempts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/quiz-attempts/stats/summary [get]
func (c *AttemptController) Summary(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Service.Summary(ctx.Request.Context(), user.UserID())
	if err != nil {
		util.LogInternalError(ctx, "failed to compute stats", err)
		return
	}

	util.Success(ctx, stats)
}
