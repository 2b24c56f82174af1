package controller

import (
	"errors"

	"studysphere_backend/internal/service"
	"studysphere_backend/internal/util"

	"github.com/gin-gonic/gin"
)

const maxCoverSize = 5 << 20 // 5 MiB

type FlashcardController struct {
	Service *service.FlashcardService
}

func NewFlashcardController(svc *service.FlashcardService) *FlashcardController {
	return &FlashcardController{Service: svc}
}

// @Summary Create a flashcard set
// @Tags flashcard-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body service.CreateSetRequest true "set definition"
// @Success 201 {object} util.Response
// @Router /api/flashcard-sets [post]
func (c *FlashcardController) CreateSet(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CreateSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, err := c.Service.CreateSet(user.UserID(), req)
	if err != nil {
		util.LogInternalError(ctx, "failed to create flashcard set", err)
		return
	}

	util.Created(ctx, set)
}

// @Summary List the caller's flashcard sets
// @Tags flashcard-sets
// @Produce json
// @Security BearerAuth
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets [get]
func (c *FlashcardController) ListSets(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	sets, err := c.Service.ListSets(user.UserID())
	if err != nil {
		util.LogInternalError(ctx, "failed to list flashcard sets", err)
		return
	}

	util.Success(ctx, sets)
}

// @Summary Get a flashcard set with its cards
// @Tags flashcard-sets
// @Produce json
// @Param id path string true "set id"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id} [get]
func (c *FlashcardController) GetSet(ctx *gin.Context) {
	userID := ""
	if user := util.GetUserFromContext(ctx); user != nil {
		userID = user.UserID()
	}

	set, err := c.Service.GetSet(userID, ctx.Param("id"))
	if err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to get flashcard set", err)
		}
		return
	}

	util.Success(ctx, set)
}

// @Summary Update a flashcard set
// @Tags flashcard-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Param body body service.UpdateSetRequest true "fields to update"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id} [put]
func (c *FlashcardController) UpdateSet(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.UpdateSetRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	set, err := c.Service.UpdateSet(user.UserID(), ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to update flashcard set", err)
		}
		return
	}

	util.Success(ctx, set)
}

// @Summary Delete a flashcard set and its cards
// @Tags flashcard-sets
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id} [delete]
func (c *FlashcardController) DeleteSet(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteSet(user.UserID(), ctx.Param("id")); err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to delete flashcard set", err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "flashcard set deleted"})
}

// @Summary Upload a cover image for a set
// @Tags flashcard-sets
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Param cover formData file true "cover image"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id}/cover [post]
func (c *FlashcardController) UploadCover(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("cover")
	if err != nil {
		util.BadRequest(ctx, "cover file is required")
		return
	}
	if file.Size > maxCoverSize {
		util.BadRequest(ctx, "cover file too large")
		return
	}

	src, err := file.Open()
	if err != nil {
		util.LogInternalError(ctx, "failed to read upload", err)
		return
	}
	defer src.Close()

	set, err := c.Service.UploadCover(ctx.Request.Context(), user.UserID(), ctx.Param("id"),
		file.Filename, src, file.Size, file.Header.Get("Content-Type"))
	if err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to upload cover", err)
		}
		return
	}

	util.Success(ctx, set)
}

// @Summary Add a card to a set
// @Tags flashcard-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Param body body service.CardRequest true "card content"
// @Success 201 {object} util.Response
// @Router /api/flashcard-sets/{id}/cards [post]
func (c *FlashcardController) AddCard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.Service.AddCard(user.UserID(), ctx.Param("id"), req)
	if err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to add card", err)
		}
		return
	}

	util.Created(ctx, card)
}

// @Summary Update a card
// @Tags flashcard-sets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Param cardId path string true "card id"
// @Param body body service.CardRequest true "card content"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id}/cards/{cardId} [put]
func (c *FlashcardController) UpdateCard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	var req service.CardRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	card, err := c.Service.UpdateCard(user.UserID(), ctx.Param("id"), ctx.Param("cardId"), req)
	if err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to update card", err)
		}
		return
	}

	util.Success(ctx, card)
}

// @Summary Delete a card
// @Tags flashcard-sets
// @Produce json
// @Security BearerAuth
// @Param id path string true "set id"
// @Param cardId path string true "card id"
// @Success 200 {object} util.Response
// @Router /api/flashcard-sets/{id}/cards/{cardId} [delete]
func (c *FlashcardController) DeleteCard(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.Service.DeleteCard(user.UserID(), ctx.Param("id"), ctx.Param("cardId")); err != nil {
		if errors.Is(err, util.ErrSetNotFound) {
			util.NotFound(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, "failed to delete card", err)
		}
		return
	}

	util.Success(ctx, gin.H{"message": "card deleted"})
}
