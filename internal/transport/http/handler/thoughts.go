package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ponder/internal/app"
	"ponder/internal/transport/http/middleware"
	"ponder/internal/transport/http/response"
)

type ThoughtHandler struct {
	thoughtService *app.ThoughtService
}

type CreateThoughtRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

type UpdateThoughtRequest struct {
	Content string `json:"content" binding:"required"`
}

func NewThoughtHandler(thoughtService *app.ThoughtService) *ThoughtHandler {
	return &ThoughtHandler{thoughtService: thoughtService}
}

func (h *ThoughtHandler) ListByQuestion(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	entries, err := h.thoughtService.ListByQuestion(c.Param("questionId"), userID)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid question id")
		default:
			response.Error(c, http.StatusInternalServerError, "list thoughts failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, entries)
}

func (h *ThoughtHandler) Create(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req CreateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "question id and content are required")
		return
	}

	entry, err := h.thoughtService.Create(app.CreateThoughtInput{
		QuestionID: req.QuestionID,
		UserID:     userID,
		Content:    req.Content,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "question id and content are required")
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "create thought failed")
		}
		return
	}
	response.JSON(c, http.StatusCreated, entry)
}

func (h *ThoughtHandler) Update(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	var req UpdateThoughtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "content is required")
		return
	}

	entry, err := h.thoughtService.Update(c.Param("id"), userID, req.Content)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "content is required")
		case errors.Is(err, app.ErrThoughtNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update thought failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, entry)
}

func (h *ThoughtHandler) Delete(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "invalid token payload")
		return
	}

	if err := h.thoughtService.Delete(c.Param("id"), userID); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid thought id")
		case errors.Is(err, app.ErrThoughtNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "delete thought failed")
		}
		return
	}
	c.Status(http.StatusNoContent)
}
