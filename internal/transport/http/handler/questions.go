package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ponder/internal/app"
	"ponder/internal/transport/http/response"
)

type QuestionHandler struct {
	questionService *app.QuestionService
}

func NewQuestionHandler(questionService *app.QuestionService) *QuestionHandler {
	return &QuestionHandler{questionService: questionService}
}

// List returns the whole catalog; filtering and search happen client-side.
func (h *QuestionHandler) List(c *gin.Context) {
	questions, err := h.questionService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list questions failed")
		return
	}
	response.JSON(c, http.StatusOK, questions)
}

func (h *QuestionHandler) Categories(c *gin.Context) {
	categories, err := h.questionService.Categories()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list categories failed")
		return
	}
	response.JSON(c, http.StatusOK, categories)
}

func (h *QuestionHandler) GetByID(c *gin.Context) {
	question, err := h.questionService.GetByID(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid question id")
		default:
			response.Error(c, http.StatusInternalServerError, "get question failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, question)
}
