package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ponder/internal/app"
	"ponder/internal/transport/http/response"
)

// AdminHandler owns the write side of the question catalog. Admin routes
// are token-gated but not role-gated; any authenticated user may manage
// questions.
type AdminHandler struct {
	questionService *app.QuestionService
}

type CreateQuestionRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category"`
}

type UpdateQuestionRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
}

type BatchImportRequest struct {
	// Text holds one question per line: title|description|category.
	Text string `json:"text" binding:"required"`
}

type AIGenerateRequest struct {
	BaseURL   string `json:"baseUrl" binding:"required"`
	APIKey    string `json:"apiKey" binding:"required"`
	ModelName string `json:"modelName" binding:"required"`
	Prompt    string `json:"prompt" binding:"required"`
	Count     int    `json:"count" binding:"required,gt=0"`
}

func NewAdminHandler(questionService *app.QuestionService) *AdminHandler {
	return &AdminHandler{questionService: questionService}
}

func (h *AdminHandler) CreateQuestion(c *gin.Context) {
	var req CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "question title is required")
		return
	}

	question, err := h.questionService.Create(c.Request.Context(), app.CreateQuestionInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "question title is required")
		default:
			response.Error(c, http.StatusInternalServerError, "create question failed")
		}
		return
	}
	response.JSON(c, http.StatusCreated, question)
}

func (h *AdminHandler) UpdateQuestion(c *gin.Context) {
	var req UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	question, err := h.questionService.Update(c.Request.Context(), c.Param("id"), app.UpdateQuestionInput{
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update question failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, question)
}

func (h *AdminHandler) DeleteQuestion(c *gin.Context) {
	if err := h.questionService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		switch {
		case errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid question id")
		default:
			response.Error(c, http.StatusInternalServerError, "delete question failed")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *AdminHandler) BatchImport(c *gin.Context) {
	var req BatchImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "import text is required")
		return
	}

	result, err := h.questionService.BatchImport(c.Request.Context(), req.Text)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "no importable questions in the given text")
		default:
			response.Error(c, http.StatusInternalServerError, "batch import failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func (h *AdminHandler) AIGenerate(c *gin.Context) {
	var req AIGenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "baseUrl, apiKey, modelName, prompt and count are required")
		return
	}

	result, err := h.questionService.GenerateWithAI(c.Request.Context(), app.AIGenerateInput{
		BaseURL:   req.BaseURL,
		APIKey:    req.APIKey,
		ModelName: req.ModelName,
		Prompt:    req.Prompt,
		Count:     req.Count,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "baseUrl, apiKey, modelName, prompt and count are required")
		case errors.Is(err, app.ErrAIGeneration):
			// Upstream failure and unparsable output share one bucket.
			response.Error(c, http.StatusInternalServerError, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "ai generation failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, result)
}
