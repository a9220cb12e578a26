package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"ponder/internal/app"
	"ponder/internal/transport/http/response"
)

type SeriesHandler struct {
	seriesService *app.SeriesService
}

type CreateSeriesRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Color       string `json:"color"`
}

type UpdateSeriesRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Icon        *string `json:"icon"`
	Color       *string `json:"color"`
}

type AddQuestionRequest struct {
	QuestionID string `json:"questionId" binding:"required"`
	OrderIndex int    `json:"orderIndex"`
}

type UpdateOrderRequest struct {
	QuestionOrders []app.QuestionOrder `json:"questionOrders" binding:"required"`
}

func NewSeriesHandler(seriesService *app.SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesService: seriesService}
}

func (h *SeriesHandler) List(c *gin.Context) {
	series, err := h.seriesService.List()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "list series failed")
		return
	}
	response.JSON(c, http.StatusOK, series)
}

func (h *SeriesHandler) GetByID(c *gin.Context) {
	series, err := h.seriesService.GetByID(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid series id")
		default:
			response.Error(c, http.StatusInternalServerError, "get series failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, series)
}

func (h *SeriesHandler) Create(c *gin.Context) {
	var req CreateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "series name is required")
		return
	}

	series, err := h.seriesService.Create(app.CreateSeriesInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "series name is required")
		default:
			response.Error(c, http.StatusInternalServerError, "create series failed")
		}
		return
	}
	response.JSON(c, http.StatusCreated, series)
}

func (h *SeriesHandler) Update(c *gin.Context) {
	var req UpdateSeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "invalid request payload")
		return
	}

	series, err := h.seriesService.Update(c.Param("id"), app.UpdateSeriesInput{
		Name:        req.Name,
		Description: req.Description,
		Icon:        req.Icon,
		Color:       req.Color,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		case errors.Is(err, app.ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update series failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, series)
}

func (h *SeriesHandler) Delete(c *gin.Context) {
	if err := h.seriesService.Delete(c.Param("id")); err != nil {
		switch {
		case errors.Is(err, app.ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid series id")
		default:
			response.Error(c, http.StatusInternalServerError, "delete series failed")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SeriesHandler) ListQuestions(c *gin.Context) {
	memberships, err := h.seriesService.ListQuestions(c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, app.ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid series id")
		default:
			response.Error(c, http.StatusInternalServerError, "list series questions failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, memberships)
}

func (h *SeriesHandler) AddQuestion(c *gin.Context) {
	var req AddQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "question id is required")
		return
	}

	membership, err := h.seriesService.AddQuestion(app.AddQuestionInput{
		SeriesID:   c.Param("id"),
		QuestionID: req.QuestionID,
		OrderIndex: req.OrderIndex,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request payload")
		case errors.Is(err, app.ErrSeriesNotFound), errors.Is(err, app.ErrQuestionNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrMembershipExists), errors.Is(err, app.ErrOrderConflict):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "add question to series failed")
		}
		return
	}
	response.JSON(c, http.StatusCreated, membership)
}

func (h *SeriesHandler) RemoveQuestion(c *gin.Context) {
	if err := h.seriesService.RemoveQuestion(c.Param("id"), c.Param("questionId")); err != nil {
		switch {
		case errors.Is(err, app.ErrMembershipNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid request")
		default:
			response.Error(c, http.StatusInternalServerError, "remove question from series failed")
		}
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *SeriesHandler) UpdateOrder(c *gin.Context) {
	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "question orders are required")
		return
	}

	if err := h.seriesService.UpdateOrder(c.Param("id"), req.QuestionOrders); err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, "invalid question order payload")
		case errors.Is(err, app.ErrSeriesNotFound):
			response.Error(c, http.StatusNotFound, err.Error())
		case errors.Is(err, app.ErrOrderConflict):
			response.Error(c, http.StatusConflict, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, "update question order failed")
		}
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"message": "order updated"})
}
