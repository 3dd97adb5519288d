package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/http/response"
	"github.com/yungbote/leettrack-backend/internal/services"
)

type ProblemHandler struct {
	daily services.DailyProblemService
}

func NewProblemHandler(daily services.DailyProblemService) *ProblemHandler {
	return &ProblemHandler{daily: daily}
}

// GET /problems/problem-of-the-day
func (h *ProblemHandler) GetProblemOfTheDay(c *gin.Context) {
	view, err := h.daily.GetProblemOfTheDayView(c.Request.Context())
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}
