package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/leettrack-backend/internal/domain"
	"github.com/yungbote/leettrack-backend/internal/http/response"
	"github.com/yungbote/leettrack-backend/internal/services"
)

type UserStatsHandler struct {
	stats services.UserStatsService
}

func NewUserStatsHandler(stats services.UserStatsService) *UserStatsHandler {
	return &UserStatsHandler{stats: stats}
}

// GET /user/:userId/stats
func (h *UserStatsHandler) GetStats(c *gin.Context) {
	view, err := h.stats.GetStatsView(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}

// GetDifficulty serves GET /user/:userId/easy|medium|hard.
func (h *UserStatsHandler) GetDifficulty(d domain.Difficulty) gin.HandlerFunc {
	return func(c *gin.Context) {
		view, err := h.stats.GetDifficultyView(c.Request.Context(), c.Param("userId"), d)
		if err != nil {
			response.RespondServiceError(c, err)
			return
		}
		response.RespondOK(c, view)
	}
}

// GET /user/:userId/recent-submissions
func (h *UserStatsHandler) GetRecentSubmissions(c *gin.Context) {
	view, err := h.stats.GetRecentSubmissions(c.Request.Context(), c.Param("userId"))
	if err != nil {
		response.RespondServiceError(c, err)
		return
	}
	response.RespondOK(c, view)
}
