package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campuskit/school-service/internal/services"
)

// LeaderboardHandler serves per-class score rankings.
type LeaderboardHandler struct {
	BaseHandler
	leaderboard *services.LeaderboardService
}

func NewLeaderboardHandler(base BaseHandler, leaderboard *services.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{BaseHandler: base, leaderboard: leaderboard}
}

func (h *LeaderboardHandler) ForClass(c *gin.Context) {
	classID := c.Param("classId")
	if classID == "" {
		h.reject(c, http.StatusBadRequest, "class id is required")
		return
	}

	entries, err := h.leaderboard.ForClass(c.Request.Context(), classID)
	if err != nil {
		h.Fail(c, err, "")
		return
	}
	h.OK(c, "class leaderboard", entries)
}
