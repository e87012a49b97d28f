package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/dot-goal-journal/internal/core/services"
)

// JournalHandler serves the read-only views derived from a goal and its
// ledger.
type JournalHandler struct {
	svc *services.JournalService
}

func NewJournalHandler(svc *services.JournalService) *JournalHandler {
	return &JournalHandler{svc: svc}
}

func (h *JournalHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/goals/:id/timeline", h.Timeline)
	router.GET("/goals/:id/stats", h.Stats)
	router.GET("/goals/:id/grid", h.Grid)
	router.GET("/overview", h.Overview)
}

// Timeline godoc
// @Summary Every day of the goal in order
// @Tags journal
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {array} domain.Day
// @Router /goals/{id}/timeline [get]
func (h *JournalHandler) Timeline(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	days, err := h.svc.Timeline(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// Stats godoc
// @Summary Progress statistics of a goal
// @Tags journal
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Param today query string false "Override today (YYYY-MM-DD)"
// @Success 200 {object} domain.DerivedStats
// @Router /goals/{id}/stats [get]
func (h *JournalHandler) Stats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	stats, err := h.svc.Stats(c.Request.Context(), c.Param("id"), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// Grid godoc
// @Summary Month-by-week grid of a goal
// @Tags journal
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Param today query string false "Override today (YYYY-MM-DD)"
// @Success 200 {object} domain.Grid
// @Router /goals/{id}/grid [get]
func (h *JournalHandler) Grid(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	grid, err := h.svc.Grid(c.Request.Context(), c.Param("id"), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, grid)
}

// Overview godoc
// @Summary Statistics of every active goal
// @Tags journal
// @Security BearerAuth
// @Produce json
// @Param today query string false "Override today (YYYY-MM-DD)"
// @Success 200 {array} domain.GoalSummary
// @Router /overview [get]
func (h *JournalHandler) Overview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	today, ok := todayQuery(c)
	if !ok {
		return
	}

	summaries, err := h.svc.Overview(c.Request.Context(), userID, today)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, summaries)
}
