package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/core/services"
)

type GoalHandler struct {
	svc *services.GoalService
}

func NewGoalHandler(svc *services.GoalService) *GoalHandler {
	return &GoalHandler{
		svc: svc,
	}
}

type createGoalRequest struct {
	Title       string        `json:"title" binding:"required"`
	Description string        `json:"description"`
	Color       string        `json:"color"`
	StartDate   calendar.Date `json:"start_date" swaggertype:"string" example:"2024-01-01"`
	EndDate     calendar.Date `json:"end_date" swaggertype:"string" example:"2024-03-31"`
	SortOrder   int           `json:"sort_order"`
}

// updateGoalRequest leaves empty fields unchanged.
type updateGoalRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Color       string        `json:"color"`
	StartDate   calendar.Date `json:"start_date" swaggertype:"string"`
	EndDate     calendar.Date `json:"end_date" swaggertype:"string"`
	SortOrder   *int          `json:"sort_order"`
	Version     int           `json:"version"`
}

type goalSyncResponse struct {
	Changes   []*domain.Goal `json:"changes"`
	Timestamp time.Time      `json:"timestamp"`
}

func (h *GoalHandler) RegisterRoutes(router *gin.RouterGroup) {
	goals := router.Group("/goals")
	{
		goals.POST("", h.Create)
		goals.GET("", h.List)
		goals.GET("/sync", h.Sync)
		goals.GET("/:id", h.Get)
		goals.PUT("/:id", h.Update)
		goals.DELETE("/:id", h.Delete)

		goals.POST("/:id/archive", h.lifecycle(h.svc.Archive))
		goals.POST("/:id/restore", h.lifecycle(h.svc.Restore))
		goals.POST("/:id/complete", h.lifecycle(h.svc.Complete))
		goals.POST("/:id/reopen", h.lifecycle(h.svc.Reopen))
	}
}

// Create godoc
// @Summary Create a goal
// @Tags goals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body createGoalRequest true "Goal"
// @Success 201 {object} domain.Goal
// @Failure 400 {object} errorResponse
// @Router /goals [post]
func (h *GoalHandler) Create(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	goal, err := h.svc.Create(c.Request.Context(), services.CreateGoalInput{
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		SortOrder:   req.SortOrder,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// List godoc
// @Summary List goals
// @Tags goals
// @Security BearerAuth
// @Produce json
// @Param archived query bool false "List archived goals instead of active ones"
// @Success 200 {array} domain.Goal
// @Router /goals [get]
func (h *GoalHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	archived := false
	if raw := c.Query("archived"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			badRequest(c, "archived must be a boolean")
			return
		}
		archived = parsed
	}

	goals, err := h.svc.List(c.Request.Context(), userID, archived)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, goals)
}

// Sync godoc
// @Summary Goals changed since the last sync, deletions included
// @Tags goals
// @Security BearerAuth
// @Produce json
// @Param last_sync query string false "RFC3339 timestamp"
// @Success 200 {object} goalSyncResponse
// @Router /goals/sync [get]
func (h *GoalHandler) Sync(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	lastSync, ok := sinceQuery(c, "last_sync")
	if !ok {
		return
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, lastSync)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, goalSyncResponse{
		Changes:   deltas,
		Timestamp: time.Now().UTC(),
	})
}

// Get godoc
// @Summary Get a goal
// @Tags goals
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {object} domain.Goal
// @Failure 404 {object} errorResponse
// @Router /goals/{id} [get]
func (h *GoalHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	goal, err := h.svc.GetByID(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Update godoc
// @Summary Update a goal
// @Description Send the version you read; a stale version answers 409.
// @Tags goals
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Goal id"
// @Param body body updateGoalRequest true "Changed fields"
// @Success 200 {object} domain.Goal
// @Failure 409 {object} errorResponse
// @Router /goals/{id} [put]
func (h *GoalHandler) Update(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req updateGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	goal, err := h.svc.Update(c.Request.Context(), services.UpdateGoalInput{
		ID:          c.Param("id"),
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Color:       req.Color,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		SortOrder:   req.SortOrder,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, goal)
}

// Delete godoc
// @Summary Delete a goal
// @Tags goals
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /goals/{id} [delete]
func (h *GoalHandler) Delete(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), userID); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type lifecycleFunc func(ctx context.Context, id, userID string) (*domain.Goal, error)

func (h *GoalHandler) lifecycle(apply lifecycleFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireUser(c)
		if !ok {
			return
		}

		goal, err := apply(c.Request.Context(), c.Param("id"), userID)
		if err != nil {
			handleError(c, err)
			return
		}
		c.JSON(http.StatusOK, goal)
	}
}

// sinceQuery parses an optional RFC3339 timestamp; absent means the zero
// time, i.e. a full sync.
func sinceQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		badRequest(c, "invalid "+name+" format, use RFC3339")
		return time.Time{}, false
	}
	return t, true
}
