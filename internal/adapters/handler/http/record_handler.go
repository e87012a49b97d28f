package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/core/services"
)

type RecordHandler struct {
	svc *services.RecordService
}

func NewRecordHandler(svc *services.RecordService) *RecordHandler {
	return &RecordHandler{
		svc: svc,
	}
}

// setDayRequest leaves a field untouched when it is omitted.
type setDayRequest struct {
	IsCompleted *bool   `json:"is_completed"`
	Note        *string `json:"note"`
	Version     int     `json:"version"`
}

type recordSyncResponse struct {
	Changes   []*domain.DayRecord `json:"changes"`
	Timestamp time.Time           `json:"timestamp"`
}

func (h *RecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	days := router.Group("/goals/:id/days")
	{
		days.GET("", h.List)
		days.GET("/:date", h.Get)
		days.PUT("/:date", h.Set)
		days.POST("/:date/toggle", h.Toggle)
		days.DELETE("/:date", h.Clear)
	}

	router.GET("/records/sync", h.Sync)
}

// Set godoc
// @Summary Set completion and note of one day
// @Tags records
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "Goal id"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Param body body setDayRequest true "Fields to change"
// @Success 200 {object} domain.DayRecord
// @Failure 400 {object} errorResponse
// @Failure 409 {object} errorResponse
// @Failure 422 {object} errorResponse
// @Router /goals/{id}/days/{date} [put]
func (h *RecordHandler) Set(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	var req setDayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.IsCompleted == nil && req.Note == nil {
		badRequest(c, "nothing to change: send is_completed and/or note")
		return
	}

	record, err := h.svc.SetDay(c.Request.Context(), services.SetDayInput{
		GoalID:      c.Param("id"),
		UserID:      userID,
		Date:        date,
		IsCompleted: req.IsCompleted,
		Note:        req.Note,
		Version:     req.Version,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Toggle godoc
// @Summary Flip the completion of one day
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} domain.DayRecord
// @Failure 422 {object} errorResponse
// @Router /goals/{id}/days/{date}/toggle [post]
func (h *RecordHandler) Toggle(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	record, err := h.svc.Toggle(c.Request.Context(), c.Param("id"), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// Get godoc
// @Summary Read one day
// @Description A day without a record is returned as not completed, version 0.
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 200 {object} domain.DayRecord
// @Router /goals/{id}/days/{date} [get]
func (h *RecordHandler) Get(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	goalID := c.Param("id")
	record, err := h.svc.Get(c.Request.Context(), goalID, userID, date)
	if errors.Is(err, domain.ErrRecordNotFound) {
		c.JSON(http.StatusOK, domain.DayRecord{GoalID: goalID, UserID: userID, Date: date})
		return
	}
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, record)
}

// List godoc
// @Summary Every record of a goal in date order
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param id path string true "Goal id"
// @Success 200 {array} domain.DayRecord
// @Router /goals/{id}/days [get]
func (h *RecordHandler) List(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	records, err := h.svc.List(c.Request.Context(), c.Param("id"), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, records)
}

// Clear godoc
// @Summary Remove the record of one day
// @Tags records
// @Security BearerAuth
// @Param id path string true "Goal id"
// @Param date path string true "Day (YYYY-MM-DD)"
// @Success 204
// @Failure 404 {object} errorResponse
// @Router /goals/{id}/days/{date} [delete]
func (h *RecordHandler) Clear(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	date, ok := dateParam(c, "date")
	if !ok {
		return
	}

	if err := h.svc.Clear(c.Request.Context(), c.Param("id"), userID, date); err != nil {
		handleError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Sync godoc
// @Summary Day records changed since the given time, deletions included
// @Tags records
// @Security BearerAuth
// @Produce json
// @Param since query string false "RFC3339 timestamp"
// @Success 200 {object} recordSyncResponse
// @Router /records/sync [get]
func (h *RecordHandler) Sync(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	since, ok := sinceQuery(c, "since")
	if !ok {
		return
	}

	deltas, err := h.svc.GetDelta(c.Request.Context(), userID, since)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, recordSyncResponse{
		Changes:   deltas,
		Timestamp: time.Now().UTC(),
	})
}
