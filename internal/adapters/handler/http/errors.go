package http

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alecgard/dot-goal-journal/internal/adapters/handler/http/middleware"
	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

var badRequestErrors = []error{
	calendar.ErrInvalidDate,
	domain.ErrGoalTitleEmpty,
	domain.ErrGoalTitleTooLong,
	domain.ErrGoalDescTooLong,
	domain.ErrGoalInvalidUserID,
	domain.ErrInvalidColor,
	domain.ErrGoalTooLong,
	domain.ErrNoteTooLong,
	domain.ErrInvalidRecord,
	domain.ErrInvalidEmail,
	domain.ErrPasswordTooShort,
}

var unprocessableErrors = []error{
	domain.ErrGoalArchived,
	domain.ErrDateOutsideGoal,
	domain.ErrFutureDate,
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// handleError maps domain errors to a status code. Anything unknown is
// logged and answered with a generic 500.
func handleError(c *gin.Context, err error) {
	switch {
	case isAny(err, badRequestErrors):
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	case isAny(err, unprocessableErrors):
		c.JSON(http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "invalid credentials"})
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, errorResponse{Error: "access denied"})
	case errors.Is(err, domain.ErrGoalNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "goal not found"})
	case errors.Is(err, domain.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "day record not found"})
	case errors.Is(err, domain.ErrUserNotFound):
		c.JSON(http.StatusNotFound, errorResponse{Error: "user not found"})
	case errors.Is(err, domain.ErrEmailAlreadyExists):
		c.JSON(http.StatusConflict, errorResponse{Error: "email already exists"})
	case errors.Is(err, domain.ErrGoalConflict), errors.Is(err, domain.ErrRecordConflict):
		c.JSON(http.StatusConflict, errorResponse{
			Error:   "version conflict",
			Message: "Data has been modified elsewhere. Please sync.",
		})
	default:
		log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.FullPath(), err)
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, errorResponse{Error: msg})
}

// requireUser reads the id the auth middleware stored. It answers 401 itself
// when there is none.
func requireUser(c *gin.Context) (string, bool) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errorResponse{Error: "unauthorized"})
		return "", false
	}
	return userID, true
}

// dateParam parses a YYYY-MM-DD path parameter.
func dateParam(c *gin.Context, name string) (calendar.Date, bool) {
	d, err := calendar.Parse(c.Param(name))
	if err != nil {
		handleError(c, err)
		return calendar.Date{}, false
	}
	return d, true
}

// todayQuery returns the optional ?today= override; a zero date means "use
// the server clock".
func todayQuery(c *gin.Context) (calendar.Date, bool) {
	raw := c.Query("today")
	if raw == "" {
		return calendar.Date{}, true
	}
	d, err := calendar.Parse(raw)
	if err != nil {
		handleError(c, err)
		return calendar.Date{}, false
	}
	return d, true
}
