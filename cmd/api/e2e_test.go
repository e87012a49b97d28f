package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alecgard/dot-goal-journal/internal/config"
	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

type authResponse struct {
	Token string `json:"token"`
}

func testConfig(storage string) config.Config {
	cfg := config.Load()
	cfg.Storage = storage
	cfg.Timezone = "UTC"
	cfg.Redis.Enabled = false
	cfg.AutoMigrate = true
	cfg.JWTSecret = "e2e-secret"
	return cfg
}

func call(t *testing.T, router *gin.Engine, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func runGoalLifecycle(t *testing.T, router *gin.Engine, email string) {
	today := calendar.TodayIn(time.UTC)
	start := today.AddDays(-3)
	end := today.AddDays(3)

	var token, goalID string

	t.Run("1. Register and login", func(t *testing.T) {
		creds := `{"email": "` + email + `", "password": "dots-every-day"}`

		w := call(t, router, http.MethodPost, "/api/v1/auth/register", "", creds)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = call(t, router, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp authResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotEmpty(t, resp.Token)
		token = resp.Token
	})

	t.Run("2. Create goal", func(t *testing.T) {
		require.NotEmpty(t, token, "Login step failed")

		payload := `{"title": "Stretch", "start_date": "` + start.String() + `", "end_date": "` + end.String() + `"}`
		w := call(t, router, http.MethodPost, "/api/v1/goals", token, payload)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var goal domain.Goal
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goal))
		assert.NotEmpty(t, goal.ID)
		goalID = goal.ID
	})

	t.Run("3. Mark days", func(t *testing.T) {
		require.NotEmpty(t, goalID, "Create step failed")

		for _, d := range []calendar.Date{start, start.AddDays(1), today} {
			w := call(t, router, http.MethodPost, "/api/v1/goals/"+goalID+"/days/"+d.String()+"/toggle", token, "")
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}

		w := call(t, router, http.MethodPost, "/api/v1/goals/"+goalID+"/days/"+today.AddDays(1).String()+"/toggle", token, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code, "Future days cannot be completed")
	})

	t.Run("4. Stats reflect the ledger", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/goals/"+goalID+"/stats", token, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats domain.DerivedStats
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
		assert.Equal(t, today.String(), stats.Today)
		assert.Equal(t, 7, stats.TotalDays)
		assert.Equal(t, 3, stats.TotalCompleted)
		assert.Equal(t, 1, stats.TotalMissed)
		assert.Equal(t, 1, stats.CurrentStreak)
		assert.Equal(t, 2, stats.LongestStreak)
		assert.False(t, stats.TodayPending)
	})

	t.Run("5. Grid holds every day once", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/goals/"+goalID+"/grid", token, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var grid domain.Grid
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &grid))

		count := 0
		for _, row := range grid.Rows {
			for _, b := range row.Cells {
				if b != nil {
					count += b.RealDays()
				}
			}
		}
		assert.Equal(t, 7, count)
	})

	t.Run("6. Delete goal", func(t *testing.T) {
		w := call(t, router, http.MethodDelete, "/api/v1/goals/"+goalID, token, "")
		assert.Equal(t, http.StatusNoContent, w.Code)

		w = call(t, router, http.MethodGet, "/api/v1/goals/"+goalID, token, "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("7. Auth error", func(t *testing.T) {
		w := call(t, router, http.MethodGet, "/api/v1/goals", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestEndToEnd_MemoryStorage(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(ctx, testConfig(config.StorageMemory))
	require.NoError(t, err)
	defer app.Close()

	runGoalLifecycle(t, app.router, "e2e-memory@example.com")
}

func TestEndToEnd_Postgres(t *testing.T) {
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := newApp(ctx, testConfig(config.StoragePostgres))
	if err != nil {
		t.Skipf("Skipping e2e test: database unreachable: %v", err)
	}
	defer app.Close()

	_, err = app.db.Exec("TRUNCATE TABLE day_records, goals, users CASCADE")
	require.NoError(t, err, "Failed to truncate tables")

	runGoalLifecycle(t, app.router, "e2e-postgres@example.com")
}

func TestNewApp_BadTimezone(t *testing.T) {
	cfg := testConfig(config.StorageMemory)
	cfg.Timezone = "Mars/Olympus_Mons"

	_, err := newApp(context.Background(), cfg)
	assert.Error(t, err)
}
