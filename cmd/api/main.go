package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/alecgard/dot-goal-journal/internal/adapters/cache"
	adapterHTTP "github.com/alecgard/dot-goal-journal/internal/adapters/handler/http"
	"github.com/alecgard/dot-goal-journal/internal/adapters/repository"
	"github.com/alecgard/dot-goal-journal/internal/config"
	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
	"github.com/alecgard/dot-goal-journal/internal/core/services"
	"github.com/alecgard/dot-goal-journal/internal/core/workers"
)

// @title           Dot Goal Journal API
// @version         1.0
// @description     Date-bounded goals tracked one dot per day.

// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	application, err := newApp(ctx, cfg)
	if err != nil {
		log.Fatalf("Critical: %v", err)
	}
	defer application.Close()

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      application.router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Printf("Dot Goal Journal running on http://localhost:%s (storage: %s)", cfg.Port, cfg.Storage)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Critical server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("Stop signal received. Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Forced shutdown error:", err)
	}

	log.Println("Server stopped gracefully.")
}

type app struct {
	router *gin.Engine
	db     *sqlx.DB
	rdb    *redis.Client
}

func (a *app) Close() {
	if a.rdb != nil {
		a.rdb.Close()
	}
	if a.db != nil {
		a.db.Close()
	}
}

type stores struct {
	goals   domain.GoalRepository
	records domain.DayRecordRepository
	users   domain.UserRepository
}

// newApp wires storage, cache, worker, services and handlers. The stats
// worker runs until ctx is cancelled.
func newApp(ctx context.Context, cfg config.Config) (*app, error) {
	startTime := time.Now()

	loc, err := calendar.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("loading timezone %q: %w", cfg.Timezone, err)
	}
	clock := calendar.SystemClock(loc)

	a := &app{}
	var st stores

	switch cfg.Storage {
	case config.StorageMemory:
		log.Println("Using in-memory storage. Data is lost on restart.")
		goals := repository.NewInMemoryGoalRepository()
		st = stores{
			goals:   goals,
			records: repository.NewInMemoryRecordRepository(goals),
			users:   repository.NewInMemoryUserRepository(),
		}
	default:
		db, err := connectDB(ctx, cfg)
		if err != nil {
			return nil, err
		}
		a.db = db
		st = stores{
			goals:   repository.NewPostgresGoalRepository(db),
			records: repository.NewPostgresRecordRepository(db),
			users:   repository.NewPostgresUserRepository(db),
		}
	}

	var computeCache domain.ComputeCache
	if cfg.Redis.Enabled {
		rdb, err := cache.NewRedisClient(cfg.Redis)
		if err != nil {
			log.Printf("[CACHE] Redis unavailable, running without cache: %v", err)
		} else {
			log.Println("[CACHE] Redis connected.")
			a.rdb = rdb
			st.goals = repository.NewCachedGoalRepository(st.goals, rdb)
			computeCache = cache.NewRedisComputeCache(rdb, cfg.StatsCacheTTL)
		}
	}

	var observer services.LedgerObserver
	if computeCache != nil {
		worker := workers.NewStatsWorker(st.goals, st.records, computeCache, clock)
		worker.Start(ctx)
		observer = worker
	}

	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTTTL, st.users)
	authService := services.NewAuthService(st.users, tokenService)
	goalService := services.NewGoalService(st.goals)
	recordService := services.NewRecordService(st.records, st.goals, observer, clock)
	journalService := services.NewJournalService(st.goals, st.records, computeCache, clock)

	deps := adapterHTTP.RouterDependencies{
		AuthHandler:    adapterHTTP.NewAuthHandler(authService),
		GoalHandler:    adapterHTTP.NewGoalHandler(goalService),
		RecordHandler:  adapterHTTP.NewRecordHandler(recordService),
		JournalHandler: adapterHTTP.NewJournalHandler(journalService),
		Tokens:         tokenService,
		Redis:          a.rdb,
		RateLimit:      cfg.RateLimit,
		RateWindow:     cfg.RateWindow,
		StartTime:      startTime,
	}
	if a.db != nil {
		deps.DB = a.db
	}

	a.router = adapterHTTP.NewRouter(deps)
	return a, nil
}

func connectDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	log.Printf("Connecting to database (driver %s)...", cfg.DB.Driver)

	db, err := sqlx.ConnectContext(ctx, cfg.DB.Driver, cfg.DB.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if cfg.AutoMigrate {
		if err := repository.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
		log.Println("Database schema is up to date.")
	}

	log.Println("Database connected successfully.")
	return db, nil
}
