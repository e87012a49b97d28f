package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

var (
	_ domain.GoalRepository      = (*InMemoryGoalRepository)(nil)
	_ domain.DayRecordRepository = (*InMemoryRecordRepository)(nil)
	_ domain.UserRepository      = (*InMemoryUserRepository)(nil)
)

// The in-memory stores hand out copies, so callers mutating a returned value
// never bypass the version check.

type InMemoryGoalRepository struct {
	store map[string]*domain.Goal

	mu sync.RWMutex
}

func NewInMemoryGoalRepository() *InMemoryGoalRepository {
	return &InMemoryGoalRepository{
		store: make(map[string]*domain.Goal),
	}
}

func cloneGoal(g *domain.Goal) *domain.Goal {
	c := *g
	if g.DeletedAt != nil {
		t := *g.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func (r *InMemoryGoalRepository) Create(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.store[goal.ID]; ok {
		return domain.ErrGoalConflict
	}

	goal.Version = 1
	r.store[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *InMemoryGoalRepository) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.store[id]
	if !ok || g.DeletedAt != nil {
		return nil, domain.ErrGoalNotFound
	}
	return cloneGoal(g), nil
}

func (r *InMemoryGoalRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := []*domain.Goal{}
	for _, g := range r.store {
		if g.UserID == userID && g.DeletedAt == nil {
			goals = append(goals, cloneGoal(g))
		}
	}

	sort.Slice(goals, func(i, j int) bool {
		if goals[i].SortOrder != goals[j].SortOrder {
			return goals[i].SortOrder < goals[j].SortOrder
		}
		return goals[i].CreatedAt.After(goals[j].CreatedAt)
	})

	return goals, nil
}

func (r *InMemoryGoalRepository) Update(ctx context.Context, goal *domain.Goal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.store[goal.ID]
	if !ok || stored.DeletedAt != nil {
		return domain.ErrGoalNotFound
	}
	if stored.Version != goal.Version {
		return domain.ErrGoalConflict
	}

	goal.Version++
	goal.UpdatedAt = time.Now().UTC()
	goal.DeletedAt = nil
	r.store[goal.ID] = cloneGoal(goal)
	return nil
}

func (r *InMemoryGoalRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	g, ok := r.store[id]
	if !ok || g.DeletedAt != nil {
		return domain.ErrGoalNotFound
	}

	now := time.Now().UTC()
	g.DeletedAt = &now
	g.UpdatedAt = now
	g.Version++
	return nil
}

func (r *InMemoryGoalRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	goals := []*domain.Goal{}
	for _, g := range r.store {
		if g.UserID == userID && g.UpdatedAt.After(since) {
			goals = append(goals, cloneGoal(g))
		}
	}

	sort.Slice(goals, func(i, j int) bool {
		return goals[i].UpdatedAt.Before(goals[j].UpdatedAt)
	})
	return goals, nil
}

type recordKey struct {
	goalID string
	date   calendar.Date
}

type InMemoryRecordRepository struct {
	store map[recordKey]*domain.DayRecord
	goals domain.GoalRepository

	mu sync.RWMutex
}

// NewInMemoryRecordRepository checks goal existence through goals when it is
// not nil, mirroring the foreign key of the Postgres schema.
func NewInMemoryRecordRepository(goals domain.GoalRepository) *InMemoryRecordRepository {
	return &InMemoryRecordRepository{
		store: make(map[recordKey]*domain.DayRecord),
		goals: goals,
	}
}

func cloneRecord(rec *domain.DayRecord) *domain.DayRecord {
	c := *rec
	if rec.CompletedAt != nil {
		t := *rec.CompletedAt
		c.CompletedAt = &t
	}
	if rec.DeletedAt != nil {
		t := *rec.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

func (r *InMemoryRecordRepository) Upsert(ctx context.Context, rec *domain.DayRecord) error {
	if r.goals != nil {
		if _, err := r.goals.GetByID(ctx, rec.GoalID); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := recordKey{goalID: rec.GoalID, date: rec.Date}
	stored, exists := r.store[key]
	now := time.Now().UTC()

	if rec.ID == "" {
		switch {
		case !exists:
			rec.ID = uuid.NewString()
			rec.Version = 1
			rec.CreatedAt = now
		case stored.DeletedAt != nil:
			rec.ID = stored.ID
			rec.Version = stored.Version + 1
			rec.CreatedAt = stored.CreatedAt
		default:
			return domain.ErrRecordConflict
		}
	} else {
		if !exists || stored.DeletedAt != nil || stored.ID != rec.ID {
			return domain.ErrRecordNotFound
		}
		if stored.Version != rec.Version {
			return domain.ErrRecordConflict
		}
		rec.Version++
	}

	rec.UpdatedAt = now
	rec.DeletedAt = nil
	r.store[key] = cloneRecord(rec)
	return nil
}

func (r *InMemoryRecordRepository) Get(ctx context.Context, goalID string, date calendar.Date) (*domain.DayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.store[recordKey{goalID: goalID, date: date}]
	if !ok || rec.DeletedAt != nil {
		return nil, domain.ErrRecordNotFound
	}
	return cloneRecord(rec), nil
}

func (r *InMemoryRecordRepository) ListByGoalID(ctx context.Context, goalID string) ([]*domain.DayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []*domain.DayRecord{}
	for _, rec := range r.store {
		if rec.GoalID == goalID && rec.DeletedAt == nil {
			records = append(records, cloneRecord(rec))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].Date.Before(records[j].Date)
	})
	return records, nil
}

func (r *InMemoryRecordRepository) Delete(ctx context.Context, goalID string, date calendar.Date, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.store[recordKey{goalID: goalID, date: date}]
	if !ok || rec.DeletedAt != nil || rec.UserID != userID {
		return domain.ErrRecordNotFound
	}

	now := time.Now().UTC()
	rec.DeletedAt = &now
	rec.UpdatedAt = now
	rec.Version++
	return nil
}

func (r *InMemoryRecordRepository) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DayRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []*domain.DayRecord{}
	for _, rec := range r.store {
		if rec.UserID == userID && rec.UpdatedAt.After(since) {
			records = append(records, cloneRecord(rec))
		}
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].UpdatedAt.Before(records[j].UpdatedAt)
	})
	return records, nil
}

type InMemoryUserRepository struct {
	byID    map[string]*domain.User
	byEmail map[string]string

	mu sync.RWMutex
}

func NewInMemoryUserRepository() *InMemoryUserRepository {
	return &InMemoryUserRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *InMemoryUserRepository) Create(ctx context.Context, user *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.byEmail[user.Email]; taken {
		return domain.ErrEmailAlreadyExists
	}

	c := *user
	r.byID[user.ID] = &c
	r.byEmail[user.Email] = user.ID
	return nil
}

func (r *InMemoryUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	id, ok := r.byEmail[email]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *InMemoryUserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	c := *u
	return &c, nil
}

func (r *InMemoryUserRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, ok := r.byID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(r.byEmail, u.Email)
	delete(r.byID, id)
	return nil
}
