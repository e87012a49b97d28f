package services_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/alecgard/dot-goal-journal/internal/core/calendar"
	"github.com/alecgard/dot-goal-journal/internal/core/domain"
)

type MockGoalRepo struct {
	mock.Mock
}

func (m *MockGoalRepo) Create(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepo) GetByID(ctx context.Context, id string) (*domain.Goal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

func (m *MockGoalRepo) Update(ctx context.Context, goal *domain.Goal) error {
	return m.Called(ctx, goal).Error(0)
}

func (m *MockGoalRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockGoalRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.Goal, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Goal), args.Error(1)
}

type MockRecordRepo struct {
	mock.Mock
}

func (m *MockRecordRepo) Upsert(ctx context.Context, record *domain.DayRecord) error {
	return m.Called(ctx, record).Error(0)
}

func (m *MockRecordRepo) Get(ctx context.Context, goalID string, date calendar.Date) (*domain.DayRecord, error) {
	args := m.Called(ctx, goalID, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) ListByGoalID(ctx context.Context, goalID string) ([]*domain.DayRecord, error) {
	args := m.Called(ctx, goalID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DayRecord), args.Error(1)
}

func (m *MockRecordRepo) Delete(ctx context.Context, goalID string, date calendar.Date, userID string) error {
	return m.Called(ctx, goalID, date, userID).Error(0)
}

func (m *MockRecordRepo) GetChanges(ctx context.Context, userID string, since time.Time) ([]*domain.DayRecord, error) {
	args := m.Called(ctx, userID, since)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.DayRecord), args.Error(1)
}

type MockCache struct {
	mock.Mock
}

func (m *MockCache) Load(ctx context.Context, key string, dest any) (bool, error) {
	args := m.Called(ctx, key, dest)
	return args.Bool(0), args.Error(1)
}

func (m *MockCache) Store(ctx context.Context, key string, value any) error {
	return m.Called(ctx, key, value).Error(0)
}

type recordingObserver struct {
	goals []string
}

func (o *recordingObserver) Enqueue(goalID string) {
	o.goals = append(o.goals, goalID)
}

func d(s string) calendar.Date {
	return calendar.MustParse(s)
}

func ptr[T any](v T) *T {
	return &v
}
