package logic

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cocstats/stats-api/internal/models"
)

// MockWarStore records every filter it is asked for
type MockWarStore struct {
	mu             sync.Mutex
	Filters        []WarFilter
	FindWarsFunc   func(ctx context.Context, f WarFilter) ([]models.War, error)
	FindByTagsFunc func(ctx context.Context, season string, warTags []string) ([]models.War, error)
}

func (m *MockWarStore) FindWars(ctx context.Context, f WarFilter) ([]models.War, error) {
	m.mu.Lock()
	m.Filters = append(m.Filters, f)
	m.mu.Unlock()
	if m.FindWarsFunc != nil {
		return m.FindWarsFunc(ctx, f)
	}
	return nil, nil
}

func (m *MockWarStore) FindWarsByTags(ctx context.Context, season string, warTags []string) ([]models.War, error) {
	if m.FindByTagsFunc != nil {
		return m.FindByTagsFunc(ctx, season, warTags)
	}
	return nil, nil
}

func (m *MockWarStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Filters)
}

type MockCWLStore struct {
	FindGroupsFunc    func(ctx context.Context, clanTag string) ([]models.CWLGroup, error)
	FindGroupFunc     func(ctx context.Context, clanTag, season string) (*models.CWLGroup, error)
	LeagueChangesFunc func(ctx context.Context, clanTag string) (map[string]string, error)
}

func (m *MockCWLStore) FindGroups(ctx context.Context, clanTag string) ([]models.CWLGroup, error) {
	if m.FindGroupsFunc != nil {
		return m.FindGroupsFunc(ctx, clanTag)
	}
	return nil, nil
}

func (m *MockCWLStore) FindGroup(ctx context.Context, clanTag, season string) (*models.CWLGroup, error) {
	if m.FindGroupFunc != nil {
		return m.FindGroupFunc(ctx, clanTag, season)
	}
	return nil, nil
}

func (m *MockCWLStore) LeagueChanges(ctx context.Context, clanTag string) (map[string]string, error) {
	if m.LeagueChangesFunc != nil {
		return m.LeagueChangesFunc(ctx, clanTag)
	}
	return map[string]string{}, nil
}

type MockJoinLeaveStore struct {
	FindEventsFunc func(ctx context.Context, clanTag string, start, end time.Time, limit int) ([]models.JoinLeaveEvent, error)
}

func (m *MockJoinLeaveStore) FindEvents(ctx context.Context, clanTag string, start, end time.Time, limit int) ([]models.JoinLeaveEvent, error) {
	if m.FindEventsFunc != nil {
		return m.FindEventsFunc(ctx, clanTag, start, end, limit)
	}
	return nil, nil
}

type MockRaidSource struct {
	mu              sync.Mutex
	Called          int
	RaidSeasonsFunc func(ctx context.Context, clanTag string, limit int) ([]models.RaidSeason, error)
}

func (m *MockRaidSource) RaidSeasons(ctx context.Context, clanTag string, limit int) ([]models.RaidSeason, error) {
	m.mu.Lock()
	m.Called++
	m.mu.Unlock()
	if m.RaidSeasonsFunc != nil {
		return m.RaidSeasonsFunc(ctx, clanTag, limit)
	}
	return nil, nil
}

// MockCache is an in-memory Cache that reports misses the way Redis does
type MockCache struct {
	mu   sync.Mutex
	data map[string][]byte
	Sets int
}

func NewMockCache() *MockCache {
	return &MockCache{data: make(map[string][]byte)}
}

func (m *MockCache) Get(ctx context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	if !ok {
		return nil, redis.Nil
	}
	return v, nil
}

func (m *MockCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	m.Sets++
	return nil
}
