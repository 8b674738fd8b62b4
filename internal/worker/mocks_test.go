package worker

import (
	"context"
	"sync"

	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/models"
)

// MockWarmer records warmed clans
type MockWarmer struct {
	mu       sync.Mutex
	Warmed   []string
	WarmFunc func(ctx context.Context, clanTag string) error
}

func (m *MockWarmer) Warm(ctx context.Context, clanTag string) error {
	m.mu.Lock()
	m.Warmed = append(m.Warmed, clanTag)
	m.mu.Unlock()
	if m.WarmFunc != nil {
		return m.WarmFunc(ctx, clanTag)
	}
	return nil
}

func (m *MockWarmer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Warmed)
}

type MockWarStatsService struct {
	GetClanHitrateFunc   func(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error)
	GetPlayerHitrateFunc func(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error)
}

func (m *MockWarStatsService) GetClanHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error) {
	if m.GetClanHitrateFunc != nil {
		return m.GetClanHitrateFunc(ctx, q)
	}
	return &models.HitrateReport{}, nil
}

func (m *MockWarStatsService) GetPlayerHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error) {
	if m.GetPlayerHitrateFunc != nil {
		return m.GetPlayerHitrateFunc(ctx, q)
	}
	return &models.HitrateReport{}, nil
}

type MockCWLService struct {
	GetGroupRankingFunc   func(ctx context.Context, clanTag, season string) (*models.CWLRanking, error)
	GetRankingHistoryFunc func(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error)
}

func (m *MockCWLService) GetGroupRanking(ctx context.Context, clanTag, season string) (*models.CWLRanking, error) {
	if m.GetGroupRankingFunc != nil {
		return m.GetGroupRankingFunc(ctx, clanTag, season)
	}
	return nil, logic.ErrNotFound
}

func (m *MockCWLService) GetRankingHistory(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error) {
	if m.GetRankingHistoryFunc != nil {
		return m.GetRankingHistoryFunc(ctx, clanTag)
	}
	return []models.CWLRankingHistoryEntry{}, nil
}

type MockJoinLeaveService struct {
	GetJoinLeaveFunc      func(ctx context.Context, q models.JoinLeaveQuery) (*models.JoinLeaveResponse, error)
	GetJoinLeavePairsFunc func(ctx context.Context, q models.JoinLeaveQuery, direction string) ([]models.JoinLeaveEvent, error)
}

func (m *MockJoinLeaveService) GetJoinLeave(ctx context.Context, q models.JoinLeaveQuery) (*models.JoinLeaveResponse, error) {
	if m.GetJoinLeaveFunc != nil {
		return m.GetJoinLeaveFunc(ctx, q)
	}
	return &models.JoinLeaveResponse{}, nil
}

func (m *MockJoinLeaveService) GetJoinLeavePairs(ctx context.Context, q models.JoinLeaveQuery, direction string) ([]models.JoinLeaveEvent, error) {
	if m.GetJoinLeavePairsFunc != nil {
		return m.GetJoinLeavePairsFunc(ctx, q, direction)
	}
	return nil, nil
}

type MockRaidService struct {
	GetClanRaidsFunc func(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error)
}

func (m *MockRaidService) GetClanRaids(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error) {
	if m.GetClanRaidsFunc != nil {
		return m.GetClanRaidsFunc(ctx, q)
	}
	return nil, logic.ErrNotFound
}
