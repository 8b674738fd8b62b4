package handlers

import (
	"context"

	"github.com/google/uuid"

	"github.com/cocstats/stats-api/internal/models"
)

type MockRefreshQueue struct {
	EnqueueFunc func(clanTag string) (uuid.UUID, bool)
	Depth       int
}

func (m *MockRefreshQueue) Enqueue(clanTag string) (uuid.UUID, bool) {
	if m.EnqueueFunc != nil {
		return m.EnqueueFunc(clanTag)
	}
	return uuid.New(), true
}

func (m *MockRefreshQueue) QueueDepth() int { return m.Depth }

// MockWarStatsService
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

// MockCWLService
type MockCWLService struct {
	GetGroupRankingFunc   func(ctx context.Context, clanTag, season string) (*models.CWLRanking, error)
	GetRankingHistoryFunc func(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error)
}

func (m *MockCWLService) GetGroupRanking(ctx context.Context, clanTag, season string) (*models.CWLRanking, error) {
	if m.GetGroupRankingFunc != nil {
		return m.GetGroupRankingFunc(ctx, clanTag, season)
	}
	return &models.CWLRanking{}, nil
}

func (m *MockCWLService) GetRankingHistory(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error) {
	if m.GetRankingHistoryFunc != nil {
		return m.GetRankingHistoryFunc(ctx, clanTag)
	}
	return []models.CWLRankingHistoryEntry{}, nil
}

// MockJoinLeaveService
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
	return []models.JoinLeaveEvent{}, nil
}

// MockRaidService
type MockRaidService struct {
	GetClanRaidsFunc func(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error)
}

func (m *MockRaidService) GetClanRaids(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error) {
	if m.GetClanRaidsFunc != nil {
		return m.GetClanRaidsFunc(ctx, q)
	}
	return &models.RaidHistoryResponse{ClanTag: q.ClanTag}, nil
}
