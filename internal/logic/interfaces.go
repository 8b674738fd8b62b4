package logic

import (
	"context"
	"errors"
	"time"

	"github.com/cocstats/stats-api/internal/models"
)

// ErrNotFound is returned when a single requested entity has no data
var ErrNotFound = errors.New("not found")

// WarFilter is the time-bounded war query of one clan or player
type WarFilter struct {
	ClanTag   string
	PlayerTag string
	Start     string // game time layout, inclusive
	End       string
	Season    string // when set, CWL wars must match; regular wars always pass
	WarType   string // all, cwl, regular
}

// WarStore reads war snapshots
type WarStore interface {
	FindWars(ctx context.Context, f WarFilter) ([]models.War, error)
	FindWarsByTags(ctx context.Context, season string, warTags []string) ([]models.War, error)
}

// CWLStore reads league groups and league placement records
type CWLStore interface {
	FindGroups(ctx context.Context, clanTag string) ([]models.CWLGroup, error)
	FindGroup(ctx context.Context, clanTag, season string) (*models.CWLGroup, error)
	LeagueChanges(ctx context.Context, clanTag string) (map[string]string, error)
}

// JoinLeaveStore reads membership transitions
type JoinLeaveStore interface {
	FindEvents(ctx context.Context, clanTag string, start, end time.Time, limit int) ([]models.JoinLeaveEvent, error)
}

// RaidSource returns a clan's raid weekends, most recent first
type RaidSource interface {
	RaidSeasons(ctx context.Context, clanTag string, limit int) ([]models.RaidSeason, error)
}

// Cache stores computed responses
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// WarStatsService computes hitrates
type WarStatsService interface {
	GetClanHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error)
	GetPlayerHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error)
}

// CWLService computes league rankings
type CWLService interface {
	GetGroupRanking(ctx context.Context, clanTag, season string) (*models.CWLRanking, error)
	GetRankingHistory(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error)
}

// JoinLeaveService analyzes membership churn
type JoinLeaveService interface {
	GetJoinLeave(ctx context.Context, q models.JoinLeaveQuery) (*models.JoinLeaveResponse, error)
	GetJoinLeavePairs(ctx context.Context, q models.JoinLeaveQuery, direction string) ([]models.JoinLeaveEvent, error)
}

// RaidService returns raid history with predicted rewards
type RaidService interface {
	GetClanRaids(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error)
}
