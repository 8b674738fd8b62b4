package logic

import (
	"context"
	"fmt"
	"sort"

	"github.com/cocstats/stats-api/internal/models"
	"go.uber.org/zap"
)

type raidService struct {
	store    RaidSource
	upstream RaidSource
	cache    Cache
	opts     ServiceOptions
	logger   *zap.SugaredLogger
}

// NewRaidService reads raid weekends from store, falling back to upstream when the
// store has none. upstream may be nil.
func NewRaidService(store, upstream RaidSource, cache Cache, opts ServiceOptions, logger *zap.Logger) RaidService {
	return &raidService{
		store:    store,
		upstream: upstream,
		cache:    cache,
		opts:     opts,
		logger:   logger.Sugar(),
	}
}

func (s *raidService) GetClanRaids(ctx context.Context, q models.RaidQuery) (*models.RaidHistoryResponse, error) {
	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "raids", q, func(ctx context.Context) (*models.RaidHistoryResponse, error) {
		seasons, err := s.load(ctx, q)
		if err != nil {
			return nil, err
		}

		history := PredictRaidRewards(seasons)
		sort.SliceStable(history, func(i, j int) bool { return history[i].StartTime > history[j].StartTime })
		if len(history) > q.Limit && q.Limit > 0 {
			history = history[:q.Limit]
		}

		return &models.RaidHistoryResponse{
			ClanTag: q.ClanTag,
			Stats:   GenerateRaidClanStats(history),
			History: history,
		}, nil
	})
}

func (s *raidService) load(ctx context.Context, q models.RaidQuery) ([]models.RaidSeason, error) {
	seasons, err := s.store.RaidSeasons(ctx, q.ClanTag, q.Limit)
	if err != nil {
		if s.upstream == nil {
			return nil, fmt.Errorf("raid seasons: %w", err)
		}
		s.logger.Warnw("Raid store failed, using upstream", "clan", q.ClanTag, "error", err)
	}
	if len(seasons) > 0 || s.upstream == nil {
		if seasons == nil {
			seasons = []models.RaidSeason{}
		}
		return seasons, nil
	}

	seasons, err = s.upstream.RaidSeasons(ctx, q.ClanTag, q.Limit)
	if err != nil {
		s.logger.Errorw("Failed to fetch raid seasons", "clan", q.ClanTag, "error", err)
		return nil, fmt.Errorf("upstream raid seasons: %w", err)
	}
	if len(seasons) == 0 {
		return nil, ErrNotFound
	}
	return seasons, nil
}
