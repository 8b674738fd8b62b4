package logic

import (
	"context"
	"fmt"

	"github.com/cocstats/stats-api/internal/models"
	"go.uber.org/zap"
)

type warStatsService struct {
	wars   WarStore
	cache  Cache
	opts   ServiceOptions
	logger *zap.SugaredLogger
}

func NewWarStatsService(wars WarStore, cache Cache, opts ServiceOptions, logger *zap.Logger) WarStatsService {
	return &warStatsService{
		wars:   wars,
		cache:  cache,
		opts:   opts,
		logger: logger.Sugar(),
	}
}

// GetClanHitrate aggregates every war of the given clans, each clan's side being "own"
func (s *warStatsService) GetClanHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error) {
	filter, err := ParseTownhallFilter(q.TownhallFilter)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "hitrate:clan", q, func(ctx context.Context) (*models.HitrateReport, error) {
		wars, err := s.fetchWars(ctx, q, func(f *WarFilter, tag string) { f.ClanTag = tag })
		if err != nil {
			return nil, err
		}
		return AggregateHitrate(wars, HitrateOptions{
			OwnClans:   q.Tags,
			Filter:     filter,
			FreshOnly:  q.FreshOnly,
			MinAttacks: q.MinAttacks,
		}), nil
	})
}

// GetPlayerHitrate aggregates the wars of the given players from their own side
func (s *warStatsService) GetPlayerHitrate(ctx context.Context, q models.HitrateQuery) (*models.HitrateReport, error) {
	filter, err := ParseTownhallFilter(q.TownhallFilter)
	if err != nil {
		return nil, err
	}

	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "hitrate:player", q, func(ctx context.Context) (*models.HitrateReport, error) {
		wars, err := s.fetchWars(ctx, q, func(f *WarFilter, tag string) { f.PlayerTag = tag })
		if err != nil {
			return nil, err
		}
		return AggregateHitrate(wars, HitrateOptions{
			PlayerTags: q.Tags,
			Filter:     filter,
			FreshOnly:  q.FreshOnly,
			MinAttacks: q.MinAttacks,
		}), nil
	})
}

// fetchWars loads wars for every tag concurrently. Duplicates across tags are
// removed later by the aggregator.
func (s *warStatsService) fetchWars(ctx context.Context, q models.HitrateQuery, scope func(f *WarFilter, tag string)) ([]models.War, error) {
	base := WarFilter{Season: q.Season, WarType: q.WarType}
	if !q.Start.IsZero() {
		base.Start = models.FormatGameTime(q.Start)
	}
	if !q.End.IsZero() {
		base.End = models.FormatGameTime(q.End)
	}

	wars, err := fetchEach(ctx, s.opts.fanout(), q.Tags, func(ctx context.Context, tag string) ([]models.War, error) {
		f := base
		scope(&f, tag)
		wars, err := s.wars.FindWars(ctx, f)
		if err != nil {
			return nil, fmt.Errorf("wars of %s: %w", tag, err)
		}
		return wars, nil
	})
	if err != nil {
		s.logger.Errorw("Failed to load wars", "tags", q.Tags, "error", err)
		return nil, err
	}
	return wars, nil
}
