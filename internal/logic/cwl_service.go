package logic

import (
	"context"
	"fmt"

	"github.com/cocstats/stats-api/internal/models"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type cwlService struct {
	groups CWLStore
	wars   WarStore
	cache  Cache
	opts   ServiceOptions
	logger *zap.SugaredLogger
}

func NewCWLService(groups CWLStore, wars WarStore, cache Cache, opts ServiceOptions, logger *zap.Logger) CWLService {
	return &cwlService{
		groups: groups,
		wars:   wars,
		cache:  cache,
		opts:   opts,
		logger: logger.Sugar(),
	}
}

// GetGroupRanking ranks the clan's league group for season, or its latest group when season is empty
func (s *cwlService) GetGroupRanking(ctx context.Context, clanTag, season string) (*models.CWLRanking, error) {
	req := struct {
		Clan   string `json:"clan"`
		Season string `json:"season"`
	}{clanTag, season}

	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "cwl:ranking", req, func(ctx context.Context) (*models.CWLRanking, error) {
		group, err := s.groups.FindGroup(ctx, clanTag, season)
		if err != nil {
			return nil, fmt.Errorf("league group: %w", err)
		}
		if group == nil {
			return nil, ErrNotFound
		}

		resolved, err := s.resolve(ctx, *group)
		if err != nil {
			return nil, err
		}
		return &models.CWLRanking{
			Season:  group.Season,
			Ranking: RankingCreate(resolved.Group, resolved.Rounds),
		}, nil
	})
}

// GetRankingHistory places the clan in every league season on record
func (s *cwlService) GetRankingHistory(ctx context.Context, clanTag string) ([]models.CWLRankingHistoryEntry, error) {
	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "cwl:history", clanTag, func(ctx context.Context) ([]models.CWLRankingHistoryEntry, error) {
		var (
			groups  []models.CWLGroup
			leagues map[string]string
		)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			var err error
			if groups, err = s.groups.FindGroups(gctx, clanTag); err != nil {
				return fmt.Errorf("league groups: %w", err)
			}
			return nil
		})
		g.Go(func() error {
			var err error
			if leagues, err = s.groups.LeagueChanges(gctx, clanTag); err != nil {
				return fmt.Errorf("league changes: %w", err)
			}
			return nil
		})
		if err := g.Wait(); err != nil {
			s.logger.Errorw("Failed to load league history", "clan", clanTag, "error", err)
			return nil, err
		}

		resolved := make([]ResolvedGroup, len(groups))
		g, gctx = errgroup.WithContext(ctx)
		g.SetLimit(s.opts.fanout())
		for i, group := range groups {
			g.Go(func() error {
				rg, err := s.resolve(gctx, group)
				if err != nil {
					return err
				}
				resolved[i] = rg
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}

		history := BuildRankingHistory(clanTag, resolved, leagues)
		if history == nil {
			history = []models.CWLRankingHistoryEntry{}
		}
		return history, nil
	})
}

func (s *cwlService) resolve(ctx context.Context, group models.CWLGroup) (ResolvedGroup, error) {
	wars, err := s.wars.FindWarsByTags(ctx, group.Season, group.WarTags())
	if err != nil {
		return ResolvedGroup{}, fmt.Errorf("league wars %s: %w", group.Season, err)
	}
	return ResolveRounds(group, wars), nil
}
