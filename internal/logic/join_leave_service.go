package logic

import (
	"context"
	"fmt"
	"time"

	"github.com/cocstats/stats-api/internal/models"
	"go.uber.org/zap"
)

type joinLeaveService struct {
	events JoinLeaveStore
	cache  Cache
	opts   ServiceOptions
	logger *zap.SugaredLogger
}

func NewJoinLeaveService(events JoinLeaveStore, cache Cache, opts ServiceOptions, logger *zap.Logger) JoinLeaveService {
	return &joinLeaveService{
		events: events,
		cache:  cache,
		opts:   opts,
		logger: logger.Sugar(),
	}
}

// GetJoinLeave returns the filtered events of the given clans with summary stats
func (s *joinLeaveService) GetJoinLeave(ctx context.Context, q models.JoinLeaveQuery) (*models.JoinLeaveResponse, error) {
	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "joinleave", q, func(ctx context.Context) (*models.JoinLeaveResponse, error) {
		events, err := s.fetch(ctx, q)
		if err != nil {
			return nil, err
		}

		window := churnWindow(q)
		if q.FilterLeaveJoin {
			events = FilterLeaveJoin(events, window)
		}
		if q.FilterJoinLeave {
			events = FilterJoinLeave(events, window)
		}
		// Type, townhall and name filters apply after pairing so they cannot break pairs
		events = FilterEvents(events, q)
		sortEventsDesc(events)

		return &models.JoinLeaveResponse{
			Stats:  GenerateJoinLeaveStats(events),
			Events: events,
		}, nil
	})
}

// GetJoinLeavePairs returns only the events forming a pair in direction
func (s *joinLeaveService) GetJoinLeavePairs(ctx context.Context, q models.JoinLeaveQuery, direction string) ([]models.JoinLeaveEvent, error) {
	if direction != DirectionJoinLeave && direction != DirectionLeaveJoin {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}

	req := struct {
		Query     models.JoinLeaveQuery `json:"query"`
		Direction string                `json:"direction"`
	}{q, direction}

	return cached(ctx, s.cache, s.opts.CacheTTL, s.logger, "joinleave:pairs", req, func(ctx context.Context) ([]models.JoinLeaveEvent, error) {
		events, err := s.fetch(ctx, q)
		if err != nil {
			return nil, err
		}
		paired, err := ExtractJoinLeavePairs(events, churnWindow(q), direction)
		if err != nil {
			return nil, err
		}
		return FilterEvents(paired, q), nil
	})
}

func (s *joinLeaveService) fetch(ctx context.Context, q models.JoinLeaveQuery) ([]models.JoinLeaveEvent, error) {
	events, err := fetchEach(ctx, s.opts.fanout(), q.Tags, func(ctx context.Context, tag string) ([]models.JoinLeaveEvent, error) {
		events, err := s.events.FindEvents(ctx, tag, q.Start, q.End, q.Limit)
		if err != nil {
			return nil, fmt.Errorf("join/leave of %s: %w", tag, err)
		}
		return events, nil
	})
	if err != nil {
		s.logger.Errorw("Failed to load join/leave events", "tags", q.Tags, "error", err)
		return nil, err
	}
	return events, nil
}

func churnWindow(q models.JoinLeaveQuery) time.Duration {
	if q.FilterSeconds <= 0 {
		return DefaultChurnWindow
	}
	return time.Duration(q.FilterSeconds) * time.Second
}
