package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/models"
	"golang.org/x/sync/errgroup"
)

// Window and limits of the views refreshed for a clan. They match the
// defaults the HTTP handlers apply so warmed entries are the ones served.
const (
	DefaultHitrateWindow = 90 * 24 * time.Hour
	DefaultEventLimit    = 250
	DefaultRaidLimit     = 10
)

// ClanWarmer refreshes the default views of a clan through the analytics services
type ClanWarmer struct {
	Wars      logic.WarStatsService
	CWL       logic.CWLService
	JoinLeave logic.JoinLeaveService
	Raids     logic.RaidService
}

// Warm recomputes every view concurrently. A clan that simply has no league
// group or raid data is not a failure.
func (w *ClanWarmer) Warm(ctx context.Context, clanTag string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		_, err := w.Wars.GetClanHitrate(ctx, DefaultHitrateQuery(clanTag))
		if err != nil {
			return fmt.Errorf("hitrate: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		if _, err := w.CWL.GetRankingHistory(ctx, clanTag); err != nil {
			return fmt.Errorf("league history: %w", err)
		}
		if _, err := w.CWL.GetGroupRanking(ctx, clanTag, ""); err != nil && !errors.Is(err, logic.ErrNotFound) {
			return fmt.Errorf("league ranking: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := w.JoinLeave.GetJoinLeave(ctx, DefaultJoinLeaveQuery(clanTag))
		if err != nil {
			return fmt.Errorf("join/leave: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		_, err := w.Raids.GetClanRaids(ctx, models.RaidQuery{ClanTag: clanTag, Limit: DefaultRaidLimit})
		if err != nil && !errors.Is(err, logic.ErrNotFound) {
			return fmt.Errorf("raids: %w", err)
		}
		return nil
	})

	return g.Wait()
}

// DefaultHitrateQuery is the unfiltered hitrate of a clan, truncated to the day
// so repeated requests share a cache entry.
func DefaultHitrateQuery(clanTag string) models.HitrateQuery {
	end := time.Now().UTC().Truncate(24 * time.Hour).Add(24 * time.Hour)
	return models.HitrateQuery{
		Tags:           []string{clanTag},
		Start:          end.Add(-DefaultHitrateWindow),
		End:            end,
		WarType:        "all",
		TownhallFilter: "*v*",
	}
}

// DefaultJoinLeaveQuery is the unfiltered join/leave view of a clan
func DefaultJoinLeaveQuery(clanTag string) models.JoinLeaveQuery {
	return models.JoinLeaveQuery{
		Tags:  []string{clanTag},
		Limit: DefaultEventLimit,
	}
}
