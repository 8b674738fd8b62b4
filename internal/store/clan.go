package store

import (
	"context"
	"time"

	"github.com/cocstats/stats-api/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindEvents returns a clan's join/leave events in [start, end], newest first.
// Zero bounds are open.
func (s *Store) FindEvents(ctx context.Context, clanTag string, start, end time.Time, limit int) ([]models.JoinLeaveEvent, error) {
	opts := options.Find().SetSort(bson.D{{Key: "time", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.JoinLeaveEvent](ctx, s, "find_join_leave", CollJoinLeave, eventQuery(clanTag, start, end), opts)
}

func eventQuery(clanTag string, start, end time.Time) bson.D {
	filter := bson.D{{Key: "clan", Value: clanTag}}
	if start.IsZero() && end.IsZero() {
		return filter
	}
	rng := bson.D{}
	if !start.IsZero() {
		rng = append(rng, bson.E{Key: "$gte", Value: start.UTC()})
	}
	if !end.IsZero() {
		rng = append(rng, bson.E{Key: "$lte", Value: end.UTC()})
	}
	return append(filter, bson.E{Key: "time", Value: rng})
}

// RaidSeasons returns a clan's most recent raid weekends
func (s *Store) RaidSeasons(ctx context.Context, clanTag string, limit int) ([]models.RaidSeason, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return findAll[models.RaidSeason](ctx, s, "find_raids", CollRaids, bson.D{{Key: "clan_tag", Value: clanTag}}, opts)
}
