package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cocstats/stats-api/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindGroups returns every league group the clan played in, newest season first
func (s *Store) FindGroups(ctx context.Context, clanTag string) ([]models.CWLGroup, error) {
	opts := options.Find().SetSort(bson.D{{Key: "season", Value: -1}})
	return findAll[models.CWLGroup](ctx, s, "find_groups", CollCWLGroups, bson.D{{Key: "clans.tag", Value: clanTag}}, opts)
}

// FindGroup returns the clan's group for season, or its latest group when season
// is empty. A nil group means none is stored.
func (s *Store) FindGroup(ctx context.Context, clanTag, season string) (*models.CWLGroup, error) {
	start := time.Now()
	defer func() { queryDuration.WithLabelValues("find_group").Observe(time.Since(start).Seconds()) }()

	filter := bson.D{{Key: "clans.tag", Value: clanTag}}
	if season != "" {
		filter = append(filter, bson.E{Key: "season", Value: season})
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "season", Value: -1}})

	var group models.CWLGroup
	err := s.db.Collection(CollCWLGroups).FindOne(ctx, filter, opts).Decode(&group)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		s.logger.Errorw("Query failed", "op", "find_group", "clan", clanTag, "error", err)
		return nil, fmt.Errorf("find_group: %w", err)
	}
	return &group, nil
}

// LeagueChanges maps season to the war league the clan was placed in that month
func (s *Store) LeagueChanges(ctx context.Context, clanTag string) (map[string]string, error) {
	changes, err := findAll[models.LeagueChange](ctx, s, "league_changes", CollLeagues, bson.D{{Key: "tag", Value: clanTag}})
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(changes))
	for _, c := range changes {
		if c.Season != "" && c.League != "" {
			out[c.Season] = c.League
		}
	}
	return out, nil
}
