package store

import (
	"context"

	"github.com/cocstats/stats-api/internal/logic"
	"github.com/cocstats/stats-api/internal/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// FindWars returns the wars matching f, oldest first
func (s *Store) FindWars(ctx context.Context, f logic.WarFilter) ([]models.War, error) {
	opts := options.Find().SetSort(bson.D{{Key: "preparationStartTime", Value: 1}})
	return findAll[models.War](ctx, s, "find_wars", CollWars, warQuery(f), opts)
}

// FindWarsByTags resolves league war tags of one season
func (s *Store) FindWarsByTags(ctx context.Context, season string, warTags []string) ([]models.War, error) {
	if len(warTags) == 0 {
		return []models.War{}, nil
	}
	filter := bson.D{
		{Key: "tag", Value: bson.D{{Key: "$in", Value: warTags}}},
		{Key: "season", Value: season},
	}
	return findAll[models.War](ctx, s, "find_wars_by_tags", CollWars, filter)
}

// warQuery builds the war filter. Clan and player scopes match either side.
// A season only constrains league wars: documents without one always pass.
func warQuery(f logic.WarFilter) bson.D {
	var conds bson.A

	if f.ClanTag != "" {
		conds = append(conds, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "clan.tag", Value: f.ClanTag}},
			bson.D{{Key: "opponent.tag", Value: f.ClanTag}},
		}}})
	}
	if f.PlayerTag != "" {
		conds = append(conds, bson.D{{Key: "$or", Value: bson.A{
			bson.D{{Key: "clan.members.tag", Value: f.PlayerTag}},
			bson.D{{Key: "opponent.members.tag", Value: f.PlayerTag}},
		}}})
	}

	if f.Start != "" || f.End != "" {
		rng := bson.D{}
		if f.Start != "" {
			rng = append(rng, bson.E{Key: "$gte", Value: f.Start})
		}
		if f.End != "" {
			rng = append(rng, bson.E{Key: "$lte", Value: f.End})
		}
		conds = append(conds, bson.D{{Key: "preparationStartTime", Value: rng}})
	}

	if f.Season != "" {
		conds = append(conds, bson.D{{Key: "season", Value: bson.D{{Key: "$in", Value: bson.A{f.Season, nil}}}}})
	}

	switch f.WarType {
	case "cwl":
		conds = append(conds, bson.D{{Key: "season", Value: bson.D{{Key: "$nin", Value: bson.A{nil, ""}}}}})
	case "regular":
		conds = append(conds, bson.D{{Key: "season", Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}}})
	}

	switch len(conds) {
	case 0:
		return bson.D{}
	case 1:
		return conds[0].(bson.D)
	default:
		return bson.D{{Key: "$and", Value: conds}}
	}
}
