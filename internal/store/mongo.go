package store

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
)

// Collection names
const (
	CollWars      = "clan_wars"
	CollCWLGroups = "cwl_groups"
	CollJoinLeave = "join_leave_history"
	CollRaids     = "capital_raids"
	CollLeagues   = "clan_leagues"
)

var queryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name:    "clashstats_store_query_duration_seconds",
	Help:    "Duration of MongoDB queries",
	Buckets: prometheus.DefBuckets,
}, []string{"op"})

// Store reads war, league, membership and raid documents from MongoDB
type Store struct {
	client *mongo.Client
	db     *mongo.Database
	logger *zap.SugaredLogger
}

// Connect opens a client on the stable API and pings the deployment
func Connect(ctx context.Context, uri, database string, logger *zap.Logger) (*Store, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(uri).SetServerAPIOptions(serverAPI).SetCompressors([]string{"snappy"})

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}

	s := &Store{
		client: client,
		db:     client.Database(database),
		logger: logger.Sugar(),
	}
	if err := s.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return s, nil
}

// Ping checks the deployment is reachable
func (s *Store) Ping(ctx context.Context) error {
	var result bson.M
	return s.client.Database("admin").RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Decode(&result)
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the read paths rely on
func (s *Store) EnsureIndexes(ctx context.Context) error {
	indexes := map[string][]mongo.IndexModel{
		CollWars: {
			{Keys: bson.D{{Key: "clan.tag", Value: 1}, {Key: "preparationStartTime", Value: 1}}},
			{Keys: bson.D{{Key: "opponent.tag", Value: 1}, {Key: "preparationStartTime", Value: 1}}},
			{Keys: bson.D{{Key: "tag", Value: 1}, {Key: "season", Value: 1}}},
		},
		CollCWLGroups: {
			{Keys: bson.D{{Key: "clans.tag", Value: 1}, {Key: "season", Value: -1}}},
		},
		CollJoinLeave: {
			{Keys: bson.D{{Key: "clan", Value: 1}, {Key: "time", Value: -1}}},
		},
		CollRaids: {
			{Keys: bson.D{{Key: "clan_tag", Value: 1}, {Key: "startTime", Value: -1}}},
		},
		CollLeagues: {
			{Keys: bson.D{{Key: "tag", Value: 1}, {Key: "season", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes on %s: %w", coll, err)
		}
	}
	return nil
}

// InsertMany bulk inserts documents into coll, continuing past individual failures
func (s *Store) InsertMany(ctx context.Context, coll string, docs []any) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	writes := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		writes = append(writes, mongo.NewInsertOneModel().SetDocument(doc))
	}
	res, err := s.db.Collection(coll).BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return 0, fmt.Errorf("insert into %s: %w", coll, err)
	}
	return res.InsertedCount, nil
}

// findAll runs a find on coll and decodes every document into T
func findAll[T any](ctx context.Context, s *Store, op, coll string, filter bson.D, opts ...options.Lister[options.FindOptions]) ([]T, error) {
	start := time.Now()
	defer func() { queryDuration.WithLabelValues(op).Observe(time.Since(start).Seconds()) }()

	cursor, err := s.db.Collection(coll).Find(ctx, filter, opts...)
	if err != nil {
		s.logger.Errorw("Query failed", "op", op, "error", err)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer cursor.Close(ctx)

	out := make([]T, 0)
	for cursor.Next(ctx) {
		var doc T
		if err := cursor.Decode(&doc); err != nil {
			s.logger.Warnw("Skipping undecodable document", "op", op, "error", err)
			continue
		}
		out = append(out, doc)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return out, nil
}
