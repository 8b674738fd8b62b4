package handlers

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cocstats/stats-api/internal/logic"
)

// RefreshQueue defines the interface for the cache warming worker pool
type RefreshQueue interface {
	Enqueue(clanTag string) (uuid.UUID, bool)
	QueueDepth() int
}

// Pinger reports whether a backing service is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

type Config struct {
	WorkerPool   RefreshQueue
	Mongo        Pinger
	Redis        Pinger
	Logger       *zap.Logger
	QueryTimeout time.Duration
	// Services
	WarStats  logic.WarStatsService
	CWL       logic.CWLService
	JoinLeave logic.JoinLeaveService
	Raids     logic.RaidService
}

type Handler struct {
	pool         RefreshQueue
	mongo        Pinger
	redis        Pinger
	logger       *zap.SugaredLogger
	validator    *validator.Validate
	queryTimeout time.Duration
	warStats     logic.WarStatsService
	cwl          logic.CWLService
	joinLeave    logic.JoinLeaveService
	raids        logic.RaidService
}

func New(cfg Config) *Handler {
	return &Handler{
		pool:         cfg.WorkerPool,
		mongo:        cfg.Mongo,
		redis:        cfg.Redis,
		logger:       cfg.Logger.Sugar(),
		validator:    validator.New(),
		queryTimeout: cfg.QueryTimeout,
		warStats:     cfg.WarStats,
		cwl:          cfg.CWL,
		joinLeave:    cfg.JoinLeave,
		raids:        cfg.Raids,
	}
}
