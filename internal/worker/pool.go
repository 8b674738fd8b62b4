// Package worker implements the buffered worker pool that refreshes cached
// analytics in the background. HTTP handlers only enqueue; a full queue sheds
// load instead of blocking the request.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"

	"github.com/cocstats/stats-api/internal/logic"
)

// Prometheus metrics
var (
	jobsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clashstats_refresh_jobs_enqueued_total",
		Help: "Total number of refresh jobs accepted",
	})

	jobsProcessed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clashstats_refresh_jobs_processed_total",
		Help: "Total number of refresh jobs completed",
	})

	jobsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clashstats_refresh_jobs_failed_total",
		Help: "Total number of refresh jobs that failed",
	})

	jobsLoadShed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "clashstats_refresh_jobs_load_shed_total",
		Help: "Total number of refresh jobs dropped because the queue was full",
	})

	queueDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "clashstats_worker_queue_depth",
		Help: "Current depth of the refresh queue",
	})

	jobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "clashstats_refresh_job_duration_seconds",
		Help:    "Duration of a full clan refresh",
		Buckets: prometheus.DefBuckets,
	})
)

// Job asks for every cached view of one clan to be recomputed
type Job struct {
	ID        uuid.UUID
	ClanTag   string
	Timestamp time.Time
}

// Warmer recomputes and stores the cached views of a clan
type Warmer interface {
	Warm(ctx context.Context, clanTag string) error
}

// PoolConfig configures the worker pool
type PoolConfig struct {
	WorkerCount int
	QueueSize   int
	JobTimeout  time.Duration
	Warmer      Warmer
	Logger      *zap.Logger
}

// Pool manages a pool of refresh workers
type Pool struct {
	config   PoolConfig
	jobQueue chan Job
	wg       sync.WaitGroup
	ctx      context.Context
	cancel   context.CancelFunc
	logger   *zap.SugaredLogger

	mu      sync.Mutex
	pending map[string]uuid.UUID
	stopped bool
}

// NewPool creates a new worker pool
func NewPool(cfg PoolConfig) *Pool {
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 4
	}
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = 1000
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = time.Minute
	}

	return &Pool{
		config:   cfg,
		jobQueue: make(chan Job, cfg.QueueSize),
		logger:   cfg.Logger.Sugar(),
		pending:  make(map[string]uuid.UUID),
	}
}

// Start launches the worker goroutines. Jobs run under a context derived from ctx
// that Stop cancels.
func (p *Pool) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)

	for i := 0; i < p.config.WorkerCount; i++ {
		p.wg.Add(1)
		go p.worker(i)
	}

	go p.reportQueueDepth()

	p.logger.Infow("Worker pool started",
		"workers", p.config.WorkerCount,
		"queueSize", p.config.QueueSize,
	)
}

// Stop drains the queue and waits for in-flight jobs
func (p *Pool) Stop() {
	p.logger.Info("Stopping worker pool...")

	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobQueue)
	p.mu.Unlock()

	p.wg.Wait()
	if p.cancel != nil {
		p.cancel()
	}
	p.logger.Info("Worker pool stopped")
}

// Enqueue schedules a refresh of clanTag without blocking. A clan already
// waiting in the queue is not queued twice; its pending job ID is returned.
// It returns false when the queue is full or the pool is stopped.
func (p *Pool) Enqueue(clanTag string) (uuid.UUID, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped {
		return uuid.Nil, false
	}
	if id, ok := p.pending[clanTag]; ok {
		return id, true
	}

	job := Job{ID: uuid.New(), ClanTag: clanTag, Timestamp: time.Now()}
	select {
	case p.jobQueue <- job:
		p.pending[clanTag] = job.ID
		jobsEnqueued.Inc()
		return job.ID, true
	default:
		p.logger.Warnw("Refresh queue full, dropping job", "clan", clanTag)
		jobsLoadShed.Inc()
		return uuid.Nil, false
	}
}

// QueueDepth returns current queue size
func (p *Pool) QueueDepth() int {
	return len(p.jobQueue)
}

func (p *Pool) worker(id int) {
	defer p.wg.Done()

	for job := range p.jobQueue {
		p.mu.Lock()
		delete(p.pending, job.ClanTag)
		p.mu.Unlock()

		p.process(id, job)
	}
}

func (p *Pool) process(id int, job Job) {
	ctx, cancel := context.WithTimeout(logic.WithCacheRefresh(p.ctx), p.config.JobTimeout)
	defer cancel()

	start := time.Now()
	err := p.config.Warmer.Warm(ctx, job.ClanTag)
	jobDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		jobsFailed.Inc()
		p.logger.Errorw("Refresh failed",
			"worker", id,
			"job", job.ID,
			"clan", job.ClanTag,
			"error", err,
		)
		return
	}
	jobsProcessed.Inc()
	p.logger.Infow("Refresh completed",
		"worker", id,
		"job", job.ID,
		"clan", job.ClanTag,
		"queued", start.Sub(job.Timestamp),
		"duration", time.Since(start),
	)
}

func (p *Pool) reportQueueDepth() {
	ticker := time.NewTicker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			queueDepth.Set(float64(len(p.jobQueue)))
		case <-p.ctx.Done():
			return
		}
	}
}
