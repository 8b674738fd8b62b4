package logic

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"
)

// ServiceOptions are shared by the analytics services
type ServiceOptions struct {
	CacheTTL    time.Duration
	FanoutLimit int
}

func (o ServiceOptions) fanout() int {
	if o.FanoutLimit <= 0 {
		return 4
	}
	return o.FanoutLimit
}

// fetchEach runs fetch for every key with at most limit in flight and returns the
// results in key order. The first error cancels the rest.
func fetchEach[T any](ctx context.Context, limit int, keys []string, fetch func(ctx context.Context, key string) ([]T, error)) ([]T, error) {
	results := make([][]T, len(keys))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, key := range keys {
		g.Go(func() error {
			items, err := fetch(ctx, key)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var out []T
	for _, items := range results {
		out = append(out, items...)
	}
	return out, nil
}
