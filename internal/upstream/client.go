package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/cocstats/stats-api/internal/models"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.uber.org/zap"
)

var requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "clashstats_upstream_requests_total",
	Help: "Requests made to the game API proxy by response status",
}, []string{"status"})

// ErrNoKeys is returned when the client has no credential to send
var ErrNoKeys = errors.New("no upstream API keys configured")

// KeyProvider hands out API credentials
type KeyProvider interface {
	Next() (string, error)
}

// RoundRobin rotates through a fixed key list. Safe for concurrent use.
type RoundRobin struct {
	keys []string
	next atomic.Uint64
}

func NewRoundRobin(keys []string) *RoundRobin {
	return &RoundRobin{keys: keys}
}

func (r *RoundRobin) Next() (string, error) {
	if len(r.keys) == 0 {
		return "", ErrNoKeys
	}
	n := r.next.Add(1) - 1
	return r.keys[n%uint64(len(r.keys))], nil
}

// Client reads from the game API through a proxy
type Client struct {
	baseURL    string
	keys       KeyProvider
	httpClient *http.Client
	pace       *time.Ticker
	logger     *zap.SugaredLogger
}

// NewClient builds a client for baseURL. perSecond paces outgoing requests; zero disables pacing.
func NewClient(baseURL string, keys KeyProvider, perSecond int, logger *zap.Logger) *Client {
	c := &Client{
		baseURL: baseURL,
		keys:    keys,
		httpClient: &http.Client{
			Timeout: 20 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:          100,
				MaxIdleConnsPerHost:   50,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ResponseHeaderTimeout: 10 * time.Second,
				ForceAttemptHTTP2:     true,
			},
		},
		logger: logger.Sugar(),
	}
	if perSecond > 0 {
		c.pace = time.NewTicker(time.Second / time.Duration(perSecond))
	}
	return c
}

// Close stops the pacing ticker
func (c *Client) Close() {
	if c.pace != nil {
		c.pace.Stop()
	}
}

type raidSeasonsResponse struct {
	Items []models.RaidSeason `json:"items"`
}

// RaidSeasons fetches a clan's most recent capital raid weekends
func (c *Client) RaidSeasons(ctx context.Context, clanTag string, limit int) ([]models.RaidSeason, error) {
	path := "/clans/" + url.PathEscape(clanTag) + "/capitalraidseasons"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}

	var resp raidSeasonsResponse
	if err := c.get(ctx, path, &resp); err != nil {
		return nil, err
	}
	for i := range resp.Items {
		resp.Items[i].ClanTag = clanTag
	}
	if resp.Items == nil {
		resp.Items = []models.RaidSeason{}
	}
	return resp.Items, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	key, err := c.keys.Next()
	if err != nil {
		return err
	}

	if c.pace != nil {
		select {
		case <-c.pace.C:
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+key)
	req.Header.Set("Accept", "application/json")

	res, err := c.httpClient.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		c.logger.Warnw("Upstream request failed", "path", path, "error", err)
		return fmt.Errorf("upstream request: %w", err)
	}
	defer res.Body.Close()
	requestsTotal.WithLabelValues(strconv.Itoa(res.StatusCode)).Inc()

	if res.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 512))
		return &StatusError{Code: res.StatusCode, Body: string(body)}
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode upstream response: %w", err)
	}
	return nil
}

// StatusError is a non-200 response from the proxy
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.Code, e.Body)
}
