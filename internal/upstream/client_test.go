package upstream

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"go.uber.org/zap"
)

func TestRoundRobin(t *testing.T) {
	rr := NewRoundRobin([]string{"a", "b", "c"})
	want := []string{"a", "b", "c", "a", "b"}
	for i, w := range want {
		got, err := rr.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != w {
			t.Errorf("call %d: expected %s, got %s", i, w, got)
		}
	}

	if _, err := NewRoundRobin(nil).Next(); !errors.Is(err, ErrNoKeys) {
		t.Errorf("expected ErrNoKeys, got %v", err)
	}
}

func TestRoundRobinConcurrent(t *testing.T) {
	rr := NewRoundRobin([]string{"a", "b"})
	var mu sync.Mutex
	counts := map[string]int{}

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			k, _ := rr.Next()
			mu.Lock()
			counts[k]++
			mu.Unlock()
		}()
	}
	wg.Wait()

	if counts["a"] != 50 || counts["b"] != 50 {
		t.Errorf("expected an even split, got %v", counts)
	}
}

func TestRaidSeasons(t *testing.T) {
	var gotAuth []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.EscapedPath() != "/clans/%23ABC/capitalraidseasons" {
			t.Errorf("unexpected path %s", r.URL.EscapedPath())
		}
		if r.URL.Query().Get("limit") != "2" {
			t.Errorf("expected limit=2, got %s", r.URL.RawQuery)
		}
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"items":[{"state":"ended","startTime":"20240105T070000.000Z","capitalTotalLoot":500000,"totalAttacks":100,"offensiveReward":0}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewRoundRobin([]string{"k1", "k2"}), 0, zap.NewNop())
	defer c.Close()

	for i := 0; i < 2; i++ {
		seasons, err := c.RaidSeasons(context.Background(), "#ABC", 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(seasons) != 1 {
			t.Fatalf("expected 1 season, got %d", len(seasons))
		}
		if seasons[0].ClanTag != "#ABC" {
			t.Errorf("expected clan tag to be set, got %q", seasons[0].ClanTag)
		}
		if seasons[0].CapitalTotalLoot != 500000 {
			t.Errorf("expected loot 500000, got %d", seasons[0].CapitalTotalLoot)
		}
	}

	if len(gotAuth) != 2 || gotAuth[0] != "Bearer k1" || gotAuth[1] != "Bearer k2" {
		t.Errorf("expected rotated keys, got %v", gotAuth)
	}
}

func TestRaidSeasonsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"reason":"notFound"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, NewRoundRobin([]string{"k"}), 0, zap.NewNop())
	_, err := c.RaidSeasons(context.Background(), "#ABC", 5)

	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if se.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", se.Code)
	}
}

func TestRaidSeasonsNoKeys(t *testing.T) {
	c := NewClient("http://unused.invalid", NewRoundRobin(nil), 0, zap.NewNop())
	if _, err := c.RaidSeasons(context.Background(), "#ABC", 5); !errors.Is(err, ErrNoKeys) {
		t.Errorf("expected ErrNoKeys, got %v", err)
	}
}
