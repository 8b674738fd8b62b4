package logic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/cocstats/stats-api/internal/models"
)

// ErrInvalidDirection is returned for pair directions other than join_leave and leave_join
var ErrInvalidDirection = errors.New("invalid pair direction")

// Pair directions
const (
	DirectionJoinLeave = "join_leave"
	DirectionLeaveJoin = "leave_join"
)

// DefaultChurnWindow is how short a round trip must be to count as noise by default
const DefaultChurnWindow = 48 * time.Hour

// FilterLeaveJoin drops a leave directly followed by a join of the same player
// within window: the player never really left.
func FilterLeaveJoin(events []models.JoinLeaveEvent, window time.Duration) []models.JoinLeaveEvent {
	kept, _ := pairScan(events, models.EventLeave, models.EventJoin, window)
	return kept
}

// FilterJoinLeave drops a join directly followed by a leave within window: a brief visit.
func FilterJoinLeave(events []models.JoinLeaveEvent, window time.Duration) []models.JoinLeaveEvent {
	kept, _ := pairScan(events, models.EventJoin, models.EventLeave, window)
	return kept
}

// ExtractJoinLeavePairs returns only the events that form a pair in the given direction.
func ExtractJoinLeavePairs(events []models.JoinLeaveEvent, window time.Duration, direction string) ([]models.JoinLeaveEvent, error) {
	var first, second string
	switch direction {
	case DirectionJoinLeave:
		first, second = models.EventJoin, models.EventLeave
	case DirectionLeaveJoin:
		first, second = models.EventLeave, models.EventJoin
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidDirection, direction)
	}
	_, paired := pairScan(events, first, second, window)
	return paired, nil
}

// pairScan walks each player's events oldest first once. An event consumed by a
// pair is recorded in a skip set so it cannot start or close another pair.
func pairScan(events []models.JoinLeaveEvent, first, second string, window time.Duration) (kept, paired []models.JoinLeaveEvent) {
	kept = make([]models.JoinLeaveEvent, 0, len(events))
	paired = make([]models.JoinLeaveEvent, 0)

	for _, seq := range groupByPlayer(events) {
		skip := make(map[int]struct{})
		for i := 0; i < len(seq)-1; i++ {
			if _, ok := skip[i]; ok {
				continue
			}
			cur, next := seq[i], seq[i+1]
			if cur.Type != first || next.Type != second {
				continue
			}
			gap := next.Time.Sub(cur.Time.Time)
			if gap < 0 || gap > window {
				continue
			}
			skip[i] = struct{}{}
			skip[i+1] = struct{}{}
		}

		for i, ev := range seq {
			if _, ok := skip[i]; ok {
				paired = append(paired, ev)
			} else {
				kept = append(kept, ev)
			}
		}
	}

	sortEventsDesc(kept)
	sortEventsDesc(paired)
	return kept, paired
}

// groupByPlayer returns each player's events oldest first, players ordered by tag
func groupByPlayer(events []models.JoinLeaveEvent) [][]models.JoinLeaveEvent {
	byTag := make(map[string][]models.JoinLeaveEvent)
	for _, ev := range events {
		byTag[ev.Tag] = append(byTag[ev.Tag], ev)
	}

	tags := make([]string, 0, len(byTag))
	for tag := range byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	out := make([][]models.JoinLeaveEvent, 0, len(tags))
	for _, tag := range tags {
		seq := byTag[tag]
		sort.SliceStable(seq, func(i, j int) bool { return seq[i].Time.Before(seq[j].Time.Time) })
		out = append(out, seq)
	}
	return out
}

func sortEventsDesc(events []models.JoinLeaveEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		if !events[i].Time.Equal(events[j].Time.Time) {
			return events[i].Time.After(events[j].Time.Time)
		}
		return events[i].Tag < events[j].Tag
	})
}

// FilterEvents applies the optional type, townhall and name filters of a query
func FilterEvents(events []models.JoinLeaveEvent, q models.JoinLeaveQuery) []models.JoinLeaveEvent {
	needle := strings.ToLower(q.NameContains)
	out := make([]models.JoinLeaveEvent, 0, len(events))
	for _, ev := range events {
		if q.OnlyType != "" && ev.Type != q.OnlyType {
			continue
		}
		if q.Townhall != 0 && ev.TH != q.Townhall {
			continue
		}
		if needle != "" && !strings.Contains(strings.ToLower(ev.Name), needle) {
			continue
		}
		out = append(out, ev)
	}
	return out
}

// GenerateJoinLeaveStats summarizes an event list.
//
// StillInClan and LeftForever look at each player's last event only. When a
// player's events do not alternate (two joins in a row from a duplicate insert,
// say) that classification can be wrong; such players are counted in
// NonAlternatingPlayers instead of being repaired.
func GenerateJoinLeaveStats(events []models.JoinLeaveEvent) models.JoinLeaveStats {
	stats := models.JoinLeaveStats{TopMovers: []models.Mover{}}
	if len(events) == 0 {
		return stats
	}

	stats.TotalEvents = len(events)
	var hours [24]int
	first, last := events[0].Time.Time, events[0].Time.Time
	for _, ev := range events {
		switch ev.Type {
		case models.EventJoin:
			stats.TotalJoins++
		case models.EventLeave:
			stats.TotalLeaves++
		}
		hours[ev.Time.UTC().Hour()]++
		if ev.Time.Before(first) {
			first = ev.Time.Time
		}
		if ev.Time.After(last) {
			last = ev.Time.Time
		}
	}
	stats.FirstEvent = &first
	stats.LastEvent = &last

	busiest := 0
	for h := 1; h < len(hours); h++ {
		if hours[h] > hours[busiest] {
			busiest = h
		}
	}
	stats.MostCommonHour = &busiest

	// Replay in time order to find who is present at the end of the window
	ordered := make([]models.JoinLeaveEvent, len(events))
	copy(ordered, events)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Time.Before(ordered[j].Time.Time) })
	present := make(map[string]struct{})
	for _, ev := range ordered {
		switch ev.Type {
		case models.EventJoin:
			present[ev.Tag] = struct{}{}
		case models.EventLeave:
			delete(present, ev.Tag)
		}
	}
	stats.ActivePlayers = len(present)

	var stayTotal time.Duration
	var stayCount int
	movers := make([]models.Mover, 0)

	players := groupByPlayer(events)
	stats.UniquePlayers = len(players)
	for _, seq := range players {
		if len(seq) > 1 {
			stats.Rejoins++
		}

		alternating := true
		for i := 0; i+1 < len(seq); i++ {
			if seq[i].Type == seq[i+1].Type {
				alternating = false
			}
			if seq[i].Type == models.EventJoin && seq[i+1].Type == models.EventLeave {
				stayTotal += seq[i+1].Time.Sub(seq[i].Time.Time)
				stayCount++
			}
		}
		if !alternating {
			stats.NonAlternatingPlayers++
		}

		switch seq[len(seq)-1].Type {
		case models.EventJoin:
			stats.StillInClan++
		case models.EventLeave:
			stats.LeftForever++
		}

		mover := models.Mover{Tag: seq[0].Tag, Events: len(seq)}
		for i := len(seq) - 1; i >= 0; i-- {
			if seq[i].Name != "" {
				mover.Name = seq[i].Name
				break
			}
		}
		movers = append(movers, mover)
	}

	if stayCount > 0 {
		stats.AvgTimeInClanSeconds = round2(stayTotal.Seconds() / float64(stayCount))
	}

	sort.SliceStable(movers, func(i, j int) bool {
		if movers[i].Events != movers[j].Events {
			return movers[i].Events > movers[j].Events
		}
		return movers[i].Tag < movers[j].Tag
	})
	if len(movers) > 3 {
		movers = movers[:3]
	}
	stats.TopMovers = movers

	return stats
}
