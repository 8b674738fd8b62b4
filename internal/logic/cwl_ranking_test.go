package logic

import (
	"testing"

	"github.com/cocstats/stats-api/internal/models"
)

func season(s string) *string { return &s }

func leagueWar(tag, seasonID, state string, clan, opp string, clanStars, oppStars int, clanDest, oppDest float64) models.War {
	return models.War{
		Tag:      tag,
		State:    state,
		Season:   season(seasonID),
		Clan:     models.WarClan{Tag: clan, Name: "name" + clan, Stars: clanStars, DestructionPercentage: clanDest},
		Opponent: models.WarClan{Tag: opp, Name: "name" + opp, Stars: oppStars, DestructionPercentage: oppDest},
	}
}

func leagueGroup(seasonID string, rounds ...[]string) models.CWLGroup {
	g := models.CWLGroup{Season: seasonID, State: "ended"}
	for _, tag := range []string{"#A", "#B", "#C", "#D"} {
		g.Clans = append(g.Clans, models.CWLClan{Tag: tag, Name: "name" + tag})
	}
	for _, r := range rounds {
		g.Rounds = append(g.Rounds, models.CWLRound{WarTags: r})
	}
	return g
}

func rankOf(t *testing.T, ranking []models.CWLRankingEntry, tag string) models.CWLRankingEntry {
	t.Helper()
	for _, e := range ranking {
		if e.Tag == tag {
			return e
		}
	}
	t.Fatalf("clan %s not ranked", tag)
	return models.CWLRankingEntry{}
}

func TestPreviousSeason(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2024-03", "2024-02", true},
		{"2024-01", "2023-12", true},
		{"garbage", "", false},
	}
	for _, tt := range tests {
		got, ok := PreviousSeason(tt.in)
		if got != tt.want || ok != tt.ok {
			t.Errorf("PreviousSeason(%q) = %q, %v; want %q, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestRankingCreate(t *testing.T) {
	group := leagueGroup("2024-03", []string{"#W1", "#W2"}, []string{"#W3", "#W4"})
	wars := []models.War{
		leagueWar("#W1", "2024-03", models.WarStateEnded, "#A", "#B", 20, 15, 90, 80),
		leagueWar("#W2", "2024-03", models.WarStateEnded, "#C", "#D", 18, 18, 85.5, 85.5),
		leagueWar("#W3", "2024-03", models.WarStateEnded, "#B", "#C", 21, 19, 95, 88),
		leagueWar("#W4", "2024-03", models.WarStateInWar, "#D", "#A", 10, 5, 40, 20),
	}
	resolved := ResolveRounds(group, wars)
	ranking := RankingCreate(resolved.Group, resolved.Rounds)

	if len(ranking) != 4 {
		t.Fatalf("expected 4 clans, got %d", len(ranking))
	}

	a := rankOf(t, ranking, "#A")
	if a.Stars != 20+WarWinBonusStars+5 {
		t.Errorf("expected #A to have %d stars, got %d", 20+WarWinBonusStars+5, a.Stars)
	}
	if a.RoundsWon != 1 || a.RoundsLost != 0 {
		t.Errorf("in-progress war must not decide a round, got %+v", a)
	}

	b := rankOf(t, ranking, "#B")
	if b.Stars != 15+21+WarWinBonusStars || b.RoundsWon != 1 || b.RoundsLost != 1 {
		t.Errorf("unexpected #B entry %+v", b)
	}

	c, d := rankOf(t, ranking, "#C"), rankOf(t, ranking, "#D")
	if c.RoundsTied != 1 || d.RoundsTied != 1 {
		t.Errorf("expected a tie for #C and #D, got %+v %+v", c, d)
	}
	if d.Stars != 28 || d.Destruction != 125.5 {
		t.Errorf("tie and in-progress war keep raw stats, got %+v", d)
	}

	for i, e := range ranking {
		if e.Rank != i+1 {
			t.Errorf("expected rank %d, got %d", i+1, e.Rank)
		}
		if i > 0 && ranking[i-1].Stars < e.Stars {
			t.Errorf("ranking not ordered by stars: %+v", ranking)
		}
	}
}

func TestRankingCreateTieBreak(t *testing.T) {
	group := leagueGroup("2024-03", []string{"#W1"})
	wars := []models.War{
		// Equal stars, #B wins on destruction
		leagueWar("#W1", "2024-03", models.WarStateEnded, "#A", "#B", 20, 20, 90, 91.25),
	}
	resolved := ResolveRounds(group, wars)
	ranking := RankingCreate(resolved.Group, resolved.Rounds)

	if ranking[0].Tag != "#B" || ranking[0].Stars != 30 {
		t.Errorf("expected #B first with the win bonus, got %+v", ranking[0])
	}
	if ranking[1].Tag != "#A" {
		t.Errorf("expected #A second, got %+v", ranking[1])
	}
	// Clans without wars rank by tag
	if ranking[2].Tag != "#C" || ranking[3].Tag != "#D" {
		t.Errorf("expected idle clans ordered by tag, got %+v", ranking[2:])
	}
}

func TestResolveRoundsByeAndSeason(t *testing.T) {
	group := leagueGroup("2024-03", []string{"#W1", models.ByeWarTag}, []string{"#W2"})
	wars := []models.War{
		leagueWar("#W1", "2023-11", models.WarStateEnded, "#A", "#B", 30, 0, 100, 0),
		leagueWar("#W1", "2024-03", models.WarStateEnded, "#A", "#B", 10, 20, 50, 60),
	}

	resolved := ResolveRounds(group, wars)
	if len(resolved.Rounds) != 2 || len(resolved.Rounds[0]) != 2 {
		t.Fatalf("unexpected round shape %+v", resolved.Rounds)
	}
	w := resolved.Rounds[0][0]
	if w == nil || *w.Season != "2024-03" {
		t.Fatalf("expected the war from the group's season, got %+v", w)
	}
	if resolved.Rounds[0][1] != nil {
		t.Error("expected bye to stay unresolved")
	}
	if resolved.Rounds[1][0] != nil {
		t.Error("expected missing war to stay unresolved")
	}

	ranking := RankingCreate(resolved.Group, resolved.Rounds)
	if ranking[0].Tag != "#B" || ranking[0].Stars != 30 {
		t.Errorf("expected #B to win with 30 stars, got %+v", ranking[0])
	}
}

func TestBuildRankingHistory(t *testing.T) {
	march := leagueGroup("2024-03", []string{"#W1"})
	april := leagueGroup("2024-04", []string{"#W2"})
	may := leagueGroup("2024-05", []string{"#W3"})

	wars := []models.War{
		leagueWar("#W1", "2024-03", models.WarStateEnded, "#A", "#B", 30, 10, 100, 40),
		leagueWar("#W2", "2024-04", models.WarStateEnded, "#A", "#B", 5, 30, 20, 100),
		leagueWar("#W3", "2024-05", models.WarStateEnded, "#A", "#B", 5, 30, 20, 100),
	}
	groups := []ResolvedGroup{
		ResolveRounds(march, wars),
		ResolveRounds(april, wars),
		ResolveRounds(may, wars),
		ResolveRounds(march, wars), // duplicate group document
	}
	leagues := map[string]string{
		"2024-02": "Gold League II",
		"2024-03": "Gold League I",
		"2024-04": "Gold League I",
	}

	history := BuildRankingHistory("#A", groups, leagues)
	if len(history) != 3 {
		t.Fatalf("expected 3 seasons, got %d: %+v", len(history), history)
	}

	if history[0].Season != "2024-05" || history[2].Season != "2024-03" {
		t.Errorf("expected newest season first, got %s..%s", history[0].Season, history[2].Season)
	}

	mar := history[2]
	if mar.League != "Gold League II" || mar.Outcome != OutcomePromoted {
		t.Errorf("expected promotion out of Gold League II, got %+v", mar)
	}
	if mar.Rank != 1 || mar.NumClans != 4 || mar.Stars != 40 {
		t.Errorf("unexpected March placement %+v", mar)
	}

	apr := history[1]
	if apr.League != "Gold League I" || apr.Outcome != OutcomeStayed {
		t.Errorf("expected to stay in Gold League I, got %+v", apr)
	}

	if history[0].Outcome != "" {
		t.Errorf("expected no outcome without a following placement, got %q", history[0].Outcome)
	}
}

func TestBuildRankingHistorySkips(t *testing.T) {
	group := leagueGroup("2024-03", []string{"#W1"})
	wars := []models.War{leagueWar("#W1", "2024-03", models.WarStateEnded, "#A", "#B", 30, 10, 100, 40)}
	groups := []ResolvedGroup{ResolveRounds(group, wars)}

	if h := BuildRankingHistory("#A", groups, map[string]string{}); len(h) != 0 {
		t.Errorf("expected season without league record to be skipped, got %+v", h)
	}
	if h := BuildRankingHistory("#Z", groups, map[string]string{"2024-02": "Gold League I"}); len(h) != 0 {
		t.Errorf("expected clan outside the group to be skipped, got %+v", h)
	}
}

func TestLeagueOutcome(t *testing.T) {
	tests := []struct {
		played, next, want string
	}{
		{"Crystal League I", "Master League III", OutcomePromoted},
		{"Master League III", "Crystal League I", OutcomeDemoted},
		{"Champion League I", "Champion League I", OutcomeStayed},
		{"Gold League I", "", ""},
		{"Mystery League", "Gold League I", ""},
	}
	for _, tt := range tests {
		if got := leagueOutcome(tt.played, tt.next); got != tt.want {
			t.Errorf("leagueOutcome(%q, %q) = %q, want %q", tt.played, tt.next, got, tt.want)
		}
	}
}
