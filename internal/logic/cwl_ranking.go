package logic

import (
	"sort"
	"time"

	"github.com/cocstats/stats-api/internal/models"
)

// WarWinBonusStars is added to the winner of every decided league war
const WarWinBonusStars = 10

// League placement outcomes
const (
	OutcomePromoted = "promoted"
	OutcomeDemoted  = "demoted"
	OutcomeStayed   = "stayed"
)

// warLeagues lists war leagues from lowest to highest
var warLeagues = []string{
	"Unranked",
	"Bronze League III", "Bronze League II", "Bronze League I",
	"Silver League III", "Silver League II", "Silver League I",
	"Gold League III", "Gold League II", "Gold League I",
	"Crystal League III", "Crystal League II", "Crystal League I",
	"Master League III", "Master League II", "Master League I",
	"Champion League III", "Champion League II", "Champion League I",
}

var warLeagueIndex = func() map[string]int {
	m := make(map[string]int, len(warLeagues))
	for i, l := range warLeagues {
		m[l] = i
	}
	return m
}()

const seasonLayout = "2006-01"

// PreviousSeason returns the YYYY-MM season one month before season
func PreviousSeason(season string) (string, bool) {
	t, err := time.Parse(seasonLayout, season)
	if err != nil {
		return "", false
	}
	return t.AddDate(0, -1, 0).Format(seasonLayout), true
}

// ResolvedGroup is a league group with every round's war tags resolved to wars.
// A nil war is a bye or a tag that could not be resolved.
type ResolvedGroup struct {
	Group  models.CWLGroup
	Rounds [][]*models.War
}

// ResolveRounds maps the group's war tags onto wars. Wars from another season are
// ignored because the same war tag can be stored more than once.
func ResolveRounds(group models.CWLGroup, wars []models.War) ResolvedGroup {
	byTag := make(map[string]*models.War, len(wars))
	for i := range wars {
		w := &wars[i]
		if w.Tag == "" || w.Season == nil || *w.Season != group.Season {
			continue
		}
		if _, ok := byTag[w.Tag]; !ok {
			byTag[w.Tag] = w
		}
	}

	resolved := ResolvedGroup{Group: group, Rounds: make([][]*models.War, len(group.Rounds))}
	for i, round := range group.Rounds {
		resolved.Rounds[i] = make([]*models.War, len(round.WarTags))
		for j, tag := range round.WarTags {
			if tag == "" || tag == models.ByeWarTag {
				continue
			}
			resolved.Rounds[i][j] = byTag[tag]
		}
	}
	return resolved
}

// RankingCreate ranks a group by total stars, then total destruction.
// Both sides always keep their raw stars and destruction; the winner of a
// finished war also gets the win bonus. Byes are skipped.
func RankingCreate(group models.CWLGroup, rounds [][]*models.War) []models.CWLRankingEntry {
	entries := make(map[string]*models.CWLRankingEntry, len(group.Clans))
	entry := func(side *models.WarClan) *models.CWLRankingEntry {
		e, ok := entries[side.Tag]
		if !ok {
			e = &models.CWLRankingEntry{Tag: side.Tag, Name: side.Name}
			entries[side.Tag] = e
		}
		return e
	}
	for _, c := range group.Clans {
		entries[c.Tag] = &models.CWLRankingEntry{Tag: c.Tag, Name: c.Name}
	}

	for _, round := range rounds {
		for _, war := range round {
			if war == nil || war.Clan.Tag == "" || war.Opponent.Tag == "" {
				continue
			}
			clan, opp := entry(&war.Clan), entry(&war.Opponent)
			clan.Stars += war.Clan.Stars
			clan.Destruction += war.Clan.DestructionPercentage
			opp.Stars += war.Opponent.Stars
			opp.Destruction += war.Opponent.DestructionPercentage

			if !war.Ended() {
				continue
			}
			switch {
			case war.Clan.Beats(&war.Opponent):
				clan.Stars += WarWinBonusStars
				clan.RoundsWon++
				opp.RoundsLost++
			case war.Opponent.Beats(&war.Clan):
				opp.Stars += WarWinBonusStars
				opp.RoundsWon++
				clan.RoundsLost++
			default:
				clan.RoundsTied++
				opp.RoundsTied++
			}
		}
	}

	out := make([]models.CWLRankingEntry, 0, len(entries))
	for _, e := range entries {
		e.Destruction = round2(e.Destruction)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Stars != out[j].Stars {
			return out[i].Stars > out[j].Stars
		}
		if out[i].Destruction != out[j].Destruction {
			return out[i].Destruction > out[j].Destruction
		}
		return out[i].Tag < out[j].Tag
	})
	for i := range out {
		out[i].Rank = i + 1
	}
	return out
}

// BuildRankingHistory places clanTag in every group it played. League records
// are keyed by the month before the league season; seasons without one are skipped.
// The result is ordered newest season first.
func BuildRankingHistory(clanTag string, groups []ResolvedGroup, leagues map[string]string) []models.CWLRankingHistoryEntry {
	seen := make(map[string]struct{}, len(groups))
	var history []models.CWLRankingHistoryEntry

	for _, rg := range groups {
		season := rg.Group.Season
		if _, dup := seen[season]; dup {
			continue
		}
		offset, ok := PreviousSeason(season)
		if !ok {
			continue
		}
		league, ok := leagues[offset]
		if !ok {
			continue
		}

		ranking := RankingCreate(rg.Group, rg.Rounds)
		var own *models.CWLRankingEntry
		for i := range ranking {
			if ranking[i].Tag == clanTag {
				own = &ranking[i]
				break
			}
		}
		if own == nil {
			continue
		}
		seen[season] = struct{}{}

		history = append(history, models.CWLRankingHistoryEntry{
			CWLRankingEntry: *own,
			Season:          season,
			League:          league,
			NumClans:        len(ranking),
			Outcome:         leagueOutcome(league, leagues[season]),
		})
	}

	sort.Slice(history, func(i, j int) bool { return history[i].Season > history[j].Season })
	return history
}

// leagueOutcome compares the league played in with the league placed in afterwards
func leagueOutcome(played, next string) string {
	from, ok1 := warLeagueIndex[played]
	to, ok2 := warLeagueIndex[next]
	if !ok1 || !ok2 {
		return ""
	}
	switch {
	case to > from:
		return OutcomePromoted
	case to < from:
		return OutcomeDemoted
	default:
		return OutcomeStayed
	}
}
