package models

// ByeWarTag marks a round slot with no war
const ByeWarTag = "#0"

// CWLGroup is one clan war league season for a group of clans
type CWLGroup struct {
	Season string     `bson:"season" json:"season"` // YYYY-MM
	State  string     `bson:"state" json:"state"`
	Clans  []CWLClan  `bson:"clans" json:"clans"`
	Rounds []CWLRound `bson:"rounds" json:"rounds"`
}

// CWLClan is a participant of a league group
type CWLClan struct {
	Tag       string `bson:"tag" json:"tag"`
	Name      string `bson:"name" json:"name"`
	ClanLevel int    `bson:"clanLevel" json:"clanLevel"`
}

// CWLRound lists the war tags played in one round
type CWLRound struct {
	WarTags []string `bson:"warTags" json:"warTags"`
}

// HasClan reports whether the clan takes part in this group
func (g *CWLGroup) HasClan(tag string) bool {
	for _, c := range g.Clans {
		if c.Tag == tag {
			return true
		}
	}
	return false
}

// WarTags returns every resolvable war tag of the group, byes excluded
func (g *CWLGroup) WarTags() []string {
	var tags []string
	for _, r := range g.Rounds {
		for _, t := range r.WarTags {
			if t == "" || t == ByeWarTag {
				continue
			}
			tags = append(tags, t)
		}
	}
	return tags
}

// LeagueChange is the war league a clan was placed in for a season
type LeagueChange struct {
	Season string `bson:"season" json:"season"`
	League string `bson:"league" json:"league"`
}

// CWLRankingEntry is one clan's line in a group ranking
type CWLRankingEntry struct {
	Rank        int     `json:"rank"`
	Tag         string  `json:"tag"`
	Name        string  `json:"name"`
	Stars       int     `json:"stars"`
	Destruction float64 `json:"destruction"`
	RoundsWon   int     `json:"rounds_won"`
	RoundsLost  int     `json:"rounds_lost"`
	RoundsTied  int     `json:"rounds_tied"`
}

// CWLRanking is the ranking of a whole group
type CWLRanking struct {
	Season  string            `json:"season"`
	Ranking []CWLRankingEntry `json:"ranking"`
}

// CWLRankingHistoryEntry is a clan's placement in one past season
type CWLRankingHistoryEntry struct {
	CWLRankingEntry
	Season   string `json:"season"`
	League   string `json:"league"`
	NumClans int    `json:"num_clans"`
	Outcome  string `json:"outcome,omitempty"` // promoted, demoted, stayed
}
