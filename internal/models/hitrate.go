package models

// PlayerHitStats is the per-player result of the matchup aggregator.
// Percentages are of the player's own counted attacks, rounded to 2 decimals.
type PlayerHitStats struct {
	Tag      string `json:"tag"`
	Name     string `json:"name"`
	Townhall int    `json:"townhall"`
	ClanTag  string `json:"clan_tag"`

	NumWars          int     `json:"num_wars"`
	NumAttacks       int     `json:"num_attacks"`
	TotalStars       int     `json:"total_stars"`
	TotalDestruction float64 `json:"total_destruction"`
	TotalDuration    int     `json:"total_duration"`
	TotalOrder       int     `json:"total_order"`
	FreshAttacks     int     `json:"fresh_attacks"`
	AttacksInWins    int     `json:"attacks_in_wins"`
	ZeroStars        int     `json:"zero_stars"`
	OneStars         int     `json:"one_stars"`
	TwoStars         int     `json:"two_stars"`
	ThreeStars       int     `json:"three_stars"`

	AvgStars       float64 `json:"avg_stars"`
	AvgDestruction float64 `json:"avg_destruction"`
	AvgDuration    float64 `json:"avg_duration"`
	AvgOrder       float64 `json:"avg_order"`
	AvgFresh       float64 `json:"avg_fresh"`
	AvgWon         float64 `json:"avg_won"`
	AvgZeroStars   float64 `json:"avg_zero_stars"`
	AvgOneStars    float64 `json:"avg_one_stars"`
	AvgTwoStars    float64 `json:"avg_two_stars"`
	AvgThreeStars  float64 `json:"avg_three_stars"`

	// MissedAttacks is keyed by the player's townhall level in the war the attacks were missed
	MissedAttacks map[int]int `json:"missed_attacks"`

	NumDefenses           int     `json:"num_defenses"`
	DefenseStars          int     `json:"defense_stars"`
	DefenseDestruction    float64 `json:"defense_destruction"`
	AvgDefenseStars       float64 `json:"avg_defense_stars"`
	AvgDefenseDestruction float64 `json:"avg_defense_destruction"`
}

// ClanHitStats summarizes own-side attacks for one clan
type ClanHitStats struct {
	Tag              string  `json:"tag"`
	Name             string  `json:"name"`
	NumWars          int     `json:"num_wars"`
	WarsWon          int     `json:"wars_won"`
	WarsLost         int     `json:"wars_lost"`
	WarsTied         int     `json:"wars_tied"`
	NumAttacks       int     `json:"num_attacks"`
	MissedAttacks    int     `json:"missed_attacks"`
	TotalStars       int     `json:"total_stars"`
	TotalDestruction float64 `json:"total_destruction"`
	AvgStars         float64 `json:"avg_stars"`
	AvgDestruction   float64 `json:"avg_destruction"`
	AvgThreeStars    float64 `json:"avg_three_stars"`
}

// MatchupBucket aggregates attacks for one (townhall, enemy townhall) pair.
// For defense matrices Townhall is the defender and Stars are stars given up.
type MatchupBucket struct {
	Townhall         int         `json:"townhall"`
	EnemyTownhall    int         `json:"enemy_townhall"`
	Attacks          int         `json:"attacks"`
	Stars            map[int]int `json:"stars"`
	TotalStars       int         `json:"total_stars"`
	TotalDestruction float64     `json:"total_destruction"`
	AvgStars         float64     `json:"avg_stars"`
	AvgDestruction   float64     `json:"avg_destruction"`
	Efficiency       string      `json:"efficiency"`
}

// HitrateReport is the full output of one aggregation run
type HitrateReport struct {
	WarsAnalyzed  int              `json:"wars_analyzed"`
	Filter        string           `json:"townhall_filter"`
	Players       []PlayerHitStats `json:"players"`
	Clans         []ClanHitStats   `json:"clans"`
	AttackMatrix  []MatchupBucket  `json:"attack_matrix"`
	DefenseMatrix []MatchupBucket  `json:"defense_matrix"`
}
