package models

// Raid season states
const (
	RaidStateOngoing = "ongoing"
	RaidStateEnded   = "ended"
)

// RaidSeason is one capital raid weekend for a clan.
// Reward fields are float64 because they may hold predicted values.
type RaidSeason struct {
	ClanTag                 string                `bson:"clan_tag,omitempty" json:"clan_tag,omitempty"`
	State                   string                `bson:"state" json:"state"`
	StartTime               string                `bson:"startTime" json:"startTime"`
	EndTime                 string                `bson:"endTime" json:"endTime"`
	CapitalTotalLoot        int                   `bson:"capitalTotalLoot" json:"capitalTotalLoot"`
	RaidsCompleted          int                   `bson:"raidsCompleted" json:"raidsCompleted"`
	TotalAttacks            int                   `bson:"totalAttacks" json:"totalAttacks"`
	EnemyDistrictsDestroyed int                   `bson:"enemyDistrictsDestroyed" json:"enemyDistrictsDestroyed"`
	OffensiveReward         float64               `bson:"offensiveReward" json:"offensiveReward"`
	DefensiveReward         float64               `bson:"defensiveReward" json:"defensiveReward"`
	DefenseLog              []RaidDefenseLogEntry `bson:"defenseLog,omitempty" json:"defenseLog,omitempty"`
}

// RaidDefenseLogEntry is one enemy clan's raid on our capital
type RaidDefenseLogEntry struct {
	Attacker           RaidClanRef    `bson:"attacker" json:"attacker"`
	AttackCount        int            `bson:"attackCount" json:"attackCount"`
	DistrictCount      int            `bson:"districtCount" json:"districtCount"`
	DistrictsDestroyed int            `bson:"districtsDestroyed" json:"districtsDestroyed"`
	Districts          []RaidDistrict `bson:"districts" json:"districts"`
}

// RaidClanRef identifies a clan inside a raid log
type RaidClanRef struct {
	Tag   string `bson:"tag" json:"tag"`
	Name  string `bson:"name" json:"name"`
	Level int    `bson:"level" json:"level"`
}

// RaidDistrict is the outcome for one district of a logged raid
type RaidDistrict struct {
	ID                 int    `bson:"id" json:"id"`
	Name               string `bson:"name" json:"name"`
	DistrictHallLevel  int    `bson:"districtHallLevel" json:"districtHallLevel"`
	DestructionPercent int    `bson:"destructionPercent" json:"destructionPercent"`
	AttackCount        int    `bson:"attackCount" json:"attackCount"`
	TotalLooted        int    `bson:"totalLooted" json:"totalLooted"`
}

// RaidSummary is a compact view of one weekend used for best/worst picks
type RaidSummary struct {
	StartTime       string  `json:"start_time"`
	State           string  `json:"state"`
	OffensiveReward float64 `json:"offensive_reward"`
	DefensiveReward float64 `json:"defensive_reward"`
	Score           float64 `json:"score"`
}

// RaidClanStats aggregates a clan's raid history
type RaidClanStats struct {
	NumberWeeks               int          `json:"number_weeks"`
	TotalLoot                 int          `json:"total_loot"`
	TotalAttacks              int          `json:"total_attacks"`
	TotalRaids                int          `json:"total_raids"`
	TotalDistrictsDestroyed   int          `json:"total_districts_destroyed"`
	AvgLootPerWeek            float64      `json:"avg_loot_per_week"`
	AvgLootPerAttack          float64      `json:"avg_loot_per_attack"`
	AvgLootPerRaid            float64      `json:"avg_loot_per_raid"`
	AvgLootPerDistrict        float64      `json:"avg_loot_per_district"`
	AvgAttacksPerWeek         float64      `json:"avg_attacks_per_week"`
	AvgRaidsPerWeek           float64      `json:"avg_raids_per_week"`
	AvgDistrictsPerWeek       float64      `json:"avg_districts_per_week"`
	AvgOffensiveRewardPerWeek float64      `json:"avg_offensive_reward_per_week"`
	AvgDefensiveRewardPerWeek float64      `json:"avg_defensive_reward_per_week"`
	BestRaid                  *RaidSummary `json:"best_raid"`
	WorstRaid                 *RaidSummary `json:"worst_raid"`
}

// RaidHistoryResponse is the enriched history plus its statistics
type RaidHistoryResponse struct {
	ClanTag string        `json:"clan_tag"`
	Stats   RaidClanStats `json:"stats"`
	History []RaidSeason  `json:"history"`
}
