package models

import "time"

// Join/leave event types
const (
	EventJoin  = "join"
	EventLeave = "leave"
)

// JoinLeaveEvent is one membership transition recorded by the clan tracker
type JoinLeaveEvent struct {
	Tag  string   `bson:"tag" json:"tag"`
	Clan string   `bson:"clan" json:"clan"`
	Type string   `bson:"type" json:"type"`
	Time FlexTime `bson:"time" json:"time"`
	Name string   `bson:"name" json:"name"`
	TH   int      `bson:"th" json:"th"`
}

// Mover is a player ranked by how often they joined or left
type Mover struct {
	Tag    string `json:"tag"`
	Name   string `json:"name"`
	Events int    `json:"events"`
}

// JoinLeaveStats summarizes a (possibly filtered) event list.
// Timestamps and the busiest hour are nil when there are no events.
type JoinLeaveStats struct {
	TotalEvents           int        `json:"total_events"`
	TotalJoins            int        `json:"total_joins"`
	TotalLeaves           int        `json:"total_leaves"`
	UniquePlayers         int        `json:"unique_players"`
	ActivePlayers         int        `json:"active_players"`
	Rejoins               int        `json:"rejoins"`
	FirstEvent            *time.Time `json:"first_event"`
	LastEvent             *time.Time `json:"last_event"`
	MostCommonHour        *int       `json:"most_common_hour"`
	AvgTimeInClanSeconds  float64    `json:"avg_time_in_clan_seconds"`
	TopMovers             []Mover    `json:"top_movers"`
	StillInClan           int        `json:"still_in_clan"`
	LeftForever           int        `json:"left_forever"`
	NonAlternatingPlayers int        `json:"non_alternating_players"`
}

// JoinLeaveResponse bundles events with their statistics
type JoinLeaveResponse struct {
	Stats  JoinLeaveStats   `json:"stats"`
	Events []JoinLeaveEvent `json:"events"`
}
