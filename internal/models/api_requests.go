package models

import "time"

// HitrateQuery selects the wars and attacks that feed the matchup aggregator
type HitrateQuery struct {
	Tags           []string  `json:"tags" validate:"required,min=1,max=25,dive,required"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Season         string    `json:"season,omitempty" validate:"omitempty,datetime=2006-01"`
	WarType        string    `json:"war_type" validate:"omitempty,oneof=all cwl regular"`
	TownhallFilter string    `json:"townhall_filter" validate:"required"`
	FreshOnly      bool      `json:"fresh_only"`
	MinAttacks     int       `json:"min_attacks" validate:"gte=0"`
}

// JoinLeaveQuery selects and filters join/leave events
type JoinLeaveQuery struct {
	Tags            []string  `json:"tags" validate:"required,min=1,max=25,dive,required"`
	Start           time.Time `json:"start"`
	End             time.Time `json:"end"`
	Limit           int       `json:"limit" validate:"gte=1,lte=50000"`
	FilterLeaveJoin bool      `json:"filter_leave_join"`
	FilterJoinLeave bool      `json:"filter_join_leave"`
	FilterSeconds   int64     `json:"filter_time" validate:"gte=0"`
	OnlyType        string    `json:"only_type,omitempty" validate:"omitempty,oneof=join leave"`
	Townhall        int       `json:"townhall,omitempty" validate:"gte=0,lte=20"`
	NameContains    string    `json:"name_contains,omitempty"`
}

// RaidQuery selects a clan's recent raid weekends
type RaidQuery struct {
	ClanTag string `json:"clan_tag" validate:"required"`
	Limit   int    `json:"limit" validate:"gte=1,lte=100"`
}
