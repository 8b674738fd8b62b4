package models

import "strings"

// War states as reported by the game API
const (
	WarStatePreparation = "preparation"
	WarStateInWar       = "inWar"
	WarStateEnded       = "warEnded"
)

// War is one war snapshot as stored by the polling service.
// Field names mirror the upstream game API so documents can be decoded as-is.
type War struct {
	Tag                  string  `bson:"tag,omitempty" json:"tag,omitempty"` // CWL war tag
	State                string  `bson:"state" json:"state"`
	TeamSize             int     `bson:"teamSize" json:"teamSize"`
	AttacksPerMember     int     `bson:"attacksPerMember" json:"attacksPerMember"`
	PreparationStartTime string  `bson:"preparationStartTime" json:"preparationStartTime"`
	StartTime            string  `bson:"startTime" json:"startTime"`
	EndTime              string  `bson:"endTime" json:"endTime"`
	Season               *string `bson:"season,omitempty" json:"season,omitempty"` // only set for CWL wars
	Clan                 WarClan `bson:"clan" json:"clan"`
	Opponent             WarClan `bson:"opponent" json:"opponent"`
}

// WarClan is one side of a war
type WarClan struct {
	Tag                   string      `bson:"tag" json:"tag"`
	Name                  string      `bson:"name" json:"name"`
	ClanLevel             int         `bson:"clanLevel" json:"clanLevel"`
	Attacks               int         `bson:"attacks" json:"attacks"`
	Stars                 int         `bson:"stars" json:"stars"`
	DestructionPercentage float64     `bson:"destructionPercentage" json:"destructionPercentage"`
	Members               []WarMember `bson:"members" json:"members"`
}

// WarMember is a roster entry on one side of a war
type WarMember struct {
	Tag                string      `bson:"tag" json:"tag"`
	Name               string      `bson:"name" json:"name"`
	TownhallLevel      int         `bson:"townhallLevel" json:"townhallLevel"`
	MapPosition        int         `bson:"mapPosition" json:"mapPosition"`
	Attacks            []WarAttack `bson:"attacks" json:"attacks"`
	OpponentAttacks    int         `bson:"opponentAttacks" json:"opponentAttacks"`
	BestOpponentAttack *WarAttack  `bson:"bestOpponentAttack,omitempty" json:"bestOpponentAttack,omitempty"`
}

// WarAttack is a single hit
type WarAttack struct {
	AttackerTag           string  `bson:"attackerTag" json:"attackerTag"`
	DefenderTag           string  `bson:"defenderTag" json:"defenderTag"`
	Stars                 int     `bson:"stars" json:"stars"`
	DestructionPercentage float64 `bson:"destructionPercentage" json:"destructionPercentage"`
	Order                 int     `bson:"order" json:"order"`
	Duration              int     `bson:"duration" json:"duration"`
}

// IsCWL reports whether the war belongs to a league season
func (w *War) IsCWL() bool {
	return w.Season != nil && *w.Season != ""
}

// Ended reports whether the war is finished
func (w *War) Ended() bool {
	return w.State == WarStateEnded
}

// AttacksAvailable returns attacks per member, defaulting by war type
// when older documents omit the field.
func (w *War) AttacksAvailable() int {
	if w.AttacksPerMember > 0 {
		return w.AttacksPerMember
	}
	if w.IsCWL() {
		return 1
	}
	return 2
}

// DedupKey identifies a war instance regardless of which side it was stored from
func (w *War) DedupKey() string {
	a, b := w.Clan.Tag, w.Opponent.Tag
	if a > b {
		a, b = b, a
	}
	return w.PreparationStartTime + "|" + a + "|" + b
}

// Side returns (own, enemy) for the given clan tag, or ok=false if the clan is not in the war
func (w *War) Side(clanTag string) (own, enemy *WarClan, ok bool) {
	switch clanTag {
	case w.Clan.Tag:
		return &w.Clan, &w.Opponent, true
	case w.Opponent.Tag:
		return &w.Opponent, &w.Clan, true
	}
	return nil, nil, false
}

// Beats reports whether side a beats side b: more stars, then more destruction
func (a *WarClan) Beats(b *WarClan) bool {
	if a.Stars != b.Stars {
		return a.Stars > b.Stars
	}
	return a.DestructionPercentage > b.DestructionPercentage
}

// NormalizeTag upper-cases a player/clan tag and makes sure it starts with '#'
func NormalizeTag(tag string) string {
	tag = strings.ToUpper(strings.TrimSpace(tag))
	if tag == "" {
		return ""
	}
	tag = strings.ReplaceAll(tag, "O", "0")
	if !strings.HasPrefix(tag, "#") {
		tag = "#" + tag
	}
	return tag
}
