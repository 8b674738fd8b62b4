package logic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cocstats/stats-api/internal/models"
)

// ErrInvalidTownhallFilter is returned for expressions that are not of the form <a>v<b>
var ErrInvalidTownhallFilter = errors.New("invalid townhall filter")

const maxTownhall = 20

// TownhallFilter restricts which (own townhall, enemy townhall) pairs are counted.
// Zero on a side means any level; Equal requires both levels to match.
type TownhallFilter struct {
	Own   int
	Enemy int
	Equal bool
}

// ParseTownhallFilter parses "*v*", "=v=", "13v13", "14v*", "13v=" and similar.
// An empty expression is the same as "*v*".
func ParseTownhallFilter(expr string) (TownhallFilter, error) {
	expr = strings.ToLower(strings.TrimSpace(expr))
	if expr == "" {
		return TownhallFilter{}, nil
	}

	parts := strings.Split(expr, "v")
	if len(parts) != 2 {
		return TownhallFilter{}, fmt.Errorf("%w: %q", ErrInvalidTownhallFilter, expr)
	}

	var f TownhallFilter
	sides := [2]*int{&f.Own, &f.Enemy}
	for i, part := range parts {
		switch part {
		case "*":
		case "=":
			f.Equal = true
		default:
			level, err := strconv.Atoi(part)
			if err != nil || level < 1 || level > maxTownhall {
				return TownhallFilter{}, fmt.Errorf("%w: %q", ErrInvalidTownhallFilter, expr)
			}
			*sides[i] = level
		}
	}
	return f, nil
}

// Match reports whether an attack between the two levels passes the filter
func (f TownhallFilter) Match(own, enemy int) bool {
	if f.Equal && own != enemy {
		return false
	}
	if f.Own != 0 && own != f.Own {
		return false
	}
	if f.Enemy != 0 && enemy != f.Enemy {
		return false
	}
	return true
}

func (f TownhallFilter) String() string {
	side := func(level int) string {
		switch {
		case level != 0:
			return strconv.Itoa(level)
		case f.Equal:
			return "="
		default:
			return "*"
		}
	}
	return side(f.Own) + "v" + side(f.Enemy)
}

// HitrateOptions controls one aggregation run
type HitrateOptions struct {
	// OwnClans are the clans whose side is "own". Ignored when PlayerTags is set.
	OwnClans []string
	// PlayerTags switches to player mode: the own side is each side holding one
	// of these players and only they are reported.
	PlayerTags []string
	Filter     TownhallFilter
	FreshOnly  bool
	MinAttacks int
}

// DedupeWars drops repeated ingestions of the same war and returns the wars
// ordered by preparation start. The first copy is kept unless a later copy is
// the finished war and the kept one is not. Wars without a preparation start
// time cannot be identified and are skipped.
func DedupeWars(wars []models.War) []models.War {
	seen := make(map[string]int, len(wars))
	out := make([]models.War, 0, len(wars))
	for _, w := range wars {
		if w.PreparationStartTime == "" {
			continue
		}
		key := w.DedupKey()
		if i, ok := seen[key]; ok {
			if !out[i].Ended() && w.Ended() {
				out[i] = w
			}
			continue
		}
		seen[key] = len(out)
		out = append(out, w)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PreparationStartTime < out[j].PreparationStartTime
	})
	return out
}

type bucketKey struct {
	th, enemy int
}

type hitrateAccumulator struct {
	opts    HitrateOptions
	players map[string]*models.PlayerHitStats
	clans   map[string]*models.ClanHitStats
	triples map[string]int
	attacks map[bucketKey]*models.MatchupBucket
	defense map[bucketKey]*models.MatchupBucket
}

// AggregateHitrate buckets every counted attack and defense of the own side.
// It performs no I/O and returns the same report for the same input.
func AggregateHitrate(wars []models.War, opts HitrateOptions) *models.HitrateReport {
	acc := &hitrateAccumulator{
		opts:    opts,
		players: make(map[string]*models.PlayerHitStats),
		clans:   make(map[string]*models.ClanHitStats),
		triples: make(map[string]int),
		attacks: make(map[bucketKey]*models.MatchupBucket),
		defense: make(map[bucketKey]*models.MatchupBucket),
	}

	ownClans := toSet(opts.OwnClans)
	players := toSet(opts.PlayerTags)

	report := &models.HitrateReport{Filter: opts.Filter.String()}
	for _, war := range DedupeWars(wars) {
		counted := false
		for _, side := range ownSides(&war, ownClans, players) {
			if len(side.own.Members) == 0 {
				continue
			}
			counted = true
			acc.addWar(&war, side.own, side.enemy, players)
		}
		if counted {
			report.WarsAnalyzed++
		}
	}

	report.Players = acc.finishPlayers()
	report.Clans = acc.finishClans()
	report.AttackMatrix = finishBuckets(acc.attacks)
	report.DefenseMatrix = finishBuckets(acc.defense)
	return report
}

type warSide struct {
	own, enemy *models.WarClan
}

// ownSides returns every side of the war to aggregate: each requested clan's
// side in clan mode, or each side holding one of the players in player mode.
func ownSides(war *models.War, ownClans, players map[string]struct{}) []warSide {
	var out []warSide
	for _, side := range []warSide{
		{&war.Clan, &war.Opponent},
		{&war.Opponent, &war.Clan},
	} {
		if len(players) > 0 {
			for _, m := range side.own.Members {
				if _, ok := players[m.Tag]; ok {
					out = append(out, side)
					break
				}
			}
			continue
		}
		if side.own.Tag == "" {
			continue
		}
		if _, ok := ownClans[side.own.Tag]; ok {
			out = append(out, side)
		}
	}
	return out
}

func (a *hitrateAccumulator) addWar(war *models.War, own, enemy *models.WarClan, players map[string]struct{}) {
	tracked := func(tag string) bool {
		if len(players) == 0 {
			return true
		}
		_, ok := players[tag]
		return ok
	}

	ownTH := townhallsByTag(own.Members)
	enemyTH := townhallsByTag(enemy.Members)
	firstOwnHit := firstHitOrder(own.Members)
	firstEnemyHit := firstHitOrder(enemy.Members)

	ended := war.Ended()
	won := ended && own.Beats(enemy)

	clan := a.clan(own)
	clan.NumWars++
	if ended {
		switch {
		case own.Beats(enemy):
			clan.WarsWon++
		case enemy.Beats(own):
			clan.WarsLost++
		default:
			clan.WarsTied++
		}
	}

	for _, m := range own.Members {
		if !tracked(m.Tag) {
			continue
		}
		p := a.player(m, own.Tag)
		p.NumWars++

		if ended {
			if missed := war.AttacksAvailable() - len(m.Attacks); missed > 0 {
				p.MissedAttacks[m.TownhallLevel] += missed
				clan.MissedAttacks += missed
			}
		}

		for _, atk := range m.Attacks {
			defTH, ok := enemyTH[atk.DefenderTag]
			if !ok || defTH == 0 {
				continue
			}
			fresh := atk.Order == firstOwnHit[atk.DefenderTag]
			if a.opts.FreshOnly && !fresh {
				continue
			}
			if !a.opts.Filter.Match(m.TownhallLevel, defTH) {
				continue
			}

			p.NumAttacks++
			p.TotalStars += atk.Stars
			p.TotalDestruction += atk.DestructionPercentage
			p.TotalDuration += atk.Duration
			p.TotalOrder += atk.Order
			if fresh {
				p.FreshAttacks++
			}
			if won {
				p.AttacksInWins++
			}
			switch atk.Stars {
			case 0:
				p.ZeroStars++
			case 1:
				p.OneStars++
			case 2:
				p.TwoStars++
			case 3:
				p.ThreeStars++
			}

			clan.NumAttacks++
			clan.TotalStars += atk.Stars
			clan.TotalDestruction += atk.DestructionPercentage
			if atk.Stars == 3 {
				a.triples[own.Tag]++
			}

			addToBucket(a.attacks, m.TownhallLevel, defTH, atk)
		}
	}

	// Defenses: every enemy hit on a tracked own member
	for _, e := range enemy.Members {
		for _, atk := range e.Attacks {
			defTH, ok := ownTH[atk.DefenderTag]
			if !ok || defTH == 0 || e.TownhallLevel == 0 {
				continue
			}
			if !tracked(atk.DefenderTag) {
				continue
			}
			if a.opts.FreshOnly && atk.Order != firstEnemyHit[atk.DefenderTag] {
				continue
			}
			if !a.opts.Filter.Match(defTH, e.TownhallLevel) {
				continue
			}
			if p, ok := a.players[atk.DefenderTag]; ok {
				p.NumDefenses++
				p.DefenseStars += atk.Stars
				p.DefenseDestruction += atk.DestructionPercentage
			}
			addToBucket(a.defense, defTH, e.TownhallLevel, atk)
		}
	}
}

func (a *hitrateAccumulator) player(m models.WarMember, clanTag string) *models.PlayerHitStats {
	p, ok := a.players[m.Tag]
	if !ok {
		p = &models.PlayerHitStats{Tag: m.Tag, MissedAttacks: make(map[int]int)}
		a.players[m.Tag] = p
	}
	// Wars are processed oldest first so the latest snapshot wins
	p.Name = m.Name
	p.Townhall = m.TownhallLevel
	p.ClanTag = clanTag
	return p
}

func (a *hitrateAccumulator) clan(side *models.WarClan) *models.ClanHitStats {
	c, ok := a.clans[side.Tag]
	if !ok {
		c = &models.ClanHitStats{Tag: side.Tag}
		a.clans[side.Tag] = c
	}
	c.Name = side.Name
	return c
}

func (a *hitrateAccumulator) finishPlayers() []models.PlayerHitStats {
	out := make([]models.PlayerHitStats, 0, len(a.players))
	for _, p := range a.players {
		if p.NumAttacks < a.opts.MinAttacks {
			continue
		}
		if n := float64(p.NumAttacks); n > 0 {
			p.AvgStars = round2(float64(p.TotalStars) / n)
			p.AvgDestruction = round2(p.TotalDestruction / n)
			p.AvgDuration = round2(float64(p.TotalDuration) / n)
			p.AvgOrder = round2(float64(p.TotalOrder) / n)
			p.AvgFresh = percent(p.FreshAttacks, p.NumAttacks)
			p.AvgWon = percent(p.AttacksInWins, p.NumAttacks)
			p.AvgZeroStars = percent(p.ZeroStars, p.NumAttacks)
			p.AvgOneStars = percent(p.OneStars, p.NumAttacks)
			p.AvgTwoStars = percent(p.TwoStars, p.NumAttacks)
			p.AvgThreeStars = percent(p.ThreeStars, p.NumAttacks)
		}
		if n := float64(p.NumDefenses); n > 0 {
			p.AvgDefenseStars = round2(float64(p.DefenseStars) / n)
			p.AvgDefenseDestruction = round2(p.DefenseDestruction / n)
		}
		out = append(out, *p)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].AvgThreeStars != out[j].AvgThreeStars {
			return out[i].AvgThreeStars > out[j].AvgThreeStars
		}
		if out[i].NumAttacks != out[j].NumAttacks {
			return out[i].NumAttacks > out[j].NumAttacks
		}
		return out[i].Tag < out[j].Tag
	})
	return out
}

func (a *hitrateAccumulator) finishClans() []models.ClanHitStats {
	out := make([]models.ClanHitStats, 0, len(a.clans))
	for _, c := range a.clans {
		if n := float64(c.NumAttacks); n > 0 {
			c.AvgStars = round2(float64(c.TotalStars) / n)
			c.AvgDestruction = round2(c.TotalDestruction / n)
			c.AvgThreeStars = percent(a.triples[c.Tag], c.NumAttacks)
		}
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}

func addToBucket(buckets map[bucketKey]*models.MatchupBucket, th, enemy int, atk models.WarAttack) {
	key := bucketKey{th: th, enemy: enemy}
	b, ok := buckets[key]
	if !ok {
		b = &models.MatchupBucket{Townhall: th, EnemyTownhall: enemy, Stars: make(map[int]int)}
		buckets[key] = b
	}
	b.Attacks++
	b.Stars[atk.Stars]++
	b.TotalStars += atk.Stars
	b.TotalDestruction += atk.DestructionPercentage
}

func finishBuckets(buckets map[bucketKey]*models.MatchupBucket) []models.MatchupBucket {
	out := make([]models.MatchupBucket, 0, len(buckets))
	for _, b := range buckets {
		if b.Attacks > 0 {
			avg := float64(b.TotalStars) / float64(b.Attacks)
			b.AvgStars = round2(avg)
			b.AvgDestruction = round2(b.TotalDestruction / float64(b.Attacks))
			b.Efficiency = fmt.Sprintf("%d%%", int(math.Round(avg/3.0*100)))
		}
		out = append(out, *b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Townhall != out[j].Townhall {
			return out[i].Townhall > out[j].Townhall
		}
		return out[i].EnemyTownhall > out[j].EnemyTownhall
	})
	return out
}

func townhallsByTag(members []models.WarMember) map[string]int {
	out := make(map[string]int, len(members))
	for _, m := range members {
		out[m.Tag] = m.TownhallLevel
	}
	return out
}

// firstHitOrder maps each defender tag to the order of the first attack it received
// from the given attackers.
func firstHitOrder(attackers []models.WarMember) map[string]int {
	out := make(map[string]int)
	for _, m := range attackers {
		for _, atk := range m.Attacks {
			if prev, ok := out[atk.DefenderTag]; !ok || atk.Order < prev {
				out[atk.DefenderTag] = atk.Order
			}
		}
	}
	return out
}

func toSet(tags []string) map[string]struct{} {
	out := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		out[t] = struct{}{}
	}
	return out
}

func round2(x float64) float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0
	}
	return math.Round(x*100) / 100
}

func percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(part) / float64(total) * 100)
}
