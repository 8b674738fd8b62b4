package logic

import (
	"math"
	"testing"

	"github.com/cocstats/stats-api/internal/models"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-3
}

func raidWeek(start, state string, loot, attacks int, offense, defense float64) models.RaidSeason {
	return models.RaidSeason{
		ClanTag:                 "#CLAN",
		State:                   state,
		StartTime:               start,
		CapitalTotalLoot:        loot,
		TotalAttacks:            attacks,
		RaidsCompleted:          attacks / 20,
		EnemyDistrictsDestroyed: attacks / 4,
		OffensiveReward:         offense,
		DefensiveReward:         defense,
	}
}

func TestPredictRaidRewards(t *testing.T) {
	in := []models.RaidSeason{raidWeek("20240105T070000.000Z", models.RaidStateEnded, 500000, 100, 0, 0)}

	out := PredictRaidRewards(in)

	wantPerformance := 5*math.Sqrt(600000) - 500 - 700
	if !approx(out[0].OffensiveReward, wantPerformance*0.8) {
		t.Errorf("expected offense %.4f, got %.4f", wantPerformance*0.8, out[0].OffensiveReward)
	}
	if !approx(out[0].OffensiveReward, 2138.3867) {
		t.Errorf("expected offense near 2138.3867, got %.4f", out[0].OffensiveReward)
	}
	if !approx(out[0].DefensiveReward, 534.5967) {
		t.Errorf("expected defense near 534.5967, got %.4f", out[0].DefensiveReward)
	}

	if in[0].OffensiveReward != 0 || in[0].DefensiveReward != 0 {
		t.Error("input must not be modified")
	}
}

func TestPredictRaidRewardsKeepsReported(t *testing.T) {
	in := []models.RaidSeason{
		raidWeek("20240105T070000.000Z", models.RaidStateEnded, 500000, 100, 1500, 0),
		raidWeek("20240112T070000.000Z", models.RaidStateEnded, 500000, 100, 1500, 300),
		raidWeek("20240119T070000.000Z", models.RaidStateEnded, 0, 0, 0, 0),
	}

	out := PredictRaidRewards(in)

	if out[0].OffensiveReward != 1500 {
		t.Errorf("reported offense must be kept, got %v", out[0].OffensiveReward)
	}
	if !approx(out[0].DefensiveReward, 534.5967) {
		t.Errorf("expected predicted defense, got %v", out[0].DefensiveReward)
	}
	if out[1].OffensiveReward != 1500 || out[1].DefensiveReward != 300 {
		t.Errorf("fully reported week must be untouched, got %+v", out[1])
	}
	if out[2].OffensiveReward != 0 || out[2].DefensiveReward != 0 {
		t.Errorf("week without attacks must stay zero, got %+v", out[2])
	}
}

func TestPredictRaidRewardsUsesDefenseLog(t *testing.T) {
	s := raidWeek("20240105T070000.000Z", models.RaidStateEnded, 500000, 100, 0, 0)
	s.DefenseLog = []models.RaidDefenseLogEntry{{
		Districts: []models.RaidDistrict{
			{AttackCount: 10, TotalLooted: 20000},
			{AttackCount: 10, TotalLooted: 40000},
		},
	}}

	out := PredictRaidRewards([]models.RaidSeason{s})

	// Defense loot of 3000 per attack against 5000 on offense
	diff := -2000.0
	deduction := math.Max((diff+2000)/20, math.Min(diff+700, diff/20+1400))
	want := (5*math.Sqrt(600000) - 500 - deduction) * 0.8
	if !approx(out[0].OffensiveReward, want) {
		t.Errorf("expected offense %.4f, got %.4f", want, out[0].OffensiveReward)
	}
	if out[0].OffensiveReward <= 2138.3867 {
		t.Errorf("a well-defended week should predict more, got %.4f", out[0].OffensiveReward)
	}
}

func TestGenerateRaidClanStats(t *testing.T) {
	history := []models.RaidSeason{
		raidWeek("20240119T070000.000Z", models.RaidStateOngoing, 100000, 40, 0, 0),
		raidWeek("20240112T070000.000Z", models.RaidStateEnded, 600000, 120, 2000, 400),
		raidWeek("20240105T070000.000Z", models.RaidStateEnded, 400000, 80, 1000, 600),
	}

	stats := GenerateRaidClanStats(history)

	if stats.NumberWeeks != 2 {
		t.Errorf("expected the ongoing week to be excluded from the count, got %d", stats.NumberWeeks)
	}
	if stats.TotalLoot != 1100000 || stats.TotalAttacks != 240 {
		t.Errorf("unexpected totals %+v", stats)
	}
	if stats.AvgLootPerWeek != 550000 {
		t.Errorf("expected 550000 loot per week, got %v", stats.AvgLootPerWeek)
	}
	if !approx(stats.AvgLootPerAttack, 4583.33) {
		t.Errorf("expected 4583.33 loot per attack, got %v", stats.AvgLootPerAttack)
	}
	if stats.AvgOffensiveRewardPerWeek != 1500 || stats.AvgDefensiveRewardPerWeek != 500 {
		t.Errorf("unexpected reward averages %v %v", stats.AvgOffensiveRewardPerWeek, stats.AvgDefensiveRewardPerWeek)
	}

	if stats.BestRaid == nil || stats.BestRaid.StartTime != "20240112T070000.000Z" {
		t.Errorf("expected best raid on 2024-01-12, got %+v", stats.BestRaid)
	}
	if stats.BestRaid.Score != 6*2000+400 {
		t.Errorf("expected score %d, got %v", 6*2000+400, stats.BestRaid.Score)
	}
	if stats.WorstRaid == nil || stats.WorstRaid.StartTime != "20240105T070000.000Z" {
		t.Errorf("expected worst finished raid on 2024-01-05, got %+v", stats.WorstRaid)
	}
}

func TestGenerateRaidClanStatsSingleOngoing(t *testing.T) {
	stats := GenerateRaidClanStats([]models.RaidSeason{
		raidWeek("20240119T070000.000Z", models.RaidStateOngoing, 100000, 40, 0, 0),
	})
	if stats.NumberWeeks != 1 {
		t.Errorf("a lone ongoing week still counts, got %d", stats.NumberWeeks)
	}
	if stats.WorstRaid != nil {
		t.Errorf("expected no worst raid without a finished week, got %+v", stats.WorstRaid)
	}
}

func TestGenerateRaidClanStatsEmpty(t *testing.T) {
	stats := GenerateRaidClanStats(nil)
	if stats.NumberWeeks != 0 || stats.BestRaid != nil || stats.AvgLootPerWeek != 0 {
		t.Errorf("expected zero stats, got %+v", stats)
	}
}
