package main

import (
	"context"
	"flag"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/cocstats/stats-api/internal/models"
	"github.com/cocstats/stats-api/internal/store"
)

// Demo clans
const (
	clanA = "#2PP"
	clanB = "#8QJ"
	clanC = "#9LY"
	clanD = "#Y2C"
)

func main() {
	_ = godotenv.Load()

	uri := flag.String("uri", os.Getenv("MONGODB_URI"), "MongoDB connection string")
	database := flag.String("db", envOr("MONGODB_DATABASE", "clashstats"), "database name")
	flag.Parse()

	if *uri == "" {
		log.Fatal("MONGODB_URI or -uri is required")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := store.Connect(ctx, *uri, *database, zap.NewNop())
	if err != nil {
		log.Fatalf("Failed to connect: %v", err)
	}
	defer db.Close(context.Background())

	if err := db.EnsureIndexes(ctx); err != nil {
		log.Printf("Index creation failed: %v", err)
	}

	base := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	batches := map[string][]any{
		store.CollWars:      demoWars(base),
		store.CollCWLGroups: demoGroups(),
		store.CollLeagues:   demoLeagues(),
		store.CollJoinLeave: demoJoinLeave(base),
		store.CollRaids:     demoRaids(),
	}

	for coll, docs := range batches {
		n, err := db.InsertMany(ctx, coll, docs)
		if err != nil {
			log.Printf("%s: %v", coll, err)
			continue
		}
		log.Printf("Inserted %d documents into %s", n, coll)
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func member(tag, name string, th, pos int, attacks ...models.WarAttack) models.WarMember {
	return models.WarMember{Tag: tag, Name: name, TownhallLevel: th, MapPosition: pos, Attacks: attacks}
}

func hit(attacker, defender string, stars int, destruction float64, order int) models.WarAttack {
	return models.WarAttack{
		AttackerTag:           attacker,
		DefenderTag:           defender,
		Stars:                 stars,
		DestructionPercentage: destruction,
		Order:                 order,
		Duration:              150,
	}
}

// demoWars has one regular war stored from both sides plus the four wars of a league round pair
func demoWars(base time.Time) []any {
	regular := func(ownTag, oppTag string, own, opp models.WarClan) models.War {
		own.Tag, opp.Tag = ownTag, oppTag
		return models.War{
			State:                models.WarStateEnded,
			TeamSize:             2,
			AttacksPerMember:     2,
			PreparationStartTime: models.FormatGameTime(base),
			StartTime:            models.FormatGameTime(base.Add(23 * time.Hour)),
			EndTime:              models.FormatGameTime(base.Add(47 * time.Hour)),
			Clan:                 own,
			Opponent:             opp,
		}
	}

	sideA := models.WarClan{
		Name: "Alpha", Stars: 5, DestructionPercentage: 91.5, Attacks: 3,
		Members: []models.WarMember{
			member("#PA1", "Ace", 13, 1, hit("#PA1", "#PB1", 3, 100, 1), hit("#PA1", "#PB2", 2, 83, 3)),
			member("#PA2", "Bolt", 12, 2, hit("#PA2", "#PB2", 2, 66, 4)),
		},
	}
	sideB := models.WarClan{
		Name: "Bravo", Stars: 3, DestructionPercentage: 70.0, Attacks: 2,
		Members: []models.WarMember{
			member("#PB1", "Cobra", 13, 1, hit("#PB1", "#PA1", 2, 88, 2)),
			member("#PB2", "Dune", 12, 2, hit("#PB2", "#PA2", 1, 52, 5)),
		},
	}

	season := "2024-03"
	cwl := func(tag string, round int, own, opp models.WarClan) models.War {
		prep := base.AddDate(0, 0, 2+round)
		return models.War{
			Tag:                  tag,
			State:                models.WarStateEnded,
			TeamSize:             1,
			AttacksPerMember:     1,
			PreparationStartTime: models.FormatGameTime(prep),
			StartTime:            models.FormatGameTime(prep.Add(23 * time.Hour)),
			EndTime:              models.FormatGameTime(prep.Add(47 * time.Hour)),
			Season:               &season,
			Clan:                 own,
			Opponent:             opp,
		}
	}
	side := func(tag, name string, stars int, destruction float64) models.WarClan {
		return models.WarClan{Tag: tag, Name: name, Stars: stars, DestructionPercentage: destruction}
	}

	return []any{
		regular(clanA, clanB, sideA, sideB),
		// Same war as polled from the other clan
		regular(clanB, clanA, sideB, sideA),
		cwl("#W1", 0, side(clanA, "Alpha", 3, 100), side(clanB, "Bravo", 2, 80)),
		cwl("#W2", 0, side(clanC, "Charlie", 1, 40), side(clanD, "Delta", 1, 45)),
		cwl("#W3", 1, side(clanA, "Alpha", 2, 75), side(clanC, "Charlie", 2, 75)),
		cwl("#W4", 1, side(clanB, "Bravo", 3, 100), side(clanD, "Delta", 0, 30)),
	}
}

func demoGroups() []any {
	return []any{
		models.CWLGroup{
			Season: "2024-03",
			State:  "ended",
			Clans: []models.CWLClan{
				{Tag: clanA, Name: "Alpha"},
				{Tag: clanB, Name: "Bravo"},
				{Tag: clanC, Name: "Charlie"},
				{Tag: clanD, Name: "Delta"},
			},
			Rounds: []models.CWLRound{
				{WarTags: []string{"#W1", "#W2"}},
				{WarTags: []string{"#W3", "#W4"}},
				{WarTags: []string{models.ByeWarTag, models.ByeWarTag}},
			},
		},
	}
}

func demoLeagues() []any {
	type record struct {
		Tag    string `bson:"tag"`
		Season string `bson:"season"`
		League string `bson:"league"`
	}
	return []any{
		record{clanA, "2024-02", "Master League II"},
		record{clanA, "2024-03", "Master League I"},
		record{clanB, "2024-02", "Master League II"},
		record{clanB, "2024-03", "Master League II"},
	}
}

func demoJoinLeave(base time.Time) []any {
	ev := func(tag, name, typ string, offset time.Duration, th int) models.JoinLeaveEvent {
		return models.JoinLeaveEvent{
			Tag:  tag,
			Clan: clanA,
			Type: typ,
			Time: models.NewFlexTime(base.Add(offset)),
			Name: name,
			TH:   th,
		}
	}
	return []any{
		ev("#PX1", "Hopper", models.EventLeave, 0, 14),
		ev("#PX1", "Hopper", models.EventJoin, 10*time.Second, 14),
		ev("#PX2", "Visitor", models.EventJoin, time.Hour, 11),
		ev("#PX2", "Visitor", models.EventLeave, 3*time.Hour, 11),
		ev("#PX3", "Stayer", models.EventJoin, 5*time.Hour, 15),
		ev("#PX4", "Leaver", models.EventLeave, 72*time.Hour, 13),
	}
}

func demoRaids() []any {
	return []any{
		models.RaidSeason{
			ClanTag:                 clanA,
			State:                   models.RaidStateEnded,
			StartTime:               "20240301T070000.000Z",
			EndTime:                 "20240304T070000.000Z",
			CapitalTotalLoot:        500000,
			RaidsCompleted:          5,
			TotalAttacks:            100,
			EnemyDistrictsDestroyed: 40,
		},
		models.RaidSeason{
			ClanTag:                 clanA,
			State:                   models.RaidStateEnded,
			StartTime:               "20240223T070000.000Z",
			EndTime:                 "20240226T070000.000Z",
			CapitalTotalLoot:        420000,
			RaidsCompleted:          4,
			TotalAttacks:            90,
			EnemyDistrictsDestroyed: 33,
			OffensiveReward:         2400,
			DefensiveReward:         600,
		},
	}
}
