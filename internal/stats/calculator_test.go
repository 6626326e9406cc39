package stats

import (
	"testing"

	"trialbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testCatalog() ([]model.Killer, []model.Survivor) {
	killers := []model.Killer{
		{ID: primitive.NewObjectID(), KillerName: "Evan MacMillan", KillerAlias: "The Trapper"},
		{ID: primitive.NewObjectID(), KillerName: "Philip Ojomo", KillerAlias: "The Wraith"},
		{ID: primitive.NewObjectID(), KillerName: "Anna", KillerAlias: "The Huntress"},
	}
	survivors := []model.Survivor{
		{ID: primitive.NewObjectID(), SurvivorName: "Dwight Fairfield"},
		{ID: primitive.NewObjectID(), SurvivorName: "Meg Thomas"},
		{ID: primitive.NewObjectID(), SurvivorName: "Claudette Morel"},
		{ID: primitive.NewObjectID(), SurvivorName: "Jake Park"},
	}
	return killers, survivors
}

func facedAll(survivors []model.Survivor, states ...model.FacedSurvivorState) []model.FacedSurvivor {
	faced := make([]model.FacedSurvivor, 0, len(states))
	for i, state := range states {
		faced = append(faced, model.FacedSurvivor{
			SurvivorID:   survivors[i].ID,
			SurvivorName: survivors[i].SurvivorName,
			State:        state,
		})
	}
	return faced
}

func TestCalculateGeneral(t *testing.T) {
	killers, survivors := testCatalog()

	killerMatches := []model.KillerMatch{
		{KillerAlias: "The Trapper", Points: 20000, MapName: "Coal Tower", RealmName: "MacMillan Estate"},
		{KillerAlias: "The Wraith", Points: 12000, MapName: "Coal Tower", RealmName: "MacMillan Estate"},
	}
	survivorMatches := []model.SurvivorMatch{
		{SurvivorName: "Meg Thomas", Points: 16000, MapName: "Azarov's Resting Place", RealmName: "Autohaven Wreckers",
			FacedKillerAlias: "The Trapper", Result: model.ResultEscaped},
	}

	calc := NewCalculator(killers, survivors, killerMatches, survivorMatches)
	general := calc.CalculateGeneral()

	require.NotNil(t, general)
	assert.Equal(t, 3, general.TotalGames)
	assert.Equal(t, 48000, general.TotalPoints)
	assert.InDelta(t, 16000.0, general.AveragePointsPerMatch, 0.001)
	assert.Equal(t, "Coal Tower", general.MostCommonMap.Name)
	assert.Equal(t, 2, general.MostCommonMap.Count)
	assert.Equal(t, "Azarov's Resting Place", general.LeastCommonMap.Name)
	assert.Equal(t, "MacMillan Estate", general.MostCommonRealm.Name)
}

func TestCalculateGeneralEmptyLog(t *testing.T) {
	killers, survivors := testCatalog()
	calc := NewCalculator(killers, survivors, nil, nil)

	general := calc.CalculateGeneral()
	require.NotNil(t, general)
	assert.Equal(t, 0, general.TotalGames)
	assert.Equal(t, 0.0, general.AveragePointsPerMatch)
	assert.Empty(t, general.MostCommonMap.Name)
}

func TestCalculateKillerGeneral(t *testing.T) {
	killers, survivors := testCatalog()

	killerMatches := []model.KillerMatch{
		{
			KillerAlias: "The Trapper",
			FacedSurvivors: facedAll(survivors,
				model.FacedSurvivorSacrificed, model.FacedSurvivorSacrificed,
				model.FacedSurvivorKilled, model.FacedSurvivorEscaped),
			Eliminations: model.EliminationInfo{Kills: 1, Sacrifices: 2},
		},
		{
			KillerAlias: "The Trapper",
			FacedSurvivors: facedAll(survivors,
				model.FacedSurvivorEscaped, model.FacedSurvivorEscaped,
				model.FacedSurvivorEscaped, model.FacedSurvivorDisconnected),
			Eliminations: model.EliminationInfo{Disconnects: 1},
		},
		{
			KillerAlias: "The Huntress",
			FacedSurvivors: facedAll(survivors,
				model.FacedSurvivorSacrificed, model.FacedSurvivorSacrificed,
				model.FacedSurvivorSacrificed, model.FacedSurvivorSacrificed),
			Eliminations: model.EliminationInfo{Sacrifices: 4},
		},
	}

	calc := NewCalculator(killers, survivors, killerMatches, nil)
	stats := calc.CalculateKillerGeneral()
	require.NotNil(t, stats)

	// Catalog order, zero-filled for unplayed killers.
	assert.Equal(t, []model.Bucket{
		{Label: "The Trapper", Count: 2},
		{Label: "The Wraith", Count: 0},
		{Label: "The Huntress", Count: 1},
	}, stats.GamesPerKiller)

	assert.Equal(t, "The Trapper", stats.FavouriteKiller.Killer.KillerAlias)
	assert.Equal(t, 2, stats.FavouriteKiller.GamesWith)
	assert.Equal(t, 3, stats.FavouriteKiller.TotalGames)

	assert.Equal(t, model.EliminationInfo{Kills: 1, Sacrifices: 6, Disconnects: 1}, stats.TotalEliminations)
	assert.Equal(t, 8, stats.TotalEliminations.Total())

	// Every survivor was faced in all three matches.
	assert.Equal(t, "Dwight Fairfield", stats.MostCommonSurvivor.Survivor.SurvivorName)
	assert.Equal(t, 3, stats.MostCommonSurvivor.Encounters)

	// State distribution per survivor keeps the full state axis.
	require.Len(t, stats.FacedSurvivorStates, len(survivors))
	dwight := stats.FacedSurvivorStates[0]
	assert.Equal(t, "Dwight Fairfield", dwight.Label)
	assert.Equal(t, []model.Bucket{
		{Label: "Escaped", Count: 1},
		{Label: "Sacrificed", Count: 2},
		{Label: "Killed", Count: 0},
		{Label: "Disconnected", Count: 0},
	}, dwight.Counts)

	// Average kills per match, catalog order.
	require.Len(t, stats.AverageKillsPerKiller, len(killers))
	assert.Equal(t, "The Trapper", stats.AverageKillsPerKiller[0].Label)
	assert.InDelta(t, 2.0, stats.AverageKillsPerKiller[0].Value, 0.001)
	assert.Equal(t, 0.0, stats.AverageKillsPerKiller[1].Value)
	assert.InDelta(t, 4.0, stats.AverageKillsPerKiller[2].Value, 0.001)
}

func TestCalculateKillerGeneralNoMatches(t *testing.T) {
	killers, survivors := testCatalog()
	calc := NewCalculator(killers, survivors, nil, nil)
	assert.Nil(t, calc.CalculateKillerGeneral())
}

func TestCalculateSurvivorGeneral(t *testing.T) {
	killers, survivors := testCatalog()

	survivorMatches := []model.SurvivorMatch{
		{SurvivorName: "Meg Thomas", FacedKillerAlias: "The Trapper",
			Result: model.ResultSacrificed, ItemType: model.ItemTypeMedkit},
		{SurvivorName: "Meg Thomas", FacedKillerAlias: "The Trapper",
			Result: model.ResultEscaped, ItemType: model.ItemTypeMedkit},
		{SurvivorName: "Dwight Fairfield", FacedKillerAlias: "The Wraith",
			Result: model.ResultKilled, ItemType: model.ItemTypeToolbox},
		{SurvivorName: "Jake Park", FacedKillerAlias: "The Wraith",
			Result: model.ResultBledOut},
		{SurvivorName: "Jake Park", FacedKillerAlias: "The Trapper",
			Result: model.ResultEscapedThroughHatch},
	}

	calc := NewCalculator(killers, survivors, nil, survivorMatches)
	stats := calc.CalculateSurvivorGeneral()
	require.NotNil(t, stats)

	assert.Equal(t, "The Trapper", stats.MostCommonKiller.Killer.KillerAlias)
	assert.Equal(t, 3, stats.MostCommonKiller.Encounters)
	// Huntress was never faced: least common with zero encounters.
	assert.Equal(t, "The Huntress", stats.LeastCommonKiller.Killer.KillerAlias)
	assert.Equal(t, 0, stats.LeastCommonKiller.Encounters)

	// Lethality only covers faced killers. Wraith: 2 deaths in 2 games.
	assert.Equal(t, "The Wraith", stats.MostLethalKiller.Killer.KillerAlias)
	assert.InDelta(t, 1.0, stats.MostLethalKiller.KillRatio, 0.001)
	assert.Equal(t, "The Trapper", stats.LeastLethalKiller.Killer.KillerAlias)
	assert.InDelta(t, 1.0/3.0, stats.LeastLethalKiller.KillRatio, 0.001)

	assert.Equal(t, model.ItemTypeMedkit, stats.MostCommonItemType.ItemType)
	assert.Equal(t, 2, stats.MostCommonItemType.Uses)

	// Hatch escapes are not deaths.
	assert.Equal(t, []model.Bucket{
		{Label: "Dwight Fairfield", Count: 1},
		{Label: "Meg Thomas", Count: 2},
		{Label: "Claudette Morel", Count: 0},
		{Label: "Jake Park", Count: 2},
	}, stats.GamesPerSurvivor)

	// Result labels are display names in declared order.
	require.NotEmpty(t, stats.MatchResults)
	assert.Equal(t, "Escaped", stats.MatchResults[0].Label)
	assert.Equal(t, "Escaped Through Hatch", stats.MatchResults[1].Label)
}

func TestCalculateSurvivorGeneralNoMatches(t *testing.T) {
	killers, survivors := testCatalog()
	calc := NewCalculator(killers, survivors, nil, nil)
	assert.Nil(t, calc.CalculateSurvivorGeneral())
}

func TestCalculationsAreDeterministic(t *testing.T) {
	killers, survivors := testCatalog()

	killerMatches := []model.KillerMatch{
		{
			KillerAlias: "The Wraith",
			FacedSurvivors: facedAll(survivors,
				model.FacedSurvivorEscaped, model.FacedSurvivorSacrificed,
				model.FacedSurvivorKilled, model.FacedSurvivorDisconnected),
			Eliminations: model.EliminationInfo{Kills: 1, Sacrifices: 1, Disconnects: 1},
		},
	}

	first := NewCalculator(killers, survivors, killerMatches, nil).CalculateKillerGeneral()
	second := NewCalculator(killers, survivors, killerMatches, nil).CalculateKillerGeneral()
	assert.Equal(t, first, second)
}
