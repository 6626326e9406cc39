package chart

import (
	"testing"

	"trialbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromBuckets(t *testing.T) {
	c := FromBuckets("Games", "games", []model.Bucket{
		{Label: "The Trapper", Count: 3},
		{Label: "The Wraith", Count: 0},
		{Label: "The Huntress", Count: 7},
	})

	assert.Equal(t, "Games", c.Title)
	assert.Equal(t, []string{"The Trapper", "The Wraith", "The Huntress"}, c.Categories)
	require.Len(t, c.Series, 1)
	assert.Equal(t, []float64{3, 0, 7}, c.Series[0].Values)
	assert.Equal(t, 7.0, c.ValueAxisMax)
}

func TestFromBucketsEmpty(t *testing.T) {
	c := FromBuckets("Empty", "none", nil)

	// The value axis floor stays at zero when there is nothing to plot.
	assert.Equal(t, 0.0, c.ValueAxisMax)
	assert.Empty(t, c.Categories)
	require.Len(t, c.Series, 1)
	assert.Empty(t, c.Series[0].Values)
}

func TestFromValueBuckets(t *testing.T) {
	c := FromValueBuckets("Averages", "avg", []model.ValueBucket{
		{Label: "The Trapper", Value: 1.5},
		{Label: "The Wraith", Value: 4},
	})

	assert.Equal(t, []float64{1.5, 4}, c.Series[0].Values)
	assert.Equal(t, 4.0, c.ValueAxisMax)
}

func TestFromDistributionsAlignment(t *testing.T) {
	dists := []model.StateDistribution{
		{Label: "Dwight Fairfield", Counts: []model.Bucket{
			{Label: "Escaped", Count: 2},
			{Label: "Sacrificed", Count: 1},
		}},
		{Label: "Meg Thomas", Counts: []model.Bucket{
			{Label: "Escaped", Count: 0},
			{Label: "Sacrificed", Count: 5},
		}},
	}

	c := FromDistributions("Fates", dists)

	assert.Equal(t, []string{"Dwight Fairfield", "Meg Thomas"}, c.Categories)
	require.Len(t, c.Series, 2)
	assert.Equal(t, "Escaped", c.Series[0].Name)
	assert.Equal(t, []float64{2, 0}, c.Series[0].Values)
	assert.Equal(t, "Sacrificed", c.Series[1].Name)
	assert.Equal(t, []float64{1, 5}, c.Series[1].Values)

	// One shared axis maximum across all series.
	assert.Equal(t, 5.0, c.ValueAxisMax)
}

func TestFromDistributionsEmpty(t *testing.T) {
	c := FromDistributions("Fates", nil)
	assert.Empty(t, c.Categories)
	assert.Empty(t, c.Series)
	assert.Equal(t, 0.0, c.ValueAxisMax)
}

func TestFromEliminations(t *testing.T) {
	c := FromEliminations("Eliminations", []model.KillerEliminations{
		{KillerAlias: "The Trapper", Eliminations: model.EliminationInfo{Kills: 2, Sacrifices: 5, Disconnects: 1}},
		{KillerAlias: "The Wraith", Eliminations: model.EliminationInfo{Sacrifices: 3}},
	})

	assert.Equal(t, []string{"The Trapper", "The Wraith"}, c.Categories)
	require.Len(t, c.Series, 3)
	assert.Equal(t, "Sacrifices", c.Series[0].Name)
	assert.Equal(t, []float64{5, 3}, c.Series[0].Values)
	assert.Equal(t, "Kills", c.Series[1].Name)
	assert.Equal(t, []float64{2, 0}, c.Series[1].Values)
	assert.Equal(t, "Disconnects", c.Series[2].Name)
	assert.Equal(t, 5.0, c.ValueAxisMax)
}

func TestKillerChartsNilResult(t *testing.T) {
	assert.Nil(t, KillerCharts(nil))
	assert.Nil(t, SurvivorCharts(nil))
}

func TestKillerChartsOrder(t *testing.T) {
	charts := KillerCharts(&model.KillerMatchStatistics{})

	require.Len(t, charts, 5)
	assert.Equal(t, "Faced survivors' fates", charts[0].Title)
	assert.Equal(t, "Games played with each killer", charts[1].Title)
	assert.Equal(t, "Total survivor states", charts[2].Title)
	assert.Equal(t, "Total killer eliminations", charts[3].Title)
	assert.Equal(t, "Average kills per match by killer", charts[4].Title)
}

func TestSurvivorChartsOrder(t *testing.T) {
	charts := SurvivorCharts(&model.SurvivorMatchStatistics{})

	require.Len(t, charts, 4)
	assert.Equal(t, "Total games with each survivor", charts[0].Title)
	assert.Equal(t, "Faced killers frequency", charts[1].Title)
	assert.Equal(t, "Individual survivors' match results", charts[2].Title)
	assert.Equal(t, "Total survivor match results", charts[3].Title)
}
