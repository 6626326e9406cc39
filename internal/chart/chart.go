// Package chart binds statistics results into bar-chart data: one ordered
// category axis, a 0..max value axis, and one or more named series aligned
// positionally with the categories.
package chart

import (
	"trialbook/internal/model"
)

// Series is one named set of values, index-aligned with the chart's
// category labels.
type Series struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
}

// BarChart is the render-ready form of a histogram or grouped record. The
// value axis always starts at zero; ValueAxisMax is the maximum observed
// value across every series, and stays zero for charts with no data.
type BarChart struct {
	Title        string   `json:"title"`
	Categories   []string `json:"categories"`
	Series       []Series `json:"series"`
	ValueAxisMax float64  `json:"value_axis_max"`
}

// FromBuckets binds a single-series histogram.
func FromBuckets(title, seriesName string, buckets []model.Bucket) BarChart {
	c := BarChart{Title: title}
	series := Series{Name: seriesName, Values: make([]float64, 0, len(buckets))}
	for _, b := range buckets {
		c.Categories = append(c.Categories, b.Label)
		v := float64(b.Count)
		series.Values = append(series.Values, v)
		if v > c.ValueAxisMax {
			c.ValueAxisMax = v
		}
	}
	c.Series = []Series{series}
	return c
}

// FromValueBuckets binds a single-series chart of fractional values.
func FromValueBuckets(title, seriesName string, buckets []model.ValueBucket) BarChart {
	c := BarChart{Title: title}
	series := Series{Name: seriesName, Values: make([]float64, 0, len(buckets))}
	for _, b := range buckets {
		c.Categories = append(c.Categories, b.Label)
		series.Values = append(series.Values, b.Value)
		if b.Value > c.ValueAxisMax {
			c.ValueAxisMax = b.Value
		}
	}
	c.Series = []Series{series}
	return c
}

// FromDistributions binds a grouped chart: one category per distribution
// (e.g. a survivor), one series per inner bucket label (e.g. a state). The
// inner bucket order of the first distribution defines the series order;
// every distribution must carry the same zero-filled bucket set, which the
// calculator guarantees. All series share one axis maximum.
func FromDistributions(title string, dists []model.StateDistribution) BarChart {
	c := BarChart{Title: title}
	if len(dists) == 0 {
		return c
	}

	for _, d := range dists {
		c.Categories = append(c.Categories, d.Label)
	}
	for _, inner := range dists[0].Counts {
		c.Series = append(c.Series, Series{
			Name:   inner.Label,
			Values: make([]float64, 0, len(dists)),
		})
	}
	for _, d := range dists {
		for i := range c.Series {
			v := 0.0
			if i < len(d.Counts) {
				v = float64(d.Counts[i].Count)
			}
			c.Series[i].Values = append(c.Series[i].Values, v)
			if v > c.ValueAxisMax {
				c.ValueAxisMax = v
			}
		}
	}
	return c
}

// FromEliminations binds the per-killer eliminations chart: three fixed
// series (sacrifices, kills, disconnects) over killer categories.
func FromEliminations(title string, elims []model.KillerEliminations) BarChart {
	c := BarChart{
		Title: title,
		Series: []Series{
			{Name: "Sacrifices"},
			{Name: "Kills"},
			{Name: "Disconnects"},
		},
	}
	for _, e := range elims {
		c.Categories = append(c.Categories, e.KillerAlias)
		values := []float64{
			float64(e.Eliminations.Sacrifices),
			float64(e.Eliminations.Kills),
			float64(e.Eliminations.Disconnects),
		}
		for i, v := range values {
			c.Series[i].Values = append(c.Series[i].Values, v)
			if v > c.ValueAxisMax {
				c.ValueAxisMax = v
			}
		}
	}
	return c
}

// KillerCharts binds every chart shown for killer statistics, in display
// order. Returns nil for an absent result.
func KillerCharts(s *model.KillerMatchStatistics) []BarChart {
	if s == nil {
		return nil
	}
	return []BarChart{
		FromDistributions("Faced survivors' fates", s.FacedSurvivorStates),
		FromBuckets("Games played with each killer", "Games with certain killer", s.GamesPerKiller),
		FromBuckets("Total survivor states", "Survivor state", s.TotalSurvivorStates),
		FromEliminations("Total killer eliminations", s.EliminationsPerKiller),
		FromValueBuckets("Average kills per match by killer", "Average kills per match", s.AverageKillsPerKiller),
	}
}

// SurvivorCharts binds every chart shown for survivor statistics, in
// display order. Returns nil for an absent result.
func SurvivorCharts(s *model.SurvivorMatchStatistics) []BarChart {
	if s == nil {
		return nil
	}
	return []BarChart{
		FromBuckets("Total games with each survivor", "Games with survivor", s.GamesPerSurvivor),
		FromBuckets("Faced killers frequency", "Faced killers", s.FacedKillers),
		FromDistributions("Individual survivors' match results", s.SurvivorMatchResults),
		FromBuckets("Total survivor match results", "Match results", s.MatchResults),
	}
}
