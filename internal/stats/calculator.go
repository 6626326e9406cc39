package stats

import (
	"trialbook/internal/model"
)

// Calculator produces the three statistics results from a snapshot of the
// match log. It owns its inputs for the duration of the run: callers must
// hand over loaded slices and not mutate them while a computation is in
// flight. All three entry points are deterministic for a given snapshot.
type Calculator struct {
	killers         []model.Killer
	survivors       []model.Survivor
	killerMatches   []model.KillerMatch
	survivorMatches []model.SurvivorMatch

	killerByAlias  map[string]model.Killer
	survivorByName map[string]model.Survivor
}

// NewCalculator builds a calculator over a catalog and match snapshot.
// Catalog order determines chart category order for character axes.
func NewCalculator(killers []model.Killer, survivors []model.Survivor,
	killerMatches []model.KillerMatch, survivorMatches []model.SurvivorMatch) *Calculator {

	killerByAlias := make(map[string]model.Killer, len(killers))
	for _, k := range killers {
		killerByAlias[k.KillerAlias] = k
	}
	survivorByName := make(map[string]model.Survivor, len(survivors))
	for _, s := range survivors {
		survivorByName[s.SurvivorName] = s
	}

	return &Calculator{
		killers:         killers,
		survivors:       survivors,
		killerMatches:   killerMatches,
		survivorMatches: survivorMatches,
		killerByAlias:   killerByAlias,
		survivorByName:  survivorByName,
	}
}

func (c *Calculator) killerAliases() []string {
	aliases := make([]string, 0, len(c.killers))
	for _, k := range c.killers {
		aliases = append(aliases, k.KillerAlias)
	}
	return aliases
}

func (c *Calculator) survivorNames() []string {
	names := make([]string, 0, len(c.survivors))
	for _, s := range c.survivors {
		names = append(names, s.SurvivorName)
	}
	return names
}

// CalculateGeneral aggregates every logged match regardless of role.
func (c *Calculator) CalculateGeneral() *model.GeneralMatchStatistics {
	totalGames := len(c.killerMatches) + len(c.survivorMatches)
	totalPoints := 0
	mapHist := NewHistogram()
	realmHist := NewHistogram()

	for _, m := range c.killerMatches {
		totalPoints += m.Points
		mapHist.Add(m.MapName)
		realmHist.Add(m.RealmName)
	}
	for _, m := range c.survivorMatches {
		totalPoints += m.Points
		mapHist.Add(m.MapName)
		realmHist.Add(m.RealmName)
	}

	general := &model.GeneralMatchStatistics{
		TotalGames:  totalGames,
		TotalPoints: totalPoints,
	}
	if totalGames > 0 {
		general.AveragePointsPerMatch = float64(totalPoints) / float64(totalGames)
	}
	if name, count, ok := mapHist.MostCommon(); ok {
		general.MostCommonMap = model.CommonMapData{Name: name, Count: count}
	}
	if name, count, ok := mapHist.LeastCommon(); ok {
		general.LeastCommonMap = model.CommonMapData{Name: name, Count: count}
	}
	if name, count, ok := realmHist.MostCommon(); ok {
		general.MostCommonRealm = model.CommonMapData{Name: name, Count: count}
	}
	if name, count, ok := realmHist.LeastCommon(); ok {
		general.LeastCommonRealm = model.CommonMapData{Name: name, Count: count}
	}
	return general
}

// CalculateKillerGeneral aggregates matches played as killer. Returns nil
// when no killer matches are present; the consumer renders an empty state.
func (c *Calculator) CalculateKillerGeneral() *model.KillerMatchStatistics {
	if len(c.killerMatches) == 0 {
		return nil
	}

	totalGames := len(c.killerMatches)

	gamesPerKiller := NewHistogram(c.killerAliases()...)
	encounters := NewHistogram(c.survivorNames()...)
	totalStates := NewHistogram(stateLabels()...)
	statesPerSurvivor := make(map[string]*Histogram, len(c.survivors))
	for _, name := range c.survivorNames() {
		statesPerSurvivor[name] = NewHistogram(stateLabels()...)
	}
	elimsPerKiller := make(map[string]*model.EliminationInfo, len(c.killers))
	for _, alias := range c.killerAliases() {
		elimsPerKiller[alias] = &model.EliminationInfo{}
	}

	var totalElims model.EliminationInfo
	for _, m := range c.killerMatches {
		gamesPerKiller.Add(m.KillerAlias)
		totalElims.Add(m.Eliminations)
		if elims, ok := elimsPerKiller[m.KillerAlias]; ok {
			elims.Add(m.Eliminations)
		}
		for _, faced := range m.FacedSurvivors {
			encounters.Add(faced.SurvivorName)
			label := model.DisplayName(string(faced.State))
			totalStates.Add(label)
			if perSurvivor, ok := statesPerSurvivor[faced.SurvivorName]; ok {
				perSurvivor.Add(label)
			}
		}
	}

	result := &model.KillerMatchStatistics{
		TotalEliminations:   totalElims,
		GamesPerKiller:      gamesPerKiller.Buckets(),
		TotalSurvivorStates: totalStates.Buckets(),
	}

	if alias, count, ok := gamesPerKiller.MostCommon(); ok {
		result.FavouriteKiller = model.FavouriteKillerData{
			Killer:     c.killerByAlias[alias],
			GamesWith:  count,
			TotalGames: totalGames,
		}
	}
	if name, count, ok := encounters.MostCommon(); ok {
		result.MostCommonSurvivor = model.CommonSurvivorData{
			Survivor:   c.survivorByName[name],
			Encounters: count,
			TotalGames: totalGames,
		}
	}
	if name, count, ok := encounters.LeastCommon(); ok {
		result.LeastCommonSurvivor = model.CommonSurvivorData{
			Survivor:   c.survivorByName[name],
			Encounters: count,
			TotalGames: totalGames,
		}
	}

	for _, name := range c.survivorNames() {
		result.FacedSurvivorStates = append(result.FacedSurvivorStates, model.StateDistribution{
			Label:  name,
			Counts: statesPerSurvivor[name].Buckets(),
		})
	}
	for _, alias := range c.killerAliases() {
		result.EliminationsPerKiller = append(result.EliminationsPerKiller, model.KillerEliminations{
			KillerAlias:  alias,
			Eliminations: *elimsPerKiller[alias],
		})
		games := gamesPerKiller.Count(alias)
		avg := 0.0
		if games > 0 {
			avg = float64(elimsPerKiller[alias].Total()) / float64(games)
		}
		result.AverageKillsPerKiller = append(result.AverageKillsPerKiller, model.ValueBucket{
			Label: alias,
			Value: avg,
		})
	}

	return result
}

// CalculateSurvivorGeneral aggregates matches played as survivor. Returns
// nil when no survivor matches are present.
func (c *Calculator) CalculateSurvivorGeneral() *model.SurvivorMatchStatistics {
	if len(c.survivorMatches) == 0 {
		return nil
	}

	totalGames := len(c.survivorMatches)

	gamesPerSurvivor := NewHistogram(c.survivorNames()...)
	facedKillers := NewHistogram(c.killerAliases()...)
	deathsPerKiller := NewHistogram(c.killerAliases()...)
	matchResults := NewHistogram(resultLabels()...)
	itemTypeLabels := make([]string, 0, len(model.ItemTypes()))
	for _, t := range model.ItemTypes() {
		itemTypeLabels = append(itemTypeLabels, string(t))
	}
	itemTypes := NewHistogram(itemTypeLabels...)
	resultsPerSurvivor := make(map[string]*Histogram, len(c.survivors))
	for _, name := range c.survivorNames() {
		resultsPerSurvivor[name] = NewHistogram(resultLabels()...)
	}

	for _, m := range c.survivorMatches {
		gamesPerSurvivor.Add(m.SurvivorName)
		facedKillers.Add(m.FacedKillerAlias)
		label := model.DisplayName(string(m.Result))
		matchResults.Add(label)
		if perSurvivor, ok := resultsPerSurvivor[m.SurvivorName]; ok {
			perSurvivor.Add(label)
		}
		if isDeath(m.Result) {
			deathsPerKiller.Add(m.FacedKillerAlias)
		}
		if m.ItemType != "" {
			itemTypes.Add(string(m.ItemType))
		}
	}

	result := &model.SurvivorMatchStatistics{
		GamesPerSurvivor: gamesPerSurvivor.Buckets(),
		FacedKillers:     facedKillers.Buckets(),
		MatchResults:     matchResults.Buckets(),
	}

	if alias, count, ok := facedKillers.MostCommon(); ok {
		result.MostCommonKiller = model.CommonKillerData{
			Killer:     c.killerByAlias[alias],
			Encounters: count,
			TotalGames: totalGames,
		}
	}
	if alias, count, ok := facedKillers.LeastCommon(); ok {
		result.LeastCommonKiller = model.CommonKillerData{
			Killer:     c.killerByAlias[alias],
			Encounters: count,
			TotalGames: totalGames,
		}
	}

	// Lethality is defined only for killers actually faced.
	first := true
	for _, alias := range facedKillers.Labels() {
		games := facedKillers.Count(alias)
		if games == 0 {
			continue
		}
		deaths := deathsPerKiller.Count(alias)
		data := model.LethalKillerData{
			Killer:     c.killerByAlias[alias],
			Deaths:     deaths,
			TotalGames: games,
			KillRatio:  float64(deaths) / float64(games),
		}
		if first {
			result.MostLethalKiller = data
			result.LeastLethalKiller = data
			first = false
			continue
		}
		if data.KillRatio > result.MostLethalKiller.KillRatio {
			result.MostLethalKiller = data
		}
		if data.KillRatio < result.LeastLethalKiller.KillRatio {
			result.LeastLethalKiller = data
		}
	}

	if name, count, ok := itemTypes.MostCommon(); ok {
		result.MostCommonItemType = model.CommonItemTypeData{
			ItemType: model.ItemType(name),
			Uses:     count,
		}
	}

	for _, name := range c.survivorNames() {
		result.SurvivorMatchResults = append(result.SurvivorMatchResults, model.StateDistribution{
			Label:  name,
			Counts: resultsPerSurvivor[name].Buckets(),
		})
	}
	return result
}

func isDeath(result model.SurvivorMatchResult) bool {
	switch result {
	case model.ResultSacrificed, model.ResultKilled, model.ResultBledOut:
		return true
	}
	return false
}

func stateLabels() []string {
	states := model.FacedSurvivorStates()
	labels := make([]string, 0, len(states))
	for _, s := range states {
		labels = append(labels, model.DisplayName(string(s)))
	}
	return labels
}

func resultLabels() []string {
	results := model.SurvivorMatchResults()
	labels := make([]string, 0, len(results))
	for _, r := range results {
		labels = append(labels, model.DisplayName(string(r)))
	}
	return labels
}
