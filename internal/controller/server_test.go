package controller

import (
	"context"
	"testing"

	"trialbook/internal/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOverviewDB struct {
	database.Database
}

func (f *fakeOverviewDB) CountKillerMatches(_ context.Context) (int64, error) {
	return 3, nil
}

func (f *fakeOverviewDB) CountSurvivorMatches(_ context.Context) (int64, error) {
	return 2, nil
}

func (f *fakeOverviewDB) GetMatchCountByMap(_ context.Context) (map[string]int64, error) {
	return map[string]int64{"Coal Tower": 4, "Grim Pantry": 1}, nil
}

func (f *fakeOverviewDB) GetMatchCountByRealm(_ context.Context) (map[string]int64, error) {
	return map[string]int64{"The MacMillan Estate": 4, "Backwater Swamp": 1}, nil
}

func TestGetOverview(t *testing.T) {
	sc := NewServer(&fakeOverviewDB{}, nil, nil, nil)

	overview, err := sc.GetOverview(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), overview.KillerMatches)
	assert.Equal(t, int64(2), overview.SurvivorMatches)
	assert.Equal(t, int64(5), overview.TotalMatches)
	assert.Equal(t, int64(4), overview.MatchesPerMap["Coal Tower"])
	assert.Equal(t, int64(1), overview.MatchesPerRealm["Backwater Swamp"])
}
