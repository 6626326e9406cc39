package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Escaped Through Hatch", DisplayName("EscapedThroughHatch"))
	assert.Equal(t, "Bled Out", DisplayName("BledOut"))
	assert.Equal(t, "Escaped", DisplayName("Escaped"))
	assert.Equal(t, "", DisplayName(""))
}

func TestEliminationInfo(t *testing.T) {
	e := EliminationInfo{Kills: 1, Sacrifices: 2}
	assert.Equal(t, 3, e.Total())

	e.Add(EliminationInfo{Kills: 1, Disconnects: 1})
	assert.Equal(t, EliminationInfo{Kills: 2, Sacrifices: 2, Disconnects: 1}, e)
	assert.Equal(t, 5, e.Total())

	assert.Equal(t, 0, EliminationInfo{}.Total())
}

func TestAddonForKiller(t *testing.T) {
	killerID := primitive.NewObjectID()

	assert.True(t, Addon{AddonName: "Trapper Bag", KillerID: &killerID}.ForKiller())
	assert.False(t, Addon{AddonName: "Sponge", ItemType: ItemTypeMedkit}.ForKiller())
}

func TestEnumOrders(t *testing.T) {
	assert.Equal(t, []FacedSurvivorState{
		FacedSurvivorEscaped,
		FacedSurvivorSacrificed,
		FacedSurvivorKilled,
		FacedSurvivorDisconnected,
	}, FacedSurvivorStates())

	assert.Equal(t, []SurvivorMatchResult{
		ResultEscaped,
		ResultEscapedThroughHatch,
		ResultSacrificed,
		ResultKilled,
		ResultBledOut,
		ResultDisconnected,
	}, SurvivorMatchResults())

	assert.Len(t, ItemTypes(), 6)
	assert.Equal(t, ItemTypeMedkit, ItemTypes()[0])
}
