package controller

import (
	"context"
	"fmt"
	"testing"

	"trialbook/internal/database"
	"trialbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeMatchDB backs the match controller tests with an in-memory catalog.
// Only the methods the controller touches are implemented; anything else
// panics through the embedded nil interface.
type fakeMatchDB struct {
	database.Database

	killers   map[primitive.ObjectID]model.Killer
	survivors map[primitive.ObjectID]model.Survivor
	items     map[primitive.ObjectID]model.Item
	addons    map[primitive.ObjectID]model.Addon
	perks     map[primitive.ObjectID]model.Perk
	offerings map[primitive.ObjectID]model.Offering
	realms    []model.Realm

	killerMatches   []model.KillerMatch
	survivorMatches []model.SurvivorMatch
}

func (f *fakeMatchDB) GetKillerByID(_ context.Context, id primitive.ObjectID) (*model.Killer, error) {
	if k, ok := f.killers[id]; ok {
		return &k, nil
	}
	return nil, fmt.Errorf("killers entry not found")
}

func (f *fakeMatchDB) GetSurvivorByID(_ context.Context, id primitive.ObjectID) (*model.Survivor, error) {
	if s, ok := f.survivors[id]; ok {
		return &s, nil
	}
	return nil, fmt.Errorf("survivors entry not found")
}

func (f *fakeMatchDB) GetItemByID(_ context.Context, id primitive.ObjectID) (*model.Item, error) {
	if i, ok := f.items[id]; ok {
		return &i, nil
	}
	return nil, fmt.Errorf("items entry not found")
}

func (f *fakeMatchDB) GetOfferingByID(_ context.Context, id primitive.ObjectID) (*model.Offering, error) {
	if o, ok := f.offerings[id]; ok {
		return &o, nil
	}
	return nil, fmt.Errorf("offerings entry not found")
}

func (f *fakeMatchDB) GetAddonsByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Addon, error) {
	addons := []model.Addon{}
	for _, id := range ids {
		if a, ok := f.addons[id]; ok {
			addons = append(addons, a)
		}
	}
	return addons, nil
}

func (f *fakeMatchDB) GetPerksByIDs(_ context.Context, ids []primitive.ObjectID) ([]model.Perk, error) {
	perks := []model.Perk{}
	for _, id := range ids {
		if p, ok := f.perks[id]; ok {
			perks = append(perks, p)
		}
	}
	return perks, nil
}

func (f *fakeMatchDB) GetRealmByMapName(_ context.Context, mapName string) (*model.Realm, error) {
	for _, realm := range f.realms {
		for _, m := range realm.Maps {
			if m.MapName == mapName {
				r := realm
				return &r, nil
			}
		}
	}
	return nil, fmt.Errorf("no realm contains map %q", mapName)
}

func (f *fakeMatchDB) InsertKillerMatch(_ context.Context, match *model.KillerMatch) error {
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	f.killerMatches = append(f.killerMatches, *match)
	return nil
}

func (f *fakeMatchDB) InsertSurvivorMatch(_ context.Context, match *model.SurvivorMatch) error {
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	f.survivorMatches = append(f.survivorMatches, *match)
	return nil
}

type matchFixture struct {
	db *fakeMatchDB

	trapperID   primitive.ObjectID
	wraithID    primitive.ObjectID
	dwightID    primitive.ObjectID
	megID       primitive.ObjectID
	claudetteID primitive.ObjectID
	jakeID      primitive.ObjectID

	trapperBagID   primitive.ObjectID
	wraithBellID   primitive.ObjectID
	medkitID       primitive.ObjectID
	gauzeID        primitive.ObjectID
	killerPerkID   primitive.ObjectID
	survivorPerkID primitive.ObjectID
	offeringID     primitive.ObjectID
}

func newMatchFixture() *matchFixture {
	fx := &matchFixture{
		trapperID:      primitive.NewObjectID(),
		wraithID:       primitive.NewObjectID(),
		dwightID:       primitive.NewObjectID(),
		megID:          primitive.NewObjectID(),
		claudetteID:    primitive.NewObjectID(),
		jakeID:         primitive.NewObjectID(),
		trapperBagID:   primitive.NewObjectID(),
		wraithBellID:   primitive.NewObjectID(),
		medkitID:       primitive.NewObjectID(),
		gauzeID:        primitive.NewObjectID(),
		killerPerkID:   primitive.NewObjectID(),
		survivorPerkID: primitive.NewObjectID(),
		offeringID:     primitive.NewObjectID(),
	}

	trapperID := fx.trapperID
	wraithID := fx.wraithID

	fx.db = &fakeMatchDB{
		killers: map[primitive.ObjectID]model.Killer{
			fx.trapperID: {ID: fx.trapperID, KillerName: "Evan MacMillan", KillerAlias: "The Trapper"},
			fx.wraithID:  {ID: fx.wraithID, KillerName: "Philip Ojomo", KillerAlias: "The Wraith"},
		},
		survivors: map[primitive.ObjectID]model.Survivor{
			fx.dwightID:    {ID: fx.dwightID, SurvivorName: "Dwight Fairfield"},
			fx.megID:       {ID: fx.megID, SurvivorName: "Meg Thomas"},
			fx.claudetteID: {ID: fx.claudetteID, SurvivorName: "Claudette Morel"},
			fx.jakeID:      {ID: fx.jakeID, SurvivorName: "Jake Park"},
		},
		items: map[primitive.ObjectID]model.Item{
			fx.medkitID: {ID: fx.medkitID, ItemName: "First Aid Kit", ItemType: model.ItemTypeMedkit},
		},
		addons: map[primitive.ObjectID]model.Addon{
			fx.trapperBagID: {ID: fx.trapperBagID, AddonName: "Trapper Bag", KillerID: &trapperID},
			fx.wraithBellID: {ID: fx.wraithBellID, AddonName: "Bone Clapper", KillerID: &wraithID},
			fx.gauzeID:      {ID: fx.gauzeID, AddonName: "Sponge", ItemType: model.ItemTypeMedkit},
		},
		perks: map[primitive.ObjectID]model.Perk{
			fx.killerPerkID:   {ID: fx.killerPerkID, PerkName: "Whispers", PerkTier: 3, Role: model.KillerRole},
			fx.survivorPerkID: {ID: fx.survivorPerkID, PerkName: "Sprint Burst", PerkTier: 3, Role: model.SurvivorRole},
		},
		offerings: map[primitive.ObjectID]model.Offering{
			fx.offeringID: {ID: fx.offeringID, OfferingName: "Survivor Pudding"},
		},
		realms: []model.Realm{
			{
				ID:        primitive.NewObjectID(),
				RealmName: "The MacMillan Estate",
				Maps:      []model.GameMap{{MapName: "Coal Tower"}, {MapName: "Groaning Storehouse"}},
			},
		},
	}

	return fx
}

func (fx *matchFixture) facedAll() []model.FacedSurvivor {
	return []model.FacedSurvivor{
		{SurvivorID: fx.dwightID, State: model.FacedSurvivorSacrificed},
		{SurvivorID: fx.megID, State: model.FacedSurvivorEscaped},
		{SurvivorID: fx.claudetteID, State: model.FacedSurvivorKilled},
		{SurvivorID: fx.jakeID, State: model.FacedSurvivorEscaped},
	}
}

func (fx *matchFixture) validKillerMatch() *model.KillerMatch {
	return &model.KillerMatch{
		KillerID:       fx.trapperID,
		Points:         24000,
		Rank:           10,
		MapName:        "Coal Tower",
		AddonIDs:       []primitive.ObjectID{fx.trapperBagID},
		PerkIDs:        []primitive.ObjectID{fx.killerPerkID},
		OfferingID:     &fx.offeringID,
		FacedSurvivors: fx.facedAll(),
		Eliminations:   model.EliminationInfo{Kills: 1, Sacrifices: 1},
	}
}

func (fx *matchFixture) validSurvivorMatch() *model.SurvivorMatch {
	return &model.SurvivorMatch{
		SurvivorID:    fx.dwightID,
		Points:        18000,
		Rank:          12,
		MapName:       "Coal Tower",
		ItemID:        &fx.medkitID,
		AddonIDs:      []primitive.ObjectID{fx.gauzeID},
		PerkIDs:       []primitive.ObjectID{fx.survivorPerkID},
		FacedKillerID: fx.wraithID,
		Result:        model.ResultEscaped,
	}
}

func TestLogKillerMatch(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	logged, err := mc.LogKillerMatch(context.Background(), fx.validKillerMatch())

	require.NoError(t, err)
	assert.Equal(t, "The Trapper", logged.KillerAlias)
	assert.Equal(t, "The MacMillan Estate", logged.RealmName)
	assert.Equal(t, "Dwight Fairfield", logged.FacedSurvivors[0].SurvivorName)
	assert.Equal(t, "Jake Park", logged.FacedSurvivors[3].SurvivorName)
	assert.False(t, logged.MatchDate.IsZero())
	assert.False(t, logged.ImportedAt.IsZero())
	assert.Len(t, fx.db.killerMatches, 1)
}

func TestLogKillerMatchRankOutOfRange(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	for _, rank := range []int{0, 21, -5} {
		match := fx.validKillerMatch()
		match.Rank = rank
		_, err := mc.LogKillerMatch(context.Background(), match)
		assert.ErrorContains(t, err, "rank")
	}
}

func TestLogKillerMatchNegativePoints(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.Points = -1

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "points")
}

func TestLogKillerMatchTooManyAddons(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.AddonIDs = []primitive.ObjectID{fx.trapperBagID, fx.trapperBagID, fx.trapperBagID}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "at most 2 addons")
}

func TestLogKillerMatchTooManyPerks(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.PerkIDs = []primitive.ObjectID{
		fx.killerPerkID, fx.killerPerkID, fx.killerPerkID, fx.killerPerkID, fx.killerPerkID,
	}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "at most 4 perks")
}

func TestLogKillerMatchUnknownKiller(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.KillerID = primitive.NewObjectID()

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "unknown killer")
}

func TestLogKillerMatchUnknownMap(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.MapName = "Nowhere"

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "unknown map")
}

func TestLogKillerMatchAddonWrongKiller(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.AddonIDs = []primitive.ObjectID{fx.wraithBellID}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "does not belong to this killer")
}

func TestLogKillerMatchSurvivorPerkRejected(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.PerkIDs = []primitive.ObjectID{fx.survivorPerkID}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "not a killer perk")
}

func TestLogKillerMatchWrongSurvivorCount(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.FacedSurvivors = match.FacedSurvivors[:3]

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "exactly 4 survivors")
}

func TestLogKillerMatchUnknownSurvivorState(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.FacedSurvivors[1].State = "Vanished"

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "unknown survivor state")
}

func TestLogKillerMatchEliminationsExceedTrial(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.Eliminations = model.EliminationInfo{Kills: 2, Sacrifices: 2, Disconnects: 1}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "exceeds")
}

func TestLogKillerMatchNegativeEliminations(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validKillerMatch()
	match.Eliminations = model.EliminationInfo{Kills: -1}

	_, err := mc.LogKillerMatch(context.Background(), match)
	assert.ErrorContains(t, err, "non-negative")
}

func TestLogSurvivorMatch(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	logged, err := mc.LogSurvivorMatch(context.Background(), fx.validSurvivorMatch())

	require.NoError(t, err)
	assert.Equal(t, "Dwight Fairfield", logged.SurvivorName)
	assert.Equal(t, "The Wraith", logged.FacedKillerAlias)
	assert.Equal(t, "The MacMillan Estate", logged.RealmName)
	assert.Equal(t, model.ItemTypeMedkit, logged.ItemType)
	assert.Len(t, fx.db.survivorMatches, 1)
}

func TestLogSurvivorMatchNoItem(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validSurvivorMatch()
	match.ItemID = nil
	match.AddonIDs = nil

	logged, err := mc.LogSurvivorMatch(context.Background(), match)

	require.NoError(t, err)
	assert.Empty(t, logged.ItemType)
}

func TestLogSurvivorMatchAddonsRequireItem(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validSurvivorMatch()
	match.ItemID = nil

	_, err := mc.LogSurvivorMatch(context.Background(), match)
	assert.ErrorContains(t, err, "addons require an item")
}

func TestLogSurvivorMatchKillerAddonRejected(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validSurvivorMatch()
	match.AddonIDs = []primitive.ObjectID{fx.trapperBagID}

	_, err := mc.LogSurvivorMatch(context.Background(), match)
	assert.ErrorContains(t, err, "does not fit item type")
}

func TestLogSurvivorMatchUnknownResult(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validSurvivorMatch()
	match.Result = "Teleported"

	_, err := mc.LogSurvivorMatch(context.Background(), match)
	assert.ErrorContains(t, err, "unknown match result")
}

func TestLogSurvivorMatchUnknownFacedKiller(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	match := fx.validSurvivorMatch()
	match.FacedKillerID = primitive.NewObjectID()

	_, err := mc.LogSurvivorMatch(context.Background(), match)
	assert.ErrorContains(t, err, "unknown faced killer")
}

func TestGetKillerMatchInvalidID(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	_, err := mc.GetKillerMatch(context.Background(), "not-a-hex-id")
	assert.ErrorContains(t, err, "invalid match id")
}

func TestDeleteSurvivorMatchInvalidID(t *testing.T) {
	fx := newMatchFixture()
	mc := NewMatch(fx.db)

	err := mc.DeleteSurvivorMatch(context.Background(), "zzz")
	assert.ErrorContains(t, err, "invalid match id")
}
