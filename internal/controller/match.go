package controller

import (
	"context"
	"fmt"
	"time"

	"trialbook/internal/database"
	"trialbook/internal/model"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const trialSurvivorCount = 4

// MatchController logs and reads matches. Logging validates every catalog
// reference and denormalizes display names into the stored document.
type MatchController interface {
	LogKillerMatch(ctx context.Context, match *model.KillerMatch) (*model.KillerMatch, error)
	LogSurvivorMatch(ctx context.Context, match *model.SurvivorMatch) (*model.SurvivorMatch, error)

	ListKillerMatches(ctx context.Context, filter database.MatchFilter) ([]model.KillerMatch, error)
	ListSurvivorMatches(ctx context.Context, filter database.MatchFilter) ([]model.SurvivorMatch, error)
	GetKillerMatch(ctx context.Context, id string) (*model.KillerMatch, error)
	GetSurvivorMatch(ctx context.Context, id string) (*model.SurvivorMatch, error)
	DeleteKillerMatch(ctx context.Context, id string) error
	DeleteSurvivorMatch(ctx context.Context, id string) error
}

type matchController struct {
	db database.Database
}

func NewMatch(db database.Database) MatchController {
	return &matchController{db: db}
}

// LogKillerMatch validates, denormalizes and stores one killer match.
func (mc *matchController) LogKillerMatch(ctx context.Context, match *model.KillerMatch) (*model.KillerMatch, error) {
	if err := validateCommonMatchFields(match.Points, match.Rank, len(match.AddonIDs), len(match.PerkIDs)); err != nil {
		return nil, err
	}

	killer, err := mc.db.GetKillerByID(ctx, match.KillerID)
	if err != nil {
		return nil, fmt.Errorf("unknown killer: %w", err)
	}
	match.KillerAlias = killer.KillerAlias

	if err := mc.resolveMap(ctx, match.MapName, &match.RealmName); err != nil {
		return nil, err
	}

	if err := mc.validateKillerLoadout(ctx, match); err != nil {
		return nil, err
	}

	if err := mc.resolveFacedSurvivors(ctx, match); err != nil {
		return nil, err
	}

	if err := validateEliminations(match); err != nil {
		return nil, err
	}

	if match.MatchDate.IsZero() {
		match.MatchDate = time.Now()
	}
	match.ImportedAt = time.Now()

	if err := mc.db.InsertKillerMatch(ctx, match); err != nil {
		return nil, err
	}

	log.Info().
		Str("matchID", match.ID.Hex()).
		Str("killer", match.KillerAlias).
		Str("map", match.MapName).
		Int("eliminations", match.Eliminations.Total()).
		Msg("Killer match logged")

	return match, nil
}

// LogSurvivorMatch validates, denormalizes and stores one survivor match.
func (mc *matchController) LogSurvivorMatch(ctx context.Context, match *model.SurvivorMatch) (*model.SurvivorMatch, error) {
	if err := validateCommonMatchFields(match.Points, match.Rank, len(match.AddonIDs), len(match.PerkIDs)); err != nil {
		return nil, err
	}

	survivor, err := mc.db.GetSurvivorByID(ctx, match.SurvivorID)
	if err != nil {
		return nil, fmt.Errorf("unknown survivor: %w", err)
	}
	match.SurvivorName = survivor.SurvivorName

	facedKiller, err := mc.db.GetKillerByID(ctx, match.FacedKillerID)
	if err != nil {
		return nil, fmt.Errorf("unknown faced killer: %w", err)
	}
	match.FacedKillerAlias = facedKiller.KillerAlias

	if err := mc.resolveMap(ctx, match.MapName, &match.RealmName); err != nil {
		return nil, err
	}

	if !validSurvivorResult(match.Result) {
		return nil, fmt.Errorf("unknown match result: %v", match.Result)
	}

	if err := mc.validateSurvivorLoadout(ctx, match); err != nil {
		return nil, err
	}

	if match.MatchDate.IsZero() {
		match.MatchDate = time.Now()
	}
	match.ImportedAt = time.Now()

	if err := mc.db.InsertSurvivorMatch(ctx, match); err != nil {
		return nil, err
	}

	log.Info().
		Str("matchID", match.ID.Hex()).
		Str("survivor", match.SurvivorName).
		Str("facedKiller", match.FacedKillerAlias).
		Str("result", string(match.Result)).
		Msg("Survivor match logged")

	return match, nil
}

func (mc *matchController) ListKillerMatches(ctx context.Context, filter database.MatchFilter) ([]model.KillerMatch, error) {
	return mc.db.ListKillerMatches(ctx, filter)
}

func (mc *matchController) ListSurvivorMatches(ctx context.Context, filter database.MatchFilter) ([]model.SurvivorMatch, error) {
	return mc.db.ListSurvivorMatches(ctx, filter)
}

func (mc *matchController) GetKillerMatch(ctx context.Context, id string) (*model.KillerMatch, error) {
	matchID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid match id: %w", err)
	}
	return mc.db.GetKillerMatchByID(ctx, matchID)
}

func (mc *matchController) GetSurvivorMatch(ctx context.Context, id string) (*model.SurvivorMatch, error) {
	matchID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid match id: %w", err)
	}
	return mc.db.GetSurvivorMatchByID(ctx, matchID)
}

func (mc *matchController) DeleteKillerMatch(ctx context.Context, id string) error {
	matchID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}
	return mc.db.DeleteKillerMatch(ctx, matchID)
}

func (mc *matchController) DeleteSurvivorMatch(ctx context.Context, id string) error {
	matchID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return fmt.Errorf("invalid match id: %w", err)
	}
	return mc.db.DeleteSurvivorMatch(ctx, matchID)
}

// resolveMap checks the map exists and fills in its realm name.
func (mc *matchController) resolveMap(ctx context.Context, mapName string, realmName *string) error {
	if mapName == "" {
		return fmt.Errorf("match is missing a map")
	}
	realm, err := mc.db.GetRealmByMapName(ctx, mapName)
	if err != nil {
		return fmt.Errorf("unknown map %q: %w", mapName, err)
	}
	*realmName = realm.RealmName
	return nil
}

// validateKillerLoadout checks addons belong to the chosen killer, perks are
// killer perks, and the offering exists.
func (mc *matchController) validateKillerLoadout(ctx context.Context, match *model.KillerMatch) error {
	if len(match.AddonIDs) > 0 {
		addons, err := mc.db.GetAddonsByIDs(ctx, match.AddonIDs)
		if err != nil {
			return err
		}
		if len(addons) != len(match.AddonIDs) {
			return fmt.Errorf("one or more addons do not exist")
		}
		for _, a := range addons {
			if !a.ForKiller() || *a.KillerID != match.KillerID {
				return fmt.Errorf("addon %q does not belong to this killer", a.AddonName)
			}
		}
	}

	if err := mc.validatePerks(ctx, match.PerkIDs, model.KillerRole); err != nil {
		return err
	}

	return mc.validateOffering(ctx, match.OfferingID)
}

// validateSurvivorLoadout checks the item reference, that addons fit the
// item's type, and that perks are survivor perks.
func (mc *matchController) validateSurvivorLoadout(ctx context.Context, match *model.SurvivorMatch) error {
	if match.ItemID != nil {
		item, err := mc.db.GetItemByID(ctx, *match.ItemID)
		if err != nil {
			return fmt.Errorf("unknown item: %w", err)
		}
		match.ItemType = item.ItemType
	} else {
		match.ItemType = ""
		if len(match.AddonIDs) > 0 {
			return fmt.Errorf("addons require an item")
		}
	}

	if len(match.AddonIDs) > 0 {
		addons, err := mc.db.GetAddonsByIDs(ctx, match.AddonIDs)
		if err != nil {
			return err
		}
		if len(addons) != len(match.AddonIDs) {
			return fmt.Errorf("one or more addons do not exist")
		}
		for _, a := range addons {
			if a.ForKiller() || a.ItemType != match.ItemType {
				return fmt.Errorf("addon %q does not fit item type %v", a.AddonName, match.ItemType)
			}
		}
	}

	if err := mc.validatePerks(ctx, match.PerkIDs, model.SurvivorRole); err != nil {
		return err
	}

	return mc.validateOffering(ctx, match.OfferingID)
}

func (mc *matchController) validatePerks(ctx context.Context, perkIDs []primitive.ObjectID, role string) error {
	if len(perkIDs) == 0 {
		return nil
	}
	perks, err := mc.db.GetPerksByIDs(ctx, perkIDs)
	if err != nil {
		return err
	}
	if len(perks) != len(perkIDs) {
		return fmt.Errorf("one or more perks do not exist")
	}
	for _, p := range perks {
		if p.Role != role {
			return fmt.Errorf("perk %q is not a %s perk", p.PerkName, role)
		}
	}
	return nil
}

func (mc *matchController) validateOffering(ctx context.Context, offeringID *primitive.ObjectID) error {
	if offeringID == nil {
		return nil
	}
	if _, err := mc.db.GetOfferingByID(ctx, *offeringID); err != nil {
		return fmt.Errorf("unknown offering: %w", err)
	}
	return nil
}

// resolveFacedSurvivors checks the four survivors exist and fills in their
// names and states.
func (mc *matchController) resolveFacedSurvivors(ctx context.Context, match *model.KillerMatch) error {
	if len(match.FacedSurvivors) != trialSurvivorCount {
		return fmt.Errorf("a killer match faces exactly %d survivors, got %d",
			trialSurvivorCount, len(match.FacedSurvivors))
	}

	for i := range match.FacedSurvivors {
		fs := &match.FacedSurvivors[i]
		if !validFacedState(fs.State) {
			return fmt.Errorf("unknown survivor state: %v", fs.State)
		}
		survivor, err := mc.db.GetSurvivorByID(ctx, fs.SurvivorID)
		if err != nil {
			return fmt.Errorf("unknown faced survivor: %w", err)
		}
		fs.SurvivorName = survivor.SurvivorName
	}
	return nil
}

// validateEliminations keeps the elimination counters inside the trial size.
func validateEliminations(match *model.KillerMatch) error {
	e := match.Eliminations
	if e.Kills < 0 || e.Sacrifices < 0 || e.Disconnects < 0 {
		return fmt.Errorf("elimination counts must be non-negative")
	}
	if e.Total() > trialSurvivorCount {
		return fmt.Errorf("eliminations total %d exceeds the %d survivors in a trial",
			e.Total(), trialSurvivorCount)
	}
	return nil
}

func validateCommonMatchFields(points, rank, addonCount, perkCount int) error {
	if points < 0 {
		return fmt.Errorf("points must be non-negative")
	}
	if rank < model.HighestRank || rank > model.LowestRank {
		return fmt.Errorf("rank %d out of range %d-%d", rank, model.HighestRank, model.LowestRank)
	}
	if addonCount > 2 {
		return fmt.Errorf("a loadout carries at most 2 addons")
	}
	if perkCount > 4 {
		return fmt.Errorf("a loadout carries at most 4 perks")
	}
	return nil
}

func validFacedState(state model.FacedSurvivorState) bool {
	for _, s := range model.FacedSurvivorStates() {
		if s == state {
			return true
		}
	}
	return false
}

func validSurvivorResult(result model.SurvivorMatchResult) bool {
	for _, r := range model.SurvivorMatchResults() {
		if r == result {
			return true
		}
	}
	return false
}
