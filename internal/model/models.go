package model

import (
	"strings"
	"time"
	"unicode"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	// Player roles
	KillerRole   = "killer"
	SurvivorRole = "survivor"

	// Ranks go from 20 (worst) down to 1 (best)
	LowestRank  = 20
	HighestRank = 1
)

// ItemType classifies survivor items. Declared order is the display order.
type ItemType string

const (
	ItemTypeMedkit      ItemType = "Medkit"
	ItemTypeFlashlight  ItemType = "Flashlight"
	ItemTypeToolbox     ItemType = "Toolbox"
	ItemTypeKey         ItemType = "Key"
	ItemTypeMap         ItemType = "Map"
	ItemTypeFirecracker ItemType = "Firecracker"
)

// ItemTypes lists every item type in declared order.
func ItemTypes() []ItemType {
	return []ItemType{
		ItemTypeMedkit,
		ItemTypeFlashlight,
		ItemTypeToolbox,
		ItemTypeKey,
		ItemTypeMap,
		ItemTypeFirecracker,
	}
}

// FacedSurvivorState is the fate of one survivor faced during a killer match.
type FacedSurvivorState string

const (
	FacedSurvivorEscaped      FacedSurvivorState = "Escaped"
	FacedSurvivorSacrificed   FacedSurvivorState = "Sacrificed"
	FacedSurvivorKilled       FacedSurvivorState = "Killed"
	FacedSurvivorDisconnected FacedSurvivorState = "Disconnected"
)

// FacedSurvivorStates lists every state in declared order. Charts and
// zero-filled histograms rely on this order being stable.
func FacedSurvivorStates() []FacedSurvivorState {
	return []FacedSurvivorState{
		FacedSurvivorEscaped,
		FacedSurvivorSacrificed,
		FacedSurvivorKilled,
		FacedSurvivorDisconnected,
	}
}

// SurvivorMatchResult is the outcome of a survivor match from the logging
// player's point of view.
type SurvivorMatchResult string

const (
	ResultEscaped             SurvivorMatchResult = "Escaped"
	ResultEscapedThroughHatch SurvivorMatchResult = "EscapedThroughHatch"
	ResultSacrificed          SurvivorMatchResult = "Sacrificed"
	ResultKilled              SurvivorMatchResult = "Killed"
	ResultBledOut             SurvivorMatchResult = "BledOut"
	ResultDisconnected        SurvivorMatchResult = "Disconnected"
)

// SurvivorMatchResults lists every result in declared order.
func SurvivorMatchResults() []SurvivorMatchResult {
	return []SurvivorMatchResult{
		ResultEscaped,
		ResultEscapedThroughHatch,
		ResultSacrificed,
		ResultKilled,
		ResultBledOut,
		ResultDisconnected,
	}
}

// DisplayName splits a camel-cased enum value into words, e.g.
// "EscapedThroughHatch" -> "Escaped Through Hatch".
func DisplayName(value string) string {
	var b strings.Builder
	for i, r := range value {
		if i > 0 && unicode.IsUpper(r) {
			b.WriteRune(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// Killer is a playable killer character.
type Killer struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	KillerName  string             `bson:"killer_name" json:"killer_name"`   // character name, e.g. "Evan MacMillan"
	KillerAlias string             `bson:"killer_alias" json:"killer_alias"` // in-game alias, e.g. "The Trapper"
	IconURL     string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// Survivor is a playable survivor character.
type Survivor struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SurvivorName string             `bson:"survivor_name" json:"survivor_name"`
	IconURL      string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// Item is an equippable survivor item.
type Item struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ItemName string             `bson:"item_name" json:"item_name"`
	ItemType ItemType           `bson:"item_type" json:"item_type"`
	IconURL  string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// Addon modifies either a specific killer's power or a type of survivor item.
// Exactly one of KillerID and ItemType is set.
type Addon struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	AddonName string              `bson:"addon_name" json:"addon_name"`
	KillerID  *primitive.ObjectID `bson:"killer_id,omitempty" json:"killer_id,omitempty"`
	ItemType  ItemType            `bson:"item_type,omitempty" json:"item_type,omitempty"`
	IconURL   string              `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// ForKiller reports whether the addon belongs to a killer's power.
func (a Addon) ForKiller() bool {
	return a.KillerID != nil
}

// Perk is a passive ability with tiers 1-3, usable by one of the two roles.
type Perk struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PerkName string             `bson:"perk_name" json:"perk_name"`
	PerkTier int                `bson:"perk_tier" json:"perk_tier"`
	Role     string             `bson:"role" json:"role"` // killer or survivor
	IconURL  string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// Offering is a burnt offering usable by one or both roles.
type Offering struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	OfferingName string             `bson:"offering_name" json:"offering_name"`
	Role         string             `bson:"role,omitempty" json:"role,omitempty"` // empty means both roles
	IconURL      string             `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// GameMap is a single map inside a realm.
type GameMap struct {
	MapName string `bson:"map_name" json:"map_name"`
	IconURL string `bson:"icon_url,omitempty" json:"icon_url,omitempty"`
}

// Realm groups maps sharing a setting.
type Realm struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	RealmName string             `bson:"realm_name" json:"realm_name"`
	Maps      []GameMap          `bson:"maps" json:"maps"`
}

// EliminationInfo counts how the four survivors of a killer match were
// removed from the trial. All fields are non-negative.
type EliminationInfo struct {
	Kills       int `bson:"kills" json:"kills"`
	Sacrifices  int `bson:"sacrifices" json:"sacrifices"`
	Disconnects int `bson:"disconnects" json:"disconnects"`
}

// Add accumulates another EliminationInfo into this one.
func (e *EliminationInfo) Add(other EliminationInfo) {
	e.Kills += other.Kills
	e.Sacrifices += other.Sacrifices
	e.Disconnects += other.Disconnects
}

// Total is the number of eliminated survivors.
func (e EliminationInfo) Total() int {
	return e.Kills + e.Sacrifices + e.Disconnects
}

// FacedSurvivor is one of the four survivors encountered in a killer match,
// together with their fate.
type FacedSurvivor struct {
	SurvivorID   primitive.ObjectID `bson:"survivor_id" json:"survivor_id"`
	SurvivorName string             `bson:"survivor_name" json:"survivor_name"`
	State        FacedSurvivorState `bson:"state" json:"state"`
}

// KillerMatch is one logged match played as killer. Character and map names
// are denormalized into the document so statistics pipelines can group
// without joins.
type KillerMatch struct {
	ID             primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	KillerID       primitive.ObjectID   `bson:"killer_id" json:"killer_id"`
	KillerAlias    string               `bson:"killer_alias" json:"killer_alias"`
	Points         int                  `bson:"points" json:"points"`
	Rank           int                  `bson:"rank" json:"rank"`
	MatchDate      time.Time            `bson:"match_date" json:"match_date"`
	RealmName      string               `bson:"realm_name" json:"realm_name"`
	MapName        string               `bson:"map_name" json:"map_name"`
	AddonIDs       []primitive.ObjectID `bson:"addon_ids,omitempty" json:"addon_ids,omitempty"`
	PerkIDs        []primitive.ObjectID `bson:"perk_ids,omitempty" json:"perk_ids,omitempty"`
	OfferingID     *primitive.ObjectID  `bson:"offering_id,omitempty" json:"offering_id,omitempty"`
	FacedSurvivors []FacedSurvivor      `bson:"faced_survivors" json:"faced_survivors"`
	Eliminations   EliminationInfo      `bson:"eliminations" json:"eliminations"`
	ImportedAt     time.Time            `bson:"imported_at" json:"imported_at"`
}

// SurvivorMatch is one logged match played as survivor.
type SurvivorMatch struct {
	ID               primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	SurvivorID       primitive.ObjectID   `bson:"survivor_id" json:"survivor_id"`
	SurvivorName     string               `bson:"survivor_name" json:"survivor_name"`
	Points           int                  `bson:"points" json:"points"`
	Rank             int                  `bson:"rank" json:"rank"`
	MatchDate        time.Time            `bson:"match_date" json:"match_date"`
	RealmName        string               `bson:"realm_name" json:"realm_name"`
	MapName          string               `bson:"map_name" json:"map_name"`
	ItemID           *primitive.ObjectID  `bson:"item_id,omitempty" json:"item_id,omitempty"`
	ItemType         ItemType             `bson:"item_type,omitempty" json:"item_type,omitempty"`
	AddonIDs         []primitive.ObjectID `bson:"addon_ids,omitempty" json:"addon_ids,omitempty"`
	PerkIDs          []primitive.ObjectID `bson:"perk_ids,omitempty" json:"perk_ids,omitempty"`
	OfferingID       *primitive.ObjectID  `bson:"offering_id,omitempty" json:"offering_id,omitempty"`
	FacedKillerID    primitive.ObjectID   `bson:"faced_killer_id" json:"faced_killer_id"`
	FacedKillerAlias string               `bson:"faced_killer_alias" json:"faced_killer_alias"`
	Result           SurvivorMatchResult  `bson:"result" json:"result"`
	ImportedAt       time.Time            `bson:"imported_at" json:"imported_at"`
}

// APIToken represents a service authentication token
type APIToken struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	TokenHash string             `bson:"token_hash" json:"-" unique:"true"` // Hashed token value stored in DB
	Name      string             `bson:"name" json:"name" unique:"true"`    // Name/description of the token
	Role      string             `bson:"role" json:"role"`                  // Either "admin" or "service"
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	ExpiresAt time.Time          `bson:"expires_at,omitempty" json:"expires_at,omitempty"`
	LastUsed  time.Time          `bson:"last_used,omitempty" json:"last_used,omitempty"`
	Revoked   bool               `bson:"revoked" json:"revoked"` // Whether the token has been revoked
}

// MatchImportPayload is the body of a bulk match import job. It travels
// inside Job.Payload and is decoded back out by the import worker.
type MatchImportPayload struct {
	KillerMatches   []KillerMatch   `bson:"killer_matches,omitempty" json:"killer_matches,omitempty"`
	SurvivorMatches []SurvivorMatch `bson:"survivor_matches,omitempty" json:"survivor_matches,omitempty"`
}

// BulkImportResult summarizes a bulk match import.
type BulkImportResult struct {
	SuccessCount   int `bson:"success_count" json:"success_count"`
	DuplicateCount int `bson:"duplicate_count" json:"duplicate_count"`
	FailureCount   int `bson:"failure_count" json:"failure_count"`
}
