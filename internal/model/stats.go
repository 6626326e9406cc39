package model

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Bucket is one category of a histogram. Buckets are kept in slices, not
// maps, so the display order of a chart is exactly the order the
// calculator produced.
type Bucket struct {
	Label string `bson:"label" json:"label"`
	Count int    `bson:"count" json:"count"`
}

// ValueBucket is a Bucket whose value is fractional (e.g. an average).
type ValueBucket struct {
	Label string  `bson:"label" json:"label"`
	Value float64 `bson:"value" json:"value"`
}

// StateDistribution holds, for one character, a zero-filled count per
// declared enum variant (faced-survivor state or match result).
type StateDistribution struct {
	Label  string   `bson:"label" json:"label"`
	Counts []Bucket `bson:"counts" json:"counts"`
}

// CommonMapData pairs a map (or realm) name with how often it was played.
type CommonMapData struct {
	Name  string `bson:"name" json:"name"`
	Count int    `bson:"count" json:"count"`
}

// FavouriteKillerData is the killer played most often, with its share of
// all killer matches.
type FavouriteKillerData struct {
	Killer     Killer `bson:"killer" json:"killer"`
	GamesWith  int    `bson:"games_with" json:"games_with"`
	TotalGames int    `bson:"total_games" json:"total_games"`
}

// CommonSurvivorData pairs a survivor with how often they were encountered.
type CommonSurvivorData struct {
	Survivor   Survivor `bson:"survivor" json:"survivor"`
	Encounters int      `bson:"encounters" json:"encounters"`
	TotalGames int      `bson:"total_games" json:"total_games"`
}

// CommonKillerData pairs a killer with how often they were faced.
type CommonKillerData struct {
	Killer     Killer `bson:"killer" json:"killer"`
	Encounters int    `bson:"encounters" json:"encounters"`
	TotalGames int    `bson:"total_games" json:"total_games"`
}

// LethalKillerData describes how deadly a faced killer was for the player.
type LethalKillerData struct {
	Killer     Killer  `bson:"killer" json:"killer"`
	Deaths     int     `bson:"deaths" json:"deaths"`
	TotalGames int     `bson:"total_games" json:"total_games"`
	KillRatio  float64 `bson:"kill_ratio" json:"kill_ratio"`
}

// CommonItemTypeData pairs an item type with how often it was brought.
type CommonItemTypeData struct {
	ItemType ItemType `bson:"item_type" json:"item_type"`
	Uses     int      `bson:"uses" json:"uses"`
}

// KillerEliminations holds the per-killer elimination totals.
type KillerEliminations struct {
	KillerAlias  string          `bson:"killer_alias" json:"killer_alias"`
	Eliminations EliminationInfo `bson:"eliminations" json:"eliminations"`
}

// GeneralMatchStatistics covers every logged match regardless of role.
type GeneralMatchStatistics struct {
	TotalGames            int           `bson:"total_games" json:"total_games"`
	TotalPoints           int           `bson:"total_points" json:"total_points"`
	AveragePointsPerMatch float64       `bson:"average_points_per_match" json:"average_points_per_match"`
	MostCommonMap         CommonMapData `bson:"most_common_map" json:"most_common_map"`
	LeastCommonMap        CommonMapData `bson:"least_common_map" json:"least_common_map"`
	MostCommonRealm       CommonMapData `bson:"most_common_realm" json:"most_common_realm"`
	LeastCommonRealm      CommonMapData `bson:"least_common_realm" json:"least_common_realm"`
}

// KillerMatchStatistics aggregates every match played as killer.
type KillerMatchStatistics struct {
	FavouriteKiller       FavouriteKillerData  `bson:"favourite_killer" json:"favourite_killer"`
	MostCommonSurvivor    CommonSurvivorData   `bson:"most_common_survivor" json:"most_common_survivor"`
	LeastCommonSurvivor   CommonSurvivorData   `bson:"least_common_survivor" json:"least_common_survivor"`
	TotalEliminations     EliminationInfo      `bson:"total_eliminations" json:"total_eliminations"`
	GamesPerKiller        []Bucket             `bson:"games_per_killer" json:"games_per_killer"`
	FacedSurvivorStates   []StateDistribution  `bson:"faced_survivor_states" json:"faced_survivor_states"`
	TotalSurvivorStates   []Bucket             `bson:"total_survivor_states" json:"total_survivor_states"`
	EliminationsPerKiller []KillerEliminations `bson:"eliminations_per_killer" json:"eliminations_per_killer"`
	AverageKillsPerKiller []ValueBucket        `bson:"average_kills_per_killer" json:"average_kills_per_killer"`
}

// SurvivorMatchStatistics aggregates every match played as survivor.
type SurvivorMatchStatistics struct {
	MostCommonKiller     CommonKillerData    `bson:"most_common_killer" json:"most_common_killer"`
	LeastCommonKiller    CommonKillerData    `bson:"least_common_killer" json:"least_common_killer"`
	MostLethalKiller     LethalKillerData    `bson:"most_lethal_killer" json:"most_lethal_killer"`
	LeastLethalKiller    LethalKillerData    `bson:"least_lethal_killer" json:"least_lethal_killer"`
	MostCommonItemType   CommonItemTypeData  `bson:"most_common_item_type" json:"most_common_item_type"`
	GamesPerSurvivor     []Bucket            `bson:"games_per_survivor" json:"games_per_survivor"`
	FacedKillers         []Bucket            `bson:"faced_killers" json:"faced_killers"`
	MatchResults         []Bucket            `bson:"match_results" json:"match_results"`
	SurvivorMatchResults []StateDistribution `bson:"survivor_match_results" json:"survivor_match_results"`
}

// ReportStatus is the typed outcome of one statistics computation.
type ReportStatus string

const (
	ReportCompleted ReportStatus = "completed"
	ReportFailed    ReportStatus = "failed"
)

// StatisticsReport bundles the three results of one computation run.
// Killer and Survivor are nil when no matches of that role exist; the
// consumer renders an empty state instead of charts.
type StatisticsReport struct {
	ID        primitive.ObjectID       `bson:"_id,omitempty" json:"id"`
	JobID     primitive.ObjectID       `bson:"job_id" json:"job_id"`
	Status    ReportStatus             `bson:"status" json:"status"`
	Error     string                   `bson:"error,omitempty" json:"error,omitempty"`
	General   *GeneralMatchStatistics  `bson:"general,omitempty" json:"general,omitempty"`
	Killer    *KillerMatchStatistics   `bson:"killer,omitempty" json:"killer,omitempty"`
	Survivor  *SurvivorMatchStatistics `bson:"survivor,omitempty" json:"survivor,omitempty"`
	CreatedAt time.Time                `bson:"created_at" json:"created_at"`
}
