package database

import (
	"context"
	"time"

	"trialbook/internal/model"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MatchFilter narrows match listings.
type MatchFilter struct {
	MapName   string     `json:"map_name,omitempty"`
	RealmName string     `json:"realm_name,omitempty"`
	From      *time.Time `json:"from,omitempty"`
	To        *time.Time `json:"to,omitempty"`
	Limit     int64      `json:"limit,omitempty"`
	Offset    int64      `json:"offset,omitempty"`
}

// MatchDatabase defines match-log database operations
type MatchDatabase interface {
	InsertKillerMatch(ctx context.Context, match *model.KillerMatch) error
	InsertSurvivorMatch(ctx context.Context, match *model.SurvivorMatch) error
	ListKillerMatches(ctx context.Context, filter MatchFilter) ([]model.KillerMatch, error)
	ListSurvivorMatches(ctx context.Context, filter MatchFilter) ([]model.SurvivorMatch, error)
	GetKillerMatchByID(ctx context.Context, id primitive.ObjectID) (*model.KillerMatch, error)
	GetSurvivorMatchByID(ctx context.Context, id primitive.ObjectID) (*model.SurvivorMatch, error)
	DeleteKillerMatch(ctx context.Context, id primitive.ObjectID) error
	DeleteSurvivorMatch(ctx context.Context, id primitive.ObjectID) error

	// Counters used by the health/overview endpoints
	CountKillerMatches(ctx context.Context) (int64, error)
	CountSurvivorMatches(ctx context.Context) (int64, error)

	// Distribution of all matches per map and per realm
	GetMatchCountByMap(ctx context.Context) (map[string]int64, error)
	GetMatchCountByRealm(ctx context.Context) (map[string]int64, error)
}

func (m *mongoDB) InsertKillerMatch(ctx context.Context, match *model.KillerMatch) error {
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	match.ImportedAt = time.Now()

	_, err := m.killerMatchesCol.InsertOne(ctx, match)
	if err != nil {
		log.Error().Err(err).Str("killer", match.KillerAlias).Msg("Failed to insert killer match")
		return err
	}

	log.Debug().
		Str("matchID", match.ID.Hex()).
		Str("killer", match.KillerAlias).
		Str("map", match.MapName).
		Msg("Inserted killer match")
	return nil
}

func (m *mongoDB) InsertSurvivorMatch(ctx context.Context, match *model.SurvivorMatch) error {
	if match.ID.IsZero() {
		match.ID = primitive.NewObjectID()
	}
	match.ImportedAt = time.Now()

	_, err := m.survivorMatchesCol.InsertOne(ctx, match)
	if err != nil {
		log.Error().Err(err).Str("survivor", match.SurvivorName).Msg("Failed to insert survivor match")
		return err
	}

	log.Debug().
		Str("matchID", match.ID.Hex()).
		Str("survivor", match.SurvivorName).
		Str("map", match.MapName).
		Msg("Inserted survivor match")
	return nil
}

func matchQuery(filter MatchFilter) (bson.M, *options.FindOptions) {
	query := bson.M{}
	if filter.MapName != "" {
		query["map_name"] = filter.MapName
	}
	if filter.RealmName != "" {
		query["realm_name"] = filter.RealmName
	}
	if filter.From != nil || filter.To != nil {
		dateRange := bson.M{}
		if filter.From != nil {
			dateRange["$gte"] = *filter.From
		}
		if filter.To != nil {
			dateRange["$lte"] = *filter.To
		}
		query["match_date"] = dateRange
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "match_date", Value: -1}})
	if filter.Limit > 0 {
		findOptions.SetLimit(filter.Limit)
	}
	if filter.Offset > 0 {
		findOptions.SetSkip(filter.Offset)
	}
	return query, findOptions
}

func (m *mongoDB) ListKillerMatches(ctx context.Context, filter MatchFilter) ([]model.KillerMatch, error) {
	query, findOptions := matchQuery(filter)

	cursor, err := m.killerMatchesCol.Find(ctx, query, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list killer matches")
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []model.KillerMatch
	if err := cursor.All(ctx, &matches); err != nil {
		log.Error().Err(err).Msg("Failed to decode killer matches")
		return nil, err
	}
	return matches, nil
}

func (m *mongoDB) ListSurvivorMatches(ctx context.Context, filter MatchFilter) ([]model.SurvivorMatch, error) {
	query, findOptions := matchQuery(filter)

	cursor, err := m.survivorMatchesCol.Find(ctx, query, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list survivor matches")
		return nil, err
	}
	defer cursor.Close(ctx)

	var matches []model.SurvivorMatch
	if err := cursor.All(ctx, &matches); err != nil {
		log.Error().Err(err).Msg("Failed to decode survivor matches")
		return nil, err
	}
	return matches, nil
}

func (m *mongoDB) GetKillerMatchByID(ctx context.Context, id primitive.ObjectID) (*model.KillerMatch, error) {
	return getByID[model.KillerMatch](ctx, m.killerMatchesCol, id)
}

func (m *mongoDB) GetSurvivorMatchByID(ctx context.Context, id primitive.ObjectID) (*model.SurvivorMatch, error) {
	return getByID[model.SurvivorMatch](ctx, m.survivorMatchesCol, id)
}

func (m *mongoDB) DeleteKillerMatch(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.killerMatchesCol.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("matchID", id.Hex()).Msg("Failed to delete killer match")
	}
	return err
}

func (m *mongoDB) DeleteSurvivorMatch(ctx context.Context, id primitive.ObjectID) error {
	_, err := m.survivorMatchesCol.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		log.Error().Err(err).Str("matchID", id.Hex()).Msg("Failed to delete survivor match")
	}
	return err
}

func (m *mongoDB) CountKillerMatches(ctx context.Context) (int64, error) {
	count, err := m.killerMatchesCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to count killer matches")
		return 0, err
	}
	return count, nil
}

func (m *mongoDB) CountSurvivorMatches(ctx context.Context) (int64, error) {
	count, err := m.survivorMatchesCol.CountDocuments(ctx, bson.M{})
	if err != nil {
		log.Error().Err(err).Msg("Failed to count survivor matches")
		return 0, err
	}
	return count, nil
}

// countByField aggregates document counts grouped by one field across both
// match collections.
func (m *mongoDB) countByField(ctx context.Context, field string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{
		{{
			Key: "$group",
			Value: bson.D{
				{Key: "_id", Value: "$" + field},
				{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			},
		}},
	}

	counts := make(map[string]int64)
	for _, col := range []*mongo.Collection{m.killerMatchesCol, m.survivorMatchesCol} {
		cursor, err := col.Aggregate(ctx, pipeline)
		if err != nil {
			log.Error().Err(err).Str("collection", col.Name()).Str("field", field).Msg("Failed to aggregate match counts")
			return nil, err
		}

		for cursor.Next(ctx) {
			var result struct {
				ID    string `bson:"_id"`
				Count int64  `bson:"count"`
			}
			if err := cursor.Decode(&result); err != nil {
				cursor.Close(ctx)
				log.Error().Err(err).Msg("Failed to decode match count result")
				return nil, err
			}
			counts[result.ID] += result.Count
		}

		err = cursor.Err()
		cursor.Close(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error iterating match count results")
			return nil, err
		}
	}

	return counts, nil
}

// GetMatchCountByMap returns the count of matches for each map name
func (m *mongoDB) GetMatchCountByMap(ctx context.Context) (map[string]int64, error) {
	return m.countByField(ctx, "map_name")
}

// GetMatchCountByRealm returns the count of matches for each realm name
func (m *mongoDB) GetMatchCountByRealm(ctx context.Context) (map[string]int64, error) {
	return m.countByField(ctx, "realm_name")
}
