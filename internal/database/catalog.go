package database

import (
	"context"
	"fmt"

	"trialbook/internal/model"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// CatalogDatabase defines read and seed operations over the game catalog:
// characters, equipment and realms.
type CatalogDatabase interface {
	ListKillers(ctx context.Context) ([]model.Killer, error)
	ListSurvivors(ctx context.Context) ([]model.Survivor, error)
	ListItems(ctx context.Context) ([]model.Item, error)
	ListAddons(ctx context.Context) ([]model.Addon, error)
	ListPerks(ctx context.Context, role string) ([]model.Perk, error)
	ListOfferings(ctx context.Context) ([]model.Offering, error)
	ListRealms(ctx context.Context) ([]model.Realm, error)

	GetKillerByID(ctx context.Context, id primitive.ObjectID) (*model.Killer, error)
	GetSurvivorByID(ctx context.Context, id primitive.ObjectID) (*model.Survivor, error)
	GetItemByID(ctx context.Context, id primitive.ObjectID) (*model.Item, error)
	GetAddonsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Addon, error)
	GetPerksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Perk, error)
	GetOfferingByID(ctx context.Context, id primitive.ObjectID) (*model.Offering, error)
	GetRealmByMapName(ctx context.Context, mapName string) (*model.Realm, error)

	ReplaceCatalog(ctx context.Context, catalog *Catalog) error
}

// Catalog bundles every catalog collection for seeding.
type Catalog struct {
	Killers   []model.Killer   `json:"killers"`
	Survivors []model.Survivor `json:"survivors"`
	Items     []model.Item     `json:"items"`
	Addons    []model.Addon    `json:"addons"`
	Perks     []model.Perk     `json:"perks"`
	Offerings []model.Offering `json:"offerings"`
	Realms    []model.Realm    `json:"realms"`
}

func listAll[T any](ctx context.Context, col *mongo.Collection, sortField string) ([]T, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: sortField, Value: 1}})

	cursor, err := col.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Error().Err(err).Str("collection", col.Name()).Msg("Failed to list collection")
		return nil, err
	}
	defer cursor.Close(ctx)

	var results []T
	if err := cursor.All(ctx, &results); err != nil {
		log.Error().Err(err).Str("collection", col.Name()).Msg("Failed to decode collection")
		return nil, err
	}
	return results, nil
}

func getByID[T any](ctx context.Context, col *mongo.Collection, id primitive.ObjectID) (*T, error) {
	var result T
	err := col.FindOne(ctx, bson.M{"_id": id}).Decode(&result)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("%s entry not found", col.Name())
		}
		log.Error().Err(err).Str("collection", col.Name()).Str("id", id.Hex()).Msg("Failed to get document")
		return nil, err
	}
	return &result, nil
}

func (m *mongoDB) ListKillers(ctx context.Context) ([]model.Killer, error) {
	return listAll[model.Killer](ctx, m.killersCol, "killer_alias")
}

func (m *mongoDB) ListSurvivors(ctx context.Context) ([]model.Survivor, error) {
	return listAll[model.Survivor](ctx, m.survivorsCol, "survivor_name")
}

func (m *mongoDB) ListItems(ctx context.Context) ([]model.Item, error) {
	return listAll[model.Item](ctx, m.itemsCol, "item_name")
}

func (m *mongoDB) ListAddons(ctx context.Context) ([]model.Addon, error) {
	return listAll[model.Addon](ctx, m.addonsCol, "addon_name")
}

func (m *mongoDB) ListPerks(ctx context.Context, role string) ([]model.Perk, error) {
	filter := bson.M{}
	if role != "" {
		filter["role"] = role
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "perk_name", Value: 1}})
	cursor, err := m.perksCol.Find(ctx, filter, findOptions)
	if err != nil {
		log.Error().Err(err).Str("role", role).Msg("Failed to list perks")
		return nil, err
	}
	defer cursor.Close(ctx)

	var perks []model.Perk
	if err := cursor.All(ctx, &perks); err != nil {
		log.Error().Err(err).Msg("Failed to decode perks")
		return nil, err
	}
	return perks, nil
}

func (m *mongoDB) ListOfferings(ctx context.Context) ([]model.Offering, error) {
	return listAll[model.Offering](ctx, m.offeringsCol, "offering_name")
}

func (m *mongoDB) ListRealms(ctx context.Context) ([]model.Realm, error) {
	return listAll[model.Realm](ctx, m.realmsCol, "realm_name")
}

func (m *mongoDB) GetKillerByID(ctx context.Context, id primitive.ObjectID) (*model.Killer, error) {
	return getByID[model.Killer](ctx, m.killersCol, id)
}

func (m *mongoDB) GetSurvivorByID(ctx context.Context, id primitive.ObjectID) (*model.Survivor, error) {
	return getByID[model.Survivor](ctx, m.survivorsCol, id)
}

func (m *mongoDB) GetItemByID(ctx context.Context, id primitive.ObjectID) (*model.Item, error) {
	return getByID[model.Item](ctx, m.itemsCol, id)
}

func (m *mongoDB) GetOfferingByID(ctx context.Context, id primitive.ObjectID) (*model.Offering, error) {
	return getByID[model.Offering](ctx, m.offeringsCol, id)
}

func (m *mongoDB) GetAddonsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Addon, error) {
	if len(ids) == 0 {
		return []model.Addon{}, nil
	}

	cursor, err := m.addonsCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Error().Err(err).Msg("Failed to get addons by IDs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var addons []model.Addon
	if err := cursor.All(ctx, &addons); err != nil {
		return nil, err
	}
	return addons, nil
}

func (m *mongoDB) GetPerksByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Perk, error) {
	if len(ids) == 0 {
		return []model.Perk{}, nil
	}

	cursor, err := m.perksCol.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		log.Error().Err(err).Msg("Failed to get perks by IDs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var perks []model.Perk
	if err := cursor.All(ctx, &perks); err != nil {
		return nil, err
	}
	return perks, nil
}

func (m *mongoDB) GetRealmByMapName(ctx context.Context, mapName string) (*model.Realm, error) {
	var realm model.Realm
	err := m.realmsCol.FindOne(ctx, bson.M{"maps.map_name": mapName}).Decode(&realm)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, fmt.Errorf("no realm contains map %q", mapName)
		}
		log.Error().Err(err).Str("mapName", mapName).Msg("Failed to find realm by map")
		return nil, err
	}
	return &realm, nil
}

// ReplaceCatalog drops and reinserts every catalog collection. Used by the
// seed tool; not exposed over the API.
func (m *mongoDB) ReplaceCatalog(ctx context.Context, catalog *Catalog) error {
	type seedTarget struct {
		col  *mongo.Collection
		docs []interface{}
	}

	targets := []seedTarget{
		{m.killersCol, toDocs(catalog.Killers)},
		{m.survivorsCol, toDocs(catalog.Survivors)},
		{m.itemsCol, toDocs(catalog.Items)},
		{m.addonsCol, toDocs(catalog.Addons)},
		{m.perksCol, toDocs(catalog.Perks)},
		{m.offeringsCol, toDocs(catalog.Offerings)},
		{m.realmsCol, toDocs(catalog.Realms)},
	}

	for _, target := range targets {
		if err := target.col.Drop(ctx); err != nil {
			return fmt.Errorf("failed to drop %s: %w", target.col.Name(), err)
		}
		if len(target.docs) == 0 {
			continue
		}
		if _, err := target.col.InsertMany(ctx, target.docs); err != nil {
			return fmt.Errorf("failed to seed %s: %w", target.col.Name(), err)
		}
		log.Info().Str("collection", target.col.Name()).Int("count", len(target.docs)).Msg("Seeded catalog collection")
	}
	return nil
}

func toDocs[T any](items []T) []interface{} {
	docs := make([]interface{}, 0, len(items))
	for _, item := range items {
		docs = append(docs, item)
	}
	return docs
}
