package database

import (
	"context"
	"time"

	"trialbook/internal/config"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Database interface {
	Health() error
	CatalogDatabase
	MatchDatabase
	ReportDatabase
	TokenDatabase
	JobDatabase
}

type mongoDB struct {
	client *mongo.Client
	db     *mongo.Database

	killersCol         *mongo.Collection
	survivorsCol       *mongo.Collection
	itemsCol           *mongo.Collection
	addonsCol          *mongo.Collection
	perksCol           *mongo.Collection
	offeringsCol       *mongo.Collection
	realmsCol          *mongo.Collection
	killerMatchesCol   *mongo.Collection
	survivorMatchesCol *mongo.Collection
	reportsCol         *mongo.Collection
	tokensCol          *mongo.Collection
	jobsCol            *mongo.Collection
}

func New(config *config.Config) (Database, error) {
	clientOptions := options.Client().ApplyURI(config.MongoDB.URI)
	clientOptions.SetAuth(options.Credential{
		Username: config.MongoDB.Username,
		Password: config.MongoDB.Password,
	})

	client, err := mongo.Connect(context.TODO(), clientOptions)
	if err != nil {
		return nil, err
	}

	db := client.Database(config.MongoDB.DB)

	tokensCol := db.Collection("tokens")
	// Create unique indexes on the tokens collection
	tokenIndexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "token_hash", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	jobsCol := db.Collection("jobs")
	jobIndexModels := []mongo.IndexModel{
		{
			// Index for status-based queries
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index(),
		},
		{
			// Index for job type queries
			Keys:    bson.D{{Key: "type", Value: 1}},
			Options: options.Index(),
		},
		{
			// Index for sorting by creation date
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
		{
			// TTL index to auto-delete old completed/failed jobs
			Keys:    bson.D{{Key: "completed_at", Value: 1}},
			Options: options.Index().SetExpireAfterSeconds(60 * 60 * 24 * 30 * 6),
		},
	}

	killerMatchesCol := db.Collection("killer_matches")
	survivorMatchesCol := db.Collection("survivor_matches")
	matchIndexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "match_date", Value: -1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "map_name", Value: 1}},
			Options: options.Index(),
		},
	}

	reportsCol := db.Collection("statistics_reports")
	reportIndexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "job_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index(),
		},
	}

	_, err = tokensCol.Indexes().CreateMany(context.Background(), tokenIndexModels)
	if err != nil {
		log.Warn().Err(err).Str("Collection", "Tokens").Msg("Error creating indexes")
	}

	_, err = jobsCol.Indexes().CreateMany(context.Background(), jobIndexModels)
	if err != nil {
		log.Warn().Err(err).Str("Collection", "Jobs").Msg("Error creating indexes")
	}

	for _, col := range []*mongo.Collection{killerMatchesCol, survivorMatchesCol} {
		_, err = col.Indexes().CreateMany(context.Background(), matchIndexModels)
		if err != nil {
			log.Warn().Err(err).Str("Collection", col.Name()).Msg("Error creating indexes")
		}
	}

	_, err = reportsCol.Indexes().CreateMany(context.Background(), reportIndexModels)
	if err != nil {
		log.Warn().Err(err).Str("Collection", "StatisticsReports").Msg("Error creating indexes")
	}

	return &mongoDB{
		client:             client,
		db:                 db,
		killersCol:         db.Collection("killers"),
		survivorsCol:       db.Collection("survivors"),
		itemsCol:           db.Collection("items"),
		addonsCol:          db.Collection("addons"),
		perksCol:           db.Collection("perks"),
		offeringsCol:       db.Collection("offerings"),
		realmsCol:          db.Collection("realms"),
		killerMatchesCol:   killerMatchesCol,
		survivorMatchesCol: survivorMatchesCol,
		reportsCol:         reportsCol,
		tokensCol:          tokensCol,
		jobsCol:            jobsCol,
	}, nil
}

// Health implements Database interface
func (m *mongoDB) Health() error {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	err := m.client.Ping(ctx, nil)

	if err != nil {
		log.Error().Msgf("Database health error: %v", err)
		return err
	}

	return nil
}
