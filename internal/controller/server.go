package controller

import (
	"context"

	"trialbook/internal/cache"
	"trialbook/internal/database"
	"trialbook/internal/rabbitmq"
	"trialbook/internal/resource"
)

// Overview is a small status snapshot of the match log.
type Overview struct {
	KillerMatches   int64            `json:"killer_matches"`
	SurvivorMatches int64            `json:"survivor_matches"`
	TotalMatches    int64            `json:"total_matches"`
	MatchesPerMap   map[string]int64 `json:"matches_per_map"`
	MatchesPerRealm map[string]int64 `json:"matches_per_realm"`
}

type ServerController interface {
	DBHealth() error
	CacheHealth() error
	RabbitHealth() error
	IconStoreHealth() error
	Online() string
	GetOverview(ctx context.Context) (*Overview, error)
}

type serverController struct {
	db     database.Database
	cache  cache.Cache
	rabbit rabbitmq.Client
	icons  resource.IconStore
}

func NewServer(db database.Database, cache cache.Cache, rabbit rabbitmq.Client, icons resource.IconStore) ServerController {
	return &serverController{
		db:     db,
		cache:  cache,
		rabbit: rabbit,
		icons:  icons,
	}
}

func (sc *serverController) Online() string {
	return "Online"
}

func (sc *serverController) DBHealth() error {
	return sc.db.Health()
}

func (sc *serverController) CacheHealth() error {
	return sc.cache.Ping(context.TODO())
}

func (sc *serverController) RabbitHealth() error {
	return sc.rabbit.Health()
}

func (sc *serverController) IconStoreHealth() error {
	return sc.icons.TestConnection(context.TODO())
}

func (sc *serverController) GetOverview(ctx context.Context) (*Overview, error) {
	killerCount, err := sc.db.CountKillerMatches(ctx)
	if err != nil {
		return nil, err
	}

	survivorCount, err := sc.db.CountSurvivorMatches(ctx)
	if err != nil {
		return nil, err
	}

	perMap, err := sc.db.GetMatchCountByMap(ctx)
	if err != nil {
		return nil, err
	}

	perRealm, err := sc.db.GetMatchCountByRealm(ctx)
	if err != nil {
		return nil, err
	}

	return &Overview{
		KillerMatches:   killerCount,
		SurvivorMatches: survivorCount,
		TotalMatches:    killerCount + survivorCount,
		MatchesPerMap:   perMap,
		MatchesPerRealm: perRealm,
	}, nil
}
