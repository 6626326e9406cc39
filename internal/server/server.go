package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"trialbook/internal/cache"
	"trialbook/internal/config"
	"trialbook/internal/controller"
	"trialbook/internal/database"
	"trialbook/internal/orchestrator"
	"trialbook/internal/rabbitmq"
	"trialbook/internal/resource"
)

type Server struct {
	sc     controller.ServerController
	tc     controller.TokenController
	jc     controller.JobController
	cc     controller.CatalogController
	mc     controller.MatchController
	stats  controller.StatsController
	config config.Config
}

func New(config config.Config, db database.Database, cache cache.Cache, rabbit rabbitmq.Client,
	workerRegistry orchestrator.WorkerRegistry, icons resource.IconStore) *http.Server {

	sc := controller.NewServer(db, cache, rabbit, icons)

	jc := controller.NewJobController(db, rabbit, config.RabbitMQ, config.Jobs, workerRegistry)
	jc.ProcessJobs(context.Background()) // Starts consuming messages from rabbit MQ

	tc := controller.NewToken(db)
	cc := controller.NewCatalog(db, cache, icons)
	mc := controller.NewMatch(db)
	stats := controller.NewStats(db, cache, jc)

	server := Server{
		sc:     sc,
		tc:     tc,
		jc:     jc,
		cc:     cc,
		mc:     mc,
		stats:  stats,
		config: config,
	}

	return &http.Server{
		Addr:         fmt.Sprintf(":%v", config.Port),
		Handler:      server.RegisterRoutes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
}
