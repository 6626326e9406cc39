package controller

import (
	"context"
	"errors"
	"fmt"
	"time"

	"trialbook/internal/cache"
	"trialbook/internal/chart"
	"trialbook/internal/database"
	"trialbook/internal/model"
	"trialbook/internal/orchestrator/worker"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Completed reports are immutable, so only the "latest" pointer needs a
// short TTL.
const (
	latestReportCacheKey = "stats:latest_report"
	latestReportCacheTTL = 1 * time.Minute
)

// ErrCalculationActive is returned when a statistics run is requested while
// one is already in flight. At most one runs at a time.
var ErrCalculationActive = errors.New("a statistics calculation is already running")

// ChartBundle groups the renderable charts derived from one report.
type ChartBundle struct {
	ReportID primitive.ObjectID `json:"report_id"`
	Killer   []chart.BarChart   `json:"killer,omitempty"`
	Survivor []chart.BarChart   `json:"survivor,omitempty"`
}

// StatsController starts statistics runs and serves their reports.
type StatsController interface {
	// StartCalculation enqueues a statistics job. Fails with
	// ErrCalculationActive when one is already in flight.
	StartCalculation(ctx context.Context, tokenID string) (*model.Job, error)

	GetReport(ctx context.Context, id string) (*model.StatisticsReport, error)
	GetReportByJob(ctx context.Context, jobID string) (*model.StatisticsReport, error)
	GetLatestReport(ctx context.Context) (*model.StatisticsReport, error)
	ListReports(ctx context.Context, limit, offset int64) ([]model.StatisticsReport, error)

	// GetLatestCharts binds the latest completed report to bar charts.
	GetLatestCharts(ctx context.Context) (*ChartBundle, error)
}

type statsController struct {
	db    database.Database
	cache cache.Cache
	jobs  JobController
}

func NewStats(db database.Database, c cache.Cache, jobs JobController) StatsController {
	return &statsController{
		db:    db,
		cache: c,
		jobs:  jobs,
	}
}

func (sc *statsController) StartCalculation(ctx context.Context, tokenID string) (*model.Job, error) {
	job, err := sc.jobs.CreateJob(ctx, worker.STATISTICS_TYPE, nil, tokenID)
	if err != nil {
		if isAlreadyActive(err) {
			return nil, ErrCalculationActive
		}
		return nil, err
	}

	// The new run will supersede the cached latest report once it lands.
	if err := sc.cache.Delete(ctx, latestReportCacheKey); err != nil {
		log.Warn().Err(err).Msg("unable to invalidate latest report cache")
	}

	return job, nil
}

func (sc *statsController) GetReport(ctx context.Context, id string) (*model.StatisticsReport, error) {
	reportID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid report id: %w", err)
	}
	return sc.db.GetReportByID(ctx, reportID)
}

func (sc *statsController) GetReportByJob(ctx context.Context, jobID string) (*model.StatisticsReport, error) {
	id, err := primitive.ObjectIDFromHex(jobID)
	if err != nil {
		return nil, fmt.Errorf("invalid job id: %w", err)
	}
	return sc.db.GetReportByJobID(ctx, id)
}

func (sc *statsController) GetLatestReport(ctx context.Context) (*model.StatisticsReport, error) {
	var cached model.StatisticsReport
	if err := cache.GetJSON(ctx, sc.cache, latestReportCacheKey, &cached); err == nil {
		return &cached, nil
	}

	report, err := sc.db.GetLatestReport(ctx)
	if err != nil {
		return nil, err
	}

	if err := cache.SetJSON(ctx, sc.cache, latestReportCacheKey, report, latestReportCacheTTL); err != nil {
		log.Warn().Err(err).Msg("unable to cache latest report")
	}
	return report, nil
}

func (sc *statsController) ListReports(ctx context.Context, limit, offset int64) ([]model.StatisticsReport, error) {
	return sc.db.ListReports(ctx, limit, offset)
}

func (sc *statsController) GetLatestCharts(ctx context.Context) (*ChartBundle, error) {
	report, err := sc.GetLatestReport(ctx)
	if err != nil {
		return nil, err
	}

	if report.Status != model.ReportCompleted {
		return nil, fmt.Errorf("latest report failed: %v", report.Error)
	}

	return &ChartBundle{
		ReportID: report.ID,
		Killer:   chart.KillerCharts(report.Killer),
		Survivor: chart.SurvivorCharts(report.Survivor),
	}, nil
}

// isAlreadyActive matches the job controller's single-flight rejection.
func isAlreadyActive(err error) bool {
	return err != nil && errors.Is(err, errJobTypeActive)
}
