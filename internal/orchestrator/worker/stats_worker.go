package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"trialbook/internal/database"
	"trialbook/internal/model"
	"trialbook/internal/orchestrator"
	"trialbook/internal/stats"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	STATISTICS_TYPE        = "statistics_worker"
	STATISTICS_NAME        = "Statistics Worker"
	STATISTICS_DESCRIPTION = "Compute general, killer and survivor statistics over the full match log"
)

// Progress checkpoints for the three computation stages.
const (
	progressLoaded   = 25
	progressGeneral  = 50
	progressKiller   = 75
	progressComplete = 100
)

type statisticsWorker struct {
	db database.Database

	// Cancel() may run concurrently with the worker goroutine, so the
	// lifecycle fields are held behind atomic pointers.
	ctx        atomic.Pointer[context.Context]
	cancelFunc atomic.Pointer[context.CancelFunc]
	jobID      atomic.Pointer[primitive.ObjectID]
	cancelled  int32 // Using atomic for thread-safe access
}

// Cancel implements orchestrator.BatchWorker.
func (w *statisticsWorker) Cancel() error {
	if cancelFunc := w.cancelFunc.Load(); cancelFunc != nil {
		(*cancelFunc)()
	}

	// Set the cancelled flag atomically
	atomic.StoreInt32(&w.cancelled, 1)

	// Then clear the fields
	w.ctx.Store(nil)
	w.cancelFunc.Store(nil)
	w.jobID.Store(nil)

	return nil
}

// Description implements orchestrator.BatchWorker.
func (w *statisticsWorker) Description() string {
	return STATISTICS_DESCRIPTION
}

// IsActive implements orchestrator.BatchWorker.
func (w *statisticsWorker) IsActive() bool {
	return atomic.LoadInt32(&w.cancelled) == 0 && w.ctx.Load() != nil
}

func (w *statisticsWorker) ActiveJobID() *primitive.ObjectID {
	if !w.IsActive() {
		return nil
	}
	return w.jobID.Load()
}

// Name implements orchestrator.BatchWorker.
func (w *statisticsWorker) Name() string {
	return STATISTICS_NAME
}

// Type implements orchestrator.BatchWorker.
func (w *statisticsWorker) Type() string {
	return STATISTICS_TYPE
}

// StartWorker implements orchestrator.BatchWorker. It snapshots the catalog
// and match log, runs the three computations in order, and persists exactly
// one report per job. A failed run still writes a report so readers can see
// what went wrong without digging through job error lists.
func (w *statisticsWorker) StartWorker(job *model.Job) (bool, error) {
	atomic.StoreInt32(&w.cancelled, 0)

	ctx, cancelFunc := context.WithCancel(context.Background())
	jobID := job.ID
	w.ctx.Store(&ctx)
	w.cancelFunc.Store(&cancelFunc)
	w.jobID.Store(&jobID)

	defer func() {
		// Clean up in case of panic or return
		if !w.isCancelled() {
			w.ctx.Store(nil)
			w.cancelFunc.Store(nil)
			w.jobID.Store(nil)
		}
	}()

	calc, err := w.loadSnapshot(job)
	if err != nil {
		if w.isCancelled() {
			return true, nil
		}
		w.persistFailure(job, err)
		return false, err
	}

	if w.isCancelled() {
		return true, nil
	}

	report := &model.StatisticsReport{
		JobID:     job.ID,
		Status:    model.ReportCompleted,
		CreatedAt: time.Now(),
	}

	report.General = calc.CalculateGeneral()
	w.checkpoint(job, progressGeneral)
	if w.isCancelled() {
		return true, nil
	}

	report.Killer = calc.CalculateKillerGeneral()
	w.checkpoint(job, progressKiller)
	if w.isCancelled() {
		return true, nil
	}

	report.Survivor = calc.CalculateSurvivorGeneral()

	if err := w.db.CreateReport(w.SafeContext(), report); err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("unable to persist statistics report")
		return false, err
	}

	if err := w.db.SetJobReportID(w.SafeContext(), job.ID, report.ID); err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("unable to link report to job")
		return false, err
	}

	w.checkpoint(job, progressComplete)

	log.Info().
		Str("jobID", job.ID.Hex()).
		Str("reportID", report.ID.Hex()).
		Int("totalGames", report.General.TotalGames).
		Bool("hasKiller", report.Killer != nil).
		Bool("hasSurvivor", report.Survivor != nil).
		Msg("statistics report complete")

	return false, nil
}

// loadSnapshot reads the catalog and the full match log for this run.
func (w *statisticsWorker) loadSnapshot(job *model.Job) (*stats.Calculator, error) {
	ctx := w.SafeContext()

	killers, err := w.db.ListKillers(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading killers: %w", err)
	}

	survivors, err := w.db.ListSurvivors(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading survivors: %w", err)
	}

	killerMatches, err := w.db.ListKillerMatches(ctx, database.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading killer matches: %w", err)
	}

	survivorMatches, err := w.db.ListSurvivorMatches(ctx, database.MatchFilter{})
	if err != nil {
		return nil, fmt.Errorf("loading survivor matches: %w", err)
	}

	total := len(killerMatches) + len(survivorMatches)
	w.db.UpdateJobProgress(ctx, job.ID, progressLoaded, model.JobMetrics{
		TotalItems:     total,
		ProcessedItems: total,
	})

	return stats.NewCalculator(killers, survivors, killerMatches, survivorMatches), nil
}

// persistFailure records a failed report so the failure is queryable with
// the same endpoints as a successful one.
func (w *statisticsWorker) persistFailure(job *model.Job, cause error) {
	report := &model.StatisticsReport{
		JobID:     job.ID,
		Status:    model.ReportFailed,
		Error:     cause.Error(),
		CreatedAt: time.Now(),
	}

	ctx := w.SafeContext()
	if err := w.db.CreateReport(ctx, report); err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("unable to persist failed report")
		return
	}
	if err := w.db.SetJobReportID(ctx, job.ID, report.ID); err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("unable to link failed report to job")
	}
}

func (w *statisticsWorker) checkpoint(job *model.Job, progress int) {
	if w.isCancelled() {
		return
	}
	if err := w.db.UpdateJobProgress(w.SafeContext(), job.ID, progress, job.Metrics); err != nil {
		log.Warn().Err(err).Str("jobID", job.ID.Hex()).Int("progress", progress).Msg("unable to checkpoint progress")
	}
}

// isCancelled returns true if the worker has been cancelled
func (w *statisticsWorker) isCancelled() bool {
	return atomic.LoadInt32(&w.cancelled) == 1 || w.ctx.Load() == nil
}

// SafeContext returns the run context, or an already-cancelled context when
// the worker is inactive. The pointed-at context never changes after Store,
// so dereferencing a loaded pointer is safe.
func (w *statisticsWorker) SafeContext() context.Context {
	ctxPtr := w.ctx.Load()
	if atomic.LoadInt32(&w.cancelled) == 1 || ctxPtr == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return *ctxPtr
}

func NewStatisticsWorker(db database.Database) orchestrator.BatchWorker {
	return &statisticsWorker{
		db:        db,
		cancelled: 1,
	}
}
