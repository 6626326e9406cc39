package worker

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"trialbook/internal/database"
	"trialbook/internal/model"
	"trialbook/internal/orchestrator"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	IMPORT_MATCHES_TYPE        = "import_matches_worker"
	IMPORT_MATCHES_NAME        = "Import Matches Worker"
	IMPORT_MATCHES_DESCRIPTION = "Bulk import exported match logs into the database"
)

const defaultImportBatchSize = 50

type importMatchesWorker struct {
	db database.Database

	// Cancel() may run concurrently with the worker goroutine, so the
	// lifecycle fields are held behind atomic pointers.
	ctx        atomic.Pointer[context.Context]
	cancelFunc atomic.Pointer[context.CancelFunc]
	jobID      atomic.Pointer[primitive.ObjectID]
	cancelled  int32 // Using atomic for thread-safe access
}

// Cancel implements orchestrator.BatchWorker.
func (w *importMatchesWorker) Cancel() error {
	if cancelFunc := w.cancelFunc.Load(); cancelFunc != nil {
		(*cancelFunc)()
	}

	atomic.StoreInt32(&w.cancelled, 1)

	w.ctx.Store(nil)
	w.cancelFunc.Store(nil)
	w.jobID.Store(nil)

	return nil
}

// Description implements orchestrator.BatchWorker.
func (w *importMatchesWorker) Description() string {
	return IMPORT_MATCHES_DESCRIPTION
}

// IsActive implements orchestrator.BatchWorker.
func (w *importMatchesWorker) IsActive() bool {
	return atomic.LoadInt32(&w.cancelled) == 0 && w.ctx.Load() != nil
}

func (w *importMatchesWorker) ActiveJobID() *primitive.ObjectID {
	if !w.IsActive() {
		return nil
	}
	return w.jobID.Load()
}

// Name implements orchestrator.BatchWorker.
func (w *importMatchesWorker) Name() string {
	return IMPORT_MATCHES_NAME
}

// Type implements orchestrator.BatchWorker.
func (w *importMatchesWorker) Type() string {
	return IMPORT_MATCHES_TYPE
}

// StartWorker implements orchestrator.BatchWorker. The match log travels in
// the job payload; inserts run batch by batch so a cancel mid-import keeps
// everything already written.
func (w *importMatchesWorker) StartWorker(job *model.Job) (bool, error) {
	atomic.StoreInt32(&w.cancelled, 0)

	ctx, cancelFunc := context.WithCancel(context.Background())
	jobID := job.ID
	w.ctx.Store(&ctx)
	w.cancelFunc.Store(&cancelFunc)
	w.jobID.Store(&jobID)

	defer func() {
		if !w.isCancelled() {
			w.ctx.Store(nil)
			w.cancelFunc.Store(nil)
			w.jobID.Store(nil)
		}
	}()

	payload, err := decodeImportPayload(job.Payload)
	if err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("unable to decode import payload")
		return false, err
	}

	batchSize := job.BatchSize
	if batchSize <= 0 {
		batchSize = defaultImportBatchSize
	}

	killerBatches := orchestrator.SplitIntoBatches(payload.KillerMatches, batchSize)
	survivorBatches := orchestrator.SplitIntoBatches(payload.SurvivorMatches, batchSize)
	totalBatches := len(killerBatches) + len(survivorBatches)
	w.db.SetJobTotalBatches(w.SafeContext(), job.ID, totalBatches)

	metrics := model.JobMetrics{
		TotalItems:   len(payload.KillerMatches) + len(payload.SurvivorMatches),
		BatchesTotal: totalBatches,
	}

	for _, batch := range killerBatches {
		if w.isCancelled() {
			return true, nil
		}
		var results []model.JobResult
		for i := range batch {
			m := &batch[i]
			m.ImportedAt = time.Now()
			metrics.ProcessedItems++
			if err := w.db.InsertKillerMatch(w.SafeContext(), m); err != nil {
				log.Warn().Err(err).Str("killer", m.KillerAlias).Msg("killer match import failed")
				metrics.FailureCount++
				results = append(results, failureResult(m.KillerAlias, err))
				continue
			}
			metrics.SuccessCount++
		}
		metrics.BatchesComplete++
		if err := w.finishBatch(job.ID, metrics, results); err != nil {
			return false, err
		}
	}

	for _, batch := range survivorBatches {
		if w.isCancelled() {
			return true, nil
		}
		var results []model.JobResult
		for i := range batch {
			m := &batch[i]
			m.ImportedAt = time.Now()
			metrics.ProcessedItems++
			if err := w.db.InsertSurvivorMatch(w.SafeContext(), m); err != nil {
				log.Warn().Err(err).Str("survivor", m.SurvivorName).Msg("survivor match import failed")
				metrics.FailureCount++
				results = append(results, failureResult(m.SurvivorName, err))
				continue
			}
			metrics.SuccessCount++
		}
		metrics.BatchesComplete++
		if err := w.finishBatch(job.ID, metrics, results); err != nil {
			return false, err
		}
	}

	log.Info().
		Str("jobID", job.ID.Hex()).
		Int("imported", metrics.SuccessCount).
		Int("failed", metrics.FailureCount).
		Msg("match import complete")

	return false, nil
}

// finishBatch persists the running metrics and any per-item failures after
// one batch of inserts.
func (w *importMatchesWorker) finishBatch(jobID primitive.ObjectID, metrics model.JobMetrics, results []model.JobResult) error {
	if err := w.db.AddJobResults(w.SafeContext(), jobID, results); err != nil {
		return err
	}
	return w.db.UpdateJobMetrics(w.SafeContext(), jobID, metrics)
}

func failureResult(identifier string, err error) model.JobResult {
	return model.JobResult{
		Type:       model.ResultFailure,
		Message:    err.Error(),
		Identifier: identifier,
		Timestamp:  time.Now(),
	}
}

// decodeImportPayload round-trips the untyped job payload through BSON to
// recover the typed import body.
func decodeImportPayload(payload interface{}) (*model.MatchImportPayload, error) {
	if payload == nil {
		return nil, fmt.Errorf("import job has no payload")
	}

	raw, err := bson.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding payload: %w", err)
	}

	var decoded model.MatchImportPayload
	if err := bson.Unmarshal(raw, &decoded); err != nil {
		return nil, fmt.Errorf("decoding payload: %w", err)
	}

	if len(decoded.KillerMatches) == 0 && len(decoded.SurvivorMatches) == 0 {
		return nil, fmt.Errorf("import payload contains no matches")
	}

	return &decoded, nil
}

// isCancelled returns true if the worker has been cancelled
func (w *importMatchesWorker) isCancelled() bool {
	return atomic.LoadInt32(&w.cancelled) == 1 || w.ctx.Load() == nil
}

// SafeContext returns the run context, or an already-cancelled context when
// the worker is inactive. The pointed-at context never changes after Store,
// so dereferencing a loaded pointer is safe.
func (w *importMatchesWorker) SafeContext() context.Context {
	ctxPtr := w.ctx.Load()
	if atomic.LoadInt32(&w.cancelled) == 1 || ctxPtr == nil {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		return ctx
	}
	return *ctxPtr
}

func NewImportMatchesWorker(db database.Database) orchestrator.BatchWorker {
	return &importMatchesWorker{
		db:        db,
		cancelled: 1,
	}
}
