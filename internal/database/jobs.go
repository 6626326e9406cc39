package database

import (
	"context"
	"errors"
	"time"

	"trialbook/internal/model"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrJobNotFound is returned when no job matches the lookup.
var ErrJobNotFound = errors.New("job not found")

// JobDatabase defines job-related database operations
type JobDatabase interface {
	// Create a new job
	CreateJob(ctx context.Context, job *model.Job) error

	// Get a job by ID
	GetJobByID(ctx context.Context, id primitive.ObjectID) (*model.Job, error)

	// Update job status, optionally recording an error message
	UpdateJobStatus(ctx context.Context, id primitive.ObjectID, status model.JobStatus) error
	FailJob(ctx context.Context, id primitive.ObjectID, errorMsg string) error

	// Link a completed statistics job to its report
	SetJobReportID(ctx context.Context, id, reportID primitive.ObjectID) error

	// Update job progress and metrics
	UpdateJobProgress(ctx context.Context, id primitive.ObjectID, progress int, metrics model.JobMetrics) error
	UpdateJobMetrics(ctx context.Context, id primitive.ObjectID, metrics model.JobMetrics) error
	SetJobTotalBatches(ctx context.Context, id primitive.ObjectID, total int) error

	// Add results to a job
	AddJobResults(ctx context.Context, id primitive.ObjectID, results []model.JobResult) error

	// Listings
	ListJobs(ctx context.Context) ([]model.Job, error)
	ListJobsByStatus(ctx context.Context, status model.JobStatus, limit, offset int64) ([]model.Job, error)
	CountJobsByStatus(ctx context.Context, status model.JobStatus) (int64, error)
}

// CreateJob creates a new job in the database
func (m *mongoDB) CreateJob(ctx context.Context, job *model.Job) error {
	// Ensure the job has a valid ID
	if job.ID.IsZero() {
		job.ID = primitive.NewObjectID()
	}

	// Set creation and update times
	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	// Initialize empty slices if not already done
	if job.Results == nil {
		job.Results = []model.JobResult{}
	}
	if job.ErrorList == nil {
		job.ErrorList = []string{}
	}

	// Insert the job
	_, err := m.jobsCol.InsertOne(ctx, job)
	if err != nil {
		log.Error().Err(err).Str("jobID", job.ID.Hex()).Msg("Failed to create job")
		return err
	}

	log.Debug().Str("jobID", job.ID.Hex()).Str("type", job.Type).Msg("Created new job")
	return nil
}

// GetJobByID retrieves a job by its ID
func (m *mongoDB) GetJobByID(ctx context.Context, id primitive.ObjectID) (*model.Job, error) {
	var job model.Job
	err := m.jobsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&job)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrJobNotFound
		}
		log.Error().Err(err).Str("jobID", id.Hex()).Msg("Failed to get job")
		return nil, err
	}

	return &job, nil
}

// UpdateJobStatus updates a job's status
func (m *mongoDB) UpdateJobStatus(ctx context.Context, id primitive.ObjectID, status model.JobStatus) error {
	update := bson.M{
		"$set": bson.M{
			"status":     status,
			"updated_at": time.Now(),
		},
	}

	// If the job is finished, set the completed_at timestamp
	if status == model.StatusCompleted || status == model.StatusFailed || status == model.StatusCancelled {
		update["$set"].(bson.M)["completed_at"] = time.Now()
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Str("status", string(status)).Msg("Failed to update job status")
		return err
	}

	log.Debug().Str("jobID", id.Hex()).Str("status", string(status)).Msg("Updated job status")
	return nil
}

// FailJob marks a job failed and records the error message
func (m *mongoDB) FailJob(ctx context.Context, id primitive.ObjectID, errorMsg string) error {
	update := bson.M{
		"$set": bson.M{
			"status":       model.StatusFailed,
			"updated_at":   time.Now(),
			"completed_at": time.Now(),
		},
		"$push": bson.M{
			"error_list": errorMsg,
		},
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Msg("Failed to mark job failed")
		return err
	}

	log.Debug().Str("jobID", id.Hex()).Str("error", errorMsg).Msg("Marked job failed")
	return nil
}

// SetJobReportID links a job to the statistics report it produced
func (m *mongoDB) SetJobReportID(ctx context.Context, id, reportID primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"report_id":  reportID,
			"updated_at": time.Now(),
		},
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Str("reportID", reportID.Hex()).Msg("Failed to set job report")
		return err
	}
	return nil
}

// UpdateJobProgress updates a job's progress and metrics
func (m *mongoDB) UpdateJobProgress(ctx context.Context, id primitive.ObjectID, progress int, metrics model.JobMetrics) error {
	update := bson.M{
		"$set": bson.M{
			"progress":   progress,
			"metrics":    metrics,
			"updated_at": time.Now(),
		},
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Int("progress", progress).Msg("Failed to update job progress")
		return err
	}

	log.Debug().Str("jobID", id.Hex()).Int("progress", progress).Msg("Updated job progress")
	return nil
}

// UpdateJobMetrics replaces a job's metrics and derives progress from the
// processed item counts.
func (m *mongoDB) UpdateJobMetrics(ctx context.Context, id primitive.ObjectID, metrics model.JobMetrics) error {
	progress := 0
	if metrics.TotalItems > 0 {
		progress = metrics.ProcessedItems * 100 / metrics.TotalItems
	}
	return m.UpdateJobProgress(ctx, id, progress, metrics)
}

// SetJobTotalBatches records how many batches a job will process
func (m *mongoDB) SetJobTotalBatches(ctx context.Context, id primitive.ObjectID, total int) error {
	update := bson.M{
		"$set": bson.M{
			"metrics.batches_total": total,
			"updated_at":            time.Now(),
		},
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Int("total", total).Msg("Failed to set job total batches")
	}
	return err
}

// AddJobResults appends per-item results to a job
func (m *mongoDB) AddJobResults(ctx context.Context, id primitive.ObjectID, results []model.JobResult) error {
	if len(results) == 0 {
		return nil
	}

	update := bson.M{
		"$push": bson.M{
			"results": bson.M{"$each": results},
		},
		"$set": bson.M{"updated_at": time.Now()},
	}

	_, err := m.jobsCol.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		log.Error().Err(err).Str("jobID", id.Hex()).Int("count", len(results)).Msg("Failed to add job results")
		return err
	}
	return nil
}

// ListJobs returns every job, newest first
func (m *mongoDB) ListJobs(ctx context.Context) ([]model.Job, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})

	cursor, err := m.jobsCol.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list jobs")
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []model.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		log.Error().Err(err).Msg("Failed to decode jobs")
		return nil, err
	}
	return jobs, nil
}

// ListJobsByStatus returns jobs in one status, newest first
func (m *mongoDB) ListJobsByStatus(ctx context.Context, status model.JobStatus, limit, offset int64) ([]model.Job, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	if offset > 0 {
		findOptions.SetSkip(offset)
	}

	cursor, err := m.jobsCol.Find(ctx, bson.M{"status": status}, findOptions)
	if err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("Failed to list jobs by status")
		return nil, err
	}
	defer cursor.Close(ctx)

	var jobs []model.Job
	if err := cursor.All(ctx, &jobs); err != nil {
		log.Error().Err(err).Msg("Failed to decode jobs")
		return nil, err
	}
	return jobs, nil
}

// CountJobsByStatus counts jobs in one status
func (m *mongoDB) CountJobsByStatus(ctx context.Context, status model.JobStatus) (int64, error) {
	count, err := m.jobsCol.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("Failed to count jobs")
		return 0, err
	}
	return count, nil
}
