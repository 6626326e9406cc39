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

// ErrReportNotFound is returned when no report matches the lookup.
var ErrReportNotFound = errors.New("statistics report not found")

// ReportDatabase defines statistics report persistence
type ReportDatabase interface {
	CreateReport(ctx context.Context, report *model.StatisticsReport) error
	GetReportByID(ctx context.Context, id primitive.ObjectID) (*model.StatisticsReport, error)
	GetReportByJobID(ctx context.Context, jobID primitive.ObjectID) (*model.StatisticsReport, error)
	GetLatestReport(ctx context.Context) (*model.StatisticsReport, error)
	ListReports(ctx context.Context, limit, offset int64) ([]model.StatisticsReport, error)
}

func (m *mongoDB) CreateReport(ctx context.Context, report *model.StatisticsReport) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	report.CreatedAt = time.Now()

	_, err := m.reportsCol.InsertOne(ctx, report)
	if err != nil {
		log.Error().Err(err).Str("jobID", report.JobID.Hex()).Msg("Failed to create statistics report")
		return err
	}

	log.Debug().
		Str("reportID", report.ID.Hex()).
		Str("jobID", report.JobID.Hex()).
		Str("status", string(report.Status)).
		Msg("Created statistics report")
	return nil
}

func (m *mongoDB) GetReportByID(ctx context.Context, id primitive.ObjectID) (*model.StatisticsReport, error) {
	var report model.StatisticsReport
	err := m.reportsCol.FindOne(ctx, bson.M{"_id": id}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		log.Error().Err(err).Str("reportID", id.Hex()).Msg("Failed to get statistics report")
		return nil, err
	}
	return &report, nil
}

func (m *mongoDB) GetReportByJobID(ctx context.Context, jobID primitive.ObjectID) (*model.StatisticsReport, error) {
	var report model.StatisticsReport
	err := m.reportsCol.FindOne(ctx, bson.M{"job_id": jobID}).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		log.Error().Err(err).Str("jobID", jobID.Hex()).Msg("Failed to get statistics report by job")
		return nil, err
	}
	return &report, nil
}

func (m *mongoDB) GetLatestReport(ctx context.Context) (*model.StatisticsReport, error) {
	findOptions := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var report model.StatisticsReport
	err := m.reportsCol.FindOne(ctx, bson.M{"status": model.ReportCompleted}, findOptions).Decode(&report)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrReportNotFound
		}
		log.Error().Err(err).Msg("Failed to get latest statistics report")
		return nil, err
	}
	return &report, nil
}

func (m *mongoDB) ListReports(ctx context.Context, limit, offset int64) ([]model.StatisticsReport, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		findOptions.SetLimit(limit)
	}
	if offset > 0 {
		findOptions.SetSkip(offset)
	}

	cursor, err := m.reportsCol.Find(ctx, bson.M{}, findOptions)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list statistics reports")
		return nil, err
	}
	defer cursor.Close(ctx)

	var reports []model.StatisticsReport
	if err := cursor.All(ctx, &reports); err != nil {
		log.Error().Err(err).Msg("Failed to decode statistics reports")
		return nil, err
	}
	return reports, nil
}
