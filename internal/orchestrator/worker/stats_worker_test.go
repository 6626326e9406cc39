package worker

import (
	"context"
	"fmt"
	"testing"

	"trialbook/internal/database"
	"trialbook/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// fakeStatsDB backs the statistics worker tests with a canned snapshot and
// captures every persisted report and job link.
type fakeStatsDB struct {
	database.Database

	killers         []model.Killer
	survivors       []model.Survivor
	killerMatches   []model.KillerMatch
	survivorMatches []model.SurvivorMatch

	killerMatchesErr error

	reports []model.StatisticsReport
	links   map[primitive.ObjectID]primitive.ObjectID
}

func (f *fakeStatsDB) ListKillers(_ context.Context) ([]model.Killer, error) {
	return f.killers, nil
}

func (f *fakeStatsDB) ListSurvivors(_ context.Context) ([]model.Survivor, error) {
	return f.survivors, nil
}

func (f *fakeStatsDB) ListKillerMatches(_ context.Context, _ database.MatchFilter) ([]model.KillerMatch, error) {
	if f.killerMatchesErr != nil {
		return nil, f.killerMatchesErr
	}
	return f.killerMatches, nil
}

func (f *fakeStatsDB) ListSurvivorMatches(_ context.Context, _ database.MatchFilter) ([]model.SurvivorMatch, error) {
	return f.survivorMatches, nil
}

func (f *fakeStatsDB) UpdateJobProgress(_ context.Context, _ primitive.ObjectID, _ int, _ model.JobMetrics) error {
	return nil
}

func (f *fakeStatsDB) CreateReport(_ context.Context, report *model.StatisticsReport) error {
	if report.ID.IsZero() {
		report.ID = primitive.NewObjectID()
	}
	f.reports = append(f.reports, *report)
	return nil
}

func (f *fakeStatsDB) SetJobReportID(_ context.Context, id, reportID primitive.ObjectID) error {
	if f.links == nil {
		f.links = map[primitive.ObjectID]primitive.ObjectID{}
	}
	f.links[id] = reportID
	return nil
}

func statsSnapshotDB() *fakeStatsDB {
	trapperID := primitive.NewObjectID()
	dwightID := primitive.NewObjectID()
	megID := primitive.NewObjectID()
	claudetteID := primitive.NewObjectID()
	jakeID := primitive.NewObjectID()

	return &fakeStatsDB{
		killers: []model.Killer{
			{ID: trapperID, KillerName: "Evan MacMillan", KillerAlias: "The Trapper"},
		},
		survivors: []model.Survivor{
			{ID: dwightID, SurvivorName: "Dwight Fairfield"},
			{ID: megID, SurvivorName: "Meg Thomas"},
			{ID: claudetteID, SurvivorName: "Claudette Morel"},
			{ID: jakeID, SurvivorName: "Jake Park"},
		},
		killerMatches: []model.KillerMatch{
			{
				KillerID:    trapperID,
				KillerAlias: "The Trapper",
				Points:      24000,
				Rank:        10,
				RealmName:   "The MacMillan Estate",
				MapName:     "Coal Tower",
				FacedSurvivors: []model.FacedSurvivor{
					{SurvivorID: dwightID, SurvivorName: "Dwight Fairfield", State: model.FacedSurvivorSacrificed},
					{SurvivorID: megID, SurvivorName: "Meg Thomas", State: model.FacedSurvivorEscaped},
					{SurvivorID: claudetteID, SurvivorName: "Claudette Morel", State: model.FacedSurvivorKilled},
					{SurvivorID: jakeID, SurvivorName: "Jake Park", State: model.FacedSurvivorEscaped},
				},
				Eliminations: model.EliminationInfo{Kills: 1, Sacrifices: 1},
			},
		},
	}
}

func statsJob() *model.Job {
	return &model.Job{
		ID:     primitive.NewObjectID(),
		Type:   STATISTICS_TYPE,
		Status: model.StatusProcessing,
	}
}

func TestStatisticsWorkerPersistsExactlyOneReport(t *testing.T) {
	db := statsSnapshotDB()
	w := NewStatisticsWorker(db)
	job := statsJob()

	cancelled, err := w.StartWorker(job)

	require.NoError(t, err)
	assert.False(t, cancelled)
	require.Len(t, db.reports, 1)

	report := db.reports[0]
	assert.Equal(t, model.ReportCompleted, report.Status)
	assert.Equal(t, job.ID, report.JobID)
	require.NotNil(t, report.General)
	assert.Equal(t, 1, report.General.TotalGames)
	assert.NotNil(t, report.Killer)
	assert.Nil(t, report.Survivor, "no survivor matches means no survivor section")

	assert.Equal(t, report.ID, db.links[job.ID])
	assert.False(t, w.IsActive())
}

func TestStatisticsWorkerSurvivorOnlySnapshot(t *testing.T) {
	db := statsSnapshotDB()
	db.survivorMatches = []model.SurvivorMatch{
		{
			SurvivorID:       db.survivors[0].ID,
			SurvivorName:     "Dwight Fairfield",
			Points:           18000,
			Rank:             12,
			RealmName:        "The MacMillan Estate",
			MapName:          "Coal Tower",
			FacedKillerID:    db.killers[0].ID,
			FacedKillerAlias: "The Trapper",
			Result:           model.ResultEscaped,
		},
	}
	db.killerMatches = nil
	w := NewStatisticsWorker(db)

	cancelled, err := w.StartWorker(statsJob())

	require.NoError(t, err)
	assert.False(t, cancelled)
	require.Len(t, db.reports, 1)
	assert.Nil(t, db.reports[0].Killer)
	assert.NotNil(t, db.reports[0].Survivor)
}

func TestStatisticsWorkerFailurePersistsFailedReport(t *testing.T) {
	db := statsSnapshotDB()
	db.killerMatchesErr = fmt.Errorf("connection reset")
	w := NewStatisticsWorker(db)
	job := statsJob()

	cancelled, err := w.StartWorker(job)

	require.Error(t, err)
	assert.False(t, cancelled)
	require.Len(t, db.reports, 1)

	report := db.reports[0]
	assert.Equal(t, model.ReportFailed, report.Status)
	assert.Equal(t, job.ID, report.JobID)
	assert.Contains(t, report.Error, "connection reset")
	assert.Nil(t, report.General)

	assert.Equal(t, report.ID, db.links[job.ID])
}

func TestStatisticsWorkerInactiveUntilStarted(t *testing.T) {
	w := NewStatisticsWorker(statsSnapshotDB())

	assert.False(t, w.IsActive())
	assert.Nil(t, w.ActiveJobID())
}
