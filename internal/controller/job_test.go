package controller

import (
	"context"
	"testing"

	"trialbook/internal/database"
	"trialbook/internal/model"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeJobDB struct {
	database.JobDatabase

	getJobCalls int
}

func (f *fakeJobDB) GetJobByID(_ context.Context, _ primitive.ObjectID) (*model.Job, error) {
	f.getJobCalls++
	return nil, database.ErrJobNotFound
}

func TestProcessDeliveryRejectsMalformedJobID(t *testing.T) {
	db := &fakeJobDB{}
	c := &jobController{db: db}

	delivery := amqp.Delivery{
		Headers: amqp.Table{
			"job_id":   "not-a-hex-id",
			"job_type": "statistics_worker",
		},
	}

	c.processDelivery(context.Background(), delivery)

	assert.Equal(t, 0, db.getJobCalls, "a malformed job_id must be rejected before any lookup")
}

func TestProcessDeliveryRejectsMissingHeaders(t *testing.T) {
	db := &fakeJobDB{}
	c := &jobController{db: db}

	c.processDelivery(context.Background(), amqp.Delivery{Headers: amqp.Table{}})
	c.processDelivery(context.Background(), amqp.Delivery{
		Headers: amqp.Table{"job_id": primitive.NewObjectID().Hex()},
	})

	assert.Equal(t, 0, db.getJobCalls)
}
