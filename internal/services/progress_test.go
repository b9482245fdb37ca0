package services

import (
	"context"
	"testing"
	"time"

	"run2rejuvenate-backend-go/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func TestProgressCreate_RequiresRegistration(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("entry for an event the user never joined is rejected", func(mt *mtest.T) {
		eventID := primitive.NewObjectID()
		event := models.Event{
			ID:           eventID,
			Name:         "Spring 10K",
			EventType:    models.EventTypeRunning,
			Participants: []string{"someone-else"},
			CreatedAt:    time.Now().UTC(),
		}
		svc := &ProgressService{
			progress: mt.Coll,
			events:   &EventService{events: mt.Coll},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "fitness.events", mtest.FirstBatch, toBsonD(mt.T, event)))

		dist := 4.0
		_, err := svc.Create(context.Background(), ProgressCreate{
			EventID:  eventID.Hex(),
			UserID:   "user-1",
			Distance: &dist,
		})
		assertStatus(t, err, 400)
	})
}

func TestProgressCreate_MissingEvent(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("absent event surfaces as not found", func(mt *mtest.T) {
		svc := &ProgressService{
			progress: mt.Coll,
			events:   &EventService{events: mt.Coll},
		}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.events", mtest.FirstBatch))

		_, err := svc.Create(context.Background(), ProgressCreate{
			EventID: primitive.NewObjectID().Hex(),
			UserID:  "user-1",
		})
		assertStatus(t, err, 404)
	})
}

func TestProgressCreate_DefaultsDate(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("missing date falls back to today", func(mt *mtest.T) {
		eventID := primitive.NewObjectID()
		event := models.Event{
			ID:           eventID,
			Name:         "Spring 10K",
			EventType:    models.EventTypeRunning,
			Participants: []string{"user-1"},
			CreatedAt:    time.Now().UTC(),
		}
		today := time.Now().UTC().Format("2006-01-02")
		dist := 4.0
		stored := models.Progress{
			ID:        primitive.NewObjectID(),
			EventID:   eventID.Hex(),
			UserID:    "user-1",
			Distance:  &dist,
			Date:      today,
			CreatedAt: time.Now().UTC(),
		}
		svc := &ProgressService{
			progress: mt.Coll,
			events:   &EventService{events: mt.Coll},
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "fitness.events", mtest.FirstBatch, toBsonD(mt.T, event)),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(1, "fitness.progress", mtest.FirstBatch, toBsonD(mt.T, stored)),
		)

		entry, err := svc.Create(context.Background(), ProgressCreate{
			EventID:  eventID.Hex(),
			UserID:   "user-1",
			Distance: &dist,
		})
		require.NoError(t, err)
		assert.Equal(t, today, entry.Date)
		require.NotNil(t, entry.Distance)
		assert.Equal(t, 4.0, *entry.Distance)
	})
}

func TestProgressUpdate_NoFields(t *testing.T) {
	svc := &ProgressService{}
	_, err := svc.Update(context.Background(), primitive.NewObjectID().Hex(), ProgressUpdate{})
	assertStatus(t, err, 400)
}

func TestProgressUpdate_PartialPatch(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("untouched fields survive a partial patch", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		dist := 6.5
		notes := "felt strong"
		now := time.Now().UTC()
		updated := models.Progress{
			ID:        id,
			EventID:   primitive.NewObjectID().Hex(),
			UserID:    "user-1",
			Distance:  &dist,
			Notes:     &notes,
			Date:      "2026-08-30",
			CreatedAt: now.Add(-time.Hour),
			UpdatedAt: &now,
		}
		svc := &ProgressService{progress: mt.Coll}
		mt.AddMockResponses(mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toBsonD(mt.T, updated)}))

		result, err := svc.Update(context.Background(), id.Hex(), ProgressUpdate{Distance: &dist})
		require.NoError(t, err)
		require.NotNil(t, result.Notes)
		assert.Equal(t, "felt strong", *result.Notes)
		assert.NotNil(t, result.UpdatedAt)
	})
}

func TestProgressListForUser_InvalidEventFilter(t *testing.T) {
	svc := &ProgressService{}
	_, err := svc.ListForUser(context.Background(), "user-1", "not-an-id")
	assertStatus(t, err, 400)
}

func TestProgressListForUser_EventFilter(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("event filter narrows the result", func(mt *mtest.T) {
		eventID := primitive.NewObjectID().Hex()
		entry := models.Progress{
			ID:        primitive.NewObjectID(),
			EventID:   eventID,
			UserID:    "user-1",
			Date:      "2026-08-30",
			CreatedAt: time.Now().UTC(),
		}
		svc := &ProgressService{progress: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(1, "fitness.progress", mtest.FirstBatch, toBsonD(mt.T, entry)),
			mtest.CreateCursorResponse(0, "fitness.progress", mtest.NextBatch),
		)

		entries, err := svc.ListForUser(context.Background(), "user-1", eventID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, eventID, entries[0].EventID)
	})
}

func TestProgressGet_InvalidID(t *testing.T) {
	svc := &ProgressService{}
	_, err := svc.Get(context.Background(), "zzz")
	assertStatus(t, err, 400)
}
