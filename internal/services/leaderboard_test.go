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

func TestRankEntries_DistanceEvent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.LeaderboardEntry{
		{UserID: "user_c", TotalDistance: 5, TotalTime: 60, LastUpdate: base.Add(2 * time.Hour)},
		{UserID: "user_a", TotalDistance: 10, TotalTime: 30, LastUpdate: base.Add(3 * time.Hour)},
		{UserID: "user_b", TotalDistance: 5, TotalTime: 90, LastUpdate: base.Add(1 * time.Hour)},
	}

	rankEntries(entries, true)

	require.Len(t, entries, 3)
	assert.Equal(t, "user_a", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	// 5 km tie: the earlier last update ranks higher
	assert.Equal(t, "user_b", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "user_c", entries[2].UserID)
	assert.Equal(t, 3, entries[2].Rank)
}

func TestRankEntries_TimeEvent(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	entries := []models.LeaderboardEntry{
		{UserID: "user_a", TotalDistance: 20, TotalTime: 45, LastUpdate: base},
		{UserID: "user_b", TotalDistance: 1, TotalTime: 120, LastUpdate: base},
	}

	rankEntries(entries, false)

	assert.Equal(t, "user_b", entries[0].UserID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "user_a", entries[1].UserID)
	assert.Equal(t, 2, entries[1].Rank)
}

func TestRankEntries_Deterministic(t *testing.T) {
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	build := func() []models.LeaderboardEntry {
		return []models.LeaderboardEntry{
			{UserID: "user_b", TotalDistance: 5, LastUpdate: base},
			{UserID: "user_a", TotalDistance: 5, LastUpdate: base},
			{UserID: "user_c", TotalDistance: 5, LastUpdate: base},
		}
	}

	first := build()
	second := build()
	rankEntries(first, true)
	rankEntries(second, true)

	assert.Equal(t, first, second)
	// fully tied rows fall back to user id order
	assert.Equal(t, "user_a", first[0].UserID)
	assert.Equal(t, "user_b", first[1].UserID)
	assert.Equal(t, "user_c", first[2].UserID)
}

func TestForEvent_DistanceRanking(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ranks grouped totals by distance", func(mt *mtest.T) {
		target := 42.0
		eventID := primitive.NewObjectID()
		event := models.Event{
			ID:             eventID,
			Name:           "Spring Virtual Run",
			EventType:      models.EventTypeRunning,
			TargetDistance: &target,
			Participants:   []string{"user_a", "user_b", "user_c"},
			CreatedAt:      time.Now().UTC(),
		}
		base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

		events := &EventService{events: mt.Coll}
		svc := &LeaderboardService{progress: mt.Coll, events: events}

		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "fitness.events", mtest.FirstBatch, toBsonD(mt.T, event)),
			mtest.CreateCursorResponse(0, "fitness.progress", mtest.FirstBatch,
				bson.D{
					{Key: "_id", Value: "user_b"},
					{Key: "total_distance", Value: 5.0},
					{Key: "total_time", Value: 50},
					{Key: "last_update", Value: base.Add(time.Hour)},
				},
				bson.D{
					{Key: "_id", Value: "user_a"},
					{Key: "total_distance", Value: 10.0},
					{Key: "total_time", Value: 90},
					{Key: "last_update", Value: base},
				},
				bson.D{
					{Key: "_id", Value: "user_c"},
					{Key: "total_distance", Value: 5.0},
					{Key: "total_time", Value: 40},
					{Key: "last_update", Value: base.Add(2 * time.Hour)},
				},
			),
		)

		board, err := svc.ForEvent(context.Background(), eventID.Hex())
		require.NoError(t, err)
		require.Len(t, board, 3)
		assert.Equal(t, []string{"user_a", "user_b", "user_c"},
			[]string{board[0].UserID, board[1].UserID, board[2].UserID})
		assert.Equal(t, []int{1, 2, 3}, []int{board[0].Rank, board[1].Rank, board[2].Rank})
		assert.Equal(t, 10.0, board[0].TotalDistance)
		assert.Equal(t, 90, board[0].TotalTime)
	})

	mt.Run("missing event yields not found", func(mt *mtest.T) {
		events := &EventService{events: mt.Coll}
		svc := &LeaderboardService{progress: mt.Coll, events: events}

		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.events", mtest.FirstBatch))

		_, err := svc.ForEvent(context.Background(), primitive.NewObjectID().Hex())
		require.Error(t, err)
		serr, ok := err.(ServiceError)
		require.True(t, ok)
		assert.Equal(t, 404, serr.Status)
	})
}
