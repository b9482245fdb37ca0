package services

import (
	"context"
	"sort"

	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// LeaderboardService derives per-event rankings from the progress ledger.
// Every call recomputes from the current ledger state; nothing is cached.
type LeaderboardService struct {
	progress *mongo.Collection
	events   *EventService
}

func NewLeaderboardService(m *db.Mongo, events *EventService) *LeaderboardService {
	return &LeaderboardService{progress: m.Collections.Progress, events: events}
}

// ForEvent groups the event's progress entries by user, summing distance and
// time with absent values counted as zero, then ranks by the metric the
// event targets. Ties break toward the earlier last update.
func (s *LeaderboardService) ForEvent(ctx context.Context, eventID string) ([]models.LeaderboardEntry, error) {
	event, err := s.events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "event_id", Value: eventID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$user_id"},
			{Key: "total_distance", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$distance", 0}}}}}},
			{Key: "total_time", Value: bson.D{{Key: "$sum", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$time", 0}}}}}},
			{Key: "last_update", Value: bson.D{{Key: "$max", Value: "$created_at"}}},
		}}},
	}
	cursor, err := s.progress.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, WrapError(err, "leaderboard aggregation failed")
	}
	entries := []models.LeaderboardEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, WrapError(err, "leaderboard decode failed")
	}

	rankEntries(entries, event.TargetDistance != nil)
	return entries, nil
}

// rankEntries orders grouped totals and assigns dense ranks 1..N. Distance
// events rank by total distance, everything else by total time, both
// descending; a tie goes to the user whose last update is older.
func rankEntries(entries []models.LeaderboardEntry, byDistance bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if byDistance {
			if entries[i].TotalDistance != entries[j].TotalDistance {
				return entries[i].TotalDistance > entries[j].TotalDistance
			}
		} else {
			if entries[i].TotalTime != entries[j].TotalTime {
				return entries[i].TotalTime > entries[j].TotalTime
			}
		}
		if !entries[i].LastUpdate.Equal(entries[j].LastUpdate) {
			return entries[i].LastUpdate.Before(entries[j].LastUpdate)
		}
		// $group emits in no fixed order; pin fully tied rows by user id
		return entries[i].UserID < entries[j].UserID
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}
}
