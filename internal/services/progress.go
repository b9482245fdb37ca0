package services

import (
	"context"
	"errors"
	"time"

	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ProgressCreate struct {
	EventID  string
	UserID   string
	Distance *float64
	Time     *int
	Notes    *string
	Date     string
}

type ProgressUpdate struct {
	Distance *float64
	Time     *int
	Notes    *string
	Date     *string
}

// ProgressService records per-user, per-event progress entries. An entry is
// only accepted while the user is a participant of the referenced event.
type ProgressService struct {
	progress *mongo.Collection
	events   *EventService
}

func NewProgressService(m *db.Mongo, events *EventService) *ProgressService {
	return &ProgressService{progress: m.Collections.Progress, events: events}
}

func (s *ProgressService) Create(ctx context.Context, input ProgressCreate) (models.Progress, error) {
	event, err := s.events.Get(ctx, input.EventID)
	if err != nil {
		return models.Progress{}, err
	}
	if !event.HasParticipant(input.UserID) {
		return models.Progress{}, ErrBadRequest("User is not registered for this event")
	}

	date := input.Date
	if date == "" {
		date = time.Now().UTC().Format("2006-01-02")
	}
	entry := models.Progress{
		EventID:   input.EventID,
		UserID:    input.UserID,
		Distance:  input.Distance,
		Time:      input.Time,
		Notes:     input.Notes,
		Date:      date,
		CreatedAt: time.Now().UTC(),
	}
	result, err := s.progress.InsertOne(ctx, entry)
	if err != nil {
		return models.Progress{}, WrapError(err, "progress insert failed")
	}
	if err := s.progress.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&entry); err != nil {
		return models.Progress{}, WrapError(err, "progress readback failed")
	}
	return entry, nil
}

func (s *ProgressService) Get(ctx context.Context, id string) (models.Progress, error) {
	oid, err := parseObjectID(id, "progress")
	if err != nil {
		return models.Progress{}, err
	}
	var entry models.Progress
	if err := s.progress.FindOne(ctx, bson.M{"_id": oid}).Decode(&entry); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Progress{}, ErrNotFound("Progress entry not found")
		}
		return models.Progress{}, WrapError(err, "progress lookup failed")
	}
	return entry, nil
}

// Update applies only the provided fields and stamps updated_at. Ownership
// is checked at the handler boundary.
func (s *ProgressService) Update(ctx context.Context, id string, patch ProgressUpdate) (models.Progress, error) {
	oid, err := parseObjectID(id, "progress")
	if err != nil {
		return models.Progress{}, err
	}
	set := bson.M{}
	if patch.Distance != nil {
		set["distance"] = *patch.Distance
	}
	if patch.Time != nil {
		set["time"] = *patch.Time
	}
	if patch.Notes != nil {
		set["notes"] = *patch.Notes
	}
	if patch.Date != nil {
		set["date"] = *patch.Date
	}
	if len(set) == 0 {
		return models.Progress{}, ErrBadRequest("No valid update data provided")
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Progress
	err = s.progress.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Progress{}, ErrNotFound("Progress entry not found")
		}
		return models.Progress{}, WrapError(err, "progress update failed")
	}
	return updated, nil
}

func (s *ProgressService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "progress")
	if err != nil {
		return err
	}
	result, err := s.progress.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return WrapError(err, "progress delete failed")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Progress entry not found")
	}
	return nil
}

// ListForUser returns all entries for a user, optionally filtered to one event.
func (s *ProgressService) ListForUser(ctx context.Context, userID, eventID string) ([]models.Progress, error) {
	query := bson.M{"user_id": userID}
	if eventID != "" {
		if _, err := parseObjectID(eventID, "event"); err != nil {
			return nil, err
		}
		query["event_id"] = eventID
	}
	cursor, err := s.progress.Find(ctx, query)
	if err != nil {
		return nil, WrapError(err, "progress list failed")
	}
	entries := []models.Progress{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, WrapError(err, "progress list decode failed")
	}
	return entries, nil
}

func (s *ProgressService) ListForEvent(ctx context.Context, eventID string) ([]models.Progress, error) {
	if _, err := parseObjectID(eventID, "event"); err != nil {
		return nil, err
	}
	cursor, err := s.progress.Find(ctx, bson.M{"event_id": eventID})
	if err != nil {
		return nil, WrapError(err, "progress list failed")
	}
	entries := []models.Progress{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, WrapError(err, "progress list decode failed")
	}
	return entries, nil
}
