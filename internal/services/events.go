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

type EventCreate struct {
	Name           string
	Description    string
	EventType      string
	StartDate      time.Time
	EndDate        time.Time
	TargetDistance *float64
	TargetTime     *int
	CreatedBy      string
}

type EventUpdate struct {
	Name           *string
	Description    *string
	EventType      *string
	StartDate      *time.Time
	EndDate        *time.Time
	TargetDistance *float64
	TargetTime     *int
}

// EventService owns the event records and the participant-set relation,
// including the mirror into each user's registered-events set.
type EventService struct {
	events *mongo.Collection
	users  *UserService
}

func NewEventService(m *db.Mongo, users *UserService) *EventService {
	return &EventService{events: m.Collections.Events, users: users}
}

func (s *EventService) Create(ctx context.Context, input EventCreate) (models.Event, error) {
	if !models.ValidEventType(input.EventType) {
		return models.Event{}, ErrBadRequest("Invalid event type")
	}
	event := models.Event{
		Name:           input.Name,
		Description:    input.Description,
		EventType:      input.EventType,
		StartDate:      input.StartDate,
		EndDate:        input.EndDate,
		TargetDistance: input.TargetDistance,
		TargetTime:     input.TargetTime,
		CreatedBy:      input.CreatedBy,
		Participants:   []string{},
		CreatedAt:      time.Now().UTC(),
	}
	result, err := s.events.InsertOne(ctx, event)
	if err != nil {
		return models.Event{}, WrapError(err, "event insert failed")
	}
	if err := s.events.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&event); err != nil {
		return models.Event{}, WrapError(err, "event readback failed")
	}
	return event, nil
}

func (s *EventService) Get(ctx context.Context, id string) (models.Event, error) {
	oid, err := parseObjectID(id, "event")
	if err != nil {
		return models.Event{}, err
	}
	var event models.Event
	if err := s.events.FindOne(ctx, bson.M{"_id": oid}).Decode(&event); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound("Event not found")
		}
		return models.Event{}, WrapError(err, "event lookup failed")
	}
	return event, nil
}

func (s *EventService) List(ctx context.Context, skip, limit int64) ([]models.Event, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := s.events.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, WrapError(err, "event list failed")
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, WrapError(err, "event list decode failed")
	}
	return events, nil
}

func (s *EventService) Update(ctx context.Context, id string, patch EventUpdate) (models.Event, error) {
	oid, err := parseObjectID(id, "event")
	if err != nil {
		return models.Event{}, err
	}
	set := bson.M{}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.EventType != nil {
		if !models.ValidEventType(*patch.EventType) {
			return models.Event{}, ErrBadRequest("Invalid event type")
		}
		set["event_type"] = *patch.EventType
	}
	if patch.StartDate != nil {
		set["start_date"] = *patch.StartDate
	}
	if patch.EndDate != nil {
		set["end_date"] = *patch.EndDate
	}
	if patch.TargetDistance != nil {
		set["target_distance"] = *patch.TargetDistance
	}
	if patch.TargetTime != nil {
		set["target_time"] = *patch.TargetTime
	}
	if len(set) == 0 {
		return models.Event{}, ErrBadRequest("No valid update data provided")
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Event
	err = s.events.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound("Event not found")
		}
		return models.Event{}, WrapError(err, "event update failed")
	}
	return updated, nil
}

// Delete is hard and unconditional. Progress entries for the event are left
// in place.
func (s *EventService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "event")
	if err != nil {
		return err
	}
	result, err := s.events.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return WrapError(err, "event delete failed")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Event not found")
	}
	return nil
}

// Register adds the user to the event's participant set and mirrors the
// event id into the user's registered-events set. The event side is written
// first; both writes use set operators, so re-driving after a partial
// failure converges instead of duplicating.
func (s *EventService) Register(ctx context.Context, eventID, userID string) (models.Event, error) {
	oid, err := parseObjectID(eventID, "event")
	if err != nil {
		return models.Event{}, err
	}
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if event.HasParticipant(userID) {
		return models.Event{}, ErrConflict("User already registered for this event")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Event
	err = s.events.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"participants": userID}}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound("Event not found")
		}
		return models.Event{}, WrapError(err, "participant add failed")
	}

	if err := s.users.AddEvent(ctx, userID, eventID); err != nil {
		// one retry; a further failure leaves the event side applied and a
		// re-driven Register call completes the mirror
		if err := s.users.AddEvent(ctx, userID, eventID); err != nil {
			return models.Event{}, WrapError(err, "registered events mirror failed")
		}
	}
	return updated, nil
}

// Unregister removes the user from both sides symmetrically.
func (s *EventService) Unregister(ctx context.Context, eventID, userID string) (models.Event, error) {
	oid, err := parseObjectID(eventID, "event")
	if err != nil {
		return models.Event{}, err
	}
	event, err := s.Get(ctx, eventID)
	if err != nil {
		return models.Event{}, err
	}
	if !event.HasParticipant(userID) {
		return models.Event{}, ErrBadRequest("User is not registered for this event")
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Event
	err = s.events.FindOneAndUpdate(ctx, bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"participants": userID}}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Event{}, ErrNotFound("Event not found")
		}
		return models.Event{}, WrapError(err, "participant remove failed")
	}

	if err := s.users.RemoveEvent(ctx, userID, eventID); err != nil {
		if err := s.users.RemoveEvent(ctx, userID, eventID); err != nil {
			return models.Event{}, WrapError(err, "registered events mirror failed")
		}
	}
	return updated, nil
}

// ListForUser returns every event whose participant set contains userID.
func (s *EventService) ListForUser(ctx context.Context, userID string) ([]models.Event, error) {
	cursor, err := s.events.Find(ctx, bson.M{"participants": userID})
	if err != nil {
		return nil, WrapError(err, "event list failed")
	}
	events := []models.Event{}
	if err := cursor.All(ctx, &events); err != nil {
		return nil, WrapError(err, "event list decode failed")
	}
	return events, nil
}
