package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// bibAttempts bounds the rejection sampling over the 4-digit bib space.
const bibAttempts = 25

type UserCreate struct {
	FirebaseUID   string
	Email         string
	FirstName     string
	LastName      string
	FullName      string
	IsAdmin       bool
	ContactNumber string
	AgeCategory   string
	City          string
	State         string
	Country       string
}

type UserUpdate struct {
	FirstName     *string
	LastName      *string
	FullName      *string
	IsAdmin       *bool
	ContactNumber *string
	AgeCategory   *string
	City          *string
	State         *string
	Country       *string
}

// UserService is the user directory: it maps external identities to profile
// records and owns bib number allocation.
type UserService struct {
	users *mongo.Collection
}

func NewUserService(m *db.Mongo) *UserService {
	return &UserService{users: m.Collections.Users}
}

// Create inserts a new profile. When a profile already exists for the same
// external identity the existing record is returned unchanged, so repeated
// registration calls are idempotent.
func (s *UserService) Create(ctx context.Context, input UserCreate) (models.User, error) {
	var existing models.User
	err := s.users.FindOne(ctx, bson.M{"firebase_uid": input.FirebaseUID}).Decode(&existing)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return models.User{}, WrapError(err, "user lookup failed")
	}

	count, err := s.users.CountDocuments(ctx, bson.M{"email": input.Email})
	if err != nil {
		return models.User{}, WrapError(err, "email lookup failed")
	}
	if count > 0 {
		return models.User{}, ErrConflict("Email already registered to another account")
	}

	bib, err := s.allocateBibNumber(ctx)
	if err != nil {
		return models.User{}, err
	}

	fullName := strings.TrimSpace(input.FullName)
	if fullName == "" {
		fullName = strings.TrimSpace(input.FirstName + " " + input.LastName)
	}
	user := models.User{
		FirebaseUID:      input.FirebaseUID,
		Email:            input.Email,
		FirstName:        input.FirstName,
		LastName:         input.LastName,
		FullName:         fullName,
		IsAdmin:          input.IsAdmin,
		ContactNumber:    input.ContactNumber,
		AgeCategory:      input.AgeCategory,
		City:             input.City,
		State:            input.State,
		Country:          input.Country,
		BibNumber:        bib,
		RegisteredEvents: []string{},
		CreatedAt:        time.Now().UTC(),
	}
	result, err := s.users.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return models.User{}, ErrConflict("Email already registered to another account")
		}
		return models.User{}, WrapError(err, "user insert failed")
	}
	if err := s.users.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&user); err != nil {
		return models.User{}, WrapError(err, "user readback failed")
	}
	return user, nil
}

// EnsureUser resolves an authenticated identity to a local profile, creating
// a minimal one on first contact.
func (s *UserService) EnsureUser(ctx context.Context, ident Identity) (models.User, error) {
	user, err := s.GetBySubject(ctx, ident.SubjectID)
	if err == nil {
		return user, nil
	}
	var serr ServiceError
	if !errors.As(err, &serr) || serr.Status != 404 {
		return models.User{}, err
	}

	first, last := splitDisplayName(ident.Name)
	return s.Create(ctx, UserCreate{
		FirebaseUID: ident.SubjectID,
		Email:       ident.Email,
		FirstName:   first,
		LastName:    last,
		FullName:    ident.Name,
		IsAdmin:     ident.IsAdmin,
	})
}

func (s *UserService) Get(ctx context.Context, id string) (models.User, error) {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return models.User{}, err
	}
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": oid}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound("User not found")
		}
		return models.User{}, WrapError(err, "user lookup failed")
	}
	return user, nil
}

func (s *UserService) GetBySubject(ctx context.Context, firebaseUID string) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"firebase_uid": firebaseUID}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound("User not found")
		}
		return models.User{}, WrapError(err, "user lookup failed")
	}
	return user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (models.User, error) {
	var user models.User
	if err := s.users.FindOne(ctx, bson.M{"email": email}).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound("User not found")
		}
		return models.User{}, WrapError(err, "user lookup failed")
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, skip, limit int64) ([]models.User, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit)
	cursor, err := s.users.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, WrapError(err, "user list failed")
	}
	users := []models.User{}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, WrapError(err, "user list decode failed")
	}
	return users, nil
}

// Update applies only the provided fields. full_name is recomputed when a
// name component changes and no explicit full name is supplied.
func (s *UserService) Update(ctx context.Context, id string, patch UserUpdate) (models.User, error) {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return models.User{}, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return models.User{}, err
	}

	set := bson.M{}
	if patch.FirstName != nil {
		set["first_name"] = *patch.FirstName
	}
	if patch.LastName != nil {
		set["last_name"] = *patch.LastName
	}
	if patch.FullName != nil {
		set["full_name"] = *patch.FullName
	}
	if patch.IsAdmin != nil {
		set["is_admin"] = *patch.IsAdmin
	}
	if patch.ContactNumber != nil {
		set["contact_number"] = *patch.ContactNumber
	}
	if patch.AgeCategory != nil {
		set["age_category"] = *patch.AgeCategory
	}
	if patch.City != nil {
		set["city"] = *patch.City
	}
	if patch.State != nil {
		set["state"] = *patch.State
	}
	if patch.Country != nil {
		set["country"] = *patch.Country
	}
	if len(set) == 0 {
		return models.User{}, ErrBadRequest("No valid update data provided")
	}
	if patch.FullName == nil && (patch.FirstName != nil || patch.LastName != nil) {
		first := current.FirstName
		last := current.LastName
		if patch.FirstName != nil {
			first = *patch.FirstName
		}
		if patch.LastName != nil {
			last = *patch.LastName
		}
		set["full_name"] = strings.TrimSpace(first + " " + last)
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.User
	err = s.users.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.User{}, ErrNotFound("User not found")
		}
		return models.User{}, WrapError(err, "user update failed")
	}
	return updated, nil
}

// Delete removes the profile unconditionally. Events and progress entries
// referencing the user are left in place.
func (s *UserService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "user")
	if err != nil {
		return err
	}
	result, err := s.users.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return WrapError(err, "user delete failed")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("User not found")
	}
	return nil
}

// AddEvent mirrors an event id into the user's registered-events set.
// $addToSet makes re-driving a half-applied registration safe.
func (s *UserService) AddEvent(ctx context.Context, userID, eventID string) error {
	oid, err := parseObjectID(userID, "user")
	if err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$addToSet": bson.M{"registered_events": eventID}})
	return WrapError(err, "registered events update failed")
}

// RemoveEvent removes an event id from the user's registered-events set.
func (s *UserService) RemoveEvent(ctx context.Context, userID, eventID string) error {
	oid, err := parseObjectID(userID, "user")
	if err != nil {
		return err
	}
	_, err = s.users.UpdateOne(ctx, bson.M{"_id": oid},
		bson.M{"$pull": bson.M{"registered_events": eventID}})
	return WrapError(err, "registered events update failed")
}

// allocateBibNumber draws 4-digit numbers until one is unused. The space is
// sparse in practice; the attempt cap turns exhaustion into a 500 instead of
// an unbounded loop.
func (s *UserService) allocateBibNumber(ctx context.Context) (string, error) {
	for attempt := 0; attempt < bibAttempts; attempt++ {
		candidate := fmt.Sprintf("%04d", 1000+rand.Intn(9000))
		count, err := s.users.CountDocuments(ctx, bson.M{"bib_number": candidate})
		if err != nil {
			return "", WrapError(err, "bib number lookup failed")
		}
		if count == 0 {
			return candidate, nil
		}
	}
	return "", ErrInternal("Bib number space exhausted")
}

func splitDisplayName(name string) (string, string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return parts[0], ""
}
