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

func countResponse(n int) bson.D {
	return bson.D{{Key: "n", Value: n}}
}

func TestSplitDisplayName(t *testing.T) {
	first, last := splitDisplayName("Jane Q Runner")
	assert.Equal(t, "Jane", first)
	assert.Equal(t, "Q Runner", last)

	first, last = splitDisplayName("Madonna")
	assert.Equal(t, "Madonna", first)
	assert.Equal(t, "", last)
}

func TestAllocateBibNumber(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("first free draw is accepted", func(mt *mtest.T) {
		svc := &UserService{users: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, countResponse(0)))

		bib, err := svc.allocateBibNumber(context.Background())
		require.NoError(t, err)
		assert.Len(t, bib, 4)
		assert.GreaterOrEqual(t, bib, "1000")
		assert.LessOrEqual(t, bib, "9999")
	})

	mt.Run("exhausted space fails with internal error", func(mt *mtest.T) {
		svc := &UserService{users: mt.Coll}
		responses := make([]primitive.D, 0, bibAttempts)
		for i := 0; i < bibAttempts; i++ {
			responses = append(responses, mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, countResponse(1)))
		}
		mt.AddMockResponses(responses...)

		_, err := svc.allocateBibNumber(context.Background())
		assertStatus(t, err, 500)
	})
}

func TestUserCreate_ExistingIdentityIsReturned(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("repeat registration is idempotent", func(mt *mtest.T) {
		existing := models.User{
			ID:          primitive.NewObjectID(),
			FirebaseUID: "uid-1",
			Email:       "jane@example.com",
			BibNumber:   "1234",
			CreatedAt:   time.Now().UTC(),
		}
		svc := &UserService{users: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "fitness.users", mtest.FirstBatch, toBsonD(mt.T, existing)))

		user, err := svc.Create(context.Background(), UserCreate{FirebaseUID: "uid-1", Email: "other@example.com"})
		require.NoError(t, err)
		assert.Equal(t, existing.ID, user.ID)
		assert.Equal(t, "1234", user.BibNumber)
	})
}

func TestUserCreate_DuplicateEmail(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("email used by another identity conflicts", func(mt *mtest.T) {
		svc := &UserService{users: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, countResponse(1)),
		)

		_, err := svc.Create(context.Background(), UserCreate{FirebaseUID: "uid-2", Email: "jane@example.com"})
		assertStatus(t, err, 409)
	})
}

func TestUserCreate_AssignsBibAndDefaults(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("new user gets a bib number and empty event set", func(mt *mtest.T) {
		svc := &UserService{users: mt.Coll}
		created := models.User{
			ID:               primitive.NewObjectID(),
			FirebaseUID:      "uid-3",
			Email:            "sam@example.com",
			FirstName:        "Sam",
			LastName:         "Hill",
			FullName:         "Sam Hill",
			BibNumber:        "4321",
			RegisteredEvents: []string{},
			CreatedAt:        time.Now().UTC(),
		}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch),
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, countResponse(0)),
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, countResponse(0)),
			mtest.CreateSuccessResponse(),
			mtest.CreateCursorResponse(1, "fitness.users", mtest.FirstBatch, toBsonD(mt.T, created)),
		)

		user, err := svc.Create(context.Background(), UserCreate{
			FirebaseUID: "uid-3",
			Email:       "sam@example.com",
			FirstName:   "Sam",
			LastName:    "Hill",
		})
		require.NoError(t, err)
		assert.Equal(t, "4321", user.BibNumber)
		assert.Equal(t, "Sam Hill", user.FullName)
		assert.NotNil(t, user.RegisteredEvents)
		assert.Empty(t, user.RegisteredEvents)
	})
}

func TestUserUpdate_RecomputesFullName(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("changing the last name refreshes full_name", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		current := models.User{
			ID:        id,
			FirstName: "Jane",
			LastName:  "Doe",
			FullName:  "Jane Doe",
			CreatedAt: time.Now().UTC(),
		}
		now := time.Now().UTC()
		updated := current
		updated.LastName = "Runner"
		updated.FullName = "Jane Runner"
		updated.UpdatedAt = &now

		svc := &UserService{users: mt.Coll}
		mt.AddMockResponses(
			mtest.CreateCursorResponse(0, "fitness.users", mtest.FirstBatch, toBsonD(mt.T, current)),
			mtest.CreateSuccessResponse(bson.E{Key: "value", Value: toBsonD(mt.T, updated)}),
		)

		last := "Runner"
		result, err := svc.Update(context.Background(), id.Hex(), UserUpdate{LastName: &last})
		require.NoError(t, err)
		assert.Equal(t, "Jane Runner", result.FullName)
		assert.NotNil(t, result.UpdatedAt)
	})
}

func TestUserUpdate_NoFields(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("empty patch is rejected", func(mt *mtest.T) {
		id := primitive.NewObjectID()
		current := models.User{ID: id, FirstName: "Jane", CreatedAt: time.Now().UTC()}
		svc := &UserService{users: mt.Coll}
		mt.AddMockResponses(mtest.CreateCursorResponse(1, "fitness.users", mtest.FirstBatch, toBsonD(mt.T, current)))

		_, err := svc.Update(context.Background(), id.Hex(), UserUpdate{})
		assertStatus(t, err, 400)
	})
}
