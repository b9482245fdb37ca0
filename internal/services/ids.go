package services

import "go.mongodb.org/mongo-driver/bson/primitive"

// parseObjectID converts a path identifier into an ObjectID, mapping a
// malformed value to a 400 the same way every endpoint does.
func parseObjectID(id, label string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, ErrBadRequest("Invalid " + label + " ID format")
	}
	return oid, nil
}
