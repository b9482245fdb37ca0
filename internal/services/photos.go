package services

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const photoURLPrefix = "/uploads/photos/"

type PhotoCreate struct {
	Title       string
	Description string
	PhotoDate   string
	CreatedBy   string
}

type PhotoUpdate struct {
	Title       *string
	Description *string
	PhotoDate   *string
}

// PhotoService keeps the photo catalog: metadata in the photos collection,
// image bytes as uuid-named files under the upload dir.
type PhotoService struct {
	photos    *mongo.Collection
	uploadDir string
}

func NewPhotoService(m *db.Mongo, uploadDir string) *PhotoService {
	return &PhotoService{photos: m.Collections.Photos, uploadDir: uploadDir}
}

// SaveImage writes the uploaded image to disk and returns its public URL.
func (s *PhotoService) SaveImage(contentType, filename string, body io.Reader) (string, error) {
	if !strings.HasPrefix(contentType, "image/") {
		return "", ErrBadRequest("File must be an image")
	}
	if err := os.MkdirAll(s.uploadDir, 0o755); err != nil {
		return "", WrapError(err, "upload dir create failed")
	}
	name := uuid.NewString() + filepath.Ext(filename)
	target := filepath.Join(s.uploadDir, name)
	file, err := os.Create(target)
	if err != nil {
		return "", WrapError(err, "upload file create failed")
	}
	size, err := io.Copy(file, body)
	_ = file.Close()
	if err != nil {
		_ = os.Remove(target)
		return "", WrapError(err, "upload write failed")
	}
	if size == 0 {
		_ = os.Remove(target)
		return "", ErrBadRequest("Uploaded file is empty")
	}
	return photoURLPrefix + name, nil
}

func (s *PhotoService) Create(ctx context.Context, input PhotoCreate, imageURL string) (models.Photo, error) {
	photo := models.Photo{
		Title:       input.Title,
		Description: input.Description,
		ImageURL:    imageURL,
		PhotoDate:   input.PhotoDate,
		CreatedBy:   input.CreatedBy,
		CreatedAt:   time.Now().UTC(),
	}
	result, err := s.photos.InsertOne(ctx, photo)
	if err != nil {
		return models.Photo{}, WrapError(err, "photo insert failed")
	}
	if err := s.photos.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&photo); err != nil {
		return models.Photo{}, WrapError(err, "photo readback failed")
	}
	return photo, nil
}

func (s *PhotoService) Get(ctx context.Context, id string) (models.Photo, error) {
	oid, err := parseObjectID(id, "photo")
	if err != nil {
		return models.Photo{}, err
	}
	var photo models.Photo
	if err := s.photos.FindOne(ctx, bson.M{"_id": oid}).Decode(&photo); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Photo{}, ErrNotFound("Photo not found")
		}
		return models.Photo{}, WrapError(err, "photo lookup failed")
	}
	return photo, nil
}

// List returns photos newest first.
func (s *PhotoService) List(ctx context.Context, skip, limit int64) ([]models.Photo, error) {
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.photos.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, WrapError(err, "photo list failed")
	}
	photos := []models.Photo{}
	if err := cursor.All(ctx, &photos); err != nil {
		return nil, WrapError(err, "photo list decode failed")
	}
	return photos, nil
}

func (s *PhotoService) Count(ctx context.Context) (int64, error) {
	count, err := s.photos.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, WrapError(err, "photo count failed")
	}
	return count, nil
}

func (s *PhotoService) Update(ctx context.Context, id string, patch PhotoUpdate) (models.Photo, error) {
	oid, err := parseObjectID(id, "photo")
	if err != nil {
		return models.Photo{}, err
	}
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.PhotoDate != nil {
		set["photo_date"] = *patch.PhotoDate
	}
	if len(set) == 0 {
		return models.Photo{}, ErrBadRequest("No valid update data provided")
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Photo
	err = s.photos.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Photo{}, ErrNotFound("Photo not found")
		}
		return models.Photo{}, WrapError(err, "photo update failed")
	}
	return updated, nil
}

// Delete removes the record and, best effort, the file behind it.
func (s *PhotoService) Delete(ctx context.Context, id string) error {
	photo, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	oid, _ := parseObjectID(id, "photo")
	result, err := s.photos.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return WrapError(err, "photo delete failed")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Photo not found")
	}
	if name, ok := strings.CutPrefix(photo.ImageURL, photoURLPrefix); ok && name != "" {
		_ = os.Remove(filepath.Join(s.uploadDir, filepath.Base(name)))
	}
	return nil
}
