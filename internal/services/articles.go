package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"run2rejuvenate-backend-go/internal/db"
	"run2rejuvenate-backend-go/internal/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type ArticleCreate struct {
	Title    string
	Subtitle string
	Category string
	Content  string
	Author   string
}

type ArticleUpdate struct {
	Title    *string
	Subtitle *string
	Category *string
	Content  *string
}

// ArticleService is a plain catalog over the articles collection.
type ArticleService struct {
	articles *mongo.Collection
}

func NewArticleService(m *db.Mongo) *ArticleService {
	return &ArticleService{articles: m.Collections.Articles}
}

func (s *ArticleService) Create(ctx context.Context, input ArticleCreate, authorName string) (models.Article, error) {
	article := models.Article{
		Title:      input.Title,
		Subtitle:   input.Subtitle,
		Category:   input.Category,
		Content:    input.Content,
		Author:     input.Author,
		AuthorName: authorName,
		CreatedAt:  time.Now().UTC(),
	}
	result, err := s.articles.InsertOne(ctx, article)
	if err != nil {
		return models.Article{}, WrapError(err, "article insert failed")
	}
	if err := s.articles.FindOne(ctx, bson.M{"_id": result.InsertedID}).Decode(&article); err != nil {
		return models.Article{}, WrapError(err, "article readback failed")
	}
	return article, nil
}

func (s *ArticleService) Get(ctx context.Context, id string) (models.Article, error) {
	oid, err := parseObjectID(id, "article")
	if err != nil {
		return models.Article{}, err
	}
	var article models.Article
	if err := s.articles.FindOne(ctx, bson.M{"_id": oid}).Decode(&article); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Article{}, ErrNotFound("Article not found")
		}
		return models.Article{}, WrapError(err, "article lookup failed")
	}
	return article, nil
}

func (s *ArticleService) List(ctx context.Context, category string, skip, limit int64) ([]models.Article, error) {
	query := bson.M{}
	if category != "" {
		query["category"] = category
	}
	opts := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := s.articles.Find(ctx, query, opts)
	if err != nil {
		return nil, WrapError(err, "article list failed")
	}
	articles := []models.Article{}
	if err := cursor.All(ctx, &articles); err != nil {
		return nil, WrapError(err, "article list decode failed")
	}
	return articles, nil
}

func (s *ArticleService) Update(ctx context.Context, id string, patch ArticleUpdate) (models.Article, error) {
	oid, err := parseObjectID(id, "article")
	if err != nil {
		return models.Article{}, err
	}
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Subtitle != nil {
		set["subtitle"] = *patch.Subtitle
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Content != nil {
		set["content"] = *patch.Content
	}
	if len(set) == 0 {
		return models.Article{}, ErrBadRequest("No valid update data provided")
	}
	set["updated_at"] = time.Now().UTC()

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var updated models.Article
	err = s.articles.FindOneAndUpdate(ctx, bson.M{"_id": oid}, bson.M{"$set": set}, opts).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return models.Article{}, ErrNotFound("Article not found")
		}
		return models.Article{}, WrapError(err, "article update failed")
	}
	return updated, nil
}

func (s *ArticleService) Delete(ctx context.Context, id string) error {
	oid, err := parseObjectID(id, "article")
	if err != nil {
		return err
	}
	result, err := s.articles.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return WrapError(err, "article delete failed")
	}
	if result.DeletedCount == 0 {
		return ErrNotFound("Article not found")
	}
	return nil
}

// DisplayName derives a readable author name from the identity, falling back
// to the email local part when the token carries no display name.
func DisplayName(ident Identity) string {
	if strings.TrimSpace(ident.Name) != "" {
		return ident.Name
	}
	local, _, found := strings.Cut(ident.Email, "@")
	if !found || local == "" {
		return "Anonymous"
	}
	words := strings.Split(local, ".")
	for i, word := range words {
		if word == "" {
			continue
		}
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
