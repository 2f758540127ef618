// Package mongo stores forms and responses as documents.
package mongo

import (
	"context"
	"errors"

	apperrors "github.com/SAP-F-2025/form-service/internal/errors"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	formsCollection     = "forms"
	responsesCollection = "form_responses"
)

type Repository struct {
	client    *mongo.Client
	forms     *formRepo
	responses *responseRepo
}

func NewRepository(client *mongo.Client, db *mongo.Database) *Repository {
	return &Repository{
		client:    client,
		forms:     newFormRepo(db),
		responses: newResponseRepo(db),
	}
}

func (r *Repository) Forms() repositories.FormRepository         { return r.forms }
func (r *Repository) Responses() repositories.ResponseRepository { return r.responses }

func (r *Repository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}

// EnsureIndexes creates the share id and respondent lookup indexes.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	if _, err := db.Collection(formsCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "shareId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isShareable", Value: 1}, {Key: "shareSettings.expiresAt", Value: 1}}},
	}); err != nil {
		return apperrors.NewStoreError("create form indexes", err)
	}

	if _, err := db.Collection(responsesCollection).Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "respondent.email", Value: 1}}},
		{Keys: bson.D{{Key: "formId", Value: 1}, {Key: "submittedAt", Value: -1}}},
	}); err != nil {
		return apperrors.NewStoreError("create response indexes", err)
	}
	return nil
}

func translateError(op, resource, id string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return apperrors.NewNotFoundError(resource, id)
	default:
		return apperrors.NewStoreError(op, err)
	}
}
