package mongo

import (
	"context"
	"time"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// sortFields maps list sort keys onto document fields.
var sortFields = map[string]string{
	"created_at": "createdAt",
	"updated_at": "updatedAt",
	"title":      "title",
}

type formRepo struct {
	collection *mongo.Collection
	now        func() time.Time
}

func newFormRepo(db *mongo.Database) *formRepo {
	return &formRepo{
		collection: db.Collection(formsCollection),
		now:        time.Now,
	}
}

func (r *formRepo) Create(ctx context.Context, form *models.Form) error {
	if form.ID == "" {
		form.ID = primitive.NewObjectID().Hex()
	}
	repositories.PrepareNewForm(form, r.now())

	_, err := r.collection.InsertOne(ctx, form)
	return translateError("create form", "form", form.ID, err)
}

func (r *formRepo) GetByID(ctx context.Context, id string) (*models.Form, error) {
	return r.findOne(ctx, "get form", id, bson.M{"_id": id})
}

func (r *formRepo) GetByShareID(ctx context.Context, shareID string) (*models.Form, error) {
	return r.findOne(ctx, "get form by share id", shareID, bson.M{"shareId": shareID})
}

func (r *formRepo) findOne(ctx context.Context, op, id string, filter bson.M) (*models.Form, error) {
	var form models.Form
	if err := r.collection.FindOne(ctx, filter).Decode(&form); err != nil {
		return nil, translateError(op, "form", id, err)
	}
	return &form, nil
}

func (r *formRepo) Update(ctx context.Context, form *models.Form) error {
	current, err := r.findOne(ctx, "update form", form.ID, bson.M{"_id": form.ID})
	if err != nil {
		return err
	}
	form.ShareID = current.ShareID
	form.CreatedAt = current.CreatedAt
	repositories.PrepareUpdate(form, r.now())

	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": form.ID}, form)
	if err != nil {
		return translateError("update form", "form", form.ID, err)
	}
	if result.MatchedCount == 0 {
		return translateError("update form", "form", form.ID, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *formRepo) Delete(ctx context.Context, id string) error {
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return translateError("delete form", "form", id, err)
	}
	if result.DeletedCount == 0 {
		return translateError("delete form", "form", id, mongo.ErrNoDocuments)
	}
	return nil
}

func (r *formRepo) List(ctx context.Context, filters repositories.FormFilters) ([]*models.Form, int64, error) {
	filter := bson.M{}
	if filters.OwnerID != nil {
		filter["ownerId"] = *filters.OwnerID
	}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError("count forms", "form", "", err)
	}

	direction := -1
	if !repositories.SortDescending(filters.SortOrder) {
		direction = 1
	}
	opts := options.Find().
		SetSort(bson.D{{Key: sortFields[repositories.SortColumn(filters.SortBy)], Value: direction}}).
		SetLimit(int64(repositories.PageLimit(filters.Limit)))
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}

	forms, err := r.find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError("list forms", "form", "", err)
	}
	return forms, total, nil
}

func (r *formRepo) ListExpiredShares(ctx context.Context, now time.Time) ([]*models.Form, error) {
	filter := bson.M{
		"isShareable":             true,
		"shareSettings.expiresAt": bson.M{"$ne": nil, "$lte": now},
	}
	forms, err := r.find(ctx, filter)
	if err != nil {
		return nil, translateError("list expired shares", "form", "", err)
	}
	return forms, nil
}

func (r *formRepo) find(ctx context.Context, filter bson.M, opts ...*options.FindOptions) ([]*models.Form, error) {
	cursor, err := r.collection.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	forms := []*models.Form{}
	if err := cursor.All(ctx, &forms); err != nil {
		return nil, err
	}
	return forms, nil
}
