package mongo

import (
	"context"
	"regexp"

	"github.com/SAP-F-2025/form-service/internal/models"
	"github.com/SAP-F-2025/form-service/internal/repositories"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type responseRepo struct {
	collection *mongo.Collection
}

func newResponseRepo(db *mongo.Database) *responseRepo {
	return &responseRepo{collection: db.Collection(responsesCollection)}
}

// Create stores a response. The duplicate check and the insert are two operations;
// a submit-once form can accept two truly simultaneous submissions from one email.
func (r *responseRepo) Create(ctx context.Context, resp *models.FormResponse, uniqueEmail bool) error {
	if uniqueEmail {
		filter := bson.M{
			"formId":           resp.FormID,
			"respondent.email": emailPattern(resp.Respondent.Email),
		}
		count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
		if err != nil {
			return translateError("check duplicate response", "form", resp.FormID, err)
		}
		if count > 0 {
			return repositories.ErrDuplicateSubmission
		}
	}

	if resp.ID == "" {
		resp.ID = uuid.NewString()
	}
	_, err := r.collection.InsertOne(ctx, resp)
	return translateError("create response", "form", resp.FormID, err)
}

func (r *responseRepo) ListByForm(ctx context.Context, formID string, filters repositories.ResponseFilters) ([]*models.FormResponse, int64, error) {
	filter := bson.M{"formId": formID}

	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, translateError("count responses", "form", formID, err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "submittedAt", Value: -1}}).
		SetLimit(int64(repositories.PageLimit(filters.Limit)))
	if filters.Offset > 0 {
		opts.SetSkip(int64(filters.Offset))
	}

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, translateError("list responses", "form", formID, err)
	}
	defer cursor.Close(ctx)

	responses := []*models.FormResponse{}
	if err := cursor.All(ctx, &responses); err != nil {
		return nil, 0, translateError("list responses", "form", formID, err)
	}
	return responses, total, nil
}

func (r *responseRepo) CountByForm(ctx context.Context, formID string) (int64, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"formId": formID})
	return count, translateError("count responses", "form", formID, err)
}

func (r *responseRepo) DeleteByForm(ctx context.Context, formID string) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"formId": formID})
	return translateError("delete responses", "form", formID, err)
}

// emailPattern matches the email case-insensitively and ignoring surrounding spaces.
func emailPattern(email string) primitive.Regex {
	return primitive.Regex{
		Pattern: `^\s*` + regexp.QuoteMeta(repositories.NormalizeEmail(email)) + `\s*$`,
		Options: "i",
	}
}
