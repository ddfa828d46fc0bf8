package repositories

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/agroconnect/agroconnect_backend/config"
	"github.com/agroconnect/agroconnect_backend/models"
)

// RequestRepository owns persistence for service requests, including the
// atomic claim used to resolve concurrent accepts.
type RequestRepository struct {
	collection *mongo.Collection
}

func NewRequestRepository(db *mongo.Client) *RequestRepository {
	return &RequestRepository{
		collection: config.GetCollection(db, "requests"),
	}
}

// Insert stores a new request and returns it with its assigned id.
func (r *RequestRepository) Insert(ctx context.Context, request *models.Request) (*models.Request, error) {
	res, err := r.collection.InsertOne(ctx, request)
	if err != nil {
		return nil, err
	}
	request.ID = res.InsertedID.(primitive.ObjectID)
	return request, nil
}

// FindByID returns a single request or models.ErrNotFound.
func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Request, error) {
	var request models.Request
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&request)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &request, nil
}

// Find returns all requests matching the filter, newest first.
func (r *RequestRepository) Find(ctx context.Context, filter bson.M) ([]models.Request, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	requests := []models.Request{}
	if err := cursor.All(ctx, &requests); err != nil {
		return nil, err
	}
	return requests, nil
}

// FindForFarmer returns the farmer's own requests.
func (r *RequestRepository) FindForFarmer(ctx context.Context, farmerID primitive.ObjectID) ([]models.Request, error) {
	return r.Find(ctx, bson.M{"farmer": farmerID})
}

// FindForProvider returns the provider's active workload. Completed and
// rejected requests are intentionally excluded from this view.
func (r *RequestRepository) FindForProvider(ctx context.Context, providerID primitive.ObjectID) ([]models.Request, error) {
	return r.Find(ctx, bson.M{
		"provider": providerID,
		"status":   bson.M{"$in": []string{models.StatusAccepted, models.StatusInProgress}},
	})
}

// FindAvailable returns pending requests a provider with the given capability
// may claim.
func (r *RequestRepository) FindAvailable(ctx context.Context, capability string) ([]models.Request, error) {
	filter := bson.M{"status": models.StatusPending}
	if capability == models.CapabilityBoth {
		filter["serviceType"] = bson.M{"$in": []string{models.ServiceTypeDrone, models.ServiceTypeTractor}}
	} else {
		filter["serviceType"] = capability
	}
	return r.Find(ctx, filter)
}

// claimFilter pins the pending status so the claim below is a conditional
// write: if another provider got there first the filter matches nothing.
func claimFilter(id primitive.ObjectID) bson.M {
	return bson.M{"_id": id, "status": models.StatusPending}
}

// claimUpdate is a pipeline update so acceptedAt is only written when absent:
// a request an admin returned to pending keeps its original acceptance time
// on re-claim.
func claimUpdate(providerID primitive.ObjectID, now time.Time) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"provider":   providerID,
			"status":     models.StatusAccepted,
			"acceptedAt": bson.M{"$ifNull": bson.A{"$acceptedAt", now}},
			"updatedAt":  now,
		}}},
	}
}

// Claim atomically binds a provider to a pending request. At most one of any
// number of concurrent claims succeeds; the losers get models.ErrInvalidState
// (or models.ErrNotFound if the request never existed).
func (r *RequestRepository) Claim(ctx context.Context, id, providerID primitive.ObjectID, now time.Time) (*models.Request, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var request models.Request
	err := r.collection.FindOneAndUpdate(ctx, claimFilter(id), claimUpdate(providerID, now), opts).Decode(&request)
	if err == nil {
		return &request, nil
	}
	if err != mongo.ErrNoDocuments {
		return nil, err
	}

	// Either the request is gone or it is no longer pending
	if _, findErr := r.FindByID(ctx, id); findErr != nil {
		return nil, findErr
	}
	return nil, models.ErrInvalidState
}

// Save writes back a rehydrated, mutated request document.
func (r *RequestRepository) Save(ctx context.Context, request *models.Request) error {
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": request.ID}, request)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Delete removes a request document.
func (r *RequestRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

// Count returns the number of requests matching the filter.
func (r *RequestRepository) Count(ctx context.Context, filter bson.M) (int64, error) {
	return r.collection.CountDocuments(ctx, filter)
}
