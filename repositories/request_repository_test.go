package repositories

import (
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/agroconnect/agroconnect_backend/models"
)

func TestClaimFilterPinsPendingStatus(t *testing.T) {
	id := primitive.NewObjectID()
	filter := claimFilter(id)

	if filter["_id"] != id {
		t.Errorf("filter _id = %v, want %v", filter["_id"], id)
	}
	if filter["status"] != models.StatusPending {
		t.Errorf("filter status = %v, want %q", filter["status"], models.StatusPending)
	}
	if len(filter) != 2 {
		t.Errorf("filter has %d keys, want exactly _id and status", len(filter))
	}
}

func TestClaimUpdateBindsProvider(t *testing.T) {
	providerID := primitive.NewObjectID()
	now := time.Now()

	pipeline := claimUpdate(providerID, now)
	if len(pipeline) != 1 {
		t.Fatalf("claim update has %d stages, want 1", len(pipeline))
	}
	stage := pipeline[0]
	if len(stage) != 1 || stage[0].Key != "$set" {
		t.Fatal("claim update should be a single $set stage")
	}
	set, ok := stage[0].Value.(bson.M)
	if !ok {
		t.Fatal("$set stage should carry a document")
	}

	if set["provider"] != providerID {
		t.Errorf("provider = %v, want %v", set["provider"], providerID)
	}
	if set["status"] != models.StatusAccepted {
		t.Errorf("status = %v, want %q", set["status"], models.StatusAccepted)
	}
	if set["updatedAt"] != now {
		t.Error("updatedAt should be the claim time")
	}
}

func TestClaimUpdateKeepsExistingAcceptedAt(t *testing.T) {
	now := time.Now()

	pipeline := claimUpdate(primitive.NewObjectID(), now)
	set := pipeline[0][0].Value.(bson.M)

	// acceptedAt must be conditional so a re-claim after an admin reset to
	// pending does not move the original acceptance time
	expr, ok := set["acceptedAt"].(bson.M)
	if !ok {
		t.Fatal("acceptedAt should be an expression, not a plain value")
	}
	args, ok := expr["$ifNull"].(bson.A)
	if !ok || len(args) != 2 {
		t.Fatalf("acceptedAt should be $ifNull with 2 args, got %v", set["acceptedAt"])
	}
	if args[0] != "$acceptedAt" {
		t.Errorf("first $ifNull arg = %v, want the existing field", args[0])
	}
	if args[1] != now {
		t.Error("fallback should be the claim time")
	}
}
