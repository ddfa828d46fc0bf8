package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func newPendingRequest(t *testing.T, basePrice, size float64, serviceType string) *Request {
	t.Helper()
	svc := &Service{
		ID:        primitive.NewObjectID(),
		Name:      "Test Service",
		Type:      serviceType,
		BasePrice: basePrice,
		PriceUnit: PriceUnitAcre,
		IsActive:  true,
	}
	body := &CreateRequestBody{
		ServiceID: svc.ID.Hex(),
		FarmDetails: FarmDetails{
			Size:     size,
			Unit:     SizeUnitAcre,
			Location: "456 Farm Road, AgriCity",
		},
	}
	if err := body.FarmDetails.Validate(); err != nil {
		t.Fatalf("farm details should be valid: %v", err)
	}
	return NewRequest(primitive.NewObjectID(), svc, body, time.Now())
}

func TestEstimateCost(t *testing.T) {
	if got := EstimateCost(25, 20); got != 500 {
		t.Errorf("EstimateCost(25, 20) = %v, want 500", got)
	}
	if got := EstimateCost(50, 15); got != 750 {
		t.Errorf("EstimateCost(50, 15) = %v, want 750", got)
	}
}

func TestNewRequestDefaults(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)

	if req.Status != StatusPending {
		t.Errorf("new request status = %q, want %q", req.Status, StatusPending)
	}
	if req.Provider != nil {
		t.Error("new request should have no provider")
	}
	if req.EstimatedCost != 500 {
		t.Errorf("estimatedCost = %v, want 500", req.EstimatedCost)
	}
	if req.FinalCost != nil {
		t.Error("finalCost should be unset at creation")
	}
	if !strings.HasPrefix(req.Reference, "REQ-") || len(req.Reference) != 12 {
		t.Errorf("unexpected reference format: %q", req.Reference)
	}
	if req.ServiceType != ServiceTypeDrone {
		t.Errorf("serviceType = %q, want %q", req.ServiceType, ServiceTypeDrone)
	}
}

func TestFarmDetailsValidate(t *testing.T) {
	tests := []struct {
		name    string
		details FarmDetails
		wantErr bool
	}{
		{"valid", FarmDetails{Size: 10, Location: "field 3"}, false},
		{"valid hectare", FarmDetails{Size: 10, Unit: SizeUnitHectare, Location: "field 3"}, false},
		{"zero size", FarmDetails{Size: 0, Location: "field 3"}, true},
		{"negative size", FarmDetails{Size: -5, Location: "field 3"}, true},
		{"missing location", FarmDetails{Size: 10}, true},
		{"blank location", FarmDetails{Size: 10, Location: "   "}, true},
		{"bad unit", FarmDetails{Size: 10, Unit: "furlong", Location: "field 3"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.details.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrValidation) {
				t.Errorf("error should be ErrValidation, got %v", err)
			}
		})
	}
	d := FarmDetails{Size: 10, Location: "field 3"}
	if err := d.Validate(); err != nil || d.Unit != SizeUnitAcre {
		t.Errorf("unit should default to acre, got %q (err %v)", d.Unit, err)
	}
}

func TestCapabilityCovers(t *testing.T) {
	tests := []struct {
		capability  string
		serviceType string
		want        bool
	}{
		{CapabilityDrone, ServiceTypeDrone, true},
		{CapabilityDrone, ServiceTypeTractor, false},
		{CapabilityTractor, ServiceTypeTractor, true},
		{CapabilityTractor, ServiceTypeDrone, false},
		{CapabilityBoth, ServiceTypeDrone, true},
		{CapabilityBoth, ServiceTypeTractor, true},
		{"", ServiceTypeDrone, false},
		{CapabilityBoth, "harvester", false},
	}
	for _, tt := range tests {
		if got := CapabilityCovers(tt.capability, tt.serviceType); got != tt.want {
			t.Errorf("CapabilityCovers(%q, %q) = %v, want %v", tt.capability, tt.serviceType, got, tt.want)
		}
	}
}

func TestClaimPendingRequest(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	providerID := primitive.NewObjectID()
	now := time.Now()

	if err := req.Claim(providerID, CapabilityDrone, now); err != nil {
		t.Fatalf("Claim: %v", err)
	}
	if req.Status != StatusAccepted {
		t.Errorf("status = %q, want %q", req.Status, StatusAccepted)
	}
	if req.Provider == nil || *req.Provider != providerID {
		t.Error("provider should be bound after claim")
	}
	if req.AcceptedAt == nil || !req.AcceptedAt.Equal(now) {
		t.Error("acceptedAt should be set at claim time")
	}
}

func TestClaimNonPendingFails(t *testing.T) {
	for _, status := range []string{StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected, StatusCancelled} {
		req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
		req.Status = status
		err := req.Claim(primitive.NewObjectID(), CapabilityBoth, time.Now())
		if !errors.Is(err, ErrInvalidState) {
			t.Errorf("claim on %q request: err = %v, want ErrInvalidState", status, err)
		}
	}
}

func TestClaimCapabilityMismatch(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeTractor)
	err := req.Claim(primitive.NewObjectID(), CapabilityDrone, time.Now())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("err = %v, want ErrForbidden", err)
	}
	if req.Status != StatusPending || req.Provider != nil {
		t.Error("failed claim must not mutate the request")
	}
}

func TestProviderStatusRejectsUnknownStatus(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusAccepted
	for _, status := range []string{StatusRejected, StatusCancelled, StatusPending, "done", ""} {
		if err := req.ApplyProviderStatus(status, nil, time.Now()); !errors.Is(err, ErrValidation) {
			t.Errorf("ApplyProviderStatus(%q): err = %v, want ErrValidation", status, err)
		}
	}
}

func TestProviderStatusIllegalTransitions(t *testing.T) {
	tests := []struct {
		from, to string
	}{
		{StatusAccepted, StatusCompleted},
		{StatusPending, StatusInProgress},
		{StatusInProgress, StatusAccepted},
		{StatusCompleted, StatusInProgress},
		{StatusRejected, StatusCompleted},
	}
	for _, tt := range tests {
		req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
		req.Status = tt.from
		if err := req.ApplyProviderStatus(tt.to, nil, time.Now()); !errors.Is(err, ErrInvalidState) {
			t.Errorf("%s -> %s: err = %v, want ErrInvalidState", tt.from, tt.to, err)
		}
	}
}

func TestCompleteDefaultsFinalCostToEstimate(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusInProgress
	started := time.Now().Add(-time.Hour)
	req.StartedAt = &started

	if err := req.ApplyProviderStatus(StatusCompleted, nil, time.Now()); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if req.FinalCost == nil || *req.FinalCost != req.EstimatedCost {
		t.Fatalf("finalCost = %v, want fallback to estimate %v", req.FinalCost, req.EstimatedCost)
	}
}

func TestTimestampsSetOnlyOnce(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusAccepted

	first := time.Now()
	if err := req.ApplyProviderStatus(StatusInProgress, nil, first); err != nil {
		t.Fatalf("start: %v", err)
	}
	// A repeated in_progress update must not move startedAt
	if err := req.ApplyProviderStatus(StatusInProgress, nil, first.Add(time.Minute)); err != nil {
		t.Fatalf("repeat start: %v", err)
	}
	if !req.StartedAt.Equal(first) {
		t.Errorf("startedAt moved on repeat update: %v != %v", req.StartedAt, first)
	}
}

func TestFullLifecycle(t *testing.T) {
	svc := &Service{
		ID:        primitive.NewObjectID(),
		Name:      "Tractor Plowing Service",
		Type:      ServiceTypeTractor,
		BasePrice: 50,
		PriceUnit: PriceUnitAcre,
		IsActive:  true,
	}
	body := &CreateRequestBody{
		ServiceID: svc.ID.Hex(),
		FarmDetails: FarmDetails{
			Size:     15,
			Location: "789 Ranch Lane, Farmville",
		},
	}
	if err := body.FarmDetails.Validate(); err != nil {
		t.Fatalf("validate: %v", err)
	}

	created := time.Now()
	req := NewRequest(primitive.NewObjectID(), svc, body, created)
	if req.Status != StatusPending || req.EstimatedCost != 750 {
		t.Fatalf("after create: status=%q cost=%v, want pending/750", req.Status, req.EstimatedCost)
	}

	providerID := primitive.NewObjectID()
	accepted := created.Add(time.Hour)
	if err := req.Claim(providerID, CapabilityTractor, accepted); err != nil {
		t.Fatalf("claim: %v", err)
	}
	if req.Status != StatusAccepted || req.AcceptedAt == nil {
		t.Fatal("after accept: status should be accepted with acceptedAt set")
	}

	started := accepted.Add(time.Hour)
	if err := req.ApplyProviderStatus(StatusInProgress, nil, started); err != nil {
		t.Fatalf("start: %v", err)
	}
	if req.StartedAt == nil {
		t.Fatal("startedAt should be set")
	}

	finalCost := 800.0
	completed := started.Add(time.Hour)
	if err := req.ApplyProviderStatus(StatusCompleted, &finalCost, completed); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if req.CompletedAt == nil {
		t.Fatal("completedAt should be set")
	}
	if req.FinalCost == nil || *req.FinalCost != 800 {
		t.Fatalf("finalCost = %v, want 800", req.FinalCost)
	}

	if req.AcceptedAt.After(*req.StartedAt) || req.StartedAt.After(*req.CompletedAt) {
		t.Error("timestamps out of order: acceptedAt <= startedAt <= completedAt must hold")
	}
}

func TestRejectFromActiveStates(t *testing.T) {
	for _, status := range []string{StatusPending, StatusAccepted, StatusInProgress} {
		req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
		req.Status = status
		if err := req.Reject(time.Now()); err != nil {
			t.Errorf("reject from %q: %v", status, err)
		}
	}
	for _, status := range []string{StatusCompleted, StatusRejected, StatusCancelled} {
		req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
		req.Status = status
		if err := req.Reject(time.Now()); !errors.Is(err, ErrInvalidState) {
			t.Errorf("reject from %q: err = %v, want ErrInvalidState", status, err)
		}
	}
}

func TestCancelOnlyWhilePending(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	if err := req.Cancel(time.Now()); err != nil {
		t.Fatalf("cancel pending: %v", err)
	}
	if req.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", req.Status)
	}

	req = newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusAccepted
	if err := req.Cancel(time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("cancel accepted: err = %v, want ErrInvalidState", err)
	}
}

func TestApplyPatchProviderScope(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusAccepted

	notes := "bringing the big rig"
	farmerNotes := "should be ignored"
	newDetails := &FarmDetails{Size: 99, Location: "elsewhere"}
	sched := "4:00 PM"
	patch := &UpdateRequestBody{
		ProviderNotes: &notes,
		FarmerNotes:   &farmerNotes,
		FarmDetails:   newDetails,
		ScheduledTime: &sched,
	}
	if err := req.ApplyPatch(RoleProvider, patch, time.Now()); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if req.ProviderNotes != notes {
		t.Errorf("providerNotes = %q, want %q", req.ProviderNotes, notes)
	}
	// Fields outside the provider's allowed set stay untouched
	if req.FarmerNotes != "" || req.FarmDetails.Size != 20 || req.ScheduledTime != "" {
		t.Error("provider patch must not touch farmer-scoped fields")
	}
}

func TestApplyPatchProviderReject(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusInProgress
	status := StatusRejected
	if err := req.ApplyPatch(RoleProvider, &UpdateRequestBody{Status: &status}, time.Now()); err != nil {
		t.Fatalf("ApplyPatch reject: %v", err)
	}
	if req.Status != StatusRejected {
		t.Errorf("status = %q, want rejected", req.Status)
	}
}

func TestApplyPatchFarmerScope(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	estimate := req.EstimatedCost

	newDetails := &FarmDetails{Size: 40, Unit: SizeUnitAcre, Location: "north field"}
	notes := "please hurry"
	patch := &UpdateRequestBody{FarmDetails: newDetails, FarmerNotes: &notes}
	if err := req.ApplyPatch(RoleFarmer, patch, time.Now()); err != nil {
		t.Fatalf("ApplyPatch: %v", err)
	}
	if req.FarmDetails.Size != 40 || req.FarmerNotes != notes {
		t.Error("farmer patch should apply farm details and notes")
	}
	// Cost estimate stays frozen at creation even after a size edit
	if req.EstimatedCost != estimate {
		t.Errorf("estimatedCost recomputed to %v, want %v", req.EstimatedCost, estimate)
	}
}

func TestApplyPatchFarmerStatusRules(t *testing.T) {
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	status := StatusCancelled
	if err := req.ApplyPatch(RoleFarmer, &UpdateRequestBody{Status: &status}, time.Now()); err != nil {
		t.Fatalf("farmer cancel: %v", err)
	}
	if req.Status != StatusCancelled {
		t.Errorf("status = %q, want cancelled", req.Status)
	}

	req = newPendingRequest(t, 25, 20, ServiceTypeDrone)
	completed := StatusCompleted
	if err := req.ApplyPatch(RoleFarmer, &UpdateRequestBody{Status: &completed}, time.Now()); !errors.Is(err, ErrForbidden) {
		t.Errorf("farmer setting completed: err = %v, want ErrForbidden", err)
	}

	req = newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusAccepted
	if err := req.ApplyPatch(RoleFarmer, &UpdateRequestBody{Status: &status}, time.Now()); !errors.Is(err, ErrInvalidState) {
		t.Errorf("farmer cancel after acceptance: err = %v, want ErrInvalidState", err)
	}
}

func TestApplyPatchAdminStatusOverride(t *testing.T) {
	// The admin path sets status directly with no transition validation
	req := newPendingRequest(t, 25, 20, ServiceTypeDrone)
	req.Status = StatusCompleted
	status := StatusPending
	if err := req.ApplyPatch(RoleAdmin, &UpdateRequestBody{Status: &status}, time.Now()); err != nil {
		t.Fatalf("admin override: %v", err)
	}
	if req.Status != StatusPending {
		t.Errorf("status = %q, want pending", req.Status)
	}

	bad := "launched"
	if err := req.ApplyPatch(RoleAdmin, &UpdateRequestBody{Status: &bad}, time.Now()); !errors.Is(err, ErrValidation) {
		t.Errorf("admin unknown status: err = %v, want ErrValidation", err)
	}
}
