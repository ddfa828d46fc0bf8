// models/request.go
package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Request statuses
const (
	StatusPending    = "pending"
	StatusAccepted   = "accepted"
	StatusInProgress = "in_progress"
	StatusCompleted  = "completed"
	StatusRejected   = "rejected"
	StatusCancelled  = "cancelled"
)

// Farm size units
const (
	SizeUnitAcre    = "acre"
	SizeUnitHectare = "hectare"
)

// FarmDetails describes the farm a request applies to.
type FarmDetails struct {
	Size                float64 `json:"size" bson:"size"`
	Unit                string  `json:"unit" bson:"unit"`
	Location            string  `json:"location" bson:"location"`
	CropType            string  `json:"cropType,omitempty" bson:"cropType,omitempty"`
	SpecialInstructions string  `json:"specialInstructions,omitempty" bson:"specialInstructions,omitempty"`
}

// Validate checks the required farm detail fields and defaults the unit.
func (fd *FarmDetails) Validate() error {
	if fd.Size <= 0 || strings.TrimSpace(fd.Location) == "" {
		return ErrValidation
	}
	if fd.Unit == "" {
		fd.Unit = SizeUnitAcre
	}
	if fd.Unit != SizeUnitAcre && fd.Unit != SizeUnitHectare {
		return ErrValidation
	}
	return nil
}

// Request is a farmer's demand for a catalog service. ServiceType is copied
// from the service at creation time and never changes afterwards, even if the
// service is edited. EstimatedCost is likewise computed once at creation and
// not recomputed when farm details are edited later.
type Request struct {
	ID            primitive.ObjectID  `json:"id,omitempty" bson:"_id,omitempty"`
	Reference     string              `json:"reference" bson:"reference"`
	Farmer        primitive.ObjectID  `json:"farmer" bson:"farmer"`
	Service       primitive.ObjectID  `json:"service" bson:"service"`
	Provider      *primitive.ObjectID `json:"provider,omitempty" bson:"provider,omitempty"`
	ServiceType   string              `json:"serviceType" bson:"serviceType"`
	FarmDetails   FarmDetails         `json:"farmDetails" bson:"farmDetails"`
	Status        string              `json:"status" bson:"status"`
	EstimatedCost float64             `json:"estimatedCost" bson:"estimatedCost"`
	FinalCost     *float64            `json:"finalCost,omitempty" bson:"finalCost,omitempty"`
	ScheduledDate *time.Time          `json:"scheduledDate,omitempty" bson:"scheduledDate,omitempty"`
	ScheduledTime string              `json:"scheduledTime,omitempty" bson:"scheduledTime,omitempty"`
	FarmerNotes   string              `json:"farmerNotes,omitempty" bson:"farmerNotes,omitempty"`
	ProviderNotes string              `json:"providerNotes,omitempty" bson:"providerNotes,omitempty"`
	AdminNotes    string              `json:"adminNotes,omitempty" bson:"adminNotes,omitempty"`
	AcceptedAt    *time.Time          `json:"acceptedAt,omitempty" bson:"acceptedAt,omitempty"`
	StartedAt     *time.Time          `json:"startedAt,omitempty" bson:"startedAt,omitempty"`
	CompletedAt   *time.Time          `json:"completedAt,omitempty" bson:"completedAt,omitempty"`
	CreatedAt     time.Time           `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time           `json:"updatedAt" bson:"updatedAt"`
}

// CreateRequestBody is the farmer payload for creating a request.
type CreateRequestBody struct {
	ServiceID     string      `json:"serviceId" validate:"required"`
	FarmDetails   FarmDetails `json:"farmDetails"`
	ScheduledDate *time.Time  `json:"scheduledDate,omitempty"`
	ScheduledTime string      `json:"scheduledTime,omitempty"`
	FarmerNotes   string      `json:"farmerNotes,omitempty"`
}

// UpdateStatusBody is the assigned provider's payload for advancing a request.
type UpdateStatusBody struct {
	Status        string   `json:"status" validate:"required"`
	ProviderNotes string   `json:"providerNotes,omitempty"`
	FinalCost     *float64 `json:"finalCost,omitempty"`
}

// UpdateRequestBody is the role-scoped partial update payload. Fields outside
// the caller's allowed set are ignored without error.
type UpdateRequestBody struct {
	Status        *string      `json:"status,omitempty"`
	ProviderNotes *string      `json:"providerNotes,omitempty"`
	FarmDetails   *FarmDetails `json:"farmDetails,omitempty"`
	ScheduledDate *time.Time   `json:"scheduledDate,omitempty"`
	ScheduledTime *string      `json:"scheduledTime,omitempty"`
	FarmerNotes   *string      `json:"farmerNotes,omitempty"`
}

// EstimateCost derives the advisory cost for a request: unit price times farm
// size. Plain float arithmetic, no rounding or currency rule.
func EstimateCost(basePrice, size float64) float64 {
	return basePrice * size
}

// CapabilityCovers reports whether a provider capability may serve the given
// request service type. "both" covers either concrete type; otherwise an
// exact match is required.
func CapabilityCovers(capability, serviceType string) bool {
	if !ValidServiceType(serviceType) {
		return false
	}
	return capability == CapabilityBoth || capability == serviceType
}

// ValidStatus reports whether s is a known request status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusInProgress, StatusCompleted, StatusRejected, StatusCancelled:
		return true
	}
	return false
}

// NewRequest builds a pending request for the given farmer and service. The
// caller validates farm details first.
func NewRequest(farmerID primitive.ObjectID, svc *Service, body *CreateRequestBody, now time.Time) *Request {
	return &Request{
		Reference:     "REQ-" + strings.ToUpper(uuid.NewString()[:8]),
		Farmer:        farmerID,
		Service:       svc.ID,
		ServiceType:   svc.Type,
		FarmDetails:   body.FarmDetails,
		Status:        StatusPending,
		EstimatedCost: EstimateCost(svc.BasePrice, body.FarmDetails.Size),
		ScheduledDate: body.ScheduledDate,
		ScheduledTime: body.ScheduledTime,
		FarmerNotes:   body.FarmerNotes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Claim binds a provider to a pending request. Status is checked before
// capability so a stale claim reports the state conflict rather than a
// permission error. The storage layer enforces the same pending condition
// atomically; this is the in-memory counterpart used for guard checks.
func (r *Request) Claim(providerID primitive.ObjectID, capability string, now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	if !CapabilityCovers(capability, r.ServiceType) {
		return ErrForbidden
	}
	r.Provider = &providerID
	r.Status = StatusAccepted
	if r.AcceptedAt == nil {
		t := now
		r.AcceptedAt = &t
	}
	r.UpdatedAt = now
	return nil
}

// ApplyProviderStatus advances the lifecycle on behalf of the assigned
// provider. Only accepted, in_progress and completed are accepted here;
// rejection goes through Reject. Legal moves are accepted -> in_progress ->
// completed, with same-status updates treated as note-only no-ops.
// startedAt/completedAt are set exactly once; completing without a final cost
// falls back to the estimate.
func (r *Request) ApplyProviderStatus(newStatus string, finalCost *float64, now time.Time) error {
	switch newStatus {
	case StatusAccepted, StatusInProgress, StatusCompleted:
	default:
		return ErrValidation
	}

	if newStatus != r.Status {
		legal := (r.Status == StatusAccepted && newStatus == StatusInProgress) ||
			(r.Status == StatusInProgress && newStatus == StatusCompleted)
		if !legal {
			return ErrInvalidState
		}
	}

	r.Status = newStatus
	switch newStatus {
	case StatusInProgress:
		if r.StartedAt == nil {
			t := now
			r.StartedAt = &t
		}
	case StatusCompleted:
		if r.CompletedAt == nil {
			t := now
			r.CompletedAt = &t
		}
		if finalCost != nil {
			r.FinalCost = finalCost
		} else if r.FinalCost == nil {
			c := r.EstimatedCost
			r.FinalCost = &c
		}
	}
	r.UpdatedAt = now
	return nil
}

// Reject marks the request rejected. Allowed from pending, accepted or
// in_progress; terminal states stay terminal.
func (r *Request) Reject(now time.Time) error {
	switch r.Status {
	case StatusPending, StatusAccepted, StatusInProgress:
		r.Status = StatusRejected
		r.UpdatedAt = now
		return nil
	}
	return ErrInvalidState
}

// Cancel is the farmer's pre-acceptance exit. Once a provider has claimed the
// request the farmer can no longer cancel it.
func (r *Request) Cancel(now time.Time) error {
	if r.Status != StatusPending {
		return ErrInvalidState
	}
	r.Status = StatusCancelled
	r.UpdatedAt = now
	return nil
}

// ApplyPatch applies a role-scoped partial update. Providers may touch only
// status and providerNotes; farmers and admins may touch farmDetails,
// scheduling fields, farmerNotes and status. Editing farmDetails does not
// recompute estimatedCost. Admin status writes skip the transition table
// entirely, mirroring the admin override path.
func (r *Request) ApplyPatch(role string, body *UpdateRequestBody, now time.Time) error {
	switch role {
	case RoleProvider:
		if body.ProviderNotes != nil {
			r.ProviderNotes = *body.ProviderNotes
		}
		if body.Status != nil {
			if *body.Status == StatusRejected {
				return r.Reject(now)
			}
			return r.ApplyProviderStatus(*body.Status, nil, now)
		}
	case RoleFarmer, RoleAdmin:
		if body.FarmDetails != nil {
			if err := body.FarmDetails.Validate(); err != nil {
				return err
			}
			r.FarmDetails = *body.FarmDetails
		}
		if body.ScheduledDate != nil {
			r.ScheduledDate = body.ScheduledDate
		}
		if body.ScheduledTime != nil {
			r.ScheduledTime = *body.ScheduledTime
		}
		if body.FarmerNotes != nil {
			r.FarmerNotes = *body.FarmerNotes
		}
		if body.Status != nil {
			if role == RoleAdmin {
				if !ValidStatus(*body.Status) {
					return ErrValidation
				}
				r.Status = *body.Status
			} else {
				if *body.Status != StatusCancelled {
					return ErrForbidden
				}
				return r.Cancel(now)
			}
		}
	default:
		return ErrForbidden
	}
	r.UpdatedAt = now
	return nil
}
