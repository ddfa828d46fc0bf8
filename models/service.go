// models/service.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service types
const (
	ServiceTypeDrone   = "drone"
	ServiceTypeTractor = "tractor"
)

// Price units
const (
	PriceUnitAcre  = "acre"
	PriceUnitHour  = "hour"
	PriceUnitFixed = "fixed"
)

// Service is a catalog entry managed by admins. Disabled services are hidden
// from the public listing but stay resolvable by id so existing requests keep
// working.
type Service struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Description  string             `json:"description,omitempty" bson:"description,omitempty"`
	Type         string             `json:"type" bson:"type"`
	BasePrice    float64            `json:"basePrice" bson:"basePrice"`
	PriceUnit    string             `json:"priceUnit" bson:"priceUnit"`
	Duration     string             `json:"duration,omitempty" bson:"duration,omitempty"`
	Requirements []string           `json:"requirements,omitempty" bson:"requirements,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// ServiceRequestBody is the admin payload for creating or editing a service.
type ServiceRequestBody struct {
	Name         string   `json:"name" validate:"required"`
	Description  string   `json:"description,omitempty"`
	Type         string   `json:"type" validate:"required,oneof=drone tractor"`
	BasePrice    float64  `json:"basePrice" validate:"required,gt=0"`
	PriceUnit    string   `json:"priceUnit,omitempty" validate:"omitempty,oneof=acre hour fixed"`
	Duration     string   `json:"duration,omitempty"`
	Requirements []string `json:"requirements,omitempty"`
}

// ValidServiceType reports whether t is a known service type.
func ValidServiceType(t string) bool {
	return t == ServiceTypeDrone || t == ServiceTypeTractor
}
