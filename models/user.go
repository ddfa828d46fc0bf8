// models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles
const (
	RoleFarmer   = "farmer"
	RoleProvider = "provider"
	RoleAdmin    = "admin"
)

// Provider capabilities
const (
	CapabilityDrone   = "drone"
	CapabilityTractor = "tractor"
	CapabilityBoth    = "both"
)

// User model. Role-specific data lives in FarmerInfo/ProviderInfo so a farmer
// document never carries provider fields and vice versa.
type User struct {
	ID           primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Email        string             `json:"email" bson:"email"`
	Password     string             `json:"password,omitempty" bson:"password"`
	Role         string             `json:"role" bson:"role"`
	Phone        string             `json:"phone,omitempty" bson:"phone,omitempty"`
	Address      *Address           `json:"address,omitempty" bson:"address,omitempty"`
	FarmerInfo   *FarmerInfo        `json:"farmerInfo,omitempty" bson:"farmerInfo,omitempty"`
	ProviderInfo *ProviderInfo      `json:"providerInfo,omitempty" bson:"providerInfo,omitempty"`
	IsActive     bool               `json:"isActive" bson:"isActive"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FarmerInfo holds farmer-only attributes.
type FarmerInfo struct {
	FarmSize string `json:"farmSize,omitempty" bson:"farmSize,omitempty"`
	CropType string `json:"cropType,omitempty" bson:"cropType,omitempty"`
}

// ProviderInfo holds provider-only attributes.
type ProviderInfo struct {
	ServiceType string `json:"serviceType" bson:"serviceType"`
}

// Address model
type Address struct {
	Street  string `json:"street,omitempty" bson:"street,omitempty"`
	City    string `json:"city,omitempty" bson:"city,omitempty"`
	State   string `json:"state,omitempty" bson:"state,omitempty"`
	ZipCode string `json:"zipCode,omitempty" bson:"zipCode,omitempty"`
}

// Response is the uniform API response envelope.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Capability returns the provider's declared service type, or "" for
// non-providers.
func (u *User) Capability() string {
	if u.Role != RoleProvider || u.ProviderInfo == nil {
		return ""
	}
	return u.ProviderInfo.ServiceType
}

// Sanitize strips the password hash before the user is serialized.
func (u *User) Sanitize() {
	u.Password = ""
}

// ValidRole reports whether role is one of the known user roles.
func ValidRole(role string) bool {
	return role == RoleFarmer || role == RoleProvider || role == RoleAdmin
}

// ValidCapability reports whether c is a known provider capability.
func ValidCapability(c string) bool {
	return c == CapabilityDrone || c == CapabilityTractor || c == CapabilityBoth
}
