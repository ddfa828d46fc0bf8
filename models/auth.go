// models/auth.go
package models

// RegisterRequest is the signup payload. FarmSize/CropType are kept only for
// farmer signups, ServiceType only for provider signups.
type RegisterRequest struct {
	Name        string   `json:"name" validate:"required"`
	Email       string   `json:"email" validate:"required,email"`
	Password    string   `json:"password" validate:"required,min=6"`
	Role        string   `json:"role,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Address     *Address `json:"address,omitempty"`
	FarmSize    string   `json:"farmSize,omitempty"`
	CropType    string   `json:"cropType,omitempty"`
	ServiceType string   `json:"serviceType,omitempty"`
}

// LoginRequest is the login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthData is returned on successful register/login.
type AuthData struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// UpdateUserBody is the partial-update payload for a user. Role changes are
// stripped unless the caller is an admin.
type UpdateUserBody struct {
	Name         *string       `json:"name,omitempty"`
	Password     *string       `json:"password,omitempty"`
	Role         *string       `json:"role,omitempty"`
	Phone        *string       `json:"phone,omitempty"`
	Address      *Address      `json:"address,omitempty"`
	FarmerInfo   *FarmerInfo   `json:"farmerInfo,omitempty"`
	ProviderInfo *ProviderInfo `json:"providerInfo,omitempty"`
	IsActive     *bool         `json:"isActive,omitempty"`
}
