package models

import "testing"

func TestCapability(t *testing.T) {
	provider := &User{Role: RoleProvider, ProviderInfo: &ProviderInfo{ServiceType: CapabilityDrone}}
	if got := provider.Capability(); got != CapabilityDrone {
		t.Errorf("Capability() = %q, want %q", got, CapabilityDrone)
	}

	farmer := &User{Role: RoleFarmer, ProviderInfo: &ProviderInfo{ServiceType: CapabilityDrone}}
	if got := farmer.Capability(); got != "" {
		t.Errorf("farmer Capability() = %q, want empty", got)
	}

	bare := &User{Role: RoleProvider}
	if got := bare.Capability(); got != "" {
		t.Errorf("provider without info Capability() = %q, want empty", got)
	}
}

func TestSanitize(t *testing.T) {
	u := &User{Name: "Test", Password: "$2a$10$hash"}
	u.Sanitize()
	if u.Password != "" {
		t.Error("Sanitize should clear the password hash")
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleFarmer, RoleProvider, RoleAdmin} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false, want true", role)
		}
	}
	for _, role := range []string{"", "superuser", "Farmer"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true, want false", role)
		}
	}
}

func TestValidCapability(t *testing.T) {
	for _, c := range []string{CapabilityDrone, CapabilityTractor, CapabilityBoth} {
		if !ValidCapability(c) {
			t.Errorf("ValidCapability(%q) = false, want true", c)
		}
	}
	if ValidCapability("harvester") || ValidCapability("") {
		t.Error("unknown capabilities should be rejected")
	}
}
