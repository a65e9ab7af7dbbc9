package domain

import "testing"

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"user", "admin", "super"} {
		role, ok := ParseRole(valid)
		if !ok || string(role) != valid {
			t.Fatalf("ParseRole(%q) = %q, %v", valid, role, ok)
		}
	}

	for _, invalid := range []string{"", "USER", "root", "owner"} {
		if _, ok := ParseRole(invalid); ok {
			t.Fatalf("ParseRole(%q) unexpectedly succeeded", invalid)
		}
	}
}

func TestRoleIn(t *testing.T) {
	if !RoleAdmin.In(Staff...) {
		t.Fatalf("admin should be staff")
	}
	if RoleUser.In(Staff...) {
		t.Fatalf("user should not be staff")
	}
	if RoleAdmin.In(RoleSuper) {
		t.Fatalf("membership must be exact, not hierarchical")
	}
}
