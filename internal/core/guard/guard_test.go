package guard

import (
	"testing"

	"github.com/userhub/user-service/internal/core/domain"
)

func TestRequireRole_SetMembership(t *testing.T) {
	tests := []struct {
		name    string
		role    domain.Role
		set     []domain.Role
		allowed bool
	}{
		{"user against staff set", domain.RoleUser, domain.Staff, false},
		{"admin against staff set", domain.RoleAdmin, domain.Staff, true},
		{"super against staff set", domain.RoleSuper, domain.Staff, true},
		{"admin against super-only set", domain.RoleAdmin, []domain.Role{domain.RoleSuper}, false},
		{"super against super-only set", domain.RoleSuper, []domain.Role{domain.RoleSuper}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := RequireRole(tt.set...)(Subject{UserID: 1, Role: tt.role})
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != ReasonInsufficientRole {
				t.Fatalf("reason = %s, want %s", d.Reason, ReasonInsufficientRole)
			}
		})
	}
}

func TestRequireRole_IgnoresTarget(t *testing.T) {
	// A plain user is denied by a staff-only policy no matter which subject
	// id the token carries.
	for _, id := range []int64{1, 5, 999} {
		d := RequireRole(domain.Staff...)(Subject{UserID: id, Role: domain.RoleUser})
		if d.Allowed {
			t.Fatalf("user id=%d unexpectedly allowed", id)
		}
	}
}

func TestRequireOwnerOrRole(t *testing.T) {
	tests := []struct {
		name    string
		sub     Subject
		ownerID int64
		allowed bool
		reason  Reason
	}{
		{"owner allowed", Subject{UserID: 5, Role: domain.RoleUser}, 5, true, ""},
		{"non-owner denied", Subject{UserID: 5, Role: domain.RoleUser}, 7, false, ReasonNotOwner},
		{"admin bypasses ownership", Subject{UserID: 5, Role: domain.RoleAdmin}, 7, true, ""},
		{"super bypasses ownership", Subject{UserID: 5, Role: domain.RoleSuper}, 7, true, ""},
		{"unresolved owner fails closed", Subject{UserID: 0, Role: domain.RoleUser}, 0, false, ReasonNotOwner},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := RequireOwnerOrRole(tt.ownerID, domain.Staff...)(tt.sub)
			if d.Allowed != tt.allowed {
				t.Fatalf("allowed = %v, want %v", d.Allowed, tt.allowed)
			}
			if !tt.allowed && d.Reason != tt.reason {
				t.Fatalf("reason = %s, want %s", d.Reason, tt.reason)
			}
		})
	}
}

func TestEvaluate_ShortCircuits(t *testing.T) {
	calls := 0
	deny := func(Subject) Decision { calls++; return Deny(ReasonInsufficientRole) }
	after := func(Subject) Decision { calls++; return Allow() }

	d := Evaluate(Subject{UserID: 1, Role: domain.RoleUser}, deny, after)
	if d.Allowed {
		t.Fatalf("expected deny")
	}
	if calls != 1 {
		t.Fatalf("expected evaluation to stop at first deny, got %d calls", calls)
	}
}

func TestEvaluate_AllPass(t *testing.T) {
	pass := func(Subject) Decision { return Allow() }
	if d := Evaluate(Subject{}, pass, pass); !d.Allowed {
		t.Fatalf("expected allow, got deny(%s)", d.Reason)
	}
}
