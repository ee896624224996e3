// AngelaMos | 2026
// roles_test.go

package user

import "testing"

func TestCanActOn(t *testing.T) {
	tests := []struct {
		actor  string
		target string
		want   bool
	}{
		{RoleUser, RoleUser, false},
		{RoleUser, RoleAdmin, false},
		{RoleUser, RoleMaster, false},
		{RoleAdmin, RoleUser, true},
		{RoleAdmin, RoleAdmin, false},
		{RoleAdmin, RoleMaster, false},
		{RoleMaster, RoleUser, true},
		{RoleMaster, RoleAdmin, true},
		{RoleMaster, RoleMaster, false},
		{"bogus", RoleUser, false},
	}

	for _, tt := range tests {
		if got := CanActOn(tt.actor, tt.target); got != tt.want {
			t.Errorf("CanActOn(%q, %q) = %v, want %v",
				tt.actor, tt.target, got, tt.want)
		}
	}
}

func TestValidRole(t *testing.T) {
	for _, role := range []string{RoleUser, RoleAdmin, RoleMaster} {
		if !ValidRole(role) {
			t.Errorf("ValidRole(%q) = false", role)
		}
	}
	for _, role := range []string{"", "superuser", "Master"} {
		if ValidRole(role) {
			t.Errorf("ValidRole(%q) = true", role)
		}
	}
}
