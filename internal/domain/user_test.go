package domain

import "testing"

func TestParseRole(t *testing.T) {
	for raw, want := range map[string]Role{
		"customer": RoleCustomer,
		"Agent":    RoleAgent,
		"ENGINEER": RoleEngineer,
		" manager": RoleManager,
		"admin":    RoleAdmin,
	} {
		got, err := ParseRole(raw)
		if err != nil {
			t.Fatalf("ParseRole(%q): %v", raw, err)
		}
		if got != want {
			t.Fatalf("ParseRole(%q) = %s, want %s", raw, got, want)
		}
	}

	if _, err := ParseRole("superuser"); err == nil {
		t.Fatalf("unknown role must fail")
	}
}

func TestIsStaff(t *testing.T) {
	if RoleCustomer.IsStaff() {
		t.Fatalf("customers are not staff")
	}
	for _, role := range []Role{RoleAgent, RoleEngineer, RoleManager, RoleAdmin} {
		if !role.IsStaff() {
			t.Fatalf("%s should be staff", role)
		}
	}
}
