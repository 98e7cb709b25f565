package core

import (
	"errors"
	"testing"
)

// Requirement: ParseRole accepts exactly the three backend role tags.
func TestParseRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{name: "donor", input: "donor", want: RoleDonor},
		{name: "ong", input: "ong", want: RoleONG},
		{name: "admin", input: "admin", want: RoleAdmin},
		{name: "empty", input: "", wantErr: true},
		{name: "capitalized", input: "Donor", wantErr: true},
		{name: "unknown", input: "authenticated", wantErr: true},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			got, err := ParseRole(test.input)

			if test.wantErr {
				if !errors.Is(err, ErrUnknownRole) {
					t.Errorf("ParseRole(%q) error = %v, want ErrUnknownRole", test.input, err)
				}
				return
			}
			if err != nil || got != test.want {
				t.Errorf("ParseRole(%q) = %q, %v, want %q", test.input, got, err, test.want)
			}
		})
	}
}

// Requirement: each role maps to its own dashboard entry point and
// role-assignment name.
func TestRole_Mappings(t *testing.T) {
	tests := []struct {
		role           Role
		wantDashboard  string
		wantAssignment string
	}{
		{role: RoleDonor, wantDashboard: "/dashboard/donor", wantAssignment: "Donor"},
		{role: RoleONG, wantDashboard: "/dashboard/ong", wantAssignment: "Ong"},
		{role: RoleAdmin, wantDashboard: "/dashboard/admin", wantAssignment: "Admin"},
		{role: Role("nope"), wantDashboard: "", wantAssignment: ""},
	}

	for _, test := range tests {
		t.Run(string(test.role), func(t *testing.T) {
			if got := test.role.DashboardPath(); got != test.wantDashboard {
				t.Errorf("DashboardPath() = %q, want %q", got, test.wantDashboard)
			}
			if got := test.role.AssignmentName(); got != test.wantAssignment {
				t.Errorf("AssignmentName() = %q, want %q", got, test.wantAssignment)
			}
		})
	}
}

// Requirement: the donation status enum is closed.
func TestDonationStatus_Valid(t *testing.T) {
	for _, status := range []DonationStatus{StatusPending, StatusSent, StatusDelivered} {
		if !status.Valid() {
			t.Errorf("%q should be valid", status)
		}
	}
	if DonationStatus("Cancelada").Valid() {
		t.Error("unknown status should be invalid")
	}
}
