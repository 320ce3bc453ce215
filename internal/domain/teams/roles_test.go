package teams

import "testing"

func TestCan(t *testing.T) {
	tests := []struct {
		role   Role
		action Action
		want   bool
	}{
		{"", ActionManageMember, true},
		{RoleAdmin, ActionManageTeam, true},
		{RoleManager, ActionBulk, true},
		{RoleManager, ActionManageMember, false},
		{RoleMember, ActionWrite, true},
		{RoleMember, ActionBulk, false},
		{Role("guest"), ActionRead, false},
	}
	for _, tt := range tests {
		if got := Can(tt.role, tt.action); got != tt.want {
			t.Errorf("Can(%q, %q) = %v, want %v", tt.role, tt.action, got, tt.want)
		}
	}
}

func TestMakeSlug(t *testing.T) {
	tests := map[string]string{
		"Fily Box Récords":   "fily-box-records",
		"  --Hello   World":  "hello-world",
		"¡¡¡":                "team",
		"Sello_Discográfico": "sello-discografico",
	}
	for in, want := range tests {
		if got := MakeSlug(in); got != want {
			t.Errorf("MakeSlug(%q) = %q, want %q", in, got, want)
		}
	}
}
