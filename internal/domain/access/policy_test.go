package access

import (
	"testing"
	"time"

	"contracts-app/internal/domain/plans"
	"contracts-app/internal/domain/users"
)

func ptr[T any](v T) *T { return &v }

func TestComputePolicy(t *testing.T) {
	now := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	pro := &plans.Plan{Tier: plans.TierProfessional}
	essential := &plans.Plan{Tier: plans.TierEssential}

	tests := []struct {
		name      string
		user      users.User
		wantState AccessState
		has       []Capability
		lacks     []Capability
	}{
		{
			name:      "trial",
			user:      users.User{TrialEndAt: ptr(now.Add(24 * time.Hour))},
			wantState: AccessTrial,
			has:       []Capability{CapEdit, CapAIExtraction},
			lacks:     []Capability{CapTeams},
		},
		{
			name:      "expired trial without subscription",
			user:      users.User{TrialEndAt: ptr(now.Add(-time.Hour))},
			wantState: AccessLocked,
			lacks:     []Capability{CapEdit},
		},
		{
			name:      "active professional",
			user:      users.User{SubscriptionId: ptr("sub_1"), StripeSubscriptionStatus: ptr("active"), Plan: pro},
			wantState: AccessFull,
			has:       []Capability{CapEdit, CapImportExport, CapTeams},
		},
		{
			name:      "active essential",
			user:      users.User{SubscriptionId: ptr("sub_1"), StripeSubscriptionStatus: ptr("active"), Plan: essential},
			wantState: AccessFull,
			has:       []Capability{CapImportExport},
			lacks:     []Capability{CapTeams},
		},
		{
			name:      "past due",
			user:      users.User{SubscriptionId: ptr("sub_1"), StripeSubscriptionStatus: ptr("past_due"), Plan: pro},
			wantState: AccessLimited,
			has:       []Capability{CapEdit, CapUpload},
			lacks:     []Capability{CapImportExport, CapAIExtraction},
		},
		{
			name: "canceled but paid through",
			user: users.User{
				SubscriptionId:           ptr("sub_1"),
				StripeSubscriptionStatus: ptr("canceled"),
				CurrentPeriodEnd:         ptr(now.Add(48 * time.Hour)),
			},
			wantState: AccessFull,
		},
		{
			name:      "canceled and lapsed",
			user:      users.User{SubscriptionId: ptr("sub_1"), StripeSubscriptionStatus: ptr("canceled")},
			wantState: AccessLocked,
		},
		{
			name:      "admin",
			user:      users.User{Role: users.RoleAdmin},
			wantState: AccessFull,
			has:       []Capability{CapEdit},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := ComputePolicy(now, tt.user)
			if p.State != tt.wantState {
				t.Fatalf("state = %q, want %q", p.State, tt.wantState)
			}
			for _, c := range tt.has {
				if !p.Has(c) {
					t.Errorf("expected capability %q in %v", c, p.Capabilities)
				}
			}
			for _, c := range tt.lacks {
				if p.Has(c) {
					t.Errorf("unexpected capability %q in %v", c, p.Capabilities)
				}
			}
		})
	}
}

func TestEditorModeFromState(t *testing.T) {
	if EditorModeFromState(AccessLocked) != EditorReadOnly {
		t.Error("locked should be read only")
	}
	if EditorModeFromState(AccessLimited) != EditorFull {
		t.Error("limited keeps the editor")
	}
}
