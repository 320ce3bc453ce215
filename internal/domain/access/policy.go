package access

import (
	"slices"
	"time"

	"contracts-app/internal/domain/users"
)

type Limits struct {
	MaxUploadBytes int64 `json:"max_upload_bytes"`
	MaxImportRows  int   `json:"max_import_rows"`
	MaxTeams       int   `json:"max_teams"`
}

type Policy struct {
	State        AccessState  `json:"state"`
	EditorMode   EditorMode   `json:"editor_mode"`
	Tier         string       `json:"tier"`
	Capabilities []Capability `json:"capabilities"`
	Limits       Limits       `json:"limits"`
}

func (p Policy) Has(c Capability) bool {
	return slices.Contains(p.Capabilities, c)
}

func ComputePolicy(now time.Time, u users.User) Policy {
	state := ComputeEffectiveAccessState(now, u)

	return Policy{
		State:        state,
		EditorMode:   EditorModeFromState(state),
		Tier:         TierOf(u),
		Capabilities: CapabilitiesFor(state, u.Plan),
		Limits:       LimitsFor(state, TierOf(u)),
	}
}

func EditorModeFromState(state AccessState) EditorMode {
	if state == AccessLocked {
		return EditorReadOnly
	}
	return EditorFull
}

func LimitsFor(state AccessState, tier string) Limits {
	switch {
	case state == AccessLocked:
		return Limits{}
	case state == AccessLimited:
		return Limits{MaxUploadBytes: 10 << 20, MaxImportRows: 0, MaxTeams: 0}
	case tier == "advanced":
		return Limits{MaxUploadBytes: 100 << 20, MaxImportRows: 50000, MaxTeams: 10}
	case tier == "professional":
		return Limits{MaxUploadBytes: 50 << 20, MaxImportRows: 10000, MaxTeams: 3}
	default:
		return Limits{MaxUploadBytes: 25 << 20, MaxImportRows: 2000, MaxTeams: 1}
	}
}
