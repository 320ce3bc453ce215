package access

import (
	"contracts-app/internal/domain/plans"
)

func CapabilitiesFor(state AccessState, plan *plans.Plan) []Capability {
	switch state {
	case AccessLocked:
		return []Capability{}
	case AccessLimited:
		return []Capability{CapEdit, CapUpload}
	}

	caps := []Capability{CapEdit, CapUpload, CapImportExport, CapAIExtraction}
	if plans.AtLeast(plan, plans.TierProfessional) {
		caps = append(caps, CapTeams)
	}
	return caps
}
