package access

type AccessState string

const (
	AccessTrial   AccessState = "trial"
	AccessFull    AccessState = "full"
	AccessLimited AccessState = "limited"
	AccessLocked  AccessState = "locked"
)

type Capability string

const (
	CapEdit         Capability = "edit"
	CapUpload       Capability = "upload"
	CapImportExport Capability = "import_export"
	CapAIExtraction Capability = "ai_extraction"
	CapTeams        Capability = "teams"
)

type EditorMode string

const (
	EditorFull     EditorMode = "full"
	EditorReadOnly EditorMode = "read_only"
)

// ContextKey is where the capability middleware stores the request's Policy.
const ContextKey = "access.policy"
