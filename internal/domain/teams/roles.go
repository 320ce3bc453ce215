package teams

type Role string

const (
	RoleMember  Role = "member"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

type Action string

const (
	ActionRead         Action = "read"
	ActionWrite        Action = "write"
	ActionBulk         Action = "bulk"
	ActionManageTeam   Action = "manage_team"
	ActionManageMember Action = "manage_members"
)

// Can reports whether a team role may perform action. An empty role means
// the personal workspace, where the user owns everything.
func Can(role Role, action Action) bool {
	switch role {
	case "", RoleAdmin:
		return true
	case RoleManager:
		return action == ActionRead || action == ActionWrite || action == ActionBulk
	case RoleMember:
		return action == ActionRead || action == ActionWrite
	default:
		return false
	}
}

func NormalizeRole(role string) (Role, bool) {
	switch Role(role) {
	case RoleMember, RoleManager, RoleAdmin:
		return Role(role), true
	default:
		return "", false
	}
}
