package domain

type Role string

const (
	RoleAuthor   Role = "Author"
	RoleReviewer Role = "Reviewer"
)

// ParseRole maps a persisted role string back to a Role, defaulting to reviewer.
func ParseRole(s string) Role {
	if Role(s) == RoleAuthor {
		return RoleAuthor
	}
	return RoleReviewer
}

// Session is the locally persisted login state.
type Session struct {
	Username string
	Role     Role
}
