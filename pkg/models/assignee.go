package models

import "strings"

// AssigneeKind distinguishes a concrete user id from a role name.
type AssigneeKind string

const (
	AssigneeUser AssigneeKind = "user"
	AssigneeRole AssigneeKind = "role"
)

// Assignee is the parsed form of the user-or-role strings that action
// configurations carry. Parsing happens once at the orchestration boundary;
// handlers only ever see the tagged form.
type Assignee struct {
	Kind  AssigneeKind
	Value string
}

// knownRoles bridges legacy configurations that address roles by bare name.
var knownRoles = map[string]struct{}{
	"admin":         {},
	"manager":       {},
	"sales_manager": {},
	"accountant":    {},
	"support":       {},
}

// ParseAssignee classifies a raw assignee string. The explicit "role:" and
// "user:" prefixes always win; bare strings matching a known role name are
// treated as roles, anything else as a user id.
func ParseAssignee(raw string) Assignee {
	if value, ok := strings.CutPrefix(raw, "role:"); ok {
		return Assignee{Kind: AssigneeRole, Value: value}
	}

	if value, ok := strings.CutPrefix(raw, "user:"); ok {
		return Assignee{Kind: AssigneeUser, Value: value}
	}

	if _, ok := knownRoles[raw]; ok {
		return Assignee{Kind: AssigneeRole, Value: raw}
	}

	return Assignee{Kind: AssigneeUser, Value: raw}
}

// IsRole reports whether the assignee addresses a role.
func (a Assignee) IsRole() bool {
	return a.Kind == AssigneeRole
}
