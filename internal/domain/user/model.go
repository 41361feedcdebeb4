package user

import "slices"

const RoleAdmin = "admin"

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID  string
	TokenID string
	Roles   []string
}

func (p Principal) HasRole(role string) bool {
	return slices.Contains(p.Roles, role)
}
