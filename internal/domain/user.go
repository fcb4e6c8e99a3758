package domain

// Role is the access level resolved by the external auth collaborator.
type Role string

// Roles.
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// Identity is what the auth boundary hands us per request: who the caller
// is and what they may do. The engine never inspects credentials itself.
type Identity struct {
	UserID string `json:"user_id"`
	Role   Role   `json:"role"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}

// CanViewStats reports whether the identity may read the given user's
// statistics: the owning user or an admin.
func (i Identity) CanViewStats(userID string) bool {
	return i.UserID == userID || i.IsAdmin()
}
