package domain

// User roles as reported by the external auth service.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the acting identity resolved from the auth token.
type User struct {
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	IsManager bool   `json:"is_manager"`
}

// IsAdmin reports whether the user may run admin-gated operations
// (archive, restore, permanent delete, status rename).
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserAccount is a stored portal account. Unlike User, which is the
// acting identity resolved from a token, an account is a record the
// admin user directory manages through the entity service.
type UserAccount struct {
	Meta
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	IsManager bool   `json:"is_manager"`
}
