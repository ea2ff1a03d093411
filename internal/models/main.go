// Package models defines the core data structures shared by the client and
// the reference backend: users, profiles and to-do items.
package models

// User represents an application user with credentials.
type User struct {
	// ID is the unique identifier for the user.
	ID int64
	// Email is the login name chosen by the user.
	Email string
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash []byte
	// Role is the role the user was registered with.
	Role UserRole
}

// Todo is a single to-do item owned by one user.
type Todo struct {
	// ID is assigned by the backend. Zero means the item has not been created yet.
	ID int64 `json:"id,omitempty"`
	// Description is the free-form text of the item.
	Description string `json:"description"`
	// DueDate is the calendar day the item is due.
	DueDate Date `json:"dueDate"`
	// CheckMark reports whether the item is done.
	CheckMark bool `json:"checkMark"`
	// CompletionDate is set by the backend when CheckMark becomes true.
	CompletionDate *Date `json:"completionDate,omitempty"`
}

// Credentials is the JSON payload for login and registration.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the bearer token issued on login.
type LoginResponse struct {
	Token string `json:"token"`
}

// IDs is the JSON payload for bulk deletion.
type IDs struct {
	IDs []int64 `json:"ids"`
}

// Authority is a single granted privilege as rendered by /api/me.
type Authority struct {
	Authority string `json:"authority"`
}

// UserProfile describes the authenticated user.
type UserProfile struct {
	ID         int64       `json:"id"`
	Email      string      `json:"email"`
	UserRole   UserRole    `json:"userRole"`
	Privileges []Authority `json:"privileges"`
}

// HasPrivilege reports whether the profile was granted p.
func (p UserProfile) HasPrivilege(priv Privilege) bool {
	for _, a := range p.Privileges {
		if a.Authority == string(priv) {
			return true
		}
	}
	return false
}
