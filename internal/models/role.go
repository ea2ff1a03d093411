package models

// UserRole identifies the set of privileges granted to a user.
type UserRole string

const (
	// RoleUser is the role assigned on self-registration.
	RoleUser UserRole = "ROLE_USER"
	// RoleAdmin can do everything RoleUser can and is never self-registered.
	RoleAdmin UserRole = "ROLE_ADMIN"
)

// Privilege names a single operation a role may perform.
type Privilege string

const (
	// ViewTodos allows listing todos.
	ViewTodos Privilege = "VIEW_TODOS"
	// CreateTodos allows creating todos.
	CreateTodos Privilege = "CREATE_TODOS"
	// UpdateTodos allows updating todos.
	UpdateTodos Privilege = "UPDATE_TODOS"
	// DeleteTodos allows deleting todos.
	DeleteTodos Privilege = "DELETE_TODOS"
)

var rolePrivileges = map[UserRole][]Privilege{
	RoleUser:  {ViewTodos, CreateTodos, UpdateTodos, DeleteTodos},
	RoleAdmin: {ViewTodos, CreateTodos, UpdateTodos, DeleteTodos},
}

// Privileges returns the privileges granted to r. Unknown roles get none.
func (r UserRole) Privileges() []Privilege {
	src := rolePrivileges[r]
	out := make([]Privilege, len(src))
	copy(out, src)
	return out
}

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	_, ok := rolePrivileges[r]
	return ok
}

// Authorities renders r's privileges the way /api/me returns them.
func (r UserRole) Authorities() []Authority {
	privs := rolePrivileges[r]
	out := make([]Authority, 0, len(privs))
	for _, p := range privs {
		out = append(out, Authority{Authority: string(p)})
	}
	return out
}
