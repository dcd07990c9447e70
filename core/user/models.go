package user

// Roles. The set is closed: a value outside of it has no home page and the
// navigation layer treats it as a configuration error.
const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

var AllRoles = []Role{RoleAdmin, RoleTeacher, RoleStudent}

type Role string

func (r Role) Known() bool {
	for _, role := range AllRoles {
		if r == role {
			return true
		}
	}
	return false
}

func (r Role) String() string {
	return string(r)
}

// Identity is the minimal who-is-this record carried by the session record,
// the remembered-identity record and the transient current-user marker.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// User is the result of a successful login.
type User struct {
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	DisplayName string `json:"display_name"`
}

func (u User) Identity() Identity {
	return Identity{Username: u.Username, Role: u.Role}
}
