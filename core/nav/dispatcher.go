package nav

import (
	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

// Dispatcher maps each role to its home page. The mapping is total over the
// known roles and has no default: an unmapped role is a deployment defect,
// surfaced as a configuration error and never interpreted as admit or deny.
type Dispatcher struct {
	destinations map[user.Role]string
}

// DefaultDestinations is the standard role → page mapping.
func DefaultDestinations() map[user.Role]string {
	return map[user.Role]string{
		user.RoleAdmin:   "/admin",
		user.RoleTeacher: "/teacher",
		user.RoleStudent: "/student",
	}
}

func NewDispatcher(destinations map[user.Role]string) (*Dispatcher, error) {
	for _, role := range user.AllRoles {
		if destinations[role] == "" {
			return nil, core.NewConfigError("no destination mapped for role %q", role)
		}
	}
	return &Dispatcher{destinations: destinations}, nil
}

func (d *Dispatcher) DestinationFor(role user.Role) (string, error) {
	dest, ok := d.destinations[role]
	if !ok {
		return "", core.NewConfigError("no destination mapped for role %q", role)
	}
	return dest, nil
}
