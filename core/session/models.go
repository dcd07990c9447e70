package session

import (
	"encoding/json"
	"time"

	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

type (
	// Session is the time-bounded proof of a completed login. At most one
	// exists in the store at a time; creating a new one overwrites it.
	Session struct {
		ID        string    `json:"id"`
		Username  string    `json:"username"`
		Role      user.Role `json:"role"`
		IssuedAt  time.Time `json:"issued_at"`
		ExpiresAt time.Time `json:"expires_at"`
	}

	// RememberedIdentity prefills the login form. It never expires, survives
	// logout, and is not proof of authentication.
	RememberedIdentity struct {
		Username string    `json:"username"`
		Role     user.Role `json:"role"`
		SavedAt  time.Time `json:"saved_at"`
	}

	// Status is the result of a login-status check.
	Status struct {
		IsLoggedIn bool           `json:"is_logged_in"`
		User       *user.Identity `json:"user,omitempty"`
	}
)

// Expired reports whether the session is past its expiry instant.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

func (s Session) Identity() user.Identity {
	return user.Identity{Username: s.Username, Role: s.Role}
}

func (r RememberedIdentity) Identity() user.Identity {
	return user.Identity{Username: r.Username, Role: r.Role}
}

// Stored records are normalized once here, at the read boundary; anything
// that does not decode into a shape the rest of the code can rely on is
// reported as corrupted, not patched up downstream.

func decodeSession(data []byte) (Session, error) {
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return Session{}, errors.Wrap(err, "unmarshalling session record")
	}
	if core.CleanString(s.Username) == "" || !s.Role.Known() || s.ExpiresAt.IsZero() {
		return Session{}, errors.New("malformed session record")
	}
	s.Username = core.CleanString(s.Username)
	return s, nil
}

func decodeRemembered(data []byte) (RememberedIdentity, error) {
	var r RememberedIdentity
	if err := json.Unmarshal(data, &r); err != nil {
		return RememberedIdentity{}, errors.Wrap(err, "unmarshalling remembered-identity record")
	}
	if core.CleanString(r.Username) == "" || !r.Role.Known() {
		return RememberedIdentity{}, errors.New("malformed remembered-identity record")
	}
	r.Username = core.CleanString(r.Username)
	return r, nil
}
