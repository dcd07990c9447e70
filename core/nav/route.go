// Package nav holds the navigation core: the route guard evaluated before a
// target renders, and the dispatcher mapping roles to their home pages.
package nav

type (
	// Route is the navigation target's guard-relevant metadata.
	Route struct {
		Name string
		Path string
		// Login marks the login page; an already-identified user
		// navigating to it is sent to their role home instead.
		Login        bool
		RequiresAuth bool
		// RequiredRole gates the target to one role. Empty means any
		// identified user may enter.
		RequiredRole string
	}

	Action int

	// Decision is a guard verdict: one terminal state per navigation
	// attempt, no retries, nothing cached across attempts.
	Decision struct {
		Action      Action
		Destination string // redirect target path, empty on Admit
	}
)

const (
	Admit Action = iota
	RedirectLogin
	RedirectHome
)

func (a Action) String() string {
	switch a {
	case Admit:
		return "admit"
	case RedirectLogin:
		return "redirect-to-login"
	case RedirectHome:
		return "redirect-to-role-home"
	}
	return "unknown"
}
