package nav

import (
	"context"

	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

// Authority selects which persisted record the guard treats as the identity
// of record. The two postures observed in the field are kept as explicit,
// never-merged configurations:
//
//   - AuthoritySession (default): only a valid, non-expired session counts.
//   - AuthorityRemembered: the remembered-identity record alone decides, ie.
//     "remembered" is conflated with "authenticated". A known permissive
//     design choice, selectable per deployment, not a bug to silently fix.
type Authority string

const (
	AuthoritySession    Authority = "session"
	AuthorityRemembered Authority = "remembered"
)

// IdentitySource yields the current persisted identity, nil when absent.
// Implementations purge corrupted records as a side effect of reading them.
type IdentitySource interface {
	ActiveIdentity(ctx context.Context) (*user.Identity, error)
	RememberedAsIdentity(ctx context.Context) (*user.Identity, error)
}

// Guard decides admit / redirect for every navigation attempt. Each attempt
// is evaluated from fresh persisted state.
type Guard struct {
	source     IdentitySource
	dispatcher *Dispatcher
	authority  Authority
	loginPath  string
	logger     core.Logger
}

func NewGuard(conf *core.Config, source IdentitySource, dispatcher *Dispatcher, loginPath string, logger core.Logger) (*Guard, error) {
	authority := Authority(conf.Guard.Authority)
	switch authority {
	case AuthoritySession, AuthorityRemembered:
	default:
		return nil, core.NewConfigError("unknown guard authority %q", conf.Guard.Authority)
	}
	return &Guard{
		source:     source,
		dispatcher: dispatcher,
		authority:  authority,
		loginPath:  loginPath,
		logger:     logger,
	}, nil
}

// Evaluate runs the guard state machine for one navigation attempt.
// A returned error is a configuration error and must halt the navigation;
// it is never a substitute for a redirect.
func (g *Guard) Evaluate(ctx context.Context, target Route) (Decision, error) {
	// a required role outside the dispatcher's mapping is malformed
	// configuration, regardless of who is navigating
	if target.RequiresAuth && target.RequiredRole != "" {
		if _, err := g.dispatcher.DestinationFor(user.Role(target.RequiredRole)); err != nil {
			return Decision{}, errors.Wrapf(err, "route %q", target.Name)
		}
	}

	ident, err := g.identity(ctx)
	if err != nil {
		return Decision{}, errors.Wrap(err, "resolving identity")
	}

	if !target.RequiresAuth {
		if target.Login && ident != nil {
			// do not re-render login for an already-identified user
			return g.redirectHome(*ident)
		}
		return Decision{Action: Admit}, nil
	}

	if ident == nil {
		return Decision{Action: RedirectLogin, Destination: g.loginPath}, nil
	}

	if target.RequiredRole == "" || string(ident.Role) == target.RequiredRole {
		return Decision{Action: Admit}, nil
	}

	// identified but misrouted: send to their own home, never to login
	return g.redirectHome(*ident)
}

func (g *Guard) redirectHome(ident user.Identity) (Decision, error) {
	dest, err := g.dispatcher.DestinationFor(ident.Role)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Action: RedirectHome, Destination: dest}, nil
}

func (g *Guard) identity(ctx context.Context) (*user.Identity, error) {
	if g.authority == AuthorityRemembered {
		return g.source.RememberedAsIdentity(ctx)
	}
	return g.source.ActiveIdentity(ctx)
}
