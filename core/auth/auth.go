package auth

import (
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

// ErrLoginInFlight is returned when a login attempt is submitted while a
// previous one is still pending. Attempts cannot be cancelled once submitted;
// callers keep their submit control disabled until the result comes back.
var ErrLoginInFlight = errors.New("a login attempt is already in flight")

const msgCredentialsRequired = "username and password are required"

type (
	Credentials struct {
		Username string    `json:"username"`
		Password string    `json:"password"`
		Role     user.Role `json:"role"`
	}

	// Result is the outcome of a login attempt. Message is user-facing and
	// only set on failure.
	Result struct {
		Success bool       `json:"success"`
		User    *user.User `json:"user,omitempty"`
		Message string     `json:"message,omitempty"`
	}
)

// Acceptor validates login credentials.
//
// The current policy is deliberately permissive: both fields must be non-empty
// after trimming, and once they are, any username/password pair is accepted.
// No credential verification happens here; a verifying implementation can
// replace this type without touching its callers.
type Acceptor struct {
	delay    time.Duration
	inFlight int32
}

func NewAcceptor(conf *core.Config) *Acceptor {
	return &Acceptor{delay: conf.LoginDelay}
}

// ValidateLogin checks the credential tuple and returns the outcome. It has no
// persistence side effect; creating the session is the caller's job.
// Only one attempt may be in flight at a time; concurrent submissions get
// ErrLoginInFlight.
func (a *Acceptor) ValidateLogin(creds Credentials) (Result, error) {
	if !atomic.CompareAndSwapInt32(&a.inFlight, 0, 1) {
		return Result{}, ErrLoginInFlight
	}
	defer atomic.StoreInt32(&a.inFlight, 0)

	uname := core.CleanString(creds.Username)
	pwd := core.CleanString(creds.Password)
	if uname == "" || pwd == "" {
		// fail fast: no suspension, no side effect
		return Result{Success: false, Message: msgCredentialsRequired}, nil
	}

	// simulated verification latency; the suspension point of the attempt
	if a.delay > 0 {
		time.Sleep(a.delay)
	}

	return Result{
		Success: true,
		User: &user.User{
			Username:    uname,
			Role:        creds.Role,
			DisplayName: uname,
		},
	}, nil
}
