package session

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
	"github.com/LithiumValproate/Freshman-3rd/storage"
)

// Service owns the session lifecycle: one active session record with a fixed
// TTL in the persistent store, a transient current-user marker in the
// process-scoped store, and an independent remembered-identity record.
//
// Expiry is lazy: it is only enforced when the session is queried. There is
// no background timer, so a session can observably outlive its expiry instant
// until the next check.
type Service struct {
	store  storage.KV // persistent records: session, remembered identity
	cache  storage.KV // transient current-user marker
	ttl    time.Duration
	logger core.Logger

	now func() time.Time // mockable
}

func NewService(conf *core.Config, store, cache storage.KV, logger core.Logger) *Service {
	return &Service{
		store:  store,
		cache:  cache,
		ttl:    conf.SessionTTL,
		logger: logger,
		now:    time.Now,
	}
}

// Create issues a new session for the user, overwriting any existing one, and
// refreshes the transient current-user marker. The marker is a convenience
// cache for display purposes, never a second source of truth.
func (s *Service) Create(ctx context.Context, ident user.Identity) (Session, error) {
	now := s.now().UTC()
	sess := Session{
		ID:        uuid.NewString(),
		Username:  ident.Username,
		Role:      ident.Role,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.ttl),
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return Session{}, errors.Wrap(err, "marshalling session record")
	}
	if err = s.store.Set(ctx, storage.KeySession, data); err != nil {
		return Session{}, errors.Wrap(err, "storing session record")
	}

	marker, err := json.Marshal(ident)
	if err != nil {
		return Session{}, errors.Wrap(err, "marshalling current-user marker")
	}
	if err = s.cache.Set(ctx, storage.KeyCurrentUser, marker); err != nil {
		return Session{}, errors.Wrap(err, "storing current-user marker")
	}

	s.logger.Info("session created", ident, "session_id", sess.ID)
	return sess, nil
}

// Remember saves the identity for login-form prefill. Independent of Create.
func (s *Service) Remember(ctx context.Context, ident user.Identity) (RememberedIdentity, error) {
	rec := RememberedIdentity{
		Username: ident.Username,
		Role:     ident.Role,
		SavedAt:  s.now().UTC(),
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return RememberedIdentity{}, errors.Wrap(err, "marshalling remembered-identity record")
	}
	if err = s.store.Set(ctx, storage.KeyRememberedUser, data); err != nil {
		return RememberedIdentity{}, errors.Wrap(err, "storing remembered-identity record")
	}
	return rec, nil
}

// ForgetRemembered deletes the remembered-identity record. Invoked whenever
// the user explicitly opts out of being remembered.
func (s *Service) ForgetRemembered(ctx context.Context) error {
	return errors.Wrap(s.store.Delete(ctx, storage.KeyRememberedUser), "deleting remembered-identity record")
}

// Remembered returns the remembered identity, or nil if none is saved.
// A record that fails to decode is deleted and reported as absent.
func (s *Service) Remembered(ctx context.Context) (*RememberedIdentity, error) {
	data, err := s.store.Get(ctx, storage.KeyRememberedUser)
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return nil, nil
		}
		return nil, errors.Wrap(err, "reading remembered-identity record")
	}

	rec, err := decodeRemembered(data)
	if err != nil {
		s.logger.Warn("corrupted remembered-identity record purged", "error", err.Error())
		if err = s.store.Delete(ctx, storage.KeyRememberedUser); err != nil {
			return nil, errors.Wrap(err, "purging corrupted remembered-identity record")
		}
		return nil, nil
	}
	return &rec, nil
}

// Logout deletes the session record and the transient marker. The remembered
// identity survives; remembering a username across logouts is intentional.
func (s *Service) Logout(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeySession); err != nil {
		return errors.Wrap(err, "deleting session record")
	}
	return errors.Wrap(s.cache.Delete(ctx, storage.KeyCurrentUser), "deleting current-user marker")
}

// Status reports whether a valid (present, parseable, non-expired) session
// exists. Stale and corrupted records are purged as a side effect, so
// repeated calls are idempotent.
func (s *Service) Status(ctx context.Context) (Status, error) {
	data, err := s.store.Get(ctx, storage.KeySession)
	if err != nil {
		if errors.Cause(err) == storage.ErrNotFound {
			return Status{}, nil
		}
		return Status{}, errors.Wrap(err, "reading session record")
	}

	sess, err := decodeSession(data)
	if err != nil {
		s.logger.Warn("corrupted session record purged", "error", err.Error())
		if err = s.purgeSession(ctx); err != nil {
			return Status{}, err
		}
		return Status{}, nil
	}

	if sess.Expired(s.now()) {
		if err = s.purgeSession(ctx); err != nil {
			return Status{}, err
		}
		return Status{}, nil
	}

	ident := sess.Identity()
	return Status{IsLoggedIn: true, User: &ident}, nil
}

func (s *Service) purgeSession(ctx context.Context) error {
	if err := s.store.Delete(ctx, storage.KeySession); err != nil {
		return errors.Wrap(err, "purging session record")
	}
	return errors.Wrap(s.cache.Delete(ctx, storage.KeyCurrentUser), "purging current-user marker")
}

// ActiveIdentity returns the identity of the valid session, or nil. It is the
// session-authority identity source for the route guard.
func (s *Service) ActiveIdentity(ctx context.Context) (*user.Identity, error) {
	status, err := s.Status(ctx)
	if err != nil || !status.IsLoggedIn {
		return nil, err
	}
	return status.User, nil
}

// RememberedAsIdentity returns the remembered identity, or nil. It is the
// remembered-authority identity source for the route guard.
func (s *Service) RememberedAsIdentity(ctx context.Context) (*user.Identity, error) {
	rec, err := s.Remembered(ctx)
	if err != nil || rec == nil {
		return nil, err
	}
	ident := rec.Identity()
	return &ident, nil
}
