package session

import (
	"context"
	"io"
	"log"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
	logsvc "github.com/LithiumValproate/Freshman-3rd/services/logger"
	"github.com/LithiumValproate/Freshman-3rd/storage"
	"github.com/LithiumValproate/Freshman-3rd/storage/inmemkv"
)

var alice = user.Identity{Username: "alice", Role: user.RoleTeacher}

func setup(t *testing.T) (*Service, storage.KV, storage.KV) {
	t.Helper()
	store := inmemkv.Open()
	cache := inmemkv.Open()
	conf := &core.Config{SessionTTL: 24 * time.Hour}
	svc := NewService(conf, store, cache, logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)))
	return svc, store, cache
}

func assertKeyAbsent(t *testing.T, kv storage.KV, key string) {
	t.Helper()
	_, err := kv.Get(context.Background(), key)
	assert.Equal(t, storage.ErrNotFound, err)
}

func Test_Service_CreateThenStatus(t *testing.T) {
	svc, _, cache := setup(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, sess.IssuedAt.Add(24*time.Hour), sess.ExpiresAt)

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.True(t, status.IsLoggedIn)
	assert.Equal(t, &alice, status.User)

	// the transient marker rides along
	marker, err := cache.Get(ctx, storage.KeyCurrentUser)
	if err != nil {
		t.Fatalf("reading marker failed: %v", err)
	}
	assert.JSONEq(t, `{"username":"alice","role":"teacher"}`, string(marker))
}

func Test_Service_CreateOverwritesPriorSession(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	bob := user.Identity{Username: "bob", Role: user.RoleAdmin}
	if _, err := svc.Create(ctx, bob); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.True(t, status.IsLoggedIn)
	assert.Equal(t, &bob, status.User)
}

func Test_Service_StatusLazyExpiry(t *testing.T) {
	svc, store, cache := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// jump past the expiry instant; expiry is only enforced at query time
	svc.now = func() time.Time { return time.Now().Add(24*time.Hour + time.Minute) }

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.False(t, status.IsLoggedIn)
	assert.Nil(t, status.User)

	// stale record and marker are purged, and repeated calls stay clean
	assertKeyAbsent(t, store, storage.KeySession)
	assertKeyAbsent(t, cache, storage.KeyCurrentUser)

	status, err = svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.False(t, status.IsLoggedIn)
}

func Test_Service_StatusBoundaryInstantExpires(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	sess, err := svc.Create(ctx, alice)
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// now == expiresAt counts as expired
	svc.now = func() time.Time { return sess.ExpiresAt }

	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.False(t, status.IsLoggedIn)
}

func Test_Service_StatusPurgesCorruptedRecord(t *testing.T) {
	svc, store, cache := setup(t)
	ctx := context.Background()

	corrupted := [][]byte{
		[]byte("{not json"),
		[]byte(`{"username":"","role":"teacher","expires_at":"2030-01-01T00:00:00Z"}`),
		[]byte(`{"username":"alice","role":"wizard","expires_at":"2030-01-01T00:00:00Z"}`),
		[]byte(`{"username":"alice","role":"teacher"}`),
	}
	for _, data := range corrupted {
		if err := store.Set(ctx, storage.KeySession, data); err != nil {
			t.Fatalf("seeding store failed: %v", err)
		}

		status, err := svc.Status(ctx)
		if err != nil {
			t.Fatalf("Status() failed: %v", err)
		}
		assert.False(t, status.IsLoggedIn)
		assertKeyAbsent(t, store, storage.KeySession)
		assertKeyAbsent(t, cache, storage.KeyCurrentUser)
	}
}

func Test_Service_RememberAndCreateAreIndependent(t *testing.T) {
	ctx := context.Background()

	// remember only: no session appears
	svc, store, _ := setup(t)
	if _, err := svc.Remember(ctx, alice); err != nil {
		t.Fatalf("Remember() failed: %v", err)
	}
	status, err := svc.Status(ctx)
	if err != nil {
		t.Fatalf("Status() failed: %v", err)
	}
	assert.False(t, status.IsLoggedIn)
	assertKeyAbsent(t, store, storage.KeySession)

	// create only: nothing is remembered
	svc, store, _ = setup(t)
	if _, err := svc.Create(ctx, alice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	rec, err := svc.Remembered(ctx)
	if err != nil {
		t.Fatalf("Remembered() failed: %v", err)
	}
	assert.Nil(t, rec)
	assertKeyAbsent(t, store, storage.KeyRememberedUser)
}

func Test_Service_LogoutKeepsRememberedUser(t *testing.T) {
	svc, store, cache := setup(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, alice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := svc.Remember(ctx, alice); err != nil {
		t.Fatalf("Remember() failed: %v", err)
	}

	if err := svc.Logout(ctx); err != nil {
		t.Fatalf("Logout() failed: %v", err)
	}

	assertKeyAbsent(t, store, storage.KeySession)
	assertKeyAbsent(t, cache, storage.KeyCurrentUser)

	rec, err := svc.Remembered(ctx)
	if err != nil {
		t.Fatalf("Remembered() failed: %v", err)
	}
	if assert.NotNil(t, rec) {
		assert.Equal(t, alice, rec.Identity())
		assert.False(t, rec.SavedAt.IsZero())
	}
}

func Test_Service_ForgetRemembered(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	if _, err := svc.Remember(ctx, alice); err != nil {
		t.Fatalf("Remember() failed: %v", err)
	}
	if err := svc.ForgetRemembered(ctx); err != nil {
		t.Fatalf("ForgetRemembered() failed: %v", err)
	}
	assertKeyAbsent(t, store, storage.KeyRememberedUser)

	// forgetting with nothing remembered is fine
	if err := svc.ForgetRemembered(ctx); err != nil {
		t.Fatalf("ForgetRemembered() failed: %v", err)
	}
}

func Test_Service_RememberedPurgesCorruptedRecord(t *testing.T) {
	svc, store, _ := setup(t)
	ctx := context.Background()

	if err := store.Set(ctx, storage.KeyRememberedUser, []byte("~~")); err != nil {
		t.Fatalf("seeding store failed: %v", err)
	}

	rec, err := svc.Remembered(ctx)
	if err != nil {
		t.Fatalf("Remembered() failed: %v", err)
	}
	assert.Nil(t, rec)
	assertKeyAbsent(t, store, storage.KeyRememberedUser)
}

func Test_Service_identitySources(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	ident, err := svc.ActiveIdentity(ctx)
	if err != nil {
		t.Fatalf("ActiveIdentity() failed: %v", err)
	}
	assert.Nil(t, ident)

	if _, err = svc.Create(ctx, alice); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	ident, err = svc.ActiveIdentity(ctx)
	if err != nil {
		t.Fatalf("ActiveIdentity() failed: %v", err)
	}
	assert.Equal(t, &alice, ident)

	// remembered source is independent of the session
	ident, err = svc.RememberedAsIdentity(ctx)
	if err != nil {
		t.Fatalf("RememberedAsIdentity() failed: %v", err)
	}
	assert.Nil(t, ident)

	if _, err = svc.Remember(ctx, alice); err != nil {
		t.Fatalf("Remember() failed: %v", err)
	}
	ident, err = svc.RememberedAsIdentity(ctx)
	if err != nil {
		t.Fatalf("RememberedAsIdentity() failed: %v", err)
	}
	assert.Equal(t, &alice, ident)
}
