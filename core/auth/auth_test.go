package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

func newTestAcceptor(delay time.Duration) *Acceptor {
	return NewAcceptor(&core.Config{LoginDelay: delay})
}

func Test_Acceptor_ValidateLogin(t *testing.T) {
	tests := []struct {
		name        string
		creds       Credentials
		wantSuccess bool
		wantMessage string
	}{
		{
			name:        "empty username fails fast",
			creds:       Credentials{Username: "", Password: "pw", Role: user.RoleStudent},
			wantMessage: "username and password are required",
		},
		{
			name:        "whitespace-only username fails fast",
			creds:       Credentials{Username: "   \t", Password: "pw", Role: user.RoleStudent},
			wantMessage: "username and password are required",
		},
		{
			name:        "empty password fails fast",
			creds:       Credentials{Username: "alice", Password: "", Role: user.RoleTeacher},
			wantMessage: "username and password are required",
		},
		{
			name:        "whitespace-only password fails fast",
			creds:       Credentials{Username: "alice", Password: "  ", Role: user.RoleTeacher},
			wantMessage: "username and password are required",
		},
		// the documented permissive policy: any non-blank pair succeeds
		{
			name:        "any credentials accepted",
			creds:       Credentials{Username: "alice", Password: "pw1", Role: user.RoleTeacher},
			wantSuccess: true,
		},
		{
			name:        "content is not verified",
			creds:       Credentials{Username: "nobody", Password: "wrong password", Role: user.RoleAdmin},
			wantSuccess: true,
		},
		{
			name:        "unicode credentials accepted",
			creds:       Credentials{Username: "王小明", Password: "密码", Role: user.RoleStudent},
			wantSuccess: true,
		},
		{
			name:        "surrounding whitespace is trimmed",
			creds:       Credentials{Username: "  bob ", Password: " pw ", Role: user.RoleStudent},
			wantSuccess: true,
		},
	}

	a := newTestAcceptor(0)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := a.ValidateLogin(tt.creds)
			if err != nil {
				t.Fatalf("ValidateLogin() failed: %v", err)
			}
			assert.Equal(t, tt.wantSuccess, res.Success)
			if tt.wantSuccess {
				if assert.NotNil(t, res.User) {
					assert.Equal(t, tt.creds.Role, res.User.Role)
					assert.Equal(t, res.User.Username, res.User.DisplayName)
					assert.Equal(t, res.User.Username, core.CleanString(tt.creds.Username))
				}
				assert.Empty(t, res.Message)
			} else {
				assert.Nil(t, res.User)
				assert.Equal(t, tt.wantMessage, res.Message)
			}
		})
	}
}

func Test_Acceptor_singleAttemptInFlight(t *testing.T) {
	a := newTestAcceptor(100 * time.Millisecond)
	creds := Credentials{Username: "alice", Password: "pw", Role: user.RoleTeacher}

	started := make(chan struct{})
	done := make(chan Result, 1)
	go func() {
		close(started)
		res, err := a.ValidateLogin(creds)
		if err != nil {
			t.Errorf("ValidateLogin() failed: %v", err)
		}
		done <- res
	}()

	<-started
	time.Sleep(20 * time.Millisecond) // let the first attempt reach its suspension point

	_, err := a.ValidateLogin(creds)
	assert.Equal(t, ErrLoginInFlight, err)

	res := <-done
	assert.True(t, res.Success)

	// the gate reopens once the first attempt completes
	res, err = a.ValidateLogin(creds)
	if err != nil {
		t.Fatalf("ValidateLogin() failed: %v", err)
	}
	assert.True(t, res.Success)
}
