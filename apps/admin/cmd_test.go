package main

import (
	"bytes"
	"context"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/LithiumValproate/Freshman-3rd/core"
	"github.com/LithiumValproate/Freshman-3rd/core/auth"
	"github.com/LithiumValproate/Freshman-3rd/core/session"
	logsvc "github.com/LithiumValproate/Freshman-3rd/services/logger"
	"github.com/LithiumValproate/Freshman-3rd/storage/inmemkv"
)

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	t.Helper()

	conf := &core.Config{SessionTTL: 24 * time.Hour}
	sessSvc := session.NewService(
		conf, inmemkv.Open(), inmemkv.Open(),
		logsvc.NewConsoleLogger(log.New(io.Discard, "", 0)),
	)

	out := &bytes.Buffer{}
	cli := &commandLine{
		acceptor: auth.NewAcceptor(conf),
		sessSvc:  sessSvc,
		out:      out,
	}
	return cli, out
}

type cliTest struct {
	name       string
	args       []string // without program name
	password   string
	wantErr    error
	wantErrStr string
	wantOut    string
}

func Test_commandLine_run(t *testing.T) {
	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "login: no username", args: []string{"login"}, wantErr: errHelp},
		{name: "login: unknown role", args: []string{"login", "-username", "awe", "-role", "wizard"}, password: "mdr", wantErrStr: `unknown role "wizard"`},
		{name: "login: blank password", args: []string{"login", "-username", "awe"}, password: "  ", wantErrStr: "username and password are required"},
		{name: "login", args: []string{"login", "-username", "awe", "-role", "teacher"}, password: "mdr", wantOut: "logged in as awe (teacher)"},
		{name: "session", args: []string{"session"}, wantOut: "logged in as awe (teacher)"},
		{name: "logout", args: []string{"logout"}},
		{name: "session after logout", args: []string{"session"}, wantOut: "not logged in"},
	}

	cli, out := setup(t)
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		readPasswordFunc = func(fd int) ([]byte, error) {
			return []byte(tt.password), nil
		}

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()

			err := cli.run(args)
			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
				}
				return
			}
			if tt.wantErrStr != "" {
				if err == nil || err.Error() != tt.wantErrStr {
					t.Errorf("cli.run() error = %v, wantErrStr %s", err, tt.wantErrStr)
				}
				return
			}
			if err != nil {
				t.Fatalf("cli.run() unexpected error = %v", err)
			}
			if tt.wantOut != "" && !strings.Contains(out.String(), tt.wantOut) {
				t.Errorf("cli.run() output = %q, want it to contain %q", out.String(), tt.wantOut)
			}
		})
	}
}

func Test_commandLine_rememberedUser(t *testing.T) {
	cli, out := setup(t)

	readPasswordFunc = func(fd int) ([]byte, error) {
		return []byte("mdr"), nil
	}

	if err := cli.run([]string{"admin", "login", "-username", "awe", "-role", "student", "-remember"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	// the remembered record survives logout
	if err := cli.run([]string{"admin", "logout"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	out.Reset()
	if err := cli.run([]string{"admin", "session"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	if !strings.Contains(out.String(), "remembered user: awe (student)") {
		t.Errorf("cli.run() output = %q, want remembered user", out.String())
	}

	// forget drops it
	if err := cli.run([]string{"admin", "forget"}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}
	rec, err := cli.sessSvc.Remembered(context.Background())
	if err != nil {
		t.Fatalf("Remembered() failed: %v", err)
	}
	if rec != nil {
		t.Errorf("Remembered() = %+v, want nil", rec)
	}
}
