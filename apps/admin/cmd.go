package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"syscall"

	"golang.org/x/term"

	"github.com/LithiumValproate/Freshman-3rd/core/auth"
	"github.com/LithiumValproate/Freshman-3rd/core/session"
	"github.com/LithiumValproate/Freshman-3rd/core/user"
)

var (
	readPasswordFunc = term.ReadPassword // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	acceptor *auth.Acceptor
	sessSvc  *session.Service
	out      io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  session                                    - show the current login status")
	fmt.Fprintln(cli.out, "  login -username USERNAME -role ROLE [-remember] - log in; the password will be prompted")
	fmt.Fprintln(cli.out, "  logout                                     - delete the active session")
	fmt.Fprintln(cli.out, "  forget                                     - delete the remembered user")
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	loginCmd := flag.NewFlagSet("login", flag.ExitOnError)
	loginUname := loginCmd.String("username", "", "The username to log in as. The password will be prompted next.")
	loginRole := loginCmd.String("role", "student", "One of: admin, teacher, student.")
	loginRemember := loginCmd.Bool("remember", false, "Save the identity for login prefill.")

	switch args[1] {
	case "session":
		return cli.showSession()
	case "login":
		if err := loginCmd.Parse(args[2:]); err != nil {
			return err
		}
		if *loginUname == "" {
			loginCmd.Usage()
			return errHelp
		}
		fmt.Fprint(cli.out, "Enter password:")
		pwd, err := readPasswordFunc(syscall.Stdin)
		fmt.Fprintln(cli.out)
		if err != nil {
			return err
		}
		return cli.login(*loginUname, string(pwd), user.Role(*loginRole), *loginRemember)
	case "logout":
		return cli.sessSvc.Logout(context.Background())
	case "forget":
		return cli.sessSvc.ForgetRemembered(context.Background())
	default:
		cli.printUsage()
		return errHelp
	}
}

func (cli *commandLine) showSession() error {
	ctx := context.Background()

	status, err := cli.sessSvc.Status(ctx)
	if err != nil {
		return err
	}
	if status.IsLoggedIn {
		fmt.Fprintf(cli.out, "logged in as %s (%s)\n", status.User.Username, status.User.Role)
	} else {
		fmt.Fprintln(cli.out, "not logged in")
	}

	rec, err := cli.sessSvc.Remembered(ctx)
	if err != nil {
		return err
	}
	if rec != nil {
		fmt.Fprintf(cli.out, "remembered user: %s (%s)\n", rec.Username, rec.Role)
	}
	return nil
}

func (cli *commandLine) login(uname, pwd string, role user.Role, remember bool) error {
	if !role.Known() {
		return fmt.Errorf("unknown role %q", role)
	}

	res, err := cli.acceptor.ValidateLogin(auth.Credentials{Username: uname, Password: pwd, Role: role})
	if err != nil {
		return err
	}
	if !res.Success {
		return errors.New(res.Message)
	}

	ctx := context.Background()
	ident := res.User.Identity()
	sess, err := cli.sessSvc.Create(ctx, ident)
	if err != nil {
		return err
	}
	if remember {
		if _, err = cli.sessSvc.Remember(ctx, ident); err != nil {
			return err
		}
	}

	fmt.Fprintf(cli.out, "logged in as %s (%s), session expires %s\n", ident.Username, ident.Role, sess.ExpiresAt)
	return nil
}
