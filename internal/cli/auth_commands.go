package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/session"
)

func (a *app) login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *email == "" {
		return fmt.Errorf("login requires -email")
	}

	ctx := context.Background()
	if err := a.requireAnonymous(ctx); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		var err error
		if pw, err = a.readPassword("Password: "); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	user, err := a.client.Auth.Login(ctx, *email, pw)
	if err != nil {
		return err
	}

	a.gate.Authenticate(session.User{ID: user.ID, Name: user.Name, Email: user.Email})

	fmt.Fprintf(a.stdout, "Signed in as %s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) logout(args []string) error {
	fs := flag.NewFlagSet("logout", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.client.Auth.Logout(ctx); err != nil {
		return err
	}

	a.gate.Clear()

	fmt.Fprintln(a.stdout, "Signed out")
	return nil
}

func (a *app) whoami(args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	user, _ := a.gate.User()
	fmt.Fprintf(a.stdout, "%s <%s>\n", user.Name, user.Email)
	return nil
}

func (a *app) register(args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	firstName := fs.String("first-name", "", "first name")
	lastName := fs.String("last-name", "", "last name")
	email := fs.String("email", "", "email address")
	password := fs.String("password", "", "password (prompted when omitted)")
	phone := fs.String("phone", "", "phone number (optional)")
	dateOfBirth := fs.String("date-of-birth", "", "date of birth, YYYY-MM-DD (optional)")

	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	if err := a.requireAnonymous(ctx); err != nil {
		return err
	}

	pw := *password
	if pw == "" {
		var err error
		if pw, err = a.readPassword("Password: "); err != nil {
			return fmt.Errorf("reading password: %w", err)
		}
	}

	user, err := a.client.Auth.Register(ctx, client.RegisterParams{
		FirstName:   *firstName,
		LastName:    *lastName,
		Email:       *email,
		Password:    pw,
		Phone:       *phone,
		DateOfBirth: *dateOfBirth,
	})
	if err != nil {
		return err
	}

	a.gate.Authenticate(session.User{ID: user.ID, Name: user.Name, Email: user.Email})

	fmt.Fprintf(a.stdout, "Welcome to ezsplit, %s. You are signed in.\n", user.Name)
	return nil
}
