package cli

import (
	"context"
	"flag"
	"fmt"
)

func (a *app) invite(args []string) error {
	fs := flag.NewFlagSet("invite", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	email := fs.String("email", "", "email address to invite")
	message := fs.String("message", "", "personal message (optional)")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return fmt.Errorf("invite requires -email")
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	invitation, err := a.client.Invitations.Send(ctx, *email, *message)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, invitation.Message)
	return nil
}
