package cli

import (
	"context"
	"flag"
	"fmt"
)

func (a *app) users(args []string) error {
	if len(args) == 0 || args[0] != "search" {
		return fmt.Errorf("usage: ezsplit users search -term <term>")
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	fs := flag.NewFlagSet("users search", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	term := fs.String("term", "", "name or email fragment to search for")
	limit := fs.Int("limit", 5, "maximum number of results")

	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	if *term == "" {
		return fmt.Errorf("users search requires -term")
	}

	users, err := a.client.Users.Search(ctx, *term, *limit)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, userRow(u))
	}

	table(a.stdout, []string{"ID", "NAME", "EMAIL"}, rows)
	return nil
}
