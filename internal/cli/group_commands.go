package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"

	"github.com/ezsplit/ezsplit-go/internal/client"
)

func (a *app) groups(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ezsplit groups <list|show|create|add-users|remove-users|delete>")
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return a.groupsList(ctx, args[1:])
	case "show":
		return a.groupsShow(ctx, args[1:])
	case "create":
		return a.groupsCreate(ctx, args[1:])
	case "add-users":
		return a.groupsMembership(ctx, "add-users", args[1:], a.client.Groups.AddUsers)
	case "remove-users":
		return a.groupsMembership(ctx, "remove-users", args[1:], a.client.Groups.RemoveUsers)
	case "delete":
		return a.groupsDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown groups subcommand %q", args[0])
	}
}

func (a *app) groupsList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groups list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	page := fs.Int("page", 1, "page to fetch")
	if err := fs.Parse(args); err != nil {
		return err
	}

	groups, meta, err := a.client.Groups.List(ctx, *page)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(groups))
	for _, g := range groups {
		rows = append(rows, []string{g.ID, g.Name, g.Description})
	}

	table(a.stdout, []string{"ID", "NAME", "DESCRIPTION"}, rows)
	pageFooter(a.stdout, meta)
	return nil
}

func (a *app) groupsShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groups show", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit groups show <id>")
	}

	group, err := a.client.Groups.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "%s\n", group.Name)
	if group.Description != "" {
		fmt.Fprintf(a.stdout, "%s\n", group.Description)
	}
	fmt.Fprintln(a.stdout)

	rows := make([][]string, 0, len(group.Members))
	for _, m := range group.Members {
		rows = append(rows, userRow(m))
	}

	table(a.stdout, []string{"ID", "MEMBER", "EMAIL"}, rows)
	return nil
}

func (a *app) groupsCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groups create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	name := fs.String("name", "", "group name")
	description := fs.String("description", "", "group description")
	users := fs.String("users", "", "comma-separated member user ids")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" {
		return fmt.Errorf("groups create requires -name")
	}

	me, _ := a.gate.User()

	group, err := a.client.Groups.Create(ctx, client.GroupParams{
		Name:        *name,
		Description: *description,
		CreatedByID: me.ID,
		UserIDs:     splitIDs(*users),
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Created group %s (%s)\n", group.Name, group.ID)
	return nil
}

func (a *app) groupsMembership(ctx context.Context, name string, args []string, call func(context.Context, string, []string) error) error {
	fs := flag.NewFlagSet("groups "+name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	users := fs.String("users", "", "comma-separated user ids")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit groups %s -users <id,id,...> <group-id>", name)
	}

	ids := splitIDs(*users)
	if len(ids) == 0 {
		return fmt.Errorf("groups %s requires -users", name)
	}

	if err := call(ctx, fs.Arg(0), ids); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Membership updated")
	return nil
}

func (a *app) groupsDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("groups delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit groups delete <id>")
	}

	if err := a.client.Groups.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Group deleted")
	return nil
}

// splitIDs parses a comma-separated id list, dropping empty entries.
func splitIDs(s string) []string {
	var ids []string
	for _, id := range strings.Split(s, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	return ids
}
