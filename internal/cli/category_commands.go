package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/ezsplit/ezsplit-go/internal/client"
)

func (a *app) categories(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ezsplit categories <list|create|update|delete>")
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return a.categoriesList(ctx, args[1:])
	case "create":
		return a.categoriesCreate(ctx, args[1:])
	case "update":
		return a.categoriesUpdate(ctx, args[1:])
	case "delete":
		return a.categoriesDelete(ctx, args[1:])
	default:
		return fmt.Errorf("unknown categories subcommand %q", args[0])
	}
}

func (a *app) categoriesList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}

	categories, err := a.client.Categories.List(ctx)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		icon := ""
		if c.Icon != nil {
			icon = *c.Icon
		}

		rows = append(rows, []string{c.ID, c.Name, icon})
	}

	table(a.stdout, []string{"ID", "NAME", "ICON"}, rows)
	return nil
}

func categoryParamsFromFlags(fs *flag.FlagSet, args []string) (client.CategoryParams, error) {
	name := fs.String("name", "", "category name")
	icon := fs.String("icon", "", "icon (optional)")
	color := fs.String("color", "", "display color (optional)")

	if err := fs.Parse(args); err != nil {
		return client.CategoryParams{}, err
	}

	params := client.CategoryParams{Name: *name}
	if *icon != "" {
		params.Icon = icon
	}
	if *color != "" {
		params.Color = color
	}

	return params, nil
}

func (a *app) categoriesCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	params, err := categoryParamsFromFlags(fs, args)
	if err != nil {
		return err
	}

	category, err := a.client.Categories.Create(ctx, params)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Created category %s (%s)\n", category.Name, category.ID)
	return nil
}

func (a *app) categoriesUpdate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories update", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	params, err := categoryParamsFromFlags(fs, args)
	if err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit categories update -name <name> <id>")
	}

	category, err := a.client.Categories.Update(ctx, fs.Arg(0), params)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Updated category %s\n", category.Name)
	return nil
}

func (a *app) categoriesDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("categories delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit categories delete <id>")
	}

	if err := a.client.Categories.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Category deleted")
	return nil
}
