package cli

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"time"

	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/split"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

func (a *app) expenses(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("usage: ezsplit expenses <list|show|create|delete|pay|balance>")
	}

	ctx := context.Background()
	if err := a.requireSession(ctx); err != nil {
		return err
	}

	switch args[0] {
	case "list":
		return a.expensesList(ctx, args[1:])
	case "show":
		return a.expensesShow(ctx, args[1:])
	case "create":
		return a.expensesCreate(ctx, args[1:])
	case "delete":
		return a.expensesDelete(ctx, args[1:])
	case "pay":
		return a.expensesPay(ctx, args[1:])
	case "balance":
		return a.expensesBalance(ctx, args[1:])
	default:
		return fmt.Errorf("unknown expenses subcommand %q", args[0])
	}
}

func (a *app) expensesList(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses list", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	group := fs.String("group", "", "filter by group id")
	user := fs.String("user", "", "filter by participant user id")
	page := fs.Int("page", 1, "page to fetch")

	if err := fs.Parse(args); err != nil {
		return err
	}

	expenses, meta, err := a.client.Expenses.List(ctx, client.ListExpensesParams{
		GroupID: *group,
		UserID:  *user,
		Page:    *page,
	})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(expenses))
	for _, e := range expenses {
		rows = append(rows, expenseRow(e))
	}

	table(a.stdout, []string{"ID", "NAME", "AMOUNT", "SPLIT", "PAYER", "CATEGORY", "DATE", ""}, rows)
	pageFooter(a.stdout, meta)
	return nil
}

func (a *app) expensesShow(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses show", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit expenses show <id>")
	}

	expense, err := a.client.Expenses.Get(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	payer := expense.PayerID
	if expense.Payer != nil {
		payer = expense.Payer.FullName
	}

	fmt.Fprintf(a.stdout, "%s, %s paid by %s on %s\n\n",
		expense.Name, formatAmount(expense.Amount, expense.Currency), payer, expense.ExpenseDate)

	rows := make([][]string, 0, len(expense.Distribution))
	for _, share := range expense.Distribution {
		rows = append(rows, []string{share.UserID, formatAmount(share.Amount, expense.Currency)})
	}

	table(a.stdout, []string{"USER", "SHARE"}, rows)
	return nil
}

func (a *app) expensesCreate(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses create", flag.ContinueOnError)
	fs.SetOutput(a.stderr)

	name := fs.String("name", "", "expense name")
	amount := fs.String("amount", "", "total amount, e.g. 42.50")
	currencyCode := fs.String("currency", "EUR", "ISO 4217 currency code")
	groupID := fs.String("group", "", "group id")
	categoryName := fs.String("category", "", "category name or id (optional)")
	date := fs.String("date", time.Now().Format("2006-01-02"), "expense date, YYYY-MM-DD")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if *name == "" || *amount == "" || *groupID == "" {
		return fmt.Errorf("expenses create requires -name, -amount and -group")
	}

	total, err := decimal.NewFromString(*amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q", *amount)
	}

	// The three lookups backing the form are independent, fetch them
	// concurrently.
	var (
		group      client.Group
		categories []client.Category
		me         client.SessionUser
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		group, err = a.client.Groups.Get(gctx, *groupID)
		return err
	})
	g.Go(func() (err error) {
		categories, err = a.client.Categories.List(gctx)
		return err
	})
	g.Go(func() (err error) {
		me, err = a.client.Auth.Profile(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	categoryID, err := matchCategory(categories, *categoryName)
	if err != nil {
		return err
	}

	memberIDs := make([]string, 0, len(group.Members))
	for _, m := range group.Members {
		memberIDs = append(memberIDs, m.ID)
	}

	distribution, err := split.Equal(total, memberIDs)
	if err != nil {
		return err
	}

	expense, err := a.client.Expenses.Create(ctx, client.ExpenseParams{
		Name:         *name,
		Amount:       total,
		Currency:     *currencyCode,
		SplitType:    split.TypeEqual,
		ExpenseDate:  *date,
		PayerID:      me.ID,
		GroupID:      group.ID,
		CategoryID:   categoryID,
		Distribution: distribution,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Created expense %s (%s), %s split %d ways\n",
		expense.Name, expense.ID, formatAmount(expense.Amount, expense.Currency), len(expense.Distribution))
	return nil
}

// matchCategory resolves a category reference given as a name or an id.
// Empty input means no category.
func matchCategory(categories []client.Category, ref string) (string, error) {
	if ref == "" {
		return "", nil
	}

	for _, c := range categories {
		if c.ID == ref || strings.EqualFold(c.Name, ref) {
			return c.ID, nil
		}
	}

	return "", fmt.Errorf("unknown category %q", ref)
}

func (a *app) expensesDelete(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses delete", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit expenses delete <id>")
	}

	if err := a.client.Expenses.Delete(ctx, fs.Arg(0)); err != nil {
		return err
	}

	fmt.Fprintln(a.stdout, "Expense deleted")
	return nil
}

func (a *app) expensesPay(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses pay", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: ezsplit expenses pay <id>")
	}

	expense, err := a.client.Expenses.Pay(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	fmt.Fprintf(a.stdout, "Settled %s (%s)\n", expense.Name, formatAmount(expense.Amount, expense.Currency))
	return nil
}

func (a *app) expensesBalance(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("expenses balance", flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	fs.Usage = func() { fmt.Fprintln(a.stderr, "usage: ezsplit expenses balance") }
	if err := fs.Parse(args); err != nil {
		return err
	}

	balance, err := a.client.Expenses.Balance(ctx)
	if err != nil {
		return err
	}

	table(a.stdout, []string{"OWED TO YOU", "YOU OWE", "NET"}, [][]string{{
		balance.TotalOwed.StringFixed(2),
		balance.TotalOwing.StringFixed(2),
		balance.NetBalance.StringFixed(2),
	}})
	return nil
}
