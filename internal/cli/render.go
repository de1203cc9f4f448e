package cli

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/ezsplit/ezsplit-go/internal/apierror"
	"github.com/ezsplit/ezsplit-go/internal/client"
	"github.com/ezsplit/ezsplit-go/internal/resource"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// table writes rows with aligned columns.
func table(w io.Writer, header []string, rows [][]string) {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	writeRow := func(cells []string) {
		for i, cell := range cells {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, cell)
		}
		fmt.Fprintln(tw)
	}

	writeRow(header)
	for _, row := range rows {
		writeRow(row)
	}

	tw.Flush()
}

// pageFooter prints the pagination position under a listing.
func pageFooter(w io.Writer, meta resource.Meta) {
	if meta.TotalPages <= 1 {
		return
	}

	fmt.Fprintf(w, "\npage %d of %d (%d total)\n", meta.CurrentPage, meta.TotalPages, meta.Total)
}

// formatAmount renders a monetary amount with its currency symbol. Unknown
// codes fall back to appending the raw code.
func formatAmount(amount decimal.Decimal, code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return amount.StringFixed(2) + " " + code
	}

	value, _ := amount.Float64()
	return fmt.Sprintf("%v", currency.Symbol(unit.Amount(value)))
}

// RenderError translates the error taxonomy into a user-facing message.
// Validation errors list their field messages, everything else renders the
// message of its kind.
func RenderError(w io.Writer, err error) {
	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		fmt.Fprintf(w, "Error: %v\n", err)
		return
	}

	switch {
	case errors.Is(err, apierror.ErrValidation) && len(apiErr.Fields) > 0:
		fmt.Fprintln(w, "Error: the submitted data is invalid:")

		fields := make([]string, 0, len(apiErr.Fields))
		for field := range apiErr.Fields {
			fields = append(fields, field)
		}
		sort.Strings(fields)

		for _, field := range fields {
			for _, msg := range apiErr.Fields[field] {
				fmt.Fprintf(w, "  %s %s\n", field, msg)
			}
		}
	case errors.Is(err, apierror.ErrNetwork):
		fmt.Fprintln(w, "Error: no response received from the server, is it reachable?")
	default:
		fmt.Fprintf(w, "Error: %v\n", err)
	}
}

func userRow(u client.User) []string {
	return []string{u.ID, u.FullName, u.EmailAddress}
}

func expenseRow(e client.Expense) []string {
	payer := e.PayerID
	if e.Payer != nil {
		payer = e.Payer.FullName
	}

	category := ""
	if e.Category != nil {
		category = e.Category.Name
	}

	settled := ""
	if e.Settled {
		settled = "settled"
	}

	return []string{e.ID, e.Name, formatAmount(e.Amount, e.Currency), string(e.SplitType), payer, category, e.ExpenseDate, settled}
}
