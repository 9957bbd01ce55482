package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"expenses/internal/core"
)

func newFlagSet(name string, a *app) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stdout)
	return fs
}

// parseFlags maps -h to a clean exit and other parse failures to errUsage.
func parseFlags(fs *flag.FlagSet, args []string) (bool, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return false, nil
		}
		return false, errUsage
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(fs.Output(), "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		return false, errUsage
	}
	return true, nil
}

func runAdd(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("add", a)
	var in core.ExpenseInput
	fs.StringVar(&in.Amount, "amount", "", "amount, e.g. 12.50 (required)")
	fs.StringVar(&in.Category, "category", "", "category, e.g. Food (required)")
	fs.StringVar(&in.Description, "description", "", "optional note")
	fs.StringVar(&in.Date, "date", "", "date as YYYY-MM-DD, defaults to today")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}

	id, err := a.svc.AddExpense(ctx, in)
	if err != nil {
		return describe(err)
	}
	e, err := a.svc.GetExpense(ctx, id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Added expense #%d: %s\n", id, a.line(e))
	return nil
}

func runList(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("list", a)
	category := fs.String("category", "", "only show this category")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}

	items, err := a.svc.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if *category != "" {
		filtered := items[:0]
		for _, e := range items {
			if strings.EqualFold(e.Category, *category) {
				filtered = append(filtered, e)
			}
		}
		items = filtered
	}
	if len(items) == 0 {
		fmt.Fprintln(a.stdout, "No expenses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range items {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, e.Category, e.Amount.Format(a.cfg.CurrencySymbol), e.Description)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "\n%d expenses, %s\n", len(items), core.Sum(items).Format(a.cfg.CurrencySymbol))
	return nil
}

func runEdit(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("edit", a)
	id := fs.Int64("id", 0, "id of the expense to change (required)")
	amount := fs.String("amount", "", "new amount")
	category := fs.String("category", "", "new category")
	description := fs.String("description", "", "new description")
	date := fs.String("date", "", "new date as YYYY-MM-DD")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if *id <= 0 {
		fmt.Fprintln(a.stdout, "edit: -id is required")
		return errUsage
	}

	current, err := a.svc.GetExpense(ctx, *id)
	if err != nil {
		return describe(err)
	}

	// Unset flags keep the current value.
	in := core.ExpenseInput{
		Amount:      current.Amount.String(),
		Category:    current.Category,
		Description: current.Description,
		Date:        current.Date.String(),
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "amount":
			in.Amount = *amount
		case "category":
			in.Category = *category
		case "description":
			in.Description = *description
		case "date":
			in.Date = *date
		}
	})

	if err := a.svc.UpdateExpense(ctx, *id, in); err != nil {
		return describe(err)
	}
	updated, err := a.svc.GetExpense(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Updated expense #%d: %s\n", *id, a.line(updated))
	return nil
}

func runDelete(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("delete", a)
	id := fs.Int64("id", 0, "id of the expense to remove (required)")
	yes := fs.Bool("yes", false, "skip the confirmation prompt")
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}
	if *id <= 0 {
		fmt.Fprintln(a.stdout, "delete: -id is required")
		return errUsage
	}

	e, err := a.svc.GetExpense(ctx, *id)
	if err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.stdout, "#%d %s\n", e.ID, a.line(e))

	if !*yes && !confirm(a.stdin, a.stdout, "Delete this expense?") {
		fmt.Fprintln(a.stdout, "Cancelled.")
		return nil
	}
	if err := a.svc.DeleteExpense(ctx, *id); err != nil {
		return describe(err)
	}
	fmt.Fprintf(a.stdout, "Deleted expense #%d.\n", *id)
	return nil
}

func runTotal(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("total", a)
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}

	total, err := a.svc.Total(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.stdout, "Total: %s\n", total.Format(a.cfg.CurrencySymbol))
	return nil
}

func runSummary(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("summary", a)
	if ok, err := parseFlags(fs, args); !ok {
		return err
	}

	sum, err := a.svc.CategorySummary(ctx)
	if err != nil {
		return err
	}
	if len(sum.ByCategory) == 0 {
		fmt.Fprintln(a.stdout, "No expenses recorded.")
		return nil
	}

	tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tAMOUNT\t")
	for _, c := range sum.ByCategory {
		fmt.Fprintf(tw, "%s\t%d\t%s\t\n", c.Category, c.Count, c.Amount.Format(a.cfg.CurrencySymbol))
	}
	fmt.Fprintf(tw, "Total\t%d\t%s\t\n", sum.Count, sum.Total.Format(a.cfg.CurrencySymbol))
	return tw.Flush()
}

func (a *app) line(e core.Expense) string {
	s := fmt.Sprintf("%s %s %s", e.Date, e.Category, e.Amount.Format(a.cfg.CurrencySymbol))
	if e.Description != "" {
		s += " (" + e.Description + ")"
	}
	return s
}

func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// describe turns validation failures into one line per field.
func describe(err error) error {
	var ve *core.ValidationError
	if !errors.As(err, &ve) {
		return err
	}
	lines := make([]string, 0, len(ve.Fields))
	for _, f := range ve.Fields {
		lines = append(lines, fmt.Sprintf("%s: %v", f.Field, f.Err))
	}
	return fmt.Errorf("invalid expense:\n  %s", strings.Join(lines, "\n  "))
}
