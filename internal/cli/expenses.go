package cli

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/mmynk/spendlog/internal/ledger"
	"github.com/mmynk/spendlog/internal/models"
	"github.com/mmynk/spendlog/internal/validator"
)

// expenseFlags are the draft fields shared by add and edit.
type expenseFlags struct {
	amount   string
	category string
	date     string
	note     string
}

func (f *expenseFlags) register(cmd *cobra.Command, defaultDate string) {
	cmd.Flags().StringVarP(&f.amount, validator.FieldAmount, "a", "", "amount spent (greater than 0)")
	cmd.Flags().StringVarP(&f.category, validator.FieldCategory, "c", "", "category, e.g. "+strings.Join(models.DefaultCategories[:3], ", "))
	cmd.Flags().StringVarP(&f.date, validator.FieldDate, "d", defaultDate, "date as YYYY-MM-DD")
	cmd.Flags().StringVarP(&f.note, validator.FieldNote, "n", "", "optional note")
}

// draft returns the flag values as a draft. With onlyChanged set, flags not
// given on the command line are left out.
func (f *expenseFlags) draft(cmd *cobra.Command, onlyChanged bool) validator.Draft {
	values := map[string]string{
		validator.FieldAmount:   f.amount,
		validator.FieldCategory: f.category,
		validator.FieldDate:     f.date,
		validator.FieldNote:     f.note,
	}
	d := validator.Draft{}
	for field, value := range values {
		if onlyChanged && !cmd.Flags().Changed(field) {
			continue
		}
		d[field] = value
	}
	return d
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &expenseFlags{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record a new expense",
		Long: `Record a new expense.

All fields are checked at once; every problem is reported before anything is
saved. The date defaults to today.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				e, err := l.Add(ctx, flags.draft(cmd, false))
				if err != nil {
					return ledgerError(out, err)
				}
				return out.Expense("Added", e)
			})
		},
	}

	flags.register(cmd, time.Now().Format(time.DateOnly))
	return cmd
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List expenses, most recent first",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				expenses := l.Expenses()
				if category != "" {
					filtered := make([]models.Expense, 0, len(expenses))
					for _, e := range expenses {
						if e.Category == category {
							filtered = append(filtered, e)
						}
					}
					expenses = filtered
				}
				return out.Expenses(expenses)
			})
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only show this category")
	return cmd
}

// NewEditCommand creates the edit command.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	flags := &expenseFlags{}

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of an existing expense",
		Long: `Change fields of an existing expense.

Only the flags given are changed; the result is validated like a new expense.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			patch := flags.draft(cmd, true)
			out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
			if len(patch) == 0 {
				return fail(out, ErrCodeUsage, ExitCommandError, "nothing to change: pass at least one of --amount, --category, --date, --note", nil)
			}

			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				if err := l.Update(ctx, id, patch); err != nil {
					return ledgerError(out, err)
				}
				e, _ := l.Get(id)
				return out.Expense("Updated", e)
			})
		},
	}

	flags.register(cmd, "")
	return cmd
}

// deleteResult is the structured payload of the delete command.
type deleteResult struct {
	ID      string `json:"id" yaml:"id"`
	Removed bool   `json:"removed" yaml:"removed"`
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "delete <id>",
		Short:         "Remove an expense",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				removed, err := l.Delete(ctx, id)
				if err != nil {
					return ledgerError(out, err)
				}
				if !removed {
					return fail(out, ErrCodeNotFound, ExitFailure, fmt.Sprintf("no expense with id %s", id), nil)
				}
				return out.Result(deleteResult{ID: id, Removed: true}, "Deleted "+id)
			})
		},
	}
}

// NewCategoriesCommand creates the categories command.
func NewCategoriesCommand(rootOpts *RootOptions) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories in use",
		Long: `List the distinct categories used by recorded expenses, sorted for the
configured locale. With --defaults, print the suggested categories instead.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if defaults {
				out := &OutputFormatter{Format: rootOpts.Format, Writer: cmd.OutOrStdout()}
				return out.Categories(models.DefaultCategories)
			}
			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				return out.Categories(l.CategoriesInUse())
			})
		},
	}

	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the suggested categories")
	return cmd
}

// reloadResult is the structured payload of the reload command.
type reloadResult struct {
	Count int `json:"count" yaml:"count"`
}

// NewReloadCommand creates the reload command.
func NewReloadCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reload",
		Short: "Re-read the stored ledger and report how many expenses load",
		Long: `Re-read the stored ledger and report how many expenses load.

Malformed stored records are skipped and an unreadable ledger loads as empty;
run with --verbose to see what was discarded.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWithLedger(cmd, rootOpts, func(ctx context.Context, l *ledger.Ledger, out *OutputFormatter) error {
				if err := l.Load(ctx); err != nil {
					return ledgerError(out, err)
				}
				n := l.Len()
				return out.Result(reloadResult{Count: n}, fmt.Sprintf("Loaded %d expenses", n))
			})
		},
	}
}
