package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"gopkg.in/yaml.v3"

	"github.com/mmynk/spendlog/internal/models"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Rejected input or unknown expense
	ExitCommandError = 2 // Configuration, storage or usage error
)

// Error codes reported in structured output.
const (
	ErrCodeValidation = "validation"
	ErrCodeNotFound   = "not_found"
	ErrCodeStorage    = "storage"
	ErrCodeUsage      = "usage"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{FormatText, FormatJSON, FormatYAML}

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int    // Exit code (ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the envelope for json and yaml output.
type CLIResponse struct {
	Status string    `json:"status" yaml:"status"`                   // "ok" or "error"
	Data   any       `json:"data,omitempty" yaml:"data,omitempty"`   // success payload
	Error  *CLIError `json:"error,omitempty" yaml:"error,omitempty"` // error details
}

// CLIError is the error structure for structured responses.
type CLIError struct {
	Code    string            `json:"code" yaml:"code"`
	Message string            `json:"message" yaml:"message"`
	Fields  map[string]string `json:"fields,omitempty" yaml:"fields,omitempty"`
}

// OutputFormatter renders command results as text, JSON or YAML.
type OutputFormatter struct {
	Format string
	Writer io.Writer
}

// Expenses prints a list of expenses.
func (f *OutputFormatter) Expenses(expenses []models.Expense) error {
	if f.Format != FormatText {
		return f.structured(CLIResponse{Status: "ok", Data: expenses})
	}
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(f.Writer, "No expenses.")
		return err
	}

	tw := tabwriter.NewWriter(f.Writer, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCATEGORY\tAMOUNT\tNOTE")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.2f\t%s\n", e.ID, e.Date, e.Category, e.Amount, e.Note)
	}
	return tw.Flush()
}

// Expense prints a single expense after a successful mutation.
func (f *OutputFormatter) Expense(verb string, e models.Expense) error {
	if f.Format != FormatText {
		return f.structured(CLIResponse{Status: "ok", Data: e})
	}
	_, err := fmt.Fprintf(f.Writer, "%s %s: %.2f %s on %s\n", verb, e.ID, e.Amount, e.Category, e.Date)
	return err
}

// Categories prints category names, one per line in text mode.
func (f *OutputFormatter) Categories(categories []string) error {
	if f.Format != FormatText {
		return f.structured(CLIResponse{Status: "ok", Data: categories})
	}
	for _, c := range categories {
		if _, err := fmt.Fprintln(f.Writer, c); err != nil {
			return err
		}
	}
	return nil
}

// Result prints an arbitrary payload with a text summary line.
func (f *OutputFormatter) Result(data any, text string) error {
	if f.Format != FormatText {
		return f.structured(CLIResponse{Status: "ok", Data: data})
	}
	_, err := fmt.Fprintln(f.Writer, text)
	return err
}

// Error prints an error. Field messages are listed in name order.
func (f *OutputFormatter) Error(code, message string, fields map[string]string) error {
	if f.Format != FormatText {
		return f.structured(CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: code, Message: message, Fields: fields},
		})
	}

	if _, err := fmt.Fprintf(f.Writer, "Error: %s\n", message); err != nil {
		return err
	}
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := fmt.Fprintf(f.Writer, "  %s: %s\n", name, fields[name]); err != nil {
			return err
		}
	}
	return nil
}

func (f *OutputFormatter) structured(resp CLIResponse) error {
	switch f.Format {
	case FormatYAML:
		enc := yaml.NewEncoder(f.Writer)
		enc.SetIndent(2)
		if err := enc.Encode(resp); err != nil {
			return err
		}
		return enc.Close()
	default:
		enc := json.NewEncoder(f.Writer)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
}
