// Package validator turns untrusted expense input into canonical values.
//
// Everything here is a pure function: no state, no I/O. Drafts come from
// forms, CLI flags or decoded JSON and may have any shape; stored records come
// from the persisted collection and are checked more strictly.
package validator

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Field names used as keys in FieldErrors.
const (
	FieldAmount   = "amount"
	FieldCategory = "category"
	FieldDate     = "date"
	FieldNote     = "note"
)

// Messages reported for failing fields.
const (
	MsgAmount   = "Enter an amount greater than 0."
	MsgCategory = "Pick a category."
	MsgDate     = "Pick a valid date."
)

// isoDate matches YYYY-MM-DD as produced by date inputs. Calendar
// correctness is not checked: 2024-02-30 passes.
var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// Draft is untrusted expense input keyed by field name.
type Draft map[string]any

// Candidate is a normalized draft. Amount is NaN when the input could not be
// read as a finite number.
type Candidate struct {
	Amount   float64
	Category string
	Date     string
	Note     string
}

// FieldErrors maps a field name to the message describing why it was rejected.
type FieldErrors map[string]string

// ValidationError reports every failing field of a draft at once.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = name + ": " + e.Fields[name]
	}
	return "invalid expense: " + strings.Join(parts, "; ")
}

// Result is the outcome of ValidateDraft.
type Result struct {
	Accepted  bool
	Errors    FieldErrors
	Candidate Candidate
}

// Err returns a *ValidationError when the draft was rejected, nil otherwise.
func (r Result) Err() error {
	if r.Accepted {
		return nil
	}
	return &ValidationError{Fields: r.Errors}
}

// IsISODate reports whether s has the YYYY-MM-DD shape.
func IsISODate(s string) bool {
	return isoDate.MatchString(s)
}

// NormalizeDraft coerces a draft into a Candidate. It never fails; unreadable
// values become NaN or the empty string.
func NormalizeDraft(d Draft) Candidate {
	return Candidate{
		Amount:   draftAmount(d[FieldAmount]),
		Category: trimmedString(d[FieldCategory]),
		Date:     trimmedString(d[FieldDate]),
		Note:     trimmedString(d[FieldNote]),
	}
}

// ValidateDraft normalizes d and checks every field independently so that all
// problems can be shown together.
func ValidateDraft(d Draft) Result {
	c := NormalizeDraft(d)
	errs := FieldErrors{}

	if !isFinite(c.Amount) || c.Amount <= 0 {
		errs[FieldAmount] = MsgAmount
	}
	if c.Category == "" {
		errs[FieldCategory] = MsgCategory
	}
	if c.Date == "" || !IsISODate(c.Date) {
		errs[FieldDate] = MsgDate
	}

	return Result{
		Accepted:  len(errs) == 0,
		Errors:    errs,
		Candidate: c,
	}
}

// draftAmount accepts numbers and numeric strings. Strings are trimmed before
// parsing.
func draftAmount(v any) float64 {
	n, ok := toNumber(v)
	if !ok || !isFinite(n) {
		return math.NaN()
	}
	return n
}

func trimmedString(v any) string {
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}

// toNumber reads any Go numeric kind, json.Number or numeric string.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		return parseNumber(n)
	default:
		return 0, false
	}
}

var (
	decimalLiteral  = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)
	infinityLiteral = regexp.MustCompile(`^[+-]?Infinity$`)
	integerPrefixes = map[string]int{"0x": 16, "0X": 16, "0o": 8, "0O": 8, "0b": 2, "0B": 2}
)

// parseNumber reads a trimmed numeric string: signed decimal and exponent
// forms, unsigned 0x/0o/0b integers, and Infinity. Go-only spellings such as
// hex floats, "inf", "nan" and digit underscores are not numbers. An empty
// string is not a number either.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 2 {
		if base, ok := integerPrefixes[s[:2]]; ok {
			u, err := strconv.ParseUint(s[2:], base, 64)
			return float64(u), err == nil
		}
	}
	if infinityLiteral.MatchString(s) {
		if s[0] == '-' {
			return math.Inf(-1), true
		}
		return math.Inf(1), true
	}
	if !decimalLiteral.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// Out-of-range exponents still produce ±Inf or 0 with ErrRange.
		if errors.Is(err, strconv.ErrRange) {
			return f, true
		}
		return 0, false
	}
	return f, true
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
