package validator

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValidateDraft(t *testing.T) {
	tests := []struct {
		name         string
		draft        Draft
		wantAccepted bool
		wantErrors   []string
		validateFunc func(t *testing.T, c Candidate)
	}{
		{
			name:         "string amount is trimmed and parsed",
			draft:        Draft{"amount": "12.50", "category": " Food ", "date": "2024-03-01", "note": ""},
			wantAccepted: true,
			validateFunc: func(t *testing.T, c Candidate) {
				if c.Amount != 12.5 {
					t.Errorf("Amount = %v, want 12.5", c.Amount)
				}
				if c.Category != "Food" {
					t.Errorf("Category = %q, want %q", c.Category, "Food")
				}
			},
		},
		{
			name:         "numeric amount with padded note",
			draft:        Draft{"amount": 7, "category": "Fun", "date": "2024-01-31", "note": "  cinema "},
			wantAccepted: true,
			validateFunc: func(t *testing.T, c Candidate) {
				if c.Amount != 7 {
					t.Errorf("Amount = %v, want 7", c.Amount)
				}
				if c.Note != "cinema" {
					t.Errorf("Note = %q, want %q", c.Note, "cinema")
				}
			},
		},
		{
			name:         "json number amount",
			draft:        Draft{"amount": json.Number("3.25"), "category": "Bills", "date": "2023-12-01"},
			wantAccepted: true,
		},
		{
			name:         "calendar-invalid date is syntactically fine",
			draft:        Draft{"amount": 1, "category": "Food", "date": "2024-02-30"},
			wantAccepted: true,
		},
		{
			name:       "zero amount",
			draft:      Draft{"amount": 0, "category": "Food", "date": "2024-03-01"},
			wantErrors: []string{FieldAmount},
		},
		{
			name:       "negative amount",
			draft:      Draft{"amount": -5.0, "category": "Food", "date": "2024-03-01"},
			wantErrors: []string{FieldAmount},
		},
		{
			name:       "non-numeric amount",
			draft:      Draft{"amount": "twelve", "category": "Food", "date": "2024-03-01"},
			wantErrors: []string{FieldAmount},
		},
		{
			name:       "infinite amount",
			draft:      Draft{"amount": math.Inf(1), "category": "Food", "date": "2024-03-01"},
			wantErrors: []string{FieldAmount},
		},
		{
			name:       "boolean amount",
			draft:      Draft{"amount": true, "category": "Food", "date": "2024-03-01"},
			wantErrors: []string{FieldAmount},
		},
		{
			name:       "blank category",
			draft:      Draft{"amount": 1, "category": "   ", "date": "2024-03-01"},
			wantErrors: []string{FieldCategory},
		},
		{
			name:       "category of wrong type",
			draft:      Draft{"amount": 1, "category": 42, "date": "2024-03-01"},
			wantErrors: []string{FieldCategory},
		},
		{
			name:       "malformed date",
			draft:      Draft{"amount": 1, "category": "Food", "date": "03/01/2024"},
			wantErrors: []string{FieldDate},
		},
		{
			name:       "date with trailing text",
			draft:      Draft{"amount": 1, "category": "Food", "date": "2024-03-01T10:00"},
			wantErrors: []string{FieldDate},
		},
		{
			name:       "every field wrong at once",
			draft:      Draft{},
			wantErrors: []string{FieldAmount, FieldCategory, FieldDate},
		},
		{
			name:       "nil draft",
			draft:      nil,
			wantErrors: []string{FieldAmount, FieldCategory, FieldDate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidateDraft(tt.draft)

			wantAccepted := tt.wantAccepted && len(tt.wantErrors) == 0
			if res.Accepted != wantAccepted {
				t.Fatalf("Accepted = %v, want %v (errors: %v)", res.Accepted, wantAccepted, res.Errors)
			}
			if len(res.Errors) != len(tt.wantErrors) {
				t.Errorf("got %d errors %v, want %v", len(res.Errors), res.Errors, tt.wantErrors)
			}
			for _, field := range tt.wantErrors {
				if _, ok := res.Errors[field]; !ok {
					t.Errorf("missing error for field %q", field)
				}
			}
			if tt.validateFunc != nil {
				tt.validateFunc(t, res.Candidate)
			}
		})
	}
}

func TestValidateDraftMessages(t *testing.T) {
	res := ValidateDraft(Draft{"amount": "", "category": "", "date": ""})

	want := FieldErrors{
		FieldAmount:   "Enter an amount greater than 0.",
		FieldCategory: "Pick a category.",
		FieldDate:     "Pick a valid date.",
	}
	for field, msg := range want {
		if res.Errors[field] != msg {
			t.Errorf("Errors[%q] = %q, want %q", field, res.Errors[field], msg)
		}
	}
}

func TestResultErr(t *testing.T) {
	ok := ValidateDraft(Draft{"amount": 1, "category": "Food", "date": "2024-03-01"})
	if err := ok.Err(); err != nil {
		t.Errorf("Err() on accepted draft = %v, want nil", err)
	}

	bad := ValidateDraft(Draft{"amount": 0, "category": "Food", "date": "2024-03-01"})
	err := bad.Err()
	verr, isValidation := err.(*ValidationError)
	if !isValidation {
		t.Fatalf("Err() = %T, want *ValidationError", err)
	}
	if verr.Fields[FieldAmount] != MsgAmount {
		t.Errorf("Fields[amount] = %q, want %q", verr.Fields[FieldAmount], MsgAmount)
	}
	if got, want := verr.Error(), "invalid expense: amount: "+MsgAmount; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestNormalizeDraftUnreadableAmountIsNaN(t *testing.T) {
	for _, v := range []any{nil, "", "abc", []int{1}, map[string]any{}, math.NaN()} {
		if c := NormalizeDraft(Draft{"amount": v}); !math.IsNaN(c.Amount) {
			t.Errorf("NormalizeDraft(amount=%v).Amount = %v, want NaN", v, c.Amount)
		}
	}
}

func TestIsISODate(t *testing.T) {
	valid := []string{"2024-03-01", "0000-00-00", "2024-02-30"}
	invalid := []string{"", "2024-3-01", "24-03-01", "2024/03/01", " 2024-03-01", "2024-03-01\n"}

	for _, s := range valid {
		if !IsISODate(s) {
			t.Errorf("IsISODate(%q) = false, want true", s)
		}
	}
	for _, s := range invalid {
		if IsISODate(s) {
			t.Errorf("IsISODate(%q) = true, want false", s)
		}
	}
}

func TestParseNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   float64
		wantOK bool
	}{
		{in: "12.50", want: 12.5, wantOK: true},
		{in: "  7 ", want: 7, wantOK: true},
		{in: "-3", want: -3, wantOK: true},
		{in: ".5", want: 0.5, wantOK: true},
		{in: "5.", want: 5, wantOK: true},
		{in: "1e3", want: 1000, wantOK: true},
		{in: "0x10", want: 16, wantOK: true},
		{in: "0B101", want: 5, wantOK: true},
		{in: "0o7", want: 7, wantOK: true},
		{in: "0x1p4"},
		{in: "-0x10"},
		{in: "0x"},
		{in: "1_000"},
		{in: "inf"},
		{in: "NaN"},
		{in: "12abc"},
		{in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseNumber(tt.in)
			if ok != tt.wantOK {
				t.Fatalf("parseNumber(%q) ok = %v, want %v", tt.in, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("parseNumber(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseNumberInfinity(t *testing.T) {
	for _, s := range []string{"Infinity", "+Infinity", "-Infinity", "1e400"} {
		got, ok := parseNumber(s)
		if !ok || !math.IsInf(got, 0) {
			t.Errorf("parseNumber(%q) = %v, %v, want ±Inf, true", s, got, ok)
		}
	}
	if c := NormalizeDraft(Draft{"amount": "Infinity"}); !math.IsNaN(c.Amount) {
		t.Errorf("NormalizeDraft(amount=Infinity).Amount = %v, want NaN", c.Amount)
	}
}
