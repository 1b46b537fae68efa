package models

// StorageKey is the key under which the expense collection is persisted.
const StorageKey = "spending-habits:expenses:v1"

// DefaultCategories is the suggestion list offered to users when picking a
// category. It is not enforced: any non-empty category is accepted.
var DefaultCategories = []string{
	"Food",
	"Groceries",
	"Transport",
	"Bills",
	"Shopping",
	"Health",
	"Fun",
	"Other",
}

// Expense represents a single spending record.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format for new records).
	// Assigned once at creation and never changed.
	ID string `json:"id" yaml:"id"`

	// Amount is the positive amount spent.
	Amount float64 `json:"amount" yaml:"amount"`

	// Category is a free-form, non-empty label (e.g., "Food", "Bills").
	Category string `json:"category" yaml:"category"`

	// Date is the calendar day of the expense in YYYY-MM-DD form.
	Date string `json:"date" yaml:"date"`

	// Note is an optional description.
	Note string `json:"note" yaml:"note"`

	// CreatedAt is the Unix timestamp in milliseconds when the expense was recorded.
	// Only used to order expenses sharing the same date.
	CreatedAt int64 `json:"createdAt" yaml:"createdAt"`
}
