// Package ledger keeps the ordered expense collection and persists it.
//
// A Ledger is created once per session with New, which hydrates it from the
// backing store. Every mutating call validates its input, updates the
// in-memory collection and then writes the whole collection back under a
// single key. The durable store, not the in-memory state, is the ground truth
// across restarts.
package ledger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mmynk/spendlog/internal/models"
	"github.com/mmynk/spendlog/internal/storage"
	"github.com/mmynk/spendlog/internal/validator"
)

// maxIDAttempts bounds retries when a generator returns an ID already in use.
const maxIDAttempts = 8

// Ledger holds the expense collection, sorted most recent first.
type Ledger struct {
	mu       sync.Mutex
	store    storage.KV
	key      string
	clock    Clock
	ids      IDGenerator
	locale   language.Tag
	collator *collate.Collator
	logger   *slog.Logger
	expenses []models.Expense
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithKey overrides the storage key (default models.StorageKey).
func WithKey(key string) Option {
	return func(l *Ledger) { l.key = key }
}

// WithClock overrides the time source used for createdAt.
func WithClock(c Clock) Option {
	return func(l *Ledger) { l.clock = c }
}

// WithIDGenerator overrides how new expense IDs are produced.
func WithIDGenerator(g IDGenerator) Option {
	return func(l *Ledger) { l.ids = g }
}

// WithLocale sets the language used to order category names.
func WithLocale(tag language.Tag) Option {
	return func(l *Ledger) { l.locale = tag }
}

// WithLogger sets the logger. A nil logger keeps slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a Ledger backed by store and loads the persisted collection.
func New(ctx context.Context, store storage.KV, opts ...Option) (*Ledger, error) {
	l := &Ledger{
		store:    store,
		key:      models.StorageKey,
		clock:    SystemClock{},
		ids:      UUIDGenerator{},
		locale:   language.English,
		logger:   slog.Default(),
		expenses: []models.Expense{},
	}
	for _, opt := range opts {
		opt(l)
	}
	l.collator = collate.New(l.locale)

	if err := l.Load(ctx); err != nil {
		return nil, err
	}
	return l, nil
}

// Load replaces the in-memory collection with the persisted one.
//
// A missing, unparsable or non-array payload yields an empty collection and
// malformed records are dropped; neither is reported as an error. Only a
// failure of the backing store is returned. Load never writes.
func (l *Ledger) Load(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	raw, ok, err := l.store.Get(ctx, l.key)
	if err != nil {
		return fmt.Errorf("failed to load expenses: %w", err)
	}
	if !ok || raw == "" {
		l.expenses = []models.Expense{}
		return nil
	}

	var payload any
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		l.logger.WarnContext(ctx, "Discarding unparsable expense payload", "key", l.key, "error", err)
		l.expenses = []models.Expense{}
		return nil
	}
	items, isArray := payload.([]any)
	if !isArray {
		l.logger.WarnContext(ctx, "Discarding expense payload that is not a list", "key", l.key)
		l.expenses = []models.Expense{}
		return nil
	}

	now := l.nowMillis()
	expenses := make([]models.Expense, 0, len(items))
	for _, item := range items {
		if e, ok := validator.NormalizeStored(item, now); ok {
			expenses = append(expenses, e)
		}
	}
	if dropped := len(items) - len(expenses); dropped > 0 {
		l.logger.WarnContext(ctx, "Dropped malformed stored expenses", "key", l.key, "dropped", dropped)
	}

	SortExpenses(expenses)
	l.expenses = expenses
	l.logger.DebugContext(ctx, "Expenses loaded", "key", l.key, "count", len(expenses))
	return nil
}

// Add validates d and records it as a new expense.
//
// A rejected draft returns a *validator.ValidationError and leaves the ledger
// untouched. If saving fails the expense has already been added in memory;
// it is returned together with the error.
func (l *Ledger) Add(ctx context.Context, d validator.Draft) (models.Expense, error) {
	res := validator.ValidateDraft(d)
	if !res.Accepted {
		return models.Expense{}, res.Err()
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.newID()
	if err != nil {
		return models.Expense{}, err
	}

	e := models.Expense{
		ID:        id,
		Amount:    res.Candidate.Amount,
		Category:  res.Candidate.Category,
		Date:      res.Candidate.Date,
		Note:      res.Candidate.Note,
		CreatedAt: l.nowMillis(),
	}
	l.expenses = slices.Insert(l.expenses, insertionIndex(l.expenses, e), e)

	if err := l.save(ctx); err != nil {
		return e, err
	}
	l.logger.DebugContext(ctx, "Expense added", "expense_id", e.ID, "category", e.Category, "date", e.Date)
	return e, nil
}

// Delete removes the expense with the given id and reports whether one was
// removed. The collection is saved either way.
func (l *Ledger) Delete(ctx context.Context, id string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	before := len(l.expenses)
	l.expenses = slices.DeleteFunc(l.expenses, func(e models.Expense) bool {
		return e.ID == id
	})
	removed := len(l.expenses) != before

	if err := l.save(ctx); err != nil {
		return removed, err
	}
	if removed {
		l.logger.DebugContext(ctx, "Expense deleted", "expense_id", id)
	}
	return removed, nil
}

// Update applies patch to the expense with the given id.
//
// The patch is merged over the current amount, category, date and note, and
// the result is validated as a draft. ID and createdAt never change. Returns
// an error wrapping ErrNotFound for an unknown id, or a
// *validator.ValidationError when the merged expense is invalid; in both
// cases nothing is modified.
func (l *Ledger) Update(ctx context.Context, id string, patch validator.Draft) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	idx := slices.IndexFunc(l.expenses, func(e models.Expense) bool {
		return e.ID == id
	})
	if idx == -1 {
		return fmt.Errorf("expense %q: %w", id, ErrNotFound)
	}

	current := l.expenses[idx]
	merged := validator.Draft{
		validator.FieldAmount:   current.Amount,
		validator.FieldCategory: current.Category,
		validator.FieldDate:     current.Date,
		validator.FieldNote:     current.Note,
	}
	for field := range merged {
		if v, ok := patch[field]; ok {
			merged[field] = v
		}
	}

	res := validator.ValidateDraft(merged)
	if !res.Accepted {
		return res.Err()
	}

	current.Amount = res.Candidate.Amount
	current.Category = res.Candidate.Category
	current.Date = res.Candidate.Date
	current.Note = res.Candidate.Note
	l.expenses[idx] = current

	// The date may have changed, so the position may too.
	SortExpenses(l.expenses)

	if err := l.save(ctx); err != nil {
		return err
	}
	l.logger.DebugContext(ctx, "Expense updated", "expense_id", id)
	return nil
}

// Expenses returns a copy of the collection, most recent first.
func (l *Ledger) Expenses() []models.Expense {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.expenses)
}

// Get returns the expense with the given id.
func (l *Ledger) Get(id string) (models.Expense, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return models.Expense{}, false
}

// Len returns the number of expenses.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.expenses)
}

// CategoriesInUse returns the distinct non-empty categories, sorted for the
// ledger's locale.
func (l *Ledger) CategoriesInUse() []string {
	l.mu.Lock()
	defer l.mu.Unlock()

	seen := make(map[string]bool)
	categories := []string{}
	for _, e := range l.expenses {
		if e.Category == "" || seen[e.Category] {
			continue
		}
		seen[e.Category] = true
		categories = append(categories, e.Category)
	}
	l.collator.SortStrings(categories)
	return categories
}

// save writes the whole collection under the ledger's key.
// Callers must hold l.mu.
func (l *Ledger) save(ctx context.Context) error {
	data, err := json.Marshal(l.expenses)
	if err != nil {
		return fmt.Errorf("failed to encode expenses: %w", err)
	}
	if err := l.store.Set(ctx, l.key, string(data)); err != nil {
		return fmt.Errorf("failed to save expenses: %w", err)
	}
	return nil
}

// newID asks the generator for an ID not yet used in the collection.
// Callers must hold l.mu.
func (l *Ledger) newID() (string, error) {
	for range maxIDAttempts {
		id := l.ids.NewID()
		if id == "" {
			continue
		}
		inUse := slices.ContainsFunc(l.expenses, func(e models.Expense) bool {
			return e.ID == id
		})
		if !inUse {
			return id, nil
		}
	}
	return "", fmt.Errorf("failed to generate a unique expense id after %d attempts", maxIDAttempts)
}

func (l *Ledger) nowMillis() int64 {
	return l.clock.Now().UnixMilli()
}
