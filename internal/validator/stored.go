package validator

import (
	"math"

	"github.com/mmynk/spendlog/internal/models"
)

// NormalizeStored rebuilds an expense from one element of the persisted
// collection. It is stricter than ValidateDraft: the element must be an
// object with a non-empty id, a positive finite amount, a non-empty category
// and a well-formed date, otherwise it is rejected as a whole.
//
// A missing or unreadable createdAt does not reject the record; it defaults
// to now (Unix milliseconds) so that older data stays loadable.
func NormalizeStored(raw any, now int64) (models.Expense, bool) {
	obj, ok := raw.(map[string]any)
	if !ok {
		return models.Expense{}, false
	}

	id, _ := obj["id"].(string)
	category, _ := obj[FieldCategory].(string)
	date, _ := obj[FieldDate].(string)
	note, _ := obj[FieldNote].(string)
	amount, ok := toNumber(obj[FieldAmount])

	if id == "" {
		return models.Expense{}, false
	}
	if !ok || !isFinite(amount) || amount <= 0 {
		return models.Expense{}, false
	}
	if category == "" {
		return models.Expense{}, false
	}
	if !IsISODate(date) {
		return models.Expense{}, false
	}

	return models.Expense{
		ID:        id,
		Amount:    amount,
		Category:  category,
		Date:      date,
		Note:      note,
		CreatedAt: storedTimestamp(obj["createdAt"], now),
	}, true
}

// storedTimestamp truncates a readable timestamp to whole milliseconds and
// falls back to now for anything else.
func storedTimestamp(v any, now int64) int64 {
	ts, ok := toNumber(v)
	if !ok || !isFinite(ts) {
		return now
	}
	if ts >= math.MaxInt64 || ts <= math.MinInt64 {
		return now
	}
	return int64(ts)
}
