package ledger

import (
	"slices"
	"sort"
	"strconv"
	"strings"

	"github.com/mmynk/spendlog/internal/models"
)

// sortKey is the date followed by the decimal createdAt. Keys are compared as
// strings, so timestamps of different digit lengths do not order numerically.
// Existing exported collections rely on this order.
func sortKey(e models.Expense) string {
	return e.Date + strconv.FormatInt(e.CreatedAt, 10)
}

// compareNewestFirst orders expenses by descending sort key.
func compareNewestFirst(a, b models.Expense) int {
	return strings.Compare(sortKey(b), sortKey(a))
}

// SortExpenses orders expenses most recent first. Equal keys keep their
// relative order.
func SortExpenses(expenses []models.Expense) {
	slices.SortStableFunc(expenses, compareNewestFirst)
}

// insertionIndex returns where e belongs in a sorted collection. It lands in
// front of every expense with an equal or older key, so a new expense dated
// today goes to index 0.
func insertionIndex(expenses []models.Expense, e models.Expense) int {
	key := sortKey(e)
	return sort.Search(len(expenses), func(i int) bool {
		return sortKey(expenses[i]) <= key
	})
}
