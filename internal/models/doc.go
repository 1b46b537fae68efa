// Package models defines the core domain models for spendlog.
//
// # Current Models
//
//   - Expense: one discrete spending record kept in the ledger
//
// Expenses carry no user or currency information. Amounts are plain
// positive numbers in whatever unit the owner of the ledger uses.
//
// # Persistence
//
// The whole collection is stored as a JSON array under StorageKey. The key
// is versioned; a bump starts a fresh collection instead of migrating the
// previous one.
package models
