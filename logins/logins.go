// Package logins records member sign-in events. Rows are written exactly
// once per completed member sign-in, never mutated, and only read back as
// daily aggregates for the owner's dashboard.
package logins

import (
	"context"
	"time"
)

// Type classifies a sign-in by whether the member already existed in the
// blog's directory.
type Type string

const (
	TypeNew       Type = "NEW"
	TypeReturning Type = "RETURNING"
)

// Login is one member sign-in event.
type Login struct {
	ID          int64     `json:"id,omitempty"`
	AccountID   int64     `json:"account_id"`
	MemberEmail string    `json:"member_email"`
	Type        Type      `json:"type"`
	CreatedAt   time.Time `json:"created_at,omitempty"`
}

// DailyCount is one day's sign-in totals for an account.
type DailyCount struct {
	Date      string `json:"date"` // YYYY-MM-DD
	New       int    `json:"new"`
	Returning int    `json:"returning"`
}

// Repo is the login audit store.
type Repo interface {
	Create(ctx context.Context, login *Login) error
	// DailyCounts returns per-day totals for the account, oldest day first.
	DailyCounts(ctx context.Context, accountID int64) ([]DailyCount, error)
}
