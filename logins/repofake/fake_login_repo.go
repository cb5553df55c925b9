package fakeloginrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/contraptionco/trivet/logins"
)

var _ logins.Repo = (*FakeLoginRepo)(nil)

// FakeLoginRepo is an in-memory login audit store for tests and local
// development.
type FakeLoginRepo struct {
	rows   []logins.Login
	nextID int64
	lock   sync.RWMutex
}

func NewFakeLoginRepo() *FakeLoginRepo {
	return &FakeLoginRepo{nextID: 1}
}

func (lr *FakeLoginRepo) Create(_ context.Context, login *logins.Login) error {
	lr.lock.Lock()
	defer lr.lock.Unlock()

	stored := *login
	stored.ID = lr.nextID
	lr.nextID++
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	lr.rows = append(lr.rows, stored)
	return nil
}

func (lr *FakeLoginRepo) DailyCounts(_ context.Context, accountID int64) ([]logins.DailyCount, error) {
	lr.lock.RLock()
	defer lr.lock.RUnlock()

	byDay := make(map[string]*logins.DailyCount)
	for _, row := range lr.rows {
		if row.AccountID != accountID {
			continue
		}
		day := row.CreatedAt.UTC().Format("2006-01-02")
		entry, ok := byDay[day]
		if !ok {
			entry = &logins.DailyCount{Date: day}
			byDay[day] = entry
		}
		if row.Type == logins.TypeNew {
			entry.New++
		} else {
			entry.Returning++
		}
	}

	counts := make([]logins.DailyCount, 0, len(byDay))
	for _, entry := range byDay {
		counts = append(counts, *entry)
	}
	sort.Slice(counts, func(i, j int) bool { return counts[i].Date < counts[j].Date })
	return counts, nil
}

// All returns every stored row, for test assertions.
func (lr *FakeLoginRepo) All() []logins.Login {
	lr.lock.RLock()
	defer lr.lock.RUnlock()
	return append([]logins.Login(nil), lr.rows...)
}
