package fakeaccountrepo

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/contraptionco/trivet/accounts"
	"github.com/google/uuid"
)

var _ accounts.Repo = (*FakeAccountRepo)(nil)

// FakeAccountRepo is an in-memory account store for tests and local
// development. It enforces the same email uniqueness the postgres schema
// does.
type FakeAccountRepo struct {
	byID     map[int64]*accounts.Account
	emailIDs map[string]int64
	uuidIDs  map[string]int64
	nextID   int64
	lock     sync.RWMutex
}

func NewFakeAccountRepo() *FakeAccountRepo {
	return &FakeAccountRepo{
		byID:     make(map[int64]*accounts.Account),
		emailIDs: make(map[string]int64),
		uuidIDs:  make(map[string]int64),
		nextID:   1,
	}
}

func (ar *FakeAccountRepo) Create(_ context.Context, account *accounts.Account) (*accounts.Account, error) {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	if _, ok := ar.emailIDs[account.Email]; ok {
		return nil, fmt.Errorf("duplicate email %q", account.Email)
	}

	stored := *account
	stored.ID = ar.nextID
	ar.nextID++
	if stored.UUID == "" {
		stored.UUID = uuid.New().String()
	}
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}

	ar.byID[stored.ID] = &stored
	ar.emailIDs[stored.Email] = stored.ID
	ar.uuidIDs[stored.UUID] = stored.ID

	copied := stored
	return &copied, nil
}

func (ar *FakeAccountRepo) GetByID(_ context.Context, id int64) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()
	return ar.get(id)
}

func (ar *FakeAccountRepo) GetByUUID(_ context.Context, accountUUID string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.uuidIDs[accountUUID]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return ar.get(id)
}

func (ar *FakeAccountRepo) GetByEmail(_ context.Context, email string) (*accounts.Account, error) {
	ar.lock.RLock()
	defer ar.lock.RUnlock()

	id, ok := ar.emailIDs[email]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	return ar.get(id)
}

func (ar *FakeAccountRepo) SetName(_ context.Context, id int64, name string) error {
	return ar.mutate(id, func(a *accounts.Account) {
		a.Name = name
	})
}

func (ar *FakeAccountRepo) SetBlog(_ context.Context, id int64, blogHost, adminHost string) error {
	return ar.mutate(id, func(a *accounts.Account) {
		a.BlogHost = blogHost
		a.AdminHost = adminHost
	})
}

func (ar *FakeAccountRepo) SetAdminAPIKey(_ context.Context, id int64, adminAPIKey string) error {
	return ar.mutate(id, func(a *accounts.Account) {
		a.AdminAPIKey = adminAPIKey
	})
}

func (ar *FakeAccountRepo) SetGoogleOAuth(_ context.Context, id int64, clientID, clientSecret string) error {
	return ar.mutate(id, func(a *accounts.Account) {
		a.GoogleOauthClientID = clientID
		a.GoogleOauthClientSecret = clientSecret
		a.GoogleOauthConfigured = true
	})
}

func (ar *FakeAccountRepo) Delete(_ context.Context, id int64) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	account, ok := ar.byID[id]
	if !ok {
		return accounts.ErrNotFound
	}
	delete(ar.emailIDs, account.Email)
	delete(ar.uuidIDs, account.UUID)
	delete(ar.byID, id)
	return nil
}

func (ar *FakeAccountRepo) get(id int64) (*accounts.Account, error) {
	account, ok := ar.byID[id]
	if !ok {
		return nil, accounts.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (ar *FakeAccountRepo) mutate(id int64, fn func(*accounts.Account)) error {
	ar.lock.Lock()
	defer ar.lock.Unlock()

	account, ok := ar.byID[id]
	if !ok {
		return accounts.ErrNotFound
	}
	fn(account)
	return nil
}
