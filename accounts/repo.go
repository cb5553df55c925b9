package accounts

import "context"

// Repo is the account datastore. Create assigns the numeric ID and
// public UUID. The narrow mutators mirror the onboarding steps; each
// updates exactly the columns that step owns.
type Repo interface {
	Create(ctx context.Context, account *Account) (*Account, error)
	GetByID(ctx context.Context, id int64) (*Account, error)
	GetByUUID(ctx context.Context, accountUUID string) (*Account, error)
	GetByEmail(ctx context.Context, email string) (*Account, error)
	SetName(ctx context.Context, id int64, name string) error
	SetBlog(ctx context.Context, id int64, blogHost, adminHost string) error
	SetAdminAPIKey(ctx context.Context, id int64, adminAPIKey string) error
	// SetGoogleOAuth stores the custom client pair (or clears it when both
	// are empty) and marks Google setup as explicitly completed.
	SetGoogleOAuth(ctx context.Context, id int64, clientID, clientSecret string) error
	Delete(ctx context.Context, id int64) error
}
