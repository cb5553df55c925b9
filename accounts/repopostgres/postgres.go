package pgaccountrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/contraptionco/trivet/accounts"
	"github.com/google/uuid"
)

var _ accounts.Repo = (*PostgresRepo)(nil)

// PostgresRepo stores accounts in postgres. Email uniqueness is enforced
// by the schema, which is what resolves a race between two concurrent
// first-time owner sign-ins for the same address.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

const accountColumns = `id, uuid, email, name, blog_host, admin_host, admin_api_key,
	google_oauth_client_id, google_oauth_client_secret, google_oauth_configured, created_at`

func (r *PostgresRepo) Create(ctx context.Context, account *accounts.Account) (*accounts.Account, error) {
	query := `INSERT INTO accounts (uuid, email, name)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	stored := *account
	if stored.UUID == "" {
		stored.UUID = uuid.New().String()
	}

	err := r.db.QueryRowContext(ctx, query, stored.UUID, stored.Email, nullable(stored.Name)).
		Scan(&stored.ID, &stored.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return &stored, nil
}

func (r *PostgresRepo) GetByID(ctx context.Context, id int64) (*accounts.Account, error) {
	return r.getBy(ctx, "id = $1", id)
}

func (r *PostgresRepo) GetByUUID(ctx context.Context, accountUUID string) (*accounts.Account, error) {
	return r.getBy(ctx, "uuid = $1", accountUUID)
}

func (r *PostgresRepo) GetByEmail(ctx context.Context, email string) (*accounts.Account, error) {
	return r.getBy(ctx, "email = $1", email)
}

func (r *PostgresRepo) SetName(ctx context.Context, id int64, name string) error {
	return r.update(ctx, `UPDATE accounts SET name = $2 WHERE id = $1`, id, nullable(name))
}

func (r *PostgresRepo) SetBlog(ctx context.Context, id int64, blogHost, adminHost string) error {
	return r.update(ctx, `UPDATE accounts SET blog_host = $2, admin_host = $3 WHERE id = $1`,
		id, nullable(blogHost), nullable(adminHost))
}

func (r *PostgresRepo) SetAdminAPIKey(ctx context.Context, id int64, adminAPIKey string) error {
	return r.update(ctx, `UPDATE accounts SET admin_api_key = $2 WHERE id = $1`, id, nullable(adminAPIKey))
}

func (r *PostgresRepo) SetGoogleOAuth(ctx context.Context, id int64, clientID, clientSecret string) error {
	query := `UPDATE accounts
		 SET google_oauth_client_id = $2,
		     google_oauth_client_secret = $3,
		     google_oauth_configured = TRUE
		 WHERE id = $1`
	return r.update(ctx, query, id, nullable(clientID), nullable(clientSecret))
}

// Delete removes the account; the logins foreign key cascades, taking the
// account's sign-in history with it.
func (r *PostgresRepo) Delete(ctx context.Context, id int64) error {
	return r.update(ctx, `DELETE FROM accounts WHERE id = $1`, id)
}

func (r *PostgresRepo) getBy(ctx context.Context, where string, arg any) (*accounts.Account, error) {
	query := fmt.Sprintf(`SELECT %s FROM accounts WHERE %s`, accountColumns, where)

	account := &accounts.Account{}
	var name, blogHost, adminHost, adminAPIKey, clientID, clientSecret sql.NullString

	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&account.ID, &account.UUID, &account.Email, &name,
		&blogHost, &adminHost, &adminAPIKey,
		&clientID, &clientSecret, &account.GoogleOauthConfigured, &account.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	account.Name = name.String
	account.BlogHost = blogHost.String
	account.AdminHost = adminHost.String
	account.AdminAPIKey = adminAPIKey.String
	account.GoogleOauthClientID = clientID.String
	account.GoogleOauthClientSecret = clientSecret.String

	return account, nil
}

func (r *PostgresRepo) update(ctx context.Context, query string, args ...any) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if affected == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
