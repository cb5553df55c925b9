package pgloginrepo

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/contraptionco/trivet/logins"
)

var _ logins.Repo = (*PostgresRepo)(nil)

// PostgresRepo stores login audit rows in postgres.
type PostgresRepo struct {
	db *sql.DB
}

func NewPostgresRepo(db *sql.DB) *PostgresRepo {
	return &PostgresRepo{db: db}
}

func (r *PostgresRepo) Create(ctx context.Context, login *logins.Login) error {
	query := `INSERT INTO logins (account_id, member_email, type)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, login.AccountID, login.MemberEmail, string(login.Type)).
		Scan(&login.ID, &login.CreatedAt)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepo) DailyCounts(ctx context.Context, accountID int64) ([]logins.DailyCount, error) {
	query := `SELECT to_char(date_trunc('day', created_at), 'YYYY-MM-DD') AS day,
		        COUNT(*) FILTER (WHERE type = 'NEW')       AS new_count,
		        COUNT(*) FILTER (WHERE type = 'RETURNING') AS returning_count
		 FROM logins
		 WHERE account_id = $1
		 GROUP BY day
		 ORDER BY day ASC`

	rows, err := r.db.QueryContext(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var counts []logins.DailyCount
	for rows.Next() {
		var c logins.DailyCount
		if err := rows.Scan(&c.Date, &c.New, &c.Returning); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return counts, nil
}
