package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/job-leads/api/internal/entity"
)

// EmailLogsRepository records which addresses were already contacted.
type EmailLogsRepository interface {
	ListEmails(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, log entity.EmailLog) error
}

// PGXEmailLogsRepository implements EmailLogsRepository with pgx.
type PGXEmailLogsRepository struct {
	pool pgxPool
}

// NewPGXEmailLogsRepository instantiates an email log repository.
func NewPGXEmailLogsRepository(pool *pgxpool.Pool) *PGXEmailLogsRepository {
	return &PGXEmailLogsRepository{pool: pool}
}

// ListEmails returns every contacted address, lowercased.
func (r *PGXEmailLogsRepository) ListEmails(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT DISTINCT LOWER(email) FROM email_logs`)
	if err != nil {
		return nil, fmt.Errorf("list email logs: %w", err)
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, fmt.Errorf("scan email log: %w", err)
		}
		emails = append(emails, email)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate email logs: %w", err)
	}
	return emails, nil
}

// Insert records a sent email. Re-recording the same (job link, email) pair is a no-op.
func (r *PGXEmailLogsRepository) Insert(ctx context.Context, log entity.EmailLog) error {
	email := strings.ToLower(strings.TrimSpace(log.Email))
	if email == "" || strings.TrimSpace(log.JobLink) == "" {
		return fmt.Errorf("email log requires job link and email")
	}

	_, err := r.pool.Exec(ctx, `
        INSERT INTO email_logs (job_link, email)
        VALUES ($1, $2)
        ON CONFLICT (job_link, email) DO NOTHING
    `, log.JobLink, email)
	if err != nil {
		return fmt.Errorf("insert email log: %w", err)
	}
	return nil
}
