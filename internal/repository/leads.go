package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/octobees/job-leads/api/internal/dto"
	"github.com/octobees/job-leads/api/internal/entity"
)

var (
	// ErrLeadNotFound is returned when no lead matches the identifier.
	ErrLeadNotFound = errors.New("lead not found")
	// ErrLeadExists is returned when a lead with the same job link is already stored.
	ErrLeadExists = errors.New("lead already exists")
)

const uniqueViolation = "23505"

// LeadsRepository describes persistence operations for leads.
type LeadsRepository interface {
	ListJobLinks(ctx context.Context) ([]string, error)
	Insert(ctx context.Context, lead *entity.Lead) error
	List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)
	UpdateTags(ctx context.Context, id uuid.UUID, tags []string) error
	UpdateEmails(ctx context.Context, id uuid.UUID, emails []string) error
	UpdateKeywords(ctx context.Context, id uuid.UUID, keywords []string) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error)
}

// PGXLeadsRepository implements LeadsRepository using pgx.
type PGXLeadsRepository struct {
	pool pgxPool
}

// NewPGXLeadsRepository wires a pgx backed repository.
func NewPGXLeadsRepository(pool *pgxpool.Pool) *PGXLeadsRepository {
	return &PGXLeadsRepository{pool: pool}
}

const leadColumns = `id, created_at, job_title, job_desc, job_link, emails, phone_numbers, websites, social_links, keywords, tags`

// ListJobLinks returns the job link of every stored lead.
func (r *PGXLeadsRepository) ListJobLinks(ctx context.Context) ([]string, error) {
	rows, err := r.pool.Query(ctx, `SELECT job_link FROM leads`)
	if err != nil {
		return nil, fmt.Errorf("list job links: %w", err)
	}
	defer rows.Close()

	var links []string
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("scan job link: %w", err)
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate job links: %w", err)
	}
	return links, nil
}

// Insert stores a new lead and fills in its generated id and creation time.
func (r *PGXLeadsRepository) Insert(ctx context.Context, lead *entity.Lead) error {
	if lead == nil {
		return fmt.Errorf("lead payload is nil")
	}
	if strings.TrimSpace(lead.JobLink) == "" {
		return fmt.Errorf("lead job link is required")
	}

	query := `
        INSERT INTO leads (
            job_title,
            job_desc,
            job_link,
            emails,
            phone_numbers,
            websites,
            social_links,
            keywords,
            tags
        ) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        RETURNING id, created_at
    `

	err := r.pool.QueryRow(ctx, query,
		lead.JobTitle,
		lead.JobDesc,
		lead.JobLink,
		stringSliceOrEmpty(lead.Emails),
		stringSliceOrEmpty(lead.PhoneNumbers),
		stringSliceOrEmpty(lead.Websites),
		stringSliceOrEmpty(lead.SocialLinks),
		stringSliceOrEmpty(lead.Keywords),
		stringSliceOrEmpty(lead.Tags),
	).Scan(&lead.ID, &lead.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return ErrLeadExists
		}
		return fmt.Errorf("insert lead: %w", err)
	}
	return nil
}

// List retrieves leads matching the filter, newest first.
func (r *PGXLeadsRepository) List(ctx context.Context, filter dto.LeadFilter) ([]entity.Lead, error) {
	baseQuery := strings.Builder{}
	baseQuery.WriteString("SELECT " + leadColumns + " FROM leads")

	var (
		clauses []string
		args    []any
		idx     = 1
	)

	if q := strings.TrimSpace(filter.Q); q != "" {
		pattern := fmt.Sprintf("%%%s%%", q)
		clauses = append(clauses, fmt.Sprintf(
			"(job_title ILIKE $%d OR job_desc ILIKE $%d OR array_to_string(emails, ' ') ILIKE $%d)", idx, idx, idx))
		args = append(args, pattern)
		idx++
	}
	if tag := strings.TrimSpace(filter.Tag); tag != "" {
		clauses = append(clauses, fmt.Sprintf("$%d = ANY(tags)", idx))
		args = append(args, tag)
		idx++
	}

	if len(clauses) > 0 {
		baseQuery.WriteString(" WHERE ")
		baseQuery.WriteString(strings.Join(clauses, " AND "))
	}
	baseQuery.WriteString(" ORDER BY created_at DESC")

	page := filter.Page
	if page <= 0 {
		page = 1
	}
	perPage := filter.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	if perPage > 100 {
		perPage = 100
	}
	offset := (page - 1) * perPage
	baseQuery.WriteString(fmt.Sprintf(" LIMIT $%d OFFSET $%d", idx, idx+1))
	args = append(args, perPage, offset)

	rows, err := r.pool.Query(ctx, baseQuery.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}
	defer rows.Close()

	return scanLeads(rows)
}

// GetByID fetches a single lead.
func (r *PGXLeadsRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	row := r.pool.QueryRow(ctx, "SELECT "+leadColumns+" FROM leads WHERE id = $1", id)

	lead, err := scanLead(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("query lead by id: %w", err)
	}
	return lead, nil
}

// UpdateTags replaces the tags of a lead.
func (r *PGXLeadsRepository) UpdateTags(ctx context.Context, id uuid.UUID, tags []string) error {
	return r.updateArray(ctx, "tags", id, tags)
}

// UpdateEmails replaces the emails of a lead.
func (r *PGXLeadsRepository) UpdateEmails(ctx context.Context, id uuid.UUID, emails []string) error {
	return r.updateArray(ctx, "emails", id, emails)
}

// UpdateKeywords replaces the keywords of a lead.
func (r *PGXLeadsRepository) UpdateKeywords(ctx context.Context, id uuid.UUID, keywords []string) error {
	return r.updateArray(ctx, "keywords", id, keywords)
}

func (r *PGXLeadsRepository) updateArray(ctx context.Context, column string, id uuid.UUID, values []string) error {
	tag, err := r.pool.Exec(ctx, fmt.Sprintf("UPDATE leads SET %s = $1 WHERE id = $2", column), stringSliceOrEmpty(values), id)
	if err != nil {
		return fmt.Errorf("update lead %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// Delete removes a lead.
func (r *PGXLeadsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrLeadNotFound
	}
	return nil
}

// DeleteMany removes every listed lead and reports how many rows were deleted.
func (r *PGXLeadsRepository) DeleteMany(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("delete leads: %w", err)
	}
	return tag.RowsAffected(), nil
}

func scanLead(row pgx.Row) (*entity.Lead, error) {
	var lead entity.Lead
	err := row.Scan(
		&lead.ID,
		&lead.CreatedAt,
		&lead.JobTitle,
		&lead.JobDesc,
		&lead.JobLink,
		&lead.Emails,
		&lead.PhoneNumbers,
		&lead.Websites,
		&lead.SocialLinks,
		&lead.Keywords,
		&lead.Tags,
	)
	if err != nil {
		return nil, err
	}
	lead.Emails = stringSliceOrEmpty(lead.Emails)
	lead.PhoneNumbers = stringSliceOrEmpty(lead.PhoneNumbers)
	lead.Websites = stringSliceOrEmpty(lead.Websites)
	lead.SocialLinks = stringSliceOrEmpty(lead.SocialLinks)
	lead.Keywords = stringSliceOrEmpty(lead.Keywords)
	lead.Tags = stringSliceOrEmpty(lead.Tags)
	return &lead, nil
}

func scanLeads(rows pgx.Rows) ([]entity.Lead, error) {
	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, *lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate leads: %w", err)
	}
	return leads, nil
}
