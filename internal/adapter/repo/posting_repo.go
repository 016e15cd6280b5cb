package repo

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"jobdesk/internal/domain"
)

const postingColumns = `id, public_id, account_id, title, company_name, location, country, category, description, status, created_at, updated_at`

// JobPostingRepositoryPG implements domain.JobPostingRepository.
type JobPostingRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewJobPostingRepository creates a new JobPostingRepositoryPG.
func NewJobPostingRepository(pool *pgxpool.Pool) *JobPostingRepositoryPG {
	return &JobPostingRepositoryPG{pool: pool}
}

// Create inserts a new posting record.
func (r *JobPostingRepositoryPG) Create(ctx context.Context, p *domain.JobPosting) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO job_postings (id, public_id, account_id, title, company_name, location, country, category, description, status)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
`,
		p.ID,
		p.PublicID,
		p.AccountID,
		p.Title,
		p.CompanyName,
		p.Location,
		p.Country,
		p.Category,
		p.Description,
		p.Status,
	)
	if err != nil {
		return fmt.Errorf("create posting %q: %w", p.PublicID, err)
	}
	return nil
}

// GetByPublicID fetches a posting by its public identifier.
func (r *JobPostingRepositoryPG) GetByPublicID(ctx context.Context, publicID string) (*domain.JobPosting, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+postingColumns+` FROM job_postings WHERE public_id = $1`, publicID)
	return scanPosting(row)
}

// List returns open postings, newest first, honoring the optional filters.
func (r *JobPostingRepositoryPG) List(ctx context.Context, filter domain.PostingFilter) ([]domain.JobPosting, error) {
	where := []string{"status = 'open'"}
	args := []any{}
	if filter.Location != "" {
		args = append(args, filter.Location)
		where = append(where, "location = $"+strconv.Itoa(len(args)))
	}
	if filter.Country != "" {
		args = append(args, filter.Country)
		where = append(where, "country = $"+strconv.Itoa(len(args)))
	}
	if filter.Category != "" {
		args = append(args, filter.Category)
		where = append(where, "category = $"+strconv.Itoa(len(args)))
	}
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)

	query := `SELECT ` + postingColumns + ` FROM job_postings WHERE ` + strings.Join(where, " AND ") +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list postings: %w", err)
	}
	defer rows.Close()

	var out []domain.JobPosting
	for rows.Next() {
		p, err := scanPosting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

func scanPosting(row pgx.Row) (*domain.JobPosting, error) {
	var p domain.JobPosting
	if err := row.Scan(
		&p.ID,
		&p.PublicID,
		&p.AccountID,
		&p.Title,
		&p.CompanyName,
		&p.Location,
		&p.Country,
		&p.Category,
		&p.Description,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}
