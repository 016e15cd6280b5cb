package repo

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"jobdesk/internal/domain"
)

// ApplicationRepositoryPG implements domain.ApplicationRepository. The
// derived primary key makes the insert idempotent; no transaction is needed.
type ApplicationRepositoryPG struct {
	pool *pgxpool.Pool
}

// NewApplicationRepository creates a new ApplicationRepositoryPG.
func NewApplicationRepository(pool *pgxpool.Pool) *ApplicationRepositoryPG {
	return &ApplicationRepositoryPG{pool: pool}
}

// Upsert records the application. A repeat apply for the same pair hits the
// existing row and is a no-op, so AppliedAt and the snapshot keep their
// first-write values.
func (r *ApplicationRepositoryPG) Upsert(ctx context.Context, app *domain.Application) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO applications (id, account_id, job_id, title, company_name, location, category, status, applied_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (id) DO NOTHING;
`,
		app.ID,
		app.AccountID,
		app.JobID,
		app.Title,
		app.CompanyName,
		app.Location,
		app.Category,
		app.Status,
		app.AppliedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert application %q: %w", app.ID, err)
	}
	return nil
}

// ListJobIDs returns the job IDs the account has applied to, newest first.
func (r *ApplicationRepositoryPG) ListJobIDs(ctx context.Context, accountID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
SELECT job_id
FROM applications
WHERE account_id = $1
ORDER BY applied_at DESC;
`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
