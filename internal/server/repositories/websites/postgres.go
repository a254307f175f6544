// Package websites provides the PostgreSQL-backed website repository.
// Domains live in website_domain, one row per domain, ordered by position.
package websites

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/dbx"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts the website row only; domains are written with
// ReplaceDomains, normally inside the same transaction.
func (r *PostgresRepository) Create(ctx context.Context, website *models.Website) (*models.Website, error) {
	query :=
		`INSERT INTO website (owner_id, name)
		 VALUES ($1, $2)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, website.OwnerID, website.Name).
		Scan(&website.ID, &website.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return website, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Website, error) {
	query :=
		`SELECT id, owner_id, name, created_at FROM website
		 WHERE id = $1`

	w := &models.Website{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&w.ID, &w.OwnerID, &w.Name, &w.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	domains, err := r.listDomains(ctx, id)
	if err != nil {
		return nil, err
	}
	w.Domains = domains

	return w, nil
}

func (r *PostgresRepository) listDomains(ctx context.Context, id int64) ([]string, error) {
	query :=
		`SELECT domain FROM website_domain
		 WHERE website_id = $1
		 ORDER BY position`

	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	domains := []string{}
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, err
		}
		domains = append(domains, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return domains, nil
}

// ListIDsByOwner returns the ids of all websites owned by ownerID.
func (r *PostgresRepository) ListIDsByOwner(ctx context.Context, ownerID string) ([]int64, error) {
	query :=
		`SELECT id FROM website
		 WHERE owner_id = $1
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return ids, nil
}

// ListByOwner returns ownerID's websites with their domains, ordered by id.
func (r *PostgresRepository) ListByOwner(ctx context.Context, ownerID string) ([]*models.Website, error) {
	query :=
		`SELECT id, owner_id, name, created_at FROM website
		 WHERE owner_id = $1
		 ORDER BY id`

	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []*models.Website{}
	byID := map[int64]*models.Website{}
	for rows.Next() {
		w := &models.Website{Domains: []string{}}
		if err := rows.Scan(&w.ID, &w.OwnerID, &w.Name, &w.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, w)
		byID[w.ID] = w
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(result) == 0 {
		return result, nil
	}

	domainQuery :=
		`SELECT d.website_id, d.domain FROM website_domain d
		 JOIN website w ON w.id = d.website_id
		 WHERE w.owner_id = $1
		 ORDER BY d.website_id, d.position`

	drows, err := r.db.QueryContext(ctx, domainQuery, ownerID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer drows.Close()

	for drows.Next() {
		var (
			websiteID int64
			domain    string
		)
		if err := drows.Scan(&websiteID, &domain); err != nil {
			return nil, err
		}
		if w, ok := byID[websiteID]; ok {
			w.Domains = append(w.Domains, domain)
		}
	}
	if err := drows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (r *PostgresRepository) UpdateName(ctx context.Context, id int64, name string) error {
	query := `UPDATE website SET name = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, name)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}

// ReplaceDomains deletes the website's domains and inserts domains in order.
// It issues several statements and should run inside a transaction.
func (r *PostgresRepository) ReplaceDomains(ctx context.Context, id int64, domains []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM website_domain WHERE website_id = $1`, id); err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	insert :=
		`INSERT INTO website_domain (website_id, position, domain)
		 VALUES ($1, $2, $3)`

	for i, d := range domains {
		if _, err := r.db.ExecContext(ctx, insert, id, i, d); err != nil {
			return fmt.Errorf("db error: %w", err)
		}
	}
	return nil
}
