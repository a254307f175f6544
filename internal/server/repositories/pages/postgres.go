// Package pages provides the PostgreSQL-backed page repository.
package pages

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

func (r *PostgresRepository) Create(ctx context.Context, page *models.Page) (*models.Page, error) {
	query :=
		`INSERT INTO page (website_id, path, closed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, page.WebsiteID, page.Path, page.Closed).
		Scan(&page.ID, &page.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return page, nil
}

// GetWithWebsite loads a page left-joined with its website. A missing page
// yields common.ErrorNotFound; a missing website leaves Website nil.
func (r *PostgresRepository) GetWithWebsite(ctx context.Context, id int64) (*models.PageWithWebsite, error) {
	query :=
		`SELECT p.id, p.closed, w.id, w.owner_id
		 FROM page p
		 LEFT JOIN website w ON p.website_id = w.id
		 WHERE p.id = $1
		 LIMIT 1`

	var (
		page      models.PageWithWebsite
		websiteID sql.NullInt64
		ownerID   sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).Scan(&page.ID, &page.Closed, &websiteID, &ownerID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if websiteID.Valid {
		page.Website = &models.WebsiteRef{ID: websiteID.Int64, OwnerID: ownerID.String}
	}
	return &page, nil
}

func (r *PostgresRepository) SetClosed(ctx context.Context, id int64, closed bool) error {
	query := `UPDATE page SET closed = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, closed)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}
