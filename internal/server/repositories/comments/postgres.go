// Package comments provides the PostgreSQL-backed comment repository.
// Every list query returns the most recent comment first.
package comments

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

const listByPageQuery = `
	SELECT c.id, c.page_id, c.author_id, c.content, c.created_at, c.published,
	       u.id, u.name, u.image
	FROM comment c
	LEFT JOIN users u ON c.author_id = u.id
	WHERE c.page_id = $1%s
	ORDER BY c.created_at DESC`

// ListByPage returns the comments of a page joined with their authors.
// With publishedOnly only published comments are returned; otherwise all of
// them, whoever wrote them. Author is nil when the comment has no author row.
func (r *PostgresRepository) ListByPage(ctx context.Context, pageID int64, publishedOnly bool) ([]*models.Comment, error) {
	filter := ""
	if publishedOnly {
		filter = " AND c.published = true"
	}
	query := fmt.Sprintf(listByPageQuery, filter)

	rows, err := r.db.QueryContext(ctx, query, pageID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		var (
			c          models.Comment
			authorRef  sql.NullString
			authorID   sql.NullString
			authorName sql.NullString
			image      sql.NullString
		)
		if err := rows.Scan(
			&c.ID, &c.PageID, &authorRef, &c.Content, &c.CreatedAt, &c.Published,
			&authorID, &authorName, &image,
		); err != nil {
			return nil, err
		}
		c.AuthorID = dbx.StringPtr(authorRef)
		if authorID.Valid {
			c.Author = &models.CommentAuthor{ID: authorID.String, Name: authorName.String, Image: dbx.StringPtr(image)}
		}
		result = append(result, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListUnpublishedByAuthor returns authorID's unpublished comments on a page.
// Author is left nil; the caller already knows who the author is.
func (r *PostgresRepository) ListUnpublishedByAuthor(ctx context.Context, pageID int64, authorID string) ([]*models.Comment, error) {
	query := `
		SELECT id, page_id, content, created_at, published
		FROM comment
		WHERE page_id = $1 AND published = false AND author_id = $2
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, pageID, authorID)
	if err != nil {
		return nil, fmt.Errorf("failed to select comments: %w", err)
	}
	defer rows.Close()

	result := []*models.Comment{}
	for rows.Next() {
		c := &models.Comment{}
		if err := rows.Scan(&c.ID, &c.PageID, &c.Content, &c.CreatedAt, &c.Published); err != nil {
			return nil, err
		}
		id := authorID
		c.AuthorID = &id
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	query := `
		INSERT INTO comment (page_id, author_id, content, published)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, comment.PageID, comment.AuthorID, comment.Content, comment.Published).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return comment, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	query := `
		SELECT id, page_id, author_id, content, created_at, published
		FROM comment
		WHERE id = $1`

	var (
		c        models.Comment
		authorID sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&c.ID, &c.PageID, &authorID, &c.Content, &c.CreatedAt, &c.Published)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	c.AuthorID = dbx.StringPtr(authorID)
	return &c, nil
}

func (r *PostgresRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comment SET content = $2 WHERE id = $1`, id, content)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}

// Publish marks an unpublished comment as published. An already published
// or missing comment yields common.ErrorNotFound.
func (r *PostgresRepository) Publish(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `UPDATE comment SET published = true WHERE id = $1 AND published = false`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comment WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return dbx.RowsAffectedOne(res, common.ErrorNotFound)
}
