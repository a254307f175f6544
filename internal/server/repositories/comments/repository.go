package comments

import (
	"context"

	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type Repository interface {
	ListByPage(ctx context.Context, pageID int64, publishedOnly bool) ([]*models.Comment, error)
	ListUnpublishedByAuthor(ctx context.Context, pageID int64, authorID string) ([]*models.Comment, error)
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Publish(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}
