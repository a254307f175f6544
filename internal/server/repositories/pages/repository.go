package pages

import (
	"context"

	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, page *models.Page) (*models.Page, error)
	GetWithWebsite(ctx context.Context, id int64) (*models.PageWithWebsite, error)
	SetClosed(ctx context.Context, id int64, closed bool) error
}
