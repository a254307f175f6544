package websites

import (
	"context"

	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, website *models.Website) (*models.Website, error)
	GetByID(ctx context.Context, id int64) (*models.Website, error)
	ListIDsByOwner(ctx context.Context, ownerID string) ([]int64, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*models.Website, error)
	UpdateName(ctx context.Context, id int64, name string) error
	ReplaceDomains(ctx context.Context, id int64, domains []string) error
}
