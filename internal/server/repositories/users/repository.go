package users

import (
	"context"

	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByName(ctx context.Context, name string) (*models.User, error)
	UpdateImage(ctx context.Context, id string, image string) error
}
