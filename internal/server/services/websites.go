package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/dbx"
	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
)

// WebsiteService manages websites and their pages on behalf of their owners.
type WebsiteService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewWebsiteService(db *sql.DB, m repomanager.RepositoryManager) *WebsiteService {
	return &WebsiteService{
		db:          db,
		repomanager: m,
	}
}

// OwnedWebsiteIDs returns the ids of the websites userID owns, ascending.
func (s *WebsiteService) OwnedWebsiteIDs(ctx context.Context, userID string) ([]int64, error) {
	ids, err := s.repomanager.Websites(s.db).ListIDsByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing owned websites: %w", err)
	}
	return ids, nil
}

func (s *WebsiteService) ListOwned(ctx context.Context, userID string) ([]*models.Website, error) {
	list, err := s.repomanager.Websites(s.db).ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing websites: %w", err)
	}
	return list, nil
}

func (s *WebsiteService) Create(ctx context.Context, ownerID string, form forms.BaseInfo) (*models.Website, error) {

	if err := form.Validate(); err != nil {
		return nil, err
	}

	website := &models.Website{
		OwnerID: ownerID,
		Name:    form.Name,
		Domains: form.Domains,
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Websites(tx)

		created, err := repo.Create(ctx, website)
		if err != nil {
			return err
		}
		website = created

		return repo.ReplaceDomains(ctx, website.ID, website.Domains)
	})
	if err != nil {
		return nil, fmt.Errorf("error creating website: %w", err)
	}

	return website, nil
}

// UpdateBaseInfo replaces the name and domains of a website owned by userID.
func (s *WebsiteService) UpdateBaseInfo(ctx context.Context, websiteID int64, userID string, form forms.BaseInfo) (*models.Website, error) {

	if err := form.Validate(); err != nil {
		return nil, err
	}

	website, err := s.ownedWebsite(ctx, websiteID, userID)
	if err != nil {
		return nil, err
	}

	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Websites(tx)

		if err := repo.UpdateName(ctx, websiteID, form.Name); err != nil {
			return err
		}
		return repo.ReplaceDomains(ctx, websiteID, form.Domains)
	})
	if err != nil {
		return nil, fmt.Errorf("error updating website: %w", err)
	}

	website.Name = form.Name
	website.Domains = form.Domains

	return website, nil
}

func (s *WebsiteService) CreatePage(ctx context.Context, websiteID int64, userID string, form forms.Page) (*models.Page, error) {

	if err := form.Validate(); err != nil {
		return nil, err
	}

	if _, err := s.ownedWebsite(ctx, websiteID, userID); err != nil {
		return nil, err
	}

	page, err := s.repomanager.Pages(s.db).Create(ctx, &models.Page{WebsiteID: websiteID, Path: form.Path})
	if err != nil {
		return nil, fmt.Errorf("error creating page: %w", err)
	}
	return page, nil
}

// SetPageClosed opens or closes a page for new comments.
func (s *WebsiteService) SetPageClosed(ctx context.Context, pageID int64, userID string, closed bool) error {

	repo := s.repomanager.Pages(s.db)

	page, err := repo.GetWithWebsite(ctx, pageID)
	if err != nil {
		return err
	}

	if !page.OwnedBy(userID) {
		return common.ErrorForbidden
	}

	return repo.SetClosed(ctx, pageID, closed)
}

func (s *WebsiteService) ownedWebsite(ctx context.Context, websiteID int64, userID string) (*models.Website, error) {
	website, err := s.repomanager.Websites(s.db).GetByID(ctx, websiteID)
	if err != nil {
		return nil, err
	}
	if userID == "" || website.OwnerID != userID {
		return nil, common.ErrorForbidden
	}
	return website, nil
}
