package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/dbx"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/comments"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/pages"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/users"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/websites"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func strPtr(s string) *string { return &s }

// --- users ---

type fakeUsersRepo struct {
	byID map[string]*models.User

	created   *models.User
	createErr error
	getErr    error

	imageUserID    string
	image          string
	updateImageErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.CreatedAt = time.Now()
	f.created = u
	return u, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if u, ok := f.byID[id]; ok {
		return u, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByName(ctx context.Context, name string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	for _, u := range f.byID {
		if u.Name == name {
			return u, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) UpdateImage(ctx context.Context, id string, image string) error {
	if f.updateImageErr != nil {
		return f.updateImageErr
	}
	f.imageUserID, f.image = id, image
	return nil
}

// --- sessions ---

type fakeSessionsRepo struct {
	byID map[string]*models.Session

	created   *models.Session
	createErr error
	findErr   error
	deleteErr error
	deleted   []string

	purged   int64
	purgeErr error
}

func (f *fakeSessionsRepo) Create(ctx context.Context, s *models.Session) error {
	if f.createErr != nil {
		return f.createErr
	}
	s.CreatedAt = time.Now()
	f.created = s
	return nil
}

func (f *fakeSessionsRepo) Find(ctx context.Context, id string) (*models.Session, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if s, ok := f.byID[id]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeSessionsRepo) Delete(ctx context.Context, id string) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func (f *fakeSessionsRepo) DeleteExpired(ctx context.Context) (int64, error) {
	return f.purged, f.purgeErr
}

// --- websites ---

type fakeWebsitesRepo struct {
	byID map[int64]*models.Website

	ownedIDs []int64
	idsErr   error

	listed  []*models.Website
	listErr error

	nextID     int64
	createErr  error
	nameErr    error
	domainsErr error

	names   map[int64]string
	domains map[int64][]string
}

func (f *fakeWebsitesRepo) Create(ctx context.Context, w *models.Website) (*models.Website, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.nextID++
	w.ID = f.nextID
	w.CreatedAt = time.Now()
	return w, nil
}

func (f *fakeWebsitesRepo) GetByID(ctx context.Context, id int64) (*models.Website, error) {
	if w, ok := f.byID[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeWebsitesRepo) ListIDsByOwner(ctx context.Context, ownerID string) ([]int64, error) {
	return f.ownedIDs, f.idsErr
}

func (f *fakeWebsitesRepo) ListByOwner(ctx context.Context, ownerID string) ([]*models.Website, error) {
	return f.listed, f.listErr
}

func (f *fakeWebsitesRepo) UpdateName(ctx context.Context, id int64, name string) error {
	if f.nameErr != nil {
		return f.nameErr
	}
	if f.names == nil {
		f.names = map[int64]string{}
	}
	f.names[id] = name
	return nil
}

func (f *fakeWebsitesRepo) ReplaceDomains(ctx context.Context, id int64, domains []string) error {
	if f.domainsErr != nil {
		return f.domainsErr
	}
	if f.domains == nil {
		f.domains = map[int64][]string{}
	}
	f.domains[id] = domains
	return nil
}

// --- pages ---

type fakePagesRepo struct {
	byID   map[int64]*models.PageWithWebsite
	getErr error

	created   *models.Page
	createErr error

	closed   map[int64]bool
	closeErr error
}

func (f *fakePagesRepo) Create(ctx context.Context, p *models.Page) (*models.Page, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	p.ID = 100
	f.created = p
	return p, nil
}

func (f *fakePagesRepo) GetWithWebsite(ctx context.Context, id int64) (*models.PageWithWebsite, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakePagesRepo) SetClosed(ctx context.Context, id int64, closed bool) error {
	if f.closeErr != nil {
		return f.closeErr
	}
	if f.closed == nil {
		f.closed = map[int64]bool{}
	}
	f.closed[id] = closed
	return nil
}

// --- comments ---

type fakeCommentsRepo struct {
	list             []*models.Comment
	listErr          error
	listCalls        int
	gotPublishedOnly bool

	unpublished      []*models.Comment
	unpublishedCalls int
	gotAuthorID      string

	byID map[int64]*models.Comment

	created   *models.Comment
	createErr error

	updated   map[int64]string
	published []int64
	deleted   []int64
	writeErr  error
}

func (f *fakeCommentsRepo) ListByPage(ctx context.Context, pageID int64, publishedOnly bool) ([]*models.Comment, error) {
	f.listCalls++
	f.gotPublishedOnly = publishedOnly
	if f.listErr != nil {
		return nil, f.listErr
	}
	if f.list == nil {
		return []*models.Comment{}, nil
	}
	return f.list, nil
}

func (f *fakeCommentsRepo) ListUnpublishedByAuthor(ctx context.Context, pageID int64, authorID string) ([]*models.Comment, error) {
	f.unpublishedCalls++
	f.gotAuthorID = authorID
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.unpublished, nil
}

func (f *fakeCommentsRepo) Create(ctx context.Context, c *models.Comment) (*models.Comment, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	c.ID = 500
	c.CreatedAt = time.Now()
	f.created = c
	return c, nil
}

func (f *fakeCommentsRepo) GetByID(ctx context.Context, id int64) (*models.Comment, error) {
	if c, ok := f.byID[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, common.ErrorNotFound
}

func (f *fakeCommentsRepo) UpdateContent(ctx context.Context, id int64, content string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	if f.updated == nil {
		f.updated = map[int64]string{}
	}
	f.updated[id] = content
	return nil
}

func (f *fakeCommentsRepo) Publish(ctx context.Context, id int64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.published = append(f.published, id)
	return nil
}

func (f *fakeCommentsRepo) Delete(ctx context.Context, id int64) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

// --- manager ---

type fakeRepoManager struct {
	u *fakeUsersRepo
	s *fakeSessionsRepo
	w *fakeWebsitesRepo
	p *fakePagesRepo
	c *fakeCommentsRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{
		u: &fakeUsersRepo{byID: map[string]*models.User{}},
		s: &fakeSessionsRepo{byID: map[string]*models.Session{}},
		w: &fakeWebsitesRepo{byID: map[int64]*models.Website{}},
		p: &fakePagesRepo{byID: map[int64]*models.PageWithWebsite{}},
		c: &fakeCommentsRepo{byID: map[int64]*models.Comment{}},
	}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository           { return m.u }
func (m *fakeRepoManager) Sessions(db dbx.DBTX) sessions.Repository     { return m.s }
func (m *fakeRepoManager) Websites(db dbx.DBTX) websites.Repository     { return m.w }
func (m *fakeRepoManager) Pages(db dbx.DBTX) pages.Repository           { return m.p }
func (m *fakeRepoManager) Comments(db dbx.DBTX) comments.Repository     { return m.c }
