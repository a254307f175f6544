package httpapi

import (
	"context"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/logging"
	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/services"
)

type nopLogger struct{}

func (n nopLogger) Debug(context.Context, string, ...any) {}
func (n nopLogger) Info(context.Context, string, ...any)  {}
func (n nopLogger) Warn(context.Context, string, ...any)  {}
func (n nopLogger) Error(context.Context, string, ...any) {}
func (n nopLogger) With(...any) logging.Logger            { return n }

// fakeSessions resolves the "X-Test-User" header to a session for that user.
type fakeSessions struct {
	err error
}

func (f *fakeSessions) GetSession(ctx context.Context, h http.Header) (*models.Session, error) {
	if f.err != nil {
		return nil, f.err
	}
	id := h.Get("X-Test-User")
	if id == "" {
		return nil, nil
	}
	return &models.Session{ID: "sess-" + id, UserID: id, User: &models.User{ID: id, Name: "user " + id}}, nil
}

type fakeUsers struct {
	registered *models.User
	err        error
	login      *services.LoginResult
	loggedOut  []string
}

func (f *fakeUsers) Register(ctx context.Context, name, password string) (*models.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.registered = &models.User{ID: "new", Name: name}
	return f.registered, nil
}

func (f *fakeUsers) Login(ctx context.Context, name, password string) (*services.LoginResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.login, nil
}

func (f *fakeUsers) Logout(ctx context.Context, sessionID string) error {
	f.loggedOut = append(f.loggedOut, sessionID)
	return f.err
}

type fakeComments struct {
	err error

	gotPageID        int64
	gotUserID        string
	gotPublishedOnly bool
	gotUser          *models.User
	gotContent       string

	page    *models.PageComments
	pending []*models.Comment
}

func (f *fakeComments) FetchPageComments(ctx context.Context, pageID int64, userID string, publishedOnly bool) (*models.PageComments, error) {
	f.gotPageID, f.gotUserID, f.gotPublishedOnly = pageID, userID, publishedOnly
	if f.err != nil {
		return nil, f.err
	}
	return f.page, nil
}

func (f *fakeComments) FetchUnpublishedUserCommentsByPage(ctx context.Context, pageID int64, user *models.User) ([]*models.Comment, error) {
	f.gotPageID, f.gotUser = pageID, user
	if f.err != nil {
		return nil, f.err
	}
	if user == nil {
		return []*models.Comment{}, nil
	}
	return f.pending, nil
}

func (f *fakeComments) Create(ctx context.Context, pageID int64, user *models.User, content string) (*models.Comment, error) {
	f.gotPageID, f.gotUser, f.gotContent = pageID, user, content
	if f.err != nil {
		return nil, f.err
	}
	return &models.Comment{ID: 1, PageID: pageID, Content: content, Author: models.AuthorFromUser(user)}, nil
}

func (f *fakeComments) Edit(ctx context.Context, commentID int64, user *models.User, content string) (*models.Comment, error) {
	f.gotUser, f.gotContent = user, content
	if f.err != nil {
		return nil, f.err
	}
	return &models.Comment{
		ID:          commentID,
		Content:     content,
		Author:      models.AuthorFromUser(user),
		Permissions: models.CommentPermissions{Delete: true, Edit: true},
	}, nil
}

func (f *fakeComments) Delete(ctx context.Context, commentID int64, userID string) error {
	f.gotUserID = userID
	return f.err
}

func (f *fakeComments) Approve(ctx context.Context, commentID int64, userID string) error {
	f.gotUserID = userID
	return f.err
}

type fakeWebsites struct {
	ids    map[string][]int64
	idsErr error
	err    error

	gotForm   forms.BaseInfo
	gotClosed bool
}

func (f *fakeWebsites) OwnedWebsiteIDs(ctx context.Context, userID string) ([]int64, error) {
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	if ids, ok := f.ids[userID]; ok {
		return ids, nil
	}
	return []int64{}, nil
}

func (f *fakeWebsites) ListOwned(ctx context.Context, userID string) ([]*models.Website, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []*models.Website{{ID: 1, OwnerID: userID, Name: "Blog", Domains: []string{"blog.example"}}}, nil
}

func (f *fakeWebsites) Create(ctx context.Context, ownerID string, form forms.BaseInfo) (*models.Website, error) {
	f.gotForm = form
	if err := form.Validate(); err != nil {
		return nil, err
	}
	return &models.Website{ID: 2, OwnerID: ownerID, Name: form.Name, Domains: form.Domains}, nil
}

func (f *fakeWebsites) UpdateBaseInfo(ctx context.Context, websiteID int64, userID string, form forms.BaseInfo) (*models.Website, error) {
	f.gotForm = form
	if f.err != nil {
		return nil, f.err
	}
	return &models.Website{ID: websiteID, OwnerID: userID, Name: form.Name, Domains: form.Domains}, nil
}

func (f *fakeWebsites) CreatePage(ctx context.Context, websiteID int64, userID string, form forms.Page) (*models.Page, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.Page{ID: 3, WebsiteID: websiteID, Path: form.Path}, nil
}

func (f *fakeWebsites) SetPageClosed(ctx context.Context, pageID int64, userID string, closed bool) error {
	f.gotClosed = closed
	return f.err
}

type fakeAvatars struct {
	err          error
	confirmedKey string
}

func (f *fakeAvatars) PresignUpload(ctx context.Context, userID string) (*services.AvatarUpload, error) {
	if f.err != nil {
		return nil, f.err
	}
	if userID == "" {
		return nil, common.ErrorUnauthorized
	}
	return &services.AvatarUpload{UploadURL: "http://signed", Key: "avatars/" + userID + "/k", ImageURL: "http://img/" + userID}, nil
}

func (f *fakeAvatars) ConfirmUpload(ctx context.Context, userID, key string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.confirmedKey = key
	return "http://img/" + key, nil
}

type testDeps struct {
	sessions *fakeSessions
	users    *fakeUsers
	comments *fakeComments
	websites *fakeWebsites
	avatars  *fakeAvatars
}

func newTestServer(t *testing.T) (*Server, *testDeps) {
	t.Helper()
	d := &testDeps{
		sessions: &fakeSessions{},
		users:    &fakeUsers{},
		comments: &fakeComments{},
		websites: &fakeWebsites{ids: map[string][]int64{}},
		avatars:  &fakeAvatars{},
	}
	s, err := NewServer("127.0.0.1:0", nopLogger{}, Services{
		Sessions: d.sessions,
		Users:    d.users,
		Comments: d.comments,
		Websites: d.websites,
		Avatars:  d.avatars,
	}, "http://public.example/api/graphql")
	if err != nil {
		t.Fatalf("NewServer error: %v", err)
	}
	return s, d
}
