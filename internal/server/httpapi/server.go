// Package httpapi exposes the pagetalk services over HTTP using a chi router.
package httpapi

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/logging"
	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

type SessionProvider interface {
	GetSession(ctx context.Context, header http.Header) (*models.Session, error)
}

type UserService interface {
	Register(ctx context.Context, name, password string) (*models.User, error)
	Login(ctx context.Context, name, password string) (*services.LoginResult, error)
	Logout(ctx context.Context, sessionID string) error
}

type CommentService interface {
	FetchPageComments(ctx context.Context, pageID int64, loggedInUserID string, publishedOnly bool) (*models.PageComments, error)
	FetchUnpublishedUserCommentsByPage(ctx context.Context, pageID int64, user *models.User) ([]*models.Comment, error)
	Create(ctx context.Context, pageID int64, user *models.User, content string) (*models.Comment, error)
	Edit(ctx context.Context, commentID int64, user *models.User, content string) (*models.Comment, error)
	Delete(ctx context.Context, commentID int64, userID string) error
	Approve(ctx context.Context, commentID int64, userID string) error
}

type WebsiteService interface {
	OwnedWebsiteIDs(ctx context.Context, userID string) ([]int64, error)
	ListOwned(ctx context.Context, userID string) ([]*models.Website, error)
	Create(ctx context.Context, ownerID string, form forms.BaseInfo) (*models.Website, error)
	UpdateBaseInfo(ctx context.Context, websiteID int64, userID string, form forms.BaseInfo) (*models.Website, error)
	CreatePage(ctx context.Context, websiteID int64, userID string, form forms.Page) (*models.Page, error)
	SetPageClosed(ctx context.Context, pageID int64, userID string, closed bool) error
}

type AvatarService interface {
	PresignUpload(ctx context.Context, userID string) (*services.AvatarUpload, error)
	ConfirmUpload(ctx context.Context, userID, key string) (string, error)
}

// Services bundles the dependencies of the HTTP handlers.
type Services struct {
	Sessions SessionProvider
	Users    UserService
	Comments CommentService
	Websites WebsiteService
	Avatars  AvatarService
}

type Server struct {
	address         string
	logger          logging.Logger
	sessions        SessionProvider
	users           UserService
	comments        CommentService
	websites        WebsiteService
	avatars         AvatarService
	graphQLEndpoint string
}

func NewServer(a string, l logging.Logger, svc Services, graphQLEndpoint string) (*Server, error) {
	if svc.Sessions == nil || svc.Websites == nil {
		return nil, errors.New("session provider and website service are required")
	}
	return &Server{
		address:         a,
		logger:          l.With("module", "http_server"),
		sessions:        svc.Sessions,
		users:           svc.Users,
		comments:        svc.Comments,
		websites:        svc.Websites,
		avatars:         svc.Avatars,
		graphQLEndpoint: graphQLEndpoint,
	}, nil
}

// Routes builds the router. Every route runs behind SessionMiddleware.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(s.SessionMiddleware)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/config", s.handleConfig)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)
	r.Post("/auth/logout", s.handleLogout)

	r.Get("/pages/{pageID}/comments", s.handleListComments)
	r.Get("/pages/{pageID}/comments/pending", s.handleListPending)
	r.Post("/pages/{pageID}/comments", s.handleCreateComment)
	r.Patch("/comments/{commentID}", s.handleEditComment)
	r.Delete("/comments/{commentID}", s.handleDeleteComment)
	r.Post("/comments/{commentID}/approve", s.handleApproveComment)

	r.Get("/console/websites", s.handleListWebsites)
	r.Post("/console/websites", s.handleCreateWebsite)
	r.Put("/console/websites/{websiteID}", s.handleUpdateWebsite)
	r.Post("/console/websites/{websiteID}/pages", s.handleCreatePage)
	r.Put("/console/pages/{pageID}/closed", s.handleSetPageClosed)
	r.Post("/console/avatar", s.handleAvatar)
	r.Put("/console/avatar", s.handleConfirmAvatar)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(shutdownCtx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	return nil
}
