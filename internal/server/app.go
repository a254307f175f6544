// Package server initializes and runs the pagetalk application: it opens the
// database, applies migrations, wires the services into the HTTP API and
// handles graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/logging"
	"github.com/dmitrijs2005/pagetalk/internal/server/config"
	"github.com/dmitrijs2005/pagetalk/internal/server/httpapi"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/pagetalk/internal/server/services"
)

const sessionPurgeInterval = time.Hour

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	repomanager    repomanager.RepositoryManager
	userService    *services.UserService
	sessionService *services.SessionService
	commentService *services.CommentService
	websiteService *services.WebsiteService
	avatarService  *services.AvatarService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger, err := logging.New(c.LogBackend, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	warnInsecureSecret(ctx, logger, c)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		repomanager:    rm,
		userService:    services.NewUserService(db, rm, c),
		sessionService: services.NewSessionService(db, rm, c),
		commentService: services.NewCommentService(db, rm),
		websiteService: services.NewWebsiteService(db, rm),
		avatarService:  services.NewAvatarService(db, rm, c),
	}, nil
}

func warnInsecureSecret(ctx context.Context, l logging.Logger, c *config.Config) {
	if c.InsecureSecretKey() {
		l.Warn(ctx, "session tokens are signed with an empty or built-in secret key; set it before exposing the server",
			"env", config.EnvSecretKey)
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, httpapi.Services{
		Sessions: app.sessionService,
		Users:    app.userService,
		Comments: app.commentService,
		Websites: app.websiteService,
		Avatars:  app.avatarService,
	}, app.config.GraphQLEndpoint())

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
		return
	}

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// purgeSessions removes expired sessions until ctx is cancelled.
func (app *App) purgeSessions(ctx context.Context) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := app.userService.PurgeExpiredSessions(ctx)
			if err != nil {
				app.logger.Warn(ctx, "session purge failed", "error", err)
				continue
			}
			app.logger.Debug(ctx, "expired sessions purged", "count", n)
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migrations failed", "error", err)
		_ = app.db.Close()
		return
	}

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.purgeSessions(ctx)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(context.Background(), "db close error", "error", err)
	}
	app.logger.Info(context.Background(), "App stopped")
}
