package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/pagetalk/internal/dbx"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/comments"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/pages"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/sessions"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/users"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/websites"
)

// RepositoryManager vends repositories bound to a DBTX, so that services can
// use the same code path with the pool or inside a transaction.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Sessions(db dbx.DBTX) sessions.Repository
	Websites(db dbx.DBTX) websites.Repository
	Pages(db dbx.DBTX) pages.Repository
	Comments(db dbx.DBTX) comments.Repository
}
