package httpapi

import (
	"context"

	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

type ctxKey string

const localsKey ctxKey = "locals"

// Locals is the per-request state set by SessionMiddleware. It lives for
// exactly one request and is shared by pointer with every handler.
type Locals struct {
	Session *models.Session
}

// User returns the signed-in user or nil.
func (l *Locals) User() *models.User {
	if l == nil || l.Session == nil {
		return nil
	}
	return l.Session.User
}

// UserID returns the signed-in user's id or "".
func (l *Locals) UserID() string {
	if u := l.User(); u != nil {
		return u.ID
	}
	return ""
}

func withLocals(ctx context.Context, l *Locals) context.Context {
	return context.WithValue(ctx, localsKey, l)
}

// LocalsFrom returns the request locals, or an empty Locals when the request
// did not pass through SessionMiddleware.
func LocalsFrom(ctx context.Context) *Locals {
	if l, ok := ctx.Value(localsKey).(*Locals); ok && l != nil {
		return l
	}
	return &Locals{}
}
