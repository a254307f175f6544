package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/server/auth"
	"github.com/dmitrijs2005/pagetalk/internal/server/config"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
	"github.com/dmitrijs2005/pagetalk/internal/server/repositories/repomanager"
)

// SessionService resolves the session of an incoming request.
type SessionService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	jwtSecret   []byte
	now         func() time.Time
}

func NewSessionService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *SessionService {
	return &SessionService{
		db:          db,
		repomanager: m,
		jwtSecret:   []byte(cfg.SecretKey),
		now:         time.Now,
	}
}

// GetSession returns the session identified by the request headers with its
// user loaded, or nil when the request carries no usable session. Only
// database failures are reported as errors.
func (s *SessionService) GetSession(ctx context.Context, header http.Header) (*models.Session, error) {

	token := auth.TokenFromHeader(header)
	if token == "" {
		return nil, nil
	}

	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return nil, nil
	}

	session, err := s.repomanager.Sessions(s.db).Find(ctx, claims.SessionID())
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading session: %w", err)
	}

	if session.UserID != claims.UserID || session.Expired(s.now()) {
		return nil, nil
	}

	user, err := s.repomanager.Users(s.db).GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error loading user: %w", err)
	}
	session.User = user

	return session, nil
}
