package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/go-chi/chi/v5/middleware"
)

// SessionMiddleware resolves the caller's session, attaches the ids of the
// websites the caller owns and stores the result in the request Locals.
// Console paths without a signed-in user are redirected to "/".
func (s *Server) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		session, err := s.sessions.GetSession(ctx, r.Header)
		if err != nil {
			s.logger.Error(ctx, "session lookup failed", "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if session != nil && session.User != nil {
			ids, err := s.websites.OwnedWebsiteIDs(ctx, session.User.ID)
			if err != nil {
				s.logger.Error(ctx, "owned websites lookup failed", "error", err)
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}
			session.WebsitesOwnedByCurrentUser = ids
		}

		locals := &Locals{Session: session}

		if strings.Contains(r.URL.Path, common.ConsolePathMarker) && locals.User() == nil {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}

		next.ServeHTTP(w, r.WithContext(withLocals(ctx, locals)))
	})
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
