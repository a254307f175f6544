package httpapi

import (
	"net/http"
	"time"

	"github.com/dmitrijs2005/pagetalk/internal/common"
	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
	"github.com/dmitrijs2005/pagetalk/internal/server/models"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"graphqlEndpoint": s.graphQLEndpoint})
}

// requireUser writes 401 and returns nil when the caller is anonymous.
func (s *Server) requireUser(w http.ResponseWriter, r *http.Request) *models.User {
	user := LocalsFrom(r.Context()).User()
	if user == nil {
		s.writeError(w, r, common.ErrorUnauthorized)
	}
	return user
}

// --- auth ---

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var creds forms.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := creds.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.users.Register(r.Context(), creds.Name, creds.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.logger.Info(r.Context(), "Registered", "username", user.Name)
	writeJSON(w, http.StatusCreated, user)
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
	User      *models.User `json:"user"`
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var creds forms.Credentials
	if err := decodeJSON(w, r, &creds); err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.users.Login(r.Context(), creds.Name, creds.Password)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    res.Token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Expires:  res.ExpiresAt,
	})

	writeJSON(w, http.StatusOK, loginResponse{Token: res.Token, ExpiresAt: res.ExpiresAt, User: res.User})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if session := LocalsFrom(r.Context()).Session; session != nil {
		if err := s.users.Logout(r.Context(), session.ID); err != nil {
			s.writeError(w, r, err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     common.SessionCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
	w.WriteHeader(http.StatusNoContent)
}

// --- comments ---

func (s *Server) handleListComments(w http.ResponseWriter, r *http.Request) {
	pageID, err := idParam(r, "pageID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	publishedOnly, err := boolQuery(r, "published")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.comments.FetchPageComments(r.Context(), pageID, LocalsFrom(r.Context()).UserID(), publishedOnly)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleListPending(w http.ResponseWriter, r *http.Request) {
	pageID, err := idParam(r, "pageID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	res, err := s.comments.FetchUnpublishedUserCommentsByPage(r.Context(), pageID, LocalsFrom(r.Context()).User())
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	pageID, err := idParam(r, "pageID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form forms.Comment
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.comments.Create(r.Context(), pageID, user, form.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, c)
}

func (s *Server) handleEditComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	commentID, err := idParam(r, "commentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form forms.Comment
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	c, err := s.comments.Edit(r.Context(), commentID, user, form.Content)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleDeleteComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	commentID, err := idParam(r, "commentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.comments.Delete(r.Context(), commentID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleApproveComment(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	commentID, err := idParam(r, "commentID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.comments.Approve(r.Context(), commentID, user.ID); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
