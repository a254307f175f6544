package httpapi

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureLocals is a terminal handler that records the Locals it was given.
func captureLocals(got **Locals) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*got = LocalsFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestSessionMiddleware_ConsoleWithoutSessionRedirects(t *testing.T) {
	s, _ := newTestServer(t)

	var got *Locals
	h := s.SessionMiddleware(captureLocals(&got))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/console/anything", nil))

	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/", rec.Header().Get("Location"))
	assert.Nil(t, got, "next handler must not run")
}

func TestSessionMiddleware_ConsoleSubstringAnywhere(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.SessionMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, path := range []string{"/app/console", "/myconsoles/x", "/a/b/console/c"} {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
	}
}

func TestSessionMiddleware_ConsoleWithSessionProceeds(t *testing.T) {
	s, d := newTestServer(t)
	d.websites.ids["u1"] = []int64{3, 8}

	var got *Locals
	h := s.SessionMiddleware(captureLocals(&got))

	req := httptest.NewRequest(http.MethodGet, "/console/anything", nil)
	req.Header.Set("X-Test-User", "u1")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	require.NotNil(t, got.Session)
	assert.Equal(t, "u1", got.UserID())
	assert.Equal(t, []int64{3, 8}, got.Session.WebsitesOwnedByCurrentUser)
}

func TestSessionMiddleware_AnonymousOutsideConsole(t *testing.T) {
	s, _ := newTestServer(t)

	var got *Locals
	h := s.SessionMiddleware(captureLocals(&got))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/pages/1/comments", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Nil(t, got.Session)
	assert.Nil(t, got.User())
	assert.Equal(t, "", got.UserID())
}

func TestSessionMiddleware_UserWithoutWebsites(t *testing.T) {
	s, _ := newTestServer(t)

	var got *Locals
	h := s.SessionMiddleware(captureLocals(&got))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Test-User", "u2")
	h.ServeHTTP(httptest.NewRecorder(), req)

	require.NotNil(t, got.Session)
	assert.NotNil(t, got.Session.WebsitesOwnedByCurrentUser)
	assert.Empty(t, got.Session.WebsitesOwnedByCurrentUser)
}

func TestSessionMiddleware_ErrorsAnswer500(t *testing.T) {
	t.Run("provider", func(t *testing.T) {
		s, d := newTestServer(t)
		d.sessions.err = errors.New("provider down")

		rec := httptest.NewRecorder()
		s.SessionMiddleware(http.NotFoundHandler()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("owned websites", func(t *testing.T) {
		s, d := newTestServer(t)
		d.websites.idsErr = errors.New("db down")

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Test-User", "u1")
		rec := httptest.NewRecorder()
		s.SessionMiddleware(http.NotFoundHandler()).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestLocalsFrom_Missing(t *testing.T) {
	l := LocalsFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	require.NotNil(t, l)
	assert.Nil(t, l.User())
}
