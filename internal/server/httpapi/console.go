package httpapi

import (
	"net/http"

	"github.com/dmitrijs2005/pagetalk/internal/server/forms"
)

// Console handlers only run for signed-in users; SessionMiddleware redirects
// everyone else. requireUser still guards them when mounted elsewhere.

func (s *Server) handleListWebsites(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	list, err := s.websites.ListOwned(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateWebsite(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	var form forms.BaseInfo
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	website, err := s.websites.Create(r.Context(), user.ID, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, website)
}

func (s *Server) handleUpdateWebsite(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	websiteID, err := idParam(r, "websiteID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form forms.BaseInfo
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	website, err := s.websites.UpdateBaseInfo(r.Context(), websiteID, user.ID, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, website)
}

func (s *Server) handleCreatePage(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	websiteID, err := idParam(r, "websiteID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form forms.Page
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	page, err := s.websites.CreatePage(r.Context(), websiteID, user.ID, form)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, page)
}

func (s *Server) handleSetPageClosed(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}
	pageID, err := idParam(r, "pageID")
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	var form forms.PageClosed
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}

	if err := s.websites.SetPageClosed(r.Context(), pageID, user.ID, form.Closed); err != nil {
		s.writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAvatar(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	upload, err := s.avatars.PresignUpload(r.Context(), user.ID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, upload)
}

func (s *Server) handleConfirmAvatar(w http.ResponseWriter, r *http.Request) {
	user := s.requireUser(w, r)
	if user == nil {
		return
	}

	var form forms.AvatarConfirm
	if err := decodeJSON(w, r, &form); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := form.Validate(); err != nil {
		s.writeError(w, r, err)
		return
	}

	imageURL, err := s.avatars.ConfirmUpload(r.Context(), user.ID, form.Key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"imageUrl": imageURL})
}
