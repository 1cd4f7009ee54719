package web

import "net/http"

const (
	aboutAuthor = "Nick"
	aboutText   = "A website to create a list of places to visit"
)

func (s *Server) handleAbout(w http.ResponseWriter, r *http.Request) {
	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Author": aboutAuthor, "About": aboutText, "ActiveNav": "about"},
		pageFiles("about.html")...,
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}
