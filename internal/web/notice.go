package web

import (
	"encoding/gob"
	"net/http"

	"github.com/gorilla/sessions"
)

const sessionName = "travelwish"

const (
	NoticeSuccess = "success"
	NoticeError   = "error"
)

// Notice is a one-time message shown on the next rendered page.
type Notice struct {
	Level string
	Text  string
}

func init() {
	gob.Register(Notice{})
}

// NewSessionStore returns the signed cookie store that carries notices across
// redirects.
func NewSessionStore(secret []byte) *sessions.CookieStore {
	store := sessions.NewCookieStore(secret)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	return store
}

// session returns the request's session. A cookie that no longer decodes
// (for example after a secret rotation) yields a fresh session.
func (s *Server) session(r *http.Request) *sessions.Session {
	sess, err := s.sessions.Get(r, sessionName)
	if err != nil {
		s.logger.Debug("discarding undecodable session", "error", err)
	}
	return sess
}

// addNotice queues a notice. It must run before the response is written.
func (s *Server) addNotice(w http.ResponseWriter, r *http.Request, level, text string) {
	sess := s.session(r)
	sess.AddFlash(Notice{Level: level, Text: text})
	if err := sess.Save(r, w); err != nil {
		s.logger.Error("failed to save session", "error", err)
	}
}

// takeNotices drains queued notices. It must run before the response is
// written.
func (s *Server) takeNotices(w http.ResponseWriter, r *http.Request) []Notice {
	sess := s.session(r)
	flashes := sess.Flashes()
	if len(flashes) == 0 {
		return nil
	}
	if err := sess.Save(r, w); err != nil {
		s.logger.Error("failed to save session", "error", err)
	}

	notices := make([]Notice, 0, len(flashes))
	for _, f := range flashes {
		if n, ok := f.(Notice); ok {
			notices = append(notices, n)
		}
	}
	return notices
}
