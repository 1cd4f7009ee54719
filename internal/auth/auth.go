// Package auth resolves the requesting user from an authenticating reverse
// proxy. Login, logout and credentials live in the proxy, not here.
package auth

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/vbonduro/travelwish/internal/domain"
)

type contextKey struct{}

// WithUser returns a copy of ctx carrying u.
func WithUser(ctx context.Context, u *domain.User) context.Context {
	return context.WithValue(ctx, contextKey{}, u)
}

// UserFrom returns the user stored by WithUser, or nil.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(contextKey{}).(*domain.User)
	return u
}

// userRepository is the subset of store.UserStore the authenticator requires.
type userRepository interface {
	Ensure(ctx context.Context, username string) (*domain.User, error)
}

type Config struct {
	Header   string // request header carrying the username, e.g. X-Forwarded-User
	LoginURL string // where anonymous requests are sent
	DevUser  string // identity assumed when the header is absent; local runs only
}

type HeaderAuthenticator struct {
	users  userRepository
	cfg    Config
	logger *slog.Logger
}

func NewHeaderAuthenticator(users userRepository, cfg Config, logger *slog.Logger) *HeaderAuthenticator {
	if cfg.DevUser != "" {
		logger.Warn("development identity enabled; do not expose this server", "user", cfg.DevUser)
	}
	return &HeaderAuthenticator{users: users, cfg: cfg, logger: logger}
}

// Require runs next only for identified requests, with the user available via
// UserFrom. Anonymous requests are redirected to the login URL.
func (a *HeaderAuthenticator) Require(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(a.cfg.Header))
		if username == "" {
			username = a.cfg.DevUser
		}
		if username == "" {
			http.Redirect(w, r, a.loginURL(r), http.StatusSeeOther)
			return
		}

		user, err := a.users.Ensure(r.Context(), username)
		if err != nil {
			http.Error(w, "failed to resolve user", http.StatusInternalServerError)
			a.logger.Error("resolve user failed", "username", username, "error", err)
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func (a *HeaderAuthenticator) loginURL(r *http.Request) string {
	u, err := url.Parse(a.cfg.LoginURL)
	if err != nil {
		return a.cfg.LoginURL
	}
	q := u.Query()
	q.Set("next", r.URL.RequestURI())
	u.RawQuery = q.Encode()
	return u.String()
}
