package web

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/vbonduro/travelwish/internal/auth"
	"github.com/vbonduro/travelwish/internal/domain"
	"github.com/vbonduro/travelwish/internal/form"
	"github.com/vbonduro/travelwish/internal/service"
)

func (s *Server) handleWishlist(w http.ResponseWriter, r *http.Request) {
	s.renderWishlist(w, r, http.StatusOK, &form.NewPlace{}, nil)
}

// handleCreatePlace adds a place for the requester and redirects back to the
// listing so a refresh does not resubmit. An invalid form is re-rendered with
// the submitted values.
func (s *Server) handleCreatePlace(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	user := auth.UserFrom(r.Context())
	newPlace, errs := form.ParseNewPlace(r.PostForm)
	if errs == nil {
		_, err := s.service.CreatePlace(r.Context(), user, newPlace.Name, newPlace.Visited)
		switch {
		case errors.Is(err, service.ErrInvalidPlace):
			errs = form.Errors{"name": "enter a valid name"}
		case err != nil:
			http.Error(w, "failed to create place", http.StatusInternalServerError)
			s.logger.Error("create place failed", "user_id", user.ID, "error", err)
			return
		default:
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
	}

	s.renderWishlist(w, r, http.StatusUnprocessableEntity, newPlace, errs)
}

func (s *Server) renderWishlist(w http.ResponseWriter, r *http.Request, status int, newPlace *form.NewPlace, errs form.Errors) {
	user := auth.UserFrom(r.Context())
	places, err := s.service.ListWishlist(r.Context(), user)
	if err != nil {
		http.Error(w, "failed to list places", http.StatusInternalServerError)
		s.logger.Error("list wishlist failed", "user_id", user.ID, "error", err)
		return
	}

	if err := s.renderPage(w, r, status,
		map[string]any{"Places": places, "Form": newPlace, "Errors": errs, "ActiveNav": "wishlist"},
		pageFiles("wishlist.html")...,
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

func (s *Server) handleVisited(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	places, err := s.service.ListVisited(r.Context(), user)
	if err != nil {
		http.Error(w, "failed to list places", http.StatusInternalServerError)
		s.logger.Error("list visited failed", "user_id", user.ID, "error", err)
		return
	}

	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Places": places, "ActiveNav": "visited"},
		pageFiles("visited.html")...,
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleMarkVisited only mutates on POST; any other method is sent back to
// the wishlist untouched.
func (s *Server) handleMarkVisited(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	placeID, ok := parseID(w, r)
	if !ok {
		return
	}

	user := auth.UserFrom(r.Context())
	if err := s.service.MarkVisited(r.Context(), user, placeID); err != nil {
		s.writeServiceError(w, r, user, placeID, "mark visited", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (s *Server) handleDeletePlace(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parseID(w, r)
	if !ok {
		return
	}

	user := auth.UserFrom(r.Context())
	if err := s.service.DeletePlace(r.Context(), user, placeID); err != nil {
		s.writeServiceError(w, r, user, placeID, "delete place", err)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// writeServiceError maps service errors to 404, 403 or 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, user *domain.User, placeID int64, op string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		http.NotFound(w, r)
	case errors.Is(err, service.ErrForbidden):
		http.Error(w, "forbidden", http.StatusForbidden)
	default:
		http.Error(w, "failed to "+op, http.StatusInternalServerError)
		s.logger.Error(op+" failed", "place_id", placeID, "user_id", user.ID, "error", err)
	}
}

// parseID extracts the {id} path variable. A malformed id cannot name a place,
// so it is answered with 404.
func parseID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}
