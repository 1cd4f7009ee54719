package web

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vbonduro/travelwish/internal/auth"
	"github.com/vbonduro/travelwish/internal/form"
	"github.com/vbonduro/travelwish/internal/service"
)

func (s *Server) handlePlaceDetail(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parseID(w, r)
	if !ok {
		return
	}

	user := auth.UserFrom(r.Context())
	place, err := s.service.GetPlace(r.Context(), user, placeID)
	if err != nil {
		s.writeServiceError(w, r, user, placeID, "get place", err)
		return
	}

	if err := s.renderPage(w, r, http.StatusOK,
		map[string]any{"Place": place},
		pageFiles("place_detail.html")...,
	); err != nil {
		s.logger.Error("render page failed", "error", err)
	}
}

// handleSubmitReview saves the trip review and always redirects back to the
// detail page; the outcome travels as a notice.
func (s *Server) handleSubmitReview(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parseID(w, r)
	if !ok {
		return
	}

	user := auth.UserFrom(r.Context())
	if _, err := s.service.GetPlace(r.Context(), user, placeID); err != nil {
		s.writeServiceError(w, r, user, placeID, "get place", err)
		return
	}

	detailURL := fmt.Sprintf("/place/%d/", placeID)

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		s.addNotice(w, r, NoticeError, "Review not saved: the upload could not be read.")
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	review, errs := form.ParseReview(r.PostForm)
	photo, err := readPhoto(r, s.logger)
	if err != nil {
		if errs == nil {
			errs = form.Errors{}
		}
		if errors.Is(err, errInvalidPhoto) {
			errs.Add("photo", err.Error())
		} else {
			s.logger.Warn("read review photo failed", "place_id", placeID, "error", err)
			errs.Add("photo", "the photo could not be read")
		}
	}
	if errs != nil {
		s.addNotice(w, r, NoticeError, "Review not saved: "+errs.Error())
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	_, err = s.service.SubmitReview(r.Context(), user, placeID, *review, photo)
	switch {
	case errors.Is(err, service.ErrNotVisited):
		s.addNotice(w, r, NoticeError, "Mark this place as visited before reviewing it.")
	case err != nil:
		s.writeServiceError(w, r, user, placeID, "save review", err)
		return
	default:
		s.addNotice(w, r, NoticeSuccess, "Trip information updated!")
	}
	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}

func (s *Server) handleGetPhoto(w http.ResponseWriter, r *http.Request) {
	placeID, ok := parseID(w, r)
	if !ok {
		return
	}

	user := auth.UserFrom(r.Context())
	reader, mimeType, err := s.service.OpenPhoto(r.Context(), user, placeID)
	if err != nil {
		s.writeServiceError(w, r, user, placeID, "get photo", err)
		return
	}
	defer closeWithLog(reader, "photo reader", s.logger)

	w.Header().Set("Content-Type", mimeType)
	w.Header().Set("Cache-Control", "private, max-age=3600")
	if _, err := io.Copy(w, reader); err != nil {
		s.logger.Error("write photo failed", "place_id", placeID, "error", err)
	}
}
