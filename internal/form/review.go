package form

import (
	"net/url"
	"strings"
	"time"

	"github.com/vbonduro/travelwish/internal/domain"
)

// Review is the trip-review form. The photo part is validated separately by
// the caller because it arrives as file content, not a form value.
type Review struct {
	Notes       string `schema:"notes" validate:"max=10000"`
	DateVisited string `schema:"date_visited" validate:"omitempty,datetime=2006-01-02"`
}

func ParseReview(values url.Values) (*domain.Review, Errors) {
	r := &Review{}
	errs := decode(r, values, func() {
		r.Notes = strings.TrimSpace(r.Notes)
		r.DateVisited = strings.TrimSpace(r.DateVisited)
	})
	if errs != nil {
		return nil, errs
	}

	review := &domain.Review{Notes: r.Notes}
	if r.DateVisited != "" {
		d, err := time.Parse(domain.DateLayout, r.DateVisited)
		if err != nil {
			return nil, Errors{"date_visited": "enter a valid date (YYYY-MM-DD)"}
		}
		review.DateVisited = &d
	}
	return review, nil
}
