package form

import (
	"net/url"
	"strings"
)

// NewPlace is the creation form for a wishlist entry.
type NewPlace struct {
	Name    string `schema:"name" validate:"required,max=200"`
	Visited bool   `schema:"visited"`
}

// ParseNewPlace validates the creation fields. The returned value is always
// non-nil so a failed form can be re-rendered with what the user typed.
func ParseNewPlace(values url.Values) (*NewPlace, Errors) {
	p := &NewPlace{}
	errs := decode(p, values, func() { p.Name = strings.TrimSpace(p.Name) })
	return p, errs
}
