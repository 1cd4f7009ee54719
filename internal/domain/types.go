package domain

import "time"

// DateLayout is the wire and storage format of a visit date.
const DateLayout = "2006-01-02"

type User struct {
	ID        int64
	Username  string
	CreatedAt time.Time
}

type Place struct {
	ID          int64
	UserID      int64
	Name        string
	Visited     bool
	Notes       string
	DateVisited *time.Time
	PhotoKey    string
	PhotoMime   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (p *Place) HasPhoto() bool {
	return p.PhotoKey != ""
}

// DateVisitedString formats DateVisited for a date input, or "" when unset.
func (p *Place) DateVisitedString() string {
	if p.DateVisited == nil {
		return ""
	}
	return p.DateVisited.Format(DateLayout)
}

// Review holds the post-visit fields a trip review replaces.
type Review struct {
	Notes       string
	DateVisited *time.Time
}

// Owns reports whether u is the owner of p. Nil arguments never own anything.
func Owns(u *User, p *Place) bool {
	return u != nil && p != nil && u.ID != 0 && p.UserID == u.ID
}
