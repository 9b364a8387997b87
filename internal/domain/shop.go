package domain

import "time"

// OpeningHours is one weekly time slot during which a shop is open. Slots are
// owned by their shop and fully replaced whenever the shop is saved.
//
// OpenAt and CloseAt are zero-padded "HH:MM" strings backed by TIME columns,
// so lexical comparison is interval comparison.
type OpeningHours struct {
	ID      int64  `json:"id"`
	Day     int    `json:"day" validate:"gte=0,lte=6"`
	OpenAt  string `json:"openAt" validate:"required,datetime=15:04"`
	CloseAt string `json:"closeAt" validate:"required,datetime=15:04"`
}

// Overlaps reports whether two slots on the same day intersect under
// half-open interval semantics. Touching endpoints do not overlap.
func (h OpeningHours) Overlaps(other OpeningHours) bool {
	if h.Day != other.Day {
		return false
	}
	return h.OpenAt < other.CloseAt && other.OpenAt < h.CloseAt
}

// Shop is a catalog shop. NbProducts and NbCategories are computed by the
// store on read and never written back.
type Shop struct {
	ID           int64          `json:"id"`
	Name         string         `json:"name" validate:"required"`
	InVacations  bool           `json:"inVacations"`
	CreatedAt    time.Time      `json:"createdAt"`
	OpeningHours []OpeningHours `json:"openingHours" validate:"dive"`
	NbProducts   int            `json:"nbProducts"`
	NbCategories int            `json:"nbCategories"`
	Products     []*Product     `json:"products,omitempty"`
}
