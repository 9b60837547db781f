package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// EventCategory enumerates the supported event categories.
type EventCategory string

const (
	EventCategoryConcert    EventCategory = "concert"
	EventCategoryConference EventCategory = "conference"
	EventCategoryFestival   EventCategory = "festival"
	EventCategoryTheater    EventCategory = "theater"
	EventCategorySports     EventCategory = "sports"
	EventCategoryWorkshop   EventCategory = "workshop"
	EventCategoryOther      EventCategory = "other"
)

// ValidCategory reports whether the category is a known one.
func ValidCategory(c EventCategory) bool {
	switch c {
	case EventCategoryConcert, EventCategoryConference, EventCategoryFestival,
		EventCategoryTheater, EventCategorySports, EventCategoryWorkshop, EventCategoryOther:
		return true
	}
	return false
}

// Event is the aggregate for events on sale. OrganizerID is immutable
// after creation.
type Event struct {
	ID          string
	Title       string
	Description string
	Date        time.Time
	Location    string
	Category    EventCategory
	Price       decimal.Decimal
	OrganizerID string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// OwnedBy reports whether the given user is the owning organizer.
func (e *Event) OwnedBy(userID string) bool {
	return e != nil && e.OrganizerID == userID
}
