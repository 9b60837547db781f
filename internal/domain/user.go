package domain

import "time"

// UserRole is the fixed account role. It is set once at registration and
// never changes afterwards.
type UserRole string

const (
	UserRoleOrganizer UserRole = "organizer"
	UserRoleAttendee  UserRole = "attendee"
)

// ValidRole reports whether the given role is one of the two known roles.
func ValidRole(role UserRole) bool {
	return role == UserRoleOrganizer || role == UserRoleAttendee
}

// User is the domain model for accounts. Organizers own events; attendees
// purchase tickets and leave feedback.
type User struct {
	ID           string
	Username     string
	Email        string
	Role         UserRole
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsOrganizer reports whether the user holds the organizer role.
func (u *User) IsOrganizer() bool {
	return u != nil && u.Role == UserRoleOrganizer
}

// IsAttendee reports whether the user holds the attendee role.
func (u *User) IsAttendee() bool {
	return u != nil && u.Role == UserRoleAttendee
}
