package domain

import (
	"fmt"
	"time"
)

// GuestStatus is the single source of truth for a guest's attendance
type GuestStatus string

const (
	GuestStatusRegistered GuestStatus = "registered"
	GuestStatusCheckedIn  GuestStatus = "checked-in"
	GuestStatusCheckedOut GuestStatus = "checked-out"
	GuestStatusNoShow     GuestStatus = "no-show"
)

var (
	ErrGuestAlreadyCheckedIn = fmt.Errorf("guest is already checked in: %w", ErrInvalidStateTransition)
	ErrGuestNotCheckedIn     = fmt.Errorf("guest is not checked in: %w", ErrInvalidStateTransition)
	ErrGuestNoShow           = fmt.Errorf("guest is marked as no-show: %w", ErrInvalidStateTransition)
)

// validGuestTransitions maps a status to the statuses reachable by check-in/out.
// no-show is only ever assigned by imports and seed data.
var validGuestTransitions = map[GuestStatus][]GuestStatus{
	GuestStatusRegistered: {GuestStatusCheckedIn},
	GuestStatusCheckedIn:  {GuestStatusCheckedOut},
	GuestStatusCheckedOut: {GuestStatusCheckedIn},
	GuestStatusNoShow:     {},
}

// IsValid reports whether s is a known status
func (s GuestStatus) IsValid() bool {
	_, ok := validGuestTransitions[s]
	return ok
}

// IsTerminal reports whether no transition leaves s
func (s GuestStatus) IsTerminal() bool {
	return len(validGuestTransitions[s]) == 0
}

// CanTransitionTo reports whether the guest may move from s to target
func (s GuestStatus) CanTransitionTo(target GuestStatus) bool {
	for _, allowed := range validGuestTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Attended reports whether the guest showed up at some point
func (s GuestStatus) Attended() bool {
	return s == GuestStatusCheckedIn || s == GuestStatusCheckedOut
}

// CountsTowardGuestCount reports whether the guest is included in Event.GuestCount
func (s GuestStatus) CountsTowardGuestCount() bool {
	return s != GuestStatusNoShow
}

// Guest is a person registered for an event
type Guest struct {
	ID           string      `json:"id"`
	FirstName    string      `json:"firstName"`
	LastName     string      `json:"lastName"`
	Email        string      `json:"email"`
	Phone        string      `json:"phone"`
	EventID      string      `json:"eventId"`
	Notes        string      `json:"notes"`
	CheckInTime  *time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time  `json:"checkOutTime"`
	Metadata     JSONMap     `json:"metadata"`
	Status       GuestStatus `json:"status"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// CheckedIn is derived from Status
func (g *Guest) CheckedIn() bool {
	return g.Status == GuestStatusCheckedIn
}

// CheckedOut is derived from Status
func (g *Guest) CheckedOut() bool {
	return g.Status == GuestStatusCheckedOut
}

// CheckIn records arrival. A re-entry after check-out overwrites checkInTime
// and keeps the last checkOutTime.
func (g *Guest) CheckIn(now time.Time) error {
	switch {
	case g.Status == GuestStatusCheckedIn:
		return ErrGuestAlreadyCheckedIn
	case g.Status == GuestStatusNoShow:
		return ErrGuestNoShow
	case !g.Status.CanTransitionTo(GuestStatusCheckedIn):
		return fmt.Errorf("%w: cannot check in from %s", ErrInvalidStateTransition, g.Status)
	}

	g.Status = GuestStatusCheckedIn
	g.CheckInTime = &now
	g.UpdatedAt = now
	return nil
}

// CheckOut records departure; the guest must be checked in
func (g *Guest) CheckOut(now time.Time) error {
	if !g.Status.CanTransitionTo(GuestStatusCheckedOut) {
		return ErrGuestNotCheckedIn
	}

	g.Status = GuestStatusCheckedOut
	g.CheckOutTime = &now
	g.UpdatedAt = now
	return nil
}
