package domain

import (
	"fmt"
	"time"
)

// EventStatus is the publication lifecycle of an event
type EventStatus string

const (
	EventStatusDraft     EventStatus = "draft"
	EventStatusPublished EventStatus = "published"
	EventStatusCancelled EventStatus = "cancelled"
	EventStatusCompleted EventStatus = "completed"
)

var validEventTransitions = map[EventStatus][]EventStatus{
	EventStatusDraft:     {EventStatusPublished, EventStatusCancelled},
	EventStatusPublished: {EventStatusDraft, EventStatusCancelled, EventStatusCompleted},
	EventStatusCancelled: {},
	EventStatusCompleted: {},
}

// IsValid reports whether s is a known status
func (s EventStatus) IsValid() bool {
	_, ok := validEventTransitions[s]
	return ok
}

// CanTransitionTo reports whether the event may move from s to target
func (s EventStatus) CanTransitionTo(target EventStatus) bool {
	for _, allowed := range validEventTransitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Event is a scheduled gathering owned by an organizer
type Event struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description"`
	StartDate      time.Time   `json:"startDate"`
	EndDate        *time.Time  `json:"endDate"`
	Location       string      `json:"location"`
	Category       string      `json:"category"`
	MaxGuests      int         `json:"maxGuests"`
	OrganizerID    string      `json:"organizerId"`
	OrganizationID *string     `json:"organizationId"`
	IsActive       bool        `json:"isActive"`
	GuestCount     int         `json:"guestCount"`
	Metadata       JSONMap     `json:"metadata"`
	Status         EventStatus `json:"status"`
	PublishedAt    *time.Time  `json:"publishedAt"`
	CreatedAt      time.Time   `json:"createdAt"`
	UpdatedAt      time.Time   `json:"updatedAt"`
}

// ChangeStatus moves the event to target, stamping publishedAt on first publish
func (e *Event) ChangeStatus(target EventStatus, now time.Time) error {
	if e.Status == target {
		return nil
	}
	if !target.IsValid() || !e.Status.CanTransitionTo(target) {
		return fmt.Errorf("%w: event cannot move from %s to %s", ErrInvalidStateTransition, e.Status, target)
	}
	e.Status = target
	if target == EventStatusPublished && e.PublishedAt == nil {
		e.PublishedAt = &now
	}
	e.UpdatedAt = now
	return nil
}

// HasCapacity reports whether another guest fits, maxGuests 0 meaning unlimited
func (e *Event) HasCapacity(currentGuests int) bool {
	return e.MaxGuests <= 0 || currentGuests < e.MaxGuests
}

// IsUpcoming reports whether the event starts after now
func (e *Event) IsUpcoming(now time.Time) bool {
	return e.StartDate.After(now)
}

// EventListItem is the projection used by event listings
type EventListItem struct {
	ID                 string
	Title              string
	StartDate          time.Time
	Location           string
	Status             EventStatus
	GuestCount         int
	OrganizerID        string
	OrganizerFirstName string
	OrganizerLastName  string
	CreatedAt          time.Time
}
