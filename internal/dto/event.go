package dto

import (
	"time"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

// CreateEventRequest creates a draft event owned by the caller
type CreateEventRequest struct {
	Title          string         `json:"title" binding:"required,min=1,max=255"`
	Description    string         `json:"description" binding:"omitempty,max=5000"`
	StartDate      time.Time      `json:"startDate" binding:"required"`
	EndDate        *time.Time     `json:"endDate" binding:"omitempty,gtfield=StartDate"`
	Location       string         `json:"location" binding:"omitempty,max=255"`
	Category       string         `json:"category" binding:"omitempty,max=100"`
	MaxGuests      int            `json:"maxGuests" binding:"omitempty,min=0"`
	OrganizationID string         `json:"organizationId" binding:"omitempty,uuid"`
	Metadata       domain.JSONMap `json:"metadata"`
}

// UpdateEventRequest patches an event; nil fields are left alone
type UpdateEventRequest struct {
	Title       *string         `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string         `json:"description" binding:"omitempty,max=5000"`
	StartDate   *time.Time      `json:"startDate"`
	EndDate     *time.Time      `json:"endDate"`
	Location    *string         `json:"location" binding:"omitempty,max=255"`
	Category    *string         `json:"category" binding:"omitempty,max=100"`
	MaxGuests   *int            `json:"maxGuests" binding:"omitempty,min=0"`
	Status      *string         `json:"status" binding:"omitempty,oneof=draft published cancelled completed"`
	Metadata    *domain.JSONMap `json:"metadata"`
}

// ListEventsQuery filters the event listing. An empty OrganizerID lists every organizer.
type ListEventsQuery struct {
	PageQuery
	OrganizerID string `form:"userId" binding:"omitempty,uuid"`
}

// OrganizerSummary is the organizer name embedded in event listings
type OrganizerSummary struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email,omitempty"`
}

// EventListItem is one row of an event listing
type EventListItem struct {
	ID         string             `json:"id"`
	Title      string             `json:"title"`
	StartDate  time.Time          `json:"startDate"`
	Location   string             `json:"location"`
	Status     domain.EventStatus `json:"status"`
	GuestCount int                `json:"guestCount"`
	Organizer  OrganizerSummary   `json:"organizer"`
}

// NewEventListItem maps the listing projection
func NewEventListItem(e *domain.EventListItem) EventListItem {
	return EventListItem{
		ID:         e.ID,
		Title:      e.Title,
		StartDate:  e.StartDate,
		Location:   e.Location,
		Status:     e.Status,
		GuestCount: e.GuestCount,
		Organizer: OrganizerSummary{
			FirstName: e.OrganizerFirstName,
			LastName:  e.OrganizerLastName,
		},
	}
}

// EventListResponse is the cached payload for events:{scope}:{page}:{limit}
type EventListResponse struct {
	Events     []EventListItem `json:"events"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Limit      int             `json:"limit"`
	TotalPages int             `json:"totalPages"`
}

// EventDetailResponse is the cached payload for event:{id}
type EventDetailResponse struct {
	domain.Event
	Organizer *OrganizerSummary `json:"organizer,omitempty"`
}

// NewEventDetailResponse joins an event with its organizer, which may be nil
func NewEventDetailResponse(e *domain.Event, organizer *domain.User) *EventDetailResponse {
	resp := &EventDetailResponse{Event: *e}
	if organizer != nil {
		resp.Organizer = &OrganizerSummary{
			ID:        organizer.ID,
			FirstName: organizer.FirstName,
			LastName:  organizer.LastName,
			Email:     organizer.Email,
		}
	}
	return resp
}
