package dto

import (
	"time"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

// CreateGuestRequest registers a guest for an event
type CreateGuestRequest struct {
	FirstName string         `json:"firstName" binding:"required,min=1,max=100"`
	LastName  string         `json:"lastName" binding:"required,min=1,max=100"`
	Email     string         `json:"email" binding:"required,email,max=255"`
	Phone     string         `json:"phone" binding:"omitempty,max=50"`
	EventID   string         `json:"eventId" binding:"required,uuid"`
	Notes     string         `json:"notes" binding:"omitempty,max=2000"`
	Metadata  domain.JSONMap `json:"metadata"`
}

// UpdateGuestRequest patches contact details. Status changes go through check-in/out.
type UpdateGuestRequest struct {
	FirstName *string         `json:"firstName" binding:"omitempty,min=1,max=100"`
	LastName  *string         `json:"lastName" binding:"omitempty,min=1,max=100"`
	Email     *string         `json:"email" binding:"omitempty,email,max=255"`
	Phone     *string         `json:"phone" binding:"omitempty,max=50"`
	Notes     *string         `json:"notes" binding:"omitempty,max=2000"`
	Metadata  *domain.JSONMap `json:"metadata"`
}

// ListGuestsQuery filters guests, optionally by event
type ListGuestsQuery struct {
	PageQuery
	EventID string `form:"eventId" binding:"omitempty,uuid"`
}

// GuestResponse adds the derived check-in flags to a guest
type GuestResponse struct {
	ID           string             `json:"id"`
	FirstName    string             `json:"firstName"`
	LastName     string             `json:"lastName"`
	Email        string             `json:"email"`
	Phone        string             `json:"phone"`
	EventID      string             `json:"eventId"`
	Notes        string             `json:"notes"`
	Status       domain.GuestStatus `json:"status"`
	CheckedIn    bool               `json:"checkedIn"`
	CheckedOut   bool               `json:"checkedOut"`
	CheckInTime  *time.Time         `json:"checkInTime"`
	CheckOutTime *time.Time         `json:"checkOutTime"`
	Metadata     domain.JSONMap     `json:"metadata"`
	CreatedAt    time.Time          `json:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt"`
}

// NewGuestResponse maps a guest
func NewGuestResponse(g *domain.Guest) *GuestResponse {
	return &GuestResponse{
		ID:           g.ID,
		FirstName:    g.FirstName,
		LastName:     g.LastName,
		Email:        g.Email,
		Phone:        g.Phone,
		EventID:      g.EventID,
		Notes:        g.Notes,
		Status:       g.Status,
		CheckedIn:    g.CheckedIn(),
		CheckedOut:   g.CheckedOut(),
		CheckInTime:  g.CheckInTime,
		CheckOutTime: g.CheckOutTime,
		Metadata:     g.Metadata,
		CreatedAt:    g.CreatedAt,
		UpdatedAt:    g.UpdatedAt,
	}
}

// NewGuestResponses maps a slice of guests
func NewGuestResponses(guests []*domain.Guest) []*GuestResponse {
	out := make([]*GuestResponse, 0, len(guests))
	for _, g := range guests {
		out = append(out, NewGuestResponse(g))
	}
	return out
}

// ListGuestsResponse is a page of guests
type ListGuestsResponse struct {
	Guests     []*GuestResponse `json:"guests"`
	Total      int64            `json:"total"`
	Page       int              `json:"page"`
	Limit      int              `json:"limit"`
	TotalPages int              `json:"totalPages"`
}
