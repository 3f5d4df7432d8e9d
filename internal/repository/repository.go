package repository

import (
	"context"
	"time"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

// Lookups return (nil, nil) when the row does not exist.

// OrganizationRepository defines data access for organizations
type OrganizationRepository interface {
	Create(ctx context.Context, org *domain.Organization) error
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	// List retrieves organizations with pagination and filters
	List(ctx context.Context, limit, offset int, isActive *bool, search string) ([]*domain.Organization, int64, error)
	Update(ctx context.Context, org *domain.Organization) error
	ExistsBySlug(ctx context.Context, slug string) (bool, error)
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)
}

// UserRepository defines data access for users
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ListByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error)
	// UpdateMembership sets the user's organization and role
	UpdateMembership(ctx context.Context, userID, organizationID string, role domain.Role) error
}

// EventRepository defines data access for events. Reads only see active events.
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) error
	GetByID(ctx context.Context, id string) (*domain.Event, error)
	// List returns the listing projection ordered by created_at DESC;
	// an empty organizerID lists every organizer
	List(ctx context.Context, organizerID string, limit, offset int) ([]*domain.EventListItem, int64, error)
	Update(ctx context.Context, event *domain.Event) error
	SoftDelete(ctx context.Context, id string) error
	// SetGuestCount persists the denormalized count and returns the event's organizer
	SetGuestCount(ctx context.Context, id string, count int) (string, error)
}

// GuestRepository defines data access for guests
type GuestRepository interface {
	Create(ctx context.Context, guest *domain.Guest) error
	GetByID(ctx context.Context, id string) (*domain.Guest, error)
	// List pages guests, optionally restricted to one event
	List(ctx context.Context, eventID string, limit, offset int) ([]*domain.Guest, int64, error)
	ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error)
	Update(ctx context.Context, guest *domain.Guest) error
	Delete(ctx context.Context, id string) error
	// CountByEvent counts the guests included in Event.GuestCount (status <> no-show)
	CountByEvent(ctx context.Context, eventID string) (int, error)
}

// EventStats counts active events relative to a point in time
type EventStats struct {
	Total    int64
	Upcoming int64
	Past     int64
}

// AnalyticsRepository runs read-only aggregations scoped to an organizer's active events.
// An empty organizerID aggregates across all organizers.
type AnalyticsRepository interface {
	CountEvents(ctx context.Context, organizerID string) (int64, error)
	CountGuests(ctx context.Context, organizerID string) (int64, error)
	CountAttendedGuests(ctx context.Context, organizerID string) (int64, error)
	CountCheckedInGuests(ctx context.Context, organizerID string) (int64, error)
	RecentEvents(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error)
	CheckInTimes(ctx context.Context, organizerID string, since time.Time) ([]time.Time, error)
	EventStats(ctx context.Context, organizerID string, now time.Time) (*EventStats, error)
	GuestStatusCounts(ctx context.Context, organizerID string) (map[domain.GuestStatus]int64, error)
}
