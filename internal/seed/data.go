package seed

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

// DefaultPassword is shared by every seeded account
const DefaultPassword = "password123"

// Dataset is a linked set of demo records ready to insert in order
type Dataset struct {
	Organizations []*domain.Organization
	Users         []*domain.User
	Events        []*domain.Event
	Guests        []*domain.Guest
}

const day = 24 * time.Hour

type orgSeed struct {
	name, slug, subdomain string
	plan                  domain.Plan
	active                bool
	settings              domain.JSONMap
}

var organizationSeeds = []orgSeed{
	{"TechCorp Inc.", "techcorp-inc", "techcorp", domain.PlanPro, true,
		domain.JSONMap{"theme": "dark", "notifications": true, "features": []string{"events", "analytics", "custom-branding"}}},
	{"Event Masters", "event-masters", "eventmasters", domain.PlanEnterprise, true,
		domain.JSONMap{"theme": "light", "notifications": false, "features": []string{"events", "guest-management"}}},
	{"StartupHub", "startup-hub", "startuphub", domain.PlanFree, true,
		domain.JSONMap{"theme": "blue", "notifications": true, "features": []string{"events"}}},
	{"Community Center", "community-center", "community", domain.PlanFree, false,
		domain.JSONMap{"theme": "green", "notifications": true, "features": []string{"events", "guest-management"}}},
}

type userSeed struct {
	email, first, last, orgSlug string
	role                        domain.Role
	active                      bool
}

var userSeeds = []userSeed{
	{"admin@techcorp.com", "John", "Admin", "techcorp-inc", domain.RoleOwner, true},
	{"manager@techcorp.com", "Jane", "Manager", "techcorp-inc", domain.RoleAdmin, true},
	{"user@techcorp.com", "Bob", "User", "techcorp-inc", domain.RoleMember, true},
	{"admin@eventmasters.com", "Alice", "EventMaster", "event-masters", domain.RoleOwner, true},
	{"coordinator@eventmasters.com", "Charlie", "Coordinator", "event-masters", domain.RoleAdmin, true},
	{"organizer@startuphub.com", "David", "Organizer", "startup-hub", domain.RoleOwner, true},
	{"inactive@community.com", "Eve", "Inactive", "community-center", domain.RoleMember, false},
}

// eventSeed offsets are relative to a week from now
type eventSeed struct {
	title, description, location, category string
	organizer                              string
	startOffset                            time.Duration
	length                                 time.Duration
	maxGuests                              int
	status                                 domain.EventStatus
	active                                 bool
	publishedAgo                           time.Duration
	metadata                               domain.JSONMap
}

var eventSeeds = []eventSeed{
	{
		title: "Tech Conference", description: "Annual technology conference featuring latest innovations and networking opportunities",
		location: "Convention Center, Downtown", category: "Technology", organizer: "admin@techcorp.com",
		length: 2 * day, maxGuests: 500, status: domain.EventStatusPublished, active: true, publishedAgo: day,
		metadata: domain.JSONMap{"venue": "Convention Center", "sponsors": []string{"TechCorp", "InnovateHub"}},
	},
	{
		title: "Product Launch Event", description: "Launch of our new product line",
		location: "TechCorp Headquarters", category: "Product", organizer: "admin@techcorp.com",
		startOffset: 14 * day, length: 4 * time.Hour, maxGuests: 200, status: domain.EventStatusDraft, active: true,
		metadata: domain.JSONMap{"venue": "Headquarters Auditorium"},
	},
	{
		title: "Wedding Planning Workshop", description: "Learn professional wedding planning techniques and trends",
		location: "Event Masters Studio", category: "Education", organizer: "admin@eventmasters.com",
		startOffset: 21 * day, length: 6 * time.Hour, maxGuests: 50, status: domain.EventStatusPublished, active: true, publishedAgo: 2 * day,
		metadata: domain.JSONMap{"instructor": "Alice EventMaster"},
	},
	{
		title: "Startup Pitch Night", description: "Monthly startup pitch competition with investor panel",
		location: "StartupHub Innovation Center", category: "Business", organizer: "organizer@startuphub.com",
		startOffset: 28 * day, length: 3 * time.Hour, maxGuests: 100, status: domain.EventStatusPublished, active: true, publishedAgo: 3 * day,
		metadata: domain.JSONMap{"judges": []string{"Investor A", "Investor B", "Mentor C"}},
	},
	{
		title: "Cancelled Event Example", description: "This event was cancelled due to unforeseen circumstances",
		location: "TBD", category: "Other", organizer: "admin@techcorp.com",
		startOffset: 35 * day, maxGuests: 50, status: domain.EventStatusCancelled, active: false, publishedAgo: 4 * day,
		metadata: domain.JSONMap{"cancellationReason": "Venue unavailable"},
	},
	{
		title: "Completed Event Example", description: "This event has already been completed successfully",
		location: "Community Center", category: "Community", organizer: "admin@eventmasters.com",
		startOffset: -14 * day, length: 4 * time.Hour, maxGuests: 75, status: domain.EventStatusCompleted, active: true, publishedAgo: 21 * day,
		metadata: domain.JSONMap{"feedback": "Excellent event, highly recommended"},
	},
}

// guestBatch describes a block of guests for one event; status picks each guest's state by index
type guestBatch struct {
	event, first, last, host string
	count                      int
	status                     func(i int) domain.GuestStatus
}

var guestBatches = []guestBatch{
	{"Tech Conference", "Tech", "Attendee", "techconference.com", 15, func(i int) domain.GuestStatus {
		return tiered(i, 3, 8)
	}},
	{"Wedding Planning Workshop", "Wedding", "Planner", "weddingworkshop.com", 8, func(i int) domain.GuestStatus {
		return tiered(i, 0, 5)
	}},
	{"Startup Pitch Night", "Startup", "Founder", "startuppitch.com", 12, func(i int) domain.GuestStatus {
		return tiered(i, 2, 9)
	}},
	{"Completed Event Example", "Past", "Attendee", "completedevent.com", 20, func(i int) domain.GuestStatus {
		if i == 5 {
			return domain.GuestStatusNoShow
		}
		return domain.GuestStatusCheckedOut
	}},
}

// tiered returns checked-out below out, checked-in below in, registered otherwise
func tiered(i, out, in int) domain.GuestStatus {
	switch {
	case i < out:
		return domain.GuestStatusCheckedOut
	case i < in:
		return domain.GuestStatusCheckedIn
	default:
		return domain.GuestStatusRegistered
	}
}

// BuildDataset returns the demo records relative to now. passwordHash is stored on every user.
func BuildDataset(now time.Time, passwordHash string) *Dataset {
	ds := &Dataset{}
	now = now.UTC()

	orgIDs := make(map[string]string, len(organizationSeeds))
	for _, s := range organizationSeeds {
		org := &domain.Organization{
			ID:        uuid.New().String(),
			Name:      s.name,
			Slug:      s.slug,
			Subdomain: s.subdomain,
			Settings:  s.settings,
			IsActive:  s.active,
			Plan:      s.plan,
			CreatedAt: now,
			UpdatedAt: now,
		}
		orgIDs[s.slug] = org.ID
		ds.Organizations = append(ds.Organizations, org)
	}

	users := make(map[string]*domain.User, len(userSeeds))
	for _, s := range userSeeds {
		orgID := orgIDs[s.orgSlug]
		u := &domain.User{
			ID:             uuid.New().String(),
			Email:          s.email,
			PasswordHash:   passwordHash,
			FirstName:      s.first,
			LastName:       s.last,
			IsActive:       s.active,
			OrganizationID: &orgID,
			Role:           s.role,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		users[s.email] = u
		ds.Users = append(ds.Users, u)
	}

	base := now.Add(7 * day)
	events := make(map[string]*domain.Event, len(eventSeeds))
	for _, s := range eventSeeds {
		organizer := users[s.organizer]
		start := base.Add(s.startOffset)
		e := &domain.Event{
			ID:             uuid.New().String(),
			Title:          s.title,
			Description:    s.description,
			StartDate:      start,
			Location:       s.location,
			Category:       s.category,
			MaxGuests:      s.maxGuests,
			OrganizerID:    organizer.ID,
			OrganizationID: organizer.OrganizationID,
			IsActive:       s.active,
			Metadata:       s.metadata,
			Status:         s.status,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if s.length > 0 {
			end := start.Add(s.length)
			e.EndDate = &end
		}
		if s.publishedAgo > 0 {
			published := now.Add(-s.publishedAgo)
			e.PublishedAt = &published
		}
		events[s.title] = e
		ds.Events = append(ds.Events, e)
	}

	checkInBase := now.Add(-2 * time.Hour)
	checkOutBase := now.Add(-30 * time.Minute)
	for _, b := range guestBatches {
		event := events[b.event]
		for i := 0; i < b.count; i++ {
			g := &domain.Guest{
				ID:        uuid.New().String(),
				FirstName: b.first,
				LastName:  fmt.Sprintf("%s%d", b.last, i+1),
				Email:     fmt.Sprintf("%s%d@%s", strings.ToLower(b.last), i+1, b.host),
				Phone:     fmt.Sprintf("+1-555-%04d", len(ds.Guests)+1),
				EventID:   event.ID,
				Metadata:  domain.JSONMap{"registrationSource": "seed"},
				Status:    b.status(i),
				CreatedAt: now,
				UpdatedAt: now,
			}
			if g.Status.Attended() {
				in := checkInBase.Add(time.Duration(i) * 5 * time.Minute)
				g.CheckInTime = &in
			}
			if g.Status == domain.GuestStatusCheckedOut {
				out := checkOutBase.Add(time.Duration(i) * 5 * time.Minute)
				g.CheckOutTime = &out
			}
			ds.Guests = append(ds.Guests, g)
		}
	}

	return ds
}
