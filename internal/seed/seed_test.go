package seed

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
)

var seedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func TestBuildDataset_Shape(t *testing.T) {
	ds := BuildDataset(seedNow, "hash")

	assert.Len(t, ds.Organizations, 4)
	assert.Len(t, ds.Users, 7)
	assert.Len(t, ds.Events, 6)
	assert.Len(t, ds.Guests, 55)

	for _, org := range ds.Organizations {
		assert.True(t, domain.IsValidSlug(org.Slug), org.Slug)
		assert.True(t, domain.IsValidSlug(org.Subdomain), org.Subdomain)
		assert.True(t, org.Plan.IsValid())
	}
	assert.False(t, ds.Organizations[3].IsActive)
}

func TestBuildDataset_References(t *testing.T) {
	ds := BuildDataset(seedNow, "hash")

	orgs := map[string]bool{}
	for _, o := range ds.Organizations {
		orgs[o.ID] = true
	}
	users := map[string]*domain.User{}
	for _, u := range ds.Users {
		require.NotNil(t, u.OrganizationID)
		assert.True(t, orgs[*u.OrganizationID])
		assert.Equal(t, "hash", u.PasswordHash)
		users[u.ID] = u
	}
	events := map[string]*domain.Event{}
	for _, e := range ds.Events {
		organizer, ok := users[e.OrganizerID]
		require.True(t, ok, e.Title)
		assert.True(t, organizer.IsActive)
		assert.True(t, e.Status.IsValid())
		if e.EndDate != nil {
			assert.True(t, e.EndDate.After(e.StartDate), e.Title)
		}
		events[e.ID] = e
	}
	for _, g := range ds.Guests {
		_, ok := events[g.EventID]
		assert.True(t, ok)
	}
}

func TestBuildDataset_GuestStates(t *testing.T) {
	ds := BuildDataset(seedNow, "hash")

	counts := map[domain.GuestStatus]int{}
	for _, g := range ds.Guests {
		counts[g.Status]++
		assert.Equal(t, g.Status.Attended(), g.CheckInTime != nil, g.Email)
		assert.Equal(t, g.Status == domain.GuestStatusCheckedOut, g.CheckOutTime != nil, g.Email)
	}

	assert.Equal(t, 1, counts[domain.GuestStatusNoShow])
	assert.Equal(t, 3+2+19, counts[domain.GuestStatusCheckedOut])
	assert.Equal(t, 5+5+7, counts[domain.GuestStatusCheckedIn])
	assert.Equal(t, 7+3+3, counts[domain.GuestStatusRegistered])
}

func TestBuildDataset_UniqueEmails(t *testing.T) {
	ds := BuildDataset(seedNow, "hash")
	seen := map[string]bool{}
	for _, g := range ds.Guests {
		key := g.EventID + "/" + g.Email
		assert.False(t, seen[key], key)
		seen[key] = true
	}
}

// memRepos records inserts; embedded interfaces panic on anything the seeder should not call
type memRepos struct {
	mu     sync.Mutex
	orgs   []*domain.Organization
	users  []*domain.User
	events map[string]*domain.Event
	guests []*domain.Guest
}

type orgRepo struct {
	repository.OrganizationRepository
	m *memRepos
}

func (r orgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, o := range r.m.orgs {
		if o.Slug == slug {
			return o, nil
		}
	}
	return nil, nil
}

func (r orgRepo) Create(ctx context.Context, org *domain.Organization) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.orgs = append(r.m.orgs, org)
	return nil
}

type userRepo struct {
	repository.UserRepository
	m *memRepos
}

func (r userRepo) Create(ctx context.Context, u *domain.User) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.users = append(r.m.users, u)
	return nil
}

type eventRepo struct {
	repository.EventRepository
	m *memRepos
}

func (r eventRepo) Create(ctx context.Context, e *domain.Event) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.events[e.ID] = e
	return nil
}

func (r eventRepo) SetGuestCount(ctx context.Context, id string, count int) (string, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	e := r.m.events[id]
	e.GuestCount = count
	return e.OrganizerID, nil
}

type guestRepo struct {
	repository.GuestRepository
	m *memRepos
}

func (r guestRepo) Create(ctx context.Context, g *domain.Guest) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	r.m.guests = append(r.m.guests, g)
	return nil
}

func (r guestRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	n := 0
	for _, g := range r.m.guests {
		if g.EventID == eventID && g.Status.CountsTowardGuestCount() {
			n++
		}
	}
	return n, nil
}

type recordingExecer struct {
	statements []string
}

func (e *recordingExecer) Exec(ctx context.Context, sql string, args ...interface{}) error {
	e.statements = append(e.statements, sql)
	return nil
}

func newTestSeeder() (*Seeder, *memRepos, *recordingExecer) {
	m := &memRepos{events: map[string]*domain.Event{}}
	db := &recordingExecer{}
	s := NewSeeder(Repositories{
		Organizations: orgRepo{m: m},
		Users:         userRepo{m: m},
		Events:        eventRepo{m: m},
		Guests:        guestRepo{m: m},
	}, db, logger.NewNop())
	s.bcryptCost = bcrypt.MinCost
	s.now = func() time.Time { return seedNow }
	return s, m, db
}

func TestSeeder_Run(t *testing.T) {
	s, m, _ := newTestSeeder()

	sum, err := s.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &Summary{Organizations: 4, Users: 7, Events: 6, Guests: 55}, sum)

	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(m.users[0].PasswordHash), []byte(DefaultPassword)))

	byTitle := map[string]int{}
	for _, e := range m.events {
		byTitle[e.Title] = e.GuestCount
	}
	assert.Equal(t, 15, byTitle["Tech Conference"])
	assert.Equal(t, 19, byTitle["Completed Event Example"], "no-show is excluded")
	assert.Equal(t, 0, byTitle["Product Launch Event"])
}

func TestSeeder_RunTwiceSkips(t *testing.T) {
	s, m, _ := newTestSeeder()
	ctx := context.Background()

	_, err := s.Run(ctx)
	require.NoError(t, err)

	sum, err := s.Run(ctx)
	require.NoError(t, err)
	assert.True(t, sum.Skipped)
	assert.Len(t, m.orgs, 4)
}

func TestSeeder_ClearOrder(t *testing.T) {
	s, _, db := newTestSeeder()

	require.NoError(t, s.Clear(context.Background()))
	assert.Equal(t, []string{
		"DELETE FROM guests",
		"DELETE FROM events",
		"DELETE FROM users",
		"DELETE FROM organizations",
	}, db.statements)
}
