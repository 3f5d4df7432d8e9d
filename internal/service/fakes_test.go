package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/redis"
)

// memDB backs every fake repository so joins behave like the real schema
type memDB struct {
	mu     sync.RWMutex
	orgs   map[string]*domain.Organization
	users  map[string]*domain.User
	events map[string]*domain.Event
	guests map[string]*domain.Guest
}

func newMemDB() *memDB {
	return &memDB{
		orgs:   make(map[string]*domain.Organization),
		users:  make(map[string]*domain.User),
		events: make(map[string]*domain.Event),
		guests: make(map[string]*domain.Guest),
	}
}

func newTestCache(t *testing.T) (cache.Cache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewFromClient(goredis.NewClient(&goredis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return cache.NewResilientCache(client, cache.DefaultBreakerConfig(), logger.NewNop()), mr
}

// --- organizations ---

type fakeOrgRepo struct{ db *memDB }

func (r *fakeOrgRepo) Create(ctx context.Context, org *domain.Organization) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, o := range r.db.orgs {
		if o.Slug == org.Slug || o.Subdomain == org.Subdomain {
			return fmt.Errorf("%w: idx_organizations_slug", domain.ErrConflict)
		}
	}
	cp := *org
	r.db.orgs[org.ID] = &cp
	return nil
}

func (r *fakeOrgRepo) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if o, ok := r.db.orgs[id]; ok {
		cp := *o
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeOrgRepo) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, o := range r.db.orgs {
		if o.Slug == slug {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrgRepo) List(ctx context.Context, limit, offset int, isActive *bool, search string) ([]*domain.Organization, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var all []*domain.Organization
	for _, o := range r.db.orgs {
		if isActive != nil && o.IsActive != *isActive {
			continue
		}
		if search != "" && !strings.Contains(o.Name, search) && !strings.Contains(o.Slug, search) {
			continue
		}
		cp := *o
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Slug < all[j].Slug })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *fakeOrgRepo) Update(ctx context.Context, org *domain.Organization) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.orgs[org.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *org
	r.db.orgs[org.ID] = &cp
	return nil
}

func (r *fakeOrgRepo) ExistsBySlug(ctx context.Context, slug string) (bool, error) {
	o, _ := r.GetBySlug(ctx, slug)
	return o != nil, nil
}

func (r *fakeOrgRepo) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, o := range r.db.orgs {
		if o.Subdomain == subdomain {
			return true, nil
		}
	}
	return false, nil
}

// --- users ---

type fakeUserRepo struct{ db *memDB }

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == user.Email {
			return fmt.Errorf("%w: idx_users_email", domain.ErrConflict)
		}
	}
	cp := *user
	r.db.users[user.ID] = &cp
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if u, ok := r.db.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	for _, u := range r.db.users {
		if u.Email == domain.NormalizeEmail(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	u, _ := r.GetByEmail(ctx, email)
	return u != nil, nil
}

func (r *fakeUserRepo) ListByOrganization(ctx context.Context, organizationID string) ([]*domain.User, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	users := make([]*domain.User, 0)
	for _, u := range r.db.users {
		if u.OrganizationID != nil && *u.OrganizationID == organizationID {
			cp := *u
			users = append(users, &cp)
		}
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Email < users[j].Email })
	return users, nil
}

func (r *fakeUserRepo) UpdateMembership(ctx context.Context, userID, organizationID string, role domain.Role) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[userID]
	if !ok {
		return domain.ErrNotFound
	}
	org := organizationID
	u.OrganizationID = &org
	u.Role = role
	return nil
}

// --- events ---

type fakeEventRepo struct {
	db        *memDB
	getCalls  atomic.Int32
	listCalls atomic.Int32
}

func (r *fakeEventRepo) Create(ctx context.Context, event *domain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *event
	r.db.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	r.getCalls.Add(1)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if e, ok := r.db.events[id]; ok && e.IsActive {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeEventRepo) List(ctx context.Context, organizerID string, limit, offset int) ([]*domain.EventListItem, int64, error) {
	r.listCalls.Add(1)
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var all []*domain.EventListItem
	for _, e := range r.db.events {
		if !e.IsActive || (organizerID != "" && e.OrganizerID != organizerID) {
			continue
		}
		item := &domain.EventListItem{
			ID: e.ID, Title: e.Title, StartDate: e.StartDate, Location: e.Location,
			Status: e.Status, GuestCount: e.GuestCount, OrganizerID: e.OrganizerID, CreatedAt: e.CreatedAt,
		}
		if u, ok := r.db.users[e.OrganizerID]; ok {
			item.OrganizerFirstName = u.FirstName
			item.OrganizerLastName = u.LastName
		}
		all = append(all, item)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *fakeEventRepo) Update(ctx context.Context, event *domain.Event) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if e, ok := r.db.events[event.ID]; !ok || !e.IsActive {
		return domain.ErrNotFound
	}
	cp := *event
	r.db.events[event.ID] = &cp
	return nil
}

func (r *fakeEventRepo) SoftDelete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok || !e.IsActive {
		return domain.ErrNotFound
	}
	e.IsActive = false
	return nil
}

func (r *fakeEventRepo) SetGuestCount(ctx context.Context, id string, count int) (string, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	e, ok := r.db.events[id]
	if !ok {
		return "", domain.ErrNotFound
	}
	e.GuestCount = count
	return e.OrganizerID, nil
}

func (r *fakeEventRepo) stored(id string) *domain.Event {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	cp := *r.db.events[id]
	return &cp
}

// --- guests ---

type fakeGuestRepo struct {
	db        *memDB
	listCalls atomic.Int32
}

func (r *fakeGuestRepo) Create(ctx context.Context, guest *domain.Guest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	cp := *guest
	r.db.guests[guest.ID] = &cp
	return nil
}

func (r *fakeGuestRepo) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	if g, ok := r.db.guests[id]; ok {
		cp := *g
		return &cp, nil
	}
	return nil, nil
}

func (r *fakeGuestRepo) List(ctx context.Context, eventID string, limit, offset int) ([]*domain.Guest, int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var all []*domain.Guest
	for _, g := range r.db.guests {
		if eventID != "" && g.EventID != eventID {
			continue
		}
		cp := *g
		all = append(all, &cp)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return page(all, limit, offset), int64(len(all)), nil
}

func (r *fakeGuestRepo) ListByEvent(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	r.listCalls.Add(1)
	guests, _, err := r.List(ctx, eventID, 1<<30, 0)
	return guests, err
}

func (r *fakeGuestRepo) Update(ctx context.Context, guest *domain.Guest) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.guests[guest.ID]; !ok {
		return domain.ErrNotFound
	}
	cp := *guest
	r.db.guests[guest.ID] = &cp
	return nil
}

func (r *fakeGuestRepo) Delete(ctx context.Context, id string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	if _, ok := r.db.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.db.guests, id)
	return nil
}

func (r *fakeGuestRepo) CountByEvent(ctx context.Context, eventID string) (int, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	n := 0
	for _, g := range r.db.guests {
		if g.EventID == eventID && g.Status.CountsTowardGuestCount() {
			n++
		}
	}
	return n, nil
}

func (r *fakeGuestRepo) stored(id string) *domain.Guest {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	cp := *r.db.guests[id]
	return &cp
}

// --- analytics ---

type fakeAnalyticsRepo struct{ db *memDB }

func (r *fakeAnalyticsRepo) activeEvents(organizerID string) []*domain.Event {
	var events []*domain.Event
	for _, e := range r.db.events {
		if e.IsActive && (organizerID == "" || e.OrganizerID == organizerID) {
			events = append(events, e)
		}
	}
	return events
}

func (r *fakeAnalyticsRepo) guestsOf(organizerID string) []*domain.Guest {
	ids := make(map[string]bool)
	for _, e := range r.activeEvents(organizerID) {
		ids[e.ID] = true
	}
	var guests []*domain.Guest
	for _, g := range r.db.guests {
		if ids[g.EventID] {
			guests = append(guests, g)
		}
	}
	return guests
}

func (r *fakeAnalyticsRepo) CountEvents(ctx context.Context, organizerID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.activeEvents(organizerID))), nil
}

func (r *fakeAnalyticsRepo) CountGuests(ctx context.Context, organizerID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return int64(len(r.guestsOf(organizerID))), nil
}

func (r *fakeAnalyticsRepo) CountAttendedGuests(ctx context.Context, organizerID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var n int64
	for _, g := range r.guestsOf(organizerID) {
		if g.Status.Attended() {
			n++
		}
	}
	return n, nil
}

func (r *fakeAnalyticsRepo) CountCheckedInGuests(ctx context.Context, organizerID string) (int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var n int64
	for _, g := range r.guestsOf(organizerID) {
		if g.Status == domain.GuestStatusCheckedIn {
			n++
		}
	}
	return n, nil
}

func (r *fakeAnalyticsRepo) RecentEvents(ctx context.Context, organizerID string, limit int) ([]*domain.Event, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	events := r.activeEvents(organizerID)
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.After(events[j].CreatedAt) })
	return page(events, limit, 0), nil
}

func (r *fakeAnalyticsRepo) CheckInTimes(ctx context.Context, organizerID string, since time.Time) ([]time.Time, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	var times []time.Time
	for _, g := range r.guestsOf(organizerID) {
		if g.CheckInTime != nil && !g.CheckInTime.Before(since) {
			times = append(times, *g.CheckInTime)
		}
	}
	return times, nil
}

func (r *fakeAnalyticsRepo) EventStats(ctx context.Context, organizerID string, now time.Time) (*repository.EventStats, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	stats := &repository.EventStats{}
	for _, e := range r.activeEvents(organizerID) {
		stats.Total++
		if e.StartDate.After(now) {
			stats.Upcoming++
		} else {
			stats.Past++
		}
	}
	return stats, nil
}

func (r *fakeAnalyticsRepo) GuestStatusCounts(ctx context.Context, organizerID string) (map[domain.GuestStatus]int64, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	counts := make(map[domain.GuestStatus]int64)
	for _, g := range r.guestsOf(organizerID) {
		counts[g.Status]++
	}
	return counts, nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset >= len(all) {
		return []T{}
	}
	end := offset + limit
	if end > len(all) || end < 0 {
		end = len(all)
	}
	return all[offset:end]
}

// fixture wires every service over one memDB and a miniredis-backed cache
type fixture struct {
	db        *memDB
	orgs      *fakeOrgRepo
	users     *fakeUserRepo
	events    *fakeEventRepo
	guests    *fakeGuestRepo
	analytics *fakeAnalyticsRepo
	cache     cache.Cache
	mr        *miniredis.Miniredis

	eventSvc     *eventService
	guestSvc     *guestService
	analyticsSvc *analyticsService
	orgSvc       *organizationService
}

var fixedNow = time.Date(2026, 5, 20, 12, 0, 0, 0, time.UTC)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newMemDB()
	c, mr := newTestCache(t)
	f := &fixture{
		db:        db,
		orgs:      &fakeOrgRepo{db: db},
		users:     &fakeUserRepo{db: db},
		events:    &fakeEventRepo{db: db},
		guests:    &fakeGuestRepo{db: db},
		analytics: &fakeAnalyticsRepo{db: db},
		cache:     c,
		mr:        mr,
	}

	f.eventSvc = NewEventService(f.events, f.guests, f.users, c, cache.DefaultTTLPolicy(), logger.NewNop()).(*eventService)
	f.eventSvc.now = func() time.Time { return fixedNow }
	f.guestSvc = NewGuestService(f.guests, f.events, f.eventSvc, c, logger.NewNop()).(*guestService)
	f.guestSvc.now = func() time.Time { return fixedNow }
	f.analyticsSvc = NewAnalyticsService(f.analytics, f.events, f.guests).(*analyticsService)
	f.analyticsSvc.now = func() time.Time { return fixedNow }
	f.orgSvc = NewOrganizationService(f.orgs, f.users).(*organizationService)
	f.orgSvc.now = func() time.Time { return fixedNow }
	return f
}

func (f *fixture) addUser(id, first, last string) *domain.User {
	u := &domain.User{
		ID: id, Email: strings.ToLower(first) + "@example.com", FirstName: first, LastName: last,
		IsActive: true, Role: domain.RoleOwner, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	_ = f.users.Create(context.Background(), u)
	return u
}

func (f *fixture) addEvent(id, organizerID string, createdAt time.Time) *domain.Event {
	e := &domain.Event{
		ID: id, Title: "Event " + id, StartDate: createdAt.Add(48 * time.Hour), OrganizerID: organizerID,
		IsActive: true, Status: domain.EventStatusDraft, CreatedAt: createdAt, UpdatedAt: createdAt,
	}
	_ = f.events.Create(context.Background(), e)
	return e
}

func (f *fixture) addGuest(id, eventID string, status domain.GuestStatus, checkIn *time.Time) *domain.Guest {
	g := &domain.Guest{
		ID: id, FirstName: "Guest", LastName: id, Email: id + "@example.com", EventID: eventID,
		Status: status, CheckInTime: checkIn, CreatedAt: fixedNow, UpdatedAt: fixedNow,
	}
	_ = f.guests.Create(context.Background(), g)
	return g
}
