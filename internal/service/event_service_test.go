package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
)

func TestListEvents_FirstPage(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addUser("u2", "Alan", "Turing")
	for i := 0; i < 15; i++ {
		f.addEvent(fmt.Sprintf("u1-e%02d", i), "u1", fixedNow.Add(time.Duration(i)*time.Minute))
	}
	for i := 0; i < 3; i++ {
		f.addEvent(fmt.Sprintf("u2-e%02d", i), "u2", fixedNow)
	}

	resp, err := f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{
		PageQuery:   dto.PageQuery{Page: 1, Limit: 10},
		OrganizerID: "u1",
	})
	require.NoError(t, err)

	assert.Len(t, resp.Events, 10)
	assert.Equal(t, int64(15), resp.Total)
	assert.Equal(t, 2, resp.TotalPages)
	assert.Equal(t, "u1-e14", resp.Events[0].ID, "newest first")
	assert.Equal(t, "Ada", resp.Events[0].Organizer.FirstName)
	assert.True(t, f.mr.Exists("events:u1:1:10"))
}

func TestListEvents_FewerThanLimit(t *testing.T) {
	f := newFixture(t)
	f.addUser("u1", "Ada", "Lovelace")
	for i := 0; i < 4; i++ {
		f.addEvent(fmt.Sprintf("e%d", i), "u1", fixedNow)
	}

	resp, err := f.eventSvc.ListEvents(context.Background(), &dto.ListEventsQuery{OrganizerID: "u1"})
	require.NoError(t, err)
	assert.Len(t, resp.Events, 4)
	assert.Equal(t, int64(4), resp.Total)
	assert.Equal(t, 1, resp.Page)
	assert.Equal(t, 10, resp.Limit)
}

func TestListEvents_ServedFromCache(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)

	for i := 0; i < 3; i++ {
		_, err := f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), f.events.listCalls.Load())
	assert.True(t, f.mr.Exists("events:all:1:10"))
}

func TestGetEvent_OneStoreCallForTwoReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)

	first, err := f.eventSvc.GetEvent(ctx, "e1")
	require.NoError(t, err)
	second, err := f.eventSvc.GetEvent(ctx, "e1")
	require.NoError(t, err)

	assert.Equal(t, int32(1), f.events.getCalls.Load())
	assert.Equal(t, first.Title, second.Title)
	require.NotNil(t, second.Organizer)
	assert.Equal(t, "Lovelace", second.Organizer.LastName)

	ttl := f.mr.TTL(cache.EventKey("e1"))
	assert.Equal(t, 600*time.Second, ttl)
}

func TestGetEvent_NotFound(t *testing.T) {
	f := newFixture(t)
	_, err := f.eventSvc.GetEvent(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrEventNotFound))
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestCreateEvent_DraftAndInvalidatesLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	org := "org-1"
	f.addUser("u1", "Ada", "Lovelace")
	require.NoError(t, f.users.UpdateMembership(ctx, "u1", org, domain.RoleOwner))

	_, err := f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{OrganizerID: "u1"})
	require.NoError(t, err)
	_, err = f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{})
	require.NoError(t, err)

	event, err := f.eventSvc.Create(ctx, "u1", &dto.CreateEventRequest{
		Title:     "Launch",
		StartDate: fixedNow.Add(24 * time.Hour),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.EventStatusDraft, event.Status)
	assert.Equal(t, "u1", event.OrganizerID)
	require.NotNil(t, event.OrganizationID)
	assert.Equal(t, org, *event.OrganizationID)
	assert.False(t, f.mr.Exists("events:u1:1:10"))
	assert.False(t, f.mr.Exists("events:all:1:10"))
}

func TestCreateEvent_InvalidDateRange(t *testing.T) {
	f := newFixture(t)
	f.addUser("u1", "Ada", "Lovelace")
	end := fixedNow
	_, err := f.eventSvc.Create(context.Background(), "u1", &dto.CreateEventRequest{
		Title:     "Backwards",
		StartDate: fixedNow.Add(time.Hour),
		EndDate:   &end,
	})
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestUpdateEvent_InvalidatesEventAndLists(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addUser("u2", "Alan", "Turing")
	f.addEvent("e1", "u1", fixedNow)
	f.addEvent("e2", "u2", fixedNow)

	_, _ = f.eventSvc.GetEvent(ctx, "e1")
	_, _ = f.eventSvc.GetEventGuests(ctx, "e1")
	_, _ = f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{OrganizerID: "u1"})
	_, _ = f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{OrganizerID: "u2"})
	_, _ = f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{})

	title := "Renamed"
	updated, err := f.eventSvc.Update(ctx, "u1", "e1", &dto.UpdateEventRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Title)

	assert.False(t, f.mr.Exists("event:e1"))
	assert.False(t, f.mr.Exists("event:e1:guests"))
	assert.False(t, f.mr.Exists("events:u1:1:10"))
	assert.False(t, f.mr.Exists("events:all:1:10"))
	assert.True(t, f.mr.Exists("events:u2:1:10"), "other organizers keep their cached pages")

	got, err := f.eventSvc.GetEvent(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Title)
}

func TestUpdateEvent_ForbiddenForNonOrganizer(t *testing.T) {
	f := newFixture(t)
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)

	title := "Hijack"
	_, err := f.eventSvc.Update(context.Background(), "u2", "e1", &dto.UpdateEventRequest{Title: &title})
	assert.True(t, errors.Is(err, domain.ErrForbidden))
	assert.Equal(t, "Event e1", f.events.stored("e1").Title)
}

func TestUpdateEvent_InvalidStatusTransition(t *testing.T) {
	f := newFixture(t)
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)

	status := string(domain.EventStatusCompleted)
	_, err := f.eventSvc.Update(context.Background(), "u1", "e1", &dto.UpdateEventRequest{Status: &status})
	assert.True(t, errors.Is(err, domain.ErrInvalidStateTransition))
}

func TestPublishEvent(t *testing.T) {
	f := newFixture(t)
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)

	event, err := f.eventSvc.Publish(context.Background(), "u1", "e1")
	require.NoError(t, err)
	assert.Equal(t, domain.EventStatusPublished, event.Status)
	require.NotNil(t, event.PublishedAt)
	assert.True(t, event.PublishedAt.Equal(fixedNow))
	assert.Equal(t, domain.EventStatusPublished, f.events.stored("e1").Status)
}

func TestDeleteEvent_SoftDeletes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)
	_, _ = f.eventSvc.GetEvent(ctx, "e1")

	require.NoError(t, f.eventSvc.Delete(ctx, "u1", "e1"))

	assert.False(t, f.events.stored("e1").IsActive)
	_, err := f.eventSvc.GetEvent(ctx, "e1")
	assert.True(t, errors.Is(err, ErrEventNotFound))

	resp, err := f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{OrganizerID: "u1"})
	require.NoError(t, err)
	assert.Zero(t, resp.Total)
}

func TestUpdateGuestCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)
	f.addEvent("e2", "u1", fixedNow)

	f.addGuest("g1", "e1", domain.GuestStatusRegistered, nil)
	f.addGuest("g2", "e1", domain.GuestStatusCheckedIn, &fixedNow)
	f.addGuest("g3", "e1", domain.GuestStatusCheckedOut, &fixedNow)
	f.addGuest("g4", "e1", domain.GuestStatusNoShow, nil)

	_, _ = f.eventSvc.GetEvent(ctx, "e1")
	_, _ = f.eventSvc.ListEvents(ctx, &dto.ListEventsQuery{OrganizerID: "u1"})

	require.NoError(t, f.eventSvc.UpdateGuestCount(ctx, "e1"))
	assert.Equal(t, 3, f.events.stored("e1").GuestCount)
	assert.False(t, f.mr.Exists("event:e1"))
	assert.False(t, f.mr.Exists("events:u1:1:10"))

	require.NoError(t, f.eventSvc.UpdateGuestCount(ctx, "e2"))
	assert.Equal(t, 0, f.events.stored("e2").GuestCount)
}

func TestUpdateGuestCount_UnknownEvent(t *testing.T) {
	f := newFixture(t)
	err := f.eventSvc.UpdateGuestCount(context.Background(), "missing")
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestGetEventGuests_Cached(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)
	f.addGuest("g1", "e1", domain.GuestStatusCheckedIn, &fixedNow)

	for i := 0; i < 2; i++ {
		guests, err := f.eventSvc.GetEventGuests(ctx, "e1")
		require.NoError(t, err)
		require.Len(t, guests, 1)
		assert.True(t, guests[0].CheckedIn)
	}
	assert.Equal(t, int32(1), f.guests.listCalls.Load())
	assert.Equal(t, 120*time.Second, f.mr.TTL("event:e1:guests"))
}

func TestGetEvent_CacheOutageFallsBackToStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addUser("u1", "Ada", "Lovelace")
	f.addEvent("e1", "u1", fixedNow)
	f.mr.Close()

	for i := 0; i < 2; i++ {
		got, err := f.eventSvc.GetEvent(ctx, "e1")
		require.NoError(t, err)
		assert.Equal(t, "Event e1", got.Title)
	}
	assert.Equal(t, int32(2), f.events.getCalls.Load())
}
