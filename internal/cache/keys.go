package cache

import (
	"fmt"
	"time"
)

// scopeAll replaces the organizer id in list keys for unscoped listings
const scopeAll = "all"

// TTLPolicy holds the lifetime of each cached read
type TTLPolicy struct {
	EventList   time.Duration
	Event       time.Duration
	EventGuests time.Duration
}

// DefaultTTLPolicy returns the production TTLs
func DefaultTTLPolicy() TTLPolicy {
	return TTLPolicy{
		EventList:   300 * time.Second,
		Event:       600 * time.Second,
		EventGuests: 120 * time.Second,
	}
}

func listScope(organizerID string) string {
	if organizerID == "" {
		return scopeAll
	}
	return organizerID
}

// EventListKey is events:{organizerId|all}:{page}:{limit}
func EventListKey(organizerID string, page, limit int) string {
	return fmt.Sprintf("events:%s:%d:%d", listScope(organizerID), page, limit)
}

// EventKey is event:{id}
func EventKey(eventID string) string {
	return "event:" + eventID
}

// EventGuestsKey is event:{id}:guests
func EventGuestsKey(eventID string) string {
	return "event:" + eventID + ":guests"
}

// EventListPattern matches every cached page of one listing scope
func EventListPattern(organizerID string) string {
	return fmt.Sprintf("events:%s:*", listScope(organizerID))
}

// EventKeys returns the per-event keys dropped on any event mutation
func EventKeys(eventID string) []string {
	return []string{EventKey(eventID), EventGuestsKey(eventID)}
}

// ListPatterns returns the list patterns holding an organizer's events.
// The unscoped listing is always included because it contains every organizer.
func ListPatterns(organizerID string) []string {
	if organizerID == "" {
		return []string{EventListPattern("")}
	}
	return []string{EventListPattern(organizerID), EventListPattern("")}
}
