package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestKeys(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"scoped list", EventListKey("u1", 1, 10), "events:u1:1:10"},
		{"unscoped list", EventListKey("", 2, 20), "events:all:2:20"},
		{"event", EventKey("e1"), "event:e1"},
		{"event guests", EventGuestsKey("e1"), "event:e1:guests"},
		{"scoped pattern", EventListPattern("u1"), "events:u1:*"},
		{"unscoped pattern", EventListPattern(""), "events:all:*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.got)
		})
	}
}

func TestListPatterns(t *testing.T) {
	assert.Equal(t, []string{"events:u1:*", "events:all:*"}, ListPatterns("u1"))
	assert.Equal(t, []string{"events:all:*"}, ListPatterns(""))
}

func TestEventKeys(t *testing.T) {
	assert.Equal(t, []string{"event:e1", "event:e1:guests"}, EventKeys("e1"))
}

func TestDefaultTTLPolicy(t *testing.T) {
	p := DefaultTTLPolicy()
	assert.Equal(t, 300*time.Second, p.EventList)
	assert.Equal(t, 600*time.Second, p.Event)
	assert.Equal(t, 120*time.Second, p.EventGuests)
}
