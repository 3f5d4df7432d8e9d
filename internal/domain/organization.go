package domain

import (
	"regexp"
	"time"
)

// Plan is the organization's subscription tier
type Plan string

const (
	PlanFree       Plan = "free"
	PlanPro        Plan = "pro"
	PlanEnterprise Plan = "enterprise"
)

// IsValid reports whether p is a known plan
func (p Plan) IsValid() bool {
	switch p {
	case PlanFree, PlanPro, PlanEnterprise:
		return true
	}
	return false
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)

// IsValidSlug reports whether s is lowercase alphanumerics separated by single hyphens
func IsValidSlug(s string) bool {
	return len(s) >= 2 && len(s) <= 100 && slugPattern.MatchString(s)
}

// Organization is a tenant owning users and events
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Subdomain string    `json:"subdomain"`
	Settings  JSONMap   `json:"settings"`
	IsActive  bool      `json:"isActive"`
	Plan      Plan      `json:"plan"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
