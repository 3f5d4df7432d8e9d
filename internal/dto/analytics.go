package dto

import "time"

// RecentEvent is a dashboard row
type RecentEvent struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	StartDate  time.Time `json:"startDate"`
	Status     string    `json:"status"`
	GuestCount int       `json:"guestCount"`
}

// DashboardResponse summarizes an organizer's activity.
// CheckedInGuests counts only guests still on site; AttendedGuests adds those who left.
type DashboardResponse struct {
	TotalEvents     int64         `json:"totalEvents"`
	TotalGuests     int64         `json:"totalGuests"`
	CheckedInGuests int64         `json:"checkedInGuests"`
	AttendedGuests  int64         `json:"attendedGuests"`
	AttendanceRate  float64       `json:"attendanceRate"`
	RecentEvents    []RecentEvent `json:"recentEvents"`
}

// EventAnalyticsResponse breaks down one event's guests by status
type EventAnalyticsResponse struct {
	EventID        string  `json:"eventId"`
	Title          string  `json:"title"`
	TotalGuests    int     `json:"totalGuests"`
	Registered     int     `json:"registered"`
	CheckedIn      int     `json:"checkedIn"`
	CheckedOut     int     `json:"checkedOut"`
	NoShow         int     `json:"noShow"`
	AttendanceRate float64 `json:"attendanceRate"`
}

// TrendsQuery selects the trend window
type TrendsQuery struct {
	Period      string `form:"period" binding:"omitempty,max=16"`
	OrganizerID string `form:"userId" binding:"omitempty,uuid"`
}

// AttendanceTrendsResponse maps ISO dates (UTC) to check-in counts
type AttendanceTrendsResponse struct {
	Period string         `json:"period"`
	Trends map[string]int `json:"trends"`
	Total  int            `json:"total"`
}

// EventStatsResponse counts an organizer's active events by time
type EventStatsResponse struct {
	Total    int64 `json:"total"`
	Upcoming int64 `json:"upcoming"`
	Past     int64 `json:"past"`
}

// GuestStatsResponse counts an organizer's guests by status
type GuestStatsResponse struct {
	Total          int64   `json:"total"`
	Registered     int64   `json:"registered"`
	CheckedIn      int64   `json:"checkedIn"`
	CheckedOut     int64   `json:"checkedOut"`
	NoShow         int64   `json:"noShow"`
	AttendanceRate float64 `json:"attendanceRate"`
}
