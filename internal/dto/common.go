package dto

const (
	defaultPage  = 1
	defaultLimit = 10
	maxLimit     = 100
)

// PageQuery holds the pagination parameters shared by list endpoints
type PageQuery struct {
	Page  int `form:"page" binding:"omitempty,min=1"`
	Limit int `form:"limit" binding:"omitempty,min=1,max=100"`
}

// SetDefaults fills page 1 and limit 10 and clamps the limit
func (q *PageQuery) SetDefaults() {
	if q.Page <= 0 {
		q.Page = defaultPage
	}
	if q.Limit <= 0 {
		q.Limit = defaultLimit
	}
	if q.Limit > maxLimit {
		q.Limit = maxLimit
	}
}

// Offset is the number of rows skipped for the current page
func (q *PageQuery) Offset() int {
	return (q.Page - 1) * q.Limit
}

// TotalPages returns ceil(total/limit), 0 for a zero limit
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int((total + int64(limit) - 1) / int64(limit))
}

// IDParam is the :id path segment; every entity id is a UUID
type IDParam struct {
	ID string `uri:"id" binding:"required,uuid"`
}

// ScopeQuery lets analytics callers name the organizer they report on
type ScopeQuery struct {
	UserID string `form:"userId" binding:"omitempty,uuid"`
}
