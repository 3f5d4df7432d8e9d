package dto

import "github.com/kmarfadi/munasaba-backend/internal/domain"

// CreateOrganizationRequest creates a tenant
type CreateOrganizationRequest struct {
	Name      string         `json:"name" binding:"required,min=2,max=255"`
	Slug      string         `json:"slug" binding:"required,slug"`
	Subdomain string         `json:"subdomain" binding:"required,slug"`
	Plan      string         `json:"plan" binding:"omitempty,oneof=free pro enterprise"`
	Settings  domain.JSONMap `json:"settings"`
}

// UpdateOrganizationRequest patches an organization; nil fields are left alone
type UpdateOrganizationRequest struct {
	Name      *string         `json:"name" binding:"omitempty,min=2,max=255"`
	Subdomain *string         `json:"subdomain" binding:"omitempty,slug"`
	Plan      *string         `json:"plan" binding:"omitempty,oneof=free pro enterprise"`
	Settings  *domain.JSONMap `json:"settings"`
	IsActive  *bool           `json:"isActive"`
}

// IsEmpty reports whether no field was provided
func (r *UpdateOrganizationRequest) IsEmpty() bool {
	return r.Name == nil && r.Subdomain == nil && r.Plan == nil && r.Settings == nil && r.IsActive == nil
}

// ListOrganizationsQuery filters the organization listing
type ListOrganizationsQuery struct {
	PageQuery
	IsActive *bool  `form:"isActive"`
	Search   string `form:"search" binding:"omitempty,max=255"`
}

// ListOrganizationsResponse is a page of organizations
type ListOrganizationsResponse struct {
	Organizations []*domain.Organization `json:"organizations"`
	Total         int64                  `json:"total"`
	Page          int                    `json:"page"`
	Limit         int                    `json:"limit"`
	TotalPages    int                    `json:"totalPages"`
}

// AddMemberRequest attaches an existing user to an organization
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Role   string `json:"role" binding:"omitempty,oneof=owner admin member"`
}
