package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
)

// OrganizationService defines tenant management operations
type OrganizationService interface {
	Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*domain.Organization, error)
	GetByID(ctx context.Context, id string) (*domain.Organization, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Organization, error)
	List(ctx context.Context, query *dto.ListOrganizationsQuery) (*dto.ListOrganizationsResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateOrganizationRequest) (*domain.Organization, error)
	ListMembers(ctx context.Context, id string) ([]*dto.UserResponse, error)
	AddMember(ctx context.Context, id string, req *dto.AddMemberRequest) (*dto.UserResponse, error)
}

type organizationService struct {
	orgRepo  repository.OrganizationRepository
	userRepo repository.UserRepository
	now      func() time.Time
}

// NewOrganizationService creates a new OrganizationService
func NewOrganizationService(orgRepo repository.OrganizationRepository, userRepo repository.UserRepository) OrganizationService {
	return &organizationService{
		orgRepo:  orgRepo,
		userRepo: userRepo,
		now:      time.Now,
	}
}

func (s *organizationService) Create(ctx context.Context, req *dto.CreateOrganizationRequest) (*domain.Organization, error) {
	slug := strings.ToLower(strings.TrimSpace(req.Slug))
	subdomain := strings.ToLower(strings.TrimSpace(req.Subdomain))
	if !domain.IsValidSlug(slug) || !domain.IsValidSlug(subdomain) {
		return nil, ErrInvalidSlug
	}

	exists, err := s.orgRepo.ExistsBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("check slug: %w", err)
	}
	if exists {
		return nil, ErrSlugAlreadyExists
	}

	exists, err = s.orgRepo.ExistsBySubdomain(ctx, subdomain)
	if err != nil {
		return nil, fmt.Errorf("check subdomain: %w", err)
	}
	if exists {
		return nil, ErrSubdomainAlreadyExists
	}

	plan := domain.Plan(req.Plan)
	if plan == "" {
		plan = domain.PlanFree
	}

	now := s.now()
	org := &domain.Organization{
		ID:        uuid.New().String(),
		Name:      req.Name,
		Slug:      slug,
		Subdomain: subdomain,
		Settings:  req.Settings.OrEmpty(),
		IsActive:  true,
		Plan:      plan,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.orgRepo.Create(ctx, org); err != nil {
		// a concurrent create can still lose the unique index race
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrSlugAlreadyExists
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) GetByID(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.orgRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}
	return org, nil
}

func (s *organizationService) GetBySlug(ctx context.Context, slug string) (*domain.Organization, error) {
	org, err := s.orgRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	if org == nil {
		return nil, ErrOrganizationNotFound
	}
	return org, nil
}

func (s *organizationService) List(ctx context.Context, query *dto.ListOrganizationsQuery) (*dto.ListOrganizationsResponse, error) {
	query.SetDefaults()

	orgs, total, err := s.orgRepo.List(ctx, query.Limit, query.Offset(), query.IsActive, query.Search)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}

	return &dto.ListOrganizationsResponse{
		Organizations: orgs,
		Total:         total,
		Page:          query.Page,
		Limit:         query.Limit,
		TotalPages:    dto.TotalPages(total, query.Limit),
	}, nil
}

func (s *organizationService) Update(ctx context.Context, id string, req *dto.UpdateOrganizationRequest) (*domain.Organization, error) {
	if req.IsEmpty() {
		return nil, ErrEmptyUpdate
	}

	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Subdomain != nil {
		subdomain := strings.ToLower(strings.TrimSpace(*req.Subdomain))
		if !domain.IsValidSlug(subdomain) {
			return nil, ErrInvalidSlug
		}
		if subdomain != org.Subdomain {
			exists, err := s.orgRepo.ExistsBySubdomain(ctx, subdomain)
			if err != nil {
				return nil, fmt.Errorf("check subdomain: %w", err)
			}
			if exists {
				return nil, ErrSubdomainAlreadyExists
			}
			org.Subdomain = subdomain
		}
	}
	if req.Name != nil {
		org.Name = *req.Name
	}
	if req.Plan != nil {
		org.Plan = domain.Plan(*req.Plan)
	}
	if req.Settings != nil {
		org.Settings = *req.Settings
	}
	if req.IsActive != nil {
		org.IsActive = *req.IsActive
	}
	org.UpdatedAt = s.now()

	if err := s.orgRepo.Update(ctx, org); err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return nil, ErrSubdomainAlreadyExists
		}
		return nil, fmt.Errorf("update organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) ListMembers(ctx context.Context, id string) ([]*dto.UserResponse, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}

	users, err := s.userRepo.ListByOrganization(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}

	members := make([]*dto.UserResponse, 0, len(users))
	for _, u := range users {
		members = append(members, dto.NewUserResponse(u))
	}
	return members, nil
}

func (s *organizationService) AddMember(ctx context.Context, id string, req *dto.AddMemberRequest) (*dto.UserResponse, error) {
	org, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	role := domain.Role(req.Role)
	if role == "" {
		role = domain.RoleMember
	}

	if err := s.userRepo.UpdateMembership(ctx, user.ID, org.ID, role); err != nil {
		return nil, fmt.Errorf("update membership: %w", err)
	}

	user.OrganizationID = &org.ID
	user.Role = role
	user.UpdatedAt = s.now()
	return dto.NewUserResponse(user), nil
}
