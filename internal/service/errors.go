package service

import (
	"fmt"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
)

var (
	ErrEventNotFound        = fmt.Errorf("event %w", domain.ErrNotFound)
	ErrGuestNotFound        = fmt.Errorf("guest %w", domain.ErrNotFound)
	ErrUserNotFound         = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrOrganizationNotFound = fmt.Errorf("organization %w", domain.ErrNotFound)

	ErrEmailAlreadyExists     = fmt.Errorf("email already registered: %w", domain.ErrConflict)
	ErrSlugAlreadyExists      = fmt.Errorf("organization slug already exists: %w", domain.ErrConflict)
	ErrSubdomainAlreadyExists = fmt.Errorf("organization subdomain already exists: %w", domain.ErrConflict)
	ErrEventFull              = fmt.Errorf("event has reached its guest limit: %w", domain.ErrConflict)

	ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthorized)
	ErrInactiveUser       = fmt.Errorf("user is inactive: %w", domain.ErrUnauthorized)

	ErrNotEventOrganizer = fmt.Errorf("only the organizer can modify this event: %w", domain.ErrForbidden)

	ErrInvalidSlug      = fmt.Errorf("slug must be lowercase letters, numbers and single hyphens: %w", domain.ErrValidation)
	ErrEmptyUpdate      = fmt.Errorf("at least one field must be provided for update: %w", domain.ErrValidation)
	ErrInvalidDateRange = fmt.Errorf("endDate must be after startDate: %w", domain.ErrValidation)
)
