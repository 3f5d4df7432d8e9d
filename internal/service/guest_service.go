package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/telemetry"
)

// GuestCountUpdater refreshes an event's denormalized guest count
type GuestCountUpdater interface {
	UpdateGuestCount(ctx context.Context, eventID string) error
}

// GuestService defines guest registration and check-in operations
type GuestService interface {
	Create(ctx context.Context, req *dto.CreateGuestRequest) (*dto.GuestResponse, error)
	GetByID(ctx context.Context, id string) (*dto.GuestResponse, error)
	List(ctx context.Context, query *dto.ListGuestsQuery) (*dto.ListGuestsResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateGuestRequest) (*dto.GuestResponse, error)
	Delete(ctx context.Context, id string) error
	CheckIn(ctx context.Context, id string) (*dto.GuestResponse, error)
	CheckOut(ctx context.Context, id string) (*dto.GuestResponse, error)
}

type guestService struct {
	guestRepo repository.GuestRepository
	eventRepo repository.EventRepository
	counts    GuestCountUpdater
	cache     cache.Cache
	log       *logger.Logger
	checkIns  *telemetry.Counter
	now       func() time.Time
}

// NewGuestService creates a new GuestService
func NewGuestService(
	guestRepo repository.GuestRepository,
	eventRepo repository.EventRepository,
	counts GuestCountUpdater,
	c cache.Cache,
	log *logger.Logger,
) GuestService {
	if log == nil {
		log = logger.Get()
	}
	return &guestService{
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		counts:    counts,
		cache:     c,
		log:       log.Named("guest_service"),
		checkIns: telemetry.MustCounter(telemetry.MetricOpts{
			Name:        "guest_checkins_total",
			Description: "Guest check-in and check-out transitions",
		}),
		now: time.Now,
	}
}

// afterMutation drops the event's guest list and refreshes its count.
// A failed refresh is logged; the count converges on the next mutation.
func (s *guestService) afterMutation(ctx context.Context, eventID string) {
	s.cache.Delete(ctx, cache.EventGuestsKey(eventID))
	if err := s.counts.UpdateGuestCount(ctx, eventID); err != nil {
		s.log.WarnContext(ctx, "failed to refresh guest count",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}
}

func (s *guestService) Create(ctx context.Context, req *dto.CreateGuestRequest) (*dto.GuestResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, req.EventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	if event.MaxGuests > 0 {
		current, err := s.guestRepo.CountByEvent(ctx, event.ID)
		if err != nil {
			return nil, fmt.Errorf("count guests: %w", err)
		}
		if !event.HasCapacity(current) {
			return nil, ErrEventFull
		}
	}

	now := s.now()
	guest := &domain.Guest{
		ID:        uuid.New().String(),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     domain.NormalizeEmail(req.Email),
		Phone:     req.Phone,
		EventID:   event.ID,
		Notes:     req.Notes,
		Metadata:  req.Metadata.OrEmpty(),
		Status:    domain.GuestStatusRegistered,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return nil, fmt.Errorf("create guest: %w", err)
	}

	s.afterMutation(ctx, guest.EventID)
	return dto.NewGuestResponse(guest), nil
}

func (s *guestService) get(ctx context.Context, id string) (*domain.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if guest == nil {
		return nil, ErrGuestNotFound
	}
	return guest, nil
}

func (s *guestService) GetByID(ctx context.Context, id string) (*dto.GuestResponse, error) {
	guest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewGuestResponse(guest), nil
}

func (s *guestService) List(ctx context.Context, query *dto.ListGuestsQuery) (*dto.ListGuestsResponse, error) {
	query.SetDefaults()

	guests, total, err := s.guestRepo.List(ctx, query.EventID, query.Limit, query.Offset())
	if err != nil {
		return nil, fmt.Errorf("list guests: %w", err)
	}

	return &dto.ListGuestsResponse{
		Guests:     dto.NewGuestResponses(guests),
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: dto.TotalPages(total, query.Limit),
	}, nil
}

func (s *guestService) Update(ctx context.Context, id string, req *dto.UpdateGuestRequest) (*dto.GuestResponse, error) {
	guest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.FirstName != nil {
		guest.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		guest.LastName = *req.LastName
	}
	if req.Email != nil {
		guest.Email = domain.NormalizeEmail(*req.Email)
	}
	if req.Phone != nil {
		guest.Phone = *req.Phone
	}
	if req.Notes != nil {
		guest.Notes = *req.Notes
	}
	if req.Metadata != nil {
		guest.Metadata = *req.Metadata
	}
	guest.UpdatedAt = s.now()

	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, fmt.Errorf("update guest: %w", err)
	}

	s.afterMutation(ctx, guest.EventID)
	return dto.NewGuestResponse(guest), nil
}

func (s *guestService) Delete(ctx context.Context, id string) error {
	guest, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.guestRepo.Delete(ctx, guest.ID); err != nil {
		return fmt.Errorf("delete guest: %w", err)
	}

	s.afterMutation(ctx, guest.EventID)
	return nil
}

func (s *guestService) CheckIn(ctx context.Context, id string) (*dto.GuestResponse, error) {
	return s.transition(ctx, id, "check_in", (*domain.Guest).CheckIn)
}

func (s *guestService) CheckOut(ctx context.Context, id string) (*dto.GuestResponse, error) {
	return s.transition(ctx, id, "check_out", (*domain.Guest).CheckOut)
}

func (s *guestService) transition(ctx context.Context, id, action string, apply func(*domain.Guest, time.Time) error) (*dto.GuestResponse, error) {
	guest, err := s.get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := apply(guest, s.now()); err != nil {
		return nil, err
	}

	if err := s.guestRepo.Update(ctx, guest); err != nil {
		return nil, fmt.Errorf("%s guest: %w", action, err)
	}

	s.checkIns.Inc(ctx, telemetry.GuestStatusAttr(string(guest.Status)))
	s.log.InfoContext(ctx, "guest status changed",
		zap.String("guest_id", guest.ID),
		zap.String("event_id", guest.EventID),
		zap.String("action", action),
		zap.String("status", string(guest.Status)),
	)

	s.afterMutation(ctx, guest.EventID)
	return dto.NewGuestResponse(guest), nil
}
