package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/cache"
	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
	"github.com/kmarfadi/munasaba-backend/pkg/telemetry"
)

// EventService defines event operations. Reads are cache-aside; writes
// invalidate after the store commits.
type EventService interface {
	Create(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error)
	GetEvent(ctx context.Context, id string) (*dto.EventDetailResponse, error)
	ListEvents(ctx context.Context, query *dto.ListEventsQuery) (*dto.EventListResponse, error)
	Update(ctx context.Context, principalID, id string, req *dto.UpdateEventRequest) (*domain.Event, error)
	Publish(ctx context.Context, principalID, id string) (*domain.Event, error)
	Delete(ctx context.Context, principalID, id string) error
	GetEventGuests(ctx context.Context, id string) ([]*dto.GuestResponse, error)
	// UpdateGuestCount recomputes Event.GuestCount from the guest rows
	UpdateGuestCount(ctx context.Context, eventID string) error
}

type eventService struct {
	eventRepo repository.EventRepository
	guestRepo repository.GuestRepository
	userRepo  repository.UserRepository
	cache     cache.Cache
	ttl       cache.TTLPolicy
	log       *logger.Logger
	now       func() time.Time
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo repository.EventRepository,
	guestRepo repository.GuestRepository,
	userRepo repository.UserRepository,
	c cache.Cache,
	ttl cache.TTLPolicy,
	log *logger.Logger,
) EventService {
	if log == nil {
		log = logger.Get()
	}
	return &eventService{
		eventRepo: eventRepo,
		guestRepo: guestRepo,
		userRepo:  userRepo,
		cache:     c,
		ttl:       ttl,
		log:       log.Named("event_service"),
		now:       time.Now,
	}
}

func (s *eventService) Create(ctx context.Context, organizerID string, req *dto.CreateEventRequest) (*domain.Event, error) {
	if req.EndDate != nil && !req.EndDate.After(req.StartDate) {
		return nil, ErrInvalidDateRange
	}

	organizer, err := s.userRepo.GetByID(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("get organizer: %w", err)
	}
	if organizer == nil {
		return nil, ErrUserNotFound
	}

	orgID := organizer.OrganizationID
	if req.OrganizationID != "" {
		orgID = &req.OrganizationID
	}

	now := s.now()
	event := &domain.Event{
		ID:             uuid.New().String(),
		Title:          req.Title,
		Description:    req.Description,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Location:       req.Location,
		Category:       req.Category,
		MaxGuests:      req.MaxGuests,
		OrganizerID:    organizer.ID,
		OrganizationID: orgID,
		IsActive:       true,
		Metadata:       req.Metadata.OrEmpty(),
		Status:         domain.EventStatusDraft,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}

	cache.InvalidateLists(ctx, s.cache, event.OrganizerID)
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*dto.EventDetailResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "EventService.GetEvent")
	defer span.End()
	span.SetAttributes(telemetry.EventIDAttr(id))

	key := cache.EventKey(id)
	var cached dto.EventDetailResponse
	if s.cache.Get(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	organizer, err := s.userRepo.GetByID(ctx, event.OrganizerID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("get organizer: %w", err)
	}

	resp := dto.NewEventDetailResponse(event, organizer)
	s.cache.Set(ctx, key, resp, s.ttl.Event)
	return resp, nil
}

func (s *eventService) ListEvents(ctx context.Context, query *dto.ListEventsQuery) (*dto.EventListResponse, error) {
	query.SetDefaults()

	ctx, span := telemetry.StartSpan(ctx, "EventService.ListEvents")
	defer span.End()

	key := cache.EventListKey(query.OrganizerID, query.Page, query.Limit)
	var cached dto.EventListResponse
	if s.cache.Get(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return &cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	items, total, err := s.eventRepo.List(ctx, query.OrganizerID, query.Limit, query.Offset())
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list events: %w", err)
	}

	events := make([]dto.EventListItem, 0, len(items))
	for _, item := range items {
		events = append(events, dto.NewEventListItem(item))
	}

	resp := &dto.EventListResponse{
		Events:     events,
		Total:      total,
		Page:       query.Page,
		Limit:      query.Limit,
		TotalPages: dto.TotalPages(total, query.Limit),
	}
	s.cache.Set(ctx, key, resp, s.ttl.EventList)
	return resp, nil
}

// ownedEvent loads an active event and checks the principal organizes it
func (s *eventService) ownedEvent(ctx context.Context, principalID, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}
	if event.OrganizerID != principalID {
		return nil, ErrNotEventOrganizer
	}
	return event, nil
}

func (s *eventService) Update(ctx context.Context, principalID, id string, req *dto.UpdateEventRequest) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, principalID, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	if req.Title != nil {
		event.Title = *req.Title
	}
	if req.Description != nil {
		event.Description = *req.Description
	}
	if req.StartDate != nil {
		event.StartDate = *req.StartDate
	}
	if req.EndDate != nil {
		event.EndDate = req.EndDate
	}
	if event.EndDate != nil && !event.EndDate.After(event.StartDate) {
		return nil, ErrInvalidDateRange
	}
	if req.Location != nil {
		event.Location = *req.Location
	}
	if req.Category != nil {
		event.Category = *req.Category
	}
	if req.MaxGuests != nil {
		event.MaxGuests = *req.MaxGuests
	}
	if req.Metadata != nil {
		event.Metadata = *req.Metadata
	}
	if req.Status != nil {
		if err := event.ChangeStatus(domain.EventStatus(*req.Status), now); err != nil {
			return nil, err
		}
	}
	event.UpdatedAt = now

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}

	cache.InvalidateEvent(ctx, s.cache, event.ID, event.OrganizerID)
	return event, nil
}

func (s *eventService) Publish(ctx context.Context, principalID, id string) (*domain.Event, error) {
	event, err := s.ownedEvent(ctx, principalID, id)
	if err != nil {
		return nil, err
	}

	if err := event.ChangeStatus(domain.EventStatusPublished, s.now()); err != nil {
		return nil, err
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("publish event: %w", err)
	}

	cache.InvalidateEvent(ctx, s.cache, event.ID, event.OrganizerID)
	return event, nil
}

func (s *eventService) Delete(ctx context.Context, principalID, id string) error {
	event, err := s.ownedEvent(ctx, principalID, id)
	if err != nil {
		return err
	}

	if err := s.eventRepo.SoftDelete(ctx, event.ID); err != nil {
		return fmt.Errorf("delete event: %w", err)
	}

	cache.InvalidateEvent(ctx, s.cache, event.ID, event.OrganizerID)
	return nil
}

func (s *eventService) GetEventGuests(ctx context.Context, id string) ([]*dto.GuestResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "EventService.GetEventGuests")
	defer span.End()
	span.SetAttributes(telemetry.EventIDAttr(id))

	key := cache.EventGuestsKey(id)
	var cached []*dto.GuestResponse
	if s.cache.Get(ctx, key, &cached) {
		span.SetAttributes(attribute.Bool("cache.hit", true))
		return cached, nil
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	guests, err := s.guestRepo.ListByEvent(ctx, id)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("list event guests: %w", err)
	}

	resp := dto.NewGuestResponses(guests)
	s.cache.Set(ctx, key, resp, s.ttl.EventGuests)
	return resp, nil
}

func (s *eventService) UpdateGuestCount(ctx context.Context, eventID string) error {
	count, err := s.guestRepo.CountByEvent(ctx, eventID)
	if err != nil {
		return fmt.Errorf("count guests: %w", err)
	}

	organizerID, err := s.eventRepo.SetGuestCount(ctx, eventID, count)
	if err != nil {
		return fmt.Errorf("set guest count: %w", err)
	}

	s.cache.Delete(ctx, cache.EventKey(eventID))
	cache.InvalidateLists(ctx, s.cache, organizerID)

	s.log.DebugContext(ctx, "guest count refreshed",
		zap.String("event_id", eventID),
		zap.Int("guest_count", count),
	)
	return nil
}
