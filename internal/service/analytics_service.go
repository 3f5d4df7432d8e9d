package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kmarfadi/munasaba-backend/internal/domain"
	"github.com/kmarfadi/munasaba-backend/internal/dto"
	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/pkg/telemetry"
)

const recentEventsLimit = 5

// Trend periods. An empty token means 30d; unknown tokens fall back to 90d.
const (
	Period7d  = "7d"
	Period30d = "30d"
	Period90d = "90d"
)

// AnalyticsService defines read-only aggregations
type AnalyticsService interface {
	GetDashboard(ctx context.Context, organizerID string) (*dto.DashboardResponse, error)
	GetEventAnalytics(ctx context.Context, eventID string) (*dto.EventAnalyticsResponse, error)
	GetAttendanceTrends(ctx context.Context, organizerID, period string) (*dto.AttendanceTrendsResponse, error)
	GetEventStats(ctx context.Context, organizerID string) (*dto.EventStatsResponse, error)
	GetGuestStats(ctx context.Context, organizerID string) (*dto.GuestStatsResponse, error)
}

type analyticsService struct {
	analyticsRepo repository.AnalyticsRepository
	eventRepo     repository.EventRepository
	guestRepo     repository.GuestRepository
	now           func() time.Time
}

// NewAnalyticsService creates a new AnalyticsService
func NewAnalyticsService(
	analyticsRepo repository.AnalyticsRepository,
	eventRepo repository.EventRepository,
	guestRepo repository.GuestRepository,
) AnalyticsService {
	return &analyticsService{
		analyticsRepo: analyticsRepo,
		eventRepo:     eventRepo,
		guestRepo:     guestRepo,
		now:           time.Now,
	}
}

// attendanceRate is attended/total as a percentage with two decimals
func attendanceRate(attended, total int64) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(attended)/float64(total)*100*100) / 100
}

// ParsePeriod returns the token to report and its window in days.
// An empty token means 30d; any other unrecognized token is echoed back with a 90 day window.
func ParsePeriod(token string) (string, int) {
	switch token {
	case "":
		return Period30d, 30
	case Period7d:
		return Period7d, 7
	case Period30d:
		return Period30d, 30
	case Period90d:
		return Period90d, 90
	default:
		return token, 90
	}
}

func (s *analyticsService) GetDashboard(ctx context.Context, organizerID string) (*dto.DashboardResponse, error) {
	ctx, span := telemetry.StartSpan(ctx, "AnalyticsService.GetDashboard")
	defer span.End()

	var (
		totalEvents, totalGuests, attended, checkedIn int64
		recent                                        []*domain.Event
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		totalEvents, err = s.analyticsRepo.CountEvents(gctx, organizerID)
		return err
	})
	g.Go(func() (err error) {
		totalGuests, err = s.analyticsRepo.CountGuests(gctx, organizerID)
		return err
	})
	g.Go(func() (err error) {
		attended, err = s.analyticsRepo.CountAttendedGuests(gctx, organizerID)
		return err
	})
	g.Go(func() (err error) {
		checkedIn, err = s.analyticsRepo.CountCheckedInGuests(gctx, organizerID)
		return err
	})
	g.Go(func() (err error) {
		recent, err = s.analyticsRepo.RecentEvents(gctx, organizerID, recentEventsLimit)
		return err
	})
	if err := g.Wait(); err != nil {
		telemetry.RecordError(span, err)
		return nil, fmt.Errorf("dashboard: %w", err)
	}

	recentEvents := make([]dto.RecentEvent, 0, len(recent))
	for _, e := range recent {
		recentEvents = append(recentEvents, dto.RecentEvent{
			ID:         e.ID,
			Title:      e.Title,
			StartDate:  e.StartDate,
			Status:     string(e.Status),
			GuestCount: e.GuestCount,
		})
	}

	return &dto.DashboardResponse{
		TotalEvents:     totalEvents,
		TotalGuests:     totalGuests,
		AttendedGuests:  attended,
		CheckedInGuests: checkedIn,
		AttendanceRate:  attendanceRate(attended, totalGuests),
		RecentEvents:    recentEvents,
	}, nil
}

func (s *analyticsService) GetEventAnalytics(ctx context.Context, eventID string) (*dto.EventAnalyticsResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	if event == nil {
		return nil, ErrEventNotFound
	}

	guests, err := s.guestRepo.ListByEvent(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event guests: %w", err)
	}

	resp := &dto.EventAnalyticsResponse{
		EventID:     event.ID,
		Title:       event.Title,
		TotalGuests: len(guests),
	}
	attended := 0
	for _, g := range guests {
		switch g.Status {
		case domain.GuestStatusRegistered:
			resp.Registered++
		case domain.GuestStatusCheckedIn:
			resp.CheckedIn++
		case domain.GuestStatusCheckedOut:
			resp.CheckedOut++
		case domain.GuestStatusNoShow:
			resp.NoShow++
		}
		if g.Status.Attended() {
			attended++
		}
	}
	resp.AttendanceRate = attendanceRate(int64(attended), int64(len(guests)))
	return resp, nil
}

func (s *analyticsService) GetAttendanceTrends(ctx context.Context, organizerID, period string) (*dto.AttendanceTrendsResponse, error) {
	token, days := ParsePeriod(period)
	since := s.now().UTC().AddDate(0, 0, -days)

	times, err := s.analyticsRepo.CheckInTimes(ctx, organizerID, since)
	if err != nil {
		return nil, fmt.Errorf("check-in times: %w", err)
	}

	trends := make(map[string]int)
	for _, t := range times {
		trends[t.UTC().Format(time.DateOnly)]++
	}

	return &dto.AttendanceTrendsResponse{
		Period: token,
		Trends: trends,
		Total:  len(times),
	}, nil
}

func (s *analyticsService) GetEventStats(ctx context.Context, organizerID string) (*dto.EventStatsResponse, error) {
	stats, err := s.analyticsRepo.EventStats(ctx, organizerID, s.now())
	if err != nil {
		return nil, fmt.Errorf("event stats: %w", err)
	}
	return &dto.EventStatsResponse{
		Total:    stats.Total,
		Upcoming: stats.Upcoming,
		Past:     stats.Past,
	}, nil
}

func (s *analyticsService) GetGuestStats(ctx context.Context, organizerID string) (*dto.GuestStatsResponse, error) {
	counts, err := s.analyticsRepo.GuestStatusCounts(ctx, organizerID)
	if err != nil {
		return nil, fmt.Errorf("guest stats: %w", err)
	}

	resp := &dto.GuestStatsResponse{
		Registered: counts[domain.GuestStatusRegistered],
		CheckedIn:  counts[domain.GuestStatusCheckedIn],
		CheckedOut: counts[domain.GuestStatusCheckedOut],
		NoShow:     counts[domain.GuestStatusNoShow],
	}
	for _, n := range counts {
		resp.Total += n
	}
	resp.AttendanceRate = attendanceRate(resp.CheckedIn+resp.CheckedOut, resp.Total)
	return resp, nil
}
