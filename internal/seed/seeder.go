package seed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kmarfadi/munasaba-backend/internal/repository"
	"github.com/kmarfadi/munasaba-backend/internal/service"
	"github.com/kmarfadi/munasaba-backend/pkg/logger"
)

// Execer runs a statement without returning rows
type Execer interface {
	Exec(ctx context.Context, sql string, args ...interface{}) error
}

// Repositories are the stores the seeder writes through
type Repositories struct {
	Organizations repository.OrganizationRepository
	Users         repository.UserRepository
	Events        repository.EventRepository
	Guests        repository.GuestRepository
}

// Summary reports how many records a run inserted
type Summary struct {
	Organizations int
	Users         int
	Events        int
	Guests        int
	Skipped       bool
}

// Seeder loads and clears the demo dataset
type Seeder struct {
	repos      Repositories
	db         Execer
	log        *logger.Logger
	bcryptCost int
	now        func() time.Time
}

// NewSeeder creates a Seeder. db is only used by Clear.
func NewSeeder(repos Repositories, db Execer, log *logger.Logger) *Seeder {
	if log == nil {
		log = logger.Get()
	}
	return &Seeder{
		repos:      repos,
		db:         db,
		log:        log.Named("seed"),
		bcryptCost: service.DefaultBcryptCost,
		now:        time.Now,
	}
}

// Run inserts the dataset in dependency order and refreshes each event's guest count.
// It is a no-op when the first demo organization already exists.
func (s *Seeder) Run(ctx context.Context) (*Summary, error) {
	first := organizationSeeds[0].slug
	existing, err := s.repos.Organizations.GetBySlug(ctx, first)
	if err != nil {
		return nil, fmt.Errorf("check existing seed: %w", err)
	}
	if existing != nil {
		s.log.Info("seed data already present, skipping", zap.String("slug", first))
		return &Summary{Skipped: true}, nil
	}

	hash, err := service.HashPassword(DefaultPassword, s.bcryptCost)
	if err != nil {
		return nil, err
	}
	ds := BuildDataset(s.now(), hash)
	sum := &Summary{}

	for _, org := range ds.Organizations {
		if err := s.repos.Organizations.Create(ctx, org); err != nil {
			return sum, fmt.Errorf("seed organization %s: %w", org.Slug, err)
		}
		sum.Organizations++
	}
	s.log.Info("seeded organizations", zap.Int("count", sum.Organizations))

	for _, u := range ds.Users {
		if err := s.repos.Users.Create(ctx, u); err != nil {
			return sum, fmt.Errorf("seed user %s: %w", u.Email, err)
		}
		sum.Users++
	}
	s.log.Info("seeded users", zap.Int("count", sum.Users))

	for _, e := range ds.Events {
		if err := s.repos.Events.Create(ctx, e); err != nil {
			return sum, fmt.Errorf("seed event %q: %w", e.Title, err)
		}
		sum.Events++
	}
	s.log.Info("seeded events", zap.Int("count", sum.Events))

	for _, g := range ds.Guests {
		if err := s.repos.Guests.Create(ctx, g); err != nil {
			return sum, fmt.Errorf("seed guest %s: %w", g.Email, err)
		}
		sum.Guests++
	}
	s.log.Info("seeded guests", zap.Int("count", sum.Guests))

	for _, e := range ds.Events {
		count, err := s.repos.Guests.CountByEvent(ctx, e.ID)
		if err != nil {
			return sum, fmt.Errorf("count guests for %q: %w", e.Title, err)
		}
		if _, err := s.repos.Events.SetGuestCount(ctx, e.ID, count); err != nil {
			return sum, fmt.Errorf("set guest count for %q: %w", e.Title, err)
		}
	}

	return sum, nil
}

// clearOrder deletes children before parents
var clearOrder = []string{"guests", "events", "users", "organizations"}

// Clear removes every row from the seeded tables
func (s *Seeder) Clear(ctx context.Context) error {
	for _, table := range clearOrder {
		if err := s.db.Exec(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
		s.log.Info("cleared table", zap.String("table", table))
	}
	return nil
}
