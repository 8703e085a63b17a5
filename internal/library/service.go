package library

import (
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"reprise/internal/catalog"
	"reprise/internal/logging"
	"reprise/internal/media"
	"reprise/internal/services"
)

// Palette holds the colors assigned to new collections in rotation.
var Palette = []string{
	"#3B82F6", "#8B5CF6", "#10B981", "#F59E0B",
	"#EF4444", "#06B6D4", "#84CC16", "#F97316",
}

// Service manages collections and videos.
type Service struct {
	repo   catalog.Repository
	media  *media.Library
	clock  func() time.Time
	newID  func() string
	logger *slog.Logger
}

// Option customizes a Service.
type Option func(*Service)

// WithClock replaces time.Now.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// WithIDGenerator replaces random UUIDs for new rows.
func WithIDGenerator(gen func() string) Option {
	return func(s *Service) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

// NewService constructs a Service.
func NewService(repo catalog.Repository, lib *media.Library, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		media: lib,
		clock: time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = logging.NewComponentLogger(s.logger, "library")
	return s
}

func validationError(op, msg string) error {
	return services.Wrap(services.ErrValidation, "library", op, msg, nil)
}

func conflictError(op, msg string) error {
	return services.Wrap(services.ErrConflict, "library", op, msg, nil)
}

func cleanName(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

func nameTaken(snap *catalog.Snapshot, name, exceptID string) bool {
	for _, c := range snap.Collections {
		if c.ID != exceptID && strings.EqualFold(c.Name, name) {
			return true
		}
	}
	return false
}
