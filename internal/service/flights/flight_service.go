package flights

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookoro/internal/domain"
	"bookoro/internal/repository"

	"github.com/google/uuid"
)

type FlightUseCase interface {
	Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error)
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
}

// Cache is a read-through cache over the search results, keyed by filter.
type Cache interface {
	GetFlights(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
	SetFlights(ctx context.Context, filter domain.FlightFilter, flights []domain.Flight) error
}

type CreateFlightInput struct {
	Origin        string
	Destination   string
	DepartureTime time.Time
	ArrivalTime   time.Time
	Price         float64
	Seats         int
}

func (in CreateFlightInput) validate() error {
	if strings.TrimSpace(in.Origin) == "" {
		return fmt.Errorf("%w: origin is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Destination) == "" {
		return fmt.Errorf("%w: destination is required", domain.ErrInvalidInput)
	}
	if !in.ArrivalTime.After(in.DepartureTime) {
		return fmt.Errorf("%w: arrival time must be after departure time", domain.ErrInvalidInput)
	}
	if in.Price < 0 {
		return fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	if in.Seats <= 0 {
		return fmt.Errorf("%w: seats must be positive", domain.ErrInvalidInput)
	}
	return nil
}

type FlightService struct {
	repo  repository.FlightRepository
	cache Cache
}

func NewFlightService(repo repository.FlightRepository, cache Cache) *FlightService {
	return &FlightService{repo: repo, cache: cache}
}

func (s *FlightService) Create(ctx context.Context, input CreateFlightInput) (*domain.Flight, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	flight := &domain.Flight{
		ID:            uuid.NewString(),
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		Price:         input.Price,
		Seats:         input.Seats,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}
	flight.AvailableSeats = flight.Seats
	return flight, nil
}

func (s *FlightService) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	return s.repo.GetByID(ctx, id)
}

// Search serves from the cache when possible and falls back to the store on
// any cache failure. Entries expire by TTL, so seat counts may lag briefly.
func (s *FlightService) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx, filter); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.Search(ctx, filter)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.SetFlights(ctx, filter, flights)
	}
	return flights, nil
}

var _ FlightUseCase = (*FlightService)(nil)
