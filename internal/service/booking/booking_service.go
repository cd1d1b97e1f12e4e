package booking

import (
	"context"
	"time"

	"bookoro/internal/domain"
	"bookoro/internal/kafka"
	"bookoro/internal/repository"

	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, userID, flightID string) (*domain.Booking, error)
	CancelBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error)
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings           repository.BookingRepository
	users              repository.UserRepository
	producer           Producer
	notificationsTopic string
	logger             *zap.Logger
}

func NewBookingService(
	bookings repository.BookingRepository,
	users repository.UserRepository,
	producer Producer,
	notificationsTopic string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		bookings:           bookings,
		users:              users,
		producer:           producer,
		notificationsTopic: notificationsTopic,
		logger:             logger,
	}
}

// CreateBooking books one seat for the user. The seat decrement and booking
// insert commit atomically in the repository; the confirmation email event
// is dispatched only after that commit and never affects the outcome.
func (s *BookingService) CreateBooking(ctx context.Context, userID, flightID string) (*domain.Booking, error) {
	booking, err := s.bookings.Create(ctx, userID, flightID)
	if err != nil {
		return nil, err
	}

	if s.producer != nil && s.notificationsTopic != "" {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil {
			s.logger.Warn("skipping booking notification, user lookup failed",
				zap.String("booking_id", booking.ID), zap.Error(err))
			return booking, nil
		}
		go s.notifyBookingCreated(user, booking)
	}
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	return s.bookings.Cancel(ctx, userID, bookingID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.bookings.ListByUser(ctx, userID)
}

func (s *BookingService) notifyBookingCreated(user *domain.User, booking *domain.Booking) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	event := kafka.NotificationEvent{
		Type:          kafka.EventBookingCreated,
		Email:         user.Email,
		Name:          user.Name,
		BookingID:     booking.ID,
		Origin:        booking.Flight.Origin,
		Destination:   booking.Flight.Destination,
		Price:         booking.Flight.Price,
		DepartureTime: booking.Flight.DepartureTime,
	}
	if err := s.producer.Publish(ctx, s.notificationsTopic, booking.ID, event); err != nil {
		s.logger.Warn("failed to publish booking_created event",
			zap.String("booking_id", booking.ID), zap.Error(err))
	}
}

var _ BookingUseCase = (*BookingService)(nil)
