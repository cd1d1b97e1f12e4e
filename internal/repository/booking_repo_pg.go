package repository

import (
	"context"
	"errors"

	"bookoro/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	// Create books one seat on the flight inside a single transaction.
	// Returns domain.ErrFlightNotFound or domain.ErrNoSeatsAvailable.
	Create(ctx context.Context, userID, flightID string) (*domain.Booking, error)
	// Cancel flips the booking to CANCELLED and restores the seat inside a
	// single transaction. Returns domain.ErrBookingNotFound,
	// domain.ErrBookingNotOwned or domain.ErrBookingAlreadyCancelled.
	Cancel(ctx context.Context, userID, bookingID string) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

func (r *PGBookingRepository) Create(ctx context.Context, userID, flightID string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var flight domain.Flight
	row := tx.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, flightID)
	if err := scanFlight(row, &flight); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}

	// The conditional decrement is the serialization point: two racing
	// transactions cannot both pass the available_seats > 0 guard for the
	// last seat.
	res, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1, updated_at = now() WHERE id=$1 AND available_seats > 0`, flightID)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, domain.ErrNoSeatsAvailable
	}
	flight.AvailableSeats--

	booking := &domain.Booking{
		ID:       uuid.NewString(),
		FlightID: flightID,
		UserID:   userID,
		Status:   domain.BookingStatusConfirmed,
	}
	if err := tx.QueryRow(ctx, `INSERT INTO bookings (id, user_id, flight_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`, booking.ID, userID, flightID, booking.Status).
		Scan(&booking.CreatedAt); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	booking.Flight = &flight
	return booking, nil
}

func (r *PGBookingRepository) Cancel(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var b domain.Booking
	row := tx.QueryRow(ctx, `SELECT id, user_id, flight_id, status, created_at FROM bookings WHERE id=$1`, bookingID)
	if err := row.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Status, &b.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, err
	}
	if b.UserID != userID {
		return nil, domain.ErrBookingNotOwned
	}
	if b.Status == domain.BookingStatusCancelled {
		return nil, domain.ErrBookingAlreadyCancelled
	}

	// Conditional on status so a concurrent cancel of the same booking
	// cannot restore the seat twice.
	res, err := tx.Exec(ctx, `UPDATE bookings SET status=$1 WHERE id=$2 AND status=$3`,
		domain.BookingStatusCancelled, bookingID, domain.BookingStatusConfirmed)
	if err != nil {
		return nil, err
	}
	if res.RowsAffected() == 0 {
		return nil, domain.ErrBookingAlreadyCancelled
	}

	// A confirmed booking always holds exactly one seat, so the increment
	// is unconditional.
	if _, err := tx.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1, updated_at = now() WHERE id=$1`, b.FlightID); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	b.Status = domain.BookingStatusCancelled
	return &b, nil
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT b.id, b.user_id, b.flight_id, b.status, b.created_at,
			f.id, f.origin, f.destination, f.departure_time, f.arrival_time, f.price, f.seats, f.available_seats, f.created_at, f.updated_at
		FROM bookings b
		JOIN flights f ON f.id = b.flight_id
		WHERE b.user_id=$1
		ORDER BY b.created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		var f domain.Flight
		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.Status, &b.CreatedAt,
			&f.ID, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.Seats, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		b.Flight = &f
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
