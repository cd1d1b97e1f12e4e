package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookoro/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	GetByID(ctx context.Context, id string) (*domain.Flight, error)
	Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error)
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `id, origin, destination, departure_time, arrival_time, price, seats, available_seats, created_at, updated_at`

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.ID, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.Price, &f.Seats, &f.AvailableSeats, &f.CreatedAt, &f.UpdatedAt)
}

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	// Seats and available seats start equal; the counter only moves through
	// the booking transaction path afterwards.
	return r.db.QueryRow(ctx, `INSERT INTO flights (id, origin, destination, departure_time, arrival_time, price, seats, available_seats)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		RETURNING created_at, updated_at`,
		flight.ID, flight.Origin, flight.Destination, flight.DepartureTime, flight.ArrivalTime, flight.Price, flight.Seats).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
}

func (r *PGFlightRepository) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE id=$1`, id)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	query := `SELECT ` + flightColumns + ` FROM flights`
	var conds []string
	var args []any

	if filter.Origin != "" {
		args = append(args, "%"+filter.Origin+"%")
		conds = append(conds, fmt.Sprintf("origin ILIKE $%d", len(args)))
	}
	if filter.Destination != "" {
		args = append(args, "%"+filter.Destination+"%")
		conds = append(conds, fmt.Sprintf("destination ILIKE $%d", len(args)))
	}
	if filter.Date != nil {
		day := filter.Date.UTC()
		day = time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
		args = append(args, day)
		conds = append(conds, fmt.Sprintf("departure_time >= $%d", len(args)))
		args = append(args, day.AddDate(0, 0, 1))
		conds = append(conds, fmt.Sprintf("departure_time < $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY departure_time"

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
