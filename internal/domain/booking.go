package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID        string        `json:"id"`
	FlightID  string        `json:"flightId"`
	UserID    string        `json:"userId"`
	Status    BookingStatus `json:"status"`
	CreatedAt time.Time     `json:"createdAt"`
	// Flight is the snapshot of the booked flight, populated on create
	// and on reads that join the flights table.
	Flight *Flight `json:"flight,omitempty"`
}
