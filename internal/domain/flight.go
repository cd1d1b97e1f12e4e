package domain

import "time"

type Flight struct {
	ID             string    `json:"id"`
	Origin         string    `json:"origin"`
	Destination    string    `json:"destination"`
	DepartureTime  time.Time `json:"departureTime"`
	ArrivalTime    time.Time `json:"arrivalTime"`
	Price          float64   `json:"price"`
	Seats          int       `json:"seats"`
	AvailableSeats int       `json:"availableSeats"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// FlightFilter narrows a flight search. Zero values mean "no constraint",
// all set fields apply together.
type FlightFilter struct {
	Origin      string
	Destination string
	// Date matches flights departing within this UTC calendar day.
	Date     *time.Time
	MinPrice *float64
	MaxPrice *float64
}
