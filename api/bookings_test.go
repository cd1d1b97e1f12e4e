package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"bookoro/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockBookingUseCase is a mock implementation of booking.BookingUseCase
type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, userID, flightID string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, flightID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, userID, bookingID string) (*domain.Booking, error) {
	args := m.Called(ctx, userID, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID string) ([]domain.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func newBookingTestContext(t *testing.T, userID string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(userIDKey, userID)
	return c, w
}

func TestBookingHandler_create(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	body, _ := json.Marshal(createBookingRequest{FlightID: "flight-1"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	result := &domain.Booking{
		ID:        "booking-1",
		FlightID:  "flight-1",
		UserID:    "user-1",
		Status:    domain.BookingStatusConfirmed,
		CreatedAt: time.Now(),
	}
	mockService.On("CreateBooking", c.Request.Context(), "user-1", "flight-1").Return(result, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Booking
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "booking-1", response.ID)
	assert.Equal(t, domain.BookingStatusConfirmed, response.Status)

	mockService.AssertExpectations(t)
}

func TestBookingHandler_create_missingFlightID(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader([]byte(`{}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_create_flightNotFound(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	body, _ := json.Marshal(createBookingRequest{FlightID: "missing"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), "user-1", "missing").
		Return(nil, domain.ErrFlightNotFound)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_create_noSeats(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	body, _ := json.Marshal(createBookingRequest{FlightID: "flight-1"})
	c.Request = httptest.NewRequest("POST", "/bookings", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("CreateBooking", c.Request.Context(), "user-1", "flight-1").
		Return(nil, domain.ErrNoSeatsAvailable)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestBookingHandler_listMine(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	c.Request = httptest.NewRequest("GET", "/bookings/me", nil)

	bookings := []domain.Booking{
		{ID: "booking-1", FlightID: "flight-1", UserID: "user-1", Status: domain.BookingStatusConfirmed},
		{ID: "booking-2", FlightID: "flight-2", UserID: "user-1", Status: domain.BookingStatusCancelled},
	}
	mockService.On("ListUserBookings", c.Request.Context(), "user-1").Return(bookings, nil)

	handler.listMine(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Booking
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 2)
	assert.Equal(t, "booking-1", response[0].ID)
}

func TestBookingHandler_cancel(t *testing.T) {
	mockService := &MockBookingUseCase{}
	handler := NewBookingHandler(mockService)

	c, w := newBookingTestContext(t, "user-1")
	c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
	c.Request = httptest.NewRequest("DELETE", "/bookings/booking-1", nil)

	result := &domain.Booking{
		ID:       "booking-1",
		FlightID: "flight-1",
		UserID:   "user-1",
		Status:   domain.BookingStatusCancelled,
	}
	mockService.On("CancelBooking", c.Request.Context(), "user-1", "booking-1").Return(result, nil)

	handler.cancel(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "booking-1", response["id"])
	assert.Equal(t, string(domain.BookingStatusCancelled), response["status"])

	mockService.AssertExpectations(t)
}

func TestBookingHandler_cancel_errors(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.ErrBookingNotFound, http.StatusNotFound},
		{"not owned", domain.ErrBookingNotOwned, http.StatusForbidden},
		{"already cancelled", domain.ErrBookingAlreadyCancelled, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			mockService := &MockBookingUseCase{}
			handler := NewBookingHandler(mockService)

			c, w := newBookingTestContext(t, "user-1")
			c.Params = gin.Params{{Key: "id", Value: "booking-1"}}
			c.Request = httptest.NewRequest("DELETE", "/bookings/booking-1", nil)

			mockService.On("CancelBooking", c.Request.Context(), "user-1", "booking-1").
				Return(nil, tc.err)

			handler.cancel(c)

			assert.Equal(t, tc.wantStatus, w.Code)
		})
	}
}
