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
	"bookoro/internal/service/flights"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockFlightUseCase is a mock implementation of flights.FlightUseCase
type MockFlightUseCase struct {
	mock.Mock
}

func (m *MockFlightUseCase) Create(ctx context.Context, input flights.CreateFlightInput) (*domain.Flight, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) GetByID(ctx context.Context, id string) (*domain.Flight, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Flight), args.Error(1)
}

func (m *MockFlightUseCase) Search(ctx context.Context, filter domain.FlightFilter) ([]domain.Flight, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Flight), args.Error(1)
}

func TestFlightHandler_list(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?origin=JFK&destination=LHR", nil)

	results := []domain.Flight{{ID: "flight-1", Origin: "JFK", Destination: "LHR"}}
	mockService.On("Search", c.Request.Context(), domain.FlightFilter{Origin: "JFK", Destination: "LHR"}).
		Return(results, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response []domain.Flight
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Len(t, response, 1)
	assert.Equal(t, "flight-1", response[0].ID)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_filterParsing(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?date=2026-09-15&minPrice=100&maxPrice=500", nil)

	day := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	min, max := 100.0, 500.0
	expected := domain.FlightFilter{Date: &day, MinPrice: &min, MaxPrice: &max}
	mockService.On("Search", c.Request.Context(), expected).Return([]domain.Flight{}, nil)

	handler.list(c)

	assert.Equal(t, http.StatusOK, w.Code)
	mockService.AssertExpectations(t)
}

func TestFlightHandler_list_badDate(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("GET", "/flights?date=tomorrow", nil)

	handler.list(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Search")
}

func TestFlightHandler_get(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "flight-1"}}
	c.Request = httptest.NewRequest("GET", "/flights/flight-1", nil)

	flight := &domain.Flight{ID: "flight-1", Origin: "JFK", Destination: "LHR", AvailableSeats: 42}
	mockService.On("GetByID", c.Request.Context(), "flight-1").Return(flight, nil)

	handler.get(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var response domain.Flight
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 42, response.AvailableSeats)
}

func TestFlightHandler_get_notFound(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}
	c.Request = httptest.NewRequest("GET", "/flights/missing", nil)

	mockService.On("GetByID", c.Request.Context(), "missing").Return(nil, domain.ErrFlightNotFound)

	handler.get(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestFlightHandler_create(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	departure := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	req := createFlightRequest{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(6 * time.Hour),
		Price:         299.99,
		Seats:         150,
	}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	created := &domain.Flight{ID: "flight-1", Origin: "JFK", Destination: "LAX", Seats: 150, AvailableSeats: 150}
	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("flights.CreateFlightInput")).
		Return(created, nil)

	handler.create(c)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response domain.Flight
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, 150, response.AvailableSeats)

	mockService.AssertExpectations(t)
}

func TestFlightHandler_create_missingFields(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest("POST", "/flights", bytes.NewReader([]byte(`{"origin":"JFK"}`)))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	mockService.AssertNotCalled(t, "Create")
}

func TestFlightHandler_create_invalidInput(t *testing.T) {
	mockService := &MockFlightUseCase{}
	handler := NewFlightHandler(mockService)

	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	departure := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)
	req := createFlightRequest{
		Origin:        "JFK",
		Destination:   "LAX",
		DepartureTime: departure,
		ArrivalTime:   departure.Add(-time.Hour),
		Price:         100,
		Seats:         10,
	}
	body, _ := json.Marshal(req)
	c.Request = httptest.NewRequest("POST", "/flights", bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	mockService.On("Create", c.Request.Context(), mock.AnythingOfType("flights.CreateFlightInput")).
		Return(nil, domain.ErrInvalidInput)

	handler.create(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
