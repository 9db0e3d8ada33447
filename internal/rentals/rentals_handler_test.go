package rentals

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ubbbj/laptop-rental/pkg/auditlog"
	custom_error "github.com/ubbbj/laptop-rental/pkg/errors"
	"github.com/ubbbj/laptop-rental/pkg/metadata"
	"github.com/ubbbj/laptop-rental/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockWorkflow struct {
	mock.Mock
}

func (m *MockWorkflow) RequestRental(req models.RentalRequest) (*models.Laptop, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Laptop), args.Error(1)
}

func (m *MockWorkflow) ConfirmRental(laptopID int) (*models.Laptop, error) {
	args := m.Called(laptopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Laptop), args.Error(1)
}

func (m *MockWorkflow) RejectRental(laptopID int) (*models.Laptop, error) {
	args := m.Called(laptopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Laptop), args.Error(1)
}

func (m *MockWorkflow) CompleteRental(laptopID int) (*models.RentalRecord, error) {
	args := m.Called(laptopID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.RentalRecord), args.Error(1)
}

func (m *MockWorkflow) ListActive(filter string) ([]models.Laptop, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Laptop), args.Error(1)
}

func (m *MockWorkflow) ListHistory() ([]models.RentalRecord, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.RentalRecord), args.Error(1)
}

type noopLogStore struct{}

func (noopLogStore) PersistLog(auditLog models.AuditLog, data interface{}) error {
	return nil
}

func newTestHandler(service Workflow) *RentalHandler {
	return NewHandler(service, auditlog.NewAuditLog(noopLogStore{}))
}

func newTestContext(method, target string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	recorder := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(recorder)
	c.Request = httptest.NewRequest(method, target, bytes.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, recorder
}

func TestCreateRentalHandler(t *testing.T) {
	t.Run("returns 201 with pending laptop", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		laptop := &models.Laptop{
			ID:     1,
			Serial: "SN1",
			State:  metadata.StatePending,
			Rental: &models.RentalDetails{Email: "jan.kowalski@example.com"},
		}
		mockService.On("RequestRental", mock.Anything).Return(laptop, nil)

		body, _ := json.Marshal(gin.H{
			"laptop_id":  1,
			"full_name":  "Jan Kowalski",
			"email":      "jan.kowalski@example.com",
			"phone":      "+48 600 100 200",
			"start_date": "2025-01-06",
			"end_date":   "2025-01-10",
		})
		c, recorder := newTestContext(http.MethodPost, "/api/rentals", body)

		handler.CreateRental(c)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"pending"`)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 400 on malformed payload", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		c, recorder := newTestContext(http.MethodPost, "/api/rentals", []byte(`{"laptop_id": "x"`))

		handler.CreateRental(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "RequestRental")
	})

	t.Run("returns 400 on validation error", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		mockService.On("RequestRental", mock.Anything).Return(nil, &custom_error.ValidationError{
			Field:   "start_date",
			Message: "data początkowa po dacie końcowej",
		})

		body, _ := json.Marshal(gin.H{
			"laptop_id":  1,
			"full_name":  "Jan Kowalski",
			"email":      "jan.kowalski@example.com",
			"phone":      "+48 600 100 200",
			"start_date": "2025-01-11",
			"end_date":   "2025-01-10",
		})
		c, recorder := newTestContext(http.MethodPost, "/api/rentals", body)

		handler.CreateRental(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "start_date")
	})

	t.Run("returns 409 with state pair on conflict", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		mockService.On("RequestRental", mock.Anything).Return(nil, &custom_error.StateConflictError{
			Current:  metadata.StatePending,
			Expected: metadata.StateAvailable,
		})

		body, _ := json.Marshal(gin.H{
			"laptop_id":  1,
			"full_name":  "Jan Kowalski",
			"email":      "jan.kowalski@example.com",
			"phone":      "+48 600 100 200",
			"start_date": "2025-01-06",
			"end_date":   "2025-01-10",
		})
		c, recorder := newTestContext(http.MethodPost, "/api/rentals", body)

		handler.CreateRental(c)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"current_state":"pending"`)
		assert.Contains(t, recorder.Body.String(), `"expected_state":"available"`)
	})

	t.Run("returns 404 when laptop does not exist", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		mockService.On("RequestRental", mock.Anything).Return(nil, &custom_error.NotFoundError{
			Resource: "laptop",
			ID:       99,
		})

		body, _ := json.Marshal(gin.H{
			"laptop_id":  99,
			"full_name":  "Jan Kowalski",
			"email":      "jan.kowalski@example.com",
			"phone":      "+48 600 100 200",
			"start_date": "2025-01-06",
			"end_date":   "2025-01-10",
		})
		c, recorder := newTestContext(http.MethodPost, "/api/rentals", body)

		handler.CreateRental(c)

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Laptop nie znaleziony")
	})
}

func TestConfirmRentalHandler(t *testing.T) {
	t.Run("returns 200 with confirmed laptop", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		laptop := &models.Laptop{
			ID:     5,
			Serial: "SN5",
			State:  metadata.StateConfirmed,
			Rental: &models.RentalDetails{Email: "jan.kowalski@example.com"},
		}
		mockService.On("ConfirmRental", 5).Return(laptop, nil)

		c, recorder := newTestContext(http.MethodPut, "/api/rentals/5/confirm", nil)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		handler.ConfirmRental(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"confirmed"`)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 400 on non numeric id", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		c, recorder := newTestContext(http.MethodPut, "/api/rentals/abc/confirm", nil)
		c.Params = gin.Params{{Key: "id", Value: "abc"}}

		handler.ConfirmRental(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		mockService.AssertNotCalled(t, "ConfirmRental")
	})

	t.Run("survives a racing reject clearing the details", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		// równoległa operacja zdążyła wyzerować stan między CAS a odczytem
		released := &models.Laptop{ID: 5, Serial: "SN5", State: metadata.StateAvailable}
		mockService.On("ConfirmRental", 5).Return(released, nil)

		c, recorder := newTestContext(http.MethodPut, "/api/rentals/5/confirm", nil)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		assert.NotPanics(t, func() { handler.ConfirmRental(c) })
		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestRejectRentalHandler(t *testing.T) {
	mockService := new(MockWorkflow)
	handler := newTestHandler(mockService)

	laptop := &models.Laptop{ID: 5, Serial: "SN5", State: metadata.StateAvailable}
	mockService.On("RejectRental", 5).Return(laptop, nil)

	c, recorder := newTestContext(http.MethodPut, "/api/rentals/5/reject", nil)
	c.Params = gin.Params{{Key: "id", Value: "5"}}

	handler.RejectRental(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "Wniosek o wypożyczenie odrzucony")
	mockService.AssertExpectations(t)
}

func TestCompleteRentalHandler(t *testing.T) {
	t.Run("returns 200 with history record", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		record := &models.RentalRecord{
			ID:         3,
			LaptopID:   5,
			Serial:     "SN5",
			RentedBy:   "jan.kowalski@example.com",
			RentedAt:   time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC),
			ReturnedAt: time.Date(2025, 1, 10, 9, 30, 0, 0, time.UTC),
		}
		mockService.On("CompleteRental", 5).Return(record, nil)

		c, recorder := newTestContext(http.MethodDelete, "/api/rentals/5", nil)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		handler.CompleteRental(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), "Wypożyczenie zakończone")
		assert.Contains(t, recorder.Body.String(), `"SN5"`)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 409 when laptop is not confirmed", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		mockService.On("CompleteRental", 5).Return(nil, &custom_error.StateConflictError{
			Current:  metadata.StateAvailable,
			Expected: metadata.StateConfirmed,
		})

		c, recorder := newTestContext(http.MethodDelete, "/api/rentals/5", nil)
		c.Params = gin.Params{{Key: "id", Value: "5"}}

		handler.CompleteRental(c)

		assert.Equal(t, http.StatusConflict, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"expected_state":"confirmed"`)
	})
}

func TestListActiveHandler(t *testing.T) {
	t.Run("passes status query through", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		laptops := []models.Laptop{
			{ID: 1, Serial: "SN1", State: metadata.StatePending, Rental: &models.RentalDetails{Email: "a@b.pl"}},
		}
		mockService.On("ListActive", "pending").Return(laptops, nil)

		c, recorder := newTestContext(http.MethodGet, "/api/rentals?status=pending", nil)

		handler.ListActive(c)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"SN1"`)
		mockService.AssertExpectations(t)
	})

	t.Run("returns 400 on unknown status", func(t *testing.T) {
		mockService := new(MockWorkflow)
		handler := newTestHandler(mockService)

		mockService.On("ListActive", "broken").Return(nil, &custom_error.ValidationError{
			Field:   "status",
			Message: "dozwolone wartości: all, pending, confirmed",
		})

		c, recorder := newTestContext(http.MethodGet, "/api/rentals?status=broken", nil)

		handler.ListActive(c)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestListHistoryHandler(t *testing.T) {
	mockService := new(MockWorkflow)
	handler := newTestHandler(mockService)

	records := []models.RentalRecord{
		{ID: 2, Serial: "SN2", RentedBy: "b@c.pl"},
		{ID: 1, Serial: "SN1", RentedBy: "a@b.pl"},
	}
	mockService.On("ListHistory").Return(records, nil)

	c, recorder := newTestContext(http.MethodGet, "/api/rentals/history", nil)

	handler.ListHistory(c)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `"SN2"`)
	mockService.AssertExpectations(t)
}
