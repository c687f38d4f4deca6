package alerts

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Glenne01/sneakers-sub000/pkg/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("userID", 7)
	c.Set("role", "manager")
	return c, w
}

func TestResolveAlert(t *testing.T) {
	gin.SetMode(gin.TestMode)

	staffID := 7

	tests := []struct {
		name           string
		alertID        string
		setupMock      func(store *MockAlertStore)
		expectedStatus int
	}{
		{
			name:    "successful resolution",
			alertID: "3",
			setupMock: func(store *MockAlertStore) {
				store.On("ResolveAlert", mock.Anything, 3, &staffID).Return(&models.StockAlert{
					ID:         3,
					AlertType:  models.AlertLowStock,
					Status:     models.AlertStatusResolved,
					ResolvedBy: &staffID,
				}, nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:    "alert not found",
			alertID: "999",
			setupMock: func(store *MockAlertStore) {
				store.On("ResolveAlert", mock.Anything, 999, &staffID).Return(nil, ErrAlertNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:    "already resolved",
			alertID: "3",
			setupMock: func(store *MockAlertStore) {
				store.On("ResolveAlert", mock.Anything, 3, &staffID).Return(nil, ErrAlertAlreadyResolved)
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "invalid alert id",
			alertID:        "abc",
			setupMock:      func(store *MockAlertStore) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:    "repository error",
			alertID: "3",
			setupMock: func(store *MockAlertStore) {
				store.On("ResolveAlert", mock.Anything, 3, &staffID).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := new(MockAlertStore)
			tt.setupMock(store)
			handler := NewAlertHandler(newTestEngine(store))

			c, w := setupTestContext()
			c.Request = httptest.NewRequest("PATCH", "/alerts/"+tt.alertID+"/resolve", nil)
			c.Params = []gin.Param{{Key: "id", Value: tt.alertID}}

			handler.ResolveAlert(c)

			assert.Equal(t, tt.expectedStatus, w.Code)
			store.AssertExpectations(t)
		})
	}

	t.Run("missing staff claim resolves with no actor", func(t *testing.T) {
		store := new(MockAlertStore)
		store.On("ResolveAlert", mock.Anything, 3, (*int)(nil)).Return(&models.StockAlert{
			ID:        3,
			AlertType: models.AlertLowStock,
			Status:    models.AlertStatusResolved,
		}, nil)
		handler := NewAlertHandler(newTestEngine(store))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest("PATCH", "/alerts/3/resolve", nil)
		c.Params = []gin.Param{{Key: "id", Value: "3"}}

		handler.ResolveAlert(c)

		assert.Equal(t, http.StatusOK, w.Code)
		store.AssertExpectations(t)
	})
}

func TestListAlerts(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("filters by status", func(t *testing.T) {
		store := new(MockAlertStore)
		store.On("ListAlerts", mock.Anything, "active").Return([]models.StockAlert{
			{ID: 1, AlertType: models.AlertLowStock, Status: models.AlertStatusActive},
		}, nil)
		handler := NewAlertHandler(newTestEngine(store))

		c, w := setupTestContext()
		c.Request = httptest.NewRequest("GET", "/alerts?status=active", nil)

		handler.ListAlerts(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "low_stock")
		store.AssertExpectations(t)
	})

	t.Run("repository error", func(t *testing.T) {
		store := new(MockAlertStore)
		store.On("ListAlerts", mock.Anything, "").Return(nil, errors.New("db error"))
		handler := NewAlertHandler(newTestEngine(store))

		c, w := setupTestContext()
		c.Request = httptest.NewRequest("GET", "/alerts", nil)

		handler.ListAlerts(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
