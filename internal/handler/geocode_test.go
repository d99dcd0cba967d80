package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"weather-chat/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockGeoCodeService is a mock implementation of the GeoCodeService interface
type MockGeoCodeService struct {
	mock.Mock
}

func (m *MockGeoCodeService) Geocode(ctx context.Context, name string) (models.Place, bool) {
	args := m.Called(ctx, name)
	return args.Get(0).(models.Place), args.Bool(1)
}

func TestGeoCodeHandler_GeoCode(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		query          string
		mockPlace      models.Place
		mockOK         bool
		expectedStatus int
		expectedBody   interface{}
	}{
		{
			name:           "missing query parameter",
			query:          "",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "missing required query parameter 'q'"},
		},
		{
			name:           "blank query parameter",
			query:          "  ",
			expectedStatus: http.StatusBadRequest,
			expectedBody:   map[string]interface{}{"error": "missing required query parameter 'q'"},
		},
		{
			name:           "successful lookup",
			query:          "東京",
			mockPlace:      models.Place{Name: "東京", Country: "日本", Lat: 35.6895, Lon: 139.69171},
			mockOK:         true,
			expectedStatus: http.StatusOK,
			expectedBody: map[string]interface{}{
				"name":      "東京",
				"country":   "日本",
				"latitude":  35.6895,
				"longitude": 139.69171,
			},
		},
		{
			name:           "no match",
			query:          "nonexistent place",
			mockOK:         false,
			expectedStatus: http.StatusNotFound,
			expectedBody:   map[string]interface{}{"error": "no place found for the given name"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockSvc := new(MockGeoCodeService)
			handler := NewGeoCodeHandler(mockSvc)

			lookup := strings.TrimSpace(tt.query) != ""
			if lookup {
				mockSvc.On("Geocode", mock.Anything, tt.query).Return(tt.mockPlace, tt.mockOK)
			}

			// Create request
			req := httptest.NewRequest(http.MethodGet, "/geocode", nil)
			if tt.query != "" {
				q := req.URL.Query()
				q.Add("q", tt.query)
				req.URL.RawQuery = q.Encode()
			}
			w := httptest.NewRecorder()

			// Create Gin context
			c, _ := gin.CreateTestContext(w)
			c.Request = req

			// Execute
			handler.GeoCode(c)

			// Assert
			assert.Equal(t, tt.expectedStatus, w.Code)

			var actualBody interface{}
			err := json.Unmarshal(w.Body.Bytes(), &actualBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, actualBody)

			if lookup {
				mockSvc.AssertExpectations(t)
			} else {
				mockSvc.AssertNotCalled(t, "Geocode", mock.Anything, mock.Anything)
			}
		})
	}
}
