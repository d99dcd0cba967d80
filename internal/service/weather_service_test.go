package service

import (
	"context"
	"testing"
	"time"

	"weather-chat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockForecastRepository is a mock implementation of the ForecastRepository interface
type MockForecastRepository struct {
	mock.Mock
}

func (m *MockForecastRepository) Current(ctx context.Context, lat, lon float64) (*models.WeatherSnapshot, error) {
	args := m.Called(ctx, lat, lon)
	return args.Get(0).(*models.WeatherSnapshot), args.Error(1)
}

func TestWeatherService_Current(t *testing.T) {
	temp := 21.5
	snapshot := &models.WeatherSnapshot{Code: ptr(0), IsDay: ptr(1), TemperatureC: &temp}

	tests := []struct {
		name         string
		lat, lon     float64
		callRepo     bool
		mockSnapshot *models.WeatherSnapshot
		mockError    error
		expected     models.WeatherSnapshot
		expectedOK   bool
	}{
		{
			name:         "success",
			lat:          37.5665,
			lon:          126.978,
			callRepo:     true,
			mockSnapshot: snapshot,
			expected:     *snapshot,
			expectedOK:   true,
		},
		{
			name:      "upstream failure",
			lat:       37.5665,
			lon:       126.978,
			callRepo:  true,
			mockError: assert.AnError,
		},
		{
			name: "invalid latitude",
			lat:  -91,
			lon:  0,
		},
		{
			name: "invalid longitude",
			lat:  0,
			lon:  180.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockForecastRepository)
			service := NewWeatherService(mockRepo, 7*time.Second)

			if tt.callRepo {
				mockRepo.On("Current", mock.Anything, tt.lat, tt.lon).Return(tt.mockSnapshot, tt.mockError)
			}

			result, ok := service.Current(context.Background(), tt.lat, tt.lon)

			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expected, result)
			mockRepo.AssertExpectations(t)
			if !tt.callRepo {
				mockRepo.AssertNotCalled(t, "Current", mock.Anything, mock.Anything, mock.Anything)
			}
		})
	}
}
