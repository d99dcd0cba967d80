package service

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"weather-chat/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

// MockIPLocationProvider is a mock implementation of the IPLocationProvider interface
type MockIPLocationProvider struct {
	mock.Mock
	name string
}

func (m *MockIPLocationProvider) Name() string { return m.name }

func (m *MockIPLocationProvider) Locate(ctx context.Context) (*models.Place, error) {
	args := m.Called(ctx)
	return args.Get(0).(*models.Place), args.Error(1)
}

var (
	busan = &models.Place{Name: "Busan", Country: "South Korea", Lat: 35.1028, Lon: 129.0403, IP: "203.0.113.7", Org: "KT"}
	osaka = &models.Place{Name: "Osaka", Country: "Japan", Lat: 34.6937, Lon: 135.5023, IP: "198.51.100.4", Org: "NTT"}
)

func TestIPLocationService_Locate(t *testing.T) {
	tests := []struct {
		name       string
		primary    *models.Place
		primaryErr error
		secondary  *models.Place
		secondErr  error
		callSecond bool
		expected   models.Place
		expectedOK bool
	}{
		{
			name:       "primary complete",
			primary:    busan,
			expected:   *busan,
			expectedOK: true,
		},
		{
			name:       "primary incomplete falls through",
			primaryErr: assert.AnError,
			secondary:  osaka,
			callSecond: true,
			expected:   *osaka,
			expectedOK: true,
		},
		{
			name:       "both incomplete",
			primaryErr: assert.AnError,
			secondErr:  assert.AnError,
			callSecond: true,
		},
		{
			name:       "primary empty answer",
			primary:    nil,
			secondary:  osaka,
			callSecond: true,
			expected:   *osaka,
			expectedOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			primary := &MockIPLocationProvider{name: "a"}
			secondary := &MockIPLocationProvider{name: "b"}
			primary.On("Locate", mock.Anything).Return(tt.primary, tt.primaryErr).Once()
			if tt.callSecond {
				secondary.On("Locate", mock.Anything).Return(tt.secondary, tt.secondErr).Once()
			}

			service := NewIPLocationService([]IPLocationProvider{primary, secondary}, 6*time.Second, 30*time.Minute)
			place, ok := service.Locate(context.Background())

			assert.Equal(t, tt.expectedOK, ok)
			assert.Equal(t, tt.expected, place)
			primary.AssertExpectations(t)
			secondary.AssertExpectations(t)
			if !tt.callSecond {
				secondary.AssertNotCalled(t, "Locate", mock.Anything)
			}
		})
	}
}

func TestIPLocationService_CachesForTTL(t *testing.T) {
	primary := &MockIPLocationProvider{name: "a"}
	primary.On("Locate", mock.Anything).Return(busan, nil).Twice()

	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	service := NewIPLocationService([]IPLocationProvider{primary}, time.Second, 30*time.Minute)
	service.now = func() time.Time { return now }

	_, ok := service.Locate(context.Background())
	assert.True(t, ok)

	now = now.Add(29 * time.Minute)
	_, ok = service.Locate(context.Background())
	assert.True(t, ok)
	primary.AssertNumberOfCalls(t, "Locate", 1)

	now = now.Add(time.Minute)
	_, ok = service.Locate(context.Background())
	assert.True(t, ok)
	primary.AssertNumberOfCalls(t, "Locate", 2)
}

func TestIPLocationService_CachesAbsence(t *testing.T) {
	primary := &MockIPLocationProvider{name: "a"}
	primary.On("Locate", mock.Anything).Return((*models.Place)(nil), assert.AnError)

	service := NewIPLocationService([]IPLocationProvider{primary}, time.Second, 30*time.Minute)

	_, ok := service.Locate(context.Background())
	assert.False(t, ok)
	_, ok = service.Locate(context.Background())
	assert.False(t, ok)
	primary.AssertNumberOfCalls(t, "Locate", 1)
}

func TestIPLocationService_Invalidate(t *testing.T) {
	primary := &MockIPLocationProvider{name: "a"}
	primary.On("Locate", mock.Anything).Return(busan, nil)

	service := NewIPLocationService([]IPLocationProvider{primary}, time.Second, 30*time.Minute)
	service.Locate(context.Background())
	service.Invalidate()
	service.Locate(context.Background())

	primary.AssertNumberOfCalls(t, "Locate", 2)
}

type blockingProvider struct {
	calls   atomic.Int32
	release chan struct{}
}

func (p *blockingProvider) Name() string { return "blocking" }

func (p *blockingProvider) Locate(ctx context.Context) (*models.Place, error) {
	p.calls.Add(1)
	<-p.release
	return busan, nil
}

func TestIPLocationService_SingleFlight(t *testing.T) {
	provider := &blockingProvider{release: make(chan struct{})}
	service := NewIPLocationService([]IPLocationProvider{provider}, time.Second, 30*time.Minute)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]models.Place, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = service.Locate(context.Background())
		}(i)
	}

	assert.Eventually(t, func() bool { return provider.calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	close(provider.release)
	wg.Wait()

	assert.Equal(t, int32(1), provider.calls.Load())
	for _, place := range results {
		assert.Equal(t, *busan, place)
	}
}

func TestIPLocationService_ProviderTimeout(t *testing.T) {
	slow := &MockIPLocationProvider{name: "slow"}
	slow.On("Locate", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	})).Return((*models.Place)(nil), context.DeadlineExceeded)
	fast := &MockIPLocationProvider{name: "fast"}
	fast.On("Locate", mock.Anything).Return(osaka, nil)

	service := NewIPLocationService([]IPLocationProvider{slow, fast}, 6*time.Second, time.Minute)
	place, ok := service.Locate(context.Background())

	assert.True(t, ok)
	assert.Equal(t, *osaka, place)
}
