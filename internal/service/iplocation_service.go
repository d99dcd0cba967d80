package service

import (
	"context"
	"sync"
	"time"

	"weather-chat/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// IPLocationProvider is one strategy for inferring a place from the caller's
// network address. Any error, including an incomplete answer, makes the
// resolver move on to the next provider.
type IPLocationProvider interface {
	Name() string
	Locate(ctx context.Context) (*models.Place, error)
}

type cachedPlace struct {
	place     models.Place
	ok        bool
	expiresAt time.Time
}

// IPLocationService tries its providers in order and memoizes the outcome,
// including absence, for ttl. Concurrent misses share one upstream round.
type IPLocationService struct {
	providers []IPLocationProvider
	timeout   time.Duration
	ttl       time.Duration
	now       func() time.Time

	mu     sync.RWMutex
	cached *cachedPlace
	group  singleflight.Group
}

const ipLocationKey = "self"

// NewIPLocationService creates the resolver. timeout applies to each provider.
func NewIPLocationService(providers []IPLocationProvider, timeout, ttl time.Duration) *IPLocationService {
	return &IPLocationService{
		providers: providers,
		timeout:   timeout,
		ttl:       ttl,
		now:       time.Now,
	}
}

// Locate returns the caller's approximate place, or ok=false when no provider
// produced a complete answer.
func (s *IPLocationService) Locate(ctx context.Context) (models.Place, bool) {
	if entry, hit := s.lookup(); hit {
		return entry.place, entry.ok
	}

	// the shared round must not die with the first caller's request
	v, _, _ := s.group.Do(ipLocationKey, func() (interface{}, error) {
		if entry, hit := s.lookup(); hit {
			return entry, nil
		}
		place, ok := s.resolve(context.WithoutCancel(ctx))
		entry := &cachedPlace{place: place, ok: ok, expiresAt: s.now().Add(s.ttl)}
		s.mu.Lock()
		s.cached = entry
		s.mu.Unlock()
		return entry, nil
	})

	entry := v.(*cachedPlace)
	return entry.place, entry.ok
}

// Invalidate drops the memoized result so the next Locate asks upstream again.
func (s *IPLocationService) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}

func (s *IPLocationService) lookup() (*cachedPlace, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.cached == nil || !s.now().Before(s.cached.expiresAt) {
		return nil, false
	}
	return s.cached, true
}

func (s *IPLocationService) resolve(ctx context.Context) (models.Place, bool) {
	for _, p := range s.providers {
		if place, ok := s.attempt(ctx, p); ok {
			return place, true
		}
	}
	return models.Place{}, false
}

func (s *IPLocationService) attempt(ctx context.Context, p IPLocationProvider) (models.Place, bool) {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	place, err := p.Locate(ctx)
	if err != nil {
		log.Debug().Err(err).Str("provider", p.Name()).Msg("ip location lookup failed")
		return models.Place{}, false
	}
	if place == nil {
		return models.Place{}, false
	}
	log.Debug().Str("provider", p.Name()).Str("place", place.Label()).Msg("ip location resolved")
	return *place, true
}
