// Package session keeps the per-client location state and transcript.
package session

import (
	"context"
	"errors"
	"time"

	"weather-chat/internal/models"
	"weather-chat/internal/service"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

// ErrNotFound is returned for unknown or expired session ids.
var ErrNotFound = errors.New("session: not found")

// Session is one interactive client: its active place and its transcript.
type Session struct {
	ID       string
	Location *service.LocationState
	Chat     *service.ChatSession
}

// Store creates sessions and evicts them after ttl of inactivity or when
// more than size are open.
type Store struct {
	sessions *expirable.LRU[string, *Session]
	locator  service.IPLocator
	geocoder service.PlaceGeocoder
	fallback models.Place
}

func NewStore(locator service.IPLocator, geocoder service.PlaceGeocoder, fallback models.Place, size int, ttl time.Duration) *Store {
	onEvict := func(id string, _ *Session) {
		log.Debug().Str("session", id).Msg("session evicted")
	}
	return &Store{
		sessions: expirable.NewLRU[string, *Session](size, onEvict, ttl),
		locator:  locator,
		geocoder: geocoder,
		fallback: fallback,
	}
}

// Create starts a session with an empty transcript and a place resolved from
// the caller's address, or the fallback place.
func (s *Store) Create(ctx context.Context) *Session {
	sess := &Session{
		ID:       uuid.NewString(),
		Location: service.NewLocationState(ctx, s.locator, s.geocoder, s.fallback),
		Chat:     service.NewChatSession(),
	}
	s.sessions.Add(sess.ID, sess)
	log.Info().Str("session", sess.ID).Str("place", sess.Location.Current().Label()).Msg("session created")
	return sess
}

// Get returns the session and refreshes its expiry.
func (s *Store) Get(id string) (*Session, error) {
	sess, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	// re-adding resets the ttl
	s.sessions.Add(id, sess)
	return sess, nil
}

func (s *Store) Len() int {
	return s.sessions.Len()
}
