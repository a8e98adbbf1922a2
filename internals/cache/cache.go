// Package cache is the process-wide read-through memory cache behind the
// cached service wrappers. Concurrent misses on one key may both load.
package cache

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/rs/zerolog"
)

type Store struct {
	c   *ttlcache.Cache[string, any]
	ttl time.Duration
	log zerolog.Logger
}

// New builds a store bounded to capacity entries (0 = unbounded).
func New(capacity uint64, defaultTTL time.Duration, logger zerolog.Logger) *Store {
	opts := []ttlcache.Option[string, any]{
		ttlcache.WithTTL[string, any](defaultTTL),
		ttlcache.WithDisableTouchOnHit[string, any](),
	}
	if capacity > 0 {
		opts = append(opts, ttlcache.WithCapacity[string, any](capacity))
	}
	return &Store{
		c:   ttlcache.New[string, any](opts...),
		ttl: defaultTTL,
		log: logger.With().Str("component", "cache").Logger(),
	}
}

// Start runs the expiry loop until Stop.
func (s *Store) Start() {
	go s.c.Start()
}

func (s *Store) Stop() {
	s.c.Stop()
}

func (s *Store) DefaultTTL() time.Duration {
	return s.ttl
}

func (s *Store) Get(key string) (any, bool) {
	item := s.c.Get(key)
	if item == nil {
		return nil, false
	}
	return item.Value(), true
}

// Set stores v; ttl <= 0 uses the default TTL.
func (s *Store) Set(key string, v any, ttl time.Duration) {
	if ttl <= 0 {
		ttl = ttlcache.DefaultTTL
	}
	s.c.Set(key, v, ttl)
}

func (s *Store) Remove(key string) {
	s.c.Delete(key)
}

// RemovePrefix drops every key starting with prefix and returns how many.
func (s *Store) RemovePrefix(prefix string) int {
	n := 0
	for _, k := range s.c.Keys() {
		if strings.HasPrefix(k, prefix) {
			s.c.Delete(k)
			n++
		}
	}
	if n > 0 {
		s.log.Debug().Str("prefix", prefix).Int("removed", n).Msg("cache invalidated")
	}
	return n
}

func (s *Store) Len() int {
	return s.c.Len()
}

// GetOrLoad returns the cached T under key or calls load and caches its
// result. Errors are not cached.
func GetOrLoad[T any](ctx context.Context, s *Store, key string, ttl time.Duration, load func(context.Context) (T, error)) (T, error) {
	if v, ok := s.Get(key); ok {
		if typed, ok := v.(T); ok {
			return typed, nil
		}
		s.Remove(key)
	}
	v, err := load(ctx)
	if err != nil {
		return v, err
	}
	s.Set(key, v, ttl)
	return v, nil
}

// Key formats "<Service>.<Method>:<arg>:<arg>".
func Key(service, method string, args ...any) string {
	var b strings.Builder
	b.WriteString(service)
	b.WriteByte('.')
	b.WriteString(method)
	for _, a := range args {
		b.WriteByte(':')
		b.WriteString(fmt.Sprint(a))
	}
	return b.String()
}

// Prefix is the invalidation prefix for every cached method of service.
func Prefix(service string) string {
	return service + "."
}
