package infraconfig

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/dropDatabas3/authwire/internal/cache"
	"github.com/dropDatabas3/authwire/internal/metrics"
	"github.com/dropDatabas3/authwire/internal/observability/logger"
	"github.com/dropDatabas3/authwire/internal/provider"
)

// Source is the hot-path view of the allow-list.
type Source interface {
	// AllowList returns nil while the store is unpopulated.
	AllowList(ctx context.Context) (*provider.Set, error)
}

const (
	allowListKey = "infra_config:allowed_auth_providers"
	// unpopulatedMarker never collides with Set.String(), which only emits provider names.
	unpopulatedMarker = "-"
)

// CachedSource reads the allow-list through a freshness window so the
// request path never blocks on the store longer than once per TTL.
type CachedSource struct {
	store Store
	cache cache.Client
	ttl   time.Duration
	group singleflight.Group
}

// NewCachedSource builds a Source over store. ttl bounds how long an
// administrative change can take to be observed.
func NewCachedSource(store Store, c cache.Client, ttl time.Duration) *CachedSource {
	if c == nil {
		c = cache.NewMemory("")
	}
	return &CachedSource{store: store, cache: c, ttl: ttl}
}

func (s *CachedSource) AllowList(ctx context.Context) (*provider.Set, error) {
	log := logger.From(ctx).With(logger.Layer("infraconfig"), logger.Op("CachedSource.AllowList"))

	raw, err := s.cache.Get(ctx, allowListKey)
	switch {
	case err == nil:
		metrics.ObserveInfraConfigRead("hit")
		return decodeAllowList(raw)
	case !cache.IsNotFound(err):
		// Cache caído: seguimos contra el store.
		log.Warn("cache read failed", logger.Err(err))
	}

	v, err, _ := s.group.Do(allowListKey, func() (any, error) {
		return s.refresh(context.WithoutCancel(ctx))
	})
	if err != nil {
		metrics.ObserveInfraConfigRead("error")
		return nil, err
	}
	metrics.ObserveInfraConfigRead("miss")
	return decodeAllowList(v.(string))
}

// Invalidate forces the next AllowList call to hit the store.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, allowListKey)
}

func (s *CachedSource) refresh(ctx context.Context) (string, error) {
	ok, err := s.store.IsPopulated(ctx)
	if err != nil {
		return "", wrapLoad(err)
	}
	raw := unpopulatedMarker
	if ok {
		ic, err := s.store.Load(ctx)
		if err != nil {
			return "", err
		}
		raw = ic.AllowedAuthProviders.String()
	}
	if err := s.cache.Set(ctx, allowListKey, raw, s.ttl); err != nil {
		logger.From(ctx).Warn("cache write failed", logger.Layer("infraconfig"), logger.Err(err))
	}
	return raw, nil
}

func decodeAllowList(raw string) (*provider.Set, error) {
	if raw == unpopulatedMarker {
		return nil, nil
	}
	set, err := provider.ParseSet(raw)
	if err != nil {
		return nil, wrapLoad(err)
	}
	return &set, nil
}

// StaticSource always returns the same allow-list. Used by the CLI and tests.
type StaticSource struct {
	List *provider.Set
	Err  error
}

func (s StaticSource) AllowList(context.Context) (*provider.Set, error) {
	return s.List, s.Err
}
