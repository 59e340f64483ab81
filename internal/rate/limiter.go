// Package rate implementa un rate limiter de ventana fija sobre cache.Client
// (go-cache en memoria o Redis).
package rate

import (
	"context"
	"strings"
	"time"

	"github.com/dropDatabas3/authwire/internal/cache"
)

type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration
	CurrentHits int64
}

type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// FixedWindow: un contador por key y ventana.
type FixedWindow struct {
	counter cache.Client
	prefix  string
	max     int64
	window  time.Duration
}

func NewFixedWindow(counter cache.Client, prefix string, max int, window time.Duration) *FixedWindow {
	if prefix == "" {
		prefix = "rl:"
	}
	return &FixedWindow{
		counter: counter,
		prefix:  prefix,
		max:     int64(max),
		window:  window,
	}
}

func (l *FixedWindow) Allow(ctx context.Context, key string) (Result, error) {
	hits, ttl, err := l.counter.Incr(ctx, l.prefix+strings.ReplaceAll(key, " ", "_"), l.window)
	if err != nil {
		return Result{}, err
	}

	res := Result{
		Allowed:     hits <= l.max,
		Remaining:   max(l.max-hits, 0),
		CurrentHits: hits,
	}
	if !res.Allowed {
		res.RetryAfter = ttl
		if res.RetryAfter <= 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}
