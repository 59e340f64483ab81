package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/dropDatabas3/authwire/internal/observability/logger"
)

func TestCheck_AllOK(t *testing.T) {
	s := NewHealthService(map[string]Check{
		"cache": func(context.Context) error { return nil },
		"db":    func(context.Context) error { return nil },
	})
	resp := s.Check(context.Background())
	assert.Equal(t, "ready", resp.Status)
	assert.Equal(t, map[string]string{"cache": "ok", "db": "ok"}, resp.Components)
}

func TestCheck_OneDownHidesCause(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	s := NewHealthService(map[string]Check{
		"cache": func(context.Context) error { return nil },
		"db":    func(context.Context) error { return errors.New("dial tcp db.internal:5432: refused") },
	})
	resp := s.Check(ctx)
	assert.Equal(t, "unavailable", resp.Status)
	assert.Equal(t, map[string]string{"cache": "ok", "db": "error"}, resp.Components)

	entries := logs.FilterMessage("readiness check failed").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "db", fields["component"])
	assert.Contains(t, fields["error"], "db.internal:5432")
}
