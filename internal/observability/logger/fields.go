package logger

import (
	"time"

	"go.uber.org/zap"
)

// Campos de request, los agrega WithLogging.

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }

// DurationMs redondea a milisegundos enteros.
func DurationMs(d time.Duration) zap.Field {
	return zap.Int64("duration_ms", d.Milliseconds())
}

// Provider es el ID canónico (GOOGLE, OIDC, ...).
func Provider(v string) zap.Field { return zap.String("provider", v) }

// Providers recibe el set ya serializado en CSV.
func Providers(v string) zap.Field { return zap.String("providers", v) }

// Outcome de una decisión del gate: rejected, forwarded o unavailable.
func Outcome(v string) zap.Field { return zap.String("outcome", v) }

func Subject(v string) zap.Field { return zap.String("sub", v) }

// Ubicación en el código.

func Component(v string) zap.Field { return zap.String("component", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }

// Genéricos.

func Err(err error) zap.Field         { return zap.Error(err) }
func Any(key string, v any) zap.Field { return zap.Any(key, v) }
func String(key, v string) zap.Field  { return zap.String(key, v) }
func Int(key string, v int) zap.Field { return zap.Int(key, v) }
