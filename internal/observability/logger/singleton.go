package logger

import (
	"sync/atomic"

	"go.uber.org/zap"
)

var global atomic.Pointer[zap.Logger]

// Init construye el logger del proceso y lo instala como global.
func Init(cfg Config) (*zap.Logger, error) {
	l, err := build(cfg)
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set instala l como global; nil vuelve al default.
func Set(l *zap.Logger) {
	global.Store(l)
}

// L devuelve el logger global. Sin Init usa consola en info.
func L() *zap.Logger {
	if l := global.Load(); l != nil {
		return l
	}
	l, err := build(Config{})
	if err != nil {
		l = zap.NewNop()
	}
	if global.CompareAndSwap(nil, l) {
		return l
	}
	return global.Load()
}

// Sync vacía los buffers del global.
func Sync() error {
	if l := global.Load(); l != nil {
		return l.Sync()
	}
	return nil
}
