// Package infraconfig reads the administrator-controlled runtime settings
// persisted outside the process (the infra_config table).
//
// The core never writes these settings. A bootstrap/admin flow populates
// the table at some point during the process lifetime; readers observe the
// change lazily (Store on registration, Source on every request).
package infraconfig

import (
	"context"
	"errors"

	"github.com/dropDatabas3/authwire/internal/provider"
)

// Names of the rows the core understands.
const (
	KeyAllowedAuthProviders = "ALLOWED_AUTH_PROVIDERS"
)

// RequiredKeys must all be present for the table to count as populated.
var RequiredKeys = []string{KeyAllowedAuthProviders}

// ErrLoad wraps every failure reading or decoding infra configuration.
var ErrLoad = errors.New("infraconfig: load failed")

// InfraConfig is the decoded content of the infra configuration store.
type InfraConfig struct {
	AllowedAuthProviders provider.Set
	// Values keeps every raw row, including the ones decoded above.
	Values map[string]string
}

// Store is the configuration store contract consumed during registration.
type Store interface {
	// IsPopulated reports whether every required row exists.
	IsPopulated(ctx context.Context) (bool, error)
	// Load reads and decodes the configuration. Errors wrap ErrLoad.
	Load(ctx context.Context) (*InfraConfig, error)
}

// Decode builds an InfraConfig from raw rows.
func Decode(values map[string]string) (*InfraConfig, error) {
	raw, ok := values[KeyAllowedAuthProviders]
	if !ok {
		return nil, errors.Join(ErrLoad, errors.New("infraconfig: missing "+KeyAllowedAuthProviders))
	}
	allowed, err := provider.ParseSet(raw)
	if err != nil {
		return nil, errors.Join(ErrLoad, err)
	}
	cp := make(map[string]string, len(values))
	for k, v := range values {
		cp[k] = v
	}
	return &InfraConfig{AllowedAuthProviders: allowed, Values: cp}, nil
}

func populated(values map[string]string) bool {
	for _, k := range RequiredKeys {
		if _, ok := values[k]; !ok {
			return false
		}
	}
	return true
}
