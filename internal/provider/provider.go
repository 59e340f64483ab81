// Package provider defines the closed set of identity providers and the
// enablement policy that decides which of them may serve a request.
//
// Architecture:
//   - ID: compile-time enum (LOCAL, GOOGLE, GITHUB, MICROSOFT, OIDC)
//   - Set: immutable set of IDs, parsed from CSV configuration values
//   - Policy: pure function over the static set plus an optional dynamic allow-list
package provider

import (
	"fmt"
	"strings"
)

// ID identifies an authentication provider.
type ID string

const (
	Local     ID = "LOCAL"
	Google    ID = "GOOGLE"
	GitHub    ID = "GITHUB"
	Microsoft ID = "MICROSOFT"
	OIDC      ID = "OIDC"
)

// all keeps declaration order; Set.IDs and Set.String rely on it.
var all = []ID{Local, Google, GitHub, Microsoft, OIDC}

// All returns every known provider in declaration order.
func All() []ID {
	out := make([]ID, len(all))
	copy(out, all)
	return out
}

// Social returns the providers whose integrations are registered conditionally.
func Social() []ID {
	return []ID{Google, GitHub, Microsoft}
}

// ErrUnknown is returned by Parse for names outside the closed set.
type ErrUnknown struct {
	Name string
}

func (e *ErrUnknown) Error() string {
	return fmt.Sprintf("provider: unknown auth provider %q", e.Name)
}

// Parse converts a configuration token into an ID. Case-insensitive.
func Parse(s string) (ID, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for _, id := range all {
		if string(id) == name {
			return id, nil
		}
	}
	return "", &ErrUnknown{Name: s}
}

// Lower returns the route form of the provider ("google", "oidc", ...).
func (id ID) Lower() string { return strings.ToLower(string(id)) }

func (id ID) String() string { return string(id) }

// Valid reports whether id belongs to the closed set.
func (id ID) Valid() bool {
	_, err := Parse(string(id))
	return err == nil
}
