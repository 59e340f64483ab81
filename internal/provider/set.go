package provider

import (
	"strings"
)

// Set is an immutable set of providers. The zero value is the empty set.
type Set struct {
	m map[ID]struct{}
}

// NewSet builds a Set from ids. Invalid ids are ignored.
func NewSet(ids ...ID) Set {
	m := make(map[ID]struct{}, len(ids))
	for _, id := range ids {
		if id.Valid() {
			m[id] = struct{}{}
		}
	}
	return Set{m: m}
}

// ParseSet parses a comma separated list such as "google, GITHUB,oidc".
// Blank entries are skipped; an unknown name fails the whole list.
func ParseSet(csv string) (Set, error) {
	var ids []ID
	for _, tok := range strings.Split(csv, ",") {
		if strings.TrimSpace(tok) == "" {
			continue
		}
		id, err := Parse(tok)
		if err != nil {
			return Set{}, err
		}
		ids = append(ids, id)
	}
	return NewSet(ids...), nil
}

// ParseKnown keeps the names it recognizes and returns the rest, trimmed,
// in input order. Used for the static list, where foreign names
// (EMAIL, SAML, ...) are expected.
func ParseKnown(values []string) (Set, []string) {
	var (
		ids     []ID
		unknown []string
	)
	for _, v := range values {
		for _, tok := range strings.Split(v, ",") {
			tok = strings.TrimSpace(tok)
			if tok == "" {
				continue
			}
			id, err := Parse(tok)
			if err != nil {
				unknown = append(unknown, tok)
				continue
			}
			ids = append(ids, id)
		}
	}
	return NewSet(ids...), unknown
}

// Has reports membership.
func (s Set) Has(id ID) bool {
	_, ok := s.m[id]
	return ok
}

// Len returns the number of providers in the set.
func (s Set) Len() int { return len(s.m) }

// IDs returns the members in declaration order.
func (s Set) IDs() []ID {
	out := make([]ID, 0, len(s.m))
	for _, id := range all {
		if s.Has(id) {
			out = append(out, id)
		}
	}
	return out
}

// Intersect returns the providers present in both sets.
func (s Set) Intersect(o Set) Set {
	var ids []ID
	for _, id := range s.IDs() {
		if o.Has(id) {
			ids = append(ids, id)
		}
	}
	return NewSet(ids...)
}

// String renders the set as CSV, the same format ParseSet accepts.
func (s Set) String() string {
	ids := s.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ",")
}
