package provider

// Policy decides whether a provider is currently permitted.
//
// The static set is what the process was started with. A dynamic allow-list
// (infra configuration) can only narrow it: a provider missing from the
// static set is never allowed, whatever the allow-list says.
type Policy struct {
	static Set
}

// NewPolicy creates a policy bounded by the statically enabled providers.
func NewPolicy(static Set) Policy {
	return Policy{static: static}
}

// Static returns the statically enabled providers.
func (p Policy) Static() Set { return p.static }

// Allowed reports whether id may be used. A nil allowList means the infra
// configuration is not populated yet and static enablement applies.
func (p Policy) Allowed(id ID, allowList *Set) bool {
	if !p.static.Has(id) {
		return false
	}
	if allowList == nil {
		return true
	}
	return allowList.Has(id)
}

// Filter returns the subset of ids allowed under allowList, keeping order.
func (p Policy) Filter(ids []ID, allowList *Set) []ID {
	out := make([]ID, 0, len(ids))
	for _, id := range ids {
		if p.Allowed(id, allowList) {
			out = append(out, id)
		}
	}
	return out
}
