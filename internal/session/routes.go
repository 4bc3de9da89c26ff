package session

// Capability is the access level a route requires.
type Capability string

const (
	CapabilityPublic        Capability = "public"
	CapabilityAuthenticated Capability = "authenticated"
	CapabilityAdmin         Capability = "admin"
)

// Rule binds one registered route pattern to its required capability.
type Rule struct {
	Method     string
	Path       string
	Capability Capability
}

// RouteTable is the single declarative map from route to required
// capability, consulted by the admission middleware on every request so a
// role change takes effect on the next navigation.
type RouteTable struct {
	rules map[string]Capability
}

// NewRouteTable builds a table from rules. Routes not listed are public.
func NewRouteTable(rules []Rule) *RouteTable {
	t := &RouteTable{rules: make(map[string]Capability, len(rules))}
	for _, r := range rules {
		t.rules[r.Method+" "+r.Path] = r.Capability
	}
	return t
}

// Capability looks up the requirement for a method and registered path
// pattern.
func (t *RouteTable) Capability(method, path string) Capability {
	if cap, ok := t.rules[method+" "+path]; ok {
		return cap
	}
	return CapabilityPublic
}

// Admit decides whether the gate may enter a route with the given
// capability. Admission requires an authenticated user, and the ADMIN role
// for admin-scoped routes. The decision is never cached.
func Admit(g *Gate, cap Capability) bool {
	switch cap {
	case CapabilityPublic:
		return true
	case CapabilityAuthenticated:
		return g != nil && g.Authenticated()
	case CapabilityAdmin:
		if g == nil || !g.Authenticated() {
			return false
		}
		return g.User().IsAdmin()
	default:
		return false
	}
}
