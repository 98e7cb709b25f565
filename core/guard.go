package core

import "strings"

// GuardState is the route authorization decision for one navigation.
type GuardState int

const (
	GuardLoading GuardState = iota
	GuardUnauthenticated
	GuardDenied
	GuardAllowed
)

func (s GuardState) String() string {
	switch s {
	case GuardLoading:
		return "loading"
	case GuardUnauthenticated:
		return "unauthenticated"
	case GuardDenied:
		return "denied"
	case GuardAllowed:
		return "allowed"
	}
	return "unknown"
}

// Policy is the static per-role path allow-list.
//
// Admin gets blanket access to every dashboard prefix by default.
// AdminAreaOnly restores the narrow variant where admin may only enter
// its own area.
type Policy struct {
	SignInPath      string
	RootPath        string
	DashboardPrefix string
	AdminAreaOnly   bool
}

func DefaultPolicy() Policy {
	return Policy{
		SignInPath:      "/signin",
		RootPath:        "/",
		DashboardPrefix: "/dashboard",
	}
}

// PrefixesFor returns the path prefixes the role may enter.
func (p Policy) PrefixesFor(role Role) []string {
	switch role {
	case RoleDonor:
		return []string{p.DashboardPrefix + "/donor"}
	case RoleONG:
		return []string{p.DashboardPrefix + "/ong"}
	case RoleAdmin:
		if p.AdminAreaOnly {
			return []string{p.DashboardPrefix + "/admin"}
		}
		return []string{p.DashboardPrefix}
	}
	return nil
}

// Decision is the outcome of one guard evaluation. RedirectTo is empty
// unless the state calls for a redirect.
type Decision struct {
	State      GuardState
	RedirectTo string
}

// Guard gates role-protected paths. It keeps no history: every
// navigation recomputes the decision from the store's current state, so
// rapid auth changes simply re-evaluate on the next render.
type Guard struct {
	store  *SessionStore
	policy Policy
}

func NewGuard(store *SessionStore, policy Policy) *Guard {
	if policy.SignInPath == "" {
		policy = DefaultPolicy()
	}
	return &Guard{store: store, policy: policy}
}

func (g *Guard) Policy() Policy {
	return g.policy
}

// Evaluate decides whether the current session may see path.
func (g *Guard) Evaluate(path string) Decision {
	if g.store.Loading() {
		return Decision{State: GuardLoading}
	}

	if !g.store.IsAuthenticated() {
		return Decision{State: GuardUnauthenticated, RedirectTo: g.policy.SignInPath}
	}

	role, ok := g.store.Role()
	if !ok {
		return Decision{State: GuardUnauthenticated, RedirectTo: g.policy.SignInPath}
	}

	for _, prefix := range g.policy.PrefixesFor(role) {
		if strings.HasPrefix(path, prefix) {
			return Decision{State: GuardAllowed}
		}
	}

	// Authenticated but outside the role's area: back to the root entry
	// point, which re-dispatches by role.
	return Decision{State: GuardDenied, RedirectTo: g.policy.RootPath}
}
