// Package session models the browser-side authentication gate as an
// explicit state machine: a route classifier, a render state derived from
// the identity provider's load/sign-in flags, and a redirect decision
// table. Keeping it pure makes the gate testable without the provider SDK.
package session

import (
	"context"

	"github.com/mustaphalimar/prepilot/internal/identity"
)

// Route paths with special meaning to the gate.
const (
	PathLanding   = "/"
	PathAuth      = "/auth"
	PathDashboard = "/dashboard"
)

// publicPaths is the exact-match allow list. Everything else is protected:
// unknown and future paths fail closed.
var publicPaths = map[string]struct{}{
	PathLanding: {},
	PathAuth:    {},
}

// RouteClass separates public from protected paths.
type RouteClass int

const (
	RoutePublic RouteClass = iota
	RouteProtected
)

func (rc RouteClass) String() string {
	if rc == RoutePublic {
		return "public"
	}
	return "protected"
}

// Classify reports whether a path is public or protected. Membership is
// exact-match; there is no prefix or pattern logic.
func Classify(path string) RouteClass {
	if _, ok := publicPaths[path]; ok {
		return RoutePublic
	}
	return RouteProtected
}

// State is the gate's render state.
type State int

const (
	// StateLoading: the provider has not resolved yet. Protected content
	// must not render, even if a stale signed-in flag is available.
	StateLoading State = iota
	StateSignedOut
	StateSignedIn
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateSignedOut:
		return "signed-out"
	default:
		return "signed-in"
	}
}

// Snapshot is one observation of provider flags plus the current path.
// It is recomputed on every change; nothing here persists.
type Snapshot struct {
	Loaded   bool
	SignedIn bool
	Path     string
}

// State derives the render state from the provider flags.
func (s Snapshot) State() State {
	switch {
	case !s.Loaded:
		return StateLoading
	case !s.SignedIn:
		return StateSignedOut
	default:
		return StateSignedIn
	}
}

// Decision is the gate's output for one snapshot: what to render and
// whether to navigate. Navigation always replaces the history entry so the
// back button cannot loop through redirects.
type Decision struct {
	Render     State
	Navigate   string // empty means stay
	ReplaceURL bool
}

// Decide applies the redirect table. It never navigates before the
// provider has loaded.
func Decide(s Snapshot) Decision {
	state := s.State()
	if state == StateLoading {
		return Decision{Render: StateLoading}
	}

	class := Classify(s.Path)

	if state == StateSignedOut && class == RouteProtected {
		return Decision{Render: StateSignedOut, Navigate: PathAuth, ReplaceURL: true}
	}
	if state == StateSignedIn && s.Path == PathAuth {
		return Decision{Render: StateSignedIn, Navigate: PathDashboard, ReplaceURL: true}
	}

	return Decision{Render: state}
}

// Provider is the gate's view of the identity SDK, abstracted so tests can
// substitute a fake.
type Provider interface {
	GetToken(ctx context.Context) (string, error)
	CurrentUser() *identity.User
	IsLoaded() bool
	IsSignedIn() bool
}

// Gate couples a Provider to the decision table.
type Gate struct {
	provider Provider
}

// NewGate wraps a provider.
func NewGate(provider Provider) *Gate {
	return &Gate{provider: provider}
}

// Snapshot observes the provider for the given path.
func (g *Gate) Snapshot(path string) Snapshot {
	return Snapshot{
		Loaded:   g.provider.IsLoaded(),
		SignedIn: g.provider.IsSignedIn(),
		Path:     path,
	}
}

// Decide observes the provider and applies the decision table.
func (g *Gate) Decide(path string) Decision {
	return Decide(g.Snapshot(path))
}
