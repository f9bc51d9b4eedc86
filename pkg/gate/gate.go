// Package gate decides which part of the UI may be shown for the
// current session state and turns session events into navigation.
package gate

import (
	"context"

	"github.com/booknook-app/booknook/pkg/session"
)

type Route string

const (
	RouteLoading Route = "loading"
	RouteLanding Route = "landing"
	RouteSignIn  Route = "sign-in"
	RouteHome    Route = "home"
)

// Resolve maps session state to a route. While loading it always
// answers RouteLoading, even when a stale session value is already in
// memory, so authenticated UI never flashes before the initial read
// settles.
func Resolve(isLoading bool, hasSession bool) Route {
	if isLoading {
		return RouteLoading
	}
	if !hasSession {
		return RouteLanding
	}
	return RouteHome
}

// Navigator performs the actual route changes. Replace swaps the
// current screen, Push stacks a new one.
type Navigator interface {
	Replace(Route)
	Push(Route)
}

// Listener subscribes to session manager events and drives a
// Navigator, keeping redirect side effects out of the data layer.
type Listener struct {
	manager *session.Manager
	nav     Navigator
}

func NewListener(m *session.Manager, nav Navigator) *Listener {
	return &Listener{
		manager: m,
		nav:     nav,
	}
}

func (l *Listener) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-l.manager.Events():
			if !ok {
				return
			}
			switch ev {
			case session.EventSignedIn:
				l.nav.Replace(RouteHome)
			case session.EventSignedOut:
				l.nav.Push(RouteSignIn)
			}
		}
	}
}
