package session

import (
	"context"
	"testing"

	"github.com/mustaphalimar/prepilot/internal/identity"
)

func TestClassifyPublicPaths(t *testing.T) {
	for _, path := range []string{"/", "/auth"} {
		if Classify(path) != RoutePublic {
			t.Errorf("Expected %s to be public", path)
		}
	}
}

func TestClassifyFailClosed(t *testing.T) {
	// Unknown and future paths must be protected by default.
	paths := []string{
		"/dashboard",
		"/study-plans",
		"/study-plans/abc123",
		"/flashcards",
		"/practice-tests",
		"/study-timer",
		"/some/future/path",
		"/auth/extra", // not an exact match
		"",
		"/AUTH", // case sensitive
	}
	for _, path := range paths {
		if Classify(path) != RouteProtected {
			t.Errorf("Expected %q to be protected", path)
		}
	}
}

func TestDecideNeverNavigatesWhileLoading(t *testing.T) {
	paths := []string{"/", "/auth", "/dashboard", "/study-plans", "/unknown"}
	for _, signedIn := range []bool{true, false} {
		for _, path := range paths {
			d := Decide(Snapshot{Loaded: false, SignedIn: signedIn, Path: path})
			if d.Navigate != "" {
				t.Errorf("Navigated to %s while loading (signedIn=%v, path=%s)", d.Navigate, signedIn, path)
			}
			if d.Render != StateLoading {
				t.Errorf("Expected loading render while not loaded, got %s", d.Render)
			}
		}
	}
}

func TestDecideSignedOutOnProtectedRedirectsToAuth(t *testing.T) {
	d := Decide(Snapshot{Loaded: true, SignedIn: false, Path: "/study-plans"})
	if d.Navigate != PathAuth {
		t.Errorf("Expected redirect to %s, got %q", PathAuth, d.Navigate)
	}
	if !d.ReplaceURL {
		t.Error("Redirect must replace the history entry, not push")
	}
}

func TestDecideSignedOutOnPublicStays(t *testing.T) {
	for _, path := range []string{"/", "/auth"} {
		d := Decide(Snapshot{Loaded: true, SignedIn: false, Path: path})
		if d.Navigate != "" {
			t.Errorf("Expected no navigation on public path %s, got %q", path, d.Navigate)
		}
		if d.Render != StateSignedOut {
			t.Errorf("Expected signed-out render, got %s", d.Render)
		}
	}
}

func TestDecideSignedInOnAuthRedirectsToApp(t *testing.T) {
	d := Decide(Snapshot{Loaded: true, SignedIn: true, Path: "/auth"})
	if d.Navigate != PathDashboard {
		t.Errorf("Expected redirect to %s, got %q", PathDashboard, d.Navigate)
	}
	if !d.ReplaceURL {
		t.Error("Redirect must replace the history entry")
	}
}

func TestDecideSignedInOnProtectedStays(t *testing.T) {
	d := Decide(Snapshot{Loaded: true, SignedIn: true, Path: "/study-plans"})
	if d.Navigate != "" {
		t.Errorf("Expected no navigation, got %q", d.Navigate)
	}
	if d.Render != StateSignedIn {
		t.Errorf("Expected signed-in render, got %s", d.Render)
	}
}

type fakeProvider struct {
	loaded   bool
	signedIn bool
	token    string
	user     *identity.User
}

func (f *fakeProvider) GetToken(context.Context) (string, error) { return f.token, nil }
func (f *fakeProvider) CurrentUser() *identity.User              { return f.user }
func (f *fakeProvider) IsLoaded() bool                           { return f.loaded }
func (f *fakeProvider) IsSignedIn() bool                         { return f.signedIn }

func TestGateObservesProvider(t *testing.T) {
	provider := &fakeProvider{loaded: false, signedIn: true}
	gate := NewGate(provider)

	if d := gate.Decide("/study-plans"); d.Navigate != "" {
		t.Errorf("Gate navigated before provider loaded: %q", d.Navigate)
	}

	provider.loaded = true
	provider.signedIn = false
	if d := gate.Decide("/study-plans"); d.Navigate != PathAuth {
		t.Errorf("Expected redirect to auth after load, got %q", d.Navigate)
	}
}
