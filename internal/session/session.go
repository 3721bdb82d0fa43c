// Package session holds the state of the signed in user for the lifetime of
// one login.
package session

import (
	"sync"
	"time"

	"github.com/proptic/proptic/internal/api"
	"github.com/proptic/proptic/internal/auth"
	"github.com/proptic/proptic/internal/csync"
)

// Session is the signed in user. The zero state is signed out. It satisfies
// [api.TokenSource] so the API client reads the current token on every
// request.
type Session struct {
	token   *csync.Value[string]
	expiry  *csync.Value[time.Time]
	profile *csync.Value[api.Profile]
	role    *csync.Value[string]

	mu        sync.Mutex
	observers []func()
}

var _ api.TokenSource = (*Session)(nil)

func New() *Session {
	return &Session{
		token:   csync.NewValue(""),
		expiry:  csync.NewValue(time.Time{}),
		profile: csync.NewValue(api.Profile{}),
		role:    csync.NewValue(""),
	}
}

// Token implements [api.TokenSource].
func (s *Session) Token() string { return s.token.Get() }

// SignIn stores the token and its expiry.
func (s *Session) SignIn(token string) {
	s.token.Set(token)
	exp, ok, err := auth.Expiry(token)
	if err != nil || !ok {
		exp = time.Time{}
	}
	s.expiry.Set(exp)
	s.notify()
}

// SignedIn reports whether a token is held.
func (s *Session) SignedIn() bool { return s.Token() != "" }

// Expiry returns the token expiry; zero when unknown.
func (s *Session) Expiry() time.Time { return s.expiry.Get() }

// Expired reports whether the held token expired at now.
func (s *Session) Expired(now time.Time) bool {
	exp := s.Expiry()
	return !exp.IsZero() && !now.Before(exp)
}

func (s *Session) Profile() api.Profile { return s.profile.Get() }

func (s *Session) SetProfile(p api.Profile) {
	s.profile.Set(p)
	s.notify()
}

// Role returns the selected role name.
func (s *Session) Role() string { return s.role.Get() }

func (s *Session) SetRole(role string) {
	s.role.Set(role)
	s.notify()
}

// Roles returns the roles of the profile.
func (s *Session) Roles() []api.Role { return s.Profile().User.Roles }

// RoleLabel returns the display name of the selected role.
func (s *Session) RoleLabel() string {
	role := s.Role()
	for _, r := range s.Roles() {
		if r.Name == role {
			return r.Label()
		}
	}
	return role
}

// Clear signs out.
func (s *Session) Clear() {
	s.token.Set("")
	s.expiry.Set(time.Time{})
	s.profile.Set(api.Profile{})
	s.role.Set("")
	s.notify()
}

// Observe registers fn to run after every change. Observers run on the
// goroutine that made the change, which is the UI goroutine in the program.
func (s *Session) Observe(fn func()) {
	s.mu.Lock()
	s.observers = append(s.observers, fn)
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.Lock()
	observers := append([]func(){}, s.observers...)
	s.mu.Unlock()
	for _, fn := range observers {
		fn()
	}
}
