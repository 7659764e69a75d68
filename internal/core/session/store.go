// Package session keeps the authenticated identity in sync with the
// accessToken, userRole and user cookies.
package session

import (
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/ports"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

const (
	CookieAccessToken = "accessToken"
	CookieUserRole    = "userRole"
	CookieUser        = "user"

	// CookieTTL is the lifetime of all three auth cookies.
	CookieTTL = 7 * 24 * time.Hour

	// LogoutRedirect is the full-navigation target after logout.
	LogoutRedirect = "/"
)

// Store is the per-request view of the auth cookies.
type Store struct {
	jar   ports.CookieJar
	log   zerolog.Logger
	token string
	user  *domain.User
	role  domain.Role
}

func NewStore(jar ports.CookieJar, baseLogger *zerolog.Logger) *Store {
	return &Store{
		jar: jar,
		log: baseLogger.With().Str("component", "session_store").Logger(),
	}
}

// SetAuth persists a verified login. Cookies are written before the
// in-memory state so the two never disagree.
func (s *Store) SetAuth(token string, user domain.User, role domain.Role) error {
	raw, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("could not encode user cookie: %w", err)
	}

	s.jar.Set(CookieAccessToken, token, CookieTTL, true)
	s.jar.Set(CookieUserRole, string(role), CookieTTL, false)
	s.jar.Set(CookieUser, string(raw), CookieTTL, false)

	s.token = token
	s.user = &user
	s.role = role
	s.log.Debug().Str("user_id", user.ID).Str("role", string(role)).Msg("Session established")
	return nil
}

// Logout clears cookies and memory and returns where to navigate.
func (s *Store) Logout() string {
	s.Clear()
	return LogoutRedirect
}

// Clear removes all three cookies and forgets the session.
func (s *Store) Clear() {
	s.jar.Remove(CookieAccessToken)
	s.jar.Remove(CookieUserRole)
	s.jar.Remove(CookieUser)
	s.token = ""
	s.user = nil
	s.role = domain.RoleNone
}

// UpdateUser merges p into the current user and rewrites its cookie.
// It does nothing when no user is stored.
func (s *Store) UpdateUser(p domain.UserPatch) error {
	if s.user == nil {
		return nil
	}
	updated := *s.user
	p.Apply(&updated)

	raw, err := json.Marshal(updated)
	if err != nil {
		return fmt.Errorf("could not encode user cookie: %w", err)
	}
	s.jar.Set(CookieUser, string(raw), CookieTTL, false)
	s.user = &updated
	return nil
}

// InitializeAuth loads the session from cookies. A token without a user,
// or a user without a token, yields no session; a corrupt user cookie
// removes all three cookies.
func (s *Store) InitializeAuth() domain.Session {
	token, hasToken := s.jar.Get(CookieAccessToken)
	rawUser, hasUser := s.jar.Get(CookieUser)

	if hasToken && token != "" && hasUser && rawUser != "" {
		var user domain.User
		if err := json.Unmarshal([]byte(rawUser), &user); err != nil {
			s.log.Warn().Err(err).Msg("Corrupt user cookie, clearing session")
			s.Clear()
			return s.Snapshot()
		}
		roleValue, _ := s.jar.Get(CookieUserRole)
		s.token = token
		s.user = &user
		s.role = domain.ParseRole(roleValue)
	}
	return s.Snapshot()
}

// Snapshot returns the current session; IsAuthenticated needs token and user.
func (s *Store) Snapshot() domain.Session {
	out := domain.Session{
		Token:           s.token,
		Role:            s.role,
		IsAuthenticated: s.token != "" && s.user != nil,
	}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out
}
