// Package session holds the authentication credential across runs and
// exposes it to the transport layer.
package session

import (
	"net/http"
	"net/url"
	"time"
)

// CookieName is the cookie mirrored alongside the durable store so a
// route-guarding layer sharing the cookie jar can see the credential.
const CookieName = "auth_token"

const cookieMaxAge = 7 * 24 * time.Hour

// Store keeps the credential in two places that must agree: a durable
// PersistentStore and an auth_token cookie in the HTTP client's jar. Both
// hold the same value or neither holds one.
type Store struct {
	persist PersistentStore
	jar     http.CookieJar
	baseURL *url.URL
}

// New creates a Store. base must be the API base URL; when it does not parse,
// or jar is nil, the cookie mirror is disabled and only the durable store is
// used.
func New(persist PersistentStore, jar http.CookieJar, base string) *Store {
	u, err := url.Parse(base)
	if err != nil {
		u = nil
	}
	return &Store{persist: persist, jar: jar, baseURL: u}
}

// Set persists the token and mirrors it into the cookie jar.
func (s *Store) Set(token string) error {
	if err := s.persist.Write(token); err != nil {
		return err
	}
	s.setCookie(token, cookieMaxAge)
	return nil
}

// Get returns the stored token, or false when no credential is present.
func (s *Store) Get() (string, bool) {
	token, err := s.persist.Read()
	if err != nil {
		return "", false
	}
	return token, true
}

// Token implements transport.CredentialSource.
func (s *Store) Token() (string, bool) {
	return s.Get()
}

// Remove clears both locations. Idempotent: safe to call when nothing is
// stored.
func (s *Store) Remove() error {
	if err := s.persist.Delete(); err != nil {
		return err
	}
	s.setCookie("", -time.Second)
	return nil
}

// IsAuthenticated reports whether a credential is currently stored.
func (s *Store) IsAuthenticated() bool {
	_, ok := s.Get()
	return ok
}

func (s *Store) setCookie(value string, maxAge time.Duration) {
	if s.jar == nil || s.baseURL == nil {
		return
	}
	s.jar.SetCookies(s.baseURL, []*http.Cookie{{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(maxAge),
		MaxAge:   int(maxAge / time.Second),
		SameSite: http.SameSiteLaxMode,
	}})
}
