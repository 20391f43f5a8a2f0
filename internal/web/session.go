package web

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
)

const sessionCookie = "ansuz_session"

// session holds the per-visitor state: the signed-in username and at
// most one pending flash message. Fields are guarded by the manager's
// mutex; sessions are shared between concurrent requests carrying the
// same cookie.
type session struct {
	username  string
	flash     string
	expiresAt time.Time
}

// SessionManager tracks browser sessions in memory, keyed by an opaque
// cookie value. Durable state lives on disk; sessions only carry the
// signed-in username and one-shot flash messages.
type SessionManager struct {
	mu       sync.Mutex
	sessions map[string]*session
	ttl      time.Duration
}

// NewSessionManager creates a manager whose sessions expire after ttl
// of inactivity.
func NewSessionManager(ttl time.Duration) *SessionManager {
	return &SessionManager{
		sessions: make(map[string]*session),
		ttl:      ttl,
	}
}

// lookup returns the live session for the request, or nil. The caller
// must hold m.mu.
func (m *SessionManager) lookup(r *http.Request) *session {
	cookie, err := r.Cookie(sessionCookie)
	if err != nil {
		return nil
	}
	s, ok := m.sessions[cookie.Value]
	if !ok {
		return nil
	}
	if time.Now().After(s.expiresAt) {
		delete(m.sessions, cookie.Value)
		return nil
	}
	s.expiresAt = time.Now().Add(m.ttl)
	return s
}

// ensure returns the request's session, creating one and setting the
// cookie when absent. The caller must hold m.mu.
func (m *SessionManager) ensure(w http.ResponseWriter, r *http.Request) *session {
	if s := m.lookup(r); s != nil {
		return s
	}
	id := uuid.NewString()
	s := &session{expiresAt: time.Now().Add(m.ttl)}
	m.sessions[id] = s

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	// Make the session visible to later lookups within this request.
	r.AddCookie(&http.Cookie{Name: sessionCookie, Value: id})
	return s
}

// Username returns the signed-in username, or "" for anonymous visitors.
func (m *SessionManager) Username(r *http.Request) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s := m.lookup(r); s != nil {
		return s.username
	}
	return ""
}

// SignIn records the username in the visitor's session.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(w, r).username = username
}

// SignOut clears the signed-in username but keeps the session so a
// flash message can still be delivered.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(w, r).username = ""
}

// SetFlash queues a one-shot message shown on the next page render.
func (m *SessionManager) SetFlash(w http.ResponseWriter, r *http.Request, msg string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensure(w, r).flash = msg
}

// TakeFlash returns the pending flash message and clears it
// (at-most-once delivery).
func (m *SessionManager) TakeFlash(r *http.Request) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.lookup(r)
	if s == nil {
		return ""
	}
	msg := s.flash
	s.flash = ""
	return msg
}
