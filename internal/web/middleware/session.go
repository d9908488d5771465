package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
)

const (
	sessionCookieName = "outfit_session"
	sessionMaxAge     = 30 * 24 * 60 * 60
)

// SessionManager ties a signed cookie to a wardrobe session.
type SessionManager struct {
	secret []byte
	store  wardrobe.Store

	mu    sync.Mutex
	locks map[string]*sessionLock
}

// sessionLock serializes updates of one session. It is dropped from the
// manager once no request holds or waits for it.
type sessionLock struct {
	sync.Mutex
	refs int
}

// NewSessionManager creates a session manager. An empty secret is replaced by a
// random one, which invalidates cookies on restart. A nil store keeps sessions in memory.
func NewSessionManager(secret string, store wardrobe.Store) *SessionManager {
	key := []byte(secret)
	if secret == "" {
		key = make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			panic(fmt.Sprintf("failed to generate session secret: %v", err))
		}
		log.Warn().Msg("no session secret configured, sessions will not survive a restart")
	}
	if store == nil {
		store = wardrobe.NewMemoryStore()
	}
	return &SessionManager{
		secret: key,
		store:  store,
		locks:  make(map[string]*sessionLock),
	}
}

// SessionIDFromRequest returns the id carried by a validly signed cookie, or "".
func (sm *SessionManager) SessionIDFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil {
		return ""
	}
	parts := strings.SplitN(cookie.Value, ".", 2)
	if len(parts) != 2 || parts[0] == "" {
		return ""
	}
	if !sm.verifySignature(parts[0], parts[1]) {
		return ""
	}
	return parts[0]
}

// SetSessionCookie writes the signed cookie for id.
func (sm *SessionManager) SetSessionCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    id + "." + sm.signData(id),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   sessionMaxAge,
	})
}

// Load returns the stored session for id, or a fresh one.
func (sm *SessionManager) Load(ctx context.Context, id string) (*wardrobe.Session, error) {
	s, err := sm.store.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	if s == nil {
		return wardrobe.NewSession(id), nil
	}
	return s, nil
}

// Update loads the session for id, applies fn and saves the result. Updates of
// the same session are serialized.
func (sm *SessionManager) Update(ctx context.Context, id string, fn func(*wardrobe.Session) error) (*wardrobe.Session, error) {
	lock := sm.acquire(id)
	defer sm.release(id, lock)

	s, err := sm.Load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = time.Now()
	if err := sm.store.Save(ctx, s); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}
	return s, nil
}

func (sm *SessionManager) acquire(id string) *sessionLock {
	sm.mu.Lock()
	l, ok := sm.locks[id]
	if !ok {
		l = &sessionLock{}
		sm.locks[id] = l
	}
	l.refs++
	sm.mu.Unlock()

	l.Lock()
	return l
}

func (sm *SessionManager) release(id string, l *sessionLock) {
	l.Unlock()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	l.refs--
	if l.refs == 0 {
		delete(sm.locks, id)
	}
}

// signData creates an HMAC signature for data
func (sm *SessionManager) signData(data string) string {
	h := hmac.New(sha256.New, sm.secret)
	h.Write([]byte(data))
	return base64.URLEncoding.EncodeToString(h.Sum(nil))
}

// verifySignature verifies an HMAC signature
func (sm *SessionManager) verifySignature(data, signature string) bool {
	expected := sm.signData(data)
	return hmac.Equal([]byte(signature), []byte(expected))
}

type contextKey string

const sessionContextKey contextKey = "session_id"

// WithSession makes sure every request carries a session id, issuing a new
// cookie when the request has none or a forged one.
func WithSession(sm *SessionManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := sm.SessionIDFromRequest(r)
			if id == "" {
				id = uuid.NewString()
				sm.SetSessionCookie(w, id)
			}
			next.ServeHTTP(w, r.WithContext(SetSessionIDInContext(r.Context(), id)))
		})
	}
}

// GetSessionIDFromContext returns the session id placed by WithSession, or "".
func GetSessionIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(sessionContextKey).(string)
	return id
}

// SetSessionIDInContext adds a session id to the context.
// This is primarily for testing - use WithSession middleware in production.
func SetSessionIDInContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionContextKey, id)
}

// MustGetSessionID retrieves the session id from context.
// If not available, writes an error response and returns "".
// Handlers should return immediately after receiving "".
func MustGetSessionID(ctx context.Context, w http.ResponseWriter) string {
	id := GetSessionIDFromContext(ctx)
	if id == "" {
		http.Error(w, `{"error": "session not available"}`, http.StatusInternalServerError)
		return ""
	}
	return id
}
