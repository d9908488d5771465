package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kozaktomas/outfit-matcher/internal/classify"
	"github.com/kozaktomas/outfit-matcher/internal/wardrobe"
)

// pendingLocks returns the number of sessions with an update in flight.
func (sm *SessionManager) pendingLocks() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	return len(sm.locks)
}

func TestNewSessionManager(t *testing.T) {
	sm := NewSessionManager("", nil)
	if sm == nil {
		t.Fatal("NewSessionManager returned nil")
		return
	}
	if len(sm.secret) != 32 {
		t.Errorf("expected random 32 byte secret, got %d bytes", len(sm.secret))
	}
	if _, ok := sm.store.(*wardrobe.MemoryStore); !ok {
		t.Errorf("expected default memory store, got %T", sm.store)
	}
}

func TestWithSession_IssuesCookie(t *testing.T) {
	sm := NewSessionManager("test-secret", nil)

	var seen string
	handler := WithSession(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetSessionIDFromContext(r.Context())
	}))

	req := httptest.NewRequest("GET", "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)

	if seen == "" {
		t.Fatal("expected a session id in context")
	}
	cookies := recorder.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != sessionCookieName {
		t.Fatalf("expected session cookie, got %v", cookies)
	}

	// Replaying the cookie keeps the same session without a new cookie.
	req2 := httptest.NewRequest("GET", "/", nil)
	req2.AddCookie(cookies[0])
	recorder2 := httptest.NewRecorder()
	var again string
	WithSession(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		again = GetSessionIDFromContext(r.Context())
	})).ServeHTTP(recorder2, req2)

	if again != seen {
		t.Errorf("expected session %s, got %s", seen, again)
	}
	if len(recorder2.Result().Cookies()) != 0 {
		t.Error("expected no new cookie for a valid session")
	}
}

func TestSessionIDFromRequest_RejectsForgedCookie(t *testing.T) {
	sm := NewSessionManager("test-secret", nil)
	other := NewSessionManager("other-secret", nil)

	tests := []struct {
		name  string
		value string
	}{
		{"no signature", "abc"},
		{"wrong signature", "abc." + other.signData("abc")},
		{"empty id", "." + sm.signData("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: tt.value})
			if id := sm.SessionIDFromRequest(req); id != "" {
				t.Errorf("expected forged cookie to be rejected, got %q", id)
			}
		})
	}

	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: sessionCookieName, Value: "abc." + sm.signData("abc")})
	if id := sm.SessionIDFromRequest(req); id != "abc" {
		t.Errorf("expected abc, got %q", id)
	}
}

func TestSessionManager_UpdateAndLoad(t *testing.T) {
	ctx := context.Background()
	sm := NewSessionManager("test-secret", nil)

	fresh, err := sm.Load(ctx, "s1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if fresh.Tone() != classify.ToneUnknown || len(fresh.Tops) != 0 {
		t.Errorf("expected empty session, got %+v", fresh)
	}

	_, err = sm.Update(ctx, "s1", func(s *wardrobe.Session) error {
		s.SkinTone = classify.ToneDark
		s.Add(wardrobe.KindTops, wardrobe.Item{Path: "a.jpg", Color: classify.White})
		return nil
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	loaded, _ := sm.Load(ctx, "s1")
	if loaded.SkinTone != classify.ToneDark || len(loaded.Tops) != 1 {
		t.Errorf("update not persisted: %+v", loaded)
	}

	if err := sm.store.Delete(ctx, "s1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if s, _ := sm.Load(ctx, "s1"); len(s.Tops) != 0 {
		t.Error("expected fresh session after delete")
	}
}

func TestSessionManager_UpdateErrorDiscardsChanges(t *testing.T) {
	ctx := context.Background()
	sm := NewSessionManager("test-secret", nil)

	_, err := sm.Update(ctx, "s1", func(s *wardrobe.Session) error {
		s.SkinTone = classify.ToneFair
		return errors.New("boom")
	})
	if err == nil {
		t.Fatal("expected error")
	}

	if s, _ := sm.Load(ctx, "s1"); s.SkinTone == classify.ToneFair {
		t.Error("failed update must not be saved")
	}
}

func TestSessionManager_ConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	sm := NewSessionManager("test-secret", nil)

	var wg sync.WaitGroup
	for i := 0; i < 25; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			sm.Update(ctx, "s1", func(s *wardrobe.Session) error {
				s.Add(wardrobe.KindBottoms, wardrobe.Item{Path: "x.jpg", Color: classify.Black})
				return nil
			})
		}()
	}
	wg.Wait()

	s, _ := sm.Load(ctx, "s1")
	if len(s.Bottoms) != 25 {
		t.Errorf("expected 25 bottoms, got %d", len(s.Bottoms))
	}
	if n := sm.pendingLocks(); n != 0 {
		t.Errorf("expected no session locks after updates, got %d", n)
	}
}

func TestSessionManager_LocksReleasedForNewSessions(t *testing.T) {
	store := wardrobe.NewMemoryStore()
	sm := NewSessionManager("test-secret", store)

	handler := WithSession(sm)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := GetSessionIDFromContext(r.Context())
		if _, err := sm.Update(r.Context(), id, func(s *wardrobe.Session) error {
			s.SkinTone = classify.ToneOlive
			return nil
		}); err != nil {
			t.Errorf("Update() error = %v", err)
		}
	}))

	for i := 0; i < 500; i++ {
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("POST", "/", nil))
	}

	if store.Len() != 500 {
		t.Errorf("expected 500 stored sessions, got %d", store.Len())
	}
	if n := sm.pendingLocks(); n != 0 {
		t.Errorf("expected lock map to be empty, got %d entries", n)
	}
}

func TestSessionManager_UpdateErrorReleasesLock(t *testing.T) {
	sm := NewSessionManager("test-secret", nil)

	sm.Update(context.Background(), "s1", func(s *wardrobe.Session) error {
		return errors.New("boom")
	})

	if n := sm.pendingLocks(); n != 0 {
		t.Errorf("expected lock map to be empty, got %d entries", n)
	}
}

func TestMustGetSessionID_Missing(t *testing.T) {
	recorder := httptest.NewRecorder()
	if id := MustGetSessionID(context.Background(), recorder); id != "" {
		t.Errorf("expected empty id, got %q", id)
	}
	if recorder.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", recorder.Code)
	}
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"https://outfits.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	tests := []struct {
		origin string
		want   string
	}{
		{"https://outfits.example.com", "https://outfits.example.com"},
		{"http://localhost:5173", "http://localhost:5173"},
		{"http://localhost", "http://localhost"},
		{"http://127.0.0.1:8080", "http://127.0.0.1:8080"},
		{"http://localhost.evil.com", ""},
		{"http://localhostevil.com:5173", ""},
		{"https://evil.example.com", ""},
		{"", ""},
	}

	for _, tt := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tt.origin != "" {
			req.Header.Set("Origin", tt.origin)
		}
		recorder := httptest.NewRecorder()
		handler.ServeHTTP(recorder, req)

		if got := recorder.Header().Get("Access-Control-Allow-Origin"); got != tt.want {
			t.Errorf("origin %q: expected %q, got %q", tt.origin, tt.want, got)
		}
		if recorder.Code != http.StatusTeapot {
			t.Errorf("origin %q: expected request to pass through", tt.origin)
		}
	}

	preflight := httptest.NewRequest("OPTIONS", "/", nil)
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, preflight)
	if recorder.Code != http.StatusOK {
		t.Errorf("expected 200 for preflight, got %d", recorder.Code)
	}
}

func TestSecurityHeaders(t *testing.T) {
	handler := SecurityHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, httptest.NewRequest("GET", "/", nil))

	csp := recorder.Header().Get("Content-Security-Policy")
	for _, want := range []string{"default-src 'self'", "img-src 'self' blob:", "frame-ancestors 'none'"} {
		if !strings.Contains(csp, want) {
			t.Errorf("CSP %q does not contain %q", csp, want)
		}
	}
	if recorder.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("expected nosniff header")
	}
}
