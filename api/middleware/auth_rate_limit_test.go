package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	pkgerrors "github.com/angelmondragon/laptopshop/pkg/errors"
)

func TestAuthRateLimit_AllowsUnderLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := AuthRateLimitPolicy{Name: "login", Window: time.Minute, IPLimit: 2, EmailLimit: 2}
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		if !strings.Contains(string(body), "email=tester%40example.com") {
			t.Fatalf("unexpected body: %s", string(body))
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=tester%40example.com&password=secret"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthRateLimit_HandlerReadsBodyPastPeekLimit(t *testing.T) {
	store := newFakeRateStore()
	policy := AuthRateLimitPolicy{Name: "register", Window: time.Minute, EmailLimit: 5}
	payload := "email=tester%40example.com&name=" + strings.Repeat("a", 2*maxRateLimitBody)

	var got string
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			t.Fatalf("read body: %v", err)
		}
		got = string(body)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.RemoteAddr = "1.2.3.4:5678"
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got != payload {
		t.Fatalf("handler saw %d of %d body bytes", len(got), len(payload))
	}
}

func TestAuthRateLimit_EmailLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := AuthRateLimitPolicy{Name: "login", Window: time.Minute, EmailLimit: 2}
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"Blocked@example.com","password":"secret"}`))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Accept", "application/json")
		req.RemoteAddr = "1.2.3.4:5678"
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		switch {
		case i < 2 && rec.Code != http.StatusOK:
			t.Fatalf("expected success before limit, got %d", rec.Code)
		case i >= 2:
			if rec.Code != http.StatusTooManyRequests {
				t.Fatalf("expected 429, got %d", rec.Code)
			}
			if rec.Header().Get("Retry-After") != "60" {
				t.Fatalf("expected Retry-After 60, got %q", rec.Header().Get("Retry-After"))
			}
			var payload struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
				t.Fatalf("decode error: %v", err)
			}
			if payload.Error.Code != string(pkgerrors.CodeRateLimit) {
				t.Fatalf("unexpected code: %s", payload.Error.Code)
			}
		}
	}
}

func TestAuthRateLimit_IPLimitTriggers(t *testing.T) {
	store := newFakeRateStore()
	policy := AuthRateLimitPolicy{Name: "register", Window: time.Minute, IPLimit: 1}
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("email=foo%40example.com"))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "5.6.7.8:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if i == 0 && rec.Code != http.StatusOK {
			t.Fatalf("expected success, got %d", rec.Code)
		}
		if i == 1 && rec.Code != http.StatusTooManyRequests {
			t.Fatalf("expected 429, got %d", rec.Code)
		}
	}
	if _, ok := store.counts["ip:register:5.6.7.8"]; !ok {
		t.Fatalf("expected ip scope to be counted, got %v", store.counts)
	}
}

func TestAuthRateLimit_RendersPageForBrowsers(t *testing.T) {
	store := newFakeRateStore()
	pages := &recordingPages{}
	policy := AuthRateLimitPolicy{Name: "login", Window: time.Minute, IPLimit: 1}
	handler := AuthRateLimit(policy, store, nil, pages)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.c"))
		req.RemoteAddr = "9.9.9.9:1"
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	if !pkgerrors.IsCode(pages.err, pkgerrors.CodeRateLimit) {
		t.Fatalf("expected rate limit page, got %v", pages.err)
	}
}

func TestAuthRateLimit_StoreFailureIsDependencyError(t *testing.T) {
	store := newFakeRateStore()
	store.err = errors.New("redis down")
	policy := AuthRateLimitPolicy{Name: "login", Window: time.Minute, IPLimit: 1}
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("handler should not run")
	}))

	req := httptest.NewRequest(http.MethodPost, "/login", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != pkgerrors.MetadataFor(pkgerrors.CodeDependency).HTTPStatus {
		t.Fatalf("unexpected status %d", rec.Code)
	}
}

func TestAuthRateLimit_ForwardedHeadersNeedTrust(t *testing.T) {
	cases := map[string]struct {
		trust bool
		want  string
	}{
		"untrusted uses remote addr": {trust: false, want: "ip:login:10.0.0.1"},
		"trusted uses first hop":     {trust: true, want: "ip:login:203.0.113.7"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			store := newFakeRateStore()
			policy := AuthRateLimitPolicy{Name: "Login", Window: time.Minute, IPLimit: 5, TrustProxy: tc.trust}
			handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader("email=a%40b.c"))
			req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
			req.RemoteAddr = "10.0.0.1:4000"
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if _, ok := store.counts[tc.want]; !ok || len(store.counts) != 1 {
				t.Fatalf("expected only %s, got %v", tc.want, store.counts)
			}
		})
	}
}

func TestAuthRateLimit_EmailScopeIsNormalizedHash(t *testing.T) {
	store := newFakeRateStore()
	policy := AuthRateLimitPolicy{Name: "register", Window: time.Minute, EmailLimit: 3}
	handler := AuthRateLimit(policy, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	for _, email := range []string{"Buyer%40Example.com", "%20buyer%40example.com%20"} {
		req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader("email="+email))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		handler.ServeHTTP(httptest.NewRecorder(), req)
	}

	scope := "email:register:" + hashValue("buyer@example.com")
	if store.counts[scope] != 2 {
		t.Fatalf("expected both attempts on %s, got %v", scope, store.counts)
	}
}

func TestAuthRateLimitPolicy_RetryAfterRoundsUp(t *testing.T) {
	cases := map[time.Duration]string{
		time.Minute:             "60",
		1500 * time.Millisecond: "2",
		10 * time.Millisecond:   "1",
	}
	for window, want := range cases {
		if got := (AuthRateLimitPolicy{Window: window}).retryAfter(); got != want {
			t.Fatalf("window %s: expected %s, got %s", window, want, got)
		}
	}
}

func TestAuthRateLimit_DisabledPolicyPassesThrough(t *testing.T) {
	store := newFakeRateStore()
	called := false
	handler := AuthRateLimit(AuthRateLimitPolicy{Name: "login"}, store, nil, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/login", nil))

	if !called || len(store.counts) != 0 {
		t.Fatalf("expected passthrough without counting, called=%v counts=%v", called, store.counts)
	}
}

func TestExtractEmail(t *testing.T) {
	if got := extractEmail("application/x-www-form-urlencoded", []byte("email=a%40b.c&password=x")); got != "a@b.c" {
		t.Fatalf("form email: %q", got)
	}
	if got := extractEmail("application/json; charset=utf-8", []byte(`{"email":"j@b.c"}`)); got != "j@b.c" {
		t.Fatalf("json email: %q", got)
	}
	if got := extractEmail("application/json", []byte("not json")); got != "" {
		t.Fatalf("expected empty email, got %q", got)
	}
}

type fakeRateStore struct {
	mu     sync.Mutex
	counts map[string]int64
	err    error
}

func newFakeRateStore() *fakeRateStore {
	return &fakeRateStore{counts: map[string]int64{}}
}

func (f *fakeRateStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return false, 0, f.err
	}
	f.counts[scope]++
	return f.counts[scope] <= limit, f.counts[scope], nil
}
