package api

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"itsm-desk/config"
	"itsm-desk/core/auth"
	"itsm-desk/core/rbac"
	"itsm-desk/core/utils"
)

func testPolicy(t *testing.T) *rbac.Policy {
	t.Helper()
	p, err := rbac.NewPolicy(rbac.DefaultRoles())
	if err != nil {
		t.Fatalf("policy: %v", err)
	}
	return p
}

func permissionRequest(role string) *http.Request {
	req := httptest.NewRequest(http.MethodDelete, "/api/services/1", nil)
	return req.WithContext(auth.WithActor(req.Context(), &auth.Actor{Username: "carol", Roles: []string{role}}))
}

func TestRequirePermissionIsAdvisoryByDefault(t *testing.T) {
	s := &Server{cfg: &config.AppConfig{}, policy: testPolicy(t), logger: utils.NewNopLogger()}
	handler := s.requirePermission(rbac.PermServicesDelete)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	handler(rr, permissionRequest(rbac.RoleUser))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected advisory pass-through, got %d", rr.Code)
	}
}

func TestRequirePermissionDeniesWhenEnforced(t *testing.T) {
	s := &Server{
		cfg:    &config.AppConfig{Security: config.SecurityConfig{EnforceRoles: true}},
		policy: testPolicy(t),
		logger: utils.NewNopLogger(),
	}
	handler := s.requirePermission(rbac.PermServicesDelete)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rr := httptest.NewRecorder()
	handler(rr, permissionRequest(rbac.RoleUser))
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected forbidden, got %d", rr.Code)
	}
	rr = httptest.NewRecorder()
	handler(rr, permissionRequest(rbac.RoleAdmin))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected admin to pass, got %d", rr.Code)
	}
}

func TestActorMiddlewareUsesDefaultRole(t *testing.T) {
	s := &Server{cfg: &config.AppConfig{Security: config.SecurityConfig{DefaultRole: "admin"}}}
	var got *auth.Actor
	h := s.actorMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = auth.ActorFrom(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set(auth.UserHeader, "dave")
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Username != "dave" || len(got.Roles) != 1 || got.Roles[0] != "admin" {
		t.Fatalf("unexpected actor %+v", got)
	}
}

func TestLimiterRefillsAfterWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := newLimiter(2, time.Minute)
	l.now = func() time.Time { return now }
	if !l.allow("a") || !l.allow("a") {
		t.Fatalf("expected first two calls to pass")
	}
	if l.allow("a") {
		t.Fatalf("expected third call to be limited")
	}
	if !l.allow("b") {
		t.Fatalf("expected separate key to pass")
	}
	now = now.Add(time.Minute)
	if !l.allow("a") {
		t.Fatalf("expected refill after window")
	}
}

func TestNilLimiterAllows(t *testing.T) {
	var l *requestLimiter
	if !l.allow("x") {
		t.Fatalf("nil limiter must allow")
	}
}

func TestIsHTTPSRequestWithTLS(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.TLS = &tls.ConnectionState{}
	if !isHTTPSRequest(req, &config.AppConfig{}) {
		t.Fatalf("expected https request when TLS state is present")
	}
}

func TestIsHTTPSRequestWithTrustedProxyForwardedProto(t *testing.T) {
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			TrustedProxies: []string{"10.0.0.10"},
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.RemoteAddr = "10.0.0.10:12345"
	req.Header.Set("X-Forwarded-Proto", "https")
	if !isHTTPSRequest(req, cfg) {
		t.Fatalf("expected https request behind trusted proxy with x-forwarded-proto=https")
	}
}

func TestIsHTTPSRequestIgnoresUntrustedProxyHeader(t *testing.T) {
	cfg := &config.AppConfig{
		Security: config.SecurityConfig{
			TrustedProxies: []string{"10.0.0.10"},
		},
	}
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.RemoteAddr = "192.168.1.20:12345"
	req.Header.Set("X-Forwarded-Proto", "https")
	if isHTTPSRequest(req, cfg) {
		t.Fatalf("expected non-https for untrusted proxy source")
	}
}

func TestClientIPUsesNearestUntrustedXFFHop(t *testing.T) {
	s := &Server{
		cfg: &config.AppConfig{
			Security: config.SecurityConfig{
				TrustedProxies: []string{"10.0.0.10", "10.0.0.0/24"},
			},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", nil)
	req.RemoteAddr = "10.0.0.10:54321"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.11")
	if got := s.clientIP(req); got != "203.0.113.9" {
		t.Fatalf("expected client ip 203.0.113.9, got %s", got)
	}
}

func TestClientIPIgnoresXFFForUntrustedRemote(t *testing.T) {
	s := &Server{
		cfg: &config.AppConfig{
			Security: config.SecurityConfig{
				TrustedProxies: []string{"10.0.0.10"},
			},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", nil)
	req.RemoteAddr = "192.168.1.20:54321"
	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.10")
	if got := s.clientIP(req); got != "192.168.1.20" {
		t.Fatalf("expected remote addr ip for untrusted source, got %s", got)
	}
}

func TestClientIPInvalidXFFFallsBackToRealIP(t *testing.T) {
	s := &Server{
		cfg: &config.AppConfig{
			Security: config.SecurityConfig{
				TrustedProxies: []string{"10.0.0.10"},
			},
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/api/assistant/chat", nil)
	req.RemoteAddr = "10.0.0.10:54321"
	req.Header.Set("X-Forwarded-For", "garbage,not-an-ip")
	req.Header.Set("X-Real-IP", "198.51.100.8")
	if got := s.clientIP(req); got != "198.51.100.8" {
		t.Fatalf("expected fallback to valid X-Real-IP, got %s", got)
	}
}

func TestSecurityHeadersSetHSTSForTrustedProxyHTTPS(t *testing.T) {
	s := &Server{
		cfg: &config.AppConfig{
			Security: config.SecurityConfig{
				TrustedProxies: []string{"10.0.0.10"},
			},
		},
	}
	h := s.securityHeadersMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.RemoteAddr = "10.0.0.10:12345"
	req.Header.Set("X-Forwarded-Proto", "https")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Header().Get("Strict-Transport-Security") == "" {
		t.Fatalf("expected HSTS header for trusted proxy https request")
	}
	if rr.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Fatalf("expected nosniff header")
	}
}

func TestRecoverMiddlewareReturns500(t *testing.T) {
	s := &Server{logger: utils.NewNopLogger()}
	h := s.recoverMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
}
