package auth

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gokatarajesh/impromptu-bank/internal/auth/jwt"
	sqlcgen "github.com/gokatarajesh/impromptu-bank/internal/db/sqlc"
)

type fakeGate struct {
	password string
	allowed  map[string]bool
}

func (g *fakeGate) VerifySitePassword(_ context.Context, password string) (bool, error) {
	return password == g.password, nil
}

func (g *fakeGate) IPAllowed(_ context.Context, ip string) (bool, error) {
	return g.allowed[ip], nil
}

type accessEntry struct {
	ip      string
	success bool
}

type fakeAccess struct {
	mu      sync.Mutex
	entries []accessEntry
}

func (a *fakeAccess) Record(_ context.Context, ip, _ string, success bool) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, accessEntry{ip: ip, success: success})
	return nil
}

type fakeUsers struct {
	approved map[string]bool
	nextID   int64
}

func (u *fakeUsers) Create(_ context.Context, username string) (sqlcgen.User, error) {
	u.nextID++
	return sqlcgen.User{ID: u.nextID, Username: username, Approved: u.approved[username]}, nil
}

type harness struct {
	handlers *HTTPHandlers
	sessions *Sessions
	access   *fakeAccess
}

func newHarness() *harness {
	sessions := NewSessions(jwt.NewManager(jwt.TokenConfig{Secret: []byte("test-secret")}), false, zerolog.Nop())
	access := &fakeAccess{}
	h := NewHTTPHandlers(HandlerDeps{
		Sessions:      sessions,
		Gate:          &fakeGate{password: "animal", allowed: map[string]bool{"10.0.0.9": true}},
		Limiter:       NewMemoryLimiter(LimitConfig{}),
		Access:        access,
		Users:         &fakeUsers{approved: map[string]bool{"ada": true}},
		AdminPassword: "admin-pass",
	}, zerolog.Nop())
	return &harness{handlers: h, sessions: sessions, access: access}
}

func (hs *harness) do(handler http.HandlerFunc, body, ip string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.RemoteAddr = net.JoinHostPort(ip, "40000")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	hs.sessions.Middleware(handler).ServeHTTP(rec, req)
	return rec
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSiteLogin_WrongPasswordReportsRemaining(t *testing.T) {
	hs := newHarness()

	rec := hs.do(hs.handlers.SiteLogin, `{"password":"nope"}`, "1.1.1.1")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "Invalid password or IP not authorized. 4 attempts remaining.", decodeError(t, rec)["message"])
	assert.Nil(t, sessionCookie(rec))
	require.Len(t, hs.access.entries, 1)
	assert.Equal(t, accessEntry{ip: "1.1.1.1", success: false}, hs.access.entries[0])
}

func TestSiteLogin_LockoutAfterFiveFailures(t *testing.T) {
	hs := newHarness()

	for i := 0; i < 5; i++ {
		rec := hs.do(hs.handlers.SiteLogin, `{"password":"nope"}`, "2.2.2.2")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := hs.do(hs.handlers.SiteLogin, `{"password":"animal"}`, "2.2.2.2")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Retry-After"))
	assert.Contains(t, decodeError(t, rec)["message"], "Too many failed attempts")
	// locked attempts are not written to the access log
	assert.Len(t, hs.access.entries, 5)

	other := hs.do(hs.handlers.SiteLogin, `{"password":"animal"}`, "3.3.3.3")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestSiteLogin_GrantsAccessCookie(t *testing.T) {
	hs := newHarness()

	rec := hs.do(hs.handlers.SiteLogin, `{"password":"animal"}`, "1.1.1.1")
	require.Equal(t, http.StatusOK, rec.Code)
	cookie := sessionCookie(rec)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)

	protected := RequireSiteAccess(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	withCookie := hs.do(protected.ServeHTTP, "", "1.1.1.1", cookie)
	assert.Equal(t, http.StatusNoContent, withCookie.Code)

	without := hs.do(protected.ServeHTTP, "", "1.1.1.1")
	assert.Equal(t, http.StatusUnauthorized, without.Code)
}

func TestSiteLogin_WhitelistedIPBypassesPassword(t *testing.T) {
	hs := newHarness()

	rec := hs.do(hs.handlers.SiteLogin, `{"password":"wrong"}`, "10.0.0.9")

	assert.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, hs.access.entries, 1)
	assert.True(t, hs.access.entries[0].success)
}

func TestSiteLogin_MissingPassword(t *testing.T) {
	hs := newHarness()

	rec := hs.do(hs.handlers.SiteLogin, `{}`, "1.1.1.1")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, hs.access.entries)
}

func TestAdminLogin(t *testing.T) {
	hs := newHarness()

	bad := hs.do(hs.handlers.AdminLogin, `{"password":"guess"}`, "1.1.1.1")
	assert.Equal(t, http.StatusUnauthorized, bad.Code)

	good := hs.do(hs.handlers.AdminLogin, `{"password":"admin-pass"}`, "1.1.1.1")
	require.Equal(t, http.StatusOK, good.Code)
	cookie := sessionCookie(good)
	require.NotNil(t, cookie)

	admin := RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, SessionFromContext(r.Context()).SiteAccess)
		w.WriteHeader(http.StatusNoContent)
	}))
	rec := hs.do(admin.ServeHTTP, "", "1.1.1.1", cookie)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestLogoutKeepsSiteAccess(t *testing.T) {
	hs := newHarness()

	login := hs.do(hs.handlers.AdminLogin, `{"password":"admin-pass"}`, "1.1.1.1")
	out := hs.do(hs.handlers.Logout, "", "1.1.1.1", sessionCookie(login))
	require.Equal(t, http.StatusOK, out.Code)

	rec := hs.do(hs.handlers.Session, "", "1.1.1.1", sessionCookie(out))
	var body sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.IsLoggedIn)
	assert.True(t, body.SiteAccessGranted)
}

func TestUserLogin(t *testing.T) {
	hs := newHarness()

	pending := hs.do(hs.handlers.UserLogin, `{"username":"grace"}`, "1.1.1.1")
	assert.Equal(t, http.StatusForbidden, pending.Code)

	ok := hs.do(hs.handlers.UserLogin, `{"username":"  Ada "}`, "1.1.1.1")
	require.Equal(t, http.StatusOK, ok.Code)

	rec := hs.do(hs.handlers.Session, "", "1.1.1.1", sessionCookie(ok))
	var body sessionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	require.NotNil(t, body.User)
	assert.Equal(t, "ada", body.User.Username)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ""
	assert.Equal(t, "unknown", ClientIP(req))

	req.RemoteAddr = "192.0.2.7:51234"
	assert.Equal(t, "192.0.2.7", ClientIP(req))

	req.Header.Set("X-Forwarded-For", "8.8.8.8")
	assert.Equal(t, "192.0.2.7", ClientIP(req))

	req.RemoteAddr = "8.8.4.4"
	assert.Equal(t, "8.8.4.4", ClientIP(req))
}

func TestTrustedProxies_Middleware(t *testing.T) {
	proxies, err := NewTrustedProxies([]string{"10.0.0.0/8", " ::1 ", ""})
	require.NoError(t, err)

	resolve := func(remote string, headers map[string]string) string {
		var got string
		h := proxies.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = ClientIP(r)
		}))
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = remote
		for k, v := range headers {
			req.Header.Set(k, v)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	spoofed := map[string]string{"X-Forwarded-For": "203.0.113.5"}
	assert.Equal(t, "198.51.100.9", resolve("198.51.100.9:5000", spoofed))
	assert.Equal(t, "203.0.113.5", resolve("10.1.2.3:5000", spoofed))
	assert.Equal(t, "203.0.113.5", resolve("[::1]:5000", map[string]string{"X-Forwarded-For": "203.0.113.5,10.1.2.3"}))
	assert.Equal(t, "198.51.100.7", resolve("10.1.2.3:5000", map[string]string{"X-Real-IP": "198.51.100.7"}))
	assert.Equal(t, "10.1.2.3", resolve("10.1.2.3:5000", map[string]string{"X-Forwarded-For": "not-an-ip"}))
}

func TestNewTrustedProxies_RejectsGarbage(t *testing.T) {
	_, err := NewTrustedProxies([]string{"10.0.0.0/33"})
	assert.Error(t, err)

	_, err = NewTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)

	empty, err := NewTrustedProxies(nil)
	require.NoError(t, err)
	assert.False(t, empty.trusts("127.0.0.1:80"))
}
