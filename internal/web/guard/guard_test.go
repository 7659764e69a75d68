package guard

import (
	"MasarWeb/internal/core/session"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mintToken(t *testing.T) string {
	t.Helper()
	claims := jwt.RegisteredClaims{
		Subject:   "u1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

func TestClassify(t *testing.T) {
	testCases := []struct {
		path string
		want Area
	}{
		{"/teacher", TeacherArea},
		{"/teacher/profile", TeacherArea},
		{"/teachers-guide", Unrestricted},
		{"/school/home", SchoolArea},
		{"/school/specialty/abc", SchoolArea},
		{"/schools", Unrestricted},
		{"/admin/dashboard", AdminArea},
		{"/admin", AdminArea},
		{"/admin/login", Unrestricted},
		{"/admin/login/", Unrestricted},
		{"/login", Unrestricted},
		{"/register", Unrestricted},
		{"/", Unrestricted},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.path))
		})
	}
}

func TestIsWellFormedToken(t *testing.T) {
	assert.True(t, IsWellFormedToken(mintToken(t)))
	assert.True(t, IsWellFormedToken("a.b.c"))
	assert.False(t, IsWellFormedToken("abc"))
	assert.False(t, IsWellFormedToken("a.b"))
	assert.False(t, IsWellFormedToken("a..c"))
	assert.False(t, IsWellFormedToken("a.b.c.d"))
	assert.False(t, IsWellFormedToken(""))
}

func TestDecide(t *testing.T) {
	token := mintToken(t)

	testCases := []struct {
		name  string
		path  string
		token string
		role  string
		want  Decision
	}{
		{"teacher area without token", "/teacher/profile", "", "", Decision{Redirect: "/login", Reason: ReasonNoToken}},
		{"admin area without token", "/admin/dashboard", "", "", Decision{Redirect: "/admin/login", Reason: ReasonNoToken}},
		{"school token on teacher area", "/teacher/profile", token, "school", Decision{Redirect: "/login", Reason: ReasonRoleMismatch}},
		{"teacher token on school area", "/school/home", token, "teacher", Decision{Redirect: "/login", Reason: ReasonRoleMismatch}},
		{"teacher token on admin area", "/admin/teachers", token, "teacher", Decision{Redirect: "/admin/login", Reason: ReasonRoleMismatch}},
		{"token without role", "/school/home", token, "", Decision{Redirect: "/login", Reason: ReasonRoleMismatch}},
		{"malformed token", "/teacher/profile", "abc", "teacher", Decision{Redirect: "/login", ClearCookies: true, Reason: ReasonMalformedToken}},
		{"malformed admin token", "/admin/dashboard", "a.b", "admin", Decision{Redirect: "/login", ClearCookies: true, Reason: ReasonMalformedToken}},
		{"teacher allowed", "/teacher/profile", token, "teacher", Decision{}},
		{"school allowed", "/school/acceptances", token, "school", Decision{}},
		{"admin allowed", "/admin/dashboard", token, "admin", Decision{}},
		{"teacher on login page", "/login", token, "teacher", Decision{Redirect: "/teacher/profile", Reason: ReasonAlreadyLoggedIn}},
		{"school on login page", "/login", token, "school", Decision{Redirect: "/school/home", Reason: ReasonAlreadyLoggedIn}},
		{"admin on admin login", "/admin/login", token, "admin", Decision{Redirect: "/admin/dashboard", Reason: ReasonAlreadyLoggedIn}},
		{"admin on teacher login stays", "/login", token, "admin", Decision{}},
		{"teacher on admin login stays", "/admin/login", token, "teacher", Decision{}},
		{"anonymous on login", "/login", "", "", Decision{}},
		{"public page", "/", "", "", Decision{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Decide(tc.path, tc.token, tc.role))
		})
	}
}

func TestIsStatic(t *testing.T) {
	for _, p := range []string{"/_next/static/chunk.js", "/_next/image", "/favicon.ico", "/teacher/avatar.PNG", "/logo.svg", "/static/app.css"} {
		assert.True(t, IsStatic(p), p)
	}
	for _, p := range []string{"/teacher/profile", "/login", "/school/home.json"} {
		assert.False(t, IsStatic(p), p)
	}
}

func newTestGuard() (*Guard, *prometheus.CounterVec) {
	nopLogger := zerolog.Nop()
	redirects := prometheus.NewCounterVec(prometheus.CounterOpts{Name: "test_guard_redirects_total"}, []string{"reason"})
	return New(false, redirects, &nopLogger), redirects
}

func serve(g *Guard, req *http.Request) (*httptest.ResponseRecorder, bool) {
	reached := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusOK)
	})
	rec := httptest.NewRecorder()
	g.Middleware(next).ServeHTTP(rec, req)
	return rec, reached
}

func TestMiddleware_RedirectsWithoutToken(t *testing.T) {
	g, redirects := newTestGuard()

	rec, reached := serve(g, httptest.NewRequest(http.MethodGet, "/teacher/profile", nil))

	assert.False(t, reached)
	assert.Equal(t, http.StatusTemporaryRedirect, rec.Code)
	assert.Equal(t, "/login", rec.Header().Get("Location"))
	assert.Empty(t, rec.Result().Cookies())
	assert.Equal(t, 1.0, testutil.ToFloat64(redirects.WithLabelValues(ReasonNoToken)))
}

func TestMiddleware_MalformedTokenClearsCookies(t *testing.T) {
	g, redirects := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/teacher/profile", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieAccessToken, Value: "abc"})
	req.AddCookie(&http.Cookie{Name: session.CookieUserRole, Value: "teacher"})
	req.AddCookie(&http.Cookie{Name: session.CookieUser, Value: "%7B%7D"})

	rec, reached := serve(g, req)

	assert.False(t, reached)
	assert.Equal(t, "/login", rec.Header().Get("Location"))

	cleared := map[string]int{}
	for _, c := range rec.Result().Cookies() {
		cleared[c.Name] = c.MaxAge
	}
	assert.Equal(t, map[string]int{
		session.CookieAccessToken: -1,
		session.CookieUserRole:    -1,
		session.CookieUser:        -1,
	}, cleared)
	assert.Equal(t, 1.0, testutil.ToFloat64(redirects.WithLabelValues(ReasonMalformedToken)))
}

func TestMiddleware_AllowsMatchingRoleAndStatic(t *testing.T) {
	g, _ := newTestGuard()

	req := httptest.NewRequest(http.MethodGet, "/school/home", nil)
	req.AddCookie(&http.Cookie{Name: session.CookieAccessToken, Value: mintToken(t)})
	req.AddCookie(&http.Cookie{Name: session.CookieUserRole, Value: "school"})
	rec, reached := serve(g, req)
	assert.True(t, reached)
	assert.Equal(t, http.StatusOK, rec.Code)

	_, reached = serve(g, httptest.NewRequest(http.MethodGet, "/admin/logo.png", nil))
	assert.True(t, reached, "static assets bypass the guard")
}

func TestMiddleware_NilCounter(t *testing.T) {
	nopLogger := zerolog.Nop()
	g := New(false, nil, &nopLogger)

	rec, reached := serve(g, httptest.NewRequest(http.MethodGet, "/admin/dashboard", nil))
	assert.False(t, reached)
	assert.Equal(t, "/admin/login", rec.Header().Get("Location"))
}
