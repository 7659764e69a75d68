package guard

import (
	"MasarWeb/internal/adapters/cookies"
	"MasarWeb/internal/core/domain"
	"MasarWeb/internal/core/session"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

// Area is the protection class of a request path.
type Area int

const (
	Unrestricted Area = iota
	TeacherArea
	SchoolArea
	AdminArea
)

const (
	LoginPath      = "/login"
	AdminLoginPath = "/admin/login"
)

// Redirect reasons, also used as metric labels.
const (
	ReasonNoToken         = "no_token"
	ReasonRoleMismatch    = "role_mismatch"
	ReasonMalformedToken  = "malformed_token"
	ReasonAlreadyLoggedIn = "already_logged_in"
)

// Decision is the guard's verdict. The zero value lets the request through.
type Decision struct {
	Redirect     string
	ClearCookies bool
	Reason       string
}

func (d Decision) Allowed() bool { return d.Redirect == "" }

func hasSegmentPrefix(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// Classify maps a path to its area. The admin login page is unrestricted.
func Classify(path string) Area {
	switch {
	case hasSegmentPrefix(path, "/teacher"):
		return TeacherArea
	case hasSegmentPrefix(path, "/school"):
		return SchoolArea
	case hasSegmentPrefix(path, "/admin"):
		if strings.TrimSuffix(path, "/") == AdminLoginPath {
			return Unrestricted
		}
		return AdminArea
	}
	return Unrestricted
}

func (a Area) role() domain.Role {
	switch a {
	case TeacherArea:
		return domain.RoleTeacher
	case SchoolArea:
		return domain.RoleSchool
	case AdminArea:
		return domain.RoleAdmin
	}
	return domain.RoleNone
}

func (a Area) loginPath() string {
	if a == AdminArea {
		return AdminLoginPath
	}
	return LoginPath
}

// IsWellFormedToken is a shape check only: three non-empty dot-separated
// segments. Signature and expiry are left to the upstream API.
func IsWellFormedToken(token string) bool {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return false
	}
	for _, p := range parts {
		if p == "" {
			return false
		}
	}
	return true
}

// Decide evaluates one request from its path and the raw token and role cookies.
func Decide(path, token, role string) Decision {
	area := Classify(path)

	if area != Unrestricted {
		if token == "" {
			return Decision{Redirect: area.loginPath(), Reason: ReasonNoToken}
		}
		if role != string(area.role()) {
			return Decision{Redirect: area.loginPath(), Reason: ReasonRoleMismatch}
		}
		if !IsWellFormedToken(token) {
			return Decision{Redirect: LoginPath, ClearCookies: true, Reason: ReasonMalformedToken}
		}
		return Decision{}
	}

	if token == "" || role == "" {
		return Decision{}
	}
	clean := strings.TrimSuffix(path, "/")
	switch {
	case clean == LoginPath && (role == string(domain.RoleTeacher) || role == string(domain.RoleSchool)):
		return Decision{Redirect: domain.LandingPath(domain.Role(role)), Reason: ReasonAlreadyLoggedIn}
	case clean == AdminLoginPath && role == string(domain.RoleAdmin):
		return Decision{Redirect: domain.LandingPath(domain.RoleAdmin), Reason: ReasonAlreadyLoggedIn}
	}
	return Decision{}
}

var staticPrefixes = []string{"/_next/static", "/_next/image", "/favicon.ico", "/static/"}

var staticSuffixes = []string{".png", ".jpg", ".jpeg", ".gif", ".svg", ".ico", ".webp"}

// IsStatic reports whether the guard skips path entirely.
func IsStatic(path string) bool {
	for _, p := range staticPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	lower := strings.ToLower(path)
	for _, s := range staticSuffixes {
		if strings.HasSuffix(lower, s) {
			return true
		}
	}
	return false
}

// Guard is the HTTP middleware form of Decide.
type Guard struct {
	secureCookies bool
	redirects     *prometheus.CounterVec
	log           zerolog.Logger
}

// New builds a Guard. redirects may be nil.
func New(secureCookies bool, redirects *prometheus.CounterVec, baseLogger *zerolog.Logger) *Guard {
	return &Guard{
		secureCookies: secureCookies,
		redirects:     redirects,
		log:           baseLogger.With().Str("component", "route_guard").Logger(),
	}
}

func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if IsStatic(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		jar := cookies.NewHTTPJar(w, r, g.secureCookies)
		token, _ := jar.Get(session.CookieAccessToken)
		role, _ := jar.Get(session.CookieUserRole)

		d := Decide(r.URL.Path, token, role)
		if d.Allowed() {
			next.ServeHTTP(w, r)
			return
		}

		if d.ClearCookies {
			session.NewStore(jar, &g.log).Clear()
		}
		if g.redirects != nil {
			g.redirects.WithLabelValues(d.Reason).Inc()
		}

		g.log.Debug().
			Str("path", r.URL.Path).
			Str("redirect", d.Redirect).
			Str("reason", d.Reason).
			Msg("Request redirected")

		http.Redirect(w, r, d.Redirect, http.StatusTemporaryRedirect)
	})
}
