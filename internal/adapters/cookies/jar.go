// Package cookies implements ports.CookieJar over net/http and in memory.
package cookies

import (
	"MasarWeb/internal/core/ports"
	"net/http"
	"net/url"
	"time"
)

var (
	_ ports.CookieJar = (*HTTPJar)(nil)
	_ ports.CookieJar = (*MemoryJar)(nil)
)

// HTTPJar reads request cookies and writes Set-Cookie headers.
// Values are URL-encoded so JSON and Arabic text survive the cookie syntax.
// Writes made during the request are visible to later Gets.
type HTTPJar struct {
	r       *http.Request
	w       http.ResponseWriter
	secure  bool
	pending map[string]*string
}

func NewHTTPJar(w http.ResponseWriter, r *http.Request, secure bool) *HTTPJar {
	return &HTTPJar{r: r, w: w, secure: secure, pending: make(map[string]*string)}
}

func (j *HTTPJar) Get(name string) (string, bool) {
	if v, ok := j.pending[name]; ok {
		if v == nil {
			return "", false
		}
		return *v, true
	}
	c, err := j.r.Cookie(name)
	if err != nil {
		return "", false
	}
	v, err := url.QueryUnescape(c.Value)
	if err != nil {
		// Not written by us; hand back the raw value and let the caller judge it.
		return c.Value, true
	}
	return v, true
}

func (j *HTTPJar) Set(name, value string, maxAge time.Duration, httpOnly bool) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    url.QueryEscape(value),
		Path:     "/",
		MaxAge:   int(maxAge / time.Second),
		Expires:  time.Now().Add(maxAge),
		HttpOnly: httpOnly,
		Secure:   j.secure,
		SameSite: http.SameSiteStrictMode,
	})
	v := value
	j.pending[name] = &v
}

func (j *HTTPJar) Remove(name string) {
	http.SetCookie(j.w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   j.secure,
		SameSite: http.SameSiteStrictMode,
	})
	j.pending[name] = nil
}

// Entry is a cookie held by MemoryJar.
type Entry struct {
	Value    string
	MaxAge   time.Duration
	HTTPOnly bool
}

// MemoryJar is a map-backed jar for tests and non-HTTP callers.
type MemoryJar struct {
	Entries map[string]Entry
}

func NewMemoryJar() *MemoryJar {
	return &MemoryJar{Entries: make(map[string]Entry)}
}

func (j *MemoryJar) Get(name string) (string, bool) {
	e, ok := j.Entries[name]
	return e.Value, ok
}

func (j *MemoryJar) Set(name, value string, maxAge time.Duration, httpOnly bool) {
	j.Entries[name] = Entry{Value: value, MaxAge: maxAge, HTTPOnly: httpOnly}
}

func (j *MemoryJar) Remove(name string) {
	delete(j.Entries, name)
}
