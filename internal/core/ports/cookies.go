package ports

import "time"

// CookieJar reads and writes the browser cookies of the current request.
type CookieJar interface {
	Get(name string) (string, bool)
	Set(name, value string, maxAge time.Duration, httpOnly bool)
	Remove(name string)
}
