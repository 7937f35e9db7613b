package session

import "strings"

// Destinations the resolver routes to.
const (
	SignIn     = "./index.html"
	Onboarding = "./onboarding.html"
	Workspace  = "./dashboard.html"
)

// Navigator performs a redirect.
type Navigator interface {
	Navigate(destination string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(destination string)

func (f NavigatorFunc) Navigate(destination string) { f(destination) }

// NormalizeLocation reduces a location or destination to the form used for
// comparison: the last path segment, lower-cased, without a leading "./".
func NormalizeLocation(p string) string {
	p = strings.TrimPrefix(strings.TrimSpace(p), "./")
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if i := strings.LastIndex(p, "/"); i >= 0 {
		p = p[i+1:]
	}
	return strings.ToLower(p)
}

// SameLocation reports whether navigating from current to destination would
// land on the same surface.
func SameLocation(current, destination string) bool {
	return NormalizeLocation(current) == NormalizeLocation(destination)
}
