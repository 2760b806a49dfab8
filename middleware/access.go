package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
)

// Pages that need a signed in user. Sub-paths are protected too.
var protectedPrefixes = []string{
	"/profile",
	"/settings",
	"/stats",
	"/admin",
	"/checkout",
}

// Pages only shown to signed out users.
var authOnlyPaths = []string{
	"/login",
	"/signup",
}

const (
	loginPath   = "/login"
	defaultHome = "/"
)

func IsProtected(path string) bool {
	for _, p := range protectedPrefixes {
		if matchesSegment(path, p) {
			return true
		}
	}
	return false
}

func IsAuthOnly(path string) bool {
	for _, p := range authOnlyPaths {
		if matchesSegment(path, p) {
			return true
		}
	}
	return false
}

// matchesSegment is a prefix match on whole path segments, so /stats matches
// /stats and /stats/games but not /statsbomb.
func matchesSegment(path, prefix string) bool {
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}

// AccessRedirect decides where a page request should go instead. Signed out
// users asking for a protected page go to the login page, which sends them
// back afterwards; signed in users asking for login or signup go to the
// page they were headed for, or home.
func AccessRedirect(path string, query url.Values, authenticated bool) (string, bool) {
	switch {
	case !authenticated && IsProtected(path):
		return loginPath + "?redirect=" + url.QueryEscape(path), true
	case authenticated && IsAuthOnly(path):
		return SafeRedirect(query.Get("redirect")), true
	}
	return "", false
}

// SafeRedirect only allows local paths that don't lead back to an auth-only
// page; anything else becomes "/".
func SafeRedirect(target string) string {
	if target == "" || !strings.HasPrefix(target, "/") ||
		strings.HasPrefix(target, "//") || strings.HasPrefix(target, "/\\") {
		return defaultHome
	}
	u, err := url.Parse(target)
	if err != nil || u.IsAbs() || u.Host != "" || IsAuthOnly(u.Path) {
		return defaultHome
	}
	return target
}

// RouteGuard applies AccessRedirect to page requests. API routes answer 401
// through RequireUser instead of redirecting.
func RouteGuard() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
			c.Next()
			return
		}
		if matchesSegment(path, "/api") || matchesSegment(path, "/auth") {
			c.Next()
			return
		}

		_, authenticated := GetCurrentUser(c)
		if target, ok := AccessRedirect(path, c.Request.URL.Query(), authenticated); ok {
			c.Redirect(http.StatusFound, target)
			c.Abort()
			return
		}
		c.Next()
	}
}
