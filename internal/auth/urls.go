package auth

import (
	"net/url"
	"strings"
)

// URL classification for the login state machine. The target site routes
// every verification interstitial under a small set of path prefixes, which
// is far more stable than the page markup itself.

var checkpointMarkers = []string{"/checkpoint", "/challenge", "/uas/"}

var authenticatedMarkers = []string{"/feed", "/home"}

var authWallMarkers = []string{"/authwall", "/login", "/signup", "/uas/login"}

func pathOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return strings.ToLower(raw)
	}
	return strings.ToLower(u.Path)
}

// IsCheckpointURL reports whether raw points at a verification interstitial.
func IsCheckpointURL(raw string) bool {
	return matchesAny(pathOf(raw), checkpointMarkers)
}

// IsAuthenticatedURL reports whether raw is a known authenticated surface.
func IsAuthenticatedURL(raw string) bool {
	return matchesAny(pathOf(raw), authenticatedMarkers)
}

// IsAuthWallURL reports whether raw is a login/signup wall, which during a
// supposedly-authenticated operation means the session was lost.
func IsAuthWallURL(raw string) bool {
	return matchesAny(pathOf(raw), authWallMarkers)
}

func matchesAny(path string, markers []string) bool {
	for _, m := range markers {
		if strings.Contains(path, m) {
			return true
		}
	}
	return false
}
