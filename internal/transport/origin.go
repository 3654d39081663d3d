package transport

import "strings"

// AllowedOrigins is the default origin allowlist for websocket upgrades.
// Override by editing this slice at process startup before the first
// connection arrives (no runtime mutation after Start, §5's "no shared
// mutable state outside the documented surfaces").
var AllowedOrigins = []string{
	"http://localhost:3000",
}

// IsAllowedOrigin reports whether an Origin header is permitted to open a
// websocket connection. Empty origins (non-browser clients, same-origin
// requests without the header) are allowed; browser cross-origin requests
// must match the allowlist or a localhost prefix.
func IsAllowedOrigin(origin string) bool {
	if origin == "" {
		return true
	}
	if strings.HasPrefix(origin, "http://localhost") || strings.HasPrefix(origin, "http://127.0.0.1") {
		return true
	}
	for _, allowed := range AllowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}
