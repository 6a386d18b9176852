package utils

// OriginAllowed reports whether the origin may make cross-origin requests.
// An empty allow list permits every origin (local development default).
func OriginAllowed(origin string, allowed []string) bool {
	if origin == "" {
		return false
	}
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == "*" || a == origin {
			return true
		}
	}
	return false
}
