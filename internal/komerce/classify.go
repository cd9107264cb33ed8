package komerce

import (
	"encoding/json"
	"net/http"
	"strings"
)

// Markers the provider uses in error messages when a credential has run out
// of quota. The provider sometimes answers HTTP 200 with an error envelope
// instead of a 429, so status alone is not enough.
var rateLimitMarkers = []string{"limit", "quota", "exceeded", "rate"}

// RateLimitSignal reports whether an upstream response means the current
// credential is rate-limited. True for HTTP 429, and for any response whose
// JSON envelope is meta.status == "error" with a quota-style message.
func RateLimitSignal(status int, body []byte) bool {
	if status == http.StatusTooManyRequests {
		return true
	}

	var env providerEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return false
	}
	if !strings.EqualFold(env.Meta.Status, "error") {
		return false
	}

	message := strings.ToLower(env.Meta.Message)
	for _, marker := range rateLimitMarkers {
		if strings.Contains(message, marker) {
			return true
		}
	}
	return false
}
