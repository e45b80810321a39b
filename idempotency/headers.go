package idempotency

import (
	"net/http"
	"strings"
)

// excludedHeaders are left to the HTTP server and never cached.
var excludedHeaders = map[string]struct{}{
	"Transfer-Encoding": {},
}

// stripCharset removes the charset parameter from a content type.
func stripCharset(contentType string) string {
	if !strings.Contains(contentType, ";") {
		return contentType
	}
	parts := strings.Split(contentType, ";")
	kept := parts[:1]
	for _, p := range parts[1:] {
		if strings.HasPrefix(strings.ToLower(strings.TrimSpace(p)), "charset=") {
			continue
		}
		kept = append(kept, p)
	}
	return strings.TrimSpace(strings.Join(kept, ";"))
}

// cacheableHeaders copies the response headers that go into a completed
// record.
func cacheableHeaders(h http.Header) map[string][]string {
	out := make(map[string][]string, len(h))
	for k, v := range h {
		if _, skip := excludedHeaders[http.CanonicalHeaderKey(k)]; skip {
			continue
		}
		out[k] = append([]string(nil), v...)
	}
	if ct, ok := out["Content-Type"]; ok {
		for i := range ct {
			ct[i] = stripCharset(ct[i])
		}
	}
	return out
}

// mergeHeaders adds the stored headers to dst, leaving keys dst already has
// untouched.
func mergeHeaders(dst http.Header, stored map[string][]string) {
	if dst == nil {
		return
	}
	for k, v := range stored {
		if _, exists := dst[k]; exists {
			continue
		}
		dst[k] = append([]string(nil), v...)
	}
}
