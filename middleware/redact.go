package middleware

import (
	"net/http"
	"net/url"
	"strings"
)

const redacted = "REDACTED"

// RedactToken masks the token query parameter in r.RequestURI so request
// logs installed after it never see a session token. r.URL is left intact.
func RedactToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has(TokenQueryParam) {
			r = r.WithContext(r.Context())
			r.RequestURI = redactQuery(r.RequestURI)
		}
		next.ServeHTTP(w, r)
	})
}

func redactQuery(requestURI string) string {
	u, err := url.ParseRequestURI(requestURI)
	if err != nil {
		path, _, _ := strings.Cut(requestURI, "?")
		return path
	}
	q := u.Query()
	if !q.Has(TokenQueryParam) {
		return requestURI
	}
	q.Set(TokenQueryParam, redacted)
	u.RawQuery = q.Encode()
	return u.RequestURI()
}
