package auth

import (
	"net/http"
	"nudgebot/internal/http/handlers/response"

	"golang.org/x/crypto/bcrypt"
)

const (
	API_KEY_HEADER  = "X-API-Key"
	API_KEY_MAX_LEN = 72
)

func ParseAPIKey(r *http.Request) (key string, ok bool) {
	key = r.Header.Get(API_KEY_HEADER)
	if key == "" || len(key) > API_KEY_MAX_LEN {
		return "", false
	}
	return key, true
}

// RequireAPIKey rejects requests whose X-API-Key header does not match
// the bcrypt hash.
func RequireAPIKey(hash string) func(http.Handler) http.Handler {
	hashBytes := []byte(hash)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			key, ok := ParseAPIKey(r)
			if !ok || bcrypt.CompareHashAndPassword(hashBytes, []byte(key)) != nil {
				response.RenderUnauthorized(rw)
				return
			}
			next.ServeHTTP(rw, r)
		})
	}
}
