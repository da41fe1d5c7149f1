package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestRequireAPIKey(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.Nil(t, err)

	cases := []struct {
		id             string
		key            string
		expectedStatus int
	}{
		{id: "valid", key: "s3cret", expectedStatus: http.StatusNoContent},
		{id: "missing", key: "", expectedStatus: http.StatusUnauthorized},
		{id: "wrong", key: "guess", expectedStatus: http.StatusUnauthorized},
		{id: "too long", key: strings.Repeat("k", API_KEY_MAX_LEN+1), expectedStatus: http.StatusUnauthorized},
	}

	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/scheduler", nil)
			if testcase.key != "" {
				req.Header.Set(API_KEY_HEADER, testcase.key)
			}
			rr := httptest.NewRecorder()
			next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
				rw.WriteHeader(http.StatusNoContent)
			})

			RequireAPIKey(string(hash))(next).ServeHTTP(rr, req)

			assert.Equal(t, testcase.expectedStatus, rr.Code)
		})
	}
}
