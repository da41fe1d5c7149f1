package request

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// ParseID reads a positive integer URL parameter.
func ParseID(r *http.Request, name string) (int64, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", name, err)
	}
	if id <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", name)
	}
	return id, nil
}
