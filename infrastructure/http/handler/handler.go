// Package handler contains the gateway's HTTP handlers: thin JSON decode,
// validate, usecase call, envelope write.
package handler

import (
	"net/http"
	"strconv"
)

// queryInt reads an integer query parameter, shared by every paginated
// handler in this package.
func queryInt(r *http.Request, key string, def int) int {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
