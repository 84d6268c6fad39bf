package handler

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueryInt(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want int
	}{
		{"present", "/api/appointments?page=3", 3},
		{"missing", "/api/appointments", 1},
		{"empty value", "/api/appointments?page=", 1},
		{"not a number", "/api/appointments?page=abc", 1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tc.url, nil)
			assert.Equal(t, tc.want, queryInt(r, "page", 1))
		})
	}
}
