package controllers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginChecker(t *testing.T) {
	check := originChecker([]string{"http://localhost:3000"})

	tests := []struct {
		name   string
		origin string
		want   bool
	}{
		{name: "без Origin", origin: "", want: true},
		{name: "разрешённый", origin: "http://localhost:3000", want: true},
		{name: "тот же хост", origin: "http://example.com", want: true},
		{name: "чужой", origin: "http://evil.test", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "http://example.com/api/live", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, check(req))
		})
	}

	wildcard := httptest.NewRequest("GET", "http://example.com/api/live", nil)
	wildcard.Header.Set("Origin", "http://evil.test")
	assert.True(t, originChecker([]string{"*"})(wildcard))
}
