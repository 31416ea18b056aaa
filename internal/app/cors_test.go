package app

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginHost(t *testing.T) {
	assert.Equal(t, "example.com", originHost("https://example.com"))
	assert.Equal(t, "example.com:8080", originHost("http://example.com:8080"))
	assert.Equal(t, "not a url", originHost("not a url"))
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		pattern string
		host    string
		want    bool
	}{
		{"example.com", "example.com", true},
		{"example.com", "evil.com", false},
		{"*.example.com", "app.example.com", true},
		{"*.example.com", "example.org", false},
		{"localhost:*", "localhost:3000", true},
		{"localhost:*", "remotehost:3000", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, originAllowed(tt.pattern, tt.host), "%s vs %s", tt.pattern, tt.host)
	}
}
