package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{name: "no origin header", origin: "", allowed: nil, want: true},
		{name: "nothing configured", origin: "https://viah.me", allowed: nil, want: false},
		{name: "exact", origin: "https://viah.me", allowed: []string{"https://viah.me"}, want: true},
		{name: "case insensitive", origin: "https://VIAH.me", allowed: []string{"https://viah.me"}, want: true},
		{name: "wildcard", origin: "http://localhost:5173", allowed: []string{"*"}, want: true},
		{name: "not listed", origin: "https://evil.example", allowed: []string{"https://viah.me"}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OriginAllowed(tt.origin, tt.allowed))
		})
	}
}
