package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHTTPURLChecker_IsAlive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodHead, r.Method)
		switch r.URL.Path {
		case "/ok":
			w.WriteHeader(http.StatusOK)
		case "/moved":
			http.Redirect(w, r, "/ok", http.StatusMovedPermanently)
		case "/gone":
			http.Redirect(w, r, "/missing", http.StatusFound)
		case "/forbidden":
			w.WriteHeader(http.StatusForbidden)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	checker := NewHTTPURLChecker(time.Second)
	ctx := context.Background()

	tests := []struct {
		name     string
		url      string
		expected bool
	}{
		{"ok", server.URL + "/ok", true},
		{"redirect to ok", server.URL + "/moved", true},
		{"redirect to missing", server.URL + "/gone", false},
		{"forbidden", server.URL + "/forbidden", false},
		{"not found", server.URL + "/nope", false},
		{"unparsable", "://bad url", false},
		{"unsupported scheme", "ftp://example.com/file", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, checker.IsAlive(ctx, tt.url))
		})
	}
}

func TestHTTPURLChecker_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer server.Close()

	checker := NewHTTPURLChecker(20 * time.Millisecond)
	assert.False(t, checker.IsAlive(context.Background(), server.URL))
}
