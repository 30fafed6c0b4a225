package publicip

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

func testResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewResolver(server.Client(), server.URL, logger.New(logger.Options{}))
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected string
	}{
		{"IPv4", "203.0.113.9", "203.0.113.9"},
		{"IPv4 with trailing newline", "203.0.113.9\n", "203.0.113.9"},
		{"IPv6 normalized to canonical form", "2001:0db8:0000:0000:0000:0000:0000:0001", "2001:db8::1"},
		{"IPv6 already canonical", "2001:db8::1", "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			ip, err := resolver.Resolve(context.Background())
			if err != nil {
				t.Fatalf("Resolve failed: %v", err)
			}
			if ip != tt.expected {
				t.Errorf("Resolve() = %q, want %q", ip, tt.expected)
			}
		})
	}
}

func TestResolve_NonIPBody(t *testing.T) {
	resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>Service temporarily unavailable</html>")
	})

	_, err := resolver.Resolve(context.Background())
	if !errors.Is(err, ErrInvalidIP) {
		t.Fatalf("Expected ErrInvalidIP, got: %v", err)
	}
	if !strings.Contains(err.Error(), "invalid public IP") {
		t.Errorf("Expected the resolver prefix, got: %v", err)
	}
}

func TestResolve_ServiceError(t *testing.T) {
	resolver := testResolver(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "try again later", http.StatusServiceUnavailable)
	})

	_, err := resolver.Resolve(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Expected ErrRequestFailed, got: %v", err)
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("Expected the status in the message, got: %v", err)
	}
}

func TestResolve_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	resolver := NewResolver(server.Client(), server.URL, logger.New(logger.Options{}))
	server.Close()

	_, err := resolver.Resolve(context.Background())
	if !errors.Is(err, ErrRequestFailed) {
		t.Fatalf("Expected ErrRequestFailed, got: %v", err)
	}
}
