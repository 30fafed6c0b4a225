// Package publicip discovers the caller's public IP address by asking an
// external echo service for it.
package publicip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/netip"
	"strings"

	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

// DefaultServiceURL is the echo service queried when none is configured.
const DefaultServiceURL = "https://myip.dnsomatic.com/"

// Failure classes callers can branch on with errors.Is.
var (
	// ErrRequestFailed indicates the echo service could not be reached or
	// answered with a non-2xx status.
	ErrRequestFailed = errors.New("request for public IP failed")
	// ErrInvalidIP indicates the service answered with something that is
	// not an IP address.
	ErrInvalidIP = errors.New("invalid public IP")
)

// Resolver discovers the public IP via one HTTP GET.
type Resolver struct {
	httpClient *http.Client
	serviceURL string
	log        *logger.Logger
}

// NewResolver creates a resolver against serviceURL.
func NewResolver(httpClient *http.Client, serviceURL string, log *logger.Logger) *Resolver {
	return &Resolver{
		httpClient: httpClient,
		serviceURL: serviceURL,
		log:        log,
	}
}

// Resolve returns the public IP in canonical string form.
// The response body is parsed as a bare IP literal; parsing normalizes the
// representation (IPv6 compresses, for example) so that equal addresses
// compare equal as strings downstream.
func (r *Resolver) Resolve(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.serviceURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Cache-Control", "no-cache")

	r.log.HTTPRequest(http.MethodGet, r.serviceURL)
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	r.log.HTTPResponse(http.MethodGet, r.serviceURL, resp.StatusCode)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: unexpected status %s", ErrRequestFailed, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}

	// Echo services commonly append a trailing newline.
	addr, err := netip.ParseAddr(strings.TrimSpace(string(body)))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidIP, err)
	}

	return addr.String(), nil
}
