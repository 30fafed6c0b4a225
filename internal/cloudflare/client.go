package cloudflare

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

// DefaultBaseURL is the Cloudflare v4 API root.
const DefaultBaseURL = "https://api.cloudflare.com/client/v4"

// Fixed parameters identifying the managed record. A per_page of 1 keeps the
// listing unambiguous: the domain either has exactly one A record or the run
// is refused.
const (
	recordType = "A"
	perPage    = 1
	// automaticTTL is the provider's sentinel for "let Cloudflare choose".
	automaticTTL = 1
)

// Client is a Cloudflare API client scoped to a single zone and domain.
type Client struct {
	baseURL    string
	apiToken   string
	zoneID     string
	domain     string
	httpClient *http.Client
	log        *logger.Logger
}

// NewClient creates a client for one zone/domain pair.
// baseURL is the API root, e.g. https://api.cloudflare.com/client/v4.
// The http.Client is supplied by the caller so one connection pool serves
// the whole run.
func NewClient(baseURL, apiToken, zoneID, domain string, httpClient *http.Client, log *logger.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiToken:   apiToken,
		zoneID:     zoneID,
		domain:     domain,
		httpClient: httpClient,
		log:        log,
	}
}

// doRequest performs one authenticated API request.
func (c *Client) doRequest(ctx context.Context, method, path string, body interface{}) (*http.Response, error) {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	reqURL := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, method, reqURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	c.log.HTTPRequest(method, reqURL)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	c.log.HTTPResponse(method, reqURL, resp.StatusCode)

	return resp, nil
}

// recordParams returns the fixed parameters as a fresh map.
func (c *Client) recordParams() map[string]interface{} {
	return map[string]interface{}{
		"type":     recordType,
		"per_page": perPage,
		"name":     c.domain,
	}
}

// updateBody builds the update payload from the base parameters plus the new
// address and an automatic TTL. base is copied, never mutated.
func updateBody(base map[string]interface{}, ip string) map[string]interface{} {
	body := make(map[string]interface{}, len(base)+2)
	for k, v := range base {
		body[k] = v
	}
	body["content"] = ip
	body["ttl"] = automaticTTL
	return body
}

// FetchRecord retrieves the managed A record for the domain.
// GET /zones/{zone_id}/dns_records
// See: https://developers.cloudflare.com/api/resources/dns/subresources/records/methods/list/
func (c *Client) FetchRecord(ctx context.Context) (Record, error) {
	q := url.Values{}
	q.Set("type", recordType)
	q.Set("per_page", strconv.Itoa(perPage))
	q.Set("name", c.domain)
	path := fmt.Sprintf("/zones/%s/dns_records?%s", c.zoneID, q.Encode())

	resp, err := c.doRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Record{}, err
	}
	defer resp.Body.Close()

	return validate(resp, parseRecords)
}

// UpdateRecord points the record at ip.
// PUT /zones/{zone_id}/dns_records/{record_id}
// See: https://developers.cloudflare.com/api/resources/dns/subresources/records/methods/update/
func (c *Client) UpdateRecord(ctx context.Context, recordID, ip string) error {
	path := fmt.Sprintf("/zones/%s/dns_records/%s", c.zoneID, recordID)

	resp, err := c.doRequest(ctx, http.MethodPut, path, updateBody(c.recordParams(), ip))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	// The success path needs nothing from the envelope.
	_, err = validate(resp, func(payload) (struct{}, error) {
		return struct{}{}, nil
	})
	return err
}

// VerifyToken checks that the configured API token is valid.
// GET /user/tokens/verify
// See: https://developers.cloudflare.com/api/resources/user/subresources/tokens/methods/verify/
func (c *Client) VerifyToken(ctx context.Context) (TokenStatus, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/user/tokens/verify", nil)
	if err != nil {
		return TokenStatus{}, err
	}
	defer resp.Body.Close()

	return validate(resp, parseTokenStatus)
}
