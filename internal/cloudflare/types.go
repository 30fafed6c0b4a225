// Package cloudflare implements the subset of the Cloudflare v4 API the
// updater needs: listing the managed A record, pointing it at a new address,
// and verifying the API token.
package cloudflare

import "encoding/json"

// payload is the response envelope shared by all v4 endpoints.
// Result stays raw because its shape differs per endpoint (array for record
// listings, object for token verification).
// See: https://developers.cloudflare.com/api/
type payload struct {
	Result     json.RawMessage `json:"result"`
	ResultInfo *resultInfo     `json:"result_info"`
	Errors     []responseError `json:"errors"`
	Success    bool            `json:"success"`
}

// resultInfo carries pagination counters for list endpoints.
type resultInfo struct {
	TotalCount int `json:"total_count"`
}

// responseError is one entry of the envelope's errors array.
type responseError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// dnsRecord is one entry of a dns_records listing.
// See: https://developers.cloudflare.com/api/resources/dns/subresources/records/
type dnsRecord struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

// Record is the managed A record as published at the provider.
type Record struct {
	ID string
	IP string
}

// TokenStatus describes an API token as reported by the verify endpoint.
type TokenStatus struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}
