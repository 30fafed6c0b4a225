package cloudflare

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// Failure classes callers can branch on with errors.Is.
var (
	// ErrInvalidResponse indicates the response body was not JSON.
	ErrInvalidResponse = errors.New("cloudflare API response did not contain valid JSON")
	// ErrMalformedResponse indicates JSON that lacks expected envelope fields.
	ErrMalformedResponse = errors.New("cloudflare API response was malformed")
	// ErrRequestFailed indicates the API rejected the request at the HTTP level.
	ErrRequestFailed = errors.New("cloudflare API request failed")
	// ErrOperationFailed indicates the API reported a failed operation in a 2xx response.
	ErrOperationFailed = errors.New("operation failed")
	// ErrTooManyRecords indicates the listing did not contain exactly one record.
	ErrTooManyRecords = errors.New("found too many DNS records")
)

// errShape marks payload-shape failures raised while extracting fields from
// the envelope. validate converts it to ErrMalformedResponse carrying the
// raw body; any other parse error passes through untouched.
var errShape = errors.New("unexpected payload shape")

// validate runs the checks every API response goes through, then hands the
// decoded envelope to parse. The order is a contract:
//
//  1. the body must decode as JSON,
//  2. an HTTP-level failure reports the API's own error message,
//  3. a successful envelope is handed to parse,
//  4. an unsuccessful envelope reports the API's error message.
//
// A missing errors[0].message in steps 2 and 4, or a shape failure from
// parse in step 3, reports the response as malformed instead.
func validate[T any](resp *http.Response, parse func(payload) (T, error)) (T, error) {
	var zero T

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("failed to read response: %w", err)
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResponse, body)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		msg, err := p.errorMessage()
		if err != nil {
			return zero, fmt.Errorf("%w: %s", ErrMalformedResponse, body)
		}
		return zero, fmt.Errorf("%w: %d %s: %s",
			ErrRequestFailed, resp.StatusCode, http.StatusText(resp.StatusCode), msg)
	}

	if p.Success {
		v, err := parse(p)
		if errors.Is(err, errShape) {
			return zero, fmt.Errorf("%w: %s", ErrMalformedResponse, body)
		}
		return v, err
	}

	msg, err := p.errorMessage()
	if err != nil {
		return zero, fmt.Errorf("%w: %s", ErrMalformedResponse, body)
	}
	return zero, fmt.Errorf("%w: %s", ErrOperationFailed, msg)
}

// errorMessage extracts errors[0].message from the envelope.
// An empty message counts as absent.
func (p payload) errorMessage() (string, error) {
	if len(p.Errors) == 0 || p.Errors[0].Message == "" {
		return "", errShape
	}
	return p.Errors[0].Message, nil
}

// parseRecords extracts the single managed record from a listing payload.
// Anything other than exactly one match refuses the run: zero matches means
// the record this tool is meant to keep current does not exist, and more
// than one means the listing is ambiguous.
func parseRecords(p payload) (Record, error) {
	if p.ResultInfo == nil {
		return Record{}, fmt.Errorf("%w: missing result_info", errShape)
	}
	if p.ResultInfo.TotalCount != 1 {
		return Record{}, ErrTooManyRecords
	}

	var records []dnsRecord
	if err := json.Unmarshal(p.Result, &records); err != nil || len(records) == 0 {
		return Record{}, fmt.Errorf("%w: missing result", errShape)
	}
	if records[0].ID == "" || records[0].Content == "" {
		return Record{}, fmt.Errorf("%w: incomplete record", errShape)
	}

	return Record{ID: records[0].ID, IP: records[0].Content}, nil
}

// parseTokenStatus extracts the token details from a verify payload.
func parseTokenStatus(p payload) (TokenStatus, error) {
	var status TokenStatus
	if err := json.Unmarshal(p.Result, &status); err != nil || status.Status == "" {
		return TokenStatus{}, fmt.Errorf("%w: missing token status", errShape)
	}
	return status, nil
}
