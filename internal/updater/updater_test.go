package updater

import (
	"context"
	"errors"
	"testing"

	"github.com/k-obrien/cloudflare-ddns/internal/cloudflare"
	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

// testLogger returns a quiet logger for tests
func testLogger() *logger.Logger {
	return logger.New(logger.Options{})
}

// MockClient implements RecordClient for testing
type MockClient struct {
	record      cloudflare.Record
	fetchErr    error
	updateErr   error
	updateCalls []updateCall
}

type updateCall struct {
	recordID string
	ip       string
}

func (m *MockClient) FetchRecord(_ context.Context) (cloudflare.Record, error) {
	if m.fetchErr != nil {
		return cloudflare.Record{}, m.fetchErr
	}
	return m.record, nil
}

func (m *MockClient) UpdateRecord(_ context.Context, recordID, ip string) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.updateCalls = append(m.updateCalls, updateCall{recordID: recordID, ip: ip})
	return nil
}

// MockResolver implements IPResolver for testing
type MockResolver struct {
	ip  string
	err error
}

func (m *MockResolver) Resolve(_ context.Context) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.ip, nil
}

func TestRun_UpToDate(t *testing.T) {
	client := &MockClient{record: cloudflare.Record{ID: "rec1", IP: "203.0.113.9"}}
	resolver := &MockResolver{ip: "203.0.113.9"}
	u := New(client, resolver, "home.example.com", testLogger())

	result, err := u.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Updated {
		t.Error("Expected no update when addresses match")
	}
	if len(client.updateCalls) != 0 {
		t.Errorf("Expected 0 update calls, got %d", len(client.updateCalls))
	}
	if result.Domain != "home.example.com" {
		t.Errorf("Unexpected domain: %s", result.Domain)
	}
	if result.RecordIP != "203.0.113.9" || result.PublicIP != "203.0.113.9" {
		t.Errorf("Unexpected addresses in result: %+v", result)
	}
}

func TestRun_Updates(t *testing.T) {
	client := &MockClient{record: cloudflare.Record{ID: "rec1", IP: "203.0.113.9"}}
	resolver := &MockResolver{ip: "198.51.100.4"}
	u := New(client, resolver, "home.example.com", testLogger())

	result, err := u.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Updated {
		t.Error("Expected an update when addresses differ")
	}
	if len(client.updateCalls) != 1 {
		t.Fatalf("Expected 1 update call, got %d", len(client.updateCalls))
	}
	call := client.updateCalls[0]
	if call.recordID != "rec1" {
		t.Errorf("Expected update of record rec1, got %s", call.recordID)
	}
	if call.ip != "198.51.100.4" {
		t.Errorf("Expected update to 198.51.100.4, got %s", call.ip)
	}
	if result.RecordIP != "203.0.113.9" || result.PublicIP != "198.51.100.4" {
		t.Errorf("Unexpected addresses in result: %+v", result)
	}
}

func TestRun_DryRun(t *testing.T) {
	client := &MockClient{record: cloudflare.Record{ID: "rec1", IP: "203.0.113.9"}}
	resolver := &MockResolver{ip: "198.51.100.4"}
	u := New(client, resolver, "home.example.com", testLogger())

	result, err := u.Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if !result.Updated {
		t.Error("Expected dry run to report the would-be change")
	}
	if len(client.updateCalls) != 0 {
		t.Errorf("Expected no update calls in dry run, got %d", len(client.updateCalls))
	}
}

func TestRun_FetchError(t *testing.T) {
	fetchErr := errors.New("connection refused")
	client := &MockClient{fetchErr: fetchErr}
	u := New(client, &MockResolver{ip: "198.51.100.4"}, "home.example.com", testLogger())

	_, err := u.Run(context.Background(), Options{})
	if !errors.Is(err, fetchErr) {
		t.Fatalf("Expected fetch error to propagate, got: %v", err)
	}
}

func TestRun_ResolveError(t *testing.T) {
	resolveErr := errors.New("echo service down")
	client := &MockClient{record: cloudflare.Record{ID: "rec1", IP: "203.0.113.9"}}
	u := New(client, &MockResolver{err: resolveErr}, "home.example.com", testLogger())

	_, err := u.Run(context.Background(), Options{})
	if !errors.Is(err, resolveErr) {
		t.Fatalf("Expected resolve error to propagate, got: %v", err)
	}

	if len(client.updateCalls) != 0 {
		t.Errorf("Expected no update calls after resolve failure, got %d", len(client.updateCalls))
	}
}

func TestRun_UpdateError(t *testing.T) {
	updateErr := errors.New("record locked")
	client := &MockClient{
		record:    cloudflare.Record{ID: "rec1", IP: "203.0.113.9"},
		updateErr: updateErr,
	}
	u := New(client, &MockResolver{ip: "198.51.100.4"}, "home.example.com", testLogger())

	_, err := u.Run(context.Background(), Options{})
	if !errors.Is(err, updateErr) {
		t.Fatalf("Expected update error to propagate, got: %v", err)
	}
}
