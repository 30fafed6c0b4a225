// Package updater orchestrates one update run: fetch the published record,
// discover the public IP, and point the record at it when they differ.
package updater

import (
	"context"

	"github.com/k-obrien/cloudflare-ddns/internal/cloudflare"
	"github.com/k-obrien/cloudflare-ddns/internal/logger"
)

// RecordClient defines the provider operations the updater needs.
type RecordClient interface {
	FetchRecord(ctx context.Context) (cloudflare.Record, error)
	UpdateRecord(ctx context.Context, recordID, ip string) error
}

// IPResolver defines the public IP lookup.
type IPResolver interface {
	Resolve(ctx context.Context) (string, error)
}

// Updater keeps one DNS record pointed at the current public IP.
type Updater struct {
	client   RecordClient
	resolver IPResolver
	domain   string
	log      *logger.Logger
}

// New creates an updater for domain.
func New(client RecordClient, resolver IPResolver, domain string, log *logger.Logger) *Updater {
	return &Updater{
		client:   client,
		resolver: resolver,
		domain:   domain,
		log:      log,
	}
}

// Options contains options for a Run.
type Options struct {
	// DryRun reports the would-be change without writing it.
	DryRun bool
}

// Result describes the outcome of a run.
type Result struct {
	Domain   string
	RecordIP string
	PublicIP string
	Updated  bool
}

// Run performs one update cycle. The record is written only when the
// published address differs from the resolved one, so a run that changes
// nothing performs no mutating call. Errors are terminal; there are no
// retries.
func (u *Updater) Run(ctx context.Context, opts Options) (*Result, error) {
	u.log.Info("Fetching DNS record for %s...", u.domain)
	record, err := u.client.FetchRecord(ctx)
	if err != nil {
		return nil, err
	}
	u.log.Debug("Record %s points at %s", record.ID, record.IP)

	u.log.Info("Resolving public IP...")
	publicIP, err := u.resolver.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	u.log.Debug("Public IP is %s", publicIP)

	result := &Result{
		Domain:   u.domain,
		RecordIP: record.IP,
		PublicIP: publicIP,
	}

	if record.IP == publicIP {
		return result, nil
	}

	u.log.Change(record.IP, publicIP)

	result.Updated = true
	if opts.DryRun {
		return result, nil
	}

	if err := u.client.UpdateRecord(ctx, record.ID, publicIP); err != nil {
		return nil, err
	}

	return result, nil
}
